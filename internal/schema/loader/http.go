package loader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

type httpOptions struct {
	timeout  time.Duration
	header   http.Header
	maxBytes int64
}

func loadHTTP(ctx context.Context, client *http.Client, url string, opts httpOptions) ([]byte, error) {
	if client == nil {
		return nil, errors.New("schema loader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("schema loader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if opts.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for name, values := range opts.header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("schema loader: unexpected status " + resp.Status)
	}

	body := io.Reader(resp.Body)
	if opts.maxBytes > 0 {
		body = io.LimitReader(resp.Body, opts.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return checkSize(data, opts.maxBytes)
}
