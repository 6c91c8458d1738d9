package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-paramform/internal/schema/loader"
	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/schema"
)

const maxResponseBytes = 4 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithToken authenticates requests with a Girder-Token header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout caps each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the job-execution server. Task paths are relative to the
// base URL ("slicer_cli_web/<image>/<cli>").
type Client struct {
	base    string
	http    *http.Client
	token   string
	timeout time.Duration
	logger  *slog.Logger
	loader  schema.Loader
}

// New returns a Client for the server rooted at base.
func New(base string, opts ...Option) (*Client, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("submit: invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("submit: unsupported scheme %q", parsed.Scheme)
	}

	c := &Client{
		base:   strings.TrimRight(parsed.String(), "/"),
		http:   http.DefaultClient,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("component", "submit")
	c.loader = loader.New(schema.NewLoaderOptions(
		schema.WithHTTPClient(c.http),
		schema.WithHTTPFallback(c.timeout),
		schema.WithToken(c.token),
		schema.WithMaxBytes(maxResponseBytes),
	))
	return c, nil
}

// Base returns the server base URL.
func (c *Client) Base() string { return c.base }

// Loader returns a schema.Loader that reads through this client's transport
// and credentials.
func (c *Client) Loader() schema.Loader { return c.loader }

// SchemaSource returns the source of a task's execution-model description.
func (c *Client) SchemaSource(task string) (schema.Source, error) {
	if strings.Trim(task, "/ ") == "" {
		return nil, ErrNoTask
	}
	return schema.SourceFromTask(c.base, task), nil
}

// FetchSchema downloads "<task>/xmlspec".
func (c *Client) FetchSchema(ctx context.Context, task string) (schema.Document, error) {
	src, err := c.SchemaSource(task)
	if err != nil {
		return schema.Document{}, err
	}
	c.logger.Debug("fetching schema", "url", src.Location())
	doc, err := c.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("submit: fetch schema: %w", err)
	}
	return doc, nil
}

// Submit posts payload to "<task>/run" as form-encoded parameters and returns
// the created job.
func (c *Client) Submit(ctx context.Context, task string, payload model.Payload) (Job, error) {
	if strings.Trim(task, "/ ") == "" {
		return Job{}, ErrNoTask
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := schema.TaskURL(c.base, task, "run")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return Job{}, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(schema.TokenHeader, c.token)
	}

	c.logger.Info("submitting job", "url", endpoint, "params", len(payload))
	resp, err := c.http.Do(req)
	if err != nil {
		return Job{}, fmt.Errorf("submit: post %s: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Job{}, fmt.Errorf("submit: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Job{}, decodeAPIError(resp.StatusCode, body)
	}

	job, err := decodeJob(body)
	if err != nil {
		return Job{}, err
	}
	c.logger.Info("job created", "id", job.ID, "status", job.Status.String())
	return job, nil
}

// SubmitCollections validates every collection and submits their merged
// payload. Nothing is sent when any param is invalid.
func (c *Client) SubmitCollections(ctx context.Context, task string, collections ...*model.Collection) (Job, error) {
	var invalid []string
	for _, collection := range collections {
		if collection == nil {
			continue
		}
		var verr *model.ValidationError
		if err := collection.Validate(); errors.As(err, &verr) {
			invalid = append(invalid, verr.Titles...)
		}
	}
	if len(invalid) > 0 {
		return Job{}, fmt.Errorf("%w: %w", ErrInvalidPayload, &model.ValidationError{Titles: invalid})
	}
	return c.Submit(ctx, task, model.Merge(collections...))
}

func decodeJob(body []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return Job{}, fmt.Errorf("submit: decode job: %w", err)
	}
	var extra map[string]any
	if err := json.Unmarshal(body, &extra); err == nil {
		for _, known := range []string{"_id", "title", "type", "handler", "status", "userId", "created", "updated"} {
			delete(extra, known)
		}
		if len(extra) > 0 {
			job.Extra = extra
		}
	}
	if job.ID == "" {
		return Job{}, errors.New("submit: response has no job id")
	}
	return job, nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = status
	return apiErr
}
