package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches analysis descriptions from different sources (filesystem,
// fs.FS, HTTP). Implementations live under internal/schema but satisfy this
// contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, src Source) (Document, error)

// Load calls the underlying function.
func (fn LoaderFunc) Load(ctx context.Context, src Source) (Document, error) {
	return fn(ctx, src)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless AllowHTTPFallback is
	// true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles the default HTTP loader when no client is
	// supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// Header is sent with every HTTP request (for example Girder-Token).
	Header http.Header

	// MaxBytes limits the document size; zero means unlimited.
	MaxBytes int64
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for SourceKindFS paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithHeader adds a header to every HTTP request.
func WithHeader(name, value string) LoaderOption {
	return func(opts *LoaderOptions) {
		if name == "" {
			return
		}
		if opts.Header == nil {
			opts.Header = make(http.Header)
		}
		opts.Header.Set(name, value)
	}
}

// WithToken authenticates HTTP requests with a Girder-Token header.
func WithToken(token string) LoaderOption {
	return func(opts *LoaderOptions) {
		if token != "" {
			WithHeader(TokenHeader, token)(opts)
		}
	}
}

// WithMaxBytes caps the accepted document size.
func WithMaxBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxBytes = limit
	}
}

// TokenHeader carries the job server authentication token.
const TokenHeader = "Girder-Token"

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
