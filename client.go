// Package discogen is the runtime generated API clients build on. A Client
// sends Calls: it validates the request, expands the path template, encodes
// query parameters with gorilla/schema and the body as JSON, retries
// transient failures with go-retryablehttp, and decodes the response or an
// *Error.
package discogen

import (
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	validate      = newValidator()
	schemaEncoder = schema.NewEncoder()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"schema", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	return v
}

// Client sends calls to one API.
type Client struct {
	endpoint     string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       *slog.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	interceptors []Interceptor
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the retrying HTTP client. Calls made through it
// are not retried unless it retries itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint overrides the base URL method paths are resolved against.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithAPIKey sends key as the "key" query parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for retries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetry sets the retry count and backoff bounds.
func WithRetry(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = max
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithInterceptor adds an interceptor. The first one added runs first.
func WithInterceptor(i Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, i)
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:     baseURL,
		logger:       slog.Default(),
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		rc := retryablehttp.NewClient()
		rc.HTTPClient = cleanhttp.DefaultPooledClient()
		rc.RetryMax = c.retryMax
		rc.RetryWaitMin = c.retryWaitMin
		rc.RetryWaitMax = c.retryWaitMax
		rc.Logger = leveledSlog{c.logger}
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		c.httpClient = rc.StandardClient()
	}
	return c
}

// Endpoint returns the base URL method paths are resolved against.
func (c *Client) Endpoint() string { return c.endpoint }

// resolve joins a relative method path to the endpoint. Absolute paths
// (upload paths) replace the endpoint's path.
func (c *Client) resolve(p string) (*url.URL, error) {
	base, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, Errorf(CodeInvalidArgument, "invalid endpoint %q: %v", c.endpoint, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if !strings.HasPrefix(p, "/") {
		// Keep a leading "name:" segment from parsing as a scheme.
		p = "./" + p
	}
	ref, err := url.Parse(p)
	if err != nil {
		return nil, Errorf(CodeInvalidArgument, "invalid path %q: %v", p, err)
	}
	return base.ResolveReference(ref), nil
}

// leveledSlog adapts slog to retryablehttp.LeveledLogger.
type leveledSlog struct {
	l *slog.Logger
}

func (s leveledSlog) Error(msg string, keysAndValues ...any) { s.l.Error(msg, keysAndValues...) }
func (s leveledSlog) Warn(msg string, keysAndValues ...any)  { s.l.Warn(msg, keysAndValues...) }
func (s leveledSlog) Info(msg string, keysAndValues ...any)  { s.l.Debug(msg, keysAndValues...) }
func (s leveledSlog) Debug(msg string, keysAndValues ...any) { s.l.Debug(msg, keysAndValues...) }
