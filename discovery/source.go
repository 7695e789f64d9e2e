package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/gorilla/schema"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/broady/discogen/generr"
)

// DirectoryURL is the public discovery service used for api.version
// shorthands.
const DirectoryURL = "https://www.googleapis.com/discovery/v1/apis"

// maxDocumentSize bounds how much of a response or file is read.
const maxDocumentSize = 64 << 20

var shorthandPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9_-]*)\.(v[a-zA-Z0-9_.]+)$`)

// Source yields a parsed discovery document.
type Source interface {
	Load(ctx context.Context) (*Document, error)
	String() string
}

// FileSource reads a document from disk. An empty Path or "-" reads Stdin.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

func (s *FileSource) String() string {
	if s.Path == "" || s.Path == "-" {
		return "stdin"
	}
	return s.Path
}

// Load reads and parses the document.
func (s *FileSource) Load(ctx context.Context) (*Document, error) {
	var r io.Reader
	if s.Path == "" || s.Path == "-" {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, &generr.SourceError{Source: s.String(), Message: "cannot open", Err: err}
		}
		defer f.Close()
		r = f
	}
	if err := ctx.Err(); err != nil {
		return nil, &generr.SourceError{Source: s.String(), Message: "canceled", Err: err}
	}
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize))
	if err != nil {
		return nil, &generr.SourceError{Source: s.String(), Message: "read failed", Err: err}
	}
	return parse(s.String(), data)
}

// Query holds the optional query parameters sent to the discovery service.
type Query struct {
	Key         string `schema:"key,omitempty"`
	Fields      string `schema:"fields,omitempty"`
	PrettyPrint bool   `schema:"prettyPrint,omitempty"`
}

var queryEncoder = schema.NewEncoder()

// URLSource fetches a document over HTTP with retries.
type URLSource struct {
	URL   string
	Query Query

	client *http.Client
}

// Option configures a URLSource.
type Option func(*retryablehttp.Client)

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(n int) Option {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

// WithRetryWait sets the minimum and maximum wait between retries.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// WithLogger routes retry logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *retryablehttp.Client) {
		c.Logger = retryablehttp.LeveledLogger(LeveledSlog{inner: logger})
	}
}

// WithTransport replaces the underlying transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *retryablehttp.Client) {
		c.HTTPClient.Transport = rt
	}
}

// NewURLSource creates a URLSource. The client retries connection errors
// and 5xx responses, logging intermediate failures at WARN.
func NewURLSource(rawURL string, opts ...Option) *URLSource {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(LeveledSlog{inner: slog.Default().With("subsystem", "discovery")})
	for _, opt := range opts {
		opt(rc)
	}
	client := rc.StandardClient()
	client.Timeout = 30 * time.Second
	return &URLSource{URL: rawURL, client: client}
}

func (s *URLSource) String() string { return s.URL }

// RequestURL returns the URL with Query applied.
func (s *URLSource) RequestURL() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if err := queryEncoder.Encode(s.Query, q); err != nil {
		return "", err
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Load fetches and parses the document.
func (s *URLSource) Load(ctx context.Context) (*Document, error) {
	target, err := s.RequestURL()
	if err != nil {
		return nil, &generr.SourceError{Source: s.URL, Message: "invalid URL", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &generr.SourceError{Source: s.URL, Message: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	client := s.client
	if client == nil {
		client = NewURLSource(s.URL).client
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &generr.SourceError{Source: s.URL, Message: "fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &generr.SourceError{Source: s.URL, Message: fmt.Sprintf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &generr.SourceError{Source: s.URL, Message: "read failed", Err: err}
	}
	return parse(s.URL, data)
}

// ExpandURL expands an "api.version" shorthand (e.g. "storage.v1") into
// its discovery service URL. Anything else is returned unchanged.
func ExpandURL(s string) string {
	m := shorthandPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return DirectoryURL + "/" + url.PathEscape(m[1]) + "/" + url.PathEscape(m[2]) + "/rest"
}

// NewSource picks the source for an input file or a discovery URL. Exactly
// one of them may be set; neither means stdin.
func NewSource(infile, discoveryURL string, opts ...Option) (Source, error) {
	switch {
	case infile != "" && discoveryURL != "":
		return nil, generr.Config("infile", "cannot be combined with discovery_url")
	case discoveryURL != "":
		return NewURLSource(ExpandURL(discoveryURL), opts...), nil
	default:
		return &FileSource{Path: infile}, nil
	}
}

// LeveledSlog adapts slog to retryablehttp.LeveledLogger. Errors are logged
// at WARN since the request may still succeed on retry.
type LeveledSlog struct {
	inner *slog.Logger
}

func (l LeveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l LeveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}
