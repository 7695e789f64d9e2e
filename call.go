package discogen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"

	"github.com/goccy/go-json"
)

// Call describes one API request. Generated service methods fill it in;
// Path and PathParams are required, everything else is optional.
type Call struct {
	// MethodID is the discovery method id, e.g. "storage.buckets.get".
	MethodID string

	// HTTPMethod is the HTTP verb.
	HTTPMethod string

	// Path is the path template relative to the endpoint.
	Path string

	// PathParams holds the value of each template variable.
	PathParams map[string]string

	// Params is a struct whose schema-tagged fields become query
	// parameters. It is validated before the request is sent.
	Params any

	// Body is sent as JSON. It is validated before the request is sent.
	Body any

	// Response receives the decoded JSON response, if non-nil.
	Response any

	// UploadPath, Media and MediaType describe a simple media upload.
	// With a Body, the request is multipart/related.
	UploadPath string
	Media      io.Reader
	MediaType  string
}

// CallOption adjusts one call.
type CallOption func(*callOptions)

type callOptions struct {
	params []any
	query  url.Values
	header http.Header
}

// WithParams adds the schema-tagged fields of v as query parameters.
func WithParams(v any) CallOption {
	return func(o *callOptions) {
		o.params = append(o.params, v)
	}
}

// WithQuery sets a query parameter.
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		o.query.Set(key, value)
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		o.header.Set(key, value)
	}
}

func newCallOptions(opts []CallOption) *callOptions {
	o := &callOptions{query: url.Values{}, header: http.Header{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Do sends call through the interceptors and decodes the response into
// call.Response. Non-2xx responses return an *Error.
func (c *Client) Do(ctx context.Context, call *Call, opts ...CallOption) error {
	o := newCallOptions(opts)
	invoke := func(ctx context.Context, call *Call) error {
		resp, err := c.send(ctx, call, o, false)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return decodeResponse(resp, call.Response)
	}
	return c.intercept(ctx, call, invoke)
}

// Download sends call with alt=media and returns the response for the
// caller to read and close. Non-2xx responses return an *Error.
func (c *Client) Download(ctx context.Context, call *Call, opts ...CallOption) (*http.Response, error) {
	o := newCallOptions(opts)
	var resp *http.Response
	invoke := func(ctx context.Context, call *Call) error {
		var err error
		resp, err = c.send(ctx, call, o, true)
		return err
	}
	if err := c.intercept(ctx, call, invoke); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) intercept(ctx context.Context, call *Call, invoke Invoker) error {
	ctx = newContext(ctx, call)
	if chain := chainInterceptors(c.interceptors); chain != nil {
		return chain(ctx, call, invoke)
	}
	return invoke(ctx, call)
}

// send builds and sends the request. The response is returned only for
// 2xx statuses.
func (c *Client) send(ctx context.Context, call *Call, o *callOptions, download bool) (*http.Response, error) {
	req, err := c.newRequest(ctx, call, o, download)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %w", call.MethodID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, call *Call, o *callOptions, download bool) (*http.Request, error) {
	params := present(call.Params)
	body := present(call.Body)
	for _, v := range []any{params, body} {
		if v == nil || !isStruct(v) {
			continue
		}
		if err := validate.StructCtx(ctx, v); err != nil {
			return nil, validationError(err)
		}
	}

	template := call.Path
	upload := call.Media != nil
	if upload {
		if call.UploadPath == "" {
			return nil, Errorf(CodeInvalidArgument, "%s does not support media upload", call.MethodID)
		}
		template = call.UploadPath
	}
	p, err := Expand(template, call.PathParams)
	if err != nil {
		return nil, err
	}
	u, err := c.resolve(p)
	if err != nil {
		return nil, err
	}

	query := u.Query()
	for _, v := range append([]any{params}, o.params...) {
		if err := encodeQuery(v, query); err != nil {
			return nil, err
		}
	}
	for k, vs := range o.query {
		query[k] = vs
	}
	if c.apiKey != "" && query.Get("key") == "" {
		query.Set("key", c.apiKey)
	}
	if download {
		query.Set("alt", "media")
	}

	var reader io.Reader
	var contentType string
	switch {
	case upload && body != nil:
		query.Set("uploadType", "multipart")
		reader, contentType, err = multipartBody(body, call.Media, call.MediaType)
	case upload:
		query.Set("uploadType", "media")
		reader, contentType = call.Media, call.MediaType
	case body != nil:
		var data []byte
		data, err = json.Marshal(body)
		reader, contentType = bytes.NewReader(data), "application/json"
	}
	if err != nil {
		return nil, fmt.Errorf("%s: encode body: %w", call.MethodID, err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, call.HTTPMethod, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range o.header {
		req.Header[k] = vs
	}
	return req, nil
}

// present returns v, or nil if v is a nil pointer, map or slice.
func present(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// encodeQuery adds the schema-tagged fields of v to query. Non-struct
// values are ignored.
func encodeQuery(v any, query url.Values) error {
	v = present(v)
	if v == nil || !isStruct(v) {
		return nil
	}
	values := map[string][]string{}
	if err := schemaEncoder.Encode(v, values); err != nil {
		return Errorf(CodeInvalidArgument, "encode query: %v", err)
	}
	for k, vs := range values {
		query[k] = vs
	}
	return nil
}

func multipartBody(body any, media io.Reader, mediaType string) (io.Reader, string, error) {
	meta, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", err
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	part, err = w.CreatePart(textproto.MIMEHeader{"Content-Type": {mediaType}})
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, media); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, "multipart/related; boundary=" + w.Boundary(), nil
}

func decodeResponse(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
