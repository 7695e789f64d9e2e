// Package testutil provides a fake Google-style API server for testing
// generated discogen clients. It does not import discogen, so it can be used
// from any package.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// Request is a recorded request received by a Server.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Responder writes the response for a matched route.
type Responder func(w http.ResponseWriter, r *Request)

// Server is an httptest server with method and path routing.
// Paths are matched against the escaped request path.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Responder
	requests []Request
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]Responder)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers a responder for a method and path.
func (s *Server) Handle(method, path string, responder Responder) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = responder
	return s
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, failing the test if there is none.
func (s *Server) LastRequest(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("expected at least one request")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	responder, ok := s.routes[req.Method+" "+req.Path]
	s.mu.Unlock()

	if !ok {
		responder = Error(http.StatusNotFound, "no route for "+req.Method+" "+req.Path, "notFound")
	}
	responder(w, &req)
}

// JSON responds with v encoded as JSON.
func JSON(status int, v any) Responder {
	return func(w http.ResponseWriter, r *Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Raw responds with a fixed body and content type.
func Raw(status int, contentType, body string) Responder {
	return func(w http.ResponseWriter, r *Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ErrorBody is the Google API error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the inner error of an ErrorBody.
type ErrorDetail struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorReason `json:"errors,omitempty"`
}

// ErrorReason is one entry of ErrorDetail.Errors.
type ErrorReason struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Error responds with a Google API error envelope.
func Error(status int, message, reason string) Responder {
	body := ErrorBody{Error: ErrorDetail{Code: status, Message: message}}
	if reason != "" {
		body.Error.Errors = []ErrorReason{{Reason: reason, Message: message}}
	}
	return JSON(status, body)
}

// AssertQuery checks that a query parameter has the expected value.
func AssertQuery(t testing.TB, req Request, key, expected string) {
	t.Helper()
	if got := req.Query.Get(key); got != expected {
		t.Errorf("expected query %s=%q, got %q", key, expected, got)
	}
}

// AssertHeader checks that a request header has the expected value.
func AssertHeader(t testing.TB, req Request, key, expected string) {
	t.Helper()
	if got := req.Header.Get(key); got != expected {
		t.Errorf("expected header %s=%q, got %q", key, expected, got)
	}
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(t testing.TB, req Request, v any) {
	t.Helper()
	if err := json.Unmarshal(req.Body, v); err != nil {
		t.Fatalf("failed to decode request body: %v\nBody: %s", err, req.Body)
	}
}
