package discogen

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type objectsGetRequest struct {
	Bucket     string `json:"-" schema:"-" validate:"required"`
	Object     string `json:"-" schema:"-" validate:"required"`
	Projection string `json:"-" schema:"projection,omitempty"`
	Generation int64  `json:"-" schema:"generation,omitempty"`
}

type objectsInsertRequest struct {
	Bucket string  `json:"-" schema:"-" validate:"required"`
	Object *object `json:"object,omitempty" schema:"-"`
}

type standardParams struct {
	Fields string `json:"-" schema:"fields,omitempty"`
	Trace  string `json:"-" schema:"trace,omitempty"`
}

type object struct {
	Name string `json:"name,omitempty"`
	Size uint64 `json:"size,omitempty,string"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(quietLogger()), WithRetry(0, time.Millisecond, time.Millisecond)}, opts...)
	return NewClient(srv.URL+"/storage/v1/", opts...)
}

func getCall(req *objectsGetRequest, resp any) *Call {
	return &Call{
		MethodID:   "storage.objects.get",
		HTTPMethod: http.MethodGet,
		Path:       "b/{bucket}/o/{+object}",
		PathParams: map[string]string{"bucket": req.Bucket, "object": req.Object},
		Params:     req,
		Response:   resp,
	}
}

func TestClient_Do(t *testing.T) {
	assert := assert.New(t)
	var gotPath, gotUA string
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"dir/file 1","size":"1024"}`)
	}, WithAPIKey("secret"), WithUserAgent("storage-generated/0.1"))

	var resp object
	req := &objectsGetRequest{Bucket: "b 1", Object: "dir/file 1", Projection: "full"}
	err := client.Do(context.Background(), getCall(req, &resp), WithParams(&standardParams{Fields: "name,size"}))
	require.NoError(t, err)

	assert.Equal("/storage/v1/b/b%201/o/dir/file%201", gotPath)
	assert.Equal([]string{"full"}, gotQuery["projection"])
	assert.Equal([]string{"name,size"}, gotQuery["fields"])
	assert.Equal([]string{"secret"}, gotQuery["key"])
	assert.NotContains(gotQuery, "generation")
	assert.NotContains(gotQuery, "trace")
	assert.NotContains(gotQuery, "bucket")
	assert.Equal("storage-generated/0.1", gotUA)

	assert.Equal("dir/file 1", resp.Name)
	assert.Equal(uint64(1024), resp.Size)
}

func TestClient_Do_QueryAndHeaderOptions(t *testing.T) {
	var gotKey, gotHeader string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotHeader = r.Header.Get("X-Goog-User-Project")
		w.WriteHeader(http.StatusNoContent)
	}, WithAPIKey("default"))

	err := client.Do(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, &object{}),
		WithQuery("key", "override"),
		WithHeader("X-Goog-User-Project", "billing"),
	)
	require.NoError(t, err)
	assert.Equal(t, "override", gotKey)
	assert.Equal(t, "billing", gotHeader)
}

func TestClient_Do_JSONBody(t *testing.T) {
	var got object
	var contentType, method string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)
		_, _ = w.Write(data)
	})

	req := &objectsInsertRequest{Bucket: "b1", Object: &object{Name: "new", Size: 7}}
	var resp object
	err := client.Do(context.Background(), &Call{
		MethodID:   "storage.objects.insert",
		HTTPMethod: http.MethodPost,
		Path:       "b/{bucket}/o",
		PathParams: map[string]string{"bucket": req.Bucket},
		Params:     req,
		Body:       req.Object,
		Response:   &resp,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, object{Name: "new", Size: 7}, got)
	assert.Equal(t, got, resp)
}

func TestClient_Do_ValidationError(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := client.Do(context.Background(), getCall(&objectsGetRequest{Object: "o"}, nil))
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	assert.False(t, called, "request must not be sent")
}

func TestClient_Do_MissingPathParam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	err := client.Do(context.Background(), &Call{MethodID: "x", HTTPMethod: "GET", Path: "items/{id}"})
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestClient_Do_ErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    ErrorCode
		message string
	}{
		{"envelope", 404, `{"error":{"code":404,"message":"No such object: b/o","status":"NOT_FOUND"}}`, CodeNotFound, "No such object: b/o"},
		{"forbidden", 403, `{"error":{"code":403,"message":"Access denied."}}`, CodePermissionDenied, "Access denied."},
		{"unavailable after retries", 503, "try later", CodeUnavailable, "try later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.Do(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, &object{}))
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_Do_Canceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, nil))
	assert.Equal(t, CodeCanceled, CodeOf(err))
}

func TestClient_Download(t *testing.T) {
	var alt string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		alt = r.URL.Query().Get("alt")
		_, _ = io.WriteString(w, "raw bytes")
	})

	resp, err := client.Download(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "media", alt)
	assert.Equal(t, "raw bytes", string(data))
}

func TestClient_Download_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})

	resp, err := client.Download(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, nil))
	assert.Nil(t, resp)
	assert.Equal(t, CodeGone, CodeOf(err))
}

func uploadCall(req *objectsInsertRequest, media io.Reader, mediaType string) *Call {
	return &Call{
		MethodID:   "storage.objects.insert",
		HTTPMethod: http.MethodPost,
		Path:       "b/{bucket}/o",
		PathParams: map[string]string{"bucket": req.Bucket},
		Params:     req,
		Body:       req.Object,
		Response:   &object{},
		UploadPath: "/upload/storage/v1/b/{bucket}/o",
		Media:      media,
		MediaType:  mediaType,
	}
}

func TestClient_Do_MultipartUpload(t *testing.T) {
	assert := assert.New(t)
	var path, uploadType string
	var parts []string
	var partTypes []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		uploadType = r.URL.Query().Get("uploadType")
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/related" {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(part)
			parts = append(parts, string(data))
			partTypes = append(partTypes, part.Header.Get("Content-Type"))
		}
		_, _ = io.WriteString(w, `{"name":"hello.txt"}`)
	})

	req := &objectsInsertRequest{Bucket: "b1", Object: &object{Name: "hello.txt"}}
	err := client.Do(context.Background(), uploadCall(req, strings.NewReader("hello"), "text/plain"))
	require.NoError(t, err)

	assert.Equal("/upload/storage/v1/b/b1/o", path)
	assert.Equal("multipart", uploadType)
	require.Len(t, parts, 2)
	assert.JSONEq(`{"name":"hello.txt"}`, parts[0])
	assert.Equal("hello", parts[1])
	assert.Equal([]string{"application/json; charset=UTF-8", "text/plain"}, partTypes)
}

func TestClient_Do_MediaUpload(t *testing.T) {
	var uploadType, contentType, body string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		uploadType = r.URL.Query().Get("uploadType")
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = io.WriteString(w, `{}`)
	})

	req := &objectsInsertRequest{Bucket: "b1"}
	err := client.Do(context.Background(), uploadCall(req, strings.NewReader("payload"), "application/octet-stream"))
	require.NoError(t, err)

	assert.Equal(t, "media", uploadType)
	assert.Equal(t, "application/octet-stream", contentType)
	assert.Equal(t, "payload", body)
}

func TestClient_Do_UploadNotSupported(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	call := getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, nil)
	call.Media = strings.NewReader("x")
	err := client.Do(context.Background(), call)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestClient_Interceptors(t *testing.T) {
	var order []string
	var seen *Call
	record := func(name string) Interceptor {
		return func(ctx context.Context, call *Call, next Invoker) error {
			order = append(order, name)
			if c, ok := CallFromContext(ctx); ok {
				seen = c
			}
			return next(ctx, call)
		}
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "server")
		_, _ = io.WriteString(w, `{}`)
	}, WithInterceptor(record("first")), WithInterceptor(record("second")))

	call := getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, &object{})
	require.NoError(t, client.Do(context.Background(), call))

	assert.Equal(t, []string{"first", "second", "server"}, order)
	assert.Same(t, call, seen)
}

func TestClient_InterceptorShortCircuit(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, WithInterceptor(func(ctx context.Context, call *Call, next Invoker) error {
		return NewError(CodePermissionDenied, "blocked")
	}))

	err := client.Do(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, nil))
	assert.Equal(t, CodePermissionDenied, CodeOf(err))
	assert.False(t, called)
}

func TestClient_WithEndpointAndHTTPClient(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient("https://storage.example.com/storage/v1/",
		WithEndpoint(srv.URL+"/custom/v1"),
		WithHTTPClient(srv.Client()),
	)
	assert.Equal(t, srv.URL+"/custom/v1", client.Endpoint())

	require.NoError(t, client.Do(context.Background(), getCall(&objectsGetRequest{Bucket: "b", Object: "o"}, &object{})))
	assert.Equal(t, "/custom/v1/b/b/o/o", path)
}

func TestClient_ResolveColonSegment(t *testing.T) {
	client := NewClient("https://example.com/api/v1/", WithLogger(quietLogger()))

	u, err := client.resolve("projects:search")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api/v1/projects:search", u.String())

	u, err = client.resolve("/upload/api/v1/files")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/upload/api/v1/files", u.String())
}
