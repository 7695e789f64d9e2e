package testutil_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/broady/discogen"
	"github.com/broady/discogen/testutil"
)

type bucket struct {
	Name  string `json:"name,omitempty"`
	Owner string `json:"owner,omitempty"`
}

type bucketsGetRequest struct {
	Bucket     string `json:"-" schema:"-" validate:"required"`
	Projection string `json:"-" schema:"projection,omitempty"`
}

type bucketsInsertRequest struct {
	Project string  `json:"-" schema:"project" validate:"required"`
	Bucket  *bucket `json:"bucket,omitempty" schema:"-"`
}

func newClient(srv *testutil.Server) *discogen.Client {
	return discogen.NewClient(srv.URL+"/storage/v1/", discogen.WithRetry(0, time.Millisecond, time.Millisecond))
}

func TestServer_RoutesJSON(t *testing.T) {
	srv := testutil.NewServer(t).
		Handle(http.MethodGet, "/storage/v1/b/b1", testutil.JSON(http.StatusOK, bucket{Name: "b1", Owner: "me"}))

	var got bucket
	req := &bucketsGetRequest{Bucket: "b1", Projection: "full"}
	err := newClient(srv).Do(context.Background(), &discogen.Call{
		MethodID:   "storage.buckets.get",
		HTTPMethod: http.MethodGet,
		Path:       "b/{bucket}",
		PathParams: map[string]string{"bucket": req.Bucket},
		Params:     req,
		Response:   &got,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "b1" || got.Owner != "me" {
		t.Errorf("unexpected response: %+v", got)
	}

	last := srv.LastRequest(t)
	testutil.AssertQuery(t, last, "projection", "full")
	if last.Method != http.MethodGet {
		t.Errorf("expected GET, got %s", last.Method)
	}
}

func TestServer_RecordsBody(t *testing.T) {
	srv := testutil.NewServer(t).
		Handle(http.MethodPost, "/storage/v1/b", testutil.JSON(http.StatusOK, bucket{Name: "new"}))

	req := &bucketsInsertRequest{Project: "p1", Bucket: &bucket{Name: "new"}}
	err := newClient(srv).Do(context.Background(), &discogen.Call{
		MethodID:   "storage.buckets.insert",
		HTTPMethod: http.MethodPost,
		Path:       "b",
		Params:     req,
		Body:       req.Bucket,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := srv.LastRequest(t)
	testutil.AssertQuery(t, last, "project", "p1")
	testutil.AssertHeader(t, last, "Content-Type", "application/json")

	var sent bucket
	testutil.DecodeJSON(t, last, &sent)
	if sent.Name != "new" {
		t.Errorf("expected body name new, got %q", sent.Name)
	}
	if n := len(srv.Requests()); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestServer_ErrorEnvelope(t *testing.T) {
	srv := testutil.NewServer(t).
		Handle(http.MethodGet, "/storage/v1/b/b1", testutil.Error(http.StatusForbidden, "no access", "forbidden"))

	err := newClient(srv).Do(context.Background(), &discogen.Call{
		MethodID:   "storage.buckets.get",
		HTTPMethod: http.MethodGet,
		Path:       "b/{bucket}",
		PathParams: map[string]string{"bucket": "b1"},
	})
	if discogen.CodeOf(err) != discogen.CodePermissionDenied {
		t.Fatalf("expected %s, got %v", discogen.CodePermissionDenied, err)
	}
	e := err.(*discogen.Error)
	if e.Message != "no access" {
		t.Errorf("expected envelope message, got %q", e.Message)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := testutil.NewServer(t)

	err := newClient(srv).Do(context.Background(), &discogen.Call{
		MethodID:   "storage.buckets.list",
		HTTPMethod: http.MethodGet,
		Path:       "b",
	})
	if discogen.CodeOf(err) != discogen.CodeNotFound {
		t.Errorf("expected %s, got %v", discogen.CodeNotFound, err)
	}
}

func TestServer_Raw(t *testing.T) {
	srv := testutil.NewServer(t).
		Handle(http.MethodGet, "/storage/v1/b/b1/o/a.txt", testutil.Raw(http.StatusOK, "text/plain", "hello"))

	resp, err := newClient(srv).Download(context.Background(), &discogen.Call{
		MethodID:   "storage.objects.get",
		HTTPMethod: http.MethodGet,
		Path:       "b/{bucket}/o/{+object}",
		PathParams: map[string]string{"bucket": "b1", "object": "a.txt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Errorf("expected text/plain, got %s", ct)
	}
	testutil.AssertQuery(t, srv.LastRequest(t), "alt", "media")
}
