package discovery_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/generr"
	"github.com/broady/discogen/internal/testfixtures"
)

func TestParse_Storage(t *testing.T) {
	doc := testfixtures.Document(t, testfixtures.Storage)

	if doc.Name != "storage" || doc.Version != "v1" {
		t.Errorf("Name/Version = %q/%q, want storage/v1", doc.Name, doc.Version)
	}
	if doc.RootURL != "https://storage.example.com/" {
		t.Errorf("RootURL = %q", doc.RootURL)
	}

	wantSchemas := []string{
		"AuditedObject", "Bucket", "Buckets", "Notification", "Object",
		"ObjectAccessControl", "ObjectAccessControls", "Owner", "Principal",
	}
	if got := doc.SchemaIDs(); !reflect.DeepEqual(got, wantSchemas) {
		t.Errorf("SchemaIDs() = %v, want %v", got, wantSchemas)
	}
	if got := doc.ResourceNames(); !reflect.DeepEqual(got, []string{"buckets", "objects", "operations"}) {
		t.Errorf("ResourceNames() = %v", got)
	}
	if !doc.Resources["operations"].IsEmpty() {
		t.Error("operations should be empty")
	}

	bucket := doc.Schemas["Bucket"]
	if !bucket.IsObject() {
		t.Error("Bucket should be an object")
	}
	if got := len(bucket.Properties); got != 8 {
		t.Errorf("len(Bucket.Properties) = %d, want 8", got)
	}
	if got := bucket.Properties["name"].Annotations.Required; !reflect.DeepEqual(got, []string{"storage.buckets.insert"}) {
		t.Errorf("name annotations = %v", got)
	}

	insert := doc.Resources["objects"].Methods["insert"]
	if insert.MediaUpload == nil || insert.MediaUpload.Protocols.Simple == nil {
		t.Fatal("objects.insert should carry media upload config")
	}
	if got := insert.MediaUpload.Protocols.Simple.Path; got != "/upload/storage/v1/b/{bucket}/o" {
		t.Errorf("simple upload path = %q", got)
	}
	if insert.RequestRef() != "Object" || insert.ResponseRef() != "Object" {
		t.Errorf("objects.insert refs = %q/%q", insert.RequestRef(), insert.ResponseRef())
	}

	scopes := doc.ScopeNames()
	if len(scopes) != 2 || !strings.HasSuffix(scopes[0], "full_control") {
		t.Errorf("ScopeNames() = %v", scopes)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"malformed", `{"name": `, "malformed"},
		{"missing name", `{"version": "v1"}`, `"name"`},
		{"missing version", `{"name": "x"}`, `"version"`},
		{
			"bad global location",
			`{"name":"x","version":"v1","parameters":{"alt":{"type":"string","location":"header"}}}`,
			`location "header"`,
		},
		{
			"missing http method",
			`{"name":"x","version":"v1","methods":{"ping":{"path":"ping"}}}`,
			"missing httpMethod",
		},
		{
			"unknown parameterOrder entry",
			`{"name":"x","version":"v1","resources":{"r":{"methods":{"get":{"path":"r/{id}","httpMethod":"GET","parameterOrder":["id"]}}}}}`,
			`unknown parameter "id"`,
		},
		{
			"null resource",
			`{"name":"x","version":"v1","resources":{"r":null}}`,
			`resource "r" is null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := discovery.Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			var srcErr *generr.SourceError
			if !errors.As(err, &srcErr) {
				t.Fatalf("error = %T, want *generr.SourceError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPathParams(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"items", []string{}},
		{"items/{id}", []string{"id"}},
		{"b/{bucket}/o/{+object}", []string{"bucket", "object"}},
		{"v1/{+name}:cancel", []string{"name"}},
	}
	for _, tt := range tests {
		if got := discovery.PathParams(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PathParams(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMethod_OrderedPathParams(t *testing.T) {
	m := &discovery.Method{
		Parameters: map[string]*discovery.Schema{
			"zone":    {Location: discovery.LocationPath},
			"project": {Location: discovery.LocationPath},
			"name":    {Location: discovery.LocationPath},
			"filter":  {Location: discovery.LocationQuery},
		},
		ParameterOrder: []string{"project", "zone"},
	}
	want := []string{"project", "zone", "name"}
	if got := m.OrderedPathParams(); !reflect.DeepEqual(got, want) {
		t.Errorf("OrderedPathParams() = %v, want %v", got, want)
	}
	if got := m.ParamsAt(discovery.LocationQuery); !reflect.DeepEqual(got, []string{"filter"}) {
		t.Errorf("ParamsAt(query) = %v", got)
	}
}
