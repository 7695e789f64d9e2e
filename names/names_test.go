package names

import (
	"errors"
	"testing"

	"github.com/broady/discogen/generr"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Foo", "Foo"},
		{"foo_bar", "foo_bar"},
		{"foo-bar", "foo_bar"},
		{"$.xgafv", "__xgafv"},
		{"2fa", "X2fa"},
		{"type", "type_"},
		{"func", "func_"},
		{"", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolver_TypeName(t *testing.T) {
	tests := []struct {
		name       string
		convention Convention
		strip      []string
		input      string
		want       string
	}{
		{"default snake", ConventionDefault, nil, "foo_bar", "FooBar"},
		{"default camel", ConventionDefault, nil, "fooBar", "FooBar"},
		{"default lower", ConventionDefault, nil, "foo", "Foo"},
		{"lower_camel keeps pascal types", ConventionLowerCamel, nil, "foo", "Foo"},
		{"lower_with_under", ConventionLowerWithUnder, nil, "Foo", "foo"},
		{"lower_with_under camel", ConventionLowerWithUnder, nil, "FooBar", "foo_bar"},
		{"lower_with_under predeclared", ConventionLowerWithUnder, nil, "String", "string_"},
		{"none", ConventionNone, nil, "foo-bar", "foo_bar"},
		{"strip prefix", ConventionDefault, []string{"Api"}, "ApiWidget", "Widget"},
		{"strip prefix is not the whole name", ConventionDefault, []string{"Api"}, "Api", "Api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(Options{Convention: tt.convention, StripPrefixes: tt.strip})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := r.TypeName(tt.input); got != tt.want {
				t.Errorf("TypeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolver_FieldName(t *testing.T) {
	tests := []struct {
		convention Convention
		input      string
		want       string
	}{
		{ConventionDefault, "max_results", "MaxResults"},
		{ConventionDefault, "id", "Id"},
		{ConventionLowerCamel, "max_results", "maxResults"},
		{ConventionLowerWithUnder, "maxResults", "max_results"},
		{ConventionNone, "maxResults", "maxResults"},
		{ConventionNone, "type", "type_"},
	}

	for _, tt := range tests {
		t.Run(string(tt.convention)+"/"+tt.input, func(t *testing.T) {
			r, err := New(Options{Convention: tt.convention})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := r.FieldName(tt.input); got != tt.want {
				t.Errorf("FieldName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolver_FlagAndCommandNames(t *testing.T) {
	r := Default()

	flags := map[string]string{
		"maxResults": "max-results",
		"id":         "id",
		"fields":     "fields",
		"page_token": "page-token",
		"$.xgafv":    "xgafv",
	}
	for input, want := range flags {
		if got := r.FlagName(input); got != want {
			t.Errorf("FlagName(%q) = %q, want %q", input, got, want)
		}
	}

	if got := r.CommandName("items", "get"); got != "items-get" {
		t.Errorf("CommandName(items, get) = %q, want %q", got, "items-get")
	}
	if got := r.CommandName("projects.zones", "list"); got != "projects-zones-list" {
		t.Errorf("CommandName(projects.zones, list) = %q, want %q", got, "projects-zones-list")
	}
	if got := r.CommandName("", "ping"); got != "ping" {
		t.Errorf("CommandName(\"\", ping) = %q, want %q", got, "ping")
	}
}

func TestResolver_EnumValue(t *testing.T) {
	plain := Default()
	if got := plain.EnumValue("active"); got != "active" {
		t.Errorf("EnumValue(active) = %q, want %q", got, "active")
	}

	caps, err := New(Options{CapitalizeEnums: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := caps.EnumValue("active"); got != "ACTIVE" {
		t.Errorf("EnumValue(active) = %q, want %q", got, "ACTIVE")
	}
	if got := caps.EnumValue("in-progress"); got != "IN_PROGRESS" {
		t.Errorf("EnumValue(in-progress) = %q, want %q", got, "IN_PROGRESS")
	}
}

func TestResolver_PackageName(t *testing.T) {
	r := Default()
	tests := map[string]string{
		"storage":   "storage",
		"Big-Query": "bigquery",
		"2fa":       "api2fa",
		"":          "api",
	}
	for input, want := range tests {
		if got := r.PackageName(input); got != want {
			t.Errorf("PackageName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNew_UnknownConvention(t *testing.T) {
	_, err := New(Options{Convention: "SHOUTING"})
	if err == nil {
		t.Fatal("New() should reject unknown convention")
	}
	var cfgErr *generr.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %T, want *generr.ConfigurationError", err)
	}
	if cfgErr.Field != "name_convention" {
		t.Errorf("Field = %q, want %q", cfgErr.Field, "name_convention")
	}
}

func TestResolver_Deterministic(t *testing.T) {
	inputs := []string{"foo_bar", "fooBar", "FooBar", "foo.bar", "Foo2Bar"}
	a, _ := New(Options{Convention: ConventionLowerCamel})
	b, _ := New(Options{Convention: ConventionLowerCamel})
	for _, in := range inputs {
		if a.TypeName(in) != b.TypeName(in) || a.FieldName(in) != b.FieldName(in) {
			t.Errorf("resolvers disagree on %q", in)
		}
	}
}
