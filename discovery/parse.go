package discovery

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/broady/discogen/generr"
)

// Parameter locations.
const (
	LocationPath  = "path"
	LocationQuery = "query"
)

// pathParamPattern matches {name} and {+name} in a method path.
var pathParamPattern = regexp.MustCompile(`\{\+?([^}]+)\}`)

// Parse decodes and validates a discovery document.
func Parse(data []byte) (*Document, error) {
	return parse("document", data)
}

func parse(source string, data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &generr.SourceError{Source: source, Message: "malformed discovery JSON", Err: err}
	}
	if err := doc.validate(); err != nil {
		return nil, &generr.SourceError{Source: source, Message: "invalid discovery document", Err: err}
	}
	return &doc, nil
}

// validate checks the shape the pipeline relies on. It is not a general
// JSON-Schema validator.
func (d *Document) validate() error {
	if d.Name == "" {
		return fmt.Errorf("missing required key %q", "name")
	}
	if d.Version == "" {
		return fmt.Errorf("missing required key %q", "version")
	}
	for _, name := range sortedKeys(d.Parameters) {
		if err := validateParameter(name, d.Parameters[name], "global parameters"); err != nil {
			return err
		}
	}
	for _, id := range d.SchemaIDs() {
		if d.Schemas[id] == nil {
			return fmt.Errorf("schema %q is null", id)
		}
	}
	for _, name := range sortedKeys(d.Methods) {
		if err := validateMethod(name, d.Methods[name]); err != nil {
			return err
		}
	}
	for _, name := range d.ResourceNames() {
		if err := validateResource(name, d.Resources[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateResource(path string, r *Resource) error {
	if r == nil {
		return fmt.Errorf("resource %q is null", path)
	}
	for _, name := range r.MethodNames() {
		if err := validateMethod(path+"."+name, r.Methods[name]); err != nil {
			return err
		}
	}
	for _, name := range r.ResourceNames() {
		if err := validateResource(path+"."+name, r.Resources[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateMethod(name string, m *Method) error {
	if m == nil {
		return fmt.Errorf("method %q is null", name)
	}
	if m.HTTPMethod == "" {
		return fmt.Errorf("method %q: missing httpMethod", name)
	}
	if m.Path == "" {
		return fmt.Errorf("method %q: missing path", name)
	}
	for _, p := range m.ParameterNames() {
		if err := validateParameter(p, m.Parameters[p], "method "+name); err != nil {
			return err
		}
	}
	for _, p := range m.ParameterOrder {
		if _, ok := m.Parameters[p]; !ok {
			return fmt.Errorf("method %q: parameterOrder names unknown parameter %q", name, p)
		}
	}
	return nil
}

func validateParameter(name string, p *Schema, where string) error {
	if p == nil {
		return fmt.Errorf("%s: parameter %q is null", where, name)
	}
	switch p.Location {
	case LocationPath, LocationQuery:
		return nil
	default:
		return fmt.Errorf("%s: parameter %q has location %q (expected %q or %q)",
			where, name, p.Location, LocationPath, LocationQuery)
	}
}

// PathParams returns the parameter names referenced by a path template,
// in order of appearance.
func PathParams(path string) []string {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ParamsAt returns the names of the method parameters at location, sorted.
func (m *Method) ParamsAt(location string) []string {
	var out []string
	for name, p := range m.Parameters {
		if p.Location == location {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// OrderedPathParams returns the method's path parameters, parameterOrder
// entries first, then any remaining path parameters sorted by name.
func (m *Method) OrderedPathParams() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range m.ParameterOrder {
		if p := m.Parameters[name]; p != nil && p.Location == LocationPath && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range m.ParamsAt(LocationPath) {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// RequestRef returns the request body schema id, or "".
func (m *Method) RequestRef() string {
	if m.Request == nil {
		return ""
	}
	return strings.TrimSpace(m.Request.Ref)
}

// ResponseRef returns the response body schema id, or "".
func (m *Method) ResponseRef() string {
	if m.Response == nil {
		return ""
	}
	return strings.TrimSpace(m.Response.Ref)
}
