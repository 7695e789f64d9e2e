// Package discovery holds the typed model of a discovery document and the
// sources it can be read from.
//
// Documents are validated when parsed; a Document that Parse returned is
// never mutated by the rest of the pipeline.
package discovery

import "sort"

// Document is the root of a discovery document.
type Document struct {
	Kind              string               `json:"kind"`
	DiscoveryVersion  string               `json:"discoveryVersion"`
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Version           string               `json:"version"`
	Revision          string               `json:"revision"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	DocumentationLink string               `json:"documentationLink"`
	CanonicalName     string               `json:"canonicalName"`
	OwnerDomain       string               `json:"ownerDomain"`
	RootURL           string               `json:"rootUrl"`
	ServicePath       string               `json:"servicePath"`
	BaseURL           string               `json:"baseUrl"`
	BasePath          string               `json:"basePath"`
	BatchPath         string               `json:"batchPath"`
	Protocol          string               `json:"protocol"`
	Parameters        map[string]*Schema   `json:"parameters"`
	Auth              Auth                 `json:"auth"`
	Schemas           map[string]*Schema   `json:"schemas"`
	Resources         map[string]*Resource `json:"resources"`
	Methods           map[string]*Method   `json:"methods"`
}

// Auth describes the authentication section.
type Auth struct {
	OAuth2 OAuth2 `json:"oauth2"`
}

// OAuth2 lists the declared OAuth scopes.
type OAuth2 struct {
	Scopes map[string]ScopeInfo `json:"scopes"`
}

// ScopeInfo describes one OAuth scope.
type ScopeInfo struct {
	Description string `json:"description"`
}

// Schema is a JSON-Schema-like type definition. It is also used for
// parameters, which add Location, Repeated and Required.
type Schema struct {
	ID                   string             `json:"id"`
	Type                 string             `json:"type"`
	Ref                  string             `json:"$ref"`
	Description          string             `json:"description"`
	Format               string             `json:"format"`
	Location             string             `json:"location"`
	Required             bool               `json:"required"`
	Repeated             bool               `json:"repeated"`
	Default              string             `json:"default"`
	Pattern              string             `json:"pattern"`
	Minimum              string             `json:"minimum"`
	Maximum              string             `json:"maximum"`
	Enum                 []string           `json:"enum"`
	EnumDescriptions     []string           `json:"enumDescriptions"`
	Properties           map[string]*Schema `json:"properties"`
	AdditionalProperties *Schema            `json:"additionalProperties"`
	Items                *Schema            `json:"items"`
	AllOf                []*Schema          `json:"allOf"`
	Deprecated           bool               `json:"deprecated"`
	ReadOnly             bool               `json:"readOnly"`
	Annotations          Annotations        `json:"annotations"`
}

// Annotations carries per-method requirements attached to a property.
type Annotations struct {
	Required []string `json:"required"`
}

// IsObject reports whether the schema describes a JSON object.
func (s *Schema) IsObject() bool {
	return s.Type == "object" || (s.Type == "" && (len(s.Properties) > 0 || s.AdditionalProperties != nil))
}

// PropertyNames returns the property names, sorted.
func (s *Schema) PropertyNames() []string {
	return sortedKeys(s.Properties)
}

// Resource groups methods and nested resources.
type Resource struct {
	Methods   map[string]*Method   `json:"methods"`
	Resources map[string]*Resource `json:"resources"`
}

// MethodNames returns the method names, sorted.
func (r *Resource) MethodNames() []string {
	return sortedKeys(r.Methods)
}

// ResourceNames returns the nested resource names, sorted.
func (r *Resource) ResourceNames() []string {
	return sortedKeys(r.Resources)
}

// IsEmpty reports whether the resource has neither methods nor children.
func (r *Resource) IsEmpty() bool {
	return len(r.Methods) == 0 && len(r.Resources) == 0
}

// Method is one API operation.
type Method struct {
	ID                      string             `json:"id"`
	Path                    string             `json:"path"`
	FlatPath                string             `json:"flatPath"`
	HTTPMethod              string             `json:"httpMethod"`
	Description             string             `json:"description"`
	Parameters              map[string]*Schema `json:"parameters"`
	ParameterOrder          []string           `json:"parameterOrder"`
	Request                 *SchemaRef         `json:"request"`
	Response                *SchemaRef         `json:"response"`
	Scopes                  []string           `json:"scopes"`
	SupportsMediaUpload     bool               `json:"supportsMediaUpload"`
	SupportsMediaDownload   bool               `json:"supportsMediaDownload"`
	UseMediaDownloadService bool               `json:"useMediaDownloadService"`
	MediaUpload             *MediaUpload       `json:"mediaUpload"`
	Deprecated              bool               `json:"deprecated"`
}

// ParameterNames returns the parameter names, sorted.
func (m *Method) ParameterNames() []string {
	return sortedKeys(m.Parameters)
}

// SchemaRef points a method at its request or response body type.
type SchemaRef struct {
	Ref           string `json:"$ref"`
	ParameterName string `json:"parameterName"`
}

// MediaUpload describes upload support for a method.
type MediaUpload struct {
	Accept    []string        `json:"accept"`
	MaxSize   string          `json:"maxSize"`
	Protocols UploadProtocols `json:"protocols"`
}

// UploadProtocols holds the upload endpoints.
type UploadProtocols struct {
	Simple    *UploadProtocol `json:"simple"`
	Resumable *UploadProtocol `json:"resumable"`
}

// UploadProtocol is one upload endpoint.
type UploadProtocol struct {
	Multipart bool   `json:"multipart"`
	Path      string `json:"path"`
}

// SchemaIDs returns the schema ids, sorted.
func (d *Document) SchemaIDs() []string {
	return sortedKeys(d.Schemas)
}

// ResourceNames returns the top-level resource names, sorted.
func (d *Document) ResourceNames() []string {
	return sortedKeys(d.Resources)
}

// ScopeNames returns the declared OAuth scopes, sorted.
func (d *Document) ScopeNames() []string {
	return sortedKeys(d.Auth.OAuth2.Scopes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
