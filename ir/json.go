package ir

import "github.com/goccy/go-json"

// JSON serialization support for IR types.
// All type descriptors include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for MessageDescriptor.
func (d *MessageDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		SchemaID string            `json:"schemaId"`
		Fields   []FieldDescriptor `json:"fields"`
		Extends  []string          `json:"extends,omitempty"`
		Doc      string            `json:"doc,omitempty"`
	}{
		Kind:     "message",
		Name:     d.Name,
		SchemaID: d.SchemaID,
		Fields:   d.Fields,
		Extends:  d.Extends,
		Doc:      d.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for AliasDescriptor.
func (d *AliasDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string         `json:"kind"`
		Name       string         `json:"name"`
		SchemaID   string         `json:"schemaId"`
		Underlying TypeDescriptor `json:"underlying"`
		Doc        string         `json:"doc,omitempty"`
	}{
		Kind:       "alias",
		Name:       d.Name,
		SchemaID:   d.SchemaID,
		Underlying: d.Underlying,
		Doc:        d.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for EnumDescriptor.
func (d *EnumDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string       `json:"kind"`
		Name     string       `json:"name"`
		SchemaID string       `json:"schemaId"`
		Members  []EnumMember `json:"members"`
		Doc      string       `json:"doc,omitempty"`
	}{
		Kind:     "enum",
		Name:     d.Name,
		SchemaID: d.SchemaID,
		Members:  d.Members,
		Doc:      d.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for PrimitiveDescriptor.
func (d *PrimitiveDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string `json:"kind"`
		PrimitiveKind string `json:"primitiveKind"`
		BitSize       int    `json:"bitSize,omitempty"`
	}{
		Kind:          "primitive",
		PrimitiveKind: d.PrimitiveKind.String(),
		BitSize:       d.BitSize,
	})
}

// MarshalJSON implements json.Marshaler for ArrayDescriptor.
func (d *ArrayDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string         `json:"kind"`
		Element TypeDescriptor `json:"element"`
	}{
		Kind:    "array",
		Element: d.Element,
	})
}

// MarshalJSON implements json.Marshaler for MapDescriptor.
func (d *MapDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string         `json:"kind"`
		Key   TypeDescriptor `json:"key"`
		Value TypeDescriptor `json:"value"`
	}{
		Kind:  "map",
		Key:   d.Key,
		Value: d.Value,
	})
}

// MarshalJSON implements json.Marshaler for ReferenceDescriptor.
func (d *ReferenceDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string `json:"kind"`
		Name     string `json:"name"`
		SchemaID string `json:"schemaId,omitempty"`
	}{
		Kind:     "reference",
		Name:     d.Target,
		SchemaID: d.SchemaID,
	})
}

// MarshalJSON implements json.Marshaler for FieldDescriptor.
func (f FieldDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name          string         `json:"name"`
		JSONName      string         `json:"jsonName"`
		Type          TypeDescriptor `json:"type"`
		Location      string         `json:"location,omitempty"`
		Required      bool           `json:"required,omitempty"`
		StringEncoded bool           `json:"stringEncoded,omitempty"`
		Default       string         `json:"default,omitempty"`
		Format        string         `json:"format,omitempty"`
		Number        int            `json:"number"`
		ValidateTag   string         `json:"validateTag,omitempty"`
		Doc           string         `json:"doc,omitempty"`
	}{
		Name:          f.Name,
		JSONName:      f.JSONName,
		Type:          f.Type,
		Location:      f.Location,
		Required:      f.Required,
		StringEncoded: f.StringEncoded,
		Default:       f.Default,
		Format:        f.Format,
		Number:        f.Number,
		ValidateTag:   f.ValidateTag,
		Doc:           f.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for EnumMember.
func (m EnumMember) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name  string `json:"name"`
		Value string `json:"value"`
		Doc   string `json:"doc,omitempty"`
	}{
		Name:  m.Name,
		Value: m.Value,
		Doc:   m.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for MethodDescriptor.
func (m MethodDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name             string            `json:"name"`
		ID               string            `json:"id"`
		HTTPMethod       string            `json:"httpMethod"`
		RelativePath     string            `json:"relativePath"`
		FlatPath         string            `json:"flatPath,omitempty"`
		Request          TypeDescriptor    `json:"request,omitempty"`
		Body             TypeDescriptor    `json:"body,omitempty"`
		RequestField     string            `json:"requestField,omitempty"`
		Response         TypeDescriptor    `json:"response,omitempty"`
		Command          string            `json:"command,omitempty"`
		Scopes           []string          `json:"scopes,omitempty"`
		PathParams       []string          `json:"pathParams,omitempty"`
		QueryParams      []string          `json:"queryParams,omitempty"`
		Upload           *UploadDescriptor `json:"upload,omitempty"`
		SupportsDownload bool              `json:"supportsDownload,omitempty"`
		Doc              string            `json:"doc,omitempty"`
	}{
		Name:             m.Name,
		ID:               m.ID,
		HTTPMethod:       m.HTTPMethod,
		RelativePath:     m.RelativePath,
		FlatPath:         m.FlatPath,
		Request:          m.Request,
		Body:             m.Body,
		RequestField:     m.RequestField,
		Response:         m.Response,
		Command:          m.Command,
		Scopes:           m.Scopes,
		PathParams:       m.PathParams,
		QueryParams:      m.QueryParams,
		Upload:           m.Upload,
		SupportsDownload: m.SupportsDownload,
		Doc:              m.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for ServiceDescriptor.
func (s ServiceDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name         string             `json:"name"`
		ResourcePath string             `json:"resourcePath"`
		Methods      []MethodDescriptor `json:"methods"`
		Doc          string             `json:"doc,omitempty"`
	}{
		Name:         s.Name,
		ResourcePath: s.ResourcePath,
		Methods:      s.Methods,
		Doc:          s.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for FlagDescriptor.
func (f FlagDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string         `json:"name"`
		Raw      string         `json:"raw"`
		Source   FlagSource     `json:"source"`
		Field    string         `json:"field"`
		Type     TypeDescriptor `json:"type"`
		Required bool           `json:"required,omitempty"`
		Default  string         `json:"default,omitempty"`
		Enum     []string       `json:"enum,omitempty"`
	}{
		Name:     f.Name,
		Raw:      f.Raw,
		Source:   f.Source,
		Field:    f.Field,
		Type:     f.Type,
		Required: f.Required,
		Default:  f.Default,
		Enum:     f.Enum,
	})
}

// MarshalJSON implements json.Marshaler for CommandDescriptor.
func (c CommandDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string           `json:"name"`
		MethodID string           `json:"methodId"`
		Flags    []FlagDescriptor `json:"flags"`
		Doc      string           `json:"doc,omitempty"`
	}{
		Name:     c.Name,
		MethodID: c.MethodID,
		Flags:    c.Flags,
		Doc:      c.Documentation.Summary,
	})
}

// MarshalJSON implements json.Marshaler for Model.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Package  PackageInfo         `json:"package"`
		Types    []TypeDescriptor    `json:"types"`
		Services []ServiceDescriptor `json:"services"`
		Commands []CommandDescriptor `json:"commands"`
		Scopes   []string            `json:"scopes,omitempty"`
		Warnings []Warning           `json:"warnings,omitempty"`
	}{
		Package:  m.Package,
		Types:    m.Types,
		Services: m.Services,
		Commands: m.Commands,
		Scopes:   m.Scopes,
		Warnings: m.Warnings,
	})
}
