package ir

// ServiceDescriptor represents one discovery resource and its methods.
type ServiceDescriptor struct {
	// Name is the resolved service type name (e.g. "ObjectsAcl").
	Name string

	// ResourcePath is the dotted resource path (e.g. "objects.acl").
	ResourcePath string

	// Methods contains the resource's methods, sorted by raw name.
	Methods []MethodDescriptor

	// Documentation for this service.
	Documentation Documentation
}

// Method looks up a method by raw name. Returns nil if not found.
func (s *ServiceDescriptor) Method(rawName string) *MethodDescriptor {
	for i := range s.Methods {
		if s.Methods[i].RawName == rawName {
			return &s.Methods[i]
		}
	}
	return nil
}

// MethodDescriptor represents a single API method.
type MethodDescriptor struct {
	// Name is the resolved method name (e.g. "Get").
	Name string

	// RawName is the method name as written in the document (e.g. "get").
	RawName string

	// ID is the discovery method id (e.g. "storage.buckets.get").
	ID string

	// HTTPMethod is the HTTP verb.
	HTTPMethod string

	// RelativePath is the path template relative to the client's base URL.
	// Example: "b/{bucket}/o/{+object}"
	RelativePath string

	// FlatPath is the flattened path template, if the document has one.
	FlatPath string

	// Request references the request message. When the method has
	// parameters this is a synthesized message holding them; otherwise it
	// is the body type, or an empty synthesized message.
	Request TypeDescriptor

	// Body references the request body type, or nil.
	Body TypeDescriptor

	// RequestField is the JSON name of the Request field that holds the
	// body. Empty when Request is the body itself or there is no body.
	RequestField string

	// Response references the response message.
	Response TypeDescriptor

	// Command is the name of the CLI command bound to this method.
	Command string

	// Scopes lists the OAuth scopes the method accepts.
	Scopes []string

	// PathParams lists path parameters in template order.
	PathParams []string

	// QueryParams lists query parameters, sorted.
	QueryParams []string

	// OrderedParams is the document's parameterOrder.
	OrderedParams []string

	// Upload describes media upload support, or nil.
	Upload *UploadDescriptor

	// SupportsDownload is true for methods that can return media.
	SupportsDownload bool

	// Documentation for this method.
	Documentation Documentation
}

// FullName returns "ServiceName.MethodName".
func (m *MethodDescriptor) FullName(service string) string {
	return service + "." + m.Name
}

// UploadDescriptor describes how media is uploaded for a method.
type UploadDescriptor struct {
	// Accept lists accepted MIME ranges.
	Accept []string

	// MaxSize is the maximum upload size as written in the document (e.g. "5TB").
	MaxSize string

	// SimplePath is the path for simple uploads, if supported.
	SimplePath string

	// ResumablePath is the path for resumable uploads, if supported.
	ResumablePath string
}
