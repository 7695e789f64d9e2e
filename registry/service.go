package registry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/generr"
	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
)

// ServiceOptions carries what the service registry needs from the client
// info.
type ServiceOptions struct {
	// Package and URLVersion form the "{package}/{version}/" component
	// trimmed from method paths.
	Package    string
	URLVersion string

	// BasePath is prefixed to relative method paths.
	BasePath string

	// Scopes seeds the scope set (declared and user-supplied scopes).
	Scopes []string
}

// ServiceRegistry converts resources into services and their methods.
type ServiceRegistry struct {
	names    *names.Resolver
	messages *MessageRegistry
	commands *CommandRegistry
	opts     ServiceOptions

	services     []ir.ServiceDescriptor
	serviceNames *names.Namespace
	byPath       map[string]int
	scopes       map[string]bool
}

// NewServiceRegistry creates an empty registry. The message registry must
// already be finalized.
func NewServiceRegistry(resolver *names.Resolver, messages *MessageRegistry, commands *CommandRegistry, opts ServiceOptions) *ServiceRegistry {
	r := &ServiceRegistry{
		names:        resolver,
		messages:     messages,
		commands:     commands,
		opts:         opts,
		serviceNames: names.NewNamespace("services"),
		byPath:       make(map[string]int),
		scopes:       make(map[string]bool),
	}
	for _, s := range opts.Scopes {
		r.scopes[s] = true
	}
	return r
}

// AddServiceFromResource registers a resource, its methods, and every
// nested resource in name order. A resource with no methods and no
// children yields an empty service.
func (r *ServiceRegistry) AddServiceFromResource(name string, res *discovery.Resource) error {
	if !r.messages.Finalized() {
		return &generr.ResolutionError{What: "resource", Key: name, Message: "message registry not finalized"}
	}
	return r.addResource(name, res)
}

func (r *ServiceRegistry) addResource(path string, res *discovery.Resource) error {
	if res == nil {
		return &generr.ResolutionError{What: "resource", Key: path, Message: "resource is null"}
	}
	if _, ok := r.byPath[path]; ok {
		name, _ := r.serviceNames.Lookup(path)
		return &generr.NamingCollisionError{Namespace: "services", Name: name, First: path, Second: path}
	}
	svcName, err := r.serviceNames.Claim(path, r.names.ServiceName(path))
	if err != nil {
		return err
	}

	svc := ir.ServiceDescriptor{Name: svcName, ResourcePath: path}
	methods := names.NewNamespace("methods of " + svcName)
	for _, raw := range res.MethodNames() {
		md, err := r.addMethod(path, svcName, raw, res.Methods[raw], methods)
		if err != nil {
			return err
		}
		svc.Methods = append(svc.Methods, md)
	}
	r.byPath[path] = len(r.services)
	r.services = append(r.services, svc)

	for _, child := range res.ResourceNames() {
		if err := r.addResource(path+"."+child, res.Resources[child]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServiceRegistry) addMethod(resourcePath, svcName, raw string, m *discovery.Method, ns *names.Namespace) (ir.MethodDescriptor, error) {
	if m == nil {
		return ir.MethodDescriptor{}, &generr.ResolutionError{What: "method", Key: raw, Context: "resource " + resourcePath, Message: "method is null"}
	}
	goName, err := ns.Claim(raw, r.names.MethodName(raw))
	if err != nil {
		return ir.MethodDescriptor{}, err
	}
	id := m.ID
	if id == "" {
		id = strings.Join([]string{r.opts.Package, resourcePath, raw}, ".")
	}
	ctx := "method " + id

	for _, p := range discovery.PathParams(m.Path) {
		param, ok := m.Parameters[p]
		if !ok || param == nil || param.Location != discovery.LocationPath {
			return ir.MethodDescriptor{}, &generr.ResolutionError{
				What:    "path parameter",
				Key:     p,
				Context: ctx,
				Message: "path template references a parameter not declared with location path",
			}
		}
	}

	doc := ir.Doc(m.Description)
	md := ir.MethodDescriptor{
		Name:             goName,
		RawName:          raw,
		ID:               id,
		HTTPMethod:       m.HTTPMethod,
		RelativePath:     r.RelativePath(m.Path),
		FlatPath:         m.FlatPath,
		Scopes:           sortedUnique(m.Scopes),
		PathParams:       discovery.PathParams(m.Path),
		QueryParams:      m.ParamsAt(discovery.LocationQuery),
		OrderedParams:    slices.Clone(m.ParameterOrder),
		SupportsDownload: m.SupportsMediaDownload,
		Documentation:    doc,
	}
	if md.FlatPath != "" {
		md.FlatPath = r.RelativePath(md.FlatPath)
	}

	var (
		bodyRef *ir.ReferenceDescriptor
		body    *ir.MessageDescriptor
	)
	if ref := m.RequestRef(); ref != "" {
		bodyRef, err = r.messages.Reference(ref, "request of "+ctx)
		if err != nil {
			return ir.MethodDescriptor{}, err
		}
		md.Body = bodyRef
		body, _ = resolveMessage(r.messages.MustLookupDescriptor(ref), r.messages)
	}

	var (
		request   *ir.ReferenceDescriptor
		params    *ir.MessageDescriptor
		bodyField string
	)
	switch {
	case len(m.Parameters) > 0:
		schema := &discovery.Schema{
			Type:        "object",
			Description: "Request for " + id + ".",
			Properties:  make(map[string]*discovery.Schema, len(m.Parameters)+1),
		}
		for name, p := range m.Parameters {
			schema.Properties[name] = parameterSchema(p)
		}
		if ref := m.RequestRef(); ref != "" {
			md.RequestField = r.bodyFieldName(m)
			schema.Properties[md.RequestField] = &discovery.Schema{
				Ref:         ref,
				Location:    ir.LocationBody,
				Required:    true,
				Description: "Request body.",
			}
		}
		td, err := r.messages.AddSyntheticMessage(id+"Request", schema)
		if err != nil {
			return ir.MethodDescriptor{}, err
		}
		request = ir.RefTo(td)
		params, _ = td.(*ir.MessageDescriptor)
		if md.RequestField != "" && params != nil {
			if f, ok := params.Field(md.RequestField); ok {
				bodyField = f.Name
			}
		}
	case bodyRef != nil:
		request = bodyRef
	default:
		td, err := r.messages.AddSyntheticMessage(id+"Request", &discovery.Schema{Type: "object", Description: "Request for " + id + "."})
		if err != nil {
			return ir.MethodDescriptor{}, err
		}
		request = ir.RefTo(td)
	}
	md.Request = request

	if ref := m.ResponseRef(); ref != "" {
		resp, err := r.messages.Reference(ref, "response of "+ctx)
		if err != nil {
			return ir.MethodDescriptor{}, err
		}
		md.Response = resp
	} else {
		td, err := r.messages.AddSyntheticMessage(id+"Response", &discovery.Schema{Type: "object", Description: "Response of " + id + "."})
		if err != nil {
			return ir.MethodDescriptor{}, err
		}
		md.Response = ir.RefTo(td)
	}

	if m.SupportsMediaUpload && m.MediaUpload != nil {
		up := &ir.UploadDescriptor{
			Accept:  slices.Clone(m.MediaUpload.Accept),
			MaxSize: m.MediaUpload.MaxSize,
		}
		if p := m.MediaUpload.Protocols.Simple; p != nil {
			up.SimplePath = p.Path
		}
		if p := m.MediaUpload.Protocols.Resumable; p != nil {
			up.ResumablePath = p.Path
		}
		md.Upload = up
	}

	for _, s := range md.Scopes {
		r.scopes[s] = true
	}

	cmd, err := r.commands.AddCommandForMethod(CommandInput{
		ResourcePath: resourcePath,
		RawName:      raw,
		Method:       m,
		MethodID:     id,
		Service:      svcName,
		GoMethod:     goName,
		Request:      request.Target,
		Params:       params,
		Body:         body,
		BodyField:    bodyField,
	})
	if err != nil {
		return ir.MethodDescriptor{}, err
	}
	md.Command = cmd.Name
	return md, nil
}

// bodyFieldName picks the raw name of the request field holding the body:
// request.parameterName, else the lowerCamel body type name, else "body"
// with a numeric suffix until it clears the method parameters.
// parameterSchema returns the request field schema for a method
// parameter. Path parameters are always required, and parameters without
// a type travel as strings. The document's schema is never mutated.
func parameterSchema(p *discovery.Schema) *discovery.Schema {
	if p == nil {
		return nil
	}
	required := p.Location == discovery.LocationPath && !p.Required
	untyped := p.Type == "" && p.Ref == ""
	if !required && !untyped {
		return p
	}
	out := *p
	if required {
		out.Required = true
	}
	if untyped {
		out.Type = "string"
	}
	return &out
}

func (r *ServiceRegistry) bodyFieldName(m *discovery.Method) string {
	if m.Request.ParameterName != "" {
		return m.Request.ParameterName
	}
	name := r.names.ParameterName(m.RequestRef())
	if _, taken := m.Parameters[name]; !taken && name != "" {
		return name
	}
	name = "body"
	for i := 2; ; i++ {
		if _, taken := m.Parameters[name]; !taken {
			return name
		}
		name = "body" + strconv.Itoa(i)
	}
}

// RelativePath resolves a method path against the base path and trims the
// leading slash and the "{package}/{version}/" component. Paths starting
// with "/" are absolute and ignore the base path.
func (r *ServiceRegistry) RelativePath(path string) string {
	full := path
	if !strings.HasPrefix(path, "/") {
		full = r.opts.BasePath + path
	}
	full = strings.TrimPrefix(full, "/")
	if r.opts.Package != "" && r.opts.URLVersion != "" {
		full = strings.TrimPrefix(full, r.opts.Package+"/"+r.opts.URLVersion+"/")
	}
	return full
}

// Scopes returns the union of seeded and method scopes, sorted.
func (r *ServiceRegistry) Scopes() []string {
	out := make([]string, 0, len(r.scopes))
	for s := range r.scopes {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Services returns every service in registration order. Parents precede
// their children.
func (r *ServiceRegistry) Services() []ir.ServiceDescriptor {
	return slices.Clone(r.services)
}

// LookupService returns the service for a dotted resource path.
func (r *ServiceRegistry) LookupService(resourcePath string) (*ir.ServiceDescriptor, error) {
	i, ok := r.byPath[resourcePath]
	if !ok {
		return nil, generr.Resolution("service", resourcePath, "")
	}
	return &r.services[i], nil
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
