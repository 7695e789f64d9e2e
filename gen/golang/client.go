package golang

import (
	"io"
	"strconv"
	"strings"

	"github.com/broady/discogen/ir"
)

// WriteClient renders the Client type, its constructor, and one service
// type per resource.
func (e *Emitter) WriteClient(w io.Writer) error {
	p := &printer{}
	e.header(p)
	p.P("package ", e.opts.Package)
	p.P()
	p.P("import (")
	p.P("\t\"context\"")
	p.P("\t\"fmt\"")
	p.P("\t\"io\"")
	p.P("\t\"net/http\"")
	p.P()
	p.P("\t", strconv.Quote(e.opts.RuntimeImport))
	p.P(")")
	p.P()

	rt := e.runtimePkg()
	client := e.builtin("Client")
	title := e.opts.Title
	if title == "" {
		title = "the " + e.opts.Package + " API"
	}

	p.P("// ", client, " is a client for ", title, ".")
	p.P("type ", client, " struct {")
	p.P("\trt *", rt, ".Client")
	for _, svc := range e.model.Services {
		p.P()
		p.doc("\t", exported(svc.Name), svc.Documentation)
		p.P("\t", exported(svc.Name), " *", e.services[svc.Name])
	}
	p.P("}")
	p.P()

	p.P("// ", e.builtin("NewClient"), " returns a client for ", e.builtin("BaseURL"), ". Options are applied after")
	p.P("// the generated defaults.")
	p.P("func ", e.builtin("NewClient"), "(opts ...", rt, ".Option) *", client, " {")
	p.P("\tdefaults := []", rt, ".Option{", rt, ".WithUserAgent(", e.builtin("UserAgent"), ")}")
	if e.opts.APIKey != "" {
		p.P("\tdefaults = append(defaults, ", rt, ".WithAPIKey(", e.builtin("APIKey"), "))")
	}
	p.P("\trt := ", rt, ".NewClient(", e.builtin("BaseURL"), ", append(defaults, opts...)...)")
	p.P("\treturn &", client, "{")
	p.P("\t\trt: rt,")
	for _, svc := range e.model.Services {
		p.P("\t\t", exported(svc.Name), ": &", e.services[svc.Name], "{rt: rt},")
	}
	p.P("\t}")
	p.P("}")

	for _, svc := range e.model.Services {
		p.P()
		e.service(p, svc)
	}
	return e.write(w, "client.go", p)
}

func (e *Emitter) service(p *printer, svc ir.ServiceDescriptor) {
	rt := e.runtimePkg()
	typeName := e.services[svc.Name]
	p.P("// ", typeName, " calls the methods of the ", strconv.Quote(svc.ResourcePath), " resource.")
	p.P("type ", typeName, " struct {")
	p.P("\trt *", rt, ".Client")
	p.P("}")

	for _, m := range svc.Methods {
		info := e.methods[m.ID]
		p.P()
		e.method(p, typeName, info.name, m, "")
		if info.media != "" {
			p.P()
			e.method(p, typeName, info.media, m, "media")
		}
		if info.download != "" {
			p.P()
			e.method(p, typeName, info.download, m, "download")
		}
	}
}

// method renders one service method. variant is "" for the plain call,
// "media" for a simple upload, or "download" for a media download.
func (e *Emitter) method(p *printer, recv, name string, m ir.MethodDescriptor, variant string) {
	rt := e.runtimePkg()
	reqName := e.goTypeName(targetOf(m.Request))
	respName := e.goTypeName(targetOf(m.Response))
	reqMsg, _ := e.message(m.Request)

	p.doc("", name, m.Documentation)
	if len(m.Scopes) > 0 {
		if m.Documentation.Body != "" {
			p.P("//")
		}
		p.P("// Scopes: ", strings.Join(m.Scopes, ", "))
	}
	switch variant {
	case "media":
		p.P("func (s *", recv, ") ", name, "(ctx context.Context, req *", reqName, ", media io.Reader, mediaType string, opts ...", rt, ".CallOption) (*", respName, ", error) {")
	case "download":
		p.P("func (s *", recv, ") ", name, "(ctx context.Context, req *", reqName, ", opts ...", rt, ".CallOption) (*http.Response, error) {")
	default:
		p.P("func (s *", recv, ") ", name, "(ctx context.Context, req *", reqName, ", opts ...", rt, ".CallOption) (*", respName, ", error) {")
	}
	p.P("\tif req == nil {")
	p.P("\t\treq = new(", reqName, ")")
	p.P("\t}")
	if variant != "download" {
		p.P("\tresp := new(", respName, ")")
	}
	p.P("\tcall := &", rt, ".Call{")
	p.P("\t\tMethodID:   ", strconv.Quote(m.ID), ",")
	p.P("\t\tHTTPMethod: ", strconv.Quote(m.HTTPMethod), ",")
	p.P("\t\tPath:       ", strconv.Quote(m.RelativePath), ",")
	if len(m.PathParams) > 0 && reqMsg != nil {
		p.P("\t\tPathParams: map[string]string{")
		for _, param := range m.PathParams {
			p.P("\t\t\t", strconv.Quote(param), ": fmt.Sprint(req.", e.goFieldName(reqMsg.Name, param), "),")
		}
		p.P("\t\t},")
	}
	switch {
	case m.Body == nil:
		p.P("\t\tParams: req,")
	case m.RequestField != "" && reqMsg != nil:
		p.P("\t\tParams: req,")
		p.P("\t\tBody:   req.", e.goFieldName(reqMsg.Name, m.RequestField), ",")
	default:
		p.P("\t\tBody: req,")
	}
	if variant != "download" {
		p.P("\t\tResponse: resp,")
	}
	if variant == "media" {
		p.P("\t\tUploadPath: ", strconv.Quote(m.Upload.SimplePath), ",")
		p.P("\t\tMedia:      media,")
		p.P("\t\tMediaType:  mediaType,")
	}
	p.P("\t}")
	if variant == "download" {
		p.P("\treturn s.rt.Download(ctx, call, opts...)")
		p.P("}")
		return
	}
	p.P("\tif err := s.rt.Do(ctx, call, opts...); err != nil {")
	p.P("\t\treturn nil, err")
	p.P("\t}")
	p.P("\treturn resp, nil")
	p.P("}")
}

func targetOf(td ir.TypeDescriptor) string {
	if ref, ok := td.(*ir.ReferenceDescriptor); ok {
		return ref.Target
	}
	return ""
}
