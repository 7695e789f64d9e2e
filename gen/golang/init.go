package golang

import (
	"io"
	"strconv"

	"github.com/broady/discogen/ir"
)

// WriteInit renders doc.go: the package documentation plus the constants
// the client and CLI files refer to.
func (e *Emitter) WriteInit(w io.Writer) error {
	p := &printer{}
	e.header(p)

	title := e.opts.Title
	if title == "" {
		title = "the " + e.opts.Package + " API"
	}
	p.P("// Package ", e.opts.Package, " is a client for ", title, " (version ", e.opts.Version, ").")
	if d := ir.Doc(e.opts.Description); d.Body != "" {
		p.P("//")
		p.comment("", d.Body)
	}
	p.P("package ", e.opts.Package)
	p.P()

	p.P("const (")
	p.P("\t// ", e.builtin("BaseURL"), " is the URL every method path is resolved against.")
	p.P("\t", e.builtin("BaseURL"), " = ", strconv.Quote(e.opts.BaseURL))
	p.P()
	p.P("\t// ", e.builtin("BasePath"), " is the part of the service path below ", e.builtin("BaseURL"), ". It is")
	p.P("\t// already included in every method path.")
	p.P("\t", e.builtin("BasePath"), " = ", strconv.Quote(e.opts.BasePath))
	p.P()
	p.P("\t", e.builtin("Version"), "   = ", strconv.Quote(e.opts.Version))
	p.P("\t", e.builtin("Revision"), "  = ", strconv.Quote(e.opts.Revision))
	p.P("\t", e.builtin("UserAgent"), " = ", strconv.Quote(e.opts.UserAgent))
	if e.opts.APIKey != "" {
		p.P()
		p.P("\t// ", e.builtin("APIKey"), " is sent with every request unless overridden.")
		p.P("\t", e.builtin("APIKey"), " = ", strconv.Quote(e.opts.APIKey))
	}
	if e.opts.ClientID != "" {
		p.P()
		p.P("\t// OAuth client credentials.")
		p.P("\t", e.builtin("ClientID"), "     = ", strconv.Quote(e.opts.ClientID))
		p.P("\t", e.builtin("ClientSecret"), " = ", strconv.Quote(e.opts.ClientSecret))
	}
	p.P(")")

	if len(e.opts.Scopes) > 0 {
		p.P()
		p.P("// OAuth 2.0 scopes.")
		p.P("const (")
		for _, scope := range e.opts.Scopes {
			p.P("\t", e.scopes[scope], " = ", strconv.Quote(scope))
		}
		p.P(")")
		p.P()
		p.P("// ", e.builtin("Scopes"), " lists every scope a method of this API accepts.")
		p.P("var ", e.builtin("Scopes"), " = []string{")
		for _, scope := range e.opts.Scopes {
			p.P("\t", e.scopes[scope], ",")
		}
		p.P("}")
	}
	return e.write(w, "doc.go", p)
}
