package golang

import (
	"io"
	"strconv"

	"github.com/broady/discogen/ir"
)

// WriteMessages renders every named type in the model.
func (e *Emitter) WriteMessages(w io.Writer) error {
	p := &printer{}
	e.header(p)
	p.P("package ", e.opts.Package)
	p.P()
	for _, t := range e.model.Types {
		switch d := t.(type) {
		case *ir.MessageDescriptor:
			e.messageType(p, d)
		case *ir.AliasDescriptor:
			e.alias(p, d)
		case *ir.EnumDescriptor:
			e.enum(p, d)
		}
		p.P()
	}
	return e.write(w, "messages.go", p)
}

func (e *Emitter) messageType(p *printer, d *ir.MessageDescriptor) {
	name := e.goTypeName(d.Name)
	p.doc("", name, d.Documentation)
	p.P("type ", name, " struct {")

	located := false
	for _, f := range d.Fields {
		if f.Location != ir.LocationNone {
			located = true
			break
		}
	}
	for i, f := range d.Fields {
		if i > 0 {
			p.P()
		}
		fieldName := e.goFieldName(d.Name, f.JSONName)
		p.doc("\t", fieldName, f.Documentation)
		p.P("\t", fieldName, " ", e.fieldType(f), " ", tag(e.fieldTags(f, located)...))
	}
	p.P("}")
}

// fieldTags returns the struct tag pairs for a field. Request messages,
// the ones with located fields, also carry schema tags so the runtime can
// encode query parameters from them.
func (e *Emitter) fieldTags(f ir.FieldDescriptor, located bool) []string {
	jsonTag := f.JSONName + ",omitempty"
	if f.StringEncoded && e.fieldType(f) != "[]string" {
		jsonTag += ",string"
	}
	if f.Location == ir.LocationPath || f.Location == ir.LocationQuery {
		jsonTag = "-"
	}
	tags := []string{"json", jsonTag}
	if located {
		schemaTag := "-"
		if f.Location == ir.LocationQuery {
			schemaTag = f.JSONName + ",omitempty"
		}
		tags = append(tags, "schema", schemaTag)
	}
	if f.ValidateTag != "" {
		tags = append(tags, "validate", f.ValidateTag)
	}
	return tags
}

func (e *Emitter) alias(p *printer, d *ir.AliasDescriptor) {
	name := e.goTypeName(d.Name)
	p.doc("", name, d.Documentation)
	if ref, ok := d.Underlying.(*ir.ReferenceDescriptor); ok {
		p.P("type ", name, " = ", e.goTypeName(ref.Target))
		return
	}
	p.P("type ", name, " ", e.goType(d.Underlying))
}

func (e *Emitter) enum(p *printer, d *ir.EnumDescriptor) {
	name := e.goTypeName(d.Name)
	p.doc("", name, d.Documentation)
	p.P("type ", name, " string")
	if len(d.Members) == 0 {
		return
	}
	p.P()
	p.P("const (")
	for _, m := range d.Members {
		constName := e.enumConsts[d.Name][m.Value]
		if m.Documentation.Body != "" {
			p.comment("\t", constName+": "+m.Documentation.Body)
		}
		p.P("\t", constName, " ", name, " = ", strconv.Quote(m.Value))
	}
	p.P(")")
}
