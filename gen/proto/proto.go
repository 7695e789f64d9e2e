// Package proto renders a model as two proto3 files, one for messages and
// enums and one for services, and compiles them with protocompile to check
// the output.
package proto

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
)

// Well-known imports.
const (
	structImport    = "google/protobuf/struct.proto"
	timestampImport = "google/protobuf/timestamp.proto"
	durationImport  = "google/protobuf/duration.proto"
)

// Options configures the rendered files.
type Options struct {
	// Package is the proto package, e.g. "storage.v1".
	Package string

	// MessagesFile is the name the services file imports the messages
	// file by.
	MessagesFile string

	// BaseURL is noted in the services file header.
	BaseURL string
}

// Emitter renders one model.
type Emitter struct {
	model *ir.Model
	opts  Options

	types      map[string]ir.TypeDescriptor
	fields     map[string]map[string]string
	enumValues map[string][]string
	services   map[string]string
}

// New assigns proto names. Messages, enums, enum values and services share
// the package scope; fields are scoped to their message.
func New(model *ir.Model, opts Options) (*Emitter, error) {
	e := &Emitter{
		model:      model,
		opts:       opts,
		types:      make(map[string]ir.TypeDescriptor),
		fields:     make(map[string]map[string]string),
		enumValues: make(map[string][]string),
		services:   make(map[string]string),
	}
	e.opts.Package = packageName(opts.Package)
	if e.opts.MessagesFile == "" {
		e.opts.MessagesFile = "messages.proto"
	}

	symbols := names.NewNamespace("proto symbols")
	for _, t := range model.Types {
		e.types[t.TypeName()] = t
		if _, alias := t.(*ir.AliasDescriptor); alias {
			continue
		}
		if _, err := symbols.Claim(t.TypeName(), t.TypeName()); err != nil {
			return nil, err
		}
	}
	for _, t := range model.Types {
		switch d := t.(type) {
		case *ir.MessageDescriptor:
			ns := names.NewNamespace("proto fields of " + d.Name)
			e.fields[d.Name] = make(map[string]string, len(d.Fields))
			for _, f := range d.Fields {
				e.fields[d.Name][f.JSONName] = ns.ClaimUnique(f.JSONName, fieldName(f.JSONName))
			}
		case *ir.EnumDescriptor:
			prefix := strcase.ToScreamingSnake(d.Name)
			values := []string{symbols.ClaimUnique(d.Name+".", prefix+"_UNSPECIFIED")}
			for _, m := range d.Members {
				value := strcase.ToScreamingSnake(names.CleanName(m.Name))
				values = append(values, symbols.ClaimUnique(d.Name+"."+m.Value, prefix+"_"+value))
			}
			e.enumValues[d.Name] = values
		}
	}
	for _, svc := range model.Services {
		e.services[svc.Name] = symbols.ClaimUnique("service "+svc.Name, svc.Name+"Service")
	}
	return e, nil
}

func packageName(pkg string) string {
	parts := strings.Split(pkg, ".")
	for i, part := range parts {
		parts[i] = strings.ToLower(names.CleanName(part))
	}
	return strings.Join(parts, ".")
}

func fieldName(jsonName string) string {
	name := strcase.ToSnake(jsonName)
	if name == "" {
		name = jsonName
	}
	return strings.ToLower(names.CleanName(name))
}

// resolve follows references and aliases.
func (e *Emitter) resolve(td ir.TypeDescriptor) ir.TypeDescriptor {
	for range 32 {
		switch d := td.(type) {
		case *ir.ReferenceDescriptor:
			target, ok := e.types[d.Target]
			if !ok {
				return td
			}
			td = target
		case *ir.AliasDescriptor:
			td = d.Underlying
		default:
			return td
		}
	}
	return td
}

// file accumulates one proto file and the imports it needs.
type file struct {
	body    bytes.Buffer
	imports map[string]bool
}

func newFile() *file {
	return &file{imports: make(map[string]bool)}
}

func (f *file) P(v ...any) {
	for _, x := range v {
		fmt.Fprint(&f.body, x)
	}
	f.body.WriteByte('\n')
}

func (f *file) comment(indent string, d ir.Documentation) {
	if d.Body == "" {
		return
	}
	for _, line := range strings.Split(d.Body, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			f.P(indent, "//")
			continue
		}
		f.P(indent, "// ", line)
	}
}

func (e *Emitter) writeFile(w io.Writer, f *file, extraImports ...string) error {
	var out bytes.Buffer
	out.WriteString("// Code generated by discogen. DO NOT EDIT.\n\n")
	out.WriteString("syntax = \"proto3\";\n\n")
	fmt.Fprintf(&out, "package %s;\n", e.opts.Package)

	imports := slices.Clone(extraImports)
	for imp := range f.imports {
		imports = append(imports, imp)
	}
	slices.Sort(imports)
	if len(imports) > 0 {
		out.WriteByte('\n')
	}
	for _, imp := range slices.Compact(imports) {
		fmt.Fprintf(&out, "import %s;\n", strconv.Quote(imp))
	}
	out.WriteByte('\n')
	out.Write(f.body.Bytes())
	_, err := w.Write(out.Bytes())
	return err
}

// WriteMessages renders every message and enum. Aliases are not declared;
// fields referring to them use the aliased type.
func (e *Emitter) WriteMessages(w io.Writer) error {
	f := newFile()
	first := true
	for _, t := range e.model.Types {
		switch d := t.(type) {
		case *ir.MessageDescriptor:
			if !first {
				f.P()
			}
			first = false
			e.message(f, d)
		case *ir.EnumDescriptor:
			if !first {
				f.P()
			}
			first = false
			e.enum(f, d)
		}
	}
	return e.writeFile(w, f)
}

func (e *Emitter) message(f *file, d *ir.MessageDescriptor) {
	f.comment("", d.Documentation)
	if len(d.Fields) == 0 {
		f.P("message ", d.Name, " {}")
		return
	}
	f.P("message ", d.Name, " {")
	for i, field := range d.Fields {
		if i > 0 && !field.Documentation.IsZero() {
			f.P()
		}
		f.comment("  ", field.Documentation)
		typ := e.fieldType(f, field.Type)
		opts := "json_name = " + strconv.Quote(field.JSONName)
		if field.Documentation.Deprecated {
			opts += ", deprecated = true"
		}
		f.P("  ", typ, " ", e.fields[d.Name][field.JSONName], " = ", field.Number, " [", opts, "];")
	}
	f.P("}")
}

func (e *Emitter) enum(f *file, d *ir.EnumDescriptor) {
	f.comment("", d.Documentation)
	values := e.enumValues[d.Name]
	f.P("enum ", d.Name, " {")
	f.P("  ", values[0], " = 0;")
	for i, m := range d.Members {
		f.comment("  ", m.Documentation)
		f.P("  ", values[i+1], " = ", i+1, ";")
	}
	f.P("}")
}

// fieldType returns the full type of a field, including a "repeated"
// label or a map type.
func (e *Emitter) fieldType(f *file, td ir.TypeDescriptor) string {
	switch d := e.resolve(td).(type) {
	case *ir.ArrayDescriptor:
		switch e.resolve(d.Element).(type) {
		case *ir.ArrayDescriptor:
			f.imports[structImport] = true
			return "repeated google.protobuf.ListValue"
		case *ir.MapDescriptor:
			f.imports[structImport] = true
			return "repeated google.protobuf.Struct"
		}
		return "repeated " + e.singular(f, d.Element)
	case *ir.MapDescriptor:
		switch e.resolve(d.Value).(type) {
		case *ir.ArrayDescriptor:
			f.imports[structImport] = true
			return "map<string, google.protobuf.ListValue>"
		case *ir.MapDescriptor:
			f.imports[structImport] = true
			return "map<string, google.protobuf.Struct>"
		}
		return "map<string, " + e.singular(f, d.Value) + ">"
	}
	return e.singular(f, td)
}

// singular returns the proto type of a non-repeated, non-map value.
func (e *Emitter) singular(f *file, td ir.TypeDescriptor) string {
	switch d := e.resolve(td).(type) {
	case *ir.MessageDescriptor:
		return d.Name
	case *ir.EnumDescriptor:
		return d.Name
	case *ir.PrimitiveDescriptor:
		return e.primitive(f, d)
	case *ir.ArrayDescriptor:
		f.imports[structImport] = true
		return "google.protobuf.ListValue"
	case *ir.MapDescriptor:
		f.imports[structImport] = true
		return "google.protobuf.Struct"
	}
	f.imports[structImport] = true
	return "google.protobuf.Value"
}

func (e *Emitter) primitive(f *file, d *ir.PrimitiveDescriptor) string {
	switch d.PrimitiveKind {
	case ir.PrimitiveBool:
		return "bool"
	case ir.PrimitiveInt:
		if d.BitSize == 32 {
			return "int32"
		}
		return "int64"
	case ir.PrimitiveUint:
		if d.BitSize == 32 {
			return "uint32"
		}
		return "uint64"
	case ir.PrimitiveFloat:
		if d.BitSize == 32 {
			return "float"
		}
		return "double"
	case ir.PrimitiveString, ir.PrimitiveDate:
		return "string"
	case ir.PrimitiveBytes:
		return "bytes"
	case ir.PrimitiveTime:
		f.imports[timestampImport] = true
		return "google.protobuf.Timestamp"
	case ir.PrimitiveDuration:
		f.imports[durationImport] = true
		return "google.protobuf.Duration"
	}
	f.imports[structImport] = true
	return "google.protobuf.Value"
}

// WriteServices renders one service per resource. The HTTP binding of each
// method is recorded in its comment.
func (e *Emitter) WriteServices(w io.Writer) error {
	f := newFile()
	if e.opts.BaseURL != "" {
		f.P("// Base URL: ", e.opts.BaseURL)
		f.P()
	}
	for i, svc := range e.model.Services {
		if i > 0 {
			f.P()
		}
		f.comment("", svc.Documentation)
		f.P("service ", e.services[svc.Name], " {")
		for j, m := range svc.Methods {
			if j > 0 {
				f.P()
			}
			f.comment("  ", m.Documentation)
			f.P("  // ", m.HTTPMethod, " ", m.RelativePath)
			f.P("  rpc ", m.Name, "(", e.rpcType(f, m.Request), ") returns (", e.rpcType(f, m.Response), ");")
		}
		f.P("}")
	}
	return e.writeFile(w, f, e.opts.MessagesFile)
}

// rpcType returns a message type for a method's request or response.
// Non-message types fall back to the matching well-known type.
func (e *Emitter) rpcType(f *file, td ir.TypeDescriptor) string {
	if td == nil {
		f.imports[structImport] = true
		return "google.protobuf.Struct"
	}
	if md, ok := e.resolve(td).(*ir.MessageDescriptor); ok {
		return md.Name
	}
	switch e.resolve(td).(type) {
	case *ir.ArrayDescriptor:
		f.imports[structImport] = true
		return "google.protobuf.ListValue"
	case *ir.MapDescriptor:
		f.imports[structImport] = true
		return "google.protobuf.Struct"
	}
	f.imports[structImport] = true
	return "google.protobuf.Value"
}
