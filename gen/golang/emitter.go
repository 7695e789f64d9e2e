// Package golang renders a finished model as Go source: message types, a
// client with one service per resource, a kong command-line interface and
// a package documentation file. Output is formatted and its imports pruned
// with golang.org/x/tools/imports.
package golang

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"golang.org/x/tools/imports"

	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
)

// Options carries the client-wide values rendered into the output.
type Options struct {
	// Package is the Go package name.
	Package string

	// RuntimeImport is the import path of the runtime package.
	RuntimeImport string

	Title       string
	Description string
	Version     string
	Revision    string

	BaseURL  string
	BasePath string

	UserAgent    string
	APIKey       string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Emitter renders one model. Identifier assignment happens once in New so
// every file agrees on names.
type Emitter struct {
	model *ir.Model
	opts  Options

	types      map[string]ir.TypeDescriptor
	typeNames  map[string]string
	fieldNames map[string]map[string]string
	enumConsts map[string]map[string]string
	services   map[string]string
	commands   map[string]string
	scopes     map[string]string
	builtins   map[string]string
	methods    map[string]methodInfo
}

// methodInfo records the Go names rendered for one method.
type methodInfo struct {
	service  *ir.ServiceDescriptor
	method   *ir.MethodDescriptor
	name     string
	media    string
	download string
}

var builtinIdents = []string{
	"Client", "NewClient", "CLI", "RunCLI",
	"BaseURL", "BasePath", "Version", "Revision", "UserAgent",
	"APIKey", "ClientID", "ClientSecret", "Scopes",
}

// New assigns Go identifiers to everything in the model. Type and field
// names that collide once exported fail with a NamingCollisionError;
// identifiers the emitter invents get a numeric suffix instead.
func New(model *ir.Model, opts Options) (*Emitter, error) {
	e := &Emitter{
		model:      model,
		opts:       opts,
		types:      make(map[string]ir.TypeDescriptor),
		typeNames:  make(map[string]string),
		fieldNames: make(map[string]map[string]string),
		enumConsts: make(map[string]map[string]string),
		services:   make(map[string]string),
		commands:   make(map[string]string),
		scopes:     make(map[string]string),
		builtins:   make(map[string]string),
		methods:    make(map[string]methodInfo),
	}
	if e.opts.RuntimeImport == "" {
		e.opts.RuntimeImport = "github.com/broady/discogen"
	}

	idents := names.NewNamespace("Go identifiers")
	for _, t := range model.Types {
		name, err := idents.Claim(t.TypeName(), exported(t.TypeName()))
		if err != nil {
			return nil, err
		}
		e.types[t.TypeName()] = t
		e.typeNames[t.TypeName()] = name
	}
	for _, t := range model.Types {
		switch d := t.(type) {
		case *ir.MessageDescriptor:
			fields := names.NewNamespace("Go fields of " + d.Name)
			e.fieldNames[d.Name] = make(map[string]string, len(d.Fields))
			for _, f := range d.Fields {
				name, err := fields.Claim(f.JSONName, exported(f.Name))
				if err != nil {
					return nil, err
				}
				e.fieldNames[d.Name][f.JSONName] = name
			}
		case *ir.EnumDescriptor:
			e.enumConsts[d.Name] = make(map[string]string, len(d.Members))
			for _, m := range d.Members {
				e.enumConsts[d.Name][m.Value] = idents.ClaimUnique(d.Name+"."+m.Value, e.typeNames[d.Name]+exported(m.Name))
			}
		}
	}
	for _, id := range builtinIdents {
		e.builtins[id] = idents.ClaimUnique("builtin "+id, id)
	}
	for i := range model.Services {
		svc := &model.Services[i]
		e.services[svc.Name] = idents.ClaimUnique("service "+svc.Name, exported(svc.Name)+"Service")
		e.nameMethods(svc)
	}
	for _, cmd := range model.Commands {
		e.commands[cmd.Name] = idents.ClaimUnique("command "+cmd.Name, exported(strcase.ToCamel(cmd.Name))+"Cmd")
	}
	for _, scope := range opts.Scopes {
		e.scopes[scope] = idents.ClaimUnique("scope "+scope, scopeIdent(scope))
	}
	return e, nil
}

// nameMethods assigns Go method names within one service. Upload and
// download variants are named after their method.
func (e *Emitter) nameMethods(svc *ir.ServiceDescriptor) {
	ns := names.NewNamespace("methods of " + svc.Name)
	for i := range svc.Methods {
		m := &svc.Methods[i]
		ns.ClaimUnique(m.ID, exported(m.Name))
	}
	for i := range svc.Methods {
		m := &svc.Methods[i]
		info := methodInfo{service: svc, method: m}
		info.name, _ = ns.Lookup(m.ID)
		if m.Upload != nil && m.Upload.SimplePath != "" {
			info.media = ns.ClaimUnique(m.ID+" media", info.name+"Media")
		}
		if m.SupportsDownload {
			info.download = ns.ClaimUnique(m.ID+" download", info.name+"Download")
		}
		e.methods[m.ID] = info
	}
}

// exported upper-cases the first letter of an identifier.
func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "X" + name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// scopeIdent names a scope constant after the last path element of the
// scope URL: ".../auth/devstorage.read_only" becomes DevstorageReadOnlyScope.
func scopeIdent(scope string) string {
	base := path.Base(strings.TrimSuffix(scope, "/"))
	name := names.CleanName(strcase.ToCamel(base))
	if name == "X" || name == "" {
		name = "Default"
	}
	return exported(name) + "Scope"
}

func (e *Emitter) runtimePkg() string { return path.Base(e.opts.RuntimeImport) }

func (e *Emitter) builtin(id string) string { return e.builtins[id] }

func (e *Emitter) goTypeName(name string) string {
	if n, ok := e.typeNames[name]; ok {
		return n
	}
	return exported(name)
}

func (e *Emitter) goFieldName(msg, jsonName string) string {
	return e.fieldNames[msg][jsonName]
}

// resolve follows references and aliases until it reaches a message, an
// enum or a type expression.
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

func (e *Emitter) message(td ir.TypeDescriptor) (*ir.MessageDescriptor, bool) {
	md, ok := e.resolve(td).(*ir.MessageDescriptor)
	return md, ok
}

// goType renders a type expression as a Go type. References to messages
// become pointers.
func (e *Emitter) goType(td ir.TypeDescriptor) string {
	switch d := td.(type) {
	case *ir.PrimitiveDescriptor:
		return primitiveType(d)
	case *ir.ArrayDescriptor:
		return "[]" + e.goType(d.Element)
	case *ir.MapDescriptor:
		return "map[string]" + e.goType(d.Value)
	case *ir.ReferenceDescriptor:
		name := e.goTypeName(d.Target)
		if _, ok := e.message(d); ok {
			return "*" + name
		}
		return name
	}
	return "any"
}

// fieldType is goType with string-encoded integer lists carried as
// []string, since the ",string" JSON option only applies to scalars.
func (e *Emitter) fieldType(f ir.FieldDescriptor) string {
	if arr, ok := f.Type.(*ir.ArrayDescriptor); ok && f.StringEncoded {
		if _, scalar := arr.Element.(*ir.PrimitiveDescriptor); scalar {
			return "[]string"
		}
	}
	return e.goType(f.Type)
}

func primitiveType(d *ir.PrimitiveDescriptor) string {
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
			return "float32"
		}
		return "float64"
	case ir.PrimitiveString, ir.PrimitiveBytes, ir.PrimitiveTime, ir.PrimitiveDate, ir.PrimitiveDuration:
		return "string"
	}
	return "any"
}

// printer accumulates one Go file.
type printer struct {
	buf bytes.Buffer
}

// P prints its arguments followed by a newline.
func (p *printer) P(v ...any) {
	for _, x := range v {
		fmt.Fprint(&p.buf, x)
	}
	p.buf.WriteByte('\n')
}

// comment prints text as a line comment, one line per source line.
func (p *printer) comment(indent, text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			p.P(indent, "//")
			continue
		}
		p.P(indent, "// ", line)
	}
}

// doc prints "Name: text" documentation, plus a deprecation notice.
func (p *printer) doc(indent, name string, d ir.Documentation) {
	if d.Body != "" {
		p.comment(indent, name+": "+d.Body)
	}
	if d.Deprecated {
		if d.Body != "" {
			p.P(indent, "//")
		}
		p.P(indent, "// Deprecated: ", name, " is deprecated.")
	}
}

func (e *Emitter) header(p *printer) {
	p.P("// Code generated by discogen. DO NOT EDIT.")
	p.P()
}

// write formats src, prunes unused imports, and writes the result.
func (e *Emitter) write(w io.Writer, filename string, p *printer) error {
	out, err := imports.Process(filename, p.buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return fmt.Errorf("format %s: %w", filename, err)
	}
	_, err = w.Write(out)
	return err
}

// tag renders a struct tag literal from key/value pairs.
func tag(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(pairs[i])
		sb.WriteByte(':')
		sb.WriteString(strconv.Quote(pairs[i+1]))
	}
	s := sb.String()
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}
