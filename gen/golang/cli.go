package golang

import (
	"io"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
	"github.com/broady/discogen/registry"
)

// WriteCLI renders a kong command tree with one command per method. Each
// command struct holds every flag of its command and a Run method that
// fills the request, calls the client, and prints the response as JSON.
func (e *Emitter) WriteCLI(w io.Writer) error {
	p := &printer{}
	e.header(p)
	p.P("package ", e.opts.Package)
	p.P()
	p.P("import (")
	p.P("\t\"context\"")
	p.P("\t\"os\"")
	p.P()
	p.P("\t\"github.com/alecthomas/kong\"")
	p.P()
	p.P("\t", strconv.Quote(e.opts.RuntimeImport))
	p.P(")")
	p.P()

	rt := e.runtimePkg()
	cli := e.builtin("CLI")
	title := e.opts.Title
	if title == "" {
		title = e.opts.Package
	}

	fields := names.NewNamespace("commands")
	p.P("// ", cli, " is the command-line interface for ", title, ".")
	p.P("type ", cli, " struct {")
	for _, cmd := range e.model.Commands {
		field := fields.ClaimUnique(cmd.Name, exported(names.CleanName(strcase.ToCamel(cmd.Name))))
		p.P("\t", field, " ", e.commands[cmd.Name], " ", tag("cmd", "", "name", cmd.Name, "help", commandHelp(cmd)))
	}
	p.P("}")
	p.P()

	p.P("// ", e.builtin("RunCLI"), " parses args, then runs the selected command with a client")
	p.P("// built from opts.")
	p.P("func ", e.builtin("RunCLI"), "(ctx context.Context, args []string, opts ...", rt, ".Option) error {")
	p.P("\tvar cli ", cli)
	p.P("\tparser, err := kong.New(&cli,")
	p.P("\t\tkong.Name(", strconv.Quote(e.opts.Package), "),")
	p.P("\t\tkong.Description(", strconv.Quote(title), "),")
	p.P("\t\tkong.UsageOnError(),")
	p.P("\t\tkong.BindTo(ctx, (*context.Context)(nil)),")
	p.P("\t\tkong.Bind(", e.builtin("NewClient"), "(opts...)),")
	p.P("\t)")
	p.P("\tif err != nil {")
	p.P("\t\treturn err")
	p.P("\t}")
	p.P("\tkctx, err := parser.Parse(args)")
	p.P("\tif err != nil {")
	p.P("\t\treturn err")
	p.P("\t}")
	p.P("\treturn kctx.Run()")
	p.P("}")

	for _, cmd := range e.model.Commands {
		p.P()
		if err := e.command(p, cmd); err != nil {
			return err
		}
	}
	return e.write(w, "cli.go", p)
}

func commandHelp(cmd ir.CommandDescriptor) string {
	if cmd.Documentation.Summary != "" {
		return cmd.Documentation.Summary
	}
	return "Calls " + cmd.MethodID + "."
}

// cliFlag is one flag of a command struct, with the Go expression its
// value is assigned to.
type cliFlag struct {
	flag   ir.FlagDescriptor
	field  string
	typ    string
	json   bool
	target ir.TypeDescriptor
	dst    string
	strEnc bool
}

func (e *Emitter) command(p *printer, cmd ir.CommandDescriptor) error {
	rt := e.runtimePkg()
	typeName := e.commands[cmd.Name]
	info, ok := e.methods[cmd.MethodID]
	if !ok {
		return &unknownMethodError{command: cmd.Name, method: cmd.MethodID}
	}
	m := info.method
	reqName := e.goTypeName(cmd.Request)
	reqMsg, _ := e.message(m.Request)
	bodyMsg, _ := e.message(m.Body)
	globals := e.standardParameters()

	var bodyField, bodyType string
	if m.Body != nil && m.RequestField != "" && reqMsg != nil {
		bodyField = "req." + e.goFieldName(reqMsg.Name, m.RequestField)
		bodyType = strings.TrimPrefix(e.goType(m.Body), "*")
	}

	fields := names.NewNamespace("flags of " + cmd.Name)
	fields.ClaimUnique("method Run", "Run")
	var flags []cliFlag
	for _, f := range cmd.Flags {
		cf := cliFlag{flag: f, field: fields.ClaimUnique(f.Name, exported(names.CleanName(strcase.ToCamel(f.Name))))}
		var owner *ir.MessageDescriptor
		var prefix string
		switch f.Source {
		case ir.FlagGlobal:
			owner, prefix = globals, "params."
		case ir.FlagBody:
			owner, prefix = bodyMsg, "req."
			if bodyField != "" {
				prefix = bodyField + "."
			}
		default:
			owner, prefix = reqMsg, "req."
		}
		if owner == nil {
			return &unknownMethodError{command: cmd.Name, method: cmd.MethodID, flag: f.Name}
		}
		target, _ := owner.Field(f.Raw)
		cf.dst = prefix + e.goFieldName(owner.Name, f.Raw)
		cf.target = target.Type
		cf.strEnc = target.StringEncoded
		cf.typ, cf.json = e.cliType(target.Type, target.StringEncoded)
		flags = append(flags, cf)
	}

	p.P("// ", typeName, " runs ", cmd.MethodID, ".")
	p.P("type ", typeName, " struct {")
	for _, cf := range flags {
		p.P("\t", cf.field, " ", cf.typ, " ", tag(flagTags(cf)...))
	}
	p.P("}")
	p.P()

	p.P("// Run calls ", info.service.Name, ".", info.name, " and prints the response.")
	p.P("func (c *", typeName, ") Run(ctx context.Context, client *", e.builtin("Client"), ") error {")
	p.P("\treq := new(", reqName, ")")
	p.P("\tparams := new(", e.goTypeName(globals.Name), ")")
	if bodyField != "" {
		p.P("\t", bodyField, " = new(", bodyType, ")")
	}
	for _, cf := range flags {
		e.assign(p, cf)
	}
	p.P("\tresp, err := client.", exported(info.service.Name), ".", info.name, "(ctx, req, ", rt, ".WithParams(params))")
	p.P("\tif err != nil {")
	p.P("\t\treturn err")
	p.P("\t}")
	p.P("\treturn ", rt, ".WriteJSON(os.Stdout, resp)")
	p.P("}")
	return nil
}

func flagTags(cf cliFlag) []string {
	help := cf.flag.Documentation.Summary
	if len(cf.flag.Enum) > 0 {
		help = strings.TrimSpace(help + " One of: " + strings.Join(cf.flag.Enum, ", ") + ".")
	}
	if cf.json {
		help = strings.TrimSpace(help + " (JSON)")
	}
	tags := []string{"name", cf.flag.Name, "help", help}
	if cf.flag.Required {
		tags = append(tags, "required", "")
	}
	if cf.flag.Default != "" && !cf.json {
		tags = append(tags, "default", cf.flag.Default)
	}
	if cf.typ == "bool" && cf.flag.Default == "true" {
		tags = append(tags, "negatable", "")
	}
	return tags
}

// cliType returns the kong field type for a value of type td. Values kong
// cannot parse directly are taken as JSON strings.
func (e *Emitter) cliType(td ir.TypeDescriptor, stringEncoded bool) (string, bool) {
	switch d := e.resolve(td).(type) {
	case *ir.EnumDescriptor:
		return "string", false
	case *ir.PrimitiveDescriptor:
		if t := scalarFlagType(d); t != "" {
			return t, false
		}
	case *ir.ArrayDescriptor:
		if stringEncoded {
			return "[]string", false
		}
		switch elem := e.resolve(d.Element).(type) {
		case *ir.EnumDescriptor:
			return "[]string", false
		case *ir.PrimitiveDescriptor:
			if t := scalarFlagType(elem); t != "" {
				return "[]" + t, false
			}
		}
	}
	return "string", true
}

func scalarFlagType(d *ir.PrimitiveDescriptor) string {
	switch d.PrimitiveKind {
	case ir.PrimitiveBool:
		return "bool"
	case ir.PrimitiveInt:
		return "int64"
	case ir.PrimitiveUint:
		return "uint64"
	case ir.PrimitiveFloat:
		return "float64"
	case ir.PrimitiveString, ir.PrimitiveBytes, ir.PrimitiveTime, ir.PrimitiveDate, ir.PrimitiveDuration:
		return "string"
	}
	return ""
}

// assign renders the statement copying one flag into the request.
func (e *Emitter) assign(p *printer, cf cliFlag) {
	rt := e.runtimePkg()
	src := "c." + cf.field
	switch {
	case cf.json:
		p.P("\tif err := ", rt, ".UnmarshalFlag(", strconv.Quote(cf.flag.Name), ", ", src, ", &", cf.dst, "); err != nil {")
		p.P("\t\treturn err")
		p.P("\t}")
	case strings.HasPrefix(cf.typ, "[]"):
		elem := "string"
		if arr, ok := e.resolve(cf.target).(*ir.ArrayDescriptor); ok && !cf.strEnc {
			elem = e.goType(arr.Element)
		}
		p.P("\tfor _, v := range ", src, " {")
		p.P("\t\t", cf.dst, " = append(", cf.dst, ", ", elem, "(v))")
		p.P("\t}")
	default:
		p.P("\t", cf.dst, " = ", e.goType(cf.target), "(", src, ")")
	}
}

// standardParameters returns the message every command's global flags
// are assigned to.
func (e *Emitter) standardParameters() *ir.MessageDescriptor {
	for _, md := range e.model.Messages() {
		if md.SchemaID == registry.StandardQueryParametersID {
			return md
		}
	}
	return &ir.MessageDescriptor{Name: registry.StandardQueryParametersID}
}

type unknownMethodError struct {
	command string
	method  string
	flag    string
}

func (e *unknownMethodError) Error() string {
	if e.flag != "" {
		return "command " + e.command + ": no message holds flag --" + e.flag + " of method " + e.method
	}
	return "command " + e.command + ": unknown method " + e.method
}
