package registry

import (
	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/generr"
	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
)

// CommandInput is what the service registry knows about a method when it
// asks for the method's command.
type CommandInput struct {
	// ResourcePath is the dotted resource path ("" for top-level methods).
	ResourcePath string

	// RawName is the method name as written in the document.
	RawName string

	// Method is the discovery method.
	Method *discovery.Method

	// MethodID is the method id.
	MethodID string

	// Service and GoMethod are the resolved service and method names.
	Service  string
	GoMethod string

	// Request is the type name of the method's request.
	Request string

	// Params is the synthesized message holding the method parameters, or
	// nil when the method has none.
	Params *ir.MessageDescriptor

	// Body is the request body message, or nil.
	Body *ir.MessageDescriptor

	// BodyField is the resolved name of the Params field holding the body.
	BodyField string
}

// CommandRegistry builds one CLI command per method.
type CommandRegistry struct {
	names    *names.Resolver
	messages *MessageRegistry
	commands *names.Namespace

	globals []ir.FlagDescriptor
	byName  map[string]*ir.CommandDescriptor
	order   []string
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry(resolver *names.Resolver, messages *MessageRegistry) *CommandRegistry {
	return &CommandRegistry{
		names:    resolver,
		messages: messages,
		commands: names.NewNamespace("commands"),
		byName:   make(map[string]*ir.CommandDescriptor),
	}
}

// AddGlobalParameters seeds every command built afterwards with one
// optional flag per field of td, which must be a message.
func (r *CommandRegistry) AddGlobalParameters(td ir.TypeDescriptor) error {
	md, ok := td.(*ir.MessageDescriptor)
	if !ok {
		return &generr.ResolutionError{
			What:    "message",
			Key:     typeNameOf(td),
			Message: "global parameters must be a message",
		}
	}
	ns := names.NewNamespace("global flags")
	globals := make([]ir.FlagDescriptor, 0, len(md.Fields))
	for _, f := range md.Fields {
		flag := r.flagFor(ir.FlagGlobal, f)
		flag.Required = false
		name, err := ns.Claim(f.JSONName, flag.Name)
		if err != nil {
			return err
		}
		flag.Name = name
		globals = append(globals, flag)
	}
	r.globals = globals
	return nil
}

// Globals returns the global flags.
func (r *CommandRegistry) Globals() []ir.FlagDescriptor {
	return append([]ir.FlagDescriptor(nil), r.globals...)
}

// AddCommandForMethod builds the command for a method. Flags are path
// parameters (parameterOrder first), query parameters, body fields, then
// every global flag not shadowed by a method parameter of the same name.
// Two sources that produce the same flag name fail with a
// NamingCollisionError.
func (r *CommandRegistry) AddCommandForMethod(in CommandInput) (*ir.CommandDescriptor, error) {
	name, err := r.commands.Claim(in.MethodID, r.names.CommandName(in.ResourcePath, in.RawName))
	if err != nil {
		return nil, err
	}

	cmd := &ir.CommandDescriptor{
		Name:          name,
		MethodID:      in.MethodID,
		Service:       in.Service,
		Method:        in.GoMethod,
		Request:       in.Request,
		BodyField:     in.BodyField,
		Documentation: ir.Doc(in.Method.Description),
	}
	flags := names.NewNamespace("flags of command " + name)
	add := func(flag ir.FlagDescriptor) error {
		claimed, err := flags.Claim(string(flag.Source)+":"+flag.Raw, flag.Name)
		if err != nil {
			return err
		}
		flag.Name = claimed
		cmd.Flags = append(cmd.Flags, flag)
		return nil
	}

	paramField := func(raw string) (ir.FieldDescriptor, error) {
		if in.Params != nil {
			if f, ok := in.Params.Field(raw); ok {
				return f, nil
			}
		}
		return ir.FieldDescriptor{}, generr.Resolution("parameter", raw, "command "+name)
	}

	for _, raw := range in.Method.OrderedPathParams() {
		f, err := paramField(raw)
		if err != nil {
			return nil, err
		}
		if err := add(r.flagFor(ir.FlagPath, f)); err != nil {
			return nil, err
		}
	}
	for _, raw := range in.Method.ParamsAt(discovery.LocationQuery) {
		f, err := paramField(raw)
		if err != nil {
			return nil, err
		}
		if err := add(r.flagFor(ir.FlagQuery, f)); err != nil {
			return nil, err
		}
	}
	if in.Body != nil {
		for _, f := range in.Body.Fields {
			if err := add(r.flagFor(ir.FlagBody, f)); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range r.globals {
		if _, shadowed := in.Method.Parameters[g.Raw]; shadowed {
			continue
		}
		if err := add(g); err != nil {
			return nil, err
		}
	}

	r.byName[name] = cmd
	r.order = append(r.order, name)
	return cmd, nil
}

func (r *CommandRegistry) flagFor(source ir.FlagSource, f ir.FieldDescriptor) ir.FlagDescriptor {
	return ir.FlagDescriptor{
		Name:          r.names.FlagName(f.JSONName),
		Raw:           f.JSONName,
		Source:        source,
		Field:         f.Name,
		Type:          f.Type,
		Required:      f.Required,
		Default:       f.Default,
		Enum:          r.enumValues(f.Type),
		Documentation: f.Documentation,
	}
}

// enumValues returns the allowed values when td references an enum.
func (r *CommandRegistry) enumValues(td ir.TypeDescriptor) []string {
	ref, ok := td.(*ir.ReferenceDescriptor)
	if !ok {
		return nil
	}
	target, err := r.messages.LookupDescriptor(ref.SchemaID)
	if err != nil {
		return nil
	}
	if ed, ok := target.(*ir.EnumDescriptor); ok {
		return ed.Values()
	}
	return nil
}

// LookupCommand returns the command with the given name.
func (r *CommandRegistry) LookupCommand(name string) (*ir.CommandDescriptor, error) {
	cmd, ok := r.byName[name]
	if !ok {
		return nil, generr.Resolution("command", name, "")
	}
	return cmd, nil
}

// Commands returns all commands in registration order.
func (r *CommandRegistry) Commands() []ir.CommandDescriptor {
	out := make([]ir.CommandDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.byName[name])
	}
	return out
}

func typeNameOf(td ir.TypeDescriptor) string {
	if td == nil {
		return "<nil>"
	}
	if name := td.TypeName(); name != "" {
		return name
	}
	return td.Kind().String()
}
