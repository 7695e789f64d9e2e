package ir

// FlagSource records where a CLI flag's value is sent.
type FlagSource string

const (
	FlagGlobal FlagSource = "global" // standard query parameter
	FlagPath   FlagSource = "path"
	FlagQuery  FlagSource = "query"
	FlagBody   FlagSource = "body" // field of the request body message
)

// CommandDescriptor describes the CLI surface of one method.
type CommandDescriptor struct {
	// Name is the kebab-case command name (e.g. "buckets-get").
	Name string

	// MethodID is the discovery id of the bound method.
	MethodID string

	// Service is the service type name the method belongs to.
	Service string

	// Method is the resolved method name.
	Method string

	// Request is the type name of the method's request message.
	Request string

	// BodyField is the resolved name of the request field holding the
	// body, empty when the request is the body itself.
	BodyField string

	// Flags lists the command's flags: path parameters, query parameters,
	// body fields, then global parameters.
	Flags []FlagDescriptor

	// Documentation for this command.
	Documentation Documentation
}

// Flag looks up a flag by name. Returns nil if not found.
func (c *CommandDescriptor) Flag(name string) *FlagDescriptor {
	for i := range c.Flags {
		if c.Flags[i].Name == name {
			return &c.Flags[i]
		}
	}
	return nil
}

// RequiredFlags returns the required flags, in order.
func (c *CommandDescriptor) RequiredFlags() []FlagDescriptor {
	var out []FlagDescriptor
	for _, f := range c.Flags {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// FlagDescriptor describes one CLI flag.
type FlagDescriptor struct {
	// Name is the kebab-case flag name.
	Name string

	// Raw is the parameter or property name the flag is bound to.
	Raw string

	// Source records where the value is sent.
	Source FlagSource

	// Field is the resolved field name the value is assigned to.
	Field string

	// Type is the flag's value type.
	Type TypeDescriptor

	// Required is true when the flag must be given.
	Required bool

	// Default is the default value as written in the document.
	Default string

	// Enum lists the allowed values, if constrained.
	Enum []string

	// Documentation for this flag.
	Documentation Documentation
}
