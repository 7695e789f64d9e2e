package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	// Named type descriptors (appear in Model.Types)
	KindMessage DescriptorKind = iota // Object type with named fields
	KindAlias                         // Named alias of another type expression
	KindEnum                          // Enumeration of string values

	// Expression type descriptors (appear nested in fields/types)
	KindPrimitive // Built-in primitive type
	KindArray     // Repeated value
	KindMap       // String-keyed mapping
	KindReference // Reference to a named type
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindMessage:
		return "Message"
	case KindAlias:
		return "Alias"
	case KindEnum:
		return "Enum"
	case KindPrimitive:
		return "Primitive"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// TypeName returns the resolved name of this type.
	// Returns "" for expression types (primitives, arrays, etc).
	TypeName() string

	// Doc returns associated documentation.
	// Returns zero value for expression types.
	Doc() Documentation

	// Origin returns the discovery schema id this type was built from, or a
	// synthetic id for generated types. Returns "" for expression types.
	Origin() string

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// IsNamed reports whether td is a named type (message, alias or enum).
func IsNamed(td TypeDescriptor) bool {
	if td == nil {
		return false
	}
	switch td.Kind() {
	case KindMessage, KindAlias, KindEnum:
		return true
	}
	return false
}

// exprBase provides zero-value implementations of TypeDescriptor methods
// for expression type descriptors that don't have names or docs.
type exprBase struct{}

func (exprBase) TypeName() string   { return "" }
func (exprBase) Doc() Documentation { return Documentation{} }
func (exprBase) Origin() string     { return "" }
func (exprBase) sealed()            {}
