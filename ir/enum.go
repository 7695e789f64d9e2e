package ir

// EnumDescriptor represents an enumeration of string values.
type EnumDescriptor struct {
	// Name is the resolved type name.
	Name string

	// SchemaID is the discovery schema id.
	SchemaID string

	// Members contains all enum values, in document order.
	Members []EnumMember

	// Documentation for this type.
	Documentation Documentation
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() DescriptorKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() string { return d.Name }

// Doc returns the enum's documentation.
func (d *EnumDescriptor) Doc() Documentation { return d.Documentation }

// Origin returns the enum's schema id.
func (d *EnumDescriptor) Origin() string { return d.SchemaID }

func (*EnumDescriptor) sealed() {}

// Values returns the raw member values.
func (d *EnumDescriptor) Values() []string {
	out := make([]string, len(d.Members))
	for i, m := range d.Members {
		out[i] = m.Value
	}
	return out
}

// EnumMember represents a single enum value.
type EnumMember struct {
	// Name is the resolved constant name.
	Name string

	// Value is the value as written in the document.
	Value string

	// Documentation from enumDescriptions.
	Documentation Documentation
}
