package ir

// AliasDescriptor represents a named type defined as another type
// expression: a schema that is only a $ref, an array, a map or a scalar.
type AliasDescriptor struct {
	// Name is the resolved type name.
	Name string

	// SchemaID is the discovery schema id.
	SchemaID string

	// Underlying is the aliased type.
	Underlying TypeDescriptor

	// Documentation for this type.
	Documentation Documentation
}

// Kind returns KindAlias.
func (d *AliasDescriptor) Kind() DescriptorKind { return KindAlias }

// TypeName returns the alias's name.
func (d *AliasDescriptor) TypeName() string { return d.Name }

// Doc returns the alias's documentation.
func (d *AliasDescriptor) Doc() Documentation { return d.Documentation }

// Origin returns the alias's schema id.
func (d *AliasDescriptor) Origin() string { return d.SchemaID }

func (*AliasDescriptor) sealed() {}
