package ir

// ArrayDescriptor represents a repeated value.
type ArrayDescriptor struct {
	exprBase

	// Element is the array element type.
	Element TypeDescriptor
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() DescriptorKind { return KindArray }

// Slice returns an ArrayDescriptor for element.
func Slice(element TypeDescriptor) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element}
}

// MapDescriptor represents a JSON object used as a mapping
// ("additionalProperties"). Keys are always strings on the wire.
type MapDescriptor struct {
	exprBase

	// Key is the map key type.
	Key TypeDescriptor

	// Value is the map value type.
	Value TypeDescriptor
}

// Kind returns KindMap.
func (d *MapDescriptor) Kind() DescriptorKind { return KindMap }

// Map returns a MapDescriptor for a map type.
func Map(key, value TypeDescriptor) *MapDescriptor {
	return &MapDescriptor{Key: key, Value: value}
}

// StringMap returns a MapDescriptor with string keys.
func StringMap(value TypeDescriptor) *MapDescriptor {
	return &MapDescriptor{Key: String(), Value: value}
}

// ReferenceDescriptor represents a reference to a named type.
type ReferenceDescriptor struct {
	exprBase

	// Target is the referenced type's resolved name.
	Target string

	// SchemaID is the referenced type's schema id.
	SchemaID string
}

// Kind returns KindReference.
func (d *ReferenceDescriptor) Kind() DescriptorKind { return KindReference }

// Ref returns a ReferenceDescriptor for a named type.
func Ref(name, schemaID string) *ReferenceDescriptor {
	return &ReferenceDescriptor{Target: name, SchemaID: schemaID}
}

// RefTo returns a ReferenceDescriptor for a named descriptor.
func RefTo(td TypeDescriptor) *ReferenceDescriptor {
	return &ReferenceDescriptor{Target: td.TypeName(), SchemaID: td.Origin()}
}
