package ir

// Field locations, recording where a field's value travels on the wire.
const (
	LocationNone  = ""      // ordinary JSON property
	LocationPath  = "path"  // path template parameter
	LocationQuery = "query" // query string parameter
	LocationBody  = "body"  // the request body, in synthesized request messages
)

// MessageDescriptor represents an object type with named fields.
type MessageDescriptor struct {
	// Name is the resolved type name.
	Name string

	// SchemaID is the discovery schema id, or a synthetic id such as
	// "Bucket.versioning" or "storage.buckets.getRequest".
	SchemaID string

	// Fields contains all fields, ordered by JSON name except for allOf
	// compositions, which list inherited fields first.
	Fields []FieldDescriptor

	// Extends names the messages whose fields were flattened into this one
	// (allOf composition).
	Extends []string

	// Documentation for this type.
	Documentation Documentation
}

// Kind returns KindMessage.
func (d *MessageDescriptor) Kind() DescriptorKind { return KindMessage }

// TypeName returns the message's name.
func (d *MessageDescriptor) TypeName() string { return d.Name }

// Doc returns the message's documentation.
func (d *MessageDescriptor) Doc() Documentation { return d.Documentation }

// Origin returns the message's schema id.
func (d *MessageDescriptor) Origin() string { return d.SchemaID }

func (*MessageDescriptor) sealed() {}

// Field returns the field with the given JSON name.
func (d *MessageDescriptor) Field(jsonName string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.JSONName == jsonName {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldDescriptor represents a single field within a message.
type FieldDescriptor struct {
	// Name is the resolved field name.
	Name string

	// JSONName is the property or parameter name as written in the document.
	JSONName string

	// Type is the field's type descriptor.
	Type TypeDescriptor

	// Location is LocationPath or LocationQuery for fields derived from
	// method parameters, LocationBody for the body field of a synthesized
	// request, LocationNone otherwise.
	Location string

	// Required is true when the document marks the field required.
	Required bool

	// StringEncoded indicates a 64-bit integer carried as a JSON string.
	StringEncoded bool

	// Default is the default value from the document, verbatim.
	Default string

	// Format is the discovery format (e.g. "int64", "date-time").
	Format string

	// Pattern is the regular expression a string value must match.
	Pattern string

	// Number is the 1-based position of the field, used as the proto
	// field number.
	Number int

	// ValidateTag is the validator tag emitted for the field.
	// Example: "required" or "omitempty,oneof=full noAcl"
	ValidateTag string

	// Documentation for this field.
	Documentation Documentation
}
