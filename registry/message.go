// Package registry builds the descriptor model from a discovery document.
//
// Three registries are built in a fixed order: messages first, then
// commands seeded with the standard query parameters, then services, which
// look up messages and request commands as they walk the resources.
package registry

import (
	"errors"
	"fmt"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/generr"
	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
)

// StandardQueryParametersID is the schema id of the synthetic message
// holding the parameters accepted by every method.
const StandardQueryParametersID = "StandardQueryParameters"

// messageEntry is one registered schema. desc stays nil until the entry is
// materialized.
type messageEntry struct {
	id     string
	name   string
	schema *discovery.Schema
	desc   ir.TypeDescriptor
}

// MessageRegistry converts discovery schemas into type descriptors.
//
// Registration is two-pass: AddDescriptorFromSchema claims a type name and
// stores the schema, Finalize materializes every stored schema. References
// may therefore point forward to schemas registered later. Schemas added
// after Finalize are materialized immediately.
type MessageRegistry struct {
	names   *names.Resolver
	types   *names.Namespace
	entries map[string]*messageEntry
	order   []string

	finalized bool
	resolving map[string]bool
}

// NewMessageRegistry creates an empty registry.
func NewMessageRegistry(resolver *names.Resolver) *MessageRegistry {
	return &MessageRegistry{
		names:     resolver,
		types:     names.NewNamespace("types"),
		entries:   make(map[string]*messageEntry),
		resolving: make(map[string]bool),
	}
}

// AddDescriptorFromSchema registers a schema under id. Two schemas whose
// ids resolve to the same type name fail with a NamingCollisionError.
func (r *MessageRegistry) AddDescriptorFromSchema(id string, schema *discovery.Schema) error {
	if schema == nil {
		return &generr.ResolutionError{What: "schema", Key: id, Message: "schema is null"}
	}
	if _, ok := r.entries[id]; ok {
		return &generr.ResolutionError{What: "schema", Key: id, Message: "already registered"}
	}
	name, err := r.types.Claim(id, r.names.TypeName(id))
	if err != nil {
		return err
	}
	e := r.add(id, name, schema)
	if r.finalized {
		return r.materialize(e)
	}
	return nil
}

// AddSyntheticMessage registers and materializes a schema the pipeline
// invented (method requests and responses). Its name never displaces a
// name derived from the document; a numeric suffix is added instead.
// It may only be called after Finalize.
func (r *MessageRegistry) AddSyntheticMessage(id string, schema *discovery.Schema) (ir.TypeDescriptor, error) {
	if !r.finalized {
		return nil, &generr.ResolutionError{What: "schema", Key: id, Message: "message registry not finalized"}
	}
	if e, ok := r.entries[id]; ok {
		return e.desc, nil
	}
	name := r.types.ClaimUnique(id, r.names.TypeName(id))
	e := r.add(id, name, schema)
	if err := r.materialize(e); err != nil {
		return nil, err
	}
	return e.desc, nil
}

func (r *MessageRegistry) add(id, name string, schema *discovery.Schema) *messageEntry {
	e := &messageEntry{id: id, name: name, schema: schema}
	r.entries[id] = e
	r.order = append(r.order, id)
	return e
}

// Finalize materializes every registered schema in registration order.
// Calling it twice is a no-op.
func (r *MessageRegistry) Finalize() error {
	if r.finalized {
		return nil
	}
	// Nested types are appended to r.order while iterating.
	for i := 0; i < len(r.order); i++ {
		e := r.entries[r.order[i]]
		if e.desc != nil {
			continue
		}
		if err := r.materialize(e); err != nil {
			return err
		}
	}
	r.finalized = true
	return nil
}

// Finalized reports whether Finalize has completed.
func (r *MessageRegistry) Finalized() bool { return r.finalized }

// LookupDescriptor returns the descriptor registered for a schema id.
func (r *MessageRegistry) LookupDescriptor(id string) (ir.TypeDescriptor, error) {
	if !r.finalized {
		return nil, &generr.ResolutionError{What: "schema", Key: id, Message: "message registry not finalized"}
	}
	e, ok := r.entries[id]
	if !ok {
		return nil, generr.Resolution("schema", id, "")
	}
	return e.desc, nil
}

// MustLookupDescriptor is like LookupDescriptor but panics on error.
func (r *MessageRegistry) MustLookupDescriptor(id string) ir.TypeDescriptor {
	td, err := r.LookupDescriptor(id)
	if err != nil {
		panic(err)
	}
	return td
}

// Reference returns a reference to the type registered for a schema id.
func (r *MessageRegistry) Reference(id, context string) (*ir.ReferenceDescriptor, error) {
	td, err := r.LookupDescriptor(id)
	if err != nil {
		var resErr *generr.ResolutionError
		if errors.As(err, &resErr) && resErr.Context == "" {
			resErr.Context = context
		}
		return nil, err
	}
	return ir.RefTo(td), nil
}

// Messages returns every materialized descriptor in registration order.
// Nested types follow the type that introduced them.
func (r *MessageRegistry) Messages() []ir.TypeDescriptor {
	out := make([]ir.TypeDescriptor, 0, len(r.order))
	for _, id := range r.order {
		if e := r.entries[id]; e.desc != nil {
			out = append(out, e.desc)
		}
	}
	return out
}

// Len returns the number of registered types, nested ones included.
func (r *MessageRegistry) Len() int { return len(r.order) }

// materialize converts the entry's schema into its descriptor.
func (r *MessageRegistry) materialize(e *messageEntry) error {
	if e.desc != nil {
		return nil
	}
	if r.resolving[e.id] {
		return &generr.ResolutionError{What: "schema", Key: e.id, Message: "circular allOf composition"}
	}
	r.resolving[e.id] = true
	defer delete(r.resolving, e.id)

	s := e.schema
	doc := ir.Doc(s.Description)
	doc.Deprecated = s.Deprecated

	switch {
	case s.Ref != "":
		target, err := r.ref(s.Ref, e.id)
		if err != nil {
			return err
		}
		e.desc = &ir.AliasDescriptor{Name: e.name, SchemaID: e.id, Underlying: target, Documentation: doc}

	case len(s.AllOf) > 0:
		md, err := r.composeAllOf(e, doc)
		if err != nil {
			return err
		}
		number(md.Fields)
		e.desc = md

	case len(s.Enum) > 0:
		ed, err := r.enumDescriptor(e.id, e.name, s, doc)
		if err != nil {
			return err
		}
		e.desc = ed

	case s.Type == "array":
		elem, err := r.typeOf(e.id+".item", s.Items)
		if err != nil {
			return err
		}
		e.desc = &ir.AliasDescriptor{Name: e.name, SchemaID: e.id, Underlying: ir.Slice(elem), Documentation: doc}

	case s.IsObject() && len(s.Properties) == 0 && s.AdditionalProperties != nil:
		val, err := r.typeOf(e.id+".value", s.AdditionalProperties)
		if err != nil {
			return err
		}
		e.desc = &ir.AliasDescriptor{Name: e.name, SchemaID: e.id, Underlying: ir.StringMap(val), Documentation: doc}

	case isScalar(s.Type):
		e.desc = &ir.AliasDescriptor{Name: e.name, SchemaID: e.id, Underlying: primitive(s), Documentation: doc}

	default:
		fields, err := r.fields(e.id, s)
		if err != nil {
			return err
		}
		number(fields)
		e.desc = &ir.MessageDescriptor{Name: e.name, SchemaID: e.id, Fields: fields, Documentation: doc}
	}
	return nil
}

// fields builds the fields of an object schema, sorted by property name.
func (r *MessageRegistry) fields(id string, s *discovery.Schema) ([]ir.FieldDescriptor, error) {
	ns := names.NewNamespace("fields of " + id)
	var out []ir.FieldDescriptor
	for _, prop := range s.PropertyNames() {
		ps := s.Properties[prop]
		if ps == nil {
			return nil, &generr.ResolutionError{What: "property", Key: prop, Context: "schema " + id, Message: "property is null"}
		}
		name, err := ns.Claim(prop, r.names.FieldName(prop))
		if err != nil {
			return nil, err
		}
		typ, err := r.typeOf(id+"."+prop, ps)
		if err != nil {
			return nil, err
		}
		if ps.Repeated && ps.Type != "array" {
			typ = ir.Slice(typ)
		}
		out = append(out, r.field(name, prop, typ, ps))
	}
	return out, nil
}

func (r *MessageRegistry) field(name, jsonName string, typ ir.TypeDescriptor, ps *discovery.Schema) ir.FieldDescriptor {
	doc := ir.Doc(ps.Description)
	doc.Deprecated = ps.Deprecated
	f := ir.FieldDescriptor{
		Name:          name,
		JSONName:      jsonName,
		Type:          typ,
		Location:      ps.Location,
		Required:      ps.Required,
		StringEncoded: isStringEncoded(ps),
		Default:       ps.Default,
		Format:        ps.Format,
		Pattern:       ps.Pattern,
		Documentation: doc,
	}
	if f.Required {
		f.ValidateTag = "required"
	}
	return f
}

// composeAllOf flattens an allOf composition into one message. Fields of
// referenced messages come first, in part order; inline parts and the
// schema's own properties follow.
func (r *MessageRegistry) composeAllOf(e *messageEntry, doc ir.Documentation) (*ir.MessageDescriptor, error) {
	md := &ir.MessageDescriptor{Name: e.name, SchemaID: e.id, Documentation: doc}
	ns := names.NewNamespace("fields of " + e.id)
	seen := make(map[string]bool)

	appendFields := func(fields []ir.FieldDescriptor) error {
		for _, f := range fields {
			if seen[f.JSONName] {
				continue
			}
			if _, err := ns.Claim(f.JSONName, f.Name); err != nil {
				return err
			}
			seen[f.JSONName] = true
			md.Fields = append(md.Fields, f)
		}
		return nil
	}

	for i, part := range e.schema.AllOf {
		if part == nil {
			continue
		}
		if part.Ref != "" {
			target, ok := r.entries[part.Ref]
			if !ok {
				return nil, generr.Resolution("schema", part.Ref, "allOf of schema "+e.id)
			}
			if err := r.materialize(target); err != nil {
				return nil, err
			}
			base, ok := resolveMessage(target.desc, r)
			if !ok {
				return nil, &generr.ResolutionError{
					What:    "schema",
					Key:     part.Ref,
					Context: "allOf of schema " + e.id,
					Message: "allOf part is not an object",
				}
			}
			md.Extends = append(md.Extends, base.Name)
			if err := appendFields(base.Fields); err != nil {
				return nil, err
			}
			continue
		}
		inline, err := r.fields(fmt.Sprintf("%s.allOf%d", e.id, i), part)
		if err != nil {
			return nil, err
		}
		if err := appendFields(inline); err != nil {
			return nil, err
		}
	}

	own, err := r.fields(e.id, &discovery.Schema{Properties: e.schema.Properties})
	if err != nil {
		return nil, err
	}
	if err := appendFields(own); err != nil {
		return nil, err
	}
	return md, nil
}

// resolveMessage follows aliases of references until it reaches a message.
func resolveMessage(td ir.TypeDescriptor, r *MessageRegistry) (*ir.MessageDescriptor, bool) {
	for range 16 {
		switch d := td.(type) {
		case *ir.MessageDescriptor:
			return d, true
		case *ir.AliasDescriptor:
			ref, ok := d.Underlying.(*ir.ReferenceDescriptor)
			if !ok {
				return nil, false
			}
			target, ok := r.entries[ref.SchemaID]
			if !ok {
				return nil, false
			}
			if err := r.materialize(target); err != nil {
				return nil, false
			}
			td = target.desc
		default:
			return nil, false
		}
	}
	return nil, false
}

func (r *MessageRegistry) enumDescriptor(id, name string, s *discovery.Schema, doc ir.Documentation) (*ir.EnumDescriptor, error) {
	ns := names.NewNamespace("values of " + id)
	ed := &ir.EnumDescriptor{Name: name, SchemaID: id, Documentation: doc}
	for i, v := range s.Enum {
		member, err := ns.Claim(v, r.names.EnumValue(v))
		if err != nil {
			return nil, err
		}
		var mdoc ir.Documentation
		if i < len(s.EnumDescriptions) {
			mdoc = ir.Doc(s.EnumDescriptions[i])
		}
		ed.Members = append(ed.Members, ir.EnumMember{Name: member, Value: v, Documentation: mdoc})
	}
	return ed, nil
}

// typeOf returns the type expression for a nested schema. Inline objects
// and enums are registered as named types under id.
func (r *MessageRegistry) typeOf(id string, s *discovery.Schema) (ir.TypeDescriptor, error) {
	switch {
	case s == nil:
		return ir.Any(), nil
	case s.Ref != "":
		return r.ref(s.Ref, id)
	case len(s.Enum) > 0 && (s.Type == "string" || s.Type == ""):
		return r.nested(id, s)
	case s.Type == "array":
		elem, err := r.typeOf(id+".item", s.Items)
		if err != nil {
			return nil, err
		}
		return ir.Slice(elem), nil
	case len(s.AllOf) > 0 || len(s.Properties) > 0:
		return r.nested(id, s)
	case s.AdditionalProperties != nil:
		val, err := r.typeOf(id+".value", s.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		return ir.StringMap(val), nil
	case s.Type == "object":
		return ir.Any(), nil
	default:
		return primitive(s), nil
	}
}

// nested registers an inline schema as a named type and returns a
// reference to it.
func (r *MessageRegistry) nested(id string, s *discovery.Schema) (ir.TypeDescriptor, error) {
	if e, ok := r.entries[id]; ok {
		return ir.Ref(e.name, e.id), nil
	}
	name := r.types.ClaimUnique(id, r.names.TypeName(id))
	e := r.add(id, name, s)
	if err := r.materialize(e); err != nil {
		return nil, err
	}
	return ir.Ref(e.name, e.id), nil
}

func (r *MessageRegistry) ref(target, context string) (*ir.ReferenceDescriptor, error) {
	e, ok := r.entries[target]
	if !ok {
		return nil, generr.Resolution("schema", target, "schema "+context)
	}
	return ir.Ref(e.name, e.id), nil
}

// number assigns 1-based field numbers in order.
func number(fields []ir.FieldDescriptor) {
	for i := range fields {
		fields[i].Number = i + 1
	}
}

func isScalar(typ string) bool {
	switch typ {
	case "string", "integer", "number", "boolean", "any":
		return true
	}
	return false
}

// primitive maps a discovery type and format to a primitive descriptor.
func primitive(s *discovery.Schema) *ir.PrimitiveDescriptor {
	switch s.Type {
	case "string":
		switch s.Format {
		case "byte":
			return ir.Bytes()
		case "int64":
			return ir.Int(64)
		case "uint64":
			return ir.Uint(64)
		case "date-time", "google-datetime":
			return ir.Time()
		case "date":
			return ir.Date()
		case "google-duration":
			return ir.Duration()
		}
		return ir.String()
	case "integer":
		switch s.Format {
		case "uint32":
			return ir.Uint(32)
		case "int64":
			return ir.Int(64)
		case "uint64":
			return ir.Uint(64)
		}
		return ir.Int(32)
	case "number":
		if s.Format == "float" {
			return ir.Float(32)
		}
		return ir.Float(64)
	case "boolean":
		return ir.Bool()
	}
	return ir.Any()
}

// isStringEncoded reports whether a 64-bit integer travels as a JSON string.
func isStringEncoded(s *discovery.Schema) bool {
	if s.Type == "array" && s.Items != nil {
		return isStringEncoded(s.Items)
	}
	return s.Type == "string" && (s.Format == "int64" || s.Format == "uint64")
}
