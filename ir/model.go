package ir

import (
	"sort"
	"strings"
)

// Model represents a complete client: types, services and commands.
type Model struct {
	// Package describes the API.
	Package PackageInfo

	// Types contains top-level named type descriptors in registration order.
	// Only Message, Alias, and Enum descriptors appear here.
	Types []TypeDescriptor

	// Services contains one descriptor per resource.
	Services []ServiceDescriptor

	// Commands contains one CLI command per method.
	Commands []CommandDescriptor

	// Scopes is the union of all OAuth scopes, sorted.
	Scopes []string

	// Warnings contains non-fatal issues encountered while building.
	Warnings []Warning
}

// AddType adds a named type descriptor to the model.
func (m *Model) AddType(t TypeDescriptor) {
	m.Types = append(m.Types, t)
}

// AddService adds a service descriptor to the model.
func (m *Model) AddService(svc ServiceDescriptor) {
	m.Services = append(m.Services, svc)
}

// AddCommand adds a command descriptor to the model.
func (m *Model) AddCommand(cmd CommandDescriptor) {
	m.Commands = append(m.Commands, cmd)
}

// AddWarning adds a warning to the model.
func (m *Model) AddWarning(w Warning) {
	m.Warnings = append(m.Warnings, w)
}

// FindType looks up a type by name. Returns nil if not found.
func (m *Model) FindType(name string) TypeDescriptor {
	for _, t := range m.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// FindService looks up a service by resource path. Returns nil if not found.
func (m *Model) FindService(resourcePath string) *ServiceDescriptor {
	for i := range m.Services {
		if m.Services[i].ResourcePath == resourcePath {
			return &m.Services[i]
		}
	}
	return nil
}

// FindCommand looks up a command by name. Returns nil if not found.
func (m *Model) FindCommand(name string) *CommandDescriptor {
	for i := range m.Commands {
		if m.Commands[i].Name == name {
			return &m.Commands[i]
		}
	}
	return nil
}

// Messages returns the message descriptors, in registration order.
func (m *Model) Messages() []*MessageDescriptor {
	var out []*MessageDescriptor
	for _, t := range m.Types {
		if md, ok := t.(*MessageDescriptor); ok {
			out = append(out, md)
		}
	}
	return out
}

// Validate checks the model for structural issues.
// Returns all validation errors found (not just the first).
func (m *Model) Validate() []error {
	var errors []*ValidationError

	// Build a set of type names from Model.Types, checking for duplicates
	typeNames := make(map[string]TypeDescriptor)
	for _, t := range m.Types {
		name := t.TypeName()
		if name == "" {
			errors = append(errors, &ValidationError{
				Code:    "unnamed_type",
				Message: "unnamed " + t.Kind().String() + " in types (schema " + t.Origin() + ")",
			})
			continue
		}
		if _, dup := typeNames[name]; dup {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name,
			})
		}
		typeNames[name] = t
	}

	// Validate fields, alias targets and Extends references
	for _, t := range m.Types {
		switch d := t.(type) {
		case *MessageDescriptor:
			fieldNames := make(map[string]bool)
			for _, field := range d.Fields {
				if fieldNames[field.Name] {
					errors = append(errors, &ValidationError{
						Code:    "duplicate_field",
						Message: "duplicate field name in " + d.Name + ": " + field.Name,
					})
				}
				fieldNames[field.Name] = true
				if field.StringEncoded && !isStringEncodableType(field.Type) {
					errors = append(errors, &ValidationError{
						Code:    "invalid_string_encoded",
						Message: "StringEncoded set on incompatible type for field " + d.Name + "." + field.Name,
					})
				}
				errors = append(errors, validateTypeReferences(field.Type, typeNames, "field "+d.Name+"."+field.Name)...)
			}
			for _, ext := range d.Extends {
				if _, ok := typeNames[ext]; !ok {
					errors = append(errors, &ValidationError{
						Code:    "missing_extends_reference",
						Message: "message " + d.Name + " extends unknown type: " + ext,
					})
				}
			}
		case *AliasDescriptor:
			errors = append(errors, validateTypeReferences(d.Underlying, typeNames, "alias "+d.Name)...)
		}
	}

	// Check for circular inheritance
	if circularErrs := m.detectCircularInheritance(); len(circularErrs) > 0 {
		errors = append(errors, circularErrs...)
	}

	commands := make(map[string]bool)
	for _, cmd := range m.Commands {
		if commands[cmd.Name] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_command",
				Message: "duplicate command name: " + cmd.Name,
			})
		}
		commands[cmd.Name] = true

		flags := make(map[string]bool)
		for _, f := range cmd.Flags {
			if flags[f.Name] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_flag",
					Message: "duplicate flag in command " + cmd.Name + ": " + f.Name,
				})
			}
			flags[f.Name] = true
		}
	}

	// Walk all Services and Methods
	services := make(map[string]bool)
	for _, service := range m.Services {
		if services[service.Name] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_service",
				Message: "duplicate service name: " + service.Name,
			})
		}
		services[service.Name] = true

		// Track method names within this service for uniqueness check
		methodNames := make(map[string]bool)

		for _, method := range service.Methods {
			context := "method " + method.ID

			if method.Request != nil {
				errors = append(errors, validateTypeReferences(method.Request, typeNames, context+" Request")...)
			}
			if method.Body != nil {
				errors = append(errors, validateTypeReferences(method.Body, typeNames, context+" Body")...)
			}
			if method.Response != nil {
				errors = append(errors, validateTypeReferences(method.Response, typeNames, context+" Response")...)
			}

			if method.Command != "" && !commands[method.Command] {
				errors = append(errors, &ValidationError{
					Code:    "missing_command",
					Message: context + " references unknown command: " + method.Command,
				})
			}

			if strings.HasPrefix(method.RelativePath, "/") {
				errors = append(errors, &ValidationError{
					Code:    "invalid_path",
					Message: context + " relative path must not start with /: " + method.RelativePath,
				})
			}

			if methodNames[method.Name] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_method",
					Message: "duplicate method name in service " + service.Name + ": " + method.Name,
				})
			}
			methodNames[method.Name] = true
		}
	}

	// Convert ValidationErrors to regular errors
	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

// isStringEncodableType checks if a type can be carried as a JSON string.
func isStringEncodableType(td TypeDescriptor) bool {
	switch d := td.(type) {
	case *PrimitiveDescriptor:
		switch d.PrimitiveKind {
		case PrimitiveString, PrimitiveBool, PrimitiveInt, PrimitiveUint, PrimitiveFloat:
			return true
		}
	case *ArrayDescriptor:
		return isStringEncodableType(d.Element)
	}
	return false
}

// validateTypeReferences recursively walks a TypeDescriptor and checks that all
// ReferenceDescriptors point to types that exist in typeNames.
func validateTypeReferences(td TypeDescriptor, typeNames map[string]TypeDescriptor, context string) []*ValidationError {
	if td == nil {
		return nil
	}

	var errors []*ValidationError

	switch d := td.(type) {
	case *ReferenceDescriptor:
		if _, ok := typeNames[d.Target]; !ok {
			errors = append(errors, &ValidationError{
				Code:    "missing_type_reference",
				Message: context + " references unknown type: " + d.Target,
			})
		}
	case *ArrayDescriptor:
		errors = append(errors, validateTypeReferences(d.Element, typeNames, context)...)
	case *MapDescriptor:
		errors = append(errors, validateTypeReferences(d.Key, typeNames, context)...)
		errors = append(errors, validateTypeReferences(d.Value, typeNames, context)...)
	case *PrimitiveDescriptor:
		// Primitives don't have references
	default:
		if IsNamed(td) {
			errors = append(errors, &ValidationError{
				Code:    "inline_named_type",
				Message: context + " embeds named type " + td.TypeName() + " instead of referencing it",
			})
		}
	}

	return errors
}

// ValidationError represents a model validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// detectCircularInheritance checks for cycles in message composition (Extends).
func (m *Model) detectCircularInheritance() []*ValidationError {
	var errors []*ValidationError

	messages := make(map[string]*MessageDescriptor)
	for _, md := range m.Messages() {
		messages[md.Name] = md
	}

	// DFS cycle detection
	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var detectCycle func(name string, path []string)
	detectCycle = func(name string, path []string) {
		if inStack[name] {
			errors = append(errors, &ValidationError{
				Code:    "circular_inheritance",
				Message: "circular inheritance detected: " + strings.Join(append(path, name), " -> "),
			})
			return
		}
		if visited[name] {
			return
		}

		visited[name] = true
		inStack[name] = true

		if md, ok := messages[name]; ok {
			for _, ext := range md.Extends {
				detectCycle(ext, append(path, name))
			}
		}

		inStack[name] = false
	}

	// Sorted for deterministic error order.
	names := make([]string, 0, len(messages))
	for name := range messages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		detectCycle(name, nil)
	}

	return errors
}
