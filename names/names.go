// Package names maps raw discovery identifiers (schema ids, property names,
// parameter names, method names) onto Go identifiers and CLI flag names.
//
// A Resolver is a pure, immutable policy: it turns one raw identifier into
// one output identifier for a given role. Uniqueness is enforced separately
// by a Namespace, one per naming domain (types, the fields of one message,
// the flags of one command, ...).
package names

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/broady/discogen/generr"
)

// Convention selects how type and field names are cased.
type Convention string

const (
	// ConventionDefault produces exported Go names: PascalCase types and fields.
	ConventionDefault Convention = "default"
	// ConventionLowerCamel keeps PascalCase types but lowerCamel fields.
	ConventionLowerCamel Convention = "lower_camel"
	// ConventionLowerWithUnder lower-cases types and fields as snake_case.
	ConventionLowerWithUnder Convention = "lower_with_under"
	// ConventionNone only cleans names into valid identifiers.
	ConventionNone Convention = "none"
)

// Conventions lists every supported convention.
var Conventions = []Convention{
	ConventionDefault,
	ConventionLowerCamel,
	ConventionLowerWithUnder,
	ConventionNone,
}

// String returns the convention name.
func (c Convention) String() string { return string(c) }

// ParseConvention validates a convention name. The empty string selects
// ConventionDefault.
func ParseConvention(s string) (Convention, error) {
	if s == "" {
		return ConventionDefault, nil
	}
	c := Convention(s)
	if !slices.Contains(Conventions, c) {
		return "", generr.Config("name_convention", "unknown naming convention %q (expected one of %v)", s, Conventions)
	}
	return c, nil
}

// Options configures a Resolver.
type Options struct {
	// Convention selects casing for types and fields.
	Convention Convention

	// StripPrefixes are removed from type and field names before casing.
	// The first matching prefix wins.
	StripPrefixes []string

	// CapitalizeEnums upper-cases enum member names. This can make two
	// distinct values collide, which is reported as a naming collision.
	CapitalizeEnums bool
}

// Resolver resolves raw identifiers for each naming role.
type Resolver struct {
	convention      Convention
	stripPrefixes   []string
	capitalizeEnums bool
}

// New creates a Resolver. It fails with a ConfigurationError for an unknown
// convention.
func New(opts Options) (*Resolver, error) {
	conv, err := ParseConvention(string(opts.Convention))
	if err != nil {
		return nil, err
	}
	return &Resolver{
		convention:      conv,
		stripPrefixes:   slices.Clone(opts.StripPrefixes),
		capitalizeEnums: opts.CapitalizeEnums,
	}, nil
}

// Default returns a Resolver with the default convention and no prefixes.
func Default() *Resolver {
	return &Resolver{convention: ConventionDefault}
}

// Convention returns the configured convention.
func (r *Resolver) Convention() Convention { return r.convention }

// CapitalizeEnums reports whether enum members are upper-cased.
func (r *Resolver) CapitalizeEnums() bool { return r.capitalizeEnums }

func (r *Resolver) strip(name string) string {
	for _, prefix := range r.stripPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return name[len(prefix):]
		}
	}
	return name
}

// TypeName resolves a schema id (or a synthetic id) to a type name.
func (r *Resolver) TypeName(raw string) string {
	name := r.strip(raw)
	switch r.convention {
	case ConventionLowerWithUnder:
		name = strcase.ToSnake(name)
	case ConventionNone:
	default:
		name = strcase.ToCamel(name)
	}
	return cleanTypeName(name)
}

// FieldName resolves a property or parameter name to a struct field name.
func (r *Resolver) FieldName(raw string) string {
	name := r.strip(raw)
	switch r.convention {
	case ConventionLowerCamel:
		name = strcase.ToLowerCamel(name)
	case ConventionLowerWithUnder:
		name = strcase.ToSnake(name)
	case ConventionNone:
	default:
		name = strcase.ToCamel(name)
	}
	return CleanName(name)
}

// EnumValue resolves an enum value to a member name.
func (r *Resolver) EnumValue(raw string) string {
	name := CleanName(raw)
	if r.capitalizeEnums {
		name = escapeReservedWord(strings.ToUpper(name))
	}
	return name
}

// MethodName resolves a discovery method name to an exported Go method name.
func (r *Resolver) MethodName(raw string) string {
	return CleanName(strcase.ToCamel(raw))
}

// ServiceName resolves a dotted resource path ("projects.zones") to a
// service type name ("ProjectsZones").
func (r *Resolver) ServiceName(resourcePath string) string {
	return r.TypeName(resourcePath)
}

// FlagName resolves a parameter or field name to a kebab-case CLI flag.
func (r *Resolver) FlagName(raw string) string {
	return cleanFlagName(strcase.ToKebab(raw))
}

// CommandName resolves a dotted resource path plus method name to a
// kebab-case CLI command name.
func (r *Resolver) CommandName(resourcePath, method string) string {
	if resourcePath == "" {
		return r.FlagName(method)
	}
	return cleanFlagName(strcase.ToKebab(resourcePath + "." + method))
}

// ParameterName derives the raw name of a parameter carrying a value of the
// given schema ("ObjectAccessControl" becomes "objectAccessControl").
func (r *Resolver) ParameterName(schemaID string) string {
	return strcase.ToLowerCamel(schemaID)
}

// PackageName resolves an API name to a Go package name.
func (r *Resolver) PackageName(raw string) string {
	return cleanPackageName(raw)
}

// String describes the resolver configuration, for logs.
func (r *Resolver) String() string {
	return fmt.Sprintf("names(convention=%s, strip=%v, capitalize_enums=%t)",
		r.convention, r.stripPrefixes, r.capitalizeEnums)
}
