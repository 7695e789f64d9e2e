package gen

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"

	"github.com/broady/discogen/generr"
	"github.com/broady/discogen/names"
)

// DefaultRuntimeImport is the import path of the package generated clients
// build on.
const DefaultRuntimeImport = "github.com/broady/discogen"

// Config holds everything the generator needs besides the document. It is
// built once by the caller and never modified by the generator.
type Config struct {
	// Infile is the path of a discovery document ("-" for stdin).
	Infile string `yaml:"infile" validate:"excluded_with=DiscoveryURL"`

	// DiscoveryURL is a document URL or an "api.version" shorthand.
	DiscoveryURL string `yaml:"discovery_url"`

	// OutDir is the output directory. Defaults to the Go package name.
	OutDir string `yaml:"outdir"`

	// Overwrite allows writing into an existing output directory.
	Overwrite bool `yaml:"overwrite"`

	// RootPackage overrides the generated Go package name.
	RootPackage string `yaml:"root_package" validate:"omitempty,lowercase,alphanum"`

	// StripPrefixes are removed from type and field names.
	StripPrefixes []string `yaml:"strip_prefix" validate:"dive,required"`

	// APIKey, ClientID, ClientSecret and Scopes are baked into the
	// generated client. Auth code is only emitted with a client id.
	APIKey       string   `yaml:"api_key"`
	ClientID     string   `yaml:"client_id" validate:"required_with=ClientSecret"`
	ClientSecret string   `yaml:"client_secret" validate:"required_with=ClientID"`
	Scopes       []string `yaml:"scope" validate:"dive,required"`

	// UserAgent defaults to "<package>-generated/0.1".
	UserAgent string `yaml:"user_agent"`

	// CapitalizeEnums upper-cases enum member names.
	CapitalizeEnums bool `yaml:"capitalize_enums"`

	// NameConvention is one of names.Conventions.
	NameConvention string `yaml:"name_convention" validate:"omitempty,oneof=default lower_camel lower_with_under none"`

	// EmitProto adds the messages and services proto files.
	EmitProto bool `yaml:"emit_proto"`

	// DumpModel adds model.json, the finished model as JSON.
	DumpModel bool `yaml:"dump_model"`

	// RuntimeImport is the import path of the runtime package.
	RuntimeImport string `yaml:"runtime_import"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and reports the first problem as a
// generr.ConfigurationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return &generr.ConfigurationError{Message: "invalid configuration", Err: err}
	}
	fe := valErrs[0]
	return &generr.ConfigurationError{Field: fe.Field(), Message: formatValidationError(fe)}
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "excluded_with":
		return "cannot be combined with " + strcase.ToSnake(fe.Param())
	case "required_with":
		return "required when " + strcase.ToSnake(fe.Param()) + " is set"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "lowercase", "alphanum":
		return "must be a lowercase alphanumeric Go package name"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Resolver builds the name resolver the configuration describes.
func (c Config) Resolver() (*names.Resolver, error) {
	return names.New(names.Options{
		Convention:      names.Convention(c.NameConvention),
		StripPrefixes:   c.StripPrefixes,
		CapitalizeEnums: c.CapitalizeEnums,
	})
}

func (c Config) runtimeImport() string {
	if c.RuntimeImport != "" {
		return c.RuntimeImport
	}
	return DefaultRuntimeImport
}
