// Package generr defines the error kinds reported while building a client
// model from a discovery document.
//
// Every failure in the pipeline is fatal and surfaces as exactly one of
// these types, so callers can branch on the kind with errors.As or KindOf.
package generr

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindSource          Kind = "source"
	KindConfiguration   Kind = "configuration"
	KindResolution      Kind = "resolution"
	KindNamingCollision Kind = "naming_collision"
	KindUnknown         Kind = "unknown"
)

// SourceError reports a discovery document that could not be read or parsed.
// It is always produced before pipeline construction starts.
type SourceError struct {
	// Source names where the document came from (a path, a URL, "stdin").
	Source string
	// Message describes what went wrong.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *SourceError) Error() string {
	msg := "discovery source " + e.Source + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() error { return e.Err }

// ConfigurationError reports contradictory or missing configuration.
type ConfigurationError struct {
	// Field is the offending option (e.g. "infile", "client_secret").
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration"
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ResolutionError reports a reference that cannot be found in an already
// built registry: a schema id, a method's request or response type, a path
// parameter, or a command.
type ResolutionError struct {
	// What is the kind of thing being resolved ("schema", "command", "path parameter").
	What string
	// Key is the unresolved identifier.
	Key string
	// Context says where the reference was made (e.g. "method storage.objects.get").
	Context string
	// Message optionally overrides the default "not found" wording.
	Message string
}

func (e *ResolutionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "not found"
	}
	out := fmt.Sprintf("unresolved %s %q: %s", e.What, e.Key, msg)
	if e.Context != "" {
		out += " (referenced from " + e.Context + ")"
	}
	return out
}

// NamingCollisionError reports two distinct raw identifiers that resolve to
// the same output identifier within one namespace.
type NamingCollisionError struct {
	Namespace string
	Name      string
	First     string
	Second    string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("naming collision in %s: %q and %q both resolve to %q",
		e.Namespace, e.First, e.Second, e.Name)
}

// Resolution is a convenience constructor for ResolutionError.
func Resolution(what, key, context string) *ResolutionError {
	return &ResolutionError{What: what, Key: key, Context: context}
}

// Config is a convenience constructor for ConfigurationError.
func Config(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first generator error found in err's chain.
func KindOf(err error) Kind {
	var (
		srcErr *SourceError
		cfgErr *ConfigurationError
		resErr *ResolutionError
		colErr *NamingCollisionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &colErr):
		return KindNamingCollision
	case errors.As(err, &resErr):
		return KindResolution
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &srcErr):
		return KindSource
	default:
		return KindUnknown
	}
}
