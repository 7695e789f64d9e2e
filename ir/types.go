// Package ir defines the intermediate representation produced from a
// discovery document: named types, services with their methods, and the
// CLI commands bound to each method. Emitters consume a finished Model and
// never modify it.
package ir

import "strings"

// Documentation holds the description text carried over from the document.
type Documentation struct {
	// Summary is the first sentence or paragraph.
	Summary string

	// Body is the complete text, including the summary.
	Body string

	// Deprecated is true if the document marks the element deprecated.
	Deprecated bool
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && !d.Deprecated
}

// Doc builds Documentation from a description string. The summary is the
// first paragraph, cut at the first sentence end.
func Doc(text string) Documentation {
	body := strings.TrimSpace(text)
	if body == "" {
		return Documentation{}
	}
	summary := body
	if i := strings.Index(summary, "\n\n"); i >= 0 {
		summary = summary[:i]
	}
	if i := strings.Index(summary, ". "); i >= 0 {
		summary = summary[:i+1]
	}
	return Documentation{
		Summary: strings.Join(strings.Fields(summary), " "),
		Body:    body,
	}
}

// Warning represents a non-fatal issue encountered while building a model.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Subject names what triggered the warning (a schema id, a method id, a URL).
	Subject string `json:"subject,omitempty"`
}

// PackageInfo describes the API a model was built for.
type PackageInfo struct {
	// Name is the API name from the document (e.g. "storage").
	Name string `json:"name"`

	// Version is the API version (e.g. "v1").
	Version string `json:"version"`

	// GoName is the Go package name for the generated client.
	GoName string `json:"goName"`

	// Title is the human-readable API title.
	Title string `json:"title,omitempty"`

	// BaseURL is the URL every relative method path is resolved against.
	BaseURL string `json:"baseUrl"`

	// BasePath is the path suffix below BaseURL, usually empty.
	BasePath string `json:"basePath"`
}

// IsZero returns true if the package info is empty.
func (p PackageInfo) IsZero() bool {
	return p.Name == "" && p.Version == "" && p.GoName == ""
}
