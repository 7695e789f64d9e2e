package gen

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/names"
)

// ClientInfo describes the API as a whole. It is built once from the
// document and the configuration; WithScopes is the only way to change it
// and returns a copy.
type ClientInfo struct {
	// Package is the API name ("storage").
	Package string

	// GoPackage is the generated Go package name.
	GoPackage string

	// Version is the normalized version used in file names ("v1_1").
	Version string

	// URLVersion is the version as it appears in URLs ("v1.1").
	URLVersion string

	// Revision is the document revision, if any.
	Revision string

	Title       string
	Description string

	// BaseURL and BasePath are the split of rootUrl + servicePath.
	BaseURL  string
	BasePath string

	// Scopes are the declared, configured and (after WithScopes) method
	// scopes, sorted and unique.
	Scopes []string

	ClientID     string
	ClientSecret string
	APIKey       string
	UserAgent    string

	// DefaultDirectory is the output directory when none is configured.
	DefaultDirectory string
}

// NewClientInfo derives the client info from a document.
func NewClientInfo(doc *discovery.Document, cfg Config, resolver *names.Resolver) ClientInfo {
	goPackage := cfg.RootPackage
	if goPackage == "" {
		goPackage = resolver.PackageName(doc.Name)
	}
	baseURL, basePath, _ := splitPaths(doc.Name, doc.Version, doc)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = doc.Name + "-generated/0.1"
	}

	return ClientInfo{
		Package:          doc.Name,
		GoPackage:        goPackage,
		Version:          NormalizeVersion(doc.Version),
		URLVersion:       doc.Version,
		Revision:         doc.Revision,
		Title:            doc.Title,
		Description:      doc.Description,
		BaseURL:          baseURL,
		BasePath:         basePath,
		Scopes:           sortedUnique(doc.ScopeNames(), cfg.Scopes),
		ClientID:         cfg.ClientID,
		ClientSecret:     cfg.ClientSecret,
		APIKey:           cfg.APIKey,
		UserAgent:        userAgent,
		DefaultDirectory: goPackage,
	}
}

// WithScopes returns a copy of c with its scopes replaced.
func (c ClientInfo) WithScopes(scopes []string) ClientInfo {
	c.Scopes = sortedUnique(scopes)
	return c
}

// HasAuth reports whether OAuth client credentials were configured.
func (c ClientInfo) HasAuth() bool {
	return c.ClientID != ""
}

func (c ClientInfo) fileName(kind, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", c.GoPackage, c.Version, kind, ext)
}

// MessagesFileName is the Go file holding the message types.
func (c ClientInfo) MessagesFileName() string { return c.fileName("messages", "go") }

// ClientFileName is the Go file holding the client and its services.
func (c ClientInfo) ClientFileName() string { return c.fileName("client", "go") }

// CLIFileName is the Go file holding the command-line interface.
func (c ClientInfo) CLIFileName() string { return c.fileName("cli", "go") }

// InitFileName is the Go file holding the package documentation and
// constants.
func (c ClientInfo) InitFileName() string { return "doc.go" }

// MessagesProtoFileName is the proto file holding the messages.
func (c ClientInfo) MessagesProtoFileName() string { return c.fileName("messages", "proto") }

// ServicesProtoFileName is the proto file holding the services.
func (c ClientInfo) ServicesProtoFileName() string { return c.fileName("services", "proto") }

// ModelFileName is the JSON dump of the model.
func (c ClientInfo) ModelFileName() string { return "model.json" }

// NormalizeVersion makes a version usable in identifiers and file names:
// "v1.1" becomes "v1_1".
func NormalizeVersion(version string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(version)
}

// ComputePaths joins rootUrl and servicePath and splits the result on the
// "{package}/{version}/" component. baseURL ends with that component and
// basePath is whatever follows it. When the component is missing, ok is
// false, a warning is logged to logger (slog.Default() when nil) and the
// whole URL is the base with an empty path.
func ComputePaths(logger *slog.Logger, pkg, urlVersion string, doc *discovery.Document) (baseURL, basePath string, ok bool) {
	baseURL, basePath, ok = splitPaths(pkg, urlVersion, doc)
	if !ok {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("base URL does not contain package/version; using it as is",
			"url", baseURL, "package", pkg, "version", urlVersion)
	}
	return baseURL, basePath, ok
}

func splitPaths(pkg, urlVersion string, doc *discovery.Document) (baseURL, basePath string, ok bool) {
	full := joinURL(doc.RootURL, doc.ServicePath)
	if full == "" {
		full = doc.BaseURL
	}
	component := pkg + "/" + urlVersion + "/"
	i := strings.LastIndex(full, component)
	if i < 0 {
		return full, "", false
	}
	end := i + len(component)
	return full[:end], full[end:], true
}

func joinURL(root, path string) string {
	if root == "" {
		return ""
	}
	base, err := url.Parse(root)
	if err != nil {
		return root + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return root + path
	}
	return base.ResolveReference(ref).String()
}

func sortedUnique(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
