// Package gen turns a discovery document into a model and writes the
// generated client from it.
//
// A Generator is built in one pass: messages (every schema sorted by id,
// then the standard query parameters), then the global flags, then one
// service per resource. Any failure aborts construction, so a Generator
// always holds a complete, validated model.
package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/goccy/go-json"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/gen/golang"
	"github.com/broady/discogen/gen/proto"
	"github.com/broady/discogen/gen/sink"
	"github.com/broady/discogen/ir"
	"github.com/broady/discogen/names"
	"github.com/broady/discogen/registry"
)

// TraceParameter is the query parameter added to every API's standard
// parameters.
const TraceParameter = "trace"

// Generator holds the model built from one document.
type Generator struct {
	doc    *discovery.Document
	cfg    Config
	names  *names.Resolver
	info   ClientInfo
	logger *slog.Logger

	messages *registry.MessageRegistry
	commands *registry.CommandRegistry
	services *registry.ServiceRegistry
	model    *ir.Model

	golang *golang.Emitter
	proto  *proto.Emitter
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger for pipeline warnings. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New validates cfg and builds the model for doc.
func New(doc *discovery.Document, cfg Config, opts ...Option) (*Generator, error) {
	g := &Generator{doc: doc, cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	if doc == nil {
		return nil, errors.New("gen: nil document")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	g.names = resolver
	g.info = NewClientInfo(doc, cfg, resolver)

	model := &ir.Model{}
	if _, _, ok := ComputePaths(g.logger, doc.Name, doc.Version, doc); !ok {
		model.AddWarning(ir.Warning{
			Code:    "base_url_shape",
			Message: fmt.Sprintf("base URL does not contain %s/%s/", doc.Name, doc.Version),
			Subject: g.info.BaseURL,
		})
	}

	if err := g.buildMessages(); err != nil {
		return nil, err
	}
	g.commands = registry.NewCommandRegistry(resolver, g.messages)
	if err := g.commands.AddGlobalParameters(g.messages.MustLookupDescriptor(registry.StandardQueryParametersID)); err != nil {
		return nil, err
	}
	if err := g.buildServices(); err != nil {
		return nil, err
	}
	g.info = g.info.WithScopes(g.services.Scopes())

	model.Package = ir.PackageInfo{
		Name:     doc.Name,
		Version:  doc.Version,
		GoName:   g.info.GoPackage,
		Title:    doc.Title,
		BaseURL:  g.info.BaseURL,
		BasePath: g.info.BasePath,
	}
	for _, t := range g.messages.Messages() {
		model.AddType(t)
	}
	for _, svc := range g.services.Services() {
		model.AddService(svc)
	}
	for _, cmd := range g.commands.Commands() {
		model.AddCommand(cmd)
	}
	model.Scopes = g.info.Scopes
	if errs := model.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid model: %w", errors.Join(errs...))
	}
	g.model = model

	if g.golang, err = golang.New(model, g.goOptions()); err != nil {
		return nil, err
	}
	if g.proto, err = proto.New(model, proto.Options{
		Package:      doc.Name + "." + g.info.Version,
		MessagesFile: g.info.MessagesProtoFileName(),
		BaseURL:      g.info.BaseURL,
	}); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) buildMessages() error {
	g.messages = registry.NewMessageRegistry(g.names)
	for _, id := range g.doc.SchemaIDs() {
		if err := g.messages.AddDescriptorFromSchema(id, g.doc.Schemas[id]); err != nil {
			return err
		}
	}
	if err := g.messages.AddDescriptorFromSchema(registry.StandardQueryParametersID, StandardQueryParametersSchema(g.doc)); err != nil {
		return err
	}
	return g.messages.Finalize()
}

func (g *Generator) buildServices() error {
	g.services = registry.NewServiceRegistry(g.names, g.messages, g.commands, registry.ServiceOptions{
		Package:    g.doc.Name,
		URLVersion: g.doc.Version,
		BasePath:   g.info.BasePath,
		Scopes:     g.info.Scopes,
	})
	for _, name := range g.doc.ResourceNames() {
		if err := g.services.AddServiceFromResource(name, g.doc.Resources[name]); err != nil {
			return err
		}
	}
	if len(g.doc.Methods) > 0 {
		if err := g.services.AddServiceFromResource("api", &discovery.Resource{Methods: g.doc.Methods}); err != nil {
			return err
		}
	}
	return nil
}

// StandardQueryParametersSchema returns the object schema holding the
// document's global parameters plus TraceParameter. A document-declared
// trace parameter is replaced.
func StandardQueryParametersSchema(doc *discovery.Document) *discovery.Schema {
	params := maps.Clone(doc.Parameters)
	if params == nil {
		params = make(map[string]*discovery.Schema)
	}
	params[TraceParameter] = &discovery.Schema{
		Type:        "string",
		Location:    discovery.LocationQuery,
		Description: "A tracing token of the form \"token:<tokenid>\" to include in api requests.",
	}
	return &discovery.Schema{
		ID:          registry.StandardQueryParametersID,
		Type:        "object",
		Description: "Query parameters accepted by every method.",
		Properties:  params,
	}
}

func (g *Generator) goOptions() golang.Options {
	return golang.Options{
		Package:       g.info.GoPackage,
		RuntimeImport: g.cfg.runtimeImport(),
		Title:         g.info.Title,
		Description:   g.info.Description,
		Version:       g.info.URLVersion,
		Revision:      g.info.Revision,
		BaseURL:       g.info.BaseURL,
		BasePath:      g.info.BasePath,
		UserAgent:     g.info.UserAgent,
		APIKey:        g.info.APIKey,
		ClientID:      g.info.ClientID,
		ClientSecret:  g.info.ClientSecret,
		Scopes:        g.info.Scopes,
	}
}

// ClientInfo returns the finished client info.
func (g *Generator) ClientInfo() ClientInfo { return g.info }

// Document returns the source document.
func (g *Generator) Document() *discovery.Document { return g.doc }

// Names returns the name resolver.
func (g *Generator) Names() *names.Resolver { return g.names }

// Model returns the finished model. Callers must not modify it.
func (g *Generator) Model() *ir.Model { return g.model }

// Messages returns the message registry.
func (g *Generator) Messages() *registry.MessageRegistry { return g.messages }

// Services returns the service registry.
func (g *Generator) Services() *registry.ServiceRegistry { return g.services }

// Commands returns the command registry.
func (g *Generator) Commands() *registry.CommandRegistry { return g.commands }

// WriteMessagesFile writes the Go message types.
func (g *Generator) WriteMessagesFile(w io.Writer) error { return g.golang.WriteMessages(w) }

// WriteClientLibrary writes the Go client and its services.
func (g *Generator) WriteClientLibrary(w io.Writer) error { return g.golang.WriteClient(w) }

// WriteCLI writes the kong command-line interface.
func (g *Generator) WriteCLI(w io.Writer) error { return g.golang.WriteCLI(w) }

// WriteInit writes the package documentation and constants.
func (g *Generator) WriteInit(w io.Writer) error { return g.golang.WriteInit(w) }

// WriteMessagesProtoFile writes the proto messages file.
func (g *Generator) WriteMessagesProtoFile(w io.Writer) error { return g.proto.WriteMessages(w) }

// WriteServicesProtoFile writes the proto services file.
func (g *Generator) WriteServicesProtoFile(w io.Writer) error { return g.proto.WriteServices(w) }

type artifact struct {
	name  string
	write func(io.Writer) error
}

func (g *Generator) goArtifacts() []artifact {
	return []artifact{
		{g.info.InitFileName(), g.WriteInit},
		{g.info.MessagesFileName(), g.WriteMessagesFile},
		{g.info.ClientFileName(), g.WriteClientLibrary},
		{g.info.CLIFileName(), g.WriteCLI},
	}
}

func (g *Generator) protoArtifacts() []artifact {
	return []artifact{
		{g.info.MessagesProtoFileName(), g.WriteMessagesProtoFile},
		{g.info.ServicesProtoFileName(), g.WriteServicesProtoFile},
	}
}

// WriteAll writes the Go client files, plus the proto files when EmitProto
// is set and the model dump when DumpModel is set.
func (g *Generator) WriteAll(ctx context.Context, out sink.OutputSink) error {
	if err := g.emit(ctx, out, g.goArtifacts()); err != nil {
		return err
	}
	if g.cfg.EmitProto {
		if err := g.WriteProto(ctx, out); err != nil {
			return err
		}
	}
	if g.cfg.DumpModel {
		return g.emit(ctx, out, []artifact{{g.info.ModelFileName(), g.writeModel}})
	}
	return nil
}

// WriteProto renders both proto files, compiles them, and writes them.
func (g *Generator) WriteProto(ctx context.Context, out sink.OutputSink) error {
	files := make(map[string]string, 2)
	for _, a := range g.protoArtifacts() {
		var buf bytes.Buffer
		if err := a.write(&buf); err != nil {
			return fmt.Errorf("generate %s: %w", a.name, err)
		}
		files[a.name] = buf.String()
	}
	compiled, err := proto.Check(ctx, files)
	if err != nil {
		return err
	}
	if err := g.proto.Verify(compiled); err != nil {
		return err
	}
	for _, a := range g.protoArtifacts() {
		if err := out.WriteFile(ctx, a.name, []byte(files[a.name])); err != nil {
			return err
		}
		g.logger.Debug("wrote file", "path", a.name, "bytes", len(files[a.name]))
	}
	return nil
}

func (g *Generator) emit(ctx context.Context, out sink.OutputSink, artifacts []artifact) error {
	for _, a := range artifacts {
		var buf bytes.Buffer
		if err := a.write(&buf); err != nil {
			return fmt.Errorf("generate %s: %w", a.name, err)
		}
		if err := out.WriteFile(ctx, a.name, buf.Bytes()); err != nil {
			return err
		}
		g.logger.Debug("wrote file", "path", a.name, "bytes", buf.Len())
	}
	return nil
}

func (g *Generator) writeModel(w io.Writer) error {
	data, err := json.MarshalIndent(g.model, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
