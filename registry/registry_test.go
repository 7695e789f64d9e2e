package registry_test

import (
	"maps"
	"testing"

	"github.com/broady/discogen/discovery"
	"github.com/broady/discogen/internal/testfixtures"
	"github.com/broady/discogen/names"
	"github.com/broady/discogen/registry"
)

type registries struct {
	messages *registry.MessageRegistry
	commands *registry.CommandRegistry
	services *registry.ServiceRegistry
}

// build runs the registries over doc in pipeline order.
func build(doc *discovery.Document, resolver *names.Resolver) (*registries, error) {
	messages := registry.NewMessageRegistry(resolver)
	for _, id := range doc.SchemaIDs() {
		if err := messages.AddDescriptorFromSchema(id, doc.Schemas[id]); err != nil {
			return nil, err
		}
	}
	params := maps.Clone(doc.Parameters)
	if params == nil {
		params = make(map[string]*discovery.Schema)
	}
	params["trace"] = &discovery.Schema{Type: "string", Location: discovery.LocationQuery}
	sqp := &discovery.Schema{Type: "object", Properties: params}
	if err := messages.AddDescriptorFromSchema(registry.StandardQueryParametersID, sqp); err != nil {
		return nil, err
	}
	if err := messages.Finalize(); err != nil {
		return nil, err
	}

	commands := registry.NewCommandRegistry(resolver, messages)
	if err := commands.AddGlobalParameters(messages.MustLookupDescriptor(registry.StandardQueryParametersID)); err != nil {
		return nil, err
	}

	services := registry.NewServiceRegistry(resolver, messages, commands, registry.ServiceOptions{
		Package:    doc.Name,
		URLVersion: doc.Version,
		Scopes:     doc.ScopeNames(),
	})
	for _, name := range doc.ResourceNames() {
		if err := services.AddServiceFromResource(name, doc.Resources[name]); err != nil {
			return nil, err
		}
	}
	if len(doc.Methods) > 0 {
		if err := services.AddServiceFromResource("api", &discovery.Resource{Methods: doc.Methods}); err != nil {
			return nil, err
		}
	}
	return &registries{messages: messages, commands: commands, services: services}, nil
}

func mustBuild(t *testing.T, fixture string) *registries {
	t.Helper()
	r, err := build(testfixtures.Document(t, fixture), names.Default())
	if err != nil {
		t.Fatalf("build(%s) error = %v", fixture, err)
	}
	return r
}

func parse(t *testing.T, doc string) *discovery.Document {
	t.Helper()
	d, err := discovery.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return d
}
