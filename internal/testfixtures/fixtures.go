// Package testfixtures provides discovery documents used for testing the
// registries, the generator and the emitters.
package testfixtures

import (
	"embed"
	"testing"

	"github.com/broady/discogen/discovery"
)

//go:embed *.json
var files embed.FS

// Fixture file names.
const (
	// Items is the smallest useful document: one resource, one method,
	// one global parameter and one undeclared scope.
	Items = "items.json"
	// Storage exercises nested resources, enums, maps, allOf, aliases,
	// media upload and a top-level method.
	Storage = "storage.json"
	// Collision declares schemas Foo and foo.
	Collision = "collision.json"
	// Unresolved references a schema that does not exist.
	Unresolved = "unresolved.json"
	// BadPath has a servicePath without the package/version component.
	BadPath = "badpath.json"
)

// Bytes returns the raw contents of a fixture. It panics if the fixture
// does not exist.
func Bytes(name string) []byte {
	data, err := files.ReadFile(name)
	if err != nil {
		panic("testfixtures: " + err.Error())
	}
	return data
}

// Document parses a fixture, failing the test on error.
func Document(t testing.TB, name string) *discovery.Document {
	t.Helper()
	doc, err := discovery.Parse(Bytes(name))
	if err != nil {
		t.Fatalf("parse fixture %s: %v", name, err)
	}
	return doc
}
