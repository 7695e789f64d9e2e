package names

import (
	"errors"
	"reflect"
	"testing"

	"github.com/broady/discogen/generr"
)

func TestNamespace_Claim(t *testing.T) {
	ns := NewNamespace("types")

	got, err := ns.Claim("Foo", "Foo")
	if err != nil {
		t.Fatalf("Claim(Foo) error = %v", err)
	}
	if got != "Foo" {
		t.Errorf("Claim(Foo) = %q, want %q", got, "Foo")
	}

	// Idempotent for the same raw identifier.
	got, err = ns.Claim("Foo", "Foo")
	if err != nil || got != "Foo" {
		t.Errorf("second Claim(Foo) = %q, %v; want Foo, nil", got, err)
	}

	if _, err := ns.Claim("Bar", "Bar"); err != nil {
		t.Fatalf("Claim(Bar) error = %v", err)
	}
	if ns.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ns.Len())
	}
	if want := []string{"Bar", "Foo"}; !reflect.DeepEqual(ns.Names(), want) {
		t.Errorf("Names() = %v, want %v", ns.Names(), want)
	}
}

func TestNamespace_Collision(t *testing.T) {
	r, err := New(Options{Convention: ConventionLowerWithUnder})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ns := NewNamespace("types")

	if _, err := ns.Claim("Foo", r.TypeName("Foo")); err != nil {
		t.Fatalf("Claim(Foo) error = %v", err)
	}
	_, err = ns.Claim("foo", r.TypeName("foo"))

	var colErr *generr.NamingCollisionError
	if !errors.As(err, &colErr) {
		t.Fatalf("Claim(foo) error = %v, want NamingCollisionError", err)
	}
	if colErr.First != "Foo" || colErr.Second != "foo" {
		t.Errorf("culprits = %q, %q; want Foo, foo", colErr.First, colErr.Second)
	}
	if colErr.Name != "foo" {
		t.Errorf("Name = %q, want %q", colErr.Name, "foo")
	}
	if colErr.Namespace != "types" {
		t.Errorf("Namespace = %q, want %q", colErr.Namespace, "types")
	}
}

func TestNamespace_ClaimUnique(t *testing.T) {
	ns := NewNamespace("types")
	if _, err := ns.Claim("FooBar", "FooBar"); err != nil {
		t.Fatal(err)
	}

	if got := ns.ClaimUnique("Foo.bar", "FooBar"); got != "FooBar2" {
		t.Errorf("ClaimUnique() = %q, want %q", got, "FooBar2")
	}
	if got := ns.ClaimUnique("Foo.bar", "Ignored"); got != "FooBar2" {
		t.Errorf("repeated ClaimUnique() = %q, want %q", got, "FooBar2")
	}
	if got := ns.ClaimUnique("Foo..bar", "FooBar"); got != "FooBar3" {
		t.Errorf("ClaimUnique() = %q, want %q", got, "FooBar3")
	}

	owner, ok := ns.Owner("FooBar2")
	if !ok || owner != "Foo.bar" {
		t.Errorf("Owner(FooBar2) = %q, %v; want Foo.bar, true", owner, ok)
	}
	if name, ok := ns.Lookup("Foo..bar"); !ok || name != "FooBar3" {
		t.Errorf("Lookup(Foo..bar) = %q, %v", name, ok)
	}
}
