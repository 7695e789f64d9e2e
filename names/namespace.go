package names

import (
	"sort"
	"strconv"

	"github.com/broady/discogen/generr"
)

// Namespace tracks the output identifiers claimed within one naming domain.
// It is not safe for concurrent use; the pipeline is single-threaded.
type Namespace struct {
	name   string
	byName map[string]string // resolved -> raw
	byRaw  map[string]string // raw -> resolved
}

// NewNamespace creates an empty namespace. The name appears in collision errors.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:   name,
		byName: make(map[string]string),
		byRaw:  make(map[string]string),
	}
}

// Name returns the namespace name.
func (ns *Namespace) Name() string { return ns.name }

// Claim records that raw resolves to resolved. Claiming the same raw
// identifier again returns its existing name. A different raw identifier
// that already owns resolved is a NamingCollisionError.
func (ns *Namespace) Claim(raw, resolved string) (string, error) {
	if existing, ok := ns.byRaw[raw]; ok {
		return existing, nil
	}
	if owner, ok := ns.byName[resolved]; ok {
		return "", &generr.NamingCollisionError{
			Namespace: ns.name,
			Name:      resolved,
			First:     owner,
			Second:    raw,
		}
	}
	ns.byName[resolved] = raw
	ns.byRaw[raw] = resolved
	return resolved, nil
}

// ClaimUnique records raw under candidate, or under candidate2, candidate3,
// ... if candidate is taken. It is used for synthetic names that must not
// displace names derived from the document.
func (ns *Namespace) ClaimUnique(raw, candidate string) string {
	if existing, ok := ns.byRaw[raw]; ok {
		return existing
	}
	name := candidate
	for i := 2; ; i++ {
		if _, taken := ns.byName[name]; !taken {
			break
		}
		name = candidate + strconv.Itoa(i)
	}
	ns.byName[name] = raw
	ns.byRaw[raw] = name
	return name
}

// Lookup returns the name claimed for raw.
func (ns *Namespace) Lookup(raw string) (string, bool) {
	name, ok := ns.byRaw[raw]
	return name, ok
}

// Owner returns the raw identifier that claimed name.
func (ns *Namespace) Owner(name string) (string, bool) {
	raw, ok := ns.byName[name]
	return raw, ok
}

// Len returns the number of claimed names.
func (ns *Namespace) Len() int { return len(ns.byName) }

// Names returns all claimed names, sorted.
func (ns *Namespace) Names() []string {
	out := make([]string, 0, len(ns.byName))
	for name := range ns.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
