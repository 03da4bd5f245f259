// Package identity provides the runtime-interned identifier table and the
// per-class type descriptors used throughout the grammar and AST packages
// in place of an open, dynamically-cast object hierarchy (see the "ubiquitous
// type-erased object hierarchy" design note: dispatch here is by small
// integer ID or by an explicit, closed kind tag, never by reflect-based
// casting).
package identity

import "sync"

// ID is a small integer identifying an interned string: a token kind, a
// production name, an AST node tag.
type ID int

// Table interns strings to IDs. The zero value is not ready for use; call
// NewTable. A Table is safe for concurrent use, though the core's
// single-threaded cooperative scheduling model (spec.md §5) means this is
// rarely exercised outside of tests.
type Table struct {
	mu     sync.Mutex
	byName map[string]ID
	names  []string
}

// NewTable returns an empty, ready-to-use Table.
func NewTable() *Table {
	return &Table{byName: map[string]ID{}}
}

// Intern returns the ID for name, assigning a new one on first use.
func (t *Table) Intern(name string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byName[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = id
	return id
}

// Name returns the interned string for id, or "" if id was never assigned
// by this table.
func (t *Table) Name(id ID) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(id) < 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Lookup returns the ID already assigned to name, if any.
func (t *Table) Lookup(name string) (ID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.byName[name]
	return id, ok
}

// InterfaceDescriptor names a capability an Object declares support for, so
// that callers can ask "does this object support X" without a type switch
// over every concrete type that might implement X.
type InterfaceDescriptor struct {
	Name string
}

// TypeInfo is a runtime type descriptor: a unique name, a single parent
// (substituting for multiple inheritance at the language level), and the
// list of interfaces this type declares. It purposefully does not carry a
// Go reflect.Type — the whole point is that dispatch happens via this
// descriptor and the identifier table, not via the host language's dynamic
// casts.
type TypeInfo struct {
	Name       string
	Parent     *TypeInfo
	interfaces []InterfaceDescriptor
}

// NewTypeInfo returns a TypeInfo with the given name and parent (nil for a
// root type).
func NewTypeInfo(name string, parent *TypeInfo) *TypeInfo {
	return &TypeInfo{Name: name, Parent: parent}
}

// DeclareInterface adds iface to this type's declared interfaces.
func (t *TypeInfo) DeclareInterface(iface InterfaceDescriptor) {
	t.interfaces = append(t.interfaces, iface)
}

// Implements returns whether this type, or any ancestor in its parent
// chain, declares iface.
func (t *TypeInfo) Implements(iface InterfaceDescriptor) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		for _, decl := range cur.interfaces {
			if decl.Name == iface.Name {
				return true
			}
		}
	}
	return false
}

// IsA returns whether t is other or descends from other via the parent
// chain.
func (t *TypeInfo) IsA(other *TypeInfo) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}
