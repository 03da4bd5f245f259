package util

// file container.go distinguishes owning and shared container shapes, per
// the data model's requirement that entries exclusively owned by a
// container are destroyed with it, while entries that may be co-owned by
// multiple containers live as long as their longest holder.
//
// Both shapes build on the insertion-ordered, string-keyed map idiom
// already used by SVSet: a slice carries order, a map carries lookup.

// OwningMap is an insertion-ordered, string-keyed map whose values are
// considered exclusively owned by the map. Removing an entry or letting the
// map go out of scope is the only reference anything needs to hold; there
// is no separate release step.
type OwningMap[V any] struct {
	order []string
	vals  map[string]V
}

// NewOwningMap returns an empty, ready-to-use OwningMap.
func NewOwningMap[V any]() *OwningMap[V] {
	return &OwningMap[V]{vals: map[string]V{}}
}

// Set assigns the value for key, appending key to the insertion order if it
// is new.
func (m *OwningMap[V]) Set(key string, v V) {
	if _, ok := m.vals[key]; !ok {
		m.order = append(m.order, key)
	}
	m.vals[key] = v
}

// Get retrieves the value for key and whether it was present.
func (m *OwningMap[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Remove deletes key from the map, if present.
func (m *OwningMap[V]) Remove(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i := range m.order {
		if m.order[i] == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Keys returns the map's keys in insertion order.
func (m *OwningMap[V]) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of entries in the map.
func (m *OwningMap[V]) Len() int {
	return len(m.order)
}

// SharedRef is a co-owned handle to a value of type V. Multiple SharedMaps
// (or other holders) may hold the same SharedRef; the value is reachable as
// long as any one of them still holds it. This does not implement garbage
// collection itself (Go already does that for us) — it exists so that call
// sites can express "this entry may also be reachable from elsewhere" at
// the type level rather than relying on a bare pointer and a comment.
type SharedRef[V any] struct {
	v *V
}

// NewSharedRef wraps v in a new SharedRef.
func NewSharedRef[V any](v V) SharedRef[V] {
	return SharedRef[V]{v: &v}
}

// Get dereferences the shared value.
func (r SharedRef[V]) Get() V {
	return *r.v
}

// Set updates the shared value in place; every holder of this SharedRef
// observes the update.
func (r SharedRef[V]) Set(v V) {
	*r.v = v
}

// Valid returns whether the ref actually points at something. The zero
// SharedRef is invalid.
func (r SharedRef[V]) Valid() bool {
	return r.v != nil
}

// GobEncode implements gob.GobEncoder. Co-ownership is not serialized: a
// SharedRef encodes as empty, and GobDecode yields the zero (invalid) ref.
func (r SharedRef[V]) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode implements gob.GobDecoder, leaving r as the zero SharedRef.
func (r *SharedRef[V]) GobDecode([]byte) error {
	*r = SharedRef[V]{}
	return nil
}

// SharedMap is an insertion-ordered, string-keyed map of SharedRefs. Several
// SharedMaps (for instance a grammar Module's symbol table and a parsing
// dimension's priority index) may hold the same SharedRef to the same
// SymbolDefinition without either one being the sole owner.
type SharedMap[V any] struct {
	order []string
	vals  map[string]SharedRef[V]
}

// NewSharedMap returns an empty, ready-to-use SharedMap.
func NewSharedMap[V any]() *SharedMap[V] {
	return &SharedMap[V]{vals: map[string]SharedRef[V]{}}
}

// Set assigns the shared ref for key.
func (m *SharedMap[V]) Set(key string, ref SharedRef[V]) {
	if _, ok := m.vals[key]; !ok {
		m.order = append(m.order, key)
	}
	m.vals[key] = ref
}

// Get retrieves the shared ref for key and whether it was present.
func (m *SharedMap[V]) Get(key string) (SharedRef[V], bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Remove drops key from this map. The underlying value survives if another
// container still holds a SharedRef to it.
func (m *SharedMap[V]) Remove(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i := range m.order {
		if m.order[i] == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Keys returns the map's keys in insertion order.
func (m *SharedMap[V]) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
