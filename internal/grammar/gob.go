package grammar

import (
	"bytes"
	"encoding/gob"
)

// init registers the scalar types a SymbolDefinition's Vars map is expected
// to hold (spec.md §3.3's parsing-handler variables are simple metadata:
// strings, numbers, flags), since gob requires every concrete type that
// ever crosses an interface{} boundary to be registered up front.
func init() {
	gob.Register("")
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(false)
}

// Module and Repository hold their data behind unexported fields (maps plus
// insertion-order slices, and a back-pointer to Parent that must not be
// serialized lest it loop). gob only encodes exported struct fields, so
// Module/SymbolDefinition/Repository each implement GobEncoder/GobDecoder
// over a small mirror struct built from their public accessors, the way
// internal/snapshot needs to round-trip a Repository to a BLOB column. This
// is the stdlib replacement for the teacher's dekarrin/rezi
// (EncBinary/DecBinary); rezi is a hand-rolled binary codec with nothing in
// the rest of the example pack depending on it, so there is no SPEC_FULL.md
// component left to wire it into — gob does the identical job built in.

type gobModule struct {
	Name       string
	Symbols    []SymbolDefinition
	CharGroups []CharGroupDefinition
	Modules    []gobModule
}

func moduleToGob(m *Module) gobModule {
	g := gobModule{Name: m.Name}
	for _, name := range m.SymbolNames() {
		s, _ := m.Symbol(name)
		g.Symbols = append(g.Symbols, *s)
	}
	for _, name := range m.CharGroupNames() {
		d, _ := m.CharGroup(name)
		g.CharGroups = append(g.CharGroups, *d)
	}
	for _, name := range m.ModuleNames() {
		sub, _ := m.SubModule(name)
		g.Modules = append(g.Modules, moduleToGob(sub))
	}
	return g
}

func moduleFromGob(g gobModule) *Module {
	m := NewModule(g.Name)
	for _, s := range g.Symbols {
		m.SetSymbol(s)
	}
	for _, d := range g.CharGroups {
		m.SetCharGroup(d)
	}
	for _, sub := range g.Modules {
		m.SetModule(moduleFromGob(sub))
	}
	return m
}

// GobEncode implements gob.GobEncoder over moduleToGob's exported mirror.
func (m *Module) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(moduleToGob(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, replacing m's contents in place.
// Decoded submodules get their Parent set by SetModule as they're attached;
// m itself is left with no Parent, same as a freshly built root.
func (m *Module) GobDecode(data []byte) error {
	var g gobModule
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	*m = *moduleFromGob(g)
	return nil
}

type gobSymbolDefinition struct {
	Name       string
	Term       Term
	HasTerm    bool
	HandlerRef ParsingHandlerRef
	Vars       map[string]any
	Flags      []MultiplyFlag
	Parent     string
}

// GobEncode implements gob.GobEncoder, carrying the unexported hasTerm flag
// across the wire alongside the exported fields.
func (s SymbolDefinition) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobSymbolDefinition{
		Name: s.Name, Term: s.Term, HasTerm: s.hasTerm, HandlerRef: s.HandlerRef,
		Vars: s.Vars, Flags: s.Flags, Parent: s.Parent,
	}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *SymbolDefinition) GobDecode(data []byte) error {
	var g gobSymbolDefinition
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	*s = SymbolDefinition{
		Name: g.Name, Term: g.Term, hasTerm: g.HasTerm, HandlerRef: g.HandlerRef,
		Vars: g.Vars, Flags: g.Flags, Parent: g.Parent,
	}
	return nil
}

type gobRepository struct {
	Root       gobModule
	Dimensions map[string]*ParsingDimension
	DimOrder   []string
	Version    uint64
}

// GobEncode implements gob.GobEncoder, serializing the entire module tree,
// declared parsing dimensions, and the current mutation Version.
func (r *Repository) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobRepository{Root: moduleToGob(r.root), Dimensions: r.dimensions, DimOrder: r.dimOrder, Version: r.version}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, replacing r's contents in place. r
// must already exist (e.g. from NewRepository); GobDecode does not
// construct one. Restored dimension hooks keep their SymbolRef names, but
// their Symbol is the zero SharedRef.
func (r *Repository) GobDecode(data []byte) error {
	var g gobRepository
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	r.root = moduleFromGob(g.Root)
	r.dimensions = g.Dimensions
	if r.dimensions == nil {
		r.dimensions = map[string]*ParsingDimension{}
	}
	r.dimOrder = g.DimOrder
	r.version = g.Version
	return nil
}
