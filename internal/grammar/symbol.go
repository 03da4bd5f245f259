package grammar

import "github.com/alusus-go/corelang/internal/util"

// ParsingHandlerRef names a parsing handler registered with a parser
// (spec.md §4.4). The grammar package only stores the reference; resolving
// it to a callable is the parser/handler package's job, keeping the
// grammar data model free of behavior, per spec.md §3.3.
type ParsingHandlerRef string

// SymbolDefinition is a production plus its associated parsing handler
// reference and variables (spec.md §3.3). A symbol may inherit from
// another by reference, in which case fields left unset here (Term is the
// zero Term, HandlerRef is "") are resolved by walking Parent at lookup
// time (spec.md §4.1: "missing fields are looked up on the parent symbol
// chain").
type SymbolDefinition struct {
	Name       string
	Term       Term
	hasTerm    bool
	HandlerRef ParsingHandlerRef
	Vars       map[string]any
	Flags      []MultiplyFlag
	Parent     string // qualified name of the symbol this one inherits from, or ""
}

// NewSymbolDefinition returns a SymbolDefinition with its term set and
// marked present (distinguishing "inherits term from parent" from "term is
// the empty Concat").
func NewSymbolDefinition(name string, term Term) SymbolDefinition {
	return SymbolDefinition{Name: name, Term: term, hasTerm: true, Vars: map[string]any{}}
}

// HasOwnTerm returns whether this definition sets its own Term rather than
// inheriting one. On the merged definition Repository.GetSymbol returns, it
// also reports true when the Term was filled in from an ancestor.
func (s SymbolDefinition) HasOwnTerm() bool { return s.hasTerm }

// HasFlag returns whether this symbol definition carries the given
// modifier flag (the PassUp / ErrorSyncTerm / OneRouteTerm set a
// production's Flags may declare, spec.md §3.3).
func (s SymbolDefinition) HasFlag(f MultiplyFlag) bool {
	for _, fl := range s.Flags {
		if fl == f {
			return true
		}
	}
	return false
}

// Module is a named container of symbol definitions, character groups, and
// nested modules, forming the namespace reachable via qualified names such
// as "root.Main.Statement_List" (spec.md §3.3).
//
// Symbols live in a util.SharedMap rather than a bare map: a
// ParsingDimension hook (see Repository.AddReference) keeps the very same
// util.SharedRef a module holds for that symbol, so a definition edited
// through either container is visible through the other (spec.md §3.2's
// owning-vs-shared container distinction — a symbol may be reachable from
// both its declaring module and every dimension it's hooked into, and none
// of them is the sole owner). Character groups and nested modules have
// exactly one owner each and use the plain util.OwningMap shape instead.
type Module struct {
	Name string

	symbols    *util.SharedMap[*SymbolDefinition]
	charGroups *util.OwningMap[*CharGroupDefinition]
	modules    *util.OwningMap[*Module]

	// Parent is the enclosing module, or nil for the root module and for a
	// module not attached anywhere. SetModule sets it and RemoveModule
	// clears it; Validate follows it to detect module-parent cycles
	// (spec.md §4.1).
	Parent *Module
}

// NewModule returns an empty, named Module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		symbols:    util.NewSharedMap[*SymbolDefinition](),
		charGroups: util.NewOwningMap[*CharGroupDefinition](),
		modules:    util.NewOwningMap[*Module](),
	}
}

// SetSymbol adds or replaces the symbol definition named by its Name field.
func (m *Module) SetSymbol(s SymbolDefinition) {
	sCopy := s
	m.symbols.Set(s.Name, util.NewSharedRef(&sCopy))
}

// Symbol returns the symbol definition directly in this module (not
// resolved against Parent inheritance chains — callers that need that do
// it through the Repository).
func (m *Module) Symbol(name string) (*SymbolDefinition, bool) {
	ref, ok := m.symbols.Get(name)
	if !ok {
		return nil, false
	}
	return ref.Get(), true
}

// symbolRef returns the util.SharedRef backing name, so a ParsingDimension
// hook can co-own the exact same definition (see Repository.AddReference).
func (m *Module) symbolRef(name string) (util.SharedRef[*SymbolDefinition], bool) {
	return m.symbols.Get(name)
}

// RemoveSymbol deletes the named symbol from this module.
func (m *Module) RemoveSymbol(name string) {
	m.symbols.Remove(name)
}

// SymbolNames returns the names of symbols directly in this module, in
// insertion order.
func (m *Module) SymbolNames() []string {
	return m.symbols.Keys()
}

// SetCharGroup adds or replaces a character group definition.
func (m *Module) SetCharGroup(d CharGroupDefinition) {
	dCopy := d
	m.charGroups.Set(d.Name, &dCopy)
}

// CharGroup returns the character group defined directly in this module.
func (m *Module) CharGroup(name string) (*CharGroupDefinition, bool) {
	return m.charGroups.Get(name)
}

// CharGroupNames returns the names of character groups directly in this
// module, in insertion order.
func (m *Module) CharGroupNames() []string {
	return m.charGroups.Keys()
}

// RemoveCharGroup deletes the named character group from this module.
func (m *Module) RemoveCharGroup(name string) {
	m.charGroups.Remove(name)
}

// SetModule adds or replaces a nested module, setting its Parent to m.
func (m *Module) SetModule(child *Module) {
	child.Parent = m
	m.modules.Set(child.Name, child)
}

// SubModule returns the nested module directly under m.
func (m *Module) SubModule(name string) (*Module, bool) {
	return m.modules.Get(name)
}

// RemoveModule deletes the named nested module from m.
func (m *Module) RemoveModule(name string) {
	if sub, ok := m.modules.Get(name); ok {
		sub.Parent = nil
		m.modules.Remove(name)
	}
}

// ModuleNames returns the names of submodules directly under m, in
// insertion order.
func (m *Module) ModuleNames() []string {
	return m.modules.Keys()
}

// ParsingDimension is a declared extension point where user productions
// can be hooked by priority (spec.md §3.3). The Repository keeps dimensions
// in their own table keyed by name, apart from the module tree; productions
// are hooked into one via Repository.AddReference, which creates the
// dimension on first use.
type ParsingDimension struct {
	Name  string
	Hooks []DimensionHook
}

// DimensionHook is one production hooked into a ParsingDimension. Symbol is
// the same util.SharedRef the declaring module's symbol table holds for
// SymbolRef (populated by Repository.AddReference when the symbol is
// already defined at hook time), so the hook and the module co-own one
// definition rather than each tracking an independent copy under the same
// name. It is the zero SharedRef (Valid() == false) for a forward reference
// to a symbol not yet defined; ResolveDimension still works in that case,
// since it builds its Alternate term from SymbolRef by name.
type DimensionHook struct {
	SymbolRef string
	Symbol    util.SharedRef[*SymbolDefinition]
	Priority  int
}

// AddHook registers a production at the given priority. Hooks are kept
// sorted highest-priority first so that the parser (building an Alternate
// term from this dimension, see repository.go's ResolveDimension) explores
// them in priority order.
func (pd *ParsingDimension) AddHook(symbolRef string, symbol util.SharedRef[*SymbolDefinition], priority int) {
	h := DimensionHook{SymbolRef: symbolRef, Symbol: symbol, Priority: priority}
	idx := len(pd.Hooks)
	for i, existing := range pd.Hooks {
		if priority > existing.Priority {
			idx = i
			break
		}
	}
	pd.Hooks = append(pd.Hooks, DimensionHook{})
	copy(pd.Hooks[idx+1:], pd.Hooks[idx:])
	pd.Hooks[idx] = h
}
