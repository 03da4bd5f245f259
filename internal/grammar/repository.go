package grammar

import (
	"fmt"
	"strings"

	"github.com/alusus-go/corelang/internal/util"
)

// GrammarError reports a problem found by Validate or a mutation method.
// Grounded on tunascript.Grammar.Validate's accumulate-then-report style,
// generalized to a typed error rather than a single concatenated string so
// callers (e.g. the notice package) can attach each one as its own Notice.
type GrammarError struct {
	Qualified string
	Message   string
}

func (e *GrammarError) Error() string {
	if e.Qualified == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Qualified, e.Message)
}

// Repository is the mutable, versioned store of grammar data: a tree of
// Modules reachable by qualified dotted name, plus the parsing dimensions
// declared against it. It supports being mutated while a parser built from
// an earlier Version is still running (spec.md §3.3, §4.1): readers
// resolve qualified names against whatever tree shape is current at lookup
// time rather than against a frozen snapshot, and bump Version on every
// mutation so callers can tell whether their cached decision trees are
// stale.
//
// The CRUD surface (setValue/getValue/removeValue/addReference by
// qualified name, Validate accumulating every problem before returning) is
// grounded on tunascript.Grammar's AddRule/RemoveRule/Rule/Validate.
type Repository struct {
	root       *Module
	dimensions map[string]*ParsingDimension
	dimOrder   []string
	version    uint64
}

// NewRepository returns a Repository with an empty "root" module.
func NewRepository() *Repository {
	return &Repository{root: NewModule("root"), dimensions: map[string]*ParsingDimension{}}
}

// Root returns the repository's root module.
func (r *Repository) Root() *Module {
	return r.root
}

// Version returns the number of mutations applied to this repository so
// far. Parsers and caches built against an earlier value should treat
// themselves as stale once Version changes.
func (r *Repository) Version() uint64 {
	return r.version
}

func (r *Repository) bump() {
	r.version++
}

// splitQualified splits "root.Main.Statement_List" into its module path
// ("root", "Main") and its final segment ("Statement_List").
func splitQualified(qualified string) (modulePath []string, leaf string) {
	parts := strings.Split(qualified, ".")
	if len(parts) == 0 {
		return nil, ""
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// resolveModule walks modulePath starting from root, returning the module
// at the end of the path. An empty path returns root itself.
func (r *Repository) resolveModule(modulePath []string) (*Module, error) {
	cur := r.root
	if len(modulePath) > 0 && modulePath[0] == r.root.Name {
		modulePath = modulePath[1:]
	}
	for _, seg := range modulePath {
		sub, ok := cur.SubModule(seg)
		if !ok {
			return nil, &GrammarError{Qualified: strings.Join(modulePath, "."), Message: fmt.Sprintf("no module named %q", seg)}
		}
		cur = sub
	}
	return cur, nil
}

// ensureModule is like resolveModule but creates missing intermediate
// modules rather than erroring, for use by setValue.
func (r *Repository) ensureModule(modulePath []string) *Module {
	cur := r.root
	if len(modulePath) > 0 && modulePath[0] == r.root.Name {
		modulePath = modulePath[1:]
	}
	for _, seg := range modulePath {
		sub, ok := cur.SubModule(seg)
		if !ok {
			sub = NewModule(seg)
			cur.SetModule(sub)
		}
		cur = sub
	}
	return cur
}

// setValue defines or redefines the symbol at qualified, creating any
// intermediate modules named in its path that do not yet exist.
func (r *Repository) SetSymbol(qualified string, term Term) *SymbolDefinition {
	modPath, leaf := splitQualified(qualified)
	mod := r.ensureModule(modPath)
	mod.SetSymbol(NewSymbolDefinition(leaf, term))
	r.bump()
	sym, _ := mod.Symbol(leaf)
	return sym
}

// SetSymbolDefinition is like SetSymbol but takes a fully-built
// SymbolDefinition (used when handler refs, vars, or inheritance need to be
// set at definition time rather than patched in afterward).
func (r *Repository) SetSymbolDefinition(qualified string, def SymbolDefinition) {
	modPath, leaf := splitQualified(qualified)
	mod := r.ensureModule(modPath)
	def.Name = leaf
	mod.SetSymbol(def)
	r.bump()
}

// getValue resolves qualified to its SymbolDefinition, walking the Parent
// inheritance chain to fill in any fields the definition itself leaves
// unset (spec.md §4.1). The returned SymbolDefinition is a merged copy;
// assigning to its fields has no effect on the repository.
func (r *Repository) GetSymbol(qualified string) (SymbolDefinition, error) {
	modPath, leaf := splitQualified(qualified)
	mod, err := r.resolveModule(modPath)
	if err != nil {
		return SymbolDefinition{}, err
	}
	sym, ok := mod.Symbol(leaf)
	if !ok {
		return SymbolDefinition{}, &GrammarError{Qualified: qualified, Message: "no such symbol"}
	}
	return r.resolveInheritance(*sym, map[string]bool{qualified: true})
}

// resolveInheritance walks def.Parent, filling in Term/HandlerRef/Vars/Flags
// left unset on def from the nearest ancestor that sets them. seen guards
// against an inheritance cycle between symbols.
func (r *Repository) resolveInheritance(def SymbolDefinition, seen map[string]bool) (SymbolDefinition, error) {
	if def.Parent == "" {
		return def, nil
	}
	if seen[def.Parent] {
		return def, &GrammarError{Qualified: def.Parent, Message: "symbol inheritance cycle"}
	}
	seen[def.Parent] = true

	modPath, leaf := splitQualified(def.Parent)
	mod, err := r.resolveModule(modPath)
	if err != nil {
		return def, err
	}
	parentSym, ok := mod.Symbol(leaf)
	if !ok {
		return def, &GrammarError{Qualified: def.Parent, Message: "inherits from undefined symbol"}
	}
	resolvedParent, err := r.resolveInheritance(*parentSym, seen)
	if err != nil {
		return def, err
	}

	merged := def
	if !merged.hasTerm {
		merged.Term = resolvedParent.Term
		merged.hasTerm = resolvedParent.hasTerm
	}
	if merged.HandlerRef == "" {
		merged.HandlerRef = resolvedParent.HandlerRef
	}
	if len(merged.Flags) == 0 {
		merged.Flags = resolvedParent.Flags
	}
	vars := make(map[string]any, len(merged.Vars)+len(resolvedParent.Vars))
	for k, v := range resolvedParent.Vars {
		vars[k] = v
	}
	for k, v := range merged.Vars {
		vars[k] = v
	}
	merged.Vars = vars
	return merged, nil
}

// removeValue deletes the symbol at qualified. It is not an error to remove
// a symbol that does not exist.
func (r *Repository) RemoveSymbol(qualified string) {
	modPath, leaf := splitQualified(qualified)
	mod, err := r.resolveModule(modPath)
	if err != nil {
		return
	}
	mod.RemoveSymbol(leaf)
	r.bump()
}

// SetCharGroup defines or redefines a character group at qualified.
func (r *Repository) SetCharGroup(qualified string, def CharGroupDefinition) {
	modPath, leaf := splitQualified(qualified)
	mod := r.ensureModule(modPath)
	def.Name = leaf
	mod.SetCharGroup(def)
	r.bump()
}

// GetCharGroup resolves qualified to its CharGroupDefinition.
func (r *Repository) GetCharGroup(qualified string) (CharGroupDefinition, error) {
	modPath, leaf := splitQualified(qualified)
	mod, err := r.resolveModule(modPath)
	if err != nil {
		return CharGroupDefinition{}, err
	}
	d, ok := mod.CharGroup(leaf)
	if !ok {
		return CharGroupDefinition{}, &GrammarError{Qualified: qualified, Message: "no such character group"}
	}
	return *d, nil
}

// RemoveCharGroup deletes a character group at qualified.
func (r *Repository) RemoveCharGroup(qualified string) {
	modPath, leaf := splitQualified(qualified)
	mod, err := r.resolveModule(modPath)
	if err != nil {
		return
	}
	mod.RemoveCharGroup(leaf)
	r.bump()
}

// addReference registers a production at the given priority against a
// declared parsing dimension, creating the dimension on first use. If
// symbolRef already names a defined symbol, the hook is wired to that
// symbol's own util.SharedRef rather than a bare name, so the module and
// the dimension co-own the one definition (see DimensionHook).
func (r *Repository) AddReference(dimensionName, symbolRef string, priority int) {
	pd, ok := r.dimensions[dimensionName]
	if !ok {
		pd = &ParsingDimension{Name: dimensionName}
		r.dimensions[dimensionName] = pd
		r.dimOrder = append(r.dimOrder, dimensionName)
	}

	var ref util.SharedRef[*SymbolDefinition]
	modPath, leaf := splitQualified(symbolRef)
	if mod, err := r.resolveModule(modPath); err == nil {
		if sref, ok := mod.symbolRef(leaf); ok {
			ref = sref
		}
	}

	pd.AddHook(symbolRef, ref, priority)
	r.bump()
}

// Dimension returns the named parsing dimension, if declared.
func (r *Repository) Dimension(name string) (*ParsingDimension, bool) {
	pd, ok := r.dimensions[name]
	return pd, ok
}

// ResolveDimension builds a TermAlternate over every production hooked into
// the named dimension, highest priority first, suitable for substitution
// wherever the grammar references the dimension as a symbol.
func (r *Repository) ResolveDimension(name string) (Term, error) {
	pd, ok := r.dimensions[name]
	if !ok {
		return Term{}, &GrammarError{Qualified: name, Message: "no such parsing dimension"}
	}
	terms := make([]Term, len(pd.Hooks))
	priorities := make([]int, len(pd.Hooks))
	for i, h := range pd.Hooks {
		terms[i] = Reference(h.SymbolRef)
		priorities[i] = h.Priority
	}
	return Alternate(terms, priorities), nil
}

// Validate walks the entire repository, accumulating every problem found
// rather than stopping at the first: unresolved TermReferences, module
// parent-chain cycles, and symbol inheritance cycles. Grounded on
// tunascript.Grammar.Validate's accumulate-and-report-all shape.
func (r *Repository) Validate() []error {
	var errs []error

	r.walkModules(r.root, nil, func(mod *Module, path []string) {
		if cyc := moduleCycle(mod); cyc {
			errs = append(errs, &GrammarError{Qualified: strings.Join(append(append([]string{}, path...), mod.Name), "."), Message: "module parent cycle"})
		}
		for _, symName := range mod.SymbolNames() {
			sym, _ := mod.Symbol(symName)
			qualified := qualify(path, mod.Name, symName)
			if sym.Parent != "" {
				if _, err := r.resolveInheritance(*sym, map[string]bool{qualified: true}); err != nil {
					errs = append(errs, err)
				}
			}
			if sym.hasTerm {
				if tErrs := r.validateTerm(sym.Term, qualified); len(tErrs) > 0 {
					errs = append(errs, tErrs...)
				}
			}
		}
	})

	return errs
}

func qualify(path []string, moduleName, leaf string) string {
	all := append(append([]string{}, path...), moduleName, leaf)
	return strings.Join(all, ".")
}

// walkModules visits mod and every descendant, depth-first.
func (r *Repository) walkModules(mod *Module, path []string, visit func(mod *Module, path []string)) {
	visit(mod, path)
	childPath := append(append([]string{}, path...), mod.Name)
	for _, name := range mod.ModuleNames() {
		sub, _ := mod.SubModule(name)
		r.walkModules(sub, childPath, visit)
	}
}

// moduleCycle returns whether mod's Parent chain revisits mod itself.
func moduleCycle(mod *Module) bool {
	seen := map[*Module]bool{}
	for cur := mod.Parent; cur != nil; cur = cur.Parent {
		if cur == mod || seen[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

// validateTerm recursively checks a term tree for unresolved TermReferences
// and, for TermReference nodes, that the referenced qualified name actually
// resolves to something (a symbol or a declared parsing dimension).
func (r *Repository) validateTerm(t Term, ownerQualified string) []error {
	var errs []error
	switch t.Kind {
	case TermReference:
		if _, err := r.GetSymbol(t.RefName); err != nil {
			if _, dimErr := r.ResolveDimension(t.RefName); dimErr != nil {
				errs = append(errs, &GrammarError{Qualified: ownerQualified, Message: fmt.Sprintf("unresolved reference %q", t.RefName)})
			}
		}
	case TermConcat, TermAlternate:
		for _, sub := range t.Terms {
			errs = append(errs, r.validateTerm(sub, ownerQualified)...)
		}
	case TermMultiply:
		if t.Operand != nil {
			errs = append(errs, r.validateTerm(*t.Operand, ownerQualified)...)
		}
	}
	return errs
}
