// Package handler implements the standard parsing handlers of spec.md
// §4.4: callables invoked at a production reduction that mutate the
// reduced node in place. Each constructor here returns a parser.Handler
// closure, generalized from the teacher's SyntaxDirectedDefinition
// callable (internal/ictiobus/translation, a pure
// func(node, leftSiblings, rightSiblings) any) to one that mutates
// lvl.Data directly, since spec.md requires mutating the production-level
// data slot rather than threading a return value through reductions.
package handler

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/parser"
)

// importMarker is the Name a spliced Import result node carries so an
// enclosing List/Scope/Root handler knows to flatten its children into its
// own rather than keep it as one opaque nested list (spec.md §4.4's Import
// "splices the resulting top-level definitions into the current scope").
const importMarker = "__import__"

// Generic wraps the reduced children as a List node tagged with label,
// spec.md §4.4's "wraps children as a typed list with metadata". It is
// also exactly what parser.Forest already does by default for a symbol
// with no registered handler; Generic exists so a grammar can register it
// explicitly and attach a label other symbols can switch on.
func Generic(label string) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		lvl.Data.Kind = astnode.List
		lvl.Data.Name = label
		return nil
	}
}

// isSeparator reports whether c is a leaf terminal node matching one of
// the given separator lexemes (produced as an Identifier by
// parser.Forest's leaf matching).
func isSeparator(c *astnode.Node, seps ...string) bool {
	if c.Kind != astnode.Identifier {
		return false
	}
	for _, s := range seps {
		if c.Name == s {
			return true
		}
	}
	return false
}

// flattenSpliced expands any importMarker-tagged child in place, so an
// Import handler's result is merged into its enclosing collection rather
// than nested one level deeper.
func flattenSpliced(children []*astnode.Node) []*astnode.Node {
	out := make([]*astnode.Node, 0, len(children))
	for _, c := range children {
		if c.Kind == astnode.List && c.Name == importMarker {
			out = append(out, c.Children...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// filterKept drops separators and flattens spliced imports, preserving the
// remaining children's order — the common first step of List, Map, and
// Scope below.
func filterKept(children []*astnode.Node, seps ...string) []*astnode.Node {
	flattened := flattenSpliced(children)
	kept := make([]*astnode.Node, 0, len(flattened))
	for _, c := range flattened {
		if isSeparator(c, seps...) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func reparent(parent *astnode.Node, children []*astnode.Node) {
	for _, c := range children {
		c.Parent = parent
	}
}

// List builds a parser.Handler that filters out separator tokens (e.g.
// ",") and collects the remaining children, in order, into a List node.
func List(seps ...string) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		kept := filterKept(lvl.Children, seps...)
		lvl.Data.Kind = astnode.List
		lvl.Data.Children = kept
		reparent(lvl.Data, kept)
		return nil
	}
}

// Map builds a parser.Handler for a key/value sequence: itemSeps separate
// entries (","), pairSeps separate a key from its value (":"). Surviving
// children alternate (key, value) in Node.Children, matching astnode.Map's
// documented shape.
func Map(itemSeps, pairSeps []string) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		seps := append(append([]string{}, itemSeps...), pairSeps...)
		kept := filterKept(lvl.Children, seps...)
		lvl.Data.Kind = astnode.Map
		lvl.Data.Children = kept
		reparent(lvl.Data, kept)
		return nil
	}
}

// Scope builds a parser.Handler collecting a statement sequence (optionally
// separated, e.g. by ";") into a Scope node.
func Scope(seps ...string) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		kept := filterKept(lvl.Children, seps...)
		lvl.Data.Kind = astnode.Scope
		lvl.Data.Children = kept
		reparent(lvl.Data, kept)
		return nil
	}
}

// errWrongArity is returned (wrapped with the handler's name) when a
// reduction's child count doesn't match the arity its term was declared
// with; the parser treats the handler error as a reduction failure and
// recovers via the enclosing error-sync term, per spec.md §4.4's failure
// mode.
func errWrongArity(which string, want, got int) error {
	return fmt.Errorf("%s handler: expected %d children, got %d", which, want, got)
}
