package handler

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/parser"
)

// ImportResolver resolves a raw path argument (as written in an import
// statement) to a file, runs lex+parse of that file in a child session,
// and returns its top-level definitions — spec.md §4.4's Import handler
// contract. Implemented by internal/session, injected here rather than
// imported directly so this package stays free of the session/charstream
// dependency cycle a concrete implementation would otherwise pull in.
type ImportResolver interface {
	ResolveAndParse(path string) ([]*astnode.Node, error)
}

// Import builds a parser.Handler matching a single StringLiteral/Identifier
// path argument, resolving and splicing the imported file's top-level
// definitions into the current scope (spec.md §4.4). The spliced result is
// tagged importMarker so an enclosing List/Scope/Root handler flattens it
// rather than nesting it.
func Import(resolver ImportResolver) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != 1 {
			return errWrongArity("import", 1, len(lvl.Children))
		}
		pathNode := lvl.Children[0]
		path := pathNode.Text
		if path == "" {
			path = pathNode.Name
		}

		defs, err := resolver.ResolveAndParse(path)
		if err != nil {
			return fmt.Errorf("import %q: %w", path, err)
		}

		lvl.Data.Kind = astnode.List
		lvl.Data.Name = importMarker
		lvl.Data.Children = defs
		reparent(lvl.Data, defs)
		return nil
	}
}

// Root builds the entry-level parser.Handler: it flattens any spliced
// Import results among its children (as a plain List/Scope handler would)
// and wraps the whole program as a Module node named "root", the AST
// manager's top-level scope (spec.md §4.4, §6.2).
func Root() parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		kept := filterKept(lvl.Children)
		lvl.Data.Kind = astnode.Module
		lvl.Data.Name = "root"
		lvl.Data.Children = kept
		reparent(lvl.Data, kept)
		return nil
	}
}
