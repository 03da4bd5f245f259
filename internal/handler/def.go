package handler

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/parser"
)

// Def builds a parser.Handler recognizing a `name := value` shape — three
// children (name, the ":=" operator token, value) — and emits a
// Definition node (spec.md §4.4). modifiers are attached verbatim, for
// grammars that fold modifier keywords (e.g. "const") into the same
// production rather than a separate term.
func Def(modifiers ...string) parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != 3 {
			return errWrongArity("def", 3, len(lvl.Children))
		}
		name, value := lvl.Children[0], lvl.Children[2]
		lvl.Data.Kind = astnode.Definition
		lvl.Data.Name = name.Name
		lvl.Data.Target = value
		lvl.Data.Modifiers = append([]string(nil), modifiers...)
		lvl.Data.Children = nil
		value.Parent = lvl.Data
		return nil
	}
}
