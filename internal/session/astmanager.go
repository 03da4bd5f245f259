package session

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/seeker"
)

// InsertAST implements astproc.Manager: splice node in as a new child of
// parent, for preprocess-time code that builds and attaches AST fragments.
func (s *Session) InsertAST(parent, node *astnode.Node) {
	if parent == nil || node == nil {
		return
	}
	parent.Children = append(parent.Children, node)
}

// GetModifier implements spec.md §6.2's getModifier(node, name): a
// production-level modifier value attached to node during parsing. Parser
// modifiers live on parser.State, not on the AST itself, so by the time
// preprocess-time code runs against a finished tree there is nothing left
// to look up; this always reports "not set". Kept as a named method (rather
// than omitted) so the AST-manager surface spec.md §6.2 names is complete
// and callable, even though this session's parser discards modifiers once a
// production completes.
func (s *Session) GetModifier(node *astnode.Node, name string) (any, bool) {
	return nil, false
}

// FindElement implements astproc.Manager: the same name/path resolution the
// macro and template expansion rules use, exposed to preprocess-time code.
func (s *Session) FindElement(start *astnode.Node, path string) []*astnode.Node {
	return seeker.Find(start, path, seeker.NewContext())
}

// BuildAST implements astproc.Manager: lex and parse a standalone source
// string (e.g. one a preprocess block assembled at compile time) against
// the session's StartSymbol, without treating it as a file-backed import.
func (s *Session) BuildAST(source string) (*astnode.Node, error) {
	return s.Parse("<buildAst>", s.StartSymbol, source)
}

// ProcessStatements implements astproc.Manager: re-run the fixed-point AST
// processor over a subtree a preprocess block inserted, so macros/templates
// introduced by generated code get the same treatment as source-level ones.
func (s *Session) ProcessStatements(scope *astnode.Node) error {
	s.ProcessAST(scope)
	return nil
}
