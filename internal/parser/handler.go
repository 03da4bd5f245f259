package parser

import "github.com/alusus-go/corelang/internal/astnode"

// CompletedLevel is the data a Handler receives when its production-level
// frame reduces: the symbol that just completed, the node being built for
// it (already allocated; the handler mutates it in place), and the owned
// children collected while matching that symbol's term.
type CompletedLevel struct {
	Symbol   string
	Data     *astnode.Node
	Children []*astnode.Node
}

// Handler is a parsing handler (spec.md §4.4): invoked at a production
// reduction to shape the accumulated data object into its final AST form.
// Generalized from the teacher's SyntaxDirectedDefinition callable shape
// (func(node, leftSiblings, rightSiblings) any, see
// internal/ictiobus/translation) to mutate state.Data in place instead of
// returning a value, since spec.md requires mutating the production-level
// data slot rather than threading a pure return value through reductions.
type Handler func(st *State, lvl CompletedLevel) error

// Registry maps a symbol's qualified name to the Handler invoked when it
// reduces. A symbol with no registered handler keeps its default node (an
// astnode.List of Children), matching the Generic handler's behavior.
type Registry struct {
	byName map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Handler{}}
}

// Register associates symbol with h, overwriting any previous handler.
func (r *Registry) Register(symbol string, h Handler) {
	r.byName[symbol] = h
}

// Lookup returns the handler registered for symbol, if any.
func (r *Registry) Lookup(symbol string) (Handler, bool) {
	h, ok := r.byName[symbol]
	return h, ok
}
