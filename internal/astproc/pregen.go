package astproc

import "github.com/alusus-go/corelang/internal/astnode"

// applyPreGenTransforms applies the structural, semantics-preserving
// lowerings spec.md §4.6 rule 4 calls for before code generation sees the
// tree. Currently this is just for-to-while lowering; more lowerings can
// be added the same way (check n.Kind, mutate n in place, return true).
func applyPreGenTransforms(n *astnode.Node) bool {
	if n.Kind != astnode.ForStatement {
		return false
	}
	lowerForStatement(n)
	return true
}

// lowerForStatement rewrites a ForStatement in place into the Block
// { init; while (cond) { body...; post } } it's equivalent to, folding a
// missing cond into an identifier `true` (an unconditional loop) and a missing
// init/post into no-ops. Mutating n's Kind and fields directly (rather
// than returning a new node for the caller to splice in) keeps this a
// one-shot rewrite: once n.Kind is Block, a later pass's Kind check on the
// same node is simply false and does nothing.
func lowerForStatement(n *astnode.Node) {
	cond := n.Cond
	if cond == nil {
		cond = astnode.NewIdentifier(n.Loc, "true")
	}

	var bodyStmts []*astnode.Node
	if n.Body != nil {
		if n.Body.Kind == astnode.Block {
			bodyStmts = append(bodyStmts, n.Body.Children...)
		} else {
			bodyStmts = append(bodyStmts, n.Body)
		}
	}
	if n.Post != nil {
		bodyStmts = append(bodyStmts, n.Post)
	}
	whileBody := astnode.NewBlock(n.Loc, bodyStmts)
	whileNode := astnode.NewWhileStatement(n.Loc, cond, whileBody)

	var outer []*astnode.Node
	if n.Init != nil {
		outer = append(outer, n.Init)
	}
	outer = append(outer, whileNode)

	n.Kind = astnode.Block
	n.Init, n.Cond, n.Post, n.Body = nil, nil, nil, nil
	n.Children = outer
	for _, c := range outer {
		c.Parent = n
	}
}
