package astproc

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/seeker"
)

// expandMacros rewrites every ParamPass directly under n whose callee
// resolves to a Macro definition into a deep-cloned, parameter-substituted
// copy of that macro's body (spec.md §4.6 rule 1). It reports whether it
// changed anything, so the caller's fixed-point loop knows to revisit n.
func expandMacros(n *astnode.Node, ctx *seeker.Context) bool {
	changed := false
	rewriteChildren(n, func(c *astnode.Node) *astnode.Node {
		if c == nil || c.Kind != astnode.ParamPass {
			return c
		}
		name := calleeName(c.Callee)
		if name == "" {
			return c
		}
		for _, m := range seeker.Find(n, name, ctx) {
			if m.Kind != astnode.Macro {
				continue
			}
			expanded := instantiateMacro(m, c.Children)
			expanded.Parent = n
			changed = true
			return expanded
		}
		return c
	})
	return changed
}

// instantiateMacro clones macro's body and substitutes its parameters
// (bound positionally against args) throughout the clone. Identifier
// resolution inside the expanded body is deliberately NOT re-targeted here:
// the substituted identifiers are re-resolved fresh on the next fixed-point
// pass once the clone is spliced into its new position, which is what
// gives the expansion its hygiene (spec.md §4.6).
func instantiateMacro(macro *astnode.Node, args []*astnode.Node) *astnode.Node {
	body := macro.Body.Clone()
	return substitute(body, bindParams(macro.Children, args))
}
