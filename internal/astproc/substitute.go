package astproc

import "github.com/alusus-go/corelang/internal/astnode"

// substitute replaces every Identifier in n whose Name is bound in subst
// with a fresh Clone of the bound argument, recursively. It mutates n in
// place and returns the (possibly different, when n itself is a bound
// Identifier) replacement root.
func substitute(n *astnode.Node, subst map[string]*astnode.Node) *astnode.Node {
	if n == nil {
		return nil
	}
	if n.Kind == astnode.Identifier {
		if repl, ok := subst[n.Name]; ok {
			clone := repl.Clone()
			clone.Parent = n.Parent
			return clone
		}
		return n
	}
	rewriteChildren(n, func(c *astnode.Node) *astnode.Node {
		r := substitute(c, subst)
		if r != nil {
			r.Parent = n
		}
		return r
	})
	return n
}

// bindParams pairs param nodes (each carrying the parameter name in Name)
// positionally with args, stopping at whichever is shorter.
func bindParams(params, args []*astnode.Node) map[string]*astnode.Node {
	subst := make(map[string]*astnode.Node, len(params))
	for i, p := range params {
		if i >= len(args) {
			break
		}
		subst[p.Name] = args[i]
	}
	return subst
}
