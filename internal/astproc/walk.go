package astproc

import "github.com/alusus-go/corelang/internal/astnode"

// forEachChild visits every direct child of n, both its single-child
// pointer slots (astnode.Node.ChildPointers) and its owned Children list.
func forEachChild(n *astnode.Node, visit func(c *astnode.Node)) {
	for _, slot := range n.ChildPointers() {
		if *slot != nil {
			visit(*slot)
		}
	}
	for _, c := range n.Children {
		if c != nil {
			visit(c)
		}
	}
}

// rewriteChildren replaces every direct child of n with rewrite(child),
// covering both the single-child pointer slots and the Children list.
// rewrite may return the same node unchanged, a replacement node, or nil
// to erase the child (the Children list is compacted afterward; a nilled
// pointer slot is simply left absent).
func rewriteChildren(n *astnode.Node, rewrite func(c *astnode.Node) *astnode.Node) {
	for _, slot := range n.ChildPointers() {
		if *slot != nil {
			*slot = rewrite(*slot)
		}
	}
	changed := false
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		r := rewrite(c)
		if r != c {
			changed = true
		}
		n.Children[i] = r
	}
	if changed {
		n.Children = compact(n.Children)
	}
}

// compact drops nil entries from a Children list, preserving order.
func compact(nodes []*astnode.Node) []*astnode.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// calleeName returns the identifier name a ParamPass's Callee names, or ""
// if the callee isn't a bare Identifier (a dotted/member callee is not a
// macro or template reference this package resolves).
func calleeName(callee *astnode.Node) string {
	if callee == nil || callee.Kind != astnode.Identifier {
		return ""
	}
	return callee.Name
}
