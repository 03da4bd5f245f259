// Package seeker implements the AST path lookup of spec.md §4.5: given a
// starting node and a dot-separated path, return every node the path
// resolves to, honoring enclosing scopes, imported modules, transparent
// aliases, active template-parameter mappings, and additional roots
// introduced by `use` statements.
//
// There is no direct teacher analogue (the retrieval pack ships no
// AST-path resolver); the shape here follows the one enumerated by
// spec.md §4.5 itself and reuses astnode.Node's existing Parent
// back-pointer for "walk enclosing scopes outward" rather than a separate
// symbol-table structure, keeping with the closed-sum AST's own Node.Parent
// field instead of inventing a second index.
package seeker

import "github.com/alusus-go/corelang/internal/astnode"

// Context carries the lookup state that varies per querying node: the
// extra roots `use` statements have added, and the template-parameter
// mappings active where the query originates (spec.md §4.5).
type Context struct {
	UseRoots       []*astnode.Node
	TemplateParams map[string]*astnode.Node
}

// NewContext returns an empty, ready-to-use Context.
func NewContext() *Context {
	return &Context{TemplateParams: map[string]*astnode.Node{}}
}

// WithUseRoot returns ctx with root appended to UseRoots (ctx itself is
// mutated and returned for chaining).
func (ctx *Context) WithUseRoot(root *astnode.Node) *Context {
	ctx.UseRoots = append(ctx.UseRoots, root)
	return ctx
}

// segment is one dot-separated path component, optionally carrying a
// parameter-pass shape (spec.md §4.5: "optionally with parameter-pass
// shapes for template parameters"). Resolving what a parameter-pass
// segment means for a Template node (cache lookup, instantiation) is
// internal/astproc's job; Seeker only parses and returns the argument
// text so the caller can act on it.
type segment struct {
	Name string
	Args []string // nil unless the segment was written as Name(arg1, arg2, ...)
}

// splitPath parses a dotted path into segments, splitting top-level dots
// only (dots inside a parameter-pass's parentheses do not separate
// segments).
func splitPath(path string) []segment {
	var segs []segment
	depth := 0
	start := 0
	for i, r := range path {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				segs = append(segs, parseSegment(path[start:i]))
				start = i + 1
			}
		}
	}
	segs = append(segs, parseSegment(path[start:]))
	return segs
}

func parseSegment(s string) segment {
	open := -1
	for i, r := range s {
		if r == '(' {
			open = i
			break
		}
	}
	if open < 0 {
		return segment{Name: s}
	}
	name := s[:open]
	inner := s[open+1:]
	if len(inner) > 0 && inner[len(inner)-1] == ')' {
		inner = inner[:len(inner)-1]
	}
	var args []string
	if inner != "" {
		depth := 0
		last := 0
		for i, r := range inner {
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			case ',':
				if depth == 0 {
					args = append(args, trimSpace(inner[last:i]))
					last = i + 1
				}
			}
		}
		args = append(args, trimSpace(inner[last:]))
	}
	return segment{Name: name, Args: args}
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}

// Find resolves path starting from start's own scope, returning every
// matching node (callee selection among them is §4.8's job, not this
// package's).
func Find(start *astnode.Node, path string, ctx *Context) []*astnode.Node {
	if ctx == nil {
		ctx = NewContext()
	}
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil
	}

	current := []*astnode.Node{start}
	for i, seg := range segs {
		var next []*astnode.Node
		for _, node := range current {
			next = append(next, resolveSegment(node, seg, ctx, i == 0)...)
		}
		current = dedup(next)
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// resolveSegment resolves one path segment relative to node. For the first
// segment of a path, resolution walks node's enclosing scope chain
// outward and then falls back to the `use`-introduced roots; for later
// segments (member access via LinkOperator-style chaining) it only looks
// inside node's own children.
func resolveSegment(node *astnode.Node, seg segment, ctx *Context, first bool) []*astnode.Node {
	if first {
		if mapped, ok := ctx.TemplateParams[seg.Name]; ok {
			return []*astnode.Node{mapped}
		}
		for scope := node; scope != nil; scope = scope.Parent {
			if found := directChildrenNamed(scope, seg.Name); len(found) > 0 {
				return resolveAliases(found)
			}
		}
		for _, root := range ctx.UseRoots {
			if found := directChildrenNamed(root, seg.Name); len(found) > 0 {
				return resolveAliases(found)
			}
		}
		return nil
	}
	return resolveAliases(directChildrenNamed(node, seg.Name))
}

// directChildrenNamed returns every direct child of scope whose own Name
// matches name. Most container kinds (Module, Scope, Block, List, UserType)
// hold their members in Children; Definition/Function/Module/ArgPack/Macro/
// Template nodes carry a Name field directly.
func directChildrenNamed(scope *astnode.Node, name string) []*astnode.Node {
	var out []*astnode.Node
	for _, c := range scope.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// resolveAliases transparently follows any Alias node in nodes to its
// Target, recursively (spec.md §4.5: "aliases (transparently)").
func resolveAliases(nodes []*astnode.Node) []*astnode.Node {
	out := make([]*astnode.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, followAlias(n, 0)...)
	}
	return out
}

// maxAliasChain bounds alias-chain following so a cyclic (misconfigured)
// alias cannot loop forever.
const maxAliasChain = 64

func followAlias(n *astnode.Node, depth int) []*astnode.Node {
	if n.Kind != astnode.Alias || depth >= maxAliasChain || n.Target == nil {
		return []*astnode.Node{n}
	}
	return followAlias(n.Target, depth+1)
}

func dedup(nodes []*astnode.Node) []*astnode.Node {
	seen := map[*astnode.Node]bool{}
	out := make([]*astnode.Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
