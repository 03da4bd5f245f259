package astproc

import (
	"fmt"
	"strings"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/seeker"
)

// instantiateTemplates rewrites every ParamPass directly under n whose
// callee resolves to a Template-holding Definition into the cached (or
// freshly built) instantiation for that parameter tuple (spec.md §4.6
// rule 2: "keyed by the canonical parameter tuple"). cache is shared
// across the whole Process call so the same tuple always returns the
// same instantiation node, satisfying the "unique per tuple" requirement
// without needing a global registry.
func instantiateTemplates(n *astnode.Node, ctx *seeker.Context, cache map[string]*astnode.Node) bool {
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
			tmpl := asTemplate(m)
			if tmpl == nil {
				continue
			}
			key := templateKey(tmpl, c.Children)
			inst, ok := cache[key]
			if !ok {
				inst = instantiateTemplate(tmpl, c.Children)
				cache[key] = inst
			}
			inst.Parent = n
			changed = true
			return inst
		}
		return c
	})
	return changed
}

// asTemplate returns the Template node m names, whether m is a Macro-style
// directly-named Template (none in this model) or, as templates are
// actually represented, a Definition whose Target is the Template.
func asTemplate(m *astnode.Node) *astnode.Node {
	if m.Kind == astnode.Template {
		return m
	}
	if m.Kind == astnode.Definition && m.Target != nil && m.Target.Kind == astnode.Template {
		return m.Target
	}
	return nil
}

func instantiateTemplate(tmpl *astnode.Node, args []*astnode.Node) *astnode.Node {
	body := tmpl.Body.Clone()
	return substitute(body, bindParams(tmpl.Children, args))
}

// templateKey builds the canonical cache key for a (template identity,
// argument tuple) pair: the template's own address plus each argument's
// structural signature.
func templateKey(tmpl *astnode.Node, args []*astnode.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%p", tmpl)
	for _, a := range args {
		sb.WriteByte('|')
		sb.WriteString(canonicalKey(a))
	}
	return sb.String()
}

// canonicalKey produces a structural signature for a node so two distinct
// but equivalent argument trees (e.g. two separately-parsed references to
// the same named type) hash to the same cache key.
func canonicalKey(n *astnode.Node) string {
	if n == nil {
		return "_"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%s:%s", n.Kind, n.Name, n.Text)
	forEachChild(n, func(c *astnode.Node) {
		sb.WriteByte(',')
		sb.WriteString(canonicalKey(c))
	})
	return sb.String()
}
