// Package astproc implements the AST processor of spec.md §4.6: the fixed
// point of four rewrite rules (macro expansion, template instantiation,
// preprocess block execution, pre-gen structural transforms) run
// repeatedly over the tree until none of them changes anything, with a
// bounded-depth guard against runaway expansion chains.
//
// There is no single teacher file this mirrors line for line (the
// retrieval pack's closest relative, ictiobus/translation's
// SyntaxDirectedDefinition walk, only ever makes one pass); the fixed-point
// structure here follows spec.md §4.6 directly, reusing internal/astnode's
// Clone and internal/seeker's Find as its substitution and
// name-resolution primitives respectively.
package astproc

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
	"github.com/alusus-go/corelang/internal/seeker"
)

const (
	// NoticeInfiniteExpansion fires when a macro or template expansion
	// chain doesn't stabilize within maxDepth rounds (spec.md §4.6).
	NoticeInfiniteExpansion notice.Code = "astproc.infinite-expansion"
	// NoticePreprocessFailed fires when a preprocess block's compile-time
	// execution returns an error.
	NoticePreprocessFailed notice.Code = "astproc.preprocess-failed"
)

// defaultMaxDepth bounds the recursive fixed-point descent. It is sized
// generously above any realistic nesting/expansion chain a real program
// would need, so in practice it only ever fires on a genuine cycle.
const defaultMaxDepth = 64

// Processor runs the AST processor's fixed point over a tree.
type Processor struct {
	Notices *notice.Store
	Runner  PreprocessRunner // nil: preprocess blocks are erased, not executed
	Mgr     Manager          // nil unless Runner is also set

	maxDepth      int
	templateCache map[string]*astnode.Node
}

// NewProcessor builds a Processor. runner and mgr may both be nil, which
// disables preprocess-block execution (blocks are still erased from the
// tree, just never run) — useful for tests and for any pipeline stage that
// doesn't yet have a codegen/targetgen backend wired in.
func NewProcessor(notices *notice.Store, runner PreprocessRunner, mgr Manager) *Processor {
	return &Processor{
		Notices:       notices,
		Runner:        runner,
		Mgr:           mgr,
		maxDepth:      defaultMaxDepth,
		templateCache: map[string]*astnode.Node{},
	}
}

// Process runs the fixed point over root and everything reachable from it,
// resolving macro/template references and `use` roots against ctx (nil is
// equivalent to an empty seeker.Context).
func (p *Processor) Process(root *astnode.Node, ctx *seeker.Context) {
	if ctx == nil {
		ctx = seeker.NewContext()
	}
	p.fixedPoint(root, ctx, 0)
}

// fixedPoint applies all four rules to n, then recurses into whatever
// children remain, and — if any rule changed n itself — re-applies the
// rules to n once more before moving on, since an expansion can introduce
// another expandable ParamPass directly under the same node. depth
// increases on every re-application and every recursive descent, acting as
// a combined bound on both recursive nesting and total expansion work;
// hitting it reports NoticeInfiniteExpansion and stops descending further
// from this node.
func (p *Processor) fixedPoint(n *astnode.Node, ctx *seeker.Context, depth int) {
	if n == nil {
		return
	}
	if depth >= p.maxDepth {
		p.Notices.Addf(notice.Error, NoticeInfiniteExpansion, locOf(n),
			"expansion did not stabilize within %d rounds; likely a macro or template cycle", p.maxDepth)
		return
	}

	changed := expandMacros(n, ctx)
	changed = instantiateTemplates(n, ctx, p.templateCache) || changed
	changed = p.runPreprocessBlocks(n) || changed
	changed = applyPreGenTransforms(n) || changed

	forEachChild(n, func(c *astnode.Node) {
		p.fixedPoint(c, ctx, depth+1)
	})

	if changed {
		p.fixedPoint(n, ctx, depth+1)
	}
}

func locOf(n *astnode.Node) notice.Location {
	return notice.Location{
		File: n.Loc.File, Line: n.Loc.Line, Col: n.Loc.Col,
		EndLine: n.Loc.EndLine, EndCol: n.Loc.EndCol,
	}
}
