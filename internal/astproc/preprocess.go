package astproc

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// Manager is the subset of the AST-manager runtime interface (spec.md
// §6.2) a preprocess block's temporary JIT module can call back into while
// running: insert/find/build/process over the tree surrounding the block.
// internal/session provides the concrete implementation; astproc only
// needs the shape to hand it to a PreprocessRunner.
type Manager interface {
	InsertAST(parent, node *astnode.Node)
	FindElement(start *astnode.Node, path string) []*astnode.Node
	BuildAST(source string) (*astnode.Node, error)
	ProcessStatements(scope *astnode.Node) error
}

// PreprocessRunner executes a PreprocessStatement's body as compile-time
// code (spec.md §4.6 rule 3: "executed via a temporary JIT module, observed
// through the AST-manager runtime interface, then erased from the tree").
// Building and tearing down the temporary JIT module is internal/codegen
// and internal/targetgen's job; astproc depends only on this narrow
// interface so it never needs to import either.
type PreprocessRunner interface {
	Run(body *astnode.Node, mgr Manager) error
}

// runPreprocessBlocks executes and erases every PreprocessStatement
// directly under n. A nil runner (no session wired in yet, e.g. in tests)
// simply erases the blocks without running them.
func (p *Processor) runPreprocessBlocks(n *astnode.Node) bool {
	changed := false
	rewriteChildren(n, func(c *astnode.Node) *astnode.Node {
		if c == nil || c.Kind != astnode.PreprocessStatement {
			return c
		}
		if p.Runner != nil {
			if err := p.Runner.Run(c.Body, p.Mgr); err != nil {
				p.Notices.Addf(notice.Error, NoticePreprocessFailed, locOf(c),
					"preprocess block failed: %s", err)
			}
		}
		changed = true
		return nil
	})
	return changed
}
