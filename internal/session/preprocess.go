package session

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/astproc"
)

// Run implements astproc.PreprocessRunner (spec.md §4.6 rule 3: a
// preprocess block is "executed via a temporary JIT module, observed
// through the AST-manager runtime interface").
//
// A full implementation would compile body's statements through
// internal/codegen into internal/targetgen's backend and run the result,
// giving preprocess-time code the entire language to work with. That needs
// an AST-to-codegen expression/statement driver that walks arbitrary
// astnode.Node trees emitting ExprComp values — a component on its own
// scale, not yet built. This Run is the bridge that exists today: it walks
// body's direct statements and recognizes exactly the four AST-manager
// calls spec.md §6.2 names (insertAst/findElement/buildAst/
// processStatements) written as plain ParamPass calls with
// identifier/string-literal arguments, dispatching each straight to mgr.
// Anything else in the block returns an error — which astproc surfaces as
// NoticePreprocessFailed — rather than silently doing nothing, so a
// preprocess block that tries to use real compile-time computation fails
// loudly instead of appearing to no-op.
func (s *Session) Run(body *astnode.Node, mgr astproc.Manager) error {
	stmts := body.Children
	if body.Kind != astnode.Block {
		stmts = []*astnode.Node{body}
	}
	for _, stmt := range stmts {
		call := stmt
		if call.Kind == astnode.EvalStatement {
			call = call.Operand
		}
		if call == nil || call.Kind != astnode.ParamPass {
			return fmt.Errorf("session: preprocess block: %w", errUnsupportedPreprocess(stmt))
		}
		if err := s.runManagerCall(call, mgr); err != nil {
			return err
		}
	}
	return nil
}

func errUnsupportedPreprocess(n *astnode.Node) error {
	return fmt.Errorf("statement is not a recognized AST-manager call (kind %d)", n.Kind)
}

func (s *Session) runManagerCall(call *astnode.Node, mgr astproc.Manager) error {
	if call.Callee == nil || call.Callee.Kind != astnode.Identifier {
		return fmt.Errorf("session: preprocess block: call target is not a plain name")
	}
	args := call.Children

	switch call.Callee.Name {
	case "insertAst":
		if len(args) != 2 {
			return fmt.Errorf("session: insertAst expects 2 arguments, got %d", len(args))
		}
		mgr.InsertAST(args[0], args[1])
		return nil
	case "findElement":
		if len(args) != 2 || args[1].Kind != astnode.StringLiteral {
			return fmt.Errorf("session: findElement expects (node, stringLiteral)")
		}
		mgr.FindElement(args[0], args[1].Text)
		return nil
	case "buildAst":
		if len(args) != 1 || args[0].Kind != astnode.StringLiteral {
			return fmt.Errorf("session: buildAst expects a single string-literal argument")
		}
		_, err := mgr.BuildAST(args[0].Text)
		return err
	case "processStatements":
		if len(args) != 1 {
			return fmt.Errorf("session: processStatements expects 1 argument, got %d", len(args))
		}
		return mgr.ProcessStatements(args[0])
	default:
		return fmt.Errorf("session: preprocess block: %q is not a recognized AST-manager call", call.Callee.Name)
	}
}
