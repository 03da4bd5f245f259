package codegen

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// EmitExprFunc lowers an expression node to an ExprComp; EmitStmtFunc
// lowers a single statement. Both are supplied by the caller (the
// statement/expression codegen that knows each AST Kind) so this file can
// stay about control-flow shape, not about what every node means.
type (
	EmitExprFunc func(n *astnode.Node) (ExprComp, error)
	EmitStmtFunc func(n *astnode.Node) error
)

// EmitStatements runs emit over stmts in order, flagging (but not
// aborting on) any statement found after one that unconditionally
// transfers control (return/break/continue) — spec.md §4.7's
// unreachable-code notice. Generation still proceeds for the unreachable
// statements themselves (so later passes see a fully generated tree) but
// the backend blocks they'd target are already closed off by the
// terminator, so only the first such statement is reported per run to
// avoid flooding a single dead tail with repeat notices.
func (cg *Codegen) EmitStatements(stmts []*astnode.Node, emit EmitStmtFunc) error {
	terminated := false
	reported := false
	for _, s := range stmts {
		if terminated && !reported {
			cg.Notices.Addf(notice.Warning, NoticeUnreachableCode, locOf(s), "unreachable code after a terminating statement")
			reported = true
		}
		if err := emit(s); err != nil {
			return err
		}
		if isTerminator(s.Kind) {
			terminated = true
		}
	}
	return nil
}

func isTerminator(k astnode.Kind) bool {
	switch k {
	case astnode.ReturnStatement, astnode.BreakStatement, astnode.ContinueStatement:
		return true
	default:
		return false
	}
}

// EmitIf lowers an IfStatement: cond is evaluated once; then/else bodies
// run in their own blocks and join at a single merge block reached via an
// unconditional jump from whichever branch ran (spec.md §4.7).
func (cg *Codegen) EmitIf(n *astnode.Node, emitExpr EmitExprFunc, emitBlock EmitStmtFunc) error {
	cond, err := emitExpr(n.Cond)
	if err != nil {
		return err
	}
	thenBlock := cg.Target.NewBlock("if.then")
	mergeBlock := cg.Target.NewBlock("if.end")
	elseBlock := mergeBlock
	if n.Else != nil {
		elseBlock = cg.Target.NewBlock("if.else")
	}
	cg.Target.Branch(cond.TargetValue, thenBlock, elseBlock)

	cg.Target.SetInsertPoint(thenBlock)
	if err := emitBlock(n.Body); err != nil {
		return err
	}
	cg.Target.Jump(mergeBlock)

	if n.Else != nil {
		cg.Target.SetInsertPoint(elseBlock)
		if err := emitBlock(n.Else); err != nil {
			return err
		}
		cg.Target.Jump(mergeBlock)
	}

	cg.Target.SetInsertPoint(mergeBlock)
	return nil
}

// EmitWhile lowers a WhileStatement: a condition block re-evaluated on
// every iteration, a body block that loops back to it, and an end block
// that break jumps to directly. n.Body's own scope is entered/exited here
// so its locals' destructors run on every normal loop-back edge, not just
// once after the whole loop.
func (cg *Codegen) EmitWhile(n *astnode.Node, emitExpr EmitExprFunc, emitBlock EmitStmtFunc) error {
	condBlock := cg.Target.NewBlock("while.cond")
	bodyBlock := cg.Target.NewBlock("while.body")
	endBlock := cg.Target.NewBlock("while.end")

	cg.Target.Jump(condBlock)
	cg.Target.SetInsertPoint(condBlock)
	cond, err := emitExpr(n.Cond)
	if err != nil {
		return err
	}
	cg.Target.Branch(cond.TargetValue, bodyBlock, endBlock)

	cg.Target.SetInsertPoint(bodyBlock)
	cg.EnterLoop(endBlock, condBlock)
	cg.EnterScope(n.Body)
	bodyErr := emitBlock(n.Body)
	cg.ExitScope()
	cg.ExitLoop()
	if bodyErr != nil {
		return bodyErr
	}
	cg.Target.Jump(condBlock)

	cg.Target.SetInsertPoint(endBlock)
	return nil
}
