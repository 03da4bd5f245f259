package codegen

import (
	"errors"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// ErrInvalidControlFlow is returned by EmitBreak/EmitContinue/EmitReturn
// when called outside of the control-flow context they need (a break
// with no enclosing loop, for instance). The corresponding notice has
// already been recorded by the time this is returned.
var ErrInvalidControlFlow = errors.New("codegen: invalid control flow")

// Notice codes for control-flow diagnostics.
const (
	NoticeBreakOutsideLoop    notice.Code = "codegen.break-outside-loop"
	NoticeContinueOutsideLoop notice.Code = "codegen.continue-outside-loop"
	NoticeReturnOutsideFunc   notice.Code = "codegen.return-outside-function"
	NoticeUnreachableCode     notice.Code = "codegen.unreachable-code"
)

type loopFrame struct {
	breakBlock, continueBlock Block
	scopeDepth                int
}

// Codegen drives code generation for one function at a time: it owns the
// destruction stack, the currently-open scope chain, the loop label
// stack for break/continue, and the per-module global ctor/dtor lists
// (spec.md §4.7). Callers supply the actual expression/statement lowering
// logic; Codegen supplies the bookkeeping that logic must stay consistent
// with (what destructs when, which block break/continue/return jump to).
type Codegen struct {
	Target  Target
	Notices *notice.Store
	Destruct *DestructionStack

	// DtorCaller emits the call instruction for a single pending
	// destructor, given the value it's destructing. It's a callback
	// rather than a method here because turning a Function AST node into
	// a callable TargetValue is itself a code generation step (argument
	// marshaling, `this`-pointer setup) that belongs to whatever routine
	// already knows how to generate a call, not to the destruction stack.
	DtorCaller func(dtor *astnode.Node, value TargetValue)

	scopeStack     []*astnode.Node
	funcScopeDepth []int
	loopStack      []loopFrame

	ctors map[string][]TargetValue
	dtors map[string][]TargetValue
}

// NewCodegen builds a Codegen over target, recording notices to notices.
func NewCodegen(target Target, notices *notice.Store) *Codegen {
	return &Codegen{
		Target:   target,
		Notices:  notices,
		Destruct: NewDestructionStack(),
		ctors:    map[string][]TargetValue{},
		dtors:    map[string][]TargetValue{},
	}
}

// EnterScope records scope as newly opened (a Block, a Function body, a
// loop body, ...), so later destructions pushed with this scope as their
// owner are unwound together when it closes.
func (cg *Codegen) EnterScope(scope *astnode.Node) {
	cg.scopeStack = append(cg.scopeStack, scope)
}

// ExitScope closes the innermost open scope, emits the calls for the
// destructions it owned via runDestructions, and returns those destructions
// (in reverse-push order).
func (cg *Codegen) ExitScope() []DestructionNode {
	n := len(cg.scopeStack)
	scope := cg.scopeStack[n-1]
	cg.scopeStack = cg.scopeStack[:n-1]
	popped := cg.Destruct.UnwindScope(scope)
	cg.runDestructions(popped)
	return popped
}

// EnterFunction marks the current scope depth as a function boundary, so
// a later EmitReturn knows how far up the scope stack to unwind.
func (cg *Codegen) EnterFunction() {
	cg.funcScopeDepth = append(cg.funcScopeDepth, len(cg.scopeStack))
}

// ExitFunction pops the function boundary pushed by EnterFunction.
func (cg *Codegen) ExitFunction() {
	cg.funcScopeDepth = cg.funcScopeDepth[:len(cg.funcScopeDepth)-1]
}

// EnterLoop marks breakBlock/continueBlock as the jump targets for any
// break/continue until the matching ExitLoop.
func (cg *Codegen) EnterLoop(breakBlock, continueBlock Block) {
	cg.loopStack = append(cg.loopStack, loopFrame{breakBlock, continueBlock, len(cg.scopeStack)})
}

// ExitLoop pops the loop frame pushed by EnterLoop.
func (cg *Codegen) ExitLoop() {
	cg.loopStack = cg.loopStack[:len(cg.loopStack)-1]
}

func (cg *Codegen) runDestructions(popped []DestructionNode) {
	for _, d := range popped {
		if d.Dtor != nil && cg.DtorCaller != nil {
			cg.DtorCaller(d.Dtor, d.Value)
		}
	}
}

// unwindFrom destructs everything owned by scopes at or above depth in
// the scope stack (inclusive), in reverse-push order, without actually
// popping them off cg.scopeStack — the scopes themselves are still open
// after a break/continue/return, only the values are gone.
func (cg *Codegen) unwindFrom(depth int) {
	if depth > len(cg.scopeStack) {
		depth = len(cg.scopeStack)
	}
	cg.runDestructions(cg.Destruct.UnwindThrough(cg.scopeStack[depth:]))
}

// EmitBreak unwinds destructions up to the innermost loop's body scope and
// jumps to its break target.
func (cg *Codegen) EmitBreak(loc *astnode.Node) error {
	if len(cg.loopStack) == 0 {
		cg.Notices.Addf(notice.Error, NoticeBreakOutsideLoop, locOf(loc), "break outside of a loop")
		return ErrInvalidControlFlow
	}
	top := cg.loopStack[len(cg.loopStack)-1]
	cg.unwindFrom(top.scopeDepth)
	cg.Target.Jump(top.breakBlock)
	return nil
}

// EmitContinue unwinds destructions up to the innermost loop's body scope
// and jumps to its continue target.
func (cg *Codegen) EmitContinue(loc *astnode.Node) error {
	if len(cg.loopStack) == 0 {
		cg.Notices.Addf(notice.Error, NoticeContinueOutsideLoop, locOf(loc), "continue outside of a loop")
		return ErrInvalidControlFlow
	}
	top := cg.loopStack[len(cg.loopStack)-1]
	cg.unwindFrom(top.scopeDepth)
	cg.Target.Jump(top.continueBlock)
	return nil
}

// EmitReturn unwinds destructions up to the enclosing function's boundary,
// then emits the backend return.
func (cg *Codegen) EmitReturn(loc *astnode.Node, value TargetValue) error {
	if len(cg.funcScopeDepth) == 0 {
		cg.Notices.Addf(notice.Error, NoticeReturnOutsideFunc, locOf(loc), "return outside of a function")
		return ErrInvalidControlFlow
	}
	depth := cg.funcScopeDepth[len(cg.funcScopeDepth)-1]
	cg.unwindFrom(depth)
	cg.Target.Return(value)
	return nil
}

// RegisterCtor/RegisterDtor accumulate a module's global constructor and
// destructor function references (spec.md §4.7: "global ctor/dtor
// orchestration into per-module lists").
func (cg *Codegen) RegisterCtor(module string, fn TargetValue) {
	cg.ctors[module] = append(cg.ctors[module], fn)
}

func (cg *Codegen) RegisterDtor(module string, fn TargetValue) {
	cg.dtors[module] = append(cg.dtors[module], fn)
}

// Ctors returns module's registered constructors in registration order.
func (cg *Codegen) Ctors(module string) []TargetValue {
	return cg.ctors[module]
}

// DtorsReversed returns module's registered destructors in the reverse of
// their registration order, the order global teardown runs them in.
func (cg *Codegen) DtorsReversed(module string) []TargetValue {
	src := cg.dtors[module]
	out := make([]TargetValue, len(src))
	for i, v := range src {
		out[len(src)-1-i] = v
	}
	return out
}
