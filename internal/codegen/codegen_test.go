package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/codegen"
	"github.com/alusus-go/corelang/internal/notice"
)

func TestEmitIfBranchesAndMerges(t *testing.T) {
	loc := astnode.Location{}
	cond := astnode.NewIdentifier(loc, "cond")
	thenBody := astnode.NewBlock(loc, nil)
	elseBody := astnode.NewBlock(loc, nil)
	ifNode := astnode.NewIfStatement(loc, cond, thenBody, elseBody)

	target := &fakeTarget{}
	cg := codegen.NewCodegen(target, notice.NewStore())

	emitExpr := func(n *astnode.Node) (codegen.ExprComp, error) {
		return codegen.NewExprComp(nil, "i1", "cond-val"), nil
	}
	var visited []*astnode.Node
	emitBlock := func(n *astnode.Node) error {
		visited = append(visited, n)
		return nil
	}

	require.NoError(t, cg.EmitIf(ifNode, emitExpr, emitBlock))
	assert.Equal(t, []*astnode.Node{thenBody, elseBody}, visited)

	require.Len(t, target.log, 6) // branch, insert-then, jump, insert-else, jump, insert-merge
}

func TestEmitWhileLoopBreakTargetsEndBlock(t *testing.T) {
	loc := astnode.Location{}
	cond := astnode.NewIdentifier(loc, "cond")
	breakStmt := astnode.NewBreakStatement(loc)
	body := astnode.NewBlock(loc, []*astnode.Node{breakStmt})
	whileNode := astnode.NewWhileStatement(loc, cond, body)

	target := &fakeTarget{}
	cg := codegen.NewCodegen(target, notice.NewStore())

	emitExpr := func(n *astnode.Node) (codegen.ExprComp, error) {
		return codegen.NewExprComp(nil, "i1", "cond-val"), nil
	}
	emitBlock := func(n *astnode.Node) error {
		return cg.EmitStatements(n.Children, func(s *astnode.Node) error {
			if s.Kind == astnode.BreakStatement {
				return cg.EmitBreak(s)
			}
			return nil
		})
	}

	require.NoError(t, cg.EmitWhile(whileNode, emitExpr, emitBlock))

	foundBreakJump := false
	for _, l := range target.log {
		if l == "jump while.end#3" {
			foundBreakJump = true
		}
	}
	assert.True(t, foundBreakJump, "expected a jump to the while-end block from the break statement; log: %v", target.log)
}

func TestEmitBreakOutsideLoopReportsNotice(t *testing.T) {
	target := &fakeTarget{}
	store := notice.NewStore()
	cg := codegen.NewCodegen(target, store)

	err := cg.EmitBreak(astnode.NewBreakStatement(astnode.Location{}))
	assert.ErrorIs(t, err, codegen.ErrInvalidControlFlow)
	assert.True(t, store.HasErrorOrFatal())
}

func TestEmitReturnUnwindsDestructorsThroughFunctionScope(t *testing.T) {
	loc := astnode.Location{}
	fnScope := astnode.NewBlock(loc, nil)
	dtorFn := astnode.NewFunction(loc, nil, nil)

	target := &fakeTarget{}
	cg := codegen.NewCodegen(target, notice.NewStore())
	var destructed []string
	cg.DtorCaller = func(dtor *astnode.Node, value codegen.TargetValue) {
		destructed = append(destructed, value.(string))
	}

	cg.EnterFunction()
	cg.EnterScope(fnScope)
	cg.Destruct.Push(fnScope, "local1", dtorFn)
	cg.Destruct.Push(fnScope, "local2", dtorFn)

	require.NoError(t, cg.EmitReturn(astnode.NewReturnStatement(loc, nil), "retval"))
	assert.Equal(t, []string{"local2", "local1"}, destructed)

	cg.ExitScope()
	cg.ExitFunction()
}

func TestEmitStatementsFlagsUnreachableCode(t *testing.T) {
	loc := astnode.Location{}
	ret := astnode.NewReturnStatement(loc, nil)
	afterRet := astnode.NewIdentifier(loc, "dead")
	store := notice.NewStore()
	target := &fakeTarget{}
	cg := codegen.NewCodegen(target, store)
	cg.EnterFunction()
	cg.EnterScope(astnode.NewBlock(loc, nil))

	err := cg.EmitStatements([]*astnode.Node{ret, afterRet}, func(s *astnode.Node) error {
		if s.Kind == astnode.ReturnStatement {
			return cg.EmitReturn(s, nil)
		}
		return nil
	})
	require.NoError(t, err)

	found := false
	for _, n := range store.All() {
		if n.Code == codegen.NoticeUnreachableCode {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenTypeUserTypeDelegatesLayoutToTarget(t *testing.T) {
	loc := astnode.Location{}
	field := astnode.NewDefinition(loc, "x", astnode.NewIntegerType(loc, 32))
	userType := astnode.NewUserType(loc, []*astnode.Node{field})

	target := &fakeTarget{}
	cg := codegen.NewCodegen(target, notice.NewStore())
	got, err := cg.GenType(userType)
	require.NoError(t, err)
	assert.Equal(t, "struct [{x i32-signed=false}]", got)
}
