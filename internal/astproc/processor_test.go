package astproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/astproc"
	"github.com/alusus-go/corelang/internal/notice"
)

func ident(name string) *astnode.Node {
	return astnode.NewIdentifier(astnode.Location{}, name)
}

func callPass(callee *astnode.Node, args ...*astnode.Node) *astnode.Node {
	return astnode.NewParamPass(astnode.Location{}, callee, args, astnode.Round)
}

func TestProcessExpandsMacro(t *testing.T) {
	loc := astnode.Location{}
	param := astnode.NewIdentifier(loc, "x")
	body := astnode.NewInfixOperator(loc, "+", param, astnode.NewIntegerLiteral(loc, "1", 32, true))
	macro := astnode.NewMacro(loc, "incr", []*astnode.Node{param}, body)

	call := callPass(ident("incr"), astnode.NewIntegerLiteral(loc, "41", 32, true))
	scope := astnode.NewScope(loc, []*astnode.Node{macro, astnode.NewBlock(loc, []*astnode.Node{call})})

	p := astproc.NewProcessor(notice.NewStore(), nil, nil)
	p.Process(scope, nil)

	blockNode := scope.Children[1]
	require.Len(t, blockNode.Children, 1)
	assert.Equal(t, astnode.InfixOperator, blockNode.Children[0].Kind)
	assert.Equal(t, "+", blockNode.Children[0].Op)
	require.Equal(t, astnode.IntegerLiteral, blockNode.Children[0].Lhs.Kind)
	assert.Equal(t, "41", blockNode.Children[0].Lhs.Text)
}

func TestProcessInstantiatesTemplateOncePerTuple(t *testing.T) {
	loc := astnode.Location{}
	param := astnode.NewIdentifier(loc, "T")
	body := astnode.NewPointerType(loc, param)
	tmpl := astnode.NewTemplate(loc, []*astnode.Node{param}, body)
	def := astnode.NewDefinition(loc, "Box", tmpl)

	firstUse := callPass(ident("Box"), ident("int"))
	secondUse := callPass(ident("Box"), ident("int"))
	scope := astnode.NewScope(loc, []*astnode.Node{def, astnode.NewBlock(loc, []*astnode.Node{firstUse, secondUse})})

	p := astproc.NewProcessor(notice.NewStore(), nil, nil)
	p.Process(scope, nil)

	blockNode := scope.Children[1]
	require.Len(t, blockNode.Children, 2)
	assert.Same(t, blockNode.Children[0], blockNode.Children[1])
	assert.Equal(t, astnode.PointerType, blockNode.Children[0].Kind)
}

func TestProcessErasesPreprocessBlocks(t *testing.T) {
	loc := astnode.Location{}
	pre := astnode.NewPreprocessStatement(loc, astnode.NewBlock(loc, nil))
	block := astnode.NewBlock(loc, []*astnode.Node{pre, ident("x")})

	p := astproc.NewProcessor(notice.NewStore(), nil, nil)
	p.Process(block, nil)

	require.Len(t, block.Children, 1)
	assert.Equal(t, "x", block.Children[0].Name)
}

func TestProcessLowersForStatement(t *testing.T) {
	loc := astnode.Location{}
	init := astnode.NewDefinition(loc, "i", astnode.NewIntegerLiteral(loc, "0", 32, true))
	cond := ident("cond")
	post := ident("step")
	body := astnode.NewBlock(loc, []*astnode.Node{ident("work")})
	forNode := astnode.NewForStatement(loc, init, cond, post, body)
	wrapper := astnode.NewBlock(loc, []*astnode.Node{forNode})

	p := astproc.NewProcessor(notice.NewStore(), nil, nil)
	p.Process(wrapper, nil)

	require.Len(t, wrapper.Children, 1)
	lowered := wrapper.Children[0]
	assert.Equal(t, astnode.Block, lowered.Kind)
	require.Len(t, lowered.Children, 2)
	assert.Equal(t, astnode.Definition, lowered.Children[0].Kind)
	whileNode := lowered.Children[1]
	assert.Equal(t, astnode.WhileStatement, whileNode.Kind)
	assert.Same(t, cond, whileNode.Cond)
	require.Len(t, whileNode.Body.Children, 2)
	assert.Same(t, body.Children[0], whileNode.Body.Children[0])
	assert.Same(t, post, whileNode.Body.Children[1])
}

func TestProcessReportsInfiniteExpansion(t *testing.T) {
	loc := astnode.Location{}
	// A macro whose own body calls itself recursively never stabilizes.
	param := astnode.NewIdentifier(loc, "x")
	selfCall := callPass(ident("loop"), param)
	macro := astnode.NewMacro(loc, "loop", []*astnode.Node{param}, selfCall)
	call := callPass(ident("loop"), astnode.NewIntegerLiteral(loc, "1", 32, true))
	scope := astnode.NewScope(loc, []*astnode.Node{macro, astnode.NewBlock(loc, []*astnode.Node{call})})

	store := notice.NewStore()
	p := astproc.NewProcessor(store, nil, nil)
	p.Process(scope, nil)

	assert.True(t, store.HasErrorOrFatal())
	found := false
	for _, n := range store.All() {
		if n.Code == astproc.NoticeInfiniteExpansion {
			found = true
		}
	}
	assert.True(t, found)
}
