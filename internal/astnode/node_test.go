package astnode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/astnode"
)

var loc = astnode.Location{File: "t.alusus", Line: 1, Col: 1}

func TestConstructorsAdoptOwnedChildren(t *testing.T) {
	lhs := astnode.NewIdentifier(loc, "a")
	rhs := astnode.NewIdentifier(loc, "b")
	infix := astnode.NewInfixOperator(loc, "+", lhs, rhs)

	assert.Same(t, infix, lhs.Parent)
	assert.Same(t, infix, rhs.Parent)
	assert.Equal(t, astnode.InfixOperator, infix.Kind)
	assert.Equal(t, "+", infix.Op)
}

func TestNewParamPassSeparatesCalleeFromArgs(t *testing.T) {
	callee := astnode.NewIdentifier(loc, "f")
	arg := astnode.NewIdentifier(loc, "x")
	call := astnode.NewParamPass(loc, callee, []*astnode.Node{arg}, astnode.Round)

	assert.Same(t, callee, call.Callee)
	require.Len(t, call.Children, 1)
	assert.Same(t, arg, call.Children[0])
	assert.Same(t, call, callee.Parent)
	assert.Same(t, call, arg.Parent)
	assert.Equal(t, astnode.Round, call.BracketKind)
}

func TestNewDefinitionStoresBoundValueInTarget(t *testing.T) {
	value := astnode.NewIdentifier(loc, "initializer")
	def := astnode.NewDefinition(loc, "x", value, "public")

	assert.Equal(t, "x", def.Name)
	assert.Same(t, value, def.Target)
	assert.Equal(t, []string{"public"}, def.Modifiers)
	// Definition.Target is adopted as an owned child, unlike Bridge/Alias's
	// cross-tree uses of Target; Clone still copies the Target pointer for
	// every Kind (see TestCloneLeavesDefinitionTargetUnresolved).
	assert.Same(t, def, value.Parent)
}

func TestNewIntegerTypeDefaultsSignedFalse(t *testing.T) {
	it := astnode.NewIntegerType(loc, 32)
	assert.Equal(t, 32, it.Bits)
	assert.False(t, it.Signed)
}

func TestNewMacroCarriesNameDirectly(t *testing.T) {
	param := astnode.NewIdentifier(loc, "x")
	body := astnode.NewIdentifier(loc, "x")
	m := astnode.NewMacro(loc, "double", []*astnode.Node{param}, body)

	assert.Equal(t, "double", m.Name)
	require.Len(t, m.Children, 1)
	assert.Same(t, param, m.Children[0])
	assert.Same(t, body, m.Body)
}

func TestNewTemplateCarriesNoNameOfItsOwn(t *testing.T) {
	param := astnode.NewIdentifier(loc, "T")
	body := astnode.NewIdentifier(loc, "T")
	tmpl := astnode.NewTemplate(loc, []*astnode.Node{param}, body)

	assert.Equal(t, "", tmpl.Name)
	// A template is named via an enclosing Definition{Name, Target: tmpl}.
	named := astnode.NewDefinition(loc, "Box", tmpl)
	assert.Equal(t, "Box", named.Name)
	assert.Same(t, tmpl, named.Target)
}

func TestNewForStatementPopulatesAllFourSlots(t *testing.T) {
	init := astnode.NewIdentifier(loc, "init")
	cond := astnode.NewIdentifier(loc, "cond")
	post := astnode.NewIdentifier(loc, "post")
	body := astnode.NewBlock(loc, nil)
	fs := astnode.NewForStatement(loc, init, cond, post, body)

	assert.Same(t, init, fs.Init)
	assert.Same(t, cond, fs.Cond)
	assert.Same(t, post, fs.Post)
	assert.Same(t, body, fs.Body)
}

func TestChildPointersExposesEveryDirectSlot(t *testing.T) {
	lhs := astnode.NewIdentifier(loc, "a")
	rhs := astnode.NewIdentifier(loc, "b")
	n := astnode.NewInfixOperator(loc, "+", lhs, rhs)

	var sawLhs, sawRhs bool
	for _, slot := range n.ChildPointers() {
		if *slot == lhs {
			sawLhs = true
		}
		if *slot == rhs {
			sawRhs = true
		}
	}
	assert.True(t, sawLhs)
	assert.True(t, sawRhs)
}

func TestChildPointersAllowsInPlaceRewrite(t *testing.T) {
	original := astnode.NewIdentifier(loc, "x")
	replacement := astnode.NewIdentifier(loc, "y")
	n := astnode.NewReturnStatement(loc, original)

	for _, slot := range n.ChildPointers() {
		if *slot == original {
			*slot = replacement
		}
	}
	assert.Same(t, replacement, n.Operand)
}

func TestCloneDeepCopiesOwnedChildrenAndReparents(t *testing.T) {
	a := astnode.NewIdentifier(loc, "a")
	b := astnode.NewIdentifier(loc, "b")
	list := astnode.NewList(loc, []*astnode.Node{a, b})

	clone := list.Clone()

	require.Len(t, clone.Children, 2)
	assert.NotSame(t, a, clone.Children[0])
	assert.Equal(t, "a", clone.Children[0].Name)
	assert.Same(t, clone, clone.Children[0].Parent)
	assert.Nil(t, clone.Parent)

	// the original tree is untouched
	assert.Same(t, list, a.Parent)
}

func TestCloneLeavesDefinitionTargetUnresolved(t *testing.T) {
	value := astnode.NewIdentifier(loc, "orig")
	def := astnode.NewDefinition(loc, "x", value)

	clone := def.Clone()

	// Target is a cross-tree reference per the Clone doc comment: the
	// clone's Target still points at the *original* node, not a copy.
	assert.Same(t, value, clone.Target)
}

func TestCloneCopiesSingleChildSlotsIndependently(t *testing.T) {
	cond := astnode.NewIdentifier(loc, "cond")
	then := astnode.NewBlock(loc, nil)
	els := astnode.NewBlock(loc, nil)
	ifs := astnode.NewIfStatement(loc, cond, then, els)

	clone := ifs.Clone()

	assert.NotSame(t, cond, clone.Cond)
	assert.NotSame(t, then, clone.Body)
	assert.NotSame(t, els, clone.Else)
	assert.Same(t, clone, clone.Cond.Parent)
	assert.Same(t, clone, clone.Body.Parent)
	assert.Same(t, clone, clone.Else.Parent)
}

func TestCloneOfNilReturnsNil(t *testing.T) {
	var n *astnode.Node
	assert.Nil(t, n.Clone())
}

func TestCloneCopiesModifiersSlice(t *testing.T) {
	def := astnode.NewDefinition(loc, "x", astnode.NewIdentifier(loc, "v"), "public", "static")
	clone := def.Clone()

	require.Equal(t, def.Modifiers, clone.Modifiers)
	clone.Modifiers[0] = "private"
	assert.Equal(t, "public", def.Modifiers[0], "clone's Modifiers slice must not alias the original's")
}

func TestNewMapStoresKeyValuePairsAsConsecutiveChildren(t *testing.T) {
	k1 := astnode.NewStringLiteral(loc, "k1")
	v1 := astnode.NewIntegerLiteral(loc, "1", 32, false)
	m := astnode.NewMap(loc, []*astnode.Node{k1, v1})

	require.Len(t, m.Children, 2)
	assert.Same(t, k1, m.Children[0])
	assert.Same(t, v1, m.Children[1])
}

func TestBracketKindConstants(t *testing.T) {
	call := astnode.NewParamPass(loc, astnode.NewIdentifier(loc, "f"), nil, astnode.Round)
	subscript := astnode.NewParamPass(loc, astnode.NewIdentifier(loc, "a"), nil, astnode.Square)

	assert.Equal(t, astnode.Round, call.BracketKind)
	assert.Equal(t, astnode.Square, subscript.BracketKind)
	assert.NotEqual(t, call.BracketKind, subscript.BracketKind)
}

func TestNewArrayTypeAcceptsNilSizeForUnsizedArray(t *testing.T) {
	content := astnode.NewIntegerType(loc, 8)
	arr := astnode.NewArrayType(loc, content, nil)

	assert.Same(t, content, arr.Content)
	assert.Nil(t, arr.Size)
}

func TestUnaryOpConstructorsSetOperandAndParent(t *testing.T) {
	operand := astnode.NewIdentifier(loc, "p")
	deref := astnode.NewContentOp(loc, operand)

	assert.Equal(t, astnode.ContentOp, deref.Kind)
	assert.Same(t, operand, deref.Operand)
	assert.Same(t, deref, operand.Parent)
}

func TestKindStringNamesEveryDeclaredConstant(t *testing.T) {
	assert.Equal(t, "Identifier", astnode.Identifier.String())
	assert.Equal(t, "EvalStatement", astnode.EvalStatement.String())
	assert.Equal(t, "Kind(?)", astnode.Kind(9999).String())
}
