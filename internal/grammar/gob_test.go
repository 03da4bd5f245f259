package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/grammar"
)

func TestRepositoryGobRoundTrip(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Main.Statement", grammar.Concat(grammar.Const("a"), grammar.Const("b")))
	repo.SetCharGroup("root.Digit", grammar.CharGroupDefinition{Unit: grammar.Seq('0', '9')})
	repo.AddReference("Expr", "root.Main.Statement", 5)

	data, err := repo.GobEncode()
	require.NoError(t, err)

	restored := grammar.NewRepository()
	require.NoError(t, restored.GobDecode(data))

	sym, err := restored.GetSymbol("root.Main.Statement")
	require.NoError(t, err)
	require.Equal(t, grammar.TermConcat, sym.Term.Kind)
	require.Len(t, sym.Term.Terms, 2)

	cg, err := restored.GetCharGroup("root.Digit")
	require.NoError(t, err)
	assert.True(t, cg.Matches('5'))

	pd, ok := restored.Dimension("Expr")
	require.True(t, ok)
	require.Len(t, pd.Hooks, 1)
	assert.Equal(t, "root.Main.Statement", pd.Hooks[0].SymbolRef)

	assert.Equal(t, repo.Version(), restored.Version())
}

func TestModuleGobRoundTripPreservesNestedShape(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Sub.Leaf", grammar.Const("x"))
	sub, ok := repo.Root().SubModule("Sub")
	require.True(t, ok)

	data, err := sub.GobEncode()
	require.NoError(t, err)

	var restored grammar.Module
	require.NoError(t, restored.GobDecode(data))

	sym, ok := restored.Symbol("Leaf")
	require.True(t, ok)
	assert.Equal(t, "x", sym.Term.Literal)
}

func TestSymbolDefinitionGobRoundTripPreservesHasTerm(t *testing.T) {
	withTerm := grammar.NewSymbolDefinition("A", grammar.Const("x"))
	data, err := withTerm.GobEncode()
	require.NoError(t, err)

	var decoded grammar.SymbolDefinition
	require.NoError(t, decoded.GobDecode(data))
	assert.True(t, decoded.HasOwnTerm())

	inheriting := grammar.SymbolDefinition{Name: "B", Parent: "A"}
	data, err = inheriting.GobEncode()
	require.NoError(t, err)

	var decodedInheriting grammar.SymbolDefinition
	require.NoError(t, decodedInheriting.GobDecode(data))
	assert.False(t, decodedInheriting.HasOwnTerm())
	assert.Equal(t, "A", decodedInheriting.Parent)
}
