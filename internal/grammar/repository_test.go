package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/grammar"
)

func TestSetSymbolCreatesIntermediateModules(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Main.Sub.Statement", grammar.Const("x"))

	sym, err := repo.GetSymbol("root.Main.Sub.Statement")
	require.NoError(t, err)
	assert.Equal(t, "Statement", sym.Name)
	assert.Equal(t, "x", sym.Term.Literal)
}

func TestSetSymbolBumpsVersion(t *testing.T) {
	repo := grammar.NewRepository()
	v0 := repo.Version()
	repo.SetSymbol("root.A", grammar.Const("a"))
	assert.Greater(t, repo.Version(), v0)
}

func TestGetSymbolUnknownReturnsError(t *testing.T) {
	repo := grammar.NewRepository()
	_, err := repo.GetSymbol("root.Nope")
	assert.Error(t, err)
}

func TestRemoveSymbolIsIdempotent(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.A", grammar.Const("a"))
	repo.RemoveSymbol("root.A")
	_, err := repo.GetSymbol("root.A")
	assert.Error(t, err)

	// removing again, or removing from a module that doesn't exist, must not panic
	assert.NotPanics(t, func() { repo.RemoveSymbol("root.A") })
	assert.NotPanics(t, func() { repo.RemoveSymbol("root.Missing.Sub") })
}

func TestSetSymbolDefinitionHonorsParentField(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Base", grammar.Const("base"))
	repo.SetSymbolDefinition("root.Derived", grammar.SymbolDefinition{Parent: "root.Base"})

	sym, err := repo.GetSymbol("root.Derived")
	require.NoError(t, err)
	assert.Equal(t, "base", sym.Term.Literal)
	assert.True(t, sym.HasOwnTerm(), "resolved view should report the inherited term as present")
}

func TestResolveInheritanceMergesVarsWithoutOverridingOwn(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbolDefinition("root.Base", grammar.SymbolDefinition{
		Term: grammar.Const("base"), Vars: map[string]any{"a": 1, "b": 2},
	})
	repo.SetSymbolDefinition("root.Derived", grammar.SymbolDefinition{
		Parent: "root.Base", Vars: map[string]any{"b": 99},
	})

	sym, err := repo.GetSymbol("root.Derived")
	require.NoError(t, err)
	assert.Equal(t, 1, sym.Vars["a"])
	assert.Equal(t, 99, sym.Vars["b"], "own var must win over inherited one")
}

func TestResolveInheritanceDetectsCycle(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbolDefinition("root.A", grammar.SymbolDefinition{Parent: "root.B"})
	repo.SetSymbolDefinition("root.B", grammar.SymbolDefinition{Parent: "root.A"})

	_, err := repo.GetSymbol("root.A")
	assert.Error(t, err)
}

func TestResolveInheritanceFromUndefinedParentErrors(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbolDefinition("root.A", grammar.SymbolDefinition{Parent: "root.Ghost"})

	_, err := repo.GetSymbol("root.A")
	assert.Error(t, err)
}

func TestCharGroupCRUD(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetCharGroup("root.Digit", grammar.CharGroupDefinition{Unit: grammar.Seq('0', '9')})

	d, err := repo.GetCharGroup("root.Digit")
	require.NoError(t, err)
	assert.Equal(t, "Digit", d.Name)
	assert.True(t, d.Unit.Matches('5'))

	repo.RemoveCharGroup("root.Digit")
	_, err = repo.GetCharGroup("root.Digit")
	assert.Error(t, err)
}

func TestAddReferenceAndResolveDimensionOrdersByPriorityDescending(t *testing.T) {
	repo := grammar.NewRepository()
	repo.AddReference("Expr", "root.Low", 1)
	repo.AddReference("Expr", "root.High", 10)
	repo.AddReference("Expr", "root.Mid", 5)

	pd, ok := repo.Dimension("Expr")
	require.True(t, ok)
	require.Len(t, pd.Hooks, 3)
	assert.Equal(t, "root.High", pd.Hooks[0].SymbolRef)
	assert.Equal(t, "root.Mid", pd.Hooks[1].SymbolRef)
	assert.Equal(t, "root.Low", pd.Hooks[2].SymbolRef)

	term, err := repo.ResolveDimension("Expr")
	require.NoError(t, err)
	require.Equal(t, grammar.TermAlternate, term.Kind)
	require.Len(t, term.Terms, 3)
	assert.Equal(t, "root.High", term.Terms[0].RefName)
	assert.Equal(t, []int{10, 5, 1}, term.Priorities)
}

func TestResolveDimensionUnknownErrors(t *testing.T) {
	repo := grammar.NewRepository()
	_, err := repo.ResolveDimension("Nope")
	assert.Error(t, err)
}

func TestValidateCatchesUnresolvedReference(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.A", grammar.Reference("root.Ghost"))

	errs := repo.Validate()
	require.Len(t, errs, 1)
}

func TestValidateAcceptsReferenceToDeclaredDimension(t *testing.T) {
	repo := grammar.NewRepository()
	repo.AddReference("Expr", "root.Lit", 1)
	repo.SetSymbol("root.Lit", grammar.Const("x"))
	repo.SetSymbol("root.A", grammar.Reference("Expr"))

	errs := repo.Validate()
	assert.Empty(t, errs)
}

func TestValidateWalksNestedConcatAndAlternateAndMultiply(t *testing.T) {
	repo := grammar.NewRepository()
	nested := grammar.Multiply(grammar.Reference("root.Ghost"), 0, -1, 0)
	repo.SetSymbol("root.A", grammar.Concat(grammar.Const("x"), grammar.Alternate(
		[]grammar.Term{nested}, []int{0},
	)))

	errs := repo.Validate()
	require.Len(t, errs, 1)
}

func TestValidateReportsModuleParentCycle(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.A.X", grammar.Const("x"))
	modA, ok := repo.Root().SubModule("A")
	require.True(t, ok)

	// force a cycle: A's Parent points back through itself
	modA.Parent = modA

	errs := repo.Validate()
	require.NotEmpty(t, errs)
}

func TestValidateReportsInheritanceCycleAmongMultipleErrors(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbolDefinition("root.A", grammar.SymbolDefinition{Parent: "root.B"})
	repo.SetSymbolDefinition("root.B", grammar.SymbolDefinition{Parent: "root.A"})
	repo.SetSymbol("root.C", grammar.Reference("root.Ghost"))

	errs := repo.Validate()
	assert.GreaterOrEqual(t, len(errs), 2)
}
