package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/grammar"
)

func TestCharGroupUnitMatchesSequenceRange(t *testing.T) {
	digits := grammar.Seq('0', '9')
	assert.True(t, digits.Matches('5'))
	assert.False(t, digits.Matches('a'))
}

func TestCharGroupUnitMatchesUnion(t *testing.T) {
	u := grammar.Union(grammar.Seq('a', 'z'), grammar.Seq('A', 'Z'))
	assert.True(t, u.Matches('q'))
	assert.True(t, u.Matches('Q'))
	assert.False(t, u.Matches('5'))
}

func TestCharGroupUnitMatchesIntersection(t *testing.T) {
	// letters that are also in a-m
	i := grammar.Intersection(grammar.Seq('a', 'z'), grammar.Seq('a', 'm'))
	assert.True(t, i.Matches('c'))
	assert.False(t, i.Matches('z'))
}

func TestCharGroupUnitMatchesComplement(t *testing.T) {
	notDigit := grammar.Complement(grammar.Seq('0', '9'))
	assert.True(t, notDigit.Matches('a'))
	assert.False(t, notDigit.Matches('5'))
}

func TestTermConstructorsPopulateFields(t *testing.T) {
	c := grammar.Const("foo")
	assert.Equal(t, grammar.TermConst, c.Kind)
	assert.Equal(t, "foo", c.Literal)

	cg := grammar.CharGroupTerm("Digit")
	assert.Equal(t, grammar.TermCharGroup, cg.Kind)
	assert.Equal(t, "Digit", cg.CharGroupRef)

	tok := grammar.TokenTerm("id", "foo")
	assert.Equal(t, grammar.TermToken, tok.Kind)
	assert.Equal(t, "id", tok.TokenRef)
	assert.Equal(t, "foo", tok.MatchText)

	ref := grammar.Reference("root.Main.Statement")
	assert.Equal(t, grammar.TermReference, ref.Kind)
	assert.Equal(t, "root.Main.Statement", ref.RefName)
}

func TestTermConcatAndAlternate(t *testing.T) {
	a := grammar.Const("a")
	b := grammar.Const("b")

	seq := grammar.Concat(a, b)
	require.Equal(t, grammar.TermConcat, seq.Kind)
	require.Len(t, seq.Terms, 2)

	alt := grammar.Alternate([]grammar.Term{a, b}, []int{1, 2})
	require.Equal(t, grammar.TermAlternate, alt.Kind)
	require.Len(t, alt.Terms, 2)
	require.Equal(t, []int{1, 2}, alt.Priorities)
}

func TestTermMultiplyCarriesOperandAndFlags(t *testing.T) {
	op := grammar.Const("x")
	m := grammar.Multiply(op, 0, -1, 1, grammar.PassUp)

	require.Equal(t, grammar.TermMultiply, m.Kind)
	require.NotNil(t, m.Operand)
	assert.Equal(t, "x", m.Operand.Literal)
	assert.Equal(t, 0, m.Min)
	assert.Equal(t, -1, m.Max)
	assert.True(t, m.HasFlag(grammar.PassUp))
	assert.False(t, m.HasFlag(grammar.ErrorSyncTerm))
}
