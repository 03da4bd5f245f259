package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/lex"
	"github.com/alusus-go/corelang/internal/notice"
	"github.com/alusus-go/corelang/internal/parser"
)

func idTok(lexeme string, pos int) lex.Token {
	return lex.NewToken(lex.MakeClass("id"), lexeme, 1, pos, "")
}

func numTok(lexeme string, pos int) lex.Token {
	return lex.NewToken(lex.MakeClass("num"), lexeme, 1, pos, "")
}

// a simple grammar: Sum -> id ('+' id)*
func buildSumRepo(t *testing.T) *grammar.Repository {
	t.Helper()
	repo := grammar.NewRepository()
	term := grammar.Concat(
		grammar.TokenTerm("id", ""),
		grammar.Multiply(
			grammar.Concat(grammar.Const("+"), grammar.TokenTerm("id", "")),
			0, -1, 0,
		),
	)
	repo.SetSymbol("root.Sum", term)
	return repo
}

func TestForestParseSingleTerm(t *testing.T) {
	repo := buildSumRepo(t)
	notices := notice.NewStore()
	f := parser.NewForest(repo, parser.NewRegistry(), notices, "test.alusus", 0)

	tokens := []lex.Token{idTok("a", 1)}
	node, err := f.Parse("root.Sum", tokens)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, astnode.List, node.Kind)
	assert.Len(t, node.Children, 1)
	assert.False(t, notices.HasErrorOrFatal())
}

func TestForestParseRepeatedTerm(t *testing.T) {
	repo := buildSumRepo(t)
	notices := notice.NewStore()
	f := parser.NewForest(repo, parser.NewRegistry(), notices, "test.alusus", 0)

	// Const("+") matches by lexeme regardless of token class.
	tokens := []lex.Token{
		idTok("a", 1),
		lex.NewToken(lex.MakeClass("plus"), "+", 1, 2, ""),
		idTok("b", 3),
	}

	node, err := f.Parse("root.Sum", tokens)
	require.NoError(t, err)
	require.NotNil(t, node)
	// one leaf per matched token: "a", "+" and "b"
	assert.Len(t, node.Children, 3)
}

func TestForestParseFailsOnMismatch(t *testing.T) {
	repo := buildSumRepo(t)
	notices := notice.NewStore()
	f := parser.NewForest(repo, parser.NewRegistry(), notices, "test.alusus", 0)

	tokens := []lex.Token{numTok("1", 1)}
	_, err := f.Parse("root.Sum", tokens)
	require.ErrorIs(t, err, parser.ErrNoViableParse)
	assert.True(t, notices.HasErrorOrFatal())
}

func TestHandlerMutatesReducedNode(t *testing.T) {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Name", grammar.TokenTerm("id", ""))

	registry := parser.NewRegistry()
	registry.Register("root.Name", func(st *parser.State, lvl parser.CompletedLevel) error {
		lvl.Data.Kind = astnode.Identifier
		if len(lvl.Children) > 0 {
			lvl.Data.Name = lvl.Children[0].Name
		}
		return nil
	})

	notices := notice.NewStore()
	f := parser.NewForest(repo, registry, notices, "test.alusus", 0)

	node, err := f.Parse("root.Name", []lex.Token{idTok("foo", 1)})
	require.NoError(t, err)
	assert.Equal(t, astnode.Identifier, node.Kind)
	assert.Equal(t, "foo", node.Name)
}

func TestPassUpPromotesSingleChildInsteadOfWrapping(t *testing.T) {
	repo := grammar.NewRepository()
	def := grammar.NewSymbolDefinition("Name", grammar.TokenTerm("id", ""))
	def.Flags = []grammar.MultiplyFlag{grammar.PassUp}
	repo.SetSymbolDefinition("root.Name", def)

	notices := notice.NewStore()
	f := parser.NewForest(repo, parser.NewRegistry(), notices, "test.alusus", 0)

	node, err := f.Parse("root.Name", []lex.Token{idTok("foo", 1)})
	require.NoError(t, err)
	assert.Equal(t, astnode.Identifier, node.Kind, "PassUp should promote the single child instead of a List wrapper")
	assert.Equal(t, "foo", node.Name)
}

func semiTok(pos int) lex.Token {
	return lex.NewToken(lex.MakeClass("punct"), ";", 1, pos, "")
}

// root.Stmts -> (id ';'){2,} with the Multiply flagged ErrorSyncTerm: a stray
// token between two well-formed "id ;" pairs should be skipped, with one
// notice raised, rather than killing the branch.
func buildErrorSyncRepo(t *testing.T) *grammar.Repository {
	t.Helper()
	repo := grammar.NewRepository()
	term := grammar.Multiply(
		grammar.Concat(grammar.TokenTerm("id", ""), grammar.Const(";")),
		2, -1, 0, grammar.ErrorSyncTerm,
	)
	repo.SetSymbol("root.Stmts", term)
	return repo
}

func TestErrorSyncSkipsStrayTokenAndRecovers(t *testing.T) {
	repo := buildErrorSyncRepo(t)
	notices := notice.NewStore()
	f := parser.NewForest(repo, parser.NewRegistry(), notices, "test.alusus", 0)

	tokens := []lex.Token{
		idTok("a", 1), semiTok(2),
		numTok("999", 3), // stray: breaks the second "id ;" pair
		idTok("b", 4), semiTok(5),
	}

	node, err := f.Parse("root.Stmts", tokens)
	require.NoError(t, err)
	require.NotNil(t, node)
	// the stray token contributes no child of its own
	assert.Len(t, node.Children, 4)

	var syntaxErrors int
	for _, n := range notices.All() {
		if n.Code == parser.NoticeSyntaxError {
			syntaxErrors++
		}
	}
	assert.Equal(t, 1, syntaxErrors, "exactly one notice per contiguous skipped run")
}
