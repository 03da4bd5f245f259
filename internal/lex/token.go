// Package lex compiles token definitions into an NFA-simulated scanner and
// exposes a batch token stream over a rune source, per spec.md §4.2.
//
// The Action taxonomy (plain scan / state switch / scan-and-switch) and the
// TokenClass/Token shapes are grounded on internal/ictiobus/lex's
// action.go and internal/ictiobus/types/{class,token}.go. The actual
// pattern-matching engine is github.com/timtadh/lexmachine, adapted the
// way npillmayer-gorgo/lr/scanner/lexmach wraps it, which replaces the
// teacher's composed-regexp lazyLex with a real NFA/DFA compiled scanner.
package lex

import "strings"

// TokenClass identifies a lexical category (a terminal symbol). Grounded on
// types.TokenClass; ID is the canonical, lower-case identifier used as a
// grammar terminal, Human is for diagnostics.
type TokenClass interface {
	ID() string
	Human() string
	Equal(o any) bool
}

type simpleTokenClass string

func (c simpleTokenClass) ID() string    { return strings.ToLower(string(c)) }
func (c simpleTokenClass) Human() string { return string(c) }
func (c simpleTokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		return false
	}
	return other.ID() == c.ID()
}

// MakeClass builds a TokenClass whose ID is the lower-cased name and whose
// Human form is the name unmodified.
func MakeClass(name string) TokenClass { return simpleTokenClass(name) }

const (
	// ClassUndefined marks a token that failed to classify.
	ClassUndefined = simpleTokenClass("undefined")
	// ClassEndOfText is the sentinel class of the stream's final token.
	ClassEndOfText = simpleTokenClass("$")
	// ClassError marks a token produced to carry a lexical error.
	ClassError = simpleTokenClass("error")
)

// Token is one lexeme read from source, tagged with its class and position.
type Token struct {
	class    TokenClass
	lexeme   string
	line     int
	linePos  int
	fullLine string
}

// NewToken builds a Token. fullLine is the complete source line the token
// was read from, used for cursor-style diagnostics (notice.SourceLineWithCursor).
func NewToken(class TokenClass, lexeme string, line, linePos int, fullLine string) Token {
	return Token{class: class, lexeme: lexeme, line: line, linePos: linePos, fullLine: fullLine}
}

func (t Token) Class() TokenClass  { return t.class }
func (t Token) Lexeme() string     { return t.lexeme }
func (t Token) Line() int          { return t.line }
func (t Token) LinePos() int       { return t.linePos }
func (t Token) FullLine() string   { return t.fullLine }
func (t Token) String() string {
	return t.class.Human() + " " + "\"" + t.lexeme + "\"" + " (" + t.class.ID() + ")"
}
