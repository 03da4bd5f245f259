package lex

import (
	"fmt"
	"strings"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/alusus-go/corelang/internal/notice"
)

// defaultUnrecognizedRunClamp bounds how much of an unrecognized run of
// characters is quoted back in a single UnrecognizedChar notice, so one long
// run of garbage input does not produce an unreadably long diagnostic. A
// Compiler may override this via SetMaxTokenLength (internal/config's
// MaxTokenLength field).
const defaultUnrecognizedRunClamp = 24

// NoticeUnrecognizedChar is raised when the scanner cannot match any
// defined pattern at the current position.
const NoticeUnrecognizedChar notice.Code = "lex.unrecognized-char"

// Definition is one pattern rule: a regular expression (lexmachine syntax),
// the action it triggers on match, and a priority used to decide
// registration order (ties within the NFA are otherwise resolved by
// maximal munch, then by the order patterns were added).
type Definition struct {
	Pattern  string
	Action   Action
	Priority int
}

// Compiler accumulates TokenClasses and pattern Definitions for one lexing
// state machine, then compiles them into a reusable Scanner. Grounded on
// internal/ictiobus/lex's lexerTemplate (AddClass/AddPattern building up a
// template later instantiated per input) generalized to delegate actual
// matching to a compiled lexmachine NFA/DFA, the way
// npillmayer-gorgo/lr/scanner/lexmach.LMAdapter wraps lexmachine.
type Compiler struct {
	classes        map[string]TokenClass
	classIDs       map[string]int
	nextID         int
	defs           []Definition
	maxTokenLength int
}

// NewCompiler returns an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{classes: map[string]TokenClass{}, classIDs: map[string]int{}}
}

// SetMaxTokenLength overrides how much of an unrecognized character run is
// quoted back in a single UnrecognizedChar notice (0 restores the default).
// A session reads this from config's MaxTokenLength field.
func (c *Compiler) SetMaxTokenLength(n int) {
	c.maxTokenLength = n
}

// AddClass registers a token class as available for use in Action.ClassID.
func (c *Compiler) AddClass(cl TokenClass) {
	if _, ok := c.classIDs[cl.ID()]; !ok {
		c.classIDs[cl.ID()] = c.nextID
		c.nextID++
	}
	c.classes[cl.ID()] = cl
}

// discardTypeID is the lexmachine token type assigned to matches that carry
// no scanned class (state-switch-only or pure discard actions).
const discardTypeID = -1

// AddPattern registers a pattern. Returns an error if the action references
// an undeclared class or an empty target state.
func (c *Compiler) AddPattern(d Definition) error {
	if d.Action.Kind == ActionScan || d.Action.Kind == ActionScanAndSwitchState {
		if _, ok := c.classes[d.Action.ClassID]; !ok {
			return fmt.Errorf("lex: %q is not a defined token class; add it with AddClass first", d.Action.ClassID)
		}
	}
	if d.Action.Kind == ActionSwitchState || d.Action.Kind == ActionScanAndSwitchState {
		if d.Action.ToState == "" {
			return fmt.Errorf("lex: action switches state but names no target state")
		}
	}
	c.defs = append(c.defs, d)
	return nil
}

// Compile builds the NFA/DFA scanner. Definitions are registered with
// lexmachine highest-priority first, and in declaration order within a
// priority, so that lexmachine's longest-match resolution falls through to
// priority and then to declaration order exactly as spec.md §4.2 requires.
func (c *Compiler) Compile() (*Scanner, error) {
	ordered := make([]Definition, len(c.defs))
	copy(ordered, c.defs)
	stableSortByPriorityDesc(ordered)

	lx := lexmachine.NewLexer()
	for i := range ordered {
		d := ordered[i]
		typeID := discardTypeID
		if d.Action.Kind == ActionScan || d.Action.Kind == ActionScanAndSwitchState {
			typeID = c.classIDs[d.Action.ClassID]
		}
		lx.Add([]byte(d.Pattern), makeAction(typeID, d.Action))
	}
	if err := lx.Compile(); err != nil {
		return nil, fmt.Errorf("lex: compiling NFA/DFA: %w", err)
	}

	idToClass := map[int]TokenClass{}
	for id, num := range c.classIDs {
		idToClass[num] = c.classes[id]
	}

	runClamp := c.maxTokenLength
	if runClamp <= 0 {
		runClamp = defaultUnrecognizedRunClamp
	}
	return &Scanner{lexer: lx, idToClass: idToClass, unrecognizedRunClamp: runClamp}, nil
}

func makeAction(typeID int, a Action) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(typeID, a, m), nil
	}
}

func stableSortByPriorityDesc(defs []Definition) {
	for i := 1; i < len(defs); i++ {
		j := i
		for j > 0 && defs[j-1].Priority < defs[j].Priority {
			defs[j-1], defs[j] = defs[j], defs[j-1]
			j--
		}
	}
}

// Scanner is a compiled lexer ready to tokenize input. A Scanner is
// stateless and reusable across many inputs; per-input state lives in the
// TokenStream it produces.
type Scanner struct {
	lexer                *lexmachine.Lexer
	idToClass            map[int]TokenClass
	unrecognizedRunClamp int
}

// TokenStream is the batch sequence of tokens produced from one input, per
// spec.md §6.4's batch character-input-source contract.
type TokenStream struct {
	tokens []Token
	pos    int
}

// Next returns the next token and advances the stream. Once the stream is
// exhausted it keeps returning a ClassEndOfText token.
func (ts *TokenStream) Next() Token {
	if ts.pos >= len(ts.tokens) {
		if len(ts.tokens) > 0 {
			last := ts.tokens[len(ts.tokens)-1]
			return NewToken(ClassEndOfText, "", last.Line(), last.LinePos(), last.FullLine())
		}
		return NewToken(ClassEndOfText, "", 1, 1, "")
	}
	t := ts.tokens[ts.pos]
	ts.pos++
	return t
}

// Peek returns the next token without advancing the stream.
func (ts *TokenStream) Peek() Token {
	if ts.pos >= len(ts.tokens) {
		return ts.Next()
	}
	return ts.tokens[ts.pos]
}

// HasNext reports whether any token remains before end-of-text.
func (ts *TokenStream) HasNext() bool {
	return ts.pos < len(ts.tokens)
}

// All returns every token already scanned, in order.
func (ts *TokenStream) All() []Token {
	out := make([]Token, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}

// Tokens scans the entirety of src and returns the resulting TokenStream.
// Lexical errors (unrecognized characters) are reported to notices and the
// offending run is skipped so scanning can continue and report as many
// problems as possible in a single pass, matching the notice Store's
// accumulate-rather-than-abort philosophy.
func (s *Scanner) Tokens(filename, src string, notices *notice.Store) (*TokenStream, error) {
	lines := strings.Split(src, "\n")

	scanner, err := s.lexer.Scanner([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("lex: starting scanner: %w", err)
	}

	out := &TokenStream{}

	for {
		tok, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				lineNum := ui.StartLine + 1
				colNum := ui.StartColumn + 1
				clamp := s.unrecognizedRunClamp
				if clamp <= 0 {
					clamp = defaultUnrecognizedRunClamp
				}
				// ui.Text is the whole input; the unmatched run is
				// [StartTC, FailTC) within it
				start := minInt(ui.StartTC, len(ui.Text))
				end := minInt(ui.FailTC, len(ui.Text))
				run := ui.Text[start:end]
				runLen := minInt(clamp, len(run))
				notices.Addf(notice.Error, NoticeUnrecognizedChar,
					notice.Location{File: filename, Line: lineNum, Col: colNum},
					"unrecognized character(s) %q", string(run[:runLen]))
				scanner.TC = ui.FailTC
				continue
			}
			return nil, fmt.Errorf("lex: scanning: %w", err)
		}

		t := tok.(*lexmachine.Token)
		a := t.Value.(Action)
		if a.Kind == ActionDiscard || a.Kind == ActionSwitchState {
			continue
		}

		class, ok := s.idToClass[t.Type]
		if !ok {
			class = ClassUndefined
		}
		lineNum := t.StartLine + 1
		colNum := t.StartColumn + 1
		fullLine := ""
		if lineNum-1 < len(lines) {
			fullLine = lines[lineNum-1]
		}
		out.tokens = append(out.tokens, NewToken(class, string(t.Lexeme), lineNum, colNum, fullLine))
	}

	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
