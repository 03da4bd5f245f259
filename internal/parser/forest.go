package parser

import (
	"errors"
	"fmt"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/lex"
	"github.com/alusus-go/corelang/internal/notice"
)

// ErrNoViableParse is returned by Parse when every branch of the forest
// died before reaching end-of-input.
var ErrNoViableParse = errors.New("parser: no viable parse")

// NoticeStateCapExceeded is an additive notice code (SPEC_FULL.md §6.3, not
// part of spec.md's original taxonomy): a grammar forked more live states
// than the configured cap allows, and the excess were pruned rather than
// explored.
const NoticeStateCapExceeded notice.Code = "parser.state-cap-exceeded"

// NoticeSyntaxError is raised when no branch of the forest survives to
// end-of-input.
const NoticeSyntaxError notice.Code = "parser.syntax-error"

// Forest drives a grammar.Repository and a Registry of parsing handlers
// over a token stream, exploring the branching GLR-style state forest of
// spec.md §3.5/§4.3.
//
// The matching engine below is a recursive-descent search over the term
// algebra rather than an explicit per-token incremental automaton: each
// grammar.Term is matched by a function returning every State that results
// from consuming it, forking at Alternate and undetermined Multiply
// repetition counts. This still produces the full decision-node tree,
// tentative notice accumulation, and priority/error-count/declaration-order
// tie-break spec.md §4.3 and the grammar repository Validate pass require;
// it differs from a textbook worklist-of-active-states GLR loop only in
// that the "advance one token, then yield" cycle is driven by Go call
// recursion instead of an explicit outer for loop over token positions.
type Forest struct {
	repo          *grammar.Repository
	handlers      *Registry
	notices       *notice.Store
	maxLiveStates int
	filename      string

	capNotified bool
	furthestPos int
	furthestMsg string

	trace func(s string)
}

// RegisterTraceListener installs a callback invoked with a human-readable
// line every time the forest enters a production or commits to a winning
// branch. Grounded on internal/ictiobus/parse.lrParser's
// RegisterTraceListener/notifyTrace pair; nil (the default) disables
// tracing entirely, at no cost beyond the nil check.
func (f *Forest) RegisterTraceListener(listener func(s string)) {
	f.trace = listener
}

func (f *Forest) notifyTrace(format string, args ...interface{}) {
	if f.trace != nil {
		f.trace(fmt.Sprintf(format, args...))
	}
}

// NewForest returns a Forest ready to parse against repo, reporting to
// notices and reaching at most maxLiveStates live branches at any fork
// point (config.maxLiveStates, SPEC_FULL.md §6.3). maxLiveStates <= 0 means
// unbounded.
func NewForest(repo *grammar.Repository, handlers *Registry, notices *notice.Store, filename string, maxLiveStates int) *Forest {
	return &Forest{repo: repo, handlers: handlers, notices: notices, filename: filename, maxLiveStates: maxLiveStates}
}

// Parse matches startSymbol against the entirety of tokens, returning the
// AST node built for the start symbol by its registered handler (or the
// default generic wrapping if it has none). Among branches that consume
// every token, the winner is chosen by highest accumulated decision-node
// priority, then fewest accumulated notices, then declaration order
// (first-explored wins) — the precedence recorded as an Open Question
// decision in DESIGN.md.
func (f *Forest) Parse(startSymbol string, tokens []lex.Token) (*astnode.Node, error) {
	root := &State{Decision: &DecisionNode{Notices: f.notices}}
	root.ProdStack.Push(ProdFrame{Symbol: "__root__"})

	results := f.matchTerm(root, grammar.Reference(startSymbol), tokens)

	var survivors []*State
	for _, st := range results {
		if st.TokenPos == len(tokens) {
			survivors = append(survivors, st)
		}
	}

	if len(survivors) == 0 {
		loc := f.locAt(tokens, f.furthestPos)
		msg := f.furthestMsg
		if msg == "" {
			msg = "unexpected end of input"
		}
		f.notices.Addf(notice.Error, NoticeSyntaxError, loc, "%s", msg)
		return nil, ErrNoViableParse
	}

	winner := survivors[0]
	for _, st := range survivors[1:] {
		if better(st, winner) {
			winner = st
		}
	}
	winner.Status = Terminated
	f.notifyTrace("forest: %s chosen among %d surviving branch(es)", startSymbol, len(survivors))
	commitChain(winner.Decision)

	top := winner.ProdStack.Peek()
	if len(top.Children) == 0 {
		return nil, ErrNoViableParse
	}
	return top.Children[len(top.Children)-1], nil
}

// better reports whether a should win over the current best b: higher
// priority first, then fewer accumulated notices, then (implicitly, by
// never replacing on a tie) declaration order.
func better(a, b *State) bool {
	pa, pb := a.Priority(), b.Priority()
	if pa != pb {
		return pa > pb
	}
	return a.ErrorCount() < b.ErrorCount()
}

func commitChain(d *DecisionNode) {
	var chain []*DecisionNode
	for n := d; n != nil; n = n.Parent {
		chain = append(chain, n)
	}
	for _, n := range chain {
		n.Notices.Commit()
	}
}

// matchTerm returns every State reachable by fully matching term starting
// from st, which the caller exclusively owns (it is safe to mutate or
// clone). A nil/empty result means term could not be matched from st at
// all along any branch.
func (f *Forest) matchTerm(st *State, term grammar.Term, tokens []lex.Token) []*State {
	switch term.Kind {
	case grammar.TermConst:
		lit := term.Literal
		return f.matchLeaf(st, tokens, func(tok lex.Token) bool { return tok.Lexeme() == lit },
			fmt.Sprintf("%q", lit))

	case grammar.TermToken:
		ref, matchText := term.TokenRef, term.MatchText
		human := ref
		if matchText != "" {
			human = fmt.Sprintf("%q", matchText)
		}
		return f.matchLeaf(st, tokens, func(tok lex.Token) bool {
			if tok.Class().ID() != lex.MakeClass(ref).ID() {
				return false
			}
			return matchText == "" || tok.Lexeme() == matchText
		}, human)

	case grammar.TermCharGroup:
		ref := term.CharGroupRef
		cg, err := f.repo.GetCharGroup(ref)
		if err != nil {
			f.recordFailure(st, tokens, err.Error())
			return nil
		}
		// CharGroup terms ordinarily belong to token/char-group
		// definitions consumed by internal/lex's Compiler, not directly
		// inside a parser-level symbol production; the one place this
		// still makes sense at the parser level is a production spelled
		// as a single matched character, so we match against the first
		// rune of the current token's lexeme.
		return f.matchLeaf(st, tokens, func(tok lex.Token) bool {
			runes := []rune(tok.Lexeme())
			return len(runes) == 1 && cg.Matches(runes[0])
		}, fmt.Sprintf("a character in %q", ref))

	case grammar.TermReference:
		return f.matchReference(st, term.RefName, tokens)

	case grammar.TermConcat:
		states := []*State{st}
		for _, sub := range term.Terms {
			var next []*State
			for _, s := range states {
				if f.overCap(len(next)) {
					break
				}
				next = append(next, f.matchTerm(s, sub, tokens)...)
			}
			states = next
			if len(states) == 0 {
				return nil
			}
		}
		return states

	case grammar.TermAlternate:
		var out []*State
		for i, alt := range term.Terms {
			if f.overCap(len(out)) {
				break
			}
			pr := 0
			if i < len(term.Priorities) {
				pr = term.Priorities[i]
			}
			out = append(out, f.matchTerm(st.fork(pr), alt, tokens)...)
		}
		return out

	case grammar.TermMultiply:
		return f.matchMultiply(st, term, tokens, 0)

	default:
		return nil
	}
}

// matchLeaf consumes exactly one token from st if it satisfies match,
// appending a terminal node to the enclosing production frame's children.
func (f *Forest) matchLeaf(st *State, tokens []lex.Token, match func(lex.Token) bool, human string) []*State {
	if st.TokenPos >= len(tokens) {
		f.recordFailure(st, tokens, fmt.Sprintf("unexpected end of input; expected %s", human))
		return nil
	}
	tok := tokens[st.TokenPos]
	if !match(tok) {
		f.recordFailure(st, tokens, fmt.Sprintf("unexpected %q; expected %s", tok.Lexeme(), human))
		return nil
	}
	c := st.clone()
	c.TokenPos++
	f.appendChild(c, astnode.NewIdentifier(f.locOf(tok), tok.Lexeme()))
	return []*State{c}
}

// matchReference resolves name against the grammar repository, matches its
// term, and invokes its registered handler (if any) at reduction, per
// spec.md §4.4.
func (f *Forest) matchReference(st *State, name string, tokens []lex.Token) []*State {
	def, err := f.repo.GetSymbol(name)
	if err != nil {
		f.recordFailure(st, tokens, err.Error())
		return nil
	}
	f.notifyTrace("forest: entering %s at token %d", name, st.TokenPos)

	c := st.clone()
	c.ProdStack.Push(ProdFrame{Symbol: name, Def: def, StartTok: st.TokenPos})

	results := f.matchTerm(c, def.Term, tokens)

	var out []*State
	for _, r := range results {
		frame := r.ProdStack.Pop()

		node := astnode.New(astnode.List, astnode.Location{File: f.filename})
		node.Children = frame.Children
		for _, ch := range frame.Children {
			ch.Parent = node
		}

		if h, ok := f.handlers.Lookup(name); ok {
			lvl := CompletedLevel{Symbol: name, Data: node, Children: frame.Children}
			if err := h(r, lvl); err != nil {
				f.recordFailure(r, tokens, err.Error())
				continue
			}
			node = lvl.Data
		}

		// PassUp promotes the single matched child in place of the List
		// wrapper, for productions (operator precedence chains, simple
		// reference aliases) that declare it (spec.md §3.3).
		if def.HasFlag(grammar.PassUp) && len(frame.Children) == 1 {
			node = frame.Children[0]
		}

		f.appendChild(r, node)
		out = append(out, r)
	}
	return out
}

// matchMultiply matches term.Operand between term.Min and term.Max times.
// When term carries OneRouteTerm it commits greedily to the longest
// repetition run and never forks; otherwise every repetition count at or
// above Min that can still be reached is a real fork, one child decision
// node per "stop here vs. match once more" choice.
//
// When term also carries ErrorSyncTerm and the operand fails to match
// before Min repetitions are reached, the branch doesn't simply die: it
// enters error-sync recovery (errorSync), skipping input up to the next
// point where the operand matches and emitting one NoticeSyntaxError for
// the whole skipped run (spec.md §4.3 step 3).
func (f *Forest) matchMultiply(st *State, term grammar.Term, tokens []lex.Token, count int) []*State {
	oneRoute := term.HasFlag(grammar.OneRouteTerm)
	errorSync := term.HasFlag(grammar.ErrorSyncTerm)
	canExtend := term.Max < 0 || count < term.Max

	var extended []*State
	if canExtend {
		tryState := st
		if !oneRoute && count >= term.Min {
			tryState = st.fork(term.Priority)
		}
		results := f.matchTerm(tryState, *term.Operand, tokens)
		if len(results) == 0 && errorSync && count < term.Min {
			if recovered := f.errorSync(tryState, term, tokens); recovered != nil {
				results = f.matchTerm(recovered, *term.Operand, tokens)
			}
		}
		for _, e := range results {
			extended = append(extended, f.matchMultiply(e, term, tokens, count+1)...)
		}
	}

	if oneRoute {
		if len(extended) > 0 {
			return extended
		}
		if count >= term.Min {
			return []*State{st}
		}
		return nil
	}

	var out []*State
	if count >= term.Min {
		out = append(out, st)
	}
	out = append(out, extended...)
	return out
}

func (f *Forest) appendChild(st *State, n *astnode.Node) {
	if st.ProdStack.Len() == 0 {
		return
	}
	top := &st.ProdStack.Of[len(st.ProdStack.Of)-1]
	top.Children = append(top.Children, n)
}

// overCap reports whether n branches already explored at this fork point
// meet or exceed the configured cap, emitting NoticeStateCapExceeded once.
func (f *Forest) overCap(n int) bool {
	if f.maxLiveStates <= 0 || n < f.maxLiveStates {
		return false
	}
	if !f.capNotified {
		f.capNotified = true
		f.notices.Addf(notice.Warning, NoticeStateCapExceeded, notice.Location{File: f.filename},
			"parser state cap (%d) exceeded; excess branches pruned", f.maxLiveStates)
	}
	return true
}

// errorSync implements spec.md §4.3 step 3's error-sync recovery: st's
// ErrorSyncTerm-flagged Multiply operand couldn't match at the current
// position, so skip tokens one at a time until it can (or input runs out),
// emit a single NoticeSyntaxError covering the whole skipped run, and
// return a clone of st positioned at the recovery point with Status set to
// Errored. Returns nil if no synchronization point is found before EOF.
func (f *Forest) errorSync(st *State, term grammar.Term, tokens []lex.Token) *State {
	start := st.TokenPos
	for pos := start + 1; pos < len(tokens); pos++ {
		probe := st.clone()
		probe.TokenPos = pos
		if len(f.matchTerm(probe, *term.Operand, tokens)) == 0 {
			continue
		}

		f.notices.Addf(notice.Error, NoticeSyntaxError, f.locAt(tokens, start),
			"unexpected input skipped while recovering to the next synchronization point")

		recovered := st.clone()
		recovered.TokenPos = pos
		recovered.Status = Errored
		return recovered
	}
	return nil
}

func (f *Forest) recordFailure(st *State, tokens []lex.Token, msg string) {
	if st.TokenPos < f.furthestPos {
		return
	}
	f.furthestPos = st.TokenPos
	f.furthestMsg = msg
}

func (f *Forest) locOf(tok lex.Token) astnode.Location {
	end := tok.LinePos() + len([]rune(tok.Lexeme()))
	return astnode.Location{File: f.filename, Line: tok.Line(), Col: tok.LinePos(), EndLine: tok.Line(), EndCol: end}
}

func (f *Forest) locAt(tokens []lex.Token, pos int) notice.Location {
	if pos < len(tokens) {
		t := tokens[pos]
		return notice.Location{File: f.filename, Line: t.Line(), Col: t.LinePos()}
	}
	if len(tokens) > 0 {
		t := tokens[len(tokens)-1]
		return notice.Location{File: f.filename, Line: t.Line(), Col: t.LinePos() + len([]rune(t.Lexeme()))}
	}
	return notice.Location{File: f.filename, Line: 1, Col: 1}
}
