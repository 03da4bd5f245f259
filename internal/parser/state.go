// Package parser implements the GLR-style branching parser of spec.md
// §3.5/§4.3: a forest of parser states advancing in lock-step over a token
// stream, forking at Alternate/Multiply choice points and pruning branches
// that cannot consume the next token.
//
// The state shape (term-level stack, production-level stack, token cursor,
// decision node, modifier-level stack, notice store) is spec.md §3.5's own
// tuple; the trace/notify convention and the use of util.Stack for the two
// stacks are grounded on internal/ictiobus/parse/lr.go's lrParser, whose
// Parse loop this package generalizes from a single deterministic LR table
// walk into a forest of simultaneously-live branches.
package parser

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/notice"
	"github.com/alusus-go/corelang/internal/util"
)

// Status is the lifecycle state of one parser State (spec.md §3.5).
type Status int

const (
	Active Status = iota
	Waiting
	Errored
	Terminated
	Dead
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Waiting:
		return "waiting"
	case Errored:
		return "errored"
	case Terminated:
		return "terminated"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// TermFrame is one entry of a state's term-level stack. Pos is interpreted
// according to Term.Kind: the index of the next child to match for
// TermConcat, the chosen alternative's index for TermAlternate, and the
// repetition count accumulated so far for TermMultiply.
type TermFrame struct {
	Term grammar.Term
	Pos  int
}

// ProdFrame is one entry of a state's production-level stack: it points at
// the symbol definition currently being matched and carries the AST node
// being built for it (spec.md §3.5).
type ProdFrame struct {
	Symbol   string
	Def      grammar.SymbolDefinition
	Data     *astnode.Node
	StartTok int
	Children []*astnode.Node
}

// DecisionNode records one GLR fork point. States sharing a prefix share
// their decision-node ancestors; TotalPriority sums the chain, used by the
// "prefer higher accumulated priority" pruning rule (spec.md §4.3).
type DecisionNode struct {
	Parent   *DecisionNode
	Priority int
	Notices  *notice.Store
}

// TotalPriority sums this node's priority with all of its ancestors'.
func (d *DecisionNode) TotalPriority() int {
	total := 0
	for n := d; n != nil; n = n.Parent {
		total += n.Priority
	}
	return total
}

// child returns a new DecisionNode one level below d carrying the given
// fork priority and a tentative notice store rooted at d's store.
func (d *DecisionNode) child(priority int) *DecisionNode {
	return &DecisionNode{Parent: d, Priority: priority, Notices: d.Notices.Tentative()}
}

// State is one branch of the parse forest (spec.md §3.5).
type State struct {
	TermStack     util.Stack[TermFrame]
	ProdStack     util.Stack[ProdFrame]
	TokenPos      int
	Decision      *DecisionNode
	ModifierStack util.Stack[map[string]any]
	Status        Status
}

// Priority is the accumulated fork priority along this state's decision
// chain, used to rank surviving states at EOF (spec.md §4.3).
func (st *State) Priority() int { return st.Decision.TotalPriority() }

// ErrorCount is the number of notices accumulated in this state's own
// (uncommitted) decision-node store, used as the pruning tie-break after
// priority.
func (st *State) ErrorCount() int { return st.Decision.Notices.Len() }

// clone returns a deep-enough copy of st for forking: the two stacks and
// the modifier stack get fresh backing arrays so that appending to one
// fork never aliases another's.
func (st *State) clone() *State {
	c := &State{
		TokenPos: st.TokenPos,
		Decision: st.Decision,
		Status:   st.Status,
	}
	c.TermStack.Of = append([]TermFrame(nil), st.TermStack.Of...)
	c.ProdStack.Of = append([]ProdFrame(nil), st.ProdStack.Of...)
	c.ModifierStack.Of = append([]map[string]any(nil), st.ModifierStack.Of...)
	return c
}

// fork returns a clone of st under a new child decision node with the
// given fork priority, used whenever an Alternate or an optional Multiply
// repetition introduces a real choice.
func (st *State) fork(priority int) *State {
	c := st.clone()
	c.Decision = st.Decision.child(priority)
	return c
}
