package codegen

import "github.com/alusus-go/corelang/internal/astnode"

// DestructionNode records one value that owes a destructor call, and the
// scope that owns it (spec.md §4.7). Pushed in declaration order as
// locals come into scope; popped in reverse (LIFO) order on scope exit,
// early return, break, or continue, which is exactly what a stack gives
// for free.
type DestructionNode struct {
	OwningScope *astnode.Node
	Value       TargetValue
	Dtor        *astnode.Node // the destructor Function node; nil if trivially destructible
}

// DestructionStack tracks every live value with a pending destructor
// across all currently-open scopes in a single function.
type DestructionStack struct {
	entries []DestructionNode
}

// NewDestructionStack returns an empty stack.
func NewDestructionStack() *DestructionStack {
	return &DestructionStack{}
}

// Push records that value, owned by scope, needs dtor run when scope
// (or an enclosing one, via UnwindThrough) exits. A nil dtor still
// reserves the slot (useful for move bookkeeping), but no call is emitted
// for it: Codegen.runDestructions skips entries with a nil Dtor.
func (d *DestructionStack) Push(scope *astnode.Node, value TargetValue, dtor *astnode.Node) {
	d.entries = append(d.entries, DestructionNode{OwningScope: scope, Value: value, Dtor: dtor})
}

// Cancel removes the nearest pending destruction for value without
// emitting it — used when a value is moved out from under its original
// owner, so the destination's own destructor (pushed separately at the
// move's target scope) is the only one that eventually runs.
func (d *DestructionStack) Cancel(value TargetValue) bool {
	for i := len(d.entries) - 1; i >= 0; i-- {
		if d.entries[i].Value == value {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

// UnwindScope pops every entry owned by scope, in reverse-push (LIFO)
// order, stopping at the first entry owned by some other (enclosing)
// scope.
func (d *DestructionStack) UnwindScope(scope *astnode.Node) []DestructionNode {
	return d.UnwindThrough([]*astnode.Node{scope})
}

// UnwindThrough pops every entry whose OwningScope is one of scopes,
// stopping at the first entry whose scope isn't in the set — used for
// return/break/continue, which cross every scope from the current one up
// to (and including) the function/loop boundary in one motion.
func (d *DestructionStack) UnwindThrough(scopes []*astnode.Node) []DestructionNode {
	boundary := make(map[*astnode.Node]bool, len(scopes))
	for _, s := range scopes {
		boundary[s] = true
	}
	var popped []DestructionNode
	for len(d.entries) > 0 {
		top := d.entries[len(d.entries)-1]
		if !boundary[top.OwningScope] {
			break
		}
		popped = append(popped, top)
		d.entries = d.entries[:len(d.entries)-1]
	}
	return popped
}
