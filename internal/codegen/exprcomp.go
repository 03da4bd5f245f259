package codegen

import (
	"github.com/alusus-go/corelang/internal/identity"
	"github.com/alusus-go/corelang/internal/notice"
)

// LValueness records whether an ExprComp names a storage location (and so
// can appear on the left of an assignment, or have its address taken) or
// is a plain value.
type LValueness int

const (
	RValue LValueness = iota
	LValue
)

// ExprComp is the result every expression-generating function returns
// (spec.md §4.7's ExprComp protocol): the AST-level type the expression
// was computed as, the backend type and value it lowered to, and whether
// it denotes storage. Notices collected while generating this one
// expression are kept alongside it rather than pushed straight to the
// shared store, so a caller that ends up discarding a speculative
// generation attempt (e.g. while probing callee candidates) can discard
// its notices too.
type ExprComp struct {
	AstType     *identity.TypeInfo
	TargetType  TargetType
	TargetValue TargetValue
	LValueness  LValueness
	Notices     []notice.Notice
}

// NewExprComp builds an RValue ExprComp with no notices.
func NewExprComp(astType *identity.TypeInfo, targetType TargetType, value TargetValue) ExprComp {
	return ExprComp{AstType: astType, TargetType: targetType, TargetValue: value, LValueness: RValue}
}

// AsLValue returns e marked as an LValue.
func (e ExprComp) AsLValue() ExprComp {
	e.LValueness = LValue
	return e
}

// IsLValue reports whether e denotes a storage location.
func (e ExprComp) IsLValue() bool {
	return e.LValueness == LValue
}
