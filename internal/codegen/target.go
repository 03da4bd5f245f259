// Package codegen implements the code generator of spec.md §4.7: the
// ExprComp expression-computation protocol, callee resolution by lowest
// conversion cost, the reverse-order destruction stack, global constructor/
// destructor orchestration, control-flow lowering, and type generation.
//
// It never talks to LLVM, a register machine, or any other concrete
// backend directly. Every emission goes through the Target contract below
// (spec.md §4.8's generator contract, narrowed to what this package
// actually calls) so the same codegen logic drives whichever
// internal/targetgen backend the session picks — there is no teacher file
// that does this split (the retrieval pack ships no compiler backend at
// all), so the contract shape here is built straight from spec.md §4.8's
// own enumeration rather than adapted from an existing interface.
package codegen

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/notice"
)

// TargetType, TargetValue and Block are backend-owned opaque handles: a
// type descriptor, an SSA-ish value reference, and a basic block/label
// reference respectively. codegen never inspects them, only threads them
// through Target calls.
type (
	TargetType  = any
	TargetValue = any
	Block       = any
)

// Field describes one member of a generated struct type.
type Field struct {
	Name string
	Type TargetType
}

// Target is the subset of the generator contract (spec.md §4.8: type
// construction, module & function, basic blocks, instructions, constants,
// linkage) codegen needs to drive. internal/targetgen's backends
// implement it.
type Target interface {
	// Types
	VoidType() TargetType
	IntType(bits int, signed bool) TargetType
	FloatType(bits int) TargetType
	PointerType(to TargetType) TargetType
	ReferenceType(to TargetType) TargetType
	ArrayType(of TargetType, size int) TargetType
	StructType(name string, fields []Field) TargetType

	// Constants and storage
	ConstInt(t TargetType, value int64) TargetValue
	ConstFloat(t TargetType, value float64) TargetValue
	Alloca(t TargetType, name string) TargetValue
	Load(ptr TargetValue) TargetValue
	Store(ptr, value TargetValue)

	// Operations
	BinOp(op string, lhs, rhs TargetValue) TargetValue
	UnaryOp(op string, operand TargetValue) TargetValue
	Cast(v TargetValue, to TargetType) TargetValue
	Call(callee TargetValue, args []TargetValue) TargetValue
	FunctionRef(name string, fnType TargetType) TargetValue

	// Control flow
	NewBlock(label string) Block
	SetInsertPoint(b Block)
	Branch(cond TargetValue, thenBlock, elseBlock Block)
	Jump(to Block)
	Return(v TargetValue)
}

// locOf converts an astnode.Node's Location into the shape codegen's
// notices use.
func locOf(n *astnode.Node) notice.Location {
	return notice.Location{
		File: n.Loc.File, Line: n.Loc.Line, Col: n.Loc.Col,
		EndLine: n.Loc.EndLine, EndCol: n.Loc.EndCol,
	}
}
