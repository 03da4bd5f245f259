package treewalk

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/codegen"
	"github.com/alusus-go/corelang/internal/targetgen"
)

// Backend builds treewalk IR in response to codegen/targetgen calls and,
// via Run, interprets it. One Backend generates (and can later run) one
// module at a time.
type Backend struct {
	module  *Module
	curFunc *Function
	curBlk  *Block

	externals map[string]*Function // FunctionRef'd names with no BeginFunction body (bridges)
	byName    map[string]*Function
}

var _ targetgen.Generator = (*Backend)(nil)

// New returns a ready-to-use Backend.
func New() *Backend {
	return &Backend{externals: map[string]*Function{}, byName: map[string]*Function{}}
}

// Module returns the module built so far (valid any time after
// BeginModule; still growing until EndModule).
func (b *Backend) Module() *Module { return b.module }

func (b *Backend) BeginModule(name string) {
	b.module = &Module{Name: name}
}

func (b *Backend) EndModule() {}

func (b *Backend) BeginFunction(name string, paramTypes []codegen.TargetType, retType codegen.TargetType) codegen.TargetValue {
	fn := &Function{Name: name, RetType: asType(retType)}
	for _, pt := range paramTypes {
		fn.ParamTypes = append(fn.ParamTypes, asType(pt))
	}
	fn.numRegs = len(fn.ParamTypes) // regs [0, len) are the incoming arguments
	if b.module != nil {
		b.module.Functions = append(b.module.Functions, fn)
	}
	b.byName[name] = fn
	b.curFunc = fn
	fnType := &Type{Kind: KindFunction, Params: fn.ParamTypes, Ret: fn.RetType}
	return constFunc(fnType, fn)
}

// Param returns the Value standing for the i'th parameter of the function
// currently being generated (valid between BeginFunction and EndFunction).
func (b *Backend) Param(i int) codegen.TargetValue {
	return regValue(b.curFunc.ParamTypes[i], reg(i))
}

func (b *Backend) EndFunction() {
	b.curFunc = nil
	b.curBlk = nil
}

func (b *Backend) SetLinkage(fn codegen.TargetValue, linkage targetgen.Linkage) {
	v := asValue(fn)
	if v.fn != nil {
		v.fn.Linkage = int(linkage)
	}
}

// ---- codegen.Target: types ----

func (b *Backend) VoidType() codegen.TargetType { return &Type{Kind: KindVoid} }
func (b *Backend) IntType(bits int, signed bool) codegen.TargetType {
	return &Type{Kind: KindInt, Bits: bits, Signed: signed}
}
func (b *Backend) FloatType(bits int) codegen.TargetType { return &Type{Kind: KindFloat, Bits: bits} }
func (b *Backend) PointerType(to codegen.TargetType) codegen.TargetType {
	return &Type{Kind: KindPointer, Elem: asType(to)}
}
func (b *Backend) ReferenceType(to codegen.TargetType) codegen.TargetType {
	return &Type{Kind: KindReference, Elem: asType(to)}
}
func (b *Backend) ArrayType(of codegen.TargetType, size int) codegen.TargetType {
	return &Type{Kind: KindArray, Elem: asType(of), Len: size}
}
func (b *Backend) StructType(name string, fields []codegen.Field) codegen.TargetType {
	ft := make([]FieldType, len(fields))
	for i, f := range fields {
		ft[i] = FieldType{Name: f.Name, Type: asType(f.Type)}
	}
	return &Type{Kind: KindStruct, Name: name, Fields: ft}
}

// ---- codegen.Target: constants ----

func (b *Backend) ConstInt(t codegen.TargetType, value int64) codegen.TargetValue {
	return constInt(asType(t), value)
}
func (b *Backend) ConstFloat(t codegen.TargetType, value float64) codegen.TargetValue {
	return constFloat(asType(t), value)
}

// ---- codegen.Target: storage/instructions ----

func (b *Backend) Alloca(t codegen.TargetType, name string) codegen.TargetValue {
	typ := asType(t)
	dst := b.curFunc.newReg()
	b.emit(instr{op: opAlloca, dst: dst, typ: typ, str: name})
	return regValue(&Type{Kind: KindPointer, Elem: typ}, dst)
}

func (b *Backend) Load(ptr codegen.TargetValue) codegen.TargetValue {
	p := asValue(ptr)
	dst := b.curFunc.newReg()
	b.emit(instr{op: opLoad, dst: dst, a: p})
	return regValue(p.Type.Elem, dst)
}

func (b *Backend) Store(ptr, value codegen.TargetValue) {
	b.emit(instr{op: opStore, a: asValue(ptr), b: asValue(value)})
}

func (b *Backend) BinOp(op string, lhs, rhs codegen.TargetValue) codegen.TargetValue {
	l := asValue(lhs)
	dst := b.curFunc.newReg()
	b.emit(instr{op: opBinOp, dst: dst, a: l, b: asValue(rhs), str: op})
	return regValue(l.Type, dst)
}

func (b *Backend) UnaryOp(op string, operand codegen.TargetValue) codegen.TargetValue {
	o := asValue(operand)
	dst := b.curFunc.newReg()
	b.emit(instr{op: opUnaryOp, dst: dst, a: o, str: op})
	return regValue(o.Type, dst)
}

func (b *Backend) Cast(v codegen.TargetValue, to codegen.TargetType) codegen.TargetValue {
	typ := asType(to)
	dst := b.curFunc.newReg()
	b.emit(instr{op: opCast, dst: dst, a: asValue(v), typ: typ})
	return regValue(typ, dst)
}

func (b *Backend) Call(callee codegen.TargetValue, args []codegen.TargetValue) codegen.TargetValue {
	c := asValue(callee)
	dst := b.curFunc.newReg()
	retType := (*Type)(nil)
	if c.Type != nil {
		retType = c.Type.Ret
	}
	b.emit(instr{op: opCall, dst: dst, a: c, args: asValues(args)})
	return regValue(retType, dst)
}

func (b *Backend) FunctionRef(name string, fnType codegen.TargetType) codegen.TargetValue {
	if fn, ok := b.byName[name]; ok {
		return constFunc(asType(fnType), fn)
	}
	fn := &Function{Name: name}
	b.externals[name] = fn
	b.byName[name] = fn
	return constFunc(asType(fnType), fn)
}

// ---- codegen.Target: basic blocks ----

func (b *Backend) NewBlock(label string) codegen.Block {
	blk := &Block{Label: fmt.Sprintf("%s.%d", label, len(b.curFunc.Blocks)), fn: b.curFunc}
	b.curFunc.Blocks = append(b.curFunc.Blocks, blk)
	return blk
}

func (b *Backend) SetInsertPoint(blk codegen.Block) {
	b.curBlk = blk.(*Block)
}

func (b *Backend) Branch(cond codegen.TargetValue, thenBlock, elseBlock codegen.Block) {
	b.curBlk.term = terminator{kind: termBranch, cond: asValue(cond), thenB: thenBlock.(*Block), elseB: elseBlock.(*Block)}
}

func (b *Backend) Jump(to codegen.Block) {
	b.curBlk.term = terminator{kind: termJump, thenB: to.(*Block)}
}

func (b *Backend) Return(v codegen.TargetValue) {
	if v == nil {
		b.curBlk.term = terminator{kind: termReturn}
		return
	}
	b.curBlk.term = terminator{kind: termReturn, ret: asValue(v), hasRet: true}
}

func (b *Backend) emit(i instr) {
	b.curBlk.instrs = append(b.curBlk.instrs, i)
}
