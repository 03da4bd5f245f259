package codegen_test

import (
	"fmt"

	"github.com/alusus-go/corelang/internal/codegen"
)

// fakeTarget is a minimal codegen.Target double: it never produces real
// machine code, just records what was asked of it (in call order) and
// returns deterministic, inspectable stand-ins for every handle so tests
// can assert on the shape of what codegen emitted.
type fakeTarget struct {
	log          []string
	blockCounter int
}

var _ codegen.Target = (*fakeTarget)(nil)

func (f *fakeTarget) VoidType() any { return "void" }
func (f *fakeTarget) IntType(bits int, signed bool) any {
	return fmt.Sprintf("i%d-signed=%v", bits, signed)
}
func (f *fakeTarget) FloatType(bits int) any { return fmt.Sprintf("f%d", bits) }
func (f *fakeTarget) PointerType(to any) any { return fmt.Sprintf("*%v", to) }
func (f *fakeTarget) ReferenceType(to any) any { return fmt.Sprintf("&%v", to) }
func (f *fakeTarget) ArrayType(of any, size int) any { return fmt.Sprintf("[%d]%v", size, of) }
func (f *fakeTarget) StructType(name string, fields []codegen.Field) any {
	return fmt.Sprintf("struct %s%v", name, fields)
}

func (f *fakeTarget) ConstInt(t any, value int64) any     { return fmt.Sprintf("const(%v,%d)", t, value) }
func (f *fakeTarget) ConstFloat(t any, value float64) any { return fmt.Sprintf("const(%v,%f)", t, value) }
func (f *fakeTarget) Alloca(t any, name string) any       { return fmt.Sprintf("alloca(%v,%s)", t, name) }
func (f *fakeTarget) Load(ptr any) any                    { return fmt.Sprintf("load(%v)", ptr) }
func (f *fakeTarget) Store(ptr, value any) {
	f.log = append(f.log, fmt.Sprintf("store %v -> %v", value, ptr))
}

func (f *fakeTarget) BinOp(op string, lhs, rhs any) any  { return fmt.Sprintf("(%v %s %v)", lhs, op, rhs) }
func (f *fakeTarget) UnaryOp(op string, operand any) any { return fmt.Sprintf("(%s%v)", op, operand) }
func (f *fakeTarget) Cast(v any, to any) any             { return fmt.Sprintf("cast(%v->%v)", v, to) }
func (f *fakeTarget) Call(callee any, args []any) any {
	f.log = append(f.log, fmt.Sprintf("call %v %v", callee, args))
	return fmt.Sprintf("result-of(%v)", callee)
}
func (f *fakeTarget) FunctionRef(name string, fnType any) any { return "fn:" + name }

func (f *fakeTarget) NewBlock(label string) any {
	f.blockCounter++
	return fmt.Sprintf("%s#%d", label, f.blockCounter)
}
func (f *fakeTarget) SetInsertPoint(b any) { f.log = append(f.log, fmt.Sprintf("insert %v", b)) }
func (f *fakeTarget) Branch(cond any, thenBlock, elseBlock any) {
	f.log = append(f.log, fmt.Sprintf("branch %v ? %v : %v", cond, thenBlock, elseBlock))
}
func (f *fakeTarget) Jump(to any)  { f.log = append(f.log, fmt.Sprintf("jump %v", to)) }
func (f *fakeTarget) Return(v any) { f.log = append(f.log, fmt.Sprintf("return %v", v)) }
