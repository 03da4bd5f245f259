package treewalk

import (
	"fmt"
	"math"
)

// frame holds one function activation's register values and, separately,
// the storage each Alloca'd pointer refers to (a pointer Value's reg
// holds an index into allocas, not a Go pointer, so Load/Store work the
// same whether the pointer came from this frame's own Alloca or was
// passed in from a caller).
type frame struct {
	regs    []Value
	allocas []Value // allocas[i] is the current content of the i'th Alloca in this frame
}

// LookupSymbol resolves name to its Function, if one was generated via
// BeginFunction or referenced via FunctionRef. This is treewalk's
// "jitLookupSymbol": resolving a name to something Run can execute,
// performed fresh against whatever's been generated so far rather than
// against a separately compiled artifact.
func (b *Backend) LookupSymbol(name string) (*Function, bool) {
	fn, ok := b.byName[name]
	return fn, ok
}

// Run interprets fn starting at its entry block, following jumps and
// branches until a Return terminator is reached. It returns an error if fn
// has no body (an external/bridged declaration with no blocks); callers
// special-case those via their own call-site dispatch, same as any
// interpreter that can't run code it was never given.
func (b *Backend) Run(fn *Function, args []Value) (Value, error) {
	if len(fn.Blocks) == 0 {
		return Value{}, fmt.Errorf("treewalk: %q has no generated body to run", fn.Name)
	}
	fr := &frame{regs: make([]Value, fn.numRegs)}
	for i, a := range args {
		if i < len(fr.regs) {
			fr.regs[i] = a
		}
	}

	blk := fn.Blocks[0]
	for {
		for _, ins := range blk.instrs {
			if err := b.exec(fr, ins); err != nil {
				return Value{}, err
			}
		}
		switch blk.term.kind {
		case termJump:
			blk = blk.term.thenB
		case termBranch:
			if truthy(fr.resolve(blk.term.cond)) {
				blk = blk.term.thenB
			} else {
				blk = blk.term.elseB
			}
		case termReturn:
			if !blk.term.hasRet {
				return Value{}, nil
			}
			return fr.resolve(blk.term.ret), nil
		default:
			return Value{}, fmt.Errorf("treewalk: block %q has no terminator", blk.Label)
		}
	}
}

// resolve returns v's concrete value: itself if v is a constant, or the
// frame register it names otherwise.
func (fr *frame) resolve(v Value) Value {
	if v.isConst || int(v.reg) >= len(fr.regs) {
		return v
	}
	return fr.regs[v.reg]
}

func (b *Backend) exec(fr *frame, ins instr) error {
	switch ins.op {
	case opAlloca:
		idx := len(fr.allocas)
		fr.allocas = append(fr.allocas, zeroValue(ins.typ))
		fr.regs[ins.dst] = Value{Type: &Type{Kind: KindPointer, Elem: ins.typ}, isConst: true, constI64: int64(idx)}
	case opLoad:
		ptr := fr.resolve(ins.a)
		fr.regs[ins.dst] = fr.allocas[ptr.constI64]
	case opStore:
		ptr := fr.resolve(ins.a)
		fr.allocas[ptr.constI64] = fr.resolve(ins.b)
	case opBinOp:
		fr.regs[ins.dst] = binOp(ins.str, fr.resolve(ins.a), fr.resolve(ins.b))
	case opUnaryOp:
		fr.regs[ins.dst] = unaryOp(ins.str, fr.resolve(ins.a))
	case opCast:
		fr.regs[ins.dst] = cast(fr.resolve(ins.a), ins.typ)
	case opCall:
		callee := fr.resolve(ins.a)
		if callee.fn == nil {
			return fmt.Errorf("treewalk: call target is not a function value")
		}
		args := make([]Value, len(ins.args))
		for i, a := range ins.args {
			args[i] = fr.resolve(a)
		}
		result, err := b.Run(callee.fn, args)
		if err != nil {
			return err
		}
		fr.regs[ins.dst] = result
	default:
		return fmt.Errorf("treewalk: unknown instruction op %d", ins.op)
	}
	return nil
}

func zeroValue(t *Type) Value {
	return Value{Type: t, isConst: true}
}

func truthy(v Value) bool {
	if v.Type != nil && v.Type.Kind == KindFloat {
		return v.constF64 != 0
	}
	return v.constI64 != 0
}

func isFloat(v Value) bool { return v.Type != nil && v.Type.Kind == KindFloat }

func binOp(op string, l, r Value) Value {
	if isFloat(l) || isFloat(r) {
		a, b := asF64(l), asF64(r)
		switch op {
		case "+":
			return constFloat(l.Type, a+b)
		case "-":
			return constFloat(l.Type, a-b)
		case "*":
			return constFloat(l.Type, a*b)
		case "/":
			return constFloat(l.Type, a/b)
		case "<":
			return boolResult(a < b)
		case "<=":
			return boolResult(a <= b)
		case ">":
			return boolResult(a > b)
		case ">=":
			return boolResult(a >= b)
		case "==":
			return boolResult(a == b)
		case "!=":
			return boolResult(a != b)
		}
		panic("treewalk: unknown float binop " + op)
	}
	a, b := l.constI64, r.constI64
	switch op {
	case "+":
		return constInt(l.Type, a+b)
	case "-":
		return constInt(l.Type, a-b)
	case "*":
		return constInt(l.Type, a*b)
	case "/":
		return constInt(l.Type, a/b)
	case "%":
		return constInt(l.Type, a%b)
	case "<":
		return boolResult(a < b)
	case "<=":
		return boolResult(a <= b)
	case ">":
		return boolResult(a > b)
	case ">=":
		return boolResult(a >= b)
	case "==":
		return boolResult(a == b)
	case "!=":
		return boolResult(a != b)
	case "&":
		return constInt(l.Type, a&b)
	case "|":
		return constInt(l.Type, a|b)
	case "^":
		return constInt(l.Type, a^b)
	}
	panic("treewalk: unknown integer binop " + op)
}

func unaryOp(op string, v Value) Value {
	if isFloat(v) {
		switch op {
		case "-":
			return constFloat(v.Type, -v.constF64)
		}
	}
	switch op {
	case "-":
		return constInt(v.Type, -v.constI64)
	case "!":
		return boolResult(v.constI64 == 0)
	case "~":
		return constInt(v.Type, ^v.constI64)
	}
	panic("treewalk: unknown unary op " + op)
}

func cast(v Value, to *Type) Value {
	if to.Kind == KindFloat {
		if isFloat(v) {
			return constFloat(to, v.constF64)
		}
		return constFloat(to, float64(v.constI64))
	}
	if isFloat(v) {
		return constInt(to, int64(math.Trunc(v.constF64)))
	}
	return constInt(to, v.constI64)
}

func asF64(v Value) float64 {
	if isFloat(v) {
		return v.constF64
	}
	return float64(v.constI64)
}

func boolResult(b bool) Value {
	i := int64(0)
	if b {
		i = 1
	}
	return constInt(&Type{Kind: KindInt, Bits: 1, Signed: false}, i)
}
