package codegen

import (
	"fmt"
	"strconv"

	"github.com/alusus-go/corelang/internal/astnode"
)

// GenType lowers a type-node (spec.md §4.7's type codegen rules): integer
// and float by bit width, pointer/reference/array structurally over their
// content type, and UserType by recursively generating each member's type
// and delegating layout (field order, padding, alignment) to the target
// generator via StructType.
func (cg *Codegen) GenType(n *astnode.Node) (TargetType, error) {
	switch n.Kind {
	case astnode.IntegerType:
		return cg.Target.IntType(n.Bits, n.Signed), nil
	case astnode.FloatType:
		return cg.Target.FloatType(n.Bits), nil
	case astnode.VoidType:
		return cg.Target.VoidType(), nil
	case astnode.PointerType:
		content, err := cg.GenType(n.Content)
		if err != nil {
			return nil, err
		}
		return cg.Target.PointerType(content), nil
	case astnode.ReferenceType:
		content, err := cg.GenType(n.Content)
		if err != nil {
			return nil, err
		}
		return cg.Target.ReferenceType(content), nil
	case astnode.ArrayType:
		content, err := cg.GenType(n.Content)
		if err != nil {
			return nil, err
		}
		size, err := arraySize(n.Size)
		if err != nil {
			return nil, err
		}
		return cg.Target.ArrayType(content, size), nil
	case astnode.UserType:
		return cg.genUserType(n)
	default:
		return nil, fmt.Errorf("codegen: node kind %v is not a type", n.Kind)
	}
}

// arraySize returns 0 for an unsized array (n == nil), otherwise the
// integer literal n names.
func arraySize(n *astnode.Node) (int, error) {
	if n == nil {
		return 0, nil
	}
	if n.Kind != astnode.IntegerLiteral {
		return 0, fmt.Errorf("codegen: array size must be a constant integer, got %v", n.Kind)
	}
	size, err := strconv.Atoi(n.Text)
	if err != nil {
		return 0, fmt.Errorf("codegen: invalid array size %q: %w", n.Text, err)
	}
	return size, nil
}

// genUserType generates each Definition-kind member of n as a struct
// field, in declaration order, then hands the assembled field list to the
// target generator to lay out.
func (cg *Codegen) genUserType(n *astnode.Node) (TargetType, error) {
	var fields []Field
	for _, member := range n.Children {
		if member.Kind != astnode.Definition {
			continue
		}
		fieldType, err := cg.GenType(member.Target)
		if err != nil {
			return nil, fmt.Errorf("codegen: field %q: %w", member.Name, err)
		}
		fields = append(fields, Field{Name: member.Name, Type: fieldType})
	}
	return cg.Target.StructType(n.Name, fields), nil
}
