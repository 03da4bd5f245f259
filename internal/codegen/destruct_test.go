package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/codegen"
)

func TestDestructionStackUnwindsInReverseOrder(t *testing.T) {
	scope := astnode.NewBlock(astnode.Location{}, nil)
	d := codegen.NewDestructionStack()
	d.Push(scope, "a", nil)
	d.Push(scope, "b", nil)
	d.Push(scope, "c", nil)

	popped := d.UnwindScope(scope)
	var order []string
	for _, p := range popped {
		order = append(order, p.Value.(string))
	}
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestDestructionStackStopsAtOuterScope(t *testing.T) {
	outer := astnode.NewBlock(astnode.Location{}, nil)
	inner := astnode.NewBlock(astnode.Location{}, nil)
	d := codegen.NewDestructionStack()
	d.Push(outer, "outer-val", nil)
	d.Push(inner, "inner-val", nil)

	popped := d.UnwindScope(inner)
	assert.Len(t, popped, 1)
	assert.Equal(t, "inner-val", popped[0].Value)

	rest := d.UnwindScope(outer)
	assert.Len(t, rest, 1)
	assert.Equal(t, "outer-val", rest[0].Value)
}

func TestDestructionStackCancelSuppressesMovedValue(t *testing.T) {
	scope := astnode.NewBlock(astnode.Location{}, nil)
	d := codegen.NewDestructionStack()
	d.Push(scope, "moved", nil)
	d.Push(scope, "kept", nil)

	assert.True(t, d.Cancel("moved"))
	popped := d.UnwindScope(scope)
	assert.Len(t, popped, 1)
	assert.Equal(t, "kept", popped[0].Value)
}

func TestDestructionStackUnwindThroughMultipleScopes(t *testing.T) {
	funcScope := astnode.NewBlock(astnode.Location{}, nil)
	loopScope := astnode.NewBlock(astnode.Location{}, nil)
	d := codegen.NewDestructionStack()
	d.Push(funcScope, "f", nil)
	d.Push(loopScope, "l", nil)

	popped := d.UnwindThrough([]*astnode.Node{funcScope, loopScope})
	var order []string
	for _, p := range popped {
		order = append(order, p.Value.(string))
	}
	assert.Equal(t, []string{"l", "f"}, order)
}
