package handler

import (
	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/parser"
)

// Infix builds a parser.Handler for a term shaped as (lhs, operator, rhs) —
// three children — emitting an InfixOperator node (spec.md §4.4).
func Infix() parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != 3 {
			return errWrongArity("infix", 3, len(lvl.Children))
		}
		lhs, op, rhs := lvl.Children[0], lvl.Children[1], lvl.Children[2]
		lvl.Data.Kind = astnode.InfixOperator
		lvl.Data.Op = op.Name
		lvl.Data.Lhs = lhs
		lvl.Data.Rhs = rhs
		lvl.Data.Children = nil
		lhs.Parent, rhs.Parent = lvl.Data, lvl.Data
		return nil
	}
}

// Prefix builds a parser.Handler for a term shaped as (operator, operand) —
// two children — emitting a PrefixOperator node.
func Prefix() parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != 2 {
			return errWrongArity("prefix", 2, len(lvl.Children))
		}
		op, operand := lvl.Children[0], lvl.Children[1]
		lvl.Data.Kind = astnode.PrefixOperator
		lvl.Data.Op = op.Name
		lvl.Data.Operand = operand
		lvl.Data.Children = nil
		operand.Parent = lvl.Data
		return nil
	}
}

// Postfix builds a parser.Handler for a term shaped as (operand, operator)
// — two children — emitting a PostfixOperator node.
func Postfix() parser.Handler {
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != 2 {
			return errWrongArity("postfix", 2, len(lvl.Children))
		}
		operand, op := lvl.Children[0], lvl.Children[1]
		lvl.Data.Kind = astnode.PostfixOperator
		lvl.Data.Op = op.Name
		lvl.Data.Operand = operand
		lvl.Data.Children = nil
		operand.Parent = lvl.Data
		return nil
	}
}

// Outfix builds a parser.Handler for a bracket pair wrapping a body — three
// children (open bracket, body, close bracket) — emitting an
// OutfixOperator node. When withBody is false the term has no middle child
// (an empty bracket pair, e.g. "()"); Outfix(false) expects exactly the two
// bracket children and leaves Body nil.
func Outfix(withBody bool) parser.Handler {
	want := 3
	if !withBody {
		want = 2
	}
	return func(st *parser.State, lvl parser.CompletedLevel) error {
		if len(lvl.Children) != want {
			return errWrongArity("outfix", want, len(lvl.Children))
		}
		open := lvl.Children[0]
		closeBracket := lvl.Children[want-1]
		var body *astnode.Node
		if withBody {
			body = lvl.Children[1]
		}
		lvl.Data.Kind = astnode.OutfixOperator
		lvl.Data.OpenBracket = open.Name
		lvl.Data.CloseBracket = closeBracket.Name
		lvl.Data.Body = body
		lvl.Data.Children = nil
		if body != nil {
			body.Parent = lvl.Data
		}
		return nil
	}
}
