package codegen

import (
	"fmt"
	"math"

	"github.com/alusus-go/corelang/internal/astnode"
	"github.com/alusus-go/corelang/internal/identity"
	"github.com/alusus-go/corelang/internal/notice"
)

// Notice codes for callee resolution (spec.md §4.7).
const (
	NoticeNoMatchingCallee    notice.Code = "codegen.no-matching-callee"
	NoticeMultipleCalleeMatch notice.Code = "codegen.multiple-callee-match"
)

// Per-argument conversion costs, lowest wins (spec.md §4.7's cost ladder).
// A candidate's total cost is the sum of its per-argument costs plus a
// flat surcharge for being a template specialization, so an exact-match
// non-template candidate always outranks a specialization that also
// matches exactly, and any real conversion outranks padding out a
// variadic tail.
const (
	costExact                  = 0
	costPromotion              = 1
	costImplicitCast           = 2
	costTemplateSpecialization = 3
	costVariadicTail           = 4
	costNoMatch                = math.MaxInt
)

// Conversions supplies the type-compatibility predicates callee resolution
// needs but doesn't own: promotion (e.g. int32 to int64) and implicit cast
// (e.g. int to float) are language-level rules, not codegen's to invent.
type Conversions interface {
	Promotable(from, to *identity.TypeInfo) bool
	ImplicitlyCastable(from, to *identity.TypeInfo) bool
}

// Candidate is one overload being considered for a call.
type Candidate struct {
	Func                     *astnode.Node // the Function (or Bridge-to-function) node
	ParamTypes               []*identity.TypeInfo
	IsTemplateSpecialization bool
	VariadicFrom             int // index the variadic tail starts at, -1 if not variadic
}

// ResolveCallee picks the single best candidate for argTypes, by total
// conversion cost. Ties and complete misses are reported via the notice
// codes above rather than guessed at silently.
func ResolveCallee(loc notice.Location, candidates []Candidate, argTypes []*identity.TypeInfo, conv Conversions) (*Candidate, []notice.Notice) {
	best := costNoMatch
	var winners []*Candidate
	for i := range candidates {
		c := &candidates[i]
		cost := scoreCandidate(*c, argTypes, conv)
		if cost == costNoMatch {
			continue
		}
		switch {
		case cost < best:
			best = cost
			winners = []*Candidate{c}
		case cost == best:
			winners = append(winners, c)
		}
	}

	switch len(winners) {
	case 0:
		return nil, []notice.Notice{{
			Severity: notice.Error, Code: NoticeNoMatchingCallee, Location: loc,
			Message: "no callee candidate accepts the given argument types",
		}}
	case 1:
		return winners[0], nil
	default:
		return nil, []notice.Notice{{
			Severity: notice.Error, Code: NoticeMultipleCalleeMatch, Location: loc,
			Message: fmt.Sprintf("%d callee candidates match equally well", len(winners)),
		}}
	}
}

func scoreCandidate(c Candidate, argTypes []*identity.TypeInfo, conv Conversions) int {
	if len(argTypes) < len(c.ParamTypes) {
		return costNoMatch
	}
	cost := 0
	for i, at := range argTypes {
		switch {
		case i < len(c.ParamTypes):
			pc := paramCost(at, c.ParamTypes[i], conv)
			if pc == costNoMatch {
				return costNoMatch
			}
			cost += pc
		case c.VariadicFrom >= 0 && i >= c.VariadicFrom:
			cost += costVariadicTail
		default:
			return costNoMatch
		}
	}
	if c.IsTemplateSpecialization {
		cost += costTemplateSpecialization
	}
	return cost
}

func paramCost(from, to *identity.TypeInfo, conv Conversions) int {
	if from == to || (to != nil && from != nil && from.IsA(to)) {
		return costExact
	}
	if conv != nil && conv.Promotable(from, to) {
		return costPromotion
	}
	if conv != nil && conv.ImplicitlyCastable(from, to) {
		return costImplicitCast
	}
	return costNoMatch
}
