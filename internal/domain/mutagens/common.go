// Package mutagens holds the operator families used when rewriting binary
// expressions. An operator is only ever replaced by another member of its
// own family; operators outside every family draw from the union.
package mutagens

import (
	"go/token"
	"math/rand"
)

// Family groups interchangeable binary operators.
type Family int

const (
	// FamilyNone marks operators that belong to no family (bitwise, shifts).
	FamilyNone Family = iota
	FamilyArithmetic
	FamilyComparison
	FamilyLogical
)

// families lists the members of each family in replacement order.
var families = map[Family][]token.Token{
	FamilyArithmetic: {token.ADD, token.SUB, token.MUL, token.QUO, token.REM},
	FamilyComparison: {token.LSS, token.GTR, token.LEQ, token.GEQ, token.EQL, token.NEQ},
	FamilyLogical:    {token.LAND, token.LOR},
}

// familyOrder fixes the order of the union used for unknown operators.
var familyOrder = []Family{FamilyArithmetic, FamilyComparison, FamilyLogical}

func (f Family) String() string {
	switch f {
	case FamilyArithmetic:
		return "arithmetic"
	case FamilyComparison:
		return "comparison"
	case FamilyLogical:
		return "logical"
	default:
		return "none"
	}
}

// FamilyOf returns the family op belongs to.
func FamilyOf(op token.Token) Family {
	for _, family := range familyOrder {
		for _, member := range families[family] {
			if member == op {
				return family
			}
		}
	}

	return FamilyNone
}

// Alternatives lists the operators op may be replaced with.
func Alternatives(op token.Token) []token.Token {
	family := FamilyOf(op)
	if family != FamilyNone {
		return without(families[family], op)
	}

	var all []token.Token
	for _, f := range familyOrder {
		all = append(all, families[f]...)
	}

	return without(all, op)
}

// Replacement draws one alternative for op.
func Replacement(rng *rand.Rand, op token.Token) token.Token {
	alts := Alternatives(op)

	return alts[rng.Intn(len(alts))]
}

func without(ops []token.Token, original token.Token) []token.Token {
	alternatives := make([]token.Token, 0, len(ops))

	for _, op := range ops {
		if op != original {
			alternatives = append(alternatives, op)
		}
	}

	return alternatives
}
