package mutagens

import (
	"go/token"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		op   token.Token
		want Family
	}{
		{token.REM, FamilyArithmetic},
		{token.LEQ, FamilyComparison},
		{token.NEQ, FamilyComparison},
		{token.LOR, FamilyLogical},
		{token.AND, FamilyNone},
		{token.SHL, FamilyNone},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FamilyOf(tt.op))
		})
	}
}

func TestAlternatives(t *testing.T) {
	assert.Equal(t, []token.Token{token.LOR}, Alternatives(token.LAND))
	assert.Equal(t, []token.Token{token.LSS, token.GTR, token.LEQ, token.GEQ, token.NEQ}, Alternatives(token.EQL))
	assert.Len(t, Alternatives(token.XOR), 13)
	assert.NotContains(t, Alternatives(token.ADD), token.ADD)
	assert.Equal(t, []token.Token{token.ADD, token.MUL, token.QUO, token.REM}, Alternatives(token.SUB))
}

func TestFamilies(t *testing.T) {
	assert.Empty(t, families[FamilyNone])

	for _, family := range familyOrder {
		for _, op := range families[family] {
			assert.Equal(t, family, FamilyOf(op), op.String())
			assert.Len(t, Alternatives(op), len(families[family])-1, op.String())
		}
	}
}

func TestReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		got := Replacement(rng, token.LSS)
		assert.NotEqual(t, token.LSS, got)
		assert.Equal(t, FamilyComparison, FamilyOf(got))
	}
}

func TestFamilyString(t *testing.T) {
	assert.Equal(t, "arithmetic", FamilyArithmetic.String())
	assert.Equal(t, "logical", FamilyLogical.String())
	assert.Equal(t, "none", FamilyNone.String())
}
