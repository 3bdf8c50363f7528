package domain

import (
	"context"
	"log/slog"
	"math/rand"

	"genfix.dev/pkg/genfix/internal/adapter"
	"genfix.dev/pkg/genfix/internal/domain/mutagens"
	"genfix.dev/pkg/genfix/internal/domain/program"
)

// BinaryOperatorMutator replaces the operator of a suspicious binary
// expression one time in four and delegates to the classic edits otherwise.
type BinaryOperatorMutator struct {
	classic *ClassicMutator
}

// NewBinaryOperatorMutator wraps classic.
func NewBinaryOperatorMutator(classic *ClassicMutator) *BinaryOperatorMutator {
	return &BinaryOperatorMutator{classic: classic}
}

// Mutate implements Mutator.
func (bm *BinaryOperatorMutator) Mutate(ctx context.Context, rng *rand.Rand, c *Candidate) (*Candidate, error) {
	file, scores, err := prepareMutation(ctx, c)
	if err != nil || file == nil {
		return c, err
	}

	var suspicious []program.BinaryOp

	for _, op := range file.BinaryOps() {
		if scores[op.Line] > 0 {
			suspicious = append(suspicious, op)
		}
	}

	choices := 4
	if len(suspicious) == 0 {
		choices = 3
	}

	if rng.Intn(choices) < 3 {
		targets := statementScores(file, scores)
		if len(targets) == 0 {
			return c, nil
		}

		return bm.classic.mutateAt(ctx, rng, c, file, targets), nil
	}

	op := suspicious[rng.Intn(len(suspicious))]
	replacement := mutagens.Replacement(rng, op.Op)

	slog.Debug("Replaced operator", "program", c.Identity().Name, "line", op.Line,
		"family", mutagens.FamilyOf(op.Op), "from", op.Op, "to", replacement)
	recordMutation(ctx, "operator")

	return c.Derive(adapter.SplitLines(file.ReplaceOperator(op, replacement))), nil
}
