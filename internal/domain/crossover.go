package domain

import (
	"context"
	"log/slog"
	"math/rand"

	"genfix.dev/pkg/genfix/internal/adapter"
	"genfix.dev/pkg/genfix/internal/domain/program"
	m "genfix.dev/pkg/genfix/internal/model"
)

// DefaultCrossoverAttempts bounds the search for compatible statements.
const DefaultCrossoverAttempts = 100

// Crossover combines two parents into two children. Each child inherits the
// strategies of the parent it starts from.
type Crossover interface {
	Cross(ctx context.Context, rng *rand.Rand, a, b *Candidate) (*Candidate, *Candidate, error)
}

// NewCrossover returns the crossover named by kind.
func NewCrossover(kind string, attempts int) Crossover {
	if kind == m.CrossoverAST {
		return NewStructuralCrossover(attempts)
	}

	return NewRawCrossover()
}

// RawCrossover splices non-blank lines at a single cut point.
type RawCrossover struct{}

// NewRawCrossover builds a RawCrossover.
func NewRawCrossover() *RawCrossover {
	return &RawCrossover{}
}

// Cross implements Crossover.
func (rc *RawCrossover) Cross(ctx context.Context, rng *rand.Rand, a, b *Candidate) (*Candidate, *Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	left, right := nonBlank(a.Lines()), nonBlank(b.Lines())

	shortest := min(len(left), len(right))
	if shortest == 0 {
		return a, b, nil
	}

	cut := rng.Intn(shortest)

	childA := make([]string, 0, cut+len(right)-cut)
	childA = append(childA, left[:cut]...)
	childA = append(childA, right[cut:]...)

	childB := make([]string, 0, cut+len(left)-cut)
	childB = append(childB, right[:cut]...)
	childB = append(childB, left[cut:]...)

	return a.Derive(childA), b.Derive(childB), nil
}

// StructuralCrossover exchanges one statement between the parents. Both
// statements must sit in the same kind of enclosing node.
type StructuralCrossover struct {
	attempts int
}

// NewStructuralCrossover builds a StructuralCrossover.
func NewStructuralCrossover(attempts int) *StructuralCrossover {
	if attempts <= 0 {
		attempts = DefaultCrossoverAttempts
	}

	return &StructuralCrossover{attempts: attempts}
}

// Cross implements Crossover. Parse failures and exhausted attempts return
// the parents unchanged.
func (sc *StructuralCrossover) Cross(ctx context.Context, rng *rand.Rand, a, b *Candidate) (*Candidate, *Candidate, error) {
	fileA, err := program.Parse(ctx, a.Source())
	if err != nil {
		return sc.fallback(ctx, a, b, err)
	}

	fileB, err := program.Parse(ctx, b.Source())
	if err != nil {
		return sc.fallback(ctx, a, b, err)
	}

	stmtsA, stmtsB := fileA.Statements(), fileB.Statements()
	if len(stmtsA) == 0 || len(stmtsB) == 0 {
		return a, b, nil
	}

	for attempt := 0; attempt < sc.attempts; attempt++ {
		x := stmtsA[rng.Intn(len(stmtsA))]
		y := stmtsB[rng.Intn(len(stmtsB))]

		if x.Parent != y.Parent {
			continue
		}

		childA := program.Format(fileA.ReplaceSlot(x, fileB.Text(y)))
		childB := program.Format(fileB.ReplaceSlot(y, fileA.Text(x)))

		return a.Derive(adapter.SplitLines(childA)), b.Derive(adapter.SplitLines(childB)), nil
	}

	slog.Debug("No compatible statements for crossover", "program", a.Identity().Name, "attempts", sc.attempts)

	return a, b, nil
}

func (sc *StructuralCrossover) fallback(ctx context.Context, a, b *Candidate, err error) (*Candidate, *Candidate, error) {
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	slog.Debug("Crossover parent does not parse", "program", a.Identity().Name, "error", err)

	return a, b, nil
}
