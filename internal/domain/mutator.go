package domain

import (
	"context"
	"log/slog"
	"math/rand"

	"genfix.dev/pkg/genfix/internal/adapter"
	"genfix.dev/pkg/genfix/internal/domain/program"
	m "genfix.dev/pkg/genfix/internal/model"
)

// Mutator derives one mutated candidate. When no mutation is possible the
// input candidate is returned unchanged without error.
type Mutator interface {
	Mutate(ctx context.Context, rng *rand.Rand, c *Candidate) (*Candidate, error)
}

// Statement edit kinds, in the order they are drawn.
const (
	editInsert = iota
	editSwap
	editDelete
)

// ClassicMutator applies insert, swap or delete at a suspicious statement.
type ClassicMutator struct {
	crossType bool
}

// NewClassicMutator builds a ClassicMutator. With crossType donors may come
// from any type in the file, otherwise only from the target's own type.
func NewClassicMutator(crossType bool) *ClassicMutator {
	return &ClassicMutator{crossType: crossType}
}

// NewMutator returns the mutator named by kind.
func NewMutator(kind string, crossType bool) Mutator {
	classic := NewClassicMutator(crossType)
	if kind == m.MutatorBinary {
		return NewBinaryOperatorMutator(classic)
	}

	return classic
}

// Mutate picks a target statement weighted by suspiciousness and edits it.
func (cm *ClassicMutator) Mutate(ctx context.Context, rng *rand.Rand, c *Candidate) (*Candidate, error) {
	file, scores, err := prepareMutation(ctx, c)
	if err != nil || file == nil {
		return c, err
	}

	targets := statementScores(file, scores)
	if len(targets) == 0 {
		slog.Debug("No suspicious statement to mutate", "program", c.Identity().Name)
		return c, nil
	}

	return cm.mutateAt(ctx, rng, c, file, targets), nil
}

func (cm *ClassicMutator) mutateAt(ctx context.Context, rng *rand.Rand, c *Candidate, file *program.File, targets map[int]float64) *Candidate {
	line, _ := WeightedChoice(rng, targets)

	slots := file.SlotsAt(line)
	target := slots[rng.Intn(len(slots))]

	choices := 3
	if target.Placeholder {
		choices = 2
	}

	edit := rng.Intn(choices)

	var edited []byte

	switch edit {
	case editDelete:
		edited = file.Delete(target)
	default:
		donors := file.Donors(target, cm.crossType)
		if len(donors) == 0 {
			slog.Debug("No donor statement available", "program", c.Identity().Name, "line", line)
			return c
		}

		donor := donors[rng.Intn(len(donors))]
		if edit == editInsert {
			edited = file.Insert(target, donor)
		} else {
			edited = file.Swap(target, donor)
		}
	}

	slog.Debug("Mutated candidate", "program", c.Identity().Name, "line", line, "edit", editName(edit))
	recordMutation(ctx, editName(edit))

	return c.Derive(adapter.SplitLines(program.Format(edited)))
}

// prepareMutation parses a compilable candidate and scores it. A nil file
// with a nil error means the candidate cannot be mutated.
func prepareMutation(ctx context.Context, c *Candidate) (*program.File, m.Suspiciousness, error) {
	ok, err := c.IsCompilable(ctx)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, nil, nil
	}

	file, err := program.Parse(ctx, c.Source())
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		slog.Debug("Candidate does not parse", "program", c.Identity().Name, "error", err)

		return nil, nil, nil
	}

	scores, err := c.Suspiciousness(ctx)
	if err != nil {
		return nil, nil, err
	}

	return file, scores, nil
}

// statementScores keeps the scores of lines where a statement slot starts.
func statementScores(file *program.File, scores m.Suspiciousness) map[int]float64 {
	starts := file.StartLines()
	out := make(map[int]float64, len(scores))

	for line, score := range scores {
		if starts[line] && score > 0 {
			out[line] = score
		}
	}

	return out
}

func editName(edit int) string {
	switch edit {
	case editInsert:
		return "insert"
	case editSwap:
		return "swap"
	default:
		return "delete"
	}
}
