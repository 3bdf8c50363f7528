package domain

import (
	"context"
	"sync"

	m "genfix.dev/pkg/genfix/internal/model"
)

// Fitness scores candidates against a fixed baseline.
type Fitness interface {
	Score(ctx context.Context, c *Candidate) (float64, error)
	IsMax(ctx context.Context, c *Candidate) (bool, error)
}

// WeightedFitness rewards passing tests, weighting those the baseline failed
// more heavily than those it already passed. The first candidate it scores
// successfully becomes the baseline for its whole lifetime.
type WeightedFitness struct {
	positive float64
	negative float64

	mu       sync.Mutex
	baseline *baseline
}

type baseline struct {
	passing map[string]bool
	failing map[string]bool
}

// NewWeightedFitness builds a WeightedFitness.
func NewWeightedFitness(positiveWeight, negativeWeight float64) *WeightedFitness {
	return &WeightedFitness{positive: positiveWeight, negative: negativeWeight}
}

// Score returns 0 for a candidate that does not build.
func (f *WeightedFitness) Score(ctx context.Context, c *Candidate) (float64, error) {
	status, err := c.Evaluate(ctx)
	if err != nil {
		return 0, err
	}

	if status != m.EvalSuccess {
		return 0, nil
	}

	base := f.baselineFor(c)

	var kept, fixed int

	for _, name := range c.Passing() {
		switch {
		case base.passing[name]:
			kept++
		case base.failing[name]:
			fixed++
		}
	}

	return float64(kept)*f.positive + float64(fixed)*f.negative, nil
}

// IsMax reports whether c passes as many tests as the baseline suite holds.
func (f *WeightedFitness) IsMax(ctx context.Context, c *Candidate) (bool, error) {
	status, err := c.Evaluate(ctx)
	if err != nil || status != m.EvalSuccess {
		return false, err
	}

	base := f.baselineFor(c)

	return len(c.Passing()) == len(base.passing)+len(base.failing), nil
}

// Baseline returns the baseline passing and failing counts, and whether a
// baseline has been recorded.
func (f *WeightedFitness) Baseline() (passing, failing int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.baseline == nil {
		return 0, 0, false
	}

	return len(f.baseline.passing), len(f.baseline.failing), true
}

// baselineFor returns the baseline, recording c as it when none exists.
// c must have been evaluated successfully.
func (f *WeightedFitness) baselineFor(c *Candidate) *baseline {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.baseline == nil {
		f.baseline = &baseline{
			passing: toSet(c.Passing()),
			failing: toSet(c.Failing()),
		}
	}

	return f.baseline
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	return set
}
