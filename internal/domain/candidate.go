// Package domain implements the repair engine: candidate evaluation, fault
// localization, mutation, crossover, fitness, selection and the generational
// search that ties them together.
package domain

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"genfix.dev/pkg/genfix/internal/adapter"
	m "genfix.dev/pkg/genfix/internal/model"
)

// Strategies bundles the stateless operators a candidate is built with.
// They are shared by every candidate derived from the same seed.
type Strategies struct {
	Mutator   Mutator
	Crossover Crossover
	Localizer Localizer
	Fitness   Fitness
}

// Candidate is one program variant. Its source never changes after
// construction; evaluation results are recorded once and memoized.
type Candidate struct {
	identity   m.Identity
	lines      []string
	suite      m.TestSuite
	runner     adapter.TestRunnerAdapter
	strategies *Strategies
	eval       *evaluation
}

type evaluation struct {
	mu          sync.Mutex
	status      m.EvalStatus
	compiled    *bool
	passing     []string
	failing     []string
	spectrum    m.Spectrum
	diagnostics string
}

// NewCandidate builds a generation-0 candidate.
func NewCandidate(
	identity m.Identity,
	lines []string,
	suite m.TestSuite,
	runner adapter.TestRunnerAdapter,
	strategies *Strategies,
) *Candidate {
	return &Candidate{
		identity:   identity,
		lines:      append([]string(nil), lines...),
		suite:      suite,
		runner:     runner,
		strategies: strategies,
		eval:       &evaluation{spectrum: m.NewSpectrum()},
	}
}

// Derive builds a new unevaluated candidate from lines, inheriting identity,
// suite, runner and strategies.
func (c *Candidate) Derive(lines []string) *Candidate {
	return NewCandidate(c.identity, lines, c.suite, c.runner, c.strategies)
}

// Clone returns a copy that shares the source and the recorded evaluation.
func (c *Candidate) Clone() *Candidate {
	clone := *c

	return &clone
}

// Identity names the program.
func (c *Candidate) Identity() m.Identity {
	return c.identity
}

// Lines returns the source lines. Callers must not modify the slice.
func (c *Candidate) Lines() []string {
	return c.lines
}

// Source returns the source as file content.
func (c *Candidate) Source() []byte {
	return adapter.JoinLines(c.lines)
}

// Suite returns the test suite the candidate is judged against.
func (c *Candidate) Suite() m.TestSuite {
	return c.suite
}

// Strategies returns the shared operators.
func (c *Candidate) Strategies() *Strategies {
	return c.strategies
}

// Evaluate compiles the candidate with its suite and runs every test once
// under coverage. The outcome is memoized; only fatal errors (no toolchain,
// cancellation) are returned and those are not memoized.
func (c *Candidate) Evaluate(ctx context.Context) (m.EvalStatus, error) {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	if c.eval.status != m.EvalPending {
		return c.eval.status, nil
	}

	started := time.Now()

	res, err := c.runner.RunTests(ctx, c.identity, c.lines, c.suite)
	if err != nil {
		slog.Error("Failed to evaluate candidate", "program", c.identity.Name, "error", err)
		return m.EvalPending, err
	}

	if !res.Built {
		slog.Debug("Candidate does not build with its suite", "program", c.identity.Name)

		c.eval.status = m.EvalCompileFailure
		c.eval.diagnostics = res.Diagnostics
		recordEvaluation(ctx, c.eval.status, time.Since(started))

		return c.eval.status, nil
	}

	compiled := true
	c.eval.compiled = &compiled
	c.eval.passing = sortedCopy(res.Passing)
	c.eval.failing = sortedCopy(res.Failing)

	for _, name := range c.eval.passing {
		c.eval.spectrum.Record(len(c.lines), res.Hits[name], true)
	}

	for _, name := range c.eval.failing {
		c.eval.spectrum.Record(len(c.lines), res.Hits[name], false)
	}

	c.eval.status = m.EvalSuccess
	recordEvaluation(ctx, c.eval.status, time.Since(started))

	return c.eval.status, nil
}

// IsCompilable reports whether the source builds on its own. A successful
// evaluation answers without compiling again.
func (c *Candidate) IsCompilable(ctx context.Context) (bool, error) {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	if c.eval.compiled != nil {
		return *c.eval.compiled, nil
	}

	res, err := c.runner.Compile(ctx, c.identity, c.lines)
	if err != nil {
		slog.Error("Failed to compile candidate", "program", c.identity.Name, "error", err)
		return false, err
	}

	ok := res.OK
	c.eval.compiled = &ok

	if !ok {
		c.eval.diagnostics = res.Diagnostics
	}

	return ok, nil
}

// Status returns the recorded evaluation status.
func (c *Candidate) Status() m.EvalStatus {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	return c.eval.status
}

// Passing returns the tests that passed in the recorded evaluation.
func (c *Candidate) Passing() []string {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	return append([]string(nil), c.eval.passing...)
}

// Failing returns the tests that failed in the recorded evaluation.
func (c *Candidate) Failing() []string {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	return append([]string(nil), c.eval.failing...)
}

// Spectrum returns the coverage accumulators. The maps must not be modified.
func (c *Candidate) Spectrum() m.Spectrum {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	return c.eval.spectrum
}

// Diagnostics returns the compiler output of a failed build, if any.
func (c *Candidate) Diagnostics() string {
	c.eval.mu.Lock()
	defer c.eval.mu.Unlock()

	return c.eval.diagnostics
}

// Equal compares non-blank source lines only.
func (c *Candidate) Equal(other *Candidate) bool {
	if other == nil {
		return false
	}

	a, b := nonBlank(c.lines), nonBlank(other.lines)
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Suspiciousness scores the candidate with its localizer.
func (c *Candidate) Suspiciousness(ctx context.Context) (m.Suspiciousness, error) {
	return c.strategies.Localizer.Score(ctx, c)
}

// Mutate derives a mutated candidate with its mutator.
func (c *Candidate) Mutate(ctx context.Context, rng *rand.Rand) (*Candidate, error) {
	return c.strategies.Mutator.Mutate(ctx, rng, c)
}

// Crossover combines the candidate with other using its crossover.
func (c *Candidate) Crossover(ctx context.Context, rng *rand.Rand, other *Candidate) (*Candidate, *Candidate, error) {
	return c.strategies.Crossover.Cross(ctx, rng, c, other)
}

// Fitness scores the candidate with its fitness function.
func (c *Candidate) Fitness(ctx context.Context) (float64, error) {
	return c.strategies.Fitness.Score(ctx, c)
}

// IsMax reports whether every baseline test now passes.
func (c *Candidate) IsMax(ctx context.Context) (bool, error) {
	return c.strategies.Fitness.IsMax(ctx, c)
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}

	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)

	return out
}
