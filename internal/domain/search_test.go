package domain

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "genfix.dev/pkg/genfix/internal/model"
)

type recordingObserver struct {
	mu          sync.Mutex
	states      []m.SearchState
	generations []m.GenerationStats
}

func (r *recordingObserver) OnState(_ context.Context, state m.SearchState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states = append(r.states, state)
}

func (r *recordingObserver) OnGeneration(_ context.Context, stats m.GenerationStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generations = append(r.generations, stats)
}

func smallConfig() m.SearchConfig {
	cfg := m.DefaultSearchConfig()
	cfg.PopulationSize = 10
	cfg.MaxGenerations = 30
	cfg.MutationRate = 1
	cfg.Parallel = 4
	cfg.MutationRetries = 10

	return cfg
}

func TestSearch_RepairsCalc(t *testing.T) {
	ctx := context.Background()
	cfg := smallConfig()

	seed := newCalcCandidate(&fakeRunner{}, cfg)
	observer := &recordingObserver{}

	search := NewSearch(cfg, rand.New(rand.NewSource(42)), NewBinaryTournament(), observer)

	result, err := search.Run(ctx, seed)
	require.NoError(t, err)

	assert.True(t, result.Repaired)
	assert.Equal(t, m.StateTerminatedSuccess, result.State)
	assert.Equal(t, m.StateTerminatedSuccess, search.State())
	assert.Equal(t, 23.0, result.Fitness)
	assert.False(t, hasBug(result.Best.Lines()))
	assert.LessOrEqual(t, result.Generation, cfg.MaxGenerations)

	isMax, err := result.Best.IsMax(ctx)
	require.NoError(t, err)
	assert.True(t, isMax)

	assert.Equal(t, m.StateInitializing, observer.states[0])
	assert.Len(t, observer.generations, result.Generation+1)
	assert.Equal(t, "calc_test.T1", seed.Passing()[0], "seed keeps its own evaluation")
}

func TestSearch_StopsAtGenerationCap(t *testing.T) {
	ctx := context.Background()

	cfg := smallConfig()
	cfg.PopulationSize = 4
	cfg.MaxGenerations = 3

	// Removing the defect breaks the build, so no candidate can pass T3 and T5.
	runner := &fakeRunner{compiles: hasBug}
	seed := newCalcCandidate(runner, cfg)
	observer := &recordingObserver{}

	result, err := NewSearch(cfg, rand.New(rand.NewSource(7)), NewBinaryTournament(), observer).Run(ctx, seed)
	require.NoError(t, err)

	assert.False(t, result.Repaired)
	assert.Equal(t, m.StateTerminatedMaxGenerations, result.State)
	assert.Equal(t, cfg.MaxGenerations, result.Generations)
	assert.Equal(t, 3.0, result.Fitness)
	assert.True(t, hasBug(result.Best.Lines()))

	require.Len(t, observer.generations, cfg.MaxGenerations+1)

	for i, stats := range observer.generations {
		assert.Equal(t, i, stats.Generation)
		assert.Equal(t, cfg.PopulationSize, stats.PopulationSize)
		assert.Equal(t, 3.0, stats.BestSoFar)
		assert.LessOrEqual(t, stats.MeanFitness, stats.BestFitness)
	}

	assert.Equal(t, m.StateTerminatedMaxGenerations, observer.states[len(observer.states)-1])
	assert.Contains(t, observer.states, m.StateBreeding)
	assert.Contains(t, observer.states, m.StateMutating)
}

func TestSearch_SeedAlreadyPasses(t *testing.T) {
	cfg := smallConfig()

	seed := newCalcCandidate(&fakeRunner{}, cfg)
	fixed := seed.Derive(removeBug(seed.Lines()))

	result, err := NewSearch(cfg, rand.New(rand.NewSource(1)), NewBinaryTournament(), nil).Run(context.Background(), fixed)
	require.NoError(t, err)

	assert.True(t, result.Repaired)
	assert.Zero(t, result.Generation)
	assert.Same(t, fixed, result.Best)
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seed := newCalcCandidate(&fakeRunner{}, smallConfig())

	_, err := NewSearch(smallConfig(), rand.New(rand.NewSource(1)), NewBinaryTournament(), nil).Run(ctx, seed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearch_FatalEvaluationError(t *testing.T) {
	seed := newCalcCandidate(&fakeRunner{fatal: m.ErrToolchainUnavailable}, smallConfig())

	_, err := NewSearch(smallConfig(), rand.New(rand.NewSource(1)), NewBinaryTournament(), nil).Run(context.Background(), seed)
	require.ErrorIs(t, err, m.ErrToolchainUnavailable)
}

func TestSearch_SeedDoesNotCompile(t *testing.T) {
	runner := &fakeRunner{compiles: func([]string) bool { return false }}
	seed := newCalcCandidate(runner, smallConfig())
	observer := &recordingObserver{}

	result, err := NewSearch(smallConfig(), rand.New(rand.NewSource(1)), NewBinaryTournament(), observer).Run(context.Background(), seed)
	require.NoError(t, err)

	assert.False(t, result.Repaired)
	assert.Zero(t, result.Fitness)
	assert.Zero(t, result.Generations)
	assert.Same(t, seed, result.Best)
	assert.Equal(t, m.StateTerminatedMaxGenerations, result.State)
	assert.Empty(t, observer.generations)

	// One suite run and one standalone build, then nothing else.
	compiles, runs := runner.calls()
	assert.Equal(t, 1, compiles)
	assert.Equal(t, 1, runs)
}

func TestSearch_MutateWithoutRetries(t *testing.T) {
	cfg := smallConfig()
	cfg.MutationRetries = 0

	seed := newCalcCandidate(&fakeRunner{}, cfg)
	search := NewSearch(cfg, rand.New(rand.NewSource(3)), NewBinaryTournament(), nil)

	out, err := search.mutate(context.Background(), []*Candidate{seed})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.NotSame(t, seed, out[0])
	assert.False(t, out[0].Equal(seed))
}

func TestSearch_MutateKeepsOriginalAfterRetries(t *testing.T) {
	cfg := smallConfig()
	cfg.MutationRetries = 2

	// Only the seed itself compiles, so every mutant is rejected.
	seedLines := splitSource(calcSource)
	runner := &fakeRunner{compiles: func(lines []string) bool {
		return len(lines) == len(seedLines) && changedLines(seedLines, lines) == 0
	}}

	seed := newCalcCandidate(runner, cfg)
	search := NewSearch(cfg, rand.New(rand.NewSource(3)), NewBinaryTournament(), nil)

	out, err := search.mutate(context.Background(), []*Candidate{seed})
	require.NoError(t, err)

	assert.Same(t, seed, out[0])

	// The seed's own build plus one per attempt.
	compiles, _ := runner.calls()
	assert.Equal(t, 1+1+cfg.MutationRetries, compiles)
}
