package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "genfix.dev/pkg/genfix/internal/model"
)

func TestWeightedFitness_Baseline(t *testing.T) {
	ctx := context.Background()
	seed := newCalcCandidate(&fakeRunner{}, m.DefaultSearchConfig())

	fitness, ok := seed.Strategies().Fitness.(*WeightedFitness)
	require.True(t, ok)

	_, _, recorded := fitness.Baseline()
	assert.False(t, recorded)

	score, err := seed.Fitness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, score)

	passing, failing, recorded := fitness.Baseline()
	assert.True(t, recorded)
	assert.Equal(t, 3, passing)
	assert.Equal(t, 2, failing)

	isMax, err := seed.IsMax(ctx)
	require.NoError(t, err)
	assert.False(t, isMax)

	fixed := seed.Derive(removeBug(seed.Lines()))

	score, err = fixed.Fitness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3*1.0+2*10.0, score)

	isMax, err = fixed.IsMax(ctx)
	require.NoError(t, err)
	assert.True(t, isMax)

	passing, failing, _ = fitness.Baseline()
	assert.Equal(t, 3, passing, "baseline must not move after the first score")
	assert.Equal(t, 2, failing)
}

func TestWeightedFitness_ZeroWhenNotCompilable(t *testing.T) {
	ctx := context.Background()
	runner := &fakeRunner{compiles: func(lines []string) bool { return hasBug(lines) }}

	seed := newCalcCandidate(runner, m.DefaultSearchConfig())
	_, err := seed.Fitness(ctx)
	require.NoError(t, err)

	broken := seed.Derive(removeBug(seed.Lines()))

	ok, err := broken.IsCompilable(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	score, err := broken.Fitness(ctx)
	require.NoError(t, err)
	assert.Zero(t, score)

	isMax, err := broken.IsMax(ctx)
	require.NoError(t, err)
	assert.False(t, isMax)
}

func TestWeightedFitness_CustomWeights(t *testing.T) {
	ctx := context.Background()

	cfg := m.DefaultSearchConfig()
	cfg.PositiveWeight = 2
	cfg.NegativeWeight = 5

	seed := newCalcCandidate(&fakeRunner{}, cfg)

	score, err := seed.Fitness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.0, score)

	score, err = seed.Derive(removeBug(seed.Lines())).Fitness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16.0, score)
}
