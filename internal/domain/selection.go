package domain

import (
	"context"
	"math/rand"

	m "genfix.dev/pkg/genfix/internal/model"
)

// Selection picks one candidate out of a population.
type Selection interface {
	Select(ctx context.Context, rng *rand.Rand, population []*Candidate) (*Candidate, error)
}

// BinaryTournament draws two distinct candidates and keeps the fitter one.
type BinaryTournament struct{}

// NewBinaryTournament builds a BinaryTournament.
func NewBinaryTournament() *BinaryTournament {
	return &BinaryTournament{}
}

// Select returns a clone of the winner; ties go to the second draw. The
// population slice is never modified.
func (bt *BinaryTournament) Select(ctx context.Context, rng *rand.Rand, population []*Candidate) (*Candidate, error) {
	switch len(population) {
	case 0:
		return nil, m.ErrEmptyPopulation
	case 1:
		return population[0].Clone(), nil
	}

	i := rng.Intn(len(population))

	j := rng.Intn(len(population) - 1)
	if j >= i {
		j++
	}

	first, second := population[i], population[j]

	firstFitness, err := first.Fitness(ctx)
	if err != nil {
		return nil, err
	}

	secondFitness, err := second.Fitness(ctx)
	if err != nil {
		return nil, err
	}

	if firstFitness > secondFitness {
		return first.Clone(), nil
	}

	return second.Clone(), nil
}
