package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	m "genfix.dev/pkg/genfix/internal/model"
)

// SearchObserver is notified as the search advances.
type SearchObserver interface {
	OnState(ctx context.Context, state m.SearchState)
	OnGeneration(ctx context.Context, stats m.GenerationStats)
}

// SearchResult is the outcome of a search run.
type SearchResult struct {
	Best        *Candidate
	Fitness     float64
	Repaired    bool
	Generation  int
	Generations int
	State       m.SearchState
}

// Search drives the generational repair loop.
type Search struct {
	cfg       m.SearchConfig
	rng       *rand.Rand
	selection Selection
	observer  SearchObserver

	state       m.SearchState
	best        *Candidate
	bestFitness float64
	bestGen     int
}

// NewSearch builds a Search. rng is the single random stream of the run and
// must not be shared with other goroutines.
func NewSearch(cfg m.SearchConfig, rng *rand.Rand, selection Selection, observer SearchObserver) *Search {
	if observer == nil {
		observer = noopObserver{}
	}

	return &Search{
		cfg:       cfg,
		rng:       rng,
		selection: selection,
		observer:  observer,
	}
}

// State returns the current state of the search.
func (s *Search) State() m.SearchState {
	return s.state
}

// Run searches for a candidate passing every test, starting from seed.
// Reaching the generation cap is not an error: the best candidate found is
// returned with Repaired false.
func (s *Search) Run(ctx context.Context, seed *Candidate) (SearchResult, error) {
	s.best, s.bestFitness, s.bestGen = seed, 0, 0

	s.setState(ctx, m.StateInitializing)

	// The seed is scored first so it becomes the fitness baseline.
	if _, err := seed.Fitness(ctx); err != nil {
		return SearchResult{}, fmt.Errorf("score seed: %w", err)
	}

	compilable, err := seed.IsCompilable(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("compile seed: %w", err)
	}

	if !compilable {
		slog.Warn("Seed does not compile, nothing to repair from", "program", seed.Identity().Name)

		return s.finish(ctx, seed, 0, 0, false)
	}

	population, err := s.initialize(ctx, seed)
	if err != nil {
		return SearchResult{}, fmt.Errorf("initialize population: %w", err)
	}

	winner, err := s.evaluateGeneration(ctx, population, 0)
	if err != nil {
		return SearchResult{}, err
	}

	if winner != nil {
		return s.finish(ctx, winner, 0, 0, true)
	}

	for gen := 1; gen <= s.cfg.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return SearchResult{}, err
		}

		parents, err := s.filter(ctx, population)
		if err != nil {
			return SearchResult{}, err
		}

		if len(parents) == 0 {
			slog.Warn("No compilable candidate left, restarting from best", "generation", gen)

			parents, err = s.initialize(ctx, s.best)
			if err != nil {
				return SearchResult{}, fmt.Errorf("reinitialize population: %w", err)
			}
		}

		s.setState(ctx, m.StateBreeding)

		next, err := s.breed(ctx, parents)
		if err != nil {
			return SearchResult{}, fmt.Errorf("breed generation %d: %w", gen, err)
		}

		s.setState(ctx, m.StateMutating)

		next, err = s.mutate(ctx, next)
		if err != nil {
			return SearchResult{}, fmt.Errorf("mutate generation %d: %w", gen, err)
		}

		winner, err = s.evaluateGeneration(ctx, next, gen)
		if err != nil {
			return SearchResult{}, err
		}

		if winner != nil {
			return s.finish(ctx, winner, gen, gen, true)
		}

		population = next
	}

	return s.finish(ctx, s.best, s.bestGen, s.cfg.MaxGenerations, false)
}

// initialize fills a population with seed and mutations of seed.
// Duplicates are allowed.
func (s *Search) initialize(ctx context.Context, seed *Candidate) ([]*Candidate, error) {
	population := make([]*Candidate, 0, s.cfg.PopulationSize)
	population = append(population, seed)

	for len(population) < s.cfg.PopulationSize {
		mutant, err := seed.Mutate(ctx, s.rng)
		if err != nil {
			return nil, err
		}

		population = append(population, mutant)
	}

	return population, nil
}

// filter drops candidates that do not compile.
func (s *Search) filter(ctx context.Context, population []*Candidate) ([]*Candidate, error) {
	kept := make([]*Candidate, 0, len(population))

	for _, c := range population {
		ok, err := c.IsCompilable(ctx)
		if err != nil {
			return nil, err
		}

		if ok {
			kept = append(kept, c)
		}
	}

	return kept, nil
}

// breed selects parent pairs and adds both parents plus every compilable
// child until the population is full.
func (s *Search) breed(ctx context.Context, parents []*Candidate) ([]*Candidate, error) {
	next := make([]*Candidate, 0, s.cfg.PopulationSize+2)

	for len(next) < s.cfg.PopulationSize {
		first, err := s.selection.Select(ctx, s.rng, parents)
		if err != nil {
			return nil, err
		}

		rest := make([]*Candidate, 0, len(parents))

		for _, c := range parents {
			if !c.Equal(first) {
				rest = append(rest, c)
			}
		}

		if len(rest) == 0 {
			rest = parents
		}

		second, err := s.selection.Select(ctx, s.rng, rest)
		if err != nil {
			return nil, err
		}

		childA, childB, err := first.Crossover(ctx, s.rng, second)
		if err != nil {
			return nil, err
		}

		next = append(next, first, second)

		for _, child := range []*Candidate{childA, childB} {
			ok, err := child.IsCompilable(ctx)
			if err != nil {
				return nil, err
			}

			if ok {
				next = append(next, child)
			}
		}
	}

	return next[:s.cfg.PopulationSize], nil
}

// mutate replaces each individual, with probability MutationRate, by a
// compilable mutant. A first attempt is followed by up to MutationRetries
// more; when all fail the original stays.
func (s *Search) mutate(ctx context.Context, population []*Candidate) ([]*Candidate, error) {
	out := make([]*Candidate, len(population))
	copy(out, population)

	for i, c := range out {
		if s.rng.Float64() >= s.cfg.MutationRate {
			continue
		}

		for attempt := 0; attempt <= s.cfg.MutationRetries; attempt++ {
			mutant, err := c.Mutate(ctx, s.rng)
			if err != nil {
				return nil, err
			}

			ok, err := mutant.IsCompilable(ctx)
			if err != nil {
				return nil, err
			}

			if ok {
				out[i] = mutant
				break
			}
		}
	}

	return out, nil
}

// evaluateGeneration scores population with a bounded worker pool, tracks
// the best candidate and returns the first one at maximum fitness.
func (s *Search) evaluateGeneration(ctx context.Context, population []*Candidate, gen int) (*Candidate, error) {
	s.setState(ctx, m.StateEvaluatingGeneration)

	started := time.Now()
	fitness := make([]float64, len(population))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, s.cfg.Parallel))

	for i, c := range population {
		group.Go(func() error {
			score, err := c.Fitness(groupCtx)
			if err != nil {
				return err
			}

			fitness[i] = score

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Failed to evaluate generation", "generation", gen, "error", err)
		return nil, fmt.Errorf("evaluate generation %d: %w", gen, err)
	}

	stats := m.GenerationStats{
		Generation:     gen,
		PopulationSize: len(population),
	}

	var winner *Candidate

	total := 0.0

	for i, c := range population {
		total += fitness[i]

		if c.Status() == m.EvalSuccess {
			stats.Compilable++
		}

		if fitness[i] > stats.BestFitness {
			stats.BestFitness = fitness[i]
		}

		if fitness[i] > s.bestFitness {
			s.best, s.bestFitness, s.bestGen = c, fitness[i], gen
		}

		if winner == nil {
			isMax, err := c.IsMax(ctx)
			if err != nil {
				return nil, err
			}

			if isMax {
				winner = c
			}
		}
	}

	if len(population) > 0 {
		stats.MeanFitness = total / float64(len(population))
	}

	stats.BestSoFar = s.bestFitness
	stats.Duration = time.Since(started)

	recordGeneration(ctx, stats)
	s.observer.OnGeneration(ctx, stats)

	slog.Info("Generation evaluated",
		"generation", gen,
		"best", stats.BestFitness,
		"mean", stats.MeanFitness,
		"compilable", stats.Compilable,
		"bestSoFar", stats.BestSoFar,
	)

	return winner, nil
}

func (s *Search) finish(ctx context.Context, best *Candidate, gen, generations int, repaired bool) (SearchResult, error) {
	fitness, err := best.Fitness(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	state := m.StateTerminatedMaxGenerations
	if repaired {
		state = m.StateTerminatedSuccess
	}

	s.setState(ctx, state)

	return SearchResult{
		Best:        best,
		Fitness:     fitness,
		Repaired:    repaired,
		Generation:  gen,
		Generations: generations,
		State:       state,
	}, nil
}

func (s *Search) setState(ctx context.Context, state m.SearchState) {
	s.state = state
	s.observer.OnState(ctx, state)
}

type noopObserver struct{}

func (noopObserver) OnState(context.Context, m.SearchState)         {}
func (noopObserver) OnGeneration(context.Context, m.GenerationStats) {}
