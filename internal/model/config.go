package model

import "time"

// Strategy selector values.
const (
	LocalizerOchiai    = "ochiai"
	LocalizerTarantula = "tarantula"

	CrossoverRaw = "raw"
	CrossoverAST = "ast"

	MutatorClassic = "classic"
	MutatorBinary  = "binary"
)

// SearchConfig carries every tunable of a repair run.
type SearchConfig struct {
	PopulationSize    int           `validate:"gte=1"`
	MaxGenerations    int           `validate:"gte=1"`
	MutationRate      float64       `validate:"gte=0,lte=1"`
	PositiveWeight    float64       `validate:"gte=0"`
	NegativeWeight    float64       `validate:"gte=0"`
	Localizer         string        `validate:"oneof=ochiai tarantula"`
	Crossover         string        `validate:"oneof=raw ast"`
	Mutator           string        `validate:"oneof=classic binary"`
	CrossTypeDonors   bool
	Seed              int64
	Parallel          int           `validate:"gte=1"`
	MutationRetries   int           `validate:"gte=0"`
	CrossoverAttempts int           `validate:"gte=1"`
	TestTimeout       time.Duration `validate:"gt=0"`
}

// DefaultSearchConfig returns the repair defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PopulationSize:    40,
		MaxGenerations:    200,
		MutationRate:      0.06,
		PositiveWeight:    1,
		NegativeWeight:    10,
		Localizer:         LocalizerOchiai,
		Crossover:         CrossoverRaw,
		Mutator:           MutatorClassic,
		Parallel:          1,
		MutationRetries:   100,
		CrossoverAttempts: 100,
		TestTimeout:       10 * time.Second,
	}
}
