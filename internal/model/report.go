package model

import "time"

// SearchState is a step of the generational search state machine.
type SearchState int

const (
	StateInitializing SearchState = iota
	StateEvaluatingGeneration
	StateBreeding
	StateMutating
	StateTerminatedSuccess
	StateTerminatedMaxGenerations
)

func (s SearchState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateEvaluatingGeneration:
		return "evaluating"
	case StateBreeding:
		return "breeding"
	case StateMutating:
		return "mutating"
	case StateTerminatedSuccess:
		return "terminated-success"
	case StateTerminatedMaxGenerations:
		return "terminated-max-generations"
	default:
		return "unknown"
	}
}

// RunSettings describes a run before it starts.
type RunSettings struct {
	RunID    string
	Identity Identity
	Config   SearchConfig
}

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation     int
	PopulationSize int
	Compilable     int
	BestFitness    float64
	MeanFitness    float64
	BestSoFar      float64
	Duration       time.Duration
}

// TestOutcome is the result of one test in a summary.
type TestOutcome struct {
	Name   string
	Passed bool
}

// TestSummary is a per-test view of one evaluated program.
type TestSummary struct {
	Identity Identity
	Status   EvalStatus
	Outcomes []TestOutcome
}

// Passed counts passing outcomes.
func (s TestSummary) Passed() int {
	n := 0

	for _, o := range s.Outcomes {
		if o.Passed {
			n++
		}
	}

	return n
}

// PatchStats describes the textual difference between seed and result.
type PatchStats struct {
	Hunks   int `yaml:"hunks"`
	Added   int `yaml:"added"`
	Removed int `yaml:"removed"`
}

// RepairResult is the outcome of a repair run.
type RepairResult struct {
	RunID       string
	Identity    Identity
	Repaired    bool
	Fitness     float64
	Generation  int
	Generations int
	Source      []string
	Passing     int
	Total       int
	Elapsed     time.Duration
	Diff        string
	Patch       PatchStats
	OutputDir   Path
}

// RepairReport is the YAML document stored next to a persisted candidate.
type RepairReport struct {
	RunID       string        `yaml:"run_id"`
	Program     string        `yaml:"program"`
	Module      string        `yaml:"module"`
	Outcome     string        `yaml:"outcome"`
	Fitness     float64       `yaml:"fitness"`
	Generation  int           `yaml:"generation"`
	Generations int           `yaml:"generations"`
	Passing     int           `yaml:"passing"`
	Total       int           `yaml:"total"`
	Elapsed     string        `yaml:"elapsed"`
	Seed        int64         `yaml:"seed"`
	Patch       PatchStats    `yaml:"patch"`
	History     []HistoryItem `yaml:"history,omitempty"`
}

// HistoryItem is one generation line in a report.
type HistoryItem struct {
	Generation  int     `yaml:"generation"`
	BestFitness float64 `yaml:"best_fitness"`
	MeanFitness float64 `yaml:"mean_fitness"`
	Compilable  int     `yaml:"compilable"`
}
