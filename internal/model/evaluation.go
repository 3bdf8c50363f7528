package model

import (
	"errors"
	"sort"
)

var (
	// ErrToolchainUnavailable is returned when no Go toolchain can be found.
	// It is the only evaluation error that aborts a repair run.
	ErrToolchainUnavailable = errors.New("go toolchain unavailable")
	// ErrEmptyPopulation is returned by selection on an empty population.
	ErrEmptyPopulation = errors.New("empty population")
	// ErrNoTests is returned when a test suite declares no runnable tests.
	ErrNoTests = errors.New("test suite has no tests")
)

// EvalStatus is the outcome of compiling and evaluating a candidate.
type EvalStatus int

const (
	// EvalPending means the candidate has not been evaluated yet.
	EvalPending EvalStatus = iota
	// EvalSuccess means the suite ran and coverage was recorded.
	EvalSuccess
	// EvalCompileFailure means the candidate (or its suite) does not build.
	EvalCompileFailure
)

func (s EvalStatus) String() string {
	switch s {
	case EvalPending:
		return "pending"
	case EvalSuccess:
		return "success"
	case EvalCompileFailure:
		return "compile-failure"
	default:
		return "unknown"
	}
}

// CompileResult is the outcome of building a source file on its own.
type CompileResult struct {
	OK          bool
	Diagnostics string
}

// TestRunResult holds what a single instrumented suite run observed.
// Hits maps a qualified test name to the source lines it reached.
type TestRunResult struct {
	Built       bool
	Diagnostics string
	Passing     []string
	Failing     []string
	Hits        map[string]map[int]int
}

// Spectrum holds the per-line coverage accumulators used for fault localization.
// Keys are 1-based source line numbers.
type Spectrum struct {
	ExecutedFailing    map[int]int
	NotExecutedFailing map[int]int
	ExecutedPassing    map[int]int
	NotExecutedPassing map[int]int
}

// NewSpectrum returns an empty spectrum.
func NewSpectrum() Spectrum {
	return Spectrum{
		ExecutedFailing:    map[int]int{},
		NotExecutedFailing: map[int]int{},
		ExecutedPassing:    map[int]int{},
		NotExecutedPassing: map[int]int{},
	}
}

// Record adds one test execution over lines 1..lineCount.
func (s Spectrum) Record(lineCount int, hits map[int]int, passed bool) {
	for line := 1; line <= lineCount; line++ {
		executed := hits[line] > 0

		switch {
		case passed && executed:
			s.ExecutedPassing[line]++
		case passed:
			s.NotExecutedPassing[line]++
		case executed:
			s.ExecutedFailing[line]++
		default:
			s.NotExecutedFailing[line]++
		}
	}
}

// Suspiciousness maps a 1-based source line to its fault likelihood.
type Suspiciousness map[int]float64

// Lines returns the scored lines in ascending order.
func (s Suspiciousness) Lines() []int {
	lines := make([]int, 0, len(s))
	for line := range s {
		lines = append(lines, line)
	}

	sort.Ints(lines)

	return lines
}

// Top returns up to n lines ordered by descending score, ties by line.
func (s Suspiciousness) Top(n int) []int {
	lines := s.Lines()
	sort.SliceStable(lines, func(i, j int) bool {
		return s[lines[i]] > s[lines[j]]
	})

	if n >= 0 && len(lines) > n {
		lines = lines[:n]
	}

	return lines
}

// LineScore is one ranked line of a localization report.
type LineScore struct {
	Line  int
	Score float64
	Text  string
}
