package domain

import (
	"context"
	"strings"
	"sync"

	m "genfix.dev/pkg/genfix/internal/model"
)

const calcSource = `package calc

func Add(a, b int) int {
	a = -a
	return a + b
}

func Sub(a, b int) int {
	return a - b
}
`

const calcBug = "a = -a"

var calcTests = []string{"calc_test.T1", "calc_test.T2", "calc_test.T3", "calc_test.T4", "calc_test.T5"}

// fakeRunner judges a source by its text: T3 and T5 fail while the buggy
// line is present. Failing tests reach the bug, every test reaches returns.
type fakeRunner struct {
	mu           sync.Mutex
	compileCalls int
	runCalls     int

	compiles func(lines []string) bool
	fatal    error
}

func (f *fakeRunner) Compile(ctx context.Context, _ m.Identity, source []string) (m.CompileResult, error) {
	f.mu.Lock()
	f.compileCalls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return m.CompileResult{}, err
	}

	if f.fatal != nil {
		return m.CompileResult{}, f.fatal
	}

	if f.compiles != nil && !f.compiles(source) {
		return m.CompileResult{Diagnostics: "syntax error"}, nil
	}

	return m.CompileResult{OK: true}, nil
}

func (f *fakeRunner) RunTests(ctx context.Context, _ m.Identity, source []string, _ m.TestSuite) (m.TestRunResult, error) {
	f.mu.Lock()
	f.runCalls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return m.TestRunResult{}, err
	}

	if f.fatal != nil {
		return m.TestRunResult{}, f.fatal
	}

	if f.compiles != nil && !f.compiles(source) {
		return m.TestRunResult{Diagnostics: "syntax error"}, nil
	}

	bugLines := map[int]int{}
	returnLines := map[int]int{}

	for i, line := range source {
		switch {
		case strings.Contains(line, calcBug):
			bugLines[i+1] = 1
		case strings.Contains(line, "return"):
			returnLines[i+1] = 1
		}
	}

	res := m.TestRunResult{Built: true, Hits: map[string]map[int]int{}}

	for _, name := range calcTests {
		failing := len(bugLines) > 0 && (strings.HasSuffix(name, "T3") || strings.HasSuffix(name, "T5"))

		hits := map[int]int{}
		for line := range returnLines {
			hits[line] = 1
		}

		if failing {
			for line := range bugLines {
				hits[line] = 1
			}

			res.Failing = append(res.Failing, name)
		} else {
			res.Passing = append(res.Passing, name)
		}

		res.Hits[name] = hits
	}

	return res, nil
}

func (f *fakeRunner) calls() (compile, run int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.compileCalls, f.runCalls
}

func calcIdentity() m.Identity {
	return m.NewIdentity("calc", "")
}

func calcSuite() m.TestSuite {
	return m.TestSuite{Name: "calc_test", Lines: []string{"package calc"}}
}

func splitSource(src string) []string {
	return strings.Split(strings.TrimSuffix(src, "\n"), "\n")
}

func newCalcCandidate(runner *fakeRunner, cfg m.SearchConfig) *Candidate {
	return NewCandidate(calcIdentity(), splitSource(calcSource), calcSuite(), runner, NewStrategies(cfg))
}

func hasBug(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, calcBug) {
			return true
		}
	}

	return false
}
