package adapter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/version"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"time"

	m "genfix.dev/pkg/genfix/internal/model"
)

const (
	suiteBinary    = "genfix_suite.test"
	buildArtifact  = "genfix_build.out"
	defaultTimeout = 10 * time.Second
	fallbackGo     = "1.21"
	killWaitDelay  = 2 * time.Second
)

// TestRunnerAdapter abstracts the Go toolchain operations needed to judge a
// candidate: building the program on its own and running the fixed test
// suite against it with per-test line coverage.
type TestRunnerAdapter interface {
	// Compile builds the program without its tests.
	Compile(ctx context.Context, id m.Identity, source []string) (m.CompileResult, error)

	// RunTests builds the program together with suite and runs every test
	// function in isolation, collecting the lines each one reached.
	RunTests(ctx context.Context, id m.Identity, source []string, suite m.TestSuite) (m.TestRunResult, error)
}

// LocalTestRunnerAdapter drives the local `go` binary through os/exec.
// Every call works in its own throwaway module directory so concurrent
// evaluations never share files.
type LocalTestRunnerAdapter struct {
	fs       SourceFSAdapter
	timeout  time.Duration
	lookPath func(file string) (string, error)

	toolchainOnce sync.Once
	toolchainGo   string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter. timeout
// bounds each individual test function; zero selects 10s.
func NewLocalTestRunnerAdapter(fs SourceFSAdapter, timeout time.Duration) *LocalTestRunnerAdapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &LocalTestRunnerAdapter{
		fs:       fs,
		timeout:  timeout,
		lookPath: exec.LookPath,
	}
}

// Compile runs `go build` over the program in a scratch module.
func (a *LocalTestRunnerAdapter) Compile(ctx context.Context, id m.Identity, source []string) (m.CompileResult, error) {
	goBin, err := a.goBinary()
	if err != nil {
		return m.CompileResult{}, err
	}

	workDir, err := a.prepareWorkspace(ctx, goBin, id, source, nil)
	if err != nil {
		return m.CompileResult{}, err
	}
	defer a.cleanupWorkspace(workDir)

	out, err := a.run(ctx, workDir, goBin, "build", "-o", buildArtifact, ".")
	if err != nil {
		if isExitError(ctx, err) {
			return m.CompileResult{OK: false, Diagnostics: out}, nil
		}

		return m.CompileResult{}, fmt.Errorf("go build %s: %w", id.Name, contextOr(ctx, err))
	}

	return m.CompileResult{OK: true}, nil
}

// RunTests compiles an instrumented test binary once, lists its tests and
// runs each one with its own coverprofile. Tests run through generated
// wrappers that turn a panic into a failure, so the lines a panicking test
// reached are still recorded. A test killed by the timeout fails with no
// coverage.
func (a *LocalTestRunnerAdapter) RunTests(ctx context.Context, id m.Identity, source []string, suite m.TestSuite) (m.TestRunResult, error) {
	goBin, err := a.goBinary()
	if err != nil {
		return m.TestRunResult{}, err
	}

	workDir, err := a.prepareWorkspace(ctx, goBin, id, source, &suite)
	if err != nil {
		return m.TestRunResult{}, err
	}
	defer a.cleanupWorkspace(workDir)

	guards, err := a.writeGuards(workDir, suite)
	if err != nil {
		return m.TestRunResult{}, err
	}

	out, err := a.buildSuite(ctx, workDir, goBin)
	if err != nil && guards != nil && isExitError(ctx, err) {
		slog.Debug("Guarded suite does not build, retrying unguarded", "program", id.Name)

		if rmErr := a.fs.RemoveAll(a.fs.JoinPath(string(workDir), guardFile)); rmErr != nil {
			return m.TestRunResult{}, fmt.Errorf("remove %s: %w", guardFile, rmErr)
		}

		guards = nil
		out, err = a.buildSuite(ctx, workDir, goBin)
	}

	if err != nil {
		if isExitError(ctx, err) {
			return m.TestRunResult{Built: false, Diagnostics: out}, nil
		}

		return m.TestRunResult{}, fmt.Errorf("go test -c %s: %w", id.Name, contextOr(ctx, err))
	}

	binary := string(a.fs.JoinPath(string(workDir), suiteBinary))

	names, err := a.listTests(ctx, workDir, binary)
	if err != nil {
		return m.TestRunResult{}, err
	}

	result := m.TestRunResult{
		Built: true,
		Hits:  make(map[string]map[int]int, len(names)),
	}

	for i, name := range names {
		run := name
		if guard, ok := guards[name]; ok {
			run = guard
		}

		passed, hits, err := a.runSingle(ctx, workDir, binary, id, run, i)
		if err != nil {
			return m.TestRunResult{}, err
		}

		qualified := suite.Qualify(name)
		result.Hits[qualified] = hits

		if passed {
			result.Passing = append(result.Passing, qualified)
		} else {
			result.Failing = append(result.Failing, qualified)
		}
	}

	return result, nil
}

func (a *LocalTestRunnerAdapter) buildSuite(ctx context.Context, workDir m.Path, goBin string) (string, error) {
	return a.run(ctx, workDir, goBin, "test", "-c", "-cover", "-covermode=count", "-o", suiteBinary, ".")
}

func (a *LocalTestRunnerAdapter) listTests(ctx context.Context, workDir m.Path, binary string) ([]string, error) {
	out, err := a.run(ctx, workDir, binary, "-test.list", ".")
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", contextOr(ctx, err))
	}

	var names []string

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, guardPrefix) {
			continue
		}

		if strings.HasPrefix(line, "Test") && !strings.ContainsAny(line, " \t") {
			names = append(names, line)
		}
	}

	return names, nil
}

func (a *LocalTestRunnerAdapter) runSingle(
	ctx context.Context,
	workDir m.Path,
	binary string,
	id m.Identity,
	name string,
	index int,
) (bool, map[int]int, error) {
	profile := string(a.fs.JoinPath(string(workDir), fmt.Sprintf("cover-%d.out", index)))

	testCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	_, err := a.run(testCtx, workDir, binary,
		"-test.run", "^"+regexp.QuoteMeta(name)+"$",
		"-test.count=1",
		"-test.coverprofile="+profile,
	)

	passed := err == nil
	if err != nil {
		if ctx.Err() != nil {
			return false, nil, ctx.Err()
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && testCtx.Err() == nil {
			return false, nil, fmt.Errorf("run %s: %w", name, err)
		}
	}

	hits, err := readLineHits(profile, id.SourceFile())
	if err != nil {
		slog.Warn("Discarding unreadable coverage", "test", name, "error", err)

		hits = map[int]int{}
	}

	return passed, hits, nil
}

func (a *LocalTestRunnerAdapter) goBinary() (string, error) {
	goBin, err := a.lookPath("go")
	if err != nil {
		return "", fmt.Errorf("%w: %w", m.ErrToolchainUnavailable, err)
	}

	return goBin, nil
}

func (a *LocalTestRunnerAdapter) prepareWorkspace(
	ctx context.Context,
	goBin string,
	id m.Identity,
	source []string,
	suite *m.TestSuite,
) (m.Path, error) {
	goVersion := id.GoVersion
	if goVersion == "" {
		goVersion = a.toolchainVersion(ctx, goBin)
	}

	workDir, err := a.fs.CreateTempDir("genfix-" + id.Name + "-*")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}

	goMod := fmt.Sprintf("module %s\n\ngo %s\n", id.Module, goVersion)

	files := map[string][]byte{
		"go.mod":        []byte(goMod),
		id.SourceFile(): JoinLines(source),
	}
	if suite != nil {
		files[id.TestFile()] = JoinLines(suite.Lines)
	}

	for name, content := range files {
		if err := a.fs.WriteFile(a.fs.JoinPath(string(workDir), name), content, 0o600); err != nil {
			a.cleanupWorkspace(workDir)

			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	return workDir, nil
}

// writeGuards adds the panic-recovering wrappers next to the suite and
// returns the wrapper name of every guarded test.
func (a *LocalTestRunnerAdapter) writeGuards(workDir m.Path, suite m.TestSuite) (map[string]string, error) {
	content, guards := guardSuite(JoinLines(suite.Lines))
	if content == nil {
		return nil, nil
	}

	if err := a.fs.WriteFile(a.fs.JoinPath(string(workDir), guardFile), content, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", guardFile, err)
	}

	return guards, nil
}

// toolchainVersion is the language version of the local go binary, used as
// the go directive of programs that ship without a go.mod.
func (a *LocalTestRunnerAdapter) toolchainVersion(ctx context.Context, goBin string) string {
	a.toolchainOnce.Do(func() {
		a.toolchainGo = fallbackGo

		out, err := a.run(ctx, "", goBin, "env", "GOVERSION")
		if err != nil {
			slog.Warn("Failed to read toolchain version", "error", err)

			out = runtime.Version()
		}

		if lang := version.Lang(strings.TrimSpace(out)); lang != "" {
			a.toolchainGo = strings.TrimPrefix(lang, "go")
		}
	})

	return a.toolchainGo
}

func (a *LocalTestRunnerAdapter) cleanupWorkspace(workDir m.Path) {
	if err := a.fs.RemoveAll(workDir); err != nil {
		slog.Warn("Failed to remove workspace", "path", workDir, "error", err)
	}
}

func (a *LocalTestRunnerAdapter) run(ctx context.Context, workDir m.Path, name string, args ...string) (string, error) {
	// #nosec G204 - arguments are built by the adapter, not taken from input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(workDir)
	cmd.WaitDelay = killWaitDelay
	cmd.Env = append(os.Environ(),
		"GOWORK=off",
		"GOFLAGS=-mod=mod",
		"GO111MODULE=on",
		"GOTOOLCHAIN=local",
	)

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	return output.String(), err
}

// isExitError reports whether err is the tool's own non-zero exit rather
// than a cancellation or a failure to start it.
func isExitError(ctx context.Context, err error) bool {
	var exitErr *exec.ExitError

	return errors.As(err, &exitErr) && ctx.Err() == nil
}

func contextOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	return err
}
