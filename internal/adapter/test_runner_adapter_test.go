package adapter

import (
	"context"
	"errors"
	"os/exec"
	"sort"
	"strings"
	"testing"
	"time"

	m "genfix.dev/pkg/genfix/internal/model"
)

// These tests drive the real go binary inside scratch modules. They are
// skipped in -short mode and when no toolchain is installed.

var runnerCounterSource = []string{
	"package counter",
	"",
	"func Inc(n int) int {",
	"\treturn n + 2",
	"}",
	"",
	"func Dec(n int) int {",
	"\treturn n - 1",
	"}",
}

var runnerCounterSuite = m.TestSuite{
	Name: "counter_test",
	Lines: strings.Split(`package counter

import "testing"

func TestInc(t *testing.T) {
	if Inc(1) != 2 {
		t.Fatal("Inc(1) != 2")
	}
}

func TestDec(t *testing.T) {
	if Dec(2) != 1 {
		t.Fatal("Dec(2) != 1")
	}
}`, "\n"),
}

func requireGoToolchain(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping toolchain test in short mode")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

func TestLocalTestRunnerAdapter_MissingToolchain(t *testing.T) {
	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), time.Second)
	adapter.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	id := m.NewIdentity("counter", "")

	if _, err := adapter.Compile(context.Background(), id, runnerCounterSource); !errors.Is(err, m.ErrToolchainUnavailable) {
		t.Fatalf("Compile() error = %v, want ErrToolchainUnavailable", err)
	}

	if _, err := adapter.RunTests(context.Background(), id, runnerCounterSource, runnerCounterSuite); !errors.Is(err, m.ErrToolchainUnavailable) {
		t.Fatalf("RunTests() error = %v, want ErrToolchainUnavailable", err)
	}
}

func TestLocalTestRunnerAdapter_Compile(t *testing.T) {
	requireGoToolchain(t)

	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), 30*time.Second)
	id := m.NewIdentity("counter", "")

	res, err := adapter.Compile(context.Background(), id, runnerCounterSource)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !res.OK {
		t.Fatalf("Compile() OK = false, diagnostics = %s", res.Diagnostics)
	}

	broken := append([]string{}, runnerCounterSource...)
	broken[3] = "\treturn n +"

	res, err = adapter.Compile(context.Background(), id, broken)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if res.OK || res.Diagnostics == "" {
		t.Fatalf("Compile() of broken source = %+v, want failure with diagnostics", res)
	}
}

func TestLocalTestRunnerAdapter_RunTests(t *testing.T) {
	requireGoToolchain(t)

	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), 30*time.Second)
	id := m.NewIdentity("counter", "")

	res, err := adapter.RunTests(context.Background(), id, runnerCounterSource, runnerCounterSuite)
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}

	if !res.Built {
		t.Fatalf("RunTests() Built = false, diagnostics = %s", res.Diagnostics)
	}

	sort.Strings(res.Passing)

	if len(res.Passing) != 1 || res.Passing[0] != "counter_test.TestDec" {
		t.Fatalf("Passing = %v, want [counter_test.TestDec]", res.Passing)
	}

	if len(res.Failing) != 1 || res.Failing[0] != "counter_test.TestInc" {
		t.Fatalf("Failing = %v, want [counter_test.TestInc]", res.Failing)
	}

	incHits := res.Hits["counter_test.TestInc"]
	if incHits[4] == 0 {
		t.Fatalf("TestInc did not reach line 4: %v", incHits)
	}

	if incHits[8] != 0 {
		t.Fatalf("TestInc reached Dec body: %v", incHits)
	}

	decHits := res.Hits["counter_test.TestDec"]
	if decHits[8] == 0 || decHits[4] != 0 {
		t.Fatalf("TestDec hits = %v, want line 8 only", decHits)
	}
}

func TestLocalTestRunnerAdapter_RunTests_SuiteDoesNotBuild(t *testing.T) {
	requireGoToolchain(t)

	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), 30*time.Second)
	id := m.NewIdentity("counter", "")

	// Dec removed: the program still compiles but the suite does not.
	source := runnerCounterSource[:6]

	res, err := adapter.RunTests(context.Background(), id, source, runnerCounterSuite)
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}

	if res.Built {
		t.Fatalf("RunTests() Built = true, want false")
	}
}

var runnerPickSource = []string{
	"package pick",
	"",
	"func At(xs []int, i int) int {",
	"\tj := i + 1",
	"\treturn xs[j]",
	"}",
	"",
	"func Spin(n int) int {",
	"\tfor n > 0 {",
	"\t\tn++",
	"\t}",
	"\treturn n",
	"}",
}

var runnerPickSuite = m.TestSuite{
	Name: "pick_test",
	Lines: strings.Split(`package pick

import "testing"

func TestAtFirst(t *testing.T) {
	if At([]int{1, 2}, 0) != 1 {
		t.Fatal("At(xs, 0) != 1")
	}
}

func TestAtLast(t *testing.T) {
	_ = At([]int{1, 2}, 1)
}

func TestSpin(t *testing.T) {
	Spin(1)
}`, "\n"),
}

func TestLocalTestRunnerAdapter_RunTests_TestFaults(t *testing.T) {
	requireGoToolchain(t)

	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), 3*time.Second)
	id := m.NewIdentity("pick", "")

	res, err := adapter.RunTests(context.Background(), id, runnerPickSource, runnerPickSuite)
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}

	if !res.Built {
		t.Fatalf("RunTests() Built = false, diagnostics = %s", res.Diagnostics)
	}

	sort.Strings(res.Failing)

	want := []string{"pick_test.TestAtFirst", "pick_test.TestAtLast", "pick_test.TestSpin"}
	if strings.Join(res.Failing, ",") != strings.Join(want, ",") {
		t.Fatalf("Failing = %v, want %v", res.Failing, want)
	}

	if len(res.Passing) != 0 {
		t.Fatalf("Passing = %v, want none", res.Passing)
	}

	panicHits := res.Hits["pick_test.TestAtLast"]
	if panicHits[4] == 0 || panicHits[5] == 0 {
		t.Fatalf("panicking test lost its coverage: %v", panicHits)
	}

	if panicHits[9] != 0 {
		t.Fatalf("panicking test reached Spin: %v", panicHits)
	}

	if hits := res.Hits["pick_test.TestAtFirst"]; hits[4] == 0 {
		t.Fatalf("TestAtFirst hits = %v, want line 4", hits)
	}

	if _, ok := res.Hits["pick_test.TestSpin"]; !ok {
		t.Fatal("timed out test has no hits entry")
	}

	for name := range res.Hits {
		if strings.Contains(name, guardPrefix) {
			t.Fatalf("wrapper %s reported as a test", name)
		}
	}
}

func TestLocalTestRunnerAdapter_GoVersion(t *testing.T) {
	requireGoToolchain(t)

	adapter := NewLocalTestRunnerAdapter(NewLocalSourceFSAdapter(), 30*time.Second)

	source := []string{
		"package sum",
		"",
		"func Upto(n int) int {",
		"\ttotal := 0",
		"\tfor i := range n {",
		"\t\ttotal += i",
		"\t}",
		"\treturn total",
		"}",
	}

	declared := m.NewIdentity("sum", "example.com/sum")
	declared.GoVersion = "1.22"

	for _, id := range []m.Identity{declared, m.NewIdentity("sum", "")} {
		res, err := adapter.Compile(context.Background(), id, source)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", id.GoVersion, err)
		}

		if !res.OK {
			t.Fatalf("Compile(%q) OK = false, diagnostics = %s", id.GoVersion, res.Diagnostics)
		}
	}

	if adapter.toolchainGo == "" {
		t.Fatal("toolchain version was not resolved")
	}
}
