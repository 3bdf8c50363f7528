package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	m "genfix.dev/pkg/genfix/internal/model"
)

func update(t *testing.T, model dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	t.Helper()

	next, cmd := model.Update(msg)

	updated, ok := next.(dashboardModel)
	if !ok {
		t.Fatalf("Update returned %T, want dashboardModel", next)
	}

	return updated, cmd
}

func TestDashboardModel_TracksGenerations(t *testing.T) {
	model := newDashboardModel(nil)

	cfg := m.DefaultSearchConfig()
	cfg.MaxGenerations = 10

	model, _ = update(t, model, settingsMsg(m.RunSettings{
		RunID:    "0123456789abcdef",
		Identity: m.NewIdentity("counter", ""),
		Config:   cfg,
	}))
	model, _ = update(t, model, stateMsg(m.StateEvaluatingGeneration))

	for gen := 0; gen < trailLength+5; gen++ {
		model, _ = update(t, model, generationMsg(m.GenerationStats{
			Generation:     gen % 10,
			PopulationSize: 40,
			Compilable:     30,
			BestFitness:    float64(gen),
			BestSoFar:      float64(gen),
		}))
	}

	if len(model.trail) != trailLength {
		t.Errorf("trail length = %d, want %d", len(model.trail), trailLength)
	}

	view := model.View()
	for _, want := range []string{"counter", "01234567", "evaluating", "compilable 30/40"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q\n%s", want, view)
		}
	}

	if strings.Contains(view, "0123456789abcdef") {
		t.Error("run id should be shortened in the dashboard")
	}
}

func TestDashboardModel_Result(t *testing.T) {
	model := newDashboardModel(nil)

	model, _ = update(t, model, resultMsg(m.RepairResult{
		Identity:   m.NewIdentity("counter", ""),
		Repaired:   true,
		Generation: 2,
		Passing:    5,
		Total:      5,
	}))

	view := model.View()
	if !strings.Contains(view, "Patch found for counter at generation 2") {
		t.Errorf("view missing result headline\n%s", view)
	}

	if !strings.Contains(view, "q: quit") {
		t.Errorf("view missing quit hint\n%s", view)
	}

	_, cmd := update(t, model, model.spinner.Tick())
	if cmd != nil {
		t.Error("spinner should stop once the result is shown")
	}
}

func TestDashboardModel_QuitCallsHandler(t *testing.T) {
	called := false
	model := newDashboardModel(func() { called = true })

	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if !model.quitting {
		t.Error("model should be quitting")
	}

	if !called {
		t.Error("quit handler was not called")
	}

	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestDashboardModel_Ratio(t *testing.T) {
	model := newDashboardModel(nil)

	if got := model.ratio(); got != 0 {
		t.Errorf("ratio without data = %v, want 0", got)
	}

	cfg := m.DefaultSearchConfig()
	cfg.MaxGenerations = 4

	model, _ = update(t, model, settingsMsg(m.RunSettings{Config: cfg}))
	model, _ = update(t, model, generationMsg(m.GenerationStats{Generation: 1}))

	if got := model.ratio(); got != 0.25 {
		t.Errorf("ratio = %v, want 0.25", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Errorf("sparkline(nil) = %q", got)
	}

	if got := sparkline([]float64{1, 1}); got != "▁▁" {
		t.Errorf("flat sparkline = %q", got)
	}

	if got := sparkline([]float64{0, 10}); got != "▁█" {
		t.Errorf("rising sparkline = %q", got)
	}
}

func TestTUI_StaticModes(t *testing.T) {
	var buf bytes.Buffer

	ui := NewTUI(&buf)
	ctx := context.Background()

	if err := ui.Start(ctx, WithTestMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err := ui.DisplayTestSummary(ctx, m.TestSummary{
		Identity: m.NewIdentity("counter", ""),
		Status:   m.EvalSuccess,
		Outcomes: []m.TestOutcome{{Name: "counter_test.TestAdd", Passed: true}},
	})
	if err != nil {
		t.Fatalf("DisplayTestSummary() error = %v", err)
	}

	err = ui.DisplaySuspiciousness(ctx, m.NewIdentity("counter", ""), []m.LineScore{{Line: 9, Score: 0.9, Text: "c.n--"}})
	if err != nil {
		t.Fatalf("DisplaySuspiciousness() error = %v", err)
	}

	err = ui.DisplayReport(ctx, m.RepairReport{Program: "counter", Outcome: "failed", History: []m.HistoryItem{{BestFitness: 1}}})
	if err != nil {
		t.Fatalf("DisplayReport() error = %v", err)
	}

	ui.DisplayResult(ctx, m.RepairResult{Identity: m.NewIdentity("counter", ""), Generations: 3})

	ui.Wait(ctx)
	ui.Close(ctx)

	output := buf.String()
	for _, want := range []string{"counter_test.go", "counter_test.TestAdd", "passed 1/1", "c.n--", "0.900", "failed", "No patch found"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n%s", want, output)
		}
	}
}

func TestColorDiff_KeepsLines(t *testing.T) {
	diff := "--- a/x.go\n+++ b/x.go\n@@ -1 +1 @@\n-a\n+b\n"

	if got := strings.Count(colorDiff(diff), "\n"); got != 5 {
		t.Errorf("colorDiff line count = %d, want 5", got)
	}
}
