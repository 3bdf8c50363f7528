package controller

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "genfix.dev/pkg/genfix/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait returns immediately, SimpleUI never blocks.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplaySettings prints the run banner.
func (s *SimpleUI) DisplaySettings(ctx context.Context, settings m.RunSettings) {
	if ctx.Err() != nil {
		return
	}

	cfg := settings.Config

	s.printf("Repairing %s (module %s), run %s\n", settings.Identity.Name, settings.Identity.Module, settings.RunID)

	rows := [][]string{
		{"population", fmt.Sprintf("%d", cfg.PopulationSize)},
		{"generations", fmt.Sprintf("%d", cfg.MaxGenerations)},
		{"mutation rate", fmt.Sprintf("%.3f", cfg.MutationRate)},
		{"weights", fmt.Sprintf("%.1f / %.1f", cfg.PositiveWeight, cfg.NegativeWeight)},
		{"localizer", cfg.Localizer},
		{"mutator", cfg.Mutator},
		{"crossover", cfg.Crossover},
		{"seed", fmt.Sprintf("%d", cfg.Seed)},
		{"parallel", fmt.Sprintf("%d", cfg.Parallel)},
	}

	s.printf("%s", renderTable([]string{"Setting", "Value"}, rows, nil))
}

// DisplayState prints terminal search states only.
func (s *SimpleUI) DisplayState(ctx context.Context, state m.SearchState) {
	if ctx.Err() != nil {
		return
	}

	if state == m.StateTerminatedSuccess || state == m.StateTerminatedMaxGenerations {
		s.printf("Search %s\n", state)
	}
}

// DisplayGeneration prints one line per evaluated generation.
func (s *SimpleUI) DisplayGeneration(ctx context.Context, stats m.GenerationStats) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Generation %d: best %.2f, mean %.2f, compilable %d/%d, best so far %.2f (%s)\n",
		stats.Generation, stats.BestFitness, stats.MeanFitness,
		stats.Compilable, stats.PopulationSize, stats.BestSoFar,
		stats.Duration.Round(time.Millisecond))
}

// DisplayResult prints the outcome and the patch.
func (s *SimpleUI) DisplayResult(ctx context.Context, result m.RepairResult) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s\n", resultHeadline(result))
	s.printf("Fitness %.2f, passing %d/%d, elapsed %s\n",
		result.Fitness, result.Passing, result.Total, result.Elapsed.Round(time.Millisecond))

	if result.Patch.Hunks > 0 {
		s.printf("Patch: %d hunk(s), +%d -%d\n", result.Patch.Hunks, result.Patch.Added, result.Patch.Removed)
	}

	if result.OutputDir != "" {
		s.printf("Saved to %s\n", result.OutputDir)
	}

	if result.Diff != "" {
		s.printf("\n%s", result.Diff)
	}
}

// DisplayTestSummary prints one row per test.
func (s *SimpleUI) DisplayTestSummary(ctx context.Context, summary m.TestSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if summary.Status == m.EvalCompileFailure {
		s.printf("%s does not build with its test suite\n", summary.Identity.Name)
		return nil
	}

	rows := make([][]string, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		rows = append(rows, []string{o.Name, outcomeLabel(o.Passed)})
	}

	footer := []string{"Passed", fmt.Sprintf("%d/%d", summary.Passed(), len(summary.Outcomes))}
	s.printf("\n%s", renderTable([]string{"Test", "Result"}, rows, footer))

	return nil
}

// DisplaySuspiciousness prints the ranked lines.
func (s *SimpleUI) DisplaySuspiciousness(ctx context.Context, id m.Identity, scores []m.LineScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(scores) == 0 {
		s.printf("No suspicious lines in %s: no failing test reaches the program\n", id.SourceFile())
		return nil
	}

	rows := make([][]string, 0, len(scores))
	for _, sc := range scores {
		rows = append(rows, []string{fmt.Sprintf("%d", sc.Line), fmt.Sprintf("%.3f", sc.Score), sc.Text})
	}

	s.printf("%s\n%s", id.SourceFile(), renderTable([]string{"Line", "Score", "Source"}, rows, nil))

	return nil
}

// DisplayReport prints a stored report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RepairReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := [][]string{
		{"run", report.RunID},
		{"program", report.Program},
		{"module", report.Module},
		{"outcome", report.Outcome},
		{"fitness", fmt.Sprintf("%.2f", report.Fitness)},
		{"generation", fmt.Sprintf("%d/%d", report.Generation, report.Generations)},
		{"passing", fmt.Sprintf("%d/%d", report.Passing, report.Total)},
		{"elapsed", report.Elapsed},
		{"seed", fmt.Sprintf("%d", report.Seed)},
		{"patch", fmt.Sprintf("%d hunk(s), +%d -%d", report.Patch.Hunks, report.Patch.Added, report.Patch.Removed)},
	}

	s.printf("%s", renderTable([]string{"Field", "Value"}, rows, nil))

	if len(report.History) == 0 {
		return nil
	}

	history := make([][]string, 0, len(report.History))
	for _, h := range report.History {
		history = append(history, []string{
			fmt.Sprintf("%d", h.Generation),
			fmt.Sprintf("%.2f", h.BestFitness),
			fmt.Sprintf("%.2f", h.MeanFitness),
			fmt.Sprintf("%d", h.Compilable),
		})
	}

	s.printf("\n%s", renderTable([]string{"Generation", "Best", "Mean", "Compilable"}, history, nil))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderTable(header []string, rows [][]string, footer []string) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.AppendBulk(rows)

	if footer != nil {
		table.SetFooter(footer)
	}

	table.Render()

	return buf.String()
}

func resultHeadline(result m.RepairResult) string {
	if result.Repaired {
		return fmt.Sprintf("Patch found for %s at generation %d", result.Identity.Name, result.Generation)
	}

	return fmt.Sprintf("No patch found for %s after %d generation(s)", result.Identity.Name, result.Generations)
}

func outcomeLabel(passed bool) string {
	if passed {
		return "PASS"
	}

	return "FAIL"
}
