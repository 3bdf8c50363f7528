package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "genfix.dev/pkg/genfix/internal/model"
)

const trailLength = 32

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Padding(0, 1)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live dashboard in repair mode. Other modes render once.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)
	if cfg.mode != ModeRepair {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.program != nil {
		return errors.New("tui already started")
	}

	p.program = tea.NewProgram(newDashboardModel(cfg.onQuit), tea.WithOutput(p.output), tea.WithContext(ctx))
	p.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			slog.Error("Dashboard stopped", "error", err)
		}
	}(p.program, p.done)

	return nil
}

// Close stops the dashboard if it is still running.
func (p *TUI) Close(ctx context.Context) {
	p.mu.Lock()
	program, done := p.program, p.done
	p.program, p.done = nil, nil
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Wait blocks until the user closes the dashboard.
func (p *TUI) Wait(ctx context.Context) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// DisplaySettings shows the run banner.
func (p *TUI) DisplaySettings(_ context.Context, settings m.RunSettings) {
	p.send(settingsMsg(settings))
}

// DisplayState shows the current search step.
func (p *TUI) DisplayState(_ context.Context, state m.SearchState) {
	p.send(stateMsg(state))
}

// DisplayGeneration updates the progress bar and the fitness trail.
func (p *TUI) DisplayGeneration(_ context.Context, stats m.GenerationStats) {
	p.send(generationMsg(stats))
}

// DisplayResult shows the outcome. Without a running dashboard it prints it.
func (p *TUI) DisplayResult(_ context.Context, result m.RepairResult) {
	if p.send(resultMsg(result)) {
		return
	}

	_, _ = fmt.Fprint(p.output, renderResult(result))
}

// DisplayTestSummary renders the per-test summary.
func (p *TUI) DisplayTestSummary(ctx context.Context, summary m.TestSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.output, renderTestSummary(summary))

	return err
}

// DisplaySuspiciousness renders the ranked lines.
func (p *TUI) DisplaySuspiciousness(ctx context.Context, id m.Identity, scores []m.LineScore) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.output, renderSuspiciousness(id, scores))

	return err
}

// DisplayReport renders a stored report.
func (p *TUI) DisplayReport(ctx context.Context, report m.RepairReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.output, renderReport(report))

	return err
}

func (p *TUI) send(msg tea.Msg) bool {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

type (
	settingsMsg   m.RunSettings
	stateMsg      m.SearchState
	generationMsg m.GenerationStats
	resultMsg     m.RepairResult
)

// dashboardModel is the Bubble Tea model of a running repair.
type dashboardModel struct {
	settings *m.RunSettings
	state    m.SearchState
	latest   *m.GenerationStats
	trail    []float64
	result   *m.RepairResult
	spinner  spinner.Model
	progress progress.Model
	width    int
	onQuit   func()
	quitting bool
}

func newDashboardModel(onQuit func()) dashboardModel {
	return dashboardModel{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		onQuit:   onQuit,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.spinner.Tick
}

func (d dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.progress.Width = max(10, min(60, msg.Width-20))

		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			d.quitting = true
			if d.onQuit != nil {
				d.onQuit()
			}

			return d, tea.Quit
		}

		return d, nil

	case settingsMsg:
		settings := m.RunSettings(msg)
		d.settings = &settings

		return d, nil

	case stateMsg:
		d.state = m.SearchState(msg)
		return d, nil

	case generationMsg:
		stats := m.GenerationStats(msg)
		d.latest = &stats

		d.trail = append(d.trail, stats.BestSoFar)
		if len(d.trail) > trailLength {
			d.trail = d.trail[len(d.trail)-trailLength:]
		}

		return d, nil

	case resultMsg:
		result := m.RepairResult(msg)
		d.result = &result

		return d, nil

	case spinner.TickMsg:
		if d.result != nil {
			return d, nil
		}

		var cmd tea.Cmd

		d.spinner, cmd = d.spinner.Update(msg)

		return d, cmd
	}

	return d, nil
}

func (d dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("genfix") + mutedStyle.Render(" automated program repair") + "\n\n")

	if d.settings != nil {
		cfg := d.settings.Config
		fmt.Fprintf(&b, "  %s (%s)  run %s\n", d.settings.Identity.Name, d.settings.Identity.Module, shortID(d.settings.RunID))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  population %d | rate %.3f | %s/%s/%s | seed %d",
			cfg.PopulationSize, cfg.MutationRate, cfg.Localizer, cfg.Mutator, cfg.Crossover, cfg.Seed)))
		b.WriteString("\n\n")
	}

	if d.result == nil {
		fmt.Fprintf(&b, "  %s %s\n", d.spinner.View(), d.state)
	}

	if d.latest != nil {
		b.WriteString("  " + d.progress.ViewAs(d.ratio()) + "\n")
		fmt.Fprintf(&b, "  generation %d  best %.2f  mean %.2f  compilable %d/%d\n",
			d.latest.Generation, d.latest.BestFitness, d.latest.MeanFitness,
			d.latest.Compilable, d.latest.PopulationSize)
		fmt.Fprintf(&b, "  best so far %s %.2f\n", sparkline(d.trail), d.latest.BestSoFar)
	}

	if d.result != nil {
		b.WriteString("\n" + renderResult(*d.result))
		b.WriteString(mutedStyle.Render("  q: quit") + "\n")
	}

	return b.String()
}

func (d dashboardModel) ratio() float64 {
	if d.settings == nil || d.latest == nil || d.settings.Config.MaxGenerations <= 0 {
		return 0
	}

	return min(1, float64(d.latest.Generation)/float64(d.settings.Config.MaxGenerations))
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	ticks := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}

	out := make([]rune, 0, len(values))

	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(ticks)-1))
		}

		out = append(out, ticks[idx])
	}

	return string(out)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func renderResult(result m.RepairResult) string {
	var b strings.Builder

	headline := failStyle.Render(resultHeadline(result))
	if result.Repaired {
		headline = passStyle.Render(resultHeadline(result))
	}

	b.WriteString(headline + "\n")
	fmt.Fprintf(&b, "fitness %.2f  passing %d/%d  elapsed %s\n",
		result.Fitness, result.Passing, result.Total, result.Elapsed.Round(time.Millisecond))

	if result.Patch.Hunks > 0 {
		fmt.Fprintf(&b, "patch %d hunk(s) %s %s\n", result.Patch.Hunks,
			passStyle.Render(fmt.Sprintf("+%d", result.Patch.Added)),
			failStyle.Render(fmt.Sprintf("-%d", result.Patch.Removed)))
	}

	if result.OutputDir != "" {
		b.WriteString(mutedStyle.Render("saved to "+string(result.OutputDir)) + "\n")
	}

	out := boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"

	if result.Diff != "" {
		out += colorDiff(result.Diff)
	}

	return out
}

func colorDiff(diff string) string {
	var b strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		body := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(mutedStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(passStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(failStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(warnStyle.Render(body))
		default:
			b.WriteString(body)
		}

		if strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderTestSummary(summary m.TestSummary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(summary.Identity.TestFile()) + "\n")

	if summary.Status == m.EvalCompileFailure {
		b.WriteString(failStyle.Render("  does not build with its test suite") + "\n")
		return b.String()
	}

	for _, o := range summary.Outcomes {
		if o.Passed {
			fmt.Fprintf(&b, "  %s %s\n", passStyle.Render("✓"), o.Name)
		} else {
			fmt.Fprintf(&b, "  %s %s\n", failStyle.Render("✗"), o.Name)
		}
	}

	fmt.Fprintf(&b, "\n  passed %d/%d\n", summary.Passed(), len(summary.Outcomes))

	return b.String()
}

func renderSuspiciousness(id m.Identity, scores []m.LineScore) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(id.SourceFile()) + "\n")

	if len(scores) == 0 {
		b.WriteString(mutedStyle.Render("  no failing test reaches the program") + "\n")
		return b.String()
	}

	for _, sc := range scores {
		style := mutedStyle

		switch {
		case sc.Score >= 0.75:
			style = failStyle
		case sc.Score >= 0.4:
			style = warnStyle
		}

		fmt.Fprintf(&b, "  %4d  %s  %s\n", sc.Line, style.Render(fmt.Sprintf("%.3f", sc.Score)), sc.Text)
	}

	return b.String()
}

func renderReport(report m.RepairReport) string {
	var b strings.Builder

	outcome := failStyle.Render(report.Outcome)
	if report.Outcome == "succeeded" {
		outcome = passStyle.Render(report.Outcome)
	}

	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(report.Program), outcome)
	fmt.Fprintf(&b, "run %s  module %s  seed %d\n", report.RunID, report.Module, report.Seed)
	fmt.Fprintf(&b, "fitness %.2f  passing %d/%d  generation %d/%d  elapsed %s\n",
		report.Fitness, report.Passing, report.Total, report.Generation, report.Generations, report.Elapsed)
	fmt.Fprintf(&b, "patch %d hunk(s) +%d -%d", report.Patch.Hunks, report.Patch.Added, report.Patch.Removed)

	out := boxStyle.Render(b.String()) + "\n"

	if len(report.History) > 0 {
		trail := make([]float64, 0, len(report.History))
		for _, h := range report.History {
			trail = append(trail, h.BestFitness)
		}

		out += fmt.Sprintf("best fitness by generation %s\n", sparkline(trail))
	}

	return out
}
