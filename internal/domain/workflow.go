package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"genfix.dev/pkg/genfix/internal/adapter"
	"genfix.dev/pkg/genfix/internal/controller"
	m "genfix.dev/pkg/genfix/internal/model"
	"genfix.dev/pkg/genfix/pkg"
)

// ProjectArgs locates a program and its test suite on disk.
type ProjectArgs struct {
	Dir m.Path
	// Name is the file base name, <Name>.go and <Name>_test.go. Defaults to
	// the base name of Dir.
	Name string
}

// RepairArgs contains the arguments of a repair run.
type RepairArgs struct {
	ProjectArgs
	Output m.Path
	Config m.SearchConfig
}

// TestArgs contains the arguments for evaluating a program once.
type TestArgs struct {
	ProjectArgs
	Timeout time.Duration
}

// LocalizeArgs contains the arguments for ranking suspicious lines.
type LocalizeArgs struct {
	ProjectArgs
	Localizer string
	Top       int
	Timeout   time.Duration
}

// ViewArgs points at a stored repair result.
type ViewArgs struct {
	Path m.Path
}

// Workflow is the entry point of every genfix command.
type Workflow interface {
	Repair(ctx context.Context, args RepairArgs) (m.RepairResult, error)
	Test(ctx context.Context, args TestArgs) (m.TestSummary, error)
	Localize(ctx context.Context, args LocalizeArgs) ([]m.LineScore, error)
	View(ctx context.Context, args ViewArgs) (m.RepairReport, error)
}

// RunnerFactory builds the evaluation collaborator for a per-test timeout.
type RunnerFactory func(timeout time.Duration) adapter.TestRunnerAdapter

type workflow struct {
	fs       adapter.SourceFSAdapter
	goFiles  adapter.GoFileAdapter
	reports  adapter.ReportStore
	ui       controller.UI
	runner   RunnerFactory
	validate *validator.Validate
	spillDir string
}

// WorkflowOption customizes NewWorkflow.
type WorkflowOption func(*workflow)

// WithSpillDir keeps the per-run generation history under dir.
func WithSpillDir(dir string) WorkflowOption {
	return func(w *workflow) {
		w.spillDir = dir
	}
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	goFileAdapter adapter.GoFileAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	runner RunnerFactory,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		fs:       fsAdapter,
		goFiles:  goFileAdapter,
		reports:  reportStore,
		ui:       ui,
		runner:   runner,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// NewStrategies wires the operators selected by cfg.
func NewStrategies(cfg m.SearchConfig) *Strategies {
	return &Strategies{
		Mutator:   NewMutator(cfg.Mutator, cfg.CrossTypeDonors),
		Crossover: NewCrossover(cfg.Crossover, cfg.CrossoverAttempts),
		Localizer: NewLocalizer(cfg.Localizer),
		Fitness:   NewWeightedFitness(cfg.PositiveWeight, cfg.NegativeWeight),
	}
}

// Repair searches for a variant of the program that passes its whole suite
// and stores the best candidate found under args.Output.
func (w *workflow) Repair(ctx context.Context, args RepairArgs) (m.RepairResult, error) {
	cfg := args.Config

	if err := w.validate.Struct(cfg); err != nil {
		slog.Error("Invalid search configuration", "error", err)
		return m.RepairResult{}, fmt.Errorf("invalid search configuration: %w", err)
	}

	project, err := w.loadProject(ctx, args.ProjectArgs)
	if err != nil {
		return m.RepairResult{}, err
	}

	runID := uuid.NewString()

	rng, seed := NewRand(cfg.Seed)
	cfg.Seed = seed

	logger := slog.With("run", runID, "program", project.Identity.Name)

	history, err := pkg.NewFileSpill[m.GenerationStats](pkg.WithDir(w.spillDir), pkg.WithPattern("history-*.gob"))
	if err != nil {
		return m.RepairResult{}, fmt.Errorf("create generation history: %w", err)
	}

	defer func() {
		if err := history.Remove(); err != nil {
			logger.Warn("Failed to remove generation history", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := w.ui.Start(ctx, controller.WithRepairMode(), controller.WithQuitHandler(cancel)); err != nil {
		logger.Error("Failed to start repair UI", "error", err)
		return m.RepairResult{}, err
	}

	w.ui.DisplaySettings(ctx, m.RunSettings{RunID: runID, Identity: project.Identity, Config: cfg})
	logger.Info("Starting repair", "population", cfg.PopulationSize, "generations", cfg.MaxGenerations, "seed", seed)

	started := time.Now()

	seedCandidate := NewCandidate(project.Identity, project.Source, project.Suite, w.runner(cfg.TestTimeout), NewStrategies(cfg))
	search := NewSearch(cfg, rng, NewBinaryTournament(), &runObserver{ui: w.ui, history: history})

	found, err := search.Run(ctx, seedCandidate)
	if err != nil {
		w.ui.Close(ctx)
		logger.Error("Repair search failed", "error", err)

		return m.RepairResult{}, fmt.Errorf("repair %s: %w", project.Identity.Name, err)
	}

	result, err := w.buildResult(runID, project, seedCandidate, found, time.Since(started))
	if err != nil {
		w.ui.Close(ctx)
		return m.RepairResult{}, err
	}

	if args.Output != "" {
		report, err := buildReport(result, seed, history)
		if err != nil {
			w.ui.Close(ctx)
			return m.RepairResult{}, err
		}

		dir, err := w.reports.SaveRepair(args.Output, project, result, report)
		if err != nil {
			w.ui.Close(ctx)
			logger.Error("Failed to save repair", "error", err)

			return m.RepairResult{}, fmt.Errorf("save repair: %w", err)
		}

		result.OutputDir = dir
	}

	logger.Info("Repair finished", "repaired", result.Repaired, "fitness", result.Fitness, "generation", result.Generation)

	w.ui.DisplayResult(ctx, result)
	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	return result, nil
}

// Test evaluates the seed once and reports every test outcome.
func (w *workflow) Test(ctx context.Context, args TestArgs) (m.TestSummary, error) {
	project, err := w.loadProject(ctx, args.ProjectArgs)
	if err != nil {
		return m.TestSummary{}, err
	}

	c := NewCandidate(project.Identity, project.Source, project.Suite, w.runner(args.Timeout), NewStrategies(m.DefaultSearchConfig()))

	status, err := c.Evaluate(ctx)
	if err != nil {
		return m.TestSummary{}, fmt.Errorf("evaluate %s: %w", project.Identity.Name, err)
	}

	summary := m.TestSummary{Identity: project.Identity, Status: status}

	for _, name := range c.Passing() {
		summary.Outcomes = append(summary.Outcomes, m.TestOutcome{Name: name, Passed: true})
	}

	for _, name := range c.Failing() {
		summary.Outcomes = append(summary.Outcomes, m.TestOutcome{Name: name})
	}

	sort.Slice(summary.Outcomes, func(i, j int) bool {
		return summary.Outcomes[i].Name < summary.Outcomes[j].Name
	})

	if err := w.display(ctx, controller.WithTestMode(), func() error {
		return w.ui.DisplayTestSummary(ctx, summary)
	}); err != nil {
		return m.TestSummary{}, err
	}

	return summary, nil
}

// Localize ranks the program lines by suspiciousness.
func (w *workflow) Localize(ctx context.Context, args LocalizeArgs) ([]m.LineScore, error) {
	project, err := w.loadProject(ctx, args.ProjectArgs)
	if err != nil {
		return nil, err
	}

	cfg := m.DefaultSearchConfig()
	if args.Localizer != "" {
		cfg.Localizer = args.Localizer
	}

	c := NewCandidate(project.Identity, project.Source, project.Suite, w.runner(args.Timeout), NewStrategies(cfg))

	scores, err := c.Suspiciousness(ctx)
	if err != nil {
		return nil, fmt.Errorf("localize %s: %w", project.Identity.Name, err)
	}

	top := args.Top
	if top <= 0 {
		top = -1
	}

	ranked := make([]m.LineScore, 0, len(scores))
	for _, line := range scores.Top(top) {
		text := ""
		if line >= 1 && line <= len(project.Source) {
			text = strings.TrimSpace(project.Source[line-1])
		}

		ranked = append(ranked, m.LineScore{Line: line, Score: scores[line], Text: text})
	}

	if err := w.display(ctx, controller.WithLocalizeMode(), func() error {
		return w.ui.DisplaySuspiciousness(ctx, project.Identity, ranked)
	}); err != nil {
		return nil, err
	}

	return ranked, nil
}

// View loads and displays a stored repair report.
func (w *workflow) View(ctx context.Context, args ViewArgs) (m.RepairReport, error) {
	report, err := w.reports.LoadReport(args.Path)
	if err != nil {
		slog.Error("Failed to load report", "path", args.Path, "error", err)
		return m.RepairReport{}, fmt.Errorf("load report: %w", err)
	}

	if err := w.display(ctx, controller.WithViewMode(), func() error {
		return w.ui.DisplayReport(ctx, report)
	}); err != nil {
		return m.RepairReport{}, err
	}

	return report, nil
}

func (w *workflow) display(ctx context.Context, mode controller.StartOption, show func() error) error {
	if err := w.ui.Start(ctx, mode); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	if err := show(); err != nil {
		w.ui.Close(ctx)
		slog.Error("Failed to display", "error", err)

		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)
	w.ui.Close(ctx)

	return nil
}

// loadProject reads <name>.go, <name>_test.go and the optional go.mod.
func (w *workflow) loadProject(ctx context.Context, args ProjectArgs) (m.Project, error) {
	if err := ctx.Err(); err != nil {
		return m.Project{}, err
	}

	info, err := w.fs.FileInfo(args.Dir)
	if err != nil {
		return m.Project{}, fmt.Errorf("open project %s: %w", args.Dir, err)
	}

	if !info.IsDir() {
		return m.Project{}, fmt.Errorf("project %s is not a directory", args.Dir)
	}

	name := args.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(string(args.Dir)))
	}

	module, goVersion, err := w.readModule(args.Dir)
	if err != nil {
		return m.Project{}, err
	}

	identity := m.NewIdentity(name, module)
	identity.GoVersion = goVersion

	source, err := w.fs.ReadLines(w.fs.JoinPath(string(args.Dir), identity.SourceFile()))
	if err != nil {
		return m.Project{}, fmt.Errorf("read program: %w", err)
	}

	testPath := w.fs.JoinPath(string(args.Dir), identity.TestFile())

	testSrc, err := w.fs.ReadFile(testPath)
	if err != nil {
		return m.Project{}, fmt.Errorf("read test suite: %w", err)
	}

	tests, err := w.goFiles.TestFunctions(ctx, string(testPath), testSrc)
	if err != nil {
		return m.Project{}, fmt.Errorf("inspect test suite: %w", err)
	}

	if len(tests) == 0 {
		return m.Project{}, fmt.Errorf("%s: %w", testPath, m.ErrNoTests)
	}

	slog.Debug("Loaded project", "program", identity.Name, "module", identity.Module, "tests", len(tests))

	return m.Project{
		Dir:      args.Dir,
		Identity: identity,
		Source:   source,
		Suite:    m.TestSuite{Name: strings.TrimSuffix(identity.TestFile(), ".go"), Lines: adapter.SplitLines(testSrc)},
	}, nil
}

// readModule returns the module path and go directive declared in
// dir/go.mod, both empty without one.
func (w *workflow) readModule(dir m.Path) (string, string, error) {
	content, err := w.fs.ReadFile(w.fs.JoinPath(string(dir), "go.mod"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", nil
	}

	if err != nil {
		return "", "", fmt.Errorf("read go.mod: %w", err)
	}

	module, err := w.goFiles.ModulePath(content)
	if err != nil {
		return "", "", fmt.Errorf("parse go.mod: %w", err)
	}

	return module, w.goFiles.GoVersion(content), nil
}

func (w *workflow) buildResult(
	runID string,
	project m.Project,
	seed *Candidate,
	found SearchResult,
	elapsed time.Duration,
) (m.RepairResult, error) {
	best := found.Best

	diff, err := UnifiedDiff(project.Identity, project.Source, best.Lines())
	if err != nil {
		return m.RepairResult{}, fmt.Errorf("diff result: %w", err)
	}

	stats, err := DiffStats(diff)
	if err != nil {
		return m.RepairResult{}, fmt.Errorf("patch stats: %w", err)
	}

	return m.RepairResult{
		RunID:       runID,
		Identity:    project.Identity,
		Repaired:    found.Repaired,
		Fitness:     found.Fitness,
		Generation:  found.Generation,
		Generations: found.Generations,
		Source:      best.Lines(),
		Passing:     len(best.Passing()),
		Total:       len(seed.Passing()) + len(seed.Failing()),
		Elapsed:     elapsed,
		Diff:        diff,
		Patch:       stats,
	}, nil
}

func buildReport(result m.RepairResult, seed int64, history pkg.FileSpill[m.GenerationStats]) (m.RepairReport, error) {
	generations, err := history.Items()
	if err != nil {
		return m.RepairReport{}, fmt.Errorf("read generation history: %w", err)
	}

	items := make([]m.HistoryItem, 0, len(generations))
	for _, g := range generations {
		items = append(items, m.HistoryItem{
			Generation:  g.Generation,
			BestFitness: g.BestFitness,
			MeanFitness: g.MeanFitness,
			Compilable:  g.Compilable,
		})
	}

	outcome := "failed"
	if result.Repaired {
		outcome = "succeeded"
	}

	return m.RepairReport{
		RunID:       result.RunID,
		Program:     result.Identity.Name,
		Module:      result.Identity.Module,
		Outcome:     outcome,
		Fitness:     result.Fitness,
		Generation:  result.Generation,
		Generations: result.Generations,
		Passing:     result.Passing,
		Total:       result.Total,
		Elapsed:     result.Elapsed.Round(time.Millisecond).String(),
		Seed:        seed,
		Patch:       result.Patch,
		History:     items,
	}, nil
}

// runObserver forwards search progress to the UI and spills every
// generation to disk for the report.
type runObserver struct {
	ui      controller.UI
	history pkg.FileSpill[m.GenerationStats]
}

func (o *runObserver) OnState(ctx context.Context, state m.SearchState) {
	o.ui.DisplayState(ctx, state)
}

func (o *runObserver) OnGeneration(ctx context.Context, stats m.GenerationStats) {
	if err := o.history.Append(stats); err != nil {
		slog.Warn("Failed to record generation", "generation", stats.Generation, "error", err)
	}

	o.ui.DisplayGeneration(ctx, stats)
}
