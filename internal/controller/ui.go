// Package controller provides output adapters for displaying repair runs.
package controller

import (
	"context"

	"github.com/spf13/cobra"

	m "genfix.dev/pkg/genfix/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRepair StartMode = iota
	ModeTest
	ModeLocalize
	ModeView
)

func (s StartMode) String() string {
	switch s {
	case ModeRepair:
		return "repair"
	case ModeTest:
		return "test"
	case ModeLocalize:
		return "localize"
	case ModeView:
		return "view"
	default:
		return "unknown"
	}
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	onQuit func()
}

// Mode returns the configured mode.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

// WithRepairMode shows a live view of the generational search.
func WithRepairMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRepair
	}
}

// WithTestMode sets the UI to the per-test summary mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// WithLocalizeMode sets the UI to the suspicious-lines mode.
func WithLocalizeMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeLocalize
	}
}

// WithViewMode sets the UI to the stored-report mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithQuitHandler registers fn to run when the user closes an interactive UI.
func WithQuitHandler(fn func()) StartOption {
	return func(c *StartConfig) {
		c.onQuit = fn
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeRepair}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI displays the progress and outcome of genfix commands.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplaySettings(ctx context.Context, settings m.RunSettings)
	DisplayState(ctx context.Context, state m.SearchState)
	DisplayGeneration(ctx context.Context, stats m.GenerationStats)
	DisplayResult(ctx context.Context, result m.RepairResult)
	DisplayTestSummary(ctx context.Context, summary m.TestSummary) error
	DisplaySuspiciousness(ctx context.Context, id m.Identity, scores []m.LineScore) error
	DisplayReport(ctx context.Context, report m.RepairReport) error
}

// NewUI picks the interactive UI for terminals and plain text otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
