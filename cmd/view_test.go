package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"genfix.dev/pkg/genfix/internal/domain"
	domainmocks "genfix.dev/pkg/genfix/internal/domain/mocks"
	m "genfix.dev/pkg/genfix/internal/model"
)

// useWorkflow swaps the package workflow for the duration of a test.
func useWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	originalWorkflow := workflow
	workflow = wf

	t.Cleanup(func() { workflow = originalWorkflow })
}

func executeWith(t *testing.T, sub func() *cobra.Command, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestViewCmd_PassesResultDir(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("View", mock.Anything, mock.MatchedBy(func(args domain.ViewArgs) bool {
		return args.Path == m.Path(".genfix/counter_patches/1_succeeded")
	})).Return(m.RepairReport{}, nil)

	err := executeWith(t, newViewCmd, "view", ".genfix/counter_patches/1_succeeded")
	require.NoError(t, err)
}

func TestViewCmd_RequiresOneArg(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	require.Error(t, executeWith(t, newViewCmd, "view"))
	require.Error(t, executeWith(t, newViewCmd, "view", "a", "b"))
}

func TestViewCmd_PropagatesError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	useWorkflow(t, mockWorkflow)

	mockWorkflow.On("View", mock.Anything, mock.Anything).Return(m.RepairReport{}, errors.New("no report"))

	err := executeWith(t, newViewCmd, "view", "missing")
	require.ErrorContains(t, err, "no report")
}
