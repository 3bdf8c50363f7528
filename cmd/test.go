package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"genfix.dev/pkg/genfix/internal/domain"
)

// testCmd represents the test command.
var testCmd = newTestCmd()

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <dir>",
		Short: "Run the test suite once and show every outcome",
		Long: `Build the program with its test suite and run each test under coverage,
exactly as the repair search evaluates a candidate.

` + projectHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Test(cmd.Context(), domain.TestArgs{
				ProjectArgs: projectArgs(args[0]),
				Timeout:     viper.GetDuration(testTimeoutKey),
			})

			return err
		},
	}

	addProjectFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(testCmd)
}
