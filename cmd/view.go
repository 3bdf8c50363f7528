package cmd

import (
	"github.com/spf13/cobra"

	"genfix.dev/pkg/genfix/internal/domain"
	m "genfix.dev/pkg/genfix/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <result-dir>",
		Short: "View a stored repair report",
		Long:  "View the report.yaml of a result directory written by genfix repair.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.View(cmd.Context(), domain.ViewArgs{Path: m.Path(args[0])})
			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
