package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"genfix.dev/pkg/genfix/internal/domain"
)

var localizeTopFlag int
var localizeLocalizerFlag string

// localizeCmd represents the localize command.
var localizeCmd = newLocalizeCmd()

func newLocalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localize <dir>",
		Short: "Rank source lines by suspiciousness",
		Long: `Run the test suite once and rank the lines executed by failing tests
with the Ochiai or Tarantula formula.

` + projectHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			localizer := localizeLocalizerFlag
			if !cmd.Flags().Changed(localizerFlagName) {
				localizer = viper.GetString(localizerKey)
			}

			_, err := workflow.Localize(cmd.Context(), domain.LocalizeArgs{
				ProjectArgs: projectArgs(args[0]),
				Localizer:   localizer,
				Top:         localizeTopFlag,
				Timeout:     viper.GetDuration(testTimeoutKey),
			})

			return err
		},
	}

	addProjectFlags(cmd)
	cmd.Flags().IntVarP(&localizeTopFlag, topFlagName, "t", defaultTop, "number of lines to show (0 shows all)")
	cmd.Flags().StringVar(&localizeLocalizerFlag, localizerFlagName, "", "fault localizer: ochiai or tarantula (default from config)")

	return cmd
}

func init() {
	rootCmd.AddCommand(localizeCmd)
}
