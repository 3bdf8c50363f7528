// Package cmd provides the root command and CLI setup for genfix.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"genfix.dev/pkg/genfix/internal/adapter"
	"genfix.dev/pkg/genfix/internal/controller"
	"genfix.dev/pkg/genfix/internal/domain"
	m "genfix.dev/pkg/genfix/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write results.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string
var metricsFlag bool

// programNameFlag overrides the program base name derived from the directory.
var programNameFlag string

var metricsShutdown shutdownFunc = noopShutdown

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewLocalReportStore(fsAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		goFileAdapter,
		reportStore,
		ui,
		newTestRunner,
	)
}

// newTestRunner builds the go toolchain runner for one command invocation.
func newTestRunner(timeout time.Duration) adapter.TestRunnerAdapter {
	return adapter.NewLocalTestRunnerAdapter(fsAdapter, timeout)
}

const projectHelp = `A project directory holds <name>.go, <name>_test.go and optionally a
go.mod naming the module path. <name> defaults to the directory base name.`

const rootLongDescription = `Genfix is an automated program repair tool for Go. Given a buggy source
file and a test suite that exposes the defect, it runs a genetic search
guided by spectrum-based fault localization for a variant of the file that
passes every test.

` + projectHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "genfix",
		Short:             "Go automated program repair tool",
		Long:              rootLongDescription,
		SilenceUsage:      true,
		PersistentPreRunE: setupRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd builds a fresh root command with its persistent flags.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func setupRun(_ *cobra.Command, _ []string) error {
	configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	shutdown, err := setupMetrics(viper.GetBool(metricsKey), logOutput, viper.GetDuration(metricsPeriodKey))
	if err != nil {
		slog.Error("Failed to set up metrics", "error", err)
		return err
	}

	metricsShutdown = shutdown

	return nil
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			defaultOutputDir,
			"output directory for repair results",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVar(&metricsFlag, metricsFlagName, defaultMetrics, "export engine metrics into the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(metricsFlagName), metricsKey)
}

// addProjectFlags registers the flags every project command shares.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&programNameFlag, nameFlagName, "n", "", "program base name (default: directory name)")
}

func projectArgs(dir string) domain.ProjectArgs {
	return domain.ProjectArgs{Dir: m.Path(dir), Name: programNameFlag}
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if shutdownErr := metricsShutdown(context.Background()); shutdownErr != nil {
		slog.Warn("Failed to flush metrics", "error", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}
