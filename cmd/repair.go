package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"genfix.dev/pkg/genfix/internal/domain"
	m "genfix.dev/pkg/genfix/internal/model"
)

const repairLongDescription = `Search for a variant of the program that passes its whole test suite.

The best candidate, the test suite, a unified patch.diff and a report.yaml
are written to <output>/<name>_patches/<n>_succeeded (or _failed).

` + projectHelp

var (
	populationFlag   int
	generationsFlag  int
	mutationRateFlag float64
	seedFlag         int64
	localizerFlag    string
	crossoverFlag    string
	mutatorFlag      string
	crossTypeFlag    bool
	posWeightFlag    float64
	negWeightFlag    float64
	parallelFlag     int
	testTimeoutFlag  string
)

// repairCmd represents the repair command.
var repairCmd = newRepairCmd()

func newRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair <dir>",
		Short: "Search for a patch that makes every test pass",
		Long:  repairLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := workflow.Repair(cmd.Context(), domain.RepairArgs{
				ProjectArgs: projectArgs(args[0]),
				Output:      m.Path(viper.GetString(outputFlagName)),
				Config:      searchConfig(),
			})

			return err
		},
	}

	addProjectFlags(cmd)
	configureRepairFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func configureRepairFlags(cmd *cobra.Command) {
	defaults := m.DefaultSearchConfig()
	flags := cmd.Flags()

	flags.IntVarP(&populationFlag, populationFlagName, "p", defaults.PopulationSize, "population size")
	bindFlagToConfig(flags.Lookup(populationFlagName), populationKey)

	flags.IntVarP(&generationsFlag, generationsFlagName, "g", defaults.MaxGenerations, "maximum number of generations")
	bindFlagToConfig(flags.Lookup(generationsFlagName), generationsKey)

	flags.Float64VarP(&mutationRateFlag, mutationFlagName, "m", defaults.MutationRate, "probability of mutating each individual")
	bindFlagToConfig(flags.Lookup(mutationFlagName), mutationRateKey)

	flags.Int64Var(&seedFlag, seedFlagName, defaults.Seed, "random seed (0 picks a time-based seed)")
	bindFlagToConfig(flags.Lookup(seedFlagName), seedKey)

	flags.StringVar(&localizerFlag, localizerFlagName, defaults.Localizer, "fault localizer: ochiai or tarantula")
	bindFlagToConfig(flags.Lookup(localizerFlagName), localizerKey)

	flags.StringVar(&crossoverFlag, crossoverFlagName, defaults.Crossover, "crossover: raw or ast")
	bindFlagToConfig(flags.Lookup(crossoverFlagName), crossoverKey)

	flags.StringVar(&mutatorFlag, mutatorFlagName, defaults.Mutator, "mutator: classic or binary")
	bindFlagToConfig(flags.Lookup(mutatorFlagName), mutatorKey)

	flags.BoolVar(&crossTypeFlag, crossTypeFlagName, defaults.CrossTypeDonors, "allow donor statements from other receiver types")
	bindFlagToConfig(flags.Lookup(crossTypeFlagName), crossTypeKey)

	flags.Float64Var(&posWeightFlag, posWeightFlagName, defaults.PositiveWeight, "weight of tests the seed already passes")
	bindFlagToConfig(flags.Lookup(posWeightFlagName), posWeightKey)

	flags.Float64Var(&negWeightFlag, negWeightFlagName, defaults.NegativeWeight, "weight of tests the seed fails")
	bindFlagToConfig(flags.Lookup(negWeightFlagName), negWeightKey)

	flags.IntVar(&parallelFlag, parallelFlagName, defaults.Parallel, "number of candidates evaluated in parallel")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelKey)

	flags.StringVar(&testTimeoutFlag, testTimeoutFlagName, defaults.TestTimeout.String(), "timeout for a single test")
	bindFlagToConfig(flags.Lookup(testTimeoutFlagName), testTimeoutKey)
}
