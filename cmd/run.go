package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covnet.dev/pkg/covnet/internal/domain"
	m "covnet.dev/pkg/covnet/internal/model"
)

var runPlanFlag string
var runSeedFlag int64
var runTimeoutFlag int
var runGuidedFlag bool
var runVectorsFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run coverage-driven random stimulus for a plan",
		Long: `Run drives randomized values into the signals a coverage plan declares
until every net meets its goal or the attempt budget runs out, then writes
the coverage reports. With --vectors the applied stimulus is also recorded,
one transaction per line, for replay against a testbench.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			plan, err := loadPlan(viper.GetString(planFlagName))
			if err != nil {
				return err
			}

			return workflow.Run(domain.RunArgs{
				Plan:    plan,
				Seed:    viper.GetInt64(seedConfigKey),
				Timeout: viper.GetInt(timeoutConfigKey),
				Guided:  viper.GetBool(guidedConfigKey),
				Reports: reportsDir(),
				Vectors: m.Path(viper.GetString(vectorsConfigKey)),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runPlanFlag, planFlagName, "p", viper.GetString(planFlagName), "coverage plan file")
	bindFlagToConfig(cmd.Flags().Lookup(planFlagName), planFlagName)

	cmd.Flags().Int64VarP(&runSeedFlag, seedFlagName, "s", viper.GetInt64(seedConfigKey), "seed for the random stimulus source")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedConfigKey)

	cmd.Flags().IntVarP(&runTimeoutFlag, timeoutFlagName, "t", viper.GetInt(timeoutConfigKey), "attempt budget before completion is forced (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutConfigKey)

	cmd.Flags().BoolVarP(&runGuidedFlag, guidedFlagName, "g", viper.GetBool(guidedConfigKey), "steer stimulus toward unmet goals instead of pure random search")
	bindFlagToConfig(cmd.Flags().Lookup(guidedFlagName), guidedConfigKey)

	cmd.Flags().StringVar(&runVectorsFlag, vectorsFlagName, viper.GetString(vectorsConfigKey), "stimulus vector output file (empty disables)")
	bindFlagToConfig(cmd.Flags().Lookup(vectorsFlagName), vectorsConfigKey)
}

// loadPlan reads and decodes a coverage plan file.
func loadPlan(path string) (m.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return m.Plan{}, fmt.Errorf("failed to read plan %s: %w", path, err)
	}

	return m.DecodePlan(data)
}
