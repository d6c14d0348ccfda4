// Package cmd provides the root command and CLI setup for covnet.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"covnet.dev/pkg/covnet/internal/adapter"
	"covnet.dev/pkg/covnet/internal/controller"
	"covnet.dev/pkg/covnet/internal/domain"
	m "covnet.dev/pkg/covnet/internal/model"
)

var reportStore adapter.ReportStore
var vectorStore adapter.VectorStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that
// read/write coverage reports.
var reportsOutputDirFlag string

// verboseFlag raises the log level and, where applicable, report detail.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	reportStore = adapter.NewReportStore()
	vectorStore = adapter.NewVectorStore()
	workflow = domain.NewWorkflow(reportStore, vectorStore, ui)
}

const rootLongDescription = `Covnet is a functional-coverage engine for randomized hardware
verification. It declares measurable coverage objectives (nets) over the
sampled values of a design, scores a run as stimulus is applied, steers
generation toward unmet goals, and renders terminal and JSON reports.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "covnet",
		Short: "Functional coverage for randomized verification",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"directory for coverage reports (coverage.txt, coverage.json)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable verbose output and debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), verboseFlagName)
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
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func reportsDir() m.Path {
	return m.Path(viper.GetString(outputFlagName))
}
