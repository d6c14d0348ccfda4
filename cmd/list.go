package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covnet.dev/pkg/covnet/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the nets and goal points of a coverage plan",
		Long:  "List the nets a coverage plan declares together with their goal point totals, without running any stimulus.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			plan, err := loadPlan(viper.GetString(planFlagName))
			if err != nil {
				return err
			}

			return workflow.List(domain.ListArgs{Plan: plan})
		},
	}

	configureListFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func configureListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runPlanFlag, planFlagName, "p", viper.GetString(planFlagName), "coverage plan file")
	bindFlagToConfig(cmd.Flags().Lookup(planFlagName), planFlagName)
}
