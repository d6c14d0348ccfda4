package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"covnet.dev/pkg/covnet/internal/domain"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a previously generated coverage report",
		Long: `View a previously generated coverage report from a reports directory.
With --verbose the per-bin breakdown of every net is shown as well.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(domain.ViewArgs{
				Reports: reportsDir(),
				Verbose: viper.GetBool(verboseFlagName),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
