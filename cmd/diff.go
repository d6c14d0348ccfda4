package cmd

import (
	"github.com/spf13/cobra"

	"covnet.dev/pkg/covnet/internal/domain"
	m "covnet.dev/pkg/covnet/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <reports-a> <reports-b>",
		Short: "Compare two coverage reports",
		Long: `Compare the text reports of two runs and print a unified diff.
Useful for spotting regressions between seeds or plan revisions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Diff(domain.DiffArgs{
				ReportsA: m.Path(args[0]),
				ReportsB: m.Path(args[1]),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
