package cmd

import (
	"github.com/spf13/cobra"

	"covnet.dev/pkg/covnet/internal/domain"
)

// scoreCmd represents the score command.
var scoreCmd = newScoreCmd()

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the coverage score of a report",
		Long:  "Print the single-line coverage score of a previously generated report.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Score(domain.ScoreArgs{Reports: reportsDir()})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
