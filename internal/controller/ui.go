// Package controller renders coverage runs and reports for the terminal.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"covnet.dev/pkg/covnet/internal/model"
)

// UI defines how coverage results reach the user. Implementations differ in
// presentation (plain text vs. styled TTY output), not in content.
type UI interface {
	// ShowSummary displays the one-row-per-net overview of a report.
	ShowSummary(report model.Report) error
	// ShowDetails displays every net's bins, counts, and recorded hits.
	ShowDetails(report model.Report) error
	// ShowScore displays the score line of a report.
	ShowScore(report model.Report) error
	// ShowRunProgress displays in-flight progress of a drive loop.
	ShowRunProgress(iterations, count, points int) error
	// ShowRunComplete displays the final state of a finished run.
	ShowRunComplete(report model.Report) error
	// ShowDiff displays a unified diff of two text reports.
	ShowDiff(diff string) error
}

// NewUI selects the renderer: styled output on a TTY, plain text otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
