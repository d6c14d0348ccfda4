package controller

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"covnet.dev/pkg/covnet/internal/model"
)

// SimpleUI renders plain, uncolored text through the cobra command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a plain-text UI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// statusLabel maps the tri-state met field onto the report status word.
func statusLabel(met *bool) string {
	if met == nil {
		return model.Skipped.String()
	}

	if *met {
		return model.Passed.String()
	}

	return model.Failed.String()
}

// scoreLine formats the score of a report, e.g. "87.5 % (35/40 goals)".
func scoreLine(report model.Report) string {
	if report.Score == nil {
		return fmt.Sprintf("N/A (%d/%d goals)", report.Count, report.Points)
	}

	return fmt.Sprintf("%s %% (%d/%d goals)",
		strconv.FormatFloat(*report.Score, 'f', -1, 64), report.Count, report.Points)
}

// renderSummaryTable renders the one-row-per-net overview. The style
// function decorates status words; the plain UI passes identity.
func renderSummaryTable(report model.Report, style func(status string) string) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"NET", "KIND", "COVERED", "STATUS"})
	// The footer carries the verbatim score line; auto-formatting would
	// uppercase it.
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, net := range report.Nets {
		table.Append([]string{
			net.Name,
			net.Type,
			fmt.Sprintf("%d/%d", net.Count, net.Goal),
			style(statusLabel(net.Met)),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d nets", len(report.Nets)),
		"",
		scoreLine(report),
		style(statusLabel(report.Met)),
	})

	table.Render()

	return buf.String()
}

// renderBinTable renders one net's bins.
func renderBinTable(net model.NetReport, style func(status string) string) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Bin", "Count", "Goal", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, bin := range net.Bins {
		table.Append([]string{
			bin.Name,
			strconv.Itoa(bin.Count),
			strconv.Itoa(bin.Goal),
			style(statusLabel(bin.Met)),
		})
	}

	table.Render()

	return buf.String()
}

// ShowSummary implements UI.
func (s *SimpleUI) ShowSummary(report model.Report) error {
	s.cmd.Print(renderSummaryTable(report, func(status string) string { return status }))
	return nil
}

// ShowDetails implements UI.
func (s *SimpleUI) ShowDetails(report model.Report) error {
	plain := func(status string) string { return status }

	for _, net := range report.Nets {
		s.cmd.Printf("%s (%s): %d/%d ...%s\n", net.Name, net.Type, net.Count, net.Goal, statusLabel(net.Met))

		if len(net.Bins) == 0 {
			continue
		}

		s.cmd.Print(renderBinTable(net, plain))

		for _, bin := range net.Bins {
			for _, hit := range bin.Hits {
				s.cmd.Printf("    %s: %s hit %d time(s)\n", bin.Name, hit.Value, hit.Count)
			}
		}
	}

	return nil
}

// ShowScore implements UI.
func (s *SimpleUI) ShowScore(report model.Report) error {
	s.cmd.Printf("Score: %s\n", scoreLine(report))
	return nil
}

// ShowRunProgress implements UI.
func (s *SimpleUI) ShowRunProgress(iterations, count, points int) error {
	s.cmd.Printf("coverage: %d/%d points after %d iteration(s)\n", count, points, iterations)
	return nil
}

// ShowRunComplete implements UI.
func (s *SimpleUI) ShowRunComplete(report model.Report) error {
	s.cmd.Printf("Run complete after %d iteration(s)\n", report.Iterations)

	if err := s.ShowSummary(report); err != nil {
		return err
	}

	return s.ShowScore(report)
}

// ShowDiff implements UI.
func (s *SimpleUI) ShowDiff(diff string) error {
	if diff == "" {
		s.cmd.Println("Reports are identical")
		return nil
	}

	s.cmd.Print(diff)

	return nil
}
