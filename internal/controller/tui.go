package controller

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"covnet.dev/pkg/covnet/internal/model"
)

var (
	passedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// styleStatus colors a status word for terminal display.
func styleStatus(status string) string {
	switch status {
	case model.Passed.String():
		return passedStyle.Render(status)
	case model.Failed.String():
		return failedStyle.Render(status)
	case model.Skipped.String():
		return skippedStyle.Render(status)
	}

	return status
}

// TUI renders styled output for interactive terminals.
type TUI struct {
	cmd *cobra.Command
	bar progress.Model
}

// NewTUI creates a styled terminal UI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		cmd: cmd,
		bar: progress.New(progress.WithDefaultGradient()),
	}
}

// runProgressModel is a static Bubble Tea model; its View is rendered once
// per progress update rather than inside a running program.
type runProgressModel struct {
	bar        progress.Model
	iterations int
	count      int
	points     int
}

func (m runProgressModel) Init() tea.Cmd {
	return nil
}

func (m runProgressModel) Update(_ tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m runProgressModel) View() string {
	ratio := 0.0
	if m.points > 0 {
		ratio = float64(m.count) / float64(m.points)
	}

	return fmt.Sprintf("%s %d/%d points (%d iterations)",
		m.bar.ViewAs(ratio), m.count, m.points, m.iterations)
}

// ShowSummary implements UI.
func (t *TUI) ShowSummary(report model.Report) error {
	t.cmd.Print(renderSummaryTable(report, styleStatus))
	return nil
}

// ShowDetails implements UI.
func (t *TUI) ShowDetails(report model.Report) error {
	for _, net := range report.Nets {
		title := fmt.Sprintf("%s (%s): %d/%d", net.Name, net.Type, net.Count, net.Goal)
		t.cmd.Printf("%s ...%s\n", titleStyle.Render(title), styleStatus(statusLabel(net.Met)))

		if len(net.Bins) == 0 {
			continue
		}

		t.cmd.Print(renderBinTable(net, styleStatus))

		for _, bin := range net.Bins {
			for _, hit := range bin.Hits {
				t.cmd.Printf("    %s: %s hit %d time(s)\n", bin.Name, hit.Value, hit.Count)
			}
		}
	}

	return nil
}

// ShowScore implements UI.
func (t *TUI) ShowScore(report model.Report) error {
	t.cmd.Printf("%s %s\n", titleStyle.Render("Score:"), scoreLine(report))
	return nil
}

// ShowRunProgress implements UI. The progress model view is redrawn in
// place on the current line.
func (t *TUI) ShowRunProgress(iterations, count, points int) error {
	m := runProgressModel{
		bar:        t.bar,
		iterations: iterations,
		count:      count,
		points:     points,
	}

	t.cmd.Printf("\r%s", m.View())

	return nil
}

// ShowRunComplete implements UI.
func (t *TUI) ShowRunComplete(report model.Report) error {
	t.cmd.Printf("\n%s after %d iteration(s)\n", titleStyle.Render("Run complete"), report.Iterations)

	if err := t.ShowSummary(report); err != nil {
		return err
	}

	return t.ShowScore(report)
}

// ShowDiff implements UI.
func (t *TUI) ShowDiff(diff string) error {
	if diff == "" {
		t.cmd.Println(skippedStyle.Render("Reports are identical"))
		return nil
	}

	t.cmd.Print(diff)

	return nil
}
