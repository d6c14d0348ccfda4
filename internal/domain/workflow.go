package domain

import (
	"fmt"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"covnet.dev/pkg/covnet/internal/adapter"
	"covnet.dev/pkg/covnet/internal/controller"
	"covnet.dev/pkg/covnet/internal/model"
)

// RunArgs configures a coverage-driven stimulus run.
type RunArgs struct {
	Plan model.Plan
	Seed int64
	// Timeout is the attempt budget passed to Met; 0 or below disables
	// forced completion.
	Timeout int
	// Guided steers stimulus by advancing the first failing net each
	// iteration instead of relying on pure random search.
	Guided bool
	// Reports is the directory receiving coverage.json and coverage.txt.
	Reports model.Path
	// Vectors is the stimulus-vector output file; empty disables it.
	Vectors model.Path
	// ProgressEvery throttles progress display to every n-th iteration.
	ProgressEvery int
}

// ViewArgs configures report viewing.
type ViewArgs struct {
	Reports model.Path
	Verbose bool
}

// ScoreArgs configures the score query.
type ScoreArgs struct {
	Reports model.Path
}

// DiffArgs names the two run directories to compare.
type DiffArgs struct {
	ReportsA model.Path
	ReportsB model.Path
}

// ListArgs configures the plan overview.
type ListArgs struct {
	Plan model.Plan
}

// Workflow wires the coverage engine to its adapters for the CLI commands.
type Workflow interface {
	Run(args RunArgs) error
	View(args ViewArgs) error
	Score(args ScoreArgs) error
	Diff(args DiffArgs) error
	List(args ListArgs) error
}

type workflow struct {
	store   adapter.ReportStore
	vectors adapter.VectorStore
	ui      controller.UI
}

// NewWorkflow creates a Workflow instance.
func NewWorkflow(store adapter.ReportStore, vectors adapter.VectorStore, ui controller.UI) Workflow {
	return &workflow{
		store:   store,
		vectors: vectors,
		ui:      ui,
	}
}

// storeSink adapts the report store to the session's persistence hook,
// binding it to one run directory.
type storeSink struct {
	store adapter.ReportStore
	dir   model.Path
}

func (s storeSink) Save(report model.Report, text string) error {
	return s.store.Save(s.dir, report, text)
}

// Run drives randomized stimulus until the plan's coverage is met or the
// attempt budget runs out, then renders the final report.
func (w *workflow) Run(args RunArgs) error {
	session := NewSession(SessionConfig{
		Seed:        args.Seed,
		MaxAttempts: args.Timeout,
		Sink:        storeSink{store: w.store, dir: args.Reports},
	})

	design, err := BuildPlan(session, args.Plan)
	if err != nil {
		return err
	}

	if len(session.Nets()) == 0 {
		return fmt.Errorf("coverage plan declares no nets")
	}

	var vec adapter.VectorFile

	if args.Vectors != "" {
		vec, err = w.vectors.Open(args.Vectors, design.Names())
		if err != nil {
			return err
		}

		defer vec.Close()
	}

	progressEvery := args.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 1000
	}

	slog.Info("starting coverage run",
		"seed", args.Seed, "timeout", args.Timeout, "nets", len(session.Nets()))

	for {
		done, err := session.Met(args.Timeout)
		if err != nil {
			return err
		}

		if done {
			break
		}

		design.Randomize(session.Rng())

		if args.Guided {
			w.guide(session)
		}

		if vec != nil {
			row := make([]int64, 0, len(design.Names()))
			for _, sig := range design.Signals() {
				row = append(row, sig.Int())
			}

			if err := vec.Push(row); err != nil {
				return err
			}
		}

		w.observe(session)

		if session.Count()%progressEvery == 0 {
			count, points := session.tally()
			if err := w.ui.ShowRunProgress(session.Count(), count, points); err != nil {
				return err
			}
		}
	}

	return w.ui.ShowRunComplete(session.Snapshot())
}

// guide advances the first failing net that can accept a proposal, writing
// the proposed values into its source signals before the next observation.
func (w *workflow) guide(session *Session) {
	for _, net := range session.FailingNets() {
		if !net.HasSource() {
			continue
		}

		values, err := net.Advance(true)
		if err != nil {
			slog.Debug("cannot advance net", "name", net.Name(), "error", err)
			continue
		}

		if values == nil {
			continue
		}

		sources := net.Sources()

		for i, v := range values {
			if i >= len(sources) {
				break
			}

			sources[i].Assign(v)
		}

		return
	}
}

// observe checks every net against its sink signals' current values.
func (w *workflow) observe(session *Session) {
	for _, net := range session.Nets() {
		if !net.HasSink() {
			continue
		}

		sinks := net.Sinks()

		values := make([]int64, 0, len(sinks))
		for _, sink := range sinks {
			values = append(values, sink.Int())
		}

		if _, err := net.Check(values...); err != nil {
			slog.Debug("skipping check", "name", net.Name(), "error", err)
		}
	}
}

// View renders a previously saved report.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.store.Load(args.Reports)
	if err != nil {
		return err
	}

	if err := w.ui.ShowSummary(report); err != nil {
		return err
	}

	if args.Verbose {
		return w.ui.ShowDetails(report)
	}

	return nil
}

// Score prints the score line of a previously saved report.
func (w *workflow) Score(args ScoreArgs) error {
	report, err := w.store.Load(args.Reports)
	if err != nil {
		return err
	}

	return w.ui.ShowScore(report)
}

// Diff compares the text reports of two runs.
func (w *workflow) Diff(args DiffArgs) error {
	textA, err := w.store.LoadText(args.ReportsA)
	if err != nil {
		return err
	}

	textB, err := w.store.LoadText(args.ReportsB)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(textA),
		B:        difflib.SplitLines(textB),
		FromFile: string(args.ReportsA),
		ToFile:   string(args.ReportsB),
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("failed to diff reports: %w", err)
	}

	return w.ui.ShowDiff(diff)
}

// List shows the nets a plan declares, with their partition structure,
// before any stimulus runs.
func (w *workflow) List(args ListArgs) error {
	session := NewSession(SessionConfig{})

	if _, err := BuildPlan(session, args.Plan); err != nil {
		return err
	}

	return w.ui.ShowSummary(session.Snapshot())
}
