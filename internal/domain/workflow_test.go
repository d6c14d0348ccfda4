package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"covnet.dev/pkg/covnet/internal/adapter"
	"covnet.dev/pkg/covnet/internal/model"
)

// fakeUI records what the workflow asked to display.
type fakeUI struct {
	summaries []model.Report
	details   []model.Report
	scores    []model.Report
	progress  int
	completes []model.Report
	diffs     []string
}

func (f *fakeUI) ShowSummary(report model.Report) error {
	f.summaries = append(f.summaries, report)
	return nil
}

func (f *fakeUI) ShowDetails(report model.Report) error {
	f.details = append(f.details, report)
	return nil
}

func (f *fakeUI) ShowScore(report model.Report) error {
	f.scores = append(f.scores, report)
	return nil
}

func (f *fakeUI) ShowRunProgress(_, _, _ int) error {
	f.progress++
	return nil
}

func (f *fakeUI) ShowRunComplete(report model.Report) error {
	f.completes = append(f.completes, report)
	return nil
}

func (f *fakeUI) ShowDiff(diff string) error {
	f.diffs = append(f.diffs, diff)
	return nil
}

func smallPlan() model.Plan {
	return model.Plan{
		Version: model.PlanVersion,
		Signals: []model.SignalPlan{{Name: "data", Width: 2}},
		Nets: []model.NetPlan{
			{Kind: "range", Name: "data values", Target: []string{"data"}},
		},
	}
}

func newTestWorkflow() (Workflow, *fakeUI) {
	ui := &fakeUI{}
	return NewWorkflow(adapter.NewReportStore(), adapter.NewVectorStore(), ui), ui
}

func TestWorkflow_Run_GuidedMeetsCoverage(t *testing.T) {
	w, ui := newTestWorkflow()
	dir := t.TempDir()

	err := w.Run(RunArgs{
		Plan:    smallPlan(),
		Seed:    1,
		Timeout: 200,
		Guided:  true,
		Reports: model.Path(dir),
	})
	require.NoError(t, err)

	require.Len(t, ui.completes, 1)

	final := ui.completes[0]
	require.NotNil(t, final.Met)
	require.True(t, *final.Met)
	require.Less(t, final.Iterations, 200)

	// The reports landed in the run directory.
	report, err := adapter.NewReportStore().Load(model.Path(dir))
	require.NoError(t, err)
	require.Equal(t, final.Seed, report.Seed)
	require.NotNil(t, report.Score)
	require.Equal(t, 100.0, *report.Score)
}

func TestWorkflow_Run_WritesVectors(t *testing.T) {
	w, _ := newTestWorkflow()
	dir := t.TempDir()
	vectors := filepath.Join(dir, "inputs.txt")

	err := w.Run(RunArgs{
		Plan:    smallPlan(),
		Seed:    1,
		Timeout: 200,
		Guided:  true,
		Reports: model.Path(dir),
		Vectors: model.Path(vectors),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(vectors)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Equal(t, "# data", lines[0])
	require.Greater(t, len(lines), 1)
}

func TestWorkflow_Run_EmptyPlan(t *testing.T) {
	w, _ := newTestWorkflow()

	err := w.Run(RunArgs{Plan: model.Plan{}, Reports: model.Path(t.TempDir())})
	require.Error(t, err)
}

func TestWorkflow_Run_TimeoutStillReports(t *testing.T) {
	w, ui := newTestWorkflow()
	dir := t.TempDir()

	// An unguided point over a constant-zero signal cannot pass.
	plan := model.Plan{
		Signals: []model.SignalPlan{{Name: "flag", Width: 1}},
		Nets: []model.NetPlan{
			{Kind: "group", Name: "impossible", Goal: 1000, Target: []string{"flag"}, Bins: []int64{0, 1}},
		},
	}

	err := w.Run(RunArgs{Plan: plan, Seed: 1, Timeout: 5, Reports: model.Path(dir)})
	require.NoError(t, err)

	require.Len(t, ui.completes, 1)
	require.NotNil(t, ui.completes[0].Met)
	require.False(t, *ui.completes[0].Met)
	require.Equal(t, 5, ui.completes[0].Iterations)
}

func TestWorkflow_ViewAndScore(t *testing.T) {
	w, ui := newTestWorkflow()
	dir := t.TempDir()

	require.NoError(t, w.Run(RunArgs{
		Plan:    smallPlan(),
		Seed:    1,
		Timeout: 200,
		Guided:  true,
		Reports: model.Path(dir),
	}))

	require.NoError(t, w.View(ViewArgs{Reports: model.Path(dir)}))
	require.Len(t, ui.summaries, 1)
	require.Empty(t, ui.details)

	require.NoError(t, w.View(ViewArgs{Reports: model.Path(dir), Verbose: true}))
	require.Len(t, ui.summaries, 2)
	require.Len(t, ui.details, 1)

	require.NoError(t, w.Score(ScoreArgs{Reports: model.Path(dir)}))
	require.Len(t, ui.scores, 1)
}

func TestWorkflow_Diff(t *testing.T) {
	w, ui := newTestWorkflow()
	store := adapter.NewReportStore()

	dirA := t.TempDir()
	dirB := t.TempDir()

	require.NoError(t, store.Save(model.Path(dirA), model.Report{}, "Score: 50\n"))
	require.NoError(t, store.Save(model.Path(dirB), model.Report{}, "Score: 100\n"))

	require.NoError(t, w.Diff(DiffArgs{ReportsA: model.Path(dirA), ReportsB: model.Path(dirB)}))

	require.Len(t, ui.diffs, 1)
	require.Contains(t, ui.diffs[0], "-Score: 50")
	require.Contains(t, ui.diffs[0], "+Score: 100")
}

func TestWorkflow_Diff_Identical(t *testing.T) {
	w, ui := newTestWorkflow()
	store := adapter.NewReportStore()

	dir := t.TempDir()
	require.NoError(t, store.Save(model.Path(dir), model.Report{}, "Score: 100\n"))

	require.NoError(t, w.Diff(DiffArgs{ReportsA: model.Path(dir), ReportsB: model.Path(dir)}))

	require.Len(t, ui.diffs, 1)
	require.Empty(t, ui.diffs[0])
}

func TestWorkflow_List(t *testing.T) {
	w, ui := newTestWorkflow()

	require.NoError(t, w.List(ListArgs{Plan: smallPlan()}))

	require.Len(t, ui.summaries, 1)
	require.Len(t, ui.summaries[0].Nets, 1)
	require.Equal(t, 4, ui.summaries[0].Points)
}

func TestWorkflow_List_BadPlan(t *testing.T) {
	w, _ := newTestWorkflow()

	err := w.List(ListArgs{Plan: model.Plan{
		Nets: []model.NetPlan{{Kind: "bogus", Name: "bad"}},
	}})
	require.Error(t, err)
}
