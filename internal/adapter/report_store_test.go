package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"covnet.dev/pkg/covnet/internal/model"
)

func sampleReport() model.Report {
	score := 50.0
	met := false

	return model.Report{
		Seed:   7,
		Score:  &score,
		Met:    &met,
		Count:  1,
		Points: 2,
		Nets: []model.NetReport{
			{Name: "event", Type: "point", Met: &met, Count: 0, Goal: 1},
		},
	}
}

func TestReportStore_SaveAndLoad(t *testing.T) {
	dir := model.Path(t.TempDir())
	store := NewReportStore()

	err := store.Save(dir, sampleReport(), "File: Coverage Report\n")
	require.NoError(t, err)

	report, err := store.Load(dir)
	require.NoError(t, err)
	require.Equal(t, sampleReport(), report)

	text, err := store.LoadText(dir)
	require.NoError(t, err)
	require.Equal(t, "File: Coverage Report\n", text)
}

func TestReportStore_SaveCreatesDirectory(t *testing.T) {
	dir := model.Path(filepath.Join(t.TempDir(), "nested", "reports"))
	store := NewReportStore()

	err := store.Save(dir, sampleReport(), "text")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(string(dir), JSONReportName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(string(dir), TextReportName))
	require.NoError(t, err)
}

func TestReportStore_JSONIsIndented(t *testing.T) {
	dir := model.Path(t.TempDir())
	store := NewReportStore()

	err := store.Save(dir, sampleReport(), "text")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(string(dir), JSONReportName))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(string(data), "{\n    \"seed\": 7"))
	require.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestReportStore_LoadMissingDirectory(t *testing.T) {
	store := NewReportStore()

	_, err := store.Load(model.Path(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)

	_, err = store.LoadText(model.Path(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
}
