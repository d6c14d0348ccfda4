// Package adapter provides the file-backed collaborators of the coverage
// engine: report persistence and test-vector output.
package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"covnet.dev/pkg/covnet/internal/model"
)

const (
	// TextReportName is the file name of the human-readable report.
	TextReportName = "coverage.txt"
	// JSONReportName is the file name of the structured report.
	JSONReportName = "coverage.json"
)

// ReportStore persists and retrieves coverage reports for a run directory.
type ReportStore interface {
	Save(dir model.Path, report model.Report, text string) error
	Load(dir model.Path) (model.Report, error)
	LoadText(dir model.Path) (string, error)
}

type localReportStore struct{}

// NewReportStore creates a ReportStore writing to the local filesystem.
func NewReportStore() ReportStore {
	return &localReportStore{}
}

// Save writes the structured and text reports. The two files are
// independent, so they are written in parallel.
func (rs *localReportStore) Save(dir model.Path, report model.Report, text string) error {
	if dir != "" {
		if err := os.MkdirAll(string(dir), 0o755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	var g errgroup.Group

	g.Go(func() error {
		data, err := json.MarshalIndent(report, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode coverage report: %w", err)
		}

		path := filepath.Join(string(dir), JSONReportName)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		return nil
	})

	g.Go(func() error {
		path := filepath.Join(string(dir), TextReportName)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("saved coverage reports", "dir", string(dir))

	return nil
}

// Load reads the structured report back from a run directory.
func (rs *localReportStore) Load(dir model.Path) (model.Report, error) {
	path := filepath.Join(string(dir), JSONReportName)

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return model.Report{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return report, nil
}

// LoadText reads the text report back from a run directory.
func (rs *localReportStore) LoadText(dir model.Path) (string, error) {
	path := filepath.Join(string(dir), TextReportName)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}
