package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "covnet.dev/pkg/covnet/internal/model"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a covnet.yaml config and a starter coverage plan",
		Long: `Create a covnet.yaml in the current working directory populated with the
current CLI defaults, plus a starter coverage plan that can be edited
manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			planPath := viper.GetString(planFlagName)

			err = writeStarterPlan(planPath)
			if err != nil {
				return err
			}

			cmd.Println("wrote", targetPath, "and", planPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// writeStarterPlan creates a small single-signal plan unless one already exists.
func writeStarterPlan(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("plan file %s already exists", path)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat plan file %s: %w", path, err)
	}

	data, err := m.EncodePlan(starterPlan())
	if err != nil {
		return err
	}

	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write plan file %s: %w", path, err)
	}

	return nil
}

func starterPlan() m.Plan {
	return m.Plan{
		Version: m.PlanVersion,
		Signals: []m.SignalPlan{
			{Name: "data", Width: 8},
		},
		Nets: []m.NetPlan{
			{
				Kind:   "range",
				Name:   "data values",
				Goal:   1,
				Target: []string{"data"},
			},
		},
	}
}
