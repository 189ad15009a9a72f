package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings as YAML",
	Long: `Print the settings a run would use, after the search order, the
difficulty preset and normalization are applied. The output is a valid
settings file.

Search order:
  --config path -> ~/.runner/configs/runner.yaml -> ./configs/runner.yaml -> built-in defaults

Examples:
  runner config
  runner config --difficulty hard > ~/.runner/configs/runner.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom settings YAML")
	configCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runConfig(_ *cobra.Command, _ []string) error {
	settings, _, err := loadSettings(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}

	data, err := config.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
