// runner is an endless side-scrolling runner played in the terminal.
//
// Usage:
//
//	runner play              - Play a run
//	runner scores            - Show the run history
//	runner prefs             - Show or change audio preferences
//	runner config            - Print the effective settings as YAML
//	runner serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible obstacle layouts
//	--db <path>           - Set database path (default: ~/.runner/scores.db)
//	--log-level <level>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Runner - an endless side-scroller in your terminal",
	Long: `Runner is an endless side-scrolling game for the terminal. Jump over
rocks and spikes, mind the birds overhead, and see how far you get as the
world speeds up.

Available commands:
  play     - Play a run
  scores   - View the run history
  prefs    - Show or change audio preferences
  config   - Print the effective settings
  serve    - Start SSH server for remote play

Examples:
  runner play
  runner play --difficulty hard
  runner scores --plain
  runner serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the CLI logger writing to w at the --log-level level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openLogFile opens ~/.runner/runner.log for appending, so logging during
// play does not draw over the alternate screen.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".runner")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "runner.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// loadSettings loads settings from path (or the default search order) and
// applies the named difficulty preset.
func loadSettings(path, difficulty string) (config.Settings, config.DifficultyPreset, error) {
	preset := config.ParsePreset(difficulty)
	if difficulty != "" && preset == "" {
		return config.Settings{}, "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", difficulty)
	}

	settings, err := config.Load(path)
	if err != nil {
		return config.Settings{}, "", err
	}
	config.ApplyPreset(&settings, preset)
	return settings.Normalize(), preset, nil
}
