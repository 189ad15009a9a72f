package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagWatch      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run.

Controls:
  Space/Up   - Jump (hold for a higher jump)
  Enter      - Start / restart
  P/Esc      - Pause
  R          - Restart (after game over)
  M          - Mute
  +/-        - Volume
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slower start and ramp, longer coyote time
  normal - The configured settings
  hard   - Faster start, steeper ramp
  fixed  - No speed ramp

With --watch the settings file is reloaded whenever it changes. New settings
apply from the next run.

Examples:
  runner play
  runner play --difficulty easy
  runner play --config ./my-runner.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom settings YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the settings file when it changes")
}

func runPlay(_ *cobra.Command, _ []string) error {
	settings, preset, err := loadSettings(flagConfig, flagDifficulty)
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	var watcher *config.Watcher
	if flagWatch {
		path := flagConfig
		if path == "" {
			path = config.UserConfigPath()
		}
		watcher, err = config.NewWatcher(path, preset)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", path, err)
		}
		defer watcher.Close()
		logger.Info("watching settings", "path", watcher.Path())
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	return tui.Play(tui.Options{
		Settings:   settings,
		Difficulty: preset,
		Store:      store,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Watcher: watcher,
		Logger:  logger,
	})
}
