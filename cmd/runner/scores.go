package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the run history",
	Long: `Display the best recorded runs.

Without --plain an interactive table is shown, filterable by difficulty.

Examples:
  runner scores
  runner scores --plain --limit 5`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to print with --plain")
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print plain text instead of the interactive table")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunScoreboard(store, width, height)
	}

	runs, err := store.TopRuns(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-10s  %-8s  %s\n", "Rank", "Score", "Difficulty", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %-8s  %s\n", "----", "-----", "----------", "----", "----")

	for i, r := range runs {
		difficulty := r.Difficulty
		if difficulty == "" {
			difficulty = "custom"
		}
		fmt.Printf("  %-4d  %-8d  %-10s  %-8s  %s\n",
			i+1, r.Score, difficulty, r.Duration.Round(time.Second), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.LoadBestScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
