package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagMute   bool
	flagUnmute bool
	flagVolume float64
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change audio preferences",
	Long: `Show the stored preferences, or change them with flags.

Examples:
  runner prefs
  runner prefs --mute
  runner prefs --unmute --volume 0.5`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().BoolVar(&flagMute, "mute", false, "Mute audio")
	prefsCmd.Flags().BoolVar(&flagUnmute, "unmute", false, "Unmute audio")
	prefsCmd.Flags().Float64Var(&flagVolume, "volume", -1, "Volume between 0 and 1")
	prefsCmd.MarkFlagsMutuallyExclusive("mute", "unmute")
}

func runPrefs(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagMute:
		err = store.SaveMute(true)
	case flagUnmute:
		err = store.SaveMute(false)
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("volume") {
		if flagVolume < 0 || flagVolume > 1 {
			return errors.New("volume must be between 0 and 1")
		}
		if err := store.SaveVolume(flagVolume); err != nil {
			return err
		}
	}

	best, err := store.LoadBestScore()
	if err != nil {
		return err
	}
	muted, err := store.LoadMute()
	if err != nil {
		return err
	}
	volume, err := store.LoadVolume()
	if err != nil {
		return err
	}

	fmt.Printf("Best:   %d\n", best)
	fmt.Printf("Muted:  %t\n", muted)
	fmt.Printf("Volume: %.0f%%\n", volume*100)
	return nil
}
