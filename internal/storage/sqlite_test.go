package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/runner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.SaveRun(RunRecord{Score: 77})
	store.SaveVolume(0.25)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore(); high != 77 {
		t.Errorf("Expected high score 77 after reopen, got %d", high)
	}
	if v, _ := store.LoadVolume(); v != 0.25 {
		t.Errorf("Expected volume 0.25 after reopen, got %v", v)
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{Score: 100, Difficulty: "normal", Duration: 12 * time.Second},
		{Score: 50, Difficulty: "easy", Duration: 5 * time.Second},
		{Score: 200, Difficulty: "hard", Duration: 30*time.Second + 250*time.Millisecond},
		{Score: 100, Difficulty: "", Duration: time.Second},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(top))
	}

	if top[0].Score != 200 || top[0].Difficulty != "hard" {
		t.Errorf("Expected best run 200/hard, got %d/%s", top[0].Score, top[0].Difficulty)
	}
	if top[0].Duration != 30*time.Second+250*time.Millisecond {
		t.Errorf("Duration not preserved: %v", top[0].Duration)
	}
	// Ties go to the earlier run
	if top[1].Score != 100 || top[1].Difficulty != "normal" || top[2].Score != 100 {
		t.Errorf("Runs not in expected order: %+v", top)
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	all, _ := store.TopRuns(0)
	if len(all) != 4 {
		t.Errorf("Expected default limit to cover 4 runs, got %d", len(all))
	}
}

func TestStoreHighScoreAndStats(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 with no runs, got %d", high)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveRun(RunRecord{Score: 100, Duration: 10 * time.Second})
	store.SaveRun(RunRecord{Score: 300, Duration: 20 * time.Second})
	store.SaveRun(RunRecord{Score: 200, Duration: 30 * time.Second})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.HighScore != 300 || stats.TotalScore != 600 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected average 200, got %v", stats.AvgScore)
	}
	if stats.TotalTime != time.Minute {
		t.Errorf("Expected total time 1m, got %v", stats.TotalTime)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.LoadBestScore()
	if err != nil || best != 0 {
		t.Fatalf("LoadBestScore() on empty store = %d, %v", best, err)
	}

	// Falls back to history until a best score is stored
	store.SaveRun(RunRecord{Score: 40})
	if best, _ := store.LoadBestScore(); best != 40 {
		t.Errorf("Expected fallback best 40, got %d", best)
	}

	if err := store.SaveBestScore(520); err != nil {
		t.Fatalf("SaveBestScore() failed: %v", err)
	}
	if err := store.SaveBestScore(530); err != nil {
		t.Fatalf("SaveBestScore() overwrite failed: %v", err)
	}
	if best, _ := store.LoadBestScore(); best != 530 {
		t.Errorf("Expected best 530, got %d", best)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if best, _ := store.LoadBestScore(); best != 0 {
		t.Errorf("Expected best 0 after clear, got %d", best)
	}
	if top, _ := store.TopRuns(10); len(top) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(top))
	}
}

func TestStoreAudioPrefs(t *testing.T) {
	store := openTestStore(t)

	muted, err := store.LoadMute()
	if err != nil || muted {
		t.Errorf("LoadMute() default = %v, %v", muted, err)
	}
	volume, err := store.LoadVolume()
	if err != nil || volume != runner.DefaultVolume {
		t.Errorf("LoadVolume() default = %v, %v", volume, err)
	}

	store.SaveMute(true)
	store.SaveVolume(0.35)

	if muted, _ := store.LoadMute(); !muted {
		t.Error("Expected muted after SaveMute(true)")
	}
	if volume, _ := store.LoadVolume(); volume != 0.35 {
		t.Errorf("Expected volume 0.35, got %v", volume)
	}
}

func TestStoreCorruptPrefs(t *testing.T) {
	store := openTestStore(t)
	store.setPref(prefVolume, "loud")
	store.setPref(prefBestScore, "many")

	if _, err := store.LoadVolume(); err == nil {
		t.Error("Expected an error for a corrupt volume")
	}
	if _, err := store.LoadBestScore(); err == nil {
		t.Error("Expected an error for a corrupt best score")
	}
}

func TestStoreAsRunPersistence(t *testing.T) {
	store := openTestStore(t)
	store.SaveBestScore(10)
	store.SaveVolume(0.6)

	r := runner.New(config.DefaultSettings(), runner.WithPersistence(store), runner.WithSeed(3))

	if r.Best() != 10 || r.Volume() != 0.6 {
		t.Errorf("Run did not load preferences: best=%d volume=%v", r.Best(), r.Volume())
	}

	r.SetMuted(true)
	if muted, _ := store.LoadMute(); !muted {
		t.Error("SetMuted should persist through the store")
	}
}
