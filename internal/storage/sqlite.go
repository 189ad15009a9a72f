// Package storage provides SQLite-based persistence for run history and
// player preferences. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-runner/internal/runner"
)

// Preference keys.
const (
	prefBestScore = "best_score"
	prefMuted     = "muted"
	prefVolume    = "volume"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord describes a finished run to be saved.
type RunRecord struct {
	Score      int
	Difficulty string // Preset name, empty for custom tuning
	Duration   time.Duration
}

// RunEntry is a saved run.
type RunEntry struct {
	ID         int64
	Score      int
	Difficulty string
	Duration   time.Duration
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			difficulty TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);

		CREATE TABLE IF NOT EXISTS prefs (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (score, difficulty, duration_ms) VALUES (?, ?, ?)",
		run.Score, run.Difficulty, run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N runs ordered by score descending.
// Ties go to the earlier run.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, score, difficulty, duration_ms, created_at
		 FROM runs
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Score, &e.Difficulty, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest recorded run score.
// Returns 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes the run history and the stored best score.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM prefs WHERE key = ?", prefBestScore); err != nil {
		return fmt.Errorf("storage: cannot clear best score: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics over all runs.
type RunStats struct {
	Runs       int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	TotalTime  time.Duration
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics over the run history.
func (s *Store) Stats() (*RunStats, error) {
	stats := &RunStats{}
	var totalMs int64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(SUM(duration_ms), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &totalMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.TotalTime = time.Duration(totalMs) * time.Millisecond

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// LoadBestScore returns the stored best score. Before a best score has been
// stored it falls back to the run history.
func (s *Store) LoadBestScore() (int, error) {
	v, ok, err := s.pref(prefBestScore)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.HighScore()
	}
	best, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("storage: invalid best score %q: %w", v, err)
	}
	return best, nil
}

// SaveBestScore stores the best score.
func (s *Store) SaveBestScore(score int) error {
	return s.setPref(prefBestScore, strconv.Itoa(score))
}

// LoadMute returns the mute preference, false if unset.
func (s *Store) LoadMute() (bool, error) {
	v, ok, err := s.pref(prefMuted)
	if err != nil || !ok {
		return false, err
	}
	muted, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("storage: invalid mute value %q: %w", v, err)
	}
	return muted, nil
}

// SaveMute stores the mute preference.
func (s *Store) SaveMute(muted bool) error {
	return s.setPref(prefMuted, strconv.FormatBool(muted))
}

// LoadVolume returns the volume preference, runner.DefaultVolume if unset.
func (s *Store) LoadVolume() (float64, error) {
	v, ok, err := s.pref(prefVolume)
	if err != nil {
		return runner.DefaultVolume, err
	}
	if !ok {
		return runner.DefaultVolume, nil
	}
	volume, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return runner.DefaultVolume, fmt.Errorf("storage: invalid volume %q: %w", v, err)
	}
	return volume, nil
}

// SaveVolume stores the volume preference.
func (s *Store) SaveVolume(volume float64) error {
	return s.setPref(prefVolume, strconv.FormatFloat(volume, 'f', -1, 64))
}

// Ensure Store implements runner.Persistence
var _ runner.Persistence = (*Store)(nil)

func (s *Store) pref(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) setPref(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", key, err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
