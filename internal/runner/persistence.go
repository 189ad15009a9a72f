package runner

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// DefaultVolume is the volume used until a preference has been saved.
const DefaultVolume = 0.8

// Persistence stores the best score and audio preferences between runs.
// Loads of a value that was never saved return the default with a nil error.
type Persistence interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
	LoadMute() (bool, error)
	SaveMute(muted bool) error
	LoadVolume() (float64, error)
	SaveVolume(volume float64) error
}

// MemoryPersistence keeps preferences in memory. It is the default when a
// run is created without a store.
type MemoryPersistence struct {
	Best   int
	Muted  bool
	Volume float64
}

// NewMemoryPersistence returns an empty store with default preferences.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{Volume: DefaultVolume}
}

// LoadBestScore returns the stored best score.
func (m *MemoryPersistence) LoadBestScore() (int, error) {
	return m.Best, nil
}

// SaveBestScore stores the best score.
func (m *MemoryPersistence) SaveBestScore(score int) error {
	m.Best = score
	return nil
}

// LoadMute returns the stored mute preference.
func (m *MemoryPersistence) LoadMute() (bool, error) {
	return m.Muted, nil
}

// SaveMute stores the mute preference.
func (m *MemoryPersistence) SaveMute(muted bool) error {
	m.Muted = muted
	return nil
}

// LoadVolume returns the stored volume.
func (m *MemoryPersistence) LoadVolume() (float64, error) {
	return m.Volume, nil
}

// SaveVolume stores the volume.
func (m *MemoryPersistence) SaveVolume(volume float64) error {
	m.Volume = volume
	return nil
}

// prefs shields the simulation from persistence failures: a failed load
// yields the fallback, a failed save is logged and dropped.
type prefs struct {
	store  Persistence
	logger *log.Logger
}

func (p prefs) best(fallback int) int {
	v, err := p.store.LoadBestScore()
	if err != nil {
		p.logger.Warn("load best score", "err", err)
		return fallback
	}
	if v < 0 {
		return 0
	}
	return v
}

func (p prefs) saveBest(score int) {
	if err := p.store.SaveBestScore(score); err != nil {
		p.logger.Warn("save best score", "score", score, "err", err)
	}
}

func (p prefs) muted() bool {
	v, err := p.store.LoadMute()
	if err != nil {
		p.logger.Warn("load mute", "err", err)
		return false
	}
	return v
}

func (p prefs) saveMuted(muted bool) {
	if err := p.store.SaveMute(muted); err != nil {
		p.logger.Warn("save mute", "muted", muted, "err", err)
	}
}

func (p prefs) volume() float64 {
	v, err := p.store.LoadVolume()
	if err != nil {
		p.logger.Warn("load volume", "err", err)
		return DefaultVolume
	}
	return core.ClampF(v, 0, 1)
}

func (p prefs) saveVolume(volume float64) {
	if err := p.store.SaveVolume(volume); err != nil {
		p.logger.Warn("save volume", "volume", volume, "err", err)
	}
}
