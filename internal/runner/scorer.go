package runner

import (
	"math"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// ScoreResult summarizes one scorer update.
type ScoreResult struct {
	Passed int  // Obstacles credited with the pass bonus this frame
	Hit    bool // The player started overlapping an obstacle this frame
}

// Scorer accumulates distance and pass-bonus score and detects the collision
// that ends a run. Once a hit is detected the scorer is frozen until Reset.
type Scorer struct {
	cfg         config.ScoreConfig
	score       float64
	overlapping bool
	over        bool
}

// NewScorer creates a scorer at zero.
func NewScorer(cfg config.ScoreConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Reset zeroes the score and clears the game-over latch.
func (s *Scorer) Reset() {
	s.score = 0
	s.overlapping = false
	s.over = false
}

// Score returns the fractional score.
func (s *Scorer) Score() float64 {
	return s.score
}

// Floor returns the score as displayed.
func (s *Scorer) Floor() int {
	return int(math.Floor(s.score))
}

// Over reports whether a hit has been detected.
func (s *Scorer) Over() bool {
	return s.over
}

// Update credits distance for dt seconds at speed, credits the pass bonus for
// obstacles that have just moved behind the player and checks for a hit.
func (s *Scorer) Update(dt, speed float64, player core.Box, spawner *Spawner, collider Collider) ScoreResult {
	var res ScoreResult
	if s.over {
		return res
	}
	if dt > 0 && speed > 0 {
		s.score += speed * dt * s.cfg.DistanceFactor
	}

	overlapping := false
	spawner.Each(func(o *Obstacle) {
		box := o.Hitbox()
		if !o.Passed && box.Right() < player.X {
			o.Passed = true
			s.score += s.cfg.PassBonus
			res.Passed++
		}
		if !overlapping && collider.Overlapping(player, box) {
			overlapping = true
		}
	})

	if overlapping && !s.overlapping {
		s.over = true
		res.Hit = true
	}
	s.overlapping = overlapping
	return res
}
