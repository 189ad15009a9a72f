package runner

import (
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Collider is the collision collaborator. It resolves the player against the
// ground and reports player/obstacle overlap; the run only reacts to its
// answers.
type Collider interface {
	Ground
	Overlapping(player core.Box, obstacle core.Box) bool
}

// ArcadeCollider is a flat-ground, axis-aligned collider.
type ArcadeCollider struct {
	groundLine float64
}

// NewArcadeCollider creates a collider for the settings' ground line.
func NewArcadeCollider(cfg config.Settings) *ArcadeCollider {
	return &ArcadeCollider{groundLine: cfg.GroundLine()}
}

// Ground snaps a player that has sunk into the ground back onto the ground
// line and stops any downward motion.
func (c *ArcadeCollider) Ground(p *PlayerState) bool {
	if p.Y < c.groundLine {
		return false
	}
	p.Y = c.groundLine
	if p.VelY > 0 {
		p.VelY = 0
	}
	return true
}

// Overlapping reports whether two hitboxes intersect.
func (c *ArcadeCollider) Overlapping(player core.Box, obstacle core.Box) bool {
	return player.Intersects(obstacle)
}
