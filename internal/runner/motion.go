package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Never is the "far past" timestamp used for inputs that have been consumed
// or never happened. Subtracting it from any run time stays in range.
const Never time.Duration = -1 << 62

// InputKind identifies a discrete jump input.
type InputKind int

const (
	JumpPress InputKind = iota + 1
	JumpRelease
)

// InputEvent is a jump input stamped with the run clock.
type InputEvent struct {
	Kind InputKind
	At   time.Duration
}

// PlayerState is the player's vertical state. X is the fixed lane and Y the
// feet position; y grows downward, so a negative VelY is rising.
type PlayerState struct {
	X, Y           float64
	VelY           float64
	Grounded       bool
	JumpHeld       bool
	LastGroundedAt time.Duration
	JumpBufferedAt time.Duration
	JumpHoldUntil  time.Duration
}

// Rising reports whether the player is moving up.
func (p PlayerState) Rising() bool {
	return !p.Grounded && p.VelY < 0
}

// Falling reports whether the player is moving down without ground contact.
func (p PlayerState) Falling() bool {
	return !p.Grounded && p.VelY >= 0
}

// Ground resolves the player's contact with whatever is below. It may move
// the player out of the ground and reports whether it is blocked below.
type Ground interface {
	Ground(p *PlayerState) bool
}

// MotionResult summarizes what happened during one motion update.
type MotionResult struct {
	Jumped bool
	Landed bool
	Cut    bool
}

// MotionController owns the player's vertical state machine: gravity, fall
// shaping, jump buffering, coyote time, variable jump height and jump-cut.
type MotionController struct {
	phys   config.PhysicsConfig
	timing config.TimingConfig
	state  PlayerState
	box    core.Box
}

// NewMotionController creates a controller with the player placed at its
// spawn height above the ground line.
func NewMotionController(cfg config.Settings) *MotionController {
	c := &MotionController{
		phys:   cfg.Physics,
		timing: cfg.Timing,
		box:    core.NewBox(0, 0, cfg.Player.Width, cfg.Player.Height),
	}
	c.Reset(cfg.Player.X, cfg.GroundLine()-cfg.Player.SpawnHeight)
	return c
}

// Reset places the player at (x, y), airborne and at rest, with no pending input.
func (c *MotionController) Reset(x, y float64) {
	c.state = PlayerState{
		X:              x,
		Y:              y,
		LastGroundedAt: Never,
		JumpBufferedAt: Never,
	}
}

// State returns a copy of the player state.
func (c *MotionController) State() PlayerState {
	return c.state
}

// Hitbox returns the player's collision box.
func (c *MotionController) Hitbox() core.Box {
	return core.BoxFromBottomCenter(c.state.X, c.state.Y, c.box.W, c.box.H)
}

// Update advances the player by dt seconds at run time now.
//
// Order: integrate velocity and position, resolve ground contact, latch
// inputs, then resolve a buffered jump. A launch therefore leaves VelY at
// exactly the configured jump velocity, and a grounded player always ends
// the update with VelY == 0.
func (c *MotionController) Update(dt float64, now time.Duration, ground Ground, events []InputEvent) MotionResult {
	var res MotionResult
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	wasGrounded := c.state.Grounded

	c.integrate(dt, now)

	grounded := ground != nil && ground.Ground(&c.state)
	c.state.Grounded = grounded
	if grounded {
		c.state.LastGroundedAt = now
		c.state.VelY = 0
		res.Landed = !wasGrounded
	}

	for _, ev := range events {
		switch ev.Kind {
		case JumpPress:
			at := ev.At
			if at > now {
				at = now
			}
			c.state.JumpBufferedAt = at
			c.state.JumpHeld = true
		case JumpRelease:
			if c.release() {
				res.Cut = true
			}
		}
	}

	res.Jumped = c.resolveJump(now)
	return res
}

// integrate applies gravity, the jump-hold boost and the fall clamp.
func (c *MotionController) integrate(dt float64, now time.Duration) {
	if dt == 0 {
		return
	}

	gravity := c.phys.Gravity
	if c.state.VelY > 0 {
		gravity *= c.phys.FallGravityMultiplier
	}

	accel := gravity
	if c.holding(now) {
		accel += c.phys.JumpHoldForce
	}

	c.state.VelY += accel * dt
	if c.state.VelY > c.phys.MaxFallSpeed {
		c.state.VelY = c.phys.MaxFallSpeed
	}
	c.state.Y += c.state.VelY * dt
}

// holding reports whether the jump-hold boost applies this frame.
func (c *MotionController) holding(now time.Duration) bool {
	return c.state.JumpHeld &&
		c.state.VelY < 0 &&
		c.state.JumpHoldUntil > 0 &&
		now <= c.state.JumpHoldUntil
}

// release ends a press. Releasing while rising cuts the jump short; a
// release without a matching press does nothing.
func (c *MotionController) release() bool {
	if !c.state.JumpHeld {
		return false
	}
	c.state.JumpHeld = false
	if c.state.VelY < 0 {
		c.state.VelY *= c.phys.JumpCutMultiplier
		return true
	}
	return false
}

// resolveJump launches the player when a press is buffered and the player is
// grounded or within coyote time of having been grounded.
func (c *MotionController) resolveJump(now time.Duration) bool {
	if now-c.state.JumpBufferedAt > c.timing.JumpBuffer {
		return false
	}
	coyote := now-c.state.LastGroundedAt <= c.timing.Coyote
	if !c.state.Grounded && !coyote {
		return false
	}

	// Consume both the buffered press and the coyote window so one press
	// and one ledge can each produce only a single launch.
	c.state.JumpBufferedAt = Never
	c.state.LastGroundedAt = Never
	c.state.VelY = c.phys.JumpVelocity
	c.state.Grounded = false
	c.state.JumpHoldUntil = now + c.phys.JumpHold
	return true
}
