package runner

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Ramp advances scroll speed with alive time.
type Ramp struct {
	cfg   config.SpeedConfig
	speed float64
}

// NewRamp creates a ramp at the start speed.
func NewRamp(cfg config.SpeedConfig) *Ramp {
	r := &Ramp{cfg: cfg}
	r.Reset()
	return r
}

// Reset returns the speed to the start speed.
func (r *Ramp) Reset() {
	r.speed = r.cfg.Start
}

// Speed returns the current scroll speed.
func (r *Ramp) Speed() float64 {
	return r.speed
}

// Progress returns where the current speed sits between start and max, in [0, 1].
func (r *Ramp) Progress() float64 {
	return progress(r.speed, r.cfg)
}

// progress maps a speed onto [0, 1] between the configured start and max.
// Difficulty scaling in the spawner keys off this value.
func progress(speed float64, cfg config.SpeedConfig) float64 {
	span := cfg.Max - cfg.Start
	if span <= 0 {
		return 0
	}
	return core.ClampF((speed-cfg.Start)/span, 0, 1)
}

// Update advances the speed by dt seconds. Past the extra-ramp threshold the
// rate gets a flat bonus. The result always lies within [start, max].
func (r *Ramp) Update(dt float64, alive time.Duration) float64 {
	if dt < 0 {
		dt = 0
	}
	rate := r.cfg.RampPerSec
	if alive >= r.cfg.ExtraRampAfter {
		rate += r.cfg.ExtraRampBonus
	}
	r.speed = core.ClampF(r.speed+rate*dt, r.cfg.Start, r.cfg.Max)
	return r.speed
}
