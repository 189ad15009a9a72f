package config

import (
	"math"
	"time"
)

// Normalize returns a copy with every field clamped to a playable range.
// Out-of-range values are corrected silently; a bad tuning must never stop
// the game loop.
func (s Settings) Normalize() Settings {
	s.World.Width = atLeast(s.World.Width, 1)
	s.World.Height = atLeast(s.World.Height, 1)
	s.World.GroundHeight = within(s.World.GroundHeight, 0, s.World.Height-1)

	s.Physics.Gravity = atLeast(s.Physics.Gravity, 0)
	s.Physics.JumpVelocity = within(s.Physics.JumpVelocity, -math.MaxFloat64, 0)
	s.Physics.MaxFallSpeed = atLeast(s.Physics.MaxFallSpeed, 1)
	s.Physics.JumpHold = durationAtLeast(s.Physics.JumpHold, 0)
	s.Physics.JumpHoldForce = within(s.Physics.JumpHoldForce, -math.MaxFloat64, 0)
	s.Physics.JumpCutMultiplier = within(s.Physics.JumpCutMultiplier, 0, 1)
	s.Physics.FallGravityMultiplier = within(s.Physics.FallGravityMultiplier, 1, 5)

	s.Timing.Coyote = durationAtLeast(s.Timing.Coyote, 0)
	s.Timing.JumpBuffer = durationAtLeast(s.Timing.JumpBuffer, 0)
	s.Timing.MaxFrameDelta = durationWithin(s.Timing.MaxFrameDelta, time.Millisecond, time.Second)

	s.Speed.Start = atLeast(s.Speed.Start, 0)
	s.Speed.Max = atLeast(s.Speed.Max, s.Speed.Start)
	s.Speed.RampPerSec = atLeast(s.Speed.RampPerSec, 0)
	s.Speed.ExtraRampAfter = durationAtLeast(s.Speed.ExtraRampAfter, 0)
	s.Speed.ExtraRampBonus = atLeast(s.Speed.ExtraRampBonus, 0)

	s.Spawn.MinGap = atLeast(s.Spawn.MinGap, 1)
	s.Spawn.MaxGap = atLeast(s.Spawn.MaxGap, s.Spawn.MinGap)
	s.Spawn.GapWidenMin = atLeast(s.Spawn.GapWidenMin, 0)
	s.Spawn.GapWidenMax = atLeast(s.Spawn.GapWidenMax, 0)
	s.Spawn.MinSeparation = atLeast(s.Spawn.MinSeparation, 0)
	s.Spawn.XPad = atLeast(s.Spawn.XPad, 0)
	s.Spawn.DoubleOffset = atLeast(s.Spawn.DoubleOffset, 0)
	s.Spawn.FlyMinHeight = atLeast(s.Spawn.FlyMinHeight, 0)
	s.Spawn.FlyMaxHeight = atLeast(s.Spawn.FlyMaxHeight, s.Spawn.FlyMinHeight)
	s.Spawn.RecycleX = within(s.Spawn.RecycleX, -math.MaxFloat64, 0)
	s.Spawn.ScaleMin = within(s.Spawn.ScaleMin, 0.1, 10)
	s.Spawn.ScaleMax = within(s.Spawn.ScaleMax, s.Spawn.ScaleMin, 10)

	s.Player.Width = atLeast(s.Player.Width, 1)
	s.Player.Height = atLeast(s.Player.Height, 1)
	s.Player.SpawnHeight = atLeast(s.Player.SpawnHeight, 0)

	s.Obstacles.GroundWidth = atLeast(s.Obstacles.GroundWidth, 1)
	s.Obstacles.GroundHeight = atLeast(s.Obstacles.GroundHeight, 1)
	s.Obstacles.FlyWidth = atLeast(s.Obstacles.FlyWidth, 1)
	s.Obstacles.FlyHeight = atLeast(s.Obstacles.FlyHeight, 1)
	s.Obstacles.GroundHitboxW = within(s.Obstacles.GroundHitboxW, 0.1, 1)
	s.Obstacles.GroundHitboxH = within(s.Obstacles.GroundHitboxH, 0.1, 1)
	s.Obstacles.FlyHitboxW = within(s.Obstacles.FlyHitboxW, 0.1, 1)
	s.Obstacles.FlyHitboxH = within(s.Obstacles.FlyHitboxH, 0.1, 1)
	if s.Obstacles.PoolCapacity < 1 {
		s.Obstacles.PoolCapacity = 1
	}

	s.Score.DistanceFactor = atLeast(s.Score.DistanceFactor, 0)
	s.Score.PassBonus = atLeast(s.Score.PassBonus, 0)
	return s
}

func within(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atLeast(v, lo float64) float64 {
	return within(v, lo, math.MaxFloat64)
}

func durationAtLeast(d, lo time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	return d
}

func durationWithin(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
