package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultSettings returns the built-in tuning. It mirrors defaults/runner.yaml
// and is the fallback when the embedded document cannot be parsed.
func DefaultSettings() Settings {
	return Settings{
		World: WorldConfig{
			Width:        1280,
			Height:       720,
			GroundHeight: 120,
		},
		Physics: PhysicsConfig{
			Gravity:               1700,
			JumpVelocity:          -720,
			MaxFallSpeed:          1200,
			JumpHold:              130 * time.Millisecond,
			JumpHoldForce:         -260,
			JumpCutMultiplier:     0.45,
			FallGravityMultiplier: 1.25,
		},
		Timing: TimingConfig{
			Coyote:        110 * time.Millisecond,
			JumpBuffer:    120 * time.Millisecond,
			MaxFrameDelta: 50 * time.Millisecond,
		},
		Speed: SpeedConfig{
			Start:          250,
			Max:            650,
			RampPerSec:     6,
			ExtraRampAfter: 30 * time.Second,
			ExtraRampBonus: 10,
		},
		Spawn: SpawnConfig{
			MinGap:        360,
			MaxGap:        760,
			GapWidenMin:   40,
			GapWidenMax:   80,
			MinSeparation: 360,
			XPad:          160,
			DoubleOffset:  95,
			FlyMinHeight:  180,
			FlyMaxHeight:  280,
			RecycleX:      -250,
			ScaleMin:      0.9,
			ScaleMax:      1.15,
		},
		Player: PlayerConfig{
			X:           150,
			Width:       48,
			Height:      72,
			SpawnHeight: 90,
		},
		Obstacles: ObstacleConfig{
			GroundWidth:   64,
			GroundHeight:  64,
			FlyWidth:      72,
			FlyHeight:     48,
			GroundHitboxW: 0.7,
			GroundHitboxH: 0.85,
			FlyHitboxW:    0.65,
			FlyHitboxH:    0.75,
			PoolCapacity:  16,
		},
		Score: ScoreConfig{
			DistanceFactor: 0.02,
			PassBonus:      10,
		},
	}
}

// DefaultYAML returns the embedded default document.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
