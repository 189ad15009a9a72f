// Package config provides YAML-based tuning for the runner: physics, timing,
// speed ramp, spawning and scoring settings, difficulty presets, and a file
// watcher for reloading tunings between runs.
package config

import "time"

// Settings contains every tunable of a run. A Settings value is immutable
// once a run has started; components receive it by value.
type Settings struct {
	World     WorldConfig    `yaml:"world"`
	Physics   PhysicsConfig  `yaml:"physics"`
	Timing    TimingConfig   `yaml:"timing"`
	Speed     SpeedConfig    `yaml:"speed"`
	Spawn     SpawnConfig    `yaml:"spawn"`
	Player    PlayerConfig   `yaml:"player"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Score     ScoreConfig    `yaml:"score"`
}

// WorldConfig defines the play area in world units.
type WorldConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// PhysicsConfig defines vertical kinematics. Negative velocities point up.
type PhysicsConfig struct {
	Gravity               float64       `yaml:"gravity"`
	JumpVelocity          float64       `yaml:"jump_velocity"`
	MaxFallSpeed          float64       `yaml:"max_fall_speed"`
	JumpHold              time.Duration `yaml:"jump_hold"`
	JumpHoldForce         float64       `yaml:"jump_hold_force"`
	JumpCutMultiplier     float64       `yaml:"jump_cut_multiplier"`
	FallGravityMultiplier float64       `yaml:"fall_gravity_multiplier"`
}

// TimingConfig defines input forgiveness windows and the frame delta clamp.
type TimingConfig struct {
	Coyote        time.Duration `yaml:"coyote"`
	JumpBuffer    time.Duration `yaml:"jump_buffer"`
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"`
}

// SpeedConfig defines the scroll speed ramp.
type SpeedConfig struct {
	Start          float64       `yaml:"start"`
	Max            float64       `yaml:"max"`
	RampPerSec     float64       `yaml:"ramp_per_sec"`
	ExtraRampAfter time.Duration `yaml:"extra_ramp_after"`
	ExtraRampBonus float64       `yaml:"extra_ramp_bonus"`
}

// SpawnConfig defines obstacle scheduling and placement.
type SpawnConfig struct {
	MinGap        float64 `yaml:"min_gap"`
	MaxGap        float64 `yaml:"max_gap"`
	GapWidenMin   float64 `yaml:"gap_widen_min"` // Added to MinGap at max difficulty
	GapWidenMax   float64 `yaml:"gap_widen_max"` // Added to MaxGap at max difficulty
	MinSeparation float64 `yaml:"min_separation"`
	XPad          float64 `yaml:"x_pad"`         // Spawn X = world width + pad
	DoubleOffset  float64 `yaml:"double_offset"` // Distance between the two halves of a double
	FlyMinHeight  float64 `yaml:"fly_min_height"`
	FlyMaxHeight  float64 `yaml:"fly_max_height"`
	RecycleX      float64 `yaml:"recycle_x"`
	ScaleMin      float64 `yaml:"scale_min"`
	ScaleMax      float64 `yaml:"scale_max"`
}

// PlayerConfig defines the player's lane and hitbox.
type PlayerConfig struct {
	X           float64 `yaml:"x"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	SpawnHeight float64 `yaml:"spawn_height"` // Height above the ground line at run start
}

// ObstacleConfig defines base sprite sizes and hitbox shrink factors.
type ObstacleConfig struct {
	GroundWidth   float64 `yaml:"ground_width"`
	GroundHeight  float64 `yaml:"ground_height"`
	FlyWidth      float64 `yaml:"fly_width"`
	FlyHeight     float64 `yaml:"fly_height"`
	GroundHitboxW float64 `yaml:"ground_hitbox_w"`
	GroundHitboxH float64 `yaml:"ground_hitbox_h"`
	FlyHitboxW    float64 `yaml:"fly_hitbox_w"`
	FlyHitboxH    float64 `yaml:"fly_hitbox_h"`
	PoolCapacity  int     `yaml:"pool_capacity"`
}

// ScoreConfig defines scoring.
type ScoreConfig struct {
	DistanceFactor float64 `yaml:"distance_factor"`
	PassBonus      float64 `yaml:"pass_bonus"`
}

// GroundLine returns the y-coordinate of the top of the ground band.
func (s Settings) GroundLine() float64 {
	return s.World.Height - s.World.GroundHeight
}

// SpawnX returns the x-coordinate new obstacles appear at.
func (s Settings) SpawnX() float64 {
	return s.World.Width + s.Spawn.XPad
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown or empty names map to
// the empty preset, meaning "keep the loaded settings".
func ParsePreset(name string) DifficultyPreset {
	switch DifficultyPreset(name) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(name)
	default:
		return ""
	}
}
