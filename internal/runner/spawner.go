package runner

import (
	"math"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// ObstacleKind distinguishes obstacles that sit on the ground from ones that fly.
type ObstacleKind int

const (
	ObstacleGround ObstacleKind = iota
	ObstacleFlying
)

func (k ObstacleKind) String() string {
	if k == ObstacleFlying {
		return "flying"
	}
	return "ground"
}

// Sprite identities handed to the presentation layer.
const (
	SpriteRock  = "rock"
	SpriteSpike = "spike"
	SpriteBird  = "bird"
)

// offscreen is the position a pooled obstacle is parked at.
const offscreen = -9999

// Obstacle is a pooled obstacle entity. X is the horizontal centre and Y the
// bottom edge of the sprite; W and H are the scaled sprite size.
type Obstacle struct {
	Kind   ObstacleKind
	Sprite string
	X, Y   float64
	W, H   float64
	Scale  float64
	Passed bool // Pass bonus already credited

	hitW, hitH float64 // Hitbox shrink factors
}

// Bounds returns the full sprite box.
func (o *Obstacle) Bounds() core.Box {
	return core.BoxFromBottomCenter(o.X, o.Y, o.W, o.H)
}

// Hitbox returns the collision box: the sprite box shrunk around its centre,
// never smaller than 10 units on a side.
func (o *Obstacle) Hitbox() core.Box {
	w := math.Max(10, o.W*o.hitW)
	h := math.Max(10, o.H*o.hitH)
	cy := o.Y - o.H/2
	return core.NewBox(o.X-w/2, cy-h/2, w, h)
}

// Random is the uniform source the spawner draws from. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Spawner schedules, places, moves and recycles obstacles. It owns the
// obstacle pool; an obstacle is either active in the world or parked in the
// pool, never destroyed.
type Spawner struct {
	cfg  config.Settings
	rng  Random
	pool *Pool[Obstacle]

	acc        float64 // Distance travelled since the last spawn
	gap        float64 // Distance at which the next spawn is due; 0 = not picked yet
	lastDouble bool
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(cfg config.Settings, rng Random) *Spawner {
	return &Spawner{
		cfg: cfg,
		rng: rng,
		pool: NewPool(cfg.Obstacles.PoolCapacity, func(o *Obstacle) {
			o.X, o.Y = offscreen, offscreen
			o.Passed = false
		}),
	}
}

// Reset recycles every obstacle and clears the schedule.
func (s *Spawner) Reset() {
	s.pool.ReleaseAll()
	s.acc = 0
	s.gap = 0
	s.lastDouble = false
}

// Each calls fn for every active obstacle.
func (s *Spawner) Each(fn func(*Obstacle)) {
	s.pool.Each(func(_ Handle, o *Obstacle) { fn(o) })
}

// Active returns the number of obstacles in the world.
func (s *Spawner) Active() int {
	return s.pool.Len()
}

// Pooled returns the number of obstacle slots ever created.
func (s *Spawner) Pooled() int {
	return s.pool.Size()
}

// RightMost returns the largest X among active obstacles, or -Inf when the
// world is empty.
func (s *Spawner) RightMost() float64 {
	right := math.Inf(-1)
	s.pool.Each(func(_ Handle, o *Obstacle) {
		if o.X > right {
			right = o.X
		}
	})
	return right
}

// Update scrolls obstacles left at speed for dt seconds, recycles the ones
// past the left threshold and spawns a new pack when the distance
// accumulator reaches the gap target. It returns the number of obstacles
// spawned.
func (s *Spawner) Update(dt, speed float64) int {
	if dt < 0 {
		dt = 0
	}
	step := speed * dt

	s.pool.Each(func(h Handle, o *Obstacle) {
		o.X -= step
		if o.X < s.cfg.Spawn.RecycleX {
			s.pool.Release(h)
		}
	})

	if s.gap <= 0 {
		s.gap = s.pickGap(speed)
	}
	s.acc += step
	if s.acc < s.gap {
		return 0
	}

	// Too close to the last obstacle: hold the accumulator at the target and
	// check again next frame.
	if s.RightMost() > s.cfg.SpawnX()-s.cfg.Spawn.MinSeparation*0.6 {
		s.acc = s.gap
		return 0
	}

	s.acc = 0
	s.gap = s.pickGap(speed)
	return s.SpawnPack(speed)
}

// SpawnPack spawns one pattern at the spawn line: a double, a flyer or a
// single ground obstacle. It returns the number of obstacles spawned.
func (s *Spawner) SpawnPack(speed float64) int {
	t := progress(speed, s.cfg.Speed)

	doubleChance := 0.0
	if !s.lastDouble && t > 0.25 {
		doubleChance = 0.08 + 0.08*t
	}
	flyChance := 0.18 + 0.12*t

	r := s.rng.Float64()
	if r < doubleChance {
		s.lastDouble = true
		s.spawn(ObstacleGround, 0)
		s.spawn(ObstacleGround, s.cfg.Spawn.DoubleOffset)
		return 2
	}
	s.lastDouble = false

	if r < doubleChance+flyChance {
		s.spawn(ObstacleFlying, 0)
	} else {
		s.spawn(ObstacleGround, 0)
	}
	return 1
}

// pickGap draws the next gap target. Gaps widen with difficulty, but the
// minimum widens less than the maximum.
func (s *Spawner) pickGap(speed float64) float64 {
	t := progress(speed, s.cfg.Speed)
	lo := s.cfg.Spawn.MinGap + t*s.cfg.Spawn.GapWidenMin
	hi := s.cfg.Spawn.MaxGap + t*s.cfg.Spawn.GapWidenMax
	return math.Floor(s.between(lo, hi))
}

func (s *Spawner) spawn(kind ObstacleKind, extraX float64) {
	_, o, _ := s.pool.Acquire()
	obs := s.cfg.Obstacles
	ground := s.cfg.GroundLine()

	o.Kind = kind
	o.Passed = false
	o.Scale = s.between(s.cfg.Spawn.ScaleMin, s.cfg.Spawn.ScaleMax)
	o.X = s.cfg.SpawnX() + extraX

	switch kind {
	case ObstacleFlying:
		o.Sprite = SpriteBird
		o.W, o.H = obs.FlyWidth*o.Scale, obs.FlyHeight*o.Scale
		o.hitW, o.hitH = obs.FlyHitboxW, obs.FlyHitboxH
		// Flyers are placed by their centre inside the band above the ground.
		cy := math.Floor(s.between(ground-s.cfg.Spawn.FlyMaxHeight, ground-s.cfg.Spawn.FlyMinHeight))
		o.Y = cy + o.H/2
	default:
		o.Sprite = SpriteRock
		if s.rng.Float64() >= 0.5 {
			o.Sprite = SpriteSpike
		}
		o.W, o.H = obs.GroundWidth*o.Scale, obs.GroundHeight*o.Scale
		o.hitW, o.hitH = obs.GroundHitboxW, obs.GroundHitboxH
		o.Y = ground
	}
}

func (s *Spawner) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}
