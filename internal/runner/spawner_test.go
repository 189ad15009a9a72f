package runner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
)

// constRandom always draws the same value.
type constRandom float64

func (r constRandom) Float64() float64 {
	return float64(r)
}

func obstacles(s *Spawner) []Obstacle {
	var out []Obstacle
	s.Each(func(o *Obstacle) { out = append(out, *o) })
	return out
}

func TestSpawnerGapFormula(t *testing.T) {
	cfg := config.DefaultSettings()

	tests := []struct {
		name     string
		speed    float64
		r        float64
		expected float64
	}{
		{"start speed low draw", cfg.Speed.Start, 0, 360},
		{"start speed mid draw", cfg.Speed.Start, 0.5, 560},
		{"max speed low draw", cfg.Speed.Max, 0, 400},
		{"max speed mid draw", cfg.Speed.Max, 0.5, 620},
		{"below start clamps", 0, 0.5, 560},
		{"fractional floors", cfg.Speed.Start, 0.0001, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpawner(cfg, constRandom(tt.r))
			if got := s.pickGap(tt.speed); got != tt.expected {
				t.Errorf("pickGap(%v) = %v, expected %v", tt.speed, got, tt.expected)
			}
		})
	}
}

func TestSpawnerPatternSelection(t *testing.T) {
	cfg := config.DefaultSettings()

	tests := []struct {
		name     string
		speed    float64
		r        float64
		kinds    []ObstacleKind
		isDouble bool
	}{
		{"slow low draw is a flyer", cfg.Speed.Start, 0.1, []ObstacleKind{ObstacleFlying}, false},
		{"slow high draw is ground", cfg.Speed.Start, 0.5, []ObstacleKind{ObstacleGround}, false},
		{"slow never doubles", cfg.Speed.Start, 0, []ObstacleKind{ObstacleFlying}, false},
		{"fast low draw doubles", cfg.Speed.Max, 0.1, []ObstacleKind{ObstacleGround, ObstacleGround}, true},
		{"fast mid draw is a flyer", cfg.Speed.Max, 0.4, []ObstacleKind{ObstacleFlying}, false},
		{"fast high draw is ground", cfg.Speed.Max, 0.9, []ObstacleKind{ObstacleGround}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpawner(cfg, constRandom(tt.r))
			n := s.SpawnPack(tt.speed)
			if n != len(tt.kinds) {
				t.Fatalf("SpawnPack returned %d, expected %d", n, len(tt.kinds))
			}
			got := obstacles(s)
			for i, o := range got {
				if o.Kind != tt.kinds[i] {
					t.Errorf("obstacle %d kind = %v, expected %v", i, o.Kind, tt.kinds[i])
				}
			}
			if s.lastDouble != tt.isDouble {
				t.Errorf("lastDouble = %v, expected %v", s.lastDouble, tt.isDouble)
			}
		})
	}
}

func TestSpawnerNoConsecutiveDoubles(t *testing.T) {
	cfg := config.DefaultSettings()
	s := NewSpawner(cfg, constRandom(0.1))

	counts := []int{s.SpawnPack(cfg.Speed.Max), s.SpawnPack(cfg.Speed.Max), s.SpawnPack(cfg.Speed.Max)}

	expected := []int{2, 1, 2}
	for i := range expected {
		if counts[i] != expected[i] {
			t.Errorf("pack %d spawned %d, expected %d", i, counts[i], expected[i])
		}
	}
}

func TestSpawnerPlacement(t *testing.T) {
	cfg := config.DefaultSettings()
	ground := cfg.GroundLine()

	t.Run("double", func(t *testing.T) {
		s := NewSpawner(cfg, constRandom(0.1))
		s.SpawnPack(cfg.Speed.Max)
		got := obstacles(s)
		if got[0].X != cfg.SpawnX() || got[1].X != cfg.SpawnX()+cfg.Spawn.DoubleOffset {
			t.Errorf("double at x=%v,%v", got[0].X, got[1].X)
		}
		for _, o := range got {
			if o.Y != ground {
				t.Errorf("ground obstacle bottom = %v, expected %v", o.Y, ground)
			}
		}
	})

	t.Run("flyer band", func(t *testing.T) {
		for _, r := range []float64{0.05, 0.1, 0.17} {
			s := NewSpawner(cfg, constRandom(r))
			s.SpawnPack(cfg.Speed.Start)
			o := obstacles(s)[0]
			if o.Kind != ObstacleFlying || o.Sprite != SpriteBird {
				t.Fatalf("expected a bird, got %v %q", o.Kind, o.Sprite)
			}
			cy := o.Y - o.H/2
			if cy < ground-cfg.Spawn.FlyMaxHeight || cy > ground-cfg.Spawn.FlyMinHeight {
				t.Errorf("flyer centre %v outside band", cy)
			}
		}
	})

	t.Run("scale jitter", func(t *testing.T) {
		s := NewSpawner(cfg, rand.New(rand.NewSource(7)))
		for i := 0; i < 50; i++ {
			s.SpawnPack(cfg.Speed.Start)
		}
		s.Each(func(o *Obstacle) {
			if o.Scale < cfg.Spawn.ScaleMin || o.Scale > cfg.Spawn.ScaleMax {
				t.Errorf("scale %v outside jitter range", o.Scale)
			}
			if o.Kind == ObstacleGround && o.Sprite != SpriteRock && o.Sprite != SpriteSpike {
				t.Errorf("unexpected ground sprite %q", o.Sprite)
			}
		})
	})
}

func TestObstacleHitbox(t *testing.T) {
	o := Obstacle{X: 1000, Y: 600, W: 64, H: 64, hitW: 0.7, hitH: 0.85}

	box := o.Hitbox()

	if !approx(box.W, 44.8) || !approx(box.H, 54.4) {
		t.Errorf("hitbox size = %vx%v", box.W, box.H)
	}
	if !approx(box.X, 1000-22.4) || !approx(box.Y, 568-27.2) {
		t.Errorf("hitbox not centred on sprite: %+v", box)
	}

	tiny := Obstacle{X: 0, Y: 0, W: 4, H: 4, hitW: 0.5, hitH: 0.5}
	if b := tiny.Hitbox(); b.W != 10 || b.H != 10 {
		t.Errorf("hitbox should be at least 10x10, got %vx%v", b.W, b.H)
	}
}

func TestSpawnerBackPressure(t *testing.T) {
	cfg := config.DefaultSettings()
	s := NewSpawner(cfg, constRandom(0.5))
	s.SpawnPack(cfg.Speed.Start)
	s.gap = 90

	// Obstacle ends at spawnX-100, still inside the separation window
	if n := s.Update(0.4, 250); n != 0 {
		t.Fatalf("spawn should be deferred, spawned %d", n)
	}
	if s.acc != s.gap {
		t.Errorf("deferred accumulator = %v, expected to be held at %v", s.acc, s.gap)
	}

	// Deferred again: the accumulator must not grow past the target
	s.Update(0.01, 250)
	if s.acc != s.gap {
		t.Errorf("accumulator = %v after second deferral, expected %v", s.acc, s.gap)
	}

	// Obstacle now clears the window; the held spawn fires
	if n := s.Update(0.5, 250); n != 1 {
		t.Errorf("expected deferred spawn to fire, spawned %d", n)
	}
	if s.Active() != 2 {
		t.Errorf("Active() = %d, expected 2", s.Active())
	}
	if s.acc != 0 {
		t.Errorf("accumulator should reset after a spawn, got %v", s.acc)
	}
}

func TestSpawnerRecyclesAndReuses(t *testing.T) {
	cfg := config.DefaultSettings()
	s := NewSpawner(cfg, constRandom(0.5))
	s.SpawnPack(cfg.Speed.Start)
	s.Each(func(o *Obstacle) { o.Passed = true })

	// One step carries the obstacle past the recycle line and triggers a spawn
	n := s.Update(1, 1700)

	if n != 1 {
		t.Fatalf("expected a spawn, got %d", n)
	}
	if s.Pooled() != 1 {
		t.Errorf("recycled slot should be reused, pool size = %d", s.Pooled())
	}
	o := obstacles(s)[0]
	if o.Passed {
		t.Error("reused obstacle must start unpassed")
	}
	if o.X != cfg.SpawnX() {
		t.Errorf("reused obstacle at x=%v, expected spawn line", o.X)
	}
}

func TestSpawnerReset(t *testing.T) {
	cfg := config.DefaultSettings()
	s := NewSpawner(cfg, constRandom(0.1))
	s.SpawnPack(cfg.Speed.Max)
	s.acc = 42

	s.Reset()

	if s.Active() != 0 || s.acc != 0 || s.gap != 0 || s.lastDouble {
		t.Errorf("Reset left state behind: active=%d acc=%v gap=%v double=%v", s.Active(), s.acc, s.gap, s.lastDouble)
	}
	if !math.IsInf(s.RightMost(), -1) {
		t.Errorf("RightMost() on empty world = %v", s.RightMost())
	}
}

func TestSpawnerMinimumSeparation(t *testing.T) {
	cfg := config.DefaultSettings()
	minSep := cfg.Spawn.MinSeparation * 0.6

	for seed := int64(1); seed <= 5; seed++ {
		s := NewSpawner(cfg, rand.New(rand.NewSource(seed)))
		speed := cfg.Speed.Start
		for frame := 0; frame < 20000; frame++ {
			speed = math.Min(speed+0.05, cfg.Speed.Max)
			if s.Update(0.016, speed) == 0 {
				continue
			}
			s.Each(func(o *Obstacle) {
				if o.X >= cfg.SpawnX() {
					return
				}
				if cfg.SpawnX()-o.X < minSep {
					t.Fatalf("seed %d frame %d: obstacle at %v within %v of spawn line", seed, frame, o.X, minSep)
				}
			})
		}
	}
}
