// Package runner implements the per-frame simulation of an endless
// side-scrolling runner: player motion with jump-feel assists, obstacle
// spawning, the speed ramp, scoring and the run lifecycle.
//
// A Run is driven by a single caller that invokes Step once per frame. The
// package never draws or blocks; presentation layers subscribe to events
// and read state between frames.
package runner

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// RunState is the lifecycle state of a run.
type RunState int

const (
	StateReady RunState = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s RunState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Option configures a Run.
type Option func(*Run)

// WithCollider replaces the default flat-ground collider.
func WithCollider(c Collider) Option {
	return func(r *Run) {
		r.collider = c
		r.customCollider = true
	}
}

// WithPersistence sets the store for the best score and audio preferences.
func WithPersistence(p Persistence) Option {
	return func(r *Run) {
		r.prefs.store = p
	}
}

// WithRandom sets the source obstacle spawning draws from.
func WithRandom(rng Random) Option {
	return func(r *Run) {
		r.rng = rng
	}
}

// WithSeed seeds obstacle spawning for a reproducible run.
func WithSeed(seed int64) Option {
	return WithRandom(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Run) {
		r.prefs.logger = l
	}
}

// Run is the top-level state machine of one player's session. It owns the
// player, the obstacle pool and the run clock, and is reused across runs.
// A Run is not safe for concurrent use.
type Run struct {
	cfg     config.Settings
	next    *config.Settings // Settings waiting for the next reset
	state   RunState
	clock   time.Duration // Time spent playing this run
	best    int
	muted   bool
	volume  float64
	jumped  bool // First jump of the run already reported

	motion   *MotionController
	spawner  *Spawner
	ramp     *Ramp
	scorer   *Scorer
	collider Collider

	customCollider bool
	rng            Random
	prefs          prefs
	listeners      listeners
}

// New creates a run in the ready state. Settings are normalized first.
func New(cfg config.Settings, opts ...Option) *Run {
	r := &Run{}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if r.prefs.store == nil {
		r.prefs.store = NewMemoryPersistence()
	}
	if r.prefs.logger == nil {
		r.prefs.logger = log.New(io.Discard)
	}

	r.build(cfg.Normalize())
	r.best = r.prefs.best(0)
	r.muted = r.prefs.muted()
	r.volume = r.prefs.volume()
	return r
}

func (r *Run) build(cfg config.Settings) {
	r.cfg = cfg
	r.motion = NewMotionController(cfg)
	r.spawner = NewSpawner(cfg, r.rng)
	r.ramp = NewRamp(cfg.Speed)
	r.scorer = NewScorer(cfg.Score)
	if !r.customCollider {
		r.collider = NewArcadeCollider(cfg)
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (r *Run) Subscribe(fn Listener) func() {
	return r.listeners.add(fn)
}

func (r *Run) emit(ev Event) {
	r.listeners.emit(ev)
}

// Apply schedules new settings. They take effect immediately in the ready
// state and otherwise at the next Reset; a run in progress keeps its tuning.
func (r *Run) Apply(cfg config.Settings) {
	cfg = cfg.Normalize()
	if r.state == StateReady {
		r.next = nil
		r.build(cfg)
		r.reset()
		return
	}
	r.next = &cfg
}

// Settings returns the settings of the current run.
func (r *Run) Settings() config.Settings {
	return r.cfg
}

// Reset abandons the current run and returns to the ready state, recycling
// every obstacle. Pending settings are applied.
func (r *Run) Reset() {
	if r.next != nil {
		r.build(*r.next)
		r.next = nil
	}
	r.state = StateReady
	r.reset()
}

func (r *Run) reset() {
	r.clock = 0
	r.jumped = false
	r.motion.Reset(r.cfg.Player.X, r.cfg.GroundLine()-r.cfg.Player.SpawnHeight)
	r.spawner.Reset()
	r.ramp.Reset()
	r.scorer.Reset()
}

// Start begins a run from the ready state: state is reset, the opening
// obstacle pack is spawned and a fresh HUD is announced. It reports whether
// the run started.
func (r *Run) Start() bool {
	if r.state != StateReady {
		return false
	}
	r.reset()
	r.state = StatePlaying
	r.spawner.SpawnPack(r.ramp.Speed())

	r.emit(ScoreChanged{Score: 0})
	r.emit(SpeedChanged{Speed: r.ramp.Speed()})
	r.emit(BestChanged{Best: r.best})
	r.emit(AudioChanged{Muted: r.muted, Volume: r.volume})
	return true
}

// Restart resets and starts a new run.
func (r *Run) Restart() bool {
	r.Reset()
	return r.Start()
}

// Pause suspends a playing run. Paused time is excluded from the run clock.
func (r *Run) Pause() bool {
	if r.state != StatePlaying {
		return false
	}
	r.state = StatePaused
	r.emit(PauseChanged{Paused: true})
	return true
}

// Resume continues a paused run exactly where it left off.
func (r *Run) Resume() bool {
	if r.state != StatePaused {
		return false
	}
	r.state = StatePlaying
	r.emit(PauseChanged{Paused: false})
	return true
}

// Step advances a playing run by dt, clamped to [0, max frame delta], and
// applies the jump inputs received since the previous frame. Outside the
// playing state it does nothing and returns the current state.
//
// Events are emitted in order: score, speed, then best and game over on the
// frame the run ends.
func (r *Run) Step(dt time.Duration, events ...InputEvent) core.StepResult {
	if r.state != StatePlaying {
		return core.StepResult{State: r.Snapshot()}
	}

	if dt < 0 {
		dt = 0
	}
	if dt > r.cfg.Timing.MaxFrameDelta {
		dt = r.cfg.Timing.MaxFrameDelta
	}
	r.clock += dt
	sec := dt.Seconds()

	if !r.jumped {
		for _, ev := range events {
			if ev.Kind == JumpPress {
				r.jumped = true
				r.emit(FirstJump{})
				break
			}
		}
	}

	speed := r.ramp.Speed()
	motion := r.motion.Update(sec, r.clock, r.collider, events)
	spawned := r.spawner.Update(sec, speed)
	hit := r.scorer.Update(sec, speed, r.motion.Hitbox(), r.spawner, r.collider).Hit

	r.emit(ScoreChanged{Score: r.scorer.Floor()})
	if !hit {
		r.ramp.Update(sec, r.clock)
	}
	r.emit(SpeedChanged{Speed: r.ramp.Speed()})

	if hit {
		r.gameOver()
	}

	return core.StepResult{
		State:   r.Snapshot(),
		Jumped:  motion.Jumped,
		Landed:  motion.Landed,
		Spawned: spawned,
	}
}

// gameOver freezes the run, finalizes the score and records a new best only
// when it beats the stored one.
func (r *Run) gameOver() {
	r.state = StateGameOver
	final := r.scorer.Floor()

	prev := r.prefs.best(r.best)
	best := prev
	if final > prev {
		r.prefs.saveBest(final)
		best = final
	}
	r.best = best

	r.emit(BestChanged{Best: best})
	r.emit(GameOver{Score: final, Best: best})
}

// SetMuted stores the mute preference and announces it.
func (r *Run) SetMuted(muted bool) {
	r.muted = muted
	r.prefs.saveMuted(muted)
	r.emit(AudioChanged{Muted: r.muted, Volume: r.volume})
}

// SetVolume stores the volume, clamped to [0, 1], and announces it.
func (r *Run) SetVolume(volume float64) {
	r.volume = core.ClampF(volume, 0, 1)
	r.prefs.saveVolume(r.volume)
	r.emit(AudioChanged{Muted: r.muted, Volume: r.volume})
}

// Muted reports the mute preference.
func (r *Run) Muted() bool { return r.muted }

// Volume returns the volume preference.
func (r *Run) Volume() float64 { return r.volume }

// State returns the lifecycle state.
func (r *Run) State() RunState {
	return r.state
}

// Now returns the run clock. Input events should be stamped with it.
func (r *Run) Now() time.Duration {
	return r.clock
}

// Score returns the fractional score.
func (r *Run) Score() float64 {
	return r.scorer.Score()
}

// Speed returns the scroll speed.
func (r *Run) Speed() float64 {
	return r.ramp.Speed()
}

// Best returns the best score known to the run.
func (r *Run) Best() int {
	return r.best
}

// Player returns the player state.
func (r *Run) Player() PlayerState {
	return r.motion.State()
}

// PlayerBox returns the player's collision box.
func (r *Run) PlayerBox() core.Box {
	return r.motion.Hitbox()
}

// EachObstacle calls fn with a copy of every active obstacle.
func (r *Run) EachObstacle(fn func(Obstacle)) {
	r.spawner.Each(func(o *Obstacle) { fn(*o) })
}

// Snapshot returns the state the presentation layer displays.
func (r *Run) Snapshot() core.GameState {
	return core.GameState{
		Score:    r.scorer.Floor(),
		Best:     r.best,
		Speed:    r.ramp.Speed(),
		Started:  r.state != StateReady,
		Paused:   r.state == StatePaused,
		GameOver: r.state == StateGameOver,
	}
}
