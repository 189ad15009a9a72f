package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// volumeStep is the volume change per key press.
const volumeStep = 0.1

// Options configures a play session.
type Options struct {
	Settings   config.Settings
	Difficulty config.DifficultyPreset // Recorded with each saved run
	Store      *storage.Store          // Optional; nil keeps preferences in memory
	Runtime    core.RuntimeConfig
	Watcher    *config.Watcher // Optional settings hot reload
	Logger     *log.Logger
}

// settingsMsg carries reloaded settings from the watcher.
type settingsMsg config.Settings

// watchErrMsg carries a reload failure from the watcher.
type watchErrMsg struct{ err error }

// Model is the Bubble Tea model that drives a run from terminal input.
type Model struct {
	run        *runner.Run
	hud        *hudState
	keys       KeyMap
	screen     *core.Screen
	store      *storage.Store
	watcher    *config.Watcher
	logger     *log.Logger
	config     core.RuntimeConfig
	difficulty config.DifficultyPreset
	inputFrame core.InputFrame
	jump       jumpTracker
	pending    []runner.InputEvent
	lastTick   time.Time
	clock      func() time.Time
	blurred    bool // Paused because the terminal lost focus
	runSaved   bool // Whether the current game over has been recorded
	quitting   bool
}

// NewModel creates a play model and its run.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	runOpts := []runner.Option{
		runner.WithSeed(cfg.Seed),
		runner.WithLogger(logger),
	}
	if opts.Store != nil {
		runOpts = append(runOpts, runner.WithPersistence(opts.Store))
	}
	run := runner.New(opts.Settings, runOpts...)

	hud := &hudState{
		best:   run.Best(),
		speed:  run.Speed(),
		muted:  run.Muted(),
		volume: run.Volume(),
	}
	run.Subscribe(hud.listen)

	return Model{
		run:        run,
		hud:        hud,
		keys:       DefaultKeyMap(),
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		watcher:    opts.Watcher,
		logger:     logger,
		config:     cfg,
		difficulty: opts.Difficulty,
		inputFrame: core.NewInputFrame(),
		clock:      time.Now,
	}
}

// Run returns the simulation driven by the model.
func (m Model) Run() *runner.Run {
	return m.run
}

// Init starts the frame loop and, when configured, the settings watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if m.watcher != nil {
		cmds = append(cmds, waitForSettings(m.watcher), waitForWatchErr(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.BlurMsg:
		if m.run.Pause() {
			m.blurred = true
		}
		m.jump.Reset()
		return m, nil

	case tea.FocusMsg:
		if m.blurred {
			m.blurred = false
			m.run.Resume()
		}
		return m, nil

	case settingsMsg:
		m.run.Apply(config.Settings(msg))
		m.logger.Info("settings reloaded", "path", m.watcher.Path(), "state", m.run.State())
		return m, waitForSettings(m.watcher)

	case watchErrMsg:
		m.logger.Warn("settings reload failed", "err", msg.err)
		return m, waitForWatchErr(m.watcher)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input. Jump presses are stamped with the run
// clock as they arrive; everything else is applied on the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionJump:
		if m.run.State() == runner.StateReady {
			m.start()
		}
		if m.run.State() != runner.StatePlaying {
			return m, nil
		}
		if m.jump.Press(m.clock()) {
			m.pending = append(m.pending, runner.InputEvent{Kind: runner.JumpPress, At: m.run.Now()})
		}

	case core.ActionNone:

	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleTick applies queued actions and advances the run by the wall time
// since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now

	m.applyActions()
	m.inputFrame.Clear()

	if m.jump.Release(now) && m.run.State() == runner.StatePlaying {
		m.pending = append(m.pending, runner.InputEvent{Kind: runner.JumpRelease, At: m.run.Now()})
	}

	res := m.run.Step(dt, m.pending...)
	m.pending = nil
	if res.Jumped {
		m.logger.Debug("jump", "at", m.run.Now(), "speed", res.State.Speed)
	}

	if res.State.GameOver && !m.runSaved {
		m.saveRun(res.State.Score)
		m.runSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// applyActions handles the non-jump actions collected since the last tick.
func (m *Model) applyActions() {
	state := m.run.State()

	switch {
	case m.inputFrame.Has(core.ActionStart) && state == runner.StateReady:
		m.start()
	case m.inputFrame.Has(core.ActionStart), m.inputFrame.Has(core.ActionRestart):
		if state == runner.StateGameOver {
			m.restart()
		}
	case m.inputFrame.Has(core.ActionPause):
		if state == runner.StatePaused {
			m.run.Resume()
		} else {
			m.run.Pause()
		}
		m.blurred = false
		m.jump.Reset()
	}

	if m.inputFrame.Has(core.ActionMute) {
		m.run.SetMuted(!m.run.Muted())
	}
	if m.inputFrame.Has(core.ActionVolumeUp) {
		m.run.SetVolume(m.run.Volume() + volumeStep)
	}
	if m.inputFrame.Has(core.ActionVolumeDown) {
		m.run.SetVolume(m.run.Volume() - volumeStep)
	}
}

func (m *Model) start() {
	m.hud.newRun()
	m.runSaved = false
	m.pending = nil
	m.run.Start()
	m.logger.Info("run started", "difficulty", m.difficulty, "speed", m.run.Speed())
}

func (m *Model) restart() {
	m.run.Reset()
	m.jump.Reset()
	m.start()
}

// saveRun records a finished run in the history.
func (m *Model) saveRun(score int) {
	m.logger.Info("game over", "score", score, "best", m.run.Best(), "duration", m.run.Now())
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRun(storage.RunRecord{
		Score:      score,
		Difficulty: string(m.difficulty),
		Duration:   m.run.Now(),
	})
	if err != nil {
		m.logger.Warn("failed to save run", "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	renderRun(m.screen, m.run, m.hud, m.keys)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("failed to create screenshot dir", "err", err)
		return
	}

	filename := fmt.Sprintf("runner_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("failed to save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	renderRun(m.screen, m.run, m.hud, m.keys)
	return RenderScreen(m.screen)
}

func waitForSettings(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		return settingsMsg(<-w.Settings)
	}
}

func waitForWatchErr(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		return watchErrMsg{err: <-w.Errors}
	}
}

// Play starts the Bubble Tea program for a local session.
func Play(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	_, err := p.Run()
	return err
}
