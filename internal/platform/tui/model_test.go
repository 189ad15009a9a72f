package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	m := NewModel(Options{
		Settings: config.DefaultSettings(),
		Store:    store,
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
	})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{"w", runeKey('w'), core.ActionJump},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{"p", runeKey('p'), core.ActionPause},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{"r", runeKey('r'), core.ActionRestart},
		{"m", runeKey('m'), core.ActionMute},
		{"plus", runeKey('+'), core.ActionVolumeUp},
		{"minus", runeKey('-'), core.ActionVolumeDown},
		{"q", runeKey('q'), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestJumpTracker(t *testing.T) {
	var j jumpTracker
	t0 := time.Unix(0, 0)

	if !j.Press(t0) {
		t.Fatal("first press should start a new press")
	}
	if j.Press(t0.Add(30 * time.Millisecond)) {
		t.Error("auto-repeat should not start a new press")
	}
	if j.Release(t0.Add(100 * time.Millisecond)) {
		t.Error("release reported while the key is still repeating")
	}
	if !j.Release(t0.Add(30*time.Millisecond + releaseAfter)) {
		t.Error("release not reported after the key went silent")
	}
	if j.Release(t0.Add(time.Second)) {
		t.Error("release reported twice")
	}
	if !j.Press(t0.Add(2 * time.Second)) {
		t.Error("press after release should start a new press")
	}
}

func TestJumpStartsRun(t *testing.T) {
	m := newTestModel(t, nil)
	if m.Run().State() != runner.StateReady {
		t.Fatalf("initial state = %v, want ready", m.Run().State())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Run().State() != runner.StatePlaying {
		t.Fatalf("state after jump = %v, want playing", m.Run().State())
	}
	if len(m.pending) != 1 || m.pending[0].Kind != runner.JumpPress {
		t.Errorf("pending = %+v, want one press", m.pending)
	}
}

func TestTickAdvancesRunClock(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	t0 := time.Unix(100, 0)
	m = update(t, m, TickMsg(t0))
	if m.Run().State() != runner.StatePlaying {
		t.Fatalf("state = %v, want playing", m.Run().State())
	}
	m = update(t, m, TickMsg(t0.Add(16*time.Millisecond)))

	if got := m.Run().Now(); got != 16*time.Millisecond {
		t.Errorf("run clock = %v, want 16ms", got)
	}
}

func TestPauseToggle(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	t0 := time.Unix(100, 0)
	m = update(t, m, TickMsg(t0))

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(t0.Add(16*time.Millisecond)))
	if m.Run().State() != runner.StatePaused {
		t.Fatalf("state = %v, want paused", m.Run().State())
	}

	clock := m.Run().Now()
	m = update(t, m, TickMsg(t0.Add(time.Second)))
	if m.Run().Now() != clock {
		t.Errorf("run clock advanced while paused: %v -> %v", clock, m.Run().Now())
	}

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(t0.Add(time.Second+16*time.Millisecond)))
	if m.Run().State() != runner.StatePlaying {
		t.Errorf("state = %v, want playing", m.Run().State())
	}
}

func TestFocusPause(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, TickMsg(time.Unix(100, 0)))

	m = update(t, m, tea.BlurMsg{})
	if m.Run().State() != runner.StatePaused {
		t.Fatalf("state after blur = %v, want paused", m.Run().State())
	}
	m = update(t, m, tea.FocusMsg{})
	if m.Run().State() != runner.StatePlaying {
		t.Fatalf("state after focus = %v, want playing", m.Run().State())
	}

	// A pause the player chose survives a focus round trip.
	m.Run().Pause()
	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, tea.FocusMsg{})
	if m.Run().State() != runner.StatePaused {
		t.Errorf("state = %v, want paused", m.Run().State())
	}
}

func TestSynthesizedRelease(t *testing.T) {
	m := newTestModel(t, nil)
	t0 := time.Unix(100, 0)
	now := t0
	m.clock = func() time.Time { return now }

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(t, m, TickMsg(t0))
	if !m.jump.held {
		t.Fatal("jump key should be held after a press")
	}

	m = update(t, m, TickMsg(t0.Add(100*time.Millisecond)))
	if !m.jump.held {
		t.Fatal("jump key released too early")
	}

	m = update(t, m, TickMsg(t0.Add(releaseAfter+10*time.Millisecond)))
	if m.jump.held {
		t.Error("jump key should be released after going silent")
	}
}

func TestAudioKeys(t *testing.T) {
	m := newTestModel(t, nil)
	t0 := time.Unix(100, 0)

	m = update(t, m, runeKey('m'))
	m = update(t, m, TickMsg(t0))
	if !m.Run().Muted() || !m.hud.muted {
		t.Error("mute key should mute")
	}

	for i := range 5 {
		m = update(t, m, runeKey('+'))
		m = update(t, m, TickMsg(t0.Add(time.Duration(i+1)*time.Millisecond)))
	}
	if got := m.Run().Volume(); got != 1 {
		t.Errorf("volume = %v, want clamped to 1", got)
	}
	if m.hud.volume != 1 {
		t.Errorf("hud volume = %v, want 1", m.hud.volume)
	}
}

func TestViewOverlays(t *testing.T) {
	m := newTestModel(t, nil)

	m.View()
	if !strings.Contains(m.screen.String(), "RUNNER") {
		t.Error("ready screen should show the title box")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, TickMsg(time.Unix(100, 0)))
	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg(time.Unix(100, 0).Add(16*time.Millisecond)))

	m.View()
	out := m.screen.String()
	if !strings.Contains(out, "PAUSED") {
		t.Error("paused screen should show the pause box")
	}
	if !strings.Contains(out, "Score: 0") {
		t.Error("HUD should show the score")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if v := next.View(); v != "" {
		t.Errorf("View after quit = %q, want empty", v)
	}
}

func TestSaveRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m.difficulty = config.DifficultyHard
	m.saveRun(42)

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 42 || runs[0].Difficulty != "hard" {
		t.Errorf("runs = %+v, want one hard run scoring 42", runs)
	}
}

func TestViewportProjection(t *testing.T) {
	world := config.DefaultSettings().World
	v := newViewport(world, 80, 24)

	ground := v.row(config.DefaultSettings().GroundLine())
	if ground <= hudRows || ground >= 24 {
		t.Fatalf("ground row = %d, want inside the play area", ground)
	}

	// A small box still covers at least one cell.
	r := v.rect(core.NewBox(100, 100, 1, 1))
	if r.W < 1 || r.H < 1 {
		t.Errorf("rect = %+v, want at least 1x1", r)
	}

	// A box resting on the ground ends on the ground row.
	box := core.BoxFromBottomCenter(300, config.DefaultSettings().GroundLine(), 64, 64)
	if got := v.rect(box).Bottom(); got != ground {
		t.Errorf("rect bottom = %d, want ground row %d", got, ground)
	}
}
