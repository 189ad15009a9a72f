package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner"
)

// Visual characters for rendering
const (
	GroundChar = '═'
	DirtChar   = '░'
	PlayerChar = '█'
	RockChar   = '▲'
	SpikeChar  = '▓'
	BirdChar   = 'v'
)

// hudRows is the number of screen rows reserved above the play area.
const hudRows = 1

// hudState mirrors the run's events for drawing. It is written by the run's
// listener and read when rendering.
type hudState struct {
	score     int
	best      int
	speed     float64
	paused    bool
	over      bool
	newBest   bool
	muted     bool
	volume    float64
	firstJump bool
}

// newRun clears the per-run flags before a run starts.
func (h *hudState) newRun() {
	h.over = false
	h.paused = false
	h.newBest = false
	h.firstJump = false
}

// listen applies a run event to the HUD.
func (h *hudState) listen(ev runner.Event) {
	switch ev := ev.(type) {
	case runner.ScoreChanged:
		h.score = ev.Score
	case runner.SpeedChanged:
		h.speed = ev.Speed
	case runner.BestChanged:
		h.best = ev.Best
	case runner.PauseChanged:
		h.paused = ev.Paused
	case runner.GameOver:
		h.over = true
		h.paused = false
		h.score = ev.Score
		h.newBest = ev.Score > 0 && ev.Score == ev.Best
	case runner.FirstJump:
		h.firstJump = true
	case runner.AudioChanged:
		h.muted = ev.Muted
		h.volume = ev.Volume
	}
}

// viewport projects world coordinates onto screen cells. The whole world is
// scaled to fit below the HUD, so a resize never disturbs the simulation.
type viewport struct {
	sx, sy float64
	top    int
}

func newViewport(world config.WorldConfig, width, height int) viewport {
	playH := height - hudRows
	if playH < 1 {
		playH = 1
	}
	return viewport{
		sx:  float64(width) / world.Width,
		sy:  float64(playH) / world.Height,
		top: hudRows,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Round(x * v.sx))
}

func (v viewport) row(y float64) int {
	return v.top + int(math.Round(y*v.sy))
}

// rect projects a world box, keeping at least one cell so nothing vanishes
// on small terminals.
func (v viewport) rect(b core.Box) core.Rect {
	x0, x1 := v.col(b.X), v.col(b.Right())
	y0, y1 := v.row(b.Y), v.row(b.Bottom())
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y0 = y1 - 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// renderRun draws the world, the HUD and any overlay for the run's state.
func renderRun(dst *core.Screen, run *runner.Run, hud *hudState, keys KeyMap) {
	dst.Clear()
	cfg := run.Settings()
	v := newViewport(cfg.World, dst.Width(), dst.Height())

	// Ground
	gy := v.row(cfg.GroundLine())
	dst.DrawHLine(0, gy, dst.Width(), GroundChar, core.ColorGray)
	dst.DrawRect(core.NewRect(0, gy+1, dst.Width(), dst.Height()-gy-1), DirtChar, core.ColorGray)

	run.EachObstacle(func(o runner.Obstacle) {
		glyph, color := RockChar, core.ColorOrange
		switch o.Sprite {
		case runner.SpriteSpike:
			glyph, color = SpikeChar, core.ColorRed
		case runner.SpriteBird:
			glyph, color = BirdChar, core.ColorCyan
		}
		dst.DrawRect(v.rect(o.Bounds()), glyph, color)
	})

	playerColor := core.ColorBrightGreen
	if hud.over {
		playerColor = core.ColorRed
	}
	dst.DrawRect(v.rect(run.PlayerBox()), PlayerChar, playerColor)

	drawHUD(dst, hud)

	switch run.State() {
	case runner.StateReady:
		drawCenteredMessage(dst, "RUNNER", fmt.Sprintf("%s to jump  |  %s to start",
			keys.Jump.Help().Key, keys.Start.Help().Key))
	case runner.StatePaused:
		drawCenteredMessage(dst, "PAUSED", fmt.Sprintf("Press %s to resume", keys.Pause.Help().Key))
	case runner.StateGameOver:
		title := "GAME OVER"
		if hud.newBest {
			title = "NEW BEST!"
		}
		drawCenteredMessage(dst, title, fmt.Sprintf("Score: %d  Best: %d  |  %s to restart",
			hud.score, hud.best, keys.Restart.Help().Key))
	case runner.StatePlaying:
		if !hud.firstJump {
			dst.DrawTextCentered(v.row(cfg.World.Height/3), "Jump over the obstacles!")
		}
	}
}

func drawHUD(dst *core.Screen, hud *hudState) {
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", hud.score), core.ColorBrightYellow)
	dst.DrawTextColored(16, 0, fmt.Sprintf(" Best: %d ", hud.best), core.ColorYellow)

	audio := fmt.Sprintf("Vol %d%%", int(math.Round(hud.volume*100)))
	if hud.muted {
		audio = "Muted"
	}
	right := fmt.Sprintf(" Spd: %.0f  %s ", hud.speed, audio)
	dst.DrawTextColored(dst.Width()-len([]rune(right))-2, 0, right, core.ColorWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightYellow)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
