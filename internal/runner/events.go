package runner

// Event is a state-change notification emitted by a Run. The concrete types
// below are the complete set.
type Event interface {
	runEvent()
}

// ScoreChanged carries the floored score. Emitted every playing frame.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) runEvent() {}

// SpeedChanged carries the scroll speed. Emitted every playing frame, after
// ScoreChanged.
type SpeedChanged struct {
	Speed float64
}

func (SpeedChanged) runEvent() {}

// BestChanged carries the best score known to the run.
type BestChanged struct {
	Best int
}

func (BestChanged) runEvent() {}

// PauseChanged is emitted when a run is suspended or resumed.
type PauseChanged struct {
	Paused bool
}

func (PauseChanged) runEvent() {}

// GameOver is emitted exactly once per run, on the frame the run ends.
type GameOver struct {
	Score int
	Best  int
}

func (GameOver) runEvent() {}

// FirstJump is emitted on the first jump press of a run.
type FirstJump struct{}

func (FirstJump) runEvent() {}

// AudioChanged carries the audio preferences.
type AudioChanged struct {
	Muted  bool
	Volume float64
}

func (AudioChanged) runEvent() {}

// Listener receives events synchronously, in emission order.
type Listener func(Event)

// listeners is an ordered observer list. Removal leaves a nil hole so that
// unsubscribing from inside a listener is safe during emission.
type listeners struct {
	fns []Listener
}

func (l *listeners) add(fn Listener) func() {
	l.fns = append(l.fns, fn)
	idx := len(l.fns) - 1
	return func() {
		if idx < len(l.fns) {
			l.fns[idx] = nil
		}
	}
}

func (l *listeners) emit(ev Event) {
	for i := 0; i < len(l.fns); i++ {
		if fn := l.fns[i]; fn != nil {
			fn(ev)
		}
	}
}
