package player

import "time"

type State int

const (
	StatePaused State = iota
	StatePlaying
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "paused"
}

// Widget wraps one asset's audio source. Widgets are created paused
// and never start playing on their own: mounting a new widget while
// another is playing must not disturb the playing one.
type Widget struct {
	id       string
	src      string
	coord    *Coordinator
	state    State
	position time.Duration
	duration time.Duration
}

// NewWidget registers a widget with the coordinator. id must be the
// stable per-item identifier the roster mounts by.
func NewWidget(coord *Coordinator, id, src string, duration time.Duration) *Widget {
	return &Widget{
		id:       id,
		src:      src,
		coord:    coord,
		state:    StatePaused,
		duration: duration,
	}
}

func (w *Widget) ID() string { return w.id }

func (w *Widget) State() State {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()
	return w.state
}

func (w *Widget) Position() time.Duration {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()
	return w.position
}

// Toggle is the play button click. Clicking the playing widget pauses
// it; clicking a paused widget starts it, pausing whichever widget
// was playing. Each click flips state exactly once, so a rapid double
// click is play then pause, never a double-play.
func (w *Widget) Toggle() {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()

	if w.state == StatePlaying {
		w.coord.notifyStopped(w)
		return
	}
	w.coord.notifyPlaying(w)
}

// Pause stops this widget only; other widgets are untouched.
func (w *Widget) Pause() {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()
	w.coord.notifyStopped(w)
}

// Finish is the end-of-track transition: the widget pauses and the
// playhead resets to the start.
func (w *Widget) Finish() {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()
	w.coord.notifyStopped(w)
	w.position = 0
}

// Seek moves the playhead without changing play state, clamped to the
// track duration.
func (w *Widget) Seek(pos time.Duration) {
	w.coord.mu.Lock()
	defer w.coord.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if w.duration > 0 && pos > w.duration {
		pos = w.duration
	}
	w.position = pos
}

// Unmount removes the widget from the page, force-stopping it if it
// is the one playing. Satisfies roster.Widget.
func (w *Widget) Unmount() {
	w.Pause()
}
