package player

import "sync"

// Coordinator owns the single "currently playing" reference for the
// whole page. All widget state transitions run under its lock, which
// is what makes the at-most-one-playing invariant atomic: a widget
// going into the playing state pauses the previous one inside the
// same critical section.
type Coordinator struct {
	mu      sync.Mutex
	current *Widget
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// CurrentID returns the id of the playing widget, if any.
func (c *Coordinator) CurrentID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return "", false
	}
	return c.current.id, true
}

// StopAll force-stops the playing widget and clears the reference.
// Called on page-level navigation so audio never continues invisibly.
func (c *Coordinator) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.state = StatePaused
		c.current = nil
	}
}

// notifyPlaying records w as the playing widget, pausing the previous
// one first. Caller holds c.mu.
func (c *Coordinator) notifyPlaying(w *Widget) {
	if c.current != nil && c.current != w {
		c.current.state = StatePaused
	}
	c.current = w
	w.state = StatePlaying
}

// notifyStopped clears the reference if w owns it. Caller holds c.mu.
func (c *Coordinator) notifyStopped(w *Widget) {
	w.state = StatePaused
	if c.current == w {
		c.current = nil
	}
}
