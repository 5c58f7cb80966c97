package player

import (
	"sync"
	"testing"
	"time"
)

func playingCount(widgets ...*Widget) int {
	n := 0
	for _, w := range widgets {
		if w.State() == StatePlaying {
			n++
		}
	}
	return n
}

func TestTogglePlaysAndPauses(t *testing.T) {
	coord := NewCoordinator()
	w := NewWidget(coord, "a", "/files/a.mp3", 3*time.Minute)

	if w.State() != StatePaused {
		t.Fatalf("new widget should be paused, got %v", w.State())
	}

	w.Toggle()
	if w.State() != StatePlaying {
		t.Fatalf("expected playing after toggle, got %v", w.State())
	}
	if id, ok := coord.CurrentID(); !ok || id != "a" {
		t.Fatalf("coordinator should track widget a, got %q %v", id, ok)
	}

	w.Toggle()
	if w.State() != StatePaused {
		t.Fatalf("expected paused after second toggle, got %v", w.State())
	}
	if _, ok := coord.CurrentID(); ok {
		t.Fatal("coordinator should have no current widget")
	}
}

func TestDoubleClickTogglesOncePerClick(t *testing.T) {
	coord := NewCoordinator()
	w := NewWidget(coord, "a", "", 0)

	// play, pause, play: each click flips exactly once
	states := []State{StatePlaying, StatePaused, StatePlaying}
	for i, want := range states {
		w.Toggle()
		if got := w.State(); got != want {
			t.Fatalf("click %d: got %v, want %v", i+1, got, want)
		}
	}
}

func TestPlayingSecondWidgetPausesFirst(t *testing.T) {
	coord := NewCoordinator()
	a := NewWidget(coord, "a", "", 0)
	b := NewWidget(coord, "b", "", 0)

	a.Toggle()
	b.Toggle()

	if a.State() != StatePaused {
		t.Fatalf("widget a should be paused, got %v", a.State())
	}
	if b.State() != StatePlaying {
		t.Fatalf("widget b should be playing, got %v", b.State())
	}
	if n := playingCount(a, b); n != 1 {
		t.Fatalf("playing count = %d, want 1", n)
	}
}

func TestNewWidgetDoesNotDisturbPlayback(t *testing.T) {
	coord := NewCoordinator()
	a := NewWidget(coord, "a", "", 0)
	a.Toggle()

	b := NewWidget(coord, "b", "", 0)

	if a.State() != StatePlaying {
		t.Fatalf("mounting b must not pause a, a = %v", a.State())
	}
	if b.State() != StatePaused {
		t.Fatalf("new widget must start paused, b = %v", b.State())
	}
}

func TestFinishResetsPlayhead(t *testing.T) {
	coord := NewCoordinator()
	w := NewWidget(coord, "a", "", 4*time.Minute)

	w.Toggle()
	w.Seek(90 * time.Second)
	w.Finish()

	if w.State() != StatePaused {
		t.Fatalf("finished widget should be paused, got %v", w.State())
	}
	if w.Position() != 0 {
		t.Fatalf("finished widget playhead = %v, want 0", w.Position())
	}
	if _, ok := coord.CurrentID(); ok {
		t.Fatal("coordinator should be cleared after finish")
	}
}

func TestPauseOnlyAffectsSelf(t *testing.T) {
	coord := NewCoordinator()
	a := NewWidget(coord, "a", "", 0)
	b := NewWidget(coord, "b", "", 0)

	a.Toggle()
	b.Pause() // pausing an already-paused widget is a no-op

	if a.State() != StatePlaying {
		t.Fatalf("pausing b must not touch a, a = %v", a.State())
	}
}

func TestStopAllSilencesPage(t *testing.T) {
	coord := NewCoordinator()
	widgets := []*Widget{
		NewWidget(coord, "a", "", 0),
		NewWidget(coord, "b", "", 0),
		NewWidget(coord, "c", "", 0),
	}
	widgets[1].Toggle()

	coord.StopAll()

	if n := playingCount(widgets...); n != 0 {
		t.Fatalf("playing count after StopAll = %d, want 0", n)
	}
	if _, ok := coord.CurrentID(); ok {
		t.Fatal("coordinator should be cleared after StopAll")
	}

	// StopAll on a silent page is a no-op
	coord.StopAll()
}

func TestSeekClampsToDuration(t *testing.T) {
	coord := NewCoordinator()
	w := NewWidget(coord, "a", "", time.Minute)

	w.Seek(2 * time.Minute)
	if w.Position() != time.Minute {
		t.Fatalf("position = %v, want clamp to %v", w.Position(), time.Minute)
	}

	w.Seek(-time.Second)
	if w.Position() != 0 {
		t.Fatalf("position = %v, want clamp to 0", w.Position())
	}
}

func TestInvariantUnderConcurrentClicks(t *testing.T) {
	coord := NewCoordinator()

	widgets := make([]*Widget, 8)
	for i := range widgets {
		widgets[i] = NewWidget(coord, string(rune('a'+i)), "", 0)
	}

	var wg sync.WaitGroup
	for _, w := range widgets {
		wg.Add(1)
		go func(w *Widget) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				w.Toggle()
			}
		}(w)
	}
	wg.Wait()

	if n := playingCount(widgets...); n > 1 {
		t.Fatalf("playing count = %d, invariant is at most 1", n)
	}

	// The tracked reference must agree with widget state.
	if id, ok := coord.CurrentID(); ok {
		for _, w := range widgets {
			if w.ID() == id && w.State() != StatePlaying {
				t.Fatalf("current widget %s is not playing", id)
			}
		}
	}
}
