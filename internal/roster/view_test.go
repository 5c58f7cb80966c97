package roster

import (
	"context"
	"testing"
	"time"

	"github.com/adelie22/Artivora/internal/asset"
	"github.com/adelie22/Artivora/internal/player"
)

func TestApplyMountsAndUnmounts(t *testing.T) {
	var unmounted []string
	v := NewView(func(id string, _ asset.Asset) Widget {
		return unmountFunc(func() { unmounted = append(unmounted, id) })
	})

	v.Apply(Batch{
		{Type: Added, ID: "a", Doc: doc("a")},
		{Type: Added, ID: "b", Doc: doc("b")},
	})
	if v.Len() != 2 || !v.Has("a") || !v.Has("b") {
		t.Fatalf("mounted = %d, want a and b", v.Len())
	}

	v.Apply(Batch{{Type: Removed, ID: "a", Doc: doc("a")}})
	if v.Has("a") || v.Len() != 1 {
		t.Fatal("a should be unmounted")
	}
	if len(unmounted) != 1 || unmounted[0] != "a" {
		t.Fatalf("unmounted = %v, want [a]", unmounted)
	}
}

func TestRedundantAddedIsNoOp(t *testing.T) {
	mounts := 0
	v := NewView(func(string, asset.Asset) Widget {
		mounts++
		return unmountFunc(func() {})
	})

	v.Apply(Batch{{Type: Added, ID: "a", Doc: doc("a")}})
	v.Apply(Batch{{Type: Added, ID: "a", Doc: doc("a")}})

	if mounts != 1 {
		t.Fatalf("render ran %d times, want 1", mounts)
	}
	if v.Len() != 1 {
		t.Fatalf("mounted = %d, want 1", v.Len())
	}
}

func TestModifiedKeepsWidgetMounted(t *testing.T) {
	mounts := 0
	v := NewView(func(string, asset.Asset) Widget {
		mounts++
		return unmountFunc(func() {})
	})

	v.Apply(Batch{{Type: Added, ID: "a", Doc: doc("a")}})
	changed := doc("a")
	changed.Title = "renamed"
	v.Apply(Batch{{Type: Modified, ID: "a", Doc: changed}})

	if mounts != 1 {
		t.Fatalf("modified delta remounted the widget (%d mounts)", mounts)
	}
	if !v.Has("a") {
		t.Fatal("a should still be mounted")
	}
}

func TestRemovingPlayingItemStopsPlayback(t *testing.T) {
	coord := player.NewCoordinator()
	widgets := map[string]*player.Widget{}
	v := NewView(func(id string, a asset.Asset) Widget {
		w := player.NewWidget(coord, id, a.FileURL, 3*time.Minute)
		widgets[id] = w
		return w
	})

	v.Apply(Batch{
		{Type: Added, ID: "a", Doc: doc("a")},
		{Type: Added, ID: "b", Doc: doc("b")},
	})

	widgets["a"].Toggle()
	if id, ok := coord.CurrentID(); !ok || id != "a" {
		t.Fatalf("expected a playing, got %q %v", id, ok)
	}

	// Deleting the playing item unmounts its widget, which stops it.
	v.Apply(Batch{{Type: Removed, ID: "a", Doc: doc("a")}})

	if _, ok := coord.CurrentID(); ok {
		t.Fatal("removed item must not keep playing")
	}
	if widgets["b"].State() != player.StatePaused {
		t.Fatal("b was never playing and must stay paused")
	}
}

// TestLatestViewTurnover walks a full publish cycle: a view bounded to
// the six newest items mounts a seventh track, evicts the oldest, and
// playback survives when the playing track stays in the view.
func TestLatestViewTurnover(t *testing.T) {
	coord := player.NewCoordinator()
	widgets := map[string]*player.Widget{}
	v := NewView(func(id string, a asset.Asset) Widget {
		w := player.NewWidget(coord, id, a.FileURL, 0)
		widgets[id] = w
		return w
	})

	src := &fakeSource{}
	for i := 1; i <= 6; i++ {
		src.add(doc(string(rune('0' + i))))
	}
	w := NewWatcher(src)
	if err := w.Subscribe(context.Background(), "latest", 6, func(b Batch) { v.Apply(b) }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	widgets["6"].Toggle()

	src.add(doc("7"))
	w.CollectionChanged(context.Background())

	if v.Len() != 6 {
		t.Fatalf("view holds %d widgets, want 6", v.Len())
	}
	if v.Has("1") {
		t.Fatal("oldest item should have been evicted")
	}
	if !v.Has("7") {
		t.Fatal("newest item should be mounted")
	}
	if id, ok := coord.CurrentID(); !ok || id != "6" {
		t.Fatalf("playback should survive the turnover, got %q %v", id, ok)
	}
}

type unmountFunc func()

func (f unmountFunc) Unmount() { f() }
