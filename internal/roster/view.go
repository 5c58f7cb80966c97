package roster

import (
	"sync"

	"github.com/adelie22/Artivora/internal/asset"
)

// Widget is whatever Render mounts for one collection item. Unmount
// must release the item's resources (e.g. stop its playback).
type Widget interface {
	Unmount()
}

// RenderFunc mounts a widget for one item.
type RenderFunc func(id string, doc asset.Asset) Widget

// View incrementally mirrors a collection query into a set of mounted
// widgets. Already-mounted widgets survive every batch untouched;
// there is no full-list re-render.
type View struct {
	mu      sync.Mutex
	render  RenderFunc
	mounted map[string]Widget
}

func NewView(render RenderFunc) *View {
	return &View{
		render:  render,
		mounted: make(map[string]Widget),
	}
}

// Apply processes one delta batch in delivery order. Mounting is
// idempotent per id: a redundant added delivery for an id that is
// already mounted is a no-op, so an item is mounted exactly once
// between its added and removed events.
func (v *View) Apply(batch Batch) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, d := range batch {
		switch d.Type {
		case Added:
			if _, ok := v.mounted[d.ID]; ok {
				continue
			}
			v.mounted[d.ID] = v.render(d.ID, d.Doc)

		case Removed:
			w, ok := v.mounted[d.ID]
			if !ok {
				continue
			}
			w.Unmount()
			delete(v.mounted, d.ID)

		case Modified:
			// The mounted widget keeps its state; document field
			// changes do not remount it.
		}
	}
}

// Has reports whether the item is currently mounted.
func (v *View) Has(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.mounted[id]
	return ok
}

// Len returns the number of mounted widgets.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.mounted)
}
