package roster

import (
	"context"
	"sync"

	"github.com/adelie22/Artivora/internal/asset"
	"github.com/adelie22/Artivora/internal/logger"
)

// Source lists the current contents of the asset collection,
// newest-first, optionally limited. The store satisfies this.
type Source interface {
	List(ctx context.Context, limit int) ([]asset.Asset, error)
}

// Handler consumes one delta batch.
type Handler func(Batch)

type subscription struct {
	name    string
	limit   int // <= 0 means unbounded
	handler Handler
	prev    []asset.Asset
	prevIDs map[string]asset.Asset
}

// Watcher turns collection mutations into per-view delta batches.
// Each subscription holds its own query shape (bounded "latest N" or
// unbounded) and is diffed independently against its last snapshot,
// so a document can enter one view while leaving another.
type Watcher struct {
	mu     sync.Mutex
	source Source
	subs   []*subscription
}

func NewWatcher(source Source) *Watcher {
	return &Watcher{source: source}
}

// Subscribe registers a view and delivers its initial snapshot as a
// batch of added deltas.
func (w *Watcher) Subscribe(
	ctx context.Context,
	name string,
	limit int,
	handler Handler,
) error {

	w.mu.Lock()
	defer w.mu.Unlock()

	sub := &subscription{
		name:    name,
		limit:   limit,
		handler: handler,
		prevIDs: make(map[string]asset.Asset),
	}

	if err := w.refresh(ctx, sub); err != nil {
		return err
	}

	w.subs = append(w.subs, sub)
	return nil
}

// CollectionChanged recomputes every subscription. Called by the
// asset store after each successful mutation.
func (w *Watcher) CollectionChanged(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, sub := range w.subs {
		if err := w.refresh(ctx, sub); err != nil {
			// A failed refresh skips this round; the next mutation
			// re-lists from scratch, so no delta is lost for good.
			logger.Error("roster refresh failed", map[string]any{
				"view":  sub.name,
				"error": err.Error(),
			})
		}
	}
}

func (w *Watcher) refresh(ctx context.Context, sub *subscription) error {
	next, err := w.source.List(ctx, sub.limit)
	if err != nil {
		return err
	}

	batch := diff(sub.prev, sub.prevIDs, next)

	nextIDs := make(map[string]asset.Asset, len(next))
	for _, a := range next {
		nextIDs[a.ID] = a
	}
	sub.prev = next
	sub.prevIDs = nextIDs

	if len(batch) > 0 && sub.handler != nil {
		sub.handler(batch)
	}
	return nil
}

// diff produces removals first (in old snapshot order), then adds and
// modifications in new snapshot order. Consumers treat this as the
// delivery order.
func diff(prev []asset.Asset, prevIDs map[string]asset.Asset, next []asset.Asset) Batch {
	var batch Batch

	inNext := make(map[string]struct{}, len(next))
	for _, a := range next {
		inNext[a.ID] = struct{}{}
	}

	for _, old := range prev {
		if _, ok := inNext[old.ID]; !ok {
			batch = append(batch, Delta{Type: Removed, ID: old.ID, Doc: old})
		}
	}

	for _, a := range next {
		old, existed := prevIDs[a.ID]
		switch {
		case !existed:
			batch = append(batch, Delta{Type: Added, ID: a.ID, Doc: a})
		case old != a:
			batch = append(batch, Delta{Type: Modified, ID: a.ID, Doc: a})
		}
	}

	return batch
}
