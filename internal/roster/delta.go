package roster

import "github.com/adelie22/Artivora/internal/asset"

type ChangeType string

const (
	Added    ChangeType = "added"
	Removed  ChangeType = "removed"
	Modified ChangeType = "modified"
)

// Delta is one item-level change between two snapshots of a view.
type Delta struct {
	Type ChangeType  `json:"type"`
	ID   string      `json:"id"`
	Doc  asset.Asset `json:"doc"`
}

// Batch is the ordered set of deltas produced by one snapshot.
// Consumers process it in delivery order without re-sorting.
type Batch []Delta
