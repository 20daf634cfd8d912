// internal/domain/comparison/rules.go
package comparison

import (
	"strings"
	"time"

	coll "mallsync/internal/domain/collection"
)

// MaxItems is the hard cap of the comparison list. The cap is enforced by
// rejection, never by truncation.
const MaxItems = 4

// Rules implements comparison-list reconciliation: set semantics with a hard
// cap of MaxItems. Add is rejected outright (no mutation) when the product is
// already present or the list is full.
type Rules struct{}

func (Rules) Kind() coll.Kind { return coll.KindComparison }

func (Rules) Apply(items []coll.Item, cmd coll.Command, now time.Time) ([]coll.Item, error) {
	pid := strings.TrimSpace(cmd.ProductID)

	next := coll.CloneItems(items)

	switch cmd.Type {
	case coll.CmdAdd:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		if coll.Contains(next, pid) {
			return nil, coll.ErrDuplicateItem
		}
		if len(next) >= MaxItems {
			return nil, coll.ErrCapExceeded
		}
		return append(next, coll.Item{
			ProductID: pid,
			Snapshot:  cmd.Snapshot,
			AddedAt:   now,
		}), nil

	case coll.CmdRemove, coll.CmdRemoveAll:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		if idx := coll.FindIndex(next, pid); idx >= 0 {
			return append(next[:idx], next[idx+1:]...), nil
		}
		return next, nil

	case coll.CmdClear:
		return []coll.Item{}, nil
	}

	return nil, coll.ErrUnsupportedCommand
}

// RemainingSlots returns how many more products fit in the list.
func RemainingSlots(items []coll.Item) int {
	if len(items) >= MaxItems {
		return 0
	}
	return MaxItems - len(items)
}
