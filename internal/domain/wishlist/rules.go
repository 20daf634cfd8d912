// internal/domain/wishlist/rules.go
package wishlist

import (
	"strings"
	"time"

	coll "mallsync/internal/domain/collection"
)

// Rules implements wishlist reconciliation: set semantics, no quantity, no
// size cap. Adding an already-present product is a no-op surfaced as
// ErrDuplicateItem (recoverable "already present"); removal is idempotent.
type Rules struct{}

func (Rules) Kind() coll.Kind { return coll.KindWishlist }

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
