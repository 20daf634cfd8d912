// internal/domain/cart/rules.go
package cart

import (
	"strings"
	"time"

	coll "mallsync/internal/domain/collection"
)

// Rules implements cart reconciliation.
//
// Cart semantics:
//   - Add merges into an existing productId by incrementing quantity.
//   - Remove decrements quantity by 1 and deletes the line at zero;
//     RemoveAll deletes outright.
//   - SetQuantity(id, 0) is equivalent to removal — an item is never stored
//     with quantity 0 (quantity floor is 1).
//   - No size cap.
type Rules struct{}

func (Rules) Kind() coll.Kind { return coll.KindCart }

func (Rules) Apply(items []coll.Item, cmd coll.Command, now time.Time) ([]coll.Item, error) {
	pid := strings.TrimSpace(cmd.ProductID)

	next := coll.CloneItems(items)

	switch cmd.Type {
	case coll.CmdAdd:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		if cmd.Quantity <= 0 {
			return nil, coll.ErrInvalidQuantity
		}
		if idx := coll.FindIndex(next, pid); idx >= 0 {
			next[idx].Quantity += cmd.Quantity
			return next, nil
		}
		return append(next, coll.Item{
			ProductID: pid,
			Quantity:  cmd.Quantity,
			Snapshot:  cmd.Snapshot,
			AddedAt:   now,
		}), nil

	case coll.CmdRemove:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		idx := coll.FindIndex(next, pid)
		if idx < 0 {
			// absent: removal is idempotent
			return next, nil
		}
		if next[idx].Quantity > 1 {
			next[idx].Quantity--
			return next, nil
		}
		return append(next[:idx], next[idx+1:]...), nil

	case coll.CmdRemoveAll:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		if idx := coll.FindIndex(next, pid); idx >= 0 {
			return append(next[:idx], next[idx+1:]...), nil
		}
		return next, nil

	case coll.CmdSetQuantity:
		if pid == "" {
			return nil, coll.ErrInvalidProductID
		}
		if cmd.Quantity < 0 {
			return nil, coll.ErrInvalidQuantity
		}
		idx := coll.FindIndex(next, pid)
		if cmd.Quantity == 0 {
			// quantity 0 implies removal, never stored as 0
			if idx >= 0 {
				return append(next[:idx], next[idx+1:]...), nil
			}
			return next, nil
		}
		if idx >= 0 {
			next[idx].Quantity = cmd.Quantity
			return next, nil
		}
		return append(next, coll.Item{
			ProductID: pid,
			Quantity:  cmd.Quantity,
			Snapshot:  cmd.Snapshot,
			AddedAt:   now,
		}), nil

	case coll.CmdClear:
		return []coll.Item{}, nil
	}

	return nil, coll.ErrUnsupportedCommand
}

// TotalItems is the sum of line quantities. Derived on every read; never
// cached separately so it cannot drift from the item list.
func TotalItems(items []coll.Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity × unit price over all lines.
func TotalPrice(items []coll.Item) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.Snapshot.UnitPrice
	}
	return total
}
