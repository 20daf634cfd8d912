// internal/application/manager/cart.go
package manager

import (
	"go.uber.org/zap"

	cartdom "mallsync/internal/domain/cart"
	coll "mallsync/internal/domain/collection"
	"mallsync/internal/domain/identity"
)

// CartManager is the cart-flavored manager: merge-on-add quantities and
// derived totals.
type CartManager struct {
	*Manager
}

func NewCart(tracker identity.Tracker, remote coll.RemoteStore, cache coll.LocalCache, log *zap.SugaredLogger) *CartManager {
	return &CartManager{Manager: New(cartdom.Rules{}, tracker, remote, cache, log)}
}

// AddItem adds one unit of productID.
func (m *CartManager) AddItem(productID string, snap coll.Snapshot) Result {
	return m.Add(productID, 1, snap)
}

// AddItemQty adds qty units of productID.
func (m *CartManager) AddItemQty(productID string, qty int, snap coll.Snapshot) Result {
	return m.Add(productID, qty, snap)
}

// TotalItems is the sum of quantities, recomputed on every read.
func (m *CartManager) TotalItems() int {
	return cartdom.TotalItems(m.Items())
}

// TotalPrice is the sum of quantity × unit price, recomputed on every read.
func (m *CartManager) TotalPrice() int64 {
	return cartdom.TotalPrice(m.Items())
}
