// internal/application/manager/wishlist.go
package manager

import (
	"go.uber.org/zap"

	coll "mallsync/internal/domain/collection"
	"mallsync/internal/domain/identity"
	wishdom "mallsync/internal/domain/wishlist"
)

// WishlistManager is the wishlist-flavored manager: set semantics, no
// quantities. Duplicate adds are surfaced as rejected with DuplicateItem but
// leave the list untouched.
type WishlistManager struct {
	*Manager
}

func NewWishlist(tracker identity.Tracker, remote coll.RemoteStore, cache coll.LocalCache, log *zap.SugaredLogger) *WishlistManager {
	return &WishlistManager{Manager: New(wishdom.Rules{}, tracker, remote, cache, log)}
}

// AddItem adds productID to the wishlist.
func (m *WishlistManager) AddItem(productID string, snap coll.Snapshot) Result {
	return m.Add(productID, 0, snap)
}
