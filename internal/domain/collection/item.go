// internal/domain/collection/item.go
package collection

import (
	"strings"
	"time"
)

// Kind identifies which user collection an item belongs to.
type Kind string

const (
	KindCart       Kind = "cart"
	KindWishlist   Kind = "wishlist"
	KindComparison Kind = "comparison"
)

// Valid reports whether k is one of the known collection kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCart, KindWishlist, KindComparison:
		return true
	}
	return false
}

// Snapshot is a denormalized copy of product display fields captured at add time.
// It lets the UI render a line without a second product fetch; it may go stale
// relative to the canonical product record (server responses refresh it).
type Snapshot struct {
	Name      string `json:"name" firestore:"name"`
	ImageURL  string `json:"imageUrl" firestore:"imageUrl"`
	UnitPrice int64  `json:"unitPrice" firestore:"unitPrice"`
}

// Item represents one product reference inside a collection.
//
// Uniqueness is defined by ProductID.
// Quantity is meaningful for cart only; wishlist/comparison keep it at 0.
type Item struct {
	ProductID string    `json:"productId" firestore:"productId"`
	Quantity  int       `json:"quantity" firestore:"quantity"`
	Snapshot  Snapshot  `json:"snapshot" firestore:"snapshot"`
	AddedAt   time.Time `json:"addedAt" firestore:"addedAt"`
}

// FindIndex returns the index of productID in items, or -1.
func FindIndex(items []Item, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether productID is present in items.
func Contains(items []Item, productID string) bool {
	return FindIndex(items, productID) >= 0
}

// CloneItems returns an independent copy of items (nil-safe, never returns nil).
func CloneItems(items []Item) []Item {
	cp := make([]Item, len(items))
	copy(cp, items)
	return cp
}

// DedupByProductID removes duplicate product ids keeping the first occurrence.
// Entries with an empty (after trim) product id are dropped outright.
//
// Applied on every wholesale assignment so an upstream duplication bug can
// never corrupt local invariants.
func DedupByProductID(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, it := range items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		it.ProductID = pid
		out = append(out, it)
	}
	return out
}
