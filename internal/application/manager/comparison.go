// internal/application/manager/comparison.go
package manager

import (
	"go.uber.org/zap"

	coll "mallsync/internal/domain/collection"
	compdom "mallsync/internal/domain/comparison"
	"mallsync/internal/domain/identity"
)

// ComparisonManager is the comparison-list manager: capped at
// comparison.MaxItems, duplicates and overflow rejected outright.
type ComparisonManager struct {
	*Manager
}

func NewComparison(tracker identity.Tracker, remote coll.RemoteStore, cache coll.LocalCache, log *zap.SugaredLogger) *ComparisonManager {
	return &ComparisonManager{Manager: New(compdom.Rules{}, tracker, remote, cache, log)}
}

// AddItem adds productID to the comparison list.
func (m *ComparisonManager) AddItem(productID string, snap coll.Snapshot) Result {
	return m.Add(productID, 0, snap)
}

// RemainingSlots returns how many more products can be compared.
func (m *ComparisonManager) RemainingSlots() int {
	return compdom.RemainingSlots(m.Items())
}
