// internal/domain/collection/item_test.go
package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupByProductID_KeepsFirstOccurrence(t *testing.T) {
	items := []Item{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
		{ProductID: "P1", Quantity: 9},
		{ProductID: " ", Quantity: 1},
		{ProductID: " P2 ", Quantity: 5},
	}

	out := DedupByProductID(items)

	assert.Len(t, out, 2)
	assert.Equal(t, "P1", out[0].ProductID)
	assert.Equal(t, 2, out[0].Quantity, "first occurrence wins")
	assert.Equal(t, "P2", out[1].ProductID)
	assert.Equal(t, 1, out[1].Quantity)
}

func TestDedupByProductID_Idempotent(t *testing.T) {
	items := []Item{{ProductID: "P1"}, {ProductID: "P2"}}
	once := DedupByProductID(items)
	twice := DedupByProductID(once)
	assert.Equal(t, once, twice)
}

func TestCloneItems_Independent(t *testing.T) {
	items := []Item{{ProductID: "P1", Quantity: 1}}
	cp := CloneItems(items)
	cp[0].Quantity = 99
	assert.Equal(t, 1, items[0].Quantity)

	assert.NotNil(t, CloneItems(nil))
	assert.Empty(t, CloneItems(nil))
}

func TestContains(t *testing.T) {
	items := []Item{{ProductID: "P1"}}
	assert.True(t, Contains(items, "P1"))
	assert.False(t, Contains(items, "P2"))
	assert.False(t, Contains(nil, "P1"))
}
