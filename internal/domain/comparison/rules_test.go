// internal/domain/comparison/rules_test.go
package comparison

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coll "mallsync/internal/domain/collection"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestApply_CapIsRejectedNotTruncated(t *testing.T) {
	r := Rules{}

	var (
		items []coll.Item
		err   error
	)
	for i := 1; i <= MaxItems; i++ {
		items, err = r.Apply(items, coll.Command{Type: coll.CmdAdd, ProductID: fmt.Sprintf("P%d", i)}, now)
		require.NoError(t, err)
	}
	require.Len(t, items, MaxItems)
	assert.Equal(t, 0, RemainingSlots(items))

	// the 5th distinct add is always rejected and leaves the list unchanged
	_, err = r.Apply(items, coll.Command{Type: coll.CmdAdd, ProductID: "P5"}, now)
	assert.ErrorIs(t, err, coll.ErrCapExceeded)
	assert.Len(t, items, MaxItems)
}

func TestApply_DuplicateRejectedBeforeCap(t *testing.T) {
	r := Rules{}

	items, err := r.Apply(nil, coll.Command{Type: coll.CmdAdd, ProductID: "P1"}, now)
	require.NoError(t, err)

	_, err = r.Apply(items, coll.Command{Type: coll.CmdAdd, ProductID: "P1"}, now)
	assert.ErrorIs(t, err, coll.ErrDuplicateItem)
}

func TestApply_RemoveFreesASlot(t *testing.T) {
	r := Rules{}

	var (
		items []coll.Item
		err   error
	)
	for i := 1; i <= MaxItems; i++ {
		items, err = r.Apply(items, coll.Command{Type: coll.CmdAdd, ProductID: fmt.Sprintf("P%d", i)}, now)
		require.NoError(t, err)
	}

	items, err = r.Apply(items, coll.Command{Type: coll.CmdRemove, ProductID: "P2"}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, RemainingSlots(items))

	items, err = r.Apply(items, coll.Command{Type: coll.CmdAdd, ProductID: "P5"}, now)
	require.NoError(t, err)
	assert.Len(t, items, MaxItems)
}

func TestRemainingSlots(t *testing.T) {
	assert.Equal(t, MaxItems, RemainingSlots(nil))
	assert.Equal(t, MaxItems-1, RemainingSlots([]coll.Item{{ProductID: "P1"}}))
}
