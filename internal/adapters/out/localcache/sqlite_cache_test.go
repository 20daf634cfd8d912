// internal/adapters/out/localcache/sqlite_cache_test.go
package localcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coll "mallsync/internal/domain/collection"
)

func openTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestReadWrite_RoundTrip(t *testing.T) {
	c := openTestCache(t)

	items := []coll.Item{
		{
			ProductID: "P1",
			Quantity:  2,
			Snapshot:  coll.Snapshot{Name: "hat", ImageURL: "https://img/p1.png", UnitPrice: 1200},
			AddedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	c.Write(coll.KindCart, "user-U", items)

	got, ok := c.Read(coll.KindCart, "user-U")
	require.True(t, ok)
	assert.Equal(t, items, got)
}

func TestRead_MissingEntry(t *testing.T) {
	c := openTestCache(t)

	got, ok := c.Read(coll.KindCart, "user-U")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestWrite_EntriesAreKeyedPerKindAndIdentity(t *testing.T) {
	c := openTestCache(t)

	c.Write(coll.KindCart, "guest", []coll.Item{{ProductID: "G1", Quantity: 1}})
	c.Write(coll.KindCart, "user-U", []coll.Item{{ProductID: "U1", Quantity: 1}})
	c.Write(coll.KindWishlist, "user-U", []coll.Item{{ProductID: "W1"}})

	guest, ok := c.Read(coll.KindCart, "guest")
	require.True(t, ok)
	assert.Equal(t, "G1", guest[0].ProductID)

	user, ok := c.Read(coll.KindCart, "user-U")
	require.True(t, ok)
	assert.Equal(t, "U1", user[0].ProductID)

	wl, ok := c.Read(coll.KindWishlist, "user-U")
	require.True(t, ok)
	assert.Equal(t, "W1", wl[0].ProductID)
}

func TestWrite_Overwrites(t *testing.T) {
	c := openTestCache(t)

	c.Write(coll.KindCart, "user-U", []coll.Item{{ProductID: "P1", Quantity: 1}})
	c.Write(coll.KindCart, "user-U", []coll.Item{{ProductID: "P2", Quantity: 4}})

	got, ok := c.Read(coll.KindCart, "user-U")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "P2", got[0].ProductID)
}

func TestWrite_NilBecomesEmptyEntry(t *testing.T) {
	c := openTestCache(t)

	c.Write(coll.KindCart, "user-U", nil)

	got, ok := c.Read(coll.KindCart, "user-U")
	assert.True(t, ok, "an explicit empty collection is still an entry")
	assert.Empty(t, got)
}

func TestClear_DropsEntry(t *testing.T) {
	c := openTestCache(t)

	c.Write(coll.KindCart, "user-U", []coll.Item{{ProductID: "P1"}})
	c.Clear(coll.KindCart, "user-U")

	_, ok := c.Read(coll.KindCart, "user-U")
	assert.False(t, ok)

	// clearing a missing entry is fine
	c.Clear(coll.KindCart, "user-U")
}

func TestRead_CorruptPayloadIsEvicted(t *testing.T) {
	c := openTestCache(t)

	_, err := c.db.Exec(
		`INSERT INTO collection_cache (kind, identity, payload, updated_at) VALUES (?, ?, ?, ?)`,
		string(coll.KindCart), "user-U", []byte("{not json"), time.Now().UTC(),
	)
	require.NoError(t, err)

	got, ok := c.Read(coll.KindCart, "user-U")
	assert.False(t, ok)
	assert.Nil(t, got)

	// the corrupt row is gone, not retried forever
	var count int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM collection_cache`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSessionStore_TokenLifecycle(t *testing.T) {
	c := openTestCache(t)

	_, ok := c.LoadToken()
	assert.False(t, ok)

	c.SaveToken("tok-1")
	tok, ok := c.LoadToken()
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	c.SaveToken("tok-2")
	tok, _ = c.LoadToken()
	assert.Equal(t, "tok-2", tok)

	c.ClearToken()
	_, ok = c.LoadToken()
	assert.False(t, ok)
}

func TestOpen_EmptyPathRejected(t *testing.T) {
	_, err := Open("   ", nil)
	assert.Error(t, err)
}
