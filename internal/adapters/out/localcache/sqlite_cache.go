// internal/adapters/out/localcache/sqlite_cache.go
package localcache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	coll "mallsync/internal/domain/collection"
)

// SQLiteCache implements collection.LocalCache and identity.SessionStore on
// one sqlite file (pure-Go driver, no cgo).
//
// Schema:
//   - collection_cache(kind, identity, payload, updated_at) keyed per
//     (kind, identity) so a guest's cart and a user's cart never collide;
//   - session(id=1, token, updated_at) for the restored bearer token.
//
// Contract: all operations are synchronous; a missing row reads as empty and
// a corrupt payload reads as empty (logged and evicted, never propagated).
type SQLiteCache struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

const schema = `
CREATE TABLE IF NOT EXISTS collection_cache (
	kind       TEXT NOT NULL,
	identity   TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, identity)
);
CREATE TABLE IF NOT EXISTS session (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	token      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the cache database at path.
func Open(path string, log *zap.SugaredLogger) (*SQLiteCache, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, fmt.Errorf("localcache: path is empty")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("localcache: open %s: %w", p, err)
	}
	// single writer; the cache is written under the manager lock anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("localcache: init schema: %w", err)
	}
	return &SQLiteCache{db: db, log: log}, nil
}

func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ----------------------------------------------------------------------
// collection.LocalCache
// ----------------------------------------------------------------------

// Read returns the cached items for (kind, identityKey). ok is false when no
// entry exists. Corrupt payloads are evicted and read as empty.
func (c *SQLiteCache) Read(kind coll.Kind, identityKey string) ([]coll.Item, bool) {
	if c == nil || c.db == nil {
		return nil, false
	}

	var payload []byte
	err := c.db.QueryRow(
		`SELECT payload FROM collection_cache WHERE kind = ? AND identity = ?`,
		string(kind), identityKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.log.Warnw("[localcache] read failed", "kind", kind, "identity", identityKey, "err", err)
		return nil, false
	}

	var items []coll.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		c.log.Warnw("[localcache] corrupt payload, evicting", "kind", kind, "identity", identityKey, "err", err)
		c.Clear(kind, identityKey)
		return nil, false
	}
	return items, true
}

// Write persists items for (kind, identityKey), overwriting any entry.
func (c *SQLiteCache) Write(kind coll.Kind, identityKey string, items []coll.Item) {
	if c == nil || c.db == nil {
		return
	}
	if items == nil {
		items = []coll.Item{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		c.log.Warnw("[localcache] encode failed", "kind", kind, "identity", identityKey, "err", err)
		return
	}

	_, err = c.db.Exec(
		`INSERT INTO collection_cache (kind, identity, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (kind, identity) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(kind), identityKey, payload, time.Now().UTC(),
	)
	if err != nil {
		c.log.Warnw("[localcache] write failed", "kind", kind, "identity", identityKey, "err", err)
	}
}

// Clear drops the entry for (kind, identityKey). Missing entries are fine.
func (c *SQLiteCache) Clear(kind coll.Kind, identityKey string) {
	if c == nil || c.db == nil {
		return
	}
	if _, err := c.db.Exec(
		`DELETE FROM collection_cache WHERE kind = ? AND identity = ?`,
		string(kind), identityKey,
	); err != nil {
		c.log.Warnw("[localcache] clear failed", "kind", kind, "identity", identityKey, "err", err)
	}
}

// ----------------------------------------------------------------------
// identity.SessionStore
// ----------------------------------------------------------------------

func (c *SQLiteCache) LoadToken() (string, bool) {
	if c == nil || c.db == nil {
		return "", false
	}
	var token string
	err := c.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		c.log.Warnw("[localcache] session read failed", "err", err)
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (c *SQLiteCache) SaveToken(token string) {
	if c == nil || c.db == nil {
		return
	}
	_, err := c.db.Exec(
		`INSERT INTO session (id, token, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		token, time.Now().UTC(),
	)
	if err != nil {
		c.log.Warnw("[localcache] session write failed", "err", err)
	}
}

func (c *SQLiteCache) ClearToken() {
	if c == nil || c.db == nil {
		return
	}
	if _, err := c.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		c.log.Warnw("[localcache] session clear failed", "err", err)
	}
}
