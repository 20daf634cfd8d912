// internal/domain/collection/ports.go
package collection

import (
	"context"
	"errors"
)

// ErrUnauthorized marks a remote call rejected for a stale/invalid session.
// The manager must treat the call as failed AND force identity re-resolution;
// every other remote failure is "server unknown, keep optimistic state".
var ErrUnauthorized = errors.New("collection: unauthorized")

// RemoteStore is the per-kind accessor for the authoritative backend.
//
// Mutating calls return the server's authoritative post-mutation item list so
// the caller can replace its state wholesale (server-side normalization such
// as merged duplicates or price changes is adopted as-is). Every call may
// fail independently.
type RemoteStore interface {
	Fetch(ctx context.Context, identityKey string) ([]Item, error)
	Add(ctx context.Context, identityKey, productID string, quantity int, snap Snapshot) ([]Item, error)
	Remove(ctx context.Context, identityKey, productID string) ([]Item, error)
	SetQuantity(ctx context.Context, identityKey, productID string, quantity int) ([]Item, error)
	Clear(ctx context.Context, identityKey string) error
}

// LocalCache persists a collection's last-known state per (kind, identity) so
// a restart or offline session still shows data.
//
// All operations are synchronous and never fail upward: a missing key reads
// as (nil, false), a corrupt payload reads as empty (logged by the adapter,
// never propagated).
type LocalCache interface {
	Read(kind Kind, identityKey string) ([]Item, bool)
	Write(kind Kind, identityKey string, items []Item)
	Clear(kind Kind, identityKey string)
}
