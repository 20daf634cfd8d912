// internal/adapters/out/firestore/collection_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "mallsync/internal/domain/cart"
	coll "mallsync/internal/domain/collection"
	compdom "mallsync/internal/domain/comparison"
	wishdom "mallsync/internal/domain/wishlist"
)

// DefaultTTL is the inactivity window after which a collection doc becomes
// eligible for auto deletion (Firestore TTL should be configured on expiresAt).
const DefaultTTL = 7 * 24 * time.Hour

// CollectionRepositoryFS implements collection.RemoteStore directly against
// the Firestore documents the mall backend owns. Used by trusted deployments
// (kiosk / support tooling) that hold service credentials and skip the HTTP
// API.
//
// Collection design:
//   - collection: carts / wishlists / comparisons
//   - docId: identity key (the docId is the source of truth)
//   - fields: items(array), updatedAt, expiresAt
//
// Mutations are read-modify-write through the same pure rules the managers
// use, so server-side state obeys the same invariants.
type CollectionRepositoryFS struct {
	Client *firestore.Client

	rules coll.Rules
	col   string
}

func NewCartRepositoryFS(client *firestore.Client) *CollectionRepositoryFS {
	return &CollectionRepositoryFS{Client: client, rules: cartdom.Rules{}, col: "carts"}
}

func NewWishlistRepositoryFS(client *firestore.Client) *CollectionRepositoryFS {
	return &CollectionRepositoryFS{Client: client, rules: wishdom.Rules{}, col: "wishlists"}
}

func NewComparisonRepositoryFS(client *firestore.Client) *CollectionRepositoryFS {
	return &CollectionRepositoryFS{Client: client, rules: compdom.Rules{}, col: "comparisons"}
}

type collectionDoc struct {
	Items     []coll.Item `firestore:"items"`
	UpdatedAt time.Time   `firestore:"updatedAt"`
	ExpiresAt time.Time   `firestore:"expiresAt"`
}

func (r *CollectionRepositoryFS) docRef(identityKey string) *firestore.DocumentRef {
	return r.Client.Collection(r.col).Doc(identityKey)
}

func mapFSError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("firestore: %v: %w", status.Code(err), coll.ErrUnauthorized)
	}
	return err
}

// Fetch returns the stored items for identityKey. Missing doc reads as empty.
func (r *CollectionRepositoryFS) Fetch(ctx context.Context, identityKey string) ([]coll.Item, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("collection_repository_fs: firestore client is nil")
	}
	key := strings.TrimSpace(identityKey)
	if key == "" {
		return nil, errors.New("collection_repository_fs: identityKey is empty")
	}

	snap, err := r.docRef(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []coll.Item{}, nil
		}
		return nil, mapFSError(err)
	}

	var doc collectionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("collection_repository_fs: decode %s/%s: %w", r.col, key, err)
	}
	return coll.DedupByProductID(doc.Items), nil
}

// mutate runs one read-modify-write cycle through the kind rules and returns
// the authoritative post-mutation items.
func (r *CollectionRepositoryFS) mutate(ctx context.Context, identityKey string, cmd coll.Command) ([]coll.Item, error) {
	items, err := r.Fetch(ctx, identityKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	next, err := r.rules.Apply(items, cmd, now)
	if errors.Is(err, coll.ErrDuplicateItem) {
		// idempotent add: the doc already holds the product, echo it back
		return items, nil
	}
	if err != nil {
		return nil, err
	}

	doc := collectionDoc{
		Items:     next,
		UpdatedAt: now,
		ExpiresAt: now.Add(DefaultTTL),
	}
	// overwrite full doc (simple & predictable)
	if _, err := r.docRef(strings.TrimSpace(identityKey)).Set(ctx, doc); err != nil {
		return nil, mapFSError(err)
	}
	return next, nil
}

func (r *CollectionRepositoryFS) Add(ctx context.Context, identityKey, productID string, quantity int, snap coll.Snapshot) ([]coll.Item, error) {
	return r.mutate(ctx, identityKey, coll.Command{
		Type:      coll.CmdAdd,
		ProductID: productID,
		Quantity:  quantity,
		Snapshot:  snap,
	})
}

// Remove deletes the product line outright (the decrement already happened on
// the client; the store only sees absolute state).
func (r *CollectionRepositoryFS) Remove(ctx context.Context, identityKey, productID string) ([]coll.Item, error) {
	return r.mutate(ctx, identityKey, coll.Command{Type: coll.CmdRemoveAll, ProductID: productID})
}

func (r *CollectionRepositoryFS) SetQuantity(ctx context.Context, identityKey, productID string, quantity int) ([]coll.Item, error) {
	return r.mutate(ctx, identityKey, coll.Command{
		Type:      coll.CmdSetQuantity,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Clear deletes the doc for identityKey.
func (r *CollectionRepositoryFS) Clear(ctx context.Context, identityKey string) error {
	if r == nil || r.Client == nil {
		return errors.New("collection_repository_fs: firestore client is nil")
	}
	key := strings.TrimSpace(identityKey)
	if key == "" {
		return errors.New("collection_repository_fs: identityKey is empty")
	}
	if _, err := r.docRef(key).Delete(ctx); err != nil {
		return mapFSError(err)
	}
	return nil
}
