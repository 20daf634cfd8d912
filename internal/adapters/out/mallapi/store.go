// internal/adapters/out/mallapi/store.go
package mallapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	coll "mallsync/internal/domain/collection"
)

// Store implements collection.RemoteStore against one mall endpoint triplet.
//
// Endpoint shape (identity comes from the bearer token, not the path):
//   - GET    {base}{path}             -> full collection (404 = empty, lazily created)
//   - POST   {base}{path}/items       -> full updated collection
//   - PUT    {base}{path}/items/{id}  -> full updated collection (cart only)
//   - DELETE {base}{path}/items/{id}  -> full updated collection, or 204/404 = re-fetch required
//   - DELETE {base}{path}             -> success/failure only
//
// Only Fetch may read 404 as an empty collection. A 404 on a mutating call is
// an error (POST/PUT) or a re-fetch (DELETE): echoing it back as empty would
// let the manager adopt a zero-valued doc and wipe the user's optimistic state.
type Store struct {
	client *Client
	kind   coll.Kind
	path   string
}

func NewCartStore(client *Client) *Store {
	return &Store{client: client, kind: coll.KindCart, path: "/mall/cart"}
}

func NewWishlistStore(client *Client) *Store {
	return &Store{client: client, kind: coll.KindWishlist, path: "/mall/wishlist"}
}

func NewComparisonStore(client *Client) *Store {
	return &Store{client: client, kind: coll.KindComparison, path: "/mall/comparison"}
}

// ----------------------------------------------------------------------
// Wire DTOs
// ----------------------------------------------------------------------

type itemDoc struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity,omitempty"`
	Name      string    `json:"name,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	UnitPrice int64     `json:"unitPrice,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

type collectionDoc struct {
	Items []itemDoc `json:"items"`
}

type addReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
	Name      string `json:"name,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	UnitPrice int64  `json:"unitPrice,omitempty"`
}

type setQtyReq struct {
	Quantity int `json:"quantity"`
}

func (d collectionDoc) toDomain() []coll.Item {
	items := make([]coll.Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, coll.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Snapshot: coll.Snapshot{
				Name:      it.Name,
				ImageURL:  it.ImageURL,
				UnitPrice: it.UnitPrice,
			},
			AddedAt: it.AddedAt,
		})
	}
	return items
}

// ----------------------------------------------------------------------
// collection.RemoteStore
// ----------------------------------------------------------------------

// Fetch returns the authenticated identity's collection. 404 reads as empty
// (the backend creates the document lazily).
func (s *Store) Fetch(ctx context.Context, identityKey string) ([]coll.Item, error) {
	var doc collectionDoc
	status, err := s.client.do(ctx, http.MethodGet, s.path, nil, &doc)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []coll.Item{}, nil
	}
	return doc.toDomain(), nil
}

func (s *Store) Add(ctx context.Context, identityKey, productID string, quantity int, snap coll.Snapshot) ([]coll.Item, error) {
	var doc collectionDoc
	req := addReq{
		ProductID: productID,
		Quantity:  quantity,
		Name:      snap.Name,
		ImageURL:  snap.ImageURL,
		UnitPrice: snap.UnitPrice,
	}
	status, err := s.client.do(ctx, http.MethodPost, s.path+"/items", req, &doc)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("mallapi: POST %s/items: status 404", s.path)
	}
	return doc.toDomain(), nil
}

func (s *Store) SetQuantity(ctx context.Context, identityKey, productID string, quantity int) ([]coll.Item, error) {
	if s.kind != coll.KindCart {
		return nil, fmt.Errorf("mallapi: setQuantity is cart only (kind=%s)", s.kind)
	}
	var doc collectionDoc
	status, err := s.client.do(ctx, http.MethodPut, s.path+"/items/"+productID, setQtyReq{Quantity: quantity}, &doc)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("mallapi: PUT %s/items/%s: status 404", s.path, productID)
	}
	return doc.toDomain(), nil
}

// Remove deletes one item. A 204 (no echo) or a 404 (item already gone) means
// the backend did not return the updated collection; both are treated as
// "re-fetch required".
func (s *Store) Remove(ctx context.Context, identityKey, productID string) ([]coll.Item, error) {
	var doc collectionDoc
	status, err := s.client.do(ctx, http.MethodDelete, s.path+"/items/"+productID, nil, &doc)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || status == http.StatusNotFound {
		return s.Fetch(ctx, identityKey)
	}
	return doc.toDomain(), nil
}

func (s *Store) Clear(ctx context.Context, identityKey string) error {
	_, err := s.client.do(ctx, http.MethodDelete, s.path, nil, nil)
	return err
}
