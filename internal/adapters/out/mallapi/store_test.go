// internal/adapters/out/mallapi/store_test.go
package mallapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coll "mallsync/internal/domain/collection"
)

type staticTokens struct {
	token string
}

func (s staticTokens) BearerToken() (string, bool) {
	return s.token, s.token != ""
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "test-key", staticTokens{token: "tok-123"}, nil)
	return NewCartStore(client)
}

func TestFetch_DecodesCollection(t *testing.T) {
	var gotAuth, gotAPIKey string
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("X-Api-Key")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/mall/cart", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		_, _ = io.WriteString(w, `{"items":[{"productId":"P1","quantity":2,"name":"hat","unitPrice":1200}]}`)
	})

	items, err := s.Fetch(context.Background(), "user-U")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(1200), items[0].Snapshot.UnitPrice)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "test-key", gotAPIKey)
}

func TestFetch_NotFoundReadsAsEmpty(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	items, err := s.Fetch(context.Background(), "user-U")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAdd_PostsItemPayload(t *testing.T) {
	var got addReq
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mall/cart/items", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{"items":[{"productId":"P1","quantity":1}]}`)
	})

	items, err := s.Add(context.Background(), "user-U", "P1", 1, coll.Snapshot{Name: "hat", UnitPrice: 1200})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	assert.Equal(t, "P1", got.ProductID)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, "hat", got.Name)
	assert.Equal(t, int64(1200), got.UnitPrice)
}

func TestSetQuantity_CartOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/mall/cart/items/P1", r.URL.Path)
		_, _ = io.WriteString(w, `{"items":[{"productId":"P1","quantity":3}]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "", nil, nil)

	cart := NewCartStore(client)
	items, err := cart.SetQuantity(context.Background(), "user-U", "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, items[0].Quantity)

	wl := NewWishlistStore(client)
	_, err = wl.SetQuantity(context.Background(), "user-U", "P1", 3)
	assert.Error(t, err)
}

func TestRemove_NoContentTriggersRefetch(t *testing.T) {
	requests := 0
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch r.Method {
		case http.MethodDelete:
			assert.Equal(t, "/mall/cart/items/P1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"items":[{"productId":"P2","quantity":1}]}`)
		}
	})

	items, err := s.Remove(context.Background(), "user-U", "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, requests, "204 forces a follow-up fetch")
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)
}

func TestRemove_NotFoundTriggersRefetch(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			// the item is already gone server-side
			w.WriteHeader(http.StatusNotFound)
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"items":[{"productId":"P2","quantity":1}]}`)
		}
	})

	items, err := s.Remove(context.Background(), "user-U", "P1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID, "404 on delete must not read as an empty collection")
}

func TestMutation_NotFoundIsAnErrorNotEmptyCollection(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	// a 404 echoed back as ([], nil) would let the manager adopt the
	// zero-valued doc wholesale and erase the user's collection
	items, err := s.Add(context.Background(), "user-U", "P1", 1, coll.Snapshot{})
	assert.Error(t, err)
	assert.Nil(t, items)

	items, err = s.SetQuantity(context.Background(), "user-U", "P1", 3)
	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestUnauthorized_MapsToSentinel(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := s.Fetch(context.Background(), "user-U")
	assert.ErrorIs(t, err, coll.ErrUnauthorized)

	_, err = s.Add(context.Background(), "user-U", "P1", 1, coll.Snapshot{})
	assert.ErrorIs(t, err, coll.ErrUnauthorized)
}

func TestServerError_IncludesBodySnippet(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, err := s.Fetch(context.Background(), "user-U")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClear_DeletesCollectionPath(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/mall/cart", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, s.Clear(context.Background(), "user-U"))
}

func TestClient_EmptyBaseURLFailsFast(t *testing.T) {
	client := NewClient("", "", nil, nil)
	s := NewCartStore(client)

	_, err := s.Fetch(context.Background(), "user-U")
	assert.Error(t, err)
}
