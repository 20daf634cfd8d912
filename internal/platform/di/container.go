// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fsrepo "mallsync/internal/adapters/out/firestore"
	"mallsync/internal/adapters/out/localcache"
	"mallsync/internal/adapters/out/mallapi"
	"mallsync/internal/application/manager"
	coll "mallsync/internal/domain/collection"
	"mallsync/internal/infra/config"
	"mallsync/internal/infra/firebaseauth"
	firestoreinfra "mallsync/internal/infra/firestore"
	"mallsync/internal/infra/logging"
	"mallsync/internal/infra/secrets"
)

// Container wires the whole engine: config → logger → cache → tracker →
// remote stores → the three collection managers.
type Container struct {
	Config  *config.Config
	Log     *zap.SugaredLogger
	Cache   *localcache.SQLiteCache
	Tracker *firebaseauth.Tracker

	Cart       *manager.CartManager
	Wishlist   *manager.WishlistManager
	Comparison *manager.ComparisonManager

	fsClient *firestoreinfra.ClientWrapper
}

// NewContainer builds and starts the engine. The identity tracker is resolved
// before any manager loads (managers started earlier would wrongly treat an
// authenticated user as a guest).
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := config.Load()

	log, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("di: build logger: %w", err)
	}

	cache, err := localcache.Open(cfg.CacheDBPath, log)
	if err != nil {
		return nil, fmt.Errorf("di: open cache: %w", err)
	}

	c := &Container{Config: cfg, Log: log, Cache: cache}

	// ─────────────────────────────────────────────────────────────
	// Identity: Firebase verifier (optional) + tracker resolution
	// ─────────────────────────────────────────────────────────────
	var verifier firebaseauth.Verifier
	if cfg.FirebaseProjectID != "" {
		client, err := firebaseauth.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			// offline claims check still applies; restoration degrades, not fails
			log.Warnw("firebase auth unavailable, token verification is offline-only", "err", err)
		} else {
			verifier = client
		}
	}

	tracker := firebaseauth.NewTracker(verifier, cache, log)
	tracker.Resolve(ctx)
	c.Tracker = tracker

	// ─────────────────────────────────────────────────────────────
	// Remote stores: mall HTTP API (default) or direct Firestore
	// ─────────────────────────────────────────────────────────────
	var cartStore, wishlistStore, comparisonStore coll.RemoteStore

	if cfg.UseFirestoreBackend() {
		fsw, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile, log)
		if err != nil {
			_ = cache.Close()
			return nil, fmt.Errorf("di: firestore backend: %w", err)
		}
		c.fsClient = fsw
		cartStore = fsrepo.NewCartRepositoryFS(fsw.Client)
		wishlistStore = fsrepo.NewWishlistRepositoryFS(fsw.Client)
		comparisonStore = fsrepo.NewComparisonRepositoryFS(fsw.Client)
	} else {
		apiKey := cfg.MallAPIKey
		if apiKey == "" && cfg.MallAPIKeySecret != "" {
			sm, err := secrets.NewProviderSM(ctx, cfg.GCPProjectID)
			if err != nil {
				log.Warnw("secret manager unavailable, mall api key unresolved", "err", err)
			} else {
				if apiKey, err = sm.Resolve(ctx, cfg.MallAPIKeySecret); err != nil {
					log.Warnw("mall api key secret resolution failed", "secret", cfg.MallAPIKeySecret, "err", err)
				}
				_ = sm.Close()
			}
		}

		client := mallapi.NewClient(cfg.MallAPIBaseURL, apiKey, tracker, log)
		cartStore = mallapi.NewCartStore(client)
		wishlistStore = mallapi.NewWishlistStore(client)
		comparisonStore = mallapi.NewComparisonStore(client)
	}

	// ─────────────────────────────────────────────────────────────
	// Managers: initial loads run concurrently, one per kind
	// ─────────────────────────────────────────────────────────────
	c.Cart = manager.NewCart(tracker, cartStore, cache, log)
	c.Wishlist = manager.NewWishlist(tracker, wishlistStore, cache, log)
	c.Comparison = manager.NewComparison(tracker, comparisonStore, cache, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Cart.Start(gctx) })
	g.Go(func() error { return c.Wishlist.Start(gctx) })
	g.Go(func() error { return c.Comparison.Start(gctx) })
	if err := g.Wait(); err != nil {
		c.Close()
		return nil, fmt.Errorf("di: start managers: %w", err)
	}

	return c, nil
}

// WaitSync drains outstanding remote syncs across all managers (used by the
// CLI before process exit).
func (c *Container) WaitSync() {
	c.Cart.WaitSync()
	c.Wishlist.WaitSync()
	c.Comparison.WaitSync()
}

// Close stops the managers and releases infrastructure handles.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Cart != nil {
		c.Cart.Stop()
	}
	if c.Wishlist != nil {
		c.Wishlist.Stop()
	}
	if c.Comparison != nil {
		c.Comparison.Stop()
	}
	if c.fsClient != nil {
		_ = c.fsClient.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Log != nil {
		_ = c.Log.Sync()
	}
}
