// internal/application/manager/manager.go
package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coll "mallsync/internal/domain/collection"
	"mallsync/internal/domain/identity"
)

var (
	ErrTrackerUnresolved = errors.New("manager: identity tracker not resolved")
	ErrNotAuthenticated  = errors.New("manager: identity is guest")
)

// State is the lifecycle of one Manager instance.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "uninitialized"
}

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Manager owns the reconciliation algorithm for one collection kind:
// optimistic local mutation, best-effort remote sync, identity-change reload,
// and wholesale dedup on every authoritative assignment.
//
// Consistency model (deliberately best-effort, cache-aside):
//   - mutations apply in memory first and persist to the local cache before
//     any network round-trip completes;
//   - a failed remote call keeps the optimistic state as system-of-record for
//     the session (no rollback, no automatic retry);
//   - responses replace in-memory state wholesale; whichever response is
//     applied last wins, call-issue order is not preserved;
//   - a response tagged with an identity that no longer matches the current
//     one is discarded rather than applied to now-stale state.
type Manager struct {
	kind    coll.Kind
	rules   coll.Rules
	tracker identity.Tracker
	remote  coll.RemoteStore
	cache   coll.LocalCache
	log     *zap.SugaredLogger
	clock   Clock

	mu    sync.Mutex
	state State
	ident identity.Identity
	items []coll.Item

	unsubscribe func()
	pending     sync.WaitGroup // outstanding remote syncs (tests wait on this)
}

// New builds a Manager for one collection kind. All dependencies are explicit;
// there is no ambient identity lookup. A nil remote keeps the manager
// local-only (memory + cache), same as a nil cache skips persistence.
func New(rules coll.Rules, tracker identity.Tracker, remote coll.RemoteStore, cache coll.LocalCache, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Manager{
		kind:    rules.Kind(),
		rules:   rules,
		tracker: tracker,
		remote:  remote,
		cache:   cache,
		log:     log,
		clock:   systemClock{},
	}
}

// WithClock is useful for tests.
func (m *Manager) WithClock(clock Clock) *Manager {
	if clock != nil {
		m.clock = clock
	}
	return m
}

// Start performs the initial load for the current identity and subscribes to
// identity changes. The tracker must already be resolved; starting earlier
// would let an authenticated user be treated as a guest.
func (m *Manager) Start(ctx context.Context) error {
	if m.tracker == nil || !m.tracker.Resolved() {
		return ErrTrackerUnresolved
	}

	m.unsubscribe = m.tracker.Subscribe(m.onIdentityChange)
	m.load(ctx, m.tracker.Current())
	return nil
}

// Stop unsubscribes from identity changes. In-flight remote responses are
// still discarded by the identity tag check.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Kind returns the collection kind this manager owns.
func (m *Manager) Kind() coll.Kind { return m.kind }

// WaitSync blocks until all outstanding remote syncs have settled. Useful for
// short-lived processes that would otherwise exit with calls in flight; the
// engine itself never waits on it.
func (m *Manager) WaitSync() { m.pending.Wait() }

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the identity the current state belongs to.
func (m *Manager) Identity() identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ident
}

// Items returns a copy of the current item list.
func (m *Manager) Items() []coll.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return coll.CloneItems(m.items)
}

// Count returns the number of distinct product lines.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Contains reports membership of productID.
func (m *Manager) Contains(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return coll.Contains(m.items, productID)
}

// ----------------------------------------------------------------------
// Load / identity transitions
// ----------------------------------------------------------------------

func (m *Manager) onIdentityChange(ch identity.Change) {
	// Logout removes the old identity's cache entry; guest data (if any)
	// under its own key is then loaded. Guest data is NOT migrated into an
	// authenticated collection on login.
	if ch.IsLogout() && m.cache != nil {
		m.cache.Clear(m.kind, ch.From.Key())
	}
	m.load(context.Background(), ch.To)
}

// load discards in-memory state and repopulates it for id.
//
// Authenticated: remote fetch wins; the result is mirrored into the local
// cache (overwriting any stale entry for that identity). On fetch failure the
// cache entry for that identity is adopted instead — the user sees a cart
// from cache rather than an error screen.
// Guest: cache only, no remote call.
func (m *Manager) load(ctx context.Context, id identity.Identity) {
	m.mu.Lock()
	m.state = StateLoading
	m.ident = id
	m.items = nil
	m.mu.Unlock()

	var items []coll.Item

	if id.IsAuthenticated() && m.remote != nil {
		fetched, err := m.remote.Fetch(ctx, id.Key())
		switch {
		case err == nil:
			items = fetched
			if m.cache != nil {
				m.cache.Write(m.kind, id.Key(), coll.DedupByProductID(fetched))
			}
		case errors.Is(err, coll.ErrUnauthorized):
			m.log.Warnw("remote fetch unauthorized, falling back to cache", "kind", m.kind, "identity", id.Key())
			items = m.readCache(id)
			m.tracker.Invalidate()
		default:
			m.log.Warnw("remote fetch failed, falling back to cache", "kind", m.kind, "identity", id.Key(), "err", err)
			items = m.readCache(id)
		}
	} else {
		items = m.readCache(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ident != id {
		// identity flipped again while loading; that load owns the state now
		return
	}
	m.items = coll.DedupByProductID(items)
	m.state = StateReady
}

func (m *Manager) readCache(id identity.Identity) []coll.Item {
	if m.cache == nil {
		return nil
	}
	items, _ := m.cache.Read(m.kind, id.Key())
	return items
}

// Refresh re-adopts the remote collection as authoritative state. Rejected
// for guests (guest collections are local-only).
func (m *Manager) Refresh(ctx context.Context) Result {
	m.mu.Lock()
	if m.state != StateReady {
		m.mu.Unlock()
		return rejected(ReasonNotReady)
	}
	id := m.ident
	m.mu.Unlock()

	if id.IsGuest() {
		return rejected(ReasonNotAuthenticated)
	}
	if m.remote == nil {
		return rejected(ReasonRemoteFailed)
	}

	items, err := m.remote.Fetch(ctx, id.Key())
	if err != nil {
		if errors.Is(err, coll.ErrUnauthorized) {
			m.tracker.Invalidate()
		}
		m.log.Warnw("refresh failed, keeping local state", "kind", m.kind, "identity", id.Key(), "err", err)
		return rejected(ReasonRemoteFailed)
	}
	m.adoptServerState(id, items)
	return accepted()
}

// ----------------------------------------------------------------------
// Mutations
// ----------------------------------------------------------------------

// Add adds quantity (cart) or membership (wishlist/comparison) of productID.
func (m *Manager) Add(productID string, quantity int, snap coll.Snapshot) Result {
	return m.apply(coll.Command{Type: coll.CmdAdd, ProductID: productID, Quantity: quantity, Snapshot: snap})
}

// Remove removes productID (cart: decrement by one).
func (m *Manager) Remove(productID string) Result {
	return m.apply(coll.Command{Type: coll.CmdRemove, ProductID: productID})
}

// RemoveAll deletes the productID line outright.
func (m *Manager) RemoveAll(productID string) Result {
	return m.apply(coll.Command{Type: coll.CmdRemoveAll, ProductID: productID})
}

// SetQuantity sets an absolute quantity (cart only). Quantity 0 removes.
func (m *Manager) SetQuantity(productID string, quantity int) Result {
	return m.apply(coll.Command{Type: coll.CmdSetQuantity, ProductID: productID, Quantity: quantity})
}

// Clear empties the collection.
func (m *Manager) Clear() Result {
	return m.apply(coll.Command{Type: coll.CmdClear})
}

// apply is the uniform mutation pattern:
//  1. validate against kind invariants via the pure rules (no state change on
//     rejection);
//  2. apply optimistically in memory and persist to the local cache;
//  3. guest identities stop here (local-only by design);
//  4. authenticated identities issue the remote call asynchronously; success
//     replaces state wholesale, failure keeps the optimistic state.
func (m *Manager) apply(cmd coll.Command) Result {
	m.mu.Lock()

	if m.state != StateReady {
		m.mu.Unlock()
		return rejected(ReasonNotReady)
	}

	next, err := m.rules.Apply(m.items, cmd, m.clock.Now())
	if err != nil {
		m.mu.Unlock()
		return rejected(reasonForError(err))
	}

	m.items = next
	id := m.ident
	op := m.remoteOpFor(cmd, next)
	if m.cache != nil {
		m.cache.Write(m.kind, id.Key(), next)
	}
	m.mu.Unlock()

	if id.IsGuest() || m.remote == nil {
		return accepted()
	}

	m.pending.Add(1)
	go m.syncRemote(id, op)

	return accepted()
}

// remoteOp is the server call derived from a command and the post-mutation
// state. Derived under the lock so the request payload only ever reflects
// in-memory state.
type remoteOp struct {
	call      coll.CommandType
	productID string
	quantity  int
	snap      coll.Snapshot
}

func (m *Manager) remoteOpFor(cmd coll.Command, next []coll.Item) remoteOp {
	op := remoteOp{call: cmd.Type, productID: cmd.ProductID, quantity: cmd.Quantity, snap: cmd.Snapshot}

	switch cmd.Type {
	case coll.CmdRemove:
		// cart decrement that leaves a positive quantity becomes an absolute
		// quantity update; a deleted line becomes a removal
		if idx := coll.FindIndex(next, cmd.ProductID); idx >= 0 {
			op.call = coll.CmdSetQuantity
			op.quantity = next[idx].Quantity
		}
	case coll.CmdRemoveAll:
		op.call = coll.CmdRemove
	case coll.CmdSetQuantity:
		if cmd.Quantity == 0 {
			op.call = coll.CmdRemove
		}
	}
	return op
}

// syncRemote issues the remote call for op and reconciles the response.
// Failures are absorbed here: the optimistic state stays the system-of-record
// and the error is only logged (Unauthorized additionally forces identity
// re-resolution, without retrying the operation).
func (m *Manager) syncRemote(id identity.Identity, op remoteOp) {
	defer m.pending.Done()

	ctx := context.Background()
	callID := uuid.NewString()

	var (
		items []coll.Item
		err   error
	)

	switch op.call {
	case coll.CmdAdd:
		items, err = m.remote.Add(ctx, id.Key(), op.productID, op.quantity, op.snap)
	case coll.CmdRemove:
		items, err = m.remote.Remove(ctx, id.Key(), op.productID)
	case coll.CmdSetQuantity:
		items, err = m.remote.SetQuantity(ctx, id.Key(), op.productID, op.quantity)
	case coll.CmdClear:
		err = m.remote.Clear(ctx, id.Key())
		if err == nil {
			// nothing to reconcile; optimistic empty state is already right
			return
		}
	default:
		return
	}

	if err != nil {
		if errors.Is(err, coll.ErrUnauthorized) {
			m.log.Warnw("remote sync unauthorized, re-resolving identity",
				"kind", m.kind, "identity", id.Key(), "call", string(op.call), "callId", callID)
			m.tracker.Invalidate()
			return
		}
		m.log.Warnw("remote sync failed, keeping optimistic state",
			"kind", m.kind, "identity", id.Key(), "call", string(op.call), "callId", callID, "err", err)
		return
	}

	m.adoptServerState(id, items)
}

// adoptServerState replaces in-memory state wholesale with an authoritative
// response, unless the response is tagged with an identity that no longer
// matches (torn-down identity mid-flight) — then it is discarded. Adoption is
// idempotent: applying the same response twice yields identical state.
func (m *Manager) adoptServerState(id identity.Identity, items []coll.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady || m.ident != id {
		m.log.Debugw("discarding stale remote response", "kind", m.kind, "identity", id.Key())
		return
	}

	m.items = coll.DedupByProductID(items)
	if m.cache != nil {
		m.cache.Write(m.kind, id.Key(), m.items)
	}
}
