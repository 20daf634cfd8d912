// internal/infra/firebaseauth/tracker.go
package firebaseauth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"mallsync/internal/domain/identity"
)

var ErrInvalidToken = errors.New("firebaseauth: invalid token")

// Verifier verifies a Firebase ID token. *auth.Client satisfies it; tests
// inject fakes.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Tracker implements identity.Tracker, identity.TokenSource and
// identity.Resolver on top of a persisted Firebase session.
//
// Session restoration (Resolve):
//  1. load the stored ID token; none → settle to guest;
//  2. offline pre-check of the token claims (well-formed, not expired, has a
//     uid) so an obviously dead token never hits the network;
//  3. when a verifier is configured, verify the token with Firebase; any
//     failure clears the session and settles to guest.
//
// The tracker is never left unresolved: every restoration path ends in guest
// or an authenticated identity.
type Tracker struct {
	verifier Verifier // nil = offline claims check only
	sessions identity.SessionStore
	log      *zap.SugaredLogger

	mu       sync.Mutex
	current  identity.Identity
	token    string
	resolved bool
	subs     map[int]func(identity.Change)
	nextSub  int
}

func NewTracker(verifier Verifier, sessions identity.SessionStore, log *zap.SugaredLogger) *Tracker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tracker{
		verifier: verifier,
		sessions: sessions,
		log:      log,
		current:  identity.Guest,
		subs:     map[int]func(identity.Change){},
	}
}

// ----------------------------------------------------------------------
// identity.Tracker
// ----------------------------------------------------------------------

func (t *Tracker) Current() identity.Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tracker) Resolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolved
}

func (t *Tracker) Subscribe(fn func(identity.Change)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Invalidate re-verifies the current session in the background. A session
// that no longer verifies transitions to guest (the operation that observed
// the stale credential is NOT retried).
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	token := t.token
	authed := t.current.IsAuthenticated()
	t.mu.Unlock()

	if !authed {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := t.verifyToken(ctx, token); err != nil {
			t.log.Warnw("[auth] session no longer valid, signing out", "err", err)
			t.SignOut()
		}
	}()
}

// ----------------------------------------------------------------------
// identity.TokenSource
// ----------------------------------------------------------------------

func (t *Tracker) BearerToken() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.IsGuest() || t.token == "" {
		return "", false
	}
	return t.token, true
}

// ----------------------------------------------------------------------
// identity.Resolver
// ----------------------------------------------------------------------

// Resolve restores the session once at startup. Managers must not start
// before this returns.
func (t *Tracker) Resolve(ctx context.Context) {
	token, ok := "", false
	if t.sessions != nil {
		token, ok = t.sessions.LoadToken()
	}
	if !ok {
		t.settle(identity.Guest, "")
		return
	}

	uid, err := t.verifyToken(ctx, token)
	if err != nil {
		t.log.Infow("[auth] session restoration failed, settling to guest", "err", err)
		if t.sessions != nil {
			t.sessions.ClearToken()
		}
		t.settle(identity.Guest, "")
		return
	}

	t.settle(identity.Identity(uid), token)
}

// SignIn verifies idToken, persists it and flips the identity.
func (t *Tracker) SignIn(ctx context.Context, idToken string) (identity.Identity, error) {
	uid, err := t.verifyToken(ctx, idToken)
	if err != nil {
		return identity.Guest, err
	}
	if t.sessions != nil {
		t.sessions.SaveToken(idToken)
	}
	t.settle(identity.Identity(uid), idToken)
	return identity.Identity(uid), nil
}

// SignOut clears the session and flips the identity to guest.
func (t *Tracker) SignOut() {
	if t.sessions != nil {
		t.sessions.ClearToken()
	}
	t.settle(identity.Guest, "")
}

// ----------------------------------------------------------------------
// internals
// ----------------------------------------------------------------------

// verifyToken returns the uid for idToken. Claims are pre-checked offline
// (shape, expiry, uid) before the network verify; without a verifier the
// offline check is the whole decision.
func (t *Tracker) verifyToken(ctx context.Context, idToken string) (string, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || exp.Before(time.Now()) {
		return "", errors.Join(ErrInvalidToken, errors.New("token expired"))
	}

	uid, _ := claims.GetSubject()
	uid = strings.TrimSpace(uid)
	if uid == "" {
		// Firebase also carries the uid in user_id
		if v, ok := claims["user_id"].(string); ok {
			uid = strings.TrimSpace(v)
		}
	}
	if uid == "" {
		return "", errors.Join(ErrInvalidToken, errors.New("no uid claim"))
	}

	if t.verifier != nil {
		token, err := t.verifier.VerifyIDToken(ctx, idToken)
		if err != nil {
			return "", errors.Join(ErrInvalidToken, err)
		}
		if v := strings.TrimSpace(token.UID); v != "" {
			uid = v
		}
	}
	return uid, nil
}

// settle records the new identity and notifies subscribers when it changed.
// Subscribers run synchronously, outside the lock.
func (t *Tracker) settle(next identity.Identity, token string) {
	t.mu.Lock()
	prev := t.current
	t.current = next
	t.token = token
	t.resolved = true

	var fns []func(identity.Change)
	if prev != next {
		fns = make([]func(identity.Change), 0, len(t.subs))
		for _, fn := range t.subs {
			fns = append(fns, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(identity.Change{From: prev, To: next})
	}
}
