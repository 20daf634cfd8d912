// internal/infra/firebaseauth/tracker_test.go
package firebaseauth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallsync/internal/domain/identity"
)

type memSessions struct {
	token string
}

func (s *memSessions) LoadToken() (string, bool) { return s.token, s.token != "" }
func (s *memSessions) SaveToken(token string)    { s.token = token }
func (s *memSessions) ClearToken()               { s.token = "" }

type fakeVerifier struct {
	uid string
	err error
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*fbauth.Token, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fbauth.Token{UID: v.uid}, nil
}

// mintToken builds an unsigned-verification JWT; the offline pre-check only
// parses claims, it never validates the signature.
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func validClaims(uid string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestResolve_NoStoredTokenSettlesToGuest(t *testing.T) {
	tr := NewTracker(nil, &memSessions{}, nil)
	require.False(t, tr.Resolved())

	tr.Resolve(context.Background())

	assert.True(t, tr.Resolved())
	assert.Equal(t, identity.Guest, tr.Current())
	_, ok := tr.BearerToken()
	assert.False(t, ok)
}

func TestResolve_ExpiredTokenClearedAndGuest(t *testing.T) {
	sessions := &memSessions{token: mintToken(t, jwt.MapClaims{
		"sub": "user-U",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})}

	tr := NewTracker(nil, sessions, nil)
	tr.Resolve(context.Background())

	assert.Equal(t, identity.Guest, tr.Current())
	assert.Empty(t, sessions.token, "a dead token is removed from the session store")
}

func TestResolve_MalformedTokenSettlesToGuest(t *testing.T) {
	sessions := &memSessions{token: "not-a-jwt"}

	tr := NewTracker(nil, sessions, nil)
	tr.Resolve(context.Background())

	assert.True(t, tr.Resolved())
	assert.Equal(t, identity.Guest, tr.Current())
}

func TestResolve_OfflineClaimsOnly(t *testing.T) {
	token := mintToken(t, validClaims("user-U"))
	tr := NewTracker(nil, &memSessions{token: token}, nil)

	tr.Resolve(context.Background())

	assert.Equal(t, identity.Identity("user-U"), tr.Current())
	got, ok := tr.BearerToken()
	require.True(t, ok)
	assert.Equal(t, token, got)
}

func TestResolve_UserIDClaimFallback(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"user_id": "user-U",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	tr := NewTracker(nil, &memSessions{token: token}, nil)

	tr.Resolve(context.Background())

	assert.Equal(t, identity.Identity("user-U"), tr.Current())
}

func TestResolve_VerifierRejectionSettlesToGuest(t *testing.T) {
	sessions := &memSessions{token: mintToken(t, validClaims("user-U"))}
	verifier := &fakeVerifier{err: errors.New("revoked")}

	tr := NewTracker(verifier, sessions, nil)
	tr.Resolve(context.Background())

	assert.Equal(t, identity.Guest, tr.Current())
	assert.Empty(t, sessions.token)
}

func TestResolve_VerifierUIDWins(t *testing.T) {
	token := mintToken(t, validClaims("claims-uid"))
	verifier := &fakeVerifier{uid: "verified-uid"}

	tr := NewTracker(verifier, &memSessions{token: token}, nil)
	tr.Resolve(context.Background())

	assert.Equal(t, identity.Identity("verified-uid"), tr.Current())
}

func TestSignIn_PersistsAndNotifies(t *testing.T) {
	sessions := &memSessions{}
	tr := NewTracker(nil, sessions, nil)
	tr.Resolve(context.Background())

	var changes []identity.Change
	tr.Subscribe(func(ch identity.Change) { changes = append(changes, ch) })

	token := mintToken(t, validClaims("user-U"))
	id, err := tr.SignIn(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, identity.Identity("user-U"), id)
	assert.Equal(t, token, sessions.token)
	require.Len(t, changes, 1)
	assert.Equal(t, identity.Guest, changes[0].From)
	assert.Equal(t, identity.Identity("user-U"), changes[0].To)
	assert.False(t, changes[0].IsLogout())
}

func TestSignIn_InvalidTokenRejected(t *testing.T) {
	sessions := &memSessions{}
	tr := NewTracker(nil, sessions, nil)
	tr.Resolve(context.Background())

	_, err := tr.SignIn(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, identity.Guest, tr.Current())
	assert.Empty(t, sessions.token)
}

func TestSignOut_ClearsSessionAndNotifiesLogout(t *testing.T) {
	token := mintToken(t, validClaims("user-U"))
	sessions := &memSessions{token: token}
	tr := NewTracker(nil, sessions, nil)
	tr.Resolve(context.Background())
	require.Equal(t, identity.Identity("user-U"), tr.Current())

	var changes []identity.Change
	tr.Subscribe(func(ch identity.Change) { changes = append(changes, ch) })

	tr.SignOut()

	assert.Equal(t, identity.Guest, tr.Current())
	assert.Empty(t, sessions.token)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].IsLogout())

	_, ok := tr.BearerToken()
	assert.False(t, ok)
}

func TestSignOut_NoChangeNoNotification(t *testing.T) {
	tr := NewTracker(nil, &memSessions{}, nil)
	tr.Resolve(context.Background())

	notified := false
	tr.Subscribe(func(identity.Change) { notified = true })

	tr.SignOut()
	assert.False(t, notified, "guest to guest is not a transition")
}

func TestSubscribe_UnsubscribeStopsDelivery(t *testing.T) {
	tr := NewTracker(nil, &memSessions{}, nil)
	tr.Resolve(context.Background())

	calls := 0
	unsub := tr.Subscribe(func(identity.Change) { calls++ })

	token := mintToken(t, validClaims("user-U"))
	_, err := tr.SignIn(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	unsub()
	tr.SignOut()
	assert.Equal(t, 1, calls)
}

func TestInvalidate_SignsOutWhenSessionDead(t *testing.T) {
	sessions := &memSessions{token: mintToken(t, validClaims("user-U"))}
	verifier := &fakeVerifier{uid: "user-U"}

	tr := NewTracker(verifier, sessions, nil)
	tr.Resolve(context.Background())
	require.Equal(t, identity.Identity("user-U"), tr.Current())

	// the credential dies server-side
	verifier.err = errors.New("revoked")
	tr.Invalidate()

	require.Eventually(t, func() bool {
		return tr.Current() == identity.Guest
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, sessions.token)
}

func TestInvalidate_GuestIsNoOp(t *testing.T) {
	tr := NewTracker(nil, &memSessions{}, nil)
	tr.Resolve(context.Background())

	tr.Invalidate()
	assert.Equal(t, identity.Guest, tr.Current())
}
