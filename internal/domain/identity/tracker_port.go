// internal/domain/identity/tracker_port.go
package identity

import "context"

// Tracker exposes the effective identity of the session.
//
// Guarantees:
//   - Resolved() stays false only while initial session restoration is in
//     flight; restoration failure settles to Guest, never unresolved.
//   - Subscribers are notified on every transition to a different identity.
//
// Managers must not perform their initial load before Resolved() is true
// (otherwise an authenticated user could briefly be treated as a guest).
type Tracker interface {
	Current() Identity
	Resolved() bool

	// Subscribe registers fn for identity changes and returns an unsubscribe
	// function. fn is called synchronously with the transition.
	Subscribe(fn func(Change)) (unsubscribe func())

	// Invalidate forces re-resolution of the session (stale credential path).
	// Runs in the background; the caller does not wait for the outcome.
	Invalidate()
}

// TokenSource supplies the bearer credential for remote calls.
type TokenSource interface {
	// BearerToken returns the current session token, or ok=false for guests.
	BearerToken() (token string, ok bool)
}

// SessionStore persists the session token across restarts.
type SessionStore interface {
	LoadToken() (token string, ok bool)
	SaveToken(token string)
	ClearToken()
}

// Resolver is implemented by trackers that restore a session on startup.
type Resolver interface {
	Resolve(ctx context.Context)
}
