// internal/domain/identity/identity.go
package identity

// Identity is the current session's ownership context: the guest sentinel or
// a stable authenticated user key (Firebase uid). Collection storage keys are
// derived from it, so a guest's cart and a user's cart never collide.
type Identity string

// Guest is the fixed sentinel identity. Guest data stays stable across a
// session under this key until explicitly cleared.
const Guest Identity = "guest"

func (id Identity) IsGuest() bool         { return id == Guest || id == "" }
func (id Identity) IsAuthenticated() bool { return !id.IsGuest() }

// Key returns the storage key for this identity.
func (id Identity) Key() string {
	if id.IsGuest() {
		return string(Guest)
	}
	return string(id)
}

func (id Identity) String() string { return id.Key() }

// Change describes one identity transition.
type Change struct {
	From Identity
	To   Identity
}

// IsLogout reports an authenticated → guest transition.
func (c Change) IsLogout() bool { return c.From.IsAuthenticated() && c.To.IsGuest() }
