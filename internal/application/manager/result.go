// internal/application/manager/result.go
package manager

import (
	"errors"

	coll "mallsync/internal/domain/collection"
)

// Reason classifies a rejected write operation.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonDuplicateItem    Reason = "DuplicateItem"
	ReasonCapExceeded      Reason = "CapExceeded"
	ReasonNotAuthenticated Reason = "NotAuthenticated"
	ReasonInvalidQuantity  Reason = "InvalidQuantity"
	ReasonInvalidProduct   Reason = "InvalidProduct"
	ReasonNotReady         Reason = "NotReady"
	ReasonRemoteFailed     Reason = "RemoteFailed"
	ReasonUnsupported      Reason = "Unsupported"
)

// Result is what every write API call returns: accepted or rejected with a
// reason code. Rejections happen before any state change.
type Result struct {
	Accepted bool
	Reason   Reason
}

func accepted() Result         { return Result{Accepted: true} }
func rejected(r Reason) Result { return Result{Reason: r} }

func reasonForError(err error) Reason {
	switch {
	case errors.Is(err, coll.ErrDuplicateItem):
		return ReasonDuplicateItem
	case errors.Is(err, coll.ErrCapExceeded):
		return ReasonCapExceeded
	case errors.Is(err, coll.ErrInvalidQuantity):
		return ReasonInvalidQuantity
	case errors.Is(err, coll.ErrInvalidProductID):
		return ReasonInvalidProduct
	case errors.Is(err, coll.ErrUnsupportedCommand):
		return ReasonUnsupported
	}
	return ReasonInvalidProduct
}
