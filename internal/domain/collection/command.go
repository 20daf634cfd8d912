// internal/domain/collection/command.go
package collection

import (
	"errors"
	"time"
)

var (
	ErrDuplicateItem      = errors.New("collection: duplicate item")
	ErrCapExceeded        = errors.New("collection: cap exceeded")
	ErrInvalidQuantity    = errors.New("collection: invalid quantity")
	ErrInvalidProductID   = errors.New("collection: invalid product id")
	ErrUnsupportedCommand = errors.New("collection: unsupported command for kind")
)

// CommandType tags a mutation command.
type CommandType string

const (
	// CmdAdd adds (or, for cart, merges) a product.
	CmdAdd CommandType = "add"
	// CmdRemove removes a product; for cart it decrements quantity by one,
	// deleting the line once quantity reaches zero.
	CmdRemove CommandType = "remove"
	// CmdRemoveAll deletes a product line outright regardless of quantity.
	CmdRemoveAll CommandType = "removeAll"
	// CmdSetQuantity sets an absolute quantity (cart only). Quantity 0 removes.
	CmdSetQuantity CommandType = "setQuantity"
	// CmdClear empties the collection.
	CmdClear CommandType = "clear"
)

// Command is the tagged mutation variant applied through Rules.Apply.
type Command struct {
	Type      CommandType
	ProductID string
	Quantity  int
	Snapshot  Snapshot
}

// Rules is the per-kind pure reconciliation function over an item list.
//
// Apply must not mutate items; it returns the next state or a validation
// error (one of the sentinel errors above) with no other side effects, so it
// is testable without any asynchronous context.
type Rules interface {
	Kind() Kind
	Apply(items []Item, cmd Command, now time.Time) ([]Item, error)
}
