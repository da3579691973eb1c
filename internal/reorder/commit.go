package reorder

import (
	"context"
	"errors"
	"fmt"
)

// Persister writes a complete order. It must return an error when the write did
// not happen so the committed order can be rolled back.
type Persister interface {
	PersistOrder(ctx context.Context, orderedIDs []string) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, orderedIDs []string) error

func (f PersistFunc) PersistOrder(ctx context.Context, orderedIDs []string) error {
	return f(ctx, orderedIDs)
}

// Notifier surfaces a user-visible failure. It must not block.
type Notifier interface {
	NotifyFailure(message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string)

func (f NotifyFunc) NotifyFailure(message string) { f(message) }

var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrDragInProgress   = errors.New("drag already in progress")
	ErrNotPrimaryButton = errors.New("not the primary button")
	ErrNoPersister      = errors.New("no persister configured")
)

// PlanOrder moves draggedID next to target and reports whether the order changed.
// The target index is taken in order before removal; removing the dragged item
// shifts every later index down by one.
func PlanOrder(order []string, draggedID string, target Target) ([]string, bool, error) {
	di := indexOf(order, draggedID)
	if di < 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownItem, draggedID)
	}
	ti := indexOf(order, target.ID)
	if ti < 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownItem, target.ID)
	}
	if ti == di {
		return append([]string(nil), order...), false, nil
	}

	insertAt := insertIndex(ti, target.Edge)
	if di < insertAt {
		insertAt--
	}

	rest := make([]string, 0, len(order)-1)
	rest = append(rest, order[:di]...)
	rest = append(rest, order[di+1:]...)

	next := make([]string, 0, len(order))
	next = append(next, rest[:insertAt]...)
	next = append(next, draggedID)
	next = append(next, rest[insertAt:]...)
	return next, !sameIDs(order, next), nil
}

// Commit is an order change that has been applied locally and still needs to be
// persisted. It is immutable once returned from EndDrag.
type Commit struct {
	Seq       uint64
	DraggedID string
	Target    Target
	Prev      []Item
	Next      []Item
}

// OrderedIDs returns the IDs to persist.
func (c *Commit) OrderedIDs() []string {
	return IDs(c.Next)
}
