package reorder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

const (
	DefaultThreshold = 5.0
	DefaultMargin    = 8.0
	DefaultReach     = 64.0
)

// Config tunes gesture recognition.
type Config struct {
	// Threshold is the pointer travel needed before an armed drag becomes active.
	Threshold float64
	// Margin is the hysteresis applied to the held drop target.
	Margin float64
	// Reach limits how far outside the list a pointer still targets the outermost item.
	Reach float64
}

// DefaultConfig returns the stock gesture tuning.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, Margin: DefaultMargin, Reach: DefaultReach}
}

// Update is what the host needs to render after a pointer move.
type Update struct {
	Phase  Phase
	Target *Target
	Ghost  GhostSlot
}

// Active reports whether a drag is in progress.
func (u Update) Active() bool { return u.Phase == PhaseActive }

// Engine turns pointer gestures into reorders of one list. It is not safe for
// concurrent use: call it from the goroutine that handles input events. Persist
// is the exception and may run anywhere.
type Engine struct {
	cfg       Config
	measurer  Measurer
	persister Persister
	notifier  Notifier

	items []Item
	state dragState
	seq   uint64

	// heldBack is a rollback that arrived mid-gesture. It is applied once the
	// session ends so the snapshot keeps matching the order on screen.
	heldBack []Item
}

// NewEngine returns an idle engine. p and n may be nil.
func NewEngine(cfg Config, m Measurer, p Persister, n Notifier) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	return &Engine{
		cfg:       cfg,
		measurer:  m,
		persister: p,
		notifier:  n,
		state:     idleState{},
	}
}

// Config returns the tuning in effect after defaults were applied.
func (e *Engine) Config() Config { return e.cfg }

// Phase returns the current session phase.
func (e *Engine) Phase() Phase { return e.state.phase() }

// Items returns the list in canonical order.
func (e *Engine) Items() []Item { return cloneItems(e.items) }

// Order returns the IDs in canonical order.
func (e *Engine) Order() []string { return IDs(e.items) }

// DraggedID returns the item of the current session, if any.
func (e *Engine) DraggedID() (string, bool) {
	switch st := e.state.(type) {
	case armedState:
		return st.draggedID, true
	case *activeState:
		return st.draggedID, true
	}
	return "", false
}

// Replace installs the host's list, sorted by position. The host's list is
// authoritative, so a held-back rollback is dropped. If the dragged item is no
// longer present the session is cancelled; other removals are tolerated by the
// resolver.
func (e *Engine) Replace(items []Item) {
	next := cloneItems(items)
	SortByPosition(next)
	e.items = next
	e.heldBack = nil

	id, ok := e.DraggedID()
	if !ok {
		return
	}
	order := e.Order()
	if indexOf(order, id) < 0 {
		slog.Debug("Dragged item left the list, cancelling drag", "id", id)
		e.reset()
		return
	}
	if st, ok := e.state.(*activeState); ok {
		st.order = slices.DeleteFunc(st.order, func(x string) bool { return indexOf(order, x) < 0 })
	}
}

// ArmDrag starts a potential drag of id at p. Nothing moves until the pointer
// travels past the threshold.
func (e *Engine) ArmDrag(id string, p Point, b Button) error {
	if b != ButtonPrimary {
		return ErrNotPrimaryButton
	}
	if e.Phase() != PhaseIdle {
		return ErrDragInProgress
	}
	if indexOf(e.Order(), id) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	e.state = armedState{draggedID: id, start: p}
	slog.Debug("Drag armed", "id", id, "x", p.X, "y", p.Y)
	return nil
}

// UpdatePointer feeds a pointer move and returns the preview to render.
func (e *Engine) UpdatePointer(p Point) Update {
	switch st := e.state.(type) {
	case armedState:
		if st.start.distance(p) < e.cfg.Threshold {
			return Update{Phase: PhaseArmed}
		}
		order := e.Order()
		snap := TakeSnapshot(e.measurer, order)
		if _, ok := snap.Extent(st.draggedID); !ok {
			slog.Debug("Dragged item has no geometry, cancelling drag", "id", st.draggedID)
			e.reset()
			return Update{Phase: PhaseIdle}
		}
		active := &activeState{draggedID: st.draggedID, order: order, snapshot: snap}
		e.state = active
		slog.Debug("Drag active", "id", st.draggedID, "measured", snap.Len())
		return e.resolve(active, p)
	case *activeState:
		return e.resolve(st, p)
	default:
		return Update{Phase: PhaseIdle}
	}
}

func (e *Engine) resolve(st *activeState, p Point) Update {
	r := Resolver{Margin: e.cfg.Margin, Reach: e.cfg.Reach}
	st.current = r.Resolve(p.Y, st.snapshot, st.order, st.draggedID, st.lastDrop)
	if st.current != nil {
		t := *st.current
		st.lastDrop = &t
	}
	return Update{
		Phase:  PhaseActive,
		Target: st.current,
		Ghost:  ComputeGhostSlot(st.current, st.order, st.draggedID),
	}
}

// EndDrag finishes the gesture. A commit that changes the order is applied
// locally right away and returned so the caller can persist it; a nil commit
// means there is nothing to write.
//
// The drop is planned against the order the user was looking at. If a rollback
// was held back during the gesture, the new commit supersedes it and rolls back
// to the held order should it fail too; otherwise the held rollback is applied.
func (e *Engine) EndDrag() (Outcome, *Commit) {
	st, ok := e.state.(*activeState)
	held := e.heldBack
	e.heldBack = nil
	e.state = idleState{}
	if !ok || st.current == nil {
		slog.Debug("Drag cancelled")
		e.restore(held)
		return OutcomeCancelled, nil
	}

	prev := e.Items()
	next, changed, err := PlanOrder(IDs(prev), st.draggedID, *st.current)
	if err != nil {
		slog.Warn("Failed to plan reorder", "error", err)
		e.restore(held)
		return OutcomeCancelled, nil
	}
	if !changed {
		slog.Debug("Drop left order unchanged", "id", st.draggedID, "target", st.current.String())
		e.restore(held)
		return OutcomeCommitted, nil
	}
	if held != nil {
		prev = held
	}

	e.seq++
	c := &Commit{
		Seq:       e.seq,
		DraggedID: st.draggedID,
		Target:    *st.current,
		Prev:      prev,
		Next:      Renumber(next),
	}
	e.items = cloneItems(c.Next)
	slog.Debug("Drag committed", "id", st.draggedID, "target", c.Target.String(), "seq", c.Seq)
	return OutcomeCommitted, c
}

// Persist writes c through the configured persister. It only reads immutable
// data and may be called off the input goroutine.
func (e *Engine) Persist(ctx context.Context, c *Commit) error {
	if c == nil {
		return nil
	}
	if e.persister == nil {
		return ErrNoPersister
	}
	return e.persister.PersistOrder(ctx, c.OrderedIDs())
}

// Settle reports the persistence result for c. On failure the pre-commit order is
// restored, unless a later change has already replaced c's order, and the
// notifier fires once.
func (e *Engine) Settle(c *Commit, err error) {
	if c == nil {
		return
	}
	if err == nil {
		slog.Debug("Reorder persisted", "seq", c.Seq)
		return
	}
	slog.Warn("Failed to persist reorder", "error", err, "seq", c.Seq, "id", c.DraggedID)
	switch {
	case !sameIDs(e.Order(), c.OrderedIDs()):
		slog.Debug("Order changed since commit, keeping newer order", "seq", c.Seq)
	case e.Phase() != PhaseIdle:
		slog.Debug("Holding rollback until the drag ends", "seq", c.Seq)
		e.heldBack = cloneItems(c.Prev)
	default:
		e.items = cloneItems(c.Prev)
	}
	if e.notifier != nil {
		e.notifier.NotifyFailure(fmt.Sprintf("Could not save new order: %v", err))
	}
}

// CommitNow persists c and settles it in one call. Useful for synchronous hosts.
func (e *Engine) CommitNow(ctx context.Context, c *Commit) error {
	err := e.Persist(ctx, c)
	e.Settle(c, err)
	return err
}

// Teardown drops any session state. Hosts call it when the view goes away.
func (e *Engine) Teardown() {
	if e.Phase() != PhaseIdle {
		slog.Debug("Drag torn down", "phase", e.Phase().String())
	}
	e.reset()
}

// reset ends the session and applies any held-back rollback.
func (e *Engine) reset() {
	e.state = idleState{}
	e.restore(e.heldBack)
	e.heldBack = nil
}

func (e *Engine) restore(items []Item) {
	if items != nil {
		e.items = items
	}
}
