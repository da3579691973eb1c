package reorder

import "strconv"

// SlotState says whether a ghost slot should be drawn.
type SlotState int

const (
	// SlotNone means there is no target to preview.
	SlotNone SlotState = iota
	// SlotSuppressed means the target denotes no movement.
	SlotSuppressed
	SlotVisible
)

// GhostSlot is the preview insertion index into the pre-drag order.
// Index is meaningful only when State is SlotVisible.
type GhostSlot struct {
	State SlotState
	Index int
}

func (g GhostSlot) String() string {
	switch g.State {
	case SlotSuppressed:
		return "suppressed"
	case SlotVisible:
		return strconv.Itoa(g.Index)
	default:
		return "none"
	}
}

// ComputeGhostSlot converts a target into an insertion index into order.
// The slot directly before or after the dragged item is suppressed.
func ComputeGhostSlot(target *Target, order []string, draggedID string) GhostSlot {
	if target == nil {
		return GhostSlot{}
	}
	ti := indexOf(order, target.ID)
	di := indexOf(order, draggedID)
	if ti < 0 || di < 0 {
		return GhostSlot{}
	}
	insert := insertIndex(ti, target.Edge)
	if insert == di || insert == di+1 {
		return GhostSlot{State: SlotSuppressed}
	}
	return GhostSlot{State: SlotVisible, Index: insert}
}

func insertIndex(targetIdx int, edge Edge) int {
	if edge == EdgeBelow {
		return targetIdx + 1
	}
	return targetIdx
}
