package reorder

// Phase is the externally visible state of the drag session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseActive:
		return "active"
	default:
		return "idle"
	}
}

// Outcome is how a drag ended.
type Outcome int

const (
	OutcomeCancelled Outcome = iota
	OutcomeCommitted
)

func (o Outcome) String() string {
	if o == OutcomeCommitted {
		return "committed"
	}
	return "cancelled"
}

// Button identifies the pointer button that started a gesture.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
	ButtonOther
)

// dragState is one of idleState, armedState or activeState. Each variant carries
// only the fields valid in that state.
type dragState interface {
	phase() Phase
}

type idleState struct{}

func (idleState) phase() Phase { return PhaseIdle }

type armedState struct {
	draggedID string
	start     Point
}

func (armedState) phase() Phase { return PhaseArmed }

type activeState struct {
	draggedID string
	order     []string // order at activation, pruned by Replace
	snapshot  *Snapshot
	current   *Target
	lastDrop  *Target
}

func (*activeState) phase() Phase { return PhaseActive }
