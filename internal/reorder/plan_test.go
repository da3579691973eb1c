package reorder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanOrder(t *testing.T) {
	t.Parallel()
	base := []string{"A", "B", "C", "D", "E"}

	tests := []struct {
		name    string
		dragged string
		target  Target
		want    []string
		changed bool
	}{
		{"forward below", "A", Target{"C", EdgeBelow}, []string{"B", "C", "A", "D", "E"}, true},
		{"forward above", "A", Target{"C", EdgeAbove}, []string{"B", "A", "C", "D", "E"}, true},
		{"backward above", "E", Target{"A", EdgeAbove}, []string{"E", "A", "B", "C", "D"}, true},
		{"backward below", "E", Target{"A", EdgeBelow}, []string{"A", "E", "B", "C", "D"}, true},
		{"to end", "B", Target{"E", EdgeBelow}, []string{"A", "C", "D", "E", "B"}, true},
		{"own next above", "A", Target{"B", EdgeAbove}, base, false},
		{"own prev below", "C", Target{"B", EdgeBelow}, base, false},
		{"self", "C", Target{"C", EdgeAbove}, base, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := PlanOrder(base, tt.dragged, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.changed, changed)
		})
	}
	require.Equal(t, []string{"A", "B", "C", "D", "E"}, base)
}

func TestPlanOrder_UnknownIDs(t *testing.T) {
	t.Parallel()
	_, _, err := PlanOrder([]string{"A"}, "Z", Target{ID: "A"})
	require.ErrorIs(t, err, ErrUnknownItem)
	_, _, err = PlanOrder([]string{"A"}, "A", Target{ID: "Z"})
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestComputeGhostSlot(t *testing.T) {
	t.Parallel()
	order := []string{"A", "B", "C", "D"}

	require.Equal(t, GhostSlot{}, ComputeGhostSlot(nil, order, "B"))
	require.Equal(t, SlotSuppressed, ComputeGhostSlot(&Target{"A", EdgeBelow}, order, "B").State)
	require.Equal(t, SlotSuppressed, ComputeGhostSlot(&Target{"C", EdgeAbove}, order, "B").State)
	require.Equal(t, GhostSlot{State: SlotVisible, Index: 0}, ComputeGhostSlot(&Target{"A", EdgeAbove}, order, "B"))
	require.Equal(t, GhostSlot{State: SlotVisible, Index: 3}, ComputeGhostSlot(&Target{"C", EdgeBelow}, order, "B"))
	require.Equal(t, GhostSlot{State: SlotVisible, Index: 4}, ComputeGhostSlot(&Target{"D", EdgeBelow}, order, "B"))
	require.Equal(t, SlotNone, ComputeGhostSlot(&Target{"Z", EdgeBelow}, order, "B").State)
	require.Equal(t, "suppressed", GhostSlot{State: SlotSuppressed}.String())
	require.Equal(t, "3", GhostSlot{State: SlotVisible, Index: 3}.String())
}

func TestResolver_ZonesTileTheAxis(t *testing.T) {
	t.Parallel()
	snap := TakeSnapshot(rowMeasurer(), []string{"A", "B", "C"})
	r := Resolver{}

	require.Equal(t, Target{"A", EdgeAbove}, *r.Resolve(-1e6, snap, []string{"A", "B", "C"}, "", nil))
	require.Equal(t, Target{"A", EdgeAbove}, *r.Resolve(mid(0)-0.5, snap, []string{"A", "B", "C"}, "", nil))
	require.Equal(t, Target{"A", EdgeBelow}, *r.Resolve(mid(0), snap, []string{"A", "B", "C"}, "", nil))
	require.Equal(t, Target{"B", EdgeBelow}, *r.Resolve(mid(1), snap, []string{"A", "B", "C"}, "", nil))
	require.Equal(t, Target{"C", EdgeBelow}, *r.Resolve(1e6, snap, []string{"A", "B", "C"}, "", nil))

	for y := -100.0; y < 300; y += 0.5 {
		require.NotNil(t, r.Resolve(y, snap, []string{"A", "B", "C"}, "", nil), "gap at y=%v", y)
	}
}

func TestResolver_NoCandidates(t *testing.T) {
	t.Parallel()
	snap := TakeSnapshot(rowMeasurer(), []string{"A"})
	require.Nil(t, Resolver{}.Resolve(10, snap, []string{"A"}, "A", nil))
	require.Nil(t, Resolver{}.Resolve(10, nil, []string{"A", "B"}, "A", nil))
}

func TestResolver_ReachBoundsOpenZones(t *testing.T) {
	t.Parallel()
	ids := []string{"A", "B"}
	snap := TakeSnapshot(rowMeasurer(), ids)
	r := Resolver{Reach: 10}

	require.NotNil(t, r.Resolve(-10, snap, ids, "", nil))
	require.Nil(t, r.Resolve(-10.5, snap, ids, "", nil))
	require.NotNil(t, r.Resolve(72+9, snap, ids, "", nil))
	require.Nil(t, r.Resolve(72+10, snap, ids, "", nil))
}

func TestResolver_HeldOpenZoneStaysOpen(t *testing.T) {
	t.Parallel()
	ids := []string{"A", "B"}
	snap := TakeSnapshot(rowMeasurer(), ids)
	held := &Target{"A", EdgeAbove}
	got := Resolver{Margin: 8}.Resolve(math.Inf(-1), snap, ids, "", held)
	require.Equal(t, *held, *got)
}

func TestSortAndCheckDense(t *testing.T) {
	t.Parallel()
	items := []Item{{"c", 2}, {"a", 0}, {"b", 1}}
	SortByPosition(items)
	require.Equal(t, []string{"a", "b", "c"}, IDs(items))
	require.NoError(t, CheckDense(items))

	require.Error(t, CheckDense([]Item{{"a", 0}, {"b", 0}}))
	require.Error(t, CheckDense([]Item{{"a", 0}, {"b", 2}}))
	require.NoError(t, CheckDense(nil))
}

func TestParseEdge(t *testing.T) {
	t.Parallel()
	e, err := ParseEdge("Below")
	require.NoError(t, err)
	require.Equal(t, EdgeBelow, e)
	e, err = ParseEdge("before")
	require.NoError(t, err)
	require.Equal(t, EdgeAbove, e)
	_, err = ParseEdge("left")
	require.Error(t, err)
}
