package reorder

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Edge says which side of a target item the dragged item would land on.
type Edge int

const (
	EdgeAbove Edge = iota
	EdgeBelow
)

func (e Edge) String() string {
	if e == EdgeBelow {
		return "below"
	}
	return "above"
}

// ParseEdge accepts above/below and the before/after aliases.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above", "before":
		return EdgeAbove, nil
	case "below", "after":
		return EdgeBelow, nil
	default:
		return EdgeAbove, fmt.Errorf("unknown edge: %q (want above|below)", s)
	}
}

// Target is a resolved drop target.
type Target struct {
	ID   string
	Edge Edge
}

func (t Target) String() string { return t.ID + "/" + t.Edge.String() }

// zone is a half-open interval [lo, hi) on the vertical axis.
type zone struct {
	target Target
	lo, hi float64
}

func (z zone) contains(y float64) bool { return y >= z.lo && y < z.hi }

// Resolver maps a pointer Y onto a drop target using a geometry snapshot.
type Resolver struct {
	// Margin widens the zone of the currently held target.
	Margin float64
	// Reach bounds how far above the first item or below the last item a pointer
	// still resolves to the outermost zone. Zero or negative means unbounded.
	Reach float64
}

// Resolve returns the target under y, or nil.
//
// Candidates are the IDs in order that are not draggedID and are present in the
// snapshot, taken in snapshot Top order. held is the last non-nil target; its zone
// is widened by Margin and tested first so small oscillations keep it.
func (r Resolver) Resolve(y float64, snap *Snapshot, order []string, draggedID string, held *Target) *Target {
	zones, lo, hi := buildZones(snap, order, draggedID)
	if len(zones) == 0 {
		return nil
	}
	if r.Reach > 0 && (y < lo-r.Reach || y >= hi+r.Reach) {
		return nil
	}

	if held != nil && r.Margin > 0 {
		for _, z := range zones {
			if z.target != *held {
				continue
			}
			if !math.IsInf(z.lo, -1) {
				z.lo -= r.Margin
			}
			if !math.IsInf(z.hi, 1) {
				z.hi += r.Margin
			}
			if z.contains(y) {
				t := *held
				return &t
			}
			break
		}
	}

	for _, z := range zones {
		if z.contains(y) {
			t := z.target
			return &t
		}
	}
	return nil
}

// buildZones returns the above/below zones of every candidate plus the overall
// list span (first Top, last Bottom).
func buildZones(snap *Snapshot, order []string, draggedID string) ([]zone, float64, float64) {
	type cand struct {
		id  string
		ext Extent
	}
	cands := make([]cand, 0, len(order))
	for _, id := range order {
		if id == draggedID {
			continue
		}
		ext, ok := snap.Extent(id)
		if !ok {
			// Detached: present in the list but not measured.
			continue
		}
		cands = append(cands, cand{id: id, ext: ext})
	}
	if len(cands) == 0 {
		return nil, 0, 0
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].ext.Top < cands[j].ext.Top })

	lo := cands[0].ext.Top
	hi := cands[0].ext.Bottom
	zones := make([]zone, 0, len(cands)*2)
	for i, c := range cands {
		prevMid := math.Inf(-1)
		if i > 0 {
			prevMid = cands[i-1].ext.MidY
		}
		nextMid := math.Inf(1)
		if i+1 < len(cands) {
			nextMid = cands[i+1].ext.MidY
		}
		zones = append(zones,
			zone{target: Target{ID: c.id, Edge: EdgeAbove}, lo: prevMid, hi: c.ext.MidY},
			zone{target: Target{ID: c.id, Edge: EdgeBelow}, lo: c.ext.MidY, hi: nextMid},
		)
		lo = math.Min(lo, c.ext.Top)
		hi = math.Max(hi, c.ext.Bottom)
	}
	return zones, lo, hi
}
