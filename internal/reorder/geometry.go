package reorder

import "math"

// Point is a pointer coordinate in the host's layout space.
type Point struct {
	X, Y float64
}

func (p Point) distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Extent is the vertical span of one rendered item.
type Extent struct {
	Top    float64
	Bottom float64
	MidY   float64
}

// NewExtent builds an Extent and derives its midpoint.
func NewExtent(top, bottom float64) Extent {
	return Extent{Top: top, Bottom: bottom, MidY: (top + bottom) / 2}
}

// Measurer reports the current on-screen extents for the given item IDs.
// IDs that are not currently laid out may be omitted from the result.
type Measurer interface {
	Measure(ids []string) map[string]Extent
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(ids []string) map[string]Extent

func (f MeasureFunc) Measure(ids []string) map[string]Extent { return f(ids) }

// Snapshot is the layout captured when a drag becomes active. It never changes
// afterwards, so hit-testing measures against the pre-drag layout even while the
// view reflows under the drag's own feedback.
type Snapshot struct {
	extents map[string]Extent
}

// TakeSnapshot measures ids once and keeps a private copy of the result.
func TakeSnapshot(m Measurer, ids []string) *Snapshot {
	s := &Snapshot{extents: map[string]Extent{}}
	if m == nil {
		return s
	}
	for id, ext := range m.Measure(ids) {
		s.extents[id] = ext
	}
	return s
}

// Extent returns the captured span of id.
func (s *Snapshot) Extent(id string) (Extent, bool) {
	if s == nil {
		return Extent{}, false
	}
	ext, ok := s.extents[id]
	return ext, ok
}

// Len returns how many items were measured.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.extents)
}
