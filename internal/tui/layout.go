package tui

import (
	"folderdeck/internal/reorder"

	tea "github.com/charmbracelet/bubbletea"
)

// The terminal is mapped onto virtual pixels so drag thresholds and hysteresis
// keep the same meaning as on a pixel display: one cell is cellW x cellH.
const (
	cellW = 8.0
	cellH = 16.0

	headerRows = 2
	footerRows = 2
	cardRows   = 4
	// Each slot is one gap row (where the ghost line is drawn) plus a card.
	slotRows = cardRows + 1
)

// layout mirrors the page the card list is showing. It is shared with the
// engine's measurer, so the snapshot taken when a drag activates sees the
// current page. Cards on other pages are not measured.
type layout struct {
	width  int
	height int
	first  int // list index of the first card on the page
	count  int // cards on the page
}

// listRows is how many rows the viewport has for the list.
func (l *layout) listRows() int {
	n := l.height - headerRows - footerRows
	if n < slotRows+1 {
		return slotRows + 1
	}
	return n
}

// pageRows is the height handed to the card list. The row below it stays free
// for the ghost line after the last card of a full page.
func (l *layout) pageRows() int { return l.listRows() - 1 }

// gapRow returns the screen row of the gap before card i (i may equal first+count).
func (l *layout) gapRow(i int) int { return headerRows + (i-l.first)*slotRows }

// cardTop returns the screen row of card i's top border.
func (l *layout) cardTop(i int) int { return l.gapRow(i) + 1 }

// cardAt returns the list index of the card under screen row y, or -1.
func (l *layout) cardAt(y int) int {
	row := y - headerRows
	if row < 0 || row >= l.count*slotRows || row%slotRows == 0 {
		return -1
	}
	return l.first + row/slotRows
}

// measure reports extents in virtual pixels for the ids on the current page.
// ids are in list order.
func (l *layout) measure(ids []string) map[string]reorder.Extent {
	out := make(map[string]reorder.Extent, l.count)
	for i, id := range ids {
		if i < l.first || i >= l.first+l.count {
			continue
		}
		top := l.cardTop(i)
		out[id] = reorder.NewExtent(float64(top)*cellH, float64(top+cardRows)*cellH)
	}
	return out
}

// pointAt converts a mouse cell to the centre of that cell in virtual pixels.
func pointAt(x, y int) reorder.Point {
	return reorder.Point{X: float64(x)*cellW + cellW/2, Y: float64(y)*cellH + cellH/2}
}

func buttonOf(b tea.MouseButton) reorder.Button {
	switch b {
	case tea.MouseButtonLeft:
		return reorder.ButtonPrimary
	case tea.MouseButtonRight:
		return reorder.ButtonSecondary
	case tea.MouseButtonMiddle:
		return reorder.ButtonMiddle
	default:
		return reorder.ButtonOther
	}
}
