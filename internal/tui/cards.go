package tui

import (
	"fmt"
	"io"
	"strings"

	"folderdeck/internal/model"
	"folderdeck/internal/reorder"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type folderItem struct {
	folder model.Folder
}

func (i folderItem) FilterValue() string { return i.folder.Name }

// cardDelegate draws each folder as a gap row followed by a card. The gap row
// carries the ghost line while a drag previews a drop there.
type cardDelegate struct {
	styles  cardStyles
	dragged string
	ghost   reorder.GhostSlot
}

func (d cardDelegate) Height() int  { return slotRows }
func (d cardDelegate) Spacing() int { return 0 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(folderItem)
	if !ok {
		return
	}
	state := cardNormal
	switch {
	case d.dragged != "" && it.folder.ID == d.dragged:
		state = cardDragged
	case index == m.Index():
		state = cardSelected
	}
	lines := make([]string, 0, slotRows)
	lines = append(lines, d.gapLine(index, m.Width()))
	lines = append(lines, d.styles.renderCard(it.folder, m.Width(), state)...)
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

// gapLine is the row above card i.
func (d cardDelegate) gapLine(i, width int) string {
	if d.ghost.State == reorder.SlotVisible && d.ghost.Index == i {
		return ghostLine(width)
	}
	return ""
}

func newFolderList(d cardDelegate) list.Model {
	l := list.New(nil, d, 0, 0)
	// The header, toast and help lines are ours; keep list chrome off.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Filtering would hide cards from the drag geometry.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("folder", "folders")
	l.DisableQuitKeybindings()
	return l
}

type cardState int

const (
	cardNormal cardState = iota
	cardSelected
	cardDragged
)

type cardStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	dragged  lipgloss.Style
	title    lipgloss.Style
	meta     lipgloss.Style
}

func newCardStyles() cardStyles {
	base := lipgloss.NewStyle().
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)
	return cardStyles{
		normal:   base,
		selected: base.BorderForeground(colorSelected),
		dragged:  base.BorderForeground(colorDraggedFg).Foreground(colorDraggedFg).Faint(true),
		title:    lipgloss.NewStyle().Bold(true),
		meta:     styleMuted(),
	}
}

// renderCard draws one folder card, exactly cardRows lines tall and width wide.
func (cs cardStyles) renderCard(f model.Folder, width int, state cardState) []string {
	card := cs.normal
	title := cs.title
	meta := cs.meta
	switch state {
	case cardSelected:
		card = cs.selected
		title = title.Foreground(colorAccent)
	case cardDragged:
		card = cs.dragged
		title = title.UnsetBold().Foreground(colorDraggedFg)
		meta = meta.Foreground(colorDraggedFg)
	}

	innerW := width - card.GetHorizontalFrameSize()
	if innerW < 1 {
		innerW = 1
	}
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = "(unnamed)"
	}
	metaLine := fmt.Sprintf("%s · #%d", f.ID, f.Position+1)

	body := lipgloss.JoinVertical(lipgloss.Left,
		title.Render(xansi.Truncate(name, innerW, "…")),
		meta.Render(xansi.Truncate(metaLine, innerW, "…")),
	)
	lines := strings.Split(card.Width(innerW+card.GetHorizontalPadding()).Render(body), "\n")
	for len(lines) < cardRows {
		lines = append(lines, "")
	}
	return lines[:cardRows]
}

// ghostLine is the dashed placeholder drawn in the gap where the card would land.
func ghostLine(width int) string {
	if width < 4 {
		width = 4
	}
	return styleGhost().Render(strings.Repeat("┄", width))
}

// fitLine pads or cuts s to exactly width cells.
func fitLine(s string, width int) string {
	w := xansi.StringWidth(s)
	switch {
	case w > width:
		return xansi.Truncate(s, width, "")
	case w < width:
		return s + strings.Repeat(" ", width-w)
	default:
		return s
	}
}
