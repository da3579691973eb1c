package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// queries, so a fixed style is picked from the theme instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

const helpMarkdown = `
# folderdeck

Drag a folder card with the **left mouse button** and drop it between two other
cards. A dashed line shows where it will land. Release outside the shelf to
cancel.

| Key | Action |
| --- | --- |
| ↑ / k, ↓ / j | select folder |
| shift+↑ / K, shift+↓ / J | move selected folder |
| a | add a folder |
| d | delete selected folder |
| y | copy folder id |
| r | reload from disk |
| esc | cancel drag / close |
| ? | toggle this help |
| q | quit |

Changes are saved right away. If a save fails the previous order comes back and
the status line says why.
`
