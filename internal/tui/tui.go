package tui

import (
	"folderdeck/internal/reorder"
	"folderdeck/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the interactive shelf.
type Options struct {
	Drag          reorder.Config
	Theme         string // auto|light|dark
	DesktopNotify bool

	// Persister overrides where reorders are written; nil writes to the store.
	Persister reorder.Persister
}

func Run(s store.Store, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(s, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if fm, ok := final.(appModel); ok {
		fm.engine.Teardown()
	}
	return err
}
