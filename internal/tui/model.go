package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folderdeck/internal/model"
	"folderdeck/internal/notify"
	"folderdeck/internal/reorder"
	"folderdeck/internal/store"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type viewMode int

const (
	modeList viewMode = iota
	modeAdd
	modeConfirmDelete
	modeHelp
)

const (
	toastTTL       = 4 * time.Second
	persistTimeout = 10 * time.Second
)

type foldersLoadedMsg struct {
	folders []model.Folder
	err     error
}

type persistResultMsg struct {
	commit *reorder.Commit
	err    error
}

type folderCreatedMsg struct {
	folder model.Folder
	err    error
}

type folderRemovedMsg struct {
	id  string
	err error
}

type copiedMsg struct {
	id  string
	err error
}

type toastExpiredMsg struct{ seq int }

type appModel struct {
	store    store.Store
	engine   *reorder.Engine
	notifier reorder.Notifier
	inbox    *notify.Inbox
	geo      *layout

	folders  map[string]model.Folder
	list     list.Model
	selectID string // select this folder after the next load
	preview  reorder.Update

	mode  viewMode
	keys  keyMap
	help  help.Model
	input textinput.Model
	cards cardStyles

	toast    string
	toastErr bool
	toastSeq int

	copy func(string) error
}

func newAppModel(s store.Store, opts Options) appModel {
	cfg := opts.Drag
	if cfg == (reorder.Config{}) {
		cfg = reorder.DefaultConfig()
	}
	var persister reorder.Persister = s
	if opts.Persister != nil {
		persister = opts.Persister
	}

	geo := &layout{width: 80, height: 24}
	inbox := &notify.Inbox{}
	notifier := notify.Fanout{inbox, notify.NewDesktop(opts.DesktopNotify, "folderdeck")}

	in := textinput.New()
	in.Prompt = "New folder: "
	in.Placeholder = "name"
	in.CharLimit = 120

	cards := newCardStyles()
	return appModel{
		store:    s,
		engine:   reorder.NewEngine(cfg, reorder.MeasureFunc(geo.measure), persister, notifier),
		notifier: notifier,
		inbox:    inbox,
		geo:      geo,
		folders:  map[string]model.Folder{},
		list:     newFolderList(cardDelegate{styles: cards}),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    in,
		cards:    cards,
		copy:     clipboard.WriteAll,
	}
}

func (m appModel) Init() tea.Cmd {
	return loadCmd(m.store)
}

func loadCmd(s store.Store) tea.Cmd {
	return func() tea.Msg {
		folders, err := s.Load(context.Background())
		return foldersLoadedMsg{folders: folders, err: err}
	}
}

// persistCmd writes c off the update loop; the result comes back as a
// persistResultMsg so Settle runs on the loop again.
func persistCmd(e *reorder.Engine, c *reorder.Commit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return persistResultMsg{commit: c, err: e.Persist(ctx, c)}
	}
}

func createCmd(s store.Store, name string) tea.Cmd {
	return func() tea.Msg {
		f, err := s.CreateFolder(context.Background(), name, time.Now())
		return folderCreatedMsg{folder: f, err: err}
	}
}

func removeCmd(s store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return folderRemovedMsg{id: id, err: s.RemoveFolder(context.Background(), id, time.Now())}
	}
}

func copyCmd(copyFn func(string) error, id string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{id: id, err: copyFn(id)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncList()
	return m, cmd
}

func (m appModel) update(msg tea.Msg) (appModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.geo.width, m.geo.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(m.cardWidth(), m.geo.pageRows())
		return m, nil

	case foldersLoadedMsg:
		if msg.err != nil {
			return m, m.fail(fmt.Sprintf("Could not load folders: %v", msg.err))
		}
		m.setFolders(msg.folders)
		return m, nil

	case persistResultMsg:
		m.engine.Settle(msg.commit, msg.err)
		cmd := m.flushFailures()
		var mismatch store.OrderMismatchError
		if errors.As(msg.err, &mismatch) {
			// Someone else changed the shelf; show what is on disk now.
			return m, tea.Batch(cmd, loadCmd(m.store))
		}
		return m, cmd

	case folderCreatedMsg:
		if msg.err != nil {
			return m, m.fail(fmt.Sprintf("Could not add folder: %v", msg.err))
		}
		m.selectID = msg.folder.ID
		return m, tea.Batch(m.showToast("Added "+msg.folder.Name, false), loadCmd(m.store))

	case folderRemovedMsg:
		if msg.err != nil {
			return m, m.fail(fmt.Sprintf("Could not delete folder: %v", msg.err))
		}
		return m, tea.Batch(m.showToast("Deleted "+msg.id, false), loadCmd(m.store))

	case copiedMsg:
		if msg.err != nil {
			return m, m.fail(fmt.Sprintf("Could not copy: %v", msg.err))
		}
		return m, m.showToast("Copied "+msg.id, false)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *appModel) setFolders(folders []model.Folder) {
	m.folders = make(map[string]model.Folder, len(folders))
	ids := make([]string, 0, len(folders))
	for _, f := range folders {
		m.folders[f.ID] = f
		ids = append(ids, f.ID)
	}
	// Keep the store's order even if positions on disk are damaged.
	m.engine.Replace(reorder.Renumber(ids))
	if m.engine.Phase() == reorder.PhaseIdle {
		m.preview = reorder.Update{}
	}
	m.syncList()
	if m.selectID != "" {
		m.selectByID(m.selectID)
		m.selectID = ""
	}
}

// syncList rebuilds the card list from the engine's order and points the
// measurer at the page now on screen.
func (m *appModel) syncList() {
	order := m.engine.Order()
	items := make([]list.Item, 0, len(order))
	for i, id := range order {
		f, ok := m.folders[id]
		if !ok {
			f = model.Folder{ID: id}
		}
		f.Position = i
		items = append(items, folderItem{folder: f})
	}
	m.list.SetItems(items)
	if idx := m.list.Index(); idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	start, end := m.list.Paginator.GetSliceBounds(len(items))
	m.geo.first, m.geo.count = start, end-start
}

func (m *appModel) selectByID(id string) {
	for i, oid := range m.engine.Order() {
		if oid == id {
			m.list.Select(i)
			return
		}
	}
}

func (m appModel) selectedID() string {
	it, ok := m.list.SelectedItem().(folderItem)
	if !ok {
		return ""
	}
	return it.folder.ID
}

func (m appModel) cardWidth() int {
	w := m.geo.width
	if w < 20 {
		w = 20
	}
	return w - 2
}

// fail routes an error through the notifier so desktop notifications see it too.
func (m *appModel) fail(text string) tea.Cmd {
	slog.Warn("tui failure", "message", text)
	m.notifier.NotifyFailure(text)
	return m.flushFailures()
}

func (m *appModel) flushFailures() tea.Cmd {
	msgs := m.inbox.Drain()
	if len(msgs) == 0 {
		return nil
	}
	return m.showToast(msgs[len(msgs)-1], true)
}

func (m *appModel) showToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m appModel) updateMouse(msg tea.MouseMsg) (appModel, tea.Cmd) {
	if m.mode != modeList {
		return m, nil
	}
	order := m.engine.Order()

	switch {
	case tea.MouseEvent(msg).IsWheel():
		if m.engine.Phase() != reorder.PhaseIdle || len(order) == 0 {
			return m, nil
		}
		// The wheel flips pages; cards scroll a page at a time.
		per := m.list.Paginator.PerPage
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.list.Select(max(0, m.list.Index()-per))
		case tea.MouseButtonWheelDown:
			m.list.Select(min(len(order)-1, m.list.Index()+per))
		}
		return m, nil

	case msg.Action == tea.MouseActionPress:
		i := m.geo.cardAt(msg.Y)
		if i < 0 || i >= len(order) {
			return m, nil
		}
		m.list.Select(i)
		if err := m.engine.ArmDrag(order[i], pointAt(msg.X, msg.Y), buttonOf(msg.Button)); err != nil {
			slog.Debug("press ignored", "error", err)
		}
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		if m.engine.Phase() == reorder.PhaseIdle {
			return m, nil
		}
		m.preview = m.engine.UpdatePointer(pointAt(msg.X, msg.Y))
		return m, nil

	case msg.Action == tea.MouseActionRelease:
		if m.engine.Phase() == reorder.PhaseIdle {
			return m, nil
		}
		dragged, _ := m.engine.DraggedID()
		_, c := m.engine.EndDrag()
		m.preview = reorder.Update{}
		m.selectByID(dragged)
		if c == nil {
			return m, nil
		}
		return m, persistCmd(m.engine, c)
	}
	return m, nil
}

// moveSelected moves the selected folder one slot up or down using the same
// planning as a drop, and persists it like one.
func (m *appModel) moveSelected(delta int) tea.Cmd {
	order := m.engine.Order()
	i := m.list.Index()
	j := i + delta
	if i < 0 || i >= len(order) || j < 0 || j >= len(order) {
		return nil
	}
	target := reorder.Target{ID: order[j], Edge: reorder.EdgeAbove}
	if delta > 0 {
		target.Edge = reorder.EdgeBelow
	}
	next, changed, err := reorder.PlanOrder(order, order[i], target)
	if err != nil || !changed {
		return nil
	}
	c := &reorder.Commit{
		DraggedID: order[i],
		Target:    target,
		Prev:      m.engine.Items(),
		Next:      reorder.Renumber(next),
	}
	m.engine.Replace(c.Next)
	m.list.Select(j)
	return persistCmd(m.engine, c)
}

func (m appModel) updateKey(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		switch msg.Type {
		case tea.KeyEsc:
			m.closeInput()
			return m, nil
		case tea.KeyEnter:
			name := strings.TrimSpace(m.input.Value())
			m.closeInput()
			if name == "" {
				return m, nil
			}
			return m, createCmd(m.store, name)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeConfirmDelete:
		m.mode = modeList
		switch msg.String() {
		case "y", "Y", "enter":
			if id := m.selectedID(); id != "" {
				return m, removeCmd(m.store, id)
			}
		}
		return m, nil

	case modeHelp:
		if key.Matches(msg, m.keys.Quit) {
			m.engine.Teardown()
			return m, tea.Quit
		}
		m.mode = modeList
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.engine.Phase() != reorder.PhaseIdle {
			m.engine.Teardown()
			m.preview = reorder.Update{}
		}
		return m, nil
	}

	// Keyboard edits wait until the pointer gesture is over.
	if m.engine.Phase() != reorder.PhaseIdle {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveSelected(-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveSelected(1)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		if m.selectedID() != "" {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Copy):
		if id := m.selectedID(); id != "" {
			return m, copyCmd(m.copy, id)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, loadCmd(m.store)
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}
	return m, nil
}

func (m *appModel) closeInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

func (m appModel) View() string {
	w := m.geo.width
	if w < 20 {
		w = 20
	}

	lines := make([]string, 0, m.geo.height)
	lines = append(lines, fitLine(m.headerLine(), w), fitLine(m.promptLine(), w))

	if m.mode == modeHelp {
		lines = append(lines, strings.Split(renderMarkdown(helpMarkdown, w-4), "\n")...)
		return strings.Join(lines, "\n")
	}

	body := m.listLines()
	for r := 0; r < m.geo.listRows(); r++ {
		line := ""
		if r < len(body) {
			line = body[r]
		}
		lines = append(lines, fitLine(line, w))
	}

	toast := ""
	if m.toast != "" {
		if m.toastErr {
			toast = styleToastError().Render(m.toast)
		} else {
			toast = styleMuted().Render(m.toast)
		}
	}
	lines = append(lines, fitLine(toast, w), fitLine(m.help.View(m.keys), w))
	return strings.Join(lines, "\n")
}

func (m appModel) headerLine() string {
	order := m.engine.Order()
	title := styleTitle().Render("folderdeck")
	status := fmt.Sprintf("%d folders", len(order))
	if pages := m.list.Paginator.TotalPages; pages > 1 {
		status += fmt.Sprintf(" · page %d/%d", m.list.Paginator.Page+1, pages)
	}

	if m.preview.Active() {
		dragged, _ := m.engine.DraggedID()
		name := m.folderName(dragged)
		if t := m.preview.Target; t != nil {
			status = fmt.Sprintf("moving %s %s %s", name, t.Edge, m.folderName(t.ID))
		} else {
			status = fmt.Sprintf("moving %s · release to cancel", name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", styleMuted().Render(status))
}

func (m appModel) promptLine() string {
	switch m.mode {
	case modeAdd:
		return m.input.View()
	case modeConfirmDelete:
		return fmt.Sprintf("Delete %s? (y/n)", m.folderName(m.selectedID()))
	}
	return ""
}

func (m appModel) folderName(id string) string {
	if f, ok := m.folders[id]; ok && strings.TrimSpace(f.Name) != "" {
		return f.Name
	}
	return id
}

// listLines renders the page of cards plus the row below it, which holds the
// ghost line when the drop lands after the page's last card.
func (m appModel) listLines() []string {
	order := m.engine.Order()
	if len(order) == 0 {
		return []string{"", styleMuted().Render("  No folders yet. Press a to add one.")}
	}

	d := cardDelegate{styles: m.cards}
	if m.preview.Active() {
		d.dragged, _ = m.engine.DraggedID()
		d.ghost = m.preview.Ghost
	}
	l := m.list
	l.SetDelegate(d)

	lines := strings.Split(l.View(), "\n")
	tail := m.geo.count * slotRows
	for len(lines) <= tail {
		lines = append(lines, "")
	}
	lines[tail] = d.gapLine(m.geo.first+m.geo.count, l.Width())
	return lines
}
