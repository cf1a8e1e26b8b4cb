// Package popup is the interactive front end: a title/value form above the
// list of saved items, with copy, delete-with-confirmation, and short-lived
// notifications.
package popup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/clipboard"
	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/jacksmith/snip/internal/render"
	"github.com/jacksmith/snip/internal/storage"
	"go.uber.org/zap"
)

// DefaultNotifyFor is how long a notification stays on screen.
const DefaultNotifyFor = 3 * time.Second

// focus identifies which part of the popup receives keys.
type focus int

const (
	focusTitle focus = iota
	focusValue
	focusList
)

// confirmDialog is the delete confirmation. At most one is open.
type confirmDialog struct {
	open  bool
	title string
}

// Open shows the dialog for title. It reports false if one is already open.
func (c *confirmDialog) Open(title string) bool {
	if c.open {
		return false
	}
	c.open = true
	c.title = title
	return true
}

// Close hides the dialog.
func (c *confirmDialog) Close() {
	c.open = false
	c.title = ""
}

// Messages produced by the popup's commands.
type (
	itemsLoadedMsg struct {
		items []model.Item
		err   error
	}
	savedMsg struct {
		err error
	}
	copiedMsg struct {
		title string
		err   error
	}
	deletedMsg struct {
		title   string
		removed bool
		err     error
	}
	noticeExpiredMsg struct {
		seq int
	}
	watchStartedMsg struct {
		changes <-chan storage.Change
		err     error
	}
	recordChangedMsg struct{}
	watchClosedMsg   struct{}
)

// Options holds the collaborators of a Model.
type Options struct {
	Context   context.Context // defaults to context.Background()
	Store     *ops.ItemStore
	Clipboard clipboard.Writer
	Watcher   storage.Watcher // optional; enables live refresh
	Logger    *zap.Logger     // optional
	NotifyFor time.Duration   // defaults to DefaultNotifyFor
	Keys      *KeyMap         // optional
}

// Model is the bubbletea model for the popup.
type Model struct {
	ctx       context.Context
	store     *ops.ItemStore
	clip      clipboard.Writer
	watcher   storage.Watcher
	log       *zap.Logger
	notifyFor time.Duration
	keys      KeyMap
	help      help.Model

	items   []model.Item
	loadErr error
	cursor  int

	focus      focus
	titleInput textinput.Model
	valueInput textinput.Model

	confirm confirmDialog

	notice    *cli.Notification
	noticeSeq int

	changes <-chan storage.Change

	width int
}

// New returns a popup Model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifyFor := opts.NotifyFor
	if notifyFor <= 0 {
		notifyFor = DefaultNotifyFor
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Focus()

	vi := textinput.New()
	vi.Placeholder = "Value"
	vi.Prompt = ""

	return Model{
		ctx:        ctx,
		store:      opts.Store,
		clip:       opts.Clipboard,
		watcher:    opts.Watcher,
		log:        log.Named("popup"),
		notifyFor:  notifyFor,
		keys:       keys,
		help:       help.New(),
		items:      []model.Item{},
		titleInput: ti,
		valueInput: vi,
		width:      60,
	}
}

// Run starts the popup as a full-screen program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(contextOrBackground(opts.Context)))
	_, err := p.Run()
	return err
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Items returns the items currently displayed.
func (m Model) Items() []model.Item { return m.items }

// Cursor returns the selected list row.
func (m Model) Cursor() int { return m.cursor }

// ConfirmOpen reports whether the delete confirmation is showing, and for which title.
func (m Model) ConfirmOpen() (bool, string) { return m.confirm.open, m.confirm.title }

// Notice returns the visible notification, if any.
func (m Model) Notice() (cli.Notification, bool) {
	if m.notice == nil {
		return cli.Notification{}, false
	}
	return *m.notice, true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadItems(), textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.startWatch())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.log.Error("load items failed", zap.Error(msg.err))
			return m, nil
		}
		m.loadErr = nil
		m.items = msg.items
		m.clampCursor()
		return m, nil

	case savedMsg:
		if msg.err == nil {
			m.titleInput.SetValue("")
			m.valueInput.SetValue("")
			focusCmd := m.setFocus(focusTitle)
			noticeCmd := m.notify(cli.NotificationFor(cli.ActionSave, nil))
			return m, tea.Batch(focusCmd, m.loadItems(), noticeCmd)
		}
		var storageErr *ops.StorageError
		if errors.As(msg.err, &storageErr) {
			m.log.Error("save failed", zap.Error(msg.err))
		}
		cmd := m.notify(cli.NotificationFor(cli.ActionSave, msg.err))
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("copy failed", zap.String("title", msg.title), zap.Error(msg.err))
		}
		cmd := m.notify(cli.NotificationFor(cli.ActionCopy, msg.err))
		return m, cmd

	case deletedMsg:
		if msg.err != nil {
			m.log.Error("delete failed", zap.String("title", msg.title), zap.Error(msg.err))
			cmd := m.notify(cli.NotificationFor(cli.ActionDelete, msg.err))
			return m, cmd
		}
		cmd := m.notify(cli.NotificationFor(cli.ActionDelete, nil))
		return m, tea.Batch(m.loadItems(), cmd)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case watchStartedMsg:
		if msg.err != nil {
			m.log.Warn("live refresh unavailable", zap.Error(msg.err))
			return m, nil
		}
		m.changes = msg.changes
		return m, waitForChange(m.changes)

	case recordChangedMsg:
		return m, tea.Batch(m.loadItems(), waitForChange(m.changes))

	case watchClosedMsg:
		m.changes = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.open {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			title := m.confirm.title
			m.confirm.Close()
			return m, m.deleteItem(title)
		case key.Matches(msg, m.keys.Cancel):
			m.confirm.Close()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextField):
		cmd := m.setFocus((m.focus + 1) % 3)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := m.setFocus((m.focus + 2) % 3)
		return m, cmd
	}

	switch m.focus {
	case focusTitle:
		if key.Matches(msg, m.keys.Submit) {
			cmd := m.setFocus(focusValue)
			return m, cmd
		}
	case focusValue:
		if key.Matches(msg, m.keys.Submit) {
			return m, m.saveItem(m.titleInput.Value(), m.valueInput.Value())
		}
	case focusList:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Copy):
			if it, ok := m.selected(); ok {
				return m, m.copyItem(it.Title)
			}
		case key.Matches(msg, m.keys.Delete):
			if it, ok := m.selected(); ok {
				m.confirm.Open(it.Title)
			}
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	cmds = append(cmds, cmd)
	m.valueInput, cmd = m.valueInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.titleInput.Blur()
	m.valueInput.Blur()
	switch f {
	case focusTitle:
		return m.titleInput.Focus()
	case focusValue:
		return m.valueInput.Focus()
	}
	return nil
}

func (m Model) selected() (model.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// notify shows n and schedules its removal.
func (m *Model) notify(n cli.Notification) tea.Cmd {
	m.noticeSeq++
	m.notice = &n
	seq := m.noticeSeq
	return tea.Tick(m.notifyFor, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m Model) loadItems() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		items, err := store.List(ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m Model) saveItem(title, value string) tea.Cmd {
	store, ctx := m.store, m.ctx
	title, value = strings.TrimSpace(title), strings.TrimSpace(value)
	return func() tea.Msg {
		return savedMsg{err: store.Upsert(ctx, title, value)}
	}
}

func (m Model) copyItem(title string) tea.Cmd {
	store, clip, ctx := m.store, m.clip, m.ctx
	return func() tea.Msg {
		it, ok, err := store.FindByTitle(ctx, title)
		if err != nil {
			return copiedMsg{title: title, err: err}
		}
		if !ok {
			return copiedMsg{title: title, err: &cli.NotFoundError{Title: title}}
		}
		return copiedMsg{title: title, err: clip.WriteText(it.Value)}
	}
}

func (m Model) deleteItem(title string) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		removed, err := store.Delete(ctx, title)
		return deletedMsg{title: title, removed: removed, err: err}
	}
}

func (m Model) startWatch() tea.Cmd {
	w, ctx, key := m.watcher, m.ctx, m.store.Key()
	return func() tea.Msg {
		changes, err := w.Watch(ctx, key)
		return watchStartedMsg{changes: changes, err: err}
	}
}

func waitForChange(changes <-chan storage.Change) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return watchClosedMsg{}
		}
		return recordChangedMsg{}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Saved items"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Title") + m.titleInput.View() + "\n")
	b.WriteString(labelStyle.Render("Value") + m.valueInput.View() + "\n\n")

	b.WriteString(m.listView())

	if m.confirm.open {
		b.WriteString("\n")
		b.WriteString(dialogStyle.Render(render.ConfirmDelete(m.confirm.title) + "\n" +
			mutedStyle.Render("[y] Delete  [n] Cancel")))
		b.WriteString("\n")
	}

	if m.notice != nil {
		b.WriteString("\n")
		if m.notice.Kind == cli.KindError {
			b.WriteString(errorStyle.Render(m.notice.Text))
		} else {
			b.WriteString(successStyle.Render(m.notice.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return panelStyle.Render(b.String())
}

func (m Model) listView() string {
	if m.loadErr != nil {
		return errorStyle.Render(cli.MsgStorage) + "\n"
	}
	if len(m.items) == 0 {
		return mutedStyle.Render(render.EmptyPlaceholder) + "\n"
	}

	valueWidth := m.width - 8
	if valueWidth < 10 {
		valueWidth = 10
	}

	var b strings.Builder
	for i, it := range m.items {
		line := titleStyle.Render(it.Title) + "  " + valueStyle.Render(cli.Truncate(cli.Flatten(it.Value), valueWidth-lipgloss.Width(it.Title)))
		if m.focus == focusList && i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		fmt.Fprintln(&b, line)
	}
	return b.String()
}
