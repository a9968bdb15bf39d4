package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/logging"
	"github.com/muurk/shoplist/internal/shopping"
	"github.com/muurk/shoplist/internal/ui"
)

// DefaultRequestTimeout bounds each store call made from the UI
const DefaultRequestTimeout = 15 * time.Second

// Options configures the list screen
type Options struct {
	Currency string
	// Source describes the store in the header (e.g. "memory" or a URL)
	Source string
	// Timeout bounds each store call
	Timeout time.Duration
	// Width and Height seed the layout before the first WindowSizeMsg
	Width  int
	Height int
	// SkipLoad starts with the list as given instead of loading from the store
	SkipLoad bool
}

// Model is the shopping list screen
type Model struct {
	list *shopping.List
	opts Options

	// UI state
	Width  int
	Height int

	// Cursor
	Row int
	Col int // index into item.Fields

	// Inline editing. The open cell is held by id so rows added or removed
	// meanwhile do not move it.
	Editing   bool
	editID    int
	editField item.Field
	input     textinput.Model

	// Add form
	ShowingForm bool
	form        addForm

	notice   shopping.Notice
	inflight int
	sending  int // updates awaiting the store
	loading  bool
	// reloadWanted is set when a load result or change event arrived while
	// an edit or update was open
	reloadWanted bool

	spinner spinner.Model
	help    help.Model
	keys    keyMaps
}

// New creates the list screen over list
func New(list *shopping.List, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = ui.GetTerminalSize()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 64

	m := Model{
		list:    list,
		opts:    opts,
		Width:   opts.Width,
		Height:  opts.Height,
		input:   in,
		form:    newAddForm(),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMaps(),
	}
	if !opts.SkipLoad {
		// Init issues the first load
		m.loading = true
		m.inflight = 1
	}
	return m
}

// List returns the underlying list
func (m Model) List() *shopping.List {
	return m.list
}

// Notice returns the notice shown in the status line
func (m Model) Notice() shopping.Notice {
	return m.notice
}

// Busy reports whether store calls are in flight
func (m Model) Busy() bool {
	return m.inflight > 0
}

// EditingCell returns the item id and field of the open cell
func (m Model) EditingCell() (int, item.Field, bool) {
	return m.editID, m.editField, m.Editing
}

// Init starts the initial load
func (m Model) Init() tea.Cmd {
	if m.opts.SkipLoad {
		return nil
	}
	return tea.Batch(loadCmd(m.list.Store(), m.opts.Timeout), m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.finishRequest()
		m.loading = false
		if m.Editing || m.sending > 0 {
			// Loading resets every snapshot; fetch again once the edit is settled
			m.reloadWanted = true
			return m, nil
		}
		m.notice = m.list.Loaded(msg.items, msg.err)
		m.clampCursor()
		return m.reloadWhenIdle()

	case addedMsg:
		m.finishRequest()
		m.notice = m.list.Added(msg.draft, msg.created, msg.err)
		if msg.err == nil && !m.Editing {
			m.Row = m.list.Len() - 1
		}
		return m, nil

	case deletedMsg:
		m.finishRequest()
		cursorID, onItem := m.selected()
		if m.Editing {
			cursorID, onItem = m.editID, true
		}

		m.notice = m.list.Deleted(msg.id, msg.err)
		if m.Editing && msg.err == nil && msg.id == m.editID {
			m.Editing = false
			m.input.Blur()
		}

		if row, ok := m.rowOf(cursorID); onItem && ok {
			m.Row = row
		}
		m.clampCursor()
		return m.reloadWhenIdle()

	case committedMsg:
		m.finishRequest()
		if m.sending > 0 {
			m.sending--
		}
		res := m.list.Resolve(msg.commit, msg.err)
		m.notice = m.list.EditNotice(res)
		return m.reloadWhenIdle()

	case EventMsg:
		logging.Debug("Change event received", zap.String("type", msg.Type), zap.Int("item_id", msg.ID))
		m.reloadWanted = true
		return m.reloadWhenIdle()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch {
		case m.ShowingForm:
			return m.updateForm(msg)
		case m.Editing:
			return m.updateEditor(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

// updateBrowse handles keys when no cell is being edited
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.List
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.Row > 0 {
			m.Row--
		}

	case key.Matches(msg, k.Down):
		if m.Row < m.list.Len()-1 {
			m.Row++
		}

	case key.Matches(msg, k.Left):
		m.Col = (m.Col + len(item.Fields) - 1) % len(item.Fields)

	case key.Matches(msg, k.Right):
		m.Col = (m.Col + 1) % len(item.Fields)

	case key.Matches(msg, k.Edit):
		return m.startEditing()

	case key.Matches(msg, k.Add):
		m.ShowingForm = true
		return m, m.form.open()

	case key.Matches(msg, k.Delete):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.startRequest(deleteCmd(m.list.Store(), m.opts.Timeout, id))

	case key.Matches(msg, k.Reload):
		if m.loading {
			return m, nil
		}
		return m.startLoad()

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// startEditing opens the selected cell for editing
func (m Model) startEditing() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	f := m.field()
	if m.list.Saving(id, f) {
		m.notice = shopping.StillSaving(f)
		return m, nil
	}
	if !m.list.BeginEdit(id, f) {
		return m, nil
	}

	it, _ := m.list.Find(id)
	m.Editing = true
	m.editID = id
	m.editField = f
	m.input.SetValue(it.Text(f))
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// updateEditor handles keys while a cell is being edited
func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Edit
	switch {
	case key.Matches(msg, k.Cancel):
		res := m.list.Cancel(m.editID, m.editField)
		m.Editing = false
		m.input.Blur()
		m.notice = m.list.EditNotice(res)
		return m.reloadWhenIdle()

	case key.Matches(msg, k.Save):
		return m.finishEditing()

	case key.Matches(msg, k.Next):
		nm, cmd := m.finishEditing()
		nm.Col = (nm.Col + 1) % len(item.Fields)
		return nm, cmd

	case key.Matches(msg, k.Leave):
		nm, cmd := m.finishEditing()
		if msg.String() == "up" && nm.Row > 0 {
			nm.Row--
		} else if msg.String() == "down" && nm.Row < nm.list.Len()-1 {
			nm.Row++
		}
		return nm, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// finishEditing blurs the open cell. A valid change is sent to the store in a
// command; anything else is resolved immediately.
func (m Model) finishEditing() (Model, tea.Cmd) {
	m.Editing = false
	m.input.Blur()
	if row, ok := m.rowOf(m.editID); ok {
		m.Row = row
	}

	commit, res := m.list.Blur(m.editID, m.editField, m.input.Value())
	if commit == nil {
		if n := m.list.EditNotice(res); !n.IsZero() {
			m.notice = n
		}
		return m.reloadWhenIdle()
	}

	m.sending++
	return m.startRequest(sendCmd(m.list.Store(), m.opts.Timeout, commit))
}

// updateForm handles keys while the add form is open
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Form
	switch {
	case key.Matches(msg, k.Close):
		m.ShowingForm = false
		return m, nil

	case key.Matches(msg, k.Next):
		return m, m.form.move(1)

	case key.Matches(msg, k.Prev):
		return m, m.form.move(-1)

	case key.Matches(msg, k.Submit):
		d, err := m.form.draft()
		if err == nil {
			err = d.Validate()
		}
		if err != nil {
			m.notice = shopping.DraftRejected(err)
			return m, nil
		}
		m.ShowingForm = false
		return m.startRequest(addCmd(m.list.Store(), m.opts.Timeout, d))
	}

	return m, m.form.update(msg)
}

func (m Model) startRequest(cmd tea.Cmd) (Model, tea.Cmd) {
	m.inflight++
	return m, cmd
}

func (m Model) startLoad() (Model, tea.Cmd) {
	m.reloadWanted = false
	m.loading = true
	return m.startRequest(loadCmd(m.list.Store(), m.opts.Timeout))
}

// reloadWhenIdle issues a wanted reload once no edit or update is open
func (m Model) reloadWhenIdle() (Model, tea.Cmd) {
	if !m.reloadWanted || m.loading || m.Editing || m.sending > 0 {
		return m, nil
	}
	return m.startLoad()
}

func (m *Model) finishRequest() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m Model) field() item.Field {
	return item.Fields[m.Col]
}

func (m Model) selected() (int, bool) {
	items := m.list.Items()
	if m.Row < 0 || m.Row >= len(items) {
		return 0, false
	}
	return items[m.Row].ID, true
}

func (m Model) rowOf(id int) (int, bool) {
	for i, it := range m.list.Items() {
		if it.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) clampCursor() {
	if m.Row >= m.list.Len() {
		m.Row = m.list.Len() - 1
	}
	if m.Row < 0 {
		m.Row = 0
	}
}
