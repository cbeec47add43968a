// Package tui is the interactive front end. It is a bubbletea program that
// drives the sync engine: engine calls run as tea.Cmds, settlements come
// back as messages and notification expiries are tea.Ticks.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/engine"
	"github.com/Makepad-fr/tada/internal/itemstore"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/projector"
)

type settledMsg struct{ s engine.Settlement }

type expireMsg struct{ x notify.Expiry }

type focus int

const (
	focusList focus = iota
	focusInput
	focusEdit
)

type Options struct {
	Filter model.Filter
}

type Model struct {
	ctx  context.Context
	eng  *engine.Engine
	keys *keyMap

	list    list.Model
	input   textinput.Model // new item
	edit    textinput.Model // title edit
	spinner spinner.Model

	focus  focus
	editID int
	filter model.Filter
	snap   itemstore.Snapshot

	width, height int

	// schedule turns an expiry into a timer command.
	schedule func(notify.Expiry) tea.Cmd
}

func New(ctx context.Context, eng *engine.Engine, opt Options) Model {
	keys := newKeyMap()

	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.short

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "What needs to be done?"
	in.CharLimit = 200

	ed := textinput.New()
	ed.Prompt = "> "
	ed.Placeholder = "Edit item title..."
	ed.CharLimit = 200

	m := Model{
		ctx:     ctx,
		eng:     eng,
		keys:    keys,
		list:    l,
		input:   in,
		edit:    ed,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(pendingStyle)),
		filter:  opt.Filter,
		schedule: func(x notify.Expiry) tea.Cmd {
			return tea.Tick(x.After, func(time.Time) tea.Msg { return expireMsg{x} })
		},
	}
	m.refresh()
	return m
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(ctx context.Context, eng *engine.Engine, opt Options) error {
	p := tea.NewProgram(New(ctx, eng, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.apply(m.eng.Load()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case settledMsg:
		cmd = m.apply(m.eng.Settle(msg.s))

	case expireMsg:
		m.eng.Notes().Expire(msg.x)

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusEdit:
			cmd = m.updateEdit(msg)
		case focusInput:
			cmd = m.updateInput(msg)
		default:
			var quit bool
			cmd, quit = m.updateList(msg)
			if quit {
				return m, tea.Quit
			}
		}

	default:
		switch m.focus {
		case focusEdit:
			m.edit, cmd = m.edit.Update(msg)
		case focusInput:
			m.input, cmd = m.input.Update(msg)
		}
	}
	m.refresh()
	return m, cmd
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Add):
		return m.focusNew(), false
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			return m.apply(m.eng.ToggleCheckbox(it, !it.Completed)), false
		}
		return nil, false
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.selected(); ok {
			return m.apply(m.eng.Delete(it.ID)), false
		}
		return nil, false
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selected(); ok {
			return m.startEdit(it), false
		}
		return nil, false
	case key.Matches(msg, m.keys.ToggleAll):
		return m.apply(m.eng.ToggleAll()), false
	case key.Matches(msg, m.keys.Clear):
		return m.apply(m.eng.ClearCompleted()), false
	case key.Matches(msg, m.keys.Filter):
		m.setFilter(msg.String())
		return nil, false
	case key.Matches(msg, m.keys.Dismiss):
		m.eng.Notes().Dismiss()
		return nil, false
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd, false
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	creating := m.eng.Items().IsPending(model.PlaceholderID)
	switch msg.String() {
	case "esc", "tab":
		m.input.Blur()
		m.focus = focusList
		return nil
	case "enter":
		if creating {
			return nil
		}
		return m.apply(m.eng.Create(m.input.Value()))
	}
	// Input is read-only while a create is in flight.
	if creating {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.exitEdit()
		return nil
	case "enter":
		it, ok := m.eng.Items().Get(m.editID)
		if !ok {
			m.exitEdit()
			return nil
		}
		if m.eng.Items().IsPending(it.ID) {
			return nil
		}
		return m.apply(m.eng.EditTitle(it, m.edit.Value()))
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return cmd
}

// apply carries out engine effects and returns the commands they need.
func (m *Model) apply(fx engine.Effects) tea.Cmd {
	var cmds []tea.Cmd
	ctx := m.ctx
	for _, call := range fx.Calls {
		cmds = append(cmds, func() tea.Msg { return settledMsg{call(ctx)} })
	}
	for _, x := range fx.Expiries {
		cmds = append(cmds, m.schedule(x))
	}
	if fx.ExitEdit {
		m.exitEdit()
	}
	if fx.ClearInput {
		m.input.SetValue("")
	}
	// An open title edit keeps the keyboard.
	if fx.FocusInput && m.focus != focusEdit {
		cmds = append(cmds, m.focusNew())
	}
	return tea.Batch(cmds...)
}

func (m *Model) focusNew() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) startEdit(it model.Item) tea.Cmd {
	m.focus = focusEdit
	m.editID = it.ID
	m.input.Blur()
	m.edit.SetValue(it.Title)
	m.edit.CursorEnd()
	return m.edit.Focus()
}

func (m *Model) exitEdit() {
	if m.focus != focusEdit {
		return
	}
	m.focus = focusList
	m.editID = model.PlaceholderID
	m.edit.SetValue("")
	m.edit.Blur()
}

func (m *Model) setFilter(k string) {
	switch k {
	case "1":
		m.filter = model.FilterAll
	case "2":
		m.filter = model.FilterActive
	case "3":
		m.filter = model.FilterCompleted
	default:
		m.filter = m.filter.Next()
	}
}

// selected returns the committed item under the cursor.
func (m *Model) selected() (model.Item, bool) {
	r, ok := m.list.SelectedItem().(row)
	if !ok || r.Item.IsPlaceholder() {
		return model.Item{}, false
	}
	return r.Item, true
}

// refresh projects the engine state into the list.
func (m *Model) refresh() {
	snap := m.eng.Items().Snapshot()
	m.snap = snap

	frame := m.spinner.View()
	visible := projector.Filtered(snap, m.filter)
	rows := make([]list.Item, 0, len(visible)+1)
	for _, it := range visible {
		rows = append(rows, row{Item: it, Loading: projector.IsItemLoading(snap, it.ID), Frame: frame})
	}
	if snap.Placeholder != nil {
		rows = append(rows, row{Item: *snap.Placeholder, Loading: true, Frame: frame})
	}
	m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	m.list.Title = m.header()
	m.keys.ToggleAll.SetEnabled(len(snap.Items) > 0)
	m.keys.Clear.SetEnabled(projector.HasCompleted(snap))
	m.keys.Dismiss.SetEnabled(m.eng.Notes().Visible())
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-reservedRows
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
	m.input.Width = w - 4
	m.edit.Width = w - 4
}
