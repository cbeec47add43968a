package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

// row adapts an item to bubbles/list.Item. Loading rows carry the current
// spinner frame.
type row struct {
	Item    model.Item
	Loading bool
	Frame   string
}

func (r row) Title() string       { return r.Item.Title }
func (r row) Description() string { return "" }
func (r row) FilterValue() string { return r.Item.Title }

// rowDelegate renders a row on a single line.
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := r.Item.Title
	switch {
	case r.Item.IsPlaceholder():
		text = mutedStyle.Render(text)
	case r.Item.Completed:
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	line := box + " " + text
	if r.Loading {
		line += " " + pendingStyle.Render(r.Frame)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}
