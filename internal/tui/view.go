package tui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/projector"
)

// border, input bar, footer and notification line
const reservedRows = 9

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.inputView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	if note := m.noteView(); note != "" {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return panelStyle.Render(b.String())
}

func (m Model) header() string {
	done := projector.CompletedCount(m.snap)
	left := projector.ActiveCount(m.snap)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), left,
		accentStyle.Render("Total"), len(m.snap.Items),
	)
}

func (m Model) inputView() string {
	if m.focus == focusEdit {
		return focusedBarStyle.Render("Edit item\n" + m.edit.View())
	}
	title := "New todo"
	if m.snap.Placeholder != nil {
		title = mutedStyle.Render("Adding " + m.spinner.View())
	}
	bar := barStyle
	if m.focus == focusInput {
		bar = focusedBarStyle
	}
	return bar.Render(title + "\n" + m.input.View())
}

// footerView is hidden until there is something to count.
func (m Model) footerView() string {
	if len(m.snap.Items) == 0 {
		return helpStyle.Render("nothing to do yet")
	}

	parts := []string{fmt.Sprintf("%d items left", projector.ActiveCount(m.snap))}

	filters := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		if f == m.filter {
			filters = append(filters, filterOnStyle.Render(f.String()))
		} else {
			filters = append(filters, mutedStyle.Render(f.String()))
		}
	}
	parts = append(parts, strings.Join(filters, " "))

	toggle := mutedStyle.Render("t all done")
	if projector.AllComplete(m.snap) {
		toggle = successStyle.Render("t all done")
	}
	parts = append(parts, toggle)

	if projector.HasCompleted(m.snap) {
		parts = append(parts, accentStyle.Render("c clear completed"))
	}
	return strings.Join(parts, "   ")
}

func (m Model) noteView() string {
	notes := m.eng.Notes()
	if !notes.Visible() {
		return ""
	}
	return errorStyle.Render("✖ "+notes.Message()) + "  " + helpStyle.Render("x dismiss")
}
