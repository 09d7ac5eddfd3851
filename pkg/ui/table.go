package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/arborview/pkg/scene"
)

// TableModel renders the frame's display-order rows as an indented
// table. It shares the scene with the diagram view, so focus, selection,
// filters, and collapse state carry across view switches.
type TableModel struct {
	sc    *scene.Scene
	theme Theme

	width  int
	height int
}

// NewTableModel creates a table view over a shared scene.
func NewTableModel(sc *scene.Scene, theme Theme) TableModel {
	return TableModel{sc: sc, theme: theme}
}

// SetSize updates the view dimensions in terminal cells.
func (m *TableModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// View renders the table at the current size.
func (m *TableModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	frame := m.sc.Frame()
	switch frame.Outcome {
	case scene.OutcomeMissingInput:
		return m.centered("No data loaded yet.")
	case scene.OutcomeEmpty:
		return m.centered("No matches.")
	case scene.OutcomeStructuralError:
		return m.centered(m.theme.ErrorText.Render(fmt.Sprintf("Structural error: %v", frame.Err)))
	}

	focused := m.sc.FocusedID()
	selected := make(map[string]bool)
	for _, id := range m.sc.SelectedIDs() {
		selected[id] = true
	}

	// The window is derived from focus every render: View runs on a
	// per-frame copy of the model, so any offset stored on the receiver
	// would be lost between frames. The focused row rides the bottom edge
	// once the table outgrows the window.
	focusIdx := 0
	for i, n := range frame.Table {
		if n.ID == focused {
			focusIdx = i
			break
		}
	}
	visible := m.height
	offset := 0
	if focusIdx >= visible {
		offset = focusIdx - visible + 1
	}

	var lines []string
	end := offset + visible
	if end > len(frame.Table) {
		end = len(frame.Table)
	}
	for _, n := range frame.Table[offset:end] {
		indent := strings.Repeat("  ", n.Depth)

		marker := "  "
		if n.HasChildren {
			if n.Collapsed {
				marker = "▸ "
			} else {
				marker = "▾ "
			}
		}

		label := n.Row.DisplayLabel()
		value := ""
		if n.Row.HasValue() {
			value = n.Row.FormatValue()
		}

		// Fixed right columns: value (10) and tag (12).
		left := fmt.Sprintf("%s%s%s", indent, marker, label)
		leftWidth := m.width - 24
		if leftWidth < 8 {
			leftWidth = 8
		}
		line := fmt.Sprintf("%-*s %10s %12s",
			leftWidth, Truncate(left, leftWidth), value, Truncate(n.Row.DropdownTag, 12))
		line = Truncate(line, m.width)

		switch {
		case n.ID == focused:
			line = m.theme.Focused.Render(line)
		case selected[n.ID]:
			line = m.theme.Selected.Render(line)
		default:
			line = m.theme.Base.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m *TableModel) centered(msg string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}
