package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.editor.Schema().Name))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch m.mode {
	case modeSort:
		m.viewSort(&b)
	case modeConfirmClear:
		m.viewConfirm(&b)
	default:
		m.viewResults(&b)
	}

	m.viewRefs(&b)

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("! " + m.notice))
		b.WriteString(faintStyle.Render("  (esc to dismiss)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewResults(b *strings.Builder) {
	if m.searching() {
		b.WriteString(faintStyle.Render("searching…"))
		b.WriteString("\n")
		return
	}
	if len(m.results) == 0 {
		if strings.TrimSpace(m.input.Value()) != "" {
			b.WriteString(faintStyle.Render("no matches"))
			b.WriteString("\n")
		}
		return
	}
	for i, r := range m.results {
		line := fmt.Sprintf("  %s", r.Title)
		if i == m.cursor {
			line = cursorStyle.Render(fmt.Sprintf("▸ %s", r.Title))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) viewSort(b *strings.Builder) {
	b.WriteString(titleStyle.Render("sort by"))
	b.WriteString("\n")
	if len(m.sortFields) == 0 {
		b.WriteString(faintStyle.Render("loading fields…"))
		b.WriteString("\n")
		return
	}
	for i, field := range m.sortFields {
		line := fmt.Sprintf("  %s", field)
		if i == m.sortCursor {
			line = cursorStyle.Render(fmt.Sprintf("▸ %s", field))
		}
		if state, ok := m.editor.SortState(); ok && state.Field == field {
			if state.Ascending {
				line += faintStyle.Render(" ↑")
			} else {
				line += faintStyle.Render(" ↓")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) viewConfirm(b *strings.Builder) {
	b.WriteString(dangerStyle.Render(fmt.Sprintf("remove all %d references? (y/n)", m.editor.Len())))
	b.WriteString("\n")
}

func (m *Model) viewRefs(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("references (%d)", len(m.refs))))
	b.WriteString("\n")
	if len(m.refs) == 0 {
		b.WriteString(faintStyle.Render("  none"))
		b.WriteString("\n")
		return
	}
	for _, row := range m.refs {
		b.WriteString(fmt.Sprintf("  %s %s\n", row.Label, faintStyle.Render(row.ID)))
	}
}

func (m *Model) helpLine() string {
	switch m.mode {
	case modeSort:
		return "↑/↓ select · enter sort (press again to reverse) · esc back"
	case modeConfirmClear:
		return "y confirm · n cancel"
	default:
		return "type to search · ↑/↓ select · enter add · ctrl+a add all · ctrl+s sort · ctrl+x clear · esc/ctrl+c quit"
	}
}
