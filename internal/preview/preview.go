// Package preview renders a parsed patch for interactive review before it
// is applied. It is pure presentation: the engine's semantics live in
// pkg/patch and the preview only consumes an already parsed document.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tonyandrewmeyer/cascade/pkg/patch"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	footerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// Render produces the styled transcript of doc, one terminal line per patch
// line, markers included.
func Render(doc patch.Document, target string) string {
	var out strings.Builder
	if target != "" {
		out.WriteString(titleStyle.Render("Patch for "+target) + "\n")
	}
	if doc.OldLabel != "" {
		out.WriteString(labelStyle.Render("--- "+doc.OldLabel) + "\n")
	}
	if doc.NewLabel != "" {
		out.WriteString(labelStyle.Render("+++ "+doc.NewLabel) + "\n")
	}
	for _, hunk := range doc.Hunks {
		out.WriteString(headerStyle.Render(formatHunkHeader(hunk)) + "\n")
		for _, line := range hunk.Lines {
			switch line.Op {
			case patch.OpAdded:
				out.WriteString(addedStyle.Render("+"+line.Text) + "\n")
			case patch.OpRemoved:
				out.WriteString(removedStyle.Render("-"+line.Text) + "\n")
			default:
				out.WriteString(contextStyle.Render(" "+line.Text) + "\n")
			}
		}
	}
	return out.String()
}

func formatHunkHeader(hunk patch.Hunk) string {
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
	if hunk.Section != "" {
		header += " " + hunk.Section
	}
	return header
}

type model struct {
	content   string
	vp        viewport.Model
	width     int
	height    int
	ready     bool
	confirmed bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 1
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.vp = viewport.Model{Width: m.width, Height: vpHeight}
			m.vp.SetContent(m.content)
			m.ready = true
		} else {
			m.vp.Width = m.width
			m.vp.Height = vpHeight
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "enter":
			m.confirmed = true
			return m, tea.Quit
		case "n", "q", "esc", "ctrl+c":
			m.confirmed = false
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "loading patch..."
	}
	footer := footerStyle.Render("Apply this patch? [y]es / [n]o")
	return m.vp.View() + "\n" + footer
}

// Confirm shows the patch in an alt-screen viewport and blocks until the
// user accepts or declines it.
func Confirm(doc patch.Document, target string) (bool, error) {
	lipgloss.SetColorProfile(termenv.ColorProfile())
	program := tea.NewProgram(model{content: Render(doc, target)}, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	result, ok := final.(model)
	if !ok {
		return false, fmt.Errorf("unexpected preview model %T", final)
	}
	return result.confirmed, nil
}
