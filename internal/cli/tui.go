package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	symio "github.com/matzehuels/symtower/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// maxListedVars caps the variables shown per component in the list view.
const maxListedVars = 6

// =============================================================================
// ComponentListModel - Interactive component browser
// =============================================================================

// ComponentListModel is the bubbletea model for browsing the components
// of a symmetry report. Enter toggles the detail view of the selected
// component.
type ComponentListModel struct {
	Report   *symio.Report
	Cursor   int
	Height   int
	Offset   int
	Expanded bool

	// constraints groups constraint records by component.
	constraints map[int][]symio.ConstraintRecord
}

// NewComponentListModel creates a new component browser for r.
func NewComponentListModel(r *symio.Report) ComponentListModel {
	conss := make(map[int][]symio.ConstraintRecord)
	for _, c := range r.Constraints {
		conss[c.Component] = append(conss[c.Component], c)
	}
	return ComponentListModel{
		Report:      r,
		Height:      15,
		constraints: conss,
	}
}

func (m ComponentListModel) Init() tea.Cmd {
	return nil
}

func (m ComponentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Expanded {
				m.Expanded = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Report.Components)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.Report.Components) > 0 {
				m.Expanded = !m.Expanded
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ComponentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Components of " + m.Report.Model))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Report.Components) == 0 {
		b.WriteString(listDimStyle.Render("  no components"))
		b.WriteString("\n")
		return b.String()
	}

	if m.Expanded {
		b.WriteString(m.detailView(m.Report.Components[m.Cursor]))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Report.Components))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Report.Components[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		blocked := ""
		if c.Blocked {
			blocked = "✓"
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(c.Index),
			fmt.Sprint(len(c.Vars)),
			fmt.Sprint(len(c.Generators)),
			blocked,
			fmt.Sprint(len(m.constraints[c.Index])),
			truncateVars(c.Vars, maxListedVars),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Vars", "Gens", "Blocked", "Conss", "Variables").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Report.Components) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 6 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				if col != 6 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			if m.Report.Components[idx].Blocked && col != 6 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Report.Components))))

	return b.String()
}

// detailView shows the variables, generators and constraints of c.
func (m ComponentListModel) detailView(c symio.ComponentRecord) string {
	var b strings.Builder

	title := fmt.Sprintf("Component %d", c.Index)
	if c.Blocked {
		title += " (blocked)"
	}
	b.WriteString(listSelectedStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(listDimStyle.Render("variables"))
	b.WriteString("\n  ")
	b.WriteString(listNormalStyle.Render(strings.Join(c.Vars, " ")))
	b.WriteString("\n\n")

	b.WriteString(listDimStyle.Render("generators"))
	b.WriteString("\n")
	for _, p := range c.Generators {
		if p >= len(m.Report.Generators) {
			continue
		}
		b.WriteString(fmt.Sprintf("  g%-4d %s\n", p, listNormalStyle.Render(formatCycles(m.Report.Generators[p]))))
	}

	if conss := m.constraints[c.Index]; len(conss) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("constraints"))
		b.WriteString("\n")
		for _, cons := range conss {
			line := fmt.Sprintf("  %-10s %-28s %s", cons.Kind, cons.Name, describeConstraint(cons))
			b.WriteString(listNormalStyle.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back"))
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatCycles writes a permutation in cycle notation, e.g. "(a b)(c d)".
func formatCycles(cycles [][]string) string {
	var b strings.Builder
	for _, c := range cycles {
		b.WriteString("(")
		b.WriteString(strings.Join(c, " "))
		b.WriteString(")")
	}
	return b.String()
}

// truncateVars joins at most n names and notes how many were left out.
func truncateVars(vars []string, n int) string {
	if len(vars) <= n {
		return strings.Join(vars, " ")
	}
	return fmt.Sprintf("%s … +%d", strings.Join(vars[:n], " "), len(vars)-n)
}
