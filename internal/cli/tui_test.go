package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	symio "github.com/matzehuels/symtower/pkg/io"
)

func sampleReport() *symio.Report {
	return &symio.Report{
		Model: "pairs",
		Generators: [][][]string{
			{{"a", "b"}, {"c", "d"}},
			{{"e", "f"}},
		},
		Components: []symio.ComponentRecord{
			{Index: 0, Vars: []string{"a", "b", "c", "d"}, Generators: []int{0}, Blocked: true},
			{Index: 1, Vars: []string{"e", "f"}, Generators: []int{1}},
		},
		Constraints: []symio.ConstraintRecord{
			{Kind: "orbitope", Name: "orbitope_component0", Component: 0, Rows: [][]string{{"a", "b"}, {"c", "d"}}},
		},
	}
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestComponentListNavigation(t *testing.T) {
	var m tea.Model = NewComponentListModel(sampleReport())

	m = press(m, "down")
	if got := m.(ComponentListModel).Cursor; got != 1 {
		t.Errorf("Cursor after down = %d, want 1", got)
	}

	// Cursor stays on the last component
	m = press(m, "j")
	if got := m.(ComponentListModel).Cursor; got != 1 {
		t.Errorf("Cursor past end = %d, want 1", got)
	}

	m = press(m, "up")
	m = press(m, "k")
	if got := m.(ComponentListModel).Cursor; got != 0 {
		t.Errorf("Cursor after up = %d, want 0", got)
	}
}

func TestComponentListDetail(t *testing.T) {
	var m tea.Model = NewComponentListModel(sampleReport())

	m = press(m, "enter")
	if !m.(ComponentListModel).Expanded {
		t.Fatal("enter should expand the selected component")
	}

	view := m.View()
	for _, want := range []string{"Component 0 (blocked)", "(a b)(c d)", "orbitope_component0", "2 x 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	m = press(m, "esc")
	if m.(ComponentListModel).Expanded {
		t.Error("esc should collapse the detail view")
	}
}

func TestComponentListQuit(t *testing.T) {
	m := NewComponentListModel(sampleReport())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestComponentListView(t *testing.T) {
	view := NewComponentListModel(sampleReport()).View()

	for _, want := range []string{"Components of pairs", "[1/2]", "a b c d"} {
		if !strings.Contains(view, want) {
			t.Errorf("list view missing %q", want)
		}
	}
}

func TestComponentListEmpty(t *testing.T) {
	m := NewComponentListModel(&symio.Report{Model: "plain"})

	m2 := press(m, "enter")
	if m2.(ComponentListModel).Expanded {
		t.Error("enter should not expand without components")
	}
	if !strings.Contains(m.View(), "no components") {
		t.Error("empty view should say there are no components")
	}
}

func TestFormatCycles(t *testing.T) {
	if got := formatCycles([][]string{{"a", "b"}, {"c", "d", "e"}}); got != "(a b)(c d e)" {
		t.Errorf("formatCycles() = %q", got)
	}
}

func TestTruncateVars(t *testing.T) {
	tests := []struct {
		vars []string
		n    int
		want string
	}{
		{[]string{"a", "b"}, 3, "a b"},
		{[]string{"a", "b", "c", "d"}, 2, "a b … +2"},
	}
	for _, tt := range tests {
		if got := truncateVars(tt.vars, tt.n); got != tt.want {
			t.Errorf("truncateVars(%v, %d) = %q, want %q", tt.vars, tt.n, got, tt.want)
		}
	}
}
