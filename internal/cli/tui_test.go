package cli

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colcontools/wsman/pkg/depgraph"
	"github.com/colcontools/wsman/pkg/selection"
)

func testModel(t *testing.T) workspaceModel {
	t.Helper()
	g := depgraph.Build(map[string][]string{
		"app":  {"lib"},
		"lib":  {"base"},
		"base": nil,
	})
	return newWorkspaceModel(g, selection.New(g))
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m workspaceModel, msgs ...tea.Msg) workspaceModel {
	t.Helper()
	for _, msg := range msgs {
		out, _ := m.Update(msg)
		m = out.(workspaceModel)
	}
	return m
}

func TestTUI_ToggleSelectsDependencies(t *testing.T) {
	m := testModel(t)
	// Cursor starts on "app" (sorted first); toggling selects its closure.
	m = update(t, m, key(" "))

	want := []string{"app", "base", "lib"}
	if got := m.ctrl.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected = %v, want %v", got, want)
	}
}

func TestTUI_SelectAllAndNone(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key("a"))
	if got := len(m.ctrl.Selected()); got != 3 {
		t.Errorf("after select-all: %d selected, want 3", got)
	}
	m = update(t, m, key("n"))
	if got := len(m.ctrl.Selected()); got != 0 {
		t.Errorf("after deselect-all: %d selected, want 0", got)
	}
}

func TestTUI_Filter(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key("/"), key("li"), tea.KeyMsg{Type: tea.KeyEnter})

	if !reflect.DeepEqual(m.visible, []string{"lib"}) {
		t.Errorf("visible = %v, want [lib]", m.visible)
	}

	// Esc clears the filter.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.visible) != 3 {
		t.Errorf("after clearing filter: visible = %v", m.visible)
	}
}

func TestTUI_GraphMode(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key("g"))

	if m.mode != modeGraph {
		t.Fatal("g did not enter graph mode")
	}
	if m.focus != "app" {
		t.Errorf("focus = %q, want app", m.focus)
	}

	view := m.View()
	if !strings.Contains(view, "layer 0") {
		t.Errorf("graph view missing layers:\n%s", view)
	}

	// Esc returns to the list.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList {
		t.Error("esc did not leave graph mode")
	}
}

func TestTUI_MoveFocus(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key("g"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.focus != "base" {
		t.Errorf("focus = %q, want base", m.focus)
	}
	// Focus clamps at the ends.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	if m.focus != "app" {
		t.Errorf("focus = %q, want app", m.focus)
	}
}

func TestTUI_CursorClamps(t *testing.T) {
	m := testModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	for range 10 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestTUI_ListViewShowsSelection(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key(" "))
	view := m.viewList()
	if !strings.Contains(view, "[x] app") {
		t.Errorf("list view missing checked app:\n%s", view)
	}
	if !strings.Contains(view, "3 selected of 3") {
		t.Errorf("list view missing selection count:\n%s", view)
	}
}
