package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/colcontools/wsman/pkg/depgraph"
	"github.com/colcontools/wsman/pkg/highlight"
	"github.com/colcontools/wsman/pkg/selection"
)

// TUI styles on top of the shared palette.
var (
	listCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listSelectedStyle = lipgloss.NewStyle().Foreground(colorBlue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	nodeFocusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	nodeIncomingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	nodeOutgoingStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// tuiCommand creates the interactive selection and graph browser command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactively select packages and browse the dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.workspaceRoot(cmd)
			if err != nil {
				return err
			}

			_, g, err := c.scanGraph(root)
			if err != nil {
				return err
			}

			cfg, cfgPath := c.loadConfig()
			ctrl := selection.New(g)
			ctrl.Restore(cfg.LastSelected)

			model := newWorkspaceModel(g, ctrl)
			out, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}

			final := out.(workspaceModel)
			cfg.WorkspacePath = root
			cfg.LastSelected = final.ctrl.Selected()
			c.saveConfig(cfg, cfgPath)

			if n := len(cfg.LastSelected); n > 0 {
				printInfo("%d package(s) selected; run `wsman build` to build them", n)
			}
			return nil
		},
	}
}

// viewMode is the active TUI screen.
type viewMode int

const (
	modeList viewMode = iota
	modeGraph
)

// workspaceModel is the bubbletea model for package selection and
// graph browsing.
type workspaceModel struct {
	graph *depgraph.Graph
	ctrl  *selection.Controller

	packages []string // full sorted package list
	visible  []string // packages matching the filter

	mode      viewMode
	cursor    int
	offset    int
	height    int
	filtering bool
	filter    string

	// Graph view state.
	layers [][]string
	focus  string
}

func newWorkspaceModel(g *depgraph.Graph, ctrl *selection.Controller) workspaceModel {
	packages := g.Packages()
	nodes := make(map[string]bool, len(packages))
	for _, id := range packages {
		nodes[id] = true
	}
	return workspaceModel{
		graph:    g,
		ctrl:     ctrl,
		packages: packages,
		visible:  packages,
		height:   15,
		layers:   g.TopologicalLayers(nodes),
	}
}

func (m workspaceModel) Init() tea.Cmd {
	return nil
}

func (m workspaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 7
		if m.height < 5 {
			m.height = 5
		}
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeGraph {
			return m.updateGraph(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m workspaceModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
		case "backspace":
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
				m.applyFilter()
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.filter += string(msg.Runes)
				m.applyFilter()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ":
		if pkg := m.current(); pkg != "" {
			m.ctrl.Toggle(pkg)
		}
	case "a":
		m.ctrl.SelectAll()
	case "n":
		m.ctrl.DeselectAll()
	case "/":
		m.filtering = true
		m.filter = ""
		m.applyFilter()
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
		}
	case "g", "enter":
		if pkg := m.current(); pkg != "" {
			m.focus = pkg
			m.mode = modeGraph
		}
	}
	return m, nil
}

func (m workspaceModel) updateGraph(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "g":
		m.mode = modeList
	case "left", "h":
		m.moveFocus(-1)
	case "right", "l", "down", "j":
		m.moveFocus(1)
	case "up", "k":
		m.moveFocus(-1)
	case " ":
		if m.focus != "" {
			m.ctrl.Toggle(m.focus)
		}
	}
	return m, nil
}

// moveCursor moves the list cursor, keeping it inside the scroll window.
func (m *workspaceModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.visible)-1 {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// moveFocus steps the graph focus through the sorted package list.
func (m *workspaceModel) moveFocus(delta int) {
	idx := 0
	for i, id := range m.packages {
		if id == m.focus {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.packages)-1 {
		idx = len(m.packages) - 1
	}
	m.focus = m.packages[idx]
}

func (m *workspaceModel) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter))
	if needle == "" {
		m.visible = m.packages
	} else {
		var visible []string
		for _, id := range m.packages {
			if strings.Contains(strings.ToLower(id), needle) {
				visible = append(visible, id)
			}
		}
		m.visible = visible
	}
	m.cursor = 0
	m.offset = 0
}

func (m workspaceModel) current() string {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return ""
	}
	return m.visible[m.cursor]
}

func (m workspaceModel) View() string {
	if m.mode == modeGraph {
		return m.viewGraph()
	}
	return m.viewList()
}

func (m workspaceModel) viewList() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Packages"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d selected of %d", len(m.ctrl.Selected()), len(m.packages))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ␣ toggle  a all  n none  / filter  g graph  q quit"))
	b.WriteString("\n")
	if m.filtering || m.filter != "" {
		b.WriteString(listDimStyle.Render("filter: ") + listNormalStyle.Render(m.filter))
	}
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		id := m.visible[i]

		cursor := "  "
		if i == m.cursor {
			cursor = listCursorStyle.Render("▸ ")
		}
		check := "[ ]"
		style := listNormalStyle
		if m.ctrl.IsSelected(id) {
			check = "[x]"
			style = listSelectedStyle
		}

		deps := listDimStyle.Render(fmt.Sprintf("  %d deps, %d dependents",
			len(m.graph.Dependencies(id)), len(m.graph.Dependents(id))))
		b.WriteString(cursor + style.Render(check+" "+id) + deps + "\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no packages match the filter\n"))
	}

	return b.String()
}

// viewGraph renders the layer assignment with the focused package and
// its direct neighbors highlighted.
func (m workspaceModel) viewGraph() string {
	nodes := make(map[string]bool, len(m.packages))
	for _, id := range m.packages {
		nodes[id] = true
	}
	tags := highlight.Classify(m.focus, nodes, m.graph.InducedEdges(nodes))

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Dependency graph"))
	b.WriteString("  ")
	b.WriteString(nodeFocusedStyle.Render(m.focus))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ move focus  ␣ toggle  esc back  q quit"))
	b.WriteString("\n\n")

	for i, layer := range m.layers {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("layer %d  ", i)))
		for j, id := range layer {
			if j > 0 {
				b.WriteString(listDimStyle.Render("  "))
			}
			b.WriteString(m.renderNode(id, tags[id]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(nodeIncomingStyle.Render("● depends on "+m.focus) + "   " +
		nodeOutgoingStyle.Render("● "+m.focus+" depends on it"))
	b.WriteString("\n")
	return b.String()
}

func (m workspaceModel) renderNode(id string, tag highlight.Tag) string {
	label := id
	if m.ctrl.IsSelected(id) {
		label = "✔" + id
	}
	switch tag {
	case highlight.TagFocused:
		return nodeFocusedStyle.Render("[" + label + "]")
	case highlight.TagIncoming:
		return nodeIncomingStyle.Render(label)
	case highlight.TagOutgoing:
		return nodeOutgoingStyle.Render(label)
	default:
		if m.ctrl.IsSelected(id) {
			return listSelectedStyle.Render(label)
		}
		return listNormalStyle.Render(label)
	}
}
