package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cloudydeno/module-visualizer/pkg/modmap"
	"github.com/cloudydeno/module-visualizer/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// InspectModel - Interactive module graph browser
// =============================================================================

// InspectModel is the bubbletea model of "modviz inspect". The list view
// shows every node; enter opens a node's detail view, where enter follows
// the selected dependency and esc goes back.
type InspectModel struct {
	Map    *modmap.Map
	Nodes  []*modmap.Node
	Cursor int
	Height int
	Offset int

	// Focus is the node shown in the detail view, nil in the list view.
	Focus    *modmap.Node
	DepIndex int
	history  []*modmap.Node
}

// NewInspectModel creates a browser over m.
func NewInspectModel(m *modmap.Map) InspectModel {
	return InspectModel{
		Map:    m,
		Nodes:  m.Nodes(),
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Focus != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m InspectModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.Nodes)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter":
		if len(m.Nodes) > 0 {
			m.Focus = m.Nodes[m.Cursor]
			m.DepIndex = 0
		}
	}
	return m, nil
}

func (m InspectModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	deps := m.Focus.DependsOn()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace", "left", "h":
		if n := len(m.history); n > 0 {
			m.Focus = m.history[n-1]
			m.history = m.history[:n-1]
		} else {
			m.Focus = nil
		}
		m.DepIndex = 0
	case "up", "k":
		if m.DepIndex > 0 {
			m.DepIndex--
		}
	case "down", "j":
		if m.DepIndex < len(deps)-1 {
			m.DepIndex++
		}
	case "enter", "right", "l":
		if m.DepIndex < len(deps) {
			if next := m.Map.Get(deps[m.DepIndex]); next != nil {
				m.history = append(m.history, m.Focus)
				m.Focus = next
				m.DepIndex = 0
			}
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	if m.Focus != nil {
		return m.detailView()
	}
	return m.listView()
}

func (m InspectModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Module Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.Key.String(),
			fmt.Sprint(n.FileCount()),
			render.HumanSize(n.TotalSize),
			fmt.Sprint(len(n.DependsOn())),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Files", "Size", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.Nodes[idx]
			switch {
			case n.IsError():
				return listErrorStyle
			case idx == m.Cursor:
				return listSelectedStyle
			case col >= 2:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d edges  %s total",
		m.Cursor+1, len(m.Nodes), m.Map.EdgeCount(), render.HumanSize(m.Map.TotalSize()))))

	return b.String()
}

func (m InspectModel) detailView() string {
	var b strings.Builder
	n := m.Focus

	b.WriteString(StyleTitle.Render(n.Key.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select dependency  ⏎ follow  esc back  q quit"))
	b.WriteString("\n\n")

	for _, line := range render.LabelLines(m.Map, n) {
		b.WriteString("  " + listNormalStyle.Render(line) + "\n")
	}
	if href := m.Map.Attrs(n).Href; href != "" {
		b.WriteString("  " + StyleLink.Render(href) + "\n")
	}
	for _, e := range n.Errors {
		b.WriteString("  " + listErrorStyle.Render(e) + "\n")
	}

	if len(n.Files) > 0 {
		b.WriteString("\n" + StyleHighlight.Render("Files") + "\n")
		for _, f := range n.Files {
			b.WriteString(fmt.Sprintf("  %s %s\n", listNormalStyle.Render(f.URL), listDimStyle.Render(render.HumanSize(f.Size))))
		}
	}

	deps := n.DependsOn()
	b.WriteString("\n" + StyleHighlight.Render(fmt.Sprintf("Dependencies (%d)", len(deps))) + "\n")
	for i, k := range deps {
		line := "  " + k.String()
		if i == m.DepIndex {
			line = listSelectedStyle.Render("▸ " + k.String())
		} else {
			line = listNormalStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}
