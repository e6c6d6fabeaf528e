package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lodgrid/pkg/pipeline"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// =============================================================================
// LayerBrowser - Interactive band and tile browser
// =============================================================================

// bandSummary is one row of the band list.
type bandSummary struct {
	Index       int
	Layer       string
	Threshold   float64
	Tiles       int
	Renderables int
	Painted     int
}

// LayerBrowser is the bubbletea model behind lodgrid inspect. The first
// screen lists the LOD bands; enter opens the tiles of the selected band.
type LayerBrowser struct {
	Map    pipeline.Map
	Bands  []bandSummary
	Cursor int
	Height int

	// Open is true while the tile list of Bands[Cursor] is shown.
	Open   bool
	Offset int
}

// NewLayerBrowser summarizes the bands of m.
func NewLayerBrowser(m pipeline.Map) LayerBrowser {
	return LayerBrowser{Map: m, Bands: summarizeBands(m), Height: 15}
}

func summarizeBands(m pipeline.Map) []bandSummary {
	out := make([]bandSummary, len(m.LODs))
	for i, e := range m.LODs {
		s := bandSummary{Index: i, Threshold: e.Threshold, Renderables: len(e.Renderables)}
		if e.Layer != nil {
			s.Layer = e.Layer.Name
			s.Tiles = e.Layer.ChildCount()
			for _, child := range e.Layer.Children() {
				if _, ok := child.Color(); ok {
					s.Painted++
				}
			}
		}
		out[i] = s
	}
	return out
}

func (m LayerBrowser) Init() tea.Cmd {
	return nil
}

func (m LayerBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if !m.Open {
				return m, tea.Quit
			}
			m.Open = false
			m.Offset = 0
		case "enter":
			if len(m.Bands) > 0 {
				m.Open = true
				m.Offset = 0
			}
		case "up", "k":
			if m.Open {
				m.scroll(-1)
			} else if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Open {
				m.scroll(1)
			} else if m.Cursor < len(m.Bands)-1 {
				m.Cursor++
			}
		case "pgup":
			m.scroll(-m.Height)
		case "pgdown":
			m.scroll(m.Height)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *LayerBrowser) scroll(delta int) {
	if !m.Open {
		return
	}
	last := m.tileCount() - m.Height
	m.Offset = max(0, min(m.Offset+delta, last))
}

func (m LayerBrowser) tileCount() int {
	if m.Cursor >= len(m.Map.LODs) || m.Map.LODs[m.Cursor].Layer == nil {
		return 0
	}
	return m.Map.LODs[m.Cursor].Layer.ChildCount()
}

func (m LayerBrowser) View() string {
	if m.Open {
		return m.tilesView()
	}
	return m.bandsView()
}

func (m LayerBrowser) bandsView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("LOD Bands"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ tiles  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Bands))
	for i, s := range m.Bands {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{
			cursor,
			strconv.Itoa(s.Index),
			s.Layer,
			strconv.FormatFloat(s.Threshold, 'g', 4, 64),
			strconv.Itoa(s.Tiles),
			strconv.Itoa(s.Renderables),
			strconv.Itoa(s.Painted),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "Band", "Layer", "Threshold", "Tiles", "Renderables", "Painted").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorValue)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d tiles in %d layers", m.Map.Cells(), len(m.Map.Layers))))

	return b.String()
}

func (m LayerBrowser) tilesView() string {
	var b strings.Builder

	band := m.Bands[m.Cursor]
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Band %d · %s", band.Index, band.Layer)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  pgup/pgdn page  esc back  q quit"))
	b.WriteString("\n\n")

	var children []*scene.Node
	if layer := m.Map.LODs[m.Cursor].Layer; layer != nil {
		children = layer.Children()
	}
	end := min(m.Offset+m.Height, len(children))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		rows = append(rows, tileRow(i, children[i]))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("#", "Name", "Position", "Scale", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(rows) {
				if c, ok := children[m.Offset+row].Color(); ok {
					return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
				}
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(children))))

	return b.String()
}

func tileRow(i int, n *scene.Node) []string {
	color := "—"
	if c, ok := n.Color(); ok {
		color = c.Hex()
	}
	return []string{
		strconv.Itoa(i),
		n.Name,
		fmt.Sprintf("%.3f, %.3f", n.Position.X, n.Position.Z),
		fmt.Sprintf("%.3f × %.3f", n.Scale.X, n.Scale.Z),
		color,
	}
}
