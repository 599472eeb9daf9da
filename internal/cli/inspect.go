package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// inspectCommand creates the inspect command, an interactive browser of a
// computed layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain   bool
		noCache bool
		config  configFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect <diagram>",
		Short: "Browse the layers and positions of a layout",
		Long: `Browse the layers and positions of a layout.

Nodes are listed layer by layer with their role, lane and coordinates.
Use --plain to print the table without the interactive view.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: diagramArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], cfg, plain, noCache)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table instead of the interactive view")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	config.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, cfg layout.Config, plain, noCache bool) error {
	d, err := flow.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Layout(ctx, d, pipeline.Options{Config: cfg, Logger: c.Logger})
	if err != nil {
		return err
	}

	model := NewLayoutModel(res, d)
	if plain {
		c.out.keyValue("nodes", fmt.Sprint(res.Stats.Nodes))
		c.out.keyValue("layers", fmt.Sprint(res.Stats.Layers))
		c.out.keyValue("crossings", fmt.Sprintf("%d → %d", res.Stats.CrossingsBefore, res.Stats.CrossingsAfter))
		c.out.keyValue("loop-backs", fmt.Sprint(res.Stats.LoopBacks))
		c.out.keyValue("canvas", fmt.Sprintf("%.0f × %.0f", res.Canvas.Width, res.Canvas.Height))
		c.out.newline()
		c.out.println(model.table(0, len(model.Rows)).Render())
		return nil
	}

	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// LayoutModel - Interactive layer browser
// =============================================================================

// NodeRow is one line of the browser.
type NodeRow struct {
	ID   string
	Text string
	Lane string
	Pos  layout.Position
}

// LayoutModel is the bubbletea model for browsing a layout.
type LayoutModel struct {
	Result  *layout.Result
	Rows    []NodeRow
	Cursor  int
	Offset  int
	Height  int
	Details bool
}

// NewLayoutModel creates a model listing the nodes of res ordered by layer
// then x. d supplies node text and lanes.
func NewLayoutModel(res *layout.Result, d flow.Diagram) LayoutModel {
	elements := make(map[string]flow.Element, len(d.Flow))
	for _, el := range d.Flow {
		elements[el.ID] = el
	}

	rows := make([]NodeRow, 0, len(res.Positions))
	for id, p := range res.Positions {
		el := elements[id]
		rows = append(rows, NodeRow{ID: id, Text: el.Text, Lane: el.Swimlane, Pos: p})
	}
	slices.SortFunc(rows, func(a, b NodeRow) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Layer, b.Pos.Layer),
			cmp.Compare(a.Pos.X, b.Pos.X),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return LayoutModel{Result: res, Rows: rows, Height: 15}
}

func (m LayoutModel) Init() tea.Cmd {
	return nil
}

func (m LayoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(m.Cursor - 1)
		case "down", "j":
			m.move(m.Cursor + 1)
		case "left", "h":
			m.move(m.layerStart(m.currentLayer() - 1))
		case "right", "l":
			m.move(m.layerStart(m.currentLayer() + 1))
		case "enter":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.move(m.Cursor)
	}
	return m, nil
}

// move places the cursor at i, clamped, and scrolls it into view.
func (m *LayoutModel) move(i int) {
	if len(m.Rows) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Rows)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m LayoutModel) currentLayer() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return m.Rows[m.Cursor].Pos.Layer
}

// layerStart returns the first row of layer, or the cursor when the layer
// does not exist.
func (m LayoutModel) layerStart(layer int) int {
	for i, r := range m.Rows {
		if r.Pos.Layer == layer {
			return i
		}
	}
	return m.Cursor
}

func (m LayoutModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d layers · %d crossings · %d loop-backs",
		m.Result.Stats.Layers, m.Result.Stats.CrossingsAfter, m.Result.Stats.LoopBacks)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ node  ←/→ layer  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(StyleWarning.Render("no nodes"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(m.table(m.Offset, end).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	if m.Details {
		b.WriteString("\n\n")
		b.WriteString(m.details(m.Rows[m.Cursor]))
	}
	return b.String()
}

// table renders rows [from, to) as a lipgloss table.
func (m LayoutModel) table(from, to int) *table.Table {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		lane := r.Lane
		if lane == "" {
			lane = "—"
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(r.Pos.Layer),
			r.ID,
			r.Pos.Role,
			lane,
			fmt.Sprintf("%d,%d", r.Pos.X, r.Pos.Y),
			fmt.Sprintf("%d×%d", r.Pos.Width, r.Pos.Height),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Node", "Role", "Lane", "X,Y", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if from+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 1 || col == 5 || col == 6 {
				return StyleNumber
			}
			return StyleValue
		})
}

func (m LayoutModel) details(r NodeRow) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-10s", k)))
		b.WriteString(StyleHighlight.Render(v))
		b.WriteString("\n")
	}
	line("id", r.ID)
	if r.Text != "" {
		line("text", r.Text)
	}
	line("cell", fmt.Sprintf("column %d, row %d", r.Pos.Column, r.Pos.Row))

	var out []string
	for _, e := range m.Result.Edges {
		if e.From != r.ID {
			continue
		}
		s := e.To
		if e.Label != "" {
			s += " [" + e.Label + "]"
		}
		if e.LoopBack {
			s += " ↺"
		}
		out = append(out, s)
	}
	if len(out) > 0 {
		line("next", strings.Join(out, ", "))
	}
	return b.String()
}
