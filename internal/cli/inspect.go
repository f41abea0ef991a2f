package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coarsen/pkg/contract"
	"github.com/matzehuels/coarsen/pkg/graph"
)

const (
	defaultInspectLevels = 3
	maxListedMembers     = 6
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		levels  int
		plain   bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the contraction hierarchy level by level",
		Long: `Contract a graph for the given number of levels and browse the clusters
of every level in an interactive table. With --plain the tables are printed
instead, which also works when stdout is not a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Hierarchy(ctx, g, levels, refresh)
			if err != nil {
				return err
			}

			m := newHierarchyModel(g, res.Mapping.Levels)
			if plain {
				for lvl := range m.levels {
					fmt.Println(m.header(lvl))
					fmt.Println(m.table(lvl, 0, len(m.levels[lvl].rows), -1).Render())
				}
				return nil
			}
			return runInspector(ctx, m)
		},
	}

	cmd.Flags().IntVarP(&levels, "levels", "l", defaultInspectLevels, "number of contraction rounds to compute")
	cmd.Flags().BoolVar(&plain, "plain", false, "print every level instead of starting the browser")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func runInspector(ctx context.Context, m hierarchyModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// hierarchyModel - Interactive level browser
// =============================================================================

// clusterRow summarizes one quotient node.
type clusterRow struct {
	cluster int
	size    int
	degree  int
	weight  float64 // total weight of edges leaving the cluster
	members string
}

// levelView holds the precomputed rows of one level.
type levelView struct {
	clusters   int
	edges      int
	modularity float64 // NaN when undefined
	rows       []clusterRow
}

// hierarchyModel is the bubbletea model for `coarsen inspect`.
// Left and right switch levels; up and down move through the clusters.
type hierarchyModel struct {
	levels []levelView
	nodes  int
	level  int
	cursor int
	offset int
	height int
}

func newHierarchyModel(g *graph.Graph, levels [][]int) hierarchyModel {
	m := hierarchyModel{nodes: g.NodeCount(), height: 15}
	for _, mapping := range levels {
		m.levels = append(m.levels, buildLevel(g, mapping))
	}
	return m
}

func buildLevel(g *graph.Graph, mapping []int) levelView {
	q, err := g.Quotient(mapping)
	if err != nil {
		// Hierarchy levels are dense by construction.
		return levelView{}
	}

	weights := make([]float64, q.NodeCount())
	for _, e := range q.Edges() {
		weights[e.A] += e.Weight
		weights[e.B] += e.Weight
	}

	groups := contract.Groups(mapping)
	rows := make([]clusterRow, q.NodeCount())
	for c := range rows {
		rows[c] = clusterRow{
			cluster: c,
			size:    q.Size(c),
			degree:  q.Degree(c),
			weight:  weights[c],
			members: formatMembers(g, groups[c]),
		}
	}
	modularity, err := g.Modularity(mapping)
	if err != nil {
		modularity = math.NaN()
	}
	return levelView{clusters: q.NodeCount(), edges: q.EdgeCount(), modularity: modularity, rows: rows}
}

// formatMembers lists the first members of a cluster by label or index.
func formatMembers(g *graph.Graph, members []int) string {
	names := make([]string, 0, min(len(members), maxListedMembers))
	for _, v := range members[:min(len(members), maxListedMembers)] {
		if label := g.Label(v); label != "" {
			names = append(names, label)
		} else {
			names = append(names, strconv.Itoa(v))
		}
	}
	s := strings.Join(names, ", ")
	if extra := len(members) - maxListedMembers; extra > 0 {
		s += fmt.Sprintf(", … +%d", extra)
	}
	return s
}

func (m hierarchyModel) Init() tea.Cmd {
	return nil
}

func (m hierarchyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.level > 0 {
				m.level--
				m.cursor, m.offset = 0, 0
			}
		case "right", "l":
			if m.level < len(m.levels)-1 {
				m.level++
				m.cursor, m.offset = 0, 0
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.current().rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m hierarchyModel) current() levelView {
	if len(m.levels) == 0 {
		return levelView{}
	}
	return m.levels[m.level]
}

func (m hierarchyModel) header(level int) string {
	lv := m.levels[level]
	ratio := 0.0
	if lv.clusters > 0 {
		ratio = float64(m.nodes) / float64(lv.clusters)
	}
	summary := fmt.Sprintf("%d clusters · %d edges · %.1fx", lv.clusters, lv.edges, ratio)
	if !math.IsNaN(lv.modularity) {
		summary += fmt.Sprintf(" · Q=%.3f", lv.modularity)
	}
	return StyleTitle.Render(fmt.Sprintf("Level %d/%d", level, len(m.levels)-1)) + "  " + StyleDim.Render(summary)
}

func (m hierarchyModel) View() string {
	if len(m.levels) == 0 {
		return StyleDim.Render("empty hierarchy") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.header(m.level))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ level  ↑/↓ cluster  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.current().rows))
	b.WriteString(m.table(m.level, m.offset, end, m.cursor).Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.current().rows))))
	return b.String()
}

// table renders rows [from, to) of level; the row at cursor is highlighted.
func (m hierarchyModel) table(level, from, to, cursor int) *table.Table {
	rows := m.levels[level].rows
	data := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		r := rows[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		data = append(data, []string{
			marker,
			fmt.Sprintf("c%d", r.cluster),
			strconv.Itoa(r.size),
			strconv.Itoa(r.degree),
			strconv.FormatFloat(r.weight, 'g', 4, 64),
			r.members,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Cluster", "Size", "Degree", "Weight", "Members").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case from+row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})
}
