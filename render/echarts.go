package render

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/neuroglow/neuroglow/models"
)

// TopologySnapshot renders a built graph as an interactive go-echarts HTML
// page, useful for inspecting the structure the builder produced without
// running the animation.
type TopologySnapshot struct {
	graph *models.Graph
}

// NewTopologySnapshot wraps a graph for export.
func NewTopologySnapshot(g *models.Graph) *TopologySnapshot {
	return &TopologySnapshot{graph: g}
}

// RenderToFile writes the snapshot page. filename should not carry an
// extension; ".html" is appended.
func (t *TopologySnapshot) RenderToFile(filename string) error {
	f, err := os.Create(filename + ".html")
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Render(f)
}

// Render writes the snapshot page to w.
func (t *TopologySnapshot) Render(w io.Writer) error {
	nodes := make([]opts.GraphNode, 0, len(t.graph.Nodes))
	links := make([]opts.GraphLink, 0, t.graph.EdgeCount())

	for _, n := range t.graph.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       fmt.Sprintf("n%d", n.ID),
			X:          float32(n.X),
			Y:          float32(n.Y),
			SymbolSize: n.Radius * 3,
		})
		for _, e := range n.Edges {
			links = append(links, opts.GraphLink{
				Source: fmt.Sprintf("n%d", e.Source.ID),
				Target: fmt.Sprintf("n%d", e.Target.ID),
			})
		}
	}

	page := components.NewPage()
	page.AddCharts(topologyChart(nodes, links))
	return page.Render(w)
}

func topologyChart(nodes []opts.GraphNode, links []opts.GraphLink) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "neuroglow topology",
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"topology",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout: "none",
				Roam:   opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)
	return graph
}
