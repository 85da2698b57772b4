package cmd

import (
	"github.com/spf13/cobra"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/render"
	"github.com/neuroglow/neuroglow/topology"
)

func topoCmd() *cobra.Command {
	var (
		out  string
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "topo",
		Short: "Build one topology and export it as an interactive HTML graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, overrides, err := setup()
			if err != nil {
				return fail(err)
			}

			cfg := config.ForTheme(theme, config.DetectProfile(widthFlag)).Apply(overrides)
			if err := cfg.Validate(); err != nil {
				return fail(err)
			}

			var builder *topology.Builder
			if seed != 0 {
				builder = topology.NewSeededBuilder(cfg, seed)
			} else {
				builder = topology.NewBuilder(cfg)
			}
			g := builder.Build(float64(widthFlag), float64(heightFlag))

			if err := render.NewTopologySnapshot(g).RenderToFile(out); err != nil {
				return fail(err)
			}

			okf("wrote %s.html", out)
			notef("%d nodes, %d edges, %d branches", len(g.Nodes), g.EdgeCount(), g.BranchCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "topology", "output file name (without extension)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "topology seed (0 = random)")
	return cmd
}
