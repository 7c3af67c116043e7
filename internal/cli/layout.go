package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a ForceAtlas2 layout for a graph",
		Long: `Compute a ForceAtlas2 layout for a graph.

The layout command reads a graph.json file and writes a layout.json file with
the final position of every node. The layout can be rendered to SVG or DOT
with 'render --layout'.

Results are cached locally for faster subsequent runs. Identical graphs and
options always produce identical layouts.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Layout
			flags.apply(cmd.Flags(), &opts)
			opts.Refresh = opts.Refresh || refresh

			runner, err := c.newRunner(cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runLayout(cmd.Context(), newUI(cmd.OutOrStdout()), runner, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached layout exists")
	flags.register(cmd.Flags())

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, u ui, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	opts.Logger = c.Logger
	opts.Options.Logger = c.Logger

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d nodes...", len(g.Nodes)))
	spin.Start()

	layout, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spin.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()
	prog.done("layout finished", "nodes", len(layout.Nodes), "iterations", layout.Iterations, "cached", cacheHit)

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	u.success("Layout complete")
	u.file(outputPath)
	u.summary(layoutSummary{
		Nodes:      len(layout.Nodes),
		Edges:      len(layout.Edges),
		Iterations: layout.Iterations,
		Speed:      layout.Speed,
		Cached:     cacheHit,
	})
	u.next("Render", appName+" render --layout "+outputPath)

	return nil
}
