package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		fromLayout bool
		noCache    bool
		refresh    bool
		labels     bool
		scale      float64
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json | layout.json]",
		Short: "Render a graph or layout to SVG, DOT or JSON",
		Long: `Render a graph or layout to SVG, DOT or JSON.

By default the input is a graph.json file which is laid out first (using the
cache when possible). With --layout the input is a layout.json produced by
'layout' and is rendered as is.

SVG output is produced by Graphviz with every node pinned at its computed
position.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Layout
			flags.apply(cmd.Flags(), &opts)
			if formats := parseFormats(formatsStr); len(formats) > 0 {
				opts.Formats = formats
			}
			if cmd.Flags().Changed("labels") {
				opts.Labels = labels
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			opts.Refresh = opts.Refresh || refresh

			runner, err := c.newRunner(cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), newUI(cmd.OutOrStdout()), runner, args[0], output, fromLayout, opts)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&fromLayout, "layout", false, "treat the input as a layout.json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached layouts and artifacts")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw node labels")
	cmd.Flags().Float64Var(&scale, "scale", 0, "points per layout unit (default 36)")
	flags.register(cmd.Flags())
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender produces and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, u ui, runner *pipeline.Runner, input, output string, fromLayout bool, opts pipeline.Options) error {
	opts.Logger = c.Logger
	opts.Options.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var (
		artifacts map[string][]byte
		summary   layoutSummary
	)

	spin := newSpinnerWithContext(ctx, "Rendering...")
	spin.Start()

	if fromLayout {
		layout, err := graph.ReadLayoutFile(input)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		if err := layout.Validate(); err != nil {
			spin.Stop()
			return err
		}
		summary = layoutSummary{
			Nodes:      len(layout.Nodes),
			Edges:      len(layout.Edges),
			Iterations: layout.Iterations,
			Speed:      layout.Speed,
		}
		artifacts, summary.Cached, err = runner.RenderWithCacheInfo(ctx, layout, opts)
		if err != nil {
			spin.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
	} else {
		g, err := graph.ReadGraphFile(input)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("load graph %s: %w", input, err)
		}
		result, err := runner.Execute(ctx, g, opts)
		if err != nil {
			spin.StopWithError("Render failed")
			return err
		}
		artifacts = result.Artifacts
		summary = layoutSummary{
			Nodes:      result.Stats.NodeCount,
			Edges:      result.Stats.EdgeCount,
			Iterations: result.Stats.Iterations,
			Speed:      result.Layout.Speed,
			Cached:     result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		}
	}
	spin.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	u.success("Render complete")
	for _, p := range paths {
		u.file(p)
	}
	u.summary(summary)
	return nil
}

// writeArtifacts writes one file per format. A single format is written to
// output as given; several formats share the base path with their extension.
// JSON layouts use a .layout.json suffix so they never replace the input graph.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		var path string
		switch {
		case len(formats) == 1 && output != "":
			path = output
		case format == pipeline.FormatJSON:
			path = basePath(output, input) + ".layout.json"
		default:
			path = basePath(output, input) + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
