package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forceatlas/pkg/graph"
)

// Defaults for [Options].
const (
	DefaultScale      = 36.0
	DefaultNodeRadius = 6.0

	minPenWidth = 0.5
	maxPenWidth = 5.0
)

// Options configures node-link diagram rendering.
type Options struct {
	// Scale converts layout units to points.
	Scale float64

	// NodeRadius is used for nodes whose size is zero, in points.
	NodeRadius float64

	// Labels draws each node's display label beside it.
	Labels bool
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	return o
}

// ToDOT converts a layout to Graphviz DOT with every node pinned.
// The resulting DOT string can be rendered using [RenderSVG] or saved and
// processed with "neato -n2" by external Graphviz tools.
func ToDOT(l graph.Layout, opts Options) string {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, fillcolor=\"#4c6ef5\", color=\"#364fc7\", label=\"\", fontsize=10];\n")
	buf.WriteString("  edge [color=\"#adb5bd\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(n, opts))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if w := e.EffectiveWeight(); w != 1 {
			fmt.Fprintf(&buf, "  %q -- %q [penwidth=%s];\n", e.From, e.To, num(penWidth(w)))
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.PlacedNode, opts Options) string {
	radius := opts.NodeRadius
	if n.Size > 0 {
		radius = n.Size * opts.Scale
	}
	attrs := fmt.Sprintf("pos=\"%s,%s!\", width=%s",
		num(n.X*opts.Scale), num(n.Y*opts.Scale), num(2*radius/72))
	if opts.Labels {
		attrs += fmt.Sprintf(", xlabel=%q", n.DisplayLabel())
	}
	return attrs
}

func penWidth(w float64) float64 {
	return math.Max(minPenWidth, math.Min(maxPenWidth, w))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using the neato engine so that
// pinned positions are kept.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed pt-sized svg header with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAllLiteral(svg, []byte(newSvg))
}
