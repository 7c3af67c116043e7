// Package nodelink renders computed layouts as node-link diagrams.
//
// # Overview
//
// The layout engine decides where nodes go; this package only draws them.
// [ToDOT] emits Graphviz DOT in which every node is pinned at its computed
// coordinates (pos="x,y!") and the graph is handed to the neato engine,
// which honours pinned positions instead of running its own layout.
//
// # Usage
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Scale: points per layout unit (default 36)
//   - NodeRadius: radius in points for nodes without a size (default 6)
//   - Labels: draw node labels next to the nodes
//
// Edge pen width follows the edge weight, clamped to a readable range.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
