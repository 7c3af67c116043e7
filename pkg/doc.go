// Package pkg provides the core libraries for forceatlas graph layouts.
//
// # Overview
//
// forceatlas places the nodes of a graph in the plane with ForceAtlas2, a
// continuous force-directed layout: connected nodes attract, all nodes repel,
// and gravity keeps components together. The pkg directory is organized
// into three areas:
//
//  1. [core/fa2] - The simulation engine
//  2. [graph] - Serialization types for graphs and layouts
//  3. [pipeline] - Orchestration (layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	graph.json
//	     ↓
//	[graph] package (validate, map identifiers to dense indices)
//	     ↓
//	[core/fa2] package (iterate forces, adapt speed)
//	     ↓
//	[render/nodelink] package (DOT with pinned positions, Graphviz SVG)
//	     ↓
//	JSON/DOT/SVG output
//
// # Quick Start
//
// Lay out a graph and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/forceatlas/pkg/graph"
//	    "github.com/matzehuels/forceatlas/pkg/pipeline"
//	)
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	opts := pipeline.DefaultOptions()
//	opts.BarnesHutOptimize = true
//	result, _ := runner.Execute(context.Background(), g, opts)
//	svg := result.Artifacts["svg"]
//
// Use [core/fa2] directly when the graph is already a dense index list:
//
//	in := fa2.Input{N: 3, Edges: []fa2.Edge{{U: 0, V: 1}, {U: 1, V: 2}}}
//	positions, err := fa2.Layout(ctx, in, fa2.DefaultOptions())
//
// # Main Packages
//
// [core/fa2] - Barnes-Hut quadtree, attraction, repulsion and gravity laws,
// the adaptive speed integrator and the iteration driver.
//
// [graph] - JSON node-link graphs with string identifiers, and layouts
// (positioned nodes plus the options that produced them).
//
// [render/nodelink] - Graphviz DOT emission with pinned node positions and
// SVG rendering through an embedded Graphviz.
//
// [pipeline] - Layout and render stages with content-addressed caching,
// shared by the CLI and the HTTP API.
//
// [cache] - File, Redis and null cache backends behind one interface.
//
// [config] - TOML and YAML configuration files.
//
// [api] - HTTP API (chi) for layout and render requests.
//
// [metrics] - Prometheus implementation of the [observability] hooks.
//
// [errors] - Structured error codes shared by every layer.
//
// [core/fa2]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/core/fa2
// [graph]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/api
// [metrics]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/forceatlas/pkg/errors
package pkg
