// Package graph provides serialization types for input graphs and layouts.
//
// This package defines the canonical wire format for forceatlas graph data,
// used for JSON files, API requests and responses, caching, and
// cross-tool interoperability.
//
// # Architecture
//
// The package sits at the boundary between external data and the layout
// engine:
//
//   - [Graph]: node-link input with opaque string identifiers
//   - [Layout]: positioned output, one entry per input node
//   - pkg/core/fa2.Input: the dense, index-based form the engine consumes
//
// Use [Graph.Input] to convert a graph into engine input and [NewLayout] to
// attach computed positions back to identifiers.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format. Every attribute except the
// node id and the edge endpoints is optional:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0.1, "y": 0.5, "size": 2},
//	    {"id": "b", "mass": 4}
//	  ],
//	  "edges": [{"from": "a", "to": "b", "weight": 2.5}]
//	}
//
// Edges are undirected for the layout; "from" is treated as the outbound
// endpoint when hub distribution is enabled.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")  // File → Graph
//	in, _ := g.Input()                         // Graph → engine input
//	layout := graph.NewLayout(g, positions)    // positions → Layout
//	graph.WriteLayoutFile(layout, "out.json")  // Layout → File
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
