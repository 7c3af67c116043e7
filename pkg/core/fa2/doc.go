// Package fa2 implements the ForceAtlas2 continuous force-directed layout.
//
// Connected nodes attract, every pair of nodes repels, and a gravity term
// keeps disconnected components from drifting away. Each iteration the
// engine accumulates the three forces into a per-node net force, then an
// adaptive integrator turns forces into bounded displacements.
//
// # Overview
//
// A layout is one call:
//
//	in := fa2.Input{
//	    N:     4,
//	    Edges: []fa2.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}, {U: 3, V: 0}},
//	}
//	opts := fa2.DefaultOptions()
//	opts.Iterations = 500
//	positions, err := fa2.Layout(ctx, in, opts)
//
// Use [New] and [Simulation.Run] directly to inspect the final speed, the
// last net forces, or the node masses.
//
// # Forces
//
//   - Repulsion between nodes i and j has magnitude kr·mi·mj/d, where kr is
//     ScalingRatio and the mass of a node defaults to 1 + degree.
//   - Attraction along an edge grows with d (or log(1+d) in LinLog mode) and
//     with weight^EdgeWeightInfluence. With OutboundAttractionDistribution it
//     is divided by the mass of the edge's source node ("dissuade hubs").
//   - Gravity pulls toward the origin with magnitude kg·m·d, or kg·m in strong
//     gravity mode.
//
// # Barnes-Hut
//
// With BarnesHutOptimize the nodes are inserted into a quadtree rebuilt every
// iteration. A region whose side length divided by its distance to a node is
// below BarnesHutTheta acts on that node as a single body at its centre of
// mass. Small theta is more exact; without the tree repulsion is computed
// over all pairs.
//
// # Speed
//
// Swinging (how much a node's force changed direction) and traction (how
// consistent it was) drive a global speed. Speed grows by at most
// 1+MaxSpeedRise per iteration and each node's step is damped by its own
// swinging, so oscillating nodes slow down while stable ones keep moving.
//
// # Best-effort modes
//
// PreventOverlapping switches repulsion and attraction to surface distances
// and clamps displacements near graph neighbours. It reduces overlaps but
// does not guarantee their absence. The per-node speed kept when
// OutboundAttractionDistribution is enabled is likewise a heuristic.
//
// # Concurrency
//
// Iterations are strictly sequential. With Multithread, repulsion and
// gravity for the nodes of one iteration run on an errgroup worker pool;
// each node writes only its own accumulator, so results match the
// sequential path exactly. Separate simulations share no state.
package fa2
