package graph

import (
	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/errors"
)

// Input validates g and converts it into the dense form the layout engine
// consumes. Node i of the result is g.Nodes[i].
//
// Initial positions are used only when every node has one; a graph where
// some nodes are placed and others are not is rejected. Sizes and masses
// may be given for a subset of nodes: missing sizes are 0 and missing
// masses default to 1 + degree.
func (g Graph) Input() (fa2.Input, error) {
	if err := g.Validate(); err != nil {
		return fa2.Input{}, err
	}

	idx := g.Index()
	in := fa2.Input{
		N:     len(g.Nodes),
		Edges: make([]fa2.Edge, len(g.Edges)),
	}

	weighted := false
	degree := make([]float64, len(g.Nodes))
	for k, e := range g.Edges {
		u, v := idx[e.From], idx[e.To]
		in.Edges[k] = fa2.Edge{U: u, V: v}
		degree[u]++
		degree[v]++
		if e.Weight != nil {
			weighted = true
		}
	}
	if weighted {
		in.Weights = make([]float64, len(g.Edges))
		for k := range g.Edges {
			in.Weights[k] = g.Edges[k].EffectiveWeight()
		}
	}

	placed, sized, weighed := 0, false, false
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.HasPosition() {
			placed++
		}
		sized = sized || n.Size != nil
		weighed = weighed || n.Mass != nil
	}

	switch placed {
	case 0:
	case len(g.Nodes):
		in.Positions = make([]fa2.Point, len(g.Nodes))
		for i, n := range g.Nodes {
			in.Positions[i] = fa2.Point{X: *n.X, Y: *n.Y}
		}
	default:
		return fa2.Input{}, errors.New(errors.ErrCodeInvalidGraph,
			"initial positions must be given for all nodes or none (%d of %d placed)", placed, len(g.Nodes))
	}

	if sized {
		in.Sizes = make([]float64, len(g.Nodes))
		for i, n := range g.Nodes {
			if n.Size != nil {
				in.Sizes[i] = *n.Size
			}
		}
	}

	if weighed {
		in.Masses = make([]float64, len(g.Nodes))
		for i, n := range g.Nodes {
			if n.Mass != nil {
				in.Masses[i] = *n.Mass
			} else {
				in.Masses[i] = 1 + degree[i]
			}
		}
	}

	return in, nil
}
