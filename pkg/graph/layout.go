package graph

import (
	"math"

	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/errors"
)

// =============================================================================
// Layout - Positioned Output
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Nodes keep the order of the input graph. Edges are carried along so a
// layout file is self-contained for rendering. Iterations, Speed and Options
// describe the run that produced the positions.
type Layout struct {
	Nodes []PlacedNode `json:"nodes"`
	Edges []Edge       `json:"edges,omitempty"`

	Iterations int          `json:"iterations"`
	Speed      float64      `json:"speed,omitempty"`
	Options    *fa2.Options `json:"options,omitempty"`
}

// PlacedNode is a node with its final coordinates.
type PlacedNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *PlacedNode) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// NewLayout pairs the nodes of g with positions indexed like g.Nodes.
func NewLayout(g Graph, positions []fa2.Point) Layout {
	l := Layout{
		Nodes: make([]PlacedNode, len(g.Nodes)),
		Edges: g.Edges,
	}
	for i, n := range g.Nodes {
		l.Nodes[i] = PlacedNode{
			ID:    n.ID,
			Label: n.Label,
			X:     positions[i].X,
			Y:     positions[i].Y,
		}
		if n.Size != nil {
			l.Nodes[i].Size = *n.Size
		}
	}
	return l
}

// Positions returns the layout as a node ID → position mapping.
func (l Layout) Positions() map[string]fa2.Point {
	out := make(map[string]fa2.Point, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = fa2.Point{X: n.X, Y: n.Y}
	}
	return out
}

// Bounds returns the smallest box containing every node disk.
// An empty layout has zero bounds.
func (l Layout) Bounds() (minX, minY, maxX, maxY float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX = math.Min(minX, n.X-n.Size)
		minY = math.Min(minY, n.Y-n.Size)
		maxX = math.Max(maxX, n.X+n.Size)
		maxY = math.Max(maxY, n.Y+n.Size)
	}
	return minX, minY, maxX, maxY
}

// Validate checks that node IDs are unique and coordinates are finite, and
// that every edge references a known node.
func (l Layout) Validate() error {
	seen := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "layout node")
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q has non-finite position", n.ID)
		}
	}
	for i, e := range l.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.To)
		}
	}
	return nil
}
