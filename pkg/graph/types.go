package graph

import (
	"math"

	"github.com/matzehuels/forceatlas/pkg/errors"
)

// =============================================================================
// Graph - Input Serialization
// =============================================================================

// Graph is the canonical serialization format for layout input.
// Node order is significant: it defines the dense index each node receives
// in the engine and therefore the outcome of the seeded initial scatter.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one vertex of an input graph. Optional numeric attributes are
// pointers so that an explicit zero can be told apart from "not given".
type Node struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"` // Display label (defaults to ID)
	X     *float64       `json:"x,omitempty"`     // Initial position
	Y     *float64       `json:"y,omitempty"`
	Size  *float64       `json:"size,omitempty"` // Radius for overlap prevention
	Mass  *float64       `json:"mass,omitempty"` // Overrides 1 + degree
	Meta  map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasPosition reports whether both coordinates are given.
func (n *Node) HasPosition() bool { return n.X != nil && n.Y != nil }

// Edge connects two nodes by ID. Weight defaults to 1.
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
}

// EffectiveWeight returns the edge weight, or 1 when none is given.
func (e *Edge) EffectiveWeight() float64 {
	if e.Weight == nil {
		return 1
	}
	return *e.Weight
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks identifiers and edge references. It does not check the
// numeric constraints the engine enforces itself (mass >= 1, size >= 0).
func (g Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
		if (n.X == nil) != (n.Y == nil) {
			return errors.New(errors.ErrCodeInvalidGraph, "node %q: x and y must be given together", n.ID)
		}
	}
	for i, e := range g.Edges {
		if _, ok := seen[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.From)
		}
		if _, ok := seen[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d: unknown node %q", i, e.To)
		}
		if w := e.EffectiveWeight(); !(w >= 0) || math.IsInf(w, 0) {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d (%s -> %s): weight must be finite and >= 0, got %v", i, e.From, e.To, w)
		}
	}
	return nil
}

// Index maps node IDs to their dense position in g.Nodes.
func (g Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}
