package fa2

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forceatlas/pkg/errors"
)

// Point is a position or a force vector in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is an undirected connection between two node indices. U is treated as
// the outbound endpoint when outbound attraction distribution is enabled.
// Parallel edges are kept and their attraction adds up.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// Input is the flat graph the engine consumes. Node identity is the dense
// index 0..N-1; mapping external identifiers is the caller's job.
//
// All slices except Edges are optional. When present they must have exactly
// one entry per node (or per edge, for Weights).
type Input struct {
	N     int
	Edges []Edge

	// Weights holds one weight >= 0 per edge. Nil means every weight is 1.
	Weights []float64

	// Positions holds initial coordinates. Nil scatters nodes uniformly in
	// the unit square using Options.Seed.
	Positions []Point

	// Sizes holds node radii used by overlap prevention.
	Sizes []float64

	// Masses overrides the default mass of 1 + degree. Each must be >= 1.
	Masses []float64
}

// nodes stores per-node simulation state as parallel arrays indexed by node id.
// Force computation writes fx/fy; the integrator reads them and rolls them
// into oldFx/oldFy.
type nodes struct {
	x, y     []float64
	mass     []float64
	size     []float64
	fx, fy   []float64
	oldFx    []float64
	oldFy    []float64
	swinging []float64
	traction []float64

	// speed is the per-node adaptive speed, only maintained when outbound
	// attraction distribution is enabled.
	speed []float64
}

func newNodes(n int) nodes {
	return nodes{
		x:        make([]float64, n),
		y:        make([]float64, n),
		mass:     make([]float64, n),
		size:     make([]float64, n),
		fx:       make([]float64, n),
		fy:       make([]float64, n),
		oldFx:    make([]float64, n),
		oldFy:    make([]float64, n),
		swinging: make([]float64, n),
		traction: make([]float64, n),
	}
}

func (ns *nodes) len() int { return len(ns.x) }

// validate checks the input against itself and the options. It never mutates.
func (in Input) validate(opts Options) error {
	if in.N < 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "node count must be >= 0, got %d", in.N)
	}
	for i, e := range in.Edges {
		if e.U < 0 || e.U >= in.N || e.V < 0 || e.V >= in.N {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d (%d, %d) references a node outside [0, %d)", i, e.U, e.V, in.N)
		}
	}
	if in.Weights != nil {
		if len(in.Weights) != len(in.Edges) {
			return errors.New(errors.ErrCodeInvalidGraph, "got %d weights for %d edges", len(in.Weights), len(in.Edges))
		}
		for i, w := range in.Weights {
			if !(w >= 0) || math.IsInf(w, 0) {
				return errors.New(errors.ErrCodeInvalidGraph, "edge %d weight must be finite and >= 0, got %v", i, w)
			}
		}
	}
	if in.Positions != nil {
		if len(in.Positions) != in.N {
			return errors.New(errors.ErrCodeInvalidGraph, "got %d positions for %d nodes", len(in.Positions), in.N)
		}
		for i, p := range in.Positions {
			if !finite(p.X) || !finite(p.Y) {
				return errors.New(errors.ErrCodeInvalidGraph, "node %d position must be finite, got (%v, %v)", i, p.X, p.Y)
			}
		}
	}
	if in.Sizes != nil {
		if len(in.Sizes) != in.N {
			return errors.New(errors.ErrCodeInvalidGraph, "got %d sizes for %d nodes", len(in.Sizes), in.N)
		}
		for i, s := range in.Sizes {
			if !(s >= 0) || math.IsInf(s, 0) {
				return errors.New(errors.ErrCodeInvalidGraph, "node %d size must be finite and >= 0, got %v", i, s)
			}
		}
	}
	if in.Masses != nil {
		if len(in.Masses) != in.N {
			return errors.New(errors.ErrCodeInvalidGraph, "got %d masses for %d nodes", len(in.Masses), in.N)
		}
		for i, m := range in.Masses {
			if !(m >= 1) || math.IsInf(m, 0) {
				return errors.New(errors.ErrCodeInvalidGraph, "node %d mass must be finite and >= 1, got %v", i, m)
			}
		}
	}
	if opts.PreventOverlapping && in.Sizes == nil && in.N > 0 {
		return invalidConfig("prevent_overlapping", "requires per-node sizes")
	}
	return nil
}

// load copies positions, sizes and masses into ns. Masses default to
// 1 + degree; a self-loop counts twice, like any undirected degree.
func (ns *nodes) load(in Input, seed uint64) {
	if in.Positions != nil {
		for i, p := range in.Positions {
			ns.x[i], ns.y[i] = p.X, p.Y
		}
	} else {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		for i := range ns.x {
			ns.x[i] = rng.Float64()
			ns.y[i] = rng.Float64()
		}
	}

	if in.Sizes != nil {
		copy(ns.size, in.Sizes)
	}

	if in.Masses != nil {
		copy(ns.mass, in.Masses)
		return
	}
	for i := range ns.mass {
		ns.mass[i] = 1
	}
	for _, e := range in.Edges {
		ns.mass[e.U]++
		ns.mass[e.V]++
	}
}

// effectiveWeights raises each weight to the influence exponent. Exponents
// 0 and 1 skip the pow call since they are by far the most common. A zero
// weight never attracts, whatever the exponent.
func effectiveWeights(in Input, influence float64) []float64 {
	out := make([]float64, len(in.Edges))
	for i := range out {
		w := 1.0
		if in.Weights != nil {
			w = in.Weights[i]
		}
		switch {
		case w == 0:
			out[i] = 0
		case influence == 0:
			out[i] = 1
		case influence == 1:
			out[i] = w
		default:
			out[i] = math.Pow(w, influence)
		}
	}
	return out
}

// adjacency is a compressed neighbour list used by the overlap clamp.
type adjacency struct {
	start []int
	list  []int
}

func newAdjacency(n int, edges []Edge) adjacency {
	start := make([]int, n+1)
	for _, e := range edges {
		if e.U == e.V {
			continue
		}
		start[e.U+1]++
		start[e.V+1]++
	}
	for i := 0; i < n; i++ {
		start[i+1] += start[i]
	}
	list := make([]int, start[n])
	fill := make([]int, n)
	copy(fill, start[:n])
	for _, e := range edges {
		if e.U == e.V {
			continue
		}
		list[fill[e.U]] = e.V
		fill[e.U]++
		list[fill[e.V]] = e.U
		fill[e.V]++
	}
	return adjacency{start: start, list: list}
}

func (a adjacency) neighbors(i int) []int {
	return a.list[a.start[i]:a.start[i+1]]
}
