package fa2

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/observability"
)

// State is the lifecycle stage of a [Simulation].
type State int

const (
	// StateInitialized means positions are assigned and no step has run.
	StateInitialized State = iota
	// StateIterating means at least one step has run and more remain.
	StateIterating
	// StateDone means every requested iteration has completed.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateIterating:
		return "iterating"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Simulation is the state of one layout computation. It is created from an
// [Input] by [New], advanced by [Simulation.Run] and discarded afterwards.
// A Simulation is not safe for concurrent use; separate simulations share
// nothing and may run in parallel.
type Simulation struct {
	opts    Options
	nodes   nodes
	edges   []Edge
	weights []float64
	adj     adjacency
	law     *forceLaw
	tree    *quadtree
	stack   []int

	speed           float64
	speedEfficiency float64
	jitter          float64
	last            convergence

	iteration int
	state     State
}

// New validates opts and in, then builds the initial simulation state.
// Configuration and input errors are returned before anything is allocated.
func New(in Input, opts Options) (*Simulation, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(opts); err != nil {
		return nil, err
	}

	s := &Simulation{
		opts:            opts,
		nodes:           newNodes(in.N),
		edges:           in.Edges,
		weights:         effectiveWeights(in, opts.EdgeWeightInfluence),
		speed:           1,
		speedEfficiency: 1,
		jitter:          opts.JitterTolerance,
		state:           StateInitialized,
	}
	s.nodes.load(in, opts.Seed)
	s.law = newForceLaw(opts, &s.nodes)
	if opts.BarnesHutOptimize {
		s.tree = newQuadtree(opts.MinDistance, opts.MaxTreeDepth)
	}
	if opts.PreventOverlapping {
		s.adj = newAdjacency(in.N, in.Edges)
	}
	return s, nil
}

// Run performs the remaining iterations. Cancellation is checked between
// iterations only; a cancelled run returns the context error and the
// simulation must be discarded.
func (s *Simulation) Run(ctx context.Context) error {
	if s.state == StateDone {
		return nil
	}
	if s.opts.Iterations == 0 || s.nodes.len() == 0 {
		s.state = StateDone
		return nil
	}

	start := time.Now()
	for s.iteration < s.opts.Iterations {
		if err := ctx.Err(); err != nil {
			return interrupted(err, "layout stopped after %d of %d iterations", s.iteration, s.opts.Iterations)
		}
		s.step(ctx)
	}
	s.state = StateDone

	s.opts.Logger.Info("layout converged",
		"nodes", s.nodes.len(),
		"edges", len(s.edges),
		"iterations", s.iteration,
		"speed", s.speed,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// step runs one iteration: rebuild the tree, accumulate forces, adapt the
// speed and move the nodes.
func (s *Simulation) step(ctx context.Context) {
	s.state = StateIterating
	if s.tree != nil {
		s.tree.build(&s.nodes)
	}
	s.computeForces()

	s.last = s.nodes.measure()
	s.adjustSpeed(s.last)
	if s.opts.OutboundAttractionDistribution {
		s.adjustNodeSpeeds()
	}
	s.integrate()
	s.iteration++

	observability.Layout().OnIteration(ctx, s.iteration, s.speed, s.last.swinging, s.last.traction)
	if s.opts.LogEvery > 0 && s.iteration%s.opts.LogEvery == 0 {
		s.opts.Logger.Debug("iteration",
			"n", s.iteration,
			"speed", s.speed,
			"swinging", s.last.swinging,
			"traction", s.last.traction)
	}
}

// Positions returns a copy of the current node positions, indexed by node.
func (s *Simulation) Positions() []Point {
	out := make([]Point, s.nodes.len())
	for i := range out {
		out[i] = Point{X: s.nodes.x[i], Y: s.nodes.y[i]}
	}
	return out
}

// Forces returns a copy of the net forces computed by the last iteration.
func (s *Simulation) Forces() []Point {
	out := make([]Point, s.nodes.len())
	for i := range out {
		out[i] = Point{X: s.nodes.oldFx[i], Y: s.nodes.oldFy[i]}
	}
	return out
}

// Masses returns a copy of the node masses in use.
func (s *Simulation) Masses() []float64 {
	return append([]float64(nil), s.nodes.mass...)
}

// Speed returns the current global speed.
func (s *Simulation) Speed() float64 { return s.speed }

// Iteration returns the number of completed iterations.
func (s *Simulation) Iteration() int { return s.iteration }

// State returns the lifecycle stage.
func (s *Simulation) State() State { return s.state }

// Options returns the effective options after defaults were applied.
func (s *Simulation) Options() Options { return s.opts }

// Layout runs a complete simulation and returns the final positions indexed
// by node. Either every iteration completes or an error is returned.
func Layout(ctx context.Context, in Input, opts Options) ([]Point, error) {
	sim, err := New(in, opts)
	if err != nil {
		return nil, err
	}
	if err := sim.Run(ctx); err != nil {
		return nil, err
	}
	return sim.Positions(), nil
}

// interrupted classifies a context error: an expired deadline is TIMEOUT,
// anything else CANCELED.
func interrupted(err error, format string, args ...any) error {
	code := errors.ErrCodeCanceled
	if err == context.DeadlineExceeded {
		code = errors.ErrCodeTimeout
	}
	return errors.Wrap(code, err, format, args...)
}
