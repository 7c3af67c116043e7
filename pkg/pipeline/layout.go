package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/observability"
)

// GenerateLayout runs the engine over g without caching and returns the
// positioned layout. Layout hooks receive start and completion events.
func GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	in, err := g.Input()
	if err != nil {
		return graph.Layout{}, err
	}
	sim, err := fa2.New(in, opts.Options)
	if err != nil {
		return graph.Layout{}, err
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Edges))
	start := time.Now()
	err = sim.Run(ctx)
	hooks.OnLayoutComplete(ctx, sim.Iteration(), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}

	l := graph.NewLayout(g, sim.Positions())
	l.Iterations = sim.Iteration()
	l.Speed = sim.Speed()
	effective := sim.Options()
	effective.Logger = nil
	l.Options = &effective
	return l, nil
}
