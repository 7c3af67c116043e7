package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// layoutFlags holds the engine flags shared by layout, render and serve.
// Only flags the user actually set override the configuration file.
type layoutFlags struct {
	fa2.Options
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	d := fa2.DefaultOptions()
	fs.IntVarP(&f.Iterations, "iterations", "n", d.Iterations, "number of iterations")
	fs.Float64Var(&f.ScalingRatio, "scaling", d.ScalingRatio, "repulsion scaling ratio")
	fs.Float64Var(&f.Gravity, "gravity", d.Gravity, "gravity strength (0 disables)")
	fs.BoolVar(&f.StrongGravityMode, "strong-gravity", false, "constant-magnitude gravity")
	fs.BoolVar(&f.LinLogMode, "lin-log", false, "logarithmic attraction")
	fs.BoolVar(&f.OutboundAttractionDistribution, "dissuade-hubs", false, "divide attraction by source mass")
	fs.BoolVar(&f.PreventOverlapping, "prevent-overlap", false, "best-effort overlap prevention (requires node sizes)")
	fs.Float64Var(&f.EdgeWeightInfluence, "edge-weight-influence", d.EdgeWeightInfluence, "exponent applied to edge weights")
	fs.Float64Var(&f.JitterTolerance, "jitter-tolerance", d.JitterTolerance, "allowed swinging relative to speed")
	fs.BoolVar(&f.BarnesHutOptimize, "barnes-hut", false, "approximate repulsion with a quadtree")
	fs.Float64Var(&f.BarnesHutTheta, "theta", d.BarnesHutTheta, "Barnes-Hut opening threshold")
	fs.BoolVar(&f.Multithread, "parallel", false, "compute per-node forces on a worker pool")
	fs.IntVar(&f.Workers, "workers", 0, "worker pool size (0 = GOMAXPROCS)")
	fs.Uint64Var(&f.Seed, "seed", d.Seed, "seed for the initial random placement")
	fs.IntVar(&f.LogEvery, "log-every", d.LogEvery, "log progress every N iterations (with --verbose)")
}

// apply copies every flag the user changed onto opts.
func (f *layoutFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	set := map[string]func(){
		"iterations":            func() { opts.Iterations = f.Iterations },
		"scaling":               func() { opts.ScalingRatio = f.ScalingRatio },
		"gravity":               func() { opts.Gravity = f.Gravity },
		"strong-gravity":        func() { opts.StrongGravityMode = f.StrongGravityMode },
		"lin-log":               func() { opts.LinLogMode = f.LinLogMode },
		"dissuade-hubs":         func() { opts.OutboundAttractionDistribution = f.OutboundAttractionDistribution },
		"prevent-overlap":       func() { opts.PreventOverlapping = f.PreventOverlapping },
		"edge-weight-influence": func() { opts.EdgeWeightInfluence = f.EdgeWeightInfluence },
		"jitter-tolerance":      func() { opts.JitterTolerance = f.JitterTolerance },
		"barnes-hut":            func() { opts.BarnesHutOptimize = f.BarnesHutOptimize },
		"theta":                 func() { opts.BarnesHutTheta = f.BarnesHutTheta },
		"parallel":              func() { opts.Multithread = f.Multithread },
		"workers":               func() { opts.Workers = f.Workers },
		"seed":                  func() { opts.Seed = f.Seed },
		"log-every":             func() { opts.LogEvery = f.LogEvery },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if fn, ok := set[fl.Name]; ok {
			fn()
		}
	})
}
