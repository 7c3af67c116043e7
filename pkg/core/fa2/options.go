package fa2

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forceatlas/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultIterations is the number of simulation steps when none is given.
	DefaultIterations = 100

	// DefaultEdgeWeightInfluence applies edge weights linearly.
	DefaultEdgeWeightInfluence = 1.0

	// DefaultJitterTolerance is the conservative swing/speed bound.
	DefaultJitterTolerance = 1.0

	// DefaultTheta is the Barnes-Hut opening threshold (side length / distance).
	DefaultTheta = 0.5

	// DefaultScalingRatio is the repulsion strength multiplier.
	DefaultScalingRatio = 2.0

	// DefaultGravity is the gravity strength multiplier.
	DefaultGravity = 1.0

	// DefaultSeed seeds the random scatter used when no positions are supplied.
	DefaultSeed = uint64(42)

	// DefaultMinDistance is the distance floor that keeps coincident points
	// from producing infinite repulsion. It also bounds quadtree subdivision.
	DefaultMinDistance = 1e-9

	// DefaultMaxTreeDepth caps quadtree subdivision for clustered inputs.
	DefaultMaxTreeDepth = 48

	// DefaultMaxSpeedRise limits global speed growth per iteration to
	// (1 + DefaultMaxSpeedRise) times the previous value.
	DefaultMaxSpeedRise = 0.5

	// DefaultMaxOverlapStep caps a single displacement when overlap
	// prevention is enabled.
	DefaultMaxOverlapStep = 10.0

	// DefaultLogEvery controls how often iteration progress is logged at debug level.
	DefaultLogEvery = 50
)

// =============================================================================
// Options
// =============================================================================

// Options configures a ForceAtlas2 simulation.
//
// The zero value is not directly usable; start from [DefaultOptions] and
// override what you need, or call [Options.SetDefaults] to fill zero fields.
// Boolean switches default to false, which matches the classic layout.
type Options struct {
	// Iterations is the exact number of simulation steps. Zero is a no-op
	// that returns the initial positions.
	Iterations int `json:"iterations" toml:"iterations" yaml:"iterations"`

	// OutboundAttractionDistribution ("dissuade hubs") divides the attraction
	// transmitted along an edge by the mass of its source node.
	OutboundAttractionDistribution bool `json:"outbound_attraction_distribution,omitempty" toml:"outbound_attraction_distribution" yaml:"outbound_attraction_distribution"`

	// LinLogMode uses log(1 + distance) instead of distance for attraction.
	LinLogMode bool `json:"lin_log_mode,omitempty" toml:"lin_log_mode" yaml:"lin_log_mode"`

	// PreventOverlapping enables the best-effort anti-collision laws and the
	// displacement clamp. Requires per-node sizes.
	PreventOverlapping bool `json:"prevent_overlapping,omitempty" toml:"prevent_overlapping" yaml:"prevent_overlapping"`

	// EdgeWeightInfluence is the exponent applied to edge weights.
	// 0 ignores weights, 1 applies them linearly; other values extrapolate.
	EdgeWeightInfluence float64 `json:"edge_weight_influence" toml:"edge_weight_influence" yaml:"edge_weight_influence"`

	// JitterTolerance bounds how much swinging is allowed relative to speed.
	// Values above 1 trade precision for faster convergence.
	JitterTolerance float64 `json:"jitter_tolerance" toml:"jitter_tolerance" yaml:"jitter_tolerance"`

	// BarnesHutOptimize approximates repulsion with a quadtree. When false,
	// repulsion is computed exactly over all pairs.
	BarnesHutOptimize bool `json:"barnes_hut_optimize,omitempty" toml:"barnes_hut_optimize" yaml:"barnes_hut_optimize"`

	// BarnesHutTheta is the opening threshold: a region whose side length
	// divided by its distance is below theta is treated as a single body.
	BarnesHutTheta float64 `json:"barnes_hut_theta" toml:"barnes_hut_theta" yaml:"barnes_hut_theta"`

	// ScalingRatio multiplies repulsion.
	ScalingRatio float64 `json:"scaling_ratio" toml:"scaling_ratio" yaml:"scaling_ratio"`

	// StrongGravityMode switches gravity from distance-proportional to
	// constant magnitude.
	StrongGravityMode bool `json:"strong_gravity_mode,omitempty" toml:"strong_gravity_mode" yaml:"strong_gravity_mode"`

	// Gravity multiplies the pull toward the origin. Zero disables it.
	Gravity float64 `json:"gravity" toml:"gravity" yaml:"gravity"`

	// Multithread accumulates per-node repulsion and gravity on a worker pool.
	Multithread bool `json:"multithread,omitempty" toml:"multithread" yaml:"multithread"`

	// Workers bounds the worker pool when Multithread is set.
	// Zero uses GOMAXPROCS.
	Workers int `json:"workers,omitempty" toml:"workers" yaml:"workers"`

	// Seed drives the random scatter used when no initial positions are given.
	Seed uint64 `json:"seed,omitempty" toml:"seed" yaml:"seed"`

	// MinDistance is the distance floor for repulsion and the smallest
	// quadtree region that may still be subdivided.
	MinDistance float64 `json:"min_distance,omitempty" toml:"min_distance" yaml:"min_distance"`

	// MaxTreeDepth caps quadtree depth. Bodies reaching the cap share a leaf.
	MaxTreeDepth int `json:"max_tree_depth,omitempty" toml:"max_tree_depth" yaml:"max_tree_depth"`

	// MaxSpeedRise is the largest relative increase of the global speed
	// between two iterations (0.5 means at most 1.5x).
	MaxSpeedRise float64 `json:"max_speed_rise,omitempty" toml:"max_speed_rise" yaml:"max_speed_rise"`

	// MaxOverlapStep caps a node's displacement when PreventOverlapping is on.
	MaxOverlapStep float64 `json:"max_overlap_step,omitempty" toml:"max_overlap_step" yaml:"max_overlap_step"`

	// LogEvery logs progress at debug level every LogEvery iterations.
	LogEvery int `json:"-" toml:"log_every" yaml:"log_every"`

	// Logger receives progress output. Nil discards it.
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// DefaultOptions returns the options used by the classic ForceAtlas2 layout.
func DefaultOptions() Options {
	return Options{
		Iterations:          DefaultIterations,
		EdgeWeightInfluence: DefaultEdgeWeightInfluence,
		JitterTolerance:     DefaultJitterTolerance,
		BarnesHutTheta:      DefaultTheta,
		ScalingRatio:        DefaultScalingRatio,
		Gravity:             DefaultGravity,
		Seed:                DefaultSeed,
		MinDistance:         DefaultMinDistance,
		MaxTreeDepth:        DefaultMaxTreeDepth,
		MaxSpeedRise:        DefaultMaxSpeedRise,
		MaxOverlapStep:      DefaultMaxOverlapStep,
		LogEvery:            DefaultLogEvery,
	}
}

// SetDefaults fills the numeric tuning knobs that have no meaningful zero
// value. Iterations, EdgeWeightInfluence and Gravity are left alone because
// zero is a legitimate setting for each of them.
func (o *Options) SetDefaults() {
	if o.JitterTolerance == 0 {
		o.JitterTolerance = DefaultJitterTolerance
	}
	if o.BarnesHutTheta == 0 {
		o.BarnesHutTheta = DefaultTheta
	}
	if o.ScalingRatio == 0 {
		o.ScalingRatio = DefaultScalingRatio
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MinDistance == 0 {
		o.MinDistance = DefaultMinDistance
	}
	if o.MaxTreeDepth == 0 {
		o.MaxTreeDepth = DefaultMaxTreeDepth
	}
	if o.MaxSpeedRise == 0 {
		o.MaxSpeedRise = DefaultMaxSpeedRise
	}
	if o.MaxOverlapStep == 0 {
		o.MaxOverlapStep = DefaultMaxOverlapStep
	}
	if o.LogEvery == 0 {
		o.LogEvery = DefaultLogEvery
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate reports the first option that violates its constraint.
// The returned error carries [errors.ErrCodeInvalidConfig].
func (o Options) Validate() error {
	switch {
	case o.Iterations < 0:
		return invalidConfig("iterations", "must be >= 0, got %d", o.Iterations)
	case !finite(o.EdgeWeightInfluence):
		return invalidConfig("edge_weight_influence", "must be finite, got %v", o.EdgeWeightInfluence)
	case !(o.JitterTolerance > 0) || !finite(o.JitterTolerance):
		return invalidConfig("jitter_tolerance", "must be > 0, got %v", o.JitterTolerance)
	case !(o.BarnesHutTheta > 0) || !finite(o.BarnesHutTheta):
		return invalidConfig("barnes_hut_theta", "must be > 0, got %v", o.BarnesHutTheta)
	case !(o.ScalingRatio > 0) || !finite(o.ScalingRatio):
		return invalidConfig("scaling_ratio", "must be > 0, got %v", o.ScalingRatio)
	case !(o.Gravity >= 0) || !finite(o.Gravity):
		return invalidConfig("gravity", "must be >= 0, got %v", o.Gravity)
	case o.Workers < 0:
		return invalidConfig("workers", "must be >= 0, got %d", o.Workers)
	case !(o.MinDistance > 0) || !finite(o.MinDistance):
		return invalidConfig("min_distance", "must be > 0, got %v", o.MinDistance)
	case o.MaxTreeDepth < 1:
		return invalidConfig("max_tree_depth", "must be >= 1, got %d", o.MaxTreeDepth)
	case !(o.MaxSpeedRise > 0) || !finite(o.MaxSpeedRise):
		return invalidConfig("max_speed_rise", "must be > 0, got %v", o.MaxSpeedRise)
	case !(o.MaxOverlapStep > 0) || !finite(o.MaxOverlapStep):
		return invalidConfig("max_overlap_step", "must be > 0, got %v", o.MaxOverlapStep)
	}
	return nil
}

func invalidConfig(option, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, option+" "+format, args...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
