package fa2

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// pair builds two unit-mass nodes at a and b.
func pair(a, b Point) nodes {
	ns := newNodes(2)
	ns.x[0], ns.y[0] = a.X, a.Y
	ns.x[1], ns.y[1] = b.X, b.Y
	ns.mass[0], ns.mass[1] = 1, 1
	return ns
}

func TestNodeNodeRepulsion(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		masses  [2]float64
		sizes   [2]float64
		overlap bool
		want    Point
	}{
		// kr*mi*mj/d² times (xi-xj): 2*1*1/4 * -2.
		{"unit masses", Point{0, 0}, Point{2, 0}, [2]float64{1, 1}, [2]float64{}, false, Point{-1, 0}},
		{"mass product", Point{0, 0}, Point{2, 0}, [2]float64{2, 3}, [2]float64{}, false, Point{-6, 0}},
		{"diagonal", Point{1, 1}, Point{0, 0}, [2]float64{1, 1}, [2]float64{}, false, Point{1, 1}},
		{"coincident", Point{1, 1}, Point{1, 1}, [2]float64{1, 1}, [2]float64{}, false, Point{0, 0}},
		// Surface distance 3-0.5-0.5 = 2, so 2/4 * -3.
		{"surface distance", Point{0, 0}, Point{3, 0}, [2]float64{1, 1}, [2]float64{0.5, 0.5}, true, Point{-1.5, 0}},
		// 100*kr*mi*mj times the raw displacement.
		{"overlapping", Point{0, 0}, Point{0.5, 0}, [2]float64{1, 1}, [2]float64{1, 1}, true, Point{-100, 0}},
		{"overlapping masses", Point{0, 0}, Point{0, 0.5}, [2]float64{2, 1}, [2]float64{1, 1}, true, Point{0, -200}},
		{"touching", Point{0, 0}, Point{2, 0}, [2]float64{1, 1}, [2]float64{1, 1}, true, Point{0, 0}},
		{"sizes ignored without overlap prevention", Point{0, 0}, Point{2, 0}, [2]float64{1, 1}, [2]float64{1, 1}, false, Point{-1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := pair(tt.a, tt.b)
			ns.mass[0], ns.mass[1] = tt.masses[0], tt.masses[1]
			ns.size[0], ns.size[1] = tt.sizes[0], tt.sizes[1]
			opts := DefaultOptions()
			opts.ScalingRatio = 2
			opts.PreventOverlapping = tt.overlap
			law := newForceLaw(opts, &ns)

			fx, fy := law.nodeNode(&ns, 0, 1)
			assert.InDelta(t, tt.want.X, fx, 1e-12)
			assert.InDelta(t, tt.want.Y, fy, 1e-12)

			rx, ry := law.nodeNode(&ns, 1, 0)
			assert.InDelta(t, -fx, rx, 1e-12, "repulsion is symmetric")
			assert.InDelta(t, -fy, ry, 1e-12, "repulsion is symmetric")
		})
	}
}

func TestNodeRegionRepulsion(t *testing.T) {
	ns := pair(Point{0, 0}, Point{10, 10})
	ns.size[0] = 5
	opts := DefaultOptions()
	opts.ScalingRatio = 2
	opts.PreventOverlapping = true
	law := newForceLaw(opts, &ns)

	// 2*1*3/16 * -4, with the node size playing no part.
	fx, fy := law.nodeRegion(&ns, 0, 4, 0, 3)
	assert.InDelta(t, -1.5, fx, 1e-12)
	assert.InDelta(t, 0.0, fy, 1e-12)
}

func TestAttractionFactor(t *testing.T) {
	d := 5.0
	tests := []struct {
		name    string
		modify  func(*Options)
		masses  [2]float64
		sizes   [2]float64
		weight  float64
		want    float64
		wantVec Point // force on u, v is at (3, 4) and u at the origin
	}{
		{"linear", func(*Options) {}, [2]float64{1, 1}, [2]float64{}, 2, -2, Point{6, 8}},
		{"linlog", func(o *Options) { o.LinLogMode = true }, [2]float64{1, 1}, [2]float64{}, 2,
			-2 * math.Log1p(d) / d, Point{6 * math.Log1p(d) / d, 8 * math.Log1p(d) / d}},
		// Mean mass 3 compensates the division by mass[u] = 4.
		{"hub distribution", func(o *Options) { o.OutboundAttractionDistribution = true }, [2]float64{4, 2}, [2]float64{}, 2,
			-3 * 2.0 / 4, Point{4.5, 6}},
		{"linlog hubs", func(o *Options) { o.LinLogMode = true; o.OutboundAttractionDistribution = true }, [2]float64{4, 2}, [2]float64{}, 1,
			-3 * math.Log1p(d) / d / 4, Point{9 * math.Log1p(d) / d / 4, 12 * math.Log1p(d) / d / 4}},
		{"separated disks", func(o *Options) { o.PreventOverlapping = true }, [2]float64{1, 1}, [2]float64{1, 1}, 1, -1, Point{3, 4}},
		{"overlapping disks", func(o *Options) { o.PreventOverlapping = true }, [2]float64{1, 1}, [2]float64{3, 3}, 1, 0, Point{0, 0}},
		{"touching disks", func(o *Options) { o.PreventOverlapping = true }, [2]float64{1, 1}, [2]float64{2, 3}, 1, 0, Point{0, 0}},
		{"zero weight", func(*Options) {}, [2]float64{1, 1}, [2]float64{}, 0, 0, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := pair(Point{0, 0}, Point{3, 4})
			ns.mass[0], ns.mass[1] = tt.masses[0], tt.masses[1]
			ns.size[0], ns.size[1] = tt.sizes[0], tt.sizes[1]
			opts := DefaultOptions()
			tt.modify(&opts)
			law := newForceLaw(opts, &ns)

			assert.InDelta(t, tt.want, law.attractionFactor(&ns, 0, 1, tt.weight), 1e-12)

			sim := &Simulation{nodes: ns, law: law, edges: []Edge{{0, 1}}, weights: []float64{tt.weight}}
			sim.applyAttraction()
			assert.InDelta(t, tt.wantVec.X, sim.nodes.fx[0], 1e-12)
			assert.InDelta(t, tt.wantVec.Y, sim.nodes.fy[0], 1e-12)
			assert.InDelta(t, -tt.wantVec.X, sim.nodes.fx[1], 1e-12)
			assert.InDelta(t, -tt.wantVec.Y, sim.nodes.fy[1], 1e-12)
		})
	}
}

func TestAttractionSkipsSelfLoops(t *testing.T) {
	ns := pair(Point{1, 2}, Point{3, 4})
	sim := &Simulation{nodes: ns, law: newForceLaw(DefaultOptions(), &ns), edges: []Edge{{1, 1}}, weights: []float64{1}}
	sim.applyAttraction()
	assert.Equal(t, []float64{0, 0}, sim.nodes.fx)
	assert.Equal(t, []float64{0, 0}, sim.nodes.fy)
}

func TestMeanMassCompensation(t *testing.T) {
	ns := newNodes(4)
	copy(ns.mass, []float64{1, 2, 3, 6})

	opts := DefaultOptions()
	assert.Equal(t, 1.0, newForceLaw(opts, &ns).attraction)

	opts.OutboundAttractionDistribution = true
	assert.Equal(t, 3.0, newForceLaw(opts, &ns).attraction)
}

func TestGravity(t *testing.T) {
	tests := []struct {
		name   string
		at     Point
		mass   float64
		strong bool
		kg     float64
		want   Point
	}{
		// kg*m times the position: 0.5*2 * (3, 4).
		{"normal", Point{3, 4}, 2, false, 0.5, Point{-3, -4}},
		{"normal grows with distance", Point{6, 8}, 2, false, 0.5, Point{-6, -8}},
		// Constant magnitude kg*m = 1 along the unit vector.
		{"strong", Point{3, 4}, 2, true, 0.5, Point{-0.6, -0.8}},
		{"strong far away", Point{30, 40}, 2, true, 0.5, Point{-0.6, -0.8}},
		{"strong at origin", Point{0, 0}, 2, true, 0.5, Point{0, 0}},
		{"disabled", Point{3, 4}, 2, false, 0, Point{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := newNodes(1)
			ns.x[0], ns.y[0] = tt.at.X, tt.at.Y
			ns.mass[0] = tt.mass
			opts := DefaultOptions()
			opts.Gravity = tt.kg
			opts.StrongGravityMode = tt.strong
			law := newForceLaw(opts, &ns)

			fx, fy := law.gravityOn(&ns, 0)
			assert.InDelta(t, tt.want.X, fx, 1e-12)
			assert.InDelta(t, tt.want.Y, fy, 1e-12)
		})
	}
}

func TestAttractionNeverRepels(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("attraction factor is never positive", prop.ForAll(
		func(x, y, size, mass, w float64, linLog, hubs, overlap bool) bool {
			ns := pair(Point{0, 0}, Point{x, y})
			ns.size[0], ns.size[1] = size, size
			ns.mass[0] = mass
			opts := DefaultOptions()
			opts.LinLogMode = linLog
			opts.OutboundAttractionDistribution = hubs
			opts.PreventOverlapping = overlap
			return newForceLaw(opts, &ns).attractionFactor(&ns, 0, 1, w) <= 0
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.Float64Range(0, 10),
		gen.Float64Range(1, 50),
		gen.Float64Range(0, 10),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
