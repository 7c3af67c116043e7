package fa2

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forceatlas/pkg/errors"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		code errors.Code
	}{
		{"negative count", Input{N: -1}, errors.ErrCodeInvalidGraph},
		{"edge out of range", Input{N: 2, Edges: []Edge{{0, 2}}}, errors.ErrCodeInvalidGraph},
		{"negative endpoint", Input{N: 2, Edges: []Edge{{-1, 0}}}, errors.ErrCodeInvalidGraph},
		{"weight count", Input{N: 2, Edges: []Edge{{0, 1}}, Weights: []float64{1, 2}}, errors.ErrCodeInvalidGraph},
		{"negative weight", Input{N: 2, Edges: []Edge{{0, 1}}, Weights: []float64{-1}}, errors.ErrCodeInvalidGraph},
		{"nan weight", Input{N: 2, Edges: []Edge{{0, 1}}, Weights: []float64{math.NaN()}}, errors.ErrCodeInvalidGraph},
		{"position count", Input{N: 2, Positions: []Point{{0, 0}}}, errors.ErrCodeInvalidGraph},
		{"infinite position", Input{N: 1, Positions: []Point{{math.Inf(1), 0}}}, errors.ErrCodeInvalidGraph},
		{"size count", Input{N: 2, Sizes: []float64{1}}, errors.ErrCodeInvalidGraph},
		{"negative size", Input{N: 1, Sizes: []float64{-1}}, errors.ErrCodeInvalidGraph},
		{"light mass", Input{N: 1, Masses: []float64{0.5}}, errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.validate(DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestInputValidateOverlapNeedsSizes(t *testing.T) {
	opts := DefaultOptions()
	opts.PreventOverlapping = true

	err := Input{N: 3}.validate(opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	// An empty graph has nothing to size.
	assert.NoError(t, Input{}.validate(opts))
	assert.NoError(t, Input{N: 1, Sizes: []float64{1}}.validate(opts))
}

func TestDefaultMasses(t *testing.T) {
	in := Input{N: 4, Edges: []Edge{{0, 1}, {1, 2}, {2, 2}}}
	ns := newNodes(in.N)
	ns.load(in, DefaultSeed)

	// Node 2 has one regular edge and a self-loop that counts twice.
	assert.Equal(t, []float64{2, 3, 4, 1}, ns.mass)
}

func TestExplicitMassesAndPositions(t *testing.T) {
	in := Input{
		N:         2,
		Edges:     []Edge{{0, 1}},
		Positions: []Point{{1, 2}, {3, 4}},
		Masses:    []float64{5, 7},
	}
	ns := newNodes(in.N)
	ns.load(in, DefaultSeed)

	assert.Equal(t, []float64{5, 7}, ns.mass)
	assert.Equal(t, []float64{1, 3}, ns.x)
	assert.Equal(t, []float64{2, 4}, ns.y)
}

func TestScatterIsSeededAndInUnitSquare(t *testing.T) {
	in := Input{N: 50}
	a, b, c := newNodes(in.N), newNodes(in.N), newNodes(in.N)
	a.load(in, 7)
	b.load(in, 7)
	c.load(in, 8)

	assert.Equal(t, a.x, b.x)
	assert.Equal(t, a.y, b.y)
	assert.NotEqual(t, a.x, c.x)
	for i := range a.x {
		assert.GreaterOrEqual(t, a.x[i], 0.0)
		assert.Less(t, a.x[i], 1.0)
		assert.GreaterOrEqual(t, a.y[i], 0.0)
		assert.Less(t, a.y[i], 1.0)
	}
}

func TestEffectiveWeights(t *testing.T) {
	in := Input{N: 3, Edges: []Edge{{0, 1}, {1, 2}}, Weights: []float64{4, 0.25}}

	assert.Equal(t, []float64{1, 1}, effectiveWeights(in, 0))
	assert.Equal(t, []float64{4, 0.25}, effectiveWeights(in, 1))
	assert.InDeltaSlice(t, []float64{2, 0.5}, effectiveWeights(in, 0.5), 1e-12)

	unweighted := Input{N: 3, Edges: []Edge{{0, 1}, {1, 2}}}
	assert.Equal(t, []float64{1, 1}, effectiveWeights(unweighted, 2))

	zero := Input{N: 3, Edges: []Edge{{0, 1}, {1, 2}}, Weights: []float64{0, 2}}
	assert.Equal(t, []float64{0, 1}, effectiveWeights(zero, 0))
	assert.Equal(t, []float64{0, 0.5}, effectiveWeights(zero, -1))
	assert.Equal(t, []float64{0, 2}, effectiveWeights(zero, 1))
}

func TestAdjacency(t *testing.T) {
	adj := newAdjacency(4, []Edge{{0, 1}, {0, 2}, {3, 3}, {2, 1}})

	assert.ElementsMatch(t, []int{1, 2}, adj.neighbors(0))
	assert.ElementsMatch(t, []int{0, 2}, adj.neighbors(1))
	assert.ElementsMatch(t, []int{0, 1}, adj.neighbors(2))
	assert.Empty(t, adj.neighbors(3))
}
