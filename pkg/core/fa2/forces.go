package fa2

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// overlapRepulsion is the multiplier applied to pairs whose disks overlap
// when overlap prevention is enabled.
const overlapRepulsion = 100.0

// forceLaw holds the coefficients shared by every force evaluation of one
// simulation. All methods are read-only and safe for concurrent use.
type forceLaw struct {
	scaling       float64 // kr
	gravity       float64 // kg
	strongGravity bool
	linLog        bool
	distributed   bool
	antiCollision bool
	attraction    float64 // attraction coefficient, mean mass when distributed
	minDist2      float64
}

func newForceLaw(opts Options, ns *nodes) *forceLaw {
	law := &forceLaw{
		scaling:       opts.ScalingRatio,
		gravity:       opts.Gravity,
		strongGravity: opts.StrongGravityMode,
		linLog:        opts.LinLogMode,
		distributed:   opts.OutboundAttractionDistribution,
		antiCollision: opts.PreventOverlapping,
		attraction:    1,
		minDist2:      opts.MinDistance * opts.MinDistance,
	}
	if law.distributed && ns.len() > 0 {
		var sum float64
		for _, m := range ns.mass {
			sum += m
		}
		law.attraction = sum / float64(ns.len())
	}
	return law
}

// nodeNode is the repulsion exerted on node i by node j. The returned vector
// is the displacement (xi-xj, yi-yj) scaled by kr*mi*mj/d², so its magnitude
// is kr*mi*mj/d. Coincident points have no direction and yield zero.
func (l *forceLaw) nodeNode(ns *nodes, i, j int) (fx, fy float64) {
	dx, dy := ns.x[i]-ns.x[j], ns.y[i]-ns.y[j]
	d2 := dx*dx + dy*dy
	if l.antiCollision {
		d := math.Sqrt(d2) - ns.size[i] - ns.size[j]
		switch {
		case d > 0:
			d2 = math.Max(d*d, l.minDist2)
		case d < 0:
			factor := overlapRepulsion * l.scaling * ns.mass[i] * ns.mass[j]
			return dx * factor, dy * factor
		default:
			return 0, 0
		}
	}
	d2 = math.Max(d2, l.minDist2)
	factor := l.scaling * ns.mass[i] * ns.mass[j] / d2
	return dx * factor, dy * factor
}

// nodeRegion is the repulsion exerted on node i by a pseudo-body of the given
// mass at (cx, cy). Overlap prevention does not apply to regions.
func (l *forceLaw) nodeRegion(ns *nodes, i int, cx, cy, mass float64) (fx, fy float64) {
	dx, dy := ns.x[i]-cx, ns.y[i]-cy
	d2 := math.Max(dx*dx+dy*dy, l.minDist2)
	factor := l.scaling * ns.mass[i] * mass / d2
	return dx * factor, dy * factor
}

// gravityOn pulls node i toward the origin. Normal gravity grows linearly
// with the distance; strong gravity has constant magnitude kg*m.
func (l *forceLaw) gravityOn(ns *nodes, i int) (fx, fy float64) {
	if l.gravity == 0 {
		return 0, 0
	}
	x, y := ns.x[i], ns.y[i]
	if !l.strongGravity {
		factor := l.gravity * ns.mass[i]
		return -x * factor, -y * factor
	}
	d := math.Sqrt(x*x + y*y)
	if d == 0 {
		return 0, 0
	}
	factor := l.gravity * ns.mass[i] / d
	return -x * factor, -y * factor
}

// attractionFactor returns the scale applied to the vector (xu-xv, yu-yv)
// for an edge with effective weight w. It is never positive, so both ends
// always move toward each other.
func (l *forceLaw) attractionFactor(ns *nodes, u, v int, w float64) float64 {
	dx, dy := ns.x[u]-ns.x[v], ns.y[u]-ns.y[v]
	d := math.Sqrt(dx*dx + dy*dy)
	if l.antiCollision {
		if d-ns.size[u]-ns.size[v] <= 0 {
			return 0
		}
	}
	factor := -l.attraction * w
	if l.linLog {
		if d == 0 {
			return 0
		}
		factor *= math.Log1p(d) / d
	}
	if l.distributed {
		factor /= ns.mass[u]
	}
	return factor
}

// =============================================================================
// Accumulation
// =============================================================================

// computeForces zeroes the accumulators and fills them with repulsion,
// gravity and attraction for the current positions. The tree must already be
// built when Barnes-Hut is enabled. An iteration always runs to completion;
// cancellation is observed between iterations.
func (s *Simulation) computeForces() {
	ns := &s.nodes
	for i := range ns.fx {
		ns.fx[i], ns.fy[i] = 0, 0
	}

	if s.opts.Multithread && ns.len() > 1 {
		s.perNodeParallel()
	} else {
		s.stack = s.perNodeRange(0, ns.len(), s.stack)
	}

	s.applyAttraction()
}

// perNodeRange computes repulsion and gravity for nodes [lo, hi). Each node
// only writes its own accumulator slot.
func (s *Simulation) perNodeRange(lo, hi int, stack []int) []int {
	ns := &s.nodes
	for i := lo; i < hi; i++ {
		var fx, fy float64
		if s.tree != nil {
			fx, fy, stack = s.tree.repulsion(i, ns, s.law, s.opts.BarnesHutTheta, stack)
		} else {
			fx, fy = s.exactRepulsion(i)
		}
		gx, gy := s.law.gravityOn(ns, i)
		ns.fx[i] += fx + gx
		ns.fy[i] += fy + gy
	}
	return stack
}

// perNodeParallel splits the nodes into contiguous chunks handled by a
// bounded errgroup. The summation order per node is identical to the
// sequential path.
func (s *Simulation) perNodeParallel() {
	n := s.nodes.len()
	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunks := workers * 4
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			s.perNodeRange(lo, hi, nil)
			return nil
		})
	}
	_ = g.Wait()
}

// exactRepulsion sums the repulsion on node i from every other node.
func (s *Simulation) exactRepulsion(i int) (fx, fy float64) {
	ns := &s.nodes
	for j := 0; j < ns.len(); j++ {
		if j == i {
			continue
		}
		dx, dy := s.law.nodeNode(ns, i, j)
		fx += dx
		fy += dy
	}
	return fx, fy
}

// applyAttraction runs one sequential pass over the edges. Both endpoints
// receive equal and opposite contributions.
func (s *Simulation) applyAttraction() {
	ns := &s.nodes
	for k, e := range s.edges {
		if e.U == e.V {
			continue
		}
		factor := s.law.attractionFactor(ns, e.U, e.V, s.weights[k])
		if factor == 0 {
			continue
		}
		dx, dy := ns.x[e.U]-ns.x[e.V], ns.y[e.U]-ns.y[e.V]
		ns.fx[e.U] += dx * factor
		ns.fy[e.U] += dy * factor
		ns.fx[e.V] -= dx * factor
		ns.fy[e.V] -= dy * factor
	}
}
