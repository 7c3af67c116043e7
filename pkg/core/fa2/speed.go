package fa2

import "math"

// Speed heuristic constants. They come from the reference ForceAtlas2
// implementation and are not meant to be tuned per graph.
const (
	minSpeedEfficiency = 0.05
	maxJitterTolerance = 10.0
	maxSpeed           = 1000.0
	erraticRatio       = 2.0
	overlapSpeedScale  = 0.1
)

// convergence aggregates the per-node statistics of one iteration.
type convergence struct {
	swinging float64
	traction float64
}

// measure computes each node's swinging (|F - F_old|) and traction
// (|F + F_old| / 2) and returns their mass-weighted totals.
func (ns *nodes) measure() convergence {
	var c convergence
	for i := range ns.x {
		sx, sy := ns.fx[i]-ns.oldFx[i], ns.fy[i]-ns.oldFy[i]
		tx, ty := ns.fx[i]+ns.oldFx[i], ns.fy[i]+ns.oldFy[i]
		ns.swinging[i] = math.Sqrt(sx*sx + sy*sy)
		ns.traction[i] = math.Sqrt(tx*tx+ty*ty) / 2
		c.swinging += ns.mass[i] * ns.swinging[i]
		c.traction += ns.mass[i] * ns.traction[i]
	}
	return c
}

// adjustSpeed updates the global speed from this iteration's totals. The
// jitter tolerance is first scaled by an estimate of what the graph can
// bear, then the speed moves toward jt * efficiency * traction / swinging.
// It may fall freely but never rises by more than MaxSpeedRise per call.
func (s *Simulation) adjustSpeed(c convergence) {
	if !(c.swinging > 0) || !(c.traction > 0) {
		return
	}
	n := float64(s.nodes.len())
	tolerance := s.opts.JitterTolerance

	estimated := 0.05 * math.Sqrt(n)
	minJT := math.Sqrt(estimated)
	jt := tolerance * math.Max(minJT, math.Min(maxJitterTolerance, estimated*c.traction/(n*n)))

	if c.swinging/c.traction > erraticRatio {
		if s.speedEfficiency > minSpeedEfficiency {
			s.speedEfficiency *= 0.5
		}
		jt = math.Max(jt, tolerance)
	}

	target := jt * s.speedEfficiency * c.traction / c.swinging

	if c.swinging > jt*c.traction {
		if s.speedEfficiency > minSpeedEfficiency {
			s.speedEfficiency *= 0.7
		}
	} else if s.speed < maxSpeed {
		s.speedEfficiency *= 1.3
	}

	s.speed += math.Min(target-s.speed, s.opts.MaxSpeedRise*s.speed)
	s.jitter = jt
}

// adjustNodeSpeeds maintains a per-node speed when hub distribution is on.
// Each node chases its own traction/swinging ratio, never exceeds the global
// speed and obeys the same growth cap. This is an extension of the classic
// heuristic and is approximate by nature.
func (s *Simulation) adjustNodeSpeeds() {
	ns := &s.nodes
	if ns.speed == nil {
		ns.speed = make([]float64, ns.len())
		for i := range ns.speed {
			ns.speed[i] = s.speed
		}
	}
	for i := range ns.speed {
		target := s.speed
		if ns.swinging[i] > 0 {
			target = math.Min(target, s.jitter*s.speedEfficiency*ns.traction[i]/ns.swinging[i])
		}
		ns.speed[i] += math.Min(target-ns.speed[i], s.opts.MaxSpeedRise*ns.speed[i])
	}
}

// integrate turns forces into displacements and rolls the current forces
// into the previous-force slots.
//
// Each node moves along its net force scaled by speed/(1+sqrt(speed*swing)),
// where swing is the node's mass-weighted swinging. Oscillating nodes are
// damped harder than stable ones.
func (s *Simulation) integrate() {
	ns := &s.nodes
	for i := range ns.x {
		speed := s.speed
		if ns.speed != nil {
			speed = ns.speed[i]
		}
		swing := ns.mass[i] * ns.swinging[i]
		factor := speed / (1 + math.Sqrt(speed*swing))

		dx, dy := ns.fx[i]*factor, ns.fy[i]*factor
		if s.opts.PreventOverlapping {
			dx, dy = s.clampOverlap(i, dx*overlapSpeedScale, dy*overlapSpeedScale)
		}
		ns.x[i] += dx
		ns.y[i] += dy
	}
	copy(ns.oldFx, ns.fx)
	copy(ns.oldFy, ns.fy)
}

// clampOverlap is the best-effort overlap guard. It caps the step length at
// MaxOverlapStep and shortens steps that would close more than half of the
// free gap to a graph neighbour. Neighbours move in the same iteration, so
// overlaps can still occur; this is a soft clamp, not collision resolution.
func (s *Simulation) clampOverlap(i int, dx, dy float64) (float64, float64) {
	ns := &s.nodes
	step := math.Sqrt(dx*dx + dy*dy)
	if step == 0 {
		return 0, 0
	}
	if step > s.opts.MaxOverlapStep {
		scale := s.opts.MaxOverlapStep / step
		dx, dy = dx*scale, dy*scale
	}
	for _, j := range s.adj.neighbors(i) {
		ox, oy := ns.x[j]-ns.x[i], ns.y[j]-ns.y[i]
		dist := math.Sqrt(ox*ox + oy*oy)
		gap := dist - ns.size[i] - ns.size[j]
		if gap <= 0 || dist == 0 {
			continue
		}
		// Only the component of the step pointing at j can close the gap.
		approach := (dx*ox + dy*oy) / dist
		if limit := gap / 2; approach > limit {
			scale := limit / approach
			dx, dy = dx*scale, dy*scale
		}
	}
	return dx, dy
}
