package fa2

import "math"

// quad is one square region of the Barnes-Hut tree. Leaves hold a linked
// list of bodies (normally at most one; more only when subdivision stopped
// at the depth or size floor). Internal quads own four consecutive children.
type quad struct {
	minX, minY float64
	side       float64

	mass   float64
	cx, cy float64
	count  int

	depth int
	child int // first of four children, -1 for a leaf
	body  int // head of the body list, -1 when empty
}

func (q *quad) isLeaf() bool { return q.child < 0 }

func (q *quad) contains(x, y float64) bool {
	return x >= q.minX && x <= q.minX+q.side && y >= q.minY && y <= q.minY+q.side
}

// quadtree is an arena of quads rebuilt from scratch every iteration.
// The arena and body links are reused between builds to avoid reallocating.
type quadtree struct {
	quads    []quad
	next     []int
	minSide  float64
	maxDepth int
}

func newQuadtree(minSide float64, maxDepth int) *quadtree {
	return &quadtree{minSide: minSide, maxDepth: maxDepth}
}

// build discards the previous tree and inserts every body.
func (t *quadtree) build(ns *nodes) {
	n := ns.len()
	t.quads = t.quads[:0]
	if cap(t.next) < n {
		t.next = make([]int, n)
	}
	t.next = t.next[:n]
	if n == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		minX = math.Min(minX, ns.x[i])
		maxX = math.Max(maxX, ns.x[i])
		minY = math.Min(minY, ns.y[i])
		maxY = math.Max(maxY, ns.y[i])
	}
	// Square bounds keep the subdivision isotropic.
	side := math.Max(maxX-minX, maxY-minY)
	if side < t.minSide {
		side = t.minSide
	}
	t.quads = append(t.quads, quad{minX: minX, minY: minY, side: side, child: -1, body: -1})

	for i := 0; i < n; i++ {
		t.insert(0, i, ns)
	}
}

// insert walks from quad q down to the leaf that receives body i, folding the
// body into the mass and centroid of every quad on the way.
func (t *quadtree) insert(q, i int, ns *nodes) {
	x, y, m := ns.x[i], ns.y[i], ns.mass[i]
	for {
		t.addBody(q, x, y, m)
		cur := t.quads[q]
		if !cur.isLeaf() {
			q = t.childFor(q, x, y)
			continue
		}
		if cur.body < 0 {
			t.quads[q].body = i
			t.next[i] = -1
			return
		}
		if cur.depth >= t.maxDepth || cur.side/2 < t.minSide {
			t.next[i] = cur.body
			t.quads[q].body = i
			return
		}

		t.subdivide(q)
		for b := cur.body; b >= 0; {
			nb := t.next[b]
			t.insert(t.childFor(q, ns.x[b], ns.y[b]), b, ns)
			b = nb
		}
		t.quads[q].body = -1
		q = t.childFor(q, x, y)
	}
}

func (t *quadtree) addBody(q int, x, y, m float64) {
	nd := &t.quads[q]
	total := nd.mass + m
	nd.cx = (nd.cx*nd.mass + x*m) / total
	nd.cy = (nd.cy*nd.mass + y*m) / total
	nd.mass = total
	nd.count++
}

// subdivide appends four children for q. Child k covers the quadrant with
// x-half k&1 and y-half k>>1.
func (t *quadtree) subdivide(q int) {
	parent := t.quads[q]
	half := parent.side / 2
	first := len(t.quads)
	for k := 0; k < 4; k++ {
		t.quads = append(t.quads, quad{
			minX:  parent.minX + float64(k&1)*half,
			minY:  parent.minY + float64(k>>1)*half,
			side:  half,
			depth: parent.depth + 1,
			child: -1,
			body:  -1,
		})
	}
	t.quads[q].child = first
}

func (t *quadtree) childFor(q int, x, y float64) int {
	nd := &t.quads[q]
	half := nd.side / 2
	k := 0
	if x >= nd.minX+half {
		k |= 1
	}
	if y >= nd.minY+half {
		k |= 2
	}
	return nd.child + k
}

// repulsion returns the approximate repulsive force on node i. A region is
// collapsed into a single body at its centroid when side/distance < theta
// and it does not contain node i itself; otherwise its children are visited.
// stack is scratch space owned by the caller and returned for reuse.
func (t *quadtree) repulsion(i int, ns *nodes, law *forceLaw, theta float64, stack []int) (fx, fy float64, _ []int) {
	if len(t.quads) == 0 {
		return 0, 0, stack
	}
	xi, yi := ns.x[i], ns.y[i]
	stack = append(stack[:0], 0)
	for len(stack) > 0 {
		q := &t.quads[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if q.count == 0 {
			continue
		}
		if q.isLeaf() {
			for b := q.body; b >= 0; b = t.next[b] {
				if b == i {
					continue
				}
				dx, dy := law.nodeNode(ns, i, b)
				fx += dx
				fy += dy
			}
			continue
		}
		dx, dy := xi-q.cx, yi-q.cy
		dist := math.Sqrt(dx*dx + dy*dy)
		if q.side < theta*dist && !q.contains(xi, yi) {
			rx, ry := law.nodeRegion(ns, i, q.cx, q.cy, q.mass)
			fx += rx
			fy += ry
			continue
		}
		stack = append(stack, q.child, q.child+1, q.child+2, q.child+3)
	}
	return fx, fy, stack
}
