package planner

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
)

// focalHeap orders candidate nodes by d-score, the focal search's secondary
// key (§4.3); f is the tie-break. Rebuilt from the Open slice on every
// iteration of Plan, the way the teacher's stochastic_ecbs.go rebuilds its
// ecbsFocalHeap from the Open slice every iteration rather than maintaining
// incremental membership.
type focalHeap []*node

func (h focalHeap) Len() int { return len(h) }
func (h focalHeap) Less(i, j int) bool {
	if h[i].dScore != h[j].dScore {
		return h[i].dScore < h[j].dScore
	}
	return h[i].f < h[j].f
}
func (h focalHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *focalHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *focalHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Epsilon is the bounded-suboptimal focal single-agent low level (§4.3),
// used by ECBS's root and by every ECBS child replan.
type Epsilon struct {
	env         *geom.Environment
	agent       geom.AgentID
	start, goal geom.Point
	w           float64
	tMax        int
}

// NewEpsilon validates start/goal exactly as New does, and additionally
// requires w >= 1.0 (w=1 reduces STA*-ε to the admissible planner, §4's
// GLOSSARY entry for w).
func NewEpsilon(env *geom.Environment, agent geom.AgentID, start, goal geom.Point, w float64) (*Epsilon, error) {
	if start.Dim != env.Dim || goal.Dim != env.Dim {
		return nil, mapferr.Configf("planner.NewEpsilon", "start/goal dimension must match environment dimension %d", env.Dim)
	}
	if !env.IsFree(start, 0) {
		return nil, mapferr.Configf("planner.NewEpsilon", "start point is not valid: %v", start)
	}
	if !env.IsFree(goal, 0) {
		return nil, mapferr.Configf("planner.NewEpsilon", "goal point is not valid: %v", goal)
	}
	if w < 1.0 {
		return nil, mapferr.Configf("planner.NewEpsilon", "suboptimality factor w must be >= 1.0, got %f", w)
	}
	return &Epsilon{env: env, agent: agent, start: start, goal: goal, w: w, tMax: horizon(env)}, nil
}

// Plan returns the path found and the f_min recorded at the moment it was
// selected (the lower-bound guarantee the high level relies on, §4.3), or
// ok=false if the horizon is exhausted first.
func (p *Epsilon) Plan(cs []constraint.Constraint) (path geom.Path, fMin int, ok bool) {
	mine := constraint.Filter(cs, p.agent)

	open := &astarHeap{}
	heap.Init(open)

	start := &node{state: geom.State{Cell: p.start, Time: 0}, g: 0, h: p.start.ManhattanDistance(p.goal)}
	start.f = start.h
	start.dScore = 0
	heap.Push(open, start)

	best := map[geom.State]*node{start.state: start}
	closed := make(map[geom.State]bool)

	for open.Len() > 0 {
		minF := (*open)[0].f
		focal := &focalHeap{}
		heap.Init(focal)
		for _, n := range *open {
			if float64(n.f) <= p.w*float64(minF) {
				heap.Push(focal, n)
			}
		}

		cur := heap.Pop(focal).(*node)
		removeFromOpen(open, cur)
		closed[cur.state] = true

		if cur.state.Cell == p.goal && holdsGoal(p.env, mine, p.goal, cur.state.Time) {
			return reconstruct(cur), minF, true
		}
		if cur.state.Time >= p.tMax {
			continue
		}

		for _, succ := range p.successors(cur, mine) {
			if closed[succ.state] {
				continue
			}
			succ.dScore = p.dScore(cur, succ)
			if existing, ok := best[succ.state]; ok {
				if existing.g <= succ.g {
					continue
				}
				existing.g, existing.f, existing.h, existing.parent, existing.dScore = succ.g, succ.f, succ.h, cur, succ.dScore
				heap.Fix(open, existing.index)
				continue
			}
			best[succ.state] = succ
			heap.Push(open, succ)
		}
	}

	return nil, 0, false
}

// successors enumerates the same move-or-wait transitions as
// SpaceTimeAStar.successors.
func (p *Epsilon) successors(cur *node, cs []constraint.Constraint) []*node {
	base := SpaceTimeAStar{env: p.env, agent: p.agent, start: p.start, goal: p.goal, tMax: p.tMax}
	return base.successors(cur, cs)
}

// removeFromOpen deletes n from open by heap.Remove at its current index.
func removeFromOpen(open *astarHeap, n *node) {
	heap.Remove(open, n.index)
}

// dScore computes the focal secondary key for a candidate successor: the
// count of vertex- and edge-focal conflicts it induces against the
// reservation table (§4.3), mirroring original_source's
// stastar_epsilon.py focal_vertex_heuristic/focal_edge_heuristic, evaluated
// once at node-generation time (§3's SUPPLEMENTED FEATURES decision: the
// reservation table cannot change mid-call, so this cached value never goes
// stale within one Plan invocation).
func (p *Epsilon) dScore(parent, n *node) int {
	count := 0
	for agent, path := range p.env.Reservation {
		if agent == p.agent {
			continue
		}
		if path.AtTime(n.state.Time) == n.state.Cell {
			count++
		}
		if len(path) > n.state.Time {
			otherPrev := path.AtTime(n.state.Time - 1)
			otherNext := path.AtTime(n.state.Time)
			if otherPrev == n.state.Cell && otherNext == parent.state.Cell {
				count++
			}
		}
	}
	return count
}
