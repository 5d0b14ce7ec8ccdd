// Package planner implements the single-agent Space-Time A* search (§4.2)
// and its focal, bounded-suboptimal variant (§4.3). It plays the role the
// teacher's internal/algo/astar.go plays for continuous-space fleets,
// generalized to the fixed discrete grid and the reservation-table d-score
// this spec defines, and kept to the same container/heap priority-queue
// idiom the teacher uses throughout internal/algo.
package planner

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
)

// node is a single low-level search vertex, identified by (cell, time).
type node struct {
	state  geom.State
	g, h, f int
	dScore int // focal variants only
	parent *node
	index  int // heap index
}

// astarHeap orders by admissible f, the optimal planner's only queue.
type astarHeap []*node

func (h astarHeap) Len() int            { return len(h) }
func (h astarHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// SpaceTimeAStar is the optimal single-agent low level (§4.2). One instance
// is built per agent per scenario and reused across CBS replans with
// different constraint sets.
type SpaceTimeAStar struct {
	env          *geom.Environment
	agent        geom.AgentID
	start, goal  geom.Point
	tMax         int
}

// New validates start/goal against env and constructs an optimal planner for
// agent. Invalid start/goal cells (out of bounds, or colliding with an
// obstacle at t=0) are configuration errors raised here, not during Plan
// (§4.2's failure semantics; original_source's stastar.py __init__ checks).
func New(env *geom.Environment, agent geom.AgentID, start, goal geom.Point) (*SpaceTimeAStar, error) {
	if start.Dim != env.Dim || goal.Dim != env.Dim {
		return nil, mapferr.Configf("planner.New", "start/goal dimension must match environment dimension %d", env.Dim)
	}
	if !env.IsFree(start, 0) {
		return nil, mapferr.Configf("planner.New", "start point is not valid: %v", start)
	}
	if !env.IsFree(goal, 0) {
		return nil, mapferr.Configf("planner.New", "goal point is not valid: %v", goal)
	}
	return &SpaceTimeAStar{
		env:   env,
		agent: agent,
		start: start,
		goal:  goal,
		tMax:  horizon(env),
	}, nil
}

// horizon computes T_max = |V| + max_finite_t + 1 (§4.2's termination
// bound, the "smallest bound that preserves completeness" the spec names).
func horizon(env *geom.Environment) int {
	return env.NumCells() + env.MaxFiniteHorizon() + 1
}

// Plan returns the minimum-length path for the agent under cs, or ok=false
// if none exists within the horizon (⊥, §4.2).
func (p *SpaceTimeAStar) Plan(cs []constraint.Constraint) (geom.Path, bool) {
	mine := constraint.Filter(cs, p.agent)

	open := &astarHeap{}
	heap.Init(open)

	start := &node{state: geom.State{Cell: p.start, Time: 0}, g: 0, h: p.start.ManhattanDistance(p.goal)}
	start.f = start.h
	heap.Push(open, start)

	best := map[geom.State]int{start.state: 0}
	closed := make(map[geom.State]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.state] {
			continue
		}
		closed[cur.state] = true

		if cur.state.Cell == p.goal && holdsGoal(p.env, mine, p.goal, cur.state.Time) {
			return reconstruct(cur), true
		}
		if cur.state.Time >= p.tMax {
			continue
		}

		for _, succ := range p.successors(cur, mine) {
			if closed[succ.state] {
				continue
			}
			if g, ok := best[succ.state]; ok && g <= succ.g {
				continue
			}
			best[succ.state] = succ.g
			heap.Push(open, succ)
		}
	}

	return nil, false
}

// successors enumerates the legal (move or wait) transitions out of cur
// under cs (§4.2's state-space definition).
func (p *SpaceTimeAStar) successors(cur *node, cs []constraint.Constraint) []*node {
	nextT := cur.state.Time + 1
	candidates := append(cur.state.Cell.Neighbors(), cur.state.Cell) // moves, then wait
	var out []*node
	for _, next := range candidates {
		if !p.env.IsFree(next, nextT) {
			continue
		}
		if !constraint.AllowsMove(cs, p.agent, cur.state.Cell, next, cur.state.Time) {
			continue
		}
		g := cur.g + 1
		h := next.ManhattanDistance(p.goal)
		out = append(out, &node{
			state:  geom.State{Cell: next, Time: nextT},
			g:      g,
			h:      h,
			f:      g + h,
			parent: cur,
		})
	}
	return out
}

// holdsGoal reports whether an agent that reaches goal at time t can stay
// there for good: no obstacle and no vertex constraint blocks goal later.
func holdsGoal(env *geom.Environment, cs []constraint.Constraint, goal geom.Point, t int) bool {
	for _, o := range env.Obstacles {
		if o.Cell == goal && (o.Kind == geom.Static || o.TEnd == geom.PersistentEnd || o.TEnd > t) {
			return false
		}
	}
	for _, c := range cs {
		if c.Kind == constraint.Vertex && c.Cell == goal && c.Time > t {
			return false
		}
	}
	return true
}

func reconstruct(n *node) geom.Path {
	var path geom.Path
	for cur := n; cur != nil; cur = cur.parent {
		path = append(geom.Path{{Cell: cur.state.Cell, Time: cur.state.Time}}, path...)
	}
	return path
}
