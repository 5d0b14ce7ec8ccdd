// Package ecbs implements the weighted, bounded-suboptimal high level
// (§4.5): focal search over the constraint tree on top of §4.4's CBS
// shape, using the focal single-agent planner and the reservation-table
// discipline of §4.6. Grounded on the teacher's
// internal/algo/stochastic_ecbs.go open/focal heap-pair idiom, generalized
// from its LogNormal-duration deadline model down to this spec's plain
// cost/lower_bound/focal_heuristic bookkeeping.
package ecbs

import (
	"container/heap"

	"github.com/elektrokombinacija/mapf-grid-search/internal/conflict"
	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
	"github.com/elektrokombinacija/mapf-grid-search/internal/obsmetrics"
	"github.com/elektrokombinacija/mapf-grid-search/internal/planner"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Agent names one search agent's start and goal cell.
type Agent struct {
	ID          geom.AgentID
	Start, Goal geom.Point
}

// Solution is the joint plan ECBS returns, bounded within w of optimal.
type Solution struct {
	Paths          map[geom.AgentID]geom.Path
	Cost           int
	MinLowerBound  int
}

// ctNode is one ECBS constraint-tree node (§3, with ECBS's extra fields).
type ctNode struct {
	constraints    []constraint.Constraint
	solution       map[geom.AgentID]geom.Path
	fMins          map[geom.AgentID]int
	cost           int
	lowerBound     int
	focalHeuristic int
	index          int // open heap index
}

// openHeap orders by lowerBound, ECBS's admissible bound (§4.5).
type openHeap []*ctNode

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].lowerBound < h[j].lowerBound }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x any) {
	n := x.(*ctNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// focalHeap orders by focalHeuristic (conflict count), ties by cost —
// ECBS's high-level secondary key (§4.5). Rebuilt each iteration from the
// Open slice, the same pattern the teacher's stochastic_ecbs.go uses for
// its ecbsFocalHeap.
type focalHeap []*ctNode

func (h focalHeap) Len() int { return len(h) }
func (h focalHeap) Less(i, j int) bool {
	if h[i].focalHeuristic != h[j].focalHeuristic {
		return h[i].focalHeuristic < h[j].focalHeuristic
	}
	return h[i].cost < h[j].cost
}
func (h focalHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *focalHeap) Push(x any)  { *h = append(*h, x.(*ctNode)) }
func (h *focalHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// pathCost is Σ|P_a|, the path length in cells (§4.4's root-cost
// definition), not the step count.
func pathCost(sol map[geom.AgentID]geom.Path) int {
	total := 0
	for _, p := range sol {
		total += len(p)
	}
	return total
}

// lowerBound sums each agent's admissible f_min, converted from the low
// level's step-count convention (g, h in moves) to the same Σ|P_a| units
// pathCost reports, so cost <= w*lowerBound compares like with like.
func lowerBound(fMins map[geom.AgentID]int) int {
	total := 0
	for _, f := range fMins {
		total += f + 1
	}
	return total
}

// ECBS holds one focal low-level planner per agent plus the shared
// environment whose reservation table it mutates between replans.
type ECBS struct {
	env      *geom.Environment
	agents   []Agent
	planners map[geom.AgentID]*planner.Epsilon
	w        float64
	metrics  *obsmetrics.Metrics
}

// WithMetrics attaches a metrics recorder; every subsequent Plan call
// increments its counters. Optional — a nil recorder is a safe no-op.
func (e *ECBS) WithMetrics(m *obsmetrics.Metrics) *ECBS {
	e.metrics = m
	return e
}

// New validates the scenario (including w >= 1.0) and builds one focal
// low-level planner per agent.
func New(env *geom.Environment, agents []Agent, w float64) (*ECBS, error) {
	if len(agents) == 0 {
		return nil, mapferr.Configf("ecbs.New", "at least one agent is required")
	}
	if w < 1.0 {
		return nil, mapferr.Configf("ecbs.New", "suboptimality factor w must be >= 1.0, got %f", w)
	}
	planners := make(map[geom.AgentID]*planner.Epsilon, len(agents))
	for _, a := range agents {
		p, err := planner.NewEpsilon(env, a.ID, a.Start, a.Goal, w)
		if err != nil {
			return nil, err
		}
		planners[a.ID] = p
	}
	return &ECBS{env: env, agents: agents, planners: planners, w: w}, nil
}

// Plan runs ECBS to completion and returns a joint solution whose cost is
// within w of optimal, or ok=false if none exists (§4.5's guarantee).
func (e *ECBS) Plan() (Solution, bool) {
	if e.metrics != nil {
		timer := prometheus.NewTimer(e.metrics.SolveDuration)
		defer timer.ObserveDuration()
	}

	root := &ctNode{
		solution: make(map[geom.AgentID]geom.Path),
		fMins:    make(map[geom.AgentID]int),
	}
	for _, a := range e.agents {
		path, fMin, ok := e.planners[a.ID].Plan(nil)
		if !ok {
			return Solution{}, false
		}
		root.solution[a.ID] = path
		root.fMins[a.ID] = fMin
		e.env.SetReservation(a.ID, path)
	}
	root.cost = pathCost(root.solution)
	root.lowerBound = lowerBound(root.fMins)
	root.focalHeuristic = len(conflict.FindAll(root.solution))

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, root)
	minLowerBound := root.lowerBound

	expanded := 0
	for open.Len() > 0 {
		newMin := (*open)[0].lowerBound
		for _, n := range *open {
			if n.lowerBound < newMin {
				newMin = n.lowerBound
			}
		}
		minLowerBound = newMin

		focal := &focalHeap{}
		heap.Init(focal)
		for _, n := range *open {
			if float64(n.cost) <= e.w*float64(minLowerBound) {
				heap.Push(focal, n)
			}
		}
		if focal.Len() == 0 {
			// every Open node sits above the current band; widen by taking
			// the admissible minimum directly (degenerates to CBS for this
			// step only).
			heap.Push(focal, (*open)[0])
		}

		cur := heap.Pop(focal).(*ctNode)
		heap.Remove(open, cur.index)
		expanded++
		if e.metrics != nil {
			e.metrics.NodesExpanded.Inc()
		}

		found := conflict.FindFirst(cur.solution)
		if found == nil {
			log.Info("ecbs solved", "agents", len(e.agents), "nodesExpanded", expanded, "cost", cur.cost, "minLowerBound", minLowerBound)
			return Solution{Paths: cur.solution, Cost: cur.cost, MinLowerBound: minLowerBound}, true
		}
		log.Debug("ecbs expand", "nodes", expanded, "cost", cur.cost, "lowerBound", cur.lowerBound, "focalHeuristic", cur.focalHeuristic)

		// The table is global and was last left however the previously
		// expanded node's replans happened to leave it. Reload it with
		// cur's own joint solution before branching, so each child's
		// replan computes its focal d-score (§4.6) against cur's
		// in-progress solution rather than a foreign mix of paths from
		// whatever sibling was processed before cur.
		for id, path := range cur.solution {
			e.env.SetReservation(id, path)
		}

		for _, agent := range []geom.AgentID{found.AgentA, found.AgentB} {
			child := &ctNode{
				constraints: append(append([]constraint.Constraint{}, cur.constraints...), found.ToConstraint(agent)),
				solution:    copySolution(cur.solution),
				fMins:       copyFMins(cur.fMins),
			}

			// The table is global, shared across the sibling children of
			// cur: clearing and overwriting agent's slot here deliberately
			// leaves a failed replan's slot empty rather than restored, the
			// same sequential-mutation behavior the original ecbs.py has
			// (reservation_table[agent_id] = [] is only overwritten on a
			// successful plan).
			if e.metrics != nil {
				e.metrics.LowLevelReplans.Inc()
			}
			e.env.ClearReservation(agent)
			path, fMin, ok := e.planners[agent].Plan(child.constraints)
			if !ok {
				continue
			}
			e.env.SetReservation(agent, path)

			child.solution[agent] = path
			child.fMins[agent] = fMin
			child.cost = pathCost(child.solution)
			child.lowerBound = lowerBound(child.fMins)
			child.focalHeuristic = len(conflict.FindAll(child.solution))

			heap.Push(open, child)
		}
	}

	log.Info("ecbs exhausted", "agents", len(e.agents), "nodesExpanded", expanded)
	return Solution{}, false
}

func copySolution(sol map[geom.AgentID]geom.Path) map[geom.AgentID]geom.Path {
	out := make(map[geom.AgentID]geom.Path, len(sol))
	for k, v := range sol {
		out[k] = v
	}
	return out
}

func copyFMins(f map[geom.AgentID]int) map[geom.AgentID]int {
	out := make(map[geom.AgentID]int, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
