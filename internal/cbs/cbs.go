// Package cbs implements the admissible Conflict-Based Search high level
// (§4.4): a best-first search over a constraint tree whose nodes each own
// one joint solution and one per-agent constraint list, generalized from
// the teacher's internal/algo/cbs.go (heterogeneous-fleet task scheduling)
// down to this spec's plain per-agent start/goal planning.
package cbs

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
	ID         geom.AgentID
	Start, Goal geom.Point
}

// Solution is the joint, conflict-free plan CBS returns.
type Solution struct {
	Paths map[geom.AgentID]geom.Path
	Cost  int
}

// ctNode is one constraint-tree node (§3's "Constraint-tree node" entity).
type ctNode struct {
	constraints []constraint.Constraint
	solution    map[geom.AgentID]geom.Path
	cost        int
	index       int
}

type ctHeap []*ctNode

func (h ctHeap) Len() int           { return len(h) }
func (h ctHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h ctHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *ctHeap) Push(x any) {
	n := x.(*ctNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *ctHeap) Pop() any {
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

// CBS holds one low-level planner per agent, reused across every CT node's
// replans — each planner is stateless across calls except for the fixed
// start/goal/environment it was constructed with.
type CBS struct {
	agents   []Agent
	planners map[geom.AgentID]*planner.SpaceTimeAStar
	metrics  *obsmetrics.Metrics
}

// WithMetrics attaches a metrics recorder; every subsequent Plan call
// increments its counters. Optional — a nil recorder is a safe no-op.
func (c *CBS) WithMetrics(m *obsmetrics.Metrics) *CBS {
	c.metrics = m
	return c
}

// New validates the scenario and builds one optimal low-level planner per
// agent (§4.2's construction-time validation).
func New(env *geom.Environment, agents []Agent) (*CBS, error) {
	if len(agents) == 0 {
		return nil, mapferr.Configf("cbs.New", "at least one agent is required")
	}
	planners := make(map[geom.AgentID]*planner.SpaceTimeAStar, len(agents))
	for _, a := range agents {
		p, err := planner.New(env, a.ID, a.Start, a.Goal)
		if err != nil {
			return nil, err
		}
		planners[a.ID] = p
	}
	return &CBS{agents: agents, planners: planners}, nil
}

// Plan runs CBS to completion and returns the optimal joint solution, or
// ok=false if no conflict-free joint plan exists (⊥, §4.4).
func (c *CBS) Plan() (Solution, bool) {
	if c.metrics != nil {
		timer := prometheus.NewTimer(c.metrics.SolveDuration)
		defer timer.ObserveDuration()
	}

	root := &ctNode{solution: make(map[geom.AgentID]geom.Path)}
	for _, a := range c.agents {
		path, ok := c.planners[a.ID].Plan(nil)
		if !ok {
			return Solution{}, false
		}
		root.solution[a.ID] = path
	}
	root.cost = pathCost(root.solution)

	open := &ctHeap{}
	heap.Init(open)
	heap.Push(open, root)

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*ctNode)
		expanded++
		if c.metrics != nil {
			c.metrics.NodesExpanded.Inc()
		}

		found := conflict.FindFirst(cur.solution)
		if found == nil {
			log.Info("cbs solved", "agents", len(c.agents), "nodesExpanded", expanded, "cost", cur.cost)
			return Solution{Paths: cur.solution, Cost: cur.cost}, true
		}
		log.Debug("cbs expand", "nodes", expanded, "cost", cur.cost, "agentA", found.AgentA, "agentB", found.AgentB)

		for _, agent := range []geom.AgentID{found.AgentA, found.AgentB} {
			child := &ctNode{
				constraints: append(append([]constraint.Constraint{}, cur.constraints...), found.ToConstraint(agent)),
				solution:    copySolution(cur.solution),
			}
			if c.metrics != nil {
				c.metrics.LowLevelReplans.Inc()
			}
			path, ok := c.planners[agent].Plan(child.constraints)
			if !ok {
				continue
			}
			child.solution[agent] = path
			child.cost = pathCost(child.solution)
			heap.Push(open, child)
		}
	}

	log.Info("cbs exhausted", "agents", len(c.agents), "nodesExpanded", expanded)
	return Solution{}, false
}

func copySolution(sol map[geom.AgentID]geom.Path) map[geom.AgentID]geom.Path {
	out := make(map[geom.AgentID]geom.Path, len(sol))
	for k, v := range sol {
		out[k] = v
	}
	return out
}
