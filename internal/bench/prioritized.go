// Package bench holds baselines used to evaluate CBS/ECBS against, and a
// small harness for comparing solver results on the same scenario. None of
// this is part of the coupled STA*/CBS core; it exists to let the CLI's
// `--algo prioritized` choice and benchmarking report something to compare
// the core's output against.
package bench

import (
	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
	"github.com/elektrokombinacija/mapf-grid-search/internal/planner"
)

// Agent names one search agent's start and goal cell, along with its fixed
// priority rank (lower Priority plans first and binds constraints on every
// later agent).
type Agent struct {
	ID          geom.AgentID
	Start, Goal geom.Point
	Priority    int
}

// Solution is the joint plan Prioritized returns. It carries no optimality
// or bounded-suboptimality guarantee: it is a cheap baseline, not a member
// of the core (§1).
type Solution struct {
	Paths map[geom.AgentID]geom.Path
	Cost  int
}

// Prioritized plans each agent once, in a fixed priority order, turning
// every already-committed path into vertex/edge constraints for every
// lower-priority agent. Grounded on the teacher's
// internal/algo/prioritized.go's "plan in priority order, accumulate
// constraints" shape, generalized from per-robot task-duration planning
// down to this spec's plain per-agent start/goal planning.
type Prioritized struct {
	agents []Agent
}

// New validates the scenario, sorts agents by ascending Priority, and
// checks each agent's start/goal by constructing its optimal low-level
// planner. The planners are not kept; Plan builds fresh ones.
func New(env *geom.Environment, agents []Agent) (*Prioritized, error) {
	if len(agents) == 0 {
		return nil, mapferr.Configf("bench.New", "at least one agent is required")
	}
	sorted := append([]Agent(nil), agents...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Priority > sorted[j].Priority; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	for _, a := range sorted {
		if _, err := planner.New(env, a.ID, a.Start, a.Goal); err != nil {
			return nil, err
		}
	}
	return &Prioritized{agents: sorted}, nil
}

// Plan runs prioritized planning once through the priority order. A
// lower-priority agent that cannot find a path under the higher-priority
// agents' committed constraints fails the whole run (§7's "no partial
// joint solutions" principle, applied here even though Prioritized is
// outside the admissible core).
func (p *Prioritized) Plan(env *geom.Environment) (Solution, bool) {
	solution := make(map[geom.AgentID]geom.Path, len(p.agents))
	var accumulated []constraint.Constraint

	for _, a := range p.agents {
		pl, err := planner.New(env, a.ID, a.Start, a.Goal)
		if err != nil {
			return Solution{}, false
		}
		path, ok := pl.Plan(accumulated)
		if !ok {
			return Solution{}, false
		}
		solution[a.ID] = path

		for _, other := range p.agents {
			if other.ID == a.ID {
				continue
			}
			for i, step := range path {
				accumulated = append(accumulated, constraint.NewVertex(other.ID, step.Cell, step.Time))
				if i > 0 {
					// forbid the reverse transition too, so a lower-priority
					// agent can't swap across the same edge this agent just
					// committed to crossing.
					accumulated = append(accumulated, constraint.NewEdge(other.ID, step.Cell, path[i-1].Cell, step.Time-1))
				}
			}
		}
	}

	// cost is Σ|P_a|, the path length in cells, matching cbs/ecbs's
	// convention so CompareCost and TestPrioritizedNeverBeatsOptimalCost
	// compare like with like.
	cost := 0
	for _, p := range solution {
		cost += len(p)
	}
	return Solution{Paths: solution, Cost: cost}, true
}
