package bench

import "github.com/elektrokombinacija/mapf-grid-search/internal/geom"

// Report summarizes how one named solver performed on a scenario; two of
// them are compared by CompareCost.
type Report struct {
	Solver string
	Cost   int
	Feasible bool
}

// CompareCost returns the ratio of a baseline's cost to a reference
// (optimal) cost, useful for reporting how far Prioritized drifts from
// CBS's optimum on a given scenario. Returns 0 if the reference found no
// solution.
func CompareCost(baseline, reference Report) float64 {
	if !reference.Feasible || reference.Cost == 0 {
		return 0
	}
	return float64(baseline.Cost) / float64(reference.Cost)
}

// AgentsFromIDs is a small convenience constructor used by the CLI to
// build a bench.Agent slice from parallel start/goal slices in
// scenario order (priority == index).
func AgentsFromIDs(starts, goals []geom.Point) []Agent {
	agents := make([]Agent, len(starts))
	for i := range starts {
		agents[i] = Agent{ID: geom.AgentID(i), Start: starts[i], Goal: goals[i], Priority: i}
	}
	return agents
}
