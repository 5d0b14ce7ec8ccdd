package bench

import (
	"testing"

	"github.com/elektrokombinacija/mapf-grid-search/internal/cbs"
	"github.com/elektrokombinacija/mapf-grid-search/internal/conflict"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
)

func grid(n int) *geom.Environment {
	env, err := geom.NewEnvironment(2, []int{n, n}, nil)
	if err != nil {
		panic(err)
	}
	return env
}

func TestPrioritizedSingleAgentMatchesOptimal(t *testing.T) {
	env := grid(5)
	p, err := New(env, []Agent{{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(4, 4), Priority: 0}})
	if err != nil {
		t.Fatal(err)
	}
	sol, ok := p.Plan(env)
	if !ok {
		t.Fatal("expected a solution")
	}
	if sol.Cost != 9 {
		t.Errorf("expected cost 9 on an empty grid, got %d", sol.Cost)
	}
}

func TestPrioritizedProducesConflictFreeSolution(t *testing.T) {
	env := grid(3)
	agents := []Agent{
		{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(2, 0), Priority: 0},
		{ID: 1, Start: geom.NewPoint2D(2, 0), Goal: geom.NewPoint2D(0, 0), Priority: 1},
	}
	p, err := New(env, agents)
	if err != nil {
		t.Fatal(err)
	}
	sol, ok := p.Plan(env)
	if !ok {
		t.Fatal("expected a solution")
	}
	if conflict.FindFirst(sol.Paths) != nil {
		t.Error("expected a conflict-free joint solution")
	}
}

func TestPrioritizedNeverBeatsOptimalCost(t *testing.T) {
	env := grid(4)
	cbsAgents := []cbs.Agent{
		{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(3, 0)},
		{ID: 1, Start: geom.NewPoint2D(3, 0), Goal: geom.NewPoint2D(0, 0)},
		{ID: 2, Start: geom.NewPoint2D(0, 3), Goal: geom.NewPoint2D(3, 3)},
	}
	optimalSolver, err := cbs.New(env, cbsAgents)
	if err != nil {
		t.Fatal(err)
	}
	optimal, ok := optimalSolver.Plan()
	if !ok {
		t.Fatal("expected the optimal solver to find a solution")
	}

	benchAgents := []Agent{
		{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(3, 0), Priority: 0},
		{ID: 1, Start: geom.NewPoint2D(3, 0), Goal: geom.NewPoint2D(0, 0), Priority: 1},
		{ID: 2, Start: geom.NewPoint2D(0, 3), Goal: geom.NewPoint2D(3, 3), Priority: 2},
	}
	p, err := New(env, benchAgents)
	if err != nil {
		t.Fatal(err)
	}
	prioritized, ok := p.Plan(env)
	if !ok {
		t.Fatal("expected prioritized planning to find a solution")
	}
	if prioritized.Cost < optimal.Cost {
		t.Errorf("prioritized cost %d beat the optimal cost %d, which cannot happen", prioritized.Cost, optimal.Cost)
	}
}
