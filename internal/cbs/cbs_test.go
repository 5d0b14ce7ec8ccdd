package cbs

import (
	"testing"

	"github.com/elektrokombinacija/mapf-grid-search/internal/conflict"
	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
)

func grid(n int, obstacles []geom.Obstacle) *geom.Environment {
	env, err := geom.NewEnvironment(2, []int{n, n}, obstacles)
	if err != nil {
		panic(err)
	}
	return env
}

// Scenario 1 (§8): 5x5 empty, one agent (0,0)->(4,4). Expect |P| == 9.
func TestSingleAgentEmptyGridOptimalLength(t *testing.T) {
	env := grid(5, nil)
	c, err := New(env, []Agent{{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(4, 4)}})
	if err != nil {
		t.Fatal(err)
	}
	sol, ok := c.Plan()
	if !ok {
		t.Fatal("expected a solution")
	}
	if len(sol.Paths[0]) != 9 {
		t.Errorf("expected a 9-step path, got %d", len(sol.Paths[0]))
	}
}

// Scenario 2 (§8): agent boxed in by its four neighbors plus a persistent
// dynamic obstacle on its own start/goal cell. Expect ⊥.
func TestSingleAgentBoxedInReturnsInfeasible(t *testing.T) {
	env := grid(5, []geom.Obstacle{
		geom.NewStaticObstacle(geom.NewPoint2D(1, 2)),
		geom.NewStaticObstacle(geom.NewPoint2D(3, 2)),
		geom.NewStaticObstacle(geom.NewPoint2D(2, 1)),
		geom.NewStaticObstacle(geom.NewPoint2D(2, 3)),
		geom.NewDynamicObstacle(geom.NewPoint2D(2, 2), 1, geom.PersistentEnd),
	})
	c, err := New(env, []Agent{{ID: 0, Start: geom.NewPoint2D(2, 2), Goal: geom.NewPoint2D(2, 2)}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Plan(); ok {
		t.Fatal("expected infeasibility for a boxed-in agent")
	}
}

// Scenario 3 (§8): start == goal, expect a length-1 path.
func TestSingleAgentZeroLengthPath(t *testing.T) {
	env := grid(5, nil)
	c, err := New(env, []Agent{{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(0, 0)}})
	if err != nil {
		t.Fatal(err)
	}
	sol, ok := c.Plan()
	if !ok {
		t.Fatal("expected a solution")
	}
	if len(sol.Paths[0]) != 1 {
		t.Fatalf("expected a length-1 path, got %d", len(sol.Paths[0]))
	}
}

// Scenario 4 (§8): two agents swapping across a 3x3 grid must not be given
// a swapping solution; CBS forces a detour through y=1 for one of them.
func TestTwoAgentSwapForcesDetour(t *testing.T) {
	env := grid(3, nil)
	c, err := New(env, []Agent{
		{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(2, 0)},
		{ID: 1, Start: geom.NewPoint2D(2, 0), Goal: geom.NewPoint2D(0, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	sol, ok := c.Plan()
	if !ok {
		t.Fatal("expected a solution")
	}
	if len(sol.Paths[0]) < 4 && len(sol.Paths[1]) < 4 {
		t.Error("expected at least one agent to detour (path length >= 4)")
	}
	if conflict.FindFirst(sol.Paths) != nil {
		t.Error("expected a conflict-free joint solution")
	}
}

// Scenario 6 (§8): a vertex constraint on the optimal straight path forces a
// two-step-longer detour and the returned path must avoid the constrained
// (cell, time). Exercised directly against the low-level planner cbs.New
// wires up, since the constraint in the scenario is supplied externally
// rather than discovered by branching.
func TestVertexConstraintRoundTrip(t *testing.T) {
	env := grid(10, nil)
	c, err := New(env, []Agent{{ID: 0, Start: geom.NewPoint2D(0, 0), Goal: geom.NewPoint2D(9, 0)}})
	if err != nil {
		t.Fatal(err)
	}
	unconstrained, ok := c.planners[0].Plan(nil)
	if !ok {
		t.Fatal("expected an unconstrained plan to succeed")
	}

	cs := []constraint.Constraint{constraint.NewVertex(0, geom.NewPoint2D(5, 0), 5)}
	constrained, ok := c.planners[0].Plan(cs)
	if !ok {
		t.Fatal("expected a constrained plan to still succeed")
	}
	for _, step := range constrained {
		if step.Cell == geom.NewPoint2D(5, 0) && step.Time == 5 {
			t.Fatal("constrained path must not contain the forbidden (cell, time)")
		}
	}
	if len(constrained) != len(unconstrained)+2 {
		t.Errorf("expected the detour to add exactly 2 steps, got %d vs %d", len(constrained), len(unconstrained))
	}
}
