package planner

import (
	"testing"

	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
)

func grid(n int) *geom.Environment {
	env, err := geom.NewEnvironment(2, []int{n, n}, nil)
	if err != nil {
		panic(err)
	}
	return env
}

func TestPlanEmptyGridShortestPath(t *testing.T) {
	env := grid(5)
	p, err := New(env, 0, geom.NewPoint2D(0, 0), geom.NewPoint2D(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	path, ok := p.Plan(nil)
	if !ok {
		t.Fatal("expected a path on an empty 5x5 grid")
	}
	if len(path) != 9 {
		t.Fatalf("expected a 9-step path (|dx|+|dy|+1), got %d", len(path))
	}
	if path[0].Cell != geom.NewPoint2D(0, 0) || path[len(path)-1].Cell != geom.NewPoint2D(4, 4) {
		t.Errorf("path endpoints wrong: %v", path)
	}
}

func TestPlanBoxedInAgentFails(t *testing.T) {
	env, err := geom.NewEnvironment(2, []int{5, 5}, []geom.Obstacle{
		geom.NewStaticObstacle(geom.NewPoint2D(0, 1)),
		geom.NewStaticObstacle(geom.NewPoint2D(1, 0)),
		geom.NewStaticObstacle(geom.NewPoint2D(1, 1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(env, 0, geom.NewPoint2D(0, 0), geom.NewPoint2D(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Plan(nil); ok {
		t.Fatal("expected boxed-in agent to fail (bottom-up)")
	}
}

func TestPlanZeroLengthPath(t *testing.T) {
	env := grid(5)
	p, err := New(env, 0, geom.NewPoint2D(2, 2), geom.NewPoint2D(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	path, ok := p.Plan(nil)
	if !ok {
		t.Fatal("expected an immediate path when start == goal")
	}
	if len(path) != 1 {
		t.Fatalf("expected a single-step path when start == goal, got %d", len(path))
	}
}

func TestPlanInvalidStartIsConfigurationError(t *testing.T) {
	env, err := geom.NewEnvironment(2, []int{5, 5}, []geom.Obstacle{
		geom.NewStaticObstacle(geom.NewPoint2D(0, 0)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(env, 0, geom.NewPoint2D(0, 0), geom.NewPoint2D(4, 4)); err == nil {
		t.Fatal("expected a configuration error for an obstacle-occupied start cell")
	}
}

func TestPlanRespectsVertexConstraint(t *testing.T) {
	env := grid(3)
	p, err := New(env, 0, geom.NewPoint2D(0, 0), geom.NewPoint2D(2, 0))
	if err != nil {
		t.Fatal(err)
	}
	cs := []constraint.Constraint{constraint.NewVertex(0, geom.NewPoint2D(1, 0), 1)}
	path, ok := p.Plan(cs)
	if !ok {
		t.Fatal("expected a detour path to still exist")
	}
	for _, step := range path {
		if step.Cell == geom.NewPoint2D(1, 0) && step.Time == 1 {
			t.Fatal("path violates the vertex constraint")
		}
	}
}
