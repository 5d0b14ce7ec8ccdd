package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
)

func TestBuildValidTwoAgentScenario(t *testing.T) {
	w := 1.5
	cfg := &Config{
		Dimension:   2,
		SpaceLimits: []int{5, 5},
		StartPoints: [][]int{{0, 0}, {4, 4}},
		GoalPoints:  [][]int{{4, 4}, {0, 0}},
		W:           &w,
	}
	inst, err := Build(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, len(inst.Starts))
	require.Equal(t, geom.NewPoint2D(0, 0), inst.Starts[0])
	require.Equal(t, 1.5, inst.W)
}

func TestBuildDefaultsWToOne(t *testing.T) {
	cfg := &Config{
		Dimension:   2,
		SpaceLimits: []int{5, 5},
		StartPoints: [][]int{{0, 0}},
		GoalPoints:  [][]int{{4, 4}},
	}
	inst, err := Build(cfg)
	require.NoError(t, err)
	require.Equal(t, 1.0, inst.W)
}

func TestBuildRejectsMismatchedAgentCounts(t *testing.T) {
	cfg := &Config{
		Dimension:   2,
		SpaceLimits: []int{5, 5},
		StartPoints: [][]int{{0, 0}, {1, 1}},
		GoalPoints:  [][]int{{4, 4}},
	}
	_, err := Build(cfg)
	require.Error(t, err)
}

func TestBuildRejectsWLessThanOne(t *testing.T) {
	w := 0.2
	cfg := &Config{
		Dimension:   2,
		SpaceLimits: []int{5, 5},
		StartPoints: [][]int{{0, 0}},
		GoalPoints:  [][]int{{4, 4}},
		W:           &w,
	}
	_, err := Build(cfg)
	require.Error(t, err)
}

func TestBuildParsesStaticAndDynamicObstacles(t *testing.T) {
	cfg := &Config{
		Dimension:       2,
		SpaceLimits:     []int{5, 5},
		StaticObstacles: [][]int{{2, 2}},
		DynamicObstacles: []DynamicObstacleConfig{
			{Cell: []int{1, 1}, TStart: 1, TEnd: geom.PersistentEnd},
		},
		StartPoints: [][]int{{0, 0}},
		GoalPoints:  [][]int{{4, 4}},
	}
	inst, err := Build(cfg)
	require.NoError(t, err)
	require.False(t, inst.Env.IsFree(geom.NewPoint2D(2, 2), 0))
	require.False(t, inst.Env.IsFree(geom.NewPoint2D(1, 1), 5))
	require.True(t, inst.Env.IsFree(geom.NewPoint2D(1, 1), 0))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/scenario.yaml")
	require.Error(t, err)
}
