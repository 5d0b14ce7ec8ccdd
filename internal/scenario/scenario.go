// Package scenario loads a MAPF instance from YAML (§6's configuration
// record) into the typed Environment/agent inputs the core consumes. The
// CORE packages (geom, planner, cbs, ecbs) never parse YAML themselves —
// that boundary responsibility lives entirely here, grounded on the
// teacher's habit of keeping the algorithm packages free of I/O and
// pushing config parsing out to a loader the way a cmd entry point would.
package scenario

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
)

// DynamicObstacleConfig is the YAML shape of one dynamic obstacle: a cell
// plus a [t_start, t_end] window, t_end = -1 meaning persistent (§6).
type DynamicObstacleConfig struct {
	Cell    []int `yaml:"cell"`
	TStart  int   `yaml:"t_start"`
	TEnd    int   `yaml:"t_end"`
}

// Config is the raw, untyped-points YAML record (§6's table), deserialized
// directly by yaml.v3 before Build validates and converts it.
type Config struct {
	Dimension        int                      `yaml:"dimension"`
	SpaceLimits      []int                    `yaml:"space_limits"`
	StaticObstacles  [][]int                  `yaml:"static_obstacles"`
	DynamicObstacles []DynamicObstacleConfig  `yaml:"dynamic_obstacles"`
	StartPoints      [][]int                  `yaml:"start_points"`
	GoalPoints       [][]int                  `yaml:"goal_points"`
	W                *float64                 `yaml:"w"`
}

// Load reads and parses a scenario YAML file. Read and parse failures
// (missing file, malformed YAML) are returned as ConfigurationErrors;
// semantic validation happens in Build.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapferr.Configf("scenario.Load", "reading %s: %v", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, mapferr.Configf("scenario.Load", "parsing %s: %v", path, err)
	}
	return &cfg, nil
}

// Instance is the validated, typed scenario Build produces: an Environment
// plus the per-agent start/goal cells in scenario order.
type Instance struct {
	Env    *geom.Environment
	Starts []geom.Point
	Goals  []geom.Point
	W      float64 // 1.0 if the scenario didn't set one
}

func toPoint(dim int, coords []int) (geom.Point, error) {
	switch dim {
	case 2:
		if len(coords) != 2 {
			return geom.Point{}, mapferr.Configf("scenario.Build", "expected 2 coordinates, got %v", coords)
		}
		return geom.NewPoint2D(coords[0], coords[1]), nil
	case 3:
		if len(coords) != 3 {
			return geom.Point{}, mapferr.Configf("scenario.Build", "expected 3 coordinates, got %v", coords)
		}
		return geom.NewPoint3D(coords[0], coords[1], coords[2]), nil
	default:
		return geom.Point{}, mapferr.Configf("scenario.Build", "dimension must be 2 or 3, got %d", dim)
	}
}

// Build validates cfg and converts it into an Instance, before any planner
// is constructed. It reports dimension mismatches, mismatched start/goal
// lengths and a w below 1.0 as ConfigurationErrors. A missing w is not an
// error here: Build sets W to 1.0, whichever solver will run.
func Build(cfg *Config) (*Instance, error) {
	if len(cfg.StartPoints) != len(cfg.GoalPoints) {
		return nil, mapferr.Configf("scenario.Build", "start_points and goal_points length mismatch: %d != %d", len(cfg.StartPoints), len(cfg.GoalPoints))
	}

	var obstacles []geom.Obstacle
	for _, coords := range cfg.StaticObstacles {
		p, err := toPoint(cfg.Dimension, coords)
		if err != nil {
			return nil, err
		}
		obstacles = append(obstacles, geom.NewStaticObstacle(p))
	}
	for _, d := range cfg.DynamicObstacles {
		p, err := toPoint(cfg.Dimension, d.Cell)
		if err != nil {
			return nil, err
		}
		obstacles = append(obstacles, geom.NewDynamicObstacle(p, d.TStart, d.TEnd))
	}

	env, err := geom.NewEnvironment(cfg.Dimension, cfg.SpaceLimits, obstacles)
	if err != nil {
		return nil, err
	}

	starts := make([]geom.Point, len(cfg.StartPoints))
	for i, coords := range cfg.StartPoints {
		p, err := toPoint(cfg.Dimension, coords)
		if err != nil {
			return nil, err
		}
		starts[i] = p
	}
	goals := make([]geom.Point, len(cfg.GoalPoints))
	for i, coords := range cfg.GoalPoints {
		p, err := toPoint(cfg.Dimension, coords)
		if err != nil {
			return nil, err
		}
		goals[i] = p
	}

	w := 1.0
	if cfg.W != nil {
		if *cfg.W < 1.0 {
			return nil, mapferr.Configf("scenario.Build", "w must be >= 1.0, got %f", *cfg.W)
		}
		w = *cfg.W
	}

	return &Instance{Env: env, Starts: starts, Goals: goals, W: w}, nil
}
