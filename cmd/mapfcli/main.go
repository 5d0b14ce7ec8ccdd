// Command mapfcli runs the grid MAPF solvers against a scenario file or an
// embedded demo instance. Grounded on
// upside-down-research-agentic/cmd/agentic/main.go's kong.Parse/CLI-struct
// shape, and on the teacher's own cmd/mapfhet/main.go for the "build an
// instance, run every solver, print the comparison" demo pattern.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/elektrokombinacija/mapf-grid-search/internal/bench"
	"github.com/elektrokombinacija/mapf-grid-search/internal/cbs"
	"github.com/elektrokombinacija/mapf-grid-search/internal/ecbs"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
	"github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"
	"github.com/elektrokombinacija/mapf-grid-search/internal/obsmetrics"
	"github.com/elektrokombinacija/mapf-grid-search/internal/planner"
	"github.com/elektrokombinacija/mapf-grid-search/internal/scenario"
)

var cli struct {
	Solve SolveCommand `cmd:"" help:"Solve a scenario loaded from a YAML file."`
	Demo  DemoCommand  `cmd:"" help:"Run every solver against a small embedded scenario."`
}

// SolveCommand loads a scenario file and runs exactly one algorithm.
type SolveCommand struct {
	Scenario    string `arg:"" help:"Path to a scenario YAML file."`
	Algo        string `default:"cbs" help:"One of: sta, ecbs, cbs, prioritized."`
	MetricsAddr string `help:"If set, serve Prometheus metrics at this address while solving."`
}

func (s *SolveCommand) Run() error {
	cfg, err := scenario.Load(s.Scenario)
	if err != nil {
		return err
	}
	inst, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	var metrics *obsmetrics.Metrics
	if s.MetricsAddr != "" {
		metrics = obsmetrics.New()
		go func() {
			if err := http.ListenAndServe(s.MetricsAddr, metrics.Handler()); err != nil {
				log.Error("metrics server stopped", "error", err)
			}
		}()
	}

	switch s.Algo {
	case "sta":
		if len(inst.Starts) != 1 {
			return mapferr.Configf("mapfcli", "sta plans a single agent, got %d", len(inst.Starts))
		}
		p, err := planner.New(inst.Env, 0, inst.Starts[0], inst.Goals[0])
		if err != nil {
			return err
		}
		path, ok := p.Plan(nil)
		return printOrFail(path, ok)
	case "cbs":
		agents := make([]cbs.Agent, len(inst.Starts))
		for i := range inst.Starts {
			agents[i] = cbs.Agent{ID: geom.AgentID(i), Start: inst.Starts[i], Goal: inst.Goals[i]}
		}
		solver, err := cbs.New(inst.Env, agents)
		if err != nil {
			return err
		}
		if metrics != nil {
			solver = solver.WithMetrics(metrics)
		}
		sol, ok := solver.Plan()
		return printOrFail(sol, ok)
	case "ecbs":
		agents := make([]ecbs.Agent, len(inst.Starts))
		for i := range inst.Starts {
			agents[i] = ecbs.Agent{ID: geom.AgentID(i), Start: inst.Starts[i], Goal: inst.Goals[i]}
		}
		solver, err := ecbs.New(inst.Env, agents, inst.W)
		if err != nil {
			return err
		}
		if metrics != nil {
			solver = solver.WithMetrics(metrics)
		}
		sol, ok := solver.Plan()
		return printOrFail(sol, ok)
	case "prioritized":
		solver, err := bench.New(inst.Env, bench.AgentsFromIDs(inst.Starts, inst.Goals))
		if err != nil {
			return err
		}
		sol, ok := solver.Plan(inst.Env)
		return printOrFail(sol, ok)
	default:
		return fmt.Errorf("unknown algorithm %q", s.Algo)
	}
}

func printOrFail(sol any, ok bool) error {
	if !ok {
		fmt.Println("infeasible")
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}

// DemoCommand mirrors the teacher's createTestInstance/runSolvers shape:
// a small embedded scenario, every solver run against it, timings printed.
type DemoCommand struct{}

func (d *DemoCommand) Run() error {
	env, err := geom.NewEnvironment(2, []int{5, 5}, nil)
	if err != nil {
		return err
	}
	starts := []geom.Point{geom.NewPoint2D(0, 0), geom.NewPoint2D(4, 0)}
	goals := []geom.Point{geom.NewPoint2D(4, 4), geom.NewPoint2D(0, 4)}

	cbsAgents := make([]cbs.Agent, len(starts))
	ecbsAgents := make([]ecbs.Agent, len(starts))
	for i := range starts {
		cbsAgents[i] = cbs.Agent{ID: geom.AgentID(i), Start: starts[i], Goal: goals[i]}
		ecbsAgents[i] = ecbs.Agent{ID: geom.AgentID(i), Start: starts[i], Goal: goals[i]}
	}

	fmt.Println("=== grid MAPF demo: 5x5, 2 agents crossing ===")

	run("CBS", func() (any, bool) {
		solver, err := cbs.New(env, cbsAgents)
		if err != nil {
			return nil, false
		}
		return solver.Plan()
	})
	run("ECBS(w=1.5)", func() (any, bool) {
		solver, err := ecbs.New(env, ecbsAgents, 1.5)
		if err != nil {
			return nil, false
		}
		return solver.Plan()
	})
	run("Prioritized", func() (any, bool) {
		solver, err := bench.New(env, bench.AgentsFromIDs(starts, goals))
		if err != nil {
			return nil, false
		}
		return solver.Plan(env)
	})

	return nil
}

func run(name string, solve func() (any, bool)) {
	start := time.Now()
	sol, ok := solve()
	elapsed := time.Since(start)
	if !ok {
		fmt.Printf("  %-16s infeasible (%v)\n", name, elapsed)
		return
	}
	fmt.Printf("  %-16s solved in %v: %+v\n", name, elapsed, sol)
}

func main() {
	log.SetLevel(log.InfoLevel)
	ctx := kong.Parse(&cli,
		kong.Name("mapfcli"),
		kong.Description("Grid multi-agent path finding: STA*, CBS, ECBS."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
