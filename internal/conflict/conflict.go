// Package conflict detects collisions between agents' committed paths and
// turns them into per-agent constraints. It is the space-time analogue of
// the teacher's internal/algo/solver.go (FindFirstConflict/FindAllConflicts),
// adapted to the canonical, deterministic detection order spec.md §4.4
// requires: agent pairs in lexicographic order, vertex conflicts before edge
// conflicts, ascending time, with the shorter path held at its last cell
// past its own length (the "wait at goal" padding rule, §9's Open Questions).
package conflict

import (
	"github.com/elektrokombinacija/mapf-grid-search/internal/constraint"
	"github.com/elektrokombinacija/mapf-grid-search/internal/geom"
)

// Kind tags which violation a Conflict reports.
type Kind int

const (
	// VertexKind: both agents occupy Cell at Time.
	VertexKind Kind = iota
	// EdgeKind: the two agents swap cells across Time -> Time+1.
	EdgeKind
)

// Conflict is a symmetric description of a violation between exactly two
// agents in the current joint solution (§3).
type Conflict struct {
	Kind         Kind
	AgentA, AgentB geom.AgentID

	// VertexKind fields.
	Cell geom.Point
	Time int

	// EdgeKind fields: AgentA moves CellFrom -> CellTo, AgentB moves the
	// reverse, across Time -> Time+1.
	CellFrom, CellTo geom.Point
}

// PointsFor returns the (from, to) cell pair the named agent traverses in an
// edge conflict — AgentA's own transition, or its mirror image for AgentB,
// matching spec.md §4.4's "conflict.points[agent]".
func (c Conflict) PointsFor(agent geom.AgentID) (from, to geom.Point) {
	if agent == c.AgentB {
		return c.CellTo, c.CellFrom
	}
	return c.CellFrom, c.CellTo
}

// ToConstraint builds the per-agent constraint the high level appends to a
// child CT node for this conflict (§4.4's Branching rule).
func (c Conflict) ToConstraint(agent geom.AgentID) constraint.Constraint {
	if c.Kind == VertexKind {
		return constraint.NewVertex(agent, c.Cell, c.Time)
	}
	from, to := c.PointsFor(agent)
	return constraint.NewEdge(agent, from, to, c.Time)
}

// sortedAgents returns the agent IDs with committed paths, ascending — the
// lexicographic order §4.4's canonical detector walks.
func sortedAgents(solution map[geom.AgentID]geom.Path) []geom.AgentID {
	out := make([]geom.AgentID, 0, len(solution))
	for a := range solution {
		out = append(out, a)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func maxLen(a, b geom.Path) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}

// FindFirst returns the first conflict in solution under the canonical
// detection order of §4.4, or nil if the solution is conflict-free. Vertex
// conflicts across all pairs/times are checked before any edge conflict, as
// the spec requires (mirroring internal/algo/solver.go's FindFirstConflict,
// generalized from a single simultaneous-time-points scan to spec.md's
// two-pass vertex-then-edge walk).
func FindFirst(solution map[geom.AgentID]geom.Path) *Conflict {
	agents := sortedAgents(solution)

	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			pa, pb := solution[a], solution[b]
			horizon := maxLen(pa, pb)
			for t := 0; t < horizon; t++ {
				if pa.AtTime(t) == pb.AtTime(t) {
					return &Conflict{Kind: VertexKind, AgentA: a, AgentB: b, Cell: pa.AtTime(t), Time: t}
				}
			}
		}
	}

	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			pa, pb := solution[a], solution[b]
			horizon := maxLen(pa, pb)
			for t := 0; t < horizon-1; t++ {
				aFrom, aTo := pa.AtTime(t), pa.AtTime(t+1)
				bFrom, bTo := pb.AtTime(t), pb.AtTime(t+1)
				if aFrom == bTo && bFrom == aTo && aFrom != aTo {
					return &Conflict{Kind: EdgeKind, AgentA: a, AgentB: b, CellFrom: aFrom, CellTo: aTo, Time: t}
				}
			}
		}
	}

	return nil
}

// FindAll returns every conflict in solution (vertex conflicts first, then
// edge conflicts), used by ECBS's focal_heuristic (§4.5) which counts total
// pairwise conflicts rather than stopping at the first.
func FindAll(solution map[geom.AgentID]geom.Path) []Conflict {
	var out []Conflict
	agents := sortedAgents(solution)

	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			pa, pb := solution[a], solution[b]
			horizon := maxLen(pa, pb)
			for t := 0; t < horizon; t++ {
				if pa.AtTime(t) == pb.AtTime(t) {
					out = append(out, Conflict{Kind: VertexKind, AgentA: a, AgentB: b, Cell: pa.AtTime(t), Time: t})
				}
			}
		}
	}

	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			a, b := agents[i], agents[j]
			pa, pb := solution[a], solution[b]
			horizon := maxLen(pa, pb)
			for t := 0; t < horizon-1; t++ {
				aFrom, aTo := pa.AtTime(t), pa.AtTime(t+1)
				bFrom, bTo := pb.AtTime(t), pb.AtTime(t+1)
				if aFrom == bTo && bFrom == aTo && aFrom != aTo {
					out = append(out, Conflict{Kind: EdgeKind, AgentA: a, AgentB: b, CellFrom: aFrom, CellTo: aTo, Time: t})
				}
			}
		}
	}

	return out
}
