// Package constraint defines the per-agent prohibitions the high-level
// search (cbs/ecbs) imposes on the low-level planner (§3). It mirrors
// common/constraint.py's VertexConstraint/EdgeConstraint split from
// original_source, expressed as a single tagged struct per spec.md's Design
// Notes (§9) rather than an ABC-and-subclass hierarchy.
package constraint

import "github.com/elektrokombinacija/mapf-grid-search/internal/geom"

// Kind tags which prohibition a Constraint carries.
type Kind int

const (
	// Vertex forbids Agent from occupying Cell at Time.
	Vertex Kind = iota
	// Edge forbids Agent from transitioning From (at TimeFrom) to To (at
	// TimeFrom+1).
	Edge
)

// Constraint is a single per-agent prohibition, either on occupying a cell
// at a time (Vertex) or on traversing an edge across one time-step (Edge).
type Constraint struct {
	Agent geom.AgentID
	Kind  Kind

	// Vertex fields.
	Cell geom.Point
	Time int

	// Edge fields: From at TimeFrom, To at TimeFrom+1.
	From, To geom.Point
	TimeFrom int
}

// NewVertex builds a vertex constraint forbidding agent from occupying cell
// at time t.
func NewVertex(agent geom.AgentID, cell geom.Point, t int) Constraint {
	return Constraint{Agent: agent, Kind: Vertex, Cell: cell, Time: t}
}

// NewEdge builds an edge constraint forbidding agent from transitioning
// from -> to across the step tFrom -> tFrom+1.
func NewEdge(agent geom.AgentID, from, to geom.Point, tFrom int) Constraint {
	return Constraint{Agent: agent, Kind: Edge, From: from, To: to, TimeFrom: tFrom}
}

// ForbidsVertex reports whether c forbids agent from occupying cell at time t.
func (c Constraint) ForbidsVertex(agent geom.AgentID, cell geom.Point, t int) bool {
	return c.Kind == Vertex && c.Agent == agent && c.Cell == cell && c.Time == t
}

// ForbidsEdge reports whether c forbids agent from transitioning
// from -> to across tFrom -> tFrom+1.
func (c Constraint) ForbidsEdge(agent geom.AgentID, from, to geom.Point, tFrom int) bool {
	return c.Kind == Edge && c.Agent == agent && c.From == from && c.To == to && c.TimeFrom == tFrom
}

// Filter extracts the constraints relevant to one agent (the per-agent list
// the low-level planner consumes) from a flat list, as the teacher's
// CBS.planAllPaths does when it builds robotConstraints from a CT node's
// flat constraint list (internal/algo/cbs.go).
func Filter(all []Constraint, agent geom.AgentID) []Constraint {
	var out []Constraint
	for _, c := range all {
		if c.Agent == agent {
			out = append(out, c)
		}
	}
	return out
}

// AllowsMove reports whether no constraint in cs forbids agent from moving
// from -> to across tFrom -> tFrom+1 (an edge check subsumes the Vertex
// check at the destination too, for caller convenience).
func AllowsMove(cs []Constraint, agent geom.AgentID, from, to geom.Point, tFrom int) bool {
	tTo := tFrom + 1
	for _, c := range cs {
		if c.ForbidsVertex(agent, to, tTo) {
			return false
		}
		if c.ForbidsEdge(agent, from, to, tFrom) {
			return false
		}
	}
	return true
}
