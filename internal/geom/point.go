// Package geom implements the grid geometry, obstacles and the shared
// Environment that the space-time planners and the high-level search sit on
// top of. It is the counterpart of the teacher's internal/core package,
// narrowed from a continuous-space heterogeneous-fleet workspace down to the
// discrete d-dimensional grid this spec defines.
package geom

import "fmt"

// MaxDim is the largest dimensionality this package supports (2 or 3 per
// spec). Coord carries MaxDim entries regardless of a Point's own Dim so
// that Point stays a small comparable value usable as a map key.
const MaxDim = 3

// Point is an immutable d-dimensional integer grid cell, d in {2, 3}. Only
// the first Dim entries of Coord are meaningful; the rest are always zero.
// Point is comparable, so it can be used directly as a map key (alongside a
// time-step) the way the teacher's astarNode keys its visited set.
type Point struct {
	Dim   int
	Coord [MaxDim]int
}

// NewPoint2D builds a 2D grid cell.
func NewPoint2D(x, y int) Point {
	return Point{Dim: 2, Coord: [MaxDim]int{x, y, 0}}
}

// NewPoint3D builds a 3D grid cell.
func NewPoint3D(x, y, z int) Point {
	return Point{Dim: 3, Coord: [MaxDim]int{x, y, z}}
}

// X, Y, Z return individual components; Z is 0 for 2D points.
func (p Point) X() int { return p.Coord[0] }
func (p Point) Y() int { return p.Coord[1] }
func (p Point) Z() int { return p.Coord[2] }

func (p Point) String() string {
	if p.Dim == 2 {
		return fmt.Sprintf("(%d,%d)", p.Coord[0], p.Coord[1])
	}
	return fmt.Sprintf("(%d,%d,%d)", p.Coord[0], p.Coord[1], p.Coord[2])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ManhattanDistance is the admissible, consistent heuristic used by every
// low-level search in this repository (§4.2).
func (p Point) ManhattanDistance(q Point) int {
	d := 0
	for i := 0; i < p.Dim; i++ {
		d += abs(p.Coord[i] - q.Coord[i])
	}
	return d
}

// Neighbors returns the 2*Dim unit-step cells reachable from p along each
// axis. The wait action (staying at p) is not included here — callers that
// need it (every space-time search does) add p itself explicitly, since
// waiting is a time-step action, not a spatial one.
func (p Point) Neighbors() []Point {
	out := make([]Point, 0, 2*p.Dim)
	for i := 0; i < p.Dim; i++ {
		for _, delta := range [2]int{1, -1} {
			n := p
			n.Coord[i] += delta
			out = append(out, n)
		}
	}
	return out
}

// InBounds reports whether p satisfies 0 <= p_i < limits[i] for every axis
// (§4.1's open-upper-bound box).
func (p Point) InBounds(limits []int) bool {
	if len(limits) != p.Dim {
		return false
	}
	for i := 0; i < p.Dim; i++ {
		if p.Coord[i] < 0 || p.Coord[i] >= limits[i] {
			return false
		}
	}
	return true
}

// State is a (cell, time) pair — the vertex type of the space-time search
// graphs in §4.2/§4.3. It is comparable and serves as the open/closed-set
// key, mirroring the teacher's SpaceTimeState in internal/algo/astar.go.
type State struct {
	Cell Point
	Time int
}

// Step is one entry of a returned path: a cell occupied at a given
// time-step.
type Step struct {
	Cell Point
	Time int
}

// Path is a dense sequence of Steps: Path[0].Time == 0, each subsequent
// entry's Time increases by exactly 1, and consecutive cells differ by a
// unit step or are equal (wait). See §6 and §8.
type Path []Step

// Equal reports whether two paths visit the same cells at the same times.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// AgentID identifies one planned entity.
type AgentID int
