package geom

import "github.com/elektrokombinacija/mapf-grid-search/internal/mapferr"

// Environment is the grid, its obstacles, and the reservation table shared
// read-only by every low-level planner except for Reservation, which only
// the ECBS driver mutates (§3, §4.6). It plays the role the teacher's
// internal/core.Workspace plays for the continuous-space fleet, narrowed to
// the fixed-box discrete grid this spec defines.
type Environment struct {
	Dim       int
	Limits    []int // exclusive upper bound per axis, len == Dim
	Obstacles []Obstacle

	// Reservation holds, per agent, the most recently committed path. It is
	// read only by the focal low-level search's d-score (§4.3) and written
	// only between low-level calls inside the ECBS driver (§4.6). The
	// admissible CBS and the optimal STA* never touch it.
	Reservation map[AgentID]Path
}

// NewEnvironment validates and constructs a grid Environment. dimension
// mismatches here are configuration errors (§7), raised at construction
// rather than discovered mid-search.
func NewEnvironment(dim int, limits []int, obstacles []Obstacle) (*Environment, error) {
	if dim != 2 && dim != 3 {
		return nil, mapferr.Configf("NewEnvironment", "dimension must be 2 or 3, got %d", dim)
	}
	if len(limits) != dim {
		return nil, mapferr.Configf("NewEnvironment", "dimension %d does not match space_limit length %d", dim, len(limits))
	}
	for _, l := range limits {
		if l <= 0 {
			return nil, mapferr.Configf("NewEnvironment", "space_limit entries must be positive, got %v", limits)
		}
	}
	for _, o := range obstacles {
		if o.Cell.Dim != dim {
			return nil, mapferr.Configf("NewEnvironment", "obstacle %v has dimension %d, want %d", o.Cell, o.Cell.Dim, dim)
		}
	}
	return &Environment{
		Dim:         dim,
		Limits:      append([]int(nil), limits...),
		Obstacles:   obstacles,
		Reservation: make(map[AgentID]Path),
	}, nil
}

// IsFree reports whether (cell, t) is in-bounds and not blocked by any
// obstacle (§4.1).
func (e *Environment) IsFree(cell Point, t int) bool {
	if !cell.InBounds(e.Limits) {
		return false
	}
	for _, o := range e.Obstacles {
		if o.CollidesAt(cell, t) {
			return false
		}
	}
	return true
}

// NumCells returns |V|, the number of in-bounds grid cells, used by the
// T_max horizon formula in §4.2.
func (e *Environment) NumCells() int {
	n := 1
	for _, l := range e.Limits {
		n *= l
	}
	return n
}

// MaxFiniteHorizon returns the largest t_end among finite-window dynamic
// obstacles (0 if none exist).
func (e *Environment) MaxFiniteHorizon() int {
	max := 0
	for _, o := range e.Obstacles {
		if t, ok := o.FiniteHorizon(); ok && t > max {
			max = t
		}
	}
	return max
}

// ClearReservation empties one agent's reservation slot, as required before
// the ECBS driver replans that agent (§4.6).
func (e *Environment) ClearReservation(agent AgentID) {
	delete(e.Reservation, agent)
}

// SetReservation commits a freshly replanned path for agent.
func (e *Environment) SetReservation(agent AgentID, path Path) {
	e.Reservation[agent] = path
}

// AtTime returns the cell a committed path occupies at time t, holding the
// agent at its final cell once the path has ended (§4.3, §4.4's
// "wait-at-goal" padding rule).
func (p Path) AtTime(t int) Point {
	if len(p) == 0 {
		return Point{}
	}
	if t >= len(p) {
		return p[len(p)-1].Cell
	}
	return p[t].Cell
}
