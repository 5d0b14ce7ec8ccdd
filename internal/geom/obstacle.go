package geom

// ObstacleKind tags whether an Obstacle blocks its cell forever or only
// during a time window, replacing the teacher's StaticObstacle/
// DynamicObstacle dispatch-by-type hierarchy (internal/core has no such
// hierarchy; the original Python source — common/obstacle.py — does, via an
// ABC with is_colliding overridden per subclass) with the tagged-variant
// shape recommended in spec.md's Design Notes (§9).
type ObstacleKind int

const (
	// Static blocks Cell for all time.
	Static ObstacleKind = iota
	// Dynamic blocks Cell for TStart <= t <= TEnd, or t >= TStart when
	// TEnd == PersistentEnd.
	Dynamic
)

// PersistentEnd marks a dynamic obstacle that never clears.
const PersistentEnd = -1

// Obstacle is a single collision source on the grid.
type Obstacle struct {
	Kind         ObstacleKind
	Cell         Point
	TStart, TEnd int // only meaningful when Kind == Dynamic
}

// NewStaticObstacle blocks cell for all time.
func NewStaticObstacle(cell Point) Obstacle {
	return Obstacle{Kind: Static, Cell: cell}
}

// NewDynamicObstacle blocks cell for [tStart, tEnd], or forever from tStart
// if tEnd == PersistentEnd.
func NewDynamicObstacle(cell Point, tStart, tEnd int) Obstacle {
	return Obstacle{Kind: Dynamic, Cell: cell, TStart: tStart, TEnd: tEnd}
}

// CollidesAt reports whether this obstacle blocks cell at time t (§4.1).
func (o Obstacle) CollidesAt(cell Point, t int) bool {
	if o.Cell != cell {
		return false
	}
	switch o.Kind {
	case Static:
		return true
	case Dynamic:
		if o.TEnd == PersistentEnd {
			return t >= o.TStart
		}
		return t >= o.TStart && t <= o.TEnd
	default:
		return false
	}
}

// FiniteHorizon returns the obstacle's TEnd and true if it is a
// finite-window dynamic obstacle (used to compute the low-level search
// horizon T_max in §4.2).
func (o Obstacle) FiniteHorizon() (int, bool) {
	if o.Kind == Dynamic && o.TEnd != PersistentEnd {
		return o.TEnd, true
	}
	return 0, false
}
