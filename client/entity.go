package client

import "time"

// Vec is a fractional grid position; Row maps to the vertical axis
type Vec struct {
	Row, Col float64
}

// VecOf converts integer grid coordinates
func VecOf(row, col int) Vec {
	return Vec{Row: float64(row), Col: float64(col)}
}

// Lerp blends from v to to by t without clamping
func (v Vec) Lerp(to Vec, t float64) Vec {
	return Vec{
		Row: v.Row + (to.Row-v.Row)*t,
		Col: v.Col + (to.Col-v.Col)*t,
	}
}

// Entity is a locally interpolated projection of one server-side object
type Entity struct {
	Previous   Vec
	Target     Vec
	LastUpdate time.Time
}

// Snap places the entity at v with nothing left to interpolate
func (e *Entity) Snap(v Vec, now time.Time) {
	e.Previous = v
	e.Target = v
	e.LastUpdate = now
}

// Retarget starts a new blend from the old target toward v
func (e *Entity) Retarget(v Vec, now time.Time) {
	e.Previous = e.Target
	e.Target = v
	e.LastUpdate = now
}

// Interpolate returns the render position at now for a blend lasting window
func (e *Entity) Interpolate(now time.Time, window time.Duration) Vec {
	if window <= 0 {
		return e.Target
	}
	t := float64(now.Sub(e.LastUpdate)) / float64(window)
	switch {
	case t <= 0:
		t = 0
	case t >= 1:
		return e.Target
	}
	return e.Previous.Lerp(e.Target, t)
}
