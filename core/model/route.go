package model

import "gonum.org/v1/gonum/spatial/r2"

// Route is a planned path between two points. Waypoints include both
// endpoints; Length is the total polyline length in meters.
type Route struct {
	Waypoints []Point
	Length    float64
}

// End returns the final waypoint of the route.
func (r Route) End() Point {
	if len(r.Waypoints) == 0 {
		return Point{}
	}
	return r.Waypoints[len(r.Waypoints)-1]
}

// PointAt returns the position after traveling dist meters along the route.
// Distances beyond the route length clamp to the final waypoint.
func (r Route) PointAt(dist float64) Point {
	if len(r.Waypoints) == 0 {
		return Point{}
	}
	if dist <= 0 {
		return r.Waypoints[0]
	}
	remaining := dist
	for i := 0; i+1 < len(r.Waypoints); i++ {
		seg := r2.Sub(r.Waypoints[i+1], r.Waypoints[i])
		segLen := r2.Norm(seg)
		if remaining <= segLen && segLen > 0 {
			return r2.Add(r.Waypoints[i], r2.Scale(remaining/segLen, seg))
		}
		remaining -= segLen
	}
	return r.End()
}
