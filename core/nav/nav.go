// Package nav holds the contracts of the navigation collaborators the
// simulation depends on: the path-planning oracle, the location registry and
// the congestion sensor. Reference in-memory implementations back the default
// world and the tests.
package nav

import "github.com/logistics-sim/fleetsim/core/model"

// PathPlanner turns two points into a route and a length, or fails when no
// route exists between them.
type PathPlanner interface {
	Route(from, to model.Point) (model.Route, error)
}

// ProximityCounter reports how many mobile entities are within radius of p,
// including any entity standing exactly at p.
type ProximityCounter interface {
	NearbyCount(p model.Point, radius float64) int
}
