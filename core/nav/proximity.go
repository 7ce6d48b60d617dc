package nav

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/logistics-sim/fleetsim/core/model"
)

// RadiusCounter counts tracked positions within a radius. The position source
// is queried on every call so the count always reflects the current tick.
type RadiusCounter struct {
	positions func() []model.Point
}

// NewRadiusCounter creates a counter over the given position source.
func NewRadiusCounter(positions func() []model.Point) *RadiusCounter {
	return &RadiusCounter{positions: positions}
}

// NearbyCount returns the number of tracked positions within radius of p.
func (c *RadiusCounter) NearbyCount(p model.Point, radius float64) int {
	n := 0
	for _, q := range c.positions() {
		if r2.Norm(r2.Sub(q, p)) <= radius {
			n++
		}
	}
	return n
}
