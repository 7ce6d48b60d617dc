package nav

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/logistics-sim/fleetsim/core/model"
)

// ErrNoRoute is returned when the planner cannot connect two points.
var ErrNoRoute = errors.New("nav: no route between points")

type segment struct {
	from, to model.Point
}

// LinePlanner plans straight-line routes between points. Individual point
// pairs can be blocked to model unreachable legs.
type LinePlanner struct {
	blocked map[segment]struct{}
}

// NewLinePlanner creates a planner with no blocked pairs.
func NewLinePlanner() *LinePlanner {
	return &LinePlanner{blocked: make(map[segment]struct{})}
}

// Block marks the pair (a, b) as unreachable in both directions.
func (p *LinePlanner) Block(a, b model.Point) {
	p.blocked[segment{a, b}] = struct{}{}
	p.blocked[segment{b, a}] = struct{}{}
}

// Route returns the straight segment from one point to the other.
func (p *LinePlanner) Route(from, to model.Point) (model.Route, error) {
	if _, ok := p.blocked[segment{from, to}]; ok {
		return model.Route{}, ErrNoRoute
	}
	return model.Route{
		Waypoints: []model.Point{from, to},
		Length:    r2.Norm(r2.Sub(to, from)),
	}, nil
}
