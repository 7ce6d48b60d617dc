package nav

import (
	"fmt"

	"github.com/logistics-sim/fleetsim/core/model"
)

// Registry maps location codes to navigable points. The first registration
// under a code wins; later ones are rejected.
type Registry struct {
	points map[string]model.Point
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{points: make(map[string]model.Point)}
}

// Register stores the point under code. A second registration under an
// already-used code returns an error and leaves the first point in place.
func (r *Registry) Register(code string, p model.Point) error {
	if _, ok := r.points[code]; ok {
		return fmt.Errorf("nav: location code %q already registered", code)
	}
	r.points[code] = p
	return nil
}

// Resolve returns the point registered under code.
func (r *Registry) Resolve(code string) (model.Point, bool) {
	p, ok := r.points[code]
	return p, ok
}
