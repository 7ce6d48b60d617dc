package fleet

import (
	"math/rand"

	"github.com/logistics-sim/fleetsim/core/logger"
	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/nav"
)

// Fleet holds the long-lived workers of one run.
type Fleet struct {
	workers []*Worker
	byID    map[string]*Worker
}

// New builds the fleet from configuration and wires the shared congestion
// sensor over the fleet's own positions.
func New(cfg Config, planner nav.PathPlanner, log logger.Logger) (*Fleet, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Fleet{byID: make(map[string]*Worker, len(cfg.Workers))}
	for i, wc := range cfg.Workers {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)*17))
		w := NewWorker(wc, cfg.Congestion, cfg.Idle, planner, rng, log)
		f.workers = append(f.workers, w)
		f.byID[w.ID()] = w
	}
	counter := nav.NewRadiusCounter(f.Positions)
	for _, w := range f.workers {
		w.SetProximity(counter)
	}
	return f, nil
}

// Workers returns the workers in roster order. Candidate evaluation order is
// this order.
func (f *Fleet) Workers() []*Worker { return f.workers }

// Worker returns the worker with the given id.
func (f *Fleet) Worker(id string) (*Worker, bool) {
	w, ok := f.byID[id]
	return w, ok
}

// Positions returns the current position of every worker.
func (f *Fleet) Positions() []model.Point {
	out := make([]model.Point, len(f.workers))
	for i, w := range f.workers {
		out[i] = w.Position()
	}
	return out
}

// Advance progresses every worker by dt simulated seconds.
func (f *Fleet) Advance(dt float64) {
	for _, w := range f.workers {
		w.Advance(dt)
	}
}

// Quiescent reports whether every queue is drained and no worker is still
// working a task.
func (f *Fleet) Quiescent() bool {
	for _, w := range f.workers {
		if w.QueueLen() > 0 {
			return false
		}
	}
	return true
}
