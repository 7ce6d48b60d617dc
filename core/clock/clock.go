// Package clock replays a schedule of transport requests on a deterministic
// simulated clock. Time only advances through explicit ticks; each tick is
// integrated in fixed micro-steps and due events fire synchronously, in
// ascending id order, before the next micro-step runs.
package clock

import (
	"errors"

	"github.com/logistics-sim/fleetsim/core/logger"
	"github.com/logistics-sim/fleetsim/core/model"
)

// ErrNotLoaded is returned by Begin when no schedule has been loaded.
var ErrNotLoaded = errors.New("clock: no schedule loaded")

// Subscriber receives fired events. Subscribers are notified in registration
// order; a subscriber error is logged and does not stop dispatch of the event
// to later subscribers or of subsequent events.
type Subscriber interface {
	HandleTaskEvent(ev model.TaskEvent) error
}

// Clock loads an ordered event schedule and advances simulated time in fixed
// micro-steps per external tick.
type Clock struct {
	cfg  Config
	log  logger.Logger
	subs []Subscriber

	events  []model.ScheduledEvent
	loaded  bool
	running bool
	simTime float64
	budget  float64
	cursor  int
}

// New creates a Clock. The schedule is not loaded until Load is called.
func New(cfg Config, log logger.Logger) *Clock {
	cfg.SetDefaults()
	return &Clock{cfg: cfg, log: log}
}

// Subscribe appends s to the notification list. Dispatch order is the
// registration order.
func (c *Clock) Subscribe(s Subscriber) {
	c.subs = append(c.subs, s)
}

// Load reads the schedule from the configured path. On failure the clock
// stays unloaded; no partial state is retained.
func (c *Clock) Load() error {
	events, err := LoadSchedule(c.cfg.SchedulePath, TimeMode(c.cfg.Mode), c.log)
	if err != nil {
		return err
	}
	c.events = events
	c.loaded = true
	c.log.Infof("loaded %d scheduled events", len(events))
	return nil
}

// Events returns a copy of the loaded schedule.
func (c *Clock) Events() []model.ScheduledEvent {
	out := make([]model.ScheduledEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Begin resets simulated time and the event cursor and marks the clock
// running. The configured start delay is consumed from the tick budget before
// the first micro-step.
func (c *Clock) Begin() error {
	if !c.loaded {
		return ErrNotLoaded
	}
	c.simTime = 0
	c.cursor = 0
	c.budget = -c.cfg.StartDelaySeconds
	c.running = true
	return nil
}

// Stop halts the clock. Idempotent.
func (c *Clock) Stop() {
	c.running = false
}

// Reload clears all state and re-invokes Load, then Begin if the clock was
// running.
func (c *Clock) Reload() error {
	wasRunning := c.running
	c.running = false
	c.loaded = false
	c.events = nil
	c.simTime = 0
	c.budget = 0
	c.cursor = 0
	if err := c.Load(); err != nil {
		return err
	}
	if wasRunning {
		return c.Begin()
	}
	return nil
}

// Running reports whether the clock is advancing. The clock stops on its own
// once every event has fired.
func (c *Clock) Running() bool { return c.running }

// SimTime returns the current simulated time in seconds.
func (c *Clock) SimTime() float64 { return c.simTime }

// Tick adds secondsPerTick to the time budget and consumes it in micro-steps,
// firing every due event after each step. At most MaxStepsPerTick steps run
// per call; any remainder carries to the next tick with a single warning.
// It returns the simulated seconds consumed by this call.
func (c *Clock) Tick(secondsPerTick float64) float64 {
	if !c.running {
		return 0
	}
	c.budget += secondsPerTick
	step := c.cfg.MicroStepSeconds
	steps := 0
	consumed := 0.0
	for c.running && c.budget >= step {
		if steps >= c.cfg.MaxStepsPerTick {
			c.log.Warnf("tick hit micro-step cap (%d), deferring %.3fs of budget", c.cfg.MaxStepsPerTick, c.budget)
			break
		}
		c.budget -= step
		c.simTime += step
		consumed += step
		steps++
		c.fireDue()
	}
	return consumed
}

func (c *Clock) fireDue() {
	for c.cursor < len(c.events) && c.events[c.cursor].FiringTime <= c.simTime {
		ev := c.events[c.cursor]
		c.cursor++
		c.log.Infof("[Sequencer] New Task, %s, %s, %s, %s",
			ev.ID, ev.OriginCode, ev.DestinationCode, ev.PriorityTag)
		te := model.TaskEvent{
			ID:              ev.ID,
			OriginCode:      ev.OriginCode,
			DestinationCode: ev.DestinationCode,
			PriorityTag:     ev.PriorityTag,
		}
		for _, s := range c.subs {
			if err := s.HandleTaskEvent(te); err != nil {
				c.log.Errorf("subscriber error for event %s: %v", ev.ID, err)
			}
		}
	}
	if c.cursor >= len(c.events) {
		c.running = false
	}
}
