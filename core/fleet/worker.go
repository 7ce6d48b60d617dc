// Package fleet implements the mobile workers: a bounded task queue, a
// multi-phase movement state machine and the planning-ETA model the
// dispatcher scores candidates with. Planning always runs at nominal speed;
// execution speed is congestion-adjusted.
package fleet

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/logistics-sim/fleetsim/core/logger"
	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/nav"
)

// State is the top-level worker state.
type State int

const (
	StateIdle State = iota
	StateMovingToIdle
	StateMovingToTask
	StateInTask
	StateCharging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMovingToIdle:
		return "moving-to-idle"
	case StateMovingToTask:
		return "moving-to-task"
	case StateInTask:
		return "in-task"
	case StateCharging:
		return "charging"
	}
	return "unknown"
}

// Phase is the in-task sub-state.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseMounting
	PhaseTraveling
	PhaseUnmounting
)

func (p Phase) String() string {
	switch p {
	case PhaseMounting:
		return "mounting"
	case PhaseTraveling:
		return "traveling"
	case PhaseUnmounting:
		return "unmounting"
	}
	return "none"
}

// TimingAdjust tweaks the planning-ETA contribution of one hypothetical task.
// The zero value is neutral.
type TimingAdjust struct {
	ExtraMountSeconds   float64
	ExtraUnmountSeconds float64
	TravelFactor        float64 // 0 means 1
}

func (a TimingAdjust) travelFactor() float64 {
	if a.TravelFactor <= 0 {
		return 1
	}
	return a.TravelFactor
}

// Rejection reasons returned by TryAcceptTask.
var (
	ErrCharging  = errors.New("fleet: worker is charging")
	ErrNoRoute   = errors.New("fleet: no route to task origin")
	ErrQueueFull = errors.New("fleet: task queue is full")
)

// Worker is a long-lived mobile worker executing tasks from its queue.
type Worker struct {
	id      string
	role    model.Role
	speed   float64
	mount   float64
	unmount float64

	planner    nav.PathPlanner
	proximity  nav.ProximityCounter
	congestion CongestionConfig
	idle       IdleConfig
	rng        *rand.Rand
	log        logger.Logger

	queue    Queue
	state    State
	phase    Phase
	pos      model.Point
	route    model.Route
	progress float64
	timer    float64
	eta      float64
}

// NewWorker creates a worker at its configured start position, idle.
func NewWorker(cfg WorkerConfig, congestion CongestionConfig, idle IdleConfig, planner nav.PathPlanner, rng *rand.Rand, log logger.Logger) *Worker {
	return &Worker{
		id:         cfg.ID,
		role:       model.Role(cfg.Role),
		speed:      cfg.NominalSpeed,
		mount:      cfg.MountSeconds,
		unmount:    cfg.UnmountSeconds,
		planner:    planner,
		congestion: congestion,
		idle:       idle,
		rng:        rng,
		log:        log,
		state:      StateIdle,
		pos:        model.Point{X: cfg.StartX, Y: cfg.StartY},
	}
}

func (w *Worker) ID() string            { return w.id }
func (w *Worker) Role() model.Role      { return w.role }
func (w *Worker) Position() model.Point { return w.pos }
func (w *Worker) State() State          { return w.state }
func (w *Worker) Phase() Phase          { return w.phase }
func (w *Worker) QueueLen() int         { return w.queue.Len() }
func (w *Worker) Head() *model.Task     { return w.queue.Head() }

// Eta returns the planning ETA recomputed at the latest queue mutation.
func (w *Worker) Eta() float64 { return w.eta }

// SetProximity wires the congestion sensor. A nil counter disables the
// congestion adjustment.
func (w *Worker) SetProximity(c nav.ProximityCounter) { w.proximity = c }

// SetCharging toggles the charging state. A charging worker rejects all
// tasks; leaving charging returns to idle.
func (w *Worker) SetCharging(on bool) {
	if on {
		w.state = StateCharging
		w.phase = PhaseNone
		return
	}
	if w.state == StateCharging {
		w.state = StateIdle
		w.timer = 0
	}
}

// queueFinalPosition is the destination of the last queued task, or the
// current position when the queue is empty.
func (w *Worker) queueFinalPosition() model.Point {
	if t := w.queue.Final(); t != nil {
		return t.Destination
	}
	return w.pos
}

// TryAcceptTask offers a task to the worker. On acceptance the task is owned
// by the worker; the returned error is the rejection reason otherwise.
func (w *Worker) TryAcceptTask(t *model.Task) error {
	if w.state == StateCharging {
		return ErrCharging
	}
	if _, err := w.planner.Route(w.queueFinalPosition(), t.Origin); err != nil {
		return fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	carry, err := w.planner.Route(t.Origin, t.Destination)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	t.Route = carry

	head := w.queue.Head()
	switch {
	case head == nil:
		w.queue.Append(t)
		w.startMovingToTask()
	case w.queue.Len() == 1 && t.Priority > head.Priority:
		// Preemption discards in-flight progress toward the old head.
		if !w.queue.Preempt(t) {
			return ErrQueueFull
		}
		w.startMovingToTask()
	default:
		if !w.queue.Append(t) {
			return ErrQueueFull
		}
	}
	w.recomputeEta()
	return nil
}

// CalculateEta returns the raw planning ETA for executing the current queue
// plus the hypothetical task, at nominal speed. Any planner failure along the
// chain yields an infinite result and an error.
func (w *Worker) CalculateEta(t *model.Task, adj TimingAdjust) (float64, error) {
	return w.chainEta(append(w.queue.Tasks(), t), t, adj)
}

func (w *Worker) chainEta(tasks []*model.Task, adjusted *model.Task, adj TimingAdjust) (float64, error) {
	pos := w.pos
	eta := 0.0
	for _, task := range tasks {
		leg, err := w.planner.Route(pos, task.Origin)
		if err != nil {
			return math.Inf(1), err
		}
		carry, err := w.planner.Route(task.Origin, task.Destination)
		if err != nil {
			return math.Inf(1), err
		}
		mount, unmount, factor := w.mount, w.unmount, 1.0
		if task == adjusted {
			mount += adj.ExtraMountSeconds
			unmount += adj.ExtraUnmountSeconds
			factor = adj.travelFactor()
		}
		eta += factor*(leg.Length+carry.Length)/w.speed + mount + unmount
		pos = task.Destination
	}
	return eta, nil
}

func (w *Worker) recomputeEta() {
	eta, err := w.chainEta(w.queue.Tasks(), nil, TimingAdjust{})
	if err != nil {
		w.eta = math.Inf(1)
		return
	}
	w.eta = eta
}

// Advance progresses movement and phase timers by dt simulated seconds.
func (w *Worker) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	switch w.state {
	case StateCharging:
	case StateIdle:
		w.timer -= dt
		if w.timer <= 0 {
			w.beginRoam()
		}
	case StateMovingToIdle:
		if w.moveAlong(dt) {
			w.state = StateIdle
			w.timer = w.idle.DwellSeconds
		}
	case StateMovingToTask:
		if w.moveAlong(dt) {
			w.state = StateInTask
			w.phase = PhaseMounting
			w.timer = w.mount
		}
	case StateInTask:
		w.advanceTask(dt)
	}
}

func (w *Worker) advanceTask(dt float64) {
	head := w.queue.Head()
	if head == nil {
		// Queue mutated out from under an in-task phase; recover to idle.
		w.state = StateIdle
		w.phase = PhaseNone
		w.timer = 0
		return
	}
	switch w.phase {
	case PhaseMounting:
		w.timer -= dt
		if w.timer <= 0 {
			w.phase = PhaseTraveling
			w.route = head.Route
			w.progress = 0
		}
	case PhaseTraveling:
		if w.moveAlong(dt) {
			w.phase = PhaseUnmounting
			w.timer = w.unmount
		}
	case PhaseUnmounting:
		w.timer -= dt
		if w.timer <= 0 {
			w.completeHead()
		}
	}
}

func (w *Worker) completeHead() {
	done := w.queue.ShiftLeft()
	w.log.Debugw("task complete", map[string]any{"worker": w.id, "task": done.ID})
	w.phase = PhaseNone
	w.recomputeEta()
	if w.queue.Head() != nil {
		w.startMovingToTask()
		return
	}
	w.beginRoam()
}

// startMovingToTask routes from the current position to the head task origin.
// Any task arrival preempts idle roaming immediately.
func (w *Worker) startMovingToTask() {
	head := w.queue.Head()
	route, err := w.planner.Route(w.pos, head.Origin)
	if err != nil {
		w.log.Errorf("worker %s: route to task %s origin: %v", w.id, head.ID, err)
		w.state = StateIdle
		w.phase = PhaseNone
		w.timer = w.idle.DwellSeconds
		return
	}
	w.state = StateMovingToTask
	w.phase = PhaseNone
	w.route = route
	w.progress = 0
}

// beginRoam picks a random point near the idle zone and routes to it. The
// worker dwells at the target before roaming again.
func (w *Worker) beginRoam() {
	angle := w.rng.Float64() * 2 * math.Pi
	radius := w.idle.Radius * math.Sqrt(w.rng.Float64())
	target := model.Point{
		X: w.idle.CenterX + radius*math.Cos(angle),
		Y: w.idle.CenterY + radius*math.Sin(angle),
	}
	route, err := w.planner.Route(w.pos, target)
	if err != nil {
		w.state = StateIdle
		w.timer = w.idle.DwellSeconds
		return
	}
	w.state = StateMovingToIdle
	w.phase = PhaseNone
	w.route = route
	w.progress = 0
}

// moveAlong advances along the active route at congestion-adjusted speed and
// reports arrival.
func (w *Worker) moveAlong(dt float64) bool {
	w.progress += w.speed * w.congestionMultiplier() * dt
	if w.progress >= w.route.Length {
		w.pos = w.route.End()
		return true
	}
	w.pos = w.route.PointAt(w.progress)
	return false
}

// congestionMultiplier derives the execution speed factor from the count of
// nearby entities. The count from the sensor includes this worker.
func (w *Worker) congestionMultiplier() float64 {
	if w.proximity == nil {
		return 1
	}
	n := w.proximity.NearbyCount(w.pos, w.congestion.Radius) - 1
	if n < 0 {
		n = 0
	}
	if n <= w.congestion.NoEffectCount {
		return 1
	}
	span := w.congestion.MaxEffectCount - w.congestion.NoEffectCount
	frac := float64(n-w.congestion.NoEffectCount) / float64(span)
	if frac > 1 {
		frac = 1
	}
	return 1 - frac*w.congestion.MaxSlowdown
}
