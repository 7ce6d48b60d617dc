// Package dispatch assigns fired transport requests to fleet workers. For
// each event it resolves the endpoints, computes per-candidate planning ETAs,
// selects the minimum selection score and offers the task to the chosen
// worker. Every event produces exactly one append-only audit record.
package dispatch

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/logistics-sim/fleetsim/core/dispatch/logging"
	"github.com/logistics-sim/fleetsim/core/fleet"
	"github.com/logistics-sim/fleetsim/core/logger"
	"github.com/logistics-sim/fleetsim/core/metrics"
	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/nav"
	"github.com/logistics-sim/fleetsim/core/notify"
)

// TimeSource is the narrow clock surface the dispatcher stamps audit records
// with.
type TimeSource interface {
	SimTime() float64
}

// Dispatcher subscribes to the clock's event stream and performs one
// assignment per fired event.
type Dispatcher struct {
	cfg       Config
	registry  *nav.Registry
	fleet     *fleet.Fleet
	audit     logging.Store
	sink      metrics.Sink
	publisher notify.Publisher
	time      TimeSource
	runID     string
	log       logger.Logger
}

// New creates a Dispatcher. The audit store and time source are required;
// sink and publisher may be nil.
func New(cfg Config, registry *nav.Registry, flt *fleet.Fleet, audit logging.Store, sink metrics.Sink, pub notify.Publisher, ts TimeSource, runID string, log logger.Logger) (*Dispatcher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil || flt == nil || audit == nil || ts == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to New")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Dispatcher{
		cfg:       cfg,
		registry:  registry,
		fleet:     flt,
		audit:     audit,
		sink:      sink,
		publisher: pub,
		time:      ts,
		runID:     runID,
		log:       log,
	}, nil
}

// HandleTaskEvent implements clock.Subscriber.
func (d *Dispatcher) HandleTaskEvent(ev model.TaskEvent) error {
	origin, ok := d.registry.Resolve(ev.OriginCode)
	if !ok {
		d.log.Warnf("event %s: unresolved origin code %q", ev.ID, ev.OriginCode)
		return d.record(ev.ID, "", 0, 0, model.OutcomeUnresolvedLocation)
	}
	dest, ok := d.registry.Resolve(ev.DestinationCode)
	if !ok {
		d.log.Warnf("event %s: unresolved destination code %q", ev.ID, ev.DestinationCode)
		return d.record(ev.ID, "", 0, 0, model.OutcomeUnresolvedLocation)
	}

	task := &model.Task{
		ID:          ev.ID,
		Origin:      origin,
		Destination: dest,
		Priority:    d.priorityValue(ev.PriorityTag),
	}
	adj := d.timingAdjust(ev.PriorityTag)
	robotsEligible := d.robotEligible(ev.PriorityTag)

	var chosen *fleet.Worker
	var bestScore, bestRaw float64
	for _, w := range d.fleet.Workers() {
		if w.Role() == model.RoleRobotic && !robotsEligible {
			continue
		}
		raw, err := w.CalculateEta(task, adj)
		if err != nil || math.IsInf(raw, 0) || math.IsNaN(raw) {
			continue
		}
		score := raw
		if robotsEligible && w.Role() == model.RoleHuman {
			score *= d.cfg.HumanPenaltyFactor
		}
		// Ties go to the earlier candidate in roster order.
		if chosen == nil || score < bestScore {
			chosen = w
			bestScore = score
			bestRaw = raw
		}
	}
	if chosen == nil {
		return d.record(ev.ID, "", 0, 0, model.OutcomeNoEligibleWorker)
	}

	// The task carries the raw ETA, not the penalized selection score.
	task.EtaSeconds = bestRaw
	if err := chosen.TryAcceptTask(task); err != nil {
		d.log.Warnf("event %s: worker %s rejected task: %v", ev.ID, chosen.ID(), err)
		return d.record(ev.ID, chosen.ID(), bestRaw, bestScore, model.OutcomeRejectedByWorker)
	}
	d.log.Infof("event %s assigned to %s (eta %.1fs, score %.1f)", ev.ID, chosen.ID(), bestRaw, bestScore)
	return d.record(ev.ID, chosen.ID(), bestRaw, bestScore, model.OutcomeAssigned)
}

func (d *Dispatcher) record(taskID, workerID string, rawEta, score float64, outcome model.Outcome) error {
	rec := model.AssignmentRecord{
		RunID:          d.runID,
		TaskID:         taskID,
		WorkerID:       workerID,
		RawEtaSeconds:  rawEta,
		SelectionScore: score,
		Outcome:        outcome,
		SimTime:        d.time.SimTime(),
	}
	if err := d.sink.RecordAssignment(rec); err != nil {
		d.log.Errorf("metrics error: %v", err)
	}
	if d.publisher != nil {
		if err := d.publisher.PublishAssignment(rec); err != nil {
			d.log.Errorf("publish assignment: %v", err)
		}
	}
	if err := d.audit.Append(context.Background(), rec); err != nil {
		return fmt.Errorf("dispatch: append audit record: %w", err)
	}
	return nil
}

// AuditRecords queries the audit trail this dispatcher appends to.
func (d *Dispatcher) AuditRecords(ctx context.Context, q logging.Query) ([]model.AssignmentRecord, error) {
	return d.audit.Query(ctx, q)
}

// robotEligible applies the configured disallow rules to the priority tag.
func (d *Dispatcher) robotEligible(tag string) bool {
	for _, entry := range d.cfg.RobotDisallowExact {
		if tag == entry {
			return false
		}
	}
	lower := strings.ToLower(tag)
	for _, sub := range d.cfg.RobotDisallowSubstrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) timingAdjust(tag string) fleet.TimingAdjust {
	for _, r := range d.cfg.TimingRules {
		if strings.Contains(tag, r.Match) {
			return fleet.TimingAdjust{
				ExtraMountSeconds:   r.ExtraMountSeconds,
				ExtraUnmountSeconds: r.ExtraUnmountSeconds,
				TravelFactor:        r.TravelFactor,
			}
		}
	}
	return fleet.TimingAdjust{}
}

func (d *Dispatcher) priorityValue(tag string) int {
	for _, r := range d.cfg.PriorityRules {
		if strings.Contains(tag, r.Match) {
			return r.Value
		}
	}
	return 0
}
