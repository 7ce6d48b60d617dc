package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/logistics-sim/fleetsim/core/dispatch/logging"
	"github.com/logistics-sim/fleetsim/core/fleet"
	"github.com/logistics-sim/fleetsim/core/model"
	"github.com/logistics-sim/fleetsim/core/nav"
	"github.com/logistics-sim/fleetsim/infra/logger"
)

type memStore struct {
	records []model.AssignmentRecord
}

func (s *memStore) Append(_ context.Context, rec model.AssignmentRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *memStore) Query(_ context.Context, q logging.Query) ([]model.AssignmentRecord, error) {
	return s.records, nil
}

func (s *memStore) Close() error { return nil }

type fixedTime struct{ t float64 }

func (f fixedTime) SimTime() float64 { return f.t }

type harness struct {
	disp  *Dispatcher
	fleet *fleet.Fleet
	store *memStore
}

// newHarness builds a two-worker roster: a robot at the A origin and a human
// 10m closer than nothing but further from A. Both speed 1, no handling time.
func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	registry := nav.NewRegistry()
	if err := registry.Register("A", model.Point{X: 100}); err != nil {
		t.Fatalf("register A: %v", err)
	}
	if err := registry.Register("B", model.Point{X: 100}); err != nil {
		t.Fatalf("register B: %v", err)
	}

	planner := nav.NewLinePlanner()
	flt, err := fleet.New(fleet.Config{
		Workers: []fleet.WorkerConfig{
			{ID: "robot-1", Role: string(model.RoleRobotic), NominalSpeed: 1, StartX: 0},
			{ID: "human-1", Role: string(model.RoleHuman), NominalSpeed: 1, StartX: 10},
		},
	}, planner, logger.NopLogger{})
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}

	store := &memStore{}
	disp, err := New(cfg, registry, flt, store, nil, nil, fixedTime{t: 42}, "run-1", logger.NopLogger{})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	return &harness{disp: disp, fleet: flt, store: store}
}

func event(id, tag string) model.TaskEvent {
	return model.TaskEvent{ID: id, OriginCode: "A", DestinationCode: "B", PriorityTag: tag}
}

func lastRecord(t *testing.T, h *harness) model.AssignmentRecord {
	t.Helper()
	if len(h.store.records) == 0 {
		t.Fatalf("no audit record written")
	}
	return h.store.records[len(h.store.records)-1]
}

func TestAssignsNearestByScore(t *testing.T) {
	// Robot raw ETA 100s; human raw 90s but penalized to 112.5.
	h := newHarness(t, Config{HumanPenaltyFactor: 1.25})
	if err := h.disp.HandleTaskEvent(event("id_000", "std")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rec := lastRecord(t, h)
	if rec.Outcome != model.OutcomeAssigned || rec.WorkerID != "robot-1" {
		t.Fatalf("got %s/%s, want assigned to robot-1", rec.Outcome, rec.WorkerID)
	}
	if rec.RawEtaSeconds != 100 {
		t.Errorf("raw eta = %v, want 100", rec.RawEtaSeconds)
	}
	if rec.SelectionScore != 100 {
		t.Errorf("selection score = %v, want 100", rec.SelectionScore)
	}
	if rec.RunID != "run-1" || rec.SimTime != 42 {
		t.Errorf("record stamping wrong: %+v", rec)
	}
}

func TestHumanWinsWithoutPenalty(t *testing.T) {
	h := newHarness(t, Config{HumanPenaltyFactor: 1})
	if err := h.disp.HandleTaskEvent(event("id_000", "std")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rec := lastRecord(t, h)
	if rec.WorkerID != "human-1" {
		t.Fatalf("assigned to %s, want human-1 at raw 90 vs 100", rec.WorkerID)
	}
	if rec.RawEtaSeconds != 90 || rec.SelectionScore != 90 {
		t.Errorf("raw=%v score=%v, want 90/90", rec.RawEtaSeconds, rec.SelectionScore)
	}
}

func TestDisallowedTagExcludesRobotsAndSkipsPenalty(t *testing.T) {
	h := newHarness(t, Config{
		HumanPenaltyFactor: 100,
		RobotDisallowExact: []string{"fragile"},
	})
	if err := h.disp.HandleTaskEvent(event("id_000", "fragile")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rec := lastRecord(t, h)
	if rec.WorkerID != "human-1" {
		t.Fatalf("assigned to %s, want human-1", rec.WorkerID)
	}
	// With no robot in the running the human score is the raw ETA.
	if rec.SelectionScore != 90 {
		t.Errorf("score = %v, want unpenalized 90", rec.SelectionScore)
	}
}

func TestDisallowSubstringIsCaseInsensitive(t *testing.T) {
	h := newHarness(t, Config{
		HumanPenaltyFactor:      1,
		RobotDisallowSubstrings: []string{"manual"},
	})
	if err := h.disp.HandleTaskEvent(event("id_000", "MANUAL-check")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if rec := lastRecord(t, h); rec.WorkerID != "human-1" {
		t.Fatalf("assigned to %s, want human-1", rec.WorkerID)
	}
}

func TestUnresolvedLocation(t *testing.T) {
	h := newHarness(t, Config{})
	ev := model.TaskEvent{ID: "id_000", OriginCode: "NOPE", DestinationCode: "B"}
	if err := h.disp.HandleTaskEvent(ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rec := lastRecord(t, h)
	if rec.Outcome != model.OutcomeUnresolvedLocation || rec.WorkerID != "" {
		t.Fatalf("got %s/%q, want unresolved-location with no worker", rec.Outcome, rec.WorkerID)
	}
	for _, w := range h.fleet.Workers() {
		if w.QueueLen() != 0 {
			t.Errorf("worker %s queued a task for an unresolved event", w.ID())
		}
	}
}

func TestNoEligibleWorker(t *testing.T) {
	registry := nav.NewRegistry()
	_ = registry.Register("A", model.Point{X: 100})
	_ = registry.Register("B", model.Point{X: 100})
	flt, err := fleet.New(fleet.Config{
		Workers: []fleet.WorkerConfig{
			{ID: "robot-1", Role: string(model.RoleRobotic), NominalSpeed: 1},
		},
	}, nav.NewLinePlanner(), logger.NopLogger{})
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	store := &memStore{}
	disp, err := New(Config{RobotDisallowExact: []string{"fragile"}}, registry, flt, store, nil, nil, fixedTime{}, "run-1", logger.NopLogger{})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	if err := disp.HandleTaskEvent(event("id_000", "fragile")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if rec := store.records[0]; rec.Outcome != model.OutcomeNoEligibleWorker {
		t.Fatalf("outcome = %s, want no-eligible-worker", rec.Outcome)
	}
}

func TestRejectedByWorkerWhenQueueFull(t *testing.T) {
	h := newHarness(t, Config{HumanPenaltyFactor: 1000}) // robot always wins
	for i, want := range []model.Outcome{
		model.OutcomeAssigned,
		model.OutcomeAssigned,
		model.OutcomeRejectedByWorker,
	} {
		if err := h.disp.HandleTaskEvent(event(fmt.Sprintf("id_%03d", i), "std")); err != nil {
			t.Fatalf("handle %d: %v", i, err)
		}
		if rec := lastRecord(t, h); rec.Outcome != want {
			t.Fatalf("event %d outcome = %s, want %s", i, rec.Outcome, want)
		}
	}
	// The rejecting worker is still named in the audit record.
	if rec := lastRecord(t, h); rec.WorkerID != "robot-1" {
		t.Errorf("rejected record names %q, want robot-1", rec.WorkerID)
	}
}

func TestPriorityRulePreemptsHead(t *testing.T) {
	h := newHarness(t, Config{
		HumanPenaltyFactor: 1000,
		PriorityRules:      []PriorityRule{{Match: "urgent", Value: 5}},
	})
	if err := h.disp.HandleTaskEvent(event("id_000", "std")); err != nil {
		t.Fatalf("handle first: %v", err)
	}
	if err := h.disp.HandleTaskEvent(event("id_001", "urgent")); err != nil {
		t.Fatalf("handle urgent: %v", err)
	}
	robot, _ := h.fleet.Worker("robot-1")
	if robot.Head().ID != "id_001" {
		t.Fatalf("head = %s, want the urgent task at the head", robot.Head().ID)
	}
}

func TestTimingRuleRaisesRawEta(t *testing.T) {
	h := newHarness(t, Config{
		HumanPenaltyFactor: 1000,
		TimingRules:        []TimingRule{{Match: "heavy", ExtraMountSeconds: 10, ExtraUnmountSeconds: 10, TravelFactor: 2}},
	})
	if err := h.disp.HandleTaskEvent(event("id_000", "heavy")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	rec := lastRecord(t, h)
	// 2*100/1 travel plus 20s handling for the robot at (0,0).
	if rec.RawEtaSeconds != 220 {
		t.Errorf("raw eta = %v, want 220", rec.RawEtaSeconds)
	}
}

func TestOneAuditRecordPerEvent(t *testing.T) {
	h := newHarness(t, Config{})
	events := []model.TaskEvent{
		event("id_000", "std"),
		{ID: "id_001", OriginCode: "X", DestinationCode: "B"},
		event("id_002", "std"),
	}
	for _, ev := range events {
		if err := h.disp.HandleTaskEvent(ev); err != nil {
			t.Fatalf("handle %s: %v", ev.ID, err)
		}
	}
	if len(h.store.records) != len(events) {
		t.Fatalf("got %d records for %d events", len(h.store.records), len(events))
	}
	for i, ev := range events {
		if h.store.records[i].TaskID != ev.ID {
			t.Errorf("record %d is for %s, want %s", i, h.store.records[i].TaskID, ev.ID)
		}
	}
}

func TestValidateRejectsPenaltyBelowOne(t *testing.T) {
	cfg := Config{HumanPenaltyFactor: 0.5}
	cfg.SetDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for penalty below 1")
	}
}
