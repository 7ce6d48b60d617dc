package model

// Outcome classifies the result of dispatching one fired event.
type Outcome string

const (
	OutcomeAssigned           Outcome = "assigned"
	OutcomeUnresolvedLocation Outcome = "unresolved-location"
	OutcomeNoEligibleWorker   Outcome = "no-eligible-worker"
	OutcomeRejectedByWorker   Outcome = "rejected-by-worker"
)

// AssignmentRecord is one append-only audit entry, written per fired event in
// firing order.
type AssignmentRecord struct {
	RunID          string  `json:"run_id"`
	TaskID         string  `json:"task_id"`
	WorkerID       string  `json:"worker_id,omitempty"`
	RawEtaSeconds  float64 `json:"raw_eta_seconds"`
	SelectionScore float64 `json:"selection_score"`
	Outcome        Outcome `json:"outcome"`
	SimTime        float64 `json:"sim_time"`
}
