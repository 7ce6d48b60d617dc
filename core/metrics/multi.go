package metrics

import "github.com/logistics-sim/fleetsim/core/model"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignment forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignment(rec model.AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignment(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick forwards the tick to sinks that record it.
func (m *MultiSink) RecordTick(simSeconds float64) error {
	for _, s := range m.Sinks {
		if tr, ok := s.(TickRecorder); ok {
			if err := tr.RecordTick(simSeconds); err != nil {
				return err
			}
		}
	}
	return nil
}
