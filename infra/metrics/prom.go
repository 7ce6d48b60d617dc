package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/logistics-sim/fleetsim/core/metrics"
	"github.com/logistics-sim/fleetsim/core/model"
)

// PromSink records assignment outcomes in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	rawEta      prometheus.Histogram
	simTime     prometheus.Gauge
}

// NewPromSink registers metrics on the default Prometheus registerer. The
// HTTP server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetsim_assignments_total",
		Help: "Total number of dispatched events by outcome",
	}, []string{"outcome", "worker_id"})
	rawEta := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetsim_raw_eta_seconds",
		Help:    "Raw planning ETA of assigned tasks",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	simTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetsim_simulated_seconds",
		Help: "Current simulated time",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rawEta); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rawEta = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(simTime); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			simTime = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	return &PromSink{assignments: assignments, rawEta: rawEta, simTime: simTime}, nil
}

// RecordAssignment implements the core metrics sink.
func (s *PromSink) RecordAssignment(rec model.AssignmentRecord) error {
	s.assignments.WithLabelValues(string(rec.Outcome), rec.WorkerID).Inc()
	if rec.Outcome == model.OutcomeAssigned {
		s.rawEta.Observe(rec.RawEtaSeconds)
	}
	return nil
}

// RecordTick updates the simulated-time gauge.
func (s *PromSink) RecordTick(simSeconds float64) error {
	s.simTime.Set(simSeconds)
	return nil
}

var _ coremetrics.Sink = (*PromSink)(nil)
var _ coremetrics.TickRecorder = (*PromSink)(nil)
