package metrics

import "github.com/logistics-sim/fleetsim/core/model"

// Sink records assignment outcomes for observability purposes.
type Sink interface {
	RecordAssignment(rec model.AssignmentRecord) error
}

// TickRecorder optionally records the simulated time after each tick.
type TickRecorder interface {
	RecordTick(simSeconds float64) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordAssignment(model.AssignmentRecord) error { return nil }
func (NopSink) RecordTick(float64) error                      { return nil }

// Config enables the metrics backends.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
