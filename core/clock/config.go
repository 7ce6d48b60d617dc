package clock

import "fmt"

// Config defines the schedule source and the time-integration parameters.
type Config struct {
	// SchedulePath is the schedule file replayed by the clock.
	SchedulePath string `json:"schedule_path"`
	// Mode selects the time column format: "elapsed" or "timeofday".
	Mode string `json:"mode"`
	// MicroStepSeconds is the fixed simulated-time increment consumed per
	// iteration inside a tick.
	MicroStepSeconds float64 `json:"micro_step_seconds"`
	// MaxStepsPerTick bounds micro-steps per tick; excess budget carries over.
	MaxStepsPerTick int `json:"max_steps_per_tick"`
	// StartDelaySeconds delays the first micro-step by this many simulated
	// seconds after Begin.
	StartDelaySeconds float64 `json:"start_delay_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Mode == "" {
		c.Mode = string(ModeElapsed)
	}
	if c.MicroStepSeconds <= 0 {
		c.MicroStepSeconds = 0.1
	}
	if c.MaxStepsPerTick <= 0 {
		c.MaxStepsPerTick = 1000
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch TimeMode(c.Mode) {
	case ModeElapsed, ModeTimeOfDay:
	default:
		return fmt.Errorf("unknown time mode %q", c.Mode)
	}
	if c.StartDelaySeconds < 0 {
		return fmt.Errorf("start_delay_seconds must not be negative")
	}
	return nil
}
