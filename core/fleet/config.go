package fleet

import (
	"fmt"

	"github.com/logistics-sim/fleetsim/core/model"
)

// WorkerConfig describes one mobile worker.
type WorkerConfig struct {
	ID             string  `json:"id"`
	Role           string  `json:"role"` // "robotic" or "human"
	NominalSpeed   float64 `json:"nominal_speed"`
	MountSeconds   float64 `json:"mount_seconds"`
	UnmountSeconds float64 `json:"unmount_seconds"`
	StartX         float64 `json:"start_x"`
	StartY         float64 `json:"start_y"`
}

// CongestionConfig tunes the execution-time speed reduction derived from the
// count of nearby mobile entities. Planning never uses it.
type CongestionConfig struct {
	// Radius is the proximity query radius in meters.
	Radius float64 `json:"radius"`
	// NoEffectCount is the nearby count at or below which speed is unaffected.
	NoEffectCount int `json:"no_effect_count"`
	// MaxEffectCount is the nearby count at or above which the full slowdown
	// applies.
	MaxEffectCount int `json:"max_effect_count"`
	// MaxSlowdown caps the total speed reduction as a fraction of nominal
	// speed.
	MaxSlowdown float64 `json:"max_slowdown"`
}

// IdleConfig defines the roaming behavior of workers with an empty queue.
type IdleConfig struct {
	CenterX      float64 `json:"center_x"`
	CenterY      float64 `json:"center_y"`
	Radius       float64 `json:"radius"`
	DwellSeconds float64 `json:"dwell_seconds"`
}

// Config describes the whole fleet.
type Config struct {
	Workers    []WorkerConfig   `json:"workers"`
	Congestion CongestionConfig `json:"congestion"`
	Idle       IdleConfig       `json:"idle"`
	// Seed makes idle roaming reproducible across runs.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Congestion.Radius <= 0 {
		c.Congestion.Radius = 5
	}
	if c.Congestion.MaxEffectCount <= c.Congestion.NoEffectCount {
		c.Congestion.MaxEffectCount = c.Congestion.NoEffectCount + 1
	}
	if c.Congestion.MaxSlowdown <= 0 {
		c.Congestion.MaxSlowdown = 0.5
	}
	if c.Idle.DwellSeconds <= 0 {
		c.Idle.DwellSeconds = 10
	}
	if c.Idle.Radius <= 0 {
		c.Idle.Radius = 5
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks the worker roster.
func (c Config) Validate() error {
	if len(c.Workers) == 0 {
		return fmt.Errorf("fleet: at least one worker is required")
	}
	seen := make(map[string]struct{}, len(c.Workers))
	for _, w := range c.Workers {
		if w.ID == "" {
			return fmt.Errorf("fleet: worker id is required")
		}
		if _, ok := seen[w.ID]; ok {
			return fmt.Errorf("fleet: duplicate worker id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
		switch model.Role(w.Role) {
		case model.RoleRobotic, model.RoleHuman:
		default:
			return fmt.Errorf("fleet: worker %s has unknown role %q", w.ID, w.Role)
		}
		if w.NominalSpeed <= 0 {
			return fmt.Errorf("fleet: worker %s needs a positive nominal speed", w.ID)
		}
	}
	if c.Congestion.MaxSlowdown >= 1 {
		return fmt.Errorf("fleet: max_slowdown must be below 1")
	}
	return nil
}
