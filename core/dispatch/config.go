package dispatch

import "fmt"

// TimingRule adds per-tag timing adjustments to the raw-ETA computation.
// Rules are matched by first-substring-match against the priority tag.
type TimingRule struct {
	Match               string  `json:"match"`
	ExtraMountSeconds   float64 `json:"extra_mount_seconds"`
	ExtraUnmountSeconds float64 `json:"extra_unmount_seconds"`
	TravelFactor        float64 `json:"travel_factor"`
}

// PriorityRule maps a priority tag to an integer priority value, matched by
// first-substring-match. Unmatched tags get priority 0.
type PriorityRule struct {
	Match string `json:"match"`
	Value int    `json:"value"`
}

// Config tunes eligibility and scoring.
type Config struct {
	// RobotDisallowExact lists tags that disqualify robotic workers when they
	// match exactly.
	RobotDisallowExact []string `json:"robot_disallow_exact"`
	// RobotDisallowSubstrings disqualifies robotic workers when the tag
	// contains any entry, case-insensitively.
	RobotDisallowSubstrings []string `json:"robot_disallow_substrings"`
	// HumanPenaltyFactor multiplies human raw ETAs for comparison when
	// robotic workers are eligible. Must be at least 1.
	HumanPenaltyFactor float64        `json:"human_penalty_factor"`
	TimingRules        []TimingRule   `json:"timing_rules"`
	PriorityRules      []PriorityRule `json:"priority_rules"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.HumanPenaltyFactor == 0 {
		c.HumanPenaltyFactor = 1
	}
}

// Validate checks scoring parameters.
func (c Config) Validate() error {
	if c.HumanPenaltyFactor < 1 {
		return fmt.Errorf("human_penalty_factor must be at least 1")
	}
	for _, r := range c.TimingRules {
		if r.Match == "" {
			return fmt.Errorf("timing rule needs a non-empty match")
		}
		if r.TravelFactor < 0 {
			return fmt.Errorf("timing rule %q: travel_factor must not be negative", r.Match)
		}
	}
	for _, r := range c.PriorityRules {
		if r.Match == "" {
			return fmt.Errorf("priority rule needs a non-empty match")
		}
	}
	return nil
}
