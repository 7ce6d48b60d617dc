// Package logging persists the append-only assignment audit trail, one
// record per fired event in firing order.
package logging

import (
	"context"
	"fmt"

	"github.com/logistics-sim/fleetsim/core/model"
)

// Query defines filters for retrieving records. Zero-valued fields match
// everything.
type Query struct {
	TaskID   string
	WorkerID string
	Outcome  model.Outcome
}

func (q Query) matches(rec model.AssignmentRecord) bool {
	if q.TaskID != "" && rec.TaskID != q.TaskID {
		return false
	}
	if q.WorkerID != "" && rec.WorkerID != q.WorkerID {
		return false
	}
	if q.Outcome != "" && rec.Outcome != q.Outcome {
		return false
	}
	return true
}

// Store persists AssignmentRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec model.AssignmentRecord) error
	Query(ctx context.Context, q Query) ([]model.AssignmentRecord, error)
	Close() error
}

// Config selects the audit store backend.
type Config struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "assignments.log"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// NewStore builds the configured store.
func NewStore(cfg Config) (Store, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return NewJSONLStore(cfg.Path)
	}
}
