package mqtt

import (
	"fmt"
	"sync"

	"github.com/logistics-sim/fleetsim/core/model"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Records []model.AssignmentRecord
	Fail    bool
	Closed  bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishAssignment records the assignment or returns an error if configured
// to fail.
func (m *MockPublisher) PublishAssignment(rec model.AssignmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Records = append(m.Records, rec)
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
