package notify

import "github.com/logistics-sim/fleetsim/core/model"

// Publisher pushes assignment records to an external feed as they are
// written.
type Publisher interface {
	PublishAssignment(rec model.AssignmentRecord) error
	Close() error
}
