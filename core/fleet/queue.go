package fleet

import "github.com/logistics-sim/fleetsim/core/model"

// QueueCapacity is the fixed number of task slots a worker holds.
const QueueCapacity = 2

// Queue is a fixed-capacity ordered task container. Slot 0 is the head, the
// task currently being executed.
type Queue struct {
	slots [QueueCapacity]*model.Task
	n     int
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int { return q.n }

// Full reports whether every slot is occupied.
func (q *Queue) Full() bool { return q.n == QueueCapacity }

// Head returns the executing task, or nil when empty.
func (q *Queue) Head() *model.Task {
	if q.n == 0 {
		return nil
	}
	return q.slots[0]
}

// Final returns the last queued task, or nil when empty.
func (q *Queue) Final() *model.Task {
	if q.n == 0 {
		return nil
	}
	return q.slots[q.n-1]
}

// Append places t in the first free slot. It returns false when the queue is
// full.
func (q *Queue) Append(t *model.Task) bool {
	if q.Full() {
		return false
	}
	q.slots[q.n] = t
	q.n++
	return true
}

// Preempt shifts the current head to the tail slot and installs t at the
// head. It returns false when the tail slot is occupied or the queue is
// empty.
func (q *Queue) Preempt(t *model.Task) bool {
	if q.n != 1 {
		return false
	}
	q.slots[1] = q.slots[0]
	q.slots[0] = t
	q.n = 2
	return true
}

// ShiftLeft removes and returns the head, moving the tail task up.
func (q *Queue) ShiftLeft() *model.Task {
	if q.n == 0 {
		return nil
	}
	head := q.slots[0]
	q.slots[0] = q.slots[1]
	q.slots[1] = nil
	q.n--
	return head
}

// Tasks returns the queued tasks in order.
func (q *Queue) Tasks() []*model.Task {
	out := make([]*model.Task, 0, q.n)
	for i := 0; i < q.n; i++ {
		out = append(out, q.slots[i])
	}
	return out
}
