package model

import "gonum.org/v1/gonum/spatial/r2"

// Point is a navigable 2D position, in meters.
type Point = r2.Vec

// Role distinguishes the two kinds of mobile workers in the fleet.
type Role string

const (
	RoleRobotic Role = "robotic"
	RoleHuman   Role = "human"
)

// ScheduledEvent is one transport request loaded from the schedule.
// Events are immutable once loaded; ids are dense, zero-padded and assigned
// in ascending firing-time order.
type ScheduledEvent struct {
	ID              string
	FiringTime      float64 // simulated seconds from sequence start
	OriginCode      string
	DestinationCode string
	PriorityTag     string
}

// TaskEvent is the notification tuple emitted when a scheduled event fires.
type TaskEvent struct {
	ID              string
	OriginCode      string
	DestinationCode string
	PriorityTag     string
}

// Task is a fired event with resolved endpoints. Before acceptance it is a
// transient value held by the dispatcher; once accepted it is owned
// exclusively by its worker.
type Task struct {
	ID          string
	Origin      Point
	Destination Point
	Priority    int
	Route       Route   // origin -> destination, planned at acceptance
	EtaSeconds  float64 // raw planning ETA stored by the dispatcher
}
