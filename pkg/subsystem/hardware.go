// Package subsystem implements the lift and intake mechanisms: named
// preset setpoints, per-axis busy predicates, and a once-per-tick Update
// that pushes commands to hardware.
package subsystem

// Servo is a positional output without feedback. Positions are in [0, 1].
type Servo interface {
	SetPosition(pos float64)
}

// Motor is a position-controlled output with encoder feedback.
type Motor interface {
	SetTarget(ticks int)
	Position() int
}

// RangeSensor measures distance to the nearest object in millimetres.
type RangeSensor interface {
	Distance() float64
}
