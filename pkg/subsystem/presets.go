package subsystem

import "fmt"

// LiftState is a named lift height.
type LiftState string

// Lift heights, lowest first.
const (
	LiftRetract LiftState = "retract"
	LiftCollect LiftState = "collect"
	LiftLow     LiftState = "low"
	LiftMid     LiftState = "mid"
	LiftHigh    LiftState = "high"
)

// V4BPosition is a named four-bar angle.
type V4BPosition int

// Four-bar presets. The stack presets pick cones off a five-high stack,
// top cone first.
const (
	V4BCompletelyRetracted V4BPosition = iota
	V4BRetracted
	V4BDown
	V4BStack1
	V4BStack2
	V4BStack3
	V4BStack4
	V4BStack5
)

// StackHeight is the number of cones in a starting stack.
const StackHeight = 5

// V4BStack returns the four-bar preset for the given 1-based cycle.
// Cycles past the stack height reuse the lowest cone position.
func V4BStack(cycle int) V4BPosition {
	cycle = clampInt(cycle, 1, StackHeight)
	return V4BStack1 + V4BPosition(cycle-1)
}

func (p V4BPosition) String() string {
	switch p {
	case V4BCompletelyRetracted:
		return "completely_retracted"
	case V4BRetracted:
		return "retracted"
	case V4BDown:
		return "down"
	}
	if p >= V4BStack1 && p <= V4BStack5 {
		return fmt.Sprintf("stack_%d", int(p-V4BStack1)+1)
	}
	return fmt.Sprintf("V4BPosition(%d)", int(p))
}
