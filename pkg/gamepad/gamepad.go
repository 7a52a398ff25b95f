// Package gamepad turns key presses from the terminal into operator input
// for the scoring macro.
package gamepad

import (
	"sync"
	"time"

	"github.com/gwillem/conebot/pkg/scoring"
	"github.com/gwillem/conebot/pkg/timer"
)

// Button is a one-shot gamepad button.
type Button int

const (
	A Button = iota
	B
	X
	Y
	DpadUp
	DpadDown
	DpadLeft
	DpadRight
	LeftBumper
	RightBumper
)

var buttonNames = map[Button]string{
	A:           "a",
	B:           "b",
	X:           "x",
	Y:           "y",
	DpadUp:      "dpad_up",
	DpadDown:    "dpad_down",
	DpadLeft:    "dpad_left",
	DpadRight:   "dpad_right",
	LeftBumper:  "left_bumper",
	RightBumper: "right_bumper",
}

func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return "unknown"
}

// Gamepad latches button presses until the next Snapshot, so a press
// between two control ticks is never lost and never seen twice. It is safe
// for use by the UI goroutine and the control loop at the same time.
type Gamepad struct {
	clock timer.Clock

	mu          sync.RWMutex
	pressed     map[Button]bool
	x, y        float64
	rumbleUntil time.Time
}

// New creates an idle gamepad. A nil clock uses the wall clock.
func New(clock timer.Clock) *Gamepad {
	if clock == nil {
		clock = timer.System
	}
	return &Gamepad{
		clock:   clock,
		pressed: make(map[Button]bool),
	}
}

// Press latches b.
func (g *Gamepad) Press(b Button) {
	g.mu.Lock()
	g.pressed[b] = true
	g.mu.Unlock()
}

// SetStick sets the right stick. Values are clamped to [-1, 1].
func (g *Gamepad) SetStick(x, y float64) {
	g.mu.Lock()
	g.x, g.y = clampAxis(x), clampAxis(y)
	g.mu.Unlock()
}

// NudgeStick moves the right stick by (dx, dy).
func (g *Gamepad) NudgeStick(dx, dy float64) {
	g.mu.Lock()
	g.x, g.y = clampAxis(g.x+dx), clampAxis(g.y+dy)
	g.mu.Unlock()
}

// Stick returns the right stick position.
func (g *Gamepad) Stick() (x, y float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.x, g.y
}

// Take reports whether b was pressed since the last Take or Snapshot and
// clears it.
func (g *Gamepad) Take(b Button) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.pressed[b]
	delete(g.pressed, b)
	return p
}

// Snapshot returns the controls for one scoring tick and clears every
// latched button. The stick is level-triggered and is left as is.
//
// Mapping: A grabs, B cancels, X deposits, Y/right bumper/left bumper pick
// the high/mid/low junction, the d-pad selects arm presets.
func (g *Gamepad) Snapshot() scoring.Input {
	g.mu.Lock()
	defer g.mu.Unlock()

	in := scoring.Input{
		IntakeGrab: g.pressed[A],
		Cancel:     g.pressed[B],
		Deposit:    g.pressed[X],
		LiftHigh:   g.pressed[Y],
		LiftMid:    g.pressed[RightBumper],
		LiftLow:    g.pressed[LeftBumper],
		Arm0:       g.pressed[DpadUp],
		Arm90:      g.pressed[DpadLeft],
		Arm180:     g.pressed[DpadDown],
		Arm270:     g.pressed[DpadRight],
		ArmX:       g.x,
		ArmY:       g.y,
	}
	clear(g.pressed)
	return in
}

// Rumble vibrates the pad for d. A longer rumble already running is kept.
func (g *Gamepad) Rumble(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	until := g.clock.Now().Add(d)
	if until.After(g.rumbleUntil) {
		g.rumbleUntil = until
	}
}

// Rumbling reports whether a rumble is in progress.
func (g *Gamepad) Rumbling() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.clock.Now().Before(g.rumbleUntil)
}

var _ scoring.Rumbler = (*Gamepad)(nil)

func clampAxis(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
