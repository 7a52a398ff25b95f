package subsystem

import (
	"math"
	"time"

	"github.com/gwillem/conebot/pkg/timer"
)

// ServoAxis tracks a servo's commanded position. Servos report nothing
// back, so the axis counts as busy until the travel time for the last
// change has elapsed.
type ServoAxis struct {
	servo  Servo
	travel time.Duration // time to sweep the full [0, 1] range
	timer  *timer.Timer
	target float64
	settle time.Duration
}

// NewServoAxis creates an axis that starts settled at initial.
func NewServoAxis(servo Servo, travel time.Duration, initial float64, clock timer.Clock) *ServoAxis {
	return &ServoAxis{
		servo:  servo,
		travel: travel,
		timer:  timer.New(clock),
		target: clamp(initial, 0, 1),
	}
}

// Set commands a new position. Repeating the current target does not
// restart the settle timer.
func (a *ServoAxis) Set(pos float64) {
	pos = clamp(pos, 0, 1)
	if pos == a.target {
		return
	}
	a.settle = time.Duration(math.Abs(pos-a.target) * float64(a.travel))
	a.target = pos
	a.timer.Reset()
}

// Target returns the last commanded position.
func (a *ServoAxis) Target() float64 {
	return a.target
}

// IsBusy reports whether the servo is still travelling to its target.
func (a *ServoAxis) IsBusy() bool {
	return a.timer.Elapsed() < a.settle
}

// Update writes the target to the servo.
func (a *ServoAxis) Update() {
	a.servo.SetPosition(a.target)
}

// SlideConfig describes a linear slide driven by an encoder motor.
type SlideConfig struct {
	Min       int     `json:"min" mapstructure:"min"`
	Max       int     `json:"max" mapstructure:"max"`
	Tolerance int     `json:"tolerance" mapstructure:"tolerance"`
	MaxStep   float64 `json:"max_step" mapstructure:"max_step"` // ticks per Update at full speed
}

// SlideAxis ramps a motor's target toward a goal and tracks the encoder
// position read on the last Update.
type SlideAxis struct {
	motor      Motor
	cfg        SlideConfig
	multiplier float64
	goal       int
	command    float64
	position   int
}

// NewSlideAxis creates a slide holding at the motor's current position.
func NewSlideAxis(motor Motor, cfg SlideConfig) *SlideAxis {
	pos := motor.Position()
	return &SlideAxis{
		motor:      motor,
		cfg:        cfg,
		multiplier: 1,
		goal:       pos,
		command:    float64(pos),
		position:   pos,
	}
}

// Set changes the goal, clamped to the slide's travel.
func (a *SlideAxis) Set(goal int) {
	a.goal = clampInt(goal, a.cfg.Min, a.cfg.Max)
}

// Goal returns the current goal in ticks.
func (a *SlideAxis) Goal() int {
	return a.goal
}

// Stop holds the slide where it was last measured.
func (a *SlideAxis) Stop() {
	a.goal = a.position
	a.command = float64(a.position)
}

// SetMultiplier scales the ramp speed. Values are clamped to [0, 1].
func (a *SlideAxis) SetMultiplier(m float64) {
	a.multiplier = clamp(m, 0, 1)
}

// Multiplier returns the current speed multiplier.
func (a *SlideAxis) Multiplier() float64 {
	return a.multiplier
}

// Position returns the encoder reading from the last Update.
func (a *SlideAxis) Position() int {
	return a.position
}

// IsBusy reports whether the slide is outside tolerance of its goal.
func (a *SlideAxis) IsBusy() bool {
	diff := a.position - a.goal
	if diff < 0 {
		diff = -diff
	}
	return diff > a.cfg.Tolerance
}

// Update advances the ramped target by at most one step, writes it to the
// motor and reads the encoder.
func (a *SlideAxis) Update() {
	step := a.cfg.MaxStep * a.multiplier
	diff := float64(a.goal) - a.command
	if math.Abs(diff) <= step {
		a.command = float64(a.goal)
	} else {
		a.command += math.Copysign(step, diff)
	}
	a.motor.SetTarget(int(math.Round(a.command)))
	a.position = a.motor.Position()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
