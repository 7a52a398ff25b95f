// Package subsystemtest provides deterministic lift and intake fakes for
// sequencer tests. Each axis stays busy for a fixed number of Update calls
// after a command that changes it.
package subsystemtest

import "github.com/gwillem/conebot/pkg/subsystem"

// Lift is a fake subsystem.LiftControl.
type Lift struct {
	// Busy durations, in updates, applied when a command changes an axis.
	SlideTicks   int
	GrabberTicks int
	ArmTicks     int

	// Stalled freezes every axis in whatever busy state it is in.
	Stalled bool

	Config  subsystem.LiftConfig
	Updates int

	state       subsystem.LiftState
	grabberOpen bool
	armAngle    float64
	position    int

	slideBusy   int
	grabberBusy int
	armBusy     int
}

// NewLift returns a retracted fake lift with every axis taking n updates.
func NewLift(n int) *Lift {
	return &Lift{
		SlideTicks:   n,
		GrabberTicks: n,
		ArmTicks:     n,
		Config:       subsystem.DefaultLiftConfig(),
		state:        subsystem.LiftRetract,
	}
}

func (l *Lift) SetState(s subsystem.LiftState) {
	if s == l.state {
		return
	}
	l.state = s
	l.slideBusy = l.SlideTicks
	if l.slideBusy == 0 {
		l.position = l.Config.Height(s)
	}
}

func (l *Lift) State() subsystem.LiftState { return l.state }

func (l *Lift) OpenGrabber()  { l.setGrabber(true) }
func (l *Lift) CloseGrabber() { l.setGrabber(false) }

// GrabberOpen reports the last grabber command.
func (l *Lift) GrabberOpen() bool { return l.grabberOpen }

func (l *Lift) setGrabber(open bool) {
	if open == l.grabberOpen {
		return
	}
	l.grabberOpen = open
	l.grabberBusy = l.GrabberTicks
}

func (l *Lift) SetYawArmAngle(deg float64) {
	if deg == l.armAngle {
		return
	}
	l.armAngle = deg
	l.armBusy = l.ArmTicks
}

func (l *Lift) YawArmAngle() float64 { return l.armAngle }

// SetSlidePosition overrides the simulated slide reading.
func (l *Lift) SetSlidePosition(ticks int) { l.position = ticks }

func (l *Lift) SlidePosition() int  { return l.position }
func (l *Lift) AboveMid() bool      { return l.position > l.Config.MidHeight }
func (l *Lift) CanControlArm() bool { return l.position >= l.Config.ArmClearance }

func (l *Lift) IsBusy() bool        { return l.slideBusy > 0 }
func (l *Lift) IsGrabberBusy() bool { return l.grabberBusy > 0 }
func (l *Lift) IsYawArmBusy() bool  { return l.armBusy > 0 }

func (l *Lift) Update() {
	l.Updates++
	if l.Stalled {
		return
	}
	if l.slideBusy > 0 {
		l.slideBusy--
		if l.slideBusy == 0 {
			l.position = l.Config.Height(l.state)
		}
	}
	if l.grabberBusy > 0 {
		l.grabberBusy--
	}
	if l.armBusy > 0 {
		l.armBusy--
	}
}

// Intake is a fake subsystem.IntakeControl.
type Intake struct {
	SlideTicks int
	V4BTicks   int
	ClawTicks  int

	Stalled bool

	// Sensor readings returned as-is.
	ConeClose    bool
	ConeDetected bool

	Config  subsystem.IntakeConfig
	Updates int

	slideGoal  int
	position   int
	v4b        subsystem.V4BPosition
	clawClosed bool
	multiplier float64

	slideBusy int
	v4bBusy   int
	clawBusy  int
}

// NewIntake returns a fake intake with the slides home, the four-bar
// completely retracted and the claw closed; every axis takes n updates.
func NewIntake(n int) *Intake {
	return &Intake{
		SlideTicks: n,
		V4BTicks:   n,
		ClawTicks:  n,
		Config:     subsystem.DefaultIntakeConfig(),
		v4b:        subsystem.V4BCompletelyRetracted,
		clawClosed: true,
		multiplier: 1,
	}
}

func (in *Intake) ExtendFully() { in.setSlide(in.Config.ExtendedTicks) }

func (in *Intake) RetractPart(v4b subsystem.V4BPosition) {
	in.setSlide(in.Config.RetractedTicks)
	in.SetV4B(v4b)
}

func (in *Intake) RetractFully() { in.RetractPart(subsystem.V4BCompletelyRetracted) }

func (in *Intake) StopSlides() {
	in.slideGoal = in.position
	in.slideBusy = 0
}

func (in *Intake) SetMultiplier(m float64) { in.multiplier = m }

// Multiplier returns the last speed multiplier.
func (in *Intake) Multiplier() float64 { return in.multiplier }

func (in *Intake) SetV4B(p subsystem.V4BPosition) {
	if p == in.v4b {
		return
	}
	in.v4b = p
	in.v4bBusy = in.V4BTicks
}

// V4B returns the last four-bar preset.
func (in *Intake) V4B() subsystem.V4BPosition { return in.v4b }

func (in *Intake) Grab()    { in.setClaw(true) }
func (in *Intake) Release() { in.setClaw(false) }

// ClawClosed reports the last claw command.
func (in *Intake) ClawClosed() bool { return in.clawClosed }

// SlideGoal returns the last slide goal in ticks.
func (in *Intake) SlideGoal() int { return in.slideGoal }

func (in *Intake) setSlide(goal int) {
	if goal == in.slideGoal {
		return
	}
	in.slideGoal = goal
	in.slideBusy = in.SlideTicks
	if in.slideBusy == 0 {
		in.position = goal
	}
}

func (in *Intake) setClaw(closed bool) {
	if closed == in.clawClosed {
		return
	}
	in.clawClosed = closed
	in.clawBusy = in.ClawTicks
}

func (in *Intake) SlidePosition() int   { return in.position }
func (in *Intake) IsConeClose() bool    { return in.ConeClose }
func (in *Intake) IsConeDetected() bool { return in.ConeDetected }

func (in *Intake) IsBusy() bool     { return in.slideBusy > 0 || in.v4bBusy > 0 }
func (in *Intake) IsClawBusy() bool { return in.clawBusy > 0 }
func (in *Intake) IsV4BBusy() bool  { return in.v4bBusy > 0 }

func (in *Intake) Update() {
	in.Updates++
	if in.Stalled {
		return
	}
	if in.slideBusy > 0 {
		in.slideBusy--
		if in.slideBusy == 0 {
			in.position = in.slideGoal
		}
	}
	if in.v4bBusy > 0 {
		in.v4bBusy--
	}
	if in.clawBusy > 0 {
		in.clawBusy--
	}
}

var (
	_ subsystem.LiftControl   = (*Lift)(nil)
	_ subsystem.IntakeControl = (*Intake)(nil)
)
