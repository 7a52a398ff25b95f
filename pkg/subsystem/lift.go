package subsystem

import "github.com/gwillem/conebot/pkg/timer"

// LiftHardware is the set of outputs the lift drives.
type LiftHardware struct {
	Slide   Motor
	Grabber Servo
	Arm     Servo
}

// Lift is the vertical slide carrying the grabber and the yaw arm.
type Lift struct {
	cfg      LiftConfig
	slides   *SlideAxis
	grabber  *ServoAxis
	arm      *ServoAxis
	state    LiftState
	armAngle float64
}

// NewLift creates a lift in the retracted state with the grabber closed
// and the arm facing forward.
func NewLift(hw LiftHardware, cfg LiftConfig, clock timer.Clock) *Lift {
	l := &Lift{
		cfg:     cfg,
		slides:  NewSlideAxis(hw.Slide, cfg.Slide),
		grabber: NewServoAxis(hw.Grabber, cfg.GrabberTravel, cfg.GrabberClosed, clock),
		state:   LiftRetract,
	}
	l.arm = NewServoAxis(hw.Arm, cfg.ArmTravel, l.armPosition(0), clock)
	return l
}

// SetState commands the slides to a preset height.
func (l *Lift) SetState(s LiftState) {
	l.state = s
	l.slides.Set(l.cfg.Height(s))
}

// State returns the last commanded preset.
func (l *Lift) State() LiftState {
	return l.state
}

// OpenGrabber releases the cone held on the lift.
func (l *Lift) OpenGrabber() { l.grabber.Set(l.cfg.GrabberOpen) }

// CloseGrabber clamps the grabber shut.
func (l *Lift) CloseGrabber() { l.grabber.Set(l.cfg.GrabberClosed) }

// GrabberOpen reports whether the grabber was last commanded open.
func (l *Lift) GrabberOpen() bool {
	return l.grabber.Target() == clamp(l.cfg.GrabberOpen, 0, 1)
}

// SetYawArmAngle turns the arm to deg, measured counter-clockwise from
// straight ahead. Angles are wrapped into the arm's range.
func (l *Lift) SetYawArmAngle(deg float64) {
	deg = wrapAngle(deg, l.cfg.ArmMinAngle, l.cfg.ArmMaxAngle)
	l.armAngle = deg
	l.arm.Set(l.armPosition(deg))
}

// YawArmAngle returns the last commanded arm angle in degrees.
func (l *Lift) YawArmAngle() float64 {
	return l.armAngle
}

// SlidePosition returns the encoder reading from the last Update.
func (l *Lift) SlidePosition() int { return l.slides.Position() }

// AboveMid reports whether the slides have passed the mid junction height.
func (l *Lift) AboveMid() bool {
	return l.slides.Position() > l.cfg.MidHeight
}

// CanControlArm reports whether the slides are high enough for the arm
// to swing freely.
func (l *Lift) CanControlArm() bool {
	return l.slides.Position() >= l.cfg.ArmClearance
}

// IsBusy reports whether the slides are still moving. The grabber and
// the arm have their own predicates.
func (l *Lift) IsBusy() bool { return l.slides.IsBusy() }

// IsGrabberBusy reports whether the grabber is still travelling.
func (l *Lift) IsGrabberBusy() bool { return l.grabber.IsBusy() }

// IsYawArmBusy reports whether the arm is still swinging.
func (l *Lift) IsYawArmBusy() bool { return l.arm.IsBusy() }

// Update pushes this tick's commands to the hardware.
func (l *Lift) Update() {
	l.slides.Update()
	l.grabber.Update()
	l.arm.Update()
}

func (l *Lift) armPosition(deg float64) float64 {
	span := l.cfg.ArmMaxAngle - l.cfg.ArmMinAngle
	if span <= 0 {
		return 0
	}
	return (deg - l.cfg.ArmMinAngle) / span
}

func wrapAngle(deg, lo, hi float64) float64 {
	for deg < lo {
		deg += 360
	}
	for deg > hi {
		deg -= 360
	}
	return deg
}
