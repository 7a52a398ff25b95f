package scoring

import "math"

// Input is one tick of operator controls. Buttons are one-shot: true only
// on the tick they were pressed. Axes are in [-1, 1].
type Input struct {
	IntakeGrab bool
	LiftHigh   bool
	LiftMid    bool
	LiftLow    bool
	Deposit    bool
	Cancel     bool

	ArmX float64
	ArmY float64

	Arm0   bool
	Arm90  bool
	Arm180 bool
	Arm270 bool
}

// StickAngle returns the arm stick direction in degrees, and false when
// the stick is centred.
func (in Input) StickAngle() (float64, bool) {
	if in.ArmX == 0 && in.ArmY == 0 {
		return 0, false
	}
	return math.Atan2(in.ArmY, in.ArmX) * 180 / math.Pi, true
}

// PresetAngle returns the angle of the pressed arm preset button, if any.
func (in Input) PresetAngle() (float64, bool) {
	switch {
	case in.Arm0:
		return 0, true
	case in.Arm90:
		return 90, true
	case in.Arm180:
		return 180, true
	case in.Arm270:
		return 270, true
	}
	return 0, false
}
