// Package robot drives the lift and intake through a Feetech STS servo bus.
package robot

// JointName identifies a servo on the bus.
type JointName string

// Joints, in servo ID order.
const (
	LiftSlide   JointName = "lift_slide"
	Grabber     JointName = "grabber"
	ArmYaw      JointName = "arm_yaw"
	IntakeSlide JointName = "intake_slide"
	V4B         JointName = "v4b"
	Claw        JointName = "claw"
)

// AllJoints returns all joint names in order (matching servo IDs 1-6).
func AllJoints() []JointName {
	return []JointName{
		LiftSlide,
		Grabber,
		ArmYaw,
		IntakeSlide,
		V4B,
		Claw,
	}
}

// DefaultCalibration maps each joint to its factory ID with the full
// 12-bit position range.
func DefaultCalibration() Calibration {
	cal := make(Calibration, len(AllJoints()))
	for i, name := range AllJoints() {
		cal[name] = MotorCalibration{ID: i + 1, RangeMin: 0, RangeMax: 4095}
	}
	return cal
}

// IsSlide reports whether the joint drives a linear slide rather than a
// positional servo.
func (j JointName) IsSlide() bool {
	return j == LiftSlide || j == IntakeSlide
}

// MinTravel is the smallest raw range a calibration sweep must record
// for the joint.
func (j JointName) MinTravel() int {
	switch {
	case j.IsSlide():
		return 1500
	case j == Grabber || j == Claw:
		return 150
	default:
		return 300
	}
}
