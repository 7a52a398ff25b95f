package robot

import "testing"

func TestJointName_MinTravel(t *testing.T) {
	tests := []struct {
		joint JointName
		slide bool
		min   int
	}{
		{LiftSlide, true, 1500},
		{IntakeSlide, true, 1500},
		{Grabber, false, 150},
		{Claw, false, 150},
		{ArmYaw, false, 300},
		{V4B, false, 300},
	}

	for _, tt := range tests {
		if got := tt.joint.IsSlide(); got != tt.slide {
			t.Errorf("%s.IsSlide() = %v, want %v", tt.joint, got, tt.slide)
		}
		if got := tt.joint.MinTravel(); got != tt.min {
			t.Errorf("%s.MinTravel() = %d, want %d", tt.joint, got, tt.min)
		}
	}
}
