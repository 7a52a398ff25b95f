package subsystem

import "time"

// LiftConfig holds lift heights and servo constants.
type LiftConfig struct {
	Slide         SlideConfig `json:"slide" mapstructure:"slide"`
	RetractHeight int         `json:"retract_height" mapstructure:"retract_height"`
	CollectHeight int         `json:"collect_height" mapstructure:"collect_height"`
	LowHeight     int         `json:"low_height" mapstructure:"low_height"`
	MidHeight     int         `json:"mid_height" mapstructure:"mid_height"`
	HighHeight    int         `json:"high_height" mapstructure:"high_height"`

	// ArmClearance is the slide height above which the yaw arm may swing
	// without hitting the robot frame. It must not exceed LowHeight.
	ArmClearance int `json:"arm_clearance" mapstructure:"arm_clearance"`

	GrabberOpen   float64       `json:"grabber_open" mapstructure:"grabber_open"`
	GrabberClosed float64       `json:"grabber_closed" mapstructure:"grabber_closed"`
	GrabberTravel time.Duration `json:"grabber_travel" mapstructure:"grabber_travel"`

	ArmMinAngle float64       `json:"arm_min_angle" mapstructure:"arm_min_angle"`
	ArmMaxAngle float64       `json:"arm_max_angle" mapstructure:"arm_max_angle"`
	ArmTravel   time.Duration `json:"arm_travel" mapstructure:"arm_travel"`
}

// DefaultLiftConfig returns the tuned lift constants.
func DefaultLiftConfig() LiftConfig {
	return LiftConfig{
		Slide: SlideConfig{
			Min:       0,
			Max:       2400,
			Tolerance: 15,
			MaxStep:   60,
		},
		RetractHeight: 0,
		CollectHeight: 150,
		LowHeight:     900,
		MidHeight:     1500,
		HighHeight:    2300,
		ArmClearance:  850,
		GrabberOpen:   0.35,
		GrabberClosed: 0.6,
		GrabberTravel: 300 * time.Millisecond,
		ArmMinAngle:   -90,
		ArmMaxAngle:   270,
		ArmTravel:     1200 * time.Millisecond,
	}
}

// Height returns the slide goal for a lift state.
func (c LiftConfig) Height(s LiftState) int {
	switch s {
	case LiftCollect:
		return c.CollectHeight
	case LiftLow:
		return c.LowHeight
	case LiftMid:
		return c.MidHeight
	case LiftHigh:
		return c.HighHeight
	default:
		return c.RetractHeight
	}
}

// IntakeConfig holds intake extension, four-bar and claw constants.
type IntakeConfig struct {
	Slide          SlideConfig `json:"slide" mapstructure:"slide"`
	ExtendedTicks  int         `json:"extended_ticks" mapstructure:"extended_ticks"`
	RetractedTicks int         `json:"retracted_ticks" mapstructure:"retracted_ticks"`

	V4BCompletelyRetracted float64       `json:"v4b_completely_retracted" mapstructure:"v4b_completely_retracted"`
	V4BRetracted           float64       `json:"v4b_retracted" mapstructure:"v4b_retracted"`
	V4BDown                float64       `json:"v4b_down" mapstructure:"v4b_down"`
	StackPositions         []float64     `json:"stack_positions" mapstructure:"stack_positions"`
	V4BTravel              time.Duration `json:"v4b_travel" mapstructure:"v4b_travel"`

	ClawOpen   float64       `json:"claw_open" mapstructure:"claw_open"`
	ClawClosed float64       `json:"claw_closed" mapstructure:"claw_closed"`
	ClawTravel time.Duration `json:"claw_travel" mapstructure:"claw_travel"`

	// Distances in millimetres from the claw's range sensor.
	ConeCloseDistance  float64 `json:"cone_close_distance" mapstructure:"cone_close_distance"`
	ConeDetectDistance float64 `json:"cone_detect_distance" mapstructure:"cone_detect_distance"`
}

// DefaultIntakeConfig returns the tuned intake constants.
func DefaultIntakeConfig() IntakeConfig {
	return IntakeConfig{
		Slide: SlideConfig{
			Min:       0,
			Max:       1800,
			Tolerance: 15,
			MaxStep:   50,
		},
		ExtendedTicks:          1800,
		RetractedTicks:         0,
		V4BCompletelyRetracted: 0.05,
		V4BRetracted:           0.3,
		V4BDown:                0.9,
		StackPositions:         []float64{0.72, 0.75, 0.78, 0.81, 0.84},
		V4BTravel:              800 * time.Millisecond,
		ClawOpen:               0.2,
		ClawClosed:             0.55,
		ClawTravel:             400 * time.Millisecond,
		ConeCloseDistance:      120,
		ConeDetectDistance:     35,
	}
}

// V4B returns the servo position for a four-bar preset.
func (c IntakeConfig) V4B(p V4BPosition) float64 {
	switch p {
	case V4BCompletelyRetracted:
		return c.V4BCompletelyRetracted
	case V4BRetracted:
		return c.V4BRetracted
	case V4BDown:
		return c.V4BDown
	}
	i := int(p - V4BStack1)
	if i < 0 || len(c.StackPositions) == 0 {
		return c.V4BRetracted
	}
	if i >= len(c.StackPositions) {
		i = len(c.StackPositions) - 1
	}
	return c.StackPositions[i]
}
