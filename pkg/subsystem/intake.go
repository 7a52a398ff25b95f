package subsystem

import "github.com/gwillem/conebot/pkg/timer"

// IntakeHardware is the set of devices the intake uses.
type IntakeHardware struct {
	Slide    Motor
	V4B      Servo
	Claw     Servo
	Distance RangeSensor
}

// Intake is the horizontal telescoping slide with a four-bar and claw.
type Intake struct {
	cfg      IntakeConfig
	slides   *SlideAxis
	v4b      *ServoAxis
	claw     *ServoAxis
	sensor   RangeSensor
	distance float64
}

// NewIntake creates an intake with the slides where they are, the
// four-bar completely retracted and the claw closed.
func NewIntake(hw IntakeHardware, cfg IntakeConfig, clock timer.Clock) *Intake {
	in := &Intake{
		cfg:    cfg,
		slides: NewSlideAxis(hw.Slide, cfg.Slide),
		v4b:    NewServoAxis(hw.V4B, cfg.V4BTravel, cfg.V4BCompletelyRetracted, clock),
		claw:   NewServoAxis(hw.Claw, cfg.ClawTravel, cfg.ClawClosed, clock),
		sensor: hw.Distance,
	}
	in.readSensor()
	return in
}

// ExtendFully runs the slides out to full extension.
func (in *Intake) ExtendFully() {
	in.slides.Set(in.cfg.ExtendedTicks)
}

// RetractPart brings the slides home and moves the four-bar to v4b.
func (in *Intake) RetractPart(v4b V4BPosition) {
	in.slides.Set(in.cfg.RetractedTicks)
	in.SetV4B(v4b)
}

// RetractFully brings the slides home and tucks the four-bar inside the
// frame.
func (in *Intake) RetractFully() {
	in.RetractPart(V4BCompletelyRetracted)
}

// StopSlides holds the slides at their last measured position.
func (in *Intake) StopSlides() {
	in.slides.Stop()
}

// SetMultiplier scales slide speed, 1 being full speed.
func (in *Intake) SetMultiplier(m float64) {
	in.slides.SetMultiplier(m)
}

// Multiplier returns the current slide speed multiplier.
func (in *Intake) Multiplier() float64 {
	return in.slides.Multiplier()
}

// SetV4B moves the four-bar to a preset.
func (in *Intake) SetV4B(p V4BPosition) { in.v4b.Set(in.cfg.V4B(p)) }

// Grab closes the claw.
func (in *Intake) Grab() { in.claw.Set(in.cfg.ClawClosed) }

// Release opens the claw.
func (in *Intake) Release() { in.claw.Set(in.cfg.ClawOpen) }

// SlidePosition returns the encoder reading from the last Update.
func (in *Intake) SlidePosition() int { return in.slides.Position() }

// Distance returns the range sensor reading from the last Update.
func (in *Intake) Distance() float64 {
	return in.distance
}

// IsConeClose reports whether a cone is near enough to slow the slides.
func (in *Intake) IsConeClose() bool { return in.distance < in.cfg.ConeCloseDistance }

// IsConeDetected reports whether a cone is inside the claw.
func (in *Intake) IsConeDetected() bool { return in.distance < in.cfg.ConeDetectDistance }

// IsBusy reports whether the slides or the four-bar are still moving.
func (in *Intake) IsBusy() bool {
	return in.slides.IsBusy() || in.v4b.IsBusy()
}

// IsClawBusy reports whether the claw is still travelling.
func (in *Intake) IsClawBusy() bool { return in.claw.IsBusy() }

// IsV4BBusy reports whether the four-bar is still travelling.
func (in *Intake) IsV4BBusy() bool { return in.v4b.IsBusy() }

// Update pushes this tick's commands to the hardware and samples the
// range sensor.
func (in *Intake) Update() {
	in.slides.Update()
	in.v4b.Update()
	in.claw.Update()
	in.readSensor()
}

func (in *Intake) readSensor() {
	if in.sensor == nil {
		in.distance = in.cfg.ConeCloseDistance * 10
		return
	}
	in.distance = in.sensor.Distance()
}
