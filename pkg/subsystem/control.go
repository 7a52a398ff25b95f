package subsystem

// LiftControl is what a sequencer needs from the lift.
type LiftControl interface {
	SetState(s LiftState)
	State() LiftState
	OpenGrabber()
	CloseGrabber()
	SetYawArmAngle(deg float64)
	YawArmAngle() float64

	SlidePosition() int
	AboveMid() bool
	CanControlArm() bool

	IsBusy() bool
	IsGrabberBusy() bool
	IsYawArmBusy() bool

	Update()
}

// IntakeControl is what a sequencer needs from the intake.
type IntakeControl interface {
	ExtendFully()
	RetractPart(v4b V4BPosition)
	RetractFully()
	StopSlides()
	SetMultiplier(m float64)
	SetV4B(p V4BPosition)
	Grab()
	Release()

	SlidePosition() int
	IsConeClose() bool
	IsConeDetected() bool

	IsBusy() bool
	IsClawBusy() bool
	IsV4BBusy() bool

	Update()
}

var (
	_ LiftControl   = (*Lift)(nil)
	_ IntakeControl = (*Intake)(nil)
)
