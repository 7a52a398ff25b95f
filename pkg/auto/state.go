package auto

// State is a step of the autonomous routine.
type State string

const (
	DriveToSpot        State = "DRIVE_TO_SPOT"
	Deposit            State = "DEPOSIT"
	Deposit2           State = "DEPOSIT_2"
	GrabCone           State = "GRAB_CONE"
	Collect            State = "COLLECT"
	ChooseParkLocation State = "CHOOSE_PARK_LOCATION"
	Park               State = "PARK"
	Wait               State = "WAIT"
	Idle               State = "IDLE"
)

// States returns every state in routine order.
func States() []State {
	return []State{DriveToSpot, Deposit, Deposit2, GrabCone, Collect, ChooseParkLocation, Park, Wait, Idle}
}

// Parking reports whether s belongs to the parking branch.
func (s State) Parking() bool {
	return s == ChooseParkLocation || s == Park || s == Idle
}
