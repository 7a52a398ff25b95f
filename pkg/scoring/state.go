package scoring

// State is a step of the scoring macro.
type State string

const (
	Reset          State = "RESET"
	Retracted      State = "RETRACTED"
	Extending      State = "EXTENDING"
	Grabbing       State = "GRABBING"
	Retracting     State = "RETRACTING"
	Collecting1    State = "COLLECTING_1"
	Transferring   State = "TRANSFERRING"
	Releasing1     State = "RELEASING_1"
	Releasing2     State = "RELEASING_2"
	Lowered        State = "LOWERED"
	Lifting        State = "LIFTING"
	ControllingArm State = "CONTROLLING_ARM"
	Depositing     State = "DEPOSITING"
	Lowering       State = "LOWERING"
)

// States returns every state in macro order, RESET first.
func States() []State {
	return []State{
		Reset, Retracted, Extending, Grabbing, Retracting, Collecting1,
		Transferring, Releasing1, Releasing2, Lowered, Lifting,
		ControllingArm, Depositing, Lowering,
	}
}
