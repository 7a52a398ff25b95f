// Package scoring implements the driver-assist macro used during teleop:
// one button picks a cone up with the intake, hands it to the lift and
// raises it; the driver aims the arm and drops it with a second button.
// Manual lift presets and a cancel button stay live throughout.
package scoring

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/telemetry"
	"github.com/gwillem/conebot/pkg/timer"
)

// Rumbler gives the driver haptic feedback.
type Rumbler interface {
	Rumble(d time.Duration)
}

// Options are the optional collaborators of a Sequencer.
type Options struct {
	Rumbler   Rumbler
	Clock     timer.Clock
	Telemetry telemetry.Sink
	Logger    *zerolog.Logger
}

// Sequencer is the scoring macro state machine. Score is called once per
// control loop iteration and never blocks.
type Sequencer struct {
	cfg     Config
	lift    subsystem.LiftControl
	intake  subsystem.IntakeControl
	rumbler Rumbler
	tm      telemetry.Sink
	logger  zerolog.Logger

	state State
	timer *timer.Timer

	// Restored after each deposit so manual control resumes where the
	// driver left it.
	prevLift     subsystem.LiftState
	prevArmAngle float64
}

// New creates a sequencer in RESET. The lift snapshot starts at HIGH with
// the arm facing forward.
func New(cfg Config, lift subsystem.LiftControl, intake subsystem.IntakeControl, opts Options) *Sequencer {
	sink := opts.Telemetry
	if sink == nil {
		sink = telemetry.Discard
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Sequencer{
		cfg:      cfg.withDefaults(),
		lift:     lift,
		intake:   intake,
		rumbler:  opts.Rumbler,
		tm:       sink,
		logger:   logger.With().Str("component", "scoring").Logger(),
		state:    Reset,
		timer:    timer.New(opts.Clock),
		prevLift: subsystem.LiftHigh,
	}
}

// Score advances the macro by one tick.
func (s *Sequencer) Score(in Input) {
	if in.Cancel {
		s.cancel()
	} else {
		s.step(in)
	}

	switch {
	case in.LiftHigh:
		s.setLift(subsystem.LiftHigh)
	case in.LiftMid:
		s.setLift(subsystem.LiftMid)
	case in.LiftLow:
		s.setLift(subsystem.LiftLow)
	}

	s.lift.Update()
	s.intake.Update()

	s.report()
}

func (s *Sequencer) step(in Input) {
	switch s.state {
	case Retracted:
		s.intake.RetractPart(subsystem.V4BRetracted)
		s.intake.Grab()
		if in.IntakeGrab {
			s.intake.SetV4B(subsystem.V4BDown)
			s.intake.Release()
			s.intake.SetMultiplier(1)
			s.intake.ExtendFully()
			s.transition(Extending)
		}

	case Extending:
		if s.intake.IsConeClose() {
			s.intake.SetMultiplier(s.cfg.SlowSpeed)
		} else {
			s.intake.SetMultiplier(1)
		}
		if s.intake.IsConeDetected() {
			s.rumble(s.cfg.GrabRumble)
			s.intake.StopSlides()
			s.intake.Grab()
			s.transition(Grabbing)
		}

	case Grabbing:
		if !s.intake.IsClawBusy() {
			s.intake.SetMultiplier(1)
			s.intake.RetractPart(subsystem.V4BRetracted)
			s.timer.Reset()
			s.transition(Retracting)
		}

	case Retracting:
		if s.timer.Elapsed() >= s.cfg.RetractWait {
			s.lift.OpenGrabber()
			s.timer.Reset()
			s.transition(Collecting1)
		}

	case Collecting1:
		if s.timer.Elapsed() >= s.cfg.CollectWait {
			s.lift.SetState(subsystem.LiftCollect)
			s.transition(Transferring)
		}

	case Transferring:
		if !s.lift.IsBusy() {
			s.lift.CloseGrabber()
			s.timer.Reset()
			s.transition(Releasing1)
		}

	case Releasing1:
		if s.timer.Elapsed() >= s.cfg.ReleaseWait {
			s.intake.Release()
			s.transition(Releasing2)
		}

	case Releasing2:
		if !s.intake.IsClawBusy() {
			s.intake.SetV4B(subsystem.V4BCompletelyRetracted)
			s.transition(Lowered)
		}

	case Lowered:
		if !s.intake.IsV4BBusy() {
			s.lift.SetState(s.prevLift)
			s.rumble(s.cfg.LiftedRumble)
			s.transition(Lifting)
		}

	case Lifting:
		// A lift settled at its preset may still sit below the clearance.
		if s.lift.CanControlArm() || !s.lift.IsBusy() {
			s.lift.SetYawArmAngle(s.prevArmAngle)
			s.transition(ControllingArm)
		}

	case ControllingArm:
		if deg, ok := in.StickAngle(); ok {
			s.lift.SetYawArmAngle(deg)
		}
		if deg, ok := in.PresetAngle(); ok {
			s.lift.SetYawArmAngle(deg)
		}
		if !s.lift.IsBusy() && in.Deposit {
			s.prevArmAngle = s.lift.YawArmAngle()
			s.prevLift = s.lift.State()
			s.lift.OpenGrabber()
			s.timer.Reset()
			s.transition(Depositing)
		}

	case Depositing:
		if s.timer.Elapsed() >= s.cfg.DepositWait {
			s.lift.CloseGrabber()
			s.lift.SetYawArmAngle(0)
			s.lift.SetState(subsystem.LiftRetract)
			s.transition(Lowering)
		}

	case Lowering:
		if !s.lift.IsBusy() && !s.lift.IsYawArmBusy() {
			s.transition(Retracted)
		}

	case Reset:
		s.stow()
		s.transition(Retracted)
	}
}

// cancel abandons the macro. The safe configuration is commanded in the
// same tick; RESET then hands over to RETRACTED on the next one.
func (s *Sequencer) cancel() {
	if s.state != Reset {
		s.logger.Info().Str("state", string(s.state)).Msg("macro cancelled")
	}
	s.stow()
	s.transition(Reset)
}

func (s *Sequencer) stow() {
	s.intake.SetMultiplier(1)
	s.intake.RetractPart(subsystem.V4BRetracted)
	s.intake.Grab()
	s.lift.CloseGrabber()
	s.lift.SetYawArmAngle(0)
	s.lift.SetState(subsystem.LiftRetract)
}

func (s *Sequencer) setLift(st subsystem.LiftState) {
	s.lift.SetState(st)
	s.prevLift = st
}

func (s *Sequencer) rumble(d time.Duration) {
	if s.rumbler != nil {
		s.rumbler.Rumble(d)
	}
}

func (s *Sequencer) transition(next State) {
	if next == s.state {
		return
	}
	s.logger.Debug().Str("from", string(s.state)).Str("to", string(next)).Msg("state transition")
	s.state = next
}

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// IsControllingArm reports whether the macro is driving the arm, in which
// case the caller should not forward its own arm commands.
func (s *Sequencer) IsControllingArm() bool {
	return s.state == Lifting || s.state == ControllingArm
}

func (s *Sequencer) report() {
	s.tm.AddData("State", s.state)
	s.tm.AddData("Timer", s.timer.Elapsed())
	s.tm.AddData("Lift", s.lift.State())
	s.tm.AddData("Arm angle", s.lift.YawArmAngle())
	s.tm.AddData("Lift ticks", s.lift.SlidePosition())
	s.tm.AddData("Intake ticks", s.intake.SlidePosition())
	s.tm.AddData("Lift busy", s.lift.IsBusy())
	s.tm.AddData("Intake busy", s.intake.IsBusy())
	s.tm.AddData("V4B busy", s.intake.IsV4BBusy())
	s.tm.AddData("Claw busy", s.intake.IsClawBusy())
	s.tm.AddData("Controlling arm", s.IsControllingArm())
	s.tm.Update()
}
