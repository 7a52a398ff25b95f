// Package auto runs the autonomous routine: drive to the scoring spot,
// cycle cones from the stack onto the high junction, then park in the zone
// read from the signal sleeve.
package auto

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/conebot/pkg/drive"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/telemetry"
	"github.com/gwillem/conebot/pkg/timer"
	"github.com/gwillem/conebot/pkg/vision"
)

// Hardware is the set of mechanisms the routine commands. The sequencer
// is their only user for the length of the run.
type Hardware struct {
	Lift   subsystem.LiftControl
	Intake subsystem.IntakeControl
	Drive  drive.Follower
	Vision vision.Sensor
}

// Options are the optional collaborators of a Sequencer.
type Options struct {
	Paths     *Paths
	Clock     timer.Clock
	Telemetry telemetry.Sink
	Logger    *zerolog.Logger
}

type pendingWait struct {
	next           State
	duration       time.Duration
	keepDepositing bool
}

// Sequencer is the autonomous state machine. Tick is called once per
// control loop iteration and never blocks.
type Sequencer struct {
	cfg    Config
	paths  Paths
	lift   subsystem.LiftControl
	intake subsystem.IntakeControl
	drive  drive.Follower
	vision vision.Sensor
	tm     telemetry.Sink
	logger zerolog.Logger

	state State
	wait  pendingWait
	cycle int

	location vision.Location
	started  bool
	parking  bool

	runTimer    *timer.Timer
	waitTimer   *timer.Timer
	intakeTimer *timer.Timer
}

// New creates a sequencer in DRIVE_TO_SPOT on its first cycle.
func New(cfg Config, hw Hardware, opts Options) *Sequencer {
	paths := DefaultPaths()
	if opts.Paths != nil {
		paths = *opts.Paths
	}
	sink := opts.Telemetry
	if sink == nil {
		sink = telemetry.Discard
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Sequencer{
		cfg:         cfg.withDefaults(),
		paths:       paths,
		lift:        hw.Lift,
		intake:      hw.Intake,
		drive:       hw.Drive,
		vision:      hw.Vision,
		tm:          sink,
		logger:      logger.With().Str("component", "auto").Logger(),
		state:       DriveToSpot,
		cycle:       1,
		location:    vision.Left,
		runTimer:    timer.New(opts.Clock),
		waitTimer:   timer.New(opts.Clock),
		intakeTimer: timer.New(opts.Clock),
	}
}

// Observe samples the signal sleeve. It has no effect once the run has
// started, so the location used for parking is the last one seen before
// Start.
func (s *Sequencer) Observe() {
	if s.started || s.vision == nil {
		return
	}
	s.location = s.vision.Classify()
	s.tm.AddData("Location", s.location)
	s.tm.Update()
}

// Start freezes the parking location, starts the run clock and sends the
// robot towards the scoring spot.
func (s *Sequencer) Start() {
	if s.started {
		return
	}
	s.started = true

	s.drive.SetPoseEstimate(s.paths.DriveToSpot.Start)
	s.drive.FollowAsync(s.paths.DriveToSpot)
	s.lift.SetState(subsystem.LiftRetract)
	s.intake.SetV4B(subsystem.V4BCompletelyRetracted)

	s.runTimer.Reset()
	s.intakeTimer.Reset()

	s.logger.Info().
		Str("location", string(s.location)).
		Int("cycles", s.cfg.Cycles).
		Dur("budget", s.cfg.TimeBudget).
		Msg("autonomous started")
}

// Tick advances the routine by one control loop iteration. Before Start
// it only samples the signal sleeve.
func (s *Sequencer) Tick() {
	if !s.started {
		s.Observe()
		return
	}

	switch s.state {
	case DriveToSpot:
		if !s.drive.IsBusy() {
			s.transition(Deposit)
		}

	case Deposit:
		s.deposit()
		s.waitThen(Deposit2, s.cfg.DepositWait, true)

	case Deposit2:
		s.deposit()
		if !s.lift.IsBusy() && !s.intake.IsBusy() {
			s.lift.OpenGrabber()
			if !s.lift.IsGrabberBusy() {
				s.waitThen(GrabCone, s.cfg.SettleWait, false)
			}
		}

	case GrabCone:
		if s.grabCone() {
			s.waitThen(Collect, s.cfg.SettleWait, false)
		}

	case Collect:
		s.collect()

	case ChooseParkLocation:
		s.choosePark()

	case Park:
		if !s.drive.IsBusy() {
			s.transition(Idle)
			s.logger.Info().Dur("runtime", s.runTimer.Elapsed()).Msg("autonomous finished")
		}

	case Wait:
		if s.waitTimer.Elapsed() >= s.wait.duration {
			next := s.wait.next
			s.wait = pendingWait{}
			s.transition(next)
		} else if s.wait.keepDepositing {
			s.deposit()
		}

	case Idle:
	}

	if !s.parking && s.runTimer.Elapsed() > s.cfg.TimeBudget {
		s.logger.Info().
			Str("state", string(s.state)).
			Int("cycle", s.cycle).
			Msg("time budget exceeded, parking")
		s.wait = pendingWait{}
		s.transition(ChooseParkLocation)
		s.intake.RetractFully()
		s.lift.SetYawArmAngle(0)
		s.lift.SetState(subsystem.LiftRetract)
	}

	s.drive.Update()
	s.lift.Update()
	s.intake.Update()

	s.report()
}

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// Location returns the latched parking location.
func (s *Sequencer) Location() vision.Location { return s.location }

// Cycle returns the 1-based cycle in progress.
func (s *Sequencer) Cycle() int { return s.cycle }

// Parking reports whether the park path has been started.
func (s *Sequencer) Parking() bool { return s.parking }

// Started reports whether Start has been called.
func (s *Sequencer) Started() bool { return s.started }

// Done reports whether the routine has finished.
func (s *Sequencer) Done() bool { return s.state == Idle }

// deposit raises the cone to the high junction and, once the stagger has
// passed, reaches the intake out over the stack. It is re-issued every
// tick while waiting so the mechanisms keep holding position.
func (s *Sequencer) deposit() {
	if s.intakeTimer.Elapsed() > s.cfg.IntakeStagger {
		s.intake.ExtendFully()
		s.intake.SetV4B(subsystem.V4BStack(s.cycle))
		s.intake.Release()
	}
	s.lift.SetState(subsystem.LiftHigh)
	if s.lift.AboveMid() {
		s.lift.SetYawArmAngle(-90)
	}
}

// grabCone brings the arm home and lowers the lift while the intake closes
// on a stack cone and pulls it back. It reports true once every axis
// involved has settled.
func (s *Sequencer) grabCone() bool {
	s.lift.SetYawArmAngle(0)
	if !s.lift.IsYawArmBusy() {
		s.lift.SetState(subsystem.LiftRetract)
	}

	s.intake.Grab()
	if s.intake.IsClawBusy() {
		s.tm.AddLine("Closing claw")
		return false
	}
	s.intake.SetV4B(subsystem.V4BRetracted)
	if s.intake.IsV4BBusy() {
		s.tm.AddLine("Setting v4b pos")
		return false
	}
	s.intake.RetractPart(subsystem.V4BRetracted)
	s.tm.AddLine("Retracting intake")

	return !s.intake.IsBusy() && !s.lift.IsBusy() && !s.lift.IsYawArmBusy()
}

// collect hands the cone from the intake claw to the lift grabber, then
// either starts another cycle or heads for the parking branch.
func (s *Sequencer) collect() {
	s.lift.SetState(subsystem.LiftCollect)
	if s.lift.IsBusy() {
		return
	}
	s.intake.Release()
	if s.intake.IsClawBusy() {
		return
	}
	s.lift.CloseGrabber()
	if s.lift.IsGrabberBusy() {
		return
	}
	s.intake.SetV4B(subsystem.V4BCompletelyRetracted)
	if s.intake.IsClawBusy() || s.intake.IsV4BBusy() {
		return
	}

	if s.cycle < s.cfg.Cycles {
		s.cycle++
		s.intakeTimer.Reset()
		s.waitThen(Deposit, s.cfg.SettleWait, false)
		return
	}
	s.transition(ChooseParkLocation)
}

func (s *Sequencer) choosePark() {
	path, ok := s.paths.Park[s.location]
	if !ok {
		s.logger.Warn().Str("location", string(s.location)).Msg("no park path for location, staying put")
		path = drive.NewPath("park_in_place", s.drive.PoseEstimate()).Build()
	}
	s.drive.FollowAsync(path)
	s.parking = true
	s.transition(Park)
	s.logger.Info().Str("location", string(s.location)).Str("path", path.Name).Msg("parking")
}

func (s *Sequencer) waitThen(next State, d time.Duration, keepDepositing bool) {
	s.wait = pendingWait{next: next, duration: d, keepDepositing: keepDepositing}
	s.waitTimer.Reset()
	s.transition(Wait)
}

func (s *Sequencer) transition(next State) {
	if next == s.state {
		return
	}
	s.logger.Debug().
		Str("from", string(s.state)).
		Str("to", string(next)).
		Int("cycle", s.cycle).
		Msg("state transition")
	s.state = next
}

func (s *Sequencer) report() {
	s.tm.AddData("State", s.state)
	if s.state == Wait {
		s.tm.AddData("Next", s.wait.next)
	}
	s.tm.AddData("Cycle", s.cycle)
	s.tm.AddData("Location", s.location)
	s.tm.AddData("Runtime", s.runTimer.Elapsed())
	s.tm.AddData("Lift ticks", s.lift.SlidePosition())
	s.tm.AddData("Intake ticks", s.intake.SlidePosition())
	s.tm.AddData("Lift busy", s.lift.IsBusy())
	s.tm.AddData("Intake busy", s.intake.IsBusy())
	s.tm.AddData("Drive busy", s.drive.IsBusy())
	s.tm.Update()
}
