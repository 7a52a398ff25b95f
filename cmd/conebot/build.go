package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/conebot/pkg/config"
	"github.com/gwillem/conebot/pkg/drive"
	"github.com/gwillem/conebot/pkg/opmode"
	"github.com/gwillem/conebot/pkg/robot"
	"github.com/gwillem/conebot/pkg/sim"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/timer"
	"github.com/gwillem/conebot/pkg/vision"
)

// hardware is everything an op mode needs, built for one backend.
type hardware struct {
	plant  opmode.Plant
	lift   *subsystem.Lift
	intake *subsystem.Intake
	drive  drive.Follower
	vision vision.Sensor

	bus   *robot.Bus
	world *sim.World
	cone  *coneKey
}

func (h *hardware) Close() error {
	if h.bus == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var errs []error
	if err := h.bus.Disable(ctx); err != nil {
		errs = append(errs, fmt.Errorf("disable torque: %w", err))
	}
	if err := h.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// coneKey stands in for the claw range sensor on the real robot: the
// operator toggles it when a cone is in the claw.
type coneKey struct {
	mu      sync.Mutex
	present bool
}

func (k *coneKey) Toggle() {
	k.mu.Lock()
	k.present = !k.present
	k.mu.Unlock()
}

func (k *coneKey) Distance() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.present {
		return 0
	}
	return 1000
}

func loadConfig() *config.Config {
	cfg, err := config.LoadFrom(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\nRun 'conebot setup' to configure the robot.\n", err)
		os.Exit(1)
	}
	return cfg
}

func logLevel() zerolog.Level {
	if opts.Verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// buildHardware opens the configured backend. The drivetrain is always
// simulated: the servo bus only carries the lift and intake.
func buildHardware(cfg *config.Config, clock timer.Clock) (*hardware, error) {
	switch cfg.Backend {
	case config.BackendSim:
		w := sim.NewWorld(cfg.Sim)
		return &hardware{
			plant:  w,
			lift:   subsystem.NewLift(w.LiftHardware(), cfg.Lift, clock),
			intake: subsystem.NewIntake(w.IntakeHardware(), cfg.Intake, clock),
			drive:  w.Drive,
			vision: w.Vision,
			world:  w,
		}, nil

	case config.BackendFeetech:
		cal := cfg.Calibration
		if len(cal) == 0 {
			cal = robot.DefaultCalibration()
		}
		bus, err := robot.Open(cfg.Port, cal)
		if err != nil {
			return nil, err
		}
		// Read the joints once so the slides start holding where they are.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := bus.Step(ctx, 0); err != nil {
			bus.Close()
			return nil, fmt.Errorf("read initial positions: %w", err)
		}
		if err := bus.Enable(ctx); err != nil {
			bus.Close()
			return nil, fmt.Errorf("enable torque: %w", err)
		}
		follower := sim.NewFollower(cfg.Sim.DriveSpeed)
		cone := &coneKey{}
		lift := subsystem.NewLift(subsystem.LiftHardware{
			Slide:   bus.Motor(robot.LiftSlide, cfg.Lift.Slide.Max),
			Grabber: bus.Servo(robot.Grabber),
			Arm:     bus.Servo(robot.ArmYaw),
		}, cfg.Lift, clock)
		intake := subsystem.NewIntake(subsystem.IntakeHardware{
			Slide:    bus.Motor(robot.IntakeSlide, cfg.Intake.Slide.Max),
			V4B:      bus.Servo(robot.V4B),
			Claw:     bus.Servo(robot.Claw),
			Distance: cone,
		}, cfg.Intake, clock)
		return &hardware{
			plant:  busPlant{bus: bus, follower: follower},
			lift:   lift,
			intake: intake,
			drive:  follower,
			vision: vision.Fixed(cfg.Sim.Location),
			bus:    bus,
			cone:   cone,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}
