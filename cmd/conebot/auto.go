package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gwillem/conebot/pkg/auto"
	"github.com/gwillem/conebot/pkg/opmode"
	"github.com/gwillem/conebot/pkg/telemetry"
	"github.com/gwillem/conebot/pkg/timer"
	"github.com/gwillem/conebot/pkg/vision"
)

type AutoCommand struct {
	Hz       int    `long:"hz" description:"Control loop frequency (default from config)"`
	Location string `long:"location" description:"Signal sleeve reading for the simulation (left, middle, right)"`
	Headless bool   `long:"headless" description:"Start immediately and log to stderr instead of showing the dashboard"`
}

func (c *AutoCommand) Execute(args []string) error {
	cfg := loadConfig()
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}
	if c.Location != "" {
		loc, err := vision.ParseLocation(c.Location)
		if err != nil {
			return err
		}
		cfg.Sim.Location = loc
	}

	hw, err := buildHardware(cfg, timer.System)
	if err != nil {
		return fmt.Errorf("build hardware: %w", err)
	}
	defer hw.Close()

	if c.Headless {
		return c.runHeadless(cfg.Auto, cfg.Hz, hw)
	}

	s := newSession(cfg.Hz, hw.plant)
	seq := auto.New(cfg.Auto, auto.Hardware{
		Lift:   hw.lift,
		Intake: hw.intake,
		Drive:  hw.drive,
		Vision: hw.vision,
	}, auto.Options{
		Telemetry: s.ctrl.Telemetry(),
		Logger:    s.ctrl.Logger(),
	})

	model := newDashboard("Conebot Autonomous",
		"enter: start  q: quit",
		s.ctrl, s.logs.Lines(), slideSeries(cfg.Lift.Slide.Max, cfg.Intake.Slide.Max))
	return s.run(opmode.Auto(seq), model)
}

// runHeadless starts the routine straight away and returns once it parks.
func (c *AutoCommand) runHeadless(cfg auto.Config, hz int, hw *hardware) error {
	logger := opmode.NewConsoleLogger(os.Stderr, logLevel())
	ctrl := opmode.NewController(opmode.Config{Hz: hz, Plant: hw.plant, Logger: &logger})
	seq := auto.New(cfg, auto.Hardware{
		Lift:   hw.lift,
		Intake: hw.intake,
		Drive:  hw.drive,
		Vision: hw.vision,
	}, auto.Options{
		Telemetry: telemetry.NewLog(*ctrl.Logger()),
		Logger:    ctrl.Logger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for st := range ctrl.Statuses() {
			if st.Phase == opmode.PhaseDone {
				cancel()
				return
			}
		}
	}()

	ctrl.Begin()
	if err := ctrl.Start(ctx, opmode.Auto(seq)); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func slideSeries(liftMax, intakeMax int) []series {
	return []series{
		{key: "Lift ticks", label: "lift slide", color: "208", full: float64(liftMax)},
		{key: "Intake ticks", label: "intake slide", color: "51", full: float64(intakeMax)},
	}
}
