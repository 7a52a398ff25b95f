package main

import (
	"fmt"

	"github.com/gwillem/conebot/pkg/gamepad"
	"github.com/gwillem/conebot/pkg/opmode"
	"github.com/gwillem/conebot/pkg/scoring"
	"github.com/gwillem/conebot/pkg/timer"
)

type TeleopCommand struct {
	Hz int `long:"hz" description:"Control loop frequency (default from config)"`
}

const teleopHelp = "enter: start  g: grab  d: deposit  x: cancel  1/2/3: low/mid/high  " +
	"arrows: arm presets  ijkl: arm stick  o: centre stick  c: cone in claw  q: quit"

func (c *TeleopCommand) Execute(args []string) error {
	cfg := loadConfig()
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}

	hw, err := buildHardware(cfg, timer.System)
	if err != nil {
		return fmt.Errorf("build hardware: %w", err)
	}
	defer hw.Close()

	s := newSession(cfg.Hz, hw.plant)
	pad := gamepad.New(timer.System)
	seq := scoring.New(cfg.Scoring, hw.lift, hw.intake, scoring.Options{
		Rumbler:   pad,
		Telemetry: s.ctrl.Telemetry(),
		Logger:    s.ctrl.Logger(),
	})

	model := newDashboard("Conebot Teleop", teleopHelp,
		s.ctrl, s.logs.Lines(), slideSeries(cfg.Lift.Slide.Max, cfg.Intake.Slide.Max))
	model.pad = pad
	model.cone = hw.cone
	return s.run(opmode.Teleop(seq, pad), model)
}
