package main

import (
	"fmt"

	"github.com/gwillem/conebot/pkg/config"
	"github.com/gwillem/conebot/pkg/gamepad"
	"github.com/gwillem/conebot/pkg/opmode"
	"github.com/gwillem/conebot/pkg/robot"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/timer"
)

type ServoTestCommand struct {
	Hz     int    `long:"hz" description:"Control loop frequency (default from config)"`
	First  string `long:"s1" default:"v4b" description:"First servo joint"`
	Second string `long:"s2" default:"claw" description:"Second servo joint"`
}

func (c *ServoTestCommand) Execute(args []string) error {
	cfg := loadConfig()
	if c.Hz > 0 {
		cfg.Hz = c.Hz
	}

	hw, err := buildHardware(cfg, timer.System)
	if err != nil {
		return fmt.Errorf("build hardware: %w", err)
	}
	defer hw.Close()

	s1, err := c.servo(cfg, hw, robot.JointName(c.First))
	if err != nil {
		return err
	}
	s2, err := c.servo(cfg, hw, robot.JointName(c.Second))
	if err != nil {
		return err
	}

	s := newSession(cfg.Hz, hw.plant)
	pad := gamepad.New(timer.System)
	mode := opmode.NewServoTest(pad, s1, s2, s.ctrl.Telemetry())

	model := newDashboard("Conebot Servo Test",
		"enter: start  [: s1 up, s2 down  ]: s1 down, s2 up  q: quit",
		s.ctrl, s.logs.Lines(), []series{
			{key: "s1 position", label: c.First, color: "226", full: 1},
			{key: "s2 position", label: c.Second, color: "46", full: 1},
		})
	model.pad = pad
	return s.run(mode, model)
}

// servo looks up a servo joint on the configured backend.
func (c *ServoTestCommand) servo(cfg *config.Config, hw *hardware, name robot.JointName) (subsystem.Servo, error) {
	if hw.bus != nil {
		if _, ok := cfg.Calibration[name]; !ok && cfg.IsCalibrated() {
			return nil, fmt.Errorf("joint %q is not calibrated", name)
		}
		return hw.bus.Servo(name), nil
	}
	switch name {
	case robot.Grabber:
		return hw.world.Grabber, nil
	case robot.ArmYaw:
		return hw.world.Arm, nil
	case robot.V4B:
		return hw.world.V4B, nil
	case robot.Claw:
		return hw.world.Claw, nil
	}
	return nil, fmt.Errorf("no servo joint %q", name)
}
