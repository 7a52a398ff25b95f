package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config  string `short:"c" long:"config" default:"conebot.json" description:"Configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log state transitions and telemetry"`

	Setup     SetupCommand     `command:"setup" description:"Find the servo bus and calibrate the joints"`
	Auto      AutoCommand      `command:"auto" description:"Run the autonomous routine"`
	Teleop    TeleopCommand    `command:"teleop" description:"Drive the scoring macro from the keyboard"`
	ServoTest ServoTestCommand `command:"servo-test" description:"Nudge two servos with the bumper keys"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "conebot - cone scoring robot control CLI"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
