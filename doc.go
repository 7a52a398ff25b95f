// Package conebot controls a cone scoring robot: a two-stage lift with a
// rotating arm fed by a horizontal intake.
//
// The same sequencers run against a Feetech STS servo bus or a kinematic
// simulation, ticked at a fixed rate by an op mode controller.
//
// # Installation
//
//	go install github.com/gwillem/conebot/cmd/conebot@latest
//
// # Usage
//
// Pick the servo bus (or the simulation) and calibrate the joints:
//
//	conebot setup
//
// Run the autonomous routine, with a dashboard or headless:
//
//	conebot auto --location right
//	conebot auto --headless
//
// Drive the scoring macro from the keyboard:
//
//	conebot teleop
//
// Nudge two servos with the bumpers to find preset positions:
//
//	conebot servo-test --s1 v4b --s2 claw
//
// # Packages
//
//   - cmd/conebot: CLI with setup, auto, teleop and servo-test commands
//   - pkg/auto: Autonomous sequencer
//   - pkg/scoring: Teleop scoring macro
//   - pkg/subsystem: Lift and intake subsystems
//   - pkg/drive: Poses and path building
//   - pkg/vision: Parking location detection
//   - pkg/opmode: Fixed-rate op mode controller
//   - pkg/gamepad: Latched button input and rumble
//   - pkg/telemetry: Per-tick key/value reporting
//   - pkg/robot: Servo bus and calibration
//   - pkg/sim: Simulated plant
//   - pkg/config: Configuration file
//   - pkg/timer: Clocks and elapsed-time timers
package conebot
