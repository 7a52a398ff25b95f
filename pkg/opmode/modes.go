package opmode

import (
	"github.com/gwillem/conebot/pkg/auto"
	"github.com/gwillem/conebot/pkg/gamepad"
	"github.com/gwillem/conebot/pkg/scoring"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/telemetry"
)

type autoMode struct {
	seq *auto.Sequencer
}

// Auto runs the autonomous routine. The init loop keeps reading the signal
// sleeve so the latest reading is used at start.
func Auto(seq *auto.Sequencer) OpMode {
	return &autoMode{seq: seq}
}

func (m *autoMode) InitLoop() { m.seq.Tick() }
func (m *autoMode) Start()    { m.seq.Start() }
func (m *autoMode) Loop()     { m.seq.Tick() }
func (m *autoMode) Done() bool {
	return m.seq.Done()
}

type teleopMode struct {
	seq *scoring.Sequencer
	pad *gamepad.Gamepad
}

// Teleop feeds gamepad snapshots to the scoring macro. Presses made during
// the init loop are discarded.
func Teleop(seq *scoring.Sequencer, pad *gamepad.Gamepad) OpMode {
	return &teleopMode{seq: seq, pad: pad}
}

func (m *teleopMode) InitLoop() { m.pad.Snapshot() }
func (m *teleopMode) Start()    {}
func (m *teleopMode) Loop()     { m.seq.Score(m.pad.Snapshot()) }
func (m *teleopMode) Done() bool {
	return false
}

// ServoTestStep is how far one bumper press moves each servo.
const ServoTestStep = 0.05

// ServoTest nudges two servos in opposite directions with the bumpers:
// left raises the first and lowers the second, right does the reverse.
// Both start centred.
type ServoTest struct {
	pad    *gamepad.Gamepad
	s1, s2 subsystem.Servo
	tm     telemetry.Sink

	pos1, pos2 float64
}

// NewServoTest creates the servo test op mode.
func NewServoTest(pad *gamepad.Gamepad, s1, s2 subsystem.Servo, tm telemetry.Sink) *ServoTest {
	if tm == nil {
		tm = telemetry.Discard
	}
	return &ServoTest{pad: pad, s1: s1, s2: s2, tm: tm, pos1: 0.5, pos2: 0.5}
}

func (m *ServoTest) InitLoop() {
	m.pad.Snapshot()
	m.tm.AddData("Mode", "waiting for start")
	m.tm.Update()
}

func (m *ServoTest) Start() {}

func (m *ServoTest) Loop() {
	m.s1.SetPosition(m.pos1)
	m.s2.SetPosition(m.pos2)

	m.tm.AddData("Mode", "running")
	m.tm.AddData("s1 position", m.pos1)
	m.tm.AddData("s2 position", m.pos2)

	if m.pad.Take(gamepad.LeftBumper) {
		m.pos1 += ServoTestStep
		m.pos2 -= ServoTestStep
	}
	if m.pad.Take(gamepad.RightBumper) {
		m.pos1 -= ServoTestStep
		m.pos2 += ServoTestStep
	}
	m.pos1 = min(max(m.pos1, 0), 1)
	m.pos2 = min(max(m.pos2, 0), 1)

	m.tm.Update()
}

func (m *ServoTest) Done() bool { return false }

// Positions returns the commanded positions of both servos.
func (m *ServoTest) Positions() (float64, float64) {
	return m.pos1, m.pos2
}
