package opmode

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/auto"
	"github.com/gwillem/conebot/pkg/gamepad"
	"github.com/gwillem/conebot/pkg/scoring"
	"github.com/gwillem/conebot/pkg/sim"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/subsystem/subsystemtest"
	"github.com/gwillem/conebot/pkg/timer"
	"github.com/gwillem/conebot/pkg/vision"
)

type recordingMode struct {
	calls []string
	done  bool
}

func (m *recordingMode) InitLoop()  { m.calls = append(m.calls, "init") }
func (m *recordingMode) Start()     { m.calls = append(m.calls, "start") }
func (m *recordingMode) Loop()      { m.calls = append(m.calls, "loop") }
func (m *recordingMode) Done() bool { return m.done }

type countingPlant struct {
	steps int
	dt    time.Duration
	err   error
}

func (p *countingPlant) Step(_ context.Context, dt time.Duration) error {
	p.steps++
	p.dt += dt
	return p.err
}

func TestController_Lifecycle(t *testing.T) {
	plant := &countingPlant{}
	c := NewController(Config{Hz: 50, Plant: plant})
	mode := &recordingMode{}
	ctx := context.Background()

	c.Step(ctx, mode, 20*time.Millisecond)
	c.Step(ctx, mode, 20*time.Millisecond)
	require.Equal(t, PhaseInit, c.Phase())

	c.Begin()
	c.Step(ctx, mode, 20*time.Millisecond)
	c.Step(ctx, mode, 20*time.Millisecond)
	require.Equal(t, PhaseRunning, c.Phase())
	require.Equal(t, []string{"init", "init", "start", "loop", "loop"}, mode.calls)

	mode.done = true
	c.Step(ctx, mode, 20*time.Millisecond)
	require.Equal(t, PhaseDone, c.Phase())

	require.Equal(t, 5, plant.steps)
	require.Equal(t, 100*time.Millisecond, plant.dt)
}

func TestController_StatusCarriesFrame(t *testing.T) {
	c := NewController(Config{})
	require.Equal(t, 50, c.Hz())
	require.Len(t, c.RunID(), 36)

	mode := &recordingMode{}
	c.Telemetry().AddData("State", "RESET")
	c.Telemetry().Update()
	c.Step(context.Background(), mode, time.Millisecond)

	st := <-c.Statuses()
	require.Equal(t, 1, st.Tick)
	require.Equal(t, PhaseInit, st.Phase)
	require.Equal(t, "RESET", st.Frame.String("State"))
	require.Equal(t, c.RunID(), st.RunID)

	c.Step(context.Background(), mode, time.Millisecond)
	st = <-c.Statuses()
	require.Empty(t, st.Frame.Fields, "frames do not carry over between ticks")
}

func TestController_StatusDropsOldest(t *testing.T) {
	c := NewController(Config{})
	mode := &recordingMode{}
	for i := 0; i < 5; i++ {
		c.Step(context.Background(), mode, time.Millisecond)
	}
	st := <-c.Statuses()
	require.Equal(t, 5, st.Tick)
}

func TestController_PlantErrorIsReported(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	plant := &countingPlant{err: errors.New("bus timeout")}
	c := NewController(Config{Plant: plant, Logger: &logger})

	c.Step(context.Background(), &recordingMode{}, time.Millisecond)
	st := <-c.Statuses()
	require.ErrorIs(t, st.Error, plant.err)
	require.Contains(t, buf.String(), "bus timeout")
}

func TestController_StartTwice(t *testing.T) {
	c := NewController(Config{Hz: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx, &recordingMode{}) }()

	require.Eventually(t, func() bool {
		return errors.Is(c.Start(ctx, &recordingMode{}), ErrAlreadyRunning)
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	require.Equal(t, PhaseStopped, c.Phase())
}

func TestLogWriter(t *testing.T) {
	w := NewLogWriter(2)
	logger := NewConsoleLogger(w, zerolog.InfoLevel)
	logger.Info().Str("state", "PARK").Msg("parking")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("second")
	logger.Info().Msg("dropped")

	first := <-w.Lines()
	require.True(t, strings.Contains(first, "parking"), first)
	require.Contains(t, first, "state=PARK")
	require.False(t, strings.HasSuffix(first, "\n"))
	require.Contains(t, <-w.Lines(), "second")
	require.Empty(t, w.Lines())
}

func TestAutoMode_OnSimulation(t *testing.T) {
	clock := timer.NewManualClock()
	world := sim.NewWorld(sim.DefaultConfig())
	world.Vision = vision.Fixed(vision.Left)
	c := NewController(Config{Plant: world, Clock: clock})

	lift := subsystem.NewLift(world.LiftHardware(), subsystem.DefaultLiftConfig(), clock)
	intake := subsystem.NewIntake(world.IntakeHardware(), subsystem.DefaultIntakeConfig(), clock)
	seq := auto.New(auto.DefaultConfig(), auto.Hardware{
		Lift: lift, Intake: intake, Drive: world.Drive, Vision: world.Vision,
	}, auto.Options{Clock: clock, Telemetry: c.Telemetry(), Logger: c.Logger()})
	mode := Auto(seq)

	step := func() {
		clock.Advance(20 * time.Millisecond)
		c.Step(context.Background(), mode, 20*time.Millisecond)
	}
	for i := 0; i < 10; i++ {
		step()
	}
	require.False(t, seq.Started())

	c.Begin()
	for i := 0; i < 2500 && c.Phase() != PhaseDone; i++ {
		step()
	}
	require.Equal(t, PhaseDone, c.Phase())
	require.Equal(t, vision.Left, seq.Location())
}

func TestTeleopMode_DiscardsInitPresses(t *testing.T) {
	lift := subsystemtest.NewLift(1)
	intake := subsystemtest.NewIntake(1)
	seq := scoring.New(scoring.DefaultConfig(), lift, intake, scoring.Options{})
	pad := gamepad.New(nil)
	mode := Teleop(seq, pad)

	pad.Press(gamepad.A)
	mode.InitLoop()
	mode.Start()
	mode.Loop()
	require.Equal(t, scoring.Retracted, seq.State())

	pad.Press(gamepad.A)
	mode.Loop()
	require.Equal(t, scoring.Extending, seq.State())
	require.False(t, mode.Done())
}

func TestServoTest(t *testing.T) {
	pad := gamepad.New(nil)
	s1, s2 := sim.NewServo(0), sim.NewServo(0)
	m := NewServoTest(pad, s1, s2, nil)

	m.InitLoop()
	m.Start()
	m.Loop()
	require.Equal(t, 0.5, s1.Position())
	require.Equal(t, 0.5, s2.Position())

	pad.Press(gamepad.LeftBumper)
	m.Loop()
	m.Loop()
	require.InDelta(t, 0.55, s1.Position(), 1e-9)
	require.InDelta(t, 0.45, s2.Position(), 1e-9)

	// Two presses between ticks count once.
	pad.Press(gamepad.RightBumper)
	pad.Press(gamepad.RightBumper)
	m.Loop()
	m.Loop()
	p1, p2 := m.Positions()
	require.InDelta(t, 0.5, p1, 1e-9)
	require.InDelta(t, 0.5, p2, 1e-9)
}

func TestServoTest_StaysInRange(t *testing.T) {
	pad := gamepad.New(nil)
	s1, s2 := sim.NewServo(0), sim.NewServo(0)
	m := NewServoTest(pad, s1, s2, nil)
	m.Start()

	for i := 0; i < 15; i++ {
		pad.Press(gamepad.LeftBumper)
		m.Loop()
	}
	m.Loop()
	require.Equal(t, 1.0, s1.Position())
	require.Equal(t, 0.0, s2.Position())

	pad.Press(gamepad.RightBumper)
	m.Loop()
	p1, p2 := m.Positions()
	require.InDelta(t, 0.95, p1, 1e-9)
	require.InDelta(t, 0.05, p2, 1e-9)
}
