package subsystem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/timer"
)

// instantMotor reaches whatever target it is given immediately.
type instantMotor struct {
	pos     int
	targets []int
}

func (m *instantMotor) SetTarget(ticks int) {
	m.targets = append(m.targets, ticks)
	m.pos = ticks
}

func (m *instantMotor) Position() int { return m.pos }

type recordingServo struct {
	pos    float64
	writes int
}

func (s *recordingServo) SetPosition(pos float64) {
	s.pos = pos
	s.writes++
}

type fixedRange float64

func (r fixedRange) Distance() float64 { return float64(r) }

func TestSlideAxis_RampsTowardGoal(t *testing.T) {
	motor := &instantMotor{}
	axis := NewSlideAxis(motor, SlideConfig{Min: 0, Max: 1000, Tolerance: 15, MaxStep: 60})

	require.False(t, axis.IsBusy())

	axis.Set(100)
	require.True(t, axis.IsBusy(), "new goal should read busy before the next update")

	axis.Update()
	require.Equal(t, 60, axis.Position())
	require.True(t, axis.IsBusy())

	axis.Update()
	require.Equal(t, 100, axis.Position())
	require.False(t, axis.IsBusy())
	require.Equal(t, []int{60, 100}, motor.targets)
}

func TestSlideAxis_Multiplier(t *testing.T) {
	motor := &instantMotor{}
	axis := NewSlideAxis(motor, SlideConfig{Min: 0, Max: 1000, Tolerance: 5, MaxStep: 60})

	axis.SetMultiplier(0.5)
	axis.Set(1000)
	axis.Update()
	require.Equal(t, 30, axis.Position())

	axis.SetMultiplier(4)
	require.Equal(t, 1.0, axis.Multiplier(), "multiplier is clamped to 1")
}

func TestSlideAxis_ClampAndStop(t *testing.T) {
	motor := &instantMotor{}
	axis := NewSlideAxis(motor, SlideConfig{Min: 0, Max: 1000, Tolerance: 5, MaxStep: 60})

	axis.Set(5000)
	require.Equal(t, 1000, axis.Goal())
	axis.Set(-20)
	require.Equal(t, 0, axis.Goal())

	axis.Set(1000)
	axis.Update()
	axis.Stop()
	require.Equal(t, 60, axis.Goal())
	require.False(t, axis.IsBusy())

	axis.Update()
	require.Equal(t, 60, axis.Position(), "stopped slide must not keep ramping")
}

func TestServoAxis_SettleTime(t *testing.T) {
	clock := timer.NewManualClock()
	servo := &recordingServo{}
	axis := NewServoAxis(servo, time.Second, 0, clock)

	require.False(t, axis.IsBusy())

	axis.Set(0.5)
	require.True(t, axis.IsBusy())

	clock.Advance(499 * time.Millisecond)
	require.True(t, axis.IsBusy())

	// Re-issuing the same target must not restart the settle timer.
	axis.Set(0.5)
	clock.Advance(time.Millisecond)
	require.False(t, axis.IsBusy())

	axis.Update()
	require.Equal(t, 0.5, servo.pos)
}

func TestServoAxis_Clamps(t *testing.T) {
	clock := timer.NewManualClock()
	axis := NewServoAxis(&recordingServo{}, time.Second, 0.5, clock)

	axis.Set(1.7)
	require.Equal(t, 1.0, axis.Target())
	axis.Set(-3)
	require.Equal(t, 0.0, axis.Target())
}
