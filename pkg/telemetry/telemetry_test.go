package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/timer"
)

func TestBuffer_PublishesOncePerUpdate(t *testing.T) {
	clock := timer.NewManualClock()
	var frames []Frame
	b := NewBuffer(clock, func(f Frame) { frames = append(frames, f) })

	b.AddData("State", "DEPOSIT")
	b.AddData("Cycle", 2)
	b.AddLine("Closing claw")
	b.Update()

	clock.Advance(20 * time.Millisecond)
	b.AddData("State", "WAIT")
	b.Update()

	require.Len(t, frames, 2)
	require.Equal(t, "DEPOSIT", frames[0].String("State"))
	require.Equal(t, []string{"Closing claw"}, frames[0].Lines)
	n, ok := frames[0].Float("Cycle")
	require.True(t, ok)
	require.Equal(t, 2.0, n)

	require.Equal(t, "WAIT", frames[1].String("State"))
	require.Empty(t, frames[1].Lines)
	require.Equal(t, clock.Now(), frames[1].Time)
	_, ok = frames[1].Get("Cycle")
	require.False(t, ok, "fields must not leak between frames")
}

func TestLog_WritesDebugEvent(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	l := NewLog(logger)

	l.AddData("State", "PARK")
	l.AddData("Lift busy", false)
	l.Update()

	var ev map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &ev))
	require.Equal(t, "telemetry", ev["message"])
	require.Equal(t, "PARK", ev["State"])
	require.Equal(t, false, ev["Lift busy"])
}

func TestLog_SkippedAboveDebug(t *testing.T) {
	var out bytes.Buffer
	l := NewLog(zerolog.New(&out).Level(zerolog.InfoLevel))
	l.AddData("State", "IDLE")
	l.Update()
	require.Zero(t, out.Len())
}

func TestMulti(t *testing.T) {
	var a, b []Frame
	s := Multi(
		NewBuffer(nil, func(f Frame) { a = append(a, f) }),
		NewBuffer(nil, func(f Frame) { b = append(b, f) }),
		Discard,
	)
	s.AddData("k", 1)
	s.Update()

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	require.Equal(t, "1", b[0].String("k"))
}
