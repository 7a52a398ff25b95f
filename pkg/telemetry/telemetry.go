// Package telemetry collects per-tick status lines from sequencers and
// forwards them to displays and logs. It is output only.
package telemetry

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/conebot/pkg/timer"
)

// Sink accepts key-value status data. Update marks the end of a tick.
type Sink interface {
	AddData(key string, value any)
	AddLine(line string)
	Update()
}

// Field is one key-value pair.
type Field struct {
	Key   string
	Value any
}

// Frame is everything reported during one tick.
type Frame struct {
	Time   time.Time
	Fields []Field
	Lines  []string
}

// Get returns the last value reported under key.
func (f Frame) Get(key string) (any, bool) {
	for i := len(f.Fields) - 1; i >= 0; i-- {
		if f.Fields[i].Key == key {
			return f.Fields[i].Value, true
		}
	}
	return nil, false
}

// String returns the value under key formatted with %v, or "".
func (f Frame) String(key string) string {
	v, ok := f.Get(key)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Float returns the value under key as a float64 when it is numeric.
func (f Frame) Float(key string) (float64, bool) {
	v, ok := f.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case time.Duration:
		return n.Seconds(), true
	}
	return 0, false
}

// Buffer accumulates a frame and hands it to publish on Update.
type Buffer struct {
	clock   timer.Clock
	publish func(Frame)
	frame   Frame
}

// NewBuffer returns a sink that calls publish once per Update.
func NewBuffer(clock timer.Clock, publish func(Frame)) *Buffer {
	if clock == nil {
		clock = timer.System
	}
	return &Buffer{clock: clock, publish: publish}
}

func (b *Buffer) AddData(key string, value any) {
	b.frame.Fields = append(b.frame.Fields, Field{Key: key, Value: value})
}

func (b *Buffer) AddLine(line string) {
	b.frame.Lines = append(b.frame.Lines, line)
}

func (b *Buffer) Update() {
	f := b.frame
	f.Time = b.clock.Now()
	b.frame = Frame{}
	if b.publish != nil {
		b.publish(f)
	}
}

// Log writes each frame as one debug-level log event.
type Log struct {
	logger zerolog.Logger
	buf    *Buffer
}

// NewLog returns a sink that logs frames through logger.
func NewLog(logger zerolog.Logger) *Log {
	l := &Log{logger: logger}
	l.buf = NewBuffer(nil, l.write)
	return l
}

func (l *Log) AddData(key string, value any) { l.buf.AddData(key, value) }
func (l *Log) AddLine(line string)           { l.buf.AddLine(line) }
func (l *Log) Update()                       { l.buf.Update() }

func (l *Log) write(f Frame) {
	ev := l.logger.Debug()
	if !ev.Enabled() {
		return
	}
	for _, field := range f.Fields {
		ev = ev.Interface(field.Key, field.Value)
	}
	if len(f.Lines) > 0 {
		ev = ev.Strs("lines", f.Lines)
	}
	ev.Msg("telemetry")
}

type multi []Sink

// Multi fans every call out to all sinks.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) AddData(key string, value any) {
	for _, s := range m {
		s.AddData(key, value)
	}
}

func (m multi) AddLine(line string) {
	for _, s := range m {
		s.AddLine(line)
	}
}

func (m multi) Update() {
	for _, s := range m {
		s.Update()
	}
}

type discard struct{}

func (discard) AddData(string, any) {}
func (discard) AddLine(string)      {}
func (discard) Update()             {}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}
