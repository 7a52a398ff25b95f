package timer

import (
	"testing"
	"time"
)

func TestTimer_Elapsed(t *testing.T) {
	clock := NewManualClock()
	tm := New(clock)

	if got := tm.Elapsed(); got != 0 {
		t.Fatalf("Elapsed() = %v right after New, want 0", got)
	}

	clock.Advance(250 * time.Millisecond)
	if got := tm.Elapsed(); got != 250*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 250ms", got)
	}

	tm.Reset()
	if got := tm.Elapsed(); got != 0 {
		t.Errorf("Elapsed() = %v after Reset, want 0", got)
	}

	clock.Advance(time.Second)
	if got := tm.Elapsed(); got != time.Second {
		t.Errorf("Elapsed() = %v, want 1s", got)
	}
}

func TestNew_NilClockUsesSystem(t *testing.T) {
	tm := New(nil)
	if tm.Elapsed() < 0 {
		t.Error("Elapsed() should never be negative")
	}
}
