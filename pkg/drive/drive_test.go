package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	start := Pose{X: -35, Y: 64, Heading: Deg(90)}
	p := NewPath("drive_to_spot", start).
		Back(36).
		SplineTo(Pose{X: -30, Y: 12.5, Heading: Deg(180)}).
		Back(4).
		Wait(time.Second).
		Build()

	require.Equal(t, "drive_to_spot", p.Name)
	require.Len(t, p.Segments, 3)
	require.InDelta(t, 28, p.Segments[0].To.Y, 1e-9)
	require.InDelta(t, -35, p.Segments[0].To.X, 1e-9)

	// Backing up while facing -x moves toward +x.
	end := p.End()
	require.InDelta(t, -26, end.X, 1e-9)
	require.InDelta(t, 12.5, end.Y, 1e-9)
	require.Equal(t, time.Second, p.Segments[2].Wait)
}

func TestPath_Length(t *testing.T) {
	p := NewPath("park", Pose{}).LineTo(3, 4).LineTo(3, 10).Build()
	require.InDelta(t, 11, p.Length(), 1e-9)

	empty := NewPath("empty", Pose{X: 1}).Build()
	require.Zero(t, empty.Length())
	require.Equal(t, Pose{X: 1}, empty.End())
}

func TestBuilder_WaitFirst(t *testing.T) {
	p := NewPath("hold", Pose{X: 2}).Wait(500 * time.Millisecond).Build()
	require.Len(t, p.Segments, 1)
	require.Equal(t, Pose{X: 2}, p.Segments[0].To)
}
