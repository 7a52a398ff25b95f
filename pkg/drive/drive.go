// Package drive defines the path-following drivetrain contract and the
// opaque paths it follows.
package drive

import (
	"math"
	"time"
)

// Pose is a field position in inches with a heading in radians.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

// Distance returns the straight-line distance between two poses.
func (p Pose) Distance(o Pose) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Segment is one leg of a path: drive to a pose, then hold for Wait.
type Segment struct {
	To   Pose
	Wait time.Duration
}

// Path is a precomputed route. Followers treat it as opaque apart from
// its segments.
type Path struct {
	Name     string
	Start    Pose
	Segments []Segment
}

// End returns the pose the path finishes at.
func (p Path) End() Pose {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].To
}

// Length returns the total distance driven along the path.
func (p Path) Length() float64 {
	total := 0.0
	from := p.Start
	for _, s := range p.Segments {
		total += from.Distance(s.To)
		from = s.To
	}
	return total
}

// Follower drives paths asynchronously. Update is called once per tick.
type Follower interface {
	FollowAsync(p Path)
	IsBusy() bool
	Update()
	PoseEstimate() Pose
	SetPoseEstimate(p Pose)
}

// Builder assembles a Path from waypoints.
type Builder struct {
	path Path
	cur  Pose
}

// NewPath starts a path named name at start.
func NewPath(name string, start Pose) *Builder {
	return &Builder{path: Path{Name: name, Start: start}, cur: start}
}

// Back drives backwards d inches along the current heading.
func (b *Builder) Back(d float64) *Builder {
	return b.Forward(-d)
}

// Forward drives d inches along the current heading.
func (b *Builder) Forward(d float64) *Builder {
	next := Pose{
		X:       b.cur.X + d*math.Cos(b.cur.Heading),
		Y:       b.cur.Y + d*math.Sin(b.cur.Heading),
		Heading: b.cur.Heading,
	}
	return b.add(next)
}

// LineTo drives to (x, y) keeping the current heading.
func (b *Builder) LineTo(x, y float64) *Builder {
	return b.add(Pose{X: x, Y: y, Heading: b.cur.Heading})
}

// SplineTo drives to pose, turning to its heading on the way.
func (b *Builder) SplineTo(p Pose) *Builder {
	return b.add(p)
}

// Wait holds the current pose for d.
func (b *Builder) Wait(d time.Duration) *Builder {
	if n := len(b.path.Segments); n > 0 {
		b.path.Segments[n-1].Wait += d
		return b
	}
	b.path.Segments = append(b.path.Segments, Segment{To: b.cur, Wait: d})
	return b
}

// Build returns the finished path.
func (b *Builder) Build() Path {
	segs := make([]Segment, len(b.path.Segments))
	copy(segs, b.path.Segments)
	p := b.path
	p.Segments = segs
	return p
}

func (b *Builder) add(p Pose) *Builder {
	b.path.Segments = append(b.path.Segments, Segment{To: p})
	b.cur = p
	return b
}

// Deg converts degrees to radians.
func Deg(d float64) float64 {
	return d * math.Pi / 180
}
