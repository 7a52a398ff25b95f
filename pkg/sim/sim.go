// Package sim is a kinematic stand-in for the robot so the op modes can
// run without hardware. Nothing here models forces: slides move at a
// fixed rate, servos jump to their target, and the drivetrain follows
// paths at constant speed.
package sim

import (
	"context"
	"math"
	"time"

	"github.com/gwillem/conebot/pkg/drive"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/vision"
)

// Motor is a slide motor that moves toward its target at Speed ticks per
// second.
type Motor struct {
	Speed    float64
	target   int
	position float64
}

// NewMotor returns a motor resting at position.
func NewMotor(speed float64, position int) *Motor {
	return &Motor{Speed: speed, target: position, position: float64(position)}
}

func (m *Motor) SetTarget(ticks int) { m.target = ticks }
func (m *Motor) Target() int         { return m.target }
func (m *Motor) Position() int       { return int(math.Round(m.position)) }

// Step moves the motor for dt.
func (m *Motor) Step(dt time.Duration) {
	delta := float64(m.target) - m.position
	step := m.Speed * dt.Seconds()
	if math.Abs(delta) <= step {
		m.position = float64(m.target)
		return
	}
	m.position += math.Copysign(step, delta)
}

// Servo records the last position written to it.
type Servo struct {
	position float64
}

// NewServo returns a servo at position.
func NewServo(position float64) *Servo { return &Servo{position: position} }

func (s *Servo) SetPosition(pos float64) { s.position = pos }
func (s *Servo) Position() float64       { return s.position }

// ConeSensor reports the distance from the claw to a cone placed ConeAt
// ticks out along the intake slide. A cone is always waiting there while
// Present is set.
type ConeSensor struct {
	Slide     *Motor
	ConeAt    int
	MMPerTick float64
	Present   bool
}

// Distance implements subsystem.RangeSensor.
func (c *ConeSensor) Distance() float64 {
	if !c.Present {
		return 1000
	}
	d := float64(c.ConeAt-c.Slide.Position()) * c.MMPerTick
	return math.Max(d, 0)
}

// Follower drives paths at Speed inches per second, holding at each
// segment's end for its Wait. Time only passes in Step.
type Follower struct {
	Speed float64

	path      drive.Path
	following bool
	elapsed   time.Duration
	pose      drive.Pose
}

// NewFollower returns an idle follower at the origin.
func NewFollower(speed float64) *Follower {
	return &Follower{Speed: speed}
}

func (f *Follower) FollowAsync(p drive.Path) {
	f.path = p
	f.elapsed = 0
	f.following = true
	f.settle()
}

func (f *Follower) IsBusy() bool                 { return f.following }
func (f *Follower) Update()                      {}
func (f *Follower) PoseEstimate() drive.Pose     { return f.pose }
func (f *Follower) SetPoseEstimate(p drive.Pose) { f.pose = p }

// Step advances the follower along its path by dt.
func (f *Follower) Step(dt time.Duration) {
	if !f.following {
		return
	}
	f.elapsed += dt
	f.settle()
}

// Duration returns how long the follower takes to complete p.
func (f *Follower) Duration(p drive.Path) time.Duration {
	var total time.Duration
	from := p.Start
	for _, s := range p.Segments {
		total += f.legTime(from, s.To) + s.Wait
		from = s.To
	}
	return total
}

func (f *Follower) legTime(from, to drive.Pose) time.Duration {
	if f.Speed <= 0 {
		return 0
	}
	return time.Duration(from.Distance(to) / f.Speed * float64(time.Second))
}

// settle places the pose along the path for the elapsed time.
func (f *Follower) settle() {
	left := f.elapsed
	from := f.path.Start
	for _, s := range f.path.Segments {
		leg := f.legTime(from, s.To)
		if left < leg {
			frac := float64(left) / float64(leg)
			f.pose = drive.Pose{
				X:       from.X + (s.To.X-from.X)*frac,
				Y:       from.Y + (s.To.Y-from.Y)*frac,
				Heading: s.To.Heading,
			}
			return
		}
		left -= leg
		f.pose = s.To
		if left < s.Wait {
			return
		}
		left -= s.Wait
		from = s.To
	}
	f.pose = f.path.End()
	f.following = false
}

// Config sets the simulated plant's rates and field layout.
type Config struct {
	LiftSpeed   float64         `json:"lift_speed" mapstructure:"lift_speed"`     // ticks/s
	IntakeSpeed float64         `json:"intake_speed" mapstructure:"intake_speed"` // ticks/s
	DriveSpeed  float64         `json:"drive_speed" mapstructure:"drive_speed"`   // in/s
	ConeAt      int             `json:"cone_at" mapstructure:"cone_at"`           // intake ticks
	MMPerTick   float64         `json:"mm_per_tick" mapstructure:"mm_per_tick"`
	Location    vision.Location `json:"location" mapstructure:"location"`
}

// DefaultConfig returns rates close to the real robot.
func DefaultConfig() Config {
	return Config{
		LiftSpeed:   2500,
		IntakeSpeed: 2000,
		DriveSpeed:  30,
		ConeAt:      1500,
		MMPerTick:   0.5,
		Location:    vision.Middle,
	}
}

// World is the whole simulated robot.
type World struct {
	LiftSlide   *Motor
	IntakeSlide *Motor
	Grabber     *Servo
	Arm         *Servo
	V4B         *Servo
	Claw        *Servo
	Cone        *ConeSensor
	Drive       *Follower
	Vision      vision.Fixed

	elapsed time.Duration
}

// NewWorld builds a robot at rest with the slides home.
func NewWorld(cfg Config) *World {
	intake := NewMotor(cfg.IntakeSpeed, 0)
	return &World{
		LiftSlide:   NewMotor(cfg.LiftSpeed, 0),
		IntakeSlide: intake,
		Grabber:     NewServo(0),
		Arm:         NewServo(0),
		V4B:         NewServo(0),
		Claw:        NewServo(0),
		Cone: &ConeSensor{
			Slide:     intake,
			ConeAt:    cfg.ConeAt,
			MMPerTick: cfg.MMPerTick,
			Present:   true,
		},
		Drive:  NewFollower(cfg.DriveSpeed),
		Vision: vision.Fixed(cfg.Location),
	}
}

// LiftHardware returns the devices the lift is built from.
func (w *World) LiftHardware() subsystem.LiftHardware {
	return subsystem.LiftHardware{Slide: w.LiftSlide, Grabber: w.Grabber, Arm: w.Arm}
}

// IntakeHardware returns the devices the intake is built from.
func (w *World) IntakeHardware() subsystem.IntakeHardware {
	return subsystem.IntakeHardware{Slide: w.IntakeSlide, V4B: w.V4B, Claw: w.Claw, Distance: w.Cone}
}

// Step advances the world by dt. It never fails.
func (w *World) Step(_ context.Context, dt time.Duration) error {
	w.LiftSlide.Step(dt)
	w.IntakeSlide.Step(dt)
	w.Drive.Step(dt)
	w.elapsed += dt
	return nil
}

// Elapsed returns the total simulated time.
func (w *World) Elapsed() time.Duration { return w.elapsed }
