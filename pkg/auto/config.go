package auto

import (
	"time"

	"github.com/gwillem/conebot/pkg/drive"
	"github.com/gwillem/conebot/pkg/vision"
)

// Config holds the tunables for one autonomous run.
type Config struct {
	// TimeBudget is the run time after which the robot abandons cycling
	// and parks. Default: 28 seconds.
	TimeBudget time.Duration `json:"time_budget" mapstructure:"time_budget"`

	// Cycles is the number of cones scored, preload included. Default: 3.
	Cycles int `json:"cycles" mapstructure:"cycles"`

	// DepositWait is how long the lift is held at the junction before the
	// grabber opens. Default: 2 seconds.
	DepositWait time.Duration `json:"deposit_wait" mapstructure:"deposit_wait"`

	// SettleWait is the pause after each grab and collect. Default: 200ms.
	SettleWait time.Duration `json:"settle_wait" mapstructure:"settle_wait"`

	// IntakeStagger delays intake extension after a collect so the intake
	// does not reach out while the lift is still low. Default: 500ms.
	IntakeStagger time.Duration `json:"intake_stagger" mapstructure:"intake_stagger"`
}

// DefaultConfig returns the competition tunables.
func DefaultConfig() Config {
	return Config{
		TimeBudget:    28 * time.Second,
		Cycles:        3,
		DepositWait:   2 * time.Second,
		SettleWait:    200 * time.Millisecond,
		IntakeStagger: 500 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TimeBudget <= 0 {
		c.TimeBudget = d.TimeBudget
	}
	if c.Cycles <= 0 {
		c.Cycles = d.Cycles
	}
	if c.DepositWait < 0 {
		c.DepositWait = d.DepositWait
	}
	if c.SettleWait < 0 {
		c.SettleWait = d.SettleWait
	}
	if c.IntakeStagger < 0 {
		c.IntakeStagger = d.IntakeStagger
	}
	return c
}

// Paths are the precomputed routes for a run.
type Paths struct {
	DriveToSpot drive.Path
	Park        map[vision.Location]drive.Path
}

// StartPose is where the robot is placed on the right side of the field.
var StartPose = drive.Pose{X: -35, Y: 64, Heading: drive.Deg(90)}

// DefaultPaths returns the right-side routes: out to the scoring spot
// next to the high junction, then to one of three parking zones.
func DefaultPaths() Paths {
	toSpot := drive.NewPath("drive_to_spot", StartPose).
		Back(36).
		SplineTo(drive.Pose{X: -30, Y: 12.5, Heading: drive.Deg(180)}).
		Back(4).
		Wait(time.Second).
		Build()

	end := toSpot.End()
	return Paths{
		DriveToSpot: toSpot,
		Park: map[vision.Location]drive.Path{
			vision.Left:   drive.NewPath("park_left", end).LineTo(-12, 12).Build(),
			vision.Middle: drive.NewPath("park_middle", end).LineTo(-36, 12).Build(),
			vision.Right:  drive.NewPath("park_right", end).LineTo(-60, 12).Build(),
		},
	}
}
