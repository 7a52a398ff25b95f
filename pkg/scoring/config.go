package scoring

import "time"

// Config holds the macro's timing and speed tunables.
type Config struct {
	// RetractWait lets the intake pull the cone back before the grabber
	// opens.
	RetractWait time.Duration `json:"retract_wait" mapstructure:"retract_wait"`
	// CollectWait lets the grabber open before the lift drops.
	CollectWait time.Duration `json:"collect_wait" mapstructure:"collect_wait"`
	// ReleaseWait lets the grabber close before the claw lets go.
	ReleaseWait time.Duration `json:"release_wait" mapstructure:"release_wait"`
	// DepositWait lets the cone fall clear before the lift comes down.
	DepositWait time.Duration `json:"deposit_wait" mapstructure:"deposit_wait"`

	// SlowSpeed is the intake speed multiplier once a cone is close.
	SlowSpeed float64 `json:"slow_speed" mapstructure:"slow_speed"`

	GrabRumble   time.Duration `json:"grab_rumble" mapstructure:"grab_rumble"`
	LiftedRumble time.Duration `json:"lifted_rumble" mapstructure:"lifted_rumble"`
}

// DefaultConfig returns the driver-practice tunables.
func DefaultConfig() Config {
	return Config{
		RetractWait:  time.Second,
		CollectWait:  500 * time.Millisecond,
		ReleaseWait:  500 * time.Millisecond,
		DepositWait:  500 * time.Millisecond,
		SlowSpeed:    0.4,
		GrabRumble:   500 * time.Millisecond,
		LiftedRumble: time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RetractWait < 0 {
		c.RetractWait = d.RetractWait
	}
	if c.CollectWait < 0 {
		c.CollectWait = d.CollectWait
	}
	if c.ReleaseWait < 0 {
		c.ReleaseWait = d.ReleaseWait
	}
	if c.DepositWait < 0 {
		c.DepositWait = d.DepositWait
	}
	if c.SlowSpeed <= 0 || c.SlowSpeed > 1 {
		c.SlowSpeed = d.SlowSpeed
	}
	if c.GrabRumble < 0 {
		c.GrabRumble = d.GrabRumble
	}
	if c.LiftedRumble < 0 {
		c.LiftedRumble = d.LiftedRumble
	}
	return c
}
