// Package config loads and saves the robot's run configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/gwillem/conebot/pkg/auto"
	"github.com/gwillem/conebot/pkg/robot"
	"github.com/gwillem/conebot/pkg/scoring"
	"github.com/gwillem/conebot/pkg/sim"
	"github.com/gwillem/conebot/pkg/subsystem"
)

const DefaultConfigFile = "conebot.json"

// Backends.
const (
	BackendSim     = "sim"
	BackendFeetech = "feetech"
)

// ErrUnknownBackend is returned for a backend other than sim or feetech.
var ErrUnknownBackend = errors.New("unknown backend")

// Config holds the robot configuration.
type Config struct {
	Backend     string            `json:"backend" mapstructure:"backend"`
	Port        string            `json:"port,omitempty" mapstructure:"port"`
	Hz          int               `json:"hz" mapstructure:"hz"`
	Calibration robot.Calibration `json:"calibration,omitempty" mapstructure:"calibration"`

	Lift    subsystem.LiftConfig   `json:"lift" mapstructure:"lift"`
	Intake  subsystem.IntakeConfig `json:"intake" mapstructure:"intake"`
	Auto    auto.Config            `json:"auto" mapstructure:"auto"`
	Scoring scoring.Config         `json:"scoring" mapstructure:"scoring"`
	Sim     sim.Config             `json:"sim" mapstructure:"sim"`
}

// Default returns a simulation config with the tuned constants.
func Default() *Config {
	return &Config{
		Backend: BackendSim,
		Hz:      50,
		Lift:    subsystem.DefaultLiftConfig(),
		Intake:  subsystem.DefaultIntakeConfig(),
		Auto:    auto.DefaultConfig(),
		Scoring: scoring.DefaultConfig(),
		Sim:     sim.DefaultConfig(),
	}
}

// IsCalibrated returns true if the config has calibration data.
func (c *Config) IsCalibrated() bool {
	return len(c.Calibration) > 0
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSim:
	case BackendFeetech:
		if c.Port == "" {
			return errors.New("feetech backend needs a port")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Hz <= 0 {
		return fmt.Errorf("hz must be positive, got %d", c.Hz)
	}
	if c.Lift.ArmClearance > c.Lift.LowHeight {
		return fmt.Errorf("lift arm_clearance %d is above low_height %d", c.Lift.ArmClearance, c.Lift.LowHeight)
	}
	return nil
}

// Load reads the default config file.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom reads path on top of the defaults. A missing file yields the
// defaults. CONEBOT_BACKEND, CONEBOT_PORT and CONEBOT_HZ override the
// file.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("CONEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetDefault("port", "")

	if Exists(path) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// toMap flattens c to the generic form viper holds file contents in, so
// nested defaults merge key by key with the file.
func toMap(c *Config) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return m, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Exists returns true if path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
