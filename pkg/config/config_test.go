package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/robot"
	"github.com/gwillem/conebot/pkg/vision"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "conebot.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conebot.json")

	cfg := Default()
	cfg.Backend = BackendFeetech
	cfg.Port = "/dev/ttyACM0"
	cfg.Calibration = robot.DefaultCalibration()
	cfg.Auto.Cycles = 5
	cfg.Auto.TimeBudget = 25 * time.Second
	cfg.Scoring.SlowSpeed = 0.3
	cfg.Intake.StackPositions = []float64{0.7, 0.71}
	cfg.Sim.Location = vision.Right
	require.NoError(t, cfg.SaveTo(path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
	require.True(t, got.IsCalibrated())
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conebot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hz": 100, "auto": {"cycles": 2}}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Hz)
	require.Equal(t, 2, cfg.Auto.Cycles)
	require.Equal(t, Default().Auto.DepositWait, cfg.Auto.DepositWait)
	require.Equal(t, Default().Lift, cfg.Lift)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("CONEBOT_BACKEND", BackendFeetech)
	t.Setenv("CONEBOT_PORT", "/dev/ttyUSB1")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "conebot.json"))
	require.NoError(t, err)
	require.Equal(t, BackendFeetech, cfg.Backend)
	require.Equal(t, "/dev/ttyUSB1", cfg.Port)
}

func TestLoadFrom_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conebot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		ok      bool
	}{
		{"default", func(*Config) {}, nil, true},
		{"feetech with port", func(c *Config) { c.Backend = BackendFeetech; c.Port = "/dev/ttyACM0" }, nil, true},
		{"feetech without port", func(c *Config) { c.Backend = BackendFeetech }, nil, false},
		{"unknown backend", func(c *Config) { c.Backend = "can" }, ErrUnknownBackend, false},
		{"zero hz", func(c *Config) { c.Hz = 0 }, nil, false},
		{"arm clearance above low", func(c *Config) { c.Lift.ArmClearance = c.Lift.LowHeight + 1 }, nil, false},
		{"arm clearance at low", func(c *Config) { c.Lift.ArmClearance = c.Lift.LowHeight }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
