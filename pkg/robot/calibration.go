package robot

import (
	"encoding/json"
	"fmt"
	"os"
)

// MotorCalibration holds calibration data for a single servo.
type MotorCalibration struct {
	ID           int `json:"id" mapstructure:"id"`
	DriveMode    int `json:"drive_mode" mapstructure:"drive_mode"`
	HomingOffset int `json:"homing_offset" mapstructure:"homing_offset"`
	RangeMin     int `json:"range_min" mapstructure:"range_min"`
	RangeMax     int `json:"range_max" mapstructure:"range_max"`
}

// Calibration holds calibration data for all joints, keyed by joint name.
type Calibration map[JointName]MotorCalibration

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var raw map[string]MotorCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, mc := range raw {
		cal[JointName(name)] = mc
	}
	return cal, nil
}

// Normalize converts a raw servo position to a value in [0, 1]. Drive
// mode 1 reverses the direction.
func (c MotorCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	n := float64(raw+c.HomingOffset-c.RangeMin) / rangeSize
	if c.DriveMode == 1 {
		n = 1 - n
	}
	return n
}

// Denormalize converts a value in [0, 1] to a raw servo position. Values
// outside the range are clamped to the calibrated limits.
func (c MotorCalibration) Denormalize(norm float64) int {
	norm = min(max(norm, 0), 1)
	if c.DriveMode == 1 {
		norm = 1 - norm
	}
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int(norm*rangeSize+0.5) + c.RangeMin - c.HomingOffset
}

// MotorIDs returns the servo IDs for all joints in the calibration.
func (c Calibration) MotorIDs() []int {
	ids := make([]int, 0, len(c))
	// AllJoints() keeps the order stable
	for _, name := range AllJoints() {
		if mc, ok := c[name]; ok {
			ids = append(ids, mc.ID)
		}
	}
	return ids
}

// ByID returns joint name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (JointName, MotorCalibration, bool) {
	for name, mc := range c {
		if mc.ID == id {
			return name, mc, true
		}
	}
	return "", MotorCalibration{}, false
}
