package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/robot"
)

func TestJointSweep(t *testing.T) {
	tests := []struct {
		name      string
		joint     robot.JointName
		positions []int
		ready     bool
	}{
		{"slide full sweep", robot.LiftSlide, []int{2000, 400, 3100}, true},
		{"slide short sweep", robot.IntakeSlide, []int{2000, 2300, 1800}, false},
		{"claw open and close", robot.Claw, []int{1500, 1700}, true},
		{"arm barely moved", robot.ArmYaw, []int{2048, 2100}, false},
		{"never read", robot.V4B, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := jointSweep{name: tt.joint}
			for _, p := range tt.positions {
				s.observe(p)
			}
			require.Equal(t, tt.ready, s.ready())
		})
	}
}

func TestJointSweep_Calibration(t *testing.T) {
	s := jointSweep{name: robot.V4B}
	s.observe(2000)
	s.observe(1200)
	s.observe(2600)
	s.observe(1900)

	require.Equal(t, 1900, s.cur)
	require.Equal(t, 1400, s.travel())
	require.Equal(t, robot.MotorCalibration{ID: 5, RangeMin: 1200, RangeMax: 2600}, s.calibration(5))
}

func TestCalibrationModel_ReadyCount(t *testing.T) {
	m := calibrationModel{sweeps: []jointSweep{
		{name: robot.Grabber},
		{name: robot.Claw},
	}}
	m.sweeps[0].observe(1000)
	m.sweeps[0].observe(1300)
	m.sweeps[1].observe(1000)

	require.Equal(t, 1, m.readyCount())
	require.Contains(t, m.View(), "1/2 joints swept")
}
