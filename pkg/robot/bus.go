package robot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Bus is one serial connection to the robot's servos. Joints obtained from
// it only cache commands and readings; Step exchanges them with the
// hardware in one sync write and one sync read.
type Bus struct {
	bus         *feetech.Bus
	group       *feetech.ServoGroup
	calibration Calibration

	targets   map[JointName]float64
	positions map[JointName]float64
}

// Open connects to the servo bus on port.
func Open(port string, cal Calibration) (*Bus, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	b := newBus(cal)
	b.bus = bus
	b.group = feetech.NewServoGroupByIDs(bus, cal.MotorIDs()...)
	return b, nil
}

func newBus(cal Calibration) *Bus {
	return &Bus{
		calibration: cal,
		targets:     make(map[JointName]float64),
		positions:   make(map[JointName]float64),
	}
}

// Close closes the bus connection.
func (b *Bus) Close() error {
	return b.bus.Close()
}

// Enable enables torque on all servos.
func (b *Bus) Enable(ctx context.Context) error {
	return b.group.EnableAll(ctx)
}

// Disable disables torque on all servos.
func (b *Bus) Disable(ctx context.Context) error {
	return b.group.DisableAll(ctx)
}

// ReadPositions reads current positions from all joints, normalized to
// [0, 1].
func (b *Bus) ReadPositions(ctx context.Context) (map[JointName]float64, error) {
	raw, err := b.group.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	positions := make(map[JointName]float64, len(raw))
	for id, pos := range raw {
		name, cal, ok := b.calibration.ByID(id)
		if !ok {
			continue
		}
		positions[name] = cal.Normalize(pos)
	}
	return positions, nil
}

// WritePositions writes normalized target positions to the joints.
func (b *Bus) WritePositions(ctx context.Context, positions map[JointName]float64) error {
	raw := b.rawTargets(positions)
	if len(raw) == 0 {
		return nil
	}
	if err := b.group.SetPositions(ctx, raw); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	return nil
}

func (b *Bus) rawTargets(positions map[JointName]float64) feetech.PositionMap {
	raw := make(feetech.PositionMap, len(positions))
	for name, norm := range positions {
		cal, ok := b.calibration[name]
		if !ok {
			continue
		}
		raw[cal.ID] = cal.Denormalize(norm)
	}
	return raw
}

// Step writes every cached target and refreshes the cached positions. It
// implements the control loop's plant.
func (b *Bus) Step(ctx context.Context, _ time.Duration) error {
	if err := b.WritePositions(ctx, b.targets); err != nil {
		return err
	}
	positions, err := b.ReadPositions(ctx)
	if err != nil {
		return err
	}
	for name, pos := range positions {
		b.positions[name] = pos
	}
	return nil
}

// Position returns the last reading of a joint in [0, 1].
func (b *Bus) Position(name JointName) float64 {
	return b.positions[name]
}

// Target returns the pending command of a joint in [0, 1].
func (b *Bus) Target(name JointName) (float64, bool) {
	t, ok := b.targets[name]
	return t, ok
}

// Servo returns a positional output on a joint.
func (b *Bus) Servo(name JointName) *ServoJoint {
	return &ServoJoint{bus: b, name: name}
}

// Motor returns an encoder motor on a joint whose full range spans
// fullScale ticks.
func (b *Bus) Motor(name JointName, fullScale int) *MotorJoint {
	return &MotorJoint{bus: b, name: name, scale: fullScale}
}

// ServoJoint adapts a bus servo to subsystem.Servo.
type ServoJoint struct {
	bus  *Bus
	name JointName
}

func (j *ServoJoint) SetPosition(pos float64) { j.bus.targets[j.name] = pos }

// Position returns the last reading.
func (j *ServoJoint) Position() float64 { return j.bus.positions[j.name] }

// MotorJoint adapts a bus servo to subsystem.Motor, scaling [0, 1] to
// slide ticks.
type MotorJoint struct {
	bus   *Bus
	name  JointName
	scale int
}

func (j *MotorJoint) SetTarget(ticks int) {
	if j.scale <= 0 {
		return
	}
	j.bus.targets[j.name] = float64(ticks) / float64(j.scale)
}

func (j *MotorJoint) Position() int {
	return int(math.Round(j.bus.positions[j.name] * float64(j.scale)))
}

// Scan opens port and lists the servos answering on IDs 1-6.
func Scan(ctx context.Context, port string) ([]feetech.FoundServo, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}
	defer bus.Close()

	servos, err := bus.Scan(ctx, 1, len(AllJoints()))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", port, err)
	}
	return servos, nil
}

// Complete reports whether servos holds exactly one servo for every joint.
func Complete(servos []feetech.FoundServo) bool {
	if len(servos) != len(AllJoints()) {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= len(AllJoints()); i++ {
		if !ids[i] {
			return false
		}
	}
	return true
}
