package main

import (
	"context"
	"time"

	"github.com/gwillem/conebot/pkg/robot"
	"github.com/gwillem/conebot/pkg/sim"
)

// busPlant steps the servo bus and the simulated drivetrain together.
type busPlant struct {
	bus      *robot.Bus
	follower *sim.Follower
}

func (p busPlant) Step(ctx context.Context, dt time.Duration) error {
	p.follower.Step(dt)
	return p.bus.Step(ctx, dt)
}
