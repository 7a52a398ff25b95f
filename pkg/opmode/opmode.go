// Package opmode runs an op mode against a plant at a fixed rate: an init
// loop until the operator starts the run, then the main loop until the
// context is cancelled.
package opmode

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gwillem/conebot/pkg/telemetry"
	"github.com/gwillem/conebot/pkg/timer"
)

// ErrAlreadyRunning is returned by Start when the loop is already running.
var ErrAlreadyRunning = errors.New("already running")

// OpMode is one robot program. All methods are called from the control
// loop goroutine.
type OpMode interface {
	// InitLoop runs every tick before the operator starts the run.
	InitLoop()
	// Start runs once, on the first tick after Begin.
	Start()
	// Loop runs every tick after Start.
	Loop()
	// Done reports whether the program has nothing left to do.
	Done() bool
}

// Plant is the hardware or simulation the op mode commands. Step is called
// once per tick after the op mode.
type Plant interface {
	Step(ctx context.Context, dt time.Duration) error
}

// Phase is where the controller is in the op mode lifecycle.
type Phase string

const (
	PhaseInit    Phase = "init"
	PhaseRunning Phase = "running"
	PhaseDone    Phase = "done"
	PhaseStopped Phase = "stopped"
)

// Status is published once per tick alongside the telemetry frame.
type Status struct {
	RunID string
	Phase Phase
	Tick  int
	Frame telemetry.Frame
	Error error
}

// Config holds configuration for the controller.
type Config struct {
	Hz     int
	Plant  Plant
	Clock  timer.Clock
	Logger *zerolog.Logger
}

// Controller manages the control loop.
type Controller struct {
	plant  Plant
	hz     int
	runID  string
	clock  timer.Clock
	logger zerolog.Logger
	sink   *telemetry.Buffer

	mu       sync.RWMutex
	running  bool
	begin    bool
	phase    Phase
	tick     int
	frame    telemetry.Frame
	statusCh chan Status
}

// NewController creates a controller. Op modes should report through
// Telemetry so their frames reach the status channel.
func NewController(cfg Config) *Controller {
	if cfg.Hz <= 0 {
		cfg.Hz = 50
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timer.System
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	runID := uuid.NewString()
	c := &Controller{
		plant:    cfg.Plant,
		hz:       cfg.Hz,
		runID:    runID,
		clock:    clock,
		logger:   logger.With().Str("run", runID[:8]).Logger(),
		phase:    PhaseInit,
		statusCh: make(chan Status, 1),
	}
	c.sink = telemetry.NewBuffer(clock, c.collect)
	return c
}

// Telemetry returns the sink whose frames are published with each status.
func (c *Controller) Telemetry() telemetry.Sink {
	return c.sink
}

// Logger returns the controller's logger, tagged with the run ID.
func (c *Controller) Logger() *zerolog.Logger {
	return &c.logger
}

// Statuses returns a channel that receives the latest status each tick.
func (c *Controller) Statuses() <-chan Status {
	return c.statusCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// RunID returns the unique ID of this run.
func (c *Controller) RunID() string {
	return c.runID
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Begin asks the controller to leave the init loop on the next tick.
func (c *Controller) Begin() {
	c.mu.Lock()
	c.begin = true
	c.mu.Unlock()
}

// Start runs mode until ctx is cancelled.
func (c *Controller) Start(ctx context.Context, mode OpMode) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	c.logger.Info().Int("hz", c.hz).Msg("op mode initialised, waiting for start")

	period := time.Second / time.Duration(c.hz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.Step(ctx, mode, period)
		}
	}
}

// Step runs one tick of mode and the plant. Start calls it on every tick
// of its ticker; tests and headless runs may call it directly.
func (c *Controller) Step(ctx context.Context, mode OpMode, dt time.Duration) {
	c.mu.Lock()
	phase := c.phase
	if phase == PhaseInit && c.begin {
		phase = PhaseRunning
		c.phase = phase
		c.mu.Unlock()
		mode.Start()
		c.logger.Info().Msg("op mode started")
	} else {
		c.mu.Unlock()
	}

	switch phase {
	case PhaseInit:
		mode.InitLoop()
	case PhaseRunning, PhaseDone:
		mode.Loop()
	}

	var stepErr error
	if c.plant != nil {
		if err := c.plant.Step(ctx, dt); err != nil {
			stepErr = fmt.Errorf("step plant: %w", err)
			c.logger.Warn().Err(err).Msg("plant step failed")
		}
	}

	c.mu.Lock()
	if c.phase == PhaseRunning && mode.Done() {
		c.phase = PhaseDone
		c.logger.Info().Int("tick", c.tick).Msg("op mode finished")
	}
	c.tick++
	status := Status{
		RunID: c.runID,
		Phase: c.phase,
		Tick:  c.tick,
		Frame: c.frame,
		Error: stepErr,
	}
	c.frame = telemetry.Frame{}
	c.mu.Unlock()

	c.sendStatus(status)
}

func (c *Controller) collect(f telemetry.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame.Time = f.Time
	c.frame.Fields = append(c.frame.Fields, f.Fields...)
	c.frame.Lines = append(c.frame.Lines, f.Lines...)
}

func (c *Controller) sendStatus(s Status) {
	select {
	case c.statusCh <- s:
	default:
		// Drop old status if channel full, replace with new
		select {
		case <-c.statusCh:
		default:
		}
		select {
		case c.statusCh <- s:
		default:
		}
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.phase = PhaseStopped
	c.mu.Unlock()
	c.logger.Info().Msg("op mode stopped")
}
