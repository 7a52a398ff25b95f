package auto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gwillem/conebot/pkg/drive"
	"github.com/gwillem/conebot/pkg/subsystem"
	"github.com/gwillem/conebot/pkg/subsystem/subsystemtest"
	"github.com/gwillem/conebot/pkg/telemetry"
	"github.com/gwillem/conebot/pkg/timer"
	"github.com/gwillem/conebot/pkg/vision"
)

// fakeDrive finishes every path after BusyTicks updates.
type fakeDrive struct {
	BusyTicks int
	remaining int
	followed  []drive.Path
	pose      drive.Pose
}

func (d *fakeDrive) FollowAsync(p drive.Path) {
	d.followed = append(d.followed, p)
	d.remaining = d.BusyTicks
}

func (d *fakeDrive) IsBusy() bool { return d.remaining > 0 }

func (d *fakeDrive) Update() {
	if d.remaining > 0 {
		d.remaining--
		if d.remaining == 0 && len(d.followed) > 0 {
			d.pose = d.followed[len(d.followed)-1].End()
		}
	}
}

func (d *fakeDrive) PoseEstimate() drive.Pose     { return d.pose }
func (d *fakeDrive) SetPoseEstimate(p drive.Pose) { d.pose = p }

func (d *fakeDrive) last() drive.Path { return d.followed[len(d.followed)-1] }

type stubVision struct {
	loc   vision.Location
	calls int
}

func (v *stubVision) Classify() vision.Location {
	v.calls++
	return v.loc
}

type rig struct {
	seq    *Sequencer
	lift   *subsystemtest.Lift
	intake *subsystemtest.Intake
	drive  *fakeDrive
	vision *stubVision
	clock  *timer.ManualClock
	paths  Paths
	frames []telemetry.Frame
}

func newRig(t *testing.T, cfg Config, busyTicks int) *rig {
	t.Helper()
	r := &rig{
		lift:   subsystemtest.NewLift(busyTicks),
		intake: subsystemtest.NewIntake(busyTicks),
		drive:  &fakeDrive{BusyTicks: 3},
		vision: &stubVision{loc: vision.Left},
		clock:  timer.NewManualClock(),
		paths:  DefaultPaths(),
	}
	sink := telemetry.NewBuffer(r.clock, func(f telemetry.Frame) { r.frames = append(r.frames, f) })
	r.seq = New(cfg, Hardware{
		Lift:   r.lift,
		Intake: r.intake,
		Drive:  r.drive,
		Vision: r.vision,
	}, Options{
		Paths:     &r.paths,
		Clock:     r.clock,
		Telemetry: sink,
	})
	return r
}

// step advances the clock by d and then ticks once.
func (r *rig) step(d time.Duration) State {
	r.clock.Advance(d)
	r.seq.Tick()
	return r.seq.State()
}

func TestSequencer_FullRun(t *testing.T) {
	r := newRig(t, DefaultConfig(), 2)
	r.vision.loc = vision.Middle

	r.seq.Tick()
	r.seq.Start()
	require.Equal(t, vision.Middle, r.seq.Location())
	require.Equal(t, r.paths.DriveToSpot.Name, r.drive.last().Name)

	states := []State{r.seq.State()}
	for i := 0; i < 2000 && !r.seq.Done(); i++ {
		states = append(states, r.step(50*time.Millisecond))
	}
	require.True(t, r.seq.Done(), "routine did not finish, stuck in %s", r.seq.State())

	var depositEntries, collectToWait, collectToPark int
	for i := 1; i < len(states); i++ {
		prev, cur := states[i-1], states[i]
		if prev == cur {
			continue
		}
		if cur == Deposit {
			depositEntries++
		}
		if prev == Collect && cur == Wait {
			collectToWait++
		}
		if prev == Collect && cur == ChooseParkLocation {
			collectToPark++
		}
		require.False(t, prev.Parking() && !cur.Parking(), "left the parking branch: %s -> %s", prev, cur)
	}

	require.Equal(t, 3, depositEntries, "preload plus two stack cones")
	require.Equal(t, 2, collectToWait, "COLLECT must repeat exactly twice")
	require.Equal(t, 1, collectToPark, "COLLECT must park exactly once")
	require.Equal(t, 3, r.seq.Cycle())
	require.True(t, r.seq.Parking())
	require.Equal(t, "park_middle", r.drive.last().Name)
	require.Less(t, r.seq.runTimer.Elapsed(), DefaultConfig().TimeBudget, "run should finish without the watchdog")

	last := r.frames[len(r.frames)-1]
	require.Equal(t, string(Idle), last.String("State"))
}

func TestSequencer_GuardedStatesHoldWhileBusy(t *testing.T) {
	for _, st := range []State{DriveToSpot, Deposit2, GrabCone, Collect, Park} {
		t.Run(string(st), func(t *testing.T) {
			r := newRig(t, DefaultConfig(), 3)
			r.drive.BusyTicks = 1 << 30
			r.seq.Start()

			r.lift.SetState(subsystem.LiftHigh)
			r.lift.OpenGrabber()
			r.lift.SetYawArmAngle(45)
			r.intake.ExtendFully()
			r.intake.SetV4B(subsystem.V4BDown)
			r.intake.Release()
			r.lift.Stalled = true
			r.intake.Stalled = true

			r.seq.state = st
			for i := 0; i < 10; i++ {
				require.Equal(t, st, r.step(20*time.Millisecond))
			}
		})
	}
}

func TestSequencer_WaitBoundary(t *testing.T) {
	r := newRig(t, DefaultConfig(), 0)
	r.seq.Start()
	r.seq.waitThen(GrabCone, 300*time.Millisecond, false)

	// Irregular tick spacing.
	require.Equal(t, Wait, r.step(120*time.Millisecond))
	require.Equal(t, Wait, r.step(170*time.Millisecond))
	require.Equal(t, Wait, r.step(9*time.Millisecond))
	require.Equal(t, GrabCone, r.step(1*time.Millisecond))
}

func TestSequencer_WaitSingleLongTick(t *testing.T) {
	r := newRig(t, DefaultConfig(), 0)
	r.seq.Start()
	r.seq.waitThen(Collect, 200*time.Millisecond, false)

	require.Equal(t, Collect, r.step(5*time.Second))
}

func TestSequencer_KeepDepositingDuringWait(t *testing.T) {
	r := newRig(t, DefaultConfig(), 1)
	r.seq.Start()
	r.seq.state = Deposit

	require.Equal(t, Wait, r.step(0))
	require.Equal(t, subsystem.LiftHigh, r.lift.State())
	require.Equal(t, 0, r.intake.SlideGoal(), "intake waits for the stagger")

	require.Equal(t, Wait, r.step(600*time.Millisecond))
	require.Equal(t, r.intake.Config.ExtendedTicks, r.intake.SlideGoal())
	require.Equal(t, subsystem.V4BStack1, r.intake.V4B())
	require.False(t, r.intake.ClawClosed())

	require.Equal(t, Deposit2, r.step(1500*time.Millisecond))
}

func TestSequencer_DepositSwingsArmAboveMid(t *testing.T) {
	r := newRig(t, DefaultConfig(), 5)
	r.seq.Start()
	r.seq.state = Deposit

	r.step(0)
	require.Equal(t, 0.0, r.lift.YawArmAngle())

	r.lift.SetSlidePosition(r.lift.Config.MidHeight + 1)
	r.step(10 * time.Millisecond)
	require.Equal(t, -90.0, r.lift.YawArmAngle())
}

func TestSequencer_WatchdogFromEveryPreParkState(t *testing.T) {
	cfg := DefaultConfig()
	for _, st := range []State{DriveToSpot, Deposit, Deposit2, GrabCone, Collect, Wait} {
		t.Run(string(st), func(t *testing.T) {
			r := newRig(t, cfg, 2)
			r.seq.Start()
			r.seq.state = st
			if st == Wait {
				r.seq.waitThen(Deposit2, time.Minute, true)
			}

			require.Equal(t, ChooseParkLocation, r.step(cfg.TimeBudget+time.Millisecond))
			require.Equal(t, subsystem.V4BCompletelyRetracted, r.intake.V4B())
			require.Equal(t, r.intake.Config.RetractedTicks, r.intake.SlideGoal())
			require.Equal(t, subsystem.LiftRetract, r.lift.State())
			require.False(t, r.seq.Parking())

			require.Equal(t, Park, r.step(20*time.Millisecond))
			require.True(t, r.seq.Parking())

			for i := 0; i < 20; i++ {
				got := r.step(time.Second)
				require.True(t, got.Parking(), "re-entered %s after parking", got)
			}
			require.Equal(t, Idle, r.seq.State())
		})
	}
}

func TestSequencer_BranchSelectionLatchedAtStart(t *testing.T) {
	r := newRig(t, DefaultConfig(), 0)

	r.seq.Tick()
	require.Equal(t, vision.Left, r.seq.Location())

	r.vision.loc = vision.Right
	r.seq.Observe()
	r.seq.Start()
	calls := r.vision.calls

	r.vision.loc = vision.Middle
	r.seq.Observe()
	r.step(time.Millisecond)
	require.Equal(t, calls, r.vision.calls, "sensor must not be read after start")

	r.seq.state = ChooseParkLocation
	require.Equal(t, Park, r.step(time.Millisecond))
	require.Equal(t, "park_right", r.drive.last().Name)
	require.Equal(t, vision.Right, r.seq.Location())
}

func TestSequencer_UpdatesOncePerTick(t *testing.T) {
	r := newRig(t, DefaultConfig(), 1)
	r.seq.Start()

	for i := 0; i < 5; i++ {
		r.step(10 * time.Millisecond)
	}
	require.Equal(t, 5, r.lift.Updates)
	require.Equal(t, 5, r.intake.Updates)
}

func TestSequencer_TickBeforeStartOnlyObserves(t *testing.T) {
	r := newRig(t, DefaultConfig(), 1)

	r.seq.Tick()
	r.seq.Tick()
	require.Equal(t, 2, r.vision.calls)
	require.Zero(t, r.lift.Updates)
	require.Empty(t, r.drive.followed)
	require.False(t, r.seq.Started())
}

func TestDefaultPaths(t *testing.T) {
	p := DefaultPaths()
	require.Equal(t, StartPose, p.DriveToSpot.Start)
	for _, loc := range vision.Locations() {
		park, ok := p.Park[loc]
		require.True(t, ok, "missing park path for %s", loc)
		require.Equal(t, p.DriveToSpot.End(), park.Start)
	}
}
