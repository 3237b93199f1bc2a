package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickN(r *Robot, n int) {
	for i := 0; i < n; i++ {
		r.Tick()
	}
}

func assertNoConsecutiveDuplicates(t *testing.T, traj []Point) {
	t.Helper()
	for i := 1; i < len(traj); i++ {
		require.NotEqual(t, traj[i-1], traj[i], "duplicate sample at %d", i)
	}
}

func TestRobot_NewStartsAtOrigin(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)

	assert.Equal(t, Point{100, 100}, r.Position())
	assert.Equal(t, []Point{{100, 100}}, r.Route())
	assert.Equal(t, []Point{{100, 100}}, r.Trajectory())
	assert.Equal(t, ModeIdle, r.Mode())
	assert.Equal(t, KindRobot, r.Kind)
}

func TestRobot_AutoRouteTenTicks(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)
	r.AddWaypoint(Point{200, 100})
	r.SetAutoMove(true)

	tickN(r, 9)
	assert.Equal(t, ModeAutoRoute, r.Mode())
	assert.Equal(t, Point{190, 100}, r.Position())

	r.Tick()
	assert.Equal(t, Point{200, 100}, r.Position())
	assert.Equal(t, ModeIdle, r.Mode())
}

func TestRobot_AutoRouteReachesLastWaypointExactly(t *testing.T) {
	routes := [][]Point{
		{{137, 421}},
		{{300, 300}, {310, 290}, {10, 590}},
		{{101, 101}},
		{{700, 80}, {700, 80}, {20, 20}},
	}
	for _, speed := range []int{1, 3, 10, 25} {
		for _, wps := range routes {
			r := NewRobot(0, Point{100, 100}, speed, 100)
			for _, wp := range wps {
				r.AddWaypoint(wp)
			}
			r.SetAutoMove(true)

			for i := 0; i < 5000 && r.Mode() == ModeAutoRoute; i++ {
				r.Tick()
			}
			require.Equal(t, ModeIdle, r.Mode(), "speed %d route %v", speed, wps)
			assert.Equal(t, wps[len(wps)-1], r.Position())
			assertNoConsecutiveDuplicates(t, r.Trajectory())
		}
	}
}

func TestRobot_SingleWaypointRouteNeverMoves(t *testing.T) {
	r := NewRobot(0, Point{50, 50}, 10, 100)
	r.SetAutoMove(true)
	tickN(r, 5)

	assert.Equal(t, Point{50, 50}, r.Position())
	assert.Len(t, r.Trajectory(), 1)
}

func TestRobot_TrajectoryFIFO(t *testing.T) {
	r := NewRobot(0, Point{0, 300}, 1, 5)
	r.AddWaypoint(Point{100, 300})
	r.SetAutoMove(true)

	tickN(r, 3)
	require.Equal(t, []Point{{0, 300}, {1, 300}, {2, 300}, {3, 300}}, r.Trajectory())

	tickN(r, 1)
	assert.Len(t, r.Trajectory(), 5)
	tickN(r, 1)
	assert.Equal(t, []Point{{1, 300}, {2, 300}, {3, 300}, {4, 300}, {5, 300}}, r.Trajectory())

	tickN(r, 50)
	assert.Len(t, r.Trajectory(), 5)
	assert.Equal(t, Point{55, 300}, r.Trajectory()[4])
}

func TestRobot_ManualControl(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)
	r.AddWaypoint(Point{100, 300})

	r.SetManualControl(true, DirRight)
	assert.Equal(t, ModeManual, r.Mode())
	assert.Equal(t, Point{1, 0}, r.Heading())

	tickN(r, 2)
	assert.Equal(t, Point{120, 100}, r.Position())

	r.SetManualControl(true, DirDownLeft)
	r.Tick()
	assert.Equal(t, Point{110, 110}, r.Position())

	r.SetManualControl(true, DirStop)
	r.Tick()
	assert.Equal(t, Point{110, 110}, r.Position())
	assert.Equal(t, Point{-1, 1}, r.Heading(), "stop keeps last heading")
	assertNoConsecutiveDuplicates(t, r.Trajectory())
}

func TestRobot_ManualEntryHeadsTowardTarget(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)
	r.AddWaypoint(Point{100, 300})
	r.SetAutoMove(true)
	r.Tick()

	r.SetManualControl(true, Direction("bogus"))
	assert.Equal(t, ModeManual, r.Mode())
	assert.Equal(t, Point{0, 190}, r.Heading())
	assert.InDelta(t, 180, r.HeadingDegrees(), 1e-9)
}

func TestRobot_ManualOffReturnsToAutoRoute(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)
	r.AddWaypoint(Point{200, 100})
	r.SetManualControl(true, DirUp)
	r.Tick()

	r.SetManualControl(false, "")
	assert.Equal(t, ModeAutoRoute, r.Mode())

	for i := 0; i < 100 && r.IsMoving(); i++ {
		r.Tick()
	}
	assert.Equal(t, Point{200, 100}, r.Position())
}

func TestRobot_ManualOriginOnlyRouteStaysPut(t *testing.T) {
	r := NewRobot(0, Point{50, 50}, 10, 100)
	r.SetManualControl(true, DirRight)

	tickN(r, 3)
	assert.Equal(t, ModeManual, r.Mode())
	assert.Equal(t, Point{50, 50}, r.Position())
	assert.Equal(t, []Point{{50, 50}}, r.Trajectory())

	r.AddWaypoint(Point{200, 50})
	r.Tick()
	assert.Equal(t, Point{60, 50}, r.Position())
}

func TestRobot_SetAutoMoveCancelsManual(t *testing.T) {
	r := NewRobot(0, Point{100, 100}, 10, 100)
	r.SetManualControl(true, DirUp)
	r.SetAutoMove(false)

	assert.Equal(t, ModeIdle, r.Mode())
	r.Tick()
	assert.Equal(t, Point{100, 100}, r.Position())
}

func longTrajectoryRobot(t *testing.T) *Robot {
	t.Helper()
	r := NewRobot(0, Point{0, 0}, 1, 100)
	r.AddWaypoint(Point{20, 0})
	r.SetAutoMove(true)
	tickN(r, 20)
	require.Len(t, r.Trajectory(), 21)
	require.Equal(t, 20, r.ReplayIndex())
	return r
}

func TestRobot_StepBackwardForwardCancel(t *testing.T) {
	r := longTrajectoryRobot(t)

	r.StepBackward(3)
	assert.Equal(t, ModeReplay, r.Mode())
	assert.Equal(t, 17, r.ReplayIndex())
	assert.Equal(t, Point{17, 0}, r.Position())

	r.StepForward(3)
	assert.Equal(t, 20, r.ReplayIndex())
	assert.Equal(t, Point{20, 0}, r.Position())
}

func TestRobot_StepClamps(t *testing.T) {
	r := longTrajectoryRobot(t)

	r.StepBackward(1000)
	assert.Equal(t, 0, r.ReplayIndex())
	assert.Equal(t, Point{0, 0}, r.Position())

	r.StepForward(1000)
	assert.Equal(t, 20, r.ReplayIndex())
}

func TestRobot_ReplayIsScrubOnly(t *testing.T) {
	r := longTrajectoryRobot(t)
	r.StepBackward(5)
	pos := r.Position()

	tickN(r, 10)
	assert.Equal(t, pos, r.Position())
	assert.Equal(t, 15, r.ReplayIndex())
	assert.Equal(t, ModeReplay, r.Mode())

	r.ResumeFromReplay()
	assert.Equal(t, ModeIdle, r.Mode())
}

func TestRobot_ResetToOriginIdempotent(t *testing.T) {
	r := NewRobot(0, Point{10, 10}, 5, 100)
	r.AddWaypoint(Point{60, 10})
	r.SetAutoMove(true)
	tickN(r, 4)

	r.ResetToOrigin()
	once := *r
	onceTraj := r.Trajectory()
	r.ResetToOrigin()

	assert.Equal(t, once.Position(), r.Position())
	assert.Equal(t, once.Mode(), r.Mode())
	assert.Equal(t, onceTraj, r.Trajectory())
	assert.Equal(t, []Point{{10, 10}}, r.Trajectory())
	assert.Equal(t, 0, r.TargetIndex())
	assert.Equal(t, 0, r.ReplayIndex())
	assert.Len(t, r.Route(), 2, "route survives reset")
}

func TestRobot_ClearRoute(t *testing.T) {
	r := NewRobot(0, Point{10, 10}, 5, 100)
	r.AddWaypoint(Point{60, 10})
	r.SetAutoMove(true)
	tickN(r, 2)
	pos := r.Position()
	traj := r.Trajectory()

	r.ClearRoute()
	assert.Equal(t, []Point{{10, 10}}, r.Route())
	assert.Equal(t, pos, r.Position())
	assert.Equal(t, traj, r.Trajectory())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection(" UpLeft ")
	require.True(t, ok)
	assert.Equal(t, Point{-1, -1}, d.Vector())

	d, ok = ParseDirection("return")
	require.True(t, ok)
	assert.Equal(t, DirStop, d)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}

func TestEnemy_PredictedAbsentUntilSet(t *testing.T) {
	e := NewEnemy(3, Point{500, 500})
	_, ok := e.PredictedPosition()
	assert.False(t, ok)

	e.SetPredicted(Point{510, 480})
	p, ok := e.PredictedPosition()
	require.True(t, ok)
	assert.Equal(t, Point{510, 480}, p)
	assert.Equal(t, Point{500, 500}, e.Origin)
}

func TestEntity_IsNear(t *testing.T) {
	e := Entity{Origin: Point{100, 100}}
	assert.True(t, e.IsNear(105, 105, 8))
	assert.False(t, e.IsNear(106, 106, 8))
}
