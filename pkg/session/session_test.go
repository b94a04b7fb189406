package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidepool-robotics/reefrunner/pkg/battery"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/runs"
	"github.com/tidepool-robotics/reefrunner/pkg/sim"
)

type fixture struct {
	robot   *sim.Robot
	ctrl    *robot.Controller
	monitor *battery.Monitor
	tel     *Telemetry
	hook    *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := sim.New()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	ctrl, err := robot.NewController(r.Platform(), robot.DefaultDriveSettings(), log)
	require.NoError(t, err)
	monitor := battery.NewMonitor(r.Battery, r.Light, robot.DefaultConfig().Battery, log)
	return &fixture{
		robot:   r,
		ctrl:    ctrl,
		monitor: monitor,
		tel:     NewTelemetry(r.Platform(), monitor, log),
		hook:    hook,
	}
}

func (f *fixture) execute(t *testing.T, n int) Result {
	t.Helper()
	run, err := runs.ByNumber(n)
	require.NoError(t, err)
	res, err := f.tel.Execute(context.Background(), run, f.ctrl)
	require.NoError(t, err)
	return res
}

func (f *fixture) messages() []string {
	var out []string
	for _, e := range f.hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func TestExecute_RecordsElapsed(t *testing.T) {
	f := newFixture(t)
	res := f.execute(t, 2)

	assert.Equal(t, 2, res.Record.Run)
	assert.Equal(t, f.robot.Clock.Now(), res.Record.Elapsed)
	assert.Nil(t, res.Summary)
	assert.Contains(t, f.messages(), "Running #2...")

	_, started := f.tel.SessionStart()
	assert.False(t, started, "only run 1 starts the session timer")
}

func TestExecute_LightFeedback(t *testing.T) {
	f := newFixture(t)
	f.robot.Battery.Millivolts = 7500
	_, err := f.monitor.Check()
	require.NoError(t, err)
	f.robot.Light.History = nil

	f.execute(t, 3)

	assert.Equal(t, []robot.Color{BusyColor, robot.ColorYellow}, f.robot.Light.History)
	assert.Equal(t, 1, f.robot.Display.Animations)
	assert.Equal(t, []int{3}, f.robot.Display.Numbers, "completed run is shown")
}

func TestExecute_RestoresLightOnFailure(t *testing.T) {
	f := newFixture(t)
	f.robot.Drive.FailOn = sim.KindStraight
	run, err := runs.ByNumber(1)
	require.NoError(t, err)

	res, err := f.tel.Execute(context.Background(), run, f.ctrl)
	assert.Error(t, err)
	assert.Error(t, res.Record.Err)
	assert.Equal(t, robot.ColorGreen, f.robot.Light.Current())
	assert.False(t, f.robot.Drive.GyroEnabled())
	assert.Empty(t, f.robot.Display.Numbers)
}

func TestRun7WithoutRun1IsIncomplete(t *testing.T) {
	f := newFixture(t)
	res := f.execute(t, 7)

	require.NotNil(t, res.Summary)
	assert.True(t, res.Summary.Incomplete)
	assert.Contains(t, f.messages(), "You didn't run everything.")
	assert.Contains(t, f.messages(), "Done running #7. Time: 0.0 seconds.")
}

func TestRun1ThenRun7(t *testing.T) {
	f := newFixture(t)
	f.robot.Clock.Advance(5 * time.Second)

	f.execute(t, 1)
	start, started := f.tel.SessionStart()
	require.True(t, started)
	assert.Equal(t, 5*time.Second, start)

	f.robot.Clock.Advance(20 * time.Second)
	res := f.execute(t, 7)

	require.NotNil(t, res.Summary)
	s := res.Summary
	assert.False(t, s.Incomplete)
	assert.Equal(t, f.robot.Clock.Now()-5*time.Second, s.Total)
	assert.Zero(t, s.Overage)
	assert.NotContains(t, f.messages(), "Time exceeded")
	assert.Less(t, s.Active, s.Total, "idle time between runs counts toward the total only")
}

func TestRun1IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.execute(t, 1)
	first, _ := f.tel.SessionStart()

	f.robot.Clock.Advance(time.Minute)
	f.execute(t, 1)
	again, _ := f.tel.SessionStart()

	assert.Equal(t, first, again)
	assert.Len(t, f.tel.Records(), 2)
}

func TestOverage(t *testing.T) {
	f := newFixture(t)
	f.execute(t, 1)
	f.robot.Clock.Advance(200 * time.Second)
	res := f.execute(t, 7)

	s := res.Summary
	require.NotNil(t, s)
	assert.Equal(t, s.Total-Budget, s.Overage)
	assert.Greater(t, s.Percent, 100.0)

	var exceeded bool
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.HasPrefix(e.Message, "Time exceeded by") {
			exceeded = true
		}
	}
	assert.True(t, exceeded)
}

func TestFinalize_ExactlyBudgetIsNotOver(t *testing.T) {
	f := newFixture(t)
	f.tel.started = true
	f.robot.Clock.Advance(Budget)

	s := f.tel.Finalize()
	assert.Equal(t, Budget, s.Total)
	assert.Equal(t, 100.0, s.Percent)
	assert.Zero(t, s.Overage)
}

func TestDispatcher(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.tel, f.ctrl, f.monitor, nil)
	var results []Result
	d.OnResult = func(r Result) { results = append(results, r) }

	require.NoError(t, d.Run(context.Background(), 1))
	require.NoError(t, d.Run(context.Background(), 7))
	require.NoError(t, d.Cleanup(context.Background()))

	require.Len(t, results, 2)
	assert.NotNil(t, results[1].Summary)
	assert.False(t, results[1].Summary.Incomplete)
	assert.Equal(t, robot.ColorGreen, f.robot.Light.Current())
	for _, name := range robot.AllActuators() {
		last := f.robot.Motors[name].Commands
		assert.Equal(t, 1000.0, last[len(last)-1].Degrees)
	}

	assert.Error(t, d.Run(context.Background(), 9))
}
