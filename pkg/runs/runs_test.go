package runs_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/runs"
	"github.com/tidepool-robotics/reefrunner/pkg/sim"
)

func newRobot(t *testing.T) (*robot.Controller, *sim.Robot) {
	t.Helper()
	r := sim.New()
	log, _ := test.NewNullLogger()
	c, err := robot.NewController(r.Platform(), robot.DefaultDriveSettings(), log)
	require.NoError(t, err)
	return c, r
}

func TestAll_Numbering(t *testing.T) {
	all := runs.All()
	require.Len(t, all, 7)
	for i, r := range all {
		assert.Equal(t, i+1, r.Number)
		assert.Equal(t, r.Number == 7, r.Terminal, "only run 7 is terminal")
		assert.NotEmpty(t, r.Steps)
	}
}

func TestAll_PosesChain(t *testing.T) {
	all := runs.All()
	assert.Equal(t, runs.Home, all[0].Start)
	for i := 1; i < len(all); i++ {
		assert.Equal(t, all[i-1].End, all[i].Start, "run %d ends where run %d starts", i, i+1)
	}
}

func TestRunsExecuteWithoutOverlap(t *testing.T) {
	for _, run := range runs.All() {
		t.Run(run.String(), func(t *testing.T) {
			c, r := newRobot(t)
			log, _ := test.NewNullLogger()
			require.NoError(t, run.Execute(context.Background(), c, log))
			assert.Zero(t, r.Overlaps())
			assert.False(t, r.Drive.GyroEnabled())
		})
	}
}

func TestRun1(t *testing.T) {
	c, r := newRobot(t)
	run, err := runs.ByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"boat", "seaweed"}, run.Missions())

	require.NoError(t, run.Execute(context.Background(), c, nil))

	first := r.Drive.Commands[0]
	assert.Equal(t, sim.KindStraight, first.Kind)
	assert.Equal(t, []float64{350}, first.Args)
	last := r.Drive.Commands[len(r.Drive.Commands)-1]
	assert.Equal(t, []float64{700}, last.Args)

	var big []float64
	for _, cmd := range r.Motors[robot.Big].Commands {
		big = append(big, cmd.Degrees)
	}
	assert.Equal(t, []float64{45}, big, "seaweed flips the big arm once")
	assert.True(t, r.Clock.Now() > 0, "run 1 takes simulated time")
}

func TestRun2Missions(t *testing.T) {
	run, err := runs.ByNumber(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"whales", "octopus"}, run.Missions())
}

func TestExecute_StopsAtFirstError(t *testing.T) {
	c, r := newRobot(t)
	r.Drive.FailOn = sim.KindTurn
	run, err := runs.ByNumber(1)
	require.NoError(t, err)

	err = run.Execute(context.Background(), c, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 1 step 2")
	assert.Len(t, r.Drive.Commands, 2)
	assert.False(t, r.Drive.GyroEnabled())
}

func TestByNumber_Unknown(t *testing.T) {
	_, err := runs.ByNumber(8)
	assert.Error(t, err)
}
