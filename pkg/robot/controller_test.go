package robot_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/sim"
)

func newController(t *testing.T) (*robot.Controller, *sim.Robot) {
	t.Helper()
	r := sim.New()
	log, _ := test.NewNullLogger()
	c, err := robot.NewController(r.Platform(), robot.DefaultDriveSettings(), log)
	require.NoError(t, err)
	return c, r
}

func TestNewController_ConfiguresDrivebase(t *testing.T) {
	_, r := newController(t)
	assert.False(t, r.Drive.GyroEnabled())
	assert.Equal(t, robot.DefaultDriveSettings(), r.Drive.Settings())
}

func TestNewController_MissingMotor(t *testing.T) {
	r := sim.New()
	p := r.Platform()
	delete(p.Motors, robot.Small)
	_, err := robot.NewController(p, robot.DefaultDriveSettings(), nil)
	assert.Error(t, err)
}

func TestNewController_MissingClock(t *testing.T) {
	p := sim.New().Platform()
	p.Clock = nil
	_, err := robot.NewController(p, robot.DefaultDriveSettings(), nil)
	assert.ErrorContains(t, err, "no clock")
}

func TestMoveAuxiliary_ReleasesHeading(t *testing.T) {
	ctx := context.Background()
	for _, which := range []robot.Aux{robot.BigAux, robot.SmallAux} {
		for _, degrees := range []float64{-90, 0, 45} {
			for _, wait := range []bool{true, false} {
				c, r := newController(t)
				require.NoError(t, c.MoveAuxiliary(ctx, which, degrees, 500, wait))

				assert.False(t, r.Drive.GyroEnabled(), "%s %v wait=%v", which, degrees, wait)
				m := r.Motors[which.Actuator()]
				require.Len(t, m.Commands, 1)
				assert.True(t, m.Commands[0].Gyro, "heading correction should be on while commanding")
				assert.Equal(t, degrees, m.Commands[0].Degrees)
				assert.Equal(t, wait, m.Commands[0].Wait)
			}
		}
	}
}

func TestMoveAuxiliary_ReleasesHeadingOnFailure(t *testing.T) {
	c, r := newController(t)
	r.Motors[robot.Big].Err = errors.New("servo fault")

	err := c.MoveAuxiliary(context.Background(), robot.BigAux, 90, 500, true)
	assert.Error(t, err)
	assert.False(t, r.Drive.GyroEnabled())
}

func TestMoveAuxiliary_NoWaitDoesNotAdvanceClock(t *testing.T) {
	c, r := newController(t)
	require.NoError(t, c.MoveAuxiliary(context.Background(), robot.SmallAux, 500, 500, false))
	assert.Equal(t, time.Duration(0), r.Clock.Now())

	require.NoError(t, c.MoveAuxiliary(context.Background(), robot.SmallAux, 500, 500, true))
	assert.Equal(t, 1, r.Motors[robot.Small].Overlaps)
}

func TestDriveCommands_BracketHeading(t *testing.T) {
	ctx := context.Background()
	c, r := newController(t)

	require.NoError(t, c.DriveDistance(ctx, -100, true))
	require.NoError(t, c.TurnInPlace(ctx, 90, true))
	require.NoError(t, c.Curve(ctx, 200, 45, false))

	assert.False(t, r.Drive.GyroEnabled())
	require.Len(t, r.Drive.Commands, 3)
	for _, cmd := range r.Drive.Commands {
		assert.True(t, cmd.Gyro, "%s should run with heading correction", cmd.Kind)
	}
	assert.Equal(t, []float64{-100}, r.Drive.Commands[0].Args)
	assert.Equal(t, sim.KindCurve, r.Drive.Commands[2].Kind)
}

func TestDriveCommands_ReleaseHeadingOnFailure(t *testing.T) {
	c, r := newController(t)
	r.Drive.FailOn = sim.KindTurn

	err := c.TurnInPlace(context.Background(), 90, true)
	assert.Error(t, err)
	assert.False(t, r.Drive.GyroEnabled())
}

func TestDriveForDuration(t *testing.T) {
	c, r := newController(t)
	toggles := r.Drive.GyroToggles

	require.NoError(t, c.DriveForDuration(context.Background(), 2*time.Second, 250))

	assert.Equal(t, 2*time.Second, r.Clock.Now())
	assert.False(t, r.Drive.Driving())
	assert.InDelta(t, 500, r.Drive.Odometer, 0.001)
	assert.Equal(t, toggles, r.Drive.GyroToggles, "timed drive runs without heading correction")
	require.Len(t, r.Drive.Commands, 2)
	assert.Equal(t, sim.KindDrive, r.Drive.Commands[0].Kind)
	assert.Equal(t, sim.KindStop, r.Drive.Commands[1].Kind)
}

// interruptedClock fails every sleep as if the caller had been cancelled.
type interruptedClock struct{ *sim.Clock }

func (interruptedClock) Sleep(ctx context.Context, d time.Duration) error {
	return context.Canceled
}

func TestDriveForDuration_StopsWhenInterrupted(t *testing.T) {
	r := sim.New()
	p := r.Platform()
	p.Clock = interruptedClock{r.Clock}
	c, err := robot.NewController(p, robot.DefaultDriveSettings(), nil)
	require.NoError(t, err)

	err = c.DriveForDuration(context.Background(), time.Second, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, r.Drive.Driving())
	assert.Equal(t, sim.KindStop, r.Drive.Commands[len(r.Drive.Commands)-1].Kind)
}

func TestCleanup(t *testing.T) {
	c, r := newController(t)
	require.NoError(t, c.Cleanup(context.Background()))

	names := robot.AllActuators()
	for i, name := range names {
		m := r.Motors[name]
		require.Len(t, m.Commands, 1, name)
		cmd := m.Commands[0]
		assert.Equal(t, 999.0, cmd.Speed)
		assert.Equal(t, 1000.0, cmd.Degrees)
		assert.Equal(t, i == len(names)-1, cmd.Wait, name)
	}
	assert.Zero(t, r.Overlaps())
}

func TestMoveAuxiliaryUntilStalled(t *testing.T) {
	c, r := newController(t)
	toggles := r.Drive.GyroToggles

	require.NoError(t, c.MoveAuxiliaryUntilStalled(context.Background(), robot.SmallAux, 500, robot.DefaultDutyLimit))

	m := r.Motors[robot.Small]
	require.Len(t, m.Commands, 1)
	assert.True(t, m.Commands[0].Stall)
	assert.Equal(t, toggles, r.Drive.GyroToggles)
}
