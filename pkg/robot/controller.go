package robot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Cleanup rotation applied to every motor to shake debris off the wheels
// and implements.
const (
	cleanSpeed   = 999.0
	cleanDegrees = 1000.0
)

// Motion is the set of motion primitives mission and run scripts use.
type Motion interface {
	MoveAuxiliary(ctx context.Context, which Aux, degrees, speed float64, wait bool) error
	MoveAuxiliaryUntilStalled(ctx context.Context, which Aux, speed float64, dutyLimit int) error
	DriveDistance(ctx context.Context, distance float64, wait bool) error
	DriveForDuration(ctx context.Context, d time.Duration, speed float64) error
	TurnInPlace(ctx context.Context, degrees float64, wait bool) error
	Curve(ctx context.Context, radius, angle float64, wait bool) error
}

var _ Motion = (*Controller)(nil)

// Controller owns the robot's motors. Nothing else addresses them directly.
// It is not safe for concurrent use.
type Controller struct {
	motors map[ActuatorName]Motor
	drive  DriveBase
	clock  Clock
	log    logrus.FieldLogger
}

// NewController configures the drivebase and returns a controller with
// heading correction disabled.
func NewController(p Platform, settings DriveSettings, log logrus.FieldLogger) (*Controller, error) {
	for _, name := range AllActuators() {
		if p.Motors[name] == nil {
			return nil, errors.Errorf("platform has no %s motor", name)
		}
	}
	if p.Drive == nil {
		return nil, errors.New("platform has no drivebase")
	}
	if p.Clock == nil {
		return nil, errors.New("platform has no clock")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	p.Drive.UseGyro(false)
	if err := p.Drive.Configure(settings); err != nil {
		return nil, errors.Wrap(err, "configure drivebase")
	}

	return &Controller{
		motors: p.Motors,
		drive:  p.Drive,
		clock:  p.Clock,
		log:    log.WithField("component", "controller"),
	}, nil
}

func (c *Controller) aux(which Aux) (Motor, error) {
	m, ok := c.motors[which.Actuator()]
	if !ok {
		return nil, errors.Errorf("unknown implement %s", which)
	}
	return m, nil
}

// MoveAuxiliary rotates an implement motor by degrees. With wait=false the
// heading correction is released as soon as the command is dispatched.
func (c *Controller) MoveAuxiliary(ctx context.Context, which Aux, degrees, speed float64, wait bool) error {
	m, err := c.aux(which)
	if err != nil {
		return err
	}
	c.log.WithField("aux", which).Debugf("move %.0f° at %.0f°/s", degrees, speed)
	return withHeading(c.drive, func() error {
		return errors.Wrapf(m.RunAngle(ctx, speed, degrees, wait), "move %s motor", which)
	})
}

// MoveAuxiliaryUntilStalled drives an implement into its end stop. Stalling
// is the expected outcome.
func (c *Controller) MoveAuxiliaryUntilStalled(ctx context.Context, which Aux, speed float64, dutyLimit int) error {
	m, err := c.aux(which)
	if err != nil {
		return err
	}
	angle, err := m.RunUntilStalled(ctx, speed, dutyLimit)
	if err != nil {
		return errors.Wrapf(err, "run %s motor to stall", which)
	}
	c.log.WithField("aux", which).Debugf("stalled at %.0f°", angle)
	return nil
}

// DriveDistance drives straight; negative distances reverse.
func (c *Controller) DriveDistance(ctx context.Context, distance float64, wait bool) error {
	c.log.Debugf("straight %.0fmm", distance)
	return withHeading(c.drive, func() error {
		return errors.Wrapf(c.drive.Straight(ctx, distance, wait), "drive %.0fmm", distance)
	})
}

// DriveForDuration drives open loop at speed for d, then stops.
func (c *Controller) DriveForDuration(ctx context.Context, d time.Duration, speed float64) (err error) {
	c.log.Debugf("drive %s at %.0fmm/s", d, speed)
	if err := c.drive.Drive(ctx, speed, 0); err != nil {
		return errors.Wrap(err, "start drive")
	}
	defer func() {
		if stopErr := c.drive.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = errors.Wrap(stopErr, "stop drive")
		}
	}()
	return c.clock.Sleep(ctx, d)
}

// TurnInPlace spins about the axle center; positive is clockwise.
func (c *Controller) TurnInPlace(ctx context.Context, degrees float64, wait bool) error {
	c.log.Debugf("turn %.0f°", degrees)
	return withHeading(c.drive, func() error {
		return errors.Wrapf(c.drive.Turn(ctx, degrees, wait), "turn %.0f°", degrees)
	})
}

// Curve drives along an arc of the given radius through angle degrees.
func (c *Controller) Curve(ctx context.Context, radius, angle float64, wait bool) error {
	c.log.Debugf("curve r=%.0fmm %.0f°", radius, angle)
	return withHeading(c.drive, func() error {
		return errors.Wrapf(c.drive.Curve(ctx, radius, angle, wait), "curve r=%.0fmm %.0f°", radius, angle)
	})
}

// Cleanup spins every motor at full speed. The first three are dispatched
// without waiting; the last one blocks so the whole set has finished when
// Cleanup returns.
func (c *Controller) Cleanup(ctx context.Context) error {
	c.log.Info("Cleaning motors")
	names := AllActuators()
	for i, name := range names {
		wait := i == len(names)-1
		if err := c.motors[name].RunAngle(ctx, cleanSpeed, cleanDegrees, wait); err != nil {
			return errors.Wrapf(err, "clean %s motor", name)
		}
	}
	return nil
}
