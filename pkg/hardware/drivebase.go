package hardware

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// driveTick is the update period of open-loop driving.
const driveTick = 20 * time.Millisecond

// DriveBase is a differential drive built from two wheel servos.
type DriveBase struct {
	left, right *Motor
	log         logrus.FieldLogger

	settings robot.DriveSettings
	gyro     bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan error
	driving bool
}

var _ robot.DriveBase = (*DriveBase)(nil)

func newDriveBase(left, right *Motor, log logrus.FieldLogger) *DriveBase {
	return &DriveBase{
		left:     left,
		right:    right,
		log:      log,
		settings: robot.DefaultDriveSettings(),
	}
}

// wheelDegrees converts a wheel travel in millimeters to wheel rotation.
func (d *DriveBase) wheelDegrees(mm float64) float64 {
	return mm / (math.Pi * d.settings.WheelDiameter) * 360
}

// move turns both wheels so that they finish together.
func (d *DriveBase) move(ctx context.Context, leftDeg, rightDeg float64, dur time.Duration, wait bool) error {
	if dur <= 0 {
		return nil
	}
	secs := dur.Seconds()
	if err := d.left.RunAngle(ctx, math.Abs(leftDeg)/secs, leftDeg, false); err != nil {
		return err
	}
	return d.right.RunAngle(ctx, math.Abs(rightDeg)/secs, rightDeg, wait)
}

func (d *DriveBase) Straight(ctx context.Context, distance float64, wait bool) error {
	deg := d.wheelDegrees(distance)
	return d.move(ctx, deg, deg, moveTime(distance, d.settings.Speed), wait)
}

func (d *DriveBase) Turn(ctx context.Context, degrees float64, wait bool) error {
	arc := math.Pi * d.settings.AxleTrack * degrees / 360
	deg := d.wheelDegrees(arc)
	return d.move(ctx, deg, -deg, moveTime(degrees, d.settings.TurnRate), wait)
}

func (d *DriveBase) Curve(ctx context.Context, radius, angle float64, wait bool) error {
	rad := angle * math.Pi / 180
	half := d.settings.AxleTrack / 2
	left := d.wheelDegrees((radius + half) * rad)
	right := d.wheelDegrees((radius - half) * rad)
	return d.move(ctx, left, right, moveTime(radius*rad, d.settings.Speed), wait)
}

// Drive steps both wheels from a background goroutine until Stop.
func (d *DriveBase) Drive(ctx context.Context, speed, turnRate float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.driving {
		return errors.New("drivebase already driving")
	}

	// Positions are read once; after that the loop advances its own targets.
	lpos, err := d.left.servo.Position(ctx)
	if err != nil {
		return errors.Wrap(err, "read left wheel")
	}
	rpos, err := d.right.servo.Position(ctx)
	if err != nil {
		return errors.Wrap(err, "read right wheel")
	}

	dt := driveTick.Seconds()
	spin := turnRate * math.Pi / 180 * d.settings.AxleTrack / 2
	lstep := d.left.cal.Steps(d.wheelDegrees((speed + spin) * dt))
	rstep := d.right.cal.Steps(d.wheelDegrees((speed - spin) * dt))

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan error, 1)
	d.driving = true

	go func() {
		d.done <- d.driveLoop(loopCtx, lpos, rpos, lstep, rstep)
	}()
	return nil
}

func (d *DriveBase) driveLoop(ctx context.Context, lpos, rpos, lstep, rstep int) error {
	ticker := time.NewTicker(driveTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			lpos += lstep
			rpos += rstep
			if err := d.left.servo.SetPosition(ctx, lpos); err != nil {
				return errors.Wrap(err, "step left wheel")
			}
			if err := d.right.servo.SetPosition(ctx, rpos); err != nil {
				return errors.Wrap(err, "step right wheel")
			}
		}
	}
}

// Stop ends open-loop driving and holds the wheels where they are.
func (d *DriveBase) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.driving {
		return nil
	}
	d.cancel()
	err := <-d.done
	d.driving = false

	for _, m := range []*Motor{d.left, d.right} {
		pos, perr := m.servo.Position(ctx)
		if perr == nil {
			perr = m.servo.SetPosition(ctx, pos)
		}
		if perr != nil && err == nil {
			err = errors.Wrapf(perr, "hold %s", m.name)
		}
	}
	return err
}

// UseGyro records the heading-correction state. The servo bus carries no
// IMU, so straight moves rely on matched wheel timing alone.
func (d *DriveBase) UseGyro(enabled bool) {
	d.gyro = enabled
	d.log.WithField("gyro", enabled).Debug("heading correction")
}

func (d *DriveBase) Configure(s robot.DriveSettings) error {
	if s.WheelDiameter <= 0 || s.AxleTrack <= 0 {
		return errors.New("drivebase geometry must be positive")
	}
	if s.Speed <= 0 || s.TurnRate <= 0 {
		return errors.New("drivebase speeds must be positive")
	}
	d.settings = s
	return nil
}
