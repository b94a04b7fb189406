package sim

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// DriveKind names a drivebase command.
type DriveKind string

const (
	KindStraight DriveKind = "straight"
	KindTurn     DriveKind = "turn"
	KindCurve    DriveKind = "curve"
	KindDrive    DriveKind = "drive"
	KindStop     DriveKind = "stop"
)

// DriveCommand is one command received by the simulated drivebase.
type DriveCommand struct {
	Kind DriveKind
	// Args holds distance, degrees, (radius, angle) or (speed, turnRate).
	Args []float64
	Wait bool
	Gyro bool
	At   time.Duration
}

// DriveBase is a simulated differential drivebase.
type DriveBase struct {
	Commands []DriveCommand
	Overlaps int
	// GyroToggles counts every UseGyro call.
	GyroToggles int
	// Odometer is the total distance driven in millimeters.
	Odometer float64
	// FailOn makes commands of that kind return an error.
	FailOn DriveKind

	clock     *Clock
	settings  robot.DriveSettings
	gyro      bool
	busyUntil time.Duration

	driving    bool
	driveSpeed float64
	driveStart time.Duration
}

// GyroEnabled reports whether heading correction is currently on.
func (d *DriveBase) GyroEnabled() bool {
	return d.gyro
}

// Settings returns the last applied settings.
func (d *DriveBase) Settings() robot.DriveSettings {
	return d.settings
}

func (d *DriveBase) UseGyro(enabled bool) {
	d.GyroToggles++
	d.gyro = enabled
}

func (d *DriveBase) Configure(s robot.DriveSettings) error {
	if s.WheelDiameter <= 0 || s.AxleTrack <= 0 {
		return errors.New("drivebase geometry must be positive")
	}
	d.settings = s
	return nil
}

func (d *DriveBase) issue(ctx context.Context, kind DriveKind, wait bool, args ...float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.clock.Now() < d.busyUntil {
		d.Overlaps++
	}
	d.Commands = append(d.Commands, DriveCommand{
		Kind: kind,
		Args: args,
		Wait: wait,
		Gyro: d.gyro,
		At:   d.clock.Now(),
	})
	if d.FailOn == kind {
		return errors.Errorf("simulated %s fault", kind)
	}
	return nil
}

func (d *DriveBase) move(dur time.Duration, wait bool) {
	if wait {
		d.clock.Advance(dur)
		d.busyUntil = d.clock.Now()
	} else {
		d.busyUntil = d.clock.Now() + dur
	}
}

func (d *DriveBase) Straight(ctx context.Context, distance float64, wait bool) error {
	if err := d.issue(ctx, KindStraight, wait, distance); err != nil {
		return err
	}
	d.Odometer += math.Abs(distance)
	d.move(travel(distance, d.settings.Speed), wait)
	return nil
}

func (d *DriveBase) Turn(ctx context.Context, degrees float64, wait bool) error {
	if err := d.issue(ctx, KindTurn, wait, degrees); err != nil {
		return err
	}
	d.move(travel(degrees, d.settings.TurnRate), wait)
	return nil
}

func (d *DriveBase) Curve(ctx context.Context, radius, angle float64, wait bool) error {
	if err := d.issue(ctx, KindCurve, wait, radius, angle); err != nil {
		return err
	}
	arc := math.Abs(radius * angle * math.Pi / 180)
	d.Odometer += arc
	d.move(travel(arc, d.settings.Speed), wait)
	return nil
}

func (d *DriveBase) Drive(ctx context.Context, speed, turnRate float64) error {
	if err := d.issue(ctx, KindDrive, false, speed, turnRate); err != nil {
		return err
	}
	d.driving = true
	d.driveSpeed = speed
	d.driveStart = d.clock.Now()
	return nil
}

func (d *DriveBase) Stop(ctx context.Context) error {
	if err := d.issue(ctx, KindStop, true); err != nil {
		return err
	}
	if d.driving {
		elapsed := (d.clock.Now() - d.driveStart).Seconds()
		d.Odometer += math.Abs(d.driveSpeed * elapsed)
		d.driving = false
	}
	d.busyUntil = d.clock.Now()
	return nil
}

// Driving reports whether an open-loop drive is in progress.
func (d *DriveBase) Driving() bool {
	return d.driving
}
