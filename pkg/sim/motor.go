package sim

import (
	"context"
	"time"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// MotorCommand is one command received by a simulated motor.
type MotorCommand struct {
	Speed   float64
	Degrees float64
	Wait    bool
	Stall   bool
	// Gyro is the drivebase heading-correction state when the command arrived.
	Gyro bool
	At   time.Duration
}

// Motor is a simulated rotary actuator.
type Motor struct {
	Name     robot.ActuatorName
	Angle    float64
	Commands []MotorCommand
	Overlaps int

	// StallAfter is how far the motor can turn before hitting its end stop
	// when run until stalled. Zero means 90°.
	StallAfter float64
	// Err, when set, is returned by every command.
	Err error

	clock     *Clock
	gyro      *bool
	busyUntil time.Duration
}

func (m *Motor) record(c MotorCommand) {
	if m.clock.Now() < m.busyUntil {
		m.Overlaps++
	}
	c.Gyro = *m.gyro
	c.At = m.clock.Now()
	m.Commands = append(m.Commands, c)
}

func (m *Motor) RunAngle(ctx context.Context, speed, degrees float64, wait bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.record(MotorCommand{Speed: speed, Degrees: degrees, Wait: wait})
	if m.Err != nil {
		return m.Err
	}
	d := travel(degrees, speed)
	m.Angle += degrees
	if wait {
		m.clock.Advance(d)
		m.busyUntil = m.clock.Now()
	} else {
		m.busyUntil = m.clock.Now() + d
	}
	return nil
}

func (m *Motor) RunUntilStalled(ctx context.Context, speed float64, dutyLimit int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.record(MotorCommand{Speed: speed, Wait: true, Stall: true})
	if m.Err != nil {
		return 0, m.Err
	}
	span := m.StallAfter
	if span == 0 {
		span = 90
	}
	if speed < 0 {
		span = -span
	}
	m.clock.Advance(travel(span, speed))
	m.busyUntil = m.clock.Now()
	m.Angle += span
	return m.Angle, nil
}
