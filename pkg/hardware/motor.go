package hardware

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// Stall detection tuning.
const (
	stallTick    = 20 * time.Millisecond
	stallSamples = 3
	stallTimeout = 10 * time.Second
)

// servo is the part of a feetech servo the motors use.
type servo interface {
	Position(ctx context.Context) (int, error)
	SetPosition(ctx context.Context, position int) error
	SetPositionWithTime(ctx context.Context, position, timeMs int) error
	// Load reports the present load in 0.1% units, signed by direction.
	Load(ctx context.Context) (int, error)
}

// Motor drives one servo in position mode.
type Motor struct {
	name  robot.ActuatorName
	servo servo
	cal   robot.ActuatorCalibration
	clock robot.Clock
}

var _ robot.Motor = (*Motor)(nil)

func newMotor(name robot.ActuatorName, s servo, cal robot.ActuatorCalibration, clock robot.Clock) *Motor {
	return &Motor{name: name, servo: s, cal: cal, clock: clock}
}

// moveTime returns how long turning degrees at speed (deg/s) takes.
func moveTime(degrees, speed float64) time.Duration {
	if speed == 0 {
		return 0
	}
	return time.Duration(math.Abs(degrees/speed) * float64(time.Second))
}

func (m *Motor) RunAngle(ctx context.Context, speed, degrees float64, wait bool) error {
	pos, err := m.servo.Position(ctx)
	if err != nil {
		return errors.Wrapf(err, "read %s position", m.name)
	}
	target := m.cal.Clamp(pos + m.cal.Steps(degrees))
	dur := moveTime(degrees, speed)
	if err := m.servo.SetPositionWithTime(ctx, target, int(dur.Milliseconds())); err != nil {
		return errors.Wrapf(err, "move %s", m.name)
	}
	if !wait {
		return nil
	}
	return m.clock.Sleep(ctx, dur)
}

// RunUntilStalled steps the servo toward its end stop. The motor counts as
// stalled once its load exceeds dutyLimit percent for several ticks in a
// row. A servo that stops moving without reporting load (less than
// (100-dutyLimit)% of each commanded step) counts as stalled too. It then
// holds where it stopped.
func (m *Motor) RunUntilStalled(ctx context.Context, speed float64, dutyLimit int) (float64, error) {
	start, err := m.servo.Position(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s position", m.name)
	}
	step := m.cal.Steps(speed * stallTick.Seconds())
	if step == 0 {
		return 0, errors.Errorf("%s: speed %.0f too low to detect a stall", m.name, speed)
	}
	duty := clampDuty(dutyLimit)
	need := abs(step) * (100 - duty) / 100
	maxLoad := duty * 10

	pos, slow, loaded := start, 0, 0
	deadline := m.clock.Now() + stallTimeout
	for m.clock.Now() < deadline {
		if err := m.servo.SetPosition(ctx, pos+step); err != nil {
			return 0, errors.Wrapf(err, "step %s", m.name)
		}
		if err := m.clock.Sleep(ctx, stallTick); err != nil {
			return 0, err
		}
		next, err := m.servo.Position(ctx)
		if err != nil {
			return 0, errors.Wrapf(err, "read %s position", m.name)
		}
		load, err := m.servo.Load(ctx)
		if err != nil {
			return 0, errors.Wrapf(err, "read %s load", m.name)
		}
		slow = count(slow, abs(next-pos) < need)
		loaded = count(loaded, abs(load) > maxLoad)
		pos = next
		if slow >= stallSamples || loaded >= stallSamples {
			if err := m.servo.SetPosition(ctx, pos); err != nil {
				return 0, errors.Wrapf(err, "hold %s", m.name)
			}
			return m.cal.Degrees(pos - start), nil
		}
	}
	return 0, errors.Errorf("%s did not stall within %s", m.name, stallTimeout)
}

// count extends a run of consecutive hits, or resets it.
func count(run int, hit bool) int {
	if hit {
		return run + 1
	}
	return 0
}

func clampDuty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 99 {
		return 99
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
