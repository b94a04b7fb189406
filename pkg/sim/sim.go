// Package sim provides an in-memory robot platform. Motion completes
// instantly and advances a simulated clock by the time the move would take,
// so whole runs can be rehearsed and timed without hardware.
package sim

import (
	"context"
	"math"
	"time"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// DefaultMillivolts is the battery voltage of a fresh simulated robot.
const DefaultMillivolts = 8000

// Robot is a simulated platform.
type Robot struct {
	Clock   *Clock
	Motors  map[robot.ActuatorName]*Motor
	Drive   *DriveBase
	Display *Display
	Light   *Light
	Battery *Battery
}

// New creates a simulated robot with all four motors.
func New() *Robot {
	clock := &Clock{}
	r := &Robot{
		Clock:   clock,
		Motors:  make(map[robot.ActuatorName]*Motor, 4),
		Display: &Display{},
		Light:   &Light{},
		Battery: &Battery{Millivolts: DefaultMillivolts},
	}
	r.Drive = &DriveBase{clock: clock, settings: robot.DefaultDriveSettings()}
	for _, name := range robot.AllActuators() {
		r.Motors[name] = &Motor{Name: name, clock: clock, gyro: &r.Drive.gyro}
	}
	return r
}

// Platform returns the robot as a capability bundle.
func (r *Robot) Platform() robot.Platform {
	motors := make(map[robot.ActuatorName]robot.Motor, len(r.Motors))
	for name, m := range r.Motors {
		motors[name] = m
	}
	return robot.Platform{
		Motors:  motors,
		Drive:   r.Drive,
		Display: r.Display,
		Light:   r.Light,
		Battery: r.Battery,
		Clock:   r.Clock,
	}
}

// Overlaps counts commands issued to an actuator that was still finishing a
// non-blocking command.
func (r *Robot) Overlaps() int {
	n := r.Drive.Overlaps
	for _, m := range r.Motors {
		n += m.Overlaps
	}
	return n
}

// Clock is a manually advanced clock.
type Clock struct {
	now time.Duration
}

func (c *Clock) Now() time.Duration {
	return c.now
}

// Sleep advances the clock by d without blocking.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// travel returns how long covering amount at rate takes.
func travel(amount, rate float64) time.Duration {
	if rate == 0 {
		return 0
	}
	return time.Duration(math.Abs(amount/rate) * float64(time.Second))
}

// Battery reports a fixed voltage.
type Battery struct {
	Millivolts int
	Err        error
}

func (b *Battery) VoltageMillivolts() (int, error) {
	if b.Err != nil {
		return 0, b.Err
	}
	return b.Millivolts, nil
}

// Light records every color it was set to.
type Light struct {
	History []robot.Color
}

func (l *Light) SetLight(c robot.Color) {
	l.History = append(l.History, c)
}

// Current returns the last color set, or off.
func (l *Light) Current() robot.Color {
	if len(l.History) == 0 {
		return robot.ColorOff
	}
	return l.History[len(l.History)-1]
}

// Display records what was shown.
type Display struct {
	Numbers    []int
	Clears     int
	Animations int
	Frames     []robot.Matrix
}

func (d *Display) ShowNumber(n int) {
	d.Numbers = append(d.Numbers, n)
}

func (d *Display) Clear() {
	d.Clears++
}

func (d *Display) PlayAnimation(frames []robot.Matrix, frameDelay time.Duration) {
	d.Animations++
	d.Frames = frames
}
