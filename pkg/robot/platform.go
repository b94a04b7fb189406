package robot

import (
	"context"
	"time"
)

// Motor is a single rotary actuator.
type Motor interface {
	// RunAngle rotates the motor by degrees at speed (deg/s). With wait=false
	// the call returns once the command is dispatched.
	RunAngle(ctx context.Context, speed, degrees float64, wait bool) error

	// RunUntilStalled runs at speed until the load exceeds dutyLimit percent.
	// It returns the angle at which the motor stalled.
	RunUntilStalled(ctx context.Context, speed float64, dutyLimit int) (float64, error)
}

// DriveBase is the differential drive formed by the two wheel motors.
type DriveBase interface {
	Straight(ctx context.Context, distance float64, wait bool) error
	Turn(ctx context.Context, degrees float64, wait bool) error
	Curve(ctx context.Context, radius, angle float64, wait bool) error

	// Drive starts driving at speed (mm/s) and turnRate (deg/s) until Stop.
	Drive(ctx context.Context, speed, turnRate float64) error
	Stop(ctx context.Context) error

	UseGyro(enabled bool)
	Configure(s DriveSettings) error
}

// Display is the hub's pixel matrix.
type Display interface {
	ShowNumber(n int)
	Clear()
	PlayAnimation(frames []Matrix, frameDelay time.Duration)
}

// Light is the hub's status light.
type Light interface {
	SetLight(c Color)
}

// Battery reports the hub supply voltage.
type Battery interface {
	VoltageMillivolts() (int, error)
}

// Clock is a monotonic clock.
type Clock interface {
	// Now returns the time elapsed since the clock was created.
	Now() time.Duration
	Sleep(ctx context.Context, d time.Duration) error
}

// Matrix is one 5x5 display frame; each cell is a brightness in 0-100.
type Matrix [5][5]int

// Color is a status light color.
type Color string

const (
	ColorOff    Color = "off"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
)

// Platform bundles everything the hosting hardware provides.
type Platform struct {
	Motors  map[ActuatorName]Motor
	Drive   DriveBase
	Display Display
	Light   Light
	Battery Battery
	Clock   Clock
}

// SystemClock is a Clock backed by the runtime's monotonic time.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

func (c *SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
