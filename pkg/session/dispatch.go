package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/battery"
	"github.com/tidepool-robotics/reefrunner/pkg/menu"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/runs"
)

// Machine is the motion controller as the dispatcher uses it.
type Machine interface {
	robot.Motion
	Cleanup(ctx context.Context) error
}

// Dispatcher connects menu choices to runs, timing and battery checks.
type Dispatcher struct {
	Telemetry *Telemetry
	Machine   Machine
	Battery   *battery.Monitor
	// OnResult, when set, is called after every successful run.
	OnResult func(Result)

	log logrus.FieldLogger
}

var _ menu.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher.
func NewDispatcher(t *Telemetry, m Machine, b *battery.Monitor, log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{Telemetry: t, Machine: m, Battery: b, log: log}
}

// Run executes run number n, then rechecks the battery.
func (d *Dispatcher) Run(ctx context.Context, n int) error {
	run, err := runs.ByNumber(n)
	if err != nil {
		return err
	}
	res, err := d.Telemetry.Execute(ctx, run, d.Machine)
	if err != nil {
		return err
	}
	if d.OnResult != nil {
		d.OnResult(res)
	}
	d.checkBattery()
	return nil
}

// Cleanup spins all motors to clear debris.
func (d *Dispatcher) Cleanup(ctx context.Context) error {
	return d.Machine.Cleanup(ctx)
}

// checkBattery reports battery health. A failed reading is logged and the
// session carries on.
func (d *Dispatcher) checkBattery() {
	if d.Battery == nil {
		return
	}
	if _, err := d.Battery.Check(); err != nil {
		d.log.WithError(err).Warn("battery check failed")
	}
}
