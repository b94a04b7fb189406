package hardware

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// SysfsBattery reads a power_supply voltage_now file, which reports
// microvolts.
type SysfsBattery struct {
	Path string
}

var _ robot.Battery = SysfsBattery{}

func (b SysfsBattery) VoltageMillivolts() (int, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return 0, errors.Wrap(err, "read battery voltage")
	}
	uv, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse battery voltage %q", b.Path)
	}
	return uv / 1000, nil
}

// StaticBattery reports a fixed voltage, for packs without a gauge.
type StaticBattery int

func (b StaticBattery) VoltageMillivolts() (int, error) {
	return int(b), nil
}

// Voltmeter reads the supply voltage at a servo in 0.1 V units.
type Voltmeter interface {
	Voltage(ctx context.Context) (int, error)
}

// ServoBattery reads the pack voltage at one servo on the bus.
type ServoBattery struct {
	servo Voltmeter
}

var _ robot.Battery = ServoBattery{}

func (b ServoBattery) VoltageMillivolts() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), busTimeout)
	defer cancel()
	dv, err := b.servo.Voltage(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "read servo voltage")
	}
	return dv * 100, nil
}

// NewBattery picks the battery source for cfg. A sysfs source wins; without
// one the voltage is read at the servo.
func NewBattery(cfg robot.BatteryConfig, bus Voltmeter) robot.Battery {
	if cfg.Source != "" {
		return SysfsBattery{Path: cfg.Source}
	}
	return ServoBattery{servo: bus}
}
