// Package battery turns the hub's supply voltage into a percentage and a
// health tier that drives the status light.
package battery

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// Tier thresholds in percent.
const (
	NormalThreshold = 70
	LowThreshold    = 40
)

// Tier is a battery health tier.
type Tier int

const (
	Normal Tier = iota
	Low
	Critical
)

func (t Tier) String() string {
	switch t {
	case Normal:
		return "normal"
	case Low:
		return "low"
	case Critical:
		return "critical"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Color returns the status light color for the tier.
func (t Tier) Color() robot.Color {
	switch t {
	case Low:
		return robot.ColorYellow
	case Critical:
		return robot.ColorRed
	}
	return robot.ColorGreen
}

// Reading is one battery measurement.
type Reading struct {
	Millivolts int
	Percentage float64
	Tier       Tier
}

// Rescale maps |value| from [inMin, inMax] onto [outMin, outMax], clamping
// at both ends, and keeps the sign of value. Zero counts as positive.
func Rescale(value, inMin, inMax, outMin, outMax float64) float64 {
	sign := 1.0
	if value < 0 {
		sign = -1
	}
	magnitude := math.Min(math.Max(math.Abs(value), inMin), inMax)
	scaled := (magnitude - inMin) * outMax / (inMax - inMin)
	scaled = math.Min(math.Max(scaled, outMin), outMax)
	return scaled * sign
}

// Classify returns the tier for a percentage.
func Classify(percentage float64) Tier {
	switch {
	case percentage >= NormalThreshold:
		return Normal
	case percentage >= LowThreshold:
		return Low
	default:
		return Critical
	}
}

// Monitor reads the battery and keeps the status light in step with the
// most recent tier.
type Monitor struct {
	battery robot.Battery
	light   robot.Light
	low     int
	high    int
	log     logrus.FieldLogger

	status robot.Color
}

// NewMonitor creates a monitor for the given calibration bounds. The status
// color is green until the first check.
func NewMonitor(b robot.Battery, light robot.Light, cfg robot.BatteryConfig, log logrus.FieldLogger) *Monitor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.HighMillivolts <= cfg.LowMillivolts {
		cfg.LowMillivolts, cfg.HighMillivolts = robot.LowVoltage, robot.HighVoltage
	}
	return &Monitor{
		battery: b,
		light:   light,
		low:     cfg.LowMillivolts,
		high:    cfg.HighMillivolts,
		log:     log.WithField("component", "battery"),
		status:  Normal.Color(),
	}
}

// Read measures the battery without touching the light.
func (m *Monitor) Read() (Reading, error) {
	mv, err := m.battery.VoltageMillivolts()
	if err != nil {
		return Reading{}, errors.Wrap(err, "read battery voltage")
	}
	pct := Rescale(float64(mv), float64(m.low), float64(m.high), 1, 100)
	return Reading{Millivolts: mv, Percentage: pct, Tier: Classify(pct)}, nil
}

// Check measures the battery, reports it, and sets the status light to the
// tier color.
func (m *Monitor) Check() (Reading, error) {
	r, err := m.Read()
	if err != nil {
		return r, err
	}

	log := m.log.WithFields(logrus.Fields{"mv": r.Millivolts, "tier": r.Tier})
	log.Infof("Battery %%: %.1f, Voltage: %d", r.Percentage, r.Millivolts)
	switch r.Tier {
	case Critical:
		log.Error("EMERGENCY: BATTERY LOW!")
	case Low:
		log.Warn("Battery is below 70% Please charge!")
	}

	m.status = r.Tier.Color()
	if m.light != nil {
		m.light.SetLight(m.status)
	}
	return r, nil
}

// StatusColor returns the color of the most recent tier.
func (m *Monitor) StatusColor() robot.Color {
	return m.status
}
