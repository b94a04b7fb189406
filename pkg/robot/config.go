package robot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "reefrunner.json"

// Drivebase geometry and motion defaults.
const (
	DefaultWheelDiameter    = 56.0
	DefaultAxleTrack        = 105.0
	DefaultSpeed            = 500.0
	DefaultAcceleration     = 500.0
	DefaultTurnRate         = 500.0
	DefaultTurnAcceleration = 500.0
)

// Defaults used by the mission scripts for implement moves.
const (
	DefaultAuxSpeed  = 500.0
	DefaultDutyLimit = 50
)

// Battery calibration bounds in millivolts.
const (
	LowVoltage  = 7000
	HighVoltage = 8000
)

// Config holds the robot configuration
type Config struct {
	Port      string                               `json:"port" yaml:"port"`
	Actuators map[ActuatorName]ActuatorCalibration `json:"actuators,omitempty" yaml:"actuators,omitempty"`
	Drive     DriveSettings                        `json:"drive" yaml:"drive"`
	Battery   BatteryConfig                        `json:"battery" yaml:"battery"`
}

// DriveSettings holds the drivebase geometry and motion limits.
type DriveSettings struct {
	WheelDiameter    float64 `json:"wheel_diameter" yaml:"wheel_diameter"`
	AxleTrack        float64 `json:"axle_track" yaml:"axle_track"`
	Speed            float64 `json:"speed" yaml:"speed"`
	Acceleration     float64 `json:"acceleration" yaml:"acceleration"`
	TurnRate         float64 `json:"turn_rate" yaml:"turn_rate"`
	TurnAcceleration float64 `json:"turn_acceleration" yaml:"turn_acceleration"`
}

// BatteryConfig holds the voltage bounds mapped onto 1-100%.
type BatteryConfig struct {
	LowMillivolts  int `json:"low_mv" yaml:"low_mv"`
	HighMillivolts int `json:"high_mv" yaml:"high_mv"`
	// Source is a sysfs power_supply voltage file (microvolts).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// DefaultConfig returns a configuration with the competition defaults and
// servo IDs 1-4 in AllActuators order. The left drive is mounted mirrored.
func DefaultConfig() *Config {
	actuators := make(map[ActuatorName]ActuatorCalibration, 4)
	for i, name := range AllActuators() {
		actuators[name] = ActuatorCalibration{ID: i + 1, Direction: Clockwise}
	}
	left := actuators[LeftDrive]
	left.Direction = CounterClockwise
	actuators[LeftDrive] = left

	return &Config{
		Actuators: actuators,
		Drive:     DefaultDriveSettings(),
		Battery: BatteryConfig{
			LowMillivolts:  LowVoltage,
			HighMillivolts: HighVoltage,
		},
	}
}

// DefaultDriveSettings returns the drivebase defaults.
func DefaultDriveSettings() DriveSettings {
	return DriveSettings{
		WheelDiameter:    DefaultWheelDiameter,
		AxleTrack:        DefaultAxleTrack,
		Speed:            DefaultSpeed,
		Acceleration:     DefaultAcceleration,
		TurnRate:         DefaultTurnRate,
		TurnAcceleration: DefaultTurnAcceleration,
	}
}

// IsConfigured returns true if the port and every actuator are set.
func (c *Config) IsConfigured() bool {
	if c.Port == "" {
		return false
	}
	for _, name := range AllActuators() {
		if _, ok := c.Actuators[name]; !ok {
			return false
		}
	}
	return true
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON. Fields missing
// from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
