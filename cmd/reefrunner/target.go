package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/console"
	"github.com/tidepool-robotics/reefrunner/pkg/hardware"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/sim"
)

// Target selects the robot a command drives.
type Target struct {
	Sim    bool   `long:"sim" description:"Use the simulated robot with simulated time"`
	Config string `short:"c" long:"config" description:"Config file (.json, .yaml)" default:"reefrunner.json"`
}

// machine is a connected platform and its configuration.
type machine struct {
	cfg      *robot.Config
	platform robot.Platform
	hw       *hardware.Robot
}

func (m *machine) Close() error {
	if m.hw == nil {
		return nil
	}
	return m.hw.Close()
}

// loadConfig reads the config file. The simulator runs on defaults when the
// file does not exist.
func (t Target) loadConfig() (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(t.Config)
	if err == nil {
		return cfg, nil
	}
	if t.Sim && errors.Is(err, os.ErrNotExist) {
		return robot.DefaultConfig(), nil
	}
	return nil, err
}

// battery returns a fixed voltage when mv is set, or the simulated pack. Nil
// leaves the reading to the connected robot.
func (t Target) battery(mv int) robot.Battery {
	switch {
	case mv > 0:
		return hardware.StaticBattery(mv)
	case t.Sim:
		return &sim.Battery{Millivolts: sim.DefaultMillivolts}
	}
	return nil
}

// connect builds the platform. The terminal stands in for the hub's display
// and status light in both modes.
func (t Target) connect(ctx context.Context, mv int, log logrus.FieldLogger) (*machine, error) {
	cfg, err := t.loadConfig()
	if err != nil {
		return nil, err
	}
	hub := console.NewHub(os.Stdout)
	bat := t.battery(mv)

	if t.Sim {
		r := sim.New()
		p := r.Platform()
		p.Display = hub
		p.Light = hub
		p.Battery = bat
		log.Info("using simulated robot")
		return &machine{cfg: cfg, platform: p}, nil
	}

	clock := robot.NewSystemClock()
	hw, err := hardware.Open(ctx, cfg, clock, log)
	if err != nil {
		return nil, err
	}
	if bat == nil {
		bat = hw.Battery
	}
	return &machine{cfg: cfg, platform: hw.Platform(hub, hub, bat, clock), hw: hw}, nil
}
