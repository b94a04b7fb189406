package main

import (
	"context"
	"fmt"
	"io"

	"github.com/tidepool-robotics/reefrunner/pkg/battery"
	"github.com/tidepool-robotics/reefrunner/pkg/console"
)

type BatteryCommand struct {
	Target
	BatteryMV int `long:"battery-mv" description:"Classify a given voltage in millivolts"`
}

func (c *BatteryCommand) Execute(args []string) error {
	log := newLogger()
	m, err := c.connect(context.Background(), c.BatteryMV, log)
	if err != nil {
		return err
	}
	defer m.Close()

	hub := console.NewHub(io.Discard)
	mon := battery.NewMonitor(m.platform.Battery, hub, m.cfg.Battery, log)
	r, err := mon.Check()
	if err != nil {
		return err
	}

	fmt.Printf("Voltage:    %d mV\n", r.Millivolts)
	fmt.Printf("Percentage: %.1f%%\n", r.Percentage)
	fmt.Printf("Status:     %s %s\n", r.Tier, console.RenderLight(hub.Light()))
	return nil
}
