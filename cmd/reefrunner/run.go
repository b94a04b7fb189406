package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/battery"
	"github.com/tidepool-robotics/reefrunner/pkg/console"
	"github.com/tidepool-robotics/reefrunner/pkg/menu"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/session"
)

type RunCommand struct {
	Target
	BatteryMV int `long:"battery-mv" description:"Report a fixed battery voltage in millivolts"`
}

func (c *RunCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := newLogger()

	fmt.Println(console.HeaderStyle.Render("Reef Runner"))
	fmt.Println(console.DimStyle.Render("━━━━━━━━━━━"))

	m, err := c.connect(ctx, c.BatteryMV, log)
	if err != nil {
		return err
	}
	defer m.Close()

	ctl, err := robot.NewController(m.platform, m.cfg.Drive, log)
	if err != nil {
		return err
	}
	mon := battery.NewMonitor(m.platform.Battery, m.platform.Light, m.cfg.Battery, log)
	if _, err := mon.Check(); err != nil {
		log.WithError(err).Warn("battery check failed")
	}

	tel := session.NewTelemetry(m.platform, mon, log)
	d := session.NewDispatcher(tel, ctl, mon, log)
	d.OnResult = func(res session.Result) {
		if res.Summary == nil {
			return
		}
		fmt.Println(console.RenderSummary(res.Summary))
		fmt.Println(console.RenderRecords(tel.Records()))
		if start, ok := tel.SessionStart(); ok {
			fmt.Println(console.RenderTimeline(tel.Records(), start))
		}
	}

	nav := menu.NewNavigator(console.Prompter{}, log)
	err = nav.Serve(ctx, d)
	if errors.Is(err, context.Canceled) || errors.Is(err, huh.ErrUserAborted) {
		fmt.Println()
		fmt.Println(console.DimStyle.Render("Stopped."))
		return nil
	}
	return err
}
