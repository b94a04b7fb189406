package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/console"
	"github.com/tidepool-robotics/reefrunner/pkg/missions"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

type MissionCommand struct {
	Target
	List bool `short:"l" long:"list" description:"List mission names"`
	Args struct {
		Name string `positional-arg-name:"name"`
	} `positional-args:"yes"`
}

func (c *MissionCommand) Execute(args []string) error {
	if c.List || c.Args.Name == "" {
		fmt.Println(console.SubHeaderStyle.Render("Missions"))
		for _, name := range missions.Names() {
			fmt.Println("  " + name)
		}
		if c.Args.Name == "" && !c.List {
			return errors.New("mission name required")
		}
		return nil
	}

	fn, err := missions.Lookup(strings.ToLower(c.Args.Name))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log := newLogger()

	m, err := c.connect(ctx, 0, log)
	if err != nil {
		return err
	}
	defer m.Close()

	ctl, err := robot.NewController(m.platform, m.cfg.Drive, log)
	if err != nil {
		return err
	}

	clock := m.platform.Clock
	start := clock.Now()
	if err := fn(ctx, ctl); err != nil {
		return errors.Wrapf(err, "mission %s", c.Args.Name)
	}
	fmt.Println(console.SuccessStyle.Render(
		fmt.Sprintf("%s done in %.1f seconds.", c.Args.Name, (clock.Now() - start).Seconds())))
	return nil
}
