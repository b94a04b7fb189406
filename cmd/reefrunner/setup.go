package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/console"
	"github.com/tidepool-robotics/reefrunner/pkg/hardware"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

type SetupCommand struct {
	Config string `short:"c" long:"config" description:"Config file to write" default:"reefrunner.json"`
}

func (c *SetupCommand) Execute(args []string) error {
	ctx := context.Background()
	log := newLogger()

	fmt.Println(console.HeaderStyle.Render("Reef Runner Setup"))
	fmt.Println(console.DimStyle.Render("━━━━━━━━━━━━━━━━━"))
	fmt.Println()
	fmt.Println("Scanning for the servo bus...")

	found, err := hardware.FindBuses(ctx, log)
	if err != nil {
		return errors.Wrap(err, "list serial ports")
	}
	if len(found) == 0 {
		fmt.Println("No servo bus with four servos found.")
		fmt.Println("Make sure the robot is connected and powered on.")
		return errors.New("no robot found")
	}

	bus, err := pickBus(found)
	if err != nil {
		return err
	}

	cfg, err := robot.LoadConfigFrom(c.Config)
	if err != nil {
		cfg = robot.DefaultConfig()
	}
	cfg.Port = bus.Port
	cfg.Actuators = make(map[robot.ActuatorName]robot.ActuatorCalibration)

	// Identify each servo by wiggling it
	clock := robot.NewSystemClock()
	for _, s := range bus.Servos {
		remaining := unassigned(cfg)
		if len(remaining) == 0 {
			break
		}
		fmt.Printf("\n  Wiggling servo %d...\n", s.ID)
		if err := hardware.Wiggle(ctx, bus.Port, s, clock); err != nil {
			return errors.Wrapf(err, "wiggle servo %d", s.ID)
		}
		role, err := askRole(s.ID, remaining)
		if err != nil {
			return err
		}
		cal := robot.ActuatorCalibration{ID: s.ID, Direction: robot.Clockwise}
		if role == robot.LeftDrive {
			cal.Direction = robot.CounterClockwise
		}
		cfg.Actuators[role] = cal
	}

	if !cfg.IsConfigured() {
		return errors.New("not every actuator was assigned")
	}
	if err := cfg.SaveTo(c.Config); err != nil {
		return errors.Wrap(err, "save config")
	}

	fmt.Println()
	fmt.Println(console.DimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(console.SuccessStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", c.Config)
	fmt.Println()
	fmt.Println("Record the attachment ranges with: " + console.HeaderStyle.Render("reefrunner calibrate"))
	return nil
}

func pickBus(found []hardware.Candidate) (hardware.Candidate, error) {
	if len(found) == 1 {
		return found[0], nil
	}
	options := make([]huh.Option[int], 0, len(found))
	for i, f := range found {
		options = append(options, huh.NewOption(f.Port, i))
	}
	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which port is the robot on?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return hardware.Candidate{}, err
	}
	return found[choice], nil
}

func unassigned(cfg *robot.Config) []robot.ActuatorName {
	var out []robot.ActuatorName
	for _, name := range robot.AllActuators() {
		if _, ok := cfg.Actuators[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

var roleLabels = map[robot.ActuatorName]string{
	robot.LeftDrive:  "Left drive wheel",
	robot.RightDrive: "Right drive wheel",
	robot.Big:        "Big attachment motor",
	robot.Small:      "Small attachment motor",
}

func askRole(id int, remaining []robot.ActuatorName) (robot.ActuatorName, error) {
	options := make([]huh.Option[robot.ActuatorName], 0, len(remaining))
	for _, name := range remaining {
		options = append(options, huh.NewOption(roleLabels[name], name))
	}
	var role robot.ActuatorName
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[robot.ActuatorName]().
				Title(fmt.Sprintf("Which motor is servo %d?", id)).
				Description("The motor that just wiggled").
				Options(options...).
				Value(&role),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return role, nil
}
