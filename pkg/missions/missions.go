// Package missions contains the motion scripts for individual field
// missions. Each script assumes the start pose given in its comment; nothing
// checks it. Scripts never call each other and hold no state.
package missions

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// Mission is a single motion script.
type Mission func(ctx context.Context, m robot.Motion) error

// Boat raises the boat. Start facing the middle of the boat about 7 cm away.
func Boat(ctx context.Context, m robot.Motion) error {
	// Home the arm against its end stop first.
	if err := m.MoveAuxiliaryUntilStalled(ctx, robot.SmallAux, robot.DefaultAuxSpeed, robot.DefaultDutyLimit); err != nil {
		return err
	}
	if err := m.MoveAuxiliary(ctx, robot.SmallAux, -60, robot.DefaultAuxSpeed, true); err != nil {
		return err
	}
	if err := m.DriveDistance(ctx, 80, true); err != nil {
		return err
	}
	return m.MoveAuxiliary(ctx, robot.SmallAux, -180, robot.DefaultAuxSpeed, true)
}

// Seaweed flips the seaweed lever. Start backed up against the lever.
func Seaweed(ctx context.Context, m robot.Motion) error {
	return m.MoveAuxiliary(ctx, robot.BigAux, 45, robot.DefaultAuxSpeed, true)
}

// Whales feeds the whales. Start facing the whale tray with the arm raised.
func Whales(ctx context.Context, m robot.Motion) error {
	return sequence(ctx, m,
		aux(robot.SmallAux, -90),
		straight(-100),
		turn(-90),
		straight(100),
		turn(90),
		aux(robot.SmallAux, 180),
		straight(100),
		aux(robot.SmallAux, 90),
	)
}

// Octopus pushes the octopus out. Start facing the pusher in the middle.
func Octopus(ctx context.Context, m robot.Motion) error {
	return m.DriveDistance(ctx, -300, true)
}

// Boxes is not scripted yet.
func Boxes(ctx context.Context, m robot.Motion) error { return nil }

// CoralNursery is not scripted yet.
func CoralNursery(ctx context.Context, m robot.Motion) error { return nil }

// Shark is not scripted yet.
func Shark(ctx context.Context, m robot.Motion) error { return nil }

// CoralReef is not scripted yet.
func CoralReef(ctx context.Context, m robot.Motion) error { return nil }

// ResearchShip is not scripted yet. It will load the collected pieces into
// the research ship.
func ResearchShip(ctx context.Context, m robot.Motion) error { return nil }

// AnglerFish is not scripted yet.
func AnglerFish(ctx context.Context, m robot.Motion) error { return nil }

// Submarine is not scripted yet.
func Submarine(ctx context.Context, m robot.Motion) error { return nil }

var registry = map[string]Mission{
	"boat":          Boat,
	"seaweed":       Seaweed,
	"whales":        Whales,
	"octopus":       Octopus,
	"boxes":         Boxes,
	"coral-nursery": CoralNursery,
	"shark":         Shark,
	"coral-reef":    CoralReef,
	"research-ship": ResearchShip,
	"angler-fish":   AnglerFish,
	"submarine":     Submarine,
}

// Lookup returns the mission registered under name.
func Lookup(name string) (Mission, error) {
	mission, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown mission %q", name)
	}
	return mission, nil
}

// Names returns all mission names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type move func(ctx context.Context, m robot.Motion) error

func sequence(ctx context.Context, m robot.Motion, moves ...move) error {
	for _, mv := range moves {
		if err := mv(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func straight(distance float64) move {
	return func(ctx context.Context, m robot.Motion) error {
		return m.DriveDistance(ctx, distance, true)
	}
}

func turn(degrees float64) move {
	return func(ctx context.Context, m robot.Motion) error {
		return m.TurnInPlace(ctx, degrees, true)
	}
}

func aux(which robot.Aux, degrees float64) move {
	return func(ctx context.Context, m robot.Motion) error {
		return m.MoveAuxiliary(ctx, which, degrees, robot.DefaultAuxSpeed, true)
	}
}
