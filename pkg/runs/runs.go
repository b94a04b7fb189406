// Package runs defines the seven runs selectable from the menu. A run is an
// ordered list of steps, each either a transit move or a mission.
package runs

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/missions"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// Pose is a launch area on the field.
type Pose string

const (
	Home Pose = "home"
	Away Pose = "away"
)

// Step is one entry of a run.
type Step struct {
	Name string
	// Mission is true when the step invokes a mission script.
	Mission bool
	Do      func(ctx context.Context, m robot.Motion) error
}

// Run is a scripted sequence started from the menu.
type Run struct {
	Number int
	Start  Pose
	End    Pose
	// Terminal marks the last run, which closes out session timing.
	Terminal bool
	Steps    []Step
}

func (r Run) String() string {
	return fmt.Sprintf("run %d", r.Number)
}

// Missions returns the names of the missions the run invokes.
func (r Run) Missions() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Mission {
			names = append(names, s.Name)
		}
	}
	return names
}

// Execute performs every step in order and stops at the first error.
func (r Run) Execute(ctx context.Context, m robot.Motion, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("run", r.Number)
	for i, s := range r.Steps {
		log.WithField("step", i+1).Debug(s.Name)
		if err := s.Do(ctx, m); err != nil {
			return errors.Wrapf(err, "%s step %d (%s)", r, i+1, s.Name)
		}
	}
	return nil
}

// All returns runs 1 through 7 in order.
func All() []Run {
	return []Run{run1(), run2(), run3(), run4(), run5(), run6(), run7()}
}

// ByNumber returns the run numbered n.
func ByNumber(n int) (Run, error) {
	for _, r := range All() {
		if r.Number == n {
			return r, nil
		}
	}
	return Run{}, errors.Errorf("no run %d", n)
}

func run1() Run {
	return Run{
		Number: 1,
		Start:  Home,
		End:    Home,
		Steps: []Step{
			straight(350),
			turn(45),
			mission("boat", missions.Boat),
			straight(-50),
			aux(robot.SmallAux, 90),
			turn(-45),
			straight(300),
			turn(-90),
			straight(-80),
			mission("seaweed", missions.Seaweed),
			straight(50),
			turn(-90),
			straight(700),
		},
	}
}

func run2() Run {
	return Run{
		Number: 2,
		Start:  Home,
		End:    Home,
		Steps: []Step{
			straight(1000),
			turn(180),
			mission("whales", missions.Whales),
			straight(50),
			turn(-90),
			straight(100),
			turn(90),
			straight(200),
			turn(-45),
			mission("octopus", missions.Octopus),
			straight(300),
		},
	}
}

func run3() Run {
	return Run{
		Number: 3,
		Start:  Home,
		End:    Away,
		Steps: []Step{
			mission("boxes", missions.Boxes),
		},
	}
}

func run4() Run {
	return Run{
		Number: 4,
		Start:  Away,
		End:    Away,
		Steps: []Step{
			mission("shark", missions.Shark),
			mission("coral-nursery", missions.CoralNursery),
		},
	}
}

func run5() Run {
	return Run{
		Number: 5,
		Start:  Away,
		End:    Away,
		Steps: []Step{
			mission("coral-reef", missions.CoralReef),
		},
	}
}

func run6() Run {
	return Run{
		Number: 6,
		Start:  Away,
		End:    Home,
		Steps: []Step{
			mission("research-ship", missions.ResearchShip),
		},
	}
}

func run7() Run {
	return Run{
		Number:   7,
		Start:    Home,
		End:      Home,
		Terminal: true,
		Steps: []Step{
			mission("angler-fish", missions.AnglerFish),
			mission("submarine", missions.Submarine),
		},
	}
}

func mission(name string, fn missions.Mission) Step {
	return Step{Name: name, Mission: true, Do: fn}
}

func straight(distance float64) Step {
	return Step{
		Name: fmt.Sprintf("straight %.0fmm", distance),
		Do: func(ctx context.Context, m robot.Motion) error {
			return m.DriveDistance(ctx, distance, true)
		},
	}
}

func turn(degrees float64) Step {
	return Step{
		Name: fmt.Sprintf("turn %.0f°", degrees),
		Do: func(ctx context.Context, m robot.Motion) error {
			return m.TurnInPlace(ctx, degrees, true)
		},
	}
}

func aux(which robot.Aux, degrees float64) Step {
	return Step{
		Name: fmt.Sprintf("%s arm %.0f°", which, degrees),
		Do: func(ctx context.Context, m robot.Motion) error {
			return m.MoveAuxiliary(ctx, which, degrees, robot.DefaultAuxSpeed, true)
		},
	}
}
