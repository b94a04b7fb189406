package hardware

import (
	"context"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// Candidate is a serial port carrying a full set of robot servos.
type Candidate struct {
	Port   string
	Servos []feetech.FoundServo
}

// FindBuses scans every serial port for the robot's four servos.
func FindBuses(ctx context.Context, log logrus.FieldLogger) ([]Candidate, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	var found []Candidate
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		bus, err := openBus(port)
		if err != nil {
			log.WithField("port", port).Debug("skip port")
			continue
		}
		scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
		servos, err := bus.Scan(scanCtx, 1, len(robot.AllActuators()))
		cancel()
		bus.Close()
		if err != nil || !isRobotBus(servos) {
			continue
		}
		log.WithField("port", port).Info("found robot servos")
		found = append(found, Candidate{Port: port, Servos: servos})
	}
	return found, nil
}

// isRobotBus reports whether servos holds exactly the IDs 1..4.
func isRobotBus(servos []feetech.FoundServo) bool {
	n := len(robot.AllActuators())
	if len(servos) != n {
		return false
	}
	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}
	for i := 1; i <= n; i++ {
		if !ids[i] {
			return false
		}
	}
	return true
}

// Wiggle nudges one servo back and forth so the user can spot it.
func Wiggle(ctx context.Context, port string, s feetech.FoundServo, clock robot.Clock) error {
	bus, err := openBus(port)
	if err != nil {
		return err
	}
	defer bus.Close()

	servo := feetech.NewServo(bus, s.ID, s.Model)
	origin, err := servo.Position(ctx)
	if err != nil {
		return err
	}
	if err := servo.Enable(ctx); err != nil {
		return err
	}
	defer servo.Disable(ctx)

	const amount, ms = 60, 400
	for _, target := range []int{origin + amount, origin - amount, origin} {
		if err := servo.SetPositionWithTime(ctx, target, ms); err != nil {
			return err
		}
		if err := clock.Sleep(ctx, (ms+100)*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}
