// Package hardware drives the robot from feetech servos on a serial bus.
package hardware

import (
	"context"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

const (
	baudRate    = 1_000_000
	busTimeout  = 100 * time.Millisecond
	scanTimeout = 2 * time.Second
)

// Robot is a connected servo bus with its motors, drivebase and battery.
type Robot struct {
	bus     *feetech.Bus
	servos  map[robot.ActuatorName]*feetech.Servo
	Motors  map[robot.ActuatorName]robot.Motor
	Drive   *DriveBase
	Battery robot.Battery
}

func openBus(port string) (*feetech.Bus, error) {
	return feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  busTimeout,
	})
}

// Open connects to the servos named in cfg and enables their torque.
func Open(ctx context.Context, cfg *robot.Config, clock robot.Clock, log logrus.FieldLogger) (*Robot, error) {
	if !cfg.IsConfigured() {
		return nil, errors.New("robot not configured, run setup first")
	}
	bus, err := openBus(cfg.Port)
	if err != nil {
		return nil, errors.Wrapf(err, "open bus %s", cfg.Port)
	}

	scanCtx, cancel := context.WithTimeout(ctx, scanTimeout)
	found, err := bus.Scan(scanCtx, 1, maxServoID(cfg))
	cancel()
	if err != nil {
		bus.Close()
		return nil, errors.Wrap(err, "scan bus")
	}
	models := make(map[int]feetech.FoundServo, len(found))
	for _, s := range found {
		models[s.ID] = s
	}

	r := &Robot{
		bus:    bus,
		servos: make(map[robot.ActuatorName]*feetech.Servo),
		Motors: make(map[robot.ActuatorName]robot.Motor),
	}
	motors := make(map[robot.ActuatorName]*Motor)
	for _, name := range robot.AllActuators() {
		cal := cfg.Actuators[name]
		fs, ok := models[cal.ID]
		if !ok {
			r.Close()
			return nil, errors.Errorf("%s servo (id %d) not found on %s", name, cal.ID, cfg.Port)
		}
		s := feetech.NewServo(bus, fs.ID, fs.Model)
		if err := s.Enable(ctx); err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "enable %s", name)
		}
		r.servos[name] = s
		motors[name] = newMotor(name, s, cal, clock)
		r.Motors[name] = motors[name]
		log.WithFields(logrus.Fields{"actuator": name, "id": fs.ID}).Debug("servo ready")
	}
	r.Drive = newDriveBase(motors[robot.LeftDrive], motors[robot.RightDrive], log)
	r.Battery = NewBattery(cfg.Battery, r.servos[robot.LeftDrive])
	return r, nil
}

func maxServoID(cfg *robot.Config) int {
	hi := 1
	for _, c := range cfg.Actuators {
		if c.ID > hi {
			hi = c.ID
		}
	}
	return hi
}

// Platform assembles the capability set around the servo motors.
func (r *Robot) Platform(display robot.Display, light robot.Light, battery robot.Battery, clock robot.Clock) robot.Platform {
	return robot.Platform{
		Motors:  r.Motors,
		Drive:   r.Drive,
		Display: display,
		Light:   light,
		Battery: battery,
		Clock:   clock,
	}
}

// Relax disables torque so the actuators can be moved by hand.
func (r *Robot) Relax(ctx context.Context) error {
	for name, s := range r.servos {
		if err := s.Disable(ctx); err != nil {
			return errors.Wrapf(err, "disable %s", name)
		}
	}
	return nil
}

// RawPositions reads the raw step position of every actuator.
func (r *Robot) RawPositions(ctx context.Context) (map[robot.ActuatorName]int, error) {
	out := make(map[robot.ActuatorName]int, len(r.servos))
	for name, s := range r.servos {
		pos, err := s.Position(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", name)
		}
		out[name] = pos
	}
	return out, nil
}

// Close releases torque and closes the bus.
func (r *Robot) Close() error {
	ctx := context.Background()
	if r.Drive != nil {
		r.Drive.Stop(ctx)
	}
	for _, s := range r.servos {
		s.Disable(ctx)
	}
	return r.bus.Close()
}
