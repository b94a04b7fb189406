// Package robot provides the hardware capability interfaces and the motion
// controller that owns the drivebase and the implement motors.
package robot

import "fmt"

// ActuatorName identifies a motor on the robot.
type ActuatorName string

// Motor names, matching servo IDs 1-4.
const (
	LeftDrive  ActuatorName = "left_drive"
	RightDrive ActuatorName = "right_drive"
	Big        ActuatorName = "big"
	Small      ActuatorName = "small"
)

// AllActuators returns all actuator names in order (matching servo IDs 1-4).
func AllActuators() []ActuatorName {
	return []ActuatorName{
		LeftDrive,
		RightDrive,
		Big,
		Small,
	}
}

// Aux selects one of the two implement motors.
type Aux int

const (
	BigAux Aux = iota
	SmallAux
)

// Actuator returns the motor name backing the implement.
func (a Aux) Actuator() ActuatorName {
	switch a {
	case BigAux:
		return Big
	case SmallAux:
		return Small
	}
	return ""
}

func (a Aux) String() string {
	switch a {
	case BigAux:
		return "big"
	case SmallAux:
		return "small"
	}
	return fmt.Sprintf("aux(%d)", int(a))
}
