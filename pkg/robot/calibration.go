package robot

// StepsPerRevolution is the encoder resolution of the feetech servos.
const StepsPerRevolution = 4096

// Direction is the positive rotation sense of a mounted motor.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// ActuatorCalibration holds calibration data for a single motor.
type ActuatorCalibration struct {
	ID        int       `json:"id" yaml:"id"`
	Direction Direction `json:"direction" yaml:"direction"`
	// RangeMin and RangeMax bound the raw position of an implement. Both
	// zero means the motor turns freely (drive wheels).
	RangeMin int `json:"range_min,omitempty" yaml:"range_min,omitempty"`
	RangeMax int `json:"range_max,omitempty" yaml:"range_max,omitempty"`
}

// sign returns the direction multiplier, treating an unset direction as clockwise.
func (c ActuatorCalibration) sign() int {
	if c.Direction == CounterClockwise {
		return -1
	}
	return 1
}

// Steps converts a relative angle in degrees to a relative raw step count.
func (c ActuatorCalibration) Steps(degrees float64) int {
	return int(degrees*StepsPerRevolution/360) * c.sign()
}

// Degrees converts a relative raw step count to a relative angle in degrees.
func (c ActuatorCalibration) Degrees(steps int) float64 {
	return float64(steps*c.sign()) * 360 / StepsPerRevolution
}

// IsBounded returns true if the motor has a recorded range.
func (c ActuatorCalibration) IsBounded() bool {
	return c.RangeMax > c.RangeMin
}

// Clamp limits a raw target position to the recorded range.
func (c ActuatorCalibration) Clamp(raw int) int {
	if !c.IsBounded() {
		return raw
	}
	if raw < c.RangeMin {
		return c.RangeMin
	}
	if raw > c.RangeMax {
		return c.RangeMax
	}
	return raw
}
