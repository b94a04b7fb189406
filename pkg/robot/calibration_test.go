package robot

import (
	"math"
	"testing"
)

func TestActuatorCalibration_Steps(t *testing.T) {
	cw := ActuatorCalibration{Direction: Clockwise}
	ccw := ActuatorCalibration{Direction: CounterClockwise}

	tests := []struct {
		cal      ActuatorCalibration
		degrees  float64
		expected int
	}{
		{cw, 360, 4096},
		{cw, 90, 1024},
		{cw, -45, -512},
		{ccw, 90, -1024},
		{ccw, -180, 2048},
		{ActuatorCalibration{}, 90, 1024}, // unset direction is clockwise
	}

	for _, tt := range tests {
		got := tt.cal.Steps(tt.degrees)
		if got != tt.expected {
			t.Errorf("Steps(%v) with direction %d = %d, want %d", tt.degrees, tt.cal.Direction, got, tt.expected)
		}
	}
}

func TestActuatorCalibration_RoundTrip(t *testing.T) {
	for _, cal := range []ActuatorCalibration{{Direction: Clockwise}, {Direction: CounterClockwise}} {
		for deg := -720.0; deg <= 720; deg += 45 {
			back := cal.Degrees(cal.Steps(deg))
			if math.Abs(back-deg) > 0.1 {
				t.Errorf("Round-trip failed: %v -> %d -> %v", deg, cal.Steps(deg), back)
			}
		}
	}
}

func TestActuatorCalibration_Clamp(t *testing.T) {
	cal := ActuatorCalibration{RangeMin: 1000, RangeMax: 3000}

	tests := []struct {
		raw      int
		expected int
	}{
		{500, 1000},
		{1000, 1000},
		{2000, 2000},
		{3000, 3000},
		{9000, 3000},
	}

	for _, tt := range tests {
		if got := cal.Clamp(tt.raw); got != tt.expected {
			t.Errorf("Clamp(%d) = %d, want %d", tt.raw, got, tt.expected)
		}
	}

	free := ActuatorCalibration{}
	if free.IsBounded() {
		t.Error("zero range should be unbounded")
	}
	if got := free.Clamp(-5000); got != -5000 {
		t.Errorf("unbounded Clamp(-5000) = %d", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	for i, name := range AllActuators() {
		cal, ok := cfg.Actuators[name]
		if !ok {
			t.Fatalf("missing actuator %s", name)
		}
		if cal.ID != i+1 {
			t.Errorf("%s ID = %d, want %d", name, cal.ID, i+1)
		}
	}
	if cfg.Actuators[LeftDrive].Direction != CounterClockwise {
		t.Error("left drive should be counter-clockwise")
	}
	if cfg.Drive.WheelDiameter != 56 || cfg.Drive.AxleTrack != 105 {
		t.Errorf("unexpected geometry %+v", cfg.Drive)
	}
	if cfg.IsConfigured() {
		t.Error("default config has no port and should not count as configured")
	}
}
