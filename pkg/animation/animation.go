// Package animation holds the frames shown on the hub display.
package animation

import (
	"time"

	"github.com/tidepool-robotics/reefrunner/pkg/robot"
)

// FrameDelay is the time each frame of Running is shown.
const FrameDelay = 30 * time.Millisecond

// Running is a spinning ring shown while a run executes.
var Running = []robot.Matrix{
	{
		{0, 0, 100, 100, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 100, 100, 0, 0},
	}, {
		{100, 0, 0, 100, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 100, 0, 0, 100},
	}, {
		{100, 100, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 100, 100},
	}, {
		{100, 100, 100, 0, 0},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{0, 0, 100, 100, 100},
	}, {
		{100, 100, 100, 100, 0},
		{100, 0, 0, 0, 0},
		{100, 0, 0, 0, 100},
		{0, 0, 0, 0, 100},
		{0, 100, 100, 100, 100},
	}, {
		{100, 100, 100, 100, 100},
		{100, 0, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 100},
		{100, 100, 100, 100, 100},
	}, {
		{100, 100, 100, 100, 100},
		{0, 0, 0, 0, 100},
		{0, 0, 0, 0, 0},
		{100, 0, 0, 0, 0},
		{100, 100, 100, 100, 100},
	}, {
		{0, 100, 100, 100, 100},
		{0, 0, 0, 0, 100},
		{100, 0, 0, 0, 100},
		{100, 0, 0, 0, 0},
		{100, 100, 100, 100, 0},
	},
}
