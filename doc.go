// Package reefrunner sequences a competition robot through its timed runs.
//
// The robot carries two drive wheels and two attachment motors on a feetech
// servo bus. An operator picks runs from a rotating menu. Each run drives a
// fixed script of transit moves and missions. The session is timed against
// the 150 second match budget.
//
// # Installation
//
//	go install github.com/tidepool-robotics/reefrunner/cmd/reefrunner@latest
//
// # Usage
//
// Find the servo bus and assign actuator roles:
//
//	reefrunner setup
//
// Record the attachment ranges:
//
//	reefrunner calibrate
//
// Start the run menu, or rehearse it without hardware:
//
//	reefrunner run
//	reefrunner run --sim
//
// # Packages
//
//   - cmd/reefrunner: CLI with run, mission, battery, setup and calibrate commands
//   - pkg/robot: platform capabilities, motion controller and configuration
//   - pkg/hardware: feetech servo implementation of the platform
//   - pkg/sim: simulated platform with a simulated clock
//   - pkg/battery: battery percentage and health tiers
//   - pkg/missions: mission scripts
//   - pkg/runs: the seven competition runs
//   - pkg/menu: rotating run menu
//   - pkg/session: run timing and the match summary
//   - pkg/console: terminal display, status light and reports
//   - pkg/animation: running animation frames
package reefrunner
