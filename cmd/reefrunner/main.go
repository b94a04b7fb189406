package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Verbose logging (repeat for trace)"`

	Run       RunCommand       `command:"run" description:"Start the run menu"`
	Mission   MissionCommand   `command:"mission" description:"Rehearse a single mission"`
	Battery   BatteryCommand   `command:"battery" description:"Print a battery reading"`
	Setup     SetupCommand     `command:"setup" description:"Scan for the servo bus and assign actuator roles"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Record the attachment motor ranges"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "reefrunner - competition run sequencer for the reef robot"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch len(opts.Verbose) {
	case 0:
		log.SetLevel(logrus.InfoLevel)
	case 1:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.TraceLevel)
	}
	return log
}
