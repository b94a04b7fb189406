// Package session times runs and tracks the whole-match time budget across
// one power-on session.
package session

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tidepool-robotics/reefrunner/pkg/animation"
	"github.com/tidepool-robotics/reefrunner/pkg/robot"
	"github.com/tidepool-robotics/reefrunner/pkg/runs"
)

// Budget is the competition match length.
const Budget = 150 * time.Second

// BusyColor is shown on the status light while a run executes.
const BusyColor = robot.ColorYellow

// StatusSource supplies the color the status light returns to after a run.
type StatusSource interface {
	StatusColor() robot.Color
}

// Record is the timing of one run invocation.
type Record struct {
	Run     int
	Started time.Duration
	Elapsed time.Duration
	Err     error
}

// Summary is the session total computed when the terminal run completes.
type Summary struct {
	// Incomplete is set when run 1 never started this session.
	Incomplete bool
	Total      time.Duration
	// Active is the sum of the recorded run times since run 1 started.
	Active  time.Duration
	Percent float64
	Overage time.Duration
}

// Result is returned by Execute.
type Result struct {
	Record  Record
	Summary *Summary
}

// Telemetry owns the session timing state. It is not safe for concurrent use.
type Telemetry struct {
	ID      string
	clock   robot.Clock
	light   robot.Light
	display robot.Display
	status  StatusSource
	log     logrus.FieldLogger

	started bool
	start   time.Duration
	records []Record
}

// NewTelemetry starts a new session.
func NewTelemetry(p robot.Platform, status StatusSource, log logrus.FieldLogger) *Telemetry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	id := uuid.NewString()
	return &Telemetry{
		ID:      id,
		clock:   p.Clock,
		light:   p.Light,
		display: p.Display,
		status:  status,
		log:     log.WithField("session", id[:8]),
	}
}

// SessionStart returns when run 1 first started, if it has.
func (t *Telemetry) SessionStart() (time.Duration, bool) {
	return t.start, t.started
}

// Records returns the timing of every run so far, in order.
func (t *Telemetry) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Execute runs one menu run with busy feedback and timing. The light is
// restored to the status color on every exit path.
func (t *Telemetry) Execute(ctx context.Context, run runs.Run, m robot.Motion) (Result, error) {
	log := t.log.WithField("run", run.Number)

	t.setLight(BusyColor)
	defer func() { t.setLight(t.restoreColor()) }()
	if t.display != nil {
		t.display.PlayAnimation(animation.Running, animation.FrameDelay)
	}

	log.Infof("Running #%d...", run.Number)
	began := t.clock.Now()
	if run.Number == 1 && !t.started {
		t.started = true
		t.start = began
	}

	err := run.Execute(ctx, m, log)
	rec := Record{Run: run.Number, Started: began, Elapsed: t.clock.Now() - began, Err: err}
	t.records = append(t.records, rec)
	if err != nil {
		log.WithError(err).Error("run failed")
		return Result{Record: rec}, err
	}

	if t.display != nil {
		t.display.Clear()
		t.display.ShowNumber(run.Number)
	}
	res := Result{Record: rec}
	if run.Terminal {
		res.Summary = t.Finalize()
	}
	log.Infof("Done running #%d. Time: %.1f seconds.", run.Number, seconds(rec.Elapsed))
	return res, nil
}

// Finalize computes the whole-session total from run 1's start to now. A
// session without run 1 yields an incomplete summary, not an error.
func (t *Telemetry) Finalize() *Summary {
	t.log.Info("All missions complete.")
	if !t.started {
		t.log.Warn("You didn't run everything.")
		return &Summary{Incomplete: true}
	}

	s := &Summary{Total: t.clock.Now() - t.start}
	for _, r := range t.records {
		if r.Started >= t.start {
			s.Active += r.Elapsed
		}
	}
	total := seconds(s.Total)
	s.Percent = round1(total / Budget.Seconds() * 100)

	log := t.log.WithFields(logrus.Fields{"total": total, "active": seconds(s.Active)})
	log.Infof("Total time: %.1f seconds. This is %.1f%% of the time", total, s.Percent)
	if s.Total > Budget {
		s.Overage = s.Total - Budget
		log.Warnf("Time exceeded by %.1f seconds.", seconds(s.Overage))
	}
	return s
}

func (t *Telemetry) restoreColor() robot.Color {
	if t.status == nil {
		return robot.ColorGreen
	}
	return t.status.StatusColor()
}

func (t *Telemetry) setLight(c robot.Color) {
	if t.light != nil {
		t.light.SetLight(c)
	}
}

// seconds returns d in seconds rounded to one decimal.
func seconds(d time.Duration) float64 {
	return round1(d.Seconds())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
