// Package schedule provides the once-per-day trigger that fires at a
// fixed wall-clock time, independently of the motion pipeline.
package schedule

import (
	"context"
	"time"

	"github.com/framewatch/framewatch/logging"
)

// Schedule is a fixed time-of-day in the local time zone.
type Schedule struct {
	Hour   int
	Minute int
}

// NextAfter returns the next instant at which the schedule fires
// strictly after now: today's instant if it is still ahead, otherwise
// tomorrow's.
func (s Schedule) NextAfter(now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// DailyTrigger waits for the scheduled time-of-day and invokes its
// fire callback exactly once per 24-hour period. After every firing
// the next target is recomputed from the instant just fired rather
// than decremented, so clock skew or a suspended process cannot cause
// catch-up bursts: a process resumed past its target fires once
// immediately and then waits for the following day.
type DailyTrigger struct {
	schedule Schedule
	logger   logging.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewDailyTrigger(schedule Schedule, logger logging.Logger) *DailyTrigger {
	return &DailyTrigger{
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Next returns the trigger's next fire instant as of now.
func (d *DailyTrigger) Next() time.Time {
	return d.schedule.NextAfter(d.now())
}

// Run blocks until ctx is cancelled, invoking fire at each scheduled
// instant. The fire callback runs on the trigger's goroutine; a slow
// callback delays only this trigger, never the caller's other flows.
func (d *DailyTrigger) Run(ctx context.Context, fire func()) error {
	for {
		target := d.schedule.NextAfter(d.now())
		wait := target.Sub(d.now())
		d.logger.Info("Next daily snapshot scheduled.", "at", target.Format(time.RFC3339), "in", wait.Round(time.Second).String())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		fire()
		// Loop recomputes the target relative to the fire instant;
		// NextAfter on a time at or past today's target lands on
		// tomorrow.
	}
}
