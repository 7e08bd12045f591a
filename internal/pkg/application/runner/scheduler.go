package runner

import (
	"context"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

type Scheduler interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

type scheduler struct {
	runner Runner

	// runAtHour is the UTC hour of day the daily evaluation fires at.
	runAtHour int

	done chan bool
}

func NewScheduler(r Runner, runAtHour int) Scheduler {
	if runAtHour < 0 || runAtHour > 23 {
		runAtHour = 6
	}

	return &scheduler{
		runner:    r,
		runAtHour: runAtHour,
		done:      make(chan bool),
	}
}

func (s *scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop signals the run loop to exit. The send must not block: when the
// context was cancelled first the loop is already gone and there is no
// receiver.
func (s *scheduler) Stop(ctx context.Context) {
	select {
	case s.done <- true:
	default:
	}
}

func (s *scheduler) run(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-time.After(untilNextRun(time.Now().UTC(), s.runAtHour)):
			// evaluate the day that just completed
			date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

			report, err := s.runner.RunForDate(ctx, date)
			if err != nil {
				log.Error("scheduled evaluation run failed", "date", date.Format("2006-01-02"), "err", err.Error())
				continue
			}

			log.Info("scheduled evaluation run completed",
				"date", date.Format("2006-01-02"),
				"evaluated", report.Evaluated,
				"skipped", report.Skipped,
				"failed", report.Failed,
				"alerts", len(report.Alerts))
		}
	}
}

// untilNextRun returns the duration until the next occurrence of the given
// UTC hour, always in the future.
func untilNextRun(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
