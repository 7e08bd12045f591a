package runner

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestStopReturnsWhenContextWasCancelledFirst(t *testing.T) {
	s := NewScheduler(&RunnerMock{}, 6)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	// the run loop exits on context cancellation, leaving no receiver
	cancel()
	time.Sleep(50 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop(context.Background())
		s.Stop(context.Background())
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the run loop had already exited")
	}
}

func TestStopEndsTheRunLoop(t *testing.T) {
	s := NewScheduler(&RunnerMock{}, 6)

	s.Start(context.Background())
	time.Sleep(10 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop(context.Background())
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while the run loop was waiting")
	}
}

func TestUntilNextRunLaterToday(t *testing.T) {
	is := is.New(t)

	now := time.Date(2025, 3, 17, 4, 30, 0, 0, time.UTC)
	is.Equal(untilNextRun(now, 6), 90*time.Minute)
}

func TestUntilNextRunRollsOverToTomorrow(t *testing.T) {
	is := is.New(t)

	now := time.Date(2025, 3, 17, 6, 0, 0, 0, time.UTC)
	is.Equal(untilNextRun(now, 6), 24*time.Hour)

	now = time.Date(2025, 3, 17, 23, 0, 0, 0, time.UTC)
	is.Equal(untilNextRun(now, 6), 7*time.Hour)
}
