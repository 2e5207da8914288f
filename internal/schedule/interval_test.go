package schedule

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerFiresImmediately(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 1)
	s := NewIntervalScheduler(time.Hour)
	defer s.Stop(context.Background())

	if err := s.Start(context.Background(), func(ts time.Time) {
		select {
		case fired <- ts:
		default:
		}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not fire the initial run")
	}
}

func TestSchedulerTicksOnInterval(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 8)
	s := NewIntervalScheduler(10 * time.Millisecond)
	defer s.Stop(context.Background())

	if err := s.Start(context.Background(), func(ts time.Time) {
		select {
		case fired <- ts:
		default:
		}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	// Initial run plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d run(s) fired", i)
		}
	}
}

func TestSchedulerStopHaltsTicking(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{}, 64)
	s := NewIntervalScheduler(5 * time.Millisecond)

	if err := s.Start(context.Background(), func(time.Time) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	<-fired
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	// Drain anything in flight, then verify silence.
	time.Sleep(20 * time.Millisecond)
	for len(fired) > 0 {
		<-fired
	}
	time.Sleep(30 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatal("scheduler kept firing after Stop")
	}
}

func TestSchedulerConcurrentStopIsSafe(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Millisecond)
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = s.Stop(context.Background())
		}()
	}
	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent Stop deadlocked")
		}
	}
}

func TestSchedulerRestartAfterStop(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{}, 1)
	s := NewIntervalScheduler(time.Hour)

	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	if err := s.Start(context.Background(), func(time.Time) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("restarted scheduler never fired")
	}
}

func TestSchedulerNilJobAndDoubleStart(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("nil job Start error: %v", err)
	}

	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}
