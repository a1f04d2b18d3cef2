// Package scheduler runs cancellable periodic and one-shot tasks.
//
// Stop never blocks on a running callback, so callers may stop a task while
// holding a lock that the callback also takes. A callback that was already
// dispatched when Stop was called can still run once; owners guard against
// that with their own state check.
package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Task is a handle on a scheduled callback.
type Task interface {
	// Stop cancels future runs. It is safe to call more than once.
	Stop()
}

// Scheduler starts tasks.
type Scheduler interface {
	// Every runs fn every interval until the task is stopped.
	Every(interval time.Duration, fn func()) Task

	// After runs fn once after delay unless the task is stopped first.
	After(delay time.Duration, fn func()) Task
}

type cronScheduler struct {
	// mu guards gocron's builder chain
	mu     sync.Mutex
	cron   *gocron.Scheduler
	logger zerolog.Logger
}

// NewTicker returns a Scheduler backed by a running gocron scheduler.
func NewTicker(logger zerolog.Logger) Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.StartAsync()

	return &cronScheduler{
		cron:   s,
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

type cronTask struct {
	cron *gocron.Scheduler
	job  *gocron.Job
	once sync.Once
}

func (t *cronTask) Stop() {
	t.once.Do(func() {
		if t.job != nil {
			t.cron.RemoveByReference(t.job)
		}
	})
}

// Every runs fn every interval. The first run is one interval from now.
func (s *cronScheduler) Every(interval time.Duration, fn func()) Task {
	s.mu.Lock()
	job, err := s.cron.Every(interval).WaitForSchedule().Do(fn)
	s.mu.Unlock()
	return s.task(job, err, "every", interval)
}

// After runs fn once, delay from now.
func (s *cronScheduler) After(delay time.Duration, fn func()) Task {
	s.mu.Lock()
	job, err := s.cron.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(fn)
	s.mu.Unlock()
	return s.task(job, err, "after", delay)
}

func (s *cronScheduler) task(job *gocron.Job, err error, kind string, d time.Duration) Task {
	if err != nil {
		// A rejected job never runs; its handle is already stopped
		s.logger.Error().
			Err(err).
			Str("kind", kind).
			Dur("interval", d).
			Msg("failed to schedule task")
		return &cronTask{cron: s.cron}
	}
	return &cronTask{cron: s.cron, job: job}
}
