// Package scheduler serializes game-thread work onto a single
// goroutine. Game state (players, voice flags, chat) has a
// single-writer discipline: background workers never touch it
// directly, they marshal closures here instead.
package scheduler

import (
	"sync"
	"time"

	"cs-admin/internal/crash"
	"cs-admin/internal/logger"
)

// Scheduler runs queued jobs and timers on one goroutine.
type Scheduler struct {
	jobs chan func()

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler with a buffered job queue.
func New() *Scheduler {
	return &Scheduler{
		jobs: make(chan func(), 256),
		done: make(chan struct{}),
	}
}

// Run processes jobs until Stop is called. Blocks; callers usually
// run it via crash.SafeGoroutine.
func (s *Scheduler) Run() {
	for {
		select {
		case job := <-s.jobs:
			s.execute(job)
		case <-s.done:
			// Drain what was queued before the stop.
			for {
				select {
				case job := <-s.jobs:
					s.execute(job)
				default:
					return
				}
			}
		}
	}
}

func (s *Scheduler) execute(job func()) {
	defer crash.RecoverWithStack("scheduler-job")
	job()
}

// NextTick queues fn onto the tick goroutine. Safe to call from any
// goroutine. Jobs queued after Stop are dropped.
func (s *Scheduler) NextTick(fn func()) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	select {
	case s.jobs <- fn:
	default:
		logger.Warningf("Scheduler queue full, dropping job")
	}
}

// After runs fn on the tick goroutine once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.wg.Add(1)
	crash.SafeGoroutine("scheduler-after", func() {
		defer s.wg.Done()
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			s.NextTick(fn)
		case <-s.done:
		}
	})
}

// RepeatEvery runs fn on the tick goroutine every d until the
// returned cancel function or Stop is called.
func (s *Scheduler) RepeatEvery(d time.Duration, fn func()) (cancel func()) {
	stop := make(chan struct{})
	var once sync.Once

	s.wg.Add(1)
	crash.SafeGoroutine("scheduler-repeat", func() {
		defer s.wg.Done()
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.NextTick(fn)
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	})

	return func() { once.Do(func() { close(stop) }) }
}

// Stop shuts the scheduler down and waits for its timers to exit.
// Queued jobs still run; new ones are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}
