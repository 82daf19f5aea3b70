package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNextTickRunsJobsInOrder(t *testing.T) {
	s := New()
	go s.Run()
	defer s.Stop()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 1; i <= 3; i++ {
		i := i
		s.NextTick(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 3 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestJobPanicDoesNotKillLoop(t *testing.T) {
	s := New()
	go s.Run()
	defer s.Stop()

	done := make(chan struct{})
	s.NextTick(func() { panic("boom") })
	s.NextTick(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop died after panic")
	}
}

func TestAfterFiresOnce(t *testing.T) {
	s := New()
	go s.Run()
	defer s.Stop()

	done := make(chan struct{})
	s.After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("After never fired")
	}
}

func TestRepeatEveryCancel(t *testing.T) {
	s := New()
	go s.Run()
	defer s.Stop()

	var mu sync.Mutex
	count := 0
	fired := make(chan struct{}, 16)

	cancel := s.RepeatEvery(5*time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("RepeatEvery never fired")
	}

	cancel()
	cancel() // idempotent

	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	later := count
	mu.Unlock()

	// One in-flight tick may still land after cancel.
	assert.LessOrEqual(t, later, after+1)
}

func TestStopDropsNewJobs(t *testing.T) {
	s := New()
	go s.Run()
	s.Stop()

	// Must not block or panic.
	s.NextTick(func() { t.Error("job ran after stop") })
	time.Sleep(10 * time.Millisecond)
}
