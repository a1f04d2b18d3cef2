package scheduler

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestManual_Every(t *testing.T) {
	m := NewManual()
	var runs int
	task := m.Every(50*time.Millisecond, func() { runs++ })

	m.Advance(49 * time.Millisecond)
	assert.Equal(t, 0, runs)

	m.Advance(1 * time.Millisecond)
	assert.Equal(t, 1, runs)

	m.Advance(200 * time.Millisecond)
	assert.Equal(t, 5, runs)

	task.Stop()
	task.Stop()
	m.Advance(time.Second)
	assert.Equal(t, 5, runs)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_After(t *testing.T) {
	m := NewManual()
	var runs int
	m.After(600*time.Millisecond, func() { runs++ })

	m.Advance(599 * time.Millisecond)
	assert.Equal(t, 0, runs)
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Second)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_StopBeforeDue(t *testing.T) {
	m := NewManual()
	var runs int
	task := m.After(time.Second, func() { runs++ })

	task.Stop()
	m.Advance(2 * time.Second)

	assert.Equal(t, 0, runs)
}

func TestManual_CallbackCanScheduleAndStop(t *testing.T) {
	m := NewManual()
	var order []string
	var ticker Task

	ticker = m.Every(10*time.Millisecond, func() {
		order = append(order, "tick")
		if len(order) == 2 {
			ticker.Stop()
			m.After(5*time.Millisecond, func() { order = append(order, "done") })
		}
	})

	m.Advance(100 * time.Millisecond)

	assert.Equal(t, []string{"tick", "tick", "done"}, order)
	assert.Equal(t, 100*time.Millisecond, m.Now())
}

func TestManual_TiesRunInSchedulingOrder(t *testing.T) {
	m := NewManual()
	var order []int
	m.After(time.Second, func() { order = append(order, 1) })
	m.After(time.Second, func() { order = append(order, 2) })

	m.Advance(time.Second)

	assert.Equal(t, []int{1, 2}, order)
}

func TestTicker_EveryAndStop(t *testing.T) {
	s := NewTicker(zerolog.Nop())
	var runs atomic.Int32
	task := s.Every(5*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)

	task.Stop()
	task.Stop()
	time.Sleep(20 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestTicker_EveryMilliseconds(t *testing.T) {
	s := NewTicker(zerolog.Nop())
	start := time.Now()
	first := make(chan time.Duration, 1)

	var once atomic.Bool
	task := s.Every(50*time.Millisecond, func() {
		if once.CompareAndSwap(false, true) {
			first <- time.Since(start)
		}
	})
	defer task.Stop()

	select {
	case elapsed := <-first:
		assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
		assert.Less(t, elapsed, 500*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("Every callback did not run")
	}
}

func TestTicker_RejectedInterval(t *testing.T) {
	var buf bytes.Buffer
	s := NewTicker(zerolog.New(&buf))

	task := s.Every(0, func() { t.Error("rejected task ran") })
	task.Stop()
	task.Stop()

	assert.Contains(t, buf.String(), "failed to schedule task")
	assert.Contains(t, buf.String(), `"kind":"every"`)
}

func TestTicker_After(t *testing.T) {
	s := NewTicker(zerolog.Nop())
	fired := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("After callback did not run")
	}

	cancelled := s.After(50*time.Millisecond, func() { t.Error("stopped task ran") })
	cancelled.Stop()
	time.Sleep(80 * time.Millisecond)
}

func TestTicker_AfterRunsOnce(t *testing.T) {
	s := NewTicker(zerolog.Nop())
	var runs atomic.Int32
	task := s.After(5*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	task.Stop()
}
