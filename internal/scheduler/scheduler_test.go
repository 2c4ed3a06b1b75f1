package scheduler_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sansls/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighPriorityTasksRunInOrder(t *testing.T) {
	s := scheduler.NewScheduler(4)
	s.RunScheduler()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		i := i
		err := s.ScheduleHighPriorityTask(scheduler.Task{
			Name: "append",
			Execute: func() error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, i)
				return nil
			},
		})
		require.NoError(t, err)
	}
	s.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	s.StopScheduler()
}

func TestFailingTaskDoesNotStopLoop(t *testing.T) {
	s := scheduler.NewScheduler(2)
	s.RunScheduler()
	defer s.StopScheduler()

	var ran atomic.Bool
	require.NoError(t, s.ScheduleHighPriorityTask(scheduler.Task{Name: "fail", Execute: func() error { return errors.New("boom") }}))
	require.NoError(t, s.ScheduleHighPriorityTask(scheduler.Task{Name: "ok", Execute: func() error { ran.Store(true); return nil }}))
	s.Wait()
	assert.True(t, ran.Load())
}

func TestPeriodicTask(t *testing.T) {
	s := scheduler.NewScheduler(2)
	s.RunScheduler()

	var count atomic.Int32
	s.SchedulePeriodicTask(10*time.Millisecond, scheduler.Task{
		Name:    "tick",
		Execute: func() error { count.Add(1); return nil },
	})

	assert.Eventually(t, func() bool { return count.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.StopScheduler()
}

func TestStop(t *testing.T) {
	s := scheduler.NewScheduler(1)
	s.RunScheduler()
	s.StopScheduler()
	s.StopScheduler()

	err := s.ScheduleHighPriorityTask(scheduler.Task{Name: "late", Execute: func() error { return nil }})
	assert.ErrorIs(t, err, scheduler.ErrStopped)
}

func TestStopWaitsForStartupRun(t *testing.T) {
	s := scheduler.NewScheduler(1)
	s.RunScheduler()

	started := make(chan struct{})
	var finished atomic.Bool
	s.SchedulePeriodicTask(time.Hour, scheduler.Task{
		Name: "slow",
		Execute: func() error {
			close(started)
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})

	<-started
	s.StopScheduler()
	assert.True(t, finished.Load())

	// Ignored after stop.
	s.SchedulePeriodicTask(time.Hour, scheduler.Task{
		Name:    "late",
		Execute: func() error { t.Error("ran after stop"); return nil },
	})
	time.Sleep(20 * time.Millisecond)
}
