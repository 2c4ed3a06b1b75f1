package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sansls.scheduler")

var ErrStopped = errors.New("scheduler stopped")

type Task struct {
	Name    string
	Execute func() error
}

// Scheduler runs tasks one at a time on a background goroutine.
type Scheduler struct {
	taskQueue chan Task

	mu      sync.Mutex
	stopped bool

	lowPriorityLock sync.Mutex
	stopChan        chan struct{}
	wg              sync.WaitGroup
	done            chan struct{}
}

// NewScheduler creates a new Scheduler with the specified queue size.
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan Task, queueSize),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func run(task Task) {
	log.Debugf("executing %s", task.Name)
	if err := task.Execute(); err != nil {
		log.Errorf("task %s: %s", task.Name, err)
	}
}

// RunScheduler starts the scheduler loop.
func (s *Scheduler) RunScheduler() {
	go func() {
		defer close(s.done)
		for {
			select {
			case task := <-s.taskQueue:
				run(task)
				s.wg.Done()
			case <-s.stopChan:
				// Drain what was accepted before the stop.
				for {
					select {
					case task := <-s.taskQueue:
						run(task)
						s.wg.Done()
					default:
						return
					}
				}
			}
		}
	}()
}

// enqueue adds task unless the scheduler is stopped. With block false a
// full queue drops the task. The lock is held across the send so that no
// task slips in after StopScheduler has begun draining.
func (s *Scheduler) enqueue(task Task, block bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}

	s.wg.Add(1)
	if block {
		s.taskQueue <- task
		return nil
	}
	select {
	case s.taskQueue <- task:
	default:
		s.wg.Done()
		log.Debugf("skipped scheduling %s, queue is full", task.Name)
	}
	return nil
}

// SchedulePeriodicTask runs lowTask once right away and then every
// interval, never blocking on a full queue. It does nothing once the
// scheduler is stopped.
func (s *Scheduler) SchedulePeriodicTask(interval time.Duration, lowTask Task) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	// Counted so that StopScheduler also waits for the startup run.
	s.wg.Add(1)
	s.mu.Unlock()

	ticker := time.NewTicker(interval)

	// Run the task on startup in a non-blocking manner
	go func() {
		defer s.wg.Done()
		s.lowPriorityLock.Lock()
		defer s.lowPriorityLock.Unlock()
		run(lowTask)
	}()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.lowPriorityLock.Lock()
				_ = s.enqueue(lowTask, false)
				s.lowPriorityLock.Unlock()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// ScheduleHighPriorityTask queues task, waiting for room if needed.
func (s *Scheduler) ScheduleHighPriorityTask(task Task) error {
	return s.enqueue(task, true)
}

// Wait blocks until every accepted task has run.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// StopScheduler stops accepting tasks, runs the ones already queued and
// returns when the loop has exited. RunScheduler must have been called.
// It is safe to call more than once.
func (s *Scheduler) StopScheduler() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopChan)
	s.mu.Unlock()

	log.Info("stopping scheduler")
	s.wg.Wait()
	<-s.done
	log.Info("scheduler stopped")
}
