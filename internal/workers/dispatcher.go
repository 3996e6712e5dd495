package workers

import (
	"context"
	"sync"

	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
)

// Task is one unit of dispatch work.
type Task func(ctx context.Context)

// Dispatcher runs tasks on a fixed pool of workers fed by a bounded queue.
// Submit never blocks the caller: the event consumers must keep acknowledging
// broker messages even when delivery is slow.
type Dispatcher struct {
	queue chan Task
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}

	return &Dispatcher{
		queue: make(chan Task, queueSize),
	}
}

// Start launches the worker goroutines. Workers drain the queue until Stop
// closes it; ctx is passed through to each task.
func (d *Dispatcher) Start(ctx context.Context, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}

	d.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer d.wg.Done()
			for task := range d.queue {
				task(ctx)
			}
			logger.Debug("dispatch worker stopped", "worker", id)
		}(i)
	}
}

// Submit enqueues a task. When the queue is saturated the task is run on its
// own goroutine instead, with a warning, so a burst degrades to unbounded
// concurrency rather than back-pressuring the consumer thread.
func (d *Dispatcher) Submit(ctx context.Context, task Task) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logger.Warn("dispatcher stopped, running task inline")
		task(ctx)
		return
	}

	select {
	case d.queue <- task:
		d.mu.Unlock()
	default:
		d.mu.Unlock()
		logger.Warn("dispatch queue full, running task on ad-hoc goroutine")
		go task(ctx)
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
