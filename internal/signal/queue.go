package signal

import "sync"

// Scheduler accepts work to run after the current signal has been handled.
type Scheduler interface {
	Defer(task func())
}

// Queue is a Scheduler whose tasks run when the host calls Drain, i.e. on
// the next tick of the host loop.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer enqueues task.
func (q *Queue) Defer(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, task)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs the tasks pending at the time of the call, in order. Tasks
// deferred while draining wait for the next Drain. It returns the number
// of tasks run.
func (q *Queue) Drain() int {
	q.mu.Lock()
	tasks := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}
