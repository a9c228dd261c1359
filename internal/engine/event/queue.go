package event

import "sync"

// Queue is an unbounded FIFO command channel between producer threads and the
// render thread. Push never blocks on the consumer; TryPop returns
// immediately when the queue is empty, so draining never starves the render
// loop. Commands come out in strict push order.
type Queue struct {
	mu    sync.Mutex
	items []Command
	head  int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a command. Safe from any thread.
func (q *Queue) Push(c Command) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest command, or (nil, false) when the
// queue is empty.
func (q *Queue) TryPop() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		if q.head > 0 {
			q.items = q.items[:0]
			q.head = 0
		}
		return nil, false
	}

	c := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	return c, true
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
