package shell

import "sync"

// eventQueue is the orchestrator's unbounded mailbox. Producers (capture
// threads, the render thread, the orchestrator itself) append under one
// lock, so delivery order is total arrival order and push never blocks —
// there is no capacity at which the loop, the renderer, and the capture
// threads could deadlock waiting on each other.
type eventQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	backlog []Event
	head    int
}

func newEventQueue(capacity int) *eventQueue {
	q := &eventQueue{backlog: make([]Event, 0, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends one event and wakes the consumer. It never blocks.
func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	q.backlog = append(q.backlog, ev)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until an event is available and removes it from the front.
func (q *eventQueue) pop() Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.backlog) {
		q.cond.Wait()
	}
	ev := q.backlog[q.head]
	q.backlog[q.head] = nil
	q.head++
	if q.head == len(q.backlog) {
		q.backlog = q.backlog[:0]
		q.head = 0
	}
	return ev
}

// depth reports the number of undelivered events.
func (q *eventQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog) - q.head
}
