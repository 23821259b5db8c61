package infra

import (
	"sync"

	"github.com/fd1az/casino-dapp/business/casino/app"
)

// queueSize bounds pending states; a session publishes at most two.
const queueSize = 64

// stateQueue hands states to a single goroutine so they are rendered in
// publication order without blocking the publisher.
type stateQueue struct {
	mu     sync.Mutex
	closed bool
	states chan app.ConnectionState
	done   chan struct{}
}

func newStateQueue(handle func(app.ConnectionState)) *stateQueue {
	q := &stateQueue{
		states: make(chan app.ConnectionState, queueSize),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(q.done)
		for s := range q.states {
			handle(s)
		}
	}()

	return q
}

func (q *stateQueue) push(s app.ConnectionState) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.states <- s
}

// close stops accepting states and waits for the pending ones to be handled.
func (q *stateQueue) close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.states)
	}
	q.mu.Unlock()
	<-q.done
}
