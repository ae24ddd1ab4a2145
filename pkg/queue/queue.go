// Package queue implements the engine's two-buffer work queue: a
// thread-safe FIFO main queue publishers feed and consumers drain with a
// bounded wait, and an append-only dead-letter queue for transactions
// whose prerequisite had not yet been observed.
//
// Grounded on original_source/src/message_queue.py (InMemoryQueue),
// translated from Python's Queue.get(timeout=...) polling loop to Go
// channels plus a shutdown flag, which is the idiomatic equivalent.
package queue

import (
	"sync"
	"time"

	"github.com/iotaledger/batchledger/pkg/txn"
)

// PollInterval is how long Pop blocks waiting for a message before
// re-checking the shutdown flag, mirroring message_queue.py's
// DEFAULT_TIMEOUT = 0.1.
const PollInterval = 100 * time.Millisecond

// Queue is the engine's main work queue plus its dead-letter side queue.
// All methods are safe for concurrent use.
type Queue struct {
	main chan txn.Transaction

	shutdownOnce sync.Once
	shutdown     chan struct{}

	dlqMu sync.Mutex
	dlq   []txn.Transaction
}

// New returns an empty Queue. capacity bounds the main queue's internal
// buffer; a reasonable default is the number of consumers times a small
// multiple.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}

	return &Queue{
		main:     make(chan txn.Transaction, capacity),
		shutdown: make(chan struct{}),
	}
}

// Publish adds a transaction to the main queue. Must not be called after
// Shutdown.
func (q *Queue) Publish(tx txn.Transaction) {
	q.main <- tx
}

// Pop returns the next transaction from the main queue, blocking up to
// PollInterval. It returns (tx, true) on a message, or (zero, false) if
// the wait timed out. Callers loop on the shutdown/empty condition
// themselves (see Engine.consume).
func (q *Queue) Pop() (txn.Transaction, bool) {
	select {
	case tx := <-q.main:
		return tx, true
	case <-time.After(PollInterval):
		return txn.Transaction{}, false
	}
}

// IsShutdown reports whether Shutdown has been called.
func (q *Queue) IsShutdown() bool {
	select {
	case <-q.shutdown:
		return true
	default:
		return false
	}
}

// IsEmpty reports whether the main queue currently holds no messages.
// Like the Python source, this is approximate under concurrent publish,
// but is only ever consulted after Shutdown, when no further publishes
// occur.
func (q *Queue) IsEmpty() bool {
	return len(q.main) == 0
}

// Shutdown signals that no more messages will be published. Idempotent.
func (q *Queue) Shutdown() {
	q.shutdownOnce.Do(func() {
		close(q.shutdown)
	})
}

// SendToDLQ appends tx to the dead-letter queue.
func (q *Queue) SendToDLQ(tx txn.Transaction) {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()

	q.dlq = append(q.dlq, tx)
}

// DrainDLQ removes and returns every message currently in the
// dead-letter queue, in publish order. Intended to be called exactly
// once, after the main queue has fully drained.
func (q *Queue) DrainDLQ() []txn.Transaction {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()

	drained := q.dlq
	q.dlq = nil

	return drained
}
