package engine

import (
	"github.com/iotaledger/hive.go/runtime/options"
)

// DefaultConsumers is the number of consumer workers used in phase 1 when
// no WithConsumers option is given (spec.md §6).
const DefaultConsumers = 4

// WithConsumers sets the number of concurrent consumer workers used
// during phase 1 ingest. Values less than 1 are clamped to 1.
func WithConsumers(n int) options.Option[Engine] {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.optsConsumers = n
	}
}

// WithQueueCapacity sets the internal buffer size of the main work queue.
func WithQueueCapacity(capacity int) options.Option[Engine] {
	return func(e *Engine) {
		if capacity < 1 {
			capacity = 1
		}
		e.optsQueueCapacity = capacity
	}
}
