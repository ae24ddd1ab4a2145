// Package engine implements the two-phase orchestrator described in
// spec.md §4.4: a concurrent fan-out ingest phase followed by a
// single-threaded dead-letter-queue drain.
//
// Grounded on original_source/src/engine.py (PaymentsEngine.process_file),
// with the producer/consumer thread pool translated to
// github.com/iotaledger/hive.go/runtime/workerpool, the teacher's own
// worker-pool abstraction (pkg/protocol/engines.go, inmemorybooker.Booker).
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/hive.go/runtime/workerpool"

	"github.com/iotaledger/batchledger/pkg/ledger"
	"github.com/iotaledger/batchledger/pkg/processor"
	"github.com/iotaledger/batchledger/pkg/queue"
	"github.com/iotaledger/batchledger/pkg/txn"
)

// Source yields parsed transactions one at a time. It returns ok=false
// once the input is exhausted. Implementations (e.g. pkg/adapter fed by
// cmd/batchengine's CSV reader) are responsible for skipping malformed
// records themselves; Source never reports parse errors to the engine.
type Source func() (tx txn.Transaction, ok bool)

// Stats are thread-safe counters tracking what happened to a batch,
// supplementing original_source/src/models.py's ProcessingStats (present
// in the Python source but not elevated to a spec.md module; kept here as
// an observability nicety per SPEC_FULL.md §B).
type Stats struct {
	processed    atomic.Int64
	dlqSucceeded atomic.Int64
	discarded    atomic.Int64
}

func (s *Stats) recordSuccess()    { s.processed.Add(1) }
func (s *Stats) recordDLQSuccess() { s.dlqSucceeded.Add(1) }
func (s *Stats) recordDiscard()    { s.discarded.Add(1) }

// Processed returns the number of transactions that committed on their
// phase-1 attempt (including idempotent replays). Transactions that commit
// on their phase-2 retry are counted by DLQSucceeded instead.
func (s *Stats) Processed() int64 { return s.processed.Load() }

// DLQSucceeded returns the number of transactions that were parked in
// phase 1 (their prerequisite had not yet been observed) and then
// committed successfully on their single phase-2 retry.
func (s *Stats) DLQSucceeded() int64 { return s.dlqSucceeded.Load() }

// Discarded returns the number of transactions discarded (permanently
// failed anywhere, or still-retriable at the end of phase 2).
func (s *Stats) Discarded() int64 { return s.discarded.Load() }

// Engine orchestrates one batch run. A fresh Engine holds a fresh, empty
// ledger; there is no process-wide state (spec.md §9).
type Engine struct {
	store  *ledger.Store
	queue  *queue.Queue
	logger log.Logger
	stats  Stats

	optsConsumers     int
	optsQueueCapacity int
}

// New returns an Engine ready to run one batch. logger's child loggers are
// used for the producer, consumers, and DLQ drain.
func New(logger log.Logger, opts ...options.Option[Engine]) *Engine {
	return options.Apply(&Engine{
		store:             ledger.New(),
		logger:            logger,
		optsConsumers:     DefaultConsumers,
		optsQueueCapacity: 1024,
	}, opts, func(e *Engine) {
		e.queue = queue.New(e.optsQueueCapacity)
	})
}

// Run executes both phases against source and returns the final snapshot
// of every account the batch observed, plus summary stats.
func (e *Engine) Run(source Source) ([]txn.Snapshot, Stats) {
	e.runIngestPhase(source)
	e.runDLQPhase()

	return e.store.SnapshotAll(), e.stats
}

// runIngestPhase is spec.md §4.4 Phase 1: one producer goroutine feeds
// the main queue; optsConsumers workers drain it concurrently until the
// producer is done and the queue is empty.
func (e *Engine) runIngestPhase(source Source) {
	producerLogger := e.logger.NewChildLogger("producer", false)
	consumerLogger := e.logger.NewChildLogger("consumers", false)

	var producerWG sync.WaitGroup
	producerWG.Add(1)

	go func() {
		defer producerWG.Done()
		defer e.queue.Shutdown()

		count := 0
		for {
			tx, ok := source()
			if !ok {
				break
			}
			e.queue.Publish(tx)
			count++
		}
		producerLogger.LogInfof("published %d transactions", count)
	}()

	pool := workerpool.NewGroup("Ingest").CreatePool("Consumers", e.optsConsumers)

	var consumersWG sync.WaitGroup
	for i := 0; i < e.optsConsumers; i++ {
		consumersWG.Add(1)
		pool.Submit(func() {
			defer consumersWG.Done()
			e.consume(consumerLogger)
		})
	}

	producerWG.Wait()
	consumersWG.Wait()
	pool.Shutdown()
}

// consume is one phase-1 worker loop: pop, lock, process, and on a
// retriable outcome forward to the DLQ. Terminates once the queue has
// been shut down and drained.
func (e *Engine) consume(logger log.Logger) {
	for {
		tx, ok := e.queue.Pop()
		if !ok {
			if e.queue.IsShutdown() && e.queue.IsEmpty() {
				return
			}
			continue
		}

		result := e.processOne(tx)

		switch result {
		case txn.FailedRetriable:
			e.queue.SendToDLQ(tx)
		case txn.Success:
			e.stats.recordSuccess()
		case txn.FailedPermanent:
			e.stats.recordDiscard()
			logger.LogWarnf("permanently failed transaction discarded: kind=%s client=%d tx=%d", tx.Kind, tx.Client, tx.TxID)
		}
	}
}

// runDLQPhase is spec.md §4.4 Phase 2: single-threaded, exactly one pass
// over every transaction that phase 1 parked.
func (e *Engine) runDLQPhase() {
	logger := e.logger.NewChildLogger("dlq", false)

	parked := e.queue.DrainDLQ()
	if len(parked) == 0 {
		return
	}

	logger.LogInfof("retrying %d parked transactions", len(parked))

	for _, tx := range parked {
		result := e.processOne(tx)

		switch result {
		case txn.Success:
			e.stats.recordDLQSuccess()
		case txn.FailedRetriable:
			e.stats.recordDiscard()
			logger.LogWarnf("still failed after DLQ retry, discarding: kind=%s client=%d tx=%d", tx.Kind, tx.Client, tx.TxID)
		case txn.FailedPermanent:
			e.stats.recordDiscard()
			logger.LogWarnf("permanently failed in DLQ phase, discarding: kind=%s client=%d tx=%d", tx.Kind, tx.Client, tx.TxID)
		}
	}
}

// processOne acquires the appropriate client lock and runs the
// processor, releasing the lock on every exit path (spec.md §9 "scoped
// resource acquisition").
func (e *Engine) processOne(tx txn.Transaction) txn.Result {
	e.store.LockClient(tx.Client)
	defer e.store.UnlockClient(tx.Client)

	return processor.Process(e.store, tx)
}
