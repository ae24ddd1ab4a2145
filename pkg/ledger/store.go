// Package ledger implements the engine's state store: per-client accounts,
// the committed-transaction log, the disputed-transaction set, and the
// per-client lock registry that serializes access to each account.
//
// Grounded on original_source/src/state.py (StateManager) and on the
// two-tier locking scheme github.com/iotaledger/hive.go/runtime/syncutils
// already provides via DAGMutex: a registry-wide critical section for
// first-touch creation, and a per-key critical section thereafter.
package ledger

import (
	"sort"

	"github.com/iotaledger/hive.go/ds/shrinkingmap"
	"github.com/iotaledger/hive.go/runtime/syncutils"

	"github.com/iotaledger/batchledger/pkg/txn"
)

// Store owns all ledger state for the duration of one batch. The zero
// value is not valid; use New.
type Store struct {
	clientLocks *syncutils.DAGMutex[txn.ClientID]

	accounts  *shrinkingmap.ShrinkingMap[txn.ClientID, *txn.Account]
	committed *shrinkingmap.ShrinkingMap[txn.TransactionID, txn.Transaction]
	disputed  *shrinkingmap.ShrinkingMap[txn.TransactionID, struct{}]
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		clientLocks: syncutils.NewDAGMutex[txn.ClientID](),
		accounts:    shrinkingmap.New[txn.ClientID, *txn.Account](),
		committed:   shrinkingmap.New[txn.TransactionID, txn.Transaction](),
		disputed:    shrinkingmap.New[txn.TransactionID, struct{}](),
	}
}

// LockClient acquires the per-client lock for client, creating the lock
// registry entry on first use. Every read or write of client's account
// must happen between a LockClient and the matching UnlockClient. The
// committed log and disputed set are internally synchronized maps, so a
// transaction may read another client's committed entry (a foreign
// dispute) while holding only its own client's lock.
func (s *Store) LockClient(client txn.ClientID) {
	s.clientLocks.Lock(client)
}

// UnlockClient releases the lock acquired by LockClient.
func (s *Store) UnlockClient(client txn.ClientID) {
	s.clientLocks.Unlock(client)
}

// GetOrCreateAccount returns client's account, creating an all-zero one
// on first reference. Caller must hold LockClient(client).
func (s *Store) GetOrCreateAccount(client txn.ClientID) *txn.Account {
	account, _ := s.accounts.GetOrCreate(client, func() *txn.Account {
		return txn.NewAccount(client)
	})

	return account
}

// StoreCommitted inserts tx into the committed-transaction log. Only
// called for successfully applied deposits and withdrawals; the log is
// never mutated after insertion for a given tx ID.
func (s *Store) StoreCommitted(tx txn.Transaction) {
	s.committed.Set(tx.TxID, tx)
}

// GetCommitted looks up a previously committed deposit or withdrawal.
func (s *Store) GetCommitted(txID txn.TransactionID) (txn.Transaction, bool) {
	return s.committed.Get(txID)
}

// MarkDisputed records txID as currently disputed.
func (s *Store) MarkDisputed(txID txn.TransactionID) {
	s.disputed.Set(txID, struct{}{})
}

// ClearDispute removes txID from the disputed set.
func (s *Store) ClearDispute(txID txn.TransactionID) {
	s.disputed.Delete(txID)
}

// IsDisputed reports whether txID is currently in the disputed set.
func (s *Store) IsDisputed(txID txn.TransactionID) bool {
	_, disputed := s.disputed.Get(txID)

	return disputed
}

// SnapshotAll returns the final state of every observed account, sorted
// ascending by client ID.
func (s *Store) SnapshotAll() []txn.Snapshot {
	snapshots := make([]txn.Snapshot, 0)

	s.accounts.ForEach(func(_ txn.ClientID, account *txn.Account) bool {
		snapshots = append(snapshots, account.Snapshot())

		return true
	})

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})

	return snapshots
}
