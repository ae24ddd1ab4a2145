// Package processor implements the ledger state machine: the pure
// function that decides what one Transaction does to one client's
// account, given the caller already holds that client's lock.
//
// Grounded line-for-line on original_source/src/processor.py
// (TransactionProcessor), redesigned per spec.md §9 to dispatch on a
// tagged Kind via a single switch instead of dynamic method dispatch.
package processor

import (
	"github.com/iotaledger/batchledger/pkg/ledger"
	"github.com/iotaledger/batchledger/pkg/money"
	"github.com/iotaledger/batchledger/pkg/txn"
)

// Process applies tx to store and returns the outcome. The caller must
// hold store.LockClient(tx.Client) for the duration of this call (spec.md
// §4.2 precondition).
func Process(store *ledger.Store, tx txn.Transaction) txn.Result {
	account := store.GetOrCreateAccount(tx.Client)

	if account.Locked {
		return txn.FailedPermanent
	}

	switch tx.Kind {
	case txn.Deposit:
		return handleDeposit(store, account, tx)
	case txn.Withdrawal:
		return handleWithdrawal(store, account, tx)
	case txn.Dispute:
		return handleDispute(store, account, tx)
	case txn.Resolve:
		return handleResolve(store, account, tx)
	case txn.Chargeback:
		return handleChargeback(store, account, tx)
	default:
		return txn.FailedPermanent
	}
}

func handleDeposit(store *ledger.Store, account *txn.Account, tx txn.Transaction) txn.Result {
	if tx.Amount == nil || !tx.Amount.IsPositive() {
		return txn.FailedPermanent
	}

	if _, exists := store.GetCommitted(tx.TxID); exists {
		// Idempotent replay of an already-committed deposit.
		return txn.Success
	}

	account.Credit(*tx.Amount)
	store.StoreCommitted(tx)

	return txn.Success
}

func handleWithdrawal(store *ledger.Store, account *txn.Account, tx txn.Transaction) txn.Result {
	if tx.Amount == nil || !tx.Amount.IsPositive() {
		return txn.FailedPermanent
	}

	if _, exists := store.GetCommitted(tx.TxID); exists {
		return txn.Success
	}

	if account.Available.LessThan(*tx.Amount) {
		return txn.FailedPermanent
	}

	account.Debit(*tx.Amount)
	store.StoreCommitted(tx)

	return txn.Success
}

func handleDispute(store *ledger.Store, account *txn.Account, tx txn.Transaction) txn.Result {
	original, exists := store.GetCommitted(tx.TxID)
	if !exists {
		// The target deposit may not have been observed yet in
		// unordered concurrent delivery; park for retry.
		return txn.FailedRetriable
	}

	if original.Client != tx.Client {
		return txn.FailedPermanent
	}

	if store.IsDisputed(tx.TxID) {
		return txn.FailedPermanent
	}

	if original.Kind != txn.Deposit {
		return txn.FailedPermanent
	}

	account.Hold(amountOf(original))
	store.MarkDisputed(tx.TxID)

	return txn.Success
}

func handleResolve(store *ledger.Store, account *txn.Account, tx txn.Transaction) txn.Result {
	original, exists := store.GetCommitted(tx.TxID)
	if !exists {
		return txn.FailedRetriable
	}

	if !store.IsDisputed(tx.TxID) {
		// May be that the matching Dispute has not arrived yet; the
		// processor does not check original.Client == tx.Client here,
		// relying on the invariant that a dispute only ever existed if
		// the client matched at dispute time (spec.md §9).
		return txn.FailedRetriable
	}

	account.ReleaseHold(amountOf(original))
	store.ClearDispute(tx.TxID)

	return txn.Success
}

func handleChargeback(store *ledger.Store, account *txn.Account, tx txn.Transaction) txn.Result {
	original, exists := store.GetCommitted(tx.TxID)
	if !exists {
		return txn.FailedRetriable
	}

	if !store.IsDisputed(tx.TxID) {
		return txn.FailedRetriable
	}

	account.RemoveHeld(amountOf(original))
	account.Locked = true
	store.ClearDispute(tx.TxID)

	return txn.Success
}

// amountOf returns the amount of a committed deposit. Deposits always
// carry a non-nil Amount (checked by handleDeposit before commit).
func amountOf(committed txn.Transaction) money.Money {
	return *committed.Amount
}
