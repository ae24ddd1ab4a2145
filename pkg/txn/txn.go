// Package txn holds the engine's core data model: the transaction record
// the processor consumes, the per-client account it mutates, and the
// three-way outcome the processor reports back to its caller.
package txn

import (
	"github.com/iotaledger/batchledger/pkg/money"
)

// ClientID identifies one client account.
type ClientID uint16

// TransactionID identifies one transaction, globally unique across all
// committing (deposit/withdrawal) transactions in the input.
type TransactionID uint32

// Kind distinguishes the five transaction shapes the engine understands.
type Kind string

const (
	Deposit    Kind = "deposit"
	Withdrawal Kind = "withdrawal"
	Dispute    Kind = "dispute"
	Resolve    Kind = "resolve"
	Chargeback Kind = "chargeback"
)

// Transaction is one parsed input record. Amount is nil when the record
// carries no amount; only Deposit and Withdrawal use it, and the other
// kinds ignore it.
type Transaction struct {
	Kind   Kind
	Client ClientID
	TxID   TransactionID
	Amount *money.Money
}

// Result is the three-way outcome of processing one Transaction.
type Result int

const (
	// Success means the transaction committed (or was an idempotent
	// no-op replay of an already-committed transaction).
	Success Result = iota
	// FailedRetriable means the transaction's prerequisite has not been
	// observed yet; it should be parked and retried later.
	FailedRetriable
	// FailedPermanent means the outcome is fixed regardless of future
	// input; the transaction should be discarded.
	FailedPermanent
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case FailedRetriable:
		return "failed_retriable"
	case FailedPermanent:
		return "failed_permanent"
	default:
		return "unknown"
	}
}

// Account is one client's ledger state. All field mutation must happen
// while the caller holds that client's lock (see pkg/ledger).
type Account struct {
	Client    ClientID
	Available money.Money
	Held      money.Money
	Locked    bool
}

// NewAccount returns a fresh, all-zero account for client.
func NewAccount(client ClientID) *Account {
	return &Account{
		Client:    client,
		Available: money.Zero,
		Held:      money.Zero,
	}
}

// Total is the derived available+held balance.
func (a *Account) Total() money.Money {
	return a.Available.Add(a.Held)
}

// Credit increases the available balance by amount (deposit).
func (a *Account) Credit(amount money.Money) {
	a.Available = a.Available.Add(amount)
}

// Debit decreases the available balance by amount (withdrawal). Caller
// must have already checked sufficiency.
func (a *Account) Debit(amount money.Money) {
	a.Available = a.Available.Sub(amount)
}

// Hold moves amount from available to held (dispute). Available may go
// negative; this is intentional (spec.md §4.2).
func (a *Account) Hold(amount money.Money) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// ReleaseHold moves amount from held back to available (resolve).
func (a *Account) ReleaseHold(amount money.Money) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// RemoveHeld removes amount from held without returning it to available
// (chargeback); the caller is responsible for also locking the account.
func (a *Account) RemoveHeld(amount money.Money) {
	a.Held = a.Held.Sub(amount)
}

// Snapshot is the immutable, final view of one account used for output.
type Snapshot struct {
	Client    ClientID
	Available money.Money
	Held      money.Money
	Total     money.Money
	Locked    bool
}

// Snapshot captures the account's current state. Caller must hold the
// account's client lock.
func (a *Account) Snapshot() Snapshot {
	return Snapshot{
		Client:    a.Client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}
