// Package adapter translates between the engine's internal txn.Transaction
// and the CSV wire format described in spec.md §4.5 and §7: name-keyed,
// order-independent columns "type,client,tx,amount" in, and
// "client,available,held,total,locked" out.
//
// Grounded on original_source/src/engine.py's _parse_row, which reads
// with csv.DictReader rather than positionally: a record is a mapping
// from column name to string, so a header that lists the same columns in
// a different order (or with extra columns) still parses correctly.
package adapter

import (
	"strconv"
	"strings"

	"github.com/iotaledger/hive.go/ierrors"

	"github.com/iotaledger/batchledger/pkg/money"
	"github.com/iotaledger/batchledger/pkg/txn"
)

// ErrUnknownKind is returned by ParseRecord when the "type" column is not
// one of the five recognized transaction kinds.
var ErrUnknownKind = ierrors.New("unknown transaction type")

var knownKinds = map[string]txn.Kind{
	string(txn.Deposit):    txn.Deposit,
	string(txn.Withdrawal): txn.Withdrawal,
	string(txn.Dispute):    txn.Dispute,
	string(txn.Resolve):    txn.Resolve,
	string(txn.Chargeback): txn.Chargeback,
}

// ParseRecord parses one record, keyed by column name, into a
// Transaction. Keys and values are trimmed; the "type" value is
// additionally lower-cased. "amount" is optional and, if present and
// non-empty, must be a valid exact decimal (money.Parse).
func ParseRecord(record map[string]string) (txn.Transaction, error) {
	normalized := make(map[string]string, len(record))
	for k, v := range record {
		normalized[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	kindStr := strings.ToLower(normalized["type"])
	kind, ok := knownKinds[kindStr]
	if !ok {
		return txn.Transaction{}, ierrors.Wrapf(ErrUnknownKind, "got %q", kindStr)
	}

	clientStr := normalized["client"]
	client, err := strconv.ParseUint(clientStr, 10, 16)
	if err != nil {
		return txn.Transaction{}, ierrors.Wrapf(err, "invalid client id %q", clientStr)
	}

	txIDStr := normalized["tx"]
	txID, err := strconv.ParseUint(txIDStr, 10, 32)
	if err != nil {
		return txn.Transaction{}, ierrors.Wrapf(err, "invalid transaction id %q", txIDStr)
	}

	tx := txn.Transaction{
		Kind:   kind,
		Client: txn.ClientID(client),
		TxID:   txn.TransactionID(txID),
	}

	if amountStr := normalized["amount"]; amountStr != "" {
		amount, err := money.Parse(amountStr)
		if err != nil {
			return txn.Transaction{}, ierrors.Wrapf(err, "invalid amount %q", amountStr)
		}
		tx.Amount = &amount
	}

	return tx, nil
}

// InputHeader is the expected header row of a well-formed input file.
var InputHeader = []string{"type", "client", "tx", "amount"}

// OutputHeader is the header row written before any account rows.
var OutputHeader = []string{"client", "available", "held", "total", "locked"}

// RenderSnapshot formats one account snapshot as an output CSV row.
func RenderSnapshot(s txn.Snapshot) []string {
	return []string{
		strconv.FormatUint(uint64(s.Client), 10),
		s.Available.String(),
		s.Held.String(),
		s.Total.String(),
		strconv.FormatBool(s.Locked),
	}
}
