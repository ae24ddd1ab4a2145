package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/batchledger/pkg/adapter"
	"github.com/iotaledger/batchledger/pkg/money"
	"github.com/iotaledger/batchledger/pkg/txn"
)

func TestParseRecordDeposit(t *testing.T) {
	tx, err := adapter.ParseRecord(map[string]string{" type ": " Deposit ", " client ": " 1 ", " tx ": " 7 ", " amount ": " 12.3456 "})
	require.NoError(t, err)
	require.Equal(t, txn.Deposit, tx.Kind)
	require.Equal(t, txn.ClientID(1), tx.Client)
	require.Equal(t, txn.TransactionID(7), tx.TxID)
	require.NotNil(t, tx.Amount)
	require.Equal(t, "12.3456", tx.Amount.String())
}

func TestParseRecordDisputeHasNoAmount(t *testing.T) {
	tx, err := adapter.ParseRecord(map[string]string{"type": "dispute", "client": "1", "tx": "7", "amount": ""})
	require.NoError(t, err)
	require.Equal(t, txn.Dispute, tx.Kind)
	require.Nil(t, tx.Amount)
}

func TestParseRecordRejectsUnknownKind(t *testing.T) {
	_, err := adapter.ParseRecord(map[string]string{"type": "teleport", "client": "1", "tx": "7"})
	require.ErrorIs(t, err, adapter.ErrUnknownKind)
}

func TestParseRecordRejectsMalformedIDs(t *testing.T) {
	_, err := adapter.ParseRecord(map[string]string{"type": "deposit", "client": "notanumber", "tx": "7", "amount": "1.0"})
	require.Error(t, err)
}

func TestParseRecordRejectsMalformedAmount(t *testing.T) {
	_, err := adapter.ParseRecord(map[string]string{"type": "deposit", "client": "1", "tx": "7", "amount": "12.34567"})
	require.Error(t, err)
}

func TestParseRecordIsColumnOrderIndependent(t *testing.T) {
	// Same record, columns supplied in a different order than
	// InputHeader; by-name lookup must still parse it correctly.
	tx, err := adapter.ParseRecord(map[string]string{"amount": "5.0", "tx": "9", "type": "deposit", "client": "2"})
	require.NoError(t, err)
	require.Equal(t, txn.Deposit, tx.Kind)
	require.Equal(t, txn.ClientID(2), tx.Client)
	require.Equal(t, txn.TransactionID(9), tx.TxID)
}

func TestRenderSnapshot(t *testing.T) {
	m, err := money.Parse("1.5")
	require.NoError(t, err)

	row := adapter.RenderSnapshot(txn.Snapshot{Client: 3, Available: m, Held: money.Zero, Total: m, Locked: false})
	require.Equal(t, []string{"3", "1.5", "0.0", "1.5", "false"}, row)
}
