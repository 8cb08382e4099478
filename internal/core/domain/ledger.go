package domain

import (
	"sort"
	"time"
)

// MergeLedger folds a batch of node entries into an existing ledger and
// returns a new ledger, leaving the given one untouched.
//
// Outgoing entries are mapped with NewOutgoingTransaction, anything else is
// a receive keyed by its utxo. An entry whose key is already present is
// overlaid in place with the fields the node sent, so the ledger never holds
// duplicated keys and never shrinks. New change outputs not belonging to a
// send are dropped and the result is sorted by timestamp, ties kept in
// insertion order.
func MergeLedger(
	existing []Transaction, incoming []TxPayload, account *Account,
	now time.Time, newID func() string,
) []Transaction {
	merged := make([]Transaction, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)

	indexByID := make(map[string]int, len(merged))
	for i, tx := range merged {
		indexByID[tx.ID] = i
	}

	for _, p := range incoming {
		var tx Transaction
		if p.IsOutgoing() {
			tx = NewOutgoingTransaction(p, account, now, newID)
		} else {
			tx = NewIncomingTransaction(p)
		}

		if i, ok := indexByID[tx.ID]; ok {
			// A hidden change output never touches a visible entry.
			if tx.IsVisible() || !merged[i].IsVisible() {
				merged[i] = mergeEntry(merged[i], tx, p)
			}
			continue
		}
		if !tx.IsVisible() {
			continue
		}
		indexByID[tx.ID] = len(merged)
		merged = append(merged, tx)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}

// mergeEntry overlays a history entry on the one already in the ledger,
// keeping what the history batch does not carry, like a lifecycle status or
// a comment.
func mergeEntry(prev, tx Transaction, p TxPayload) Transaction {
	if !prev.IsVisible() {
		return tx
	}
	merged := prev.overlay(p)
	if _, ok := parseTimestamp(p.Timestamp); ok {
		merged.Timestamp = tx.Timestamp
	}
	if tx.Direction.IsSend() {
		merged.Direction = DirectionSend
	}
	if merged.Sender == "" {
		merged.Sender = tx.Sender
	}
	return merged
}

// PrependTransaction returns a new ledger with tx at its front. If an entry
// with the same id already exists, because the node redelivered the
// notification, it is overlaid in place instead.
func PrependTransaction(ledger []Transaction, tx Transaction) []Transaction {
	for i, t := range ledger {
		if t.ID != tx.ID {
			continue
		}
		txs := make([]Transaction, len(ledger))
		copy(txs, ledger)
		txs[i] = t.overlay(tx.payload())
		return txs
	}

	txs := make([]Transaction, 0, len(ledger)+1)
	txs = append(txs, tx)
	return append(txs, ledger...)
}

// UpdateTransactionStatus returns a new ledger where every entry with the
// payload tx hash carries the payload fields and is marked as a send. The
// second value reports whether any entry matched.
func UpdateTransactionStatus(
	ledger []Transaction, p TxPayload,
) ([]Transaction, bool) {
	txs := make([]Transaction, len(ledger))
	found := false
	for i, tx := range ledger {
		if p.TxHash != "" && tx.TxHash == p.TxHash {
			txs[i] = tx.withStatus(p)
			found = true
			continue
		}
		txs[i] = tx
	}
	return txs, found
}
