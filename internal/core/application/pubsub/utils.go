package pubsub

import (
	"time"

	"github.com/stegos/walletd/internal/core/domain"
)

func getBalancePayload(prev, acc *domain.Account) map[string]interface{} {
	return map[string]interface{}{
		"account_id":         acc.ID,
		"account_name":       acc.DisplayName(),
		"balance":            acc.Balance,
		"formatted_balance":  domain.FormatAmount(acc.Balance),
		"previous_balance":   prev.Balance,
		"balance_difference": acc.Balance - prev.Balance,
	}
}

func getTransactionPayload(
	acc *domain.Account, tx domain.Transaction,
) map[string]interface{} {
	return map[string]interface{}{
		"account_id":   acc.ID,
		"account_name": acc.DisplayName(),
		"transaction": map[string]interface{}{
			"id":               tx.ID,
			"direction":        tx.Direction,
			"timestamp":        formatTime(tx.Timestamp),
			"tx_hash":          tx.TxHash,
			"utxo":             tx.UTXO,
			"amount":           tx.Amount,
			"formatted_amount": domain.FormatAmount(tx.Amount),
			"fee":              tx.Fee,
			"status":           tx.Status,
			"recipient":        tx.Recipient,
			"comment":          tx.Comment,
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
