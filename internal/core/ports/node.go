package ports

import (
	"context"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
)

// NodeChannel is the streaming connection with the blockchain node. Every
// message received, as well as the lifecycle of the connection itself, is
// delivered as a domain.Event on the channel returned by Events, in arrival
// order.
type NodeChannel interface {
	// Start connects to the node in background and starts delivering events.
	// The connection is re-established when it drops.
	Start(ctx context.Context) error
	// Stop closes the connection and the events channel.
	Stop()
	Events() <-chan domain.Event
	// RequestAccountsInfo asks the node for the list of accounts.
	RequestAccountsInfo() error
	// RequestBalanceInfo asks the node for the balance of an account.
	RequestBalanceInfo(accountID string) error
	// RequestHistoryInfo asks the node for at most limit ledger entries of an
	// account, starting from the given time.
	RequestHistoryInfo(accountID string, startingFrom time.Time, limit int) error
}
