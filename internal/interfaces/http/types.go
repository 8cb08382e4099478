package httpinterface

import (
	"time"

	"github.com/stegos/walletd/internal/core/domain"
)

type transaction struct {
	ID              string    `json:"id"`
	Direction       string    `json:"direction"`
	Timestamp       time.Time `json:"timestamp"`
	TxHash          string    `json:"tx_hash,omitempty"`
	UTXO            string    `json:"utxo,omitempty"`
	Sender          string    `json:"sender,omitempty"`
	Recipient       string    `json:"recipient,omitempty"`
	Comment         string    `json:"comment,omitempty"`
	Amount          int64     `json:"amount"`
	FormattedAmount string    `json:"formatted_amount"`
	Fee             int64     `json:"fee"`
	Status          string    `json:"status,omitempty"`
	IsChange        bool      `json:"is_change"`
}

type account struct {
	ID                          string        `json:"id"`
	Name                        string        `json:"name"`
	Address                     string        `json:"address"`
	Balance                     int64         `json:"balance"`
	FormattedBalance            string        `json:"formatted_balance"`
	IsLocked                    bool          `json:"is_locked"`
	HasRecoveryPhrase           bool          `json:"has_recovery_phrase"`
	IsRecoveryPhraseWrittenDown bool          `json:"is_recovery_phrase_written_down"`
	IsRestored                  bool          `json:"is_restored"`
	RecoveryPhrase              []string      `json:"recovery_phrase,omitempty"`
	Transactions                []transaction `json:"transactions"`
}

type node struct {
	IsStarted                   bool       `json:"is_started"`
	IsConnected                 bool       `json:"is_connected"`
	IsSynced                    bool       `json:"is_synced"`
	SyncingProgress             int        `json:"syncing_progress"`
	FirstReceivedBlockTimestamp *time.Time `json:"first_received_block_timestamp,omitempty"`
	LastReceivedBlockTimestamp  *time.Time `json:"last_received_block_timestamp,omitempty"`
}

type settings struct {
	IsFirstLaunch           bool   `json:"is_first_launch"`
	IsBootstrappingComplete bool   `json:"is_bootstrapping_complete"`
	IsPasswordSet           bool   `json:"is_password_set"`
	IsSendBugReport         bool   `json:"is_send_bug_report"`
	IsTermsAccepted         bool   `json:"is_terms_accepted"`
	AutoLockTimeout         int    `json:"auto_lock_timeout"`
	IsLocked                bool   `json:"is_locked"`
	Error                   string `json:"error,omitempty"`
}

type snapshot struct {
	Accounts []account `json:"accounts"`
	Node     node      `json:"node"`
	Settings settings  `json:"settings"`
}

func fromTransaction(tx domain.Transaction) transaction {
	return transaction{
		ID:              tx.ID,
		Direction:       string(tx.Direction),
		Timestamp:       tx.Timestamp,
		TxHash:          tx.TxHash,
		UTXO:            tx.UTXO,
		Sender:          tx.Sender,
		Recipient:       tx.Recipient,
		Comment:         tx.Comment,
		Amount:          tx.Amount,
		FormattedAmount: domain.FormatAmount(tx.Amount),
		Fee:             tx.Fee,
		Status:          tx.Status,
		IsChange:        tx.IsChange,
	}
}

func fromTransactions(txs []domain.Transaction) []transaction {
	list := make([]transaction, 0, len(txs))
	for _, tx := range txs {
		list = append(list, fromTransaction(tx))
	}
	return list
}

// fromAccount never exposes the recovery phrase, see fromAccountDetails.
func fromAccount(acc *domain.Account) account {
	return account{
		ID:                          acc.ID,
		Name:                        acc.DisplayName(),
		Address:                     acc.Address,
		Balance:                     acc.Balance,
		FormattedBalance:            domain.FormatAmount(acc.Balance),
		IsLocked:                    acc.IsLocked,
		HasRecoveryPhrase:           acc.HasRecoveryPhrase(),
		IsRecoveryPhraseWrittenDown: acc.IsRecoveryPhraseWrittenDown,
		IsRestored:                  acc.IsRestored,
		Transactions:                fromTransactions(acc.Transactions),
	}
}

func fromAccountDetails(acc *domain.Account) account {
	a := fromAccount(acc)
	if acc.HasRecoveryPhrase() {
		a.RecoveryPhrase = acc.RecoveryPhrase
	}
	return a
}

func fromAccounts(accounts []*domain.Account) []account {
	list := make([]account, 0, len(accounts))
	for _, acc := range accounts {
		list = append(list, fromAccount(acc))
	}
	return list
}

func fromNode(n domain.NodeState) node {
	return node{
		IsStarted:                   n.IsStarted,
		IsConnected:                 n.IsConnected,
		IsSynced:                    n.IsSynced,
		SyncingProgress:             n.SyncingProgress,
		FirstReceivedBlockTimestamp: timeOrNil(n.FirstReceivedBlockTimestamp),
		LastReceivedBlockTimestamp:  timeOrNil(n.LastReceivedBlockTimestamp),
	}
}

func fromSettings(s domain.Settings) settings {
	return settings{
		IsFirstLaunch:           s.IsFirstLaunch,
		IsBootstrappingComplete: s.IsBootstrappingComplete,
		IsPasswordSet:           s.IsPasswordSet,
		IsSendBugReport:         s.IsSendBugReport,
		IsTermsAccepted:         s.IsTermsAccepted,
		AutoLockTimeout:         s.AutoLockTimeout,
		IsLocked:                s.IsLocked,
		Error:                   s.Error,
	}
}

func fromSnapshot(s domain.Snapshot) snapshot {
	return snapshot{
		Accounts: fromAccounts(s.Accounts.List()),
		Node:     fromNode(s.Node),
		Settings: fromSettings(s.Settings),
	}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

type setNameRequest struct {
	Name string `json:"name"`
}

type autoLockRequest struct {
	Minutes int `json:"minutes"`
}

type termsRequest struct {
	SendBugReport bool `json:"send_bug_report"`
}

type errorRequest struct {
	Message string `json:"message"`
}

type addWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type addWebhookResponse struct {
	ID string `json:"id"`
}
