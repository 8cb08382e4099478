package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reducer folds events into snapshots. It is stateless: Now and NewID are the
// only sources of non-determinism, used when stamping optimistic entries.
type Reducer struct {
	Now   func() time.Time
	NewID func() string
}

func NewReducer() Reducer {
	return Reducer{
		Now:   time.Now,
		NewID: func() string { return uuid.New().String() },
	}
}

// Reduce returns the snapshot resulting from applying ev to s. Aggregates
// the event does not concern are returned as they are.
func (r Reducer) Reduce(s Snapshot, ev Event) Snapshot {
	if ev == nil {
		return s
	}
	return Snapshot{
		Accounts: r.ReduceAccounts(s.Accounts, ev),
		Node:     r.ReduceNode(s.Node, ev),
		Settings: r.ReduceSettings(s.Settings, ev),
	}
}

// ReduceAccounts applies ev to the account map. Events referring to an
// unknown account leave the map untouched.
func (r Reducer) ReduceAccounts(accounts Accounts, ev Event) Accounts {
	switch e := ev.(type) {
	case AccountsInfo:
		next := make(Accounts, len(e.Accounts))
		for id, address := range e.Accounts {
			acc, ok := accounts.Get(id)
			if !ok {
				acc = NewAccount(id)
			}
			if acc.Address != address {
				acc = acc.clone()
				acc.Address = address
			}
			next[id] = acc
		}
		return next

	case AccountCreated:
		if e.AccountID == "" {
			return accounts
		}
		return accounts.insert(NewAccount(e.AccountID))

	case AccountInfo:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Address = e.AccountPkey
		})

	case Unsealed:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.IsLocked = false
		})

	case Sealed:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.IsLocked = true
		})

	case BalanceInfo:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Balance = e.Current
		})

	case BalanceChanged:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Balance = e.Current
		})

	case Recovery:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.RecoveryPhrase = splitRecoveryPhrase(e.Recovery)
		})

	case HistoryInfo:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Transactions = MergeLedger(
				acc.Transactions, e.Log, acc, r.now(), r.newID,
			)
		})

	case TransactionCreated:
		return accounts.update(e.AccountID, func(acc *Account) {
			tx := NewOutgoingTransaction(e.Tx, acc, r.now(), r.newID)
			acc.Transactions = PrependTransaction(acc.Transactions, tx)
		})

	case TransactionStatus:
		acc, ok := accounts.Get(e.AccountID)
		if !ok {
			return accounts
		}
		txs, found := UpdateTransactionStatus(acc.Transactions, e.Tx)
		if !found {
			return accounts
		}
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Transactions = txs
		})

	case SetAccountName:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.Name = e.Name
		})

	case RecoveryPhraseWrittenDown:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.IsRecoveryPhraseWrittenDown = true
		})

	case SetRestored:
		return accounts.update(e.AccountID, func(acc *Account) {
			acc.IsRestored = true
		})

	case InitAccounts:
		return e.Accounts.Copy()

	default:
		return accounts
	}
}

// ReduceNode applies ev to the node connectivity state.
func (r Reducer) ReduceNode(node NodeState, ev Event) NodeState {
	switch e := ev.(type) {
	case NodeRunFailed:
		node.IsStarted = false
	case NodeRunning:
		node.IsStarted = true
	case TokenReceived:
		node.APIToken = e.Token
	case ChannelOpened:
		node.IsConnected = true
	case ChannelClosed:
		node.IsConnected = false
	case SyncChanged:
		if e.IsSynchronized {
			node.IsSynced = true
			node.SyncingProgress = maxSyncingProgress
			return node
		}
		return node.withBlockTimestamp(e.LastMacroBlockTimestamp, r.now())
	case EpochChanged:
		return node.withBlockTimestamp(e.LastMacroBlockTimestamp, r.now())
	}
	return node
}

// ReduceSettings applies ev to the wallet settings.
func (r Reducer) ReduceSettings(settings Settings, ev Event) Settings {
	switch e := ev.(type) {
	case SetFirstLaunch:
		settings.IsFirstLaunch = e.IsFirstLaunch
	case PasswordSet:
		settings.IsPasswordSet = true
	case SetBugsAndTerms:
		settings.IsTermsAccepted = true
		settings.IsSendBugReport = e.SendBugReport
		settings.IsBootstrappingComplete = true
	case CompleteOnboarding:
		settings.IsBootstrappingComplete = true
	case SetAutoLockTimeout:
		if e.Minutes > 0 {
			settings.AutoLockTimeout = e.Minutes
		}
	case ShowError:
		settings.Error = e.Message
	case HideError:
		settings.Error = ""
	case LockWallet:
		settings.IsLocked = true
	case UnlockWallet:
		settings.IsLocked = false
	case InitSettings:
		return e.Settings
	}
	return settings
}

func (r Reducer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r Reducer) newID() string {
	if r.NewID == nil {
		return uuid.New().String()
	}
	return r.NewID()
}
