package domain

// Wire discriminants of the events folded into a Snapshot. Node messages use
// the "type" field for account events and the "notification" field for chain
// events; local intents never travel on the wire but share the same naming.
const (
	EventAccountsInfo       = "accounts_info"
	EventAccountCreated     = "account_created"
	EventAccountInfo        = "account_info"
	EventUnsealed           = "unsealed"
	EventSealed             = "sealed"
	EventBalanceInfo        = "balance_info"
	EventBalanceChanged     = "balance_changed"
	EventRecovery           = "recovery"
	EventHistoryInfo        = "history_info"
	EventTransactionCreated = "transaction_created"
	EventTransactionStatus  = "transaction_status"

	EventSyncChanged  = "sync_changed"
	EventEpochChanged = "epoch_changed"

	EventNodeRunFailed = "node_run_failed"
	EventNodeRunning   = "node_running"
	EventTokenReceived = "token_received"
	EventChannelOpened = "channel_opened"
	EventChannelClosed = "channel_closed"

	EventSetAccountName            = "set_account_name"
	EventRecoveryPhraseWrittenDown = "recovery_phrase_written_down"
	EventSetRestored               = "set_restored"
	EventInitAccounts              = "init_accounts"

	EventSetFirstLaunch     = "set_first_launch"
	EventPasswordSet        = "password_set"
	EventSetBugsAndTerms    = "set_bugs_and_terms"
	EventCompleteOnboarding = "complete_onboarding"
	EventSetAutoLockTimeout = "set_auto_lock_timeout"
	EventShowError          = "show_error"
	EventHideError          = "hide_error"
	EventLockWallet         = "lock_wallet"
	EventUnlockWallet       = "unlock_wallet"
	EventInitSettings       = "init_settings"
)

// Event is the closed set of messages the Reducer knows how to fold. The
// unexported marker keeps implementations inside this package.
type Event interface {
	Kind() string
	event()
}

// AccountEvent is implemented by every event addressed to a single account.
type AccountEvent interface {
	Event
	GetAccountID() string
}

type accountRef struct {
	AccountID string
}

func (a accountRef) GetAccountID() string { return a.AccountID }

// UnknownEvent wraps a discriminant the reducer does not recognize. It never
// changes the snapshot.
type UnknownEvent struct {
	Type string
}

// AccountsInfo carries the full account list known by the node, keyed by
// account id with the account public key as value.
type AccountsInfo struct {
	Accounts map[string]string
}

type AccountCreated struct{ accountRef }

type AccountInfo struct {
	accountRef
	AccountPkey string
}

type Unsealed struct{ accountRef }

type Sealed struct{ accountRef }

type BalanceInfo struct {
	accountRef
	Current int64
}

type BalanceChanged struct {
	accountRef
	Current int64
}

type Recovery struct {
	accountRef
	Recovery string
}

type HistoryInfo struct {
	accountRef
	Log []TxPayload
}

type TransactionCreated struct {
	accountRef
	Tx TxPayload
}

type TransactionStatus struct {
	accountRef
	Tx TxPayload
}

// SyncChanged is notified by the node whenever its synchronization status
// changes. LastMacroBlockTimestamp is kept raw, it is parsed by the reducer.
type SyncChanged struct {
	IsSynchronized          bool
	LastMacroBlockTimestamp string
}

type EpochChanged struct {
	LastMacroBlockTimestamp string
}

type NodeRunFailed struct{}

type NodeRunning struct{}

type TokenReceived struct {
	Token string
}

type ChannelOpened struct{}

type ChannelClosed struct{}

type SetAccountName struct {
	accountRef
	Name string
}

type RecoveryPhraseWrittenDown struct{ accountRef }

type SetRestored struct{ accountRef }

// InitAccounts replaces the whole account map, used to restore the persisted
// state at startup.
type InitAccounts struct {
	Accounts Accounts
}

type SetFirstLaunch struct {
	IsFirstLaunch bool
}

type PasswordSet struct{}

type SetBugsAndTerms struct {
	SendBugReport bool
}

type CompleteOnboarding struct{}

type SetAutoLockTimeout struct {
	Minutes int
}

type ShowError struct {
	Message string
}

type HideError struct{}

type LockWallet struct{}

type UnlockWallet struct{}

type InitSettings struct {
	Settings Settings
}

func NewAccountCreated(accountID string) AccountCreated {
	return AccountCreated{accountRef{accountID}}
}

func NewAccountInfo(accountID, pkey string) AccountInfo {
	return AccountInfo{accountRef{accountID}, pkey}
}

func NewUnsealed(accountID string) Unsealed {
	return Unsealed{accountRef{accountID}}
}

func NewSealed(accountID string) Sealed {
	return Sealed{accountRef{accountID}}
}

func NewBalanceInfo(accountID string, current int64) BalanceInfo {
	return BalanceInfo{accountRef{accountID}, current}
}

func NewBalanceChanged(accountID string, current int64) BalanceChanged {
	return BalanceChanged{accountRef{accountID}, current}
}

func NewRecovery(accountID, phrase string) Recovery {
	return Recovery{accountRef{accountID}, phrase}
}

func NewHistoryInfo(accountID string, log []TxPayload) HistoryInfo {
	return HistoryInfo{accountRef{accountID}, log}
}

func NewTransactionCreated(accountID string, tx TxPayload) TransactionCreated {
	return TransactionCreated{accountRef{accountID}, tx}
}

func NewTransactionStatus(accountID string, tx TxPayload) TransactionStatus {
	return TransactionStatus{accountRef{accountID}, tx}
}

func NewSetAccountName(accountID, name string) SetAccountName {
	return SetAccountName{accountRef{accountID}, name}
}

func NewRecoveryPhraseWrittenDown(accountID string) RecoveryPhraseWrittenDown {
	return RecoveryPhraseWrittenDown{accountRef{accountID}}
}

func NewSetRestored(accountID string) SetRestored {
	return SetRestored{accountRef{accountID}}
}

func (e UnknownEvent) Kind() string            { return e.Type }
func (AccountsInfo) Kind() string              { return EventAccountsInfo }
func (AccountCreated) Kind() string            { return EventAccountCreated }
func (AccountInfo) Kind() string               { return EventAccountInfo }
func (Unsealed) Kind() string                  { return EventUnsealed }
func (Sealed) Kind() string                    { return EventSealed }
func (BalanceInfo) Kind() string               { return EventBalanceInfo }
func (BalanceChanged) Kind() string            { return EventBalanceChanged }
func (Recovery) Kind() string                  { return EventRecovery }
func (HistoryInfo) Kind() string               { return EventHistoryInfo }
func (TransactionCreated) Kind() string        { return EventTransactionCreated }
func (TransactionStatus) Kind() string         { return EventTransactionStatus }
func (SyncChanged) Kind() string               { return EventSyncChanged }
func (EpochChanged) Kind() string              { return EventEpochChanged }
func (NodeRunFailed) Kind() string             { return EventNodeRunFailed }
func (NodeRunning) Kind() string               { return EventNodeRunning }
func (TokenReceived) Kind() string             { return EventTokenReceived }
func (ChannelOpened) Kind() string             { return EventChannelOpened }
func (ChannelClosed) Kind() string             { return EventChannelClosed }
func (SetAccountName) Kind() string            { return EventSetAccountName }
func (RecoveryPhraseWrittenDown) Kind() string { return EventRecoveryPhraseWrittenDown }
func (SetRestored) Kind() string               { return EventSetRestored }
func (InitAccounts) Kind() string              { return EventInitAccounts }
func (SetFirstLaunch) Kind() string            { return EventSetFirstLaunch }
func (PasswordSet) Kind() string               { return EventPasswordSet }
func (SetBugsAndTerms) Kind() string           { return EventSetBugsAndTerms }
func (CompleteOnboarding) Kind() string        { return EventCompleteOnboarding }
func (SetAutoLockTimeout) Kind() string        { return EventSetAutoLockTimeout }
func (ShowError) Kind() string                 { return EventShowError }
func (HideError) Kind() string                 { return EventHideError }
func (LockWallet) Kind() string                { return EventLockWallet }
func (UnlockWallet) Kind() string              { return EventUnlockWallet }
func (InitSettings) Kind() string              { return EventInitSettings }

func (UnknownEvent) event()              {}
func (AccountsInfo) event()              {}
func (AccountCreated) event()            {}
func (AccountInfo) event()               {}
func (Unsealed) event()                  {}
func (Sealed) event()                    {}
func (BalanceInfo) event()               {}
func (BalanceChanged) event()            {}
func (Recovery) event()                  {}
func (HistoryInfo) event()               {}
func (TransactionCreated) event()        {}
func (TransactionStatus) event()         {}
func (SyncChanged) event()               {}
func (EpochChanged) event()              {}
func (NodeRunFailed) event()             {}
func (NodeRunning) event()               {}
func (TokenReceived) event()             {}
func (ChannelOpened) event()             {}
func (ChannelClosed) event()             {}
func (SetAccountName) event()            {}
func (RecoveryPhraseWrittenDown) event() {}
func (SetRestored) event()               {}
func (InitAccounts) event()              {}
func (SetFirstLaunch) event()            {}
func (PasswordSet) event()               {}
func (SetBugsAndTerms) event()           {}
func (CompleteOnboarding) event()        {}
func (SetAutoLockTimeout) event()        {}
func (ShowError) event()                 {}
func (HideError) event()                 {}
func (LockWallet) event()                {}
func (UnlockWallet) event()              {}
func (InitSettings) event()              {}
