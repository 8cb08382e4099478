package domain

import "context"

// AccountRepository is the abstraction for any kind of database intended to
// persist the accounts of the current snapshot, so that they can be restored
// at startup.
type AccountRepository interface {
	// GetAllAccounts returns every persisted account.
	GetAllAccounts(ctx context.Context) (Accounts, error)
	// GetAccount returns the account with the given id or ErrAccountNotFound.
	GetAccount(ctx context.Context, id string) (*Account, error)
	// UpsertAccounts adds or replaces the given accounts.
	UpsertAccounts(ctx context.Context, accounts []*Account) error
	// DeleteAccounts removes the accounts with the given ids. Missing ones are
	// ignored.
	DeleteAccounts(ctx context.Context, ids []string) error
}

// SettingsRepository persists the wallet settings.
type SettingsRepository interface {
	// GetSettings returns the persisted settings or ErrSettingsNotFound.
	GetSettings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, settings Settings) error
}
