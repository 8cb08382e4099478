package ports

import "github.com/stegos/walletd/internal/core/domain"

// RepoManager interface defines the methods for accounts and settings
// repositories.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	SettingsRepository() domain.SettingsRepository
	Close()
}
