package inmemory

import (
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
)

type RepoManager struct {
	accountRepository  domain.AccountRepository
	settingsRepository domain.SettingsRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		accountRepository:  NewAccountRepositoryImpl(),
		settingsRepository: NewSettingsRepositoryImpl(),
	}
}

func (d *RepoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *RepoManager) SettingsRepository() domain.SettingsRepository {
	return d.settingsRepository
}

func (d *RepoManager) Close() {}
