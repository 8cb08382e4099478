package inmemory

import (
	"context"
	"sync"

	"github.com/stegos/walletd/internal/core/domain"
)

type SettingsRepositoryImpl struct {
	settings *domain.Settings

	lock *sync.RWMutex
}

func NewSettingsRepositoryImpl() *SettingsRepositoryImpl {
	return &SettingsRepositoryImpl{lock: &sync.RWMutex{}}
}

func (r *SettingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	settings := *r.settings
	return &settings, nil
}

func (r *SettingsRepositoryImpl) UpdateSettings(
	_ context.Context, settings domain.Settings,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.settings = &settings
	return nil
}
