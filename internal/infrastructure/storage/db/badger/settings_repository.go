package dbbadger

import (
	"context"
	"errors"

	"github.com/stegos/walletd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const settingsKey = "settings"

type settingsRepositoryImpl struct {
	store *badgerhold.Store
}

func NewSettingsRepositoryImpl(store *badgerhold.Store) domain.SettingsRepository {
	return &settingsRepositoryImpl{store}
}

func (r *settingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	var settings domain.Settings
	if err := r.store.Get(settingsKey, &settings); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepositoryImpl) UpdateSettings(
	_ context.Context, settings domain.Settings,
) error {
	return r.store.Upsert(settingsKey, settings)
}
