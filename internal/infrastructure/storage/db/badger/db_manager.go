package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type repoManager struct {
	accountStore  *badgerhold.Store
	settingsStore *badgerhold.Store

	accountRepository  domain.AccountRepository
	settingsRepository domain.SettingsRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It creates a dedicated directory for accounts and settings. An empty
// baseDbDir opens the stores in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var accountsDir, settingsDir string
	if baseDbDir != "" {
		accountsDir = filepath.Join(baseDbDir, "accounts")
		settingsDir = filepath.Join(baseDbDir, "settings")
	}

	accountStore, err := createDb(accountsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening accounts db: %w", err)
	}

	settingsStore, err := createDb(settingsDir, logger)
	if err != nil {
		accountStore.Close()
		return nil, fmt.Errorf("opening settings db: %w", err)
	}

	return &repoManager{
		accountStore:       accountStore,
		settingsStore:      settingsStore,
		accountRepository:  NewAccountRepositoryImpl(accountStore),
		settingsRepository: NewSettingsRepositoryImpl(settingsStore),
	}, nil
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) SettingsRepository() domain.SettingsRepository {
	return r.settingsRepository
}

func (r *repoManager) Close() {
	r.accountStore.Close()
	r.settingsStore.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD
	if isInMemory {
		opts.InMemory = true
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
