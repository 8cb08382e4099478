package dbbadger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
	dbbadger "github.com/stegos/walletd/internal/infrastructure/storage/db/badger"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newRepoManager(t *testing.T, dir string) ports.RepoManager {
	repoManager, err := dbbadger.NewRepoManager(dir, nil)
	require.NoError(t, err)
	return repoManager
}

func newTestAccount(id string) *domain.Account {
	acc := domain.NewAccount(id)
	acc.Address = "pk" + id
	acc.Balance = 1500000
	acc.IsLocked = false
	acc.Transactions = []domain.Transaction{
		{
			ID:        "h1",
			Direction: domain.DirectionSend,
			Timestamp: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TxHash:    "h1",
			Amount:    1000,
			Fee:       10,
			Status:    "committed",
		},
		{
			ID:        "u1",
			Direction: domain.DirectionReceive,
			Timestamp: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			UTXO:      "u1",
			Amount:    500,
		},
	}
	acc.RecoveryPhrase = []string{"a", "b", "c"}
	return acc
}

// stored returns acc as it is read back from the store, without recovery
// phrase.
func stored(acc *domain.Account) *domain.Account {
	cp := *acc
	cp.RecoveryPhrase = []string{}
	return &cp
}

func TestAccountRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repoManager := newRepoManager(t, dir)
	repo := repoManager.AccountRepository()

	accounts, err := repo.GetAllAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)

	_, err = repo.GetAccount(ctx, "1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	a1, a2 := newTestAccount("1"), domain.NewAccount("2")
	require.NoError(t, repo.UpsertAccounts(ctx, []*domain.Account{a1, a2, nil}))

	acc, err := repo.GetAccount(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, stored(a1), acc)
	require.False(t, acc.HasRecoveryPhrase())
	require.Equal(t, []string{"a", "b", "c"}, a1.RecoveryPhrase)

	acc, err = repo.GetAccount(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, a2, acc)

	a1.Name = "savings"
	a1.Transactions = a1.Transactions[:1]
	require.NoError(t, repo.UpsertAccounts(ctx, []*domain.Account{a1}))

	require.NoError(t, repo.DeleteAccounts(ctx, []string{"2", "unknown"}))

	accounts, err = repo.GetAllAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Accounts{"1": stored(a1)}, accounts)

	repoManager.Close()

	// Accounts survive a restart.
	repoManager = newRepoManager(t, dir)
	defer repoManager.Close()

	accounts, err = repoManager.AccountRepository().GetAllAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Accounts{"1": stored(a1)}, accounts)
}

func TestSettingsRepository(t *testing.T) {
	t.Parallel()

	repoManager := newRepoManager(t, "")
	defer repoManager.Close()
	repo := repoManager.SettingsRepository()

	_, err := repo.GetSettings(ctx)
	require.ErrorIs(t, err, domain.ErrSettingsNotFound)

	settings := domain.NewSettings()
	settings.AutoLockTimeout = 10
	settings.IsTermsAccepted = true
	require.NoError(t, repo.UpdateSettings(ctx, settings))

	got, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, settings, *got)

	settings.IsFirstLaunch = false
	require.NoError(t, repo.UpdateSettings(ctx, settings))

	got, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	require.False(t, got.IsFirstLaunch)
}
