package application_test

import (
	"context"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// **** Node channel ****

type mockNodeChannel struct {
	mock.Mock
	events chan domain.Event
}

func newMockNodeChannel() *mockNodeChannel {
	return &mockNodeChannel{events: make(chan domain.Event)}
}

func (m *mockNodeChannel) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockNodeChannel) Stop() {
	m.Called()
}

func (m *mockNodeChannel) Events() <-chan domain.Event {
	return m.events
}

func (m *mockNodeChannel) RequestAccountsInfo() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockNodeChannel) RequestBalanceInfo(accountID string) error {
	args := m.Called(accountID)
	return args.Error(0)
}

func (m *mockNodeChannel) RequestHistoryInfo(
	accountID string, startingFrom time.Time, limit int,
) error {
	args := m.Called(accountID, startingFrom, limit)
	return args.Error(0)
}

// **** Repositories ****

type mockRepoManager struct {
	accountRepository  *mockAccountRepository
	settingsRepository *mockSettingsRepository
}

func newMockRepoManager() *mockRepoManager {
	return &mockRepoManager{
		accountRepository:  &mockAccountRepository{},
		settingsRepository: &mockSettingsRepository{},
	}
}

func (m *mockRepoManager) AccountRepository() domain.AccountRepository {
	return m.accountRepository
}

func (m *mockRepoManager) SettingsRepository() domain.SettingsRepository {
	return m.settingsRepository
}

func (m *mockRepoManager) Close() {}

var _ ports.RepoManager = (*mockRepoManager)(nil)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) GetAllAccounts(
	ctx context.Context,
) (domain.Accounts, error) {
	args := m.Called(ctx)

	var res domain.Accounts
	if a := args.Get(0); a != nil {
		res = a.(domain.Accounts)
	}
	return res, args.Error(1)
}

func (m *mockAccountRepository) GetAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	args := m.Called(ctx, id)

	var res *domain.Account
	if a := args.Get(0); a != nil {
		res = a.(*domain.Account)
	}
	return res, args.Error(1)
}

func (m *mockAccountRepository) UpsertAccounts(
	ctx context.Context, accounts []*domain.Account,
) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *mockAccountRepository) DeleteAccounts(
	ctx context.Context, ids []string,
) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

type mockSettingsRepository struct {
	mock.Mock
}

func (m *mockSettingsRepository) GetSettings(
	ctx context.Context,
) (*domain.Settings, error) {
	args := m.Called(ctx)

	var res *domain.Settings
	if a := args.Get(0); a != nil {
		res = a.(*domain.Settings)
	}
	return res, args.Error(1)
}

func (m *mockSettingsRepository) UpdateSettings(
	ctx context.Context, settings domain.Settings,
) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// **** Publisher ****

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishChanges(prev, next domain.Snapshot) {
	m.Called(prev, next)
}

// **** Metrics ****

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) ObserveEvent(kind string) {
	m.Called(kind)
}

func (m *mockMetrics) SetAccounts(count int) {
	m.Called(count)
}

func (m *mockMetrics) SetAccount(id string, balance int64, ledgerEntries int) {
	m.Called(id, balance, ledgerEntries)
}

func (m *mockMetrics) DeleteAccount(id string) {
	m.Called(id)
}

func (m *mockMetrics) SetNode(connected, synced bool, progress int) {
	m.Called(connected, synced, progress)
}
