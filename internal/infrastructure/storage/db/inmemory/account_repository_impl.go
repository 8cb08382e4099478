package inmemory

import (
	"context"
	"sync"

	"github.com/stegos/walletd/internal/core/domain"
)

// AccountRepositoryImpl represents an in memory storage. Accounts are copied
// in and out so that callers never share memory with the store.
type AccountRepositoryImpl struct {
	accounts domain.Accounts

	lock *sync.RWMutex
}

// NewAccountRepositoryImpl returns a new empty AccountRepositoryImpl
func NewAccountRepositoryImpl() *AccountRepositoryImpl {
	return &AccountRepositoryImpl{
		accounts: domain.Accounts{},
		lock:     &sync.RWMutex{},
	}
}

func (r *AccountRepositoryImpl) GetAllAccounts(
	_ context.Context,
) (domain.Accounts, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.accounts.Copy(), nil
}

func (r *AccountRepositoryImpl) GetAccount(
	_ context.Context, id string,
) (*domain.Account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if _, ok := r.accounts.Get(id); !ok {
		return nil, domain.ErrAccountNotFound
	}
	return domain.Accounts{id: r.accounts[id]}.Copy()[id], nil
}

func (r *AccountRepositoryImpl) UpsertAccounts(
	_ context.Context, accounts []*domain.Account,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	updated := make(domain.Accounts, len(accounts))
	for _, acc := range accounts {
		if acc == nil {
			continue
		}
		updated[acc.ID] = acc
	}
	for id, acc := range updated.Copy() {
		r.accounts[id] = acc
	}
	return nil
}

func (r *AccountRepositoryImpl) DeleteAccounts(
	_ context.Context, ids []string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, id := range ids {
		delete(r.accounts, id)
	}
	return nil
}
