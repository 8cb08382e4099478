package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetAllAccounts(
	_ context.Context,
) (domain.Accounts, error) {
	var list []domain.Account
	if err := r.store.Find(&list, nil); err != nil {
		return nil, err
	}

	accounts := make(domain.Accounts, len(list))
	for i := range list {
		acc := normalizeAccount(list[i])
		accounts[acc.ID] = acc
	}
	return accounts, nil
}

func (r *accountRepositoryImpl) GetAccount(
	_ context.Context, id string,
) (*domain.Account, error) {
	var account domain.Account
	if err := r.store.Get(id, &account); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return normalizeAccount(account), nil
}

func (r *accountRepositoryImpl) UpsertAccounts(
	_ context.Context, accounts []*domain.Account,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, acc := range accounts {
			if acc == nil {
				continue
			}
			// The recovery phrase is kept in memory only.
			stored := *acc
			stored.RecoveryPhrase = nil
			if err := r.store.TxUpsert(tx, acc.ID, stored); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *accountRepositoryImpl) DeleteAccounts(
	_ context.Context, ids []string,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := r.store.TxDelete(tx, id, domain.Account{}); err != nil {
				if errors.Is(err, badgerhold.ErrNotFound) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

// gob decodes empty slices as nil.
func normalizeAccount(acc domain.Account) *domain.Account {
	if acc.Transactions == nil {
		acc.Transactions = make([]domain.Transaction, 0)
	}
	if acc.RecoveryPhrase == nil {
		acc.RecoveryPhrase = make([]string, 0)
	}
	return &acc
}
