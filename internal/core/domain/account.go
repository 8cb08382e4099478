package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Account is the aggregate holding everything known about a wallet account.
// Accounts are never mutated once part of a snapshot: reducers work on
// copies.
type Account struct {
	ID                          string
	Name                        string
	Address                     string
	Balance                     int64
	IsLocked                    bool
	Transactions                []Transaction
	RecoveryPhrase              []string
	IsRecoveryPhraseWrittenDown bool
	IsRestored                  bool
}

// NewAccount returns an empty, locked account.
func NewAccount(id string) *Account {
	return &Account{
		ID:             id,
		IsLocked:       true,
		Transactions:   make([]Transaction, 0),
		RecoveryPhrase: make([]string, 0),
	}
}

// DisplayName returns the name set by the user or a default one based on
// the account id.
func (a *Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.IsRestored {
		return fmt.Sprintf("Restored account #%s", a.ID)
	}
	return fmt.Sprintf("Account #%s", a.ID)
}

// HasRecoveryPhrase returns whether the node already shared the account
// recovery phrase.
func (a *Account) HasRecoveryPhrase() bool {
	return len(a.RecoveryPhrase) > 0
}

// Transaction returns the ledger entry with the given id.
func (a *Account) Transaction(id string) (Transaction, bool) {
	for _, tx := range a.Transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

func (a *Account) clone() *Account {
	acc := *a
	acc.Transactions = append(make([]Transaction, 0, len(a.Transactions)), a.Transactions...)
	acc.RecoveryPhrase = append(make([]string, 0, len(a.RecoveryPhrase)), a.RecoveryPhrase...)
	return &acc
}

func splitRecoveryPhrase(phrase string) []string {
	return strings.Fields(phrase)
}

// Accounts maps account ids to their aggregate. A snapshot's Accounts is
// copy-on-write: an account left untouched by an event keeps its pointer in
// the next snapshot.
type Accounts map[string]*Account

// Get is the only way reducers resolve an account by id.
func (a Accounts) Get(id string) (*Account, bool) {
	if a == nil || id == "" {
		return nil, false
	}
	acc, ok := a[id]
	if !ok || acc == nil {
		return nil, false
	}
	return acc, true
}

// IDs returns the account ids in ascending order.
func (a Accounts) IDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns the accounts sorted by id.
func (a Accounts) List() []*Account {
	list := make([]*Account, 0, len(a))
	for _, id := range a.IDs() {
		list = append(list, a[id])
	}
	return list
}

// Copy returns a deep copy of the map. It is used whenever accounts cross the
// snapshot boundary, ie. when restoring persisted state.
func (a Accounts) Copy() Accounts {
	accounts := make(Accounts, len(a))
	for id, acc := range a {
		if acc == nil {
			continue
		}
		accounts[id] = acc.clone()
	}
	return accounts
}

// update returns a new map where the account with the given id is replaced
// by the result of fn applied to a copy of it. Unknown ids leave the map
// untouched.
func (a Accounts) update(id string, fn func(acc *Account)) Accounts {
	acc, ok := a.Get(id)
	if !ok {
		return a
	}
	updated := acc.clone()
	fn(updated)

	accounts := make(Accounts, len(a))
	for k, v := range a {
		accounts[k] = v
	}
	accounts[id] = updated
	return accounts
}

func (a Accounts) insert(acc *Account) Accounts {
	accounts := make(Accounts, len(a)+1)
	for k, v := range a {
		accounts[k] = v
	}
	accounts[acc.ID] = acc
	return accounts
}
