package domain

// Snapshot is the immutable state every consumer reads from. A new Snapshot
// is produced for every event, the previous one is never modified.
type Snapshot struct {
	Accounts Accounts
	Node     NodeState
	Settings Settings
}

func NewSnapshot() Snapshot {
	return Snapshot{
		Accounts: make(Accounts),
		Settings: NewSettings(),
	}
}

// Account returns the account with the given id, if any.
func (s Snapshot) Account(id string) (*Account, bool) {
	return s.Accounts.Get(id)
}
