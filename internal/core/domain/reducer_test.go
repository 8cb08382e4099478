package domain_test

import (
	"testing"
	"time"

	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func newTestReducer(now *time.Time) domain.Reducer {
	return domain.Reducer{
		Now:   func() time.Time { return *now },
		NewID: newID,
	}
}

func reduceAll(
	r domain.Reducer, s domain.Snapshot, events ...domain.Event,
) domain.Snapshot {
	for _, ev := range events {
		s = r.Reduce(s, ev)
	}
	return s
}

func TestReduceAccounts(t *testing.T) {
	t.Parallel()

	now := t0
	r := newTestReducer(&now)

	t.Run("history_after_balance", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewBalanceInfo("a1", 500),
			domain.NewHistoryInfo("a1", []domain.TxPayload{{
				Type:      "outgoing",
				TxHash:    "h1",
				UTXO:      "u1",
				Timestamp: "2023-01-01T00:00:00Z",
			}}),
		)

		acc, ok := s.Account("a1")
		require.True(t, ok)
		require.Equal(t, int64(500), acc.Balance)
		require.Len(t, acc.Transactions, 1)
		require.Equal(t, domain.DirectionSend, acc.Transactions[0].Direction)
	})

	t.Run("optimistic_send_reconciled_by_status", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewTransactionCreated("a1", domain.TxPayload{TxHash: "h2"}),
		)
		acc, _ := s.Account("a1")
		require.Len(t, acc.Transactions, 1)
		require.Equal(t, now, acc.Transactions[0].Timestamp)

		s = r.Reduce(s, domain.NewTransactionStatus("a1", domain.TxPayload{
			TxHash: "h2",
			Status: "confirmed",
		}))
		acc, _ = s.Account("a1")
		require.Len(t, acc.Transactions, 1)
		require.Equal(t, "confirmed", acc.Transactions[0].Status)
		require.Equal(t, domain.DirectionSend, acc.Transactions[0].Direction)
	})

	t.Run("history_keeps_lifecycle_of_optimistic_send", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewTransactionCreated("a1", domain.TxPayload{
				TxHash:  "h1",
				Comment: "rent",
				Amount:  int64Ptr(10),
			}),
			domain.NewTransactionStatus("a1", domain.TxPayload{
				TxHash: "h1",
				Status: "committed",
			}),
			domain.NewHistoryInfo("a1", []domain.TxPayload{{
				Type:      "outgoing",
				TxHash:    "h1",
				Timestamp: "2023-01-01T00:00:03Z",
			}}),
		)

		acc, _ := s.Account("a1")
		require.Len(t, acc.Transactions, 1)
		tx := acc.Transactions[0]
		require.Equal(t, "committed", tx.Status)
		require.Equal(t, "rent", tx.Comment)
		require.Equal(t, int64(10), tx.Amount)
		require.Equal(t, t0.Add(3*time.Second), tx.Timestamp)
	})

	t.Run("balance_is_last_write_wins", func(t *testing.T) {
		t.Parallel()

		s := r.Reduce(domain.NewSnapshot(), domain.NewAccountCreated("a1"))
		for _, balance := range []int64{10, 3, 42, 7} {
			s = r.Reduce(s, domain.NewBalanceChanged("a1", balance))
		}
		acc, _ := s.Account("a1")
		require.Equal(t, int64(7), acc.Balance)
	})

	t.Run("lock_and_recovery", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewUnsealed("a1"),
			domain.NewRecovery("a1", " word1  word2\tword3 "),
		)
		acc, _ := s.Account("a1")
		require.False(t, acc.IsLocked)
		require.Equal(t, []string{"word1", "word2", "word3"}, acc.RecoveryPhrase)

		s = r.Reduce(s, domain.NewSealed("a1"))
		acc, _ = s.Account("a1")
		require.True(t, acc.IsLocked)
	})

	t.Run("local_intents", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("7"),
			domain.NewSetRestored("7"),
		)
		acc, _ := s.Account("7")
		require.Equal(t, "Restored account #7", acc.DisplayName())

		s = reduceAll(r, s,
			domain.NewSetAccountName("7", "savings"),
			domain.NewRecoveryPhraseWrittenDown("7"),
		)
		acc, _ = s.Account("7")
		require.Equal(t, "savings", acc.DisplayName())
		require.True(t, acc.IsRecoveryPhraseWrittenDown)
		require.True(t, acc.IsRestored)
	})

	t.Run("accounts_info_replaces_map", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewAccountInfo("a1", "pk1"),
			domain.NewBalanceInfo("a1", 100),
			domain.NewAccountCreated("a2"),
		)
		a1, _ := s.Account("a1")

		s = r.Reduce(s, domain.AccountsInfo{Accounts: map[string]string{
			"a1": "pk1",
			"a3": "pk3",
		}})
		require.Equal(t, []string{"a1", "a3"}, s.Accounts.IDs())

		same, _ := s.Account("a1")
		require.Same(t, a1, same)
		require.Equal(t, int64(100), same.Balance)

		a3, _ := s.Account("a3")
		require.Equal(t, "pk3", a3.Address)
		require.True(t, a3.IsLocked)
	})

	t.Run("unknown_account_is_noop", func(t *testing.T) {
		t.Parallel()

		s := r.Reduce(domain.NewSnapshot(), domain.NewAccountCreated("a1"))
		a1, _ := s.Account("a1")

		events := []domain.Event{
			domain.NewAccountInfo("zz", "pk"),
			domain.NewUnsealed("zz"),
			domain.NewBalanceChanged("zz", 1),
			domain.NewRecovery("zz", "a b"),
			domain.NewHistoryInfo("zz", []domain.TxPayload{{UTXO: "u"}}),
			domain.NewTransactionCreated("zz", domain.TxPayload{TxHash: "h"}),
			domain.NewTransactionStatus("zz", domain.TxPayload{TxHash: "h"}),
			domain.NewSetAccountName("zz", "name"),
			domain.NewSetRestored(""),
			domain.UnknownEvent{Type: "new_micro_block"},
		}
		for _, ev := range events {
			next := r.Reduce(s, ev)
			require.Equal(t, []string{"a1"}, next.Accounts.IDs(), ev.Kind())
			same, _ := next.Account("a1")
			require.Same(t, a1, same, ev.Kind())
		}
	})

	t.Run("untouched_accounts_keep_identity", func(t *testing.T) {
		t.Parallel()

		s := reduceAll(r, domain.NewSnapshot(),
			domain.NewAccountCreated("a1"),
			domain.NewAccountCreated("a2"),
		)
		a1, _ := s.Account("a1")
		a2, _ := s.Account("a2")

		next := r.Reduce(s, domain.NewBalanceChanged("a2", 9))
		nextA1, _ := next.Account("a1")
		nextA2, _ := next.Account("a2")
		require.Same(t, a1, nextA1)
		require.NotSame(t, a2, nextA2)
		require.Zero(t, a2.Balance)
	})

	t.Run("init_accounts_copies_input", func(t *testing.T) {
		t.Parallel()

		restored := domain.Accounts{"a1": domain.NewAccount("a1")}
		s := r.Reduce(domain.NewSnapshot(), domain.InitAccounts{Accounts: restored})

		acc, ok := s.Account("a1")
		require.True(t, ok)
		require.NotSame(t, restored["a1"], acc)
	})
}

func TestReduceNode(t *testing.T) {
	t.Parallel()

	t.Run("lifecycle", func(t *testing.T) {
		t.Parallel()

		now := t0
		r := newTestReducer(&now)

		node := r.ReduceNode(domain.NodeState{}, domain.NodeRunning{})
		require.True(t, node.IsStarted)
		node = r.ReduceNode(node, domain.TokenReceived{Token: "secret"})
		require.Equal(t, "secret", node.APIToken)
		node = r.ReduceNode(node, domain.ChannelOpened{})
		require.True(t, node.IsConnected)
		node = r.ReduceNode(node, domain.ChannelClosed{})
		require.False(t, node.IsConnected)
		node = r.ReduceNode(node, domain.NodeRunFailed{})
		require.False(t, node.IsStarted)
	})

	t.Run("progress", func(t *testing.T) {
		t.Parallel()

		now := t0.Add(100 * time.Second)
		r := newTestReducer(&now)

		node := r.ReduceNode(domain.NodeState{}, domain.EpochChanged{
			LastMacroBlockTimestamp: t0.Format(time.RFC3339),
		})
		require.Equal(t, t0, node.FirstReceivedBlockTimestamp)
		require.Zero(t, node.SyncingProgress)

		node = r.ReduceNode(node, domain.SyncChanged{
			LastMacroBlockTimestamp: t0.Add(50 * time.Second).Format(time.RFC3339),
		})
		require.Equal(t, 50, node.SyncingProgress)
		require.Equal(t, t0, node.FirstReceivedBlockTimestamp)
		require.Equal(t, t0.Add(50*time.Second), node.LastReceivedBlockTimestamp)

		// Out of order sample.
		node = r.ReduceNode(node, domain.EpochChanged{
			LastMacroBlockTimestamp: t0.Add(10 * time.Second).Format(time.RFC3339),
		})
		require.Equal(t, 50, node.SyncingProgress)

		// Clock skew.
		node = r.ReduceNode(node, domain.EpochChanged{
			LastMacroBlockTimestamp: t0.Add(300 * time.Second).Format(time.RFC3339),
		})
		require.Equal(t, 100, node.SyncingProgress)
		require.False(t, node.IsSynced)
	})

	t.Run("malformed_timestamp", func(t *testing.T) {
		t.Parallel()

		now := t0
		r := newTestReducer(&now)
		node := domain.NodeState{SyncingProgress: 30}

		next := r.ReduceNode(node, domain.EpochChanged{LastMacroBlockTimestamp: "yesterday"})
		require.Equal(t, node, next)
	})

	t.Run("synced", func(t *testing.T) {
		t.Parallel()

		now := t0
		r := newTestReducer(&now)
		node := domain.NodeState{SyncingProgress: 12}

		node = r.ReduceNode(node, domain.SyncChanged{IsSynchronized: true})
		require.True(t, node.IsSynced)
		require.Equal(t, 100, node.SyncingProgress)

		node = r.ReduceNode(node, domain.EpochChanged{
			LastMacroBlockTimestamp: t0.Add(-time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, 100, node.SyncingProgress)
	})
}

func TestReduceSettings(t *testing.T) {
	t.Parallel()

	r := domain.NewReducer()
	settings := domain.NewSettings()
	require.True(t, settings.IsFirstLaunch)
	require.Equal(t, domain.DefaultAutoLockTimeout, settings.AutoLockTimeout)

	tests := []struct {
		name  string
		event domain.Event
		check func(t *testing.T, s domain.Settings)
	}{
		{
			name:  "first_launch",
			event: domain.SetFirstLaunch{IsFirstLaunch: false},
			check: func(t *testing.T, s domain.Settings) { require.False(t, s.IsFirstLaunch) },
		},
		{
			name:  "password_set",
			event: domain.PasswordSet{},
			check: func(t *testing.T, s domain.Settings) { require.True(t, s.IsPasswordSet) },
		},
		{
			name:  "bugs_and_terms",
			event: domain.SetBugsAndTerms{SendBugReport: true},
			check: func(t *testing.T, s domain.Settings) {
				require.True(t, s.IsTermsAccepted)
				require.True(t, s.IsSendBugReport)
				require.True(t, s.IsBootstrappingComplete)
			},
		},
		{
			name:  "complete_onboarding",
			event: domain.CompleteOnboarding{},
			check: func(t *testing.T, s domain.Settings) { require.True(t, s.IsBootstrappingComplete) },
		},
		{
			name:  "auto_lock_timeout",
			event: domain.SetAutoLockTimeout{Minutes: 5},
			check: func(t *testing.T, s domain.Settings) { require.Equal(t, 5, s.AutoLockTimeout) },
		},
		{
			name:  "invalid_auto_lock_timeout",
			event: domain.SetAutoLockTimeout{Minutes: 0},
			check: func(t *testing.T, s domain.Settings) {
				require.Equal(t, domain.DefaultAutoLockTimeout, s.AutoLockTimeout)
			},
		},
		{
			name:  "show_error",
			event: domain.ShowError{Message: "boom"},
			check: func(t *testing.T, s domain.Settings) { require.Equal(t, "boom", s.Error) },
		},
		{
			name:  "lock",
			event: domain.LockWallet{},
			check: func(t *testing.T, s domain.Settings) { require.True(t, s.IsLocked) },
		},
		{
			name:  "init",
			event: domain.InitSettings{Settings: domain.Settings{AutoLockTimeout: 60}},
			check: func(t *testing.T, s domain.Settings) {
				require.Equal(t, domain.Settings{AutoLockTimeout: 60}, s)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, r.ReduceSettings(settings, tt.event))
		})
	}

	s := r.ReduceSettings(settings, domain.ShowError{Message: "boom"})
	s = r.ReduceSettings(s, domain.HideError{})
	require.Empty(t, s.Error)
	s = r.ReduceSettings(s, domain.UnlockWallet{})
	require.False(t, s.IsLocked)
}

func TestReduceSyncedScenario(t *testing.T) {
	t.Parallel()

	r := domain.NewReducer()
	s := domain.NewSnapshot()
	s.Node.SyncingProgress = 42

	s = r.Reduce(s, domain.SyncChanged{IsSynchronized: true})
	require.True(t, s.Node.IsSynced)
	require.Equal(t, 100, s.Node.SyncingProgress)

	require.Equal(t, s, r.Reduce(s, nil))
}
