package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
	"go.uber.org/ratelimit"
)

// SnapshotPublisher is notified of every snapshot transition. It must not
// block the caller.
type SnapshotPublisher interface {
	PublishChanges(prev, next domain.Snapshot)
}

// MetricsCollector is fed with the wallet state after every event.
type MetricsCollector interface {
	ObserveEvent(kind string)
	SetAccounts(count int)
	SetAccount(id string, balance int64, ledgerEntries int)
	DeleteAccount(id string)
	SetNode(connected, synced bool, progress int)
}

type LedgerServiceConfig struct {
	// RequestRate is the max number of requests per second sent to the node.
	RequestRate      int
	HistoryDepthDays int
	HistoryLimit     int
}

func (c LedgerServiceConfig) withDefaults() LedgerServiceConfig {
	if c.RequestRate <= 0 {
		c.RequestRate = DefaultRequestRate
	}
	if c.HistoryDepthDays <= 0 {
		c.HistoryDepthDays = DefaultHistoryDepthDays
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	return c
}

// LedgerService is the single holder of the current wallet snapshot. It
// folds the events coming from the node and the local intents, strictly in
// arrival order, into a new snapshot and takes care of the side effects:
// persistence, account bootstrap requests, webhooks, metrics and snapshot
// subscribers.
type LedgerService struct {
	node        ports.NodeChannel
	repoManager ports.RepoManager
	publisher   SnapshotPublisher
	metrics     MetricsCollector
	reducer     domain.Reducer
	limiter     ratelimit.Limiter
	cfg         LedgerServiceConfig

	lock     sync.RWMutex
	snapshot domain.Snapshot
	started  bool

	intents chan intent
	quit    chan struct{}
	wg      sync.WaitGroup

	subscribersLock sync.Mutex
	subscribers     map[string]chan domain.Snapshot
}

type intent struct {
	event  domain.Event
	result chan domain.Snapshot
}

// NewLedgerService returns a new service. The publisher and the metrics
// collector are optional.
func NewLedgerService(
	node ports.NodeChannel,
	repoManager ports.RepoManager,
	publisher SnapshotPublisher,
	metrics MetricsCollector,
	reducer domain.Reducer,
	cfg LedgerServiceConfig,
) *LedgerService {
	cfg = cfg.withDefaults()
	return &LedgerService{
		node:        node,
		repoManager: repoManager,
		publisher:   publisher,
		metrics:     metrics,
		reducer:     reducer,
		limiter:     ratelimit.New(cfg.RequestRate),
		cfg:         cfg,
		snapshot:    domain.NewSnapshot(),
		intents:     make(chan intent),
		quit:        make(chan struct{}),
		subscribers: make(map[string]chan domain.Snapshot),
	}
}

// Start restores the persisted state, connects to the node and starts
// folding events.
func (s *LedgerService) Start(ctx context.Context) error {
	if s.isStarted() {
		return ErrServiceAlreadyStarted
	}

	if err := s.restore(ctx); err != nil {
		return err
	}
	if err := s.node.Start(ctx); err != nil {
		return fmt.Errorf("starting node channel: %w", err)
	}

	s.lock.Lock()
	s.started = true
	s.lock.Unlock()

	s.wg.Add(1)
	go s.listen()

	log.Info("ledger service started")
	return nil
}

// Stop disconnects from the node and waits for the pending work to be done.
// Subscribers channels are closed.
func (s *LedgerService) Stop() {
	s.lock.Lock()
	if !s.started {
		s.lock.Unlock()
		return
	}
	s.started = false
	s.lock.Unlock()

	close(s.quit)
	s.node.Stop()
	s.wg.Wait()

	s.subscribersLock.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.subscribersLock.Unlock()

	log.Info("ledger service stopped")
}

// Snapshot returns the current snapshot. It must be treated as read-only.
func (s *LedgerService) Snapshot() domain.Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot
}

func (s *LedgerService) Node() domain.NodeState {
	return s.Snapshot().Node
}

func (s *LedgerService) Settings() domain.Settings {
	return s.Snapshot().Settings
}

// Accounts returns the known accounts sorted by id.
func (s *LedgerService) Accounts() []*domain.Account {
	return s.Snapshot().Accounts.List()
}

func (s *LedgerService) Account(id string) (*domain.Account, error) {
	acc, ok := s.Snapshot().Account(id)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// Apply folds a local intent into the current snapshot and returns the
// resulting one. The intent is serialized with the events coming from the
// node.
func (s *LedgerService) Apply(
	ctx context.Context, ev domain.Event,
) (domain.Snapshot, error) {
	if !s.isStarted() {
		return domain.Snapshot{}, ErrServiceNotStarted
	}

	in := intent{ev, make(chan domain.Snapshot, 1)}
	select {
	case s.intents <- in:
	case <-s.quit:
		return domain.Snapshot{}, ErrServiceNotStarted
	case <-ctx.Done():
		return domain.Snapshot{}, ctx.Err()
	}

	select {
	case snapshot := <-in.result:
		return snapshot, nil
	case <-ctx.Done():
		return domain.Snapshot{}, ctx.Err()
	}
}

func (s *LedgerService) SetAccountName(
	ctx context.Context, accountID, name string,
) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidAccountName
	}
	return s.applyToAccount(ctx, domain.NewSetAccountName(accountID, name))
}

func (s *LedgerService) MarkRecoveryPhraseWrittenDown(
	ctx context.Context, accountID string,
) (*domain.Account, error) {
	return s.applyToAccount(ctx, domain.NewRecoveryPhraseWrittenDown(accountID))
}

func (s *LedgerService) MarkRestored(
	ctx context.Context, accountID string,
) (*domain.Account, error) {
	return s.applyToAccount(ctx, domain.NewSetRestored(accountID))
}

func (s *LedgerService) SetAutoLockTimeout(
	ctx context.Context, minutes int,
) (domain.Settings, error) {
	if minutes <= 0 {
		return domain.Settings{}, ErrInvalidAutoLockTimeout
	}
	return s.applyToSettings(ctx, domain.SetAutoLockTimeout{Minutes: minutes})
}

func (s *LedgerService) LockWallet(ctx context.Context) (domain.Settings, error) {
	return s.applyToSettings(ctx, domain.LockWallet{})
}

func (s *LedgerService) UnlockWallet(ctx context.Context) (domain.Settings, error) {
	return s.applyToSettings(ctx, domain.UnlockWallet{})
}

// AcceptTerms records the acceptance of the terms of use, which also
// completes the bootstrap of the wallet.
func (s *LedgerService) AcceptTerms(
	ctx context.Context, sendBugReport bool,
) (domain.Settings, error) {
	return s.applyToSettings(ctx, domain.SetBugsAndTerms{SendBugReport: sendBugReport})
}

// CompleteOnboarding marks the first launch as done.
func (s *LedgerService) CompleteOnboarding(
	ctx context.Context,
) (domain.Settings, error) {
	if _, err := s.Apply(ctx, domain.SetFirstLaunch{IsFirstLaunch: false}); err != nil {
		return domain.Settings{}, err
	}
	return s.applyToSettings(ctx, domain.CompleteOnboarding{})
}

func (s *LedgerService) MarkPasswordSet(ctx context.Context) (domain.Settings, error) {
	return s.applyToSettings(ctx, domain.PasswordSet{})
}

func (s *LedgerService) ShowError(
	ctx context.Context, message string,
) (domain.Settings, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Settings{}, ErrMissingErrorMessage
	}
	return s.applyToSettings(ctx, domain.ShowError{Message: message})
}

func (s *LedgerService) HideError(ctx context.Context) (domain.Settings, error) {
	return s.applyToSettings(ctx, domain.HideError{})
}

// Subscribe returns a channel receiving every new snapshot. A subscriber
// that does not keep up misses intermediate snapshots but always receives
// the latest one.
func (s *LedgerService) Subscribe() (string, <-chan domain.Snapshot) {
	s.subscribersLock.Lock()
	defer s.subscribersLock.Unlock()

	id := uuid.New().String()
	ch := make(chan domain.Snapshot, subscriberBufferSize)
	s.subscribers[id] = ch
	return id, ch
}

func (s *LedgerService) Unsubscribe(id string) {
	s.subscribersLock.Lock()
	defer s.subscribersLock.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

func (s *LedgerService) applyToAccount(
	ctx context.Context, ev domain.AccountEvent,
) (*domain.Account, error) {
	if _, ok := s.Snapshot().Account(ev.GetAccountID()); !ok {
		return nil, ErrAccountNotFound
	}
	snapshot, err := s.Apply(ctx, ev)
	if err != nil {
		return nil, err
	}
	acc, ok := snapshot.Account(ev.GetAccountID())
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

func (s *LedgerService) applyToSettings(
	ctx context.Context, ev domain.Event,
) (domain.Settings, error) {
	snapshot, err := s.Apply(ctx, ev)
	if err != nil {
		return domain.Settings{}, err
	}
	return snapshot.Settings, nil
}

func (s *LedgerService) isStarted() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.started
}

func (s *LedgerService) restore(ctx context.Context) error {
	if s.repoManager == nil {
		return nil
	}

	accounts, err := s.repoManager.AccountRepository().GetAllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("restoring accounts: %w", err)
	}
	settings, err := s.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil && !errors.Is(err, domain.ErrSettingsNotFound) {
		return fmt.Errorf("restoring settings: %w", err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if len(accounts) > 0 {
		s.snapshot = s.reducer.Reduce(
			s.snapshot, domain.InitAccounts{Accounts: accounts},
		)
	}
	if settings != nil {
		s.snapshot = s.reducer.Reduce(
			s.snapshot, domain.InitSettings{Settings: *settings},
		)
	}

	log.Debugf("restored %d accounts", len(accounts))
	return nil
}

func (s *LedgerService) listen() {
	defer s.wg.Done()

	events := s.node.Events()
	for {
		select {
		case <-s.quit:
			return
		case ev, ok := <-events:
			if !ok {
				// The node channel is gone, keep serving local intents.
				events = nil
				continue
			}
			s.apply(ev)
		case in := <-s.intents:
			in.result <- s.apply(in.event)
		}
	}
}

func (s *LedgerService) apply(ev domain.Event) domain.Snapshot {
	s.lock.Lock()
	prev := s.snapshot
	next := s.reducer.Reduce(prev, ev)
	s.snapshot = next
	s.lock.Unlock()

	logEvent(ev)

	changed, removed := diffAccounts(prev.Accounts, next.Accounts)
	s.observe(ev, prev, next, changed, removed)
	s.persist(prev, next, changed, removed)
	s.bootstrap(ev, next)

	if s.publisher != nil {
		s.publisher.PublishChanges(prev, next)
	}
	s.notifySubscribers(next)

	return next
}

func (s *LedgerService) observe(
	ev domain.Event, prev, next domain.Snapshot,
	changed []*domain.Account, removed []string,
) {
	if s.metrics == nil {
		return
	}

	s.metrics.ObserveEvent(ev.Kind())
	if prev.Node != next.Node {
		s.metrics.SetNode(
			next.Node.IsConnected, next.Node.IsSynced, next.Node.SyncingProgress,
		)
	}
	if len(changed) <= 0 && len(removed) <= 0 {
		return
	}
	s.metrics.SetAccounts(len(next.Accounts))
	for _, acc := range changed {
		s.metrics.SetAccount(acc.ID, acc.Balance, len(acc.Transactions))
	}
	for _, id := range removed {
		s.metrics.DeleteAccount(id)
	}
}

func (s *LedgerService) persist(
	prev, next domain.Snapshot, changed []*domain.Account, removed []string,
) {
	if s.repoManager == nil {
		return
	}
	ctx := context.Background()

	if len(changed) > 0 {
		if err := s.repoManager.AccountRepository().UpsertAccounts(
			ctx, changed,
		); err != nil {
			log.WithError(err).Warn("failed to persist accounts")
		}
	}
	if len(removed) > 0 {
		if err := s.repoManager.AccountRepository().DeleteAccounts(
			ctx, removed,
		); err != nil {
			log.WithError(err).Warn("failed to delete accounts")
		}
	}
	if prev.Settings != next.Settings {
		if err := s.repoManager.SettingsRepository().UpdateSettings(
			ctx, next.Settings,
		); err != nil {
			log.WithError(err).Warn("failed to persist settings")
		}
	}
}

// bootstrap asks the node for the data of the accounts as soon as they are
// known.
func (s *LedgerService) bootstrap(ev domain.Event, next domain.Snapshot) {
	switch e := ev.(type) {
	case domain.ChannelOpened:
		s.request(func() {
			s.limiter.Take()
			if err := s.node.RequestAccountsInfo(); err != nil {
				log.WithError(err).Warn("failed to request accounts info")
			}
		})
	case domain.AccountsInfo:
		ids := next.Accounts.IDs()
		s.request(func() { s.requestAccountsData(ids) })
	case domain.AccountCreated:
		if _, ok := next.Account(e.AccountID); ok {
			ids := []string{e.AccountID}
			s.request(func() { s.requestAccountsData(ids) })
		}
	}
}

func (s *LedgerService) request(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *LedgerService) requestAccountsData(ids []string) {
	startingFrom := time.Now().AddDate(0, 0, -s.cfg.HistoryDepthDays)

	for _, id := range ids {
		select {
		case <-s.quit:
			return
		default:
		}

		s.limiter.Take()
		if err := s.node.RequestBalanceInfo(id); err != nil {
			log.WithError(err).WithField("account_id", id).Warn(
				"failed to request balance info",
			)
			return
		}

		s.limiter.Take()
		if err := s.node.RequestHistoryInfo(
			id, startingFrom, s.cfg.HistoryLimit,
		); err != nil {
			log.WithError(err).WithField("account_id", id).Warn(
				"failed to request history info",
			)
			return
		}
	}
}

func (s *LedgerService) notifySubscribers(snapshot domain.Snapshot) {
	s.subscribersLock.Lock()
	defer s.subscribersLock.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		// Drop the oldest snapshot to make room for the latest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// diffAccounts returns the accounts of next that are new or replaced with
// respect to prev, and the ids of those no longer present. Accounts untouched
// by an event keep their pointer, so identity is enough.
func diffAccounts(
	prev, next domain.Accounts,
) ([]*domain.Account, []string) {
	changed := make([]*domain.Account, 0)
	for _, id := range next.IDs() {
		acc := next[id]
		if prevAcc, ok := prev[id]; !ok || prevAcc != acc {
			changed = append(changed, acc)
		}
	}
	removed := make([]string, 0)
	for _, id := range prev.IDs() {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	return changed, removed
}

func logEvent(ev domain.Event) {
	if _, ok := ev.(domain.UnknownEvent); ok {
		return
	}
	entry := log.WithField("kind", ev.Kind())
	if e, ok := ev.(domain.AccountEvent); ok {
		entry = entry.WithField("account_id", e.GetAccountID())
	}
	entry.Debug("event applied")
}
