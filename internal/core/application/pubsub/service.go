package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
)

const (
	EventAccountBalanceChanged   = "ACCOUNT_BALANCE_CHANGED"
	EventTransactionReceived     = "TRANSACTION_RECEIVED"
	EventTransactionStatusChange = "TRANSACTION_STATUS_CHANGED"
	EventNodeSynced              = "NODE_SYNCED"
	EventAny                     = ports.AnyTopic
)

var (
	// ErrInvalidWebhookEvent ...
	ErrInvalidWebhookEvent = errors.New("invalid webhook event type")
	// ErrInvalidWebhookEndpoint ...
	ErrInvalidWebhookEndpoint = errors.New("invalid webhook endpoint, must be an http(s) url")
	// ErrWebhookNotFound ...
	ErrWebhookNotFound = errors.New("webhook not found")

	events = map[string]bool{
		EventAccountBalanceChanged:   true,
		EventTransactionReceived:     true,
		EventTransactionStatusChange: true,
		EventNodeSynced:              true,
		EventAny:                     true,
	}
)

type Webhook struct {
	Event    string
	Endpoint string
	Secret   string
}

type WebhookInfo struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

// Service turns snapshot transitions into webhook notifications.
type Service struct {
	pubsub ports.PubSub
	wg     sync.WaitGroup
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub: pubsub}
}

func (s *Service) AddWebhook(_ context.Context, webhook Webhook) (string, error) {
	if !events[webhook.Event] {
		return "", ErrInvalidWebhookEvent
	}
	u, err := url.ParseRequestURI(webhook.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidWebhookEndpoint
	}
	return s.pubsub.Subscribe(webhook.Event, webhook.Endpoint, webhook.Secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	for _, sub := range s.pubsub.ListSubscriptionsForTopic(ports.UnspecifiedTopic) {
		if sub.Id() == id {
			return s.pubsub.Unsubscribe(sub.Topic(), id)
		}
	}
	return ErrWebhookNotFound
}

// ListWebhooks returns the webhooks notified for the given event, all of
// them if event is empty.
func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]WebhookInfo, error) {
	if event != ports.UnspecifiedTopic && !events[event] {
		return nil, ErrInvalidWebhookEvent
	}
	subs := s.pubsub.ListSubscriptionsForTopic(event)
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			ID:        sub.Id(),
			Event:     sub.Topic(),
			Endpoint:  sub.NotifyAt(),
			IsSecured: sub.IsSecured(),
		})
	}
	return webhooks, nil
}

// PublishChanges computes the notifications for the given transition and
// delivers them in background.
func (s *Service) PublishChanges(prev, next domain.Snapshot) {
	for _, m := range messagesForChanges(prev, next) {
		m := m
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.pubsub.Publish(m.topic, m.payload); err != nil {
				log.WithError(err).WithField("event", m.topic).Warn(
					"failed to publish webhook",
				)
			}
		}()
	}
}

// Close waits for pending notifications and closes the store.
func (s *Service) Close() {
	s.wg.Wait()
	if err := s.pubsub.Store().Close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub store")
	}
}

type message struct {
	topic   string
	payload string
}

func newMessage(topic string, payload map[string]interface{}) message {
	payload["event"] = topic
	buf, _ := json.Marshal(payload)
	return message{topic, string(buf)}
}

func messagesForChanges(prev, next domain.Snapshot) []message {
	messages := make([]message, 0)

	for _, id := range next.Accounts.IDs() {
		acc := next.Accounts[id]
		prevAcc, ok := prev.Accounts.Get(id)
		if ok && prevAcc == acc {
			continue
		}
		if !ok {
			prevAcc = domain.NewAccount(id)
		}

		if acc.Balance != prevAcc.Balance {
			messages = append(messages, newMessage(
				EventAccountBalanceChanged, getBalancePayload(prevAcc, acc),
			))
		}

		prevTxs := make(map[string]domain.Transaction, len(prevAcc.Transactions))
		for _, tx := range prevAcc.Transactions {
			prevTxs[tx.ID] = tx
		}
		for _, tx := range acc.Transactions {
			prevTx, found := prevTxs[tx.ID]
			switch {
			case !found && !tx.Direction.IsSend():
				messages = append(messages, newMessage(
					EventTransactionReceived, getTransactionPayload(acc, tx),
				))
			case found && tx.Status != prevTx.Status:
				payload := getTransactionPayload(acc, tx)
				payload["previous_status"] = prevTx.Status
				messages = append(messages, newMessage(
					EventTransactionStatusChange, payload,
				))
			}
		}
	}

	if !prev.Node.IsSynced && next.Node.IsSynced {
		lastBlock := formatTime(next.Node.LastReceivedBlockTimestamp)
		messages = append(messages, newMessage(EventNodeSynced, map[string]interface{}{
			"syncing_progress":     next.Node.SyncingProgress,
			"last_block_timestamp": lastBlock,
		}))
	}

	return messages
}
