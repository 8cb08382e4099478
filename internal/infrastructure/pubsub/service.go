package pubsub

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/stegos/walletd/internal/core/ports"
	"github.com/stegos/walletd/pkg/circuitbreaker"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRequestTimeout = 15 * time.Second

	tokenTTL = time.Minute
)

type service struct {
	store      *store
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

// NewService returns a webhook pubsub whose subscriptions are persisted in a
// bolt db inside datadir.
func NewService(
	datadir string, requestTimeout time.Duration,
) (ports.PubSub, error) {
	if len(datadir) <= 0 {
		return nil, fmt.Errorf("missing datadir")
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	s, err := newStore(datadir)
	if err != nil {
		return nil, err
	}

	return &service{
		store:      s,
		httpClient: newHTTPClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
	}, nil
}

func (ws *service) Store() ports.PubSubStore {
	return ws.store
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.addSubscription(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.removeSubscription(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	return ws.publishForTopic(topic, message)
}

func (ws *service) addSubscription(sub *Subscription) error {
	return ws.store.update(func(subs, subsByEvent *bolt.Bucket) error {
		subID := []byte(sub.ID)
		if subs.Get(subID) != nil {
			return nil
		}
		if err := subs.Put(subID, sub.Serialize()); err != nil {
			return err
		}

		key := []byte(sub.Event)
		list := splitSubscriptions(subsByEvent.Get(key))
		list = append(list, sub.Serialize())
		return subsByEvent.Put(key, bytes.Join(list, separator))
	})
}

func (ws *service) removeSubscription(subID string) error {
	return ws.store.update(func(subs, subsByEvent *bolt.Bucket) error {
		buf := subs.Get([]byte(subID))
		if buf == nil {
			return ErrSubscriptionNotFound
		}
		sub, err := NewSubscriptionFromBytes(buf)
		if err != nil {
			return err
		}
		if err := subs.Delete([]byte(subID)); err != nil {
			return err
		}

		key := []byte(sub.Event)
		list := splitSubscriptions(subsByEvent.Get(key))
		updated := make([][]byte, 0, len(list))
		for _, raw := range list {
			s, err := NewSubscriptionFromBytes(raw)
			if err != nil || s.ID == sub.ID {
				continue
			}
			updated = append(updated, raw)
		}

		if len(updated) <= 0 {
			return subsByEvent.Delete(key)
		}
		return subsByEvent.Put(key, bytes.Join(updated, separator))
	})
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs := ws.getSubscriptionsForTopic(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic := ws.getSubscriptionsForTopic(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

func (ws *service) publishForTopic(topic, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) getSubscriptionsForTopic(topic string) subscriptions {
	rawSubs := ws.getSerializedSubscriptions(topic)
	subs := make(subscriptions, 0, len(rawSubs))
	for _, buf := range rawSubs {
		sub, err := NewSubscriptionFromBytes(buf)
		if err != nil {
			continue
		}
		subs = append(subs, *sub)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

func (ws *service) getSerializedSubscriptions(topic string) [][]byte {
	if topic == ports.UnspecifiedTopic {
		subs := make([][]byte, 0)
		subsByTopic, _ := ws.store.getAll(subsByEventBucket)
		for _, list := range subsByTopic {
			subs = append(subs, splitSubscriptions(list)...)
		}
		return subs
	}

	subs, _ := ws.store.get(subsByEventBucket, []byte(topic))
	return splitSubscriptions(subs)
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			tokenString, err := newToken(sub.Secret)
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return nil, fmt.Errorf(
				"webhook %s answered with status %d: %s", sub.ID, status, resp,
			)
		}
		return nil, nil
	})

	return err
}

func newToken(secret string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func splitSubscriptions(buf []byte) [][]byte {
	if len(buf) <= 0 {
		return nil
	}
	return bytes.Split(buf, separator)
}
