package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stegos/walletd/internal/core/ports"
	pubsub "github.com/stegos/walletd/internal/infrastructure/pubsub"
	"github.com/stretchr/testify/require"
)

const testMessage = `{"event":"ACCOUNT_BALANCE_CHANGED","account_id":"1","balance":1500000}`

type request struct {
	path    string
	payload string
	token   string
}

type testWebServer struct {
	*httptest.Server

	lock     sync.Mutex
	requests []request
}

func newTestWebServer(t *testing.T) *testWebServer {
	srv := &testWebServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, "Bad method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") != "application/json" {
				http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
				return
			}
			if r.URL.Path == "/failing" {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			payload, _ := io.ReadAll(r.Body)

			srv.lock.Lock()
			defer srv.lock.Unlock()
			srv.requests = append(srv.requests, request{
				path:    r.URL.Path,
				payload: string(payload),
				token:   strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
			})
		},
	))
	t.Cleanup(srv.Close)
	return srv
}

func (s *testWebServer) received() []request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]request{}, s.requests...)
}

func newTestService(t *testing.T) ports.PubSub {
	svc, err := pubsub.NewService(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, svc.Store().Init())
	t.Cleanup(func() {
		svc.Store().Close()
	})
	return svc
}

func TestPubSubService(t *testing.T) {
	t.Parallel()

	server := newTestWebServer(t)
	svc := newTestService(t)

	secret := randomSecret()
	balanceID, err := svc.Subscribe("balance", server.URL+"/balance", secret)
	require.NoError(t, err)
	anyID, err := svc.Subscribe(ports.AnyTopic, server.URL+"/all", "")
	require.NoError(t, err)
	otherID, err := svc.Subscribe("other", server.URL+"/other", "")
	require.NoError(t, err)

	subs := svc.ListSubscriptionsForTopic("balance")
	require.Len(t, subs, 2)
	require.Equal(t, balanceID, subs[0].Id())
	require.True(t, subs[0].IsSecured())
	require.Equal(t, anyID, subs[1].Id())
	require.False(t, subs[1].IsSecured())

	require.Len(t, svc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), 3)

	require.NoError(t, svc.Publish("balance", testMessage))

	requests := server.received()
	require.Len(t, requests, 2)
	for _, req := range requests {
		require.Equal(t, testMessage, req.payload)
		if req.path != "/balance" {
			require.Empty(t, req.token)
			continue
		}
		token, err := jwt.Parse(req.token, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)
		require.Equal(t, jwt.SigningMethodHS256, token.Method)
	}

	require.NoError(t, svc.Unsubscribe("", otherID))
	require.ErrorIs(t, svc.Unsubscribe("", otherID), pubsub.ErrSubscriptionNotFound)
	require.Len(t, svc.ListSubscriptionsForTopic("other"), 1)
	require.Len(t, svc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), 2)

	require.NoError(t, svc.Unsubscribe("", anyID))
	require.NoError(t, svc.Unsubscribe("", balanceID))
	require.Empty(t, svc.ListSubscriptionsForTopic("balance"))

	// Publishing without subscribers is a no-op.
	require.NoError(t, svc.Publish("balance", testMessage))
}

func TestPubSubServicePersistsSubscriptions(t *testing.T) {
	t.Parallel()

	datadir := t.TempDir()
	svc, err := pubsub.NewService(datadir, 0)
	require.NoError(t, err)
	require.NoError(t, svc.Store().Init())

	id, err := svc.Subscribe("balance", "http://localhost:9999/hook", "")
	require.NoError(t, err)
	require.NoError(t, svc.Store().Close())

	svc, err = pubsub.NewService(datadir, 0)
	require.NoError(t, err)
	require.NoError(t, svc.Store().Init())
	defer svc.Store().Close()

	subs := svc.ListSubscriptionsForTopic("balance")
	require.Len(t, subs, 1)
	require.Equal(t, id, subs[0].Id())
	require.Equal(t, "http://localhost:9999/hook", subs[0].NotifyAt())
}

func TestFailingPubSubService(t *testing.T) {
	t.Parallel()

	server := newTestWebServer(t)
	svc := newTestService(t)

	_, err := svc.Subscribe("", server.URL, "")
	require.ErrorIs(t, err, pubsub.ErrMissingEvent)

	_, err = svc.Subscribe("balance", "not an url", "")
	require.ErrorIs(t, err, pubsub.ErrInvalidEndpoint)

	_, err = svc.Subscribe("balance", server.URL+"/failing", "")
	require.NoError(t, err)
	require.Error(t, svc.Publish("balance", testMessage))

	uninitialized, err := pubsub.NewService(t.TempDir(), 0)
	require.NoError(t, err)
	defer uninitialized.Store().Close()

	_, err = uninitialized.Subscribe("balance", server.URL, "")
	require.ErrorIs(t, err, pubsub.ErrStoreNotInitialized)
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
