package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testToken = "secret"

type recordedRequest struct {
	method string
	path   string
	body   map[string]interface{}
}

type testDaemon struct {
	*httptest.Server

	lock     sync.Mutex
	requests []recordedRequest
}

func newTestDaemon(t *testing.T) *testDaemon {
	d := &testDaemon{}
	d.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			req := recordedRequest{method: r.Method, path: r.URL.RequestURI()}
			if buf, _ := io.ReadAll(r.Body); len(buf) > 0 {
				json.Unmarshal(buf, &req.body)
			}
			d.lock.Lock()
			d.requests = append(d.requests, req)
			d.lock.Unlock()

			switch {
			case r.URL.Path == "/v1/accounts/unknown":
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"account not found"}`))
			case r.URL.Path == "/v1/broken":
				w.WriteHeader(http.StatusInternalServerError)
			case r.Method == http.MethodDelete:
				w.WriteHeader(http.StatusNoContent)
			default:
				w.Write([]byte(`{"id":"a1"}`))
			}
		},
	))
	t.Cleanup(d.Close)
	return d
}

func (d *testDaemon) lastRequest() recordedRequest {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.requests[len(d.requests)-1]
}

func withTestState(t *testing.T) {
	prevPath := statePath
	statePath = filepath.Join(t.TempDir(), "state.json")
	t.Cleanup(func() { statePath = prevPath })
}

func TestState(t *testing.T) {
	withTestState(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, setState(map[string]string{"walletd_url": "http://localhost:3155"}))
	require.NoError(t, setState(map[string]string{"api_token": testToken}))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"walletd_url": "http://localhost:3155",
		"api_token":   testToken,
	}, state)
}

func TestClient(t *testing.T) {
	d := newTestDaemon(t)

	c := newClient(d.URL+"/", testToken)

	reply, err := c.get("/v1/accounts/a1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"a1"}`, string(reply))

	_, err = c.get("/v1/accounts/unknown")
	require.EqualError(t, err, "account not found")

	_, err = c.get("/v1/broken")
	require.EqualError(t, err, "walletd replied with status 500")

	_, err = newClient(d.URL, "wrong").get("/v1/snapshot")
	require.EqualError(t, err, "walletd replied with status 401")
}

func TestCommands(t *testing.T) {
	withTestState(t)
	d := newTestDaemon(t)

	_, err := getClient()
	require.Error(t, err)

	app := newApp()
	require.NoError(t, app.Run([]string{
		"wallet", "config", "init", "--walletd_url", d.URL, "--api_token", testToken,
	}))

	tests := []struct {
		args     []string
		expected recordedRequest
	}{
		{
			args:     []string{"snapshot"},
			expected: recordedRequest{method: http.MethodGet, path: "/v1/snapshot"},
		},
		{
			args: []string{"account", "--id", "a1", "--transactions"},
			expected: recordedRequest{
				method: http.MethodGet, path: "/v1/accounts/a1/transactions",
			},
		},
		{
			args: []string{"setname", "--id", "a1", "--name", "savings"},
			expected: recordedRequest{
				method: http.MethodPost,
				path:   "/v1/accounts/a1/name",
				body:   map[string]interface{}{"name": "savings"},
			},
		},
		{
			args: []string{"markwritten", "--id", "a1"},
			expected: recordedRequest{
				method: http.MethodPost, path: "/v1/accounts/a1/recovery-written",
			},
		},
		{
			args: []string{"autolock", "--minutes", "15"},
			expected: recordedRequest{
				method: http.MethodPost,
				path:   "/v1/settings/auto-lock",
				body:   map[string]interface{}{"minutes": float64(15)},
			},
		},
		{
			args: []string{
				"webhook", "add", "--endpoint", "http://localhost/hook", "--any_event",
			},
			expected: recordedRequest{
				method: http.MethodPost,
				path:   "/v1/webhooks",
				body: map[string]interface{}{
					"event":    "*",
					"endpoint": "http://localhost/hook",
					"secret":   "",
				},
			},
		},
		{
			args: []string{"webhooks", "--node_synced_event"},
			expected: recordedRequest{
				method: http.MethodGet, path: "/v1/webhooks?event=NODE_SYNCED",
			},
		},
		{
			args: []string{"webhook", "remove", "--id", "hook1"},
			expected: recordedRequest{
				method: http.MethodDelete, path: "/v1/webhooks/hook1",
			},
		},
	}

	for _, tt := range tests {
		require.NoError(t, newApp().Run(append([]string{"wallet"}, tt.args...)))
		require.Equal(t, tt.expected, d.lastRequest())
	}

	err = newApp().Run([]string{
		"wallet", "webhooks", "--node_synced_event", "--any_event",
	})
	require.EqualError(t, err, "only one event can be set for a webhook")

	err = newApp().Run([]string{
		"wallet", "webhook", "add", "--endpoint", "http://localhost/hook",
	})
	require.EqualError(t, err, "missing event")
}
