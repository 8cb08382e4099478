package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// client talks to the HTTP interface of the daemon.
type client struct {
	url        string
	apiToken   string
	httpClient *http.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	url, ok := state["walletd_url"]
	if !ok {
		return nil, errors.New("set walletd url with `config set walletd_url`")
	}

	return newClient(url, state["api_token"]), nil
}

func newClient(url, apiToken string) *client {
	return &client{
		url:        strings.TrimSuffix(url, "/"),
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *client) get(path string) ([]byte, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, body interface{}) ([]byte, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *client) delete(path string) ([]byte, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *client) do(method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.url+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to walletd: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errResp := struct {
			Error string `json:"error"`
		}{}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, fmt.Errorf("walletd replied with status %d", resp.StatusCode)
	}

	return respBody, nil
}
