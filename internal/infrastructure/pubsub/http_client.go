package pubsub

import (
	"io"
	"net/http"
	"strings"
	"time"
)

// Responses of webhook endpoints are only used for error reporting.
const maxResponseSize = 1 << 16

type client struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *client {
	return &client{&http.Client{Timeout: requestTimeout}}
}

func (c *client) post(
	url, bodyString string, header map[string]string,
) (int, string, error) {
	req, err := http.NewRequest(
		http.MethodPost, url, strings.NewReader(bodyString),
	)
	if err != nil {
		return 0, "", err
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	body, err := io.ReadAll(io.LimitReader(rs.Body, maxResponseSize))
	if err != nil {
		return -1, "", err
	}
	return rs.StatusCode, string(body), nil
}
