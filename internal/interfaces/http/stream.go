package httpinterface

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = pongTimeout * 9 / 10
)

// newUpgrader accepts websocket handshakes without Origin, from the same
// origin or from one of allowedOrigins. A "*" entry allows any origin.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimSpace(origin))] = struct{}{}
	}
	_, allowAll := allowed["*"]

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll {
				return true
			}
			if _, ok := allowed[strings.ToLower(origin)]; ok {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return strings.EqualFold(u.Host, r.Host)
		},
	}
}

// stream pushes the current snapshot, then every new one, to the websocket
// client until it disconnects.
func (h *walletHandler) stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade stream connection")
		return
	}
	defer conn.Close()

	id, snapshots := h.ledgerSvc.Subscribe()
	defer h.ledgerSvc.Unsubscribe(id)

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	if err := writeSnapshot(conn, fromSnapshot(h.ledgerSvc.Snapshot())); err != nil {
		return
	}
	for {
		select {
		case s, ok := <-snapshots:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
				conn.WriteControl(
					websocket.CloseMessage, msg, time.Now().Add(writeTimeout),
				)
				return
			}
			if err := writeSnapshot(conn, fromSnapshot(s)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(
				websocket.PingMessage, nil, time.Now().Add(writeTimeout),
			); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, s snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(s)
}

// readUntilClosed consumes control frames and signals when the client goes
// away.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
