package nodechannel

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/domain"
)

const (
	DefaultReconnectAttempts = 10
	DefaultReconnectInterval = 5 * time.Second

	eventsBufferSize = 256
	closeTimeout     = time.Second
)

type Config struct {
	// Addr is the websocket url of the node, ie. ws://localhost:3145.
	Addr     string
	APIToken string
	// ReconnectAttempts is the number of consecutive failed connection
	// attempts after which the channel gives up.
	ReconnectAttempts int
	ReconnectInterval time.Duration
}

// Service is the websocket client of the node API.
type Service struct {
	cfg    Config
	dialer *websocket.Dialer

	lock sync.Mutex
	conn *websocket.Conn

	events   chan domain.Event
	quitChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddr
	}
	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = DefaultReconnectAttempts
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = DefaultReconnectInterval
	}

	return &Service{
		cfg:      cfg,
		dialer:   websocket.DefaultDialer,
		events:   make(chan domain.Event, eventsBufferSize),
		quitChan: make(chan struct{}),
	}, nil
}

// LoadAPIToken reads the node API token from the given file.
func LoadAPIToken(filename string) (string, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("reading api token file: %w", err)
	}
	return strings.TrimSpace(string(buf)), nil
}

func (s *Service) Start(ctx context.Context) error {
	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.quitChan)

		s.lock.Lock()
		if s.conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			s.conn.WriteControl(
				websocket.CloseMessage, msg, time.Now().Add(closeTimeout),
			)
			s.conn.Close()
		}
		s.lock.Unlock()

		s.wg.Wait()
	})
}

func (s *Service) Events() <-chan domain.Event {
	return s.events
}

func (s *Service) RequestAccountsInfo() error {
	return s.send(NewAccountsInfoRequest())
}

func (s *Service) RequestBalanceInfo(accountID string) error {
	return s.send(NewBalanceInfoRequest(accountID))
}

func (s *Service) RequestHistoryInfo(
	accountID string, startingFrom time.Time, limit int,
) error {
	return s.send(NewHistoryInfoRequest(accountID, startingFrom, limit))
}

func (s *Service) send(req Request) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}
	return s.conn.WriteMessage(websocket.TextMessage, req.Encode())
}

func (s *Service) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.events)

	if s.cfg.APIToken != "" {
		s.emit(domain.TokenReceived{Token: s.cfg.APIToken})
	}

	failedAttempts := 0
	for {
		conn, err := s.connect(ctx)
		if err != nil {
			if s.isQuitting() {
				return
			}
			failedAttempts++
			log.WithError(err).Warnf(
				"failed to connect to node (attempt %d/%d)",
				failedAttempts, s.cfg.ReconnectAttempts,
			)
			if failedAttempts >= s.cfg.ReconnectAttempts {
				log.Error("giving up connecting to node")
				s.emit(domain.NodeRunFailed{})
				return
			}
			if !s.wait(ctx) {
				return
			}
			continue
		}

		failedAttempts = 0
		if !s.setConn(conn) {
			conn.Close()
			return
		}
		log.Infof("connected to node at %s", s.cfg.Addr)
		s.emit(domain.NodeRunning{})
		s.emit(domain.ChannelOpened{})

		err = s.listen(conn)
		s.setConn(nil)
		conn.Close()
		s.emit(domain.ChannelClosed{})

		if err == nil || s.isQuitting() {
			return
		}
		log.WithError(err).Warn("connection with node dropped. Trying to reconnect...")
		if !s.wait(ctx) {
			return
		}
	}
}

// connect dials the node. The dial is aborted as soon as Stop is called.
func (s *Service) connect(ctx context.Context) (*websocket.Conn, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.quitChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	header := http.Header{}
	if s.cfg.APIToken != "" {
		header.Set("Authorization", fmt.Sprintf("Bearer %s", s.cfg.APIToken))
	}
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.Addr, header)
	return conn, err
}

// listen reads frames until the connection drops. It returns nil if the
// connection was closed because of Stop.
func (s *Service) listen(conn *websocket.Conn) error {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if s.isQuitting() {
				return nil
			}
			return err
		}

		ev, err := DecodeEvent(frame)
		if err != nil {
			log.WithError(err).Warn("dropping node message")
			continue
		}
		if u, ok := ev.(domain.UnknownEvent); ok && !IsChatty(u.Type) {
			log.Debugf("received unknown node message %s", u.Type)
		}
		s.emit(ev)
	}
}

func (s *Service) setConn(conn *websocket.Conn) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if conn != nil && s.isQuitting() {
		return false
	}
	s.conn = conn
	return true
}

func (s *Service) emit(ev domain.Event) {
	select {
	case s.events <- ev:
	case <-s.quitChan:
	}
}

func (s *Service) wait(ctx context.Context) bool {
	select {
	case <-time.After(s.cfg.ReconnectInterval):
		return true
	case <-s.quitChan:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *Service) isQuitting() bool {
	select {
	case <-s.quitChan:
		return true
	default:
		return false
	}
}
