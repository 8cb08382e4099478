package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/application/pubsub"
	"github.com/stegos/walletd/internal/core/domain"
	"github.com/stegos/walletd/internal/core/ports"
	dbbadger "github.com/stegos/walletd/internal/infrastructure/storage/db/badger"
	"github.com/stegos/walletd/internal/infrastructure/storage/db/inmemory"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config lazily builds the application services out of the given
// infrastructure.
type Config struct {
	DBType string
	// DBConfig is the datadir of the badger db.
	DBConfig interface{}

	NodeChannel  ports.NodeChannel
	PubSub       ports.PubSub
	Metrics      MetricsCollector
	LedgerConfig LedgerServiceConfig

	repo    ports.RepoManager
	webhook *pubsub.Service
	ledger  *LedgerService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.NodeChannel == nil {
		return fmt.Errorf("missing node channel")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

// WebhookService returns nil if no pubsub is configured.
func (c *Config) WebhookService() *pubsub.Service {
	if c.webhook == nil && c.PubSub != nil {
		c.webhook = pubsub.NewService(c.PubSub)
	}
	return c.webhook
}

func (c *Config) LedgerService() *LedgerService {
	if c.ledger == nil {
		var publisher SnapshotPublisher
		if webhook := c.WebhookService(); webhook != nil {
			publisher = webhook
		}
		c.ledger = NewLedgerService(
			c.NodeChannel, c.RepoManager(), publisher, c.Metrics,
			domain.NewReducer(), c.LedgerConfig,
		)
	}
	return c.ledger
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}
