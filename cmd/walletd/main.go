package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/config"
	"github.com/stegos/walletd/internal/core/application"
	nodechannel "github.com/stegos/walletd/internal/infrastructure/node-channel"
	webhookpubsub "github.com/stegos/walletd/internal/infrastructure/pubsub"
	httpinterface "github.com/stegos/walletd/internal/interfaces/http"
	"github.com/stegos/walletd/pkg/stats"
)

const prometheusDumpFile = "prometheus.dump"

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	profilerEnabled := config.GetBool(config.EnableProfilerKey)
	if profilerEnabled {
		stats.EnableMemoryStatistics(ctx, config.GetSeconds(config.StatsIntervalKey))
	}

	nodeToken := config.GetString(config.NodeAPITokenKey)
	if tokenFile := config.GetString(config.NodeAPITokenFileKey); nodeToken == "" && tokenFile != "" {
		token, err := nodechannel.LoadAPIToken(tokenFile)
		if err != nil {
			log.WithError(err).Fatal("failed to load node api token")
		}
		nodeToken = token
	}

	nodeSvc, err := nodechannel.NewService(nodechannel.Config{
		Addr:              config.GetString(config.NodeAddrKey),
		APIToken:          nodeToken,
		ReconnectAttempts: config.GetInt(config.ReconnectAttemptsKey),
		ReconnectInterval: config.GetSeconds(config.ReconnectIntervalKey),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize node channel")
	}

	pubsubSvc, err := webhookpubsub.NewService(
		config.GetPubSubDatadir(), config.GetSeconds(config.WebhookTimeoutKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize pubsub service")
	}
	if err := pubsubSvc.Store().Init(); err != nil {
		log.WithError(err).Fatal("failed to initialize pubsub store")
	}

	collector, err := stats.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	appConfig := &application.Config{
		DBType:      config.GetString(config.DBTypeKey),
		DBConfig:    config.GetDbDatadir(),
		NodeChannel: nodeSvc,
		PubSub:      pubsubSvc,
		Metrics:     collector,
		LedgerConfig: application.LedgerServiceConfig{
			RequestRate:      config.GetInt(config.RequestRateKey),
			HistoryDepthDays: config.GetInt(config.HistoryDepthDaysKey),
			HistoryLimit:     config.GetInt(config.HistoryLimitKey),
		},
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}

	ledgerSvc := appConfig.LedgerService()
	webhookSvc := appConfig.WebhookService()

	if err := ledgerSvc.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start ledger service")
	}

	noAuth := config.GetBool(config.NoAuthKey)
	apiToken := config.GetString(config.APITokenKey)
	if !noAuth && apiToken == "" {
		apiToken, err = httpinterface.LoadOrCreateAPIToken(config.GetDatadir())
		if err != nil {
			log.WithError(err).Fatal("failed to load api token")
		}
		log.Infof(
			"api token stored in %s",
			filepath.Join(config.GetDatadir(), httpinterface.APITokenFile),
		)
	}

	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:               config.GetInt(config.ListeningPortKey),
		APIToken:           apiToken,
		NoAuth:             noAuth,
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		LedgerSvc:          ledgerSvc,
		WebhookSvc:         webhookSvc,
		MetricsHandler:     promhttp.Handler(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}
	if err := httpSvc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}

	log.Info("wallet daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down wallet daemon")

	httpSvc.Stop()
	log.Debug("stopped http interface")

	ledgerSvc.Stop()
	log.Debug("stopped ledger service")

	if webhookSvc != nil {
		webhookSvc.Close()
		log.Debug("closed webhook service")
	}

	appConfig.RepoManager().Close()
	log.Debug("closed db")

	cancel()
	if profilerEnabled {
		dumpFile := filepath.Join(config.GetProfilerDatadir(), prometheusDumpFile)
		if err := stats.DumpPrometheusDefaults(dumpFile); err != nil {
			log.WithError(err).Warn("failed to dump prometheus metrics")
		}
	}

	log.Info("wallet daemon stopped")
}
