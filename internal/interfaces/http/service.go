package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/application"
	"github.com/stegos/walletd/internal/core/application/pubsub"
	interfaces "github.com/stegos/walletd/internal/interfaces"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type ServiceOpts struct {
	Port int
	// APIToken is the bearer token required by every route but /metrics.
	APIToken string
	NoAuth   bool
	// CORSAllowedOrigins also restricts the origins allowed to open the
	// stream websocket.
	CORSAllowedOrigins []string

	LedgerSvc  *application.LedgerService
	WebhookSvc *pubsub.Service
	// MetricsHandler defaults to the prometheus default registry handler.
	MetricsHandler http.Handler
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 {
		return fmt.Errorf("invalid listening port %d", o.Port)
	}
	if !o.NoAuth && len(o.APIToken) <= 0 {
		return fmt.Errorf("missing api token")
	}
	if o.LedgerSvc == nil {
		return fmt.Errorf("ledger app service must not be null")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewHandler(opts),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("stopped http interface")
}

// NewHandler returns the router of the HTTP interface.
func NewHandler(opts ServiceOpts) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), loggerMiddleware())

	metrics := opts.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	router.GET("/metrics", gin.WrapH(metrics))

	v1 := router.Group("/v1")
	if !opts.NoAuth {
		v1.Use(authMiddleware(opts.APIToken))
	}

	wallet := newWalletHandler(opts.LedgerSvc, opts.CORSAllowedOrigins)
	v1.GET("/snapshot", wallet.getSnapshot)
	v1.GET("/node", wallet.getNode)
	v1.GET("/stream", wallet.stream)

	accounts := v1.Group("/accounts")
	accounts.GET("", wallet.listAccounts)
	accounts.GET("/:id", wallet.getAccount)
	accounts.GET("/:id/transactions", wallet.listTransactions)
	accounts.POST("/:id/name", wallet.setAccountName)
	accounts.POST("/:id/recovery-written", wallet.markRecoveryPhraseWrittenDown)
	accounts.POST("/:id/restored", wallet.markRestored)

	settings := v1.Group("/settings")
	settings.GET("", wallet.getSettings)
	settings.POST("/auto-lock", wallet.setAutoLockTimeout)
	settings.POST("/lock", wallet.lockWallet)
	settings.POST("/unlock", wallet.unlockWallet)
	settings.POST("/terms", wallet.acceptTerms)
	settings.POST("/onboarding", wallet.completeOnboarding)
	settings.POST("/password-set", wallet.markPasswordSet)
	settings.POST("/error", wallet.showError)
	settings.DELETE("/error", wallet.hideError)

	if opts.WebhookSvc != nil {
		webhook := newWebhookHandler(opts.WebhookSvc)
		v1.POST("/webhooks", webhook.addWebhook)
		v1.GET("/webhooks", webhook.listWebhooks)
		v1.DELETE("/webhooks/:id", webhook.removeWebhook)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return corsHandler.Handler(router)
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debugf(
			"%s %s %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
		)
	}
}
