package httpinterface

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stegos/walletd/internal/core/application"
	"github.com/stegos/walletd/internal/core/application/pubsub"
	"github.com/stegos/walletd/internal/core/domain"
)

const maxRequestSize = 1 << 20

var errBadRequest = errors.New("malformed request body")

type walletHandler struct {
	ledgerSvc *application.LedgerService
	upgrader  websocket.Upgrader
}

func newWalletHandler(
	ledgerSvc *application.LedgerService, allowedOrigins []string,
) *walletHandler {
	return &walletHandler{
		ledgerSvc: ledgerSvc,
		upgrader:  newUpgrader(allowedOrigins),
	}
}

func (h *walletHandler) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, fromSnapshot(h.ledgerSvc.Snapshot()))
}

func (h *walletHandler) getNode(c *gin.Context) {
	c.JSON(http.StatusOK, fromNode(h.ledgerSvc.Node()))
}

func (h *walletHandler) listAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, fromAccounts(h.ledgerSvc.Accounts()))
}

func (h *walletHandler) getAccount(c *gin.Context) {
	acc, err := h.ledgerSvc.Account(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAccountDetails(acc))
}

func (h *walletHandler) listTransactions(c *gin.Context) {
	acc, err := h.ledgerSvc.Account(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransactions(acc.Transactions))
}

func (h *walletHandler) setAccountName(c *gin.Context) {
	var req setNameRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	acc, err := h.ledgerSvc.SetAccountName(
		c.Request.Context(), c.Param("id"), req.Name,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAccount(acc))
}

func (h *walletHandler) markRecoveryPhraseWrittenDown(c *gin.Context) {
	acc, err := h.ledgerSvc.MarkRecoveryPhraseWrittenDown(
		c.Request.Context(), c.Param("id"),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAccount(acc))
}

func (h *walletHandler) markRestored(c *gin.Context) {
	acc, err := h.ledgerSvc.MarkRestored(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAccount(acc))
}

func (h *walletHandler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, fromSettings(h.ledgerSvc.Settings()))
}

func (h *walletHandler) setAutoLockTimeout(c *gin.Context) {
	var req autoLockRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	writeSettings(c)(
		h.ledgerSvc.SetAutoLockTimeout(c.Request.Context(), req.Minutes),
	)
}

func (h *walletHandler) lockWallet(c *gin.Context) {
	writeSettings(c)(h.ledgerSvc.LockWallet(c.Request.Context()))
}

func (h *walletHandler) unlockWallet(c *gin.Context) {
	writeSettings(c)(h.ledgerSvc.UnlockWallet(c.Request.Context()))
}

func (h *walletHandler) acceptTerms(c *gin.Context) {
	var req termsRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	writeSettings(c)(
		h.ledgerSvc.AcceptTerms(c.Request.Context(), req.SendBugReport),
	)
}

func (h *walletHandler) completeOnboarding(c *gin.Context) {
	writeSettings(c)(h.ledgerSvc.CompleteOnboarding(c.Request.Context()))
}

func (h *walletHandler) markPasswordSet(c *gin.Context) {
	writeSettings(c)(h.ledgerSvc.MarkPasswordSet(c.Request.Context()))
}

func (h *walletHandler) showError(c *gin.Context) {
	var req errorRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	writeSettings(c)(h.ledgerSvc.ShowError(c.Request.Context(), req.Message))
}

func (h *walletHandler) hideError(c *gin.Context) {
	writeSettings(c)(h.ledgerSvc.HideError(c.Request.Context()))
}

func writeSettings(c *gin.Context) func(domain.Settings, error) {
	return func(s domain.Settings, err error) {
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, fromSettings(s))
	}
}

type webhookHandler struct {
	webhookSvc *pubsub.Service
}

func newWebhookHandler(webhookSvc *pubsub.Service) *webhookHandler {
	return &webhookHandler{webhookSvc}
}

func (h *webhookHandler) addWebhook(c *gin.Context) {
	var req addWebhookRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	id, err := h.webhookSvc.AddWebhook(c.Request.Context(), pubsub.Webhook{
		Event:    req.Event,
		Endpoint: req.Endpoint,
		Secret:   req.Secret,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, addWebhookResponse{id})
}

func (h *webhookHandler) removeWebhook(c *gin.Context) {
	err := h.webhookSvc.RemoveWebhook(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *webhookHandler) listWebhooks(c *gin.Context) {
	hooks, err := h.webhookSvc.ListWebhooks(
		c.Request.Context(), c.Query("event"),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, hooks)
}

func bindJSON(c *gin.Context, v interface{}) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)
	if err := c.ShouldBindJSON(v); err != nil {
		return errBadRequest
	}
	return nil
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrAccountNotFound),
		errors.Is(err, pubsub.ErrWebhookNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, application.ErrInvalidAccountName),
		errors.Is(err, application.ErrInvalidAutoLockTimeout),
		errors.Is(err, application.ErrMissingErrorMessage),
		errors.Is(err, pubsub.ErrInvalidWebhookEvent),
		errors.Is(err, pubsub.ErrInvalidWebhookEndpoint):
		status = http.StatusBadRequest
	case errors.Is(err, application.ErrServiceNotStarted):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Warn("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
