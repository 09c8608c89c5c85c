package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/internal/utils"
)

const maxWebhookBody = 1 << 20

// HandleWebhook receives gateway notifications. Only the gateway signature
// authenticates the call. A non-2xx answer makes the gateway redeliver, so a
// rejected signature is acknowledged like any other notification and only
// shows up in logs and metrics.
func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	provider := models.GatewayProvider(strings.ToLower(c.Param("provider")))
	nrpkg.SetTransactionName(txn, "Payments.Webhook."+string(provider))

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read request body")
	}

	tx, err := h.paymentUC.HandleNotification(c.Request().Context(), provider, c.Request().Header, body)
	if errors.Is(err, models.ErrSignatureInvalid) {
		logger.Warn("Webhook signature rejected",
			logger.String("provider", string(provider)),
			logger.String("client_ip", c.RealIP()))
		return utils.SuccessResponse(c, http.StatusOK, "Notification received", nil)
	}
	if err != nil {
		fields := []logger.Field{
			logger.String("provider", string(provider)),
			logger.String("client_ip", c.RealIP()),
			logger.ErrorField(err),
		}
		if models.IsNotFound(err) {
			logger.Warn("Webhook for unknown transaction", fields...)
		} else {
			logger.Error("Failed to process webhook", fields...)
			nrpkg.NoticeTransactionError(txn, err)
		}
		return respondError(c, err)
	}

	logger.Info("Webhook processed",
		logger.String("provider", string(provider)),
		logger.String("order_id", tx.OrderID),
		logger.String("status", string(tx.Status)))

	return utils.SuccessResponse(c, http.StatusOK, "Notification processed", map[string]interface{}{
		"order_id": tx.OrderID,
		"status":   tx.Status,
	})
}
