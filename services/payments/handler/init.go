package handler

import (
	"github.com/piresc/ramein/internal/pkg/models"
	"github.com/piresc/ramein/services/payments"
	httpHandler "github.com/piresc/ramein/services/payments/handler/http"
)

// Handler combines all handlers for the payments service
type Handler struct {
	paymentHTTP *httpHandler.PaymentHandler
	cfg         *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	paymentUC payments.PaymentUC,
	cfg *models.Config,
) *Handler {
	return &Handler{
		paymentHTTP: httpHandler.NewPaymentHandler(paymentUC),
		cfg:         cfg,
	}
}
