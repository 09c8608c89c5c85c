package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/internal/utils"
	"github.com/piresc/ramein/services/payments"
)

// PaymentHandler handles HTTP requests for payment transactions
type PaymentHandler struct {
	paymentUC payments.PaymentUC
}

// NewPaymentHandler creates a new payment HTTP handler
func NewPaymentHandler(paymentUC payments.PaymentUC) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
	}
}

// CreateTransaction starts a registration payment for the authenticated user
func (h *PaymentHandler) CreateTransaction(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.CreateTransaction")

	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return utils.BadRequestResponse(c, "event_id must be a valid UUID")
	}
	provider := models.GatewayProvider(strings.ToLower(req.Provider))

	nrpkg.AddTransactionAttribute(txn, "event_id", eventID.String())
	nrpkg.AddTransactionAttribute(txn, "provider", string(provider))

	resp, err := h.paymentUC.CreateTransaction(c.Request().Context(), userID, eventID, provider)
	if err != nil {
		logger.Error("Failed to create transaction",
			logger.String("user_id", userID.String()),
			logger.String("event_id", eventID.String()),
			logger.ErrorField(err))
		nrpkg.NoticeTransactionError(txn, err)
		return respondError(c, err)
	}

	logger.Info("Transaction created",
		logger.String("order_id", resp.Transaction.OrderID),
		logger.String("status", string(resp.Transaction.Status)))

	return utils.SuccessResponse(c, http.StatusCreated, "Transaction created successfully", resp)
}

// MyTransactions lists the authenticated user's transactions
func (h *PaymentHandler) MyTransactions(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	txs, err := h.paymentUC.ListByUser(c.Request().Context(), userID)
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", txs)
}

// GetTransaction returns one of the authenticated user's transactions
func (h *PaymentHandler) GetTransaction(c echo.Context) error {
	tx, err := h.ownedTransaction(c)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transaction retrieved successfully", tx)
}

// CheckStatus refreshes a transaction from its gateway
func (h *PaymentHandler) CheckStatus(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.CheckStatus")

	tx, err := h.ownedTransaction(c)
	if err != nil {
		return respondError(c, err)
	}

	tx, err = h.paymentUC.CheckTransactionStatus(c.Request().Context(), tx.OrderID)
	if err != nil {
		logger.Error("Failed to check transaction status",
			logger.String("order_id", c.Param("orderId")),
			logger.ErrorField(err))
		nrpkg.NoticeTransactionError(txn, err)
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transaction status retrieved successfully", tx)
}

// CancelTransaction cancels one of the authenticated user's pending transactions
func (h *PaymentHandler) CancelTransaction(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Payments.CancelTransaction")

	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	orderID := c.Param("orderId")
	tx, err := h.paymentUC.CancelTransaction(c.Request().Context(), orderID, userID)
	if err != nil {
		logger.Warn("Failed to cancel transaction",
			logger.String("order_id", orderID),
			logger.ErrorField(err))
		nrpkg.NoticeTransactionError(txn, err)
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transaction cancelled successfully", tx)
}

// ownedTransaction loads :orderId and hides transactions of other users
func (h *PaymentHandler) ownedTransaction(c echo.Context) (*models.Transaction, error) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return nil, errUnauthenticated
	}

	tx, err := h.paymentUC.GetByOrderID(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	return tx, nil
}

func userIDFromContext(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
