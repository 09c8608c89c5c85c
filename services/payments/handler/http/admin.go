package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/internal/utils"
)

// ListTransactions lists the ledger with optional filters and paging
func (h *PaymentHandler) ListTransactions(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	page, err := h.paymentUC.ListTransactions(c.Request().Context(), filter)
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", page)
}

// GetTransactionByOrderID returns any transaction by its order id
func (h *PaymentHandler) GetTransactionByOrderID(c echo.Context) error {
	tx, err := h.paymentUC.GetByOrderID(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transaction retrieved successfully", tx)
}

// GetTransactionByID returns any transaction by its primary key
func (h *PaymentHandler) GetTransactionByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "id must be a valid UUID")
	}

	tx, err := h.paymentUC.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transaction retrieved successfully", tx)
}

// ListUserTransactions lists the transactions of a user
func (h *PaymentHandler) ListUserTransactions(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return utils.BadRequestResponse(c, "userId must be a valid UUID")
	}

	txs, err := h.paymentUC.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", txs)
}

// ListEventTransactions lists the transactions of an event
func (h *PaymentHandler) ListEventTransactions(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		return utils.BadRequestResponse(c, "eventId must be a valid UUID")
	}

	txs, err := h.paymentUC.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Transactions retrieved successfully", txs)
}

// GetStats aggregates the ledger, accepting the same filters as ListTransactions
func (h *PaymentHandler) GetStats(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	stats, err := h.paymentUC.GetStats(c.Request().Context(), filter)
	if err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)
		return respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// AdminCancelTransaction cancels any pending transaction
func (h *PaymentHandler) AdminCancelTransaction(c echo.Context) error {
	orderID := c.Param("orderId")
	tx, err := h.paymentUC.CancelTransaction(c.Request().Context(), orderID, uuid.Nil)
	if err != nil {
		logger.Warn("Admin cancel failed",
			logger.String("order_id", orderID),
			logger.String("caller", callerFromContext(c)),
			logger.ErrorField(err))
		return respondError(c, err)
	}

	logger.Info("Transaction cancelled by admin",
		logger.String("order_id", orderID),
		logger.String("caller", callerFromContext(c)))
	return utils.SuccessResponse(c, http.StatusOK, "Transaction cancelled successfully", tx)
}

// RefundTransaction records a refund settled outside the gateway
func (h *PaymentHandler) RefundTransaction(c echo.Context) error {
	orderID := c.Param("orderId")

	var req models.RefundRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	tx, err := h.paymentUC.RefundTransaction(c.Request().Context(), orderID, strings.TrimSpace(req.Reason))
	if err != nil {
		logger.Warn("Refund failed",
			logger.String("order_id", orderID),
			logger.ErrorField(err))
		return respondError(c, err)
	}

	logger.Info("Transaction refunded",
		logger.String("order_id", orderID),
		logger.String("caller", callerFromContext(c)))
	return utils.SuccessResponse(c, http.StatusOK, "Transaction refunded successfully", tx)
}

func callerFromContext(c echo.Context) string {
	caller, _ := c.Get("caller").(string)
	return caller
}

// parseFilter reads status, provider, user_id, event_id, from, to, page and limit
func parseFilter(c echo.Context) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	if status := c.QueryParam("status"); status != "" {
		filter.Status = models.PaymentStatus(strings.ToUpper(status))
		if !filter.Status.IsValid() {
			return filter, fmt.Errorf("unknown status %s", status)
		}
	}
	if provider := c.QueryParam("provider"); provider != "" {
		filter.Provider = models.GatewayProvider(strings.ToLower(provider))
	}

	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("user_id must be a valid UUID")
		}
		filter.UserID = id
	}
	if raw := c.QueryParam("event_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("event_id must be a valid UUID")
		}
		filter.EventID = id
	}

	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("from must be an RFC3339 timestamp")
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("to must be an RFC3339 timestamp")
		}
		filter.To = &to
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("page must be a number")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errors.New("limit must be a number")
		}
		filter.Limit = limit
	}

	return filter, nil
}
