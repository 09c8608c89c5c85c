package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/ramein/internal/pkg/metrics"
	"github.com/piresc/ramein/internal/pkg/middleware"
)

// RegisterRoutes registers all HTTP routes. webhookLimiter may be nil.
func (h *Handler) RegisterRoutes(e *echo.Echo, apiKey *middleware.APIKeyMiddleware, webhookLimiter echo.MiddlewareFunc) {
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Gateway callbacks authenticate with their own signatures
	var webhookMiddleware []echo.MiddlewareFunc
	if webhookLimiter != nil {
		webhookMiddleware = append(webhookMiddleware, webhookLimiter)
	}
	e.POST("/api/v1/payments/webhooks/:provider", h.paymentHTTP.HandleWebhook, webhookMiddleware...)

	// User routes (JWT required)
	user := e.Group("/api/v1/payments", middleware.JWTAuthMiddleware(h.cfg.JWT))
	user.POST("/transactions", h.paymentHTTP.CreateTransaction)
	user.GET("/transactions/me", h.paymentHTTP.MyTransactions)
	user.GET("/transactions/:orderId", h.paymentHTTP.GetTransaction)
	user.GET("/transactions/:orderId/status", h.paymentHTTP.CheckStatus)
	user.POST("/transactions/:orderId/cancel", h.paymentHTTP.CancelTransaction)

	// Internal routes for admin tools and other services (API key required)
	internal := e.Group("/internal/payments", apiKey.ValidateAPIKey("admin", "event-service"))
	internal.GET("/transactions", h.paymentHTTP.ListTransactions)
	internal.GET("/transactions/id/:id", h.paymentHTTP.GetTransactionByID)
	internal.GET("/transactions/:orderId", h.paymentHTTP.GetTransactionByOrderID)
	internal.GET("/users/:userId/transactions", h.paymentHTTP.ListUserTransactions)
	internal.GET("/events/:eventId/transactions", h.paymentHTTP.ListEventTransactions)
	internal.GET("/stats", h.paymentHTTP.GetStats)

	// Money moving operations are admin only
	admin := internal.Group("", apiKey.ValidateAPIKey("admin"))
	admin.POST("/transactions/:orderId/cancel", h.paymentHTTP.AdminCancelTransaction)
	admin.POST("/transactions/:orderId/refund", h.paymentHTTP.RefundTransaction)
}
