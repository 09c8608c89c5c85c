package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "github.com/piresc/ramein/internal/pkg/http"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
)

const (
	xenditCallbackTokenHeader     = "X-Callback-Token"
	xenditCallbackSignatureHeader = "X-Callback-Signature"
)

// XenditGateway issues Xendit invoices
type XenditGateway struct {
	callbackToken   string
	webhookSecret   string
	successRedirect string
	failureRedirect string
	invoiceDuration time.Duration
	api             *httpclient.Client
	logger          *logger.ZapLogger
}

// NewXenditGateway creates a Xendit adapter authenticated with the secret key
func NewXenditGateway(cfg models.XenditConfig, payCfg models.PaymentConfig, l *logger.ZapLogger) *XenditGateway {
	if l == nil {
		l = logger.NewNopLogger()
	}
	timeout := time.Duration(payCfg.GatewayTimeout) * time.Second

	return &XenditGateway{
		callbackToken:   cfg.CallbackToken,
		webhookSecret:   cfg.WebhookSecret,
		successRedirect: cfg.SuccessRedirect,
		failureRedirect: cfg.FailureRedirect,
		invoiceDuration: time.Duration(payCfg.InvoiceDurationMins) * time.Minute,
		api:             newProviderClient(models.GatewayXendit, "xendit", cfg.APIBaseURL, cfg.SecretKey, timeout, l),
		logger:          l,
	}
}

func (g *XenditGateway) Provider() models.GatewayProvider {
	return models.GatewayXendit
}

type xenditItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type xenditFee struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

type xenditCustomer struct {
	GivenNames   string `json:"given_names"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number,omitempty"`
}

type xenditInvoiceRequest struct {
	ExternalID         string         `json:"external_id"`
	Amount             int64          `json:"amount"`
	PayerEmail         string         `json:"payer_email"`
	Description        string         `json:"description"`
	Currency           string         `json:"currency"`
	InvoiceDuration    int64          `json:"invoice_duration,omitempty"`
	Customer           xenditCustomer `json:"customer"`
	Items              []xenditItem   `json:"items"`
	Fees               []xenditFee    `json:"fees,omitempty"`
	SuccessRedirectURL string         `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string         `json:"failure_redirect_url,omitempty"`
}

// xenditInvoice is shared by invoice responses and invoice callbacks
type xenditInvoice struct {
	ID             string     `json:"id"`
	ExternalID     string     `json:"external_id"`
	Status         string     `json:"status"`
	Amount         float64    `json:"amount"`
	InvoiceURL     string     `json:"invoice_url"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	PaidAt         *time.Time `json:"paid_at"`
	PaymentMethod  string     `json:"payment_method"`
	PaymentChannel string     `json:"payment_channel"`
}

// CreateCharge creates an invoice; the order id is Xendit's external_id
func (g *XenditGateway) CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	body := xenditInvoiceRequest{
		ExternalID:  req.OrderID,
		Amount:      req.TotalAmount,
		PayerEmail:  req.User.Email,
		Description: fmt.Sprintf("Registration for %s", req.Event.Title),
		Currency:    "IDR",
		Customer: xenditCustomer{
			GivenNames:   req.User.FullName,
			Email:        req.User.Email,
			MobileNumber: req.User.Phone,
		},
		Items: []xenditItem{{
			Name:     req.Event.Title,
			Quantity: 1,
			Price:    req.Amount,
		}},
		SuccessRedirectURL: g.successRedirect,
		FailureRedirectURL: g.failureRedirect,
	}
	if req.AdminFee > 0 {
		body.Fees = []xenditFee{{Type: "ADMIN", Value: req.AdminFee}}
	}
	if g.invoiceDuration > 0 {
		body.InvoiceDuration = int64(g.invoiceDuration / time.Second)
	}

	resp, err := g.api.Do(ctx, httpclient.Request{
		Operation: opCreateCharge,
		Method:    http.MethodPost,
		Path:      "/v2/invoices",
		Body:      body,
	})
	if err != nil {
		return nil, toGatewayError(models.GatewayXendit, opCreateCharge, err)
	}

	var invoice xenditInvoice
	if err := json.Unmarshal(resp.Body, &invoice); err != nil {
		return nil, decodeError(models.GatewayXendit, opCreateCharge, err)
	}
	if invoice.ID == "" {
		return nil, &models.GatewayError{
			Provider:   models.GatewayXendit,
			Operation:  opCreateCharge,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(resp.Body), maxErrorBody),
		}
	}

	result := &models.ChargeResult{
		ExternalID: invoice.ID,
		PaymentURL: invoice.InvoiceURL,
		Raw:        resp.Body,
	}
	if invoice.ExpiryDate != nil {
		expiresAt := invoice.ExpiryDate.UTC()
		result.ExpiresAt = &expiresAt
	}
	return result, nil
}

// GetStatus reads the invoice by its Xendit id
func (g *XenditGateway) GetStatus(ctx context.Context, tx *models.Transaction) (*models.GatewayNotification, error) {
	if tx.ExternalID == "" {
		return nil, &models.GatewayError{
			Provider:  models.GatewayXendit,
			Operation: opGetStatus,
			Err:       errors.New("transaction has no invoice id"),
		}
	}

	resp, err := g.api.Do(ctx, httpclient.Request{
		Operation: opGetStatus,
		Method:    http.MethodGet,
		Path:      "/v2/invoices/" + url.PathEscape(tx.ExternalID),
	})
	if err != nil {
		return nil, toGatewayError(models.GatewayXendit, opGetStatus, err)
	}

	var invoice xenditInvoice
	if err := json.Unmarshal(resp.Body, &invoice); err != nil {
		return nil, decodeError(models.GatewayXendit, opGetStatus, err)
	}
	if invoice.ExternalID == "" {
		invoice.ExternalID = tx.OrderID
	}
	return g.toNotification(invoice, resp.Body), nil
}

// Cancel expires the invoice; unknown or already final invoices are not errors
func (g *XenditGateway) Cancel(ctx context.Context, tx *models.Transaction) error {
	if tx.ExternalID == "" {
		return nil
	}

	_, err := g.api.Do(ctx, httpclient.Request{
		Operation: opCancel,
		Method:    http.MethodPost,
		Path:      "/invoices/" + url.PathEscape(tx.ExternalID) + "/expire!",
	})
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && isTolerableCancelCode(httpErr.StatusCode) {
		g.logger.Info("Xendit invoice expiry not applicable, continuing",
			logger.String("order_id", tx.OrderID),
			logger.Int("status_code", httpErr.StatusCode))
		return nil
	}
	return toGatewayError(models.GatewayXendit, opCancel, err)
}

// ParseNotification checks the callback token, and the HMAC signature when a
// webhook secret is configured, before decoding the invoice callback
func (g *XenditGateway) ParseNotification(header http.Header, body []byte) (*models.GatewayNotification, error) {
	token := header.Get(xenditCallbackTokenHeader)
	if g.callbackToken == "" || token == "" || !secureCompare(token, g.callbackToken) {
		return nil, models.ErrSignatureInvalid
	}
	if g.webhookSecret != "" {
		signature := strings.ToLower(header.Get(xenditCallbackSignatureHeader))
		if signature == "" || !secureCompare(signature, hmacSHA256Hex(body, g.webhookSecret)) {
			return nil, models.ErrSignatureInvalid
		}
	}

	var invoice xenditInvoice
	if err := json.Unmarshal(body, &invoice); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	if invoice.ExternalID == "" {
		return nil, fmt.Errorf("%w: missing external_id", models.ErrInvalidPayload)
	}
	return g.toNotification(invoice, body), nil
}

func (g *XenditGateway) toNotification(inv xenditInvoice, raw []byte) *models.GatewayNotification {
	mapped, recognized := mapXenditStatus(inv.Status)
	if !recognized {
		g.logger.Warn("Unrecognized Xendit status, treating as pending",
			logger.String("order_id", inv.ExternalID),
			logger.String("status", inv.Status))
	}

	method := inv.PaymentMethod
	if inv.PaymentChannel != "" {
		method = strings.ToLower(inv.PaymentMethod + ":" + inv.PaymentChannel)
	}

	n := &models.GatewayNotification{
		Provider:      models.GatewayXendit,
		OrderID:       inv.ExternalID,
		ExternalID:    inv.ID,
		RawStatus:     inv.Status,
		Status:        mapped,
		Recognized:    recognized,
		PaymentMethod: method,
		Raw:           raw,
	}
	if inv.PaidAt != nil {
		paidAt := inv.PaidAt.UTC()
		n.PaidAt = &paidAt
	}
	return n
}

// mapXenditStatus maps invoice statuses; unknown values fall back to PENDING with recognized=false
func mapXenditStatus(status string) (models.PaymentStatus, bool) {
	switch strings.ToUpper(status) {
	case "PENDING":
		return models.PaymentStatusPending, true
	case "PAID", "SETTLED":
		return models.PaymentStatusPaid, true
	case "EXPIRED":
		return models.PaymentStatusExpired, true
	case "FAILED":
		return models.PaymentStatusFailed, true
	default:
		return models.PaymentStatusPending, false
	}
}
