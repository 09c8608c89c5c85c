package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	httpclient "github.com/piresc/ramein/internal/pkg/http"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
)

const midtransItemNameMax = 50

// Midtrans reports local times in WIB
var midtransLocation = time.FixedZone("WIB", 7*60*60)

// MidtransGateway creates Snap transactions and reads Core API statuses
type MidtransGateway struct {
	serverKey      string
	expiryDuration time.Duration
	snap           *httpclient.Client
	api            *httpclient.Client
	logger         *logger.ZapLogger
	now            func() time.Time
}

// NewMidtransGateway creates a Midtrans adapter authenticated with the server key
func NewMidtransGateway(cfg models.MidtransConfig, payCfg models.PaymentConfig, l *logger.ZapLogger) *MidtransGateway {
	if l == nil {
		l = logger.NewNopLogger()
	}
	timeout := time.Duration(payCfg.GatewayTimeout) * time.Second

	return &MidtransGateway{
		serverKey:      cfg.ServerKey,
		expiryDuration: time.Duration(payCfg.InvoiceDurationMins) * time.Minute,
		snap:           newProviderClient(models.GatewayMidtrans, "midtrans-snap", cfg.SnapBaseURL, cfg.ServerKey, timeout, l),
		api:            newProviderClient(models.GatewayMidtrans, "midtrans-api", cfg.APIBaseURL, cfg.ServerKey, timeout, l),
		logger:         l,
		now:            time.Now,
	}
}

func (g *MidtransGateway) Provider() models.GatewayProvider {
	return models.GatewayMidtrans
}

type midtransItem struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type midtransSnapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails     []midtransItem `json:"item_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone,omitempty"`
	} `json:"customer_details"`
	Expiry *struct {
		Unit     string `json:"unit"`
		Duration int    `json:"duration"`
	} `json:"expiry,omitempty"`
}

type midtransSnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// midtransStatus is shared by the status API response and the HTTP notification
type midtransStatus struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	TransactionID     string `json:"transaction_id"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
	SignatureKey      string `json:"signature_key"`
}

// CreateCharge opens a Snap transaction. It is never retried so a timeout
// cannot produce two payable transactions for one order.
func (g *MidtransGateway) CreateCharge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	var body midtransSnapRequest
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.TotalAmount
	body.ItemDetails = []midtransItem{{
		ID:       req.Event.ID.String(),
		Price:    req.Amount,
		Quantity: 1,
		Name:     truncate(req.Event.Title, midtransItemNameMax),
	}}
	if req.AdminFee > 0 {
		body.ItemDetails = append(body.ItemDetails, midtransItem{
			ID:       "ADMIN_FEE",
			Price:    req.AdminFee,
			Quantity: 1,
			Name:     "Admin Fee",
		})
	}
	body.CustomerDetails.FirstName = req.User.FullName
	body.CustomerDetails.Email = req.User.Email
	body.CustomerDetails.Phone = req.User.Phone
	if g.expiryDuration > 0 {
		body.Expiry = &struct {
			Unit     string `json:"unit"`
			Duration int    `json:"duration"`
		}{Unit: "minutes", Duration: int(g.expiryDuration / time.Minute)}
	}

	resp, err := g.snap.Do(ctx, httpclient.Request{
		Operation: opCreateCharge,
		Method:    http.MethodPost,
		Path:      "/snap/v1/transactions",
		Body:      body,
	})
	if err != nil {
		return nil, toGatewayError(models.GatewayMidtrans, opCreateCharge, err)
	}

	var snapResp midtransSnapResponse
	if err := json.Unmarshal(resp.Body, &snapResp); err != nil {
		return nil, decodeError(models.GatewayMidtrans, opCreateCharge, err)
	}
	if snapResp.Token == "" {
		return nil, &models.GatewayError{
			Provider:   models.GatewayMidtrans,
			Operation:  opCreateCharge,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(resp.Body), maxErrorBody),
		}
	}

	result := &models.ChargeResult{
		ExternalID: snapResp.Token,
		PaymentURL: snapResp.RedirectURL,
		Raw:        resp.Body,
	}
	if g.expiryDuration > 0 {
		expiresAt := g.now().Add(g.expiryDuration).UTC()
		result.ExpiresAt = &expiresAt
	}
	return result, nil
}

// GetStatus reads the Core API status. An order the customer never opened is
// unknown to Midtrans and reported as still pending.
func (g *MidtransGateway) GetStatus(ctx context.Context, tx *models.Transaction) (*models.GatewayNotification, error) {
	resp, err := g.api.Do(ctx, httpclient.Request{
		Operation: opGetStatus,
		Method:    http.MethodGet,
		Path:      "/v2/" + url.PathEscape(tx.OrderID) + "/status",
	})
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return g.notFoundStatus(tx), nil
		}
		return nil, toGatewayError(models.GatewayMidtrans, opGetStatus, err)
	}

	var status midtransStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return nil, decodeError(models.GatewayMidtrans, opGetStatus, err)
	}
	// the Core API answers 200 with the real code in the body
	if status.StatusCode == "404" {
		return g.notFoundStatus(tx), nil
	}
	if code, _ := strconv.Atoi(status.StatusCode); code >= 400 {
		return nil, &models.GatewayError{
			Provider:   models.GatewayMidtrans,
			Operation:  opGetStatus,
			StatusCode: code,
			Body:       status.StatusMessage,
		}
	}

	if status.OrderID == "" {
		status.OrderID = tx.OrderID
	}
	return g.toNotification(status, resp.Body), nil
}

func (g *MidtransGateway) notFoundStatus(tx *models.Transaction) *models.GatewayNotification {
	return &models.GatewayNotification{
		Provider:   models.GatewayMidtrans,
		OrderID:    tx.OrderID,
		ExternalID: tx.ExternalID,
		RawStatus:  "not_found",
		Status:     models.PaymentStatusPending,
		Recognized: true,
	}
}

// Cancel asks Midtrans to cancel the order; unknown or already final orders are not errors
func (g *MidtransGateway) Cancel(ctx context.Context, tx *models.Transaction) error {
	resp, err := g.api.Do(ctx, httpclient.Request{
		Operation: opCancel,
		Method:    http.MethodPost,
		Path:      "/v2/" + url.PathEscape(tx.OrderID) + "/cancel",
	})

	code := 0
	var httpErr *httpclient.HTTPError
	switch {
	case err == nil:
		var status midtransStatus
		if jsonErr := json.Unmarshal(resp.Body, &status); jsonErr == nil {
			code, _ = strconv.Atoi(status.StatusCode)
		}
	case errors.As(err, &httpErr):
		code = httpErr.StatusCode
	default:
		return toGatewayError(models.GatewayMidtrans, opCancel, err)
	}

	if isTolerableCancelCode(code) {
		g.logger.Info("Midtrans cancel not applicable, continuing",
			logger.String("order_id", tx.OrderID),
			logger.Int("status_code", code))
		return nil
	}
	if err != nil {
		return toGatewayError(models.GatewayMidtrans, opCancel, err)
	}
	if code >= 300 {
		return &models.GatewayError{
			Provider:   models.GatewayMidtrans,
			Operation:  opCancel,
			StatusCode: code,
			Body:       truncate(string(resp.Body), maxErrorBody),
		}
	}
	return nil
}

// isTolerableCancelCode covers bad request, not found and Midtrans' 412 for final orders
func isTolerableCancelCode(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusPreconditionFailed
}

// ParseNotification verifies signature_key before trusting any field
func (g *MidtransGateway) ParseNotification(header http.Header, body []byte) (*models.GatewayNotification, error) {
	var status midtransStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	if status.OrderID == "" || status.SignatureKey == "" {
		return nil, models.ErrSignatureInvalid
	}

	expected := midtransSignature(status.OrderID, status.StatusCode, status.GrossAmount, g.serverKey)
	if !secureCompare(expected, status.SignatureKey) {
		return nil, models.ErrSignatureInvalid
	}

	return g.toNotification(status, body), nil
}

func (g *MidtransGateway) toNotification(s midtransStatus, raw []byte) *models.GatewayNotification {
	mapped, recognized := mapMidtransStatus(s.TransactionStatus, s.FraudStatus)
	if !recognized {
		g.logger.Warn("Unrecognized Midtrans status, treating as pending",
			logger.String("order_id", s.OrderID),
			logger.String("transaction_status", s.TransactionStatus),
			logger.String("fraud_status", s.FraudStatus))
	}

	n := &models.GatewayNotification{
		Provider:      models.GatewayMidtrans,
		OrderID:       s.OrderID,
		ExternalID:    s.TransactionID,
		RawStatus:     s.TransactionStatus,
		FraudStatus:   s.FraudStatus,
		Status:        mapped,
		Recognized:    recognized,
		PaymentMethod: s.PaymentType,
		Raw:           raw,
	}
	if s.SettlementTime != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", s.SettlementTime, midtransLocation); err == nil {
			paidAt := t.UTC()
			n.PaidAt = &paidAt
		}
	}
	return n
}

// mapMidtransStatus maps transaction_status and fraud_status. Unknown values
// fall back to PENDING with recognized=false so nothing moves.
func mapMidtransStatus(transactionStatus, fraudStatus string) (models.PaymentStatus, bool) {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "accept", "":
			return models.PaymentStatusPaid, true
		case "challenge":
			return models.PaymentStatusPending, true
		case "deny":
			return models.PaymentStatusFailed, true
		default:
			return models.PaymentStatusPending, false
		}
	case "settlement":
		return models.PaymentStatusPaid, true
	case "pending", "authorize":
		return models.PaymentStatusPending, true
	case "deny", "cancel", "failure":
		return models.PaymentStatusFailed, true
	case "expire":
		return models.PaymentStatusExpired, true
	case "refund", "partial_refund", "chargeback", "partial_chargeback":
		return models.PaymentStatusRefunded, true
	default:
		return models.PaymentStatusPending, false
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
