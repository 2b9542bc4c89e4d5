package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusSettled = "settled"
	StatusFailed  = "failed"
)

// reuseWindow is how long a pending payment keeps being handed back for
// repeat initiations instead of opening a new gateway transaction.
const reuseWindow = 24 * time.Hour

type Payment struct {
	ID              uint            `json:"id"`
	OrderID         uint            `json:"orderId"`
	TransactionID   string          `json:"transactionId"`
	ExternalOrderID string          `json:"externalOrderId"`
	RedirectURL     string          `json:"redirectUrl"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Notification is the gateway's server-to-server status callback.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
}
