package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lokapasar-be/internal/logger"

	"go.uber.org/zap"
)

// Gateway is the hosted-checkout payment provider. CreateTransaction opens a
// Snap transaction and returns the token plus the page the buyer is sent to.
type Gateway interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error)
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type Callbacks struct {
	Finish string `json:"finish"`
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
	ItemDetails        []ItemDetail       `json:"item_details"`
	Callbacks          Callbacks          `json:"callbacks"`
}

type SnapResponse struct {
	Token         string   `json:"token"`
	RedirectURL   string   `json:"redirect_url"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

type snapGateway struct {
	serverKey  string
	baseURL    string
	httpClient *http.Client
}

func NewSnapGateway(serverKey, baseURL string) Gateway {
	if serverKey == "" {
		logger.L().Warn("payment gateway server key is empty")
	}

	return &snapGateway{
		serverKey: serverKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *snapGateway) CreateTransaction(ctx context.Context, snapReq SnapRequest) (*SnapResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", snapReq.TransactionDetails.OrderID),
		zap.Int64("gross_amount", snapReq.TransactionDetails.GrossAmount),
	)

	jsonBody, err := json.Marshal(snapReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/snap/v1/transactions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(g.serverKey, "")
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	log.Info("creating gateway transaction")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("gateway request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var res SnapResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("failed decoding gateway response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("gateway returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		if len(res.ErrorMessages) > 0 {
			return nil, fmt.Errorf("gateway error: %s", res.ErrorMessages[0])
		}
		return nil, fmt.Errorf("gateway error: %s", string(bodyBytes))
	}

	log.Info("gateway transaction created", zap.String("token", res.Token))
	return &res, nil
}

// VerifySignature checks the sha512 of order_id + status_code + gross_amount
// + server key against the signature carried in the notification.
func (g *snapGateway) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.serverKey))
	return hex.EncodeToString(sum[:]) == signature
}
