package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

var ErrNotConfigured = errors.New("gateway: ключи платёжного шлюза не заданы")

// RazorpayGateway создаёт заказы через REST API Razorpay и проверяет подписи checkout.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	client    *resty.Client
}

func NewRazorpayGateway(baseURL, keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json")

	return &RazorpayGateway{keyID: keyID, keySecret: keySecret, client: client}
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req repository.GatewayOrderRequest) (*repository.GatewayOrder, error) {
	var (
		result  orderResponse
		failure errorResponse
	)
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(orderRequest{
			Amount:   req.AmountMinor,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Notes:    req.Notes,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("gateway: запрос создания заказа: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway: статус %d: %s %s", resp.StatusCode(), failure.Error.Code, failure.Error.Description)
	}
	if result.ID == "" {
		return nil, errors.New("gateway: в ответе нет id заказа")
	}

	return &repository.GatewayOrder{
		ID:          result.ID,
		AmountMinor: result.Amount,
		Currency:    result.Currency,
		Receipt:     result.Receipt,
	}, nil
}

// VerifySignature сверяет HMAC-SHA256 от "orderID|paymentID" с подписью из checkout.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(g.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// Sign вычисляет подпись так же, как её формирует Razorpay checkout.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Unconfigured используется, когда ключи шлюза не заданы: платежи недоступны,
// остальная часть сервиса работает.
type Unconfigured struct{}

func (Unconfigured) CreateOrder(context.Context, repository.GatewayOrderRequest) (*repository.GatewayOrder, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) VerifySignature(string, string, string) bool {
	return false
}

func (Unconfigured) KeyID() string {
	return ""
}
