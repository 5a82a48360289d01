package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

// GatewayOrderRequest — данные для создания заказа во внешнем платёжном шлюзе.
type GatewayOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
}

// PaymentGateway — внешний платёжный процессор.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
	// KeyID — публичный ключ, который клиент передаёт в checkout.
	KeyID() string
}

// Notifier — внешний приёмник уведомлений.
type Notifier interface {
	Notify(ctx context.Context, notification entity.Notification) error
}

// Locker сериализует критические секции между запросами и инстансами.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
