package payment

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

// Settings — параметры расчёта и создания платежей.
type Settings struct {
	Commission     valueobject.CommissionRate
	Currency       string
	GatewayTimeout time.Duration
}

func (s Settings) gatewayTimeout() time.Duration {
	if s.GatewayTimeout <= 0 {
		return 10 * time.Second
	}
	return s.GatewayTimeout
}

func (s Settings) currency() string {
	if s.Currency == "" {
		return "INR"
	}
	return s.Currency
}
