package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id int64) (*entity.Payment, error)
	FindByProject(ctx context.Context, projectID int64, status *valueobject.PaymentStatus) ([]*entity.Payment, error)
	FindByUser(ctx context.Context, userID int64, role valueobject.Role) ([]*entity.Payment, error)
	// Confirm переводит платёж по id заказа шлюза в completed.
	// Повторное подтверждение возвращает уже завершённый платёж и alreadyCompleted=true.
	Confirm(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature string) (payment *entity.Payment, alreadyCompleted bool, err error)
	Refund(ctx context.Context, id int64) (*entity.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*entity.Payment, int, error)
}

type PaymentFilter struct {
	Status    *valueobject.PaymentStatus
	Type      *valueobject.PaymentType
	ProjectID *int64
	Page      int
	Limit     int
}

func (f PaymentFilter) Normalize() PaymentFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	f.Limit, _ = clampPage(f.Limit, 0)
	return f
}

func (f PaymentFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
