package payment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// RefundPaymentUseCase помечает платёж возвращённым. Прогресс проекта не откатывается.
type RefundPaymentUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewRefundPaymentUseCase(paymentRepo repository.PaymentRepository) *RefundPaymentUseCase {
	return &RefundPaymentUseCase{paymentRepo: paymentRepo}
}

func (uc *RefundPaymentUseCase) Execute(ctx context.Context, paymentID int64, actor entity.Actor) (*entity.Payment, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	payment, err := uc.paymentRepo.Refund(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"admin_id":   actor.UserID,
		"amount":     payment.Amount.String(),
	}).Info("платёж помечен как возвращённый")
	return payment, nil
}
