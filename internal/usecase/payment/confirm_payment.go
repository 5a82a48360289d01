package payment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type ConfirmPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type ConfirmPaymentUseCase struct {
	paymentRepo repository.PaymentRepository
	gateway     repository.PaymentGateway
	notify      *notification.Emitter
}

func NewConfirmPaymentUseCase(paymentRepo repository.PaymentRepository, gateway repository.PaymentGateway, notify *notification.Emitter) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{paymentRepo: paymentRepo, gateway: gateway, notify: notify}
}

// Execute подтверждает платёж по подписи шлюза. Повторный вызов для
// уже завершённого платежа возвращает его без повторного начисления.
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, input ConfirmPaymentInput) (*entity.Payment, error) {
	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "order_id, payment_id и signature обязательны")
	}
	if !uc.gateway.VerifySignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		return nil, apperror.ErrInvalidSignature
	}

	payment, alreadyCompleted, err := uc.paymentRepo.Confirm(ctx, input.GatewayOrderID, input.GatewayPaymentID, input.Signature)
	if err != nil {
		if apperror.IsConflict(err) {
			// Шлюз уже списал деньги: такой платёж разбирается вручную.
			logger.Log.WithFields(logrus.Fields{
				"gateway_order_id":   input.GatewayOrderID,
				"gateway_payment_id": input.GatewayPaymentID,
			}).WithError(err).Warn("подтверждённый шлюзом платёж отклонён")
		}
		return nil, err
	}
	if alreadyCompleted {
		return payment, nil
	}

	uc.notify.Emit(ctx, entity.NewNotification(
		payment.DeveloperID,
		"Payment Received",
		fmt.Sprintf("You received a payment of ₹%s", payment.NetAmount.StringFixed(2)),
		entity.NotificationPayment,
		payment.ID,
	).With("projectId", payment.ProjectID).With("paymentType", string(payment.PaymentType)))

	return payment, nil
}
