package payment

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type EarningsUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewEarningsUseCase(paymentRepo repository.PaymentRepository) *EarningsUseCase {
	return &EarningsUseCase{paymentRepo: paymentRepo}
}

func (uc *EarningsUseCase) Execute(ctx context.Context, actor entity.Actor) (entity.Earnings, error) {
	payments, err := uc.paymentRepo.FindByUser(ctx, actor.UserID, actor.Role)
	if err != nil {
		return entity.Earnings{}, err
	}
	return entity.SummarizeEarnings(payments), nil
}

type PaymentHistoryUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewPaymentHistoryUseCase(paymentRepo repository.PaymentRepository) *PaymentHistoryUseCase {
	return &PaymentHistoryUseCase{paymentRepo: paymentRepo}
}

func (uc *PaymentHistoryUseCase) Execute(ctx context.Context, actor entity.Actor) ([]*entity.ProjectPayments, error) {
	payments, err := uc.paymentRepo.FindByUser(ctx, actor.UserID, actor.Role)
	if err != nil {
		return nil, err
	}
	return entity.GroupByProject(payments), nil
}

// ListPaymentsUseCase — административный список платежей.
type ListPaymentsUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewListPaymentsUseCase(paymentRepo repository.PaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, actor entity.Actor, filter repository.PaymentFilter) ([]*entity.Payment, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperror.ErrForbidden
	}
	return uc.paymentRepo.List(ctx, filter.Normalize())
}

type PaymentDetails struct {
	Payment    *entity.Payment
	GatewayFee string
}

type GetPaymentDetailsUseCase struct {
	paymentRepo repository.PaymentRepository
}

func NewGetPaymentDetailsUseCase(paymentRepo repository.PaymentRepository) *GetPaymentDetailsUseCase {
	return &GetPaymentDetailsUseCase{paymentRepo: paymentRepo}
}

func (uc *GetPaymentDetailsUseCase) Execute(ctx context.Context, paymentID int64, actor entity.Actor) (*PaymentDetails, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	payment, err := uc.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return &PaymentDetails{
		Payment:    payment,
		GatewayFee: entity.GatewayFee(payment.Amount).StringFixed(2),
	}, nil
}
