package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type CreateOrderInput struct {
	ProjectID           int64
	RequesterID         int64
	PaymentType         valueobject.PaymentType
	MilestonePercentage int
	PaymentMethod       string
}

// OrderHandle — то, что нужно клиенту для открытия checkout шлюза.
type OrderHandle struct {
	Payment        *entity.Payment
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
	KeyID          string
}

type CreateOrderUseCase struct {
	projectRepo repository.ProjectRepository
	paymentRepo repository.PaymentRepository
	gateway     repository.PaymentGateway
	locker      repository.Locker
	settings    Settings
}

func NewCreateOrderUseCase(
	projectRepo repository.ProjectRepository,
	paymentRepo repository.PaymentRepository,
	gateway repository.PaymentGateway,
	locker repository.Locker,
	settings Settings,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		locker:      locker,
		settings:    settings,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*OrderHandle, error) {
	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(input.RequesterID) {
		return nil, apperror.ErrNotProjectOwner
	}
	if project.Assignment == nil {
		return nil, apperror.ErrNoAcceptedProposal
	}
	if !input.PaymentType.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип платежа")
	}
	pct, err := valueobject.NewMilestonePercentage(input.PaymentType, input.MilestonePercentage)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, orderLockKey(project.ID))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternalUnavailable, "не удалось получить блокировку платежа")
	}
	defer unlock()

	completed, err := completedPayments(ctx, uc.paymentRepo, project.ID)
	if err != nil {
		return nil, err
	}
	if err := entity.CheckSlotAvailable(completed, input.PaymentType, pct); err != nil {
		return nil, err
	}

	quote, err := entity.QuotePayment(project, completed, input.PaymentType, pct, uc.settings.Commission)
	if err != nil {
		return nil, err
	}
	if !quote.Amount.IsPositive() {
		return nil, apperror.ErrProjectFullyPaid
	}
	if err := entity.CheckWithinPrice(project.Assignment.Price, completed, quote.Amount); err != nil {
		return nil, err
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, uc.settings.gatewayTimeout())
	defer cancel()

	order, err := uc.gateway.CreateOrder(gatewayCtx, repository.GatewayOrderRequest{
		AmountMinor: valueobject.ToMinorUnits(quote.Amount),
		Currency:    uc.settings.currency(),
		Receipt:     receipt(project.ID),
		Notes: map[string]string{
			"projectId":           strconv.FormatInt(project.ID, 10),
			"studentId":           strconv.FormatInt(project.StudentID, 10),
			"developerId":         strconv.FormatInt(project.Assignment.DeveloperID, 10),
			"paymentType":         string(quote.PaymentType),
			"milestonePercentage": strconv.Itoa(quote.MilestonePercentage),
		},
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"project_id":   project.ID,
			"payment_type": quote.PaymentType,
		}).WithError(err).Error("платёжный шлюз не создал заказ")
		return nil, apperror.Wrap(err, apperror.ErrCodeExternalUnavailable, apperror.ErrGatewayUnavailable.Message)
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = "razorpay"
	}
	payment := entity.NewPendingPayment(project, quote, method, order.ID)
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &OrderHandle{
		Payment:        payment,
		GatewayOrderID: order.ID,
		AmountMinor:    order.AmountMinor,
		Currency:       order.Currency,
		KeyID:          uc.gateway.KeyID(),
	}, nil
}

func orderLockKey(projectID int64) string {
	return fmt.Sprintf("payment-order:%d", projectID)
}

// receipt укладывается в лимит шлюза в 40 символов.
func receipt(projectID int64) string {
	return fmt.Sprintf("projexhub_%d_%s", projectID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
