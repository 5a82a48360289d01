package payment

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// QuoteUseCase показывает участникам проекта сумму будущего платежа.
type QuoteUseCase struct {
	projectRepo repository.ProjectRepository
	paymentRepo repository.PaymentRepository
	settings    Settings
}

func NewQuoteUseCase(projectRepo repository.ProjectRepository, paymentRepo repository.PaymentRepository, settings Settings) *QuoteUseCase {
	return &QuoteUseCase{projectRepo: projectRepo, paymentRepo: paymentRepo, settings: settings}
}

func (uc *QuoteUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor, paymentType valueobject.PaymentType, milestonePct int) (entity.Quote, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return entity.Quote{}, err
	}
	if !actor.IsAdmin() && !project.IsParticipant(actor.UserID) {
		return entity.Quote{}, apperror.ErrNotParticipant
	}
	completed, err := completedPayments(ctx, uc.paymentRepo, projectID)
	if err != nil {
		return entity.Quote{}, err
	}
	return entity.QuotePayment(project, completed, paymentType, milestonePct, uc.settings.Commission)
}

func completedPayments(ctx context.Context, repo repository.PaymentRepository, projectID int64) ([]*entity.Payment, error) {
	status := valueobject.PaymentStatusCompleted
	return repo.FindByProject(ctx, projectID, &status)
}
