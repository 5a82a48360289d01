package proposal

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type SubmitProposalInput struct {
	ProjectID   int64
	DeveloperID int64
	Price       decimal.Decimal
	Timeline    int
	Technology  []string
	Message     *string
}

type SubmitProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
	notify       *notification.Emitter
}

func NewSubmitProposalUseCase(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository, notify *notification.Emitter) *SubmitProposalUseCase {
	return &SubmitProposalUseCase{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		notify:       notify,
	}
}

func (uc *SubmitProposalUseCase) Execute(ctx context.Context, input SubmitProposalInput) (*entity.Proposal, error) {
	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	if project.IsOwnedBy(input.DeveloperID) {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя откликнуться на собственный проект")
	}
	if !project.IsOpen() {
		return nil, apperror.ErrProjectNotOpen
	}

	existing, err := uc.proposalRepo.FindByProjectAndDeveloper(ctx, input.ProjectID, input.DeveloperID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateBid
	}

	proposal, err := entity.NewProposal(input.ProjectID, input.DeveloperID, input.Price, input.Timeline, input.Technology, input.Message)
	if err != nil {
		return nil, err
	}

	// Репозиторий повторно проверяет статус проекта и уникальность под блокировкой.
	if err := uc.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	uc.notify.Emit(ctx, entity.NewNotification(
		project.StudentID,
		"New Proposal Received",
		fmt.Sprintf("You received a new proposal for %q", project.Title),
		entity.NotificationProposal,
		proposal.ID,
	).With("projectId", project.ID))

	return proposal, nil
}
