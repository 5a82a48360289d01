package proposal

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type GetProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
}

func NewGetProposalUseCase(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: proposalRepo, projectRepo: projectRepo}
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID int64, actor entity.Actor) (*entity.Proposal, error) {
	proposal, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || proposal.IsOwnedBy(actor.UserID) {
		return proposal, nil
	}
	project, err := uc.projectRepo.FindByID(ctx, proposal.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(actor.UserID) {
		return nil, apperror.ErrForbidden
	}
	return proposal, nil
}

// ListProjectProposalsUseCase возвращает предложения проекта владельцу вместе с рейтингом разработчиков.
type ListProjectProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
}

func NewListProjectProposalsUseCase(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository) *ListProjectProposalsUseCase {
	return &ListProjectProposalsUseCase{proposalRepo: proposalRepo, projectRepo: projectRepo}
}

func (uc *ListProjectProposalsUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor) ([]*entity.Proposal, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanBeManagedBy(actor) {
		return nil, apperror.ErrNotProjectOwner
	}
	return uc.proposalRepo.FindByProjectID(ctx, projectID)
}

type ListMyProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewListMyProposalsUseCase(proposalRepo repository.ProposalRepository) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{proposalRepo: proposalRepo}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, developerID int64) ([]*entity.Proposal, error) {
	return uc.proposalRepo.FindByDeveloperID(ctx, developerID)
}
