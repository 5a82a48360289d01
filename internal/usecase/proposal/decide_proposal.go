package proposal

import (
	"context"
	"fmt"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

// AcceptProposalUseCase принимает предложение владельцем проекта.
type AcceptProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
	notify       *notification.Emitter
}

func NewAcceptProposalUseCase(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository, notify *notification.Emitter) *AcceptProposalUseCase {
	return &AcceptProposalUseCase{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
		notify:       notify,
	}
}

func (uc *AcceptProposalUseCase) Execute(ctx context.Context, proposalID, userID int64) (*entity.Proposal, error) {
	proposal, project, err := loadOwned(ctx, uc.proposalRepo, uc.projectRepo, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsPending() {
		return nil, apperror.ErrProposalNotPending
	}
	if !project.IsOpen() {
		return nil, apperror.ErrProjectNotOpen
	}

	accepted, err := uc.proposalRepo.Accept(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}

	uc.notify.Emit(ctx, entity.NewNotification(
		accepted.DeveloperID,
		"Proposal Accepted!",
		fmt.Sprintf("Your proposal for %q has been accepted", project.Title),
		entity.NotificationProposalAccepted,
		project.ID,
	).With("proposalId", accepted.ID))

	return accepted, nil
}

// RejectProposalUseCase отклоняет одно предложение, не затрагивая проект.
type RejectProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	projectRepo  repository.ProjectRepository
}

func NewRejectProposalUseCase(proposalRepo repository.ProposalRepository, projectRepo repository.ProjectRepository) *RejectProposalUseCase {
	return &RejectProposalUseCase{
		proposalRepo: proposalRepo,
		projectRepo:  projectRepo,
	}
}

func (uc *RejectProposalUseCase) Execute(ctx context.Context, proposalID, userID int64) (*entity.Proposal, error) {
	proposal, _, err := loadOwned(ctx, uc.proposalRepo, uc.projectRepo, proposalID, userID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsPending() {
		return nil, apperror.ErrProposalNotPending
	}
	return uc.proposalRepo.Reject(ctx, proposal.ID)
}

func loadOwned(ctx context.Context, proposals repository.ProposalRepository, projects repository.ProjectRepository, proposalID, userID int64) (*entity.Proposal, *entity.Project, error) {
	proposal, err := proposals.FindByID(ctx, proposalID)
	if err != nil {
		return nil, nil, err
	}
	project, err := projects.FindByID(ctx, proposal.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.IsOwnedBy(userID) {
		return nil, nil, apperror.ErrNotProjectOwner
	}
	return proposal, project, nil
}
