package dispute

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// canView — участники проекта, автор спора и администраторы.
func canView(project *entity.Project, dispute *entity.Dispute, actor entity.Actor) bool {
	if actor.IsAdmin() || project.IsParticipant(actor.UserID) {
		return true
	}
	return dispute != nil && dispute.RaisedBy == actor.UserID
}

type GetDisputeUseCase struct {
	disputeRepo repository.DisputeRepository
	projectRepo repository.ProjectRepository
}

func NewGetDisputeUseCase(disputeRepo repository.DisputeRepository, projectRepo repository.ProjectRepository) *GetDisputeUseCase {
	return &GetDisputeUseCase{disputeRepo: disputeRepo, projectRepo: projectRepo}
}

func (uc *GetDisputeUseCase) Execute(ctx context.Context, disputeID int64, actor entity.Actor) (*entity.Dispute, error) {
	dispute, err := uc.disputeRepo.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	project, err := uc.projectRepo.FindByID(ctx, dispute.ProjectID)
	if err != nil {
		return nil, err
	}
	if !canView(project, dispute, actor) {
		return nil, apperror.ErrNotParticipant
	}
	dispute.ProjectTitle = project.Title
	return dispute, nil
}

type ListProjectDisputesUseCase struct {
	disputeRepo repository.DisputeRepository
	projectRepo repository.ProjectRepository
}

func NewListProjectDisputesUseCase(disputeRepo repository.DisputeRepository, projectRepo repository.ProjectRepository) *ListProjectDisputesUseCase {
	return &ListProjectDisputesUseCase{disputeRepo: disputeRepo, projectRepo: projectRepo}
}

func (uc *ListProjectDisputesUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor) ([]*entity.Dispute, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !canView(project, nil, actor) {
		return nil, apperror.ErrNotParticipant
	}
	return uc.disputeRepo.FindByProject(ctx, project.ID)
}

// ListDisputesUseCase — очередь споров для администратора.
type ListDisputesUseCase struct {
	disputeRepo repository.DisputeRepository
}

func NewListDisputesUseCase(disputeRepo repository.DisputeRepository) *ListDisputesUseCase {
	return &ListDisputesUseCase{disputeRepo: disputeRepo}
}

func (uc *ListDisputesUseCase) Execute(ctx context.Context, actor entity.Actor, filter repository.DisputeFilter) ([]*entity.Dispute, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperror.ErrForbidden
	}
	return uc.disputeRepo.List(ctx, filter.Normalize())
}
