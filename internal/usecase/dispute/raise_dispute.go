package dispute

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type RaiseDisputeInput struct {
	ProjectID   int64
	RaiserID    int64
	Reason      string
	Description *string
}

type RaiseDisputeUseCase struct {
	disputeRepo repository.DisputeRepository
	projectRepo repository.ProjectRepository
	notify      *notification.Emitter
}

func NewRaiseDisputeUseCase(disputeRepo repository.DisputeRepository, projectRepo repository.ProjectRepository, notify *notification.Emitter) *RaiseDisputeUseCase {
	return &RaiseDisputeUseCase{
		disputeRepo: disputeRepo,
		projectRepo: projectRepo,
		notify:      notify,
	}
}

// Execute открывает спор. По одному проекту допускается несколько открытых споров.
func (uc *RaiseDisputeUseCase) Execute(ctx context.Context, input RaiseDisputeInput) (*entity.Dispute, error) {
	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	dispute, err := entity.NewDispute(project, input.RaiserID, input.Reason, input.Description)
	if err != nil {
		return nil, err
	}
	if err := uc.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"dispute_id": dispute.ID,
		"project_id": project.ID,
		"raised_by":  dispute.RaisedBy,
	}).Info("открыт спор")

	if counterparty, err := project.Counterparty(input.RaiserID); err == nil {
		uc.notify.Emit(ctx, entity.NewNotification(
			counterparty,
			"Dispute Raised",
			fmt.Sprintf("A dispute was raised on %q: %s", project.Title, dispute.Reason),
			entity.NotificationDispute,
			dispute.ID,
		).With("projectId", project.ID))
	}

	return dispute, nil
}
