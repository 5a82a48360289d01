package dispute

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type ResolveDisputeUseCase struct {
	disputeRepo repository.DisputeRepository
	projectRepo repository.ProjectRepository
	notify      *notification.Emitter
}

func NewResolveDisputeUseCase(disputeRepo repository.DisputeRepository, projectRepo repository.ProjectRepository, notify *notification.Emitter) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{
		disputeRepo: disputeRepo,
		projectRepo: projectRepo,
		notify:      notify,
	}
}

// Execute закрывает спор решением администратора. Денежных последствий нет:
// возврат, если он нужен, оформляется отдельно.
func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, disputeID int64, admin entity.Actor, resolution string, notes *string) (*entity.Dispute, error) {
	if !admin.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	decision, err := valueobject.NewResolution(resolution)
	if err != nil {
		return nil, err
	}

	dispute, err := uc.disputeRepo.FindByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := dispute.Resolve(admin.UserID, decision, notes); err != nil {
		return nil, err
	}
	if err := uc.disputeRepo.Resolve(ctx, dispute); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"dispute_id": dispute.ID,
		"resolution": decision,
		"admin_id":   admin.UserID,
	}).Info("спор решён")

	uc.notifyParties(ctx, dispute)
	return dispute, nil
}

func (uc *ResolveDisputeUseCase) notifyParties(ctx context.Context, dispute *entity.Dispute) {
	project, err := uc.projectRepo.FindByID(ctx, dispute.ProjectID)
	if err != nil {
		logger.Log.WithField("dispute_id", dispute.ID).WithError(err).Warn("не удалось загрузить проект для уведомления о споре")
		return
	}

	recipients := []int64{dispute.RaisedBy}
	if other, err := project.Counterparty(dispute.RaisedBy); err == nil {
		recipients = append(recipients, other)
	} else if dispute.RaisedBy != project.StudentID {
		recipients = append(recipients, project.StudentID)
	}

	for _, userID := range recipients {
		uc.notify.Emit(ctx, entity.NewNotification(
			userID,
			"Dispute Resolved",
			fmt.Sprintf("The dispute on %q was resolved: %s", project.Title, *dispute.Resolution),
			entity.NotificationDispute,
			dispute.ID,
		).With("resolution", string(*dispute.Resolution)))
	}
}
