package project

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

type ProgressInput struct {
	Percentage *int
	Status     *string
	Note       *string
}

type ReportProgressUseCase struct {
	projectRepo  repository.ProjectRepository
	progressRepo repository.ProgressRepository
	notify       *notification.Emitter
}

func NewReportProgressUseCase(projectRepo repository.ProjectRepository, progressRepo repository.ProgressRepository, notify *notification.Emitter) *ReportProgressUseCase {
	return &ReportProgressUseCase{
		projectRepo:  projectRepo,
		progressRepo: progressRepo,
		notify:       notify,
	}
}

func (uc *ReportProgressUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor, input ProgressInput) (*entity.Project, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !project.IsAssignedTo(actor.UserID) {
		return nil, apperror.ErrNotAssignee
	}

	update, err := entity.NewProgressUpdate(input.Percentage, input.Status, input.Note)
	if err != nil {
		return nil, err
	}
	from := project.Status
	if err := project.ApplyProgress(update); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.UpdateProgress(ctx, project.ID, from, project.ProgressPercentage, project.Status); err != nil {
		return nil, err
	}

	// Журнал — вспомогательный аудит: источник истины уже обновлён.
	entry := &entity.ProgressEntry{
		ProjectID:          project.ID,
		UpdatedBy:          actor.UserID,
		ProgressPercentage: project.ProgressPercentage,
		Status:             project.Status,
		Note:               update.Note,
		CreatedAt:          project.UpdatedAt,
	}
	if err := uc.progressRepo.Append(ctx, entry); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"project_id": project.ID,
			"progress":   project.ProgressPercentage,
		}).WithError(err).Warn("не удалось записать историю прогресса")
	}

	uc.notify.Emit(ctx, entity.NewNotification(
		project.StudentID,
		entity.ProgressTitle(project),
		fmt.Sprintf("%q is now %d%% complete", project.Title, project.ProgressPercentage),
		entity.NotificationProgress,
		project.ID,
	).With("status", string(project.Status)))

	return project, nil
}
