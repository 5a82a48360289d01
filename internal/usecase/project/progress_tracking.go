package project

import (
	"context"
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type GetProgressTrackingUseCase struct {
	projectRepo  repository.ProjectRepository
	progressRepo repository.ProgressRepository
	now          func() time.Time
}

func NewGetProgressTrackingUseCase(projectRepo repository.ProjectRepository, progressRepo repository.ProgressRepository) *GetProgressTrackingUseCase {
	return &GetProgressTrackingUseCase{
		projectRepo:  projectRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// WithClock подменяет источник времени.
func (uc *GetProgressTrackingUseCase) WithClock(now func() time.Time) *GetProgressTrackingUseCase {
	uc.now = now
	return uc
}

func (uc *GetProgressTrackingUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor) (*entity.ProgressTracking, error) {
	project, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanBeManagedBy(actor) {
		return nil, apperror.ErrNotProjectOwner
	}

	history, err := uc.progressRepo.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &entity.ProgressTracking{
		Project:    project,
		History:    history,
		Milestones: entity.BuildMilestones(project.ProgressPercentage, history),
		Timeline:   entity.ComputeTimeline(project.CreatedAt, project.Deadline, uc.now()),
	}, nil
}
