package project

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

type GetProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewGetProjectUseCase(projectRepo repository.ProjectRepository) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: projectRepo}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, projectID int64) (*entity.Project, error) {
	return uc.projectRepo.FindByID(ctx, projectID)
}

type ListProjectsUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewListProjectsUseCase(projectRepo repository.ProjectRepository) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: projectRepo}
}

func (uc *ListProjectsUseCase) Execute(ctx context.Context, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	return uc.projectRepo.List(ctx, filter.Normalize())
}

// ListMyProjectsUseCase — проекты студента или проекты, назначенные разработчику.
type ListMyProjectsUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewListMyProjectsUseCase(projectRepo repository.ProjectRepository) *ListMyProjectsUseCase {
	return &ListMyProjectsUseCase{projectRepo: projectRepo}
}

func (uc *ListMyProjectsUseCase) Execute(ctx context.Context, actor entity.Actor, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	userID := actor.UserID
	filter.StudentID, filter.DeveloperID = nil, nil
	if actor.Role == valueobject.RoleDeveloper {
		filter.DeveloperID = &userID
	} else {
		filter.StudentID = &userID
	}
	return uc.projectRepo.List(ctx, filter.Normalize())
}
