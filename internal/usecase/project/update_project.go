package project

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type UpdateProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewUpdateProjectUseCase(projectRepo repository.ProjectRepository) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projectRepo: projectRepo}
}

func (uc *UpdateProjectUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor, edit entity.ProjectEdit) (*entity.Project, error) {
	project, err := findManaged(ctx, uc.projectRepo, projectID, actor)
	if err != nil {
		return nil, err
	}
	// Правка применяется репозиторием к актуальному состоянию под блокировкой.
	return uc.projectRepo.Edit(ctx, project.ID, edit)
}

type UpdateProjectStatusUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewUpdateProjectStatusUseCase(projectRepo repository.ProjectRepository) *UpdateProjectStatusUseCase {
	return &UpdateProjectStatusUseCase{projectRepo: projectRepo}
}

func (uc *UpdateProjectStatusUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor, status valueobject.ProjectStatus) (*entity.Project, error) {
	project, err := findManaged(ctx, uc.projectRepo, projectID, actor)
	if err != nil {
		return nil, err
	}
	from := project.Status
	if err := project.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := uc.projectRepo.Transition(ctx, project.ID, from, status); err != nil {
		return nil, err
	}
	return uc.projectRepo.FindByID(ctx, project.ID)
}

type DeleteProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewDeleteProjectUseCase(projectRepo repository.ProjectRepository) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: projectRepo}
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, projectID int64, actor entity.Actor) error {
	project, err := findManaged(ctx, uc.projectRepo, projectID, actor)
	if err != nil {
		return err
	}
	if err := project.CanBeDeleted(); err != nil {
		return err
	}
	return uc.projectRepo.Delete(ctx, project.ID)
}

func findManaged(ctx context.Context, repo repository.ProjectRepository, projectID int64, actor entity.Actor) (*entity.Project, error) {
	project, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanBeManagedBy(actor) {
		return nil, apperror.ErrNotProjectOwner
	}
	return project, nil
}
