package project

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type CreateProjectInput struct {
	Title       string
	Description string
	Technology  []string
	Budget      decimal.Decimal
	Deadline    time.Time
}

type CreateProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewCreateProjectUseCase(projectRepo repository.ProjectRepository) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: projectRepo}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateProjectInput) (*entity.Project, error) {
	if actor.Role != valueobject.RoleStudent && !actor.IsAdmin() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "создавать проекты могут только студенты")
	}

	project, err := entity.NewProject(actor.UserID, input.Title, input.Description, input.Technology, input.Budget, input.Deadline)
	if err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}
