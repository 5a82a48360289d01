package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	// Edit под блокировкой строки применяет правку к актуальному состоянию проекта
	// и сохраняет только редактируемые поля. Статус, назначение и прогресс не меняются.
	Edit(ctx context.Context, id int64, edit entity.ProjectEdit) (*entity.Project, error)
	// Transition меняет статус, только если проект всё ещё в статусе from.
	// Иначе возвращает ErrProjectChanged.
	Transition(ctx context.Context, id int64, from, to valueobject.ProjectStatus) error
	Delete(ctx context.Context, id int64) error
	// FindByID возвращает проект вместе с Assignment.
	FindByID(ctx context.Context, id int64) (*entity.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*entity.Project, int, error)
	// UpdateProgress сохраняет прогресс и статус, выставленные разработчиком,
	// если статус проекта всё ещё from. Иначе возвращает ErrProjectChanged.
	UpdateProgress(ctx context.Context, id int64, from valueobject.ProjectStatus, progress int, status valueobject.ProjectStatus) error
}

// ProjectFilter — спецификация выборки проектов. Пустые поля не участвуют в фильтре.
type ProjectFilter struct {
	Status      *valueobject.ProjectStatus
	Technology  string
	MinBudget   *decimal.Decimal
	MaxBudget   *decimal.Decimal
	Search      string
	StudentID   *int64
	DeveloperID *int64
	Limit       int
	Offset      int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize приводит пагинацию к допустимым границам.
func (f ProjectFilter) Normalize() ProjectFilter {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	return f
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
