package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *entity.Dispute) error
	FindByID(ctx context.Context, id int64) (*entity.Dispute, error)
	FindByProject(ctx context.Context, projectID int64) ([]*entity.Dispute, error)
	// Resolve закрывает только открытый спор. Для решённого возвращает ErrDisputeAlreadyResolved.
	Resolve(ctx context.Context, dispute *entity.Dispute) error
	List(ctx context.Context, filter DisputeFilter) ([]*entity.Dispute, int, error)
}

type DisputeFilter struct {
	Status       *valueobject.DisputeStatus
	RaisedByRole *valueobject.Role
	Page         int
	Limit        int
}

func (f DisputeFilter) Normalize() DisputeFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	f.Limit, _ = clampPage(f.Limit, 0)
	return f
}

func (f DisputeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
