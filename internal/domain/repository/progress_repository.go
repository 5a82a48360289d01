package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type ProgressRepository interface {
	Append(ctx context.Context, entry *entity.ProgressEntry) error
	// FindByProject возвращает записи от новых к старым.
	FindByProject(ctx context.Context, projectID int64) ([]*entity.ProgressEntry, error)
}
