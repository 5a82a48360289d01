package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type ProgressRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProgressRepositoryAdapter(db *sqlx.DB) *ProgressRepositoryAdapter {
	return &ProgressRepositoryAdapter{db: db}
}

func (r *ProgressRepositoryAdapter) Append(ctx context.Context, entry *entity.ProgressEntry) error {
	query := `
		INSERT INTO progress_history (project_id, updated_by, progress_percentage, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		entry.ProjectID, entry.UpdatedBy, entry.ProgressPercentage, string(entry.Status), entry.Note, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return apperror.Database(err, "не удалось записать историю прогресса")
	}
	return nil
}

func (r *ProgressRepositoryAdapter) FindByProject(ctx context.Context, projectID int64) ([]*entity.ProgressEntry, error) {
	var rows []progressRow
	query := `
		SELECT id, project_id, updated_by, progress_percentage, status, note, created_at
		FROM progress_history WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, apperror.Database(err, "не удалось получить историю прогресса")
	}
	result := make([]*entity.ProgressEntry, len(rows))
	for i, row := range rows {
		result[i] = &entity.ProgressEntry{
			ID:                 row.ID,
			ProjectID:          row.ProjectID,
			UpdatedBy:          row.UpdatedBy,
			ProgressPercentage: row.ProgressPercentage,
			Status:             valueobject.ProjectStatus(row.Status),
			Note:               row.Note,
			CreatedAt:          row.CreatedAt,
		}
	}
	return result, nil
}

type progressRow struct {
	ID                 int64     `db:"id"`
	ProjectID          int64     `db:"project_id"`
	UpdatedBy          int64     `db:"updated_by"`
	ProgressPercentage int       `db:"progress_percentage"`
	Status             string    `db:"status"`
	Note               *string   `db:"note"`
	CreatedAt          time.Time `db:"created_at"`
}
