package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type DisputeRepositoryAdapter struct {
	db *sqlx.DB
}

func NewDisputeRepositoryAdapter(db *sqlx.DB) *DisputeRepositoryAdapter {
	return &DisputeRepositoryAdapter{db: db}
}

const disputeSelect = `
	SELECT d.id, d.project_id, d.raised_by, d.raised_by_role, d.reason, d.description, d.status,
	d.resolution, d.resolution_notes, d.resolved_by, d.resolved_at, d.created_at, d.updated_at,
	COALESCE(p.title, '') AS project_title
	FROM disputes d
	LEFT JOIN projects p ON p.id = d.project_id
`

func (r *DisputeRepositoryAdapter) Create(ctx context.Context, dispute *entity.Dispute) error {
	query := `
		INSERT INTO disputes (project_id, raised_by, raised_by_role, reason, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		dispute.ProjectID, dispute.RaisedBy, string(dispute.RaisedByRole), dispute.Reason,
		dispute.Description, string(dispute.Status), dispute.CreatedAt, dispute.UpdatedAt,
	).Scan(&dispute.ID)
	if err != nil {
		return apperror.Database(err, "не удалось создать спор")
	}
	return nil
}

func (r *DisputeRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.Dispute, error) {
	var row disputeRow
	if err := r.db.GetContext(ctx, &row, disputeSelect+` WHERE d.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrDisputeNotFound
		}
		return nil, apperror.Database(err, "не удалось получить спор")
	}
	return row.toEntity(), nil
}

func (r *DisputeRepositoryAdapter) FindByProject(ctx context.Context, projectID int64) ([]*entity.Dispute, error) {
	return r.findMany(ctx, disputeSelect+` WHERE d.project_id = $1 ORDER BY d.created_at DESC, d.id DESC`, projectID)
}

// Resolve обновляет только открытый спор: условие в WHERE делает решение окончательным.
func (r *DisputeRepositoryAdapter) Resolve(ctx context.Context, dispute *entity.Dispute) error {
	var resolution *string
	if dispute.Resolution != nil {
		s := string(*dispute.Resolution)
		resolution = &s
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE disputes SET status = $2, resolution = $3, resolution_notes = $4, resolved_by = $5,
		resolved_at = $6, updated_at = $7
		WHERE id = $1 AND status = 'open'
	`, dispute.ID, string(dispute.Status), resolution, dispute.ResolutionNotes, dispute.ResolvedBy,
		dispute.ResolvedAt, dispute.UpdatedAt)
	if err != nil {
		return apperror.Database(err, "не удалось решить спор")
	}
	n, err := rowsAffected(res, "не удалось решить спор")
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM disputes WHERE id = $1)`, dispute.ID); err != nil {
		return apperror.Database(err, "не удалось получить спор")
	}
	if !exists {
		return apperror.ErrDisputeNotFound
	}
	return apperror.ErrDisputeAlreadyResolved
}

func (r *DisputeRepositoryAdapter) List(ctx context.Context, filter repository.DisputeFilter) ([]*entity.Dispute, int, error) {
	filter = filter.Normalize()

	var w whereBuilder
	if filter.Status != nil {
		w.add("d.status = ?", string(*filter.Status))
	}
	if filter.RaisedByRole != nil {
		w.add("d.raised_by_role = ?", string(*filter.RaisedByRole))
	}

	where := w.String()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM disputes d`+where, w.args...); err != nil {
		return nil, 0, apperror.Database(err, "не удалось посчитать споры")
	}

	tail, args := w.page(filter.Limit, filter.Offset())
	disputes, err := r.findMany(ctx, disputeSelect+where+` ORDER BY d.created_at DESC, d.id DESC`+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

func (r *DisputeRepositoryAdapter) findMany(ctx context.Context, query string, args ...any) ([]*entity.Dispute, error) {
	var rows []disputeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Database(err, "не удалось получить споры")
	}
	result := make([]*entity.Dispute, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type disputeRow struct {
	ID              int64      `db:"id"`
	ProjectID       int64      `db:"project_id"`
	RaisedBy        int64      `db:"raised_by"`
	RaisedByRole    string     `db:"raised_by_role"`
	Reason          string     `db:"reason"`
	Description     *string    `db:"description"`
	Status          string     `db:"status"`
	Resolution      *string    `db:"resolution"`
	ResolutionNotes *string    `db:"resolution_notes"`
	ResolvedBy      *int64     `db:"resolved_by"`
	ResolvedAt      *time.Time `db:"resolved_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	ProjectTitle    string     `db:"project_title"`
}

func (d *disputeRow) toEntity() *entity.Dispute {
	dispute := &entity.Dispute{
		ID:              d.ID,
		ProjectID:       d.ProjectID,
		RaisedBy:        d.RaisedBy,
		RaisedByRole:    valueobject.Role(d.RaisedByRole),
		Reason:          d.Reason,
		Description:     d.Description,
		Status:          valueobject.DisputeStatus(d.Status),
		ResolutionNotes: d.ResolutionNotes,
		ResolvedBy:      d.ResolvedBy,
		ResolvedAt:      d.ResolvedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		ProjectTitle:    d.ProjectTitle,
	}
	if d.Resolution != nil {
		resolution := valueobject.Resolution(*d.Resolution)
		dispute.Resolution = &resolution
	}
	return dispute
}
