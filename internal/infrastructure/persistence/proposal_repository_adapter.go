package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type ProposalRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProposalRepositoryAdapter(db *sqlx.DB) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{db: db}
}

const proposalSelect = `
	SELECT p.id, p.project_id, p.developer_id, p.price, p.timeline, p.technology, p.message,
	p.status, p.created_at, p.updated_at,
	COALESCE(u.name, '') AS developer_name, COALESCE(u.rating, 0) AS developer_rating
	FROM proposals p
	LEFT JOIN users u ON u.id = p.developer_id
`

// Create блокирует строку проекта, чтобы статус не сменился между проверкой и вставкой.
func (r *ProposalRepositoryAdapter) Create(ctx context.Context, proposal *entity.Proposal) error {
	return withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var status string
		err := tx.GetContext(ctx, &status, `SELECT status FROM projects WHERE id = $1 FOR SHARE`, proposal.ProjectID)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrProjectNotFound
			}
			return apperror.Database(err, "не удалось получить проект")
		}
		if valueobject.ProjectStatus(status) != valueobject.ProjectStatusOpen {
			return apperror.ErrProjectNotOpen
		}

		query := `
			INSERT INTO proposals (project_id, developer_id, price, timeline, technology, message, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (project_id, developer_id) DO NOTHING
			RETURNING id
		`
		err = tx.QueryRowxContext(ctx, query,
			proposal.ProjectID, proposal.DeveloperID, proposal.Price, proposal.Timeline,
			pq.StringArray(proposal.Technology), proposal.Message, string(proposal.Status),
			proposal.CreatedAt, proposal.UpdatedAt,
		).Scan(&proposal.ID)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrDuplicateBid
			}
			return apperror.Database(err, "не удалось создать предложение")
		}
		return nil
	})
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.Proposal, error) {
	return r.findOne(ctx, r.db, proposalSelect+` WHERE p.id = $1`, id)
}

func (r *ProposalRepositoryAdapter) FindByProjectID(ctx context.Context, projectID int64) ([]*entity.Proposal, error) {
	return r.findMany(ctx, proposalSelect+` WHERE p.project_id = $1 ORDER BY p.created_at DESC, p.id DESC`, projectID)
}

func (r *ProposalRepositoryAdapter) FindByDeveloperID(ctx context.Context, developerID int64) ([]*entity.Proposal, error) {
	return r.findMany(ctx, proposalSelect+` WHERE p.developer_id = $1 ORDER BY p.created_at DESC, p.id DESC`, developerID)
}

func (r *ProposalRepositoryAdapter) FindByProjectAndDeveloper(ctx context.Context, projectID, developerID int64) (*entity.Proposal, error) {
	return r.findOne(ctx, r.db, proposalSelect+` WHERE p.project_id = $1 AND p.developer_id = $2`, projectID, developerID)
}

// Accept принимает предложение, отклоняет ожидающие соседние и переводит
// проект в работу. Всё происходит под блокировкой строки проекта.
func (r *ProposalRepositoryAdapter) Accept(ctx context.Context, proposalID int64) (*entity.Proposal, error) {
	var accepted *entity.Proposal
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var projectID int64
		err := tx.GetContext(ctx, &projectID, `SELECT project_id FROM proposals WHERE id = $1`, proposalID)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrProposalNotFound
			}
			return apperror.Database(err, "не удалось получить предложение")
		}

		var projectStatus string
		if err := tx.GetContext(ctx, &projectStatus, `SELECT status FROM projects WHERE id = $1 FOR UPDATE`, projectID); err != nil {
			return apperror.Database(err, "не удалось заблокировать проект")
		}
		if valueobject.ProjectStatus(projectStatus) != valueobject.ProjectStatusOpen {
			return apperror.ErrProjectNotOpen
		}

		var status string
		if err := tx.GetContext(ctx, &status, `SELECT status FROM proposals WHERE id = $1 FOR UPDATE`, proposalID); err != nil {
			return apperror.Database(err, "не удалось заблокировать предложение")
		}
		if valueobject.ProposalStatus(status) != valueobject.ProposalStatusPending {
			return apperror.ErrProposalNotPending
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE proposals
			SET status = CASE WHEN id = $2 THEN 'accepted' ELSE 'rejected' END, updated_at = NOW()
			WHERE project_id = $1 AND (id = $2 OR status = 'pending')
		`, projectID, proposalID)
		if err != nil {
			return apperror.Database(err, "не удалось обновить предложения")
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET status = 'in_progress', accepted_proposal_id = $2, updated_at = NOW()
			WHERE id = $1
		`, projectID, proposalID)
		if err != nil {
			return apperror.Database(err, "не удалось перевести проект в работу")
		}

		accepted, err = r.findOne(ctx, tx, proposalSelect+` WHERE p.id = $1`, proposalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (r *ProposalRepositoryAdapter) Reject(ctx context.Context, proposalID int64) (*entity.Proposal, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE proposals SET status = 'rejected', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		proposalID,
	)
	if err != nil {
		return nil, apperror.Database(err, "не удалось отклонить предложение")
	}
	n, err := rowsAffected(res, "не удалось отклонить предложение")
	if err != nil {
		return nil, err
	}

	proposal, err := r.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperror.ErrProposalNotPending
	}
	return proposal, nil
}

func (r *ProposalRepositoryAdapter) findOne(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*entity.Proposal, error) {
	var row proposalRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Database(err, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) findMany(ctx context.Context, query string, args ...any) ([]*entity.Proposal, error) {
	var rows []proposalRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Database(err, "не удалось получить предложения")
	}
	result := make([]*entity.Proposal, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type proposalRow struct {
	ID              int64           `db:"id"`
	ProjectID       int64           `db:"project_id"`
	DeveloperID     int64           `db:"developer_id"`
	Price           decimal.Decimal `db:"price"`
	Timeline        int             `db:"timeline"`
	Technology      pq.StringArray  `db:"technology"`
	Message         *string         `db:"message"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	DeveloperName   string          `db:"developer_name"`
	DeveloperRating decimal.Decimal `db:"developer_rating"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	return &entity.Proposal{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		DeveloperID:     p.DeveloperID,
		Price:           p.Price,
		Timeline:        p.Timeline,
		Technology:      []string(p.Technology),
		Message:         p.Message,
		Status:          valueobject.ProposalStatus(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		DeveloperName:   p.DeveloperName,
		DeveloperRating: p.DeveloperRating.InexactFloat64(),
	}
}
