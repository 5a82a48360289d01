package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type ProjectRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProjectRepositoryAdapter(db *sqlx.DB) *ProjectRepositoryAdapter {
	return &ProjectRepositoryAdapter{db: db}
}

// Назначение выводится один раз на пути чтения через принятое предложение.
const projectSelect = `
	SELECT p.id, p.student_id, p.title, p.description, p.technology, p.budget, p.deadline,
	p.status, p.accepted_proposal_id, p.progress_percentage, p.created_at, p.updated_at,
	pr.developer_id AS a_developer_id, u.name AS a_developer_name, u.rating AS a_developer_rating,
	pr.price AS a_price, pr.timeline AS a_timeline
	FROM projects p
	LEFT JOIN proposals pr ON pr.id = p.accepted_proposal_id
	LEFT JOIN users u ON u.id = pr.developer_id
`

const projectFrom = `
	FROM projects p
	LEFT JOIN proposals pr ON pr.id = p.accepted_proposal_id
`

func (r *ProjectRepositoryAdapter) Create(ctx context.Context, project *entity.Project) error {
	query := `
		INSERT INTO projects (student_id, title, description, technology, budget, deadline, status, progress_percentage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		project.StudentID, project.Title, project.Description, pq.StringArray(project.Technology),
		project.Budget, project.Deadline, string(project.Status), project.ProgressPercentage,
		project.CreatedAt, project.UpdatedAt,
	).Scan(&project.ID)
	if err != nil {
		return apperror.Database(err, "не удалось создать проект")
	}
	return nil
}

func (r *ProjectRepositoryAdapter) Edit(ctx context.Context, id int64, edit entity.ProjectEdit) (*entity.Project, error) {
	var project *entity.Project
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var row projectRow
		if err := tx.GetContext(ctx, &row, projectSelect+` WHERE p.id = $1 FOR UPDATE OF p`, id); err != nil {
			if isNoRows(err) {
				return apperror.ErrProjectNotFound
			}
			return apperror.Database(err, "не удалось получить проект")
		}
		project = row.toEntity()
		if err := project.ApplyEdit(edit); err != nil {
			return err
		}

		query := `
			UPDATE projects SET title = $2, description = $3, technology = $4, budget = $5, deadline = $6, updated_at = $7
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, query,
			project.ID, project.Title, project.Description, pq.StringArray(project.Technology),
			project.Budget, project.Deadline, project.UpdatedAt,
		); err != nil {
			return apperror.Database(err, "не удалось обновить проект")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Transition: при завершении прогресс становится 100, при отмене снимается назначение.
func (r *ProjectRepositoryAdapter) Transition(ctx context.Context, id int64, from, to valueobject.ProjectStatus) error {
	query := `
		UPDATE projects SET
			status = $3,
			progress_percentage = CASE WHEN $3 = 'completed' THEN 100 ELSE progress_percentage END,
			accepted_proposal_id = CASE WHEN $3 = 'cancelled' THEN NULL ELSE accepted_proposal_id END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		return apperror.Database(err, "не удалось сменить статус проекта")
	}
	return r.checkGuardedUpdate(ctx, res, id, "не удалось сменить статус проекта")
}

// checkGuardedUpdate различает удалённый проект и проект, чей статус уже сменился.
func (r *ProjectRepositoryAdapter) checkGuardedUpdate(ctx context.Context, res sql.Result, id int64, msg string) error {
	n, err := rowsAffected(res, msg)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id); err != nil {
		return apperror.Database(err, msg)
	}
	if !exists {
		return apperror.ErrProjectNotFound
	}
	return apperror.ErrProjectChanged
}

func (r *ProjectRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	return withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var accepted *int64
		err := tx.GetContext(ctx, &accepted, `SELECT accepted_proposal_id FROM projects WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrProjectNotFound
			}
			return apperror.Database(err, "не удалось получить проект")
		}
		if accepted != nil {
			return apperror.ErrProjectHasAssignee
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
			return apperror.Database(err, "не удалось удалить проект")
		}
		return nil
	})
}

func (r *ProjectRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.Project, error) {
	var row projectRow
	if err := r.db.GetContext(ctx, &row, projectSelect+` WHERE p.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Database(err, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepositoryAdapter) List(ctx context.Context, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	filter = filter.Normalize()

	var w whereBuilder
	if filter.Status != nil {
		w.add("p.status = ?", string(*filter.Status))
	}
	if filter.StudentID != nil {
		w.add("p.student_id = ?", *filter.StudentID)
	}
	if filter.DeveloperID != nil {
		w.add("pr.developer_id = ?", *filter.DeveloperID)
	}
	if filter.MinBudget != nil {
		w.add("p.budget >= ?", *filter.MinBudget)
	}
	if filter.MaxBudget != nil {
		w.add("p.budget <= ?", *filter.MaxBudget)
	}
	if filter.Technology != "" {
		w.add("EXISTS (SELECT 1 FROM unnest(p.technology) t WHERE lower(t) = lower(?))", filter.Technology)
	}
	if filter.Search != "" {
		w.add("(p.title ILIKE ? OR p.description ILIKE ?)", "%"+filter.Search+"%")
	}

	where := w.String()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+projectFrom+where, w.args...); err != nil {
		return nil, 0, apperror.Database(err, "не удалось посчитать проекты")
	}

	tail, args := w.page(filter.Limit, filter.Offset)
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, projectSelect+where+` ORDER BY p.created_at DESC, p.id DESC`+tail, args...); err != nil {
		return nil, 0, apperror.Database(err, "не удалось получить проекты")
	}

	result := make([]*entity.Project, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

func (r *ProjectRepositoryAdapter) UpdateProgress(ctx context.Context, id int64, from valueobject.ProjectStatus, progress int, status valueobject.ProjectStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET progress_percentage = $3, status = $4, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, string(from), progress, string(status),
	)
	if err != nil {
		return apperror.Database(err, "не удалось обновить прогресс проекта")
	}
	return r.checkGuardedUpdate(ctx, res, id, "не удалось обновить прогресс проекта")
}

type projectRow struct {
	ID                 int64           `db:"id"`
	StudentID          int64           `db:"student_id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	Technology         pq.StringArray  `db:"technology"`
	Budget             decimal.Decimal `db:"budget"`
	Deadline           time.Time       `db:"deadline"`
	Status             string          `db:"status"`
	AcceptedProposalID *int64          `db:"accepted_proposal_id"`
	ProgressPercentage int             `db:"progress_percentage"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`

	DeveloperID     *int64              `db:"a_developer_id"`
	DeveloperName   *string             `db:"a_developer_name"`
	DeveloperRating decimal.NullDecimal `db:"a_developer_rating"`
	Price           decimal.NullDecimal `db:"a_price"`
	Timeline        *int                `db:"a_timeline"`
}

func (p *projectRow) toEntity() *entity.Project {
	project := &entity.Project{
		ID:                 p.ID,
		StudentID:          p.StudentID,
		Title:              p.Title,
		Description:        p.Description,
		Technology:         []string(p.Technology),
		Budget:             p.Budget,
		Deadline:           p.Deadline,
		Status:             valueobject.ProjectStatus(p.Status),
		AcceptedProposalID: p.AcceptedProposalID,
		ProgressPercentage: p.ProgressPercentage,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.AcceptedProposalID != nil && p.DeveloperID != nil {
		assignment := &entity.Assignment{
			ProposalID:  *p.AcceptedProposalID,
			DeveloperID: *p.DeveloperID,
			Price:       p.Price.Decimal,
		}
		if p.DeveloperName != nil {
			assignment.DeveloperName = *p.DeveloperName
		}
		if p.DeveloperRating.Valid {
			assignment.DeveloperRating = p.DeveloperRating.Decimal.InexactFloat64()
		}
		if p.Timeline != nil {
			assignment.Timeline = *p.Timeline
		}
		project.Assignment = assignment
	}
	return project
}
