package persistence

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type ReviewRepositoryAdapter struct {
	db *sqlx.DB
}

func NewReviewRepositoryAdapter(db *sqlx.DB) *ReviewRepositoryAdapter {
	return &ReviewRepositoryAdapter{db: db}
}

const reviewSelect = `
	SELECT r.id, r.project_id, r.reviewer_id, r.reviewee_id, r.rating, r.comment, r.created_at,
	COALESCE(u.name, '') AS reviewer_name
	FROM reviews r
	LEFT JOIN users u ON u.id = r.reviewer_id
`

func (r *ReviewRepositoryAdapter) FindByProjectAndReviewer(ctx context.Context, projectID, reviewerID int64) (*entity.Review, error) {
	var row reviewRow
	err := r.db.GetContext(ctx, &row, reviewSelect+` WHERE r.project_id = $1 AND r.reviewer_id = $2`, projectID, reviewerID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, apperror.Database(err, "не удалось получить отзыв")
	}
	return row.toEntity(), nil
}

// CreateAndRecompute вставляет отзыв и пересчитывает рейтинг по полному набору
// оценок под блокировкой строки пользователя, поэтому параллельные отзывы не теряются.
func (r *ReviewRepositoryAdapter) CreateAndRecompute(ctx context.Context, review *entity.Review) (entity.UserRating, error) {
	var rating entity.UserRating
	err := withTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO reviews (project_id, reviewer_id, reviewee_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (project_id, reviewer_id) DO NOTHING
			RETURNING id
		`, review.ProjectID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment, review.CreatedAt,
		).Scan(&review.ID)
		if err != nil {
			if isNoRows(err) {
				return apperror.ErrDuplicateReview
			}
			return apperror.Database(err, "не удалось сохранить отзыв")
		}

		var userID int64
		if err := tx.GetContext(ctx, &userID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, review.RevieweeID); err != nil {
			if isNoRows(err) {
				return apperror.ErrUserNotFound
			}
			return apperror.Database(err, "не удалось заблокировать пользователя")
		}

		var ratings []int
		if err := tx.SelectContext(ctx, &ratings, `SELECT rating FROM reviews WHERE reviewee_id = $1`, review.RevieweeID); err != nil {
			return apperror.Database(err, "не удалось получить оценки")
		}
		rating = entity.ComputeRating(review.RevieweeID, ratings)

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET rating = $2, total_ratings = $3, updated_at = NOW() WHERE id = $1`,
			review.RevieweeID, decimal.NewFromFloat(rating.Rating).Round(2), rating.TotalRatings,
		)
		if err != nil {
			return apperror.Database(err, "не удалось обновить рейтинг")
		}
		return nil
	})
	if err != nil {
		return entity.UserRating{}, err
	}
	return rating, nil
}

func (r *ReviewRepositoryAdapter) FindByReviewee(ctx context.Context, userID int64) ([]*entity.Review, error) {
	return r.findMany(ctx, reviewSelect+` WHERE r.reviewee_id = $1 ORDER BY r.created_at DESC, r.id DESC`, userID)
}

func (r *ReviewRepositoryAdapter) FindByProject(ctx context.Context, projectID int64) ([]*entity.Review, error) {
	return r.findMany(ctx, reviewSelect+` WHERE r.project_id = $1 ORDER BY r.created_at DESC, r.id DESC`, projectID)
}

func (r *ReviewRepositoryAdapter) GetRating(ctx context.Context, userID int64) (entity.UserRating, error) {
	var row struct {
		ID           int64           `db:"id"`
		Rating       decimal.Decimal `db:"rating"`
		TotalRatings int             `db:"total_ratings"`
	}
	if err := r.db.GetContext(ctx, &row, `SELECT id, rating, total_ratings FROM users WHERE id = $1`, userID); err != nil {
		if isNoRows(err) {
			return entity.UserRating{}, apperror.ErrUserNotFound
		}
		return entity.UserRating{}, apperror.Database(err, "не удалось получить рейтинг")
	}
	return entity.UserRating{
		UserID:       row.ID,
		Rating:       row.Rating.InexactFloat64(),
		TotalRatings: row.TotalRatings,
	}, nil
}

func (r *ReviewRepositoryAdapter) findMany(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Database(err, "не удалось получить отзывы")
	}
	result := make([]*entity.Review, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type reviewRow struct {
	ID           int64     `db:"id"`
	ProjectID    int64     `db:"project_id"`
	ReviewerID   int64     `db:"reviewer_id"`
	RevieweeID   int64     `db:"reviewee_id"`
	Rating       int       `db:"rating"`
	Comment      *string   `db:"comment"`
	CreatedAt    time.Time `db:"created_at"`
	ReviewerName string    `db:"reviewer_name"`
}

func (r *reviewRow) toEntity() *entity.Review {
	return &entity.Review{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		ReviewerID:   r.ReviewerID,
		RevieweeID:   r.RevieweeID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
		ReviewerName: r.ReviewerName,
	}
}
