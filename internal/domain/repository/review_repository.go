package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type ReviewRepository interface {
	// FindByProjectAndReviewer возвращает ErrReviewNotFound, если отзыва нет.
	FindByProjectAndReviewer(ctx context.Context, projectID, reviewerID int64) (*entity.Review, error)
	// CreateAndRecompute сохраняет отзыв и пересчитывает рейтинг получателя в одной транзакции.
	CreateAndRecompute(ctx context.Context, review *entity.Review) (entity.UserRating, error)
	FindByReviewee(ctx context.Context, userID int64) ([]*entity.Review, error)
	FindByProject(ctx context.Context, projectID int64) ([]*entity.Review, error)
	GetRating(ctx context.Context, userID int64) (entity.UserRating, error)
}
