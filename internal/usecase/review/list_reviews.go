package review

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
)

// UserReviews — отзывы о пользователе вместе с его текущим рейтингом.
type UserReviews struct {
	Rating  entity.UserRating
	Reviews []*entity.Review
}

type ListUserReviewsUseCase struct {
	reviewRepo repository.ReviewRepository
}

func NewListUserReviewsUseCase(reviewRepo repository.ReviewRepository) *ListUserReviewsUseCase {
	return &ListUserReviewsUseCase{reviewRepo: reviewRepo}
}

func (uc *ListUserReviewsUseCase) Execute(ctx context.Context, userID int64) (*UserReviews, error) {
	rating, err := uc.reviewRepo.GetRating(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.FindByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserReviews{Rating: rating, Reviews: reviews}, nil
}

type ListProjectReviewsUseCase struct {
	reviewRepo  repository.ReviewRepository
	projectRepo repository.ProjectRepository
}

func NewListProjectReviewsUseCase(reviewRepo repository.ReviewRepository, projectRepo repository.ProjectRepository) *ListProjectReviewsUseCase {
	return &ListProjectReviewsUseCase{reviewRepo: reviewRepo, projectRepo: projectRepo}
}

func (uc *ListProjectReviewsUseCase) Execute(ctx context.Context, projectID int64) ([]*entity.Review, error) {
	if _, err := uc.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return uc.reviewRepo.FindByProject(ctx, projectID)
}
