package review

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type SubmitReviewInput struct {
	ProjectID  int64
	ReviewerID int64
	Rating     int
	Comment    *string
}

// SubmitReviewResult — сохранённый отзыв и пересчитанный рейтинг получателя.
type SubmitReviewResult struct {
	Review *entity.Review
	Rating entity.UserRating
}

type SubmitReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	projectRepo repository.ProjectRepository
	notify      *notification.Emitter
}

func NewSubmitReviewUseCase(reviewRepo repository.ReviewRepository, projectRepo repository.ProjectRepository, notify *notification.Emitter) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		notify:      notify,
	}
}

func (uc *SubmitReviewUseCase) Execute(ctx context.Context, input SubmitReviewInput) (*SubmitReviewResult, error) {
	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsParticipant(input.ReviewerID) {
		return nil, apperror.ErrNotParticipant
	}
	revieweeID, err := project.Counterparty(input.ReviewerID)
	if err != nil {
		return nil, err
	}

	review, err := entity.NewReview(project.ID, input.ReviewerID, revieweeID, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	existing, err := uc.reviewRepo.FindByProjectAndReviewer(ctx, project.ID, input.ReviewerID)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateReview
	}

	// Повторная вставка при гонке отсекается уникальным индексом внутри транзакции.
	rating, err := uc.reviewRepo.CreateAndRecompute(ctx, review)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"project_id":  project.ID,
		"reviewee_id": revieweeID,
		"rating":      rating.Rating,
		"total":       rating.TotalRatings,
	}).Info("рейтинг пересчитан")

	uc.notify.Emit(ctx, entity.NewNotification(
		revieweeID,
		"New Review Received",
		fmt.Sprintf("You received a %d-star review for %q", review.Rating, project.Title),
		entity.NotificationReview,
		project.ID,
	).With("reviewId", review.ID))

	return &SubmitReviewResult{Review: review, Rating: rating}, nil
}
