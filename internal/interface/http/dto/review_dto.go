package dto

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/review"
)

type SubmitReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	ReviewerID   int64     `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	RevieweeID   int64     `json:"reviewee_id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		RevieweeID:   r.RevieweeID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func ToReviewResponses(reviews []*entity.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, ToReviewResponse(r))
	}
	return responses
}

type RatingResponse struct {
	UserID       int64   `json:"user_id"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`
}

func ToRatingResponse(r entity.UserRating) RatingResponse {
	return RatingResponse(r)
}

type SubmitReviewResponse struct {
	Review ReviewResponse `json:"review"`
	Rating RatingResponse `json:"reviewee_rating"`
}

func ToSubmitReviewResponse(r *review.SubmitReviewResult) SubmitReviewResponse {
	return SubmitReviewResponse{
		Review: ToReviewResponse(r.Review),
		Rating: ToRatingResponse(r.Rating),
	}
}

type UserReviewsResponse struct {
	Rating  RatingResponse   `json:"rating"`
	Reviews []ReviewResponse `json:"reviews"`
}

func ToUserReviewsResponse(r *review.UserReviews) UserReviewsResponse {
	return UserReviewsResponse{
		Rating:  ToRatingResponse(r.Rating),
		Reviews: ToReviewResponses(r.Reviews),
	}
}
