package entity

import (
	"math"
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type Review struct {
	ID         int64
	ProjectID  int64
	ReviewerID int64
	RevieweeID int64
	Rating     int
	Comment    *string
	CreatedAt  time.Time

	ReviewerName string
}

func NewReview(projectID, reviewerID, revieweeID int64, rating int, comment *string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "оценка должна быть от 1 до 5")
	}
	return &Review{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}, nil
}

// UserRating — агрегированный рейтинг пользователя.
type UserRating struct {
	UserID       int64
	Rating       float64
	TotalRatings int
}

// ComputeRating считает среднее по всем оценкам с округлением до сотых.
func ComputeRating(userID int64, ratings []int) UserRating {
	if len(ratings) == 0 {
		return UserRating{UserID: userID}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return UserRating{
		UserID:       userID,
		Rating:       math.Round(mean*100) / 100,
		TotalRatings: len(ratings),
	}
}
