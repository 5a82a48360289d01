package review_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/review"
)

const (
	studentID   int64 = 1001
	developerID int64 = 2001
)

func newSubmit(store *fakes.Store, notifier *fakes.Notifier) *review.SubmitReviewUseCase {
	return review.NewSubmitReviewUseCase(store.Reviews(), store.Projects(), notification.NewEmitter(notifier, 0))
}

func TestSubmitReview_RecomputesMean(t *testing.T) {
	store := fakes.NewStore()
	notifier := &fakes.Notifier{}
	store.AddUser(studentID, "Student")
	store.AddUser(developerID, "Dev", 5)
	project := store.SeedAssignedProject(studentID, developerID, "10000")

	result, err := newSubmit(store, notifier).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: studentID,
		Rating:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, developerID, result.Review.RevieweeID)
	assert.Equal(t, 4.5, result.Rating.Rating)
	assert.Equal(t, 2, result.Rating.TotalRatings)
	assert.Equal(t, 4.5, store.Rating(developerID).Rating)

	sent := notifier.To(developerID)
	require.Len(t, sent, 1)
	assert.Equal(t, entity.NotificationReview, sent[0].Type)
}

func TestSubmitReview_DeveloperReviewsStudent(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(studentID, "Student")
	project := store.SeedAssignedProject(studentID, developerID, "10000")

	result, err := newSubmit(store, &fakes.Notifier{}).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: developerID,
		Rating:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, studentID, result.Review.RevieweeID)
	assert.Equal(t, 3.0, result.Rating.Rating)
	assert.Equal(t, 1, result.Rating.TotalRatings)
}

func TestSubmitReview_RoundsToHundredths(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(developerID, "Dev", 5, 4)
	project := store.SeedAssignedProject(studentID, developerID, "10000")

	result, err := newSubmit(store, &fakes.Notifier{}).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: studentID,
		Rating:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.33, result.Rating.Rating)
	assert.Equal(t, 3, result.Rating.TotalRatings)
}

func TestSubmitReview_Rejected(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(developerID, "Dev")
	uc := newSubmit(store, &fakes.Notifier{})

	assigned := store.SeedAssignedProject(studentID, developerID, "10000")
	_, err := uc.Execute(context.Background(), review.SubmitReviewInput{ProjectID: assigned.ID, ReviewerID: studentID, Rating: 6})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(context.Background(), review.SubmitReviewInput{ProjectID: assigned.ID, ReviewerID: 4040, Rating: 5})
	assert.True(t, apperror.IsForbidden(err))

	open := store.SeedOpenProject(studentID, "10000")
	_, err = uc.Execute(context.Background(), review.SubmitReviewInput{ProjectID: open.ID, ReviewerID: studentID, Rating: 5})
	assert.ErrorIs(t, err, apperror.ErrNoCounterparty)

	_, err = uc.Execute(context.Background(), review.SubmitReviewInput{ProjectID: assigned.ID, ReviewerID: studentID, Rating: 5})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), review.SubmitReviewInput{ProjectID: assigned.ID, ReviewerID: studentID, Rating: 1})
	assert.ErrorIs(t, err, apperror.ErrDuplicateReview)

	assert.Equal(t, 1, store.Rating(developerID).TotalRatings)
}

func TestSubmitReview_NotificationFailureIsSwallowed(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(developerID, "Dev")
	project := store.SeedAssignedProject(studentID, developerID, "10000")

	_, err := newSubmit(store, &fakes.Notifier{Err: errors.New("down")}).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: studentID,
		Rating:     5,
	})
	assert.NoError(t, err)
}

func TestListReviews(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(studentID, "Student")
	store.AddUser(developerID, "Dev")
	project := store.SeedAssignedProject(studentID, developerID, "10000")
	_, err := newSubmit(store, &fakes.Notifier{}).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: studentID,
		Rating:     5,
	})
	require.NoError(t, err)

	user, err := review.NewListUserReviewsUseCase(store.Reviews()).Execute(context.Background(), developerID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, user.Rating.Rating)
	require.Len(t, user.Reviews, 1)
	assert.Equal(t, "Student", user.Reviews[0].ReviewerName)

	byProject, err := review.NewListProjectReviewsUseCase(store.Reviews(), store.Projects()).Execute(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, byProject, 1)

	_, err = review.NewListUserReviewsUseCase(store.Reviews()).Execute(context.Background(), 9999)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestReviewLookup_MissingReviewIsNotFound(t *testing.T) {
	store := fakes.NewStore()
	store.AddUser(developerID, "Dev")
	project := store.SeedAssignedProject(studentID, developerID, "10000")

	existing, err := store.Reviews().FindByProjectAndReviewer(context.Background(), project.ID, studentID)
	assert.Nil(t, existing)
	assert.ErrorIs(t, err, apperror.ErrReviewNotFound)
	assert.True(t, apperror.IsNotFound(err))

	_, err = newSubmit(store, &fakes.Notifier{}).Execute(context.Background(), review.SubmitReviewInput{
		ProjectID:  project.ID,
		ReviewerID: studentID,
		Rating:     5,
	})
	require.NoError(t, err)

	existing, err = store.Reviews().FindByProjectAndReviewer(context.Background(), project.ID, studentID)
	require.NoError(t, err)
	assert.Equal(t, developerID, existing.RevieweeID)
}
