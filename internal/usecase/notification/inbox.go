package notification

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
)

type ListNotificationsUseCase struct {
	repo repository.NotificationRepository
}

func NewListNotificationsUseCase(repo repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int, error) {
	if limit <= 0 || limit > repository.MaxPageSize {
		limit = repository.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.FindByUser(ctx, userID, limit, offset)
}

type MarkNotificationReadUseCase struct {
	repo repository.NotificationRepository
}

func NewMarkNotificationReadUseCase(repo repository.NotificationRepository) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{repo: repo}
}

func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, id, userID int64) error {
	return uc.repo.MarkRead(ctx, id, userID)
}
