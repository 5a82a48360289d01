package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int, error)
	MarkRead(ctx context.Context, id, userID int64) error
}
