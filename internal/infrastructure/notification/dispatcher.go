package notification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
)

// EventNotification — тип WebSocket-события с новым уведомлением.
const EventNotification = "notification"

// Broadcaster доставляет событие активным подключениям пользователя.
type Broadcaster interface {
	BroadcastToUser(ctx context.Context, userID int64, event string, data any) error
}

// Dispatcher сохраняет уведомление и дублирует его в WebSocket.
type Dispatcher struct {
	repo repository.NotificationRepository
	hub  Broadcaster
}

func NewDispatcher(repo repository.NotificationRepository, hub Broadcaster) *Dispatcher {
	return &Dispatcher{repo: repo, hub: hub}
}

// Notify возвращает ошибку только если уведомление не удалось сохранить.
// Сбой live-доставки пишется в лог: пользователь увидит уведомление при следующей загрузке.
func (d *Dispatcher) Notify(ctx context.Context, n entity.Notification) error {
	if err := d.repo.Create(ctx, &n); err != nil {
		return err
	}
	if d.hub == nil {
		return nil
	}

	payload := map[string]any{
		"id":        n.ID,
		"title":     n.Title,
		"message":   n.Message,
		"type":      n.Type,
		"relatedId": n.RelatedID,
		"data":      n.Data,
		"isRead":    n.IsRead,
		"createdAt": n.CreatedAt.Format(time.RFC3339),
	}
	if err := d.hub.BroadcastToUser(ctx, n.UserID, EventNotification, payload); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id":         n.UserID,
			"notification_id": n.ID,
		}).WithError(err).Debug("Не удалось отправить уведомление по WebSocket")
	}
	return nil
}
