package notification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
)

const DefaultTimeout = 3 * time.Second

// Emitter отправляет уведомления в Notifier. Уведомления носят
// рекомендательный характер: ошибки логируются и не возвращаются вызывающему.
type Emitter struct {
	notifier repository.Notifier
	timeout  time.Duration
}

func NewEmitter(notifier repository.Notifier, timeout time.Duration) *Emitter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Emitter{notifier: notifier, timeout: timeout}
}

func (e *Emitter) Emit(ctx context.Context, n entity.Notification) {
	if e == nil || e.notifier == nil {
		return
	}
	// Уведомление не должно отменяться вместе с запросом, который уже выполнил изменение.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.notifier.Notify(ctx, n); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": n.UserID,
			"type":    n.Type,
			"title":   n.Title,
		}).WithError(err).Warn("не удалось отправить уведомление")
	}
}
