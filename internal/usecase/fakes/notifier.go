package fakes

import (
	"context"
	"sync"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

// Notifier запоминает отправленные уведомления. Если Err задана, Notify
// возвращает её, ничего не сохраняя.
type Notifier struct {
	mu   sync.Mutex
	sent []entity.Notification
	Err  error
}

func (n *Notifier) Notify(ctx context.Context, notification entity.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, notification)
	return nil
}

func (n *Notifier) Sent() []entity.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Notification(nil), n.sent...)
}

// To возвращает уведомления, адресованные userID.
func (n *Notifier) To(userID int64) []entity.Notification {
	var result []entity.Notification
	for _, s := range n.Sent() {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result
}
