package dto

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	RelatedID *int64         `json:"related_id"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			RelatedID: n.RelatedID,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return responses
}
