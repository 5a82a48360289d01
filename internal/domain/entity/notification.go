package entity

import "time"

// Типы уведомлений.
const (
	NotificationProposal         = "proposal"
	NotificationProposalAccepted = "proposal_accepted"
	NotificationPayment          = "payment"
	NotificationProgress         = "progress"
	NotificationDispute          = "dispute"
	NotificationReview           = "review"
)

type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      string
	RelatedID *int64
	Data      map[string]any
	IsRead    bool
	CreatedAt time.Time
}

func NewNotification(userID int64, title, message, kind string, relatedID int64) Notification {
	return Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		RelatedID: &relatedID,
		CreatedAt: time.Now(),
	}
}

func (n Notification) With(key string, value any) Notification {
	data := make(map[string]any, len(n.Data)+1)
	for k, v := range n.Data {
		data[k] = v
	}
	data[key] = value
	n.Data = data
	return n
}
