package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type NotificationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewNotificationRepositoryAdapter(db *sqlx.DB) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) error {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать данные уведомления")
	}

	query := `
		INSERT INTO notifications (user_id, title, message, type, related_id, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = r.db.QueryRowxContext(ctx, query,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID, payload, n.IsRead, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return apperror.Database(err, "не удалось сохранить уведомление")
	}
	return nil
}

func (r *NotificationRepositoryAdapter) FindByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Notification, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID); err != nil {
		return nil, 0, apperror.Database(err, "не удалось посчитать уведомления")
	}

	var rows []notificationRow
	query := `
		SELECT id, user_id, title, message, type, related_id, data, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, 0, apperror.Database(err, "не удалось получить уведомления")
	}

	result := make([]*entity.Notification, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, total, nil
}

func (r *NotificationRepositoryAdapter) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperror.Database(err, "не удалось обновить уведомление")
	}
	n, err := rowsAffected(res, "не удалось обновить уведомление")
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

type notificationRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Type      string    `db:"type"`
	RelatedID *int64    `db:"related_id"`
	Data      []byte    `db:"data"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

func (n *notificationRow) toEntity() *entity.Notification {
	var data map[string]any
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &data)
	}
	return &entity.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Data:      data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
