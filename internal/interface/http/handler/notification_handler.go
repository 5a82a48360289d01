package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

type NotificationHandler struct {
	listUC     *notification.ListNotificationsUseCase
	markReadUC *notification.MarkNotificationReadUseCase
}

func NewNotificationHandler(listUC *notification.ListNotificationsUseCase, markReadUC *notification.MarkNotificationReadUseCase) *NotificationHandler {
	return &NotificationHandler{listUC: listUC, markReadUC: markReadUC}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	items, total, err := h.listUC.Execute(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToNotificationResponses(items), total, limit, offset)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	notificationID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID уведомления")
		return
	}

	if err := h.markReadUC.Execute(c.Request.Context(), notificationID, actor.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
