package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/dispute"
)

type DisputeHandler struct {
	raiseUC *dispute.RaiseDisputeUseCase
	getUC   *dispute.GetDisputeUseCase
	listUC  *dispute.ListProjectDisputesUseCase
}

func NewDisputeHandler(raiseUC *dispute.RaiseDisputeUseCase, getUC *dispute.GetDisputeUseCase, listUC *dispute.ListProjectDisputesUseCase) *DisputeHandler {
	return &DisputeHandler{raiseUC: raiseUC, getUC: getUC, listUC: listUC}
}

func (h *DisputeHandler) RaiseDispute(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	var req dto.RaiseDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.raiseUC.Execute(c.Request.Context(), dispute.RaiseDisputeInput{
		ProjectID:   projectID,
		RaiserID:    actor.UserID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToDisputeResponse(created))
}

func (h *DisputeHandler) ListProjectDisputes(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	disputes, err := h.listUC.Execute(c.Request.Context(), projectID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDisputeResponses(disputes))
}

func (h *DisputeHandler) GetDispute(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	disputeID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID спора")
		return
	}

	d, err := h.getUC.Execute(c.Request.Context(), disputeID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDisputeResponse(d))
}
