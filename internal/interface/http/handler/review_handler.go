package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/review"
)

type ReviewHandler struct {
	submitUC      *review.SubmitReviewUseCase
	listUserUC    *review.ListUserReviewsUseCase
	listProjectUC *review.ListProjectReviewsUseCase
}

func NewReviewHandler(submitUC *review.SubmitReviewUseCase, listUserUC *review.ListUserReviewsUseCase, listProjectUC *review.ListProjectReviewsUseCase) *ReviewHandler {
	return &ReviewHandler{submitUC: submitUC, listUserUC: listUserUC, listProjectUC: listProjectUC}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
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

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	result, err := h.submitUC.Execute(c.Request.Context(), review.SubmitReviewInput{
		ProjectID:  projectID,
		ReviewerID: actor.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToSubmitReviewResponse(result))
}

func (h *ReviewHandler) ListProjectReviews(c *gin.Context) {
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	reviews, err := h.listProjectUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToReviewResponses(reviews))
}

func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	result, err := h.listUserUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserReviewsResponse(result))
}
