package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/proposal"
)

type ProposalHandler struct {
	submitUC *proposal.SubmitProposalUseCase
	acceptUC *proposal.AcceptProposalUseCase
	rejectUC *proposal.RejectProposalUseCase
	getUC    *proposal.GetProposalUseCase
	listUC   *proposal.ListProjectProposalsUseCase
	listMyUC *proposal.ListMyProposalsUseCase
}

func NewProposalHandler(
	submitUC *proposal.SubmitProposalUseCase,
	acceptUC *proposal.AcceptProposalUseCase,
	rejectUC *proposal.RejectProposalUseCase,
	getUC *proposal.GetProposalUseCase,
	listUC *proposal.ListProjectProposalsUseCase,
	listMyUC *proposal.ListMyProposalsUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		submitUC: submitUC,
		acceptUC: acceptUC,
		rejectUC: rejectUC,
		getUC:    getUC,
		listUC:   listUC,
		listMyUC: listMyUC,
	}
}

func (h *ProposalHandler) CreateProposal(c *gin.Context) {
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

	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.submitUC.Execute(c.Request.Context(), proposal.SubmitProposalInput{
		ProjectID:   projectID,
		DeveloperID: actor.UserID,
		Price:       *req.Price,
		Timeline:    req.Timeline,
		Technology:  req.Technology,
		Message:     req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	h.decide(c, h.acceptUC.Execute)
}

func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	h.decide(c, h.rejectUC.Execute)
}

func (h *ProposalHandler) decide(c *gin.Context, execute func(ctx context.Context, proposalID, userID int64) (*entity.Proposal, error)) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	proposalID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	updated, err := execute(c.Request.Context(), proposalID, actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(updated))
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	proposalID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID предложения")
		return
	}

	p, err := h.getUC.Execute(c.Request.Context(), proposalID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}

func (h *ProposalHandler) ListProposals(c *gin.Context) {
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

	proposals, err := h.listUC.Execute(c.Request.Context(), projectID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	proposals, err := h.listMyUC.Execute(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}
