package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/project"
)

type ProjectHandler struct {
	createUC       *project.CreateProjectUseCase
	getUC          *project.GetProjectUseCase
	listUC         *project.ListProjectsUseCase
	listMyUC       *project.ListMyProjectsUseCase
	updateUC       *project.UpdateProjectUseCase
	updateStatusUC *project.UpdateProjectStatusUseCase
	deleteUC       *project.DeleteProjectUseCase
	reportUC       *project.ReportProgressUseCase
	trackingUC     *project.GetProgressTrackingUseCase
}

func NewProjectHandler(
	createUC *project.CreateProjectUseCase,
	getUC *project.GetProjectUseCase,
	listUC *project.ListProjectsUseCase,
	listMyUC *project.ListMyProjectsUseCase,
	updateUC *project.UpdateProjectUseCase,
	updateStatusUC *project.UpdateProjectStatusUseCase,
	deleteUC *project.DeleteProjectUseCase,
	reportUC *project.ReportProgressUseCase,
	trackingUC *project.GetProgressTrackingUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		createUC:       createUC,
		getUC:          getUC,
		listUC:         listUC,
		listMyUC:       listMyUC,
		updateUC:       updateUC,
		updateStatusUC: updateStatusUC,
		deleteUC:       deleteUC,
		reportUC:       reportUC,
		trackingUC:     trackingUC,
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), actor, project.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Technology:  req.Technology,
		Budget:      *req.Budget,
		Deadline:    *req.Deadline,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProjectResponse(created))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	filter := projectFilter(c)
	projects, total, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToProjectResponses(projects), total, filter.Limit, filter.Offset)
}

func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	filter := projectFilter(c)
	projects, total, err := h.listMyUC.Execute(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToProjectResponses(projects), total, filter.Limit, filter.Offset)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	p, err := h.getUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(p))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
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

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), projectID, actor, req.ToEdit())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(updated))
}

func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
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

	var req dto.UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	status, err := valueobject.NewProjectStatus(req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.updateStatusUC.Execute(c.Request.Context(), projectID, actor, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(updated))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
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

	if err := h.deleteUC.Execute(c.Request.Context(), projectID, actor); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *ProjectHandler) ReportProgress(c *gin.Context) {
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

	var req dto.ReportProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.reportUC.Execute(c.Request.Context(), projectID, actor, project.ProgressInput{
		Percentage: req.ProgressPercentage,
		Status:     req.Status,
		Note:       req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(updated))
}

func (h *ProjectHandler) GetProgressTracking(c *gin.Context) {
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

	tracking, err := h.trackingUC.Execute(c.Request.Context(), projectID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProgressTrackingResponse(tracking))
}

func projectFilter(c *gin.Context) repository.ProjectFilter {
	filter := repository.ProjectFilter{
		Technology: c.Query("technology"),
		Search:     c.Query("search"),
		MinBudget:  parseDecimalQuery(c, "min_budget"),
		MaxBudget:  parseDecimalQuery(c, "max_budget"),
		Limit:      parseIntQuery(c, "limit", 20),
		Offset:     parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		if status, err := valueobject.NewProjectStatus(raw); err == nil {
			filter.Status = &status
		}
	}
	return filter.Normalize()
}
