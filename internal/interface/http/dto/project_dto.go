package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type CreateProjectRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Technology  []string         `json:"technology"`
	Budget      *decimal.Decimal `json:"budget" binding:"required"`
	Deadline    *time.Time       `json:"deadline" binding:"required"`
}

type UpdateProjectRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Technology  []string         `json:"technology"`
	Budget      *decimal.Decimal `json:"budget"`
	Deadline    *time.Time       `json:"deadline"`
}

func (r UpdateProjectRequest) ToEdit() entity.ProjectEdit {
	return entity.ProjectEdit{
		Title:       r.Title,
		Description: r.Description,
		Technology:  r.Technology,
		Budget:      r.Budget,
		Deadline:    r.Deadline,
	}
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReportProgressRequest struct {
	ProgressPercentage *int    `json:"progress_percentage"`
	Status             *string `json:"status"`
	Note               *string `json:"note"`
}

type AssignmentResponse struct {
	ProposalID      int64   `json:"proposal_id"`
	DeveloperID     int64   `json:"developer_id"`
	DeveloperName   string  `json:"developer_name"`
	DeveloperRating float64 `json:"developer_rating"`
	Price           string  `json:"price"`
	Timeline        int     `json:"timeline"`
}

type ProjectResponse struct {
	ID                 int64               `json:"id"`
	StudentID          int64               `json:"student_id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Technology         []string            `json:"technology"`
	Budget             string              `json:"budget"`
	Deadline           time.Time           `json:"deadline"`
	Status             string              `json:"status"`
	AcceptedProposalID *int64              `json:"accepted_proposal_id"`
	ProgressPercentage int                 `json:"progress_percentage"`
	Assignment         *AssignmentResponse `json:"assignment,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func ToProjectResponse(project *entity.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                 project.ID,
		StudentID:          project.StudentID,
		Title:              project.Title,
		Description:        project.Description,
		Technology:         nonNilTags(project.Technology),
		Budget:             Money(project.Budget),
		Deadline:           project.Deadline,
		Status:             string(project.Status),
		AcceptedProposalID: project.AcceptedProposalID,
		ProgressPercentage: project.ProgressPercentage,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}
	if a := project.Assignment; a != nil {
		resp.Assignment = &AssignmentResponse{
			ProposalID:      a.ProposalID,
			DeveloperID:     a.DeveloperID,
			DeveloperName:   a.DeveloperName,
			DeveloperRating: a.DeveloperRating,
			Price:           Money(a.Price),
			Timeline:        a.Timeline,
		}
	}
	return resp
}

func ToProjectResponses(projects []*entity.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, ToProjectResponse(project))
	}
	return responses
}

type ProgressEntryResponse struct {
	ID                 int64     `json:"id"`
	UpdatedBy          int64     `json:"updated_by"`
	ProgressPercentage int       `json:"progress_percentage"`
	Status             string    `json:"status"`
	Note               *string   `json:"note"`
	CreatedAt          time.Time `json:"created_at"`
}

type MilestoneResponse struct {
	Percentage  int        `json:"percentage"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Note        *string    `json:"note"`
}

type TimelineResponse struct {
	DaysElapsed   int  `json:"days_elapsed"`
	DaysRemaining int  `json:"days_remaining"`
	DaysOverdue   int  `json:"days_overdue"`
	IsOverdue     bool `json:"is_overdue"`
}

type ProgressTrackingResponse struct {
	Project    ProjectResponse         `json:"project"`
	History    []ProgressEntryResponse `json:"history"`
	Milestones []MilestoneResponse     `json:"milestones"`
	Timeline   TimelineResponse        `json:"timeline"`
}

func ToProgressTrackingResponse(t *entity.ProgressTracking) ProgressTrackingResponse {
	history := make([]ProgressEntryResponse, 0, len(t.History))
	for _, e := range t.History {
		history = append(history, ProgressEntryResponse{
			ID:                 e.ID,
			UpdatedBy:          e.UpdatedBy,
			ProgressPercentage: e.ProgressPercentage,
			Status:             string(e.Status),
			Note:               e.Note,
			CreatedAt:          e.CreatedAt,
		})
	}
	milestones := make([]MilestoneResponse, 0, len(t.Milestones))
	for _, m := range t.Milestones {
		milestones = append(milestones, MilestoneResponse(m))
	}
	return ProgressTrackingResponse{
		Project:    ToProjectResponse(t.Project),
		History:    history,
		Milestones: milestones,
		Timeline:   TimelineResponse(t.Timeline),
	}
}

// Money форматирует сумму с двумя знаками после запятой.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
