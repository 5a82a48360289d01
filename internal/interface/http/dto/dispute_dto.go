package dto

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type RaiseDisputeRequest struct {
	Reason      string  `json:"reason" binding:"required"`
	Description *string `json:"description"`
}

type ResolveDisputeRequest struct {
	Resolution      string  `json:"resolution" binding:"required"`
	ResolutionNotes *string `json:"resolution_notes"`
}

type DisputeResponse struct {
	ID              int64      `json:"id"`
	ProjectID       int64      `json:"project_id"`
	ProjectTitle    string     `json:"project_title,omitempty"`
	RaisedBy        int64      `json:"raised_by"`
	RaisedByRole    string     `json:"raised_by_role"`
	Reason          string     `json:"reason"`
	Description     *string    `json:"description"`
	Status          string     `json:"status"`
	Resolution      *string    `json:"resolution"`
	ResolutionNotes *string    `json:"resolution_notes"`
	ResolvedBy      *int64     `json:"resolved_by"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToDisputeResponse(d *entity.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:              d.ID,
		ProjectID:       d.ProjectID,
		ProjectTitle:    d.ProjectTitle,
		RaisedBy:        d.RaisedBy,
		RaisedByRole:    string(d.RaisedByRole),
		Reason:          d.Reason,
		Description:     d.Description,
		Status:          d.Status.External(),
		ResolutionNotes: d.ResolutionNotes,
		ResolvedBy:      d.ResolvedBy,
		ResolvedAt:      d.ResolvedAt,
		CreatedAt:       d.CreatedAt,
	}
	if d.Resolution != nil {
		r := string(*d.Resolution)
		resp.Resolution = &r
	}
	return resp
}

func ToDisputeResponses(disputes []*entity.Dispute) []DisputeResponse {
	responses := make([]DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		responses = append(responses, ToDisputeResponse(d))
	}
	return responses
}
