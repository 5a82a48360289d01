package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type CreateProposalRequest struct {
	Price      *decimal.Decimal `json:"price" binding:"required"`
	Timeline   int              `json:"timeline" binding:"required"`
	Technology []string         `json:"technology"`
	Message    *string          `json:"message"`
}

type ProposalResponse struct {
	ID              int64     `json:"id"`
	ProjectID       int64     `json:"project_id"`
	DeveloperID     int64     `json:"developer_id"`
	DeveloperName   string    `json:"developer_name,omitempty"`
	DeveloperRating float64   `json:"developer_rating"`
	Price           string    `json:"price"`
	Timeline        int       `json:"timeline"`
	Technology      []string  `json:"technology"`
	Message         *string   `json:"message"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToProposalResponse(proposal *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:              proposal.ID,
		ProjectID:       proposal.ProjectID,
		DeveloperID:     proposal.DeveloperID,
		DeveloperName:   proposal.DeveloperName,
		DeveloperRating: proposal.DeveloperRating,
		Price:           Money(proposal.Price),
		Timeline:        proposal.Timeline,
		Technology:      nonNilTags(proposal.Technology),
		Message:         proposal.Message,
		Status:          string(proposal.Status),
		CreatedAt:       proposal.CreatedAt,
		UpdatedAt:       proposal.UpdatedAt,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		responses = append(responses, ToProposalResponse(proposal))
	}
	return responses
}
