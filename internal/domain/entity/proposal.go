package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type Proposal struct {
	ID          int64
	ProjectID   int64
	DeveloperID int64
	Price       decimal.Decimal
	Timeline    int
	Technology  []string
	Message     *string
	Status      valueobject.ProposalStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Заполняются при чтении списков.
	DeveloperName   string
	DeveloperRating float64
}

func NewProposal(projectID, developerID int64, price decimal.Decimal, timeline int, technology []string, message *string) (*Proposal, error) {
	price, err := valueobject.NewPositiveAmount(price, "цена")
	if err != nil {
		return nil, err
	}
	if timeline <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "срок выполнения должен быть положительным")
	}
	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if trimmed == "" {
			message = nil
		} else {
			message = &trimmed
		}
	}

	now := time.Now()
	return &Proposal{
		ProjectID:   projectID,
		DeveloperID: developerID,
		Price:       price,
		Timeline:    timeline,
		Technology:  normalizeTags(technology),
		Message:     message,
		Status:      valueobject.ProposalStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Proposal) Accept() error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	p.Status = valueobject.ProposalStatusAccepted
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Proposal) Reject() error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	p.Status = valueobject.ProposalStatusRejected
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Proposal) IsOwnedBy(userID int64) bool {
	return p.DeveloperID == userID
}

func (p *Proposal) IsPending() bool {
	return p.Status == valueobject.ProposalStatusPending
}

func (p *Proposal) IsAccepted() bool {
	return p.Status == valueobject.ProposalStatusAccepted
}
