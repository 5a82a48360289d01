package entity

import (
	"strings"
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type Dispute struct {
	ID              int64
	ProjectID       int64
	RaisedBy        int64
	RaisedByRole    valueobject.Role
	Reason          string
	Description     *string
	Status          valueobject.DisputeStatus
	Resolution      *valueobject.Resolution
	ResolutionNotes *string
	ResolvedBy      *int64
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ProjectTitle string
}

func NewDispute(project *Project, raiserID int64, reason string, description *string) (*Dispute, error) {
	var role valueobject.Role
	switch {
	case project.IsOwnedBy(raiserID):
		role = valueobject.RoleStudent
	case project.IsAssignedTo(raiserID):
		role = valueobject.RoleDeveloper
	default:
		return nil, apperror.ErrNotParticipant
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "причина спора обязательна")
	}

	now := time.Now()
	return &Dispute{
		ProjectID:    project.ID,
		RaisedBy:     raiserID,
		RaisedByRole: role,
		Reason:       reason,
		Description:  description,
		Status:       valueobject.DisputeStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
		ProjectTitle: project.Title,
	}, nil
}

func (d *Dispute) IsResolved() bool {
	return d.Status == valueobject.DisputeStatusResolved
}

// Resolve закрывает спор. Решение окончательное.
func (d *Dispute) Resolve(adminID int64, resolution valueobject.Resolution, notes *string) error {
	if d.IsResolved() {
		return apperror.ErrDisputeAlreadyResolved
	}
	if !resolution.IsValid() {
		return apperror.ErrInvalidResolution
	}
	now := time.Now()
	d.Status = valueobject.DisputeStatusResolved
	d.Resolution = &resolution
	d.ResolutionNotes = notes
	d.ResolvedBy = &adminID
	d.ResolvedAt = &now
	d.UpdatedAt = now
	return nil
}
