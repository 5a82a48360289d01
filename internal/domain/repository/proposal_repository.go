package repository

import (
	"context"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

type ProposalRepository interface {
	// Create вставляет предложение, только если проект открыт.
	// Возвращает ErrProjectNotOpen или ErrDuplicateBid.
	Create(ctx context.Context, proposal *entity.Proposal) error
	FindByID(ctx context.Context, id int64) (*entity.Proposal, error)
	FindByProjectID(ctx context.Context, projectID int64) ([]*entity.Proposal, error)
	FindByDeveloperID(ctx context.Context, developerID int64) ([]*entity.Proposal, error)
	FindByProjectAndDeveloper(ctx context.Context, projectID, developerID int64) (*entity.Proposal, error)
	// Accept атомарно принимает предложение, отклоняет остальные и переводит проект в работу.
	Accept(ctx context.Context, proposalID int64) (*entity.Proposal, error)
	// Reject отклоняет только ожидающее предложение.
	Reject(ctx context.Context, proposalID int64) (*entity.Proposal, error)
}
