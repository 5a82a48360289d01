package fakes

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

// SeedOpenProject создаёт открытый проект владельца studentID.
func (s *Store) SeedOpenProject(studentID int64, budget string) *entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := &entity.Project{
		ID:          s.nextID(),
		StudentID:   studentID,
		Title:       "Student portal",
		Description: "Course project",
		Technology:  []string{"Go", "PostgreSQL"},
		Budget:      decimal.RequireFromString(budget),
		Deadline:    now.Add(30 * 24 * time.Hour),
		Status:      valueobject.ProjectStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects[p.ID] = p
	return s.readProject(p.ID)
}

// SeedProposal добавляет ожидающее предложение.
func (s *Store) SeedProposal(projectID, developerID int64, price string) *entity.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := &entity.Proposal{
		ID:          s.nextID(),
		ProjectID:   projectID,
		DeveloperID: developerID,
		Price:       decimal.RequireFromString(price),
		Timeline:    14,
		Status:      valueobject.ProposalStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.proposals[p.ID] = p
	cp := *p
	return &cp
}

// SeedAssignedProject создаёт проект в работе с принятым предложением по цене price.
func (s *Store) SeedAssignedProject(studentID, developerID int64, price string) *entity.Project {
	project := s.SeedOpenProject(studentID, price)
	proposal := s.SeedProposal(project.ID, developerID, price)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ID].Status = valueobject.ProposalStatusAccepted
	stored := s.projects[project.ID]
	id := proposal.ID
	stored.AcceptedProposalID = &id
	stored.Status = valueobject.ProjectStatusInProgress
	return s.readProject(project.ID)
}

// AgeProject сдвигает дату создания и дедлайн проекта.
func (s *Store) AgeProject(id int64, createdAt, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[id]; ok {
		p.CreatedAt = createdAt
		p.Deadline = deadline
	}
}
