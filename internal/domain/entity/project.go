package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// Actor — проверенная пара (пользователь, роль), пришедшая из токена.
type Actor struct {
	UserID int64
	Role   valueobject.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == valueobject.RoleAdmin
}

type Project struct {
	ID                 int64
	StudentID          int64
	Title              string
	Description        string
	Technology         []string
	Budget             decimal.Decimal
	Deadline           time.Time
	Status             valueobject.ProjectStatus
	AcceptedProposalID *int64
	ProgressPercentage int
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Assignment заполняется при чтении проекта из принятого предложения.
	Assignment *Assignment
}

// Assignment — снимок принятого предложения и назначенного разработчика.
type Assignment struct {
	ProposalID      int64
	DeveloperID     int64
	DeveloperName   string
	DeveloperRating float64
	Price           decimal.Decimal
	Timeline        int
}

func NewProject(studentID int64, title, description string, technology []string, budget decimal.Decimal, deadline time.Time) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}
	budget, err := valueobject.NewPositiveAmount(budget, "бюджет")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !deadline.After(now) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дедлайн должен быть в будущем")
	}

	return &Project{
		StudentID:   studentID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Technology:  normalizeTags(technology),
		Budget:      budget,
		Deadline:    deadline,
		Status:      valueobject.ProjectStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Project) IsOwnedBy(userID int64) bool {
	return p.StudentID == userID
}

// CanBeManagedBy — владелец или администратор.
func (p *Project) CanBeManagedBy(actor Actor) bool {
	return actor.IsAdmin() || p.IsOwnedBy(actor.UserID)
}

func (p *Project) IsOpen() bool {
	return p.Status == valueobject.ProjectStatusOpen
}

func (p *Project) IsAssignedTo(userID int64) bool {
	return p.Assignment != nil && p.Assignment.DeveloperID == userID
}

func (p *Project) IsParticipant(userID int64) bool {
	return p.IsOwnedBy(userID) || p.IsAssignedTo(userID)
}

// Counterparty возвращает второго участника проекта для userID.
func (p *Project) Counterparty(userID int64) (int64, error) {
	switch {
	case p.IsOwnedBy(userID):
		if p.Assignment == nil {
			return 0, apperror.ErrNoCounterparty
		}
		return p.Assignment.DeveloperID, nil
	case p.IsAssignedTo(userID):
		return p.StudentID, nil
	case p.Assignment == nil:
		return 0, apperror.ErrNoCounterparty
	default:
		return 0, apperror.ErrNotParticipant
	}
}

// ProjectEdit — частичное изменение полей проекта.
type ProjectEdit struct {
	Title       *string
	Description *string
	Technology  []string
	Budget      *decimal.Decimal
	Deadline    *time.Time
}

func (e ProjectEdit) touchesTerms() bool {
	return e.Technology != nil || e.Budget != nil || e.Deadline != nil
}

// ApplyEdit меняет поля проекта. Бюджет, срок и технологии после
// принятия предложения зафиксированы.
func (p *Project) ApplyEdit(edit ProjectEdit) error {
	if p.Status == valueobject.ProjectStatusCompleted || p.Status == valueobject.ProjectStatusCancelled {
		return apperror.New(apperror.ErrCodeConflict, "завершённый или отменённый проект нельзя изменить")
	}
	if edit.touchesTerms() && !p.IsOpen() {
		return apperror.ErrProjectLocked
	}

	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			return apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
		}
		p.Title = title
	}
	if edit.Description != nil {
		p.Description = strings.TrimSpace(*edit.Description)
	}
	if edit.Technology != nil {
		p.Technology = normalizeTags(edit.Technology)
	}
	if edit.Budget != nil {
		budget, err := valueobject.NewPositiveAmount(*edit.Budget, "бюджет")
		if err != nil {
			return err
		}
		p.Budget = budget
	}
	if edit.Deadline != nil {
		if !edit.Deadline.After(time.Now()) {
			return apperror.New(apperror.ErrCodeValidation, "дедлайн должен быть в будущем")
		}
		p.Deadline = *edit.Deadline
	}
	p.UpdatedAt = time.Now()
	return nil
}

// TransitionTo выполняет ручную смену статуса владельцем или администратором.
// При отмене связь с принятым предложением снимается.
func (p *Project) TransitionTo(status valueobject.ProjectStatus) error {
	if !p.Status.CanTransitionTo(status) {
		return apperror.ErrInvalidTransition
	}
	p.Status = status
	if status == valueobject.ProjectStatusCompleted {
		p.ProgressPercentage = 100
	}
	if status == valueobject.ProjectStatusCancelled {
		p.AcceptedProposalID = nil
		p.Assignment = nil
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Project) CanBeDeleted() error {
	if p.AcceptedProposalID != nil {
		return apperror.ErrProjectHasAssignee
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}
