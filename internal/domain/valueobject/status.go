package valueobject

import "github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// HasAssignee сообщает, должен ли проект в этом статусе иметь принятое предложение.
func (s ProjectStatus) HasAssignee() bool {
	return s == ProjectStatusInProgress || s == ProjectStatusCompleted
}

// CanTransitionTo описывает ручные переходы. OPEN -> IN_PROGRESS выполняется
// только принятием предложения и здесь не разрешён.
func (s ProjectStatus) CanTransitionTo(newStatus ProjectStatus) bool {
	transitions := map[ProjectStatus][]ProjectStatus{
		ProjectStatusOpen:       {ProjectStatusCancelled},
		ProjectStatusInProgress: {ProjectStatusCompleted, ProjectStatusCancelled},
		ProjectStatusCompleted:  {},
		ProjectStatusCancelled:  {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewProjectStatus(status string) (ProjectStatus, error) {
	s := ProjectStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCompleted ProposalStatus = "completed"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusCompleted:
		return true
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус платежа")
	}
	return s, nil
}

type PaymentType string

const (
	PaymentTypeAdvance   PaymentType = "advance"
	PaymentTypeFull      PaymentType = "full"
	PaymentTypeMilestone PaymentType = "milestone"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeAdvance, PaymentTypeFull, PaymentTypeMilestone:
		return true
	}
	return false
}

func NewPaymentType(paymentType string) (PaymentType, error) {
	t := PaymentType(paymentType)
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип платежа")
	}
	return t, nil
}

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

// External возвращает название статуса для клиентов: открытый спор показывается как "pending".
func (s DisputeStatus) External() string {
	if s == DisputeStatusOpen {
		return "pending"
	}
	return string(s)
}

// ParseExternalDisputeStatus принимает как внешние, так и внутренние названия.
func ParseExternalDisputeStatus(status string) (DisputeStatus, error) {
	switch status {
	case "pending", string(DisputeStatusOpen):
		return DisputeStatusOpen, nil
	case string(DisputeStatusResolved):
		return DisputeStatusResolved, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус спора")
}

type Resolution string

const (
	ResolutionFavorStudent   Resolution = "favor_student"
	ResolutionFavorDeveloper Resolution = "favor_developer"
	ResolutionPartial        Resolution = "partial"
	ResolutionDismiss        Resolution = "dismiss"
)

func (r Resolution) IsValid() bool {
	switch r {
	case ResolutionFavorStudent, ResolutionFavorDeveloper, ResolutionPartial, ResolutionDismiss:
		return true
	}
	return false
}

func NewResolution(resolution string) (Resolution, error) {
	r := Resolution(resolution)
	if !r.IsValid() {
		return "", apperror.ErrInvalidResolution
	}
	return r, nil
}

type Role string

const (
	RoleStudent   Role = "student"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleDeveloper, RoleAdmin:
		return true
	}
	return false
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная роль")
	}
	return r, nil
}
