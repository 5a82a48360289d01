package valueobject

import "github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"

// Milestones — контрольные точки, на которых можно оплатить этап.
var Milestones = []int{20, 50, 100}

// IsProgressPercentage проверяет допустимые значения прогресса: 0, 20, 50, 100.
func IsProgressPercentage(pct int) bool {
	if pct == 0 {
		return true
	}
	return IsMilestone(pct)
}

func IsMilestone(pct int) bool {
	for _, m := range Milestones {
		if m == pct {
			return true
		}
	}
	return false
}

func NewProgressPercentage(pct int) (int, error) {
	if !IsProgressPercentage(pct) {
		return 0, apperror.New(apperror.ErrCodeValidation, "прогресс может принимать значения 0, 20, 50 или 100")
	}
	return pct, nil
}

// NewMilestonePercentage проверяет процент этапа для платежа.
// Для немилестоунных платежей процент всегда нулевой.
func NewMilestonePercentage(paymentType PaymentType, pct int) (int, error) {
	if paymentType != PaymentTypeMilestone {
		return 0, nil
	}
	if !IsMilestone(pct) {
		return 0, apperror.New(apperror.ErrCodeValidation, "процент этапа должен быть 20, 50 или 100")
	}
	return pct, nil
}

// NewReportedStatus разбирает статус, который разработчик может выставить при отчёте о прогрессе.
func NewReportedStatus(status string) (ProjectStatus, error) {
	s := ProjectStatus(status)
	if s != ProjectStatusInProgress && s != ProjectStatusCompleted {
		return "", apperror.New(apperror.ErrCodeValidation, "статус может быть только in_progress или completed")
	}
	return s, nil
}
