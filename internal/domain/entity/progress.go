package entity

import (
	"math"
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// ProgressEntry — неизменяемая запись журнала прогресса.
type ProgressEntry struct {
	ID                 int64
	ProjectID          int64
	UpdatedBy          int64
	ProgressPercentage int
	Status             valueobject.ProjectStatus
	Note               *string
	CreatedAt          time.Time
}

// ProgressUpdate — разобранный и проверенный отчёт разработчика.
type ProgressUpdate struct {
	Percentage *int
	Status     *valueobject.ProjectStatus
	Note       *string
}

func NewProgressUpdate(percentage *int, status *string, note *string) (ProgressUpdate, error) {
	if percentage == nil && status == nil {
		return ProgressUpdate{}, apperror.ErrNothingToUpdate
	}
	update := ProgressUpdate{Note: note}
	if percentage != nil {
		pct, err := valueobject.NewProgressPercentage(*percentage)
		if err != nil {
			return ProgressUpdate{}, err
		}
		update.Percentage = &pct
	}
	if status != nil {
		s, err := valueobject.NewReportedStatus(*status)
		if err != nil {
			return ProgressUpdate{}, err
		}
		update.Status = &s
	}
	if update.Percentage != nil && *update.Percentage == 100 && update.Status == nil {
		completed := valueobject.ProjectStatusCompleted
		update.Status = &completed
	}
	return update, nil
}

// ApplyProgress применяет отчёт к проекту.
func (p *Project) ApplyProgress(update ProgressUpdate) error {
	if !p.Status.HasAssignee() {
		return apperror.ErrProjectNotActive
	}
	if update.Percentage != nil {
		p.ProgressPercentage = *update.Percentage
	}
	if update.Status != nil {
		p.Status = *update.Status
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Project) IsCompleted() bool {
	return p.Status == valueobject.ProjectStatusCompleted
}

// MilestoneState — строка таблицы этапов.
type MilestoneState struct {
	Percentage  int
	Completed   bool
	CompletedAt *time.Time
	Note        *string
}

// BuildMilestones строит таблицу этапов 20/50/100. history может быть в любом порядке.
func BuildMilestones(progress int, history []*ProgressEntry) []MilestoneState {
	result := make([]MilestoneState, 0, len(valueobject.Milestones))
	for _, m := range valueobject.Milestones {
		state := MilestoneState{Percentage: m, Completed: progress >= m}
		var first *ProgressEntry
		for _, entry := range history {
			if entry.ProgressPercentage != m {
				continue
			}
			if first == nil || entry.CreatedAt.Before(first.CreatedAt) {
				first = entry
			}
		}
		if first != nil {
			at := first.CreatedAt
			state.CompletedAt = &at
			state.Note = first.Note
		}
		result = append(result, state)
	}
	return result
}

type Timeline struct {
	DaysElapsed   int
	DaysRemaining int
	DaysOverdue   int
	IsOverdue     bool
}

// ComputeTimeline считает сроки в целых днях с округлением вниз.
func ComputeTimeline(createdAt, deadline, now time.Time) Timeline {
	elapsed := wholeDays(now.Sub(createdAt))
	raw := wholeDays(deadline.Sub(now))

	t := Timeline{DaysElapsed: elapsed, IsOverdue: raw < 0}
	if raw > 0 {
		t.DaysRemaining = raw
	}
	if raw < 0 {
		t.DaysOverdue = -raw
	}
	return t
}

func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

// ProgressTracking — сводка для владельца проекта.
type ProgressTracking struct {
	Project    *Project
	History    []*ProgressEntry
	Milestones []MilestoneState
	Timeline   Timeline
}

// ProgressTitle выбирает заголовок уведомления по итоговому состоянию проекта.
func ProgressTitle(project *Project) string {
	switch {
	case project.IsCompleted() || project.ProgressPercentage == 100:
		return "Project Completed!"
	case project.ProgressPercentage == 50:
		return "50% Milestone Reached"
	case project.ProgressPercentage == 20:
		return "20% Milestone Reached"
	default:
		return "Progress Updated"
	}
}
