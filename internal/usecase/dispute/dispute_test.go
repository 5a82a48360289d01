package dispute_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/dispute"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
)

const (
	studentID   int64 = 1001
	developerID int64 = 2001
	adminID     int64 = 1
)

var admin = entity.Actor{UserID: adminID, Role: valueobject.RoleAdmin}

type env struct {
	store    *fakes.Store
	notifier *fakes.Notifier
	raise    *dispute.RaiseDisputeUseCase
	resolve  *dispute.ResolveDisputeUseCase
}

func newEnv() *env {
	store := fakes.NewStore()
	notifier := &fakes.Notifier{}
	emitter := notification.NewEmitter(notifier, 0)
	return &env{
		store:    store,
		notifier: notifier,
		raise:    dispute.NewRaiseDisputeUseCase(store.Disputes(), store.Projects(), emitter),
		resolve:  dispute.NewResolveDisputeUseCase(store.Disputes(), store.Projects(), emitter),
	}
}

func (e *env) raiseByStudent(t *testing.T, projectID int64) *entity.Dispute {
	t.Helper()
	d, err := e.raise.Execute(context.Background(), dispute.RaiseDisputeInput{
		ProjectID: projectID,
		RaiserID:  studentID,
		Reason:    "Work not delivered",
	})
	require.NoError(t, err)
	return d
}

func TestRaiseDispute(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	d := e.raiseByStudent(t, project.ID)
	assert.Equal(t, valueobject.DisputeStatusOpen, d.Status)
	assert.Equal(t, "pending", d.Status.External())
	assert.Equal(t, valueobject.RoleStudent, d.RaisedByRole)

	sent := e.notifier.To(developerID)
	require.Len(t, sent, 1)
	assert.Equal(t, "Dispute Raised", sent[0].Title)
	assert.Equal(t, entity.NotificationDispute, sent[0].Type)

	second, err := e.raise.Execute(context.Background(), dispute.RaiseDisputeInput{
		ProjectID: project.ID,
		RaiserID:  developerID,
		Reason:    "Scope keeps changing",
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleDeveloper, second.RaisedByRole)
}

func TestRaiseDispute_Rejected(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	_, err := e.raise.Execute(context.Background(), dispute.RaiseDisputeInput{ProjectID: project.ID, RaiserID: 4040, Reason: "spam"})
	assert.True(t, apperror.IsForbidden(err))

	_, err = e.raise.Execute(context.Background(), dispute.RaiseDisputeInput{ProjectID: project.ID, RaiserID: studentID, Reason: "   "})
	assert.True(t, apperror.IsValidation(err))

	_, err = e.raise.Execute(context.Background(), dispute.RaiseDisputeInput{ProjectID: 999, RaiserID: studentID, Reason: "x"})
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
}

func TestResolveDispute_IsTerminal(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	d := e.raiseByStudent(t, project.ID)

	notes := "Deliverables match the brief"
	resolved, err := e.resolve.Execute(context.Background(), d.ID, admin, "favor_developer", &notes)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DisputeStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, adminID, *resolved.ResolvedBy)
	assert.Equal(t, valueobject.ResolutionFavorDeveloper, *resolved.Resolution)
	assert.NotNil(t, resolved.ResolvedAt)

	_, err = e.resolve.Execute(context.Background(), d.ID, admin, "favor_student", nil)
	assert.ErrorIs(t, err, apperror.ErrDisputeAlreadyResolved)
	assert.True(t, apperror.IsConflict(err))

	for _, userID := range []int64{studentID, developerID} {
		var titles []string
		for _, n := range e.notifier.To(userID) {
			titles = append(titles, n.Title)
		}
		assert.Contains(t, titles, "Dispute Resolved")
	}
}

func TestResolveDispute_Validation(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	d := e.raiseByStudent(t, project.ID)

	_, err := e.resolve.Execute(context.Background(), d.ID, admin, "refund_everyone", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidResolution)

	student := entity.Actor{UserID: studentID, Role: valueobject.RoleStudent}
	_, err = e.resolve.Execute(context.Background(), d.ID, student, "favor_student", nil)
	assert.True(t, apperror.IsForbidden(err))

	_, err = e.resolve.Execute(context.Background(), 555, admin, "dismiss", nil)
	assert.ErrorIs(t, err, apperror.ErrDisputeNotFound)
}

func TestDisputeVisibility(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	d := e.raiseByStudent(t, project.ID)

	get := dispute.NewGetDisputeUseCase(e.store.Disputes(), e.store.Projects())
	list := dispute.NewListProjectDisputesUseCase(e.store.Disputes(), e.store.Projects())

	found, err := get.Execute(context.Background(), d.ID, entity.Actor{UserID: developerID, Role: valueobject.RoleDeveloper})
	require.NoError(t, err)
	assert.Equal(t, project.Title, found.ProjectTitle)

	_, err = get.Execute(context.Background(), d.ID, entity.Actor{UserID: 4040, Role: valueobject.RoleDeveloper})
	assert.True(t, apperror.IsForbidden(err))

	items, err := list.Execute(context.Background(), project.ID, admin)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListDisputes_AdminFilter(t *testing.T) {
	e := newEnv()
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	first := e.raiseByStudent(t, project.ID)
	e.raiseByStudent(t, project.ID)
	_, err := e.resolve.Execute(context.Background(), first.ID, admin, "dismiss", nil)
	require.NoError(t, err)

	uc := dispute.NewListDisputesUseCase(e.store.Disputes())

	pending, err := valueobject.ParseExternalDisputeStatus("pending")
	require.NoError(t, err)
	items, total, err := uc.Execute(context.Background(), admin, repository.DisputeFilter{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	_, _, err = uc.Execute(context.Background(), entity.Actor{UserID: studentID, Role: valueobject.RoleStudent}, repository.DisputeFilter{})
	assert.True(t, apperror.IsForbidden(err))
}
