package proposal_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/proposal"
)

const (
	studentID   int64 = 1001
	developerID int64 = 2001
	otherDevID  int64 = 2002
)

type env struct {
	store    *fakes.Store
	notifier *fakes.Notifier
	submit   *proposal.SubmitProposalUseCase
	accept   *proposal.AcceptProposalUseCase
	reject   *proposal.RejectProposalUseCase
}

func newEnv() *env {
	store := fakes.NewStore()
	notifier := &fakes.Notifier{}
	emitter := notification.NewEmitter(notifier, 0)
	return &env{
		store:    store,
		notifier: notifier,
		submit:   proposal.NewSubmitProposalUseCase(store.Proposals(), store.Projects(), emitter),
		accept:   proposal.NewAcceptProposalUseCase(store.Proposals(), store.Projects(), emitter),
		reject:   proposal.NewRejectProposalUseCase(store.Proposals(), store.Projects()),
	}
}

func bid(projectID, developerID int64, price string) proposal.SubmitProposalInput {
	return proposal.SubmitProposalInput{
		ProjectID:   projectID,
		DeveloperID: developerID,
		Price:       decimal.RequireFromString(price),
		Timeline:    10,
		Technology:  []string{"Go"},
	}
}

func TestSubmitProposal_Success(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")

	result, err := e.submit.Execute(context.Background(), bid(project.ID, developerID, "5000"))
	require.NoError(t, err)

	assert.Equal(t, valueobject.ProposalStatusPending, result.Status)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(5000)))

	sent := e.notifier.To(studentID)
	require.Len(t, sent, 1)
	assert.Equal(t, "New Proposal Received", sent[0].Title)
	assert.Equal(t, entity.NotificationProposal, sent[0].Type)
}

func TestSubmitProposal_DuplicateBid(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")

	_, err := e.submit.Execute(context.Background(), bid(project.ID, developerID, "5000"))
	require.NoError(t, err)

	_, err = e.submit.Execute(context.Background(), bid(project.ID, developerID, "4000"))
	assert.ErrorIs(t, err, apperror.ErrDuplicateBid)
	assert.True(t, apperror.IsConflict(err))
}

func TestSubmitProposal_ProjectNotOpen(t *testing.T) {
	e := newEnv()
	inProgress := e.store.SeedAssignedProject(studentID, developerID, "10000")

	_, err := e.submit.Execute(context.Background(), bid(inProgress.ID, otherDevID, "5000"))
	assert.ErrorIs(t, err, apperror.ErrProjectNotOpen)

	cancelled := e.store.SeedOpenProject(studentID, "10000")
	require.NoError(t, e.store.Projects().Transition(context.Background(), cancelled.ID, valueobject.ProjectStatusOpen, valueobject.ProjectStatusCancelled))

	_, err = e.submit.Execute(context.Background(), bid(cancelled.ID, otherDevID, "5000"))
	assert.True(t, apperror.IsConflict(err))
}

func TestSubmitProposal_Validation(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")

	_, err := e.submit.Execute(context.Background(), bid(project.ID, developerID, "0"))
	assert.True(t, apperror.IsValidation(err))

	_, err = e.submit.Execute(context.Background(), bid(project.ID, studentID, "100"))
	assert.True(t, apperror.IsValidation(err))

	_, err = e.submit.Execute(context.Background(), bid(9999, developerID, "100"))
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
}

func TestAcceptProposal_RejectsSiblingsAndStartsProject(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")
	p1 := e.store.SeedProposal(project.ID, developerID, "5000")
	p2 := e.store.SeedProposal(project.ID, otherDevID, "6000")

	accepted, err := e.accept.Execute(context.Background(), p1.ID, studentID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusAccepted, accepted.Status)

	assert.Equal(t, valueobject.ProposalStatusAccepted, e.store.Proposal(p1.ID).Status)
	assert.Equal(t, valueobject.ProposalStatusRejected, e.store.Proposal(p2.ID).Status)

	stored := e.store.Project(project.ID)
	assert.Equal(t, valueobject.ProjectStatusInProgress, stored.Status)
	require.NotNil(t, stored.AcceptedProposalID)
	assert.Equal(t, p1.ID, *stored.AcceptedProposalID)
	require.NotNil(t, stored.Assignment)
	assert.Equal(t, developerID, stored.Assignment.DeveloperID)

	sent := e.notifier.To(developerID)
	require.Len(t, sent, 1)
	assert.Equal(t, "Proposal Accepted!", sent[0].Title)
	assert.Equal(t, entity.NotificationProposalAccepted, sent[0].Type)
}

func TestAcceptProposal_OnlyOwner(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")
	p1 := e.store.SeedProposal(project.ID, developerID, "5000")

	_, err := e.accept.Execute(context.Background(), p1.ID, developerID)
	assert.True(t, apperror.IsForbidden(err))
	assert.Equal(t, valueobject.ProjectStatusOpen, e.store.Project(project.ID).Status)

	_, err = e.accept.Execute(context.Background(), 777, studentID)
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestAcceptProposal_SecondAcceptFails(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")
	p1 := e.store.SeedProposal(project.ID, developerID, "5000")
	p2 := e.store.SeedProposal(project.ID, otherDevID, "6000")

	_, err := e.accept.Execute(context.Background(), p1.ID, studentID)
	require.NoError(t, err)

	_, err = e.accept.Execute(context.Background(), p2.ID, studentID)
	assert.True(t, apperror.IsConflict(err))

	_, err = e.submit.Execute(context.Background(), bid(project.ID, 2003, "100"))
	assert.ErrorIs(t, err, apperror.ErrProjectNotOpen)
}

func TestAcceptProposal_ConcurrentAcceptsLeaveOneAccepted(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")
	var ids []int64
	for i := int64(0); i < 8; i++ {
		ids = append(ids, e.store.SeedProposal(project.ID, 3000+i, "1000").ID)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := e.accept.Execute(context.Background(), id, studentID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	accepted := 0
	for _, id := range ids {
		if e.store.Proposal(id).Status == valueobject.ProposalStatusAccepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestRejectProposal(t *testing.T) {
	e := newEnv()
	project := e.store.SeedOpenProject(studentID, "10000")
	p1 := e.store.SeedProposal(project.ID, developerID, "5000")

	_, err := e.reject.Execute(context.Background(), p1.ID, otherDevID)
	assert.True(t, apperror.IsForbidden(err))

	rejected, err := e.reject.Execute(context.Background(), p1.ID, studentID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusRejected, rejected.Status)
	assert.Equal(t, valueobject.ProjectStatusOpen, e.store.Project(project.ID).Status)

	_, err = e.reject.Execute(context.Background(), p1.ID, studentID)
	assert.ErrorIs(t, err, apperror.ErrProposalNotPending)
}

func TestSubmitProposal_NotificationFailureIsSwallowed(t *testing.T) {
	e := newEnv()
	e.notifier.Err = errors.New("sink down")
	project := e.store.SeedOpenProject(studentID, "10000")

	result, err := e.submit.Execute(context.Background(), bid(project.ID, developerID, "5000"))
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
}

func TestListProjectProposals_OwnerOnly(t *testing.T) {
	e := newEnv()
	e.store.AddUser(developerID, "Dev", 5)
	project := e.store.SeedOpenProject(studentID, "10000")
	e.store.SeedProposal(project.ID, developerID, "5000")

	uc := proposal.NewListProjectProposalsUseCase(e.store.Proposals(), e.store.Projects())

	list, err := uc.Execute(context.Background(), project.ID, entity.Actor{UserID: studentID, Role: valueobject.RoleStudent})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5.0, list[0].DeveloperRating)

	_, err = uc.Execute(context.Background(), project.ID, entity.Actor{UserID: developerID, Role: valueobject.RoleDeveloper})
	assert.True(t, apperror.IsForbidden(err))

	_, err = uc.Execute(context.Background(), project.ID, entity.Actor{UserID: 1, Role: valueobject.RoleAdmin})
	assert.NoError(t, err)
}
