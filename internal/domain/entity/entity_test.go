package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

func assignedProject(price string) *Project {
	id := int64(7)
	return &Project{
		ID:                 1,
		StudentID:          10,
		Status:             valueobject.ProjectStatusInProgress,
		AcceptedProposalID: &id,
		Assignment: &Assignment{
			ProposalID:  id,
			DeveloperID: 20,
			Price:       decimal.RequireFromString(price),
		},
	}
}

func tenPercent(t *testing.T) valueobject.CommissionRate {
	rate, err := valueobject.NewCommissionRate(decimal.NewFromInt(10))
	require.NoError(t, err)
	return rate
}

func TestQuotePayment(t *testing.T) {
	rate := tenPercent(t)

	tests := []struct {
		name       string
		price      string
		kind       valueobject.PaymentType
		pct        int
		amount     string
		commission string
		net        string
	}{
		{"milestone 20%", "10000", valueobject.PaymentTypeMilestone, 20, "2000", "200", "1800"},
		{"advance rounds to cents", "333.33", valueobject.PaymentTypeAdvance, 0, "166.67", "16.67", "150"},
		{"full without history", "10000", valueobject.PaymentTypeFull, 0, "10000", "1000", "9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuotePayment(assignedProject(tt.price), nil, tt.kind, tt.pct, rate)
			require.NoError(t, err)
			assert.True(t, q.Amount.Equal(decimal.RequireFromString(tt.amount)), q.Amount.String())
			assert.True(t, q.CommissionAmount.Equal(decimal.RequireFromString(tt.commission)), q.CommissionAmount.String())
			assert.True(t, q.NetAmount.Equal(decimal.RequireFromString(tt.net)), q.NetAmount.String())
			assert.True(t, q.Amount.Equal(q.CommissionAmount.Add(q.NetAmount)))
		})
	}
}

func TestQuotePayment_FullIsRemainder(t *testing.T) {
	paid := []*Payment{
		{Amount: decimal.NewFromInt(5000), Status: valueobject.PaymentStatusCompleted, PaymentType: valueobject.PaymentTypeAdvance},
		{Amount: decimal.NewFromInt(2000), Status: valueobject.PaymentStatusRefunded, PaymentType: valueobject.PaymentTypeMilestone, MilestonePercentage: 20},
	}
	q, err := QuotePayment(assignedProject("10000"), paid, valueobject.PaymentTypeFull, 0, tenPercent(t))
	require.NoError(t, err)
	assert.True(t, q.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestQuotePayment_Errors(t *testing.T) {
	rate := tenPercent(t)

	_, err := QuotePayment(&Project{Status: valueobject.ProjectStatusOpen}, nil, valueobject.PaymentTypeFull, 0, rate)
	assert.ErrorIs(t, err, apperror.ErrNoAcceptedProposal)

	_, err = QuotePayment(assignedProject("100"), nil, valueobject.PaymentTypeMilestone, 30, rate)
	assert.True(t, apperror.IsValidation(err))

	_, err = QuotePayment(assignedProject("100"), nil, valueobject.PaymentType("bonus"), 0, rate)
	assert.True(t, apperror.IsValidation(err))
}

func TestCheckSlotAvailable(t *testing.T) {
	milestone20 := &Payment{Status: valueobject.PaymentStatusCompleted, PaymentType: valueobject.PaymentTypeMilestone, MilestonePercentage: 20}
	full := &Payment{Status: valueobject.PaymentStatusCompleted, PaymentType: valueobject.PaymentTypeFull}

	assert.ErrorIs(t, CheckSlotAvailable([]*Payment{milestone20}, valueobject.PaymentTypeMilestone, 20), apperror.ErrMilestoneAlreadyPaid)
	assert.NoError(t, CheckSlotAvailable([]*Payment{milestone20}, valueobject.PaymentTypeMilestone, 50))
	assert.ErrorIs(t, CheckSlotAvailable([]*Payment{milestone20, full}, valueobject.PaymentTypeMilestone, 20), apperror.ErrProjectFullyPaid)
	assert.NoError(t, CheckSlotAvailable(nil, valueobject.PaymentTypeAdvance, 0))
}

func completedPayment(id int64, paymentType valueobject.PaymentType, pct int, amount string) *Payment {
	return &Payment{
		ID:                  id,
		PaymentType:         paymentType,
		MilestonePercentage: pct,
		Amount:              decimal.RequireFromString(amount),
		Status:              valueobject.PaymentStatusCompleted,
	}
}

func TestCheckConfirmable(t *testing.T) {
	price := decimal.NewFromInt(10000)
	pending := func(paymentType valueobject.PaymentType, pct int, amount string) *Payment {
		p := completedPayment(99, paymentType, pct, amount)
		p.Status = valueobject.PaymentStatusPending
		return p
	}

	tests := []struct {
		name      string
		completed []*Payment
		payment   *Payment
		want      error
	}{
		{"first payment", nil, pending(valueobject.PaymentTypeFull, 0, "10000"), nil},
		{"milestone after full", []*Payment{completedPayment(1, valueobject.PaymentTypeFull, 0, "10000")}, pending(valueobject.PaymentTypeMilestone, 20, "2000"), apperror.ErrProjectFullyPaid},
		{"same milestone twice", []*Payment{completedPayment(1, valueobject.PaymentTypeMilestone, 20, "2000")}, pending(valueobject.PaymentTypeMilestone, 20, "2000"), apperror.ErrMilestoneAlreadyPaid},
		{"stale full remainder", []*Payment{completedPayment(1, valueobject.PaymentTypeMilestone, 20, "2000")}, pending(valueobject.PaymentTypeFull, 0, "10000"), apperror.ErrPaymentExceedsPrice},
		{"milestones up to price", []*Payment{completedPayment(1, valueobject.PaymentTypeMilestone, 50, "5000")}, pending(valueobject.PaymentTypeAdvance, 0, "5000"), nil},
		{"self is ignored", []*Payment{completedPayment(99, valueobject.PaymentTypeFull, 0, "10000")}, pending(valueobject.PaymentTypeFull, 0, "10000"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfirmable(price, tt.completed, tt.payment)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewPendingPayment(t *testing.T) {
	project := assignedProject("10000")
	quote, err := QuotePayment(project, nil, valueobject.PaymentTypeAdvance, 0, tenPercent(t))
	require.NoError(t, err)

	p := NewPendingPayment(project, quote, "razorpay", "order_1")
	assert.Equal(t, valueobject.PaymentStatusPending, p.Status)
	assert.Equal(t, int64(20), p.DeveloperID)
	assert.Equal(t, "order_1", p.GatewayOrderID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestProjectTransitions(t *testing.T) {
	p := assignedProject("100")
	require.NoError(t, p.TransitionTo(valueobject.ProjectStatusCompleted))
	assert.Equal(t, 100, p.ProgressPercentage)
	assert.ErrorIs(t, p.TransitionTo(valueobject.ProjectStatusCancelled), apperror.ErrInvalidTransition)

	p = assignedProject("100")
	require.NoError(t, p.TransitionTo(valueobject.ProjectStatusCancelled))
	assert.Nil(t, p.AcceptedProposalID)
	assert.Nil(t, p.Assignment)

	open := &Project{Status: valueobject.ProjectStatusOpen}
	assert.ErrorIs(t, open.TransitionTo(valueobject.ProjectStatusCompleted), apperror.ErrInvalidTransition)
}

func TestCounterparty(t *testing.T) {
	p := assignedProject("100")

	other, err := p.Counterparty(10)
	require.NoError(t, err)
	assert.Equal(t, int64(20), other)

	other, err = p.Counterparty(20)
	require.NoError(t, err)
	assert.Equal(t, int64(10), other)

	_, err = p.Counterparty(99)
	assert.ErrorIs(t, err, apperror.ErrNotParticipant)

	_, err = (&Project{StudentID: 10}).Counterparty(10)
	assert.ErrorIs(t, err, apperror.ErrNoCounterparty)
}

func TestNewProgressUpdate(t *testing.T) {
	pct := 100
	update, err := NewProgressUpdate(&pct, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, update.Status)
	assert.Equal(t, valueobject.ProjectStatusCompleted, *update.Status)

	bad := 37
	_, err = NewProgressUpdate(&bad, nil, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewProgressUpdate(nil, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrNothingToUpdate)
}

func TestBuildMilestones(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	early, late := "first", "again"
	history := []*ProgressEntry{
		{ProgressPercentage: 20, CreatedAt: base.Add(48 * time.Hour), Note: &late},
		{ProgressPercentage: 20, CreatedAt: base, Note: &early},
		{ProgressPercentage: 0, CreatedAt: base.Add(72 * time.Hour)},
	}

	milestones := BuildMilestones(20, history)
	require.Len(t, milestones, 3)
	assert.True(t, milestones[0].Completed)
	require.NotNil(t, milestones[0].CompletedAt)
	assert.Equal(t, base, *milestones[0].CompletedAt)
	assert.Equal(t, "first", *milestones[0].Note)
	assert.False(t, milestones[1].Completed)
	assert.Nil(t, milestones[2].CompletedAt)
}

func TestComputeTimeline(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	ahead := ComputeTimeline(now.Add(-30*time.Hour), now.Add(60*time.Hour), now)
	assert.Equal(t, Timeline{DaysElapsed: 1, DaysRemaining: 2}, ahead)

	late := ComputeTimeline(now.Add(-10*24*time.Hour), now.Add(-12*time.Hour), now)
	assert.Equal(t, Timeline{DaysElapsed: 10, DaysOverdue: 1, IsOverdue: true}, late)
}

func TestComputeRating(t *testing.T) {
	assert.Equal(t, UserRating{UserID: 1, Rating: 4.5, TotalRatings: 2}, ComputeRating(1, []int{5, 4}))
	assert.Equal(t, UserRating{UserID: 2, Rating: 3.67, TotalRatings: 3}, ComputeRating(2, []int{5, 4, 2}))
	assert.Equal(t, UserRating{UserID: 3}, ComputeRating(3, nil))
}

func TestDisputeResolve(t *testing.T) {
	d, err := NewDispute(assignedProject("100"), 10, "late delivery", nil)
	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleStudent, d.RaisedByRole)

	require.NoError(t, d.Resolve(1, valueobject.ResolutionPartial, nil))
	assert.Equal(t, valueobject.DisputeStatusResolved, d.Status)
	assert.ErrorIs(t, d.Resolve(1, valueobject.ResolutionDismiss, nil), apperror.ErrDisputeAlreadyResolved)
}

func TestSummarizeEarnings(t *testing.T) {
	payments := []*Payment{
		{Amount: decimal.NewFromInt(1000), CommissionAmount: decimal.NewFromInt(100), NetAmount: decimal.NewFromInt(900), Status: valueobject.PaymentStatusCompleted},
		{Amount: decimal.NewFromInt(500), CommissionAmount: decimal.NewFromInt(50), NetAmount: decimal.NewFromInt(450), Status: valueobject.PaymentStatusPending},
		{Amount: decimal.NewFromInt(300), NetAmount: decimal.NewFromInt(270), Status: valueobject.PaymentStatusRefunded},
	}
	e := SummarizeEarnings(payments)
	assert.True(t, e.CompletedNet.Equal(decimal.NewFromInt(900)))
	assert.True(t, e.PendingNet.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, 1, e.CompletedCount)
	assert.Equal(t, 1, e.PendingCount)
}
