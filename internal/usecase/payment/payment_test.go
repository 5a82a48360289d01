package payment_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/infrastructure/lock"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/notification"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
)

const (
	studentID   int64 = 1001
	developerID int64 = 2001
	adminID     int64 = 1
)

var (
	student = entity.Actor{UserID: studentID, Role: valueobject.RoleStudent}
	dev     = entity.Actor{UserID: developerID, Role: valueobject.RoleDeveloper}
	admin   = entity.Actor{UserID: adminID, Role: valueobject.RoleAdmin}
)

// fakeGateway выдаёт последовательные id заказов и принимает подпись вида "ok:<order>|<payment>".
type fakeGateway struct {
	mu       sync.Mutex
	n        int
	err      error
	requests []repository.GatewayOrderRequest
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req repository.GatewayOrderRequest) (*repository.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.n++
	g.requests = append(g.requests, req)
	return &repository.GatewayOrder{
		ID:          fmt.Sprintf("order_%d", g.n),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == sign(orderID, paymentID)
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func sign(orderID, paymentID string) string {
	return "ok:" + orderID + "|" + paymentID
}

type env struct {
	store    *fakes.Store
	notifier *fakes.Notifier
	gateway  *fakeGateway
	quote    *payment.QuoteUseCase
	create   *payment.CreateOrderUseCase
	confirm  *payment.ConfirmPaymentUseCase
	refund   *payment.RefundPaymentUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	rate, err := valueobject.NewCommissionRate(decimal.NewFromInt(10))
	require.NoError(t, err)
	settings := payment.Settings{Commission: rate, Currency: "INR"}

	store := fakes.NewStore()
	notifier := &fakes.Notifier{}
	gw := &fakeGateway{}
	emitter := notification.NewEmitter(notifier, 0)

	return &env{
		store:    store,
		notifier: notifier,
		gateway:  gw,
		quote:    payment.NewQuoteUseCase(store.Projects(), store.PaymentRepo(), settings),
		create:   payment.NewCreateOrderUseCase(store.Projects(), store.PaymentRepo(), gw, lock.NewMemoryLocker(), settings),
		confirm:  payment.NewConfirmPaymentUseCase(store.PaymentRepo(), gw, emitter),
		refund:   payment.NewRefundPaymentUseCase(store.PaymentRepo()),
	}
}

func (e *env) order(t *testing.T, projectID int64, paymentType valueobject.PaymentType, pct int) *payment.OrderHandle {
	t.Helper()
	handle, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
		ProjectID:           projectID,
		RequesterID:         studentID,
		PaymentType:         paymentType,
		MilestonePercentage: pct,
	})
	require.NoError(t, err)
	return handle
}

func (e *env) pay(t *testing.T, handle *payment.OrderHandle, paymentID string) *entity.Payment {
	t.Helper()
	paid, err := e.confirm.Execute(context.Background(), payment.ConfirmPaymentInput{
		GatewayOrderID:   handle.GatewayOrderID,
		GatewayPaymentID: paymentID,
		Signature:        sign(handle.GatewayOrderID, paymentID),
	})
	require.NoError(t, err)
	return paid
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestQuote_MilestoneSplit(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	q, err := e.quote.Execute(context.Background(), project.ID, student, valueobject.PaymentTypeMilestone, 50)
	require.NoError(t, err)

	assert.True(t, q.Amount.Equal(d("5000")), q.Amount.String())
	assert.True(t, q.CommissionAmount.Equal(d("500")))
	assert.True(t, q.NetAmount.Equal(d("4500")))
}

func TestQuote_AdvanceAndValidation(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "999.99")

	q, err := e.quote.Execute(context.Background(), project.ID, dev, valueobject.PaymentTypeAdvance, 0)
	require.NoError(t, err)
	assert.True(t, q.Amount.Equal(d("500")), q.Amount.String())
	assert.True(t, q.NetAmount.Add(q.CommissionAmount).Equal(q.Amount))

	_, err = e.quote.Execute(context.Background(), project.ID, student, valueobject.PaymentTypeMilestone, 30)
	assert.True(t, apperror.IsValidation(err))

	_, err = e.quote.Execute(context.Background(), project.ID, entity.Actor{UserID: 42, Role: valueobject.RoleDeveloper}, valueobject.PaymentTypeFull, 0)
	assert.True(t, apperror.IsForbidden(err))
}

func TestQuote_NoAcceptedProposal(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedOpenProject(studentID, "10000")

	_, err := e.quote.Execute(context.Background(), project.ID, student, valueobject.PaymentTypeFull, 0)
	assert.ErrorIs(t, err, apperror.ErrNoAcceptedProposal)
}

func TestCreateOrder_PersistsPendingPayment(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	handle := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)

	assert.Equal(t, "order_1", handle.GatewayOrderID)
	assert.Equal(t, int64(200000), handle.AmountMinor)
	assert.Equal(t, "INR", handle.Currency)
	assert.Equal(t, "rzp_test_key", handle.KeyID)
	assert.Equal(t, valueobject.PaymentStatusPending, handle.Payment.Status)
	assert.Equal(t, developerID, handle.Payment.DeveloperID)

	stored := e.store.Payments()[0]
	assert.False(t, stored.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), stored.CreatedAt, time.Minute)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	req := e.gateway.requests[0]
	assert.LessOrEqual(t, len(req.Receipt), 40)
	assert.Contains(t, req.Receipt, fmt.Sprintf("projexhub_%d_", project.ID))
	assert.Equal(t, "milestone", req.Notes["paymentType"])
	assert.Equal(t, "20", req.Notes["milestonePercentage"])
}

func TestCreateOrder_OnlyOwner(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	_, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
		ProjectID:   project.ID,
		RequesterID: developerID,
		PaymentType: valueobject.PaymentTypeAdvance,
	})
	assert.True(t, apperror.IsForbidden(err))
	assert.Empty(t, e.store.Payments())
}

func TestCreateOrder_GatewayFailureCreatesNoRow(t *testing.T) {
	e := newEnv(t)
	e.gateway.err = errors.New("connection refused")
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	_, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
		ProjectID:   project.ID,
		RequesterID: studentID,
		PaymentType: valueobject.PaymentTypeAdvance,
	})
	assert.True(t, apperror.IsExternalUnavailable(err))
	assert.Empty(t, e.store.Payments())
}

func TestCreateOrder_MilestoneAlreadyPaid(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	e.pay(t, e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20), "pay_1")

	_, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
		ProjectID:           project.ID,
		RequesterID:         studentID,
		PaymentType:         valueobject.PaymentTypeMilestone,
		MilestonePercentage: 20,
	})
	assert.ErrorIs(t, err, apperror.ErrMilestoneAlreadyPaid)
	assert.True(t, apperror.IsConflict(err))

	// другой этап по-прежнему доступен
	e.order(t, project.ID, valueobject.PaymentTypeMilestone, 50)
}

func TestCreateOrder_FullIsRemainderAndClosesProject(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	e.pay(t, e.order(t, project.ID, valueobject.PaymentTypeAdvance, 0), "pay_adv")

	full := e.order(t, project.ID, valueobject.PaymentTypeFull, 0)
	assert.True(t, full.Payment.Amount.Equal(d("5000")), full.Payment.Amount.String())
	e.pay(t, full, "pay_full")

	for _, pt := range []valueobject.PaymentType{valueobject.PaymentTypeAdvance, valueobject.PaymentTypeFull, valueobject.PaymentTypeMilestone} {
		_, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
			ProjectID:           project.ID,
			RequesterID:         studentID,
			PaymentType:         pt,
			MilestonePercentage: 100,
		})
		assert.ErrorIs(t, err, apperror.ErrProjectFullyPaid, string(pt))
	}
}

func TestConfirm_RoundTripAndMilestoneProgress(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	q, err := e.quote.Execute(context.Background(), project.ID, student, valueobject.PaymentTypeMilestone, 50)
	require.NoError(t, err)

	handle := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 50)
	paid := e.pay(t, handle, "pay_1")

	assert.Equal(t, valueobject.PaymentStatusCompleted, paid.Status)
	assert.True(t, paid.Amount.Equal(q.Amount))
	assert.True(t, paid.NetAmount.Add(paid.CommissionAmount).Equal(paid.Amount))
	require.NotNil(t, paid.GatewayPaymentID)
	assert.Equal(t, "pay_1", *paid.GatewayPaymentID)

	assert.Equal(t, 50, e.store.Project(project.ID).ProgressPercentage)

	sent := e.notifier.To(developerID)
	require.Len(t, sent, 1)
	assert.Equal(t, "Payment Received", sent[0].Title)
	assert.Equal(t, "You received a payment of ₹4500.00", sent[0].Message)
}

func TestConfirm_Idempotent(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	handle := e.order(t, project.ID, valueobject.PaymentTypeAdvance, 0)

	first := e.pay(t, handle, "pay_1")
	second := e.pay(t, handle, "pay_1")

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.NetAmount.Equal(second.NetAmount))
	assert.True(t, first.CommissionAmount.Equal(second.CommissionAmount))

	completed := 0
	for _, p := range e.store.Payments() {
		if p.IsCompleted() {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
	assert.Len(t, e.notifier.To(developerID), 1)
}

func TestConfirm_InvalidSignature(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	handle := e.order(t, project.ID, valueobject.PaymentTypeAdvance, 0)

	_, err := e.confirm.Execute(context.Background(), payment.ConfirmPaymentInput{
		GatewayOrderID:   handle.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidSignature)
	assert.Equal(t, valueobject.PaymentStatusPending, e.store.Payments()[0].Status)
}

func TestConfirm_UnknownOrder(t *testing.T) {
	e := newEnv(t)

	_, err := e.confirm.Execute(context.Background(), payment.ConfirmPaymentInput{
		GatewayOrderID:   "order_404",
		GatewayPaymentID: "pay_1",
		Signature:        sign("order_404", "pay_1"),
	})
	assert.ErrorIs(t, err, apperror.ErrPaymentNotFound)
}

func TestConfirm_SecondPendingOrderForPaidSlotIsRejected(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	first := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)
	second := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)
	e.pay(t, first, "pay_1")

	_, err := e.confirm.Execute(context.Background(), payment.ConfirmPaymentInput{
		GatewayOrderID:   second.GatewayOrderID,
		GatewayPaymentID: "pay_2",
		Signature:        sign(second.GatewayOrderID, "pay_2"),
	})
	assert.ErrorIs(t, err, apperror.ErrMilestoneAlreadyPaid)
}

func (e *env) confirmErr(handle *payment.OrderHandle, paymentID string) error {
	_, err := e.confirm.Execute(context.Background(), payment.ConfirmPaymentInput{
		GatewayOrderID:   handle.GatewayOrderID,
		GatewayPaymentID: paymentID,
		Signature:        sign(handle.GatewayOrderID, paymentID),
	})
	return err
}

func TestConfirm_MilestoneAfterFullIsRejected(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	full := e.order(t, project.ID, valueobject.PaymentTypeFull, 0)
	milestone := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)

	e.pay(t, full, "pay_full")
	assert.ErrorIs(t, e.confirmErr(milestone, "pay_ms"), apperror.ErrProjectFullyPaid)

	assert.True(t, entity.PaidAmount(e.store.Payments()).Equal(d("10000")))
	assert.Len(t, e.notifier.To(developerID), 1)
}

func TestConfirm_FullAfterMilestoneIsRejected(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	full := e.order(t, project.ID, valueobject.PaymentTypeFull, 0)
	milestone := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)

	e.pay(t, milestone, "pay_ms")
	assert.ErrorIs(t, e.confirmErr(full, "pay_full"), apperror.ErrPaymentExceedsPrice)

	assert.True(t, entity.PaidAmount(e.store.Payments()).Equal(d("2000")))
}

func TestCreateOrder_RejectsAmountAbovePrice(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	e.pay(t, e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20), "pay_1")

	_, err := e.create.Execute(context.Background(), payment.CreateOrderInput{
		ProjectID:           project.ID,
		RequesterID:         studentID,
		PaymentType:         valueobject.PaymentTypeMilestone,
		MilestonePercentage: 100,
	})
	assert.ErrorIs(t, err, apperror.ErrPaymentExceedsPrice)
	assert.Len(t, e.store.Payments(), 1)
	assert.Len(t, e.gateway.requests, 1)
}

func TestRefund(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	handle := e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)

	_, err := e.refund.Execute(context.Background(), handle.Payment.ID, admin)
	assert.ErrorIs(t, err, apperror.ErrPaymentNotRefundable)

	e.pay(t, handle, "pay_1")

	_, err = e.refund.Execute(context.Background(), handle.Payment.ID, student)
	assert.True(t, apperror.IsForbidden(err))

	refunded, err := e.refund.Execute(context.Background(), handle.Payment.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusRefunded, refunded.Status)
	assert.Equal(t, 20, e.store.Project(project.ID).ProgressPercentage)
}

func TestEarningsAndHistory(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")

	e.pay(t, e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20), "pay_1")
	e.order(t, project.ID, valueobject.PaymentTypeMilestone, 50)

	earnings, err := payment.NewEarningsUseCase(e.store.PaymentRepo()).Execute(context.Background(), dev)
	require.NoError(t, err)
	assert.True(t, earnings.CompletedNet.Equal(d("1800")), earnings.CompletedNet.String())
	assert.True(t, earnings.CompletedCommission.Equal(d("200")))
	assert.True(t, earnings.PendingNet.Equal(d("4500")))
	assert.Equal(t, 1, earnings.CompletedCount)
	assert.Equal(t, 1, earnings.PendingCount)

	history, err := payment.NewPaymentHistoryUseCase(e.store.PaymentRepo()).Execute(context.Background(), student)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Payments, 2)
	assert.True(t, history[0].TotalPaid.Equal(d("2000")))
}

func TestAdminPaymentViews(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	handle := e.order(t, project.ID, valueobject.PaymentTypeAdvance, 0)

	details, err := payment.NewGetPaymentDetailsUseCase(e.store.PaymentRepo()).Execute(context.Background(), handle.Payment.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "118.00", details.GatewayFee)

	list := payment.NewListPaymentsUseCase(e.store.PaymentRepo())
	pending := valueobject.PaymentStatusPending
	items, total, err := list.Execute(context.Background(), admin, repository.PaymentFilter{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	_, _, err = list.Execute(context.Background(), student, repository.PaymentFilter{})
	assert.True(t, apperror.IsForbidden(err))
}

type mockSheetWriter struct {
	mock.Mock
}

func (m *mockSheetWriter) WritePayments(w io.Writer, payments []*entity.Payment) error {
	args := m.Called(w, payments)
	return args.Error(0)
}

func TestExportPayments(t *testing.T) {
	e := newEnv(t)
	project := e.store.SeedAssignedProject(studentID, developerID, "10000")
	e.order(t, project.ID, valueobject.PaymentTypeAdvance, 0)
	e.order(t, project.ID, valueobject.PaymentTypeMilestone, 20)

	writer := new(mockSheetWriter)
	writer.On("WritePayments", mock.Anything, mock.MatchedBy(func(p []*entity.Payment) bool { return len(p) == 2 })).Return(nil)

	uc := payment.NewExportPaymentsUseCase(e.store.PaymentRepo(), writer)
	var buf bytes.Buffer
	require.NoError(t, uc.Execute(context.Background(), admin, repository.PaymentFilter{}, &buf))
	writer.AssertExpectations(t)

	assert.ErrorIs(t, uc.Execute(context.Background(), dev, repository.PaymentFilter{}, &buf), apperror.ErrForbidden)
}
