package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

type Payment struct {
	ID                  int64
	ProjectID           int64
	StudentID           int64
	DeveloperID         int64
	Amount              decimal.Decimal
	CommissionAmount    decimal.Decimal
	NetAmount           decimal.Decimal
	PaymentMethod       string
	PaymentType         valueobject.PaymentType
	MilestonePercentage int
	GatewayOrderID      string
	GatewayPaymentID    *string
	GatewaySignature    *string
	Status              valueobject.PaymentStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Заполняется при чтении истории.
	ProjectTitle string
}

// NewPendingPayment создаёт платёж по расчёту quote, ожидающий подтверждения шлюза.
func NewPendingPayment(project *Project, quote Quote, method, gatewayOrderID string) *Payment {
	now := time.Now()
	return &Payment{
		ProjectID:           project.ID,
		StudentID:           project.StudentID,
		DeveloperID:         project.Assignment.DeveloperID,
		Amount:              quote.Amount,
		CommissionAmount:    quote.CommissionAmount,
		NetAmount:           quote.NetAmount,
		PaymentMethod:       method,
		PaymentType:         quote.PaymentType,
		MilestonePercentage: quote.MilestonePercentage,
		GatewayOrderID:      gatewayOrderID,
		Status:              valueobject.PaymentStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// SameSlot сообщает, занимают ли платежи одну и ту же комбинацию (тип, процент этапа).
func (p *Payment) SameSlot(paymentType valueobject.PaymentType, pct int) bool {
	return p.PaymentType == paymentType && p.MilestonePercentage == pct
}

func (p *Payment) IsCompleted() bool {
	return p.Status == valueobject.PaymentStatusCompleted
}

// Complete фиксирует подтверждённый шлюзом платёж.
func (p *Payment) Complete(gatewayPaymentID, signature string) error {
	if p.Status != valueobject.PaymentStatusPending {
		return apperror.ErrPaymentNotPending
	}
	p.Status = valueobject.PaymentStatusCompleted
	p.GatewayPaymentID = &gatewayPaymentID
	p.GatewaySignature = &signature
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Payment) Refund() error {
	if p.Status != valueobject.PaymentStatusCompleted {
		return apperror.ErrPaymentNotRefundable
	}
	p.Status = valueobject.PaymentStatusRefunded
	p.UpdatedAt = time.Now()
	return nil
}

// Quote — расчёт суммы к оплате.
type Quote struct {
	PaymentType         valueobject.PaymentType
	MilestonePercentage int
	Amount              decimal.Decimal
	CommissionAmount    decimal.Decimal
	NetAmount           decimal.Decimal
}

var advanceShare = decimal.NewFromFloat(0.5)

// QuotePayment считает сумму платежа по цене принятого предложения.
// completed — завершённые платежи проекта, используются для FULL (оплата остатка).
func QuotePayment(project *Project, completed []*Payment, paymentType valueobject.PaymentType, milestonePct int, rate valueobject.CommissionRate) (Quote, error) {
	if project.Assignment == nil {
		return Quote{}, apperror.ErrNoAcceptedProposal
	}
	if !paymentType.IsValid() {
		return Quote{}, apperror.New(apperror.ErrCodeValidation, "некорректный тип платежа")
	}
	pct, err := valueobject.NewMilestonePercentage(paymentType, milestonePct)
	if err != nil {
		return Quote{}, err
	}

	price := project.Assignment.Price
	var gross decimal.Decimal
	switch paymentType {
	case valueobject.PaymentTypeAdvance:
		gross = price.Mul(advanceShare).Round(2)
	case valueobject.PaymentTypeFull:
		gross = price.Sub(PaidAmount(completed))
		if gross.IsNegative() {
			gross = decimal.Zero
		}
	case valueobject.PaymentTypeMilestone:
		gross = valueobject.Percentage(price, pct)
	}

	commission, net := rate.Split(gross)
	return Quote{
		PaymentType:         paymentType,
		MilestonePercentage: pct,
		Amount:              gross,
		CommissionAmount:    commission,
		NetAmount:           net,
	}, nil
}

// PaidAmount суммирует валовые суммы завершённых платежей.
func PaidAmount(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.IsCompleted() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// CheckSlotAvailable проверяет, что комбинацию (тип, процент) ещё можно оплатить.
func CheckSlotAvailable(completed []*Payment, paymentType valueobject.PaymentType, pct int) error {
	for _, p := range completed {
		if p.IsCompleted() && p.PaymentType == valueobject.PaymentTypeFull {
			return apperror.ErrProjectFullyPaid
		}
	}
	for _, p := range completed {
		if p.IsCompleted() && p.SameSlot(paymentType, pct) {
			return apperror.ErrMilestoneAlreadyPaid
		}
	}
	return nil
}

// CheckWithinPrice проверяет, что после оплаты amount сумма завершённых
// платежей не превысит цену принятого предложения.
func CheckWithinPrice(price decimal.Decimal, completed []*Payment, amount decimal.Decimal) error {
	if PaidAmount(completed).Add(amount).GreaterThan(price) {
		return apperror.ErrPaymentExceedsPrice
	}
	return nil
}

// CheckConfirmable повторяет проверки создания заказа на момент подтверждения:
// за время между заказом и подтверждением могли завершиться другие платежи проекта.
func CheckConfirmable(price decimal.Decimal, completed []*Payment, payment *Payment) error {
	others := make([]*Payment, 0, len(completed))
	for _, p := range completed {
		if p.ID != payment.ID && p.IsCompleted() {
			others = append(others, p)
		}
	}
	if err := CheckSlotAvailable(others, payment.PaymentType, payment.MilestonePercentage); err != nil {
		return err
	}
	return CheckWithinPrice(price, others, payment.Amount)
}

// Earnings — агрегаты по платежам пользователя.
type Earnings struct {
	CompletedGross      decimal.Decimal
	CompletedNet        decimal.Decimal
	PendingNet          decimal.Decimal
	CompletedCommission decimal.Decimal
	CompletedCount      int
	PendingCount        int
}

func SummarizeEarnings(payments []*Payment) Earnings {
	e := Earnings{
		CompletedGross:      decimal.Zero,
		CompletedNet:        decimal.Zero,
		PendingNet:          decimal.Zero,
		CompletedCommission: decimal.Zero,
	}
	for _, p := range payments {
		switch p.Status {
		case valueobject.PaymentStatusCompleted:
			e.CompletedGross = e.CompletedGross.Add(p.Amount)
			e.CompletedNet = e.CompletedNet.Add(p.NetAmount)
			e.CompletedCommission = e.CompletedCommission.Add(p.CommissionAmount)
			e.CompletedCount++
		case valueobject.PaymentStatusPending:
			e.PendingNet = e.PendingNet.Add(p.NetAmount)
			e.PendingCount++
		}
	}
	return e
}

// ProjectPayments — платежи одного проекта в истории пользователя.
type ProjectPayments struct {
	ProjectID    int64
	ProjectTitle string
	TotalPaid    decimal.Decimal
	Payments     []*Payment
}

// GroupByProject группирует платежи, сохраняя порядок первого появления проекта.
func GroupByProject(payments []*Payment) []*ProjectPayments {
	index := make(map[int64]*ProjectPayments)
	groups := make([]*ProjectPayments, 0)
	for _, p := range payments {
		group, ok := index[p.ProjectID]
		if !ok {
			group = &ProjectPayments{ProjectID: p.ProjectID, ProjectTitle: p.ProjectTitle, TotalPaid: decimal.Zero}
			index[p.ProjectID] = group
			groups = append(groups, group)
		}
		group.Payments = append(group.Payments, p)
		if p.IsCompleted() {
			group.TotalPaid = group.TotalPaid.Add(p.Amount)
		}
	}
	return groups
}

var gatewayFeeRate = decimal.RequireFromString("0.0236")

// GatewayFee — оценка комиссии платёжного шлюза (2% + 18% GST).
func GatewayFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(gatewayFeeRate).Round(2)
}
