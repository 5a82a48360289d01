package dto

import (
	"time"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
)

type CreateOrderRequest struct {
	PaymentType         string `json:"payment_type" binding:"required"`
	MilestonePercentage int    `json:"milestone_percentage"`
	PaymentMethod       string `json:"payment_method"`
}

// VerifyPaymentRequest — данные, которые checkout шлюза возвращает клиенту.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type QuoteResponse struct {
	PaymentType         string `json:"payment_type"`
	MilestonePercentage int    `json:"milestone_percentage"`
	Amount              string `json:"amount"`
	CommissionAmount    string `json:"commission_amount"`
	NetAmount           string `json:"net_amount"`
}

func ToQuoteResponse(q entity.Quote) QuoteResponse {
	return QuoteResponse{
		PaymentType:         string(q.PaymentType),
		MilestonePercentage: q.MilestonePercentage,
		Amount:              Money(q.Amount),
		CommissionAmount:    Money(q.CommissionAmount),
		NetAmount:           Money(q.NetAmount),
	}
}

type OrderResponse struct {
	PaymentID   int64           `json:"payment_id"`
	OrderID     string          `json:"order_id"`
	AmountMinor int64           `json:"amount"`
	Currency    string          `json:"currency"`
	KeyID       string          `json:"key_id"`
	Payment     PaymentResponse `json:"payment"`
}

func ToOrderResponse(h *payment.OrderHandle) OrderResponse {
	return OrderResponse{
		PaymentID:   h.Payment.ID,
		OrderID:     h.GatewayOrderID,
		AmountMinor: h.AmountMinor,
		Currency:    h.Currency,
		KeyID:       h.KeyID,
		Payment:     ToPaymentResponse(h.Payment),
	}
}

type PaymentResponse struct {
	ID                  int64     `json:"id"`
	ProjectID           int64     `json:"project_id"`
	ProjectTitle        string    `json:"project_title,omitempty"`
	StudentID           int64     `json:"student_id"`
	DeveloperID         int64     `json:"developer_id"`
	Amount              string    `json:"amount"`
	CommissionAmount    string    `json:"commission_amount"`
	NetAmount           string    `json:"net_amount"`
	PaymentMethod       string    `json:"payment_method"`
	PaymentType         string    `json:"payment_type"`
	MilestonePercentage int       `json:"milestone_percentage"`
	GatewayOrderID      string    `json:"gateway_order_id"`
	GatewayPaymentID    *string   `json:"gateway_payment_id"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                  p.ID,
		ProjectID:           p.ProjectID,
		ProjectTitle:        p.ProjectTitle,
		StudentID:           p.StudentID,
		DeveloperID:         p.DeveloperID,
		Amount:              Money(p.Amount),
		CommissionAmount:    Money(p.CommissionAmount),
		NetAmount:           Money(p.NetAmount),
		PaymentMethod:       p.PaymentMethod,
		PaymentType:         string(p.PaymentType),
		MilestonePercentage: p.MilestonePercentage,
		GatewayOrderID:      p.GatewayOrderID,
		GatewayPaymentID:    p.GatewayPaymentID,
		Status:              string(p.Status),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func ToPaymentResponses(payments []*entity.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, ToPaymentResponse(p))
	}
	return responses
}

type ProjectPaymentsResponse struct {
	ProjectID    int64             `json:"project_id"`
	ProjectTitle string            `json:"project_title"`
	TotalPaid    string            `json:"total_paid"`
	Payments     []PaymentResponse `json:"payments"`
}

func ToProjectPaymentsResponses(groups []*entity.ProjectPayments) []ProjectPaymentsResponse {
	responses := make([]ProjectPaymentsResponse, 0, len(groups))
	for _, g := range groups {
		responses = append(responses, ProjectPaymentsResponse{
			ProjectID:    g.ProjectID,
			ProjectTitle: g.ProjectTitle,
			TotalPaid:    Money(g.TotalPaid),
			Payments:     ToPaymentResponses(g.Payments),
		})
	}
	return responses
}

type EarningsResponse struct {
	CompletedGross      string `json:"completed_gross"`
	CompletedNet        string `json:"completed_net"`
	CompletedCommission string `json:"completed_commission"`
	PendingNet          string `json:"pending_net"`
	CompletedCount      int    `json:"completed_count"`
	PendingCount        int    `json:"pending_count"`
}

func ToEarningsResponse(e entity.Earnings) EarningsResponse {
	return EarningsResponse{
		CompletedGross:      Money(e.CompletedGross),
		CompletedNet:        Money(e.CompletedNet),
		CompletedCommission: Money(e.CompletedCommission),
		PendingNet:          Money(e.PendingNet),
		CompletedCount:      e.CompletedCount,
		PendingCount:        e.PendingCount,
	}
}

type PaymentDetailsResponse struct {
	PaymentResponse
	GatewaySignature *string `json:"gateway_signature"`
	GatewayFee       string  `json:"gateway_fee"`
}

func ToPaymentDetailsResponse(d *payment.PaymentDetails) PaymentDetailsResponse {
	return PaymentDetailsResponse{
		PaymentResponse:  ToPaymentResponse(d.Payment),
		GatewaySignature: d.Payment.GatewaySignature,
		GatewayFee:       d.GatewayFee,
	}
}
