package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
)

type PaymentHandler struct {
	quoteUC    *payment.QuoteUseCase
	createUC   *payment.CreateOrderUseCase
	confirmUC  *payment.ConfirmPaymentUseCase
	historyUC  *payment.PaymentHistoryUseCase
	earningsUC *payment.EarningsUseCase
}

func NewPaymentHandler(
	quoteUC *payment.QuoteUseCase,
	createUC *payment.CreateOrderUseCase,
	confirmUC *payment.ConfirmPaymentUseCase,
	historyUC *payment.PaymentHistoryUseCase,
	earningsUC *payment.EarningsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		quoteUC:    quoteUC,
		createUC:   createUC,
		confirmUC:  confirmUC,
		historyUC:  historyUC,
		earningsUC: earningsUC,
	}
}

// GetQuote обрабатывает GET /api/projects/:id/payments/quote?payment_type=&milestone_percentage=
func (h *PaymentHandler) GetQuote(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	paymentType, err := valueobject.NewPaymentType(c.Query("payment_type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.quoteUC.Execute(c.Request.Context(), projectID, actor, paymentType, parseIntQuery(c, "milestone_percentage", 0))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToQuoteResponse(quote))
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID проекта")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	handle, err := h.createUC.Execute(c.Request.Context(), payment.CreateOrderInput{
		ProjectID:           projectID,
		RequesterID:         actor.UserID,
		PaymentType:         valueobject.PaymentType(req.PaymentType),
		MilestonePercentage: req.MilestonePercentage,
		PaymentMethod:       req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToOrderResponse(handle))
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	confirmed, err := h.confirmUC.Execute(c.Request.Context(), payment.ConfirmPaymentInput{
		GatewayOrderID:   req.OrderID,
		GatewayPaymentID: req.PaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPaymentResponse(confirmed))
}

func (h *PaymentHandler) History(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	groups, err := h.historyUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectPaymentsResponses(groups))
}

func (h *PaymentHandler) Earnings(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	earnings, err := h.earningsUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEarningsResponse(earnings))
}
