package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/dispute"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler — административные операции над платежами и спорами.
type AdminHandler struct {
	listPaymentsUC *payment.ListPaymentsUseCase
	getPaymentUC   *payment.GetPaymentDetailsUseCase
	refundUC       *payment.RefundPaymentUseCase
	exportUC       *payment.ExportPaymentsUseCase
	listDisputesUC *dispute.ListDisputesUseCase
	getDisputeUC   *dispute.GetDisputeUseCase
	resolveUC      *dispute.ResolveDisputeUseCase
}

func NewAdminHandler(
	listPaymentsUC *payment.ListPaymentsUseCase,
	getPaymentUC *payment.GetPaymentDetailsUseCase,
	refundUC *payment.RefundPaymentUseCase,
	exportUC *payment.ExportPaymentsUseCase,
	listDisputesUC *dispute.ListDisputesUseCase,
	getDisputeUC *dispute.GetDisputeUseCase,
	resolveUC *dispute.ResolveDisputeUseCase,
) *AdminHandler {
	return &AdminHandler{
		listPaymentsUC: listPaymentsUC,
		getPaymentUC:   getPaymentUC,
		refundUC:       refundUC,
		exportUC:       exportUC,
		listDisputesUC: listDisputesUC,
		getDisputeUC:   getDisputeUC,
		resolveUC:      resolveUC,
	}
}

func (h *AdminHandler) ListPayments(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	filter := paymentFilter(c).Normalize()
	payments, total, err := h.listPaymentsUC.Execute(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToPaymentResponses(payments), total, filter.Limit, filter.Offset())
}

// ExportPayments отдаёт выборку платежей файлом XLSX.
func (h *AdminHandler) ExportPayments(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var buf bytes.Buffer
	if err := h.exportUC.Execute(c.Request.Context(), actor, paymentFilter(c), &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) GetPayment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID платежа")
		return
	}

	details, err := h.getPaymentUC.Execute(c.Request.Context(), paymentID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPaymentDetailsResponse(details))
}

func (h *AdminHandler) RefundPayment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	paymentID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID платежа")
		return
	}

	refunded, err := h.refundUC.Execute(c.Request.Context(), paymentID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPaymentResponse(refunded))
}

func (h *AdminHandler) ListDisputes(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	filter := repository.DisputeFilter{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := valueobject.ParseExternalDisputeStatus(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("raised_by"); raw != "" {
		role, err := valueobject.NewRole(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.RaisedByRole = &role
	}
	filter = filter.Normalize()

	disputes, total, err := h.listDisputesUC.Execute(c.Request.Context(), actor, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToDisputeResponses(disputes), total, filter.Limit, filter.Offset())
}

func (h *AdminHandler) GetDispute(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	disputeID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID спора")
		return
	}

	d, err := h.getDisputeUC.Execute(c.Request.Context(), disputeID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDisputeResponse(d))
}

func (h *AdminHandler) ResolveDispute(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	disputeID, err := pathID(c, "id")
	if err != nil {
		response.BadRequest(c, "некорректный ID спора")
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	resolved, err := h.resolveUC.Execute(c.Request.Context(), disputeID, actor, req.Resolution, req.ResolutionNotes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToDisputeResponse(resolved))
}

func paymentFilter(c *gin.Context) repository.PaymentFilter {
	filter := repository.PaymentFilter{
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 0),
	}
	if raw := c.Query("status"); raw != "" {
		if status, err := valueobject.NewPaymentStatus(raw); err == nil {
			filter.Status = &status
		}
	}
	if raw := c.Query("payment_type"); raw != "" {
		if paymentType, err := valueobject.NewPaymentType(raw); err == nil {
			filter.Type = &paymentType
		}
	}
	if projectID := int64(parseIntQuery(c, "project_id", 0)); projectID > 0 {
		filter.ProjectID = &projectID
	}
	return filter
}
