package payment

import (
	"context"
	"io"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

// maxExportRows ограничивает размер выгрузки.
const maxExportRows = 10000

// PaymentSheetWriter сериализует платежи в табличный файл.
type PaymentSheetWriter interface {
	WritePayments(w io.Writer, payments []*entity.Payment) error
}

type ExportPaymentsUseCase struct {
	paymentRepo repository.PaymentRepository
	writer      PaymentSheetWriter
}

func NewExportPaymentsUseCase(paymentRepo repository.PaymentRepository, writer PaymentSheetWriter) *ExportPaymentsUseCase {
	return &ExportPaymentsUseCase{paymentRepo: paymentRepo, writer: writer}
}

func (uc *ExportPaymentsUseCase) Execute(ctx context.Context, actor entity.Actor, filter repository.PaymentFilter, w io.Writer) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}

	filter.Limit = repository.MaxPageSize
	filter.Page = 1
	var all []*entity.Payment
	for len(all) < maxExportRows {
		items, total, err := uc.paymentRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			break
		}
		filter.Page++
	}
	return uc.writer.WritePayments(w, all)
}
