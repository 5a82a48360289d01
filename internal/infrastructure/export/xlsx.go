package export

import (
	"fmt"
	"io"
	"reflect"

	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
)

const paymentsSheet = "Payments"

// paymentSheetRow — строка выгрузки. Заголовок колонки берётся из тега excel.
type paymentSheetRow struct {
	ID                  int64  `excel:"ID"`
	ProjectID           int64  `excel:"Project ID"`
	ProjectTitle        string `excel:"Project"`
	StudentID           int64  `excel:"Student ID"`
	DeveloperID         int64  `excel:"Developer ID"`
	PaymentType         string `excel:"Type"`
	MilestonePercentage int    `excel:"Milestone %"`
	Amount              string `excel:"Gross"`
	CommissionAmount    string `excel:"Commission"`
	NetAmount           string `excel:"Net"`
	GatewayFee          string `excel:"Gateway fee"`
	Status              string `excel:"Status"`
	GatewayOrderID      string `excel:"Order ID"`
	GatewayPaymentID    string `excel:"Payment ID"`
	CreatedAt           string `excel:"Created at"`
}

// XLSXWriter пишет платежи в книгу Excel.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (XLSXWriter) WritePayments(w io.Writer, payments []*entity.Payment) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([]paymentSheetRow, 0, len(payments))
	for _, p := range payments {
		row := paymentSheetRow{
			ID:                  p.ID,
			ProjectID:           p.ProjectID,
			ProjectTitle:        p.ProjectTitle,
			StudentID:           p.StudentID,
			DeveloperID:         p.DeveloperID,
			PaymentType:         string(p.PaymentType),
			MilestonePercentage: p.MilestonePercentage,
			Amount:              p.Amount.StringFixed(2),
			CommissionAmount:    p.CommissionAmount.StringFixed(2),
			NetAmount:           p.NetAmount.StringFixed(2),
			GatewayFee:          entity.GatewayFee(p.Amount).StringFixed(2),
			Status:              string(p.Status),
			GatewayOrderID:      p.GatewayOrderID,
			CreatedAt:           p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if p.GatewayPaymentID != nil {
			row.GatewayPaymentID = *p.GatewayPaymentID
		}
		rows = append(rows, row)
	}

	if err := writeSheet(f, paymentsSheet, rows); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if idx, err := f.GetSheetIndex(paymentsSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: не удалось записать файл: %w", err)
	}
	return nil
}

// writeSheet пишет заголовок и строки среза структур на лист sheet.
func writeSheet[T any](f *excelize.File, sheet string, rows []T) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	for i := 0; i < t.NumField(); i++ {
		header := t.Field(i).Tag.Get("excel")
		if header == "" {
			header = t.Field(i).Name
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for r, row := range rows {
		v := reflect.ValueOf(row)
		for i := 0; i < v.NumField(); i++ {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v.Field(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}
