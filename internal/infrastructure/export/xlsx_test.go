package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

func TestXLSXWriter_WritePayments(t *testing.T) {
	paymentID := "pay_1"
	payments := []*entity.Payment{
		{
			ID:                  7,
			ProjectID:           3,
			ProjectTitle:        "Student portal",
			Amount:              decimal.NewFromInt(5000),
			CommissionAmount:    decimal.NewFromInt(500),
			NetAmount:           decimal.NewFromInt(4500),
			PaymentType:         valueobject.PaymentTypeMilestone,
			MilestonePercentage: 50,
			GatewayOrderID:      "order_1",
			GatewayPaymentID:    &paymentID,
			Status:              valueobject.PaymentStatusCompleted,
			CreatedAt:           time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().WritePayments(&buf, payments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(paymentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Gateway fee", rows[0][10])
	assert.Equal(t, "Student portal", rows[1][2])
	assert.Equal(t, "5000.00", rows[1][7])
	assert.Equal(t, "118.00", rows[1][10])
	assert.Equal(t, "pay_1", rows[1][13])
}

func TestXLSXWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().WritePayments(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(paymentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
