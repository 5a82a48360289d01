package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/projexhub-backend/internal/pkg/apperror"
)

var hundred = decimal.NewFromInt(100)

// CommissionRate — доля платформы в процентах (10 означает 10%).
type CommissionRate struct {
	percent decimal.Decimal
}

func NewCommissionRate(percent decimal.Decimal) (CommissionRate, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return CommissionRate{}, apperror.New(apperror.ErrCodeValidation, "комиссия должна быть в диапазоне 0..100")
	}
	return CommissionRate{percent: percent}, nil
}

func (r CommissionRate) Percent() decimal.Decimal {
	return r.percent
}

// Split делит валовую сумму на комиссию и выплату разработчику.
// Комиссия округляется до копеек, выплата получается вычитанием,
// поэтому net + commission всегда равно gross.
func (r CommissionRate) Split(gross decimal.Decimal) (commission, net decimal.Decimal) {
	commission = gross.Mul(r.percent).Div(hundred).Round(2)
	net = gross.Sub(commission)
	return commission, net
}

// ToMinorUnits переводит сумму в минимальные единицы валюты (пайсы, копейки).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Percentage возвращает amount * pct / 100 с округлением до двух знаков.
func Percentage(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Round(2)
}

func NewPositiveAmount(amount decimal.Decimal, field string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, apperror.New(apperror.ErrCodeValidation, field+" должна быть больше нуля")
	}
	return amount.Round(2), nil
}
