package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
)

// AmortizedInstallment returns the level payment that repays principal over
// periods at periodicRate per period, at full decimal precision:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate is a straight split, P / n. principal must be positive, periods
// at least 1 and periodicRate non-negative; anything else yields
// *InvalidInputError.
func AmortizedInstallment(principal, periodicRate decimal.Decimal, periods int) (decimal.Decimal, error) {
	if err := validateAmortizationInput(principal, periodicRate, periods); err != nil {
		return decimal.Zero, err
	}
	return levelPayment(principal, periodicRate, periods), nil
}

func validateAmortizationInput(principal, periodicRate decimal.Decimal, periods int) error {
	if !principal.IsPositive() {
		return &InvalidInputError{Field: "principal", Reason: "must be positive, got " + principal.String()}
	}
	if periods <= 0 {
		return &InvalidInputError{Field: "periods", Reason: "must be a positive integer"}
	}
	if periodicRate.IsNegative() {
		return &InvalidInputError{Field: "periodicRate", Reason: "must not be negative, got " + periodicRate.String()}
	}
	return nil
}

func levelPayment(principal, r decimal.Decimal, periods int) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if r.IsZero() {
		return principal.Div(n)
	}
	factor := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
}

// GenerateAmortizationSchedule breaks a level-payment loan into periods. The
// first payment falls one month after start. Payment and interest are rounded
// to cents each period and the final payment absorbs rounding so the balance
// ends at zero.
func GenerateAmortizationSchedule(
	principal, periodicRate decimal.Decimal,
	periods int,
	start time.Time,
) ([]model.AmortizationEntry, error) {
	if err := validateAmortizationInput(principal, periodicRate, periods); err != nil {
		return nil, err
	}

	payment := levelPayment(principal, periodicRate, periods).Round(2)
	schedule := make([]model.AmortizationEntry, 0, periods)
	remaining := principal

	for period := 1; period <= periods; period++ {
		interest := remaining.Mul(periodicRate).Round(2)
		principalPart := payment.Sub(interest)

		if period == periods || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, model.AmortizationEntry{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})
	}

	return schedule, nil
}
