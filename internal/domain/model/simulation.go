package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/money"
)

// AmortizationEntry is a single row in a fixed-payment amortization schedule.
type AmortizationEntry struct {
	Period           int
	DueDate          time.Time
	Payment          decimal.Decimal
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	RemainingBalance decimal.Decimal
}

// InstallmentSimulation is the quote for borrowing Amount from an offer over
// Installments periods.
type InstallmentSimulation struct {
	OfferID        string
	Amount         money.Money
	Installments   int
	InterestRate   decimal.Decimal
	MonthlyPayment money.Money
	TotalPayment   money.Money
	TotalInterest  money.Money
	Schedule       []AmortizationEntry
}
