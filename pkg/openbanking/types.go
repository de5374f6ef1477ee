// Package openbanking provides data types and a client contract for Open
// Finance Brasil data sharing (accounts and transaction history read under
// a customer consent).
package openbanking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consent permission scopes requested from the participant institution.
const (
	ScopeAccountsRead           = "ACCOUNTS_READ"
	ScopeCreditCardAccountsRead = "CREDIT_CARD_ACCOUNTS_READ"
	ScopeCreditOperationsRead   = "CREDIT_OPERATIONS_READ"
	ScopeInvestmentsRead        = "INVESTMENTS_READ"
	ScopeLoansRead              = "LOANS_READ"
)

// DefaultScopes is the permission set requested for a credit analysis.
func DefaultScopes() []string {
	return []string{
		ScopeAccountsRead,
		ScopeCreditCardAccountsRead,
		ScopeCreditOperationsRead,
		ScopeInvestmentsRead,
		ScopeLoansRead,
	}
}

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single booked entry on a shared account. Amount is always
// positive; Type carries the direction.
type Transaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
}

// CashFlow summarises a transaction history.
type CashFlow struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns income minus expense.
func (c CashFlow) Net() decimal.Decimal {
	return c.Income.Sub(c.Expense)
}

// Summarize totals income and expense over txs.
func Summarize(txs []Transaction) CashFlow {
	cf := CashFlow{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case TransactionIncome:
			cf.Income = cf.Income.Add(tx.Amount)
		case TransactionExpense:
			cf.Expense = cf.Expense.Add(tx.Amount)
		}
	}
	return cf
}
