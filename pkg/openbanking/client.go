package openbanking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Client reads shared data from an Open Finance participant. Implementations
// may be real HTTP clients or the in-process sandbox.
type Client interface {
	// ListTransactions returns the customer's transactions, newest first.
	ListTransactions(ctx context.Context, customerID string) ([]Transaction, error)
}

// SandboxClient serves a fixed statement for every customer, dated relative to
// the current day. Statements can be overridden per customer for tests.
type SandboxClient struct {
	mu        sync.RWMutex
	overrides map[string][]Transaction
	now       func() time.Time
}

// NewSandboxClient creates a sandbox client.
func NewSandboxClient() *SandboxClient {
	return &SandboxClient{overrides: make(map[string][]Transaction), now: time.Now}
}

// SetStatement replaces the statement returned for customerID.
func (c *SandboxClient) SetStatement(customerID string, txs []Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]Transaction, len(txs))
	copy(cp, txs)
	c.overrides[customerID] = cp
}

// ListTransactions implements Client.
func (c *SandboxClient) ListTransactions(ctx context.Context, customerID string) ([]Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	c.mu.RLock()
	override, ok := c.overrides[customerID]
	c.mu.RUnlock()

	var txs []Transaction
	if ok {
		txs = make([]Transaction, len(override))
		copy(txs, override)
	} else {
		txs = defaultStatement(c.now())
	}

	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	return txs, nil
}

func defaultStatement(now time.Time) []Transaction {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	entry := func(id string, daysAgo int, desc, amount string, typ TransactionType, category string) Transaction {
		return Transaction{
			ID:          id,
			Date:        day.AddDate(0, 0, -daysAgo),
			Description: desc,
			Amount:      decimal.RequireFromString(amount),
			Type:        typ,
			Category:    category,
		}
	}
	return []Transaction{
		entry("1", 0, "Salário", "5000", TransactionIncome, "Receita"),
		entry("2", 2, "Supermercado", "350.75", TransactionExpense, "Alimentação"),
		entry("3", 4, "Aluguel", "1200", TransactionExpense, "Moradia"),
		entry("4", 7, "Freelance", "750", TransactionIncome, "Receita"),
		entry("5", 12, "Conta de Luz", "120", TransactionExpense, "Utilidades"),
	}
}
