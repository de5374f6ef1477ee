package openbanking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxClient_DefaultStatement(t *testing.T) {
	c := NewSandboxClient()
	c.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	txs, err := c.ListTransactions(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, txs, 5)

	assert.Equal(t, "Salário", txs[0].Description)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), txs[0].Date)
	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i].Date.After(txs[i-1].Date), "statement must be newest first")
	}

	cf := Summarize(txs)
	assert.True(t, cf.Income.Equal(decimal.NewFromInt(5750)), cf.Income.String())
	assert.True(t, cf.Expense.Equal(decimal.RequireFromString("1670.75")), cf.Expense.String())
	assert.True(t, cf.Net().Equal(decimal.RequireFromString("4079.25")), cf.Net().String())
}

func TestSandboxClient_Override(t *testing.T) {
	c := NewSandboxClient()
	c.SetStatement("user-2", []Transaction{{ID: "x", Amount: decimal.NewFromInt(10), Type: TransactionExpense}})

	txs, err := c.ListTransactions(context.Background(), "user-2")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, Summarize(txs).Net().Equal(decimal.NewFromInt(-10)))
}

func TestSandboxClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSandboxClient().ListTransactions(ctx, "user-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultScopes(t *testing.T) {
	assert.Equal(t, []string{
		"ACCOUNTS_READ", "CREDIT_CARD_ACCOUNTS_READ", "CREDIT_OPERATIONS_READ",
		"INVESTMENTS_READ", "LOANS_READ",
	}, DefaultScopes())
}
