package adapter

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

// OpenFinanceConfig tunes calls to the Open Finance participant.
type OpenFinanceConfig struct {
	// MaxRetries is the number of extra attempts after a failed read.
	MaxRetries int
	// RetryBackoff is the base delay, doubled on every attempt.
	RetryBackoff time.Duration
}

// DefaultOpenFinanceConfig returns the settings used by the service binary.
func DefaultOpenFinanceConfig() OpenFinanceConfig {
	return OpenFinanceConfig{MaxRetries: 2, RetryBackoff: 100 * time.Millisecond}
}

// OpenFinanceSource reads transaction history through an openbanking.Client.
// It implements port.TransactionSource.
type OpenFinanceSource struct {
	config OpenFinanceConfig
	client openbanking.Client
}

// NewOpenFinanceSource creates a source backed by client.
func NewOpenFinanceSource(config OpenFinanceConfig, client openbanking.Client) *OpenFinanceSource {
	return &OpenFinanceSource{config: config, client: client}
}

// ListTransactions returns the user's statement, newest first.
func (s *OpenFinanceSource) ListTransactions(ctx context.Context, userID string) ([]openbanking.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.config.RetryBackoff * (1 << uint(attempt-1))
			if backoff > 0 {
				backoff += time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		txs, err := s.client.ListTransactions(ctx, userID)
		if err == nil {
			return txs, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("exhausted %d retries: %w", s.config.MaxRetries, lastErr)
}
