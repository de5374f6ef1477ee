package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

// Simulated scores fall in [minSimulatedScore, minSimulatedScore+simulatedScoreSpan).
const (
	minSimulatedScore  = 500
	simulatedScoreSpan = 350
	limitPerScorePoint = 20
)

// SimulatedProfileAnalyzer derives a credit profile from the user's Open
// Finance statement. The score is a deterministic hash of the user ID so the
// same user always lands in the same risk band; payment capacity is the net
// cash flow of the statement. It implements port.ProfileAnalysisService.
type SimulatedProfileAnalyzer struct {
	source port.TransactionSource
	now    func() time.Time
}

// NewSimulatedProfileAnalyzer creates an analyzer reading from source.
func NewSimulatedProfileAnalyzer(source port.TransactionSource) *SimulatedProfileAnalyzer {
	return &SimulatedProfileAnalyzer{source: source, now: time.Now}
}

// Analyze builds a fresh profile for userID.
func (a *SimulatedProfileAnalyzer) Analyze(ctx context.Context, userID string) (model.CreditProfile, error) {
	if userID == "" {
		return model.CreditProfile{}, fmt.Errorf("user ID is required")
	}

	txs, err := a.source.ListTransactions(ctx, userID)
	if err != nil {
		return model.CreditProfile{}, fmt.Errorf("read statement: %w", err)
	}

	score := simulatedScore(userID)
	capacity := decimal.Max(decimal.Zero, openbanking.Summarize(txs).Net())
	limit := decimal.NewFromInt(int64(score * limitPerScorePoint))

	profile, err := model.NewCreditProfile(userID, score, capacity, limit, a.now().UTC())
	if err != nil {
		return model.CreditProfile{}, fmt.Errorf("build profile: %w", err)
	}
	return profile, nil
}

func simulatedScore(userID string) int {
	h := sha256.Sum256([]byte(userID))
	return minSimulatedScore + int(binary.BigEndian.Uint32(h[:4])%simulatedScoreSpan)
}
