package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

// CreditProfile is a snapshot of a user's creditworthiness. It is immutable;
// a new analysis replaces it wholesale.
type CreditProfile struct {
	userID           string
	score            int
	paymentCapacity  decimal.Decimal
	recommendedLimit decimal.Decimal
	lastUpdated      time.Time
}

// NewCreditProfile validates and builds a profile. lastUpdated is truncated
// to the calendar day.
func NewCreditProfile(
	userID string,
	score int,
	paymentCapacity, recommendedLimit decimal.Decimal,
	lastUpdated time.Time,
) (CreditProfile, error) {
	if userID == "" {
		return CreditProfile{}, errors.New("user ID is required")
	}
	if score < valueobject.MinCreditScore || score > valueobject.MaxCreditScore {
		return CreditProfile{}, fmt.Errorf("score %d outside [%d, %d]",
			score, valueobject.MinCreditScore, valueobject.MaxCreditScore)
	}
	if paymentCapacity.IsNegative() {
		return CreditProfile{}, errors.New("payment capacity must not be negative")
	}
	if recommendedLimit.IsNegative() {
		return CreditProfile{}, errors.New("recommended limit must not be negative")
	}

	return CreditProfile{
		userID:           userID,
		score:            score,
		paymentCapacity:  paymentCapacity,
		recommendedLimit: recommendedLimit,
		lastUpdated:      dateOf(lastUpdated),
	}, nil
}

func (p CreditProfile) UserID() string                    { return p.userID }
func (p CreditProfile) Score() int                        { return p.score }
func (p CreditProfile) PaymentCapacity() decimal.Decimal  { return p.paymentCapacity }
func (p CreditProfile) RecommendedLimit() decimal.Decimal { return p.recommendedLimit }
func (p CreditProfile) LastUpdated() time.Time            { return p.lastUpdated }

// RiskLevel is derived from the score on every call.
func (p CreditProfile) RiskLevel() valueobject.RiskLevel {
	return valueobject.RiskLevelFromScore(p.score)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
