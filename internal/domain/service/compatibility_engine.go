package service

import (
	"math"
	"sort"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
)

// Compatibility weights: how much of the score comes from meeting the
// offer's minimum score versus the profile's limit covering the offer.
const (
	scoreWeight  = 0.7
	amountWeight = 0.3
)

// CompatibilityEngine matches credit profiles against offers. It is stateless
// and safe for concurrent use. Inputs are never modified; every operation
// returns new values.
type CompatibilityEngine struct{}

// NewCompatibilityEngine creates a new CompatibilityEngine.
func NewCompatibilityEngine() *CompatibilityEngine {
	return &CompatibilityEngine{}
}

// ComputeCompatibility scores how well profile fits offer, in [0, 1]:
//
//	0.7 * min(1, score/minScore) + 0.3 * min(1, recommendedLimit/maxAmount)
//
// Offers with a non-positive minScore or maxAmount yield *InvalidOfferError.
func (e *CompatibilityEngine) ComputeCompatibility(profile model.CreditProfile, offer model.CreditOffer) (float64, error) {
	if offer.MinScore() <= 0 {
		return 0, &InvalidOfferError{OfferID: offer.ID(), Reason: "minimum score must be positive"}
	}
	if !offer.MaxAmount().IsPositive() {
		return 0, &InvalidOfferError{OfferID: offer.ID(), Reason: "maximum amount must be positive"}
	}

	scoreFactor := math.Min(1, float64(profile.Score())/float64(offer.MinScore()))
	amountFactor := math.Min(1, profile.RecommendedLimit().Div(offer.MaxAmount()).InexactFloat64())

	return clamp01(scoreWeight*scoreFactor + amountWeight*amountFactor), nil
}

// RankEligibleOffers returns copies of the offers the profile qualifies for
// (minScore <= score), each carrying a freshly computed compatibility, sorted
// by compatibility descending. Equal scores keep catalog order. Any invalid
// offer fails the whole call.
func (e *CompatibilityEngine) RankEligibleOffers(profile model.CreditProfile, offers []model.CreditOffer) ([]model.CreditOffer, error) {
	scored := make([]model.CreditOffer, 0, len(offers))
	for _, offer := range offers {
		c, err := e.ComputeCompatibility(profile, offer)
		if err != nil {
			return nil, err
		}
		scored = append(scored, offer.WithCompatibility(c))
	}

	eligible := scored[:0]
	for _, offer := range scored {
		if offer.MinScore() <= profile.Score() {
			eligible = append(eligible, offer)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ci, _ := eligible[i].Compatibility()
		cj, _ := eligible[j].Compatibility()
		return ci > cj
	})
	return eligible, nil
}

// FilterByRange keeps the offers whose ranges overlap every bound set in
// filters. Order is preserved and no bound set means every offer survives.
//
//	MinAmount       offer.MaxAmount       >= bound
//	MaxAmount       offer.MinAmount       <= bound
//	MaxInterestRate offer.InterestRate    <= bound
//	MinInstallments offer.MaxInstallments >= bound
//	MaxInstallments offer.MinInstallments <= bound
//	MinScore        offer.MinScore        <= bound
//
// The MinScore bound is the caller's profile score; see OfferFilters.ForProfile.
func (e *CompatibilityEngine) FilterByRange(offers []model.CreditOffer, filters model.OfferFilters) []model.CreditOffer {
	out := make([]model.CreditOffer, 0, len(offers))
	for _, offer := range offers {
		if matchesFilters(offer, filters) {
			out = append(out, offer)
		}
	}
	return out
}

func matchesFilters(o model.CreditOffer, f model.OfferFilters) bool {
	if f.MinAmount != nil && o.MaxAmount().LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && o.MinAmount().GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.MaxInterestRate != nil && o.InterestRate().GreaterThan(*f.MaxInterestRate) {
		return false
	}
	if f.MinInstallments != nil && o.MaxInstallments() < *f.MinInstallments {
		return false
	}
	if f.MaxInstallments != nil && o.MinInstallments() > *f.MaxInstallments {
		return false
	}
	if f.MinScore != nil && o.MinScore() > *f.MinScore {
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
