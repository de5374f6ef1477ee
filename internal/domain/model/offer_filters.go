package model

import "github.com/shopspring/decimal"

// OfferFilters holds optional range bounds for the offer catalog. A nil field
// imposes no constraint; a zero value is a real bound.
type OfferFilters struct {
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
	MaxInterestRate *decimal.Decimal
	MinInstallments *int
	MaxInstallments *int
	MinScore        *int
}

// IsEmpty reports whether no bound is set.
func (f OfferFilters) IsEmpty() bool {
	return f.MinAmount == nil && f.MaxAmount == nil && f.MaxInterestRate == nil &&
		f.MinInstallments == nil && f.MaxInstallments == nil && f.MinScore == nil
}

// ForProfile resolves the MinScore bound against the caller's profile. A
// requested MinScore bound compares offers with the profile score, so it is
// replaced by that score, or dropped when no profile is available. Other
// bounds are left untouched.
func (f OfferFilters) ForProfile(profile *CreditProfile) OfferFilters {
	if f.MinScore == nil {
		return f
	}
	out := f
	if profile == nil {
		out.MinScore = nil
		return out
	}
	score := profile.Score()
	out.MinScore = &score
	return out
}
