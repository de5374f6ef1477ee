package model

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
)

// ErrInvalidOfferTerms wraps every validation failure of partner-submitted terms.
var ErrInvalidOfferTerms = errors.New("invalid offer terms")

// Partner publication policy.
var (
	minPublishedAmount = decimal.NewFromInt(1000)
	minInterestRate    = decimal.RequireFromString("0.001")
	maxInterestRate    = decimal.RequireFromString("0.10")
)

const (
	minPublishedScore     = 300
	maxPublishedScore     = 850
	minInstitutionNameLen = 3
	minDescriptionLen     = 10
)

// OfferTerms are the partner-editable fields of an offer.
type OfferTerms struct {
	InstitutionName         string
	Amount                  decimal.Decimal
	MinAmount               decimal.Decimal
	MaxAmount               decimal.Decimal
	InterestRate            decimal.Decimal
	MinInstallments         int
	MaxInstallments         int
	MinScore                int
	Description             string
	RequirementsDescription string
}

// Validate applies the publication policy.
func (t OfferTerms) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidOfferTerms, fmt.Sprintf(format, args...))
	}

	switch {
	case utf8.RuneCountInString(t.InstitutionName) < minInstitutionNameLen:
		return invalid("institution name must have at least %d characters", minInstitutionNameLen)
	case t.MinAmount.LessThan(minPublishedAmount):
		return invalid("minimum amount must be at least %s", minPublishedAmount)
	case t.MaxAmount.LessThan(minPublishedAmount):
		return invalid("maximum amount must be at least %s", minPublishedAmount)
	case t.Amount.LessThan(minPublishedAmount):
		return invalid("amount must be at least %s", minPublishedAmount)
	case t.MinAmount.GreaterThan(t.MaxAmount):
		return invalid("minimum amount %s exceeds maximum amount %s", t.MinAmount, t.MaxAmount)
	case t.Amount.LessThan(t.MinAmount) || t.Amount.GreaterThan(t.MaxAmount):
		return invalid("amount %s outside [%s, %s]", t.Amount, t.MinAmount, t.MaxAmount)
	case t.InterestRate.LessThan(minInterestRate) || t.InterestRate.GreaterThan(maxInterestRate):
		return invalid("interest rate %s outside [%s, %s]", t.InterestRate, minInterestRate, maxInterestRate)
	case t.MinInstallments < 1:
		return invalid("minimum installments must be at least 1")
	case t.MinInstallments > t.MaxInstallments:
		return invalid("minimum installments %d exceed maximum installments %d", t.MinInstallments, t.MaxInstallments)
	case t.MinScore < minPublishedScore || t.MinScore > maxPublishedScore:
		return invalid("minimum score %d outside [%d, %d]", t.MinScore, minPublishedScore, maxPublishedScore)
	case utf8.RuneCountInString(t.Description) < minDescriptionLen:
		return invalid("description must have at least %d characters", minDescriptionLen)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CreditOffer aggregate root
// ---------------------------------------------------------------------------

// CreditOffer is an immutable aggregate. Every mutation returns a new copy.
//
// compatibility is a view field: it is set only by the compatibility engine
// against a specific profile and is never persisted.
type CreditOffer struct {
	id            string
	institutionID string
	terms         OfferTerms
	compatibility *float64
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  events.EventCollector
}

// NewCreditOffer validates partner-submitted terms and creates an offer.
func NewCreditOffer(institutionID string, terms OfferTerms, now time.Time) (CreditOffer, error) {
	if institutionID == "" {
		return CreditOffer{}, errors.New("institution ID is required")
	}
	if err := terms.Validate(); err != nil {
		return CreditOffer{}, err
	}

	o := CreditOffer{
		id:            uuid.New().String(),
		institutionID: institutionID,
		terms:         terms,
		createdAt:     now,
		updatedAt:     now,
	}
	o.domainEvents.Record(event.NewOfferPublished(
		o.id, institutionID, terms.InstitutionName, terms.MaxAmount, terms.InterestRate, terms.MinScore,
	))
	return o, nil
}

// ReconstructCreditOffer rebuilds an offer from storage or an upstream feed
// without validation or side effects.
func ReconstructCreditOffer(id, institutionID string, terms OfferTerms, createdAt, updatedAt time.Time) CreditOffer {
	return CreditOffer{
		id:            id,
		institutionID: institutionID,
		terms:         terms,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Update replaces the terms after validating them and records OfferUpdated.
func (o CreditOffer) Update(terms OfferTerms, now time.Time) (CreditOffer, error) {
	if err := terms.Validate(); err != nil {
		return o, err
	}
	next := o
	next.terms = terms
	next.compatibility = nil
	next.updatedAt = now
	next.domainEvents = o.domainEvents.Clone()
	next.domainEvents.Record(event.NewOfferUpdated(o.id, o.institutionID))
	return next, nil
}

// Withdraw records OfferWithdrawn. Removal from the catalog is up to the caller.
func (o CreditOffer) Withdraw(now time.Time) CreditOffer {
	next := o
	next.updatedAt = now
	next.domainEvents = o.domainEvents.Clone()
	next.domainEvents.Record(event.NewOfferWithdrawn(o.id, o.institutionID))
	return next
}

// WithCompatibility returns a copy carrying the given compatibility score.
func (o CreditOffer) WithCompatibility(c float64) CreditOffer {
	next := o
	next.compatibility = &c
	return next
}

// WithoutCompatibility returns a copy with no compatibility score.
func (o CreditOffer) WithoutCompatibility() CreditOffer {
	next := o
	next.compatibility = nil
	return next
}

// OwnedBy reports whether institutionID published the offer.
func (o CreditOffer) OwnedBy(institutionID string) bool {
	return o.institutionID == institutionID
}

// AcceptsAmount reports whether amount lies within [MinAmount, MaxAmount].
func (o CreditOffer) AcceptsAmount(amount decimal.Decimal) bool {
	return !amount.LessThan(o.terms.MinAmount) && !amount.GreaterThan(o.terms.MaxAmount)
}

// AcceptsInstallments reports whether n lies within [MinInstallments, MaxInstallments].
func (o CreditOffer) AcceptsInstallments(n int) bool {
	return n >= o.terms.MinInstallments && n <= o.terms.MaxInstallments
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (o CreditOffer) ID() string                        { return o.id }
func (o CreditOffer) InstitutionID() string             { return o.institutionID }
func (o CreditOffer) InstitutionName() string           { return o.terms.InstitutionName }
func (o CreditOffer) Amount() decimal.Decimal           { return o.terms.Amount }
func (o CreditOffer) MinAmount() decimal.Decimal        { return o.terms.MinAmount }
func (o CreditOffer) MaxAmount() decimal.Decimal        { return o.terms.MaxAmount }
func (o CreditOffer) InterestRate() decimal.Decimal     { return o.terms.InterestRate }
func (o CreditOffer) MinInstallments() int              { return o.terms.MinInstallments }
func (o CreditOffer) MaxInstallments() int              { return o.terms.MaxInstallments }
func (o CreditOffer) MinScore() int                     { return o.terms.MinScore }
func (o CreditOffer) Description() string               { return o.terms.Description }
func (o CreditOffer) RequirementsDescription() string   { return o.terms.RequirementsDescription }
func (o CreditOffer) Terms() OfferTerms                 { return o.terms }
func (o CreditOffer) CreatedAt() time.Time              { return o.createdAt }
func (o CreditOffer) UpdatedAt() time.Time              { return o.updatedAt }
func (o CreditOffer) DomainEvents() []event.DomainEvent { return o.domainEvents.Events() }

// Compatibility returns the score set by the engine, if any.
func (o CreditOffer) Compatibility() (float64, bool) {
	if o.compatibility == nil {
		return 0, false
	}
	return *o.compatibility, true
}
