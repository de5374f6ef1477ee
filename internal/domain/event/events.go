package event

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event type names as they appear on the wire.
const (
	TypeUserRegistered    = "marketplace.user.registered"
	TypeConsentAuthorized = "marketplace.consent.authorized"
	TypeConsentRevoked    = "marketplace.consent.revoked"
	TypeConsentExpired    = "marketplace.consent.expired"
	TypeProfileAnalyzed   = "marketplace.profile.analyzed"
	TypeOfferPublished    = "marketplace.offer.published"
	TypeOfferUpdated      = "marketplace.offer.updated"
	TypeOfferWithdrawn    = "marketplace.offer.withdrawn"
)

// ---------------------------------------------------------------------------
// User events
// ---------------------------------------------------------------------------

// UserRegistered is raised when a new account is created.
type UserRegistered struct {
	events.BaseEvent
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewUserRegistered(userID, email, role string) UserRegistered {
	return UserRegistered{
		BaseEvent: events.NewBaseEvent(TypeUserRegistered, userID, "User"),
		Email:     email,
		Role:      role,
	}
}

// ---------------------------------------------------------------------------
// Consent events
// ---------------------------------------------------------------------------

// ConsentAuthorized is raised when a user grants data sharing.
type ConsentAuthorized struct {
	events.BaseEvent
	UserID string   `json:"user_id"`
	Scope  []string `json:"scope"`
}

func NewConsentAuthorized(consentID, userID string, scope []string) ConsentAuthorized {
	return ConsentAuthorized{
		BaseEvent: events.NewBaseEvent(TypeConsentAuthorized, consentID, "OpenFinanceConsent"),
		UserID:    userID,
		Scope:     scope,
	}
}

// ConsentRevoked is raised when a user withdraws data sharing.
type ConsentRevoked struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}

func NewConsentRevoked(consentID, userID string) ConsentRevoked {
	return ConsentRevoked{
		BaseEvent: events.NewBaseEvent(TypeConsentRevoked, consentID, "OpenFinanceConsent"),
		UserID:    userID,
	}
}

// ConsentExpired is raised when the validity window of a consent elapses.
type ConsentExpired struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}

func NewConsentExpired(consentID, userID string) ConsentExpired {
	return ConsentExpired{
		BaseEvent: events.NewBaseEvent(TypeConsentExpired, consentID, "OpenFinanceConsent"),
		UserID:    userID,
	}
}

// ---------------------------------------------------------------------------
// Profile events
// ---------------------------------------------------------------------------

// ProfileAnalyzed is raised when a new credit profile replaces the previous one.
type ProfileAnalyzed struct {
	events.BaseEvent
	UserID           string          `json:"user_id"`
	Score            int             `json:"score"`
	RiskLevel        string          `json:"risk_level"`
	RecommendedLimit decimal.Decimal `json:"recommended_limit"`
}

func NewProfileAnalyzed(userID string, score int, riskLevel string, recommendedLimit decimal.Decimal) ProfileAnalyzed {
	return ProfileAnalyzed{
		BaseEvent:        events.NewBaseEvent(TypeProfileAnalyzed, userID, "CreditProfile"),
		UserID:           userID,
		Score:            score,
		RiskLevel:        riskLevel,
		RecommendedLimit: recommendedLimit,
	}
}

// ---------------------------------------------------------------------------
// Offer events
// ---------------------------------------------------------------------------

// OfferPublished is raised when a partner publishes a new offer.
type OfferPublished struct {
	events.BaseEvent
	InstitutionID   string          `json:"institution_id"`
	InstitutionName string          `json:"institution_name"`
	MaxAmount       decimal.Decimal `json:"max_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	MinScore        int             `json:"min_score"`
}

func NewOfferPublished(offerID, institutionID, institutionName string, maxAmount, interestRate decimal.Decimal, minScore int) OfferPublished {
	return OfferPublished{
		BaseEvent:       events.NewBaseEvent(TypeOfferPublished, offerID, "CreditOffer"),
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
		MaxAmount:       maxAmount,
		InterestRate:    interestRate,
		MinScore:        minScore,
	}
}

// OfferUpdated is raised when a partner edits the terms of an offer.
type OfferUpdated struct {
	events.BaseEvent
	InstitutionID string `json:"institution_id"`
}

func NewOfferUpdated(offerID, institutionID string) OfferUpdated {
	return OfferUpdated{
		BaseEvent:     events.NewBaseEvent(TypeOfferUpdated, offerID, "CreditOffer"),
		InstitutionID: institutionID,
	}
}

// OfferWithdrawn is raised when a partner removes an offer from the catalog.
type OfferWithdrawn struct {
	events.BaseEvent
	InstitutionID string `json:"institution_id"`
}

func NewOfferWithdrawn(offerID, institutionID string) OfferWithdrawn {
	return OfferWithdrawn{
		BaseEvent:     events.NewBaseEvent(TypeOfferWithdrawn, offerID, "CreditOffer"),
		InstitutionID: institutionID,
	}
}

// ErrUnknownEventType is returned by Decode for event types this service does
// not know about.
var ErrUnknownEventType = errors.New("unknown event type")
