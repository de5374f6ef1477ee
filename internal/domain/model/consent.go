package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

// DefaultConsentValidity is how long a new consent may be authorized and used.
const DefaultConsentValidity = 184 * 24 * time.Hour

// ErrConsentExpired is returned when authorizing a consent past its validity.
var ErrConsentExpired = errors.New("consent validity has elapsed")

// ---------------------------------------------------------------------------
// OpenFinanceConsent aggregate root
// ---------------------------------------------------------------------------

// OpenFinanceConsent records a user's permission to share Open Finance data
// for a bounded window. Transitions return a new copy:
//
//	pending -> authorized -> revoked
//	pending | authorized -> expired (once validUntil has passed)
type OpenFinanceConsent struct {
	id           string
	userID       string
	scope        []string
	status       valueobject.ConsentStatus
	createdAt    time.Time
	validUntil   time.Time
	authorizedAt *time.Time
	updatedAt    time.Time
	domainEvents events.EventCollector
}

// NewOpenFinanceConsent creates a pending consent with the default scope and validity.
func NewOpenFinanceConsent(userID string, now time.Time) (OpenFinanceConsent, error) {
	if userID == "" {
		return OpenFinanceConsent{}, errors.New("user ID is required")
	}
	return OpenFinanceConsent{
		id:         uuid.New().String(),
		userID:     userID,
		scope:      openbanking.DefaultScopes(),
		status:     valueobject.ConsentStatusPending,
		createdAt:  now,
		validUntil: now.Add(DefaultConsentValidity),
		updatedAt:  now,
	}, nil
}

// ReconstructOpenFinanceConsent rebuilds a consent from persistence.
func ReconstructOpenFinanceConsent(
	id, userID string,
	scope []string,
	status valueobject.ConsentStatus,
	createdAt, validUntil time.Time,
	authorizedAt *time.Time,
	updatedAt time.Time,
) OpenFinanceConsent {
	return OpenFinanceConsent{
		id:           id,
		userID:       userID,
		scope:        append([]string(nil), scope...),
		status:       status,
		createdAt:    createdAt,
		validUntil:   validUntil,
		authorizedAt: authorizedAt,
		updatedAt:    updatedAt,
	}
}

// Authorize transitions pending -> authorized and emits ConsentAuthorized.
func (c OpenFinanceConsent) Authorize(now time.Time) (OpenFinanceConsent, error) {
	if !c.status.Equal(valueobject.ConsentStatusPending) {
		return c, fmt.Errorf("authorize %s consent: %w", c.status, valueobject.ErrInvalidStatusTransition)
	}
	if c.pastValidity(now) {
		return c, ErrConsentExpired
	}
	next := c.successor(valueobject.ConsentStatusAuthorized, now)
	at := now
	next.authorizedAt = &at
	next.domainEvents.Record(event.NewConsentAuthorized(c.id, c.userID, c.Scope()))
	return next, nil
}

// Revoke transitions authorized -> revoked and emits ConsentRevoked.
func (c OpenFinanceConsent) Revoke(now time.Time) (OpenFinanceConsent, error) {
	if !c.status.Equal(valueobject.ConsentStatusAuthorized) {
		return c, fmt.Errorf("revoke %s consent: %w", c.status, valueobject.ErrInvalidStatusTransition)
	}
	next := c.successor(valueobject.ConsentStatusRevoked, now)
	next.domainEvents.Record(event.NewConsentRevoked(c.id, c.userID))
	return next, nil
}

// Expire transitions pending|authorized -> expired once validUntil has passed
// and emits ConsentExpired.
func (c OpenFinanceConsent) Expire(now time.Time) (OpenFinanceConsent, error) {
	if c.status.IsTerminal() {
		return c, fmt.Errorf("expire %s consent: %w", c.status, valueobject.ErrInvalidStatusTransition)
	}
	if !c.pastValidity(now) {
		return c, fmt.Errorf("expire consent valid until %s: %w",
			c.validUntil.Format(time.RFC3339), valueobject.ErrInvalidStatusTransition)
	}
	next := c.successor(valueobject.ConsentStatusExpired, now)
	next.domainEvents.Record(event.NewConsentExpired(c.id, c.userID))
	return next, nil
}

// Renew replaces a revoked or expired consent with a fresh pending one for
// the same user.
func (c OpenFinanceConsent) Renew(now time.Time) (OpenFinanceConsent, error) {
	if !c.status.IsTerminal() {
		return c, fmt.Errorf("renew %s consent: %w", c.status, valueobject.ErrInvalidStatusTransition)
	}
	return NewOpenFinanceConsent(c.userID, now)
}

// IsActive reports whether data may be read under this consent at now.
func (c OpenFinanceConsent) IsActive(now time.Time) bool {
	return c.status.Equal(valueobject.ConsentStatusAuthorized) && !c.pastValidity(now)
}

func (c OpenFinanceConsent) pastValidity(now time.Time) bool {
	return !now.Before(c.validUntil)
}

func (c OpenFinanceConsent) successor(status valueobject.ConsentStatus, now time.Time) OpenFinanceConsent {
	next := c
	next.status = status
	next.updatedAt = now
	next.domainEvents = c.domainEvents.Clone()
	return next
}

func (c OpenFinanceConsent) ID() string                        { return c.id }
func (c OpenFinanceConsent) UserID() string                    { return c.userID }
func (c OpenFinanceConsent) Scope() []string                   { return append([]string(nil), c.scope...) }
func (c OpenFinanceConsent) Status() valueobject.ConsentStatus { return c.status }
func (c OpenFinanceConsent) CreatedAt() time.Time              { return c.createdAt }
func (c OpenFinanceConsent) ValidUntil() time.Time             { return c.validUntil }
func (c OpenFinanceConsent) AuthorizedAt() *time.Time          { return c.authorizedAt }
func (c OpenFinanceConsent) UpdatedAt() time.Time              { return c.updatedAt }
func (c OpenFinanceConsent) DomainEvents() []event.DomainEvent { return c.domainEvents.Events() }
