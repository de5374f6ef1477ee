package valueobject

import (
	"errors"
	"fmt"
)

// ConsentStatus is the lifecycle stage of an Open Finance consent.
type ConsentStatus struct {
	value string
}

const (
	consentPending    = "pending"
	consentAuthorized = "authorized"
	consentExpired    = "expired"
	consentRevoked    = "revoked"
)

var (
	ConsentStatusPending    = ConsentStatus{value: consentPending}
	ConsentStatusAuthorized = ConsentStatus{value: consentAuthorized}
	ConsentStatusExpired    = ConsentStatus{value: consentExpired}
	ConsentStatusRevoked    = ConsentStatus{value: consentRevoked}
)

var validConsentStatuses = map[string]ConsentStatus{
	consentPending:    ConsentStatusPending,
	consentAuthorized: ConsentStatusAuthorized,
	consentExpired:    ConsentStatusExpired,
	consentRevoked:    ConsentStatusRevoked,
}

// NewConsentStatus creates a ConsentStatus from a raw string.
func NewConsentStatus(s string) (ConsentStatus, error) {
	v, ok := validConsentStatuses[s]
	if !ok {
		return ConsentStatus{}, fmt.Errorf("invalid consent status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ConsentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s ConsentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s ConsentStatus) Equal(other ConsentStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transition is possible.
func (s ConsentStatus) IsTerminal() bool {
	return s.value == consentExpired || s.value == consentRevoked
}

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
