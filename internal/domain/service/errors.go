package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOffer matches every *InvalidOfferError.
	ErrInvalidOffer = errors.New("invalid offer")
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
)

// InvalidOfferError reports an offer whose terms make compatibility undefined.
type InvalidOfferError struct {
	OfferID string
	Reason  string
}

func (e *InvalidOfferError) Error() string {
	return fmt.Sprintf("invalid offer %q: %s", e.OfferID, e.Reason)
}

func (e *InvalidOfferError) Is(target error) bool { return target == ErrInvalidOffer }

// InvalidInputError reports an argument outside the domain of an amortization
// calculation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }
