package event

import (
	"fmt"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
)

// Decode rebuilds a typed domain event from its wire envelope. Unknown types
// return an error so consumers can skip them explicitly.
func Decode(env events.Envelope) (DomainEvent, error) {
	switch env.Type {
	case TypeUserRegistered:
		return decodeInto[UserRegistered](env, func(e *UserRegistered) { e.BaseEvent = env.Base() })
	case TypeConsentAuthorized:
		return decodeInto[ConsentAuthorized](env, func(e *ConsentAuthorized) { e.BaseEvent = env.Base() })
	case TypeConsentRevoked:
		return decodeInto[ConsentRevoked](env, func(e *ConsentRevoked) { e.BaseEvent = env.Base() })
	case TypeConsentExpired:
		return decodeInto[ConsentExpired](env, func(e *ConsentExpired) { e.BaseEvent = env.Base() })
	case TypeProfileAnalyzed:
		return decodeInto[ProfileAnalyzed](env, func(e *ProfileAnalyzed) { e.BaseEvent = env.Base() })
	case TypeOfferPublished:
		return decodeInto[OfferPublished](env, func(e *OfferPublished) { e.BaseEvent = env.Base() })
	case TypeOfferUpdated:
		return decodeInto[OfferUpdated](env, func(e *OfferUpdated) { e.BaseEvent = env.Base() })
	case TypeOfferWithdrawn:
		return decodeInto[OfferWithdrawn](env, func(e *OfferWithdrawn) { e.BaseEvent = env.Base() })
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
}

func decodeInto[T DomainEvent](env events.Envelope, setBase func(*T)) (DomainEvent, error) {
	var e T
	if err := env.DecodePayload(&e); err != nil {
		return nil, err
	}
	setBase(&e)
	return e, nil
}
