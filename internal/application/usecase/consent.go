package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
)

// GetConsentUseCase returns the caller's consent, opening a pending one on
// first access.
type GetConsentUseCase struct {
	consents port.ConsentRepository
}

// NewGetConsentUseCase wires dependencies.
func NewGetConsentUseCase(consents port.ConsentRepository) *GetConsentUseCase {
	return &GetConsentUseCase{consents: consents}
}

// Execute returns the current consent for userID.
func (uc *GetConsentUseCase) Execute(ctx context.Context, userID string) (dto.ConsentResponse, error) {
	consent, err := uc.consents.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		return toConsentResponse(consent), nil
	case !errors.Is(err, port.ErrNotFound):
		return dto.ConsentResponse{}, fmt.Errorf("find consent: %w", err)
	}

	consent, err = model.NewOpenFinanceConsent(userID, time.Now().UTC())
	if err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := uc.consents.Save(ctx, consent); err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("save consent: %w", err)
	}
	return toConsentResponse(consent), nil
}

// AuthorizeConsentUseCase grants data sharing. A revoked, expired or stale
// pending consent is replaced by a fresh one before authorizing.
type AuthorizeConsentUseCase struct {
	consents  port.ConsentRepository
	publisher port.EventPublisher
}

// NewAuthorizeConsentUseCase wires dependencies.
func NewAuthorizeConsentUseCase(consents port.ConsentRepository, publisher port.EventPublisher) *AuthorizeConsentUseCase {
	return &AuthorizeConsentUseCase{consents: consents, publisher: publisher}
}

// Execute authorizes the consent of the given principal.
func (uc *AuthorizeConsentUseCase) Execute(ctx context.Context, p dto.Principal) (dto.ConsentResponse, error) {
	now := time.Now().UTC()

	// 1. Load the current consent or start a new one.
	consent, err := uc.consents.FindByUserID(ctx, p.UserID)
	switch {
	case errors.Is(err, port.ErrNotFound):
		if consent, err = model.NewOpenFinanceConsent(p.UserID, now); err != nil {
			return dto.ConsentResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	case err != nil:
		return dto.ConsentResponse{}, fmt.Errorf("find consent: %w", err)
	}

	// 2. Already usable: nothing to do.
	if consent.IsActive(now) {
		return toConsentResponse(consent), nil
	}

	// 3. Start over when the current consent can no longer be authorized.
	switch {
	case consent.Status().IsTerminal():
		if consent, err = consent.Renew(now); err != nil {
			return dto.ConsentResponse{}, fmt.Errorf("renew consent: %w", err)
		}
	case !now.Before(consent.ValidUntil()):
		if consent, err = model.NewOpenFinanceConsent(p.UserID, now); err != nil {
			return dto.ConsentResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	// 4. Authorize and persist.
	authorized, err := consent.Authorize(now)
	if err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("authorize consent: %w", err)
	}
	if err := uc.consents.Save(ctx, authorized); err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("save consent: %w", err)
	}

	// 5. Publish domain events.
	if err := uc.publisher.Publish(ctx, authorized.DomainEvents()...); err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return toConsentResponse(authorized), nil
}

// RevokeConsentUseCase withdraws data sharing.
type RevokeConsentUseCase struct {
	consents  port.ConsentRepository
	publisher port.EventPublisher
}

// NewRevokeConsentUseCase wires dependencies.
func NewRevokeConsentUseCase(consents port.ConsentRepository, publisher port.EventPublisher) *RevokeConsentUseCase {
	return &RevokeConsentUseCase{consents: consents, publisher: publisher}
}

// Execute revokes the authorized consent of the given principal.
func (uc *RevokeConsentUseCase) Execute(ctx context.Context, p dto.Principal) (dto.ConsentResponse, error) {
	consent, err := uc.consents.FindByUserID(ctx, p.UserID)
	if err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("find consent: %w", err)
	}
	revoked, err := consent.Revoke(time.Now().UTC())
	if err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("revoke consent: %w", err)
	}
	if err := uc.consents.Save(ctx, revoked); err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("save consent: %w", err)
	}
	if err := uc.publisher.Publish(ctx, revoked.DomainEvents()...); err != nil {
		return dto.ConsentResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return toConsentResponse(revoked), nil
}

// ExpireConsentsUseCase moves every consent past its validity window to
// expired. It is driven by the scheduler.
type ExpireConsentsUseCase struct {
	consents  port.ConsentRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewExpireConsentsUseCase wires dependencies.
func NewExpireConsentsUseCase(consents port.ConsentRepository, publisher port.EventPublisher, logger *slog.Logger) *ExpireConsentsUseCase {
	return &ExpireConsentsUseCase{consents: consents, publisher: publisher, logger: logger}
}

// Execute expires consents due at now and returns how many were expired.
// A failure on one consent does not stop the sweep; all failures are joined
// into the returned error.
func (uc *ExpireConsentsUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.consents.ListExpirable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expirable consents: %w", err)
	}

	var (
		expired int
		errs    []error
	)
	for _, consent := range due {
		if err := uc.expire(ctx, consent, now); err != nil {
			uc.logger.Warn("consent expiry failed",
				"consent_id", consent.ID(),
				"user_id", consent.UserID(),
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		expired++
	}
	return expired, errors.Join(errs...)
}

func (uc *ExpireConsentsUseCase) expire(ctx context.Context, consent model.OpenFinanceConsent, now time.Time) error {
	next, err := consent.Expire(now)
	if err != nil {
		return fmt.Errorf("expire consent %s: %w", consent.ID(), err)
	}
	if err := uc.consents.Save(ctx, next); err != nil {
		return fmt.Errorf("save consent %s: %w", consent.ID(), err)
	}
	if err := uc.publisher.Publish(ctx, next.DomainEvents()...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}
