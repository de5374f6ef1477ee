package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

// PartnerOffersUseCase lets a partner institution manage its own offers.
// The partner's user ID is the institution ID of every offer it publishes.
type PartnerOffersUseCase struct {
	offers    port.OfferRepository
	publisher port.EventPublisher
}

// NewPartnerOffersUseCase wires dependencies.
func NewPartnerOffersUseCase(offers port.OfferRepository, publisher port.EventPublisher) *PartnerOffersUseCase {
	return &PartnerOffersUseCase{offers: offers, publisher: publisher}
}

// List returns the partner's offers in catalog order.
func (uc *PartnerOffersUseCase) List(ctx context.Context, p dto.Principal) ([]dto.OfferResponse, error) {
	if err := requirePartner(p); err != nil {
		return nil, err
	}
	offers, err := uc.offers.ListByInstitution(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return toOfferResponses(offers), nil
}

// Create publishes a new offer.
func (uc *PartnerOffersUseCase) Create(ctx context.Context, p dto.Principal, req dto.OfferRequest) (dto.OfferResponse, error) {
	if err := requirePartner(p); err != nil {
		return dto.OfferResponse{}, err
	}
	offer, err := model.NewCreditOffer(p.UserID, toOfferTerms(req), time.Now().UTC())
	if err != nil {
		return dto.OfferResponse{}, invalidTerms(err)
	}
	if err := uc.offers.Save(ctx, offer); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("save offer: %w", err)
	}
	if err := uc.publisher.Publish(ctx, offer.DomainEvents()...); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return toOfferResponse(offer), nil
}

// Update replaces the terms of one of the partner's offers.
func (uc *PartnerOffersUseCase) Update(ctx context.Context, p dto.Principal, offerID string, req dto.OfferRequest) (dto.OfferResponse, error) {
	offer, err := uc.owned(ctx, p, offerID)
	if err != nil {
		return dto.OfferResponse{}, err
	}
	updated, err := offer.Update(toOfferTerms(req), time.Now().UTC())
	if err != nil {
		return dto.OfferResponse{}, invalidTerms(err)
	}
	if err := uc.offers.Save(ctx, updated); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("save offer: %w", err)
	}
	if err := uc.publisher.Publish(ctx, updated.DomainEvents()...); err != nil {
		return dto.OfferResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return toOfferResponse(updated), nil
}

// Delete withdraws one of the partner's offers from the catalog.
func (uc *PartnerOffersUseCase) Delete(ctx context.Context, p dto.Principal, offerID string) error {
	offer, err := uc.owned(ctx, p, offerID)
	if err != nil {
		return err
	}
	withdrawn := offer.Withdraw(time.Now().UTC())
	if err := uc.offers.Delete(ctx, offer.ID()); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if err := uc.publisher.Publish(ctx, withdrawn.DomainEvents()...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (uc *PartnerOffersUseCase) owned(ctx context.Context, p dto.Principal, offerID string) (model.CreditOffer, error) {
	if err := requirePartner(p); err != nil {
		return model.CreditOffer{}, err
	}
	offer, err := uc.offers.FindByID(ctx, offerID)
	if err != nil {
		return model.CreditOffer{}, fmt.Errorf("find offer: %w", err)
	}
	if !offer.OwnedBy(p.UserID) {
		return model.CreditOffer{}, ErrForbidden
	}
	return offer, nil
}

func requirePartner(p dto.Principal) error {
	if p.Role != valueobject.RolePartner.String() {
		return ErrForbidden
	}
	return nil
}

func invalidTerms(err error) error {
	if errors.Is(err, model.ErrInvalidOfferTerms) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return fmt.Errorf("build offer: %w", err)
}
