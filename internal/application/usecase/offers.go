package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/service"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/money"
)

const tracerName = "github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"

// ListOffersUseCase returns the offer catalog as seen by a borrower. With a
// profile the catalog is ranked by compatibility and restricted to offers the
// borrower qualifies for; without one it is returned in catalog order and no
// compatibility is reported.
type ListOffersUseCase struct {
	offers   port.OfferRepository
	profiles port.ProfileRepository
	engine   *service.CompatibilityEngine
}

// NewListOffersUseCase wires dependencies.
func NewListOffersUseCase(
	offers port.OfferRepository,
	profiles port.ProfileRepository,
	engine *service.CompatibilityEngine,
) *ListOffersUseCase {
	return &ListOffersUseCase{offers: offers, profiles: profiles, engine: engine}
}

// Execute ranks and filters the catalog.
func (uc *ListOffersUseCase) Execute(ctx context.Context, req dto.ListOffersRequest) (dto.OfferListResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ListOffers")
	defer span.End()

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.OfferListResponse{}, err
	}
	span.SetAttributes(
		attribute.Bool("profile.available", resp.ProfileAvailable),
		attribute.Int("offers.returned", len(resp.Offers)),
	)
	return resp, nil
}

func (uc *ListOffersUseCase) execute(ctx context.Context, req dto.ListOffersRequest) (dto.OfferListResponse, error) {
	// 1. Load the catalog.
	catalog, err := uc.offers.List(ctx)
	if err != nil {
		return dto.OfferListResponse{}, fmt.Errorf("list offers: %w", err)
	}

	// 2. Load the caller's profile, if any.
	var profile *model.CreditProfile
	if req.UserID != "" {
		p, err := uc.profiles.FindByUserID(ctx, req.UserID)
		switch {
		case err == nil:
			profile = &p
		case !errors.Is(err, port.ErrNotFound):
			return dto.OfferListResponse{}, fmt.Errorf("find profile: %w", err)
		}
	}

	// 3. Rank against the profile or strip stale scores.
	var offers []model.CreditOffer
	if profile != nil {
		if offers, err = uc.engine.RankEligibleOffers(*profile, catalog); err != nil {
			return dto.OfferListResponse{}, fmt.Errorf("rank offers: %w", err)
		}
	} else {
		offers = make([]model.CreditOffer, 0, len(catalog))
		for _, o := range catalog {
			offers = append(offers, o.WithoutCompatibility())
		}
	}

	// 4. Apply the range filters.
	if filters := toOfferFilters(req.Filters).ForProfile(profile); !filters.IsEmpty() {
		offers = uc.engine.FilterByRange(offers, filters)
	}

	return dto.OfferListResponse{
		Offers:           toOfferResponses(offers),
		ProfileAvailable: profile != nil,
	}, nil
}

// SimulateInstallmentUseCase quotes a loan against an offer's terms.
type SimulateInstallmentUseCase struct {
	offers port.OfferRepository
}

// NewSimulateInstallmentUseCase wires dependencies.
func NewSimulateInstallmentUseCase(offers port.OfferRepository) *SimulateInstallmentUseCase {
	return &SimulateInstallmentUseCase{offers: offers}
}

// Execute returns the level payment, totals and schedule. The amount and
// installment count must lie within the offer's ranges.
func (uc *SimulateInstallmentUseCase) Execute(ctx context.Context, req dto.SimulateInstallmentRequest) (dto.SimulationResponse, error) {
	// 1. Load the offer.
	offer, err := uc.offers.FindByID(ctx, req.OfferID)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("find offer: %w", err)
	}

	// 2. Check the request against the offer.
	if !offer.AcceptsAmount(req.Amount) {
		return dto.SimulationResponse{}, fmt.Errorf("%w: amount %s outside [%s, %s]",
			ErrInvalidRequest, req.Amount, offer.MinAmount(), offer.MaxAmount())
	}
	if !offer.AcceptsInstallments(req.Installments) {
		return dto.SimulationResponse{}, fmt.Errorf("%w: installments %d outside [%d, %d]",
			ErrInvalidRequest, req.Installments, offer.MinInstallments(), offer.MaxInstallments())
	}

	// 3. Compute the quote.
	payment, err := service.AmortizedInstallment(req.Amount, offer.InterestRate(), req.Installments)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	schedule, err := service.GenerateAmortizationSchedule(req.Amount, offer.InterestRate(), req.Installments, time.Now().UTC())
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	amount := money.NewBRL(req.Amount)
	monthly := money.NewBRL(payment).Round(2)
	total := monthly.Multiply(decimal.NewFromInt(int64(req.Installments)))
	interest := money.NewBRL(total.Amount().Sub(amount.Amount()))

	return toSimulationResponse(model.InstallmentSimulation{
		OfferID:        offer.ID(),
		Amount:         amount,
		Installments:   req.Installments,
		InterestRate:   offer.InterestRate(),
		MonthlyPayment: monthly,
		TotalPayment:   total,
		TotalInterest:  interest,
		Schedule:       schedule,
	}), nil
}
