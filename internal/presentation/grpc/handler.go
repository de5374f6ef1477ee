package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/service"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
)

// MarketplaceHandler is the gRPC handler for catalog browsing and quotes.
type MarketplaceHandler struct {
	UnimplementedMarketplaceServiceServer

	listOffers *usecase.ListOffersUseCase
	simulate   *usecase.SimulateInstallmentUseCase
}

// NewMarketplaceHandler creates a new handler with all use-case dependencies.
func NewMarketplaceHandler(
	listOffers *usecase.ListOffersUseCase,
	simulate *usecase.SimulateInstallmentUseCase,
) *MarketplaceHandler {
	return &MarketplaceHandler{listOffers: listOffers, simulate: simulate}
}

// ListOffers returns the catalog ranked for the calling user.
func (h *MarketplaceHandler) ListOffers(ctx context.Context, req *ListOffersRequest) (*ListOffersResponse, error) {
	filters, err := toFiltersRequest(req.Filters)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	listReq := dto.ListOffersRequest{Filters: filters}
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		listReq.UserID = claims.UserID
	}

	resp, err := h.listOffers.Execute(ctx, listReq)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &ListOffersResponse{
		Offers:           make([]*Offer, 0, len(resp.Offers)),
		ProfileAvailable: resp.ProfileAvailable,
	}
	for _, o := range resp.Offers {
		out.Offers = append(out.Offers, toOffer(o))
	}
	return out, nil
}

// SimulateInstallment quotes a loan against one offer.
func (h *MarketplaceHandler) SimulateInstallment(ctx context.Context, req *SimulateInstallmentRequest) (*SimulateInstallmentResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	resp, err := h.simulate.Execute(ctx, dto.SimulateInstallmentRequest{
		OfferID:      req.OfferID,
		Amount:       amount,
		Installments: int(req.Installments),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	out := &SimulateInstallmentResponse{
		OfferID:        resp.OfferID,
		Currency:       resp.Currency,
		Amount:         resp.Amount.StringFixed(2),
		Installments:   int32(resp.Installments),
		InterestRate:   resp.InterestRate.String(),
		MonthlyPayment: resp.MonthlyPayment.StringFixed(2),
		TotalPayment:   resp.TotalPayment.StringFixed(2),
		TotalInterest:  resp.TotalInterest.StringFixed(2),
		Schedule:       make([]*ScheduleEntry, 0, len(resp.Schedule)),
	}
	for _, e := range resp.Schedule {
		out.Schedule = append(out.Schedule, &ScheduleEntry{
			Period:           int32(e.Period),
			DueDate:          e.DueDate.Format(time.DateOnly),
			Payment:          e.Payment.StringFixed(2),
			Principal:        e.Principal.StringFixed(2),
			Interest:         e.Interest.StringFixed(2),
			RemainingBalance: e.RemainingBalance.StringFixed(2),
		})
	}
	return out, nil
}

func toFiltersRequest(f *OfferFilters) (dto.OfferFiltersRequest, error) {
	var out dto.OfferFiltersRequest
	if f == nil {
		return out, nil
	}

	var err error
	if out.MinAmount, err = optionalDecimal("min_amount", f.MinAmount); err != nil {
		return out, err
	}
	if out.MaxAmount, err = optionalDecimal("max_amount", f.MaxAmount); err != nil {
		return out, err
	}
	if out.MaxInterestRate, err = optionalDecimal("max_interest_rate", f.MaxInterestRate); err != nil {
		return out, err
	}
	out.MinInstallments = optionalCount(f.MinInstallments)
	out.MaxInstallments = optionalCount(f.MaxInstallments)
	if f.OnlyMatchingScore {
		zero := 0
		out.MinScore = &zero
	}
	return out, nil
}

func optionalDecimal(field, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &d, nil
}

func optionalCount(n int32) *int {
	if n <= 0 {
		return nil
	}
	v := int(n)
	return &v
}

func toOffer(o dto.OfferResponse) *Offer {
	return &Offer{
		ID:                      o.ID,
		InstitutionID:           o.InstitutionID,
		InstitutionName:         o.InstitutionName,
		Amount:                  o.Amount.String(),
		MinAmount:               o.MinAmount.String(),
		MaxAmount:               o.MaxAmount.String(),
		InterestRate:            o.InterestRate.String(),
		MinInstallments:         int32(o.MinInstallments),
		MaxInstallments:         int32(o.MaxInstallments),
		MinScore:                int32(o.MinScore),
		Compatibility:           o.Compatibility,
		Description:             o.Description,
		RequirementsDescription: o.RequirementsDescription,
	}
}

// toStatus maps application errors onto gRPC status codes.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, port.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, service.ErrInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrInvalidOffer):
		code = codes.FailedPrecondition
	case errors.Is(err, usecase.ErrUnauthenticated):
		code = codes.Unauthenticated
	case errors.Is(err, usecase.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
