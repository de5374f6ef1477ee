package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
)

var partner = dto.Principal{UserID: "partner-1", Email: "parceiro@email.com", Role: "partner"}

func validOfferRequest() dto.OfferRequest {
	return dto.OfferRequest{
		InstitutionName:         "Banco Alpha",
		Amount:                  decimal.NewFromInt(15_000),
		MinAmount:               decimal.NewFromInt(5_000),
		MaxAmount:               decimal.NewFromInt(20_000),
		InterestRate:            decimal.RequireFromString("0.028"),
		MinInstallments:         12,
		MaxInstallments:         48,
		MinScore:                600,
		Description:             "Crédito pessoal com as melhores taxas do mercado",
		RequirementsDescription: "Renda mínima de R$ 2.000",
	}
}

func TestPartnerOffers_Create(t *testing.T) {
	t.Run("publishes an offer owned by the partner", func(t *testing.T) {
		repo := &mockOfferRepository{}
		publisher := &mockEventPublisher{}
		uc := usecase.NewPartnerOffersUseCase(repo, publisher)

		resp, err := uc.Create(context.Background(), partner, validOfferRequest())

		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, partner.UserID, resp.InstitutionID)
		assert.Nil(t, resp.Compatibility)
		require.Len(t, repo.savedOffers, 1)
		assert.Equal(t, []string{event.TypeOfferPublished}, publisher.types())
	})

	t.Run("borrowers cannot publish", func(t *testing.T) {
		repo := &mockOfferRepository{}

		_, err := usecase.NewPartnerOffersUseCase(repo, &mockEventPublisher{}).Create(context.Background(), borrower, validOfferRequest())

		assert.ErrorIs(t, err, usecase.ErrForbidden)
		assert.Empty(t, repo.savedOffers)
	})

	t.Run("rejects terms outside the publication policy", func(t *testing.T) {
		req := validOfferRequest()
		req.InterestRate = decimal.RequireFromString("0.25")

		_, err := usecase.NewPartnerOffersUseCase(&mockOfferRepository{}, &mockEventPublisher{}).Create(context.Background(), partner, req)

		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})
}

func TestPartnerOffers_UpdateDeleteList(t *testing.T) {
	mine := demoOffer("1", "Banco Alpha", 15_000, 5_000, 20_000, "0.028", 12, 48, 600)
	theirs := demoOffer("2", "Financeira Beta", 8_000, 3_000, 10_000, "0.035", 6, 24, 550)
	owner := dto.Principal{UserID: mine.InstitutionID(), Role: "partner"}

	t.Run("lists only own offers", func(t *testing.T) {
		uc := usecase.NewPartnerOffersUseCase(&mockOfferRepository{offers: []model.CreditOffer{mine, theirs}}, &mockEventPublisher{})

		list, err := uc.List(context.Background(), owner)

		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, offerIDs(list))
	})

	t.Run("updates own offer", func(t *testing.T) {
		repo := &mockOfferRepository{offers: []model.CreditOffer{mine, theirs}}
		publisher := &mockEventPublisher{}
		req := validOfferRequest()
		req.InterestRate = decimal.RequireFromString("0.025")

		resp, err := usecase.NewPartnerOffersUseCase(repo, publisher).Update(context.Background(), owner, "1", req)

		require.NoError(t, err)
		assert.Equal(t, "0.025", resp.InterestRate.String())
		assert.Equal(t, []string{event.TypeOfferUpdated}, publisher.types())
	})

	t.Run("cannot update another partner's offer", func(t *testing.T) {
		repo := &mockOfferRepository{offers: []model.CreditOffer{mine, theirs}}

		_, err := usecase.NewPartnerOffersUseCase(repo, &mockEventPublisher{}).Update(context.Background(), owner, "2", validOfferRequest())

		assert.ErrorIs(t, err, usecase.ErrForbidden)
		assert.Empty(t, repo.savedOffers)
	})

	t.Run("withdraws own offer", func(t *testing.T) {
		repo := &mockOfferRepository{offers: []model.CreditOffer{mine, theirs}}
		publisher := &mockEventPublisher{}

		err := usecase.NewPartnerOffersUseCase(repo, publisher).Delete(context.Background(), owner, "1")

		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, repo.deletedIDs)
		assert.Equal(t, []string{event.TypeOfferWithdrawn}, publisher.types())
	})

	t.Run("cannot withdraw another partner's offer", func(t *testing.T) {
		repo := &mockOfferRepository{offers: []model.CreditOffer{mine, theirs}}

		err := usecase.NewPartnerOffersUseCase(repo, &mockEventPublisher{}).Delete(context.Background(), owner, "2")

		assert.ErrorIs(t, err, usecase.ErrForbidden)
		assert.Empty(t, repo.deletedIDs)
	})
}
