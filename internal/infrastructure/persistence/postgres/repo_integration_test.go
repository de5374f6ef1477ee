//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/persistence/postgres"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/testutil"
)

func setup(t *testing.T) *testutil.PostgresContainer {
	t.Helper()
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pc.Cleanup(t) })
	require.NoError(t, postgres.Migrate(pc.DSN))
	return pc
}

func alphaTerms() model.OfferTerms {
	return model.OfferTerms{
		InstitutionName:         "Banco Alpha",
		Amount:                  decimal.NewFromInt(15_000),
		MinAmount:               decimal.NewFromInt(5_000),
		MaxAmount:               decimal.NewFromInt(20_000),
		InterestRate:            decimal.RequireFromString("0.028"),
		MinInstallments:         12,
		MaxInstallments:         48,
		MinScore:                600,
		Description:             "Crédito pessoal com taxas competitivas",
		RequirementsDescription: "Renda mínima de R$ 2.000",
	}
}

func TestRepositories_Postgres(t *testing.T) {
	pc := setup(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("offers keep catalog order and audit revisions", func(t *testing.T) {
		pc.Truncate(t, postgres.Tables...)
		repo := postgres.NewOfferRepo(pc.Pool)

		first, err := model.NewCreditOffer(testutil.TestPartnerID.String(), alphaTerms(), now)
		require.NoError(t, err)
		second, err := model.NewCreditOffer("other-partner", alphaTerms(), now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		terms := alphaTerms()
		terms.InterestRate = decimal.RequireFromString("0.025")
		updated, err := first.Update(terms, now.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, updated))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID(), all[0].ID())
		assert.True(t, decimal.RequireFromString("0.025").Equal(all[0].InterestRate()))

		var revisions int
		require.NoError(t, pc.Pool.QueryRow(ctx, `SELECT count(*) FROM offer_revisions WHERE offer_id = $1`, first.ID()).Scan(&revisions))
		assert.Equal(t, 2, revisions)

		hijack := model.ReconstructCreditOffer(first.ID(), "other-partner", terms, now, now)
		assert.ErrorIs(t, repo.Save(ctx, hijack), port.ErrConflict)

		require.NoError(t, repo.Delete(ctx, first.ID()))
		_, err = repo.FindByID(ctx, first.ID())
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("profiles are replaced wholesale", func(t *testing.T) {
		pc.Truncate(t, postgres.Tables...)
		repo := postgres.NewProfileRepo(pc.Pool)
		userID := testutil.TestUserID1.String()

		p1, _ := model.NewCreditProfile(userID, 650, decimal.NewFromInt(1800), decimal.NewFromInt(13_000), now)
		p2, _ := model.NewCreditProfile(userID, 780, decimal.NewFromInt(2200), decimal.NewFromInt(15_600), now)
		require.NoError(t, repo.Save(ctx, p1))
		require.NoError(t, repo.Save(ctx, p2))

		got, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 780, got.Score())
		assert.True(t, decimal.NewFromInt(15_600).Equal(got.RecommendedLimit()))
	})

	t.Run("consents are one per user and expirable ones are listed", func(t *testing.T) {
		pc.Truncate(t, postgres.Tables...)
		repo := postgres.NewConsentRepo(pc.Pool)
		userID := testutil.TestUserID1.String()

		c, err := model.NewOpenFinanceConsent(userID, now.Add(-200*24*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		due, err := repo.ListExpirable(ctx, now)
		require.NoError(t, err)
		require.Len(t, due, 1)

		fresh, err := model.NewOpenFinanceConsent(userID, now)
		require.NoError(t, err)
		authorized, err := fresh.Authorize(now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, authorized))

		got, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, authorized.ID(), got.ID())
		assert.Equal(t, valueobject.ConsentStatusAuthorized, got.Status())
		require.NotNil(t, got.AuthorizedAt())
		assert.Len(t, got.Scope(), 5)

		due, err = repo.ListExpirable(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("users reject duplicate emails", func(t *testing.T) {
		pc.Truncate(t, postgres.Tables...)
		repo := postgres.NewUserRepo(pc.Pool)

		u, err := model.NewUser("Ana", "ana@email.com", "hash", valueobject.RoleUser, now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))

		dup, err := model.NewUser("Ana 2", "ana@email.com", "hash", valueobject.RoleUser, now)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), port.ErrConflict)

		got, err := repo.FindByEmail(ctx, "ana@email.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), got.ID())
	})

	t.Run("notifications list newest first", func(t *testing.T) {
		pc.Truncate(t, postgres.Tables...)
		repo := postgres.NewNotificationRepo(pc.Pool)

		a, _ := model.NewNotification("u1", valueobject.NotificationInfo, "primeira", now)
		b, _ := model.NewNotification("u1", valueobject.NotificationSuccess, "segunda", now)
		require.NoError(t, repo.Save(ctx, a))
		require.NoError(t, repo.Save(ctx, b))
		require.NoError(t, repo.Save(ctx, a.MarkRead()))

		list, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "segunda", list[0].Message())
		assert.True(t, list[1].Read())
	})
}

func TestMigrations_RollbackAndReapply(t *testing.T) {
	pc := setup(t)
	ctx := context.Background()

	require.NoError(t, postgres.Rollback(pc.DSN))
	var exists bool
	require.NoError(t, pc.Pool.QueryRow(ctx, `SELECT to_regclass('public.credit_offers') IS NOT NULL`).Scan(&exists))
	assert.False(t, exists)

	require.NoError(t, postgres.Migrate(pc.DSN))
	require.NoError(t, pc.Pool.QueryRow(ctx, `SELECT to_regclass('public.credit_offers') IS NOT NULL`).Scan(&exists))
	assert.True(t, exists)
}
