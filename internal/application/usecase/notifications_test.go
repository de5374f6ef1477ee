package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
)

func TestNotificationProjector_Handle(t *testing.T) {
	tests := []struct {
		name     string
		evt      event.DomainEvent
		wantUser string
		wantType string
		contains string
	}{
		{"consent authorized", event.NewConsentAuthorized("c1", "user-1", []string{"accounts"}), "user-1", "success", "autorizado"},
		{"consent revoked", event.NewConsentRevoked("c1", "user-1"), "user-1", "warning", "revogado"},
		{"consent expired", event.NewConsentExpired("c1", "user-1"), "user-1", "warning", "expirou"},
		{"profile analyzed", event.NewProfileAnalyzed("user-1", 780, "low", decimal.NewFromInt(15_600)), "user-1", "info", "score 780, risco baixo"},
		{"offer published", event.NewOfferPublished("o1", "partner-1", "Banco Alpha", decimal.NewFromInt(20_000), decimal.RequireFromString("0.028"), 600), "partner-1", "success", "Banco Alpha"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockNotificationRepository{}
			projector := usecase.NewNotificationProjector(repo, observability.NopLogger())

			require.NoError(t, projector.Handle(context.Background(), tc.evt))

			require.Len(t, repo.items, 1)
			n := repo.items[0]
			assert.Equal(t, tc.wantUser, n.UserID())
			assert.Equal(t, tc.wantType, n.Type().String())
			assert.Contains(t, n.Message(), tc.contains)
			assert.False(t, n.Read())
		})
	}

	t.Run("ignores events without a recipient", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		projector := usecase.NewNotificationProjector(repo, observability.NopLogger())

		require.NoError(t, projector.Handle(context.Background(), event.NewUserRegistered("user-1", "a@b.com", "user")))
		require.NoError(t, projector.Handle(context.Background(), event.NewOfferWithdrawn("o1", "partner-1")))

		assert.Empty(t, repo.items)
	})
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	repo := &mockNotificationRepository{}
	projector := usecase.NewNotificationProjector(repo, observability.NopLogger())
	ctx := context.Background()
	require.NoError(t, projector.Handle(ctx, event.NewConsentAuthorized("c1", "user-1", nil)))
	require.NoError(t, projector.Handle(ctx, event.NewProfileAnalyzed("user-1", 650, "medium", decimal.NewFromInt(13_000))))
	require.NoError(t, projector.Handle(ctx, event.NewConsentAuthorized("c2", "user-2", nil)))

	uc := usecase.NewNotificationsUseCase(repo)

	list, err := uc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)
	assert.Equal(t, "info", list.Notifications[0].Type, "newest first")

	read, err := uc.MarkRead(ctx, "user-1", list.Notifications[1].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	list, err = uc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, list.UnreadCount)

	other, err := uc.List(ctx, "user-2")
	require.NoError(t, err)
	_, err = uc.MarkRead(ctx, "user-1", other.Notifications[0].ID)
	assert.ErrorIs(t, err, port.ErrNotFound)
}
