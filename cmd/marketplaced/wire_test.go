package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/cache"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/config"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/messaging"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
)

func TestOpenStorage_Memory(t *testing.T) {
	cfg := config.Config{StorageDriver: config.DriverMemory, SessionStore: config.DriverMemory}
	store, err := openStorage(context.Background(), cfg, observability.NopLogger())
	require.NoError(t, err)
	defer store.Close()

	assert.NotNil(t, store.Offers)
	assert.NotNil(t, store.Notifications)
	assert.Empty(t, store.Checks)

	sessions, err := openSessions(context.Background(), cfg, store)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemorySessionStore{}, sessions)
}

func TestOpenEvents_LocalWithoutBrokers(t *testing.T) {
	logger := observability.NopLogger()
	store, err := openStorage(context.Background(), config.Config{StorageDriver: config.DriverMemory}, logger)
	require.NoError(t, err)

	publisher, stop, err := openEvents(context.Background(), config.Config{}, usecase.NewNotificationProjector(store.Notifications, logger), logger)
	require.NoError(t, err)
	defer stop()
	assert.IsType(t, &messaging.LocalEventPublisher{}, publisher)
}
