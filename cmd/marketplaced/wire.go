package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/cache"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/config"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/messaging"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/persistence/memory"
	pgRepo "github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/persistence/postgres"
	"github.com/MiguelMaleico/credit360-smart-market/internal/presentation/rest"
	pkgkafka "github.com/MiguelMaleico/credit360-smart-market/pkg/kafka"
	pkgpostgres "github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

// storage holds the repositories for the configured driver plus the
// readiness checks and cleanup for whatever backs them.
type storage struct {
	Offers        port.OfferRepository
	Profiles      port.ProfileRepository
	Consents      port.ConsentRepository
	Users         port.UserRepository
	Notifications port.NotificationRepository

	Checks  map[string]rest.ReadinessCheck
	closers []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	s := &storage{Checks: make(map[string]rest.ReadinessCheck)}

	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		s.Offers = memory.NewOfferRepository()
		s.Profiles = memory.NewProfileRepository()
		s.Consents = memory.NewConsentRepository()
		s.Users = memory.NewUserRepository()
		s.Notifications = memory.NewNotificationRepository()
		return s, nil
	}

	pgCfg := cfg.DB.Postgres()
	if err := pgRepo.Migrate(pgCfg.DSN()); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pkgpostgres.NewPool(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.closers = append(s.closers, pool.Close)
	logger.Info("connected to database", "host", pgCfg.Host, "database", pgCfg.Database)

	s.Offers = pgRepo.NewOfferRepo(pool)
	s.Profiles = pgRepo.NewProfileRepo(pool)
	s.Consents = pgRepo.NewConsentRepo(pool)
	s.Users = pgRepo.NewUserRepo(pool)
	s.Notifications = pgRepo.NewNotificationRepo(pool)
	s.Checks["postgres"] = func(ctx context.Context) error {
		return pkgpostgres.HealthCheck(ctx, pool)
	}
	return s, nil
}

func openSessions(ctx context.Context, cfg config.Config, s *storage) (port.SessionStore, error) {
	if cfg.SessionStore == config.DriverMemory {
		return cache.NewMemorySessionStore(), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { _ = client.Close() })
	s.Checks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	return cache.NewRedisSessionStore(client), nil
}

// openEvents returns the event publisher. With Kafka configured, events go to
// the topic and a consumer group feeds them back to the projector; otherwise
// the projector is called in-process.
func openEvents(ctx context.Context, cfg config.Config, projector messaging.EventHandler, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled() {
		return messaging.NewLocalEventPublisher(logger, projector), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(cfg.Kafka.Client())
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	consumer, err := pkgkafka.NewConsumer(cfg.Kafka.Client(), cfg.Kafka.Topic,
		messaging.EnvelopeHandler(projector, logger), logger)
	if err != nil {
		_ = producer.Close()
		return nil, nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("event consumer stopped", "error", err)
		}
	}()

	stop := func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("close kafka consumer", "error", err)
		}
		if err := producer.Close(); err != nil {
			logger.Warn("close kafka producer", "error", err)
		}
	}
	return messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger), stop, nil
}
