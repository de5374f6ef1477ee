package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/service"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/adapter"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/config"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/scheduler"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/security"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/seed"
	grpcPresentation "github.com/MiguelMaleico/credit360-smart-market/internal/presentation/grpc"
	"github.com/MiguelMaleico/credit360-smart-market/internal/presentation/rest"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "gen-certs" {
		if err := genCerts(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("marketplace stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting "+cfg.ServiceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.StorageDriver,
		"sessions", cfg.SessionStore,
		"kafka", cfg.Kafka.Enabled(),
	)

	// Tracing and metrics.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
	httpMetrics, err := observability.NewHTTPMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init http metrics: %w", err)
	}

	// Infrastructure.
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := openSessions(ctx, cfg, store)
	if err != nil {
		return err
	}

	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	}
	if cfg.JWT.PrivateKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.JWT.PrivateKeyFile)
		if err != nil {
			return err
		}
		jwtCfg.PrivateKeyPEM = string(key)
	}
	jwtSvc, err := auth.NewJWTService(jwtCfg)
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	projector := usecase.NewNotificationProjector(store.Notifications, logger)
	publisher, stopEvents, err := openEvents(ctx, cfg, projector, logger)
	if err != nil {
		return err
	}
	defer stopEvents()

	source := adapter.NewOpenFinanceSource(adapter.DefaultOpenFinanceConfig(), openbanking.NewSandboxClient())
	analyzer := adapter.NewSimulatedProfileAnalyzer(source)

	if cfg.SeedDemoData {
		if err := seed.NewDemo(store.Users, store.Offers, hasher, logger).Load(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	// Use cases.
	authenticate := usecase.NewAuthenticateUseCase(jwtSvc, sessions)
	listOffers := usecase.NewListOffersUseCase(store.Offers, store.Profiles, service.NewCompatibilityEngine())
	simulate := usecase.NewSimulateInstallmentUseCase(store.Offers)
	useCases := rest.UseCases{
		Register:            usecase.NewRegisterUseCase(store.Users, hasher, jwtSvc, sessions, publisher),
		Login:               usecase.NewLoginUseCase(store.Users, hasher, jwtSvc, sessions),
		Logout:              usecase.NewLogoutUseCase(sessions),
		Authenticate:        authenticate,
		GetConsent:          usecase.NewGetConsentUseCase(store.Consents),
		AuthorizeConsent:    usecase.NewAuthorizeConsentUseCase(store.Consents, publisher),
		RevokeConsent:       usecase.NewRevokeConsentUseCase(store.Consents, publisher),
		AnalyzeProfile:      usecase.NewAnalyzeProfileUseCase(store.Consents, analyzer, store.Profiles, publisher),
		GetProfile:          usecase.NewGetProfileUseCase(store.Profiles),
		ListTransactions:    usecase.NewListTransactionsUseCase(store.Consents, source),
		ListOffers:          listOffers,
		SimulateInstallment: simulate,
		PartnerOffers:       usecase.NewPartnerOffersUseCase(store.Offers, publisher),
		Notifications:       usecase.NewNotificationsUseCase(store.Notifications),
	}

	// Consent expiry sweep.
	sweeper, err := scheduler.NewConsentSweeper(cfg.ConsentSweepSchedule,
		usecase.NewExpireConsentsUseCase(store.Consents, publisher, logger), logger)
	if err != nil {
		return err
	}
	sweeper.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		sweeper.Stop(stopCtx)
	}()

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.ServerConfig{
		ServiceName: cfg.ServiceName,
		TLSCertFile: cfg.GRPCTLS.CertFile,
		TLSKeyFile:  cfg.GRPCTLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	}, grpcPresentation.NewMarketplaceHandler(listOffers, simulate), authenticate, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			ServiceName:     cfg.ServiceName,
			RateLimitRPS:    cfg.RateLimitRPS,
			Metrics:         httpMetrics,
			MetricsHandler:  metricsHandler,
			ReadinessChecks: store.Checks,
		}, useCases, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info(cfg.ServiceName + " stopped")
	return serveErr
}
