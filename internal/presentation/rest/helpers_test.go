package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/service"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/adapter"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/cache"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/messaging"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/persistence/memory"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/security"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/seed"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

type testAPI struct {
	handler http.Handler
	offers  *memory.OfferRepository
}

func newTestAPI(t *testing.T, cfg RouterConfig) *testAPI {
	t.Helper()
	logger := observability.NopLogger()

	offers := memory.NewOfferRepository()
	profiles := memory.NewProfileRepository()
	consents := memory.NewConsentRepository()
	users := memory.NewUserRepository()
	notifications := memory.NewNotificationRepository()
	sessions := cache.NewMemorySessionStore()
	hasher := security.NewBcryptHasher(4)

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "test",
		Expiration: time.Hour,
	})
	require.NoError(t, err)

	publisher := messaging.NewLocalEventPublisher(logger, usecase.NewNotificationProjector(notifications, logger))
	source := adapter.NewOpenFinanceSource(adapter.DefaultOpenFinanceConfig(), openbanking.NewSandboxClient())

	require.NoError(t, seed.NewDemo(users, offers, hasher, logger).Load(context.Background()))

	uc := UseCases{
		Register:            usecase.NewRegisterUseCase(users, hasher, jwtSvc, sessions, publisher),
		Login:               usecase.NewLoginUseCase(users, hasher, jwtSvc, sessions),
		Logout:              usecase.NewLogoutUseCase(sessions),
		Authenticate:        usecase.NewAuthenticateUseCase(jwtSvc, sessions),
		GetConsent:          usecase.NewGetConsentUseCase(consents),
		AuthorizeConsent:    usecase.NewAuthorizeConsentUseCase(consents, publisher),
		RevokeConsent:       usecase.NewRevokeConsentUseCase(consents, publisher),
		AnalyzeProfile:      usecase.NewAnalyzeProfileUseCase(consents, adapter.NewSimulatedProfileAnalyzer(source), profiles, publisher),
		GetProfile:          usecase.NewGetProfileUseCase(profiles),
		ListTransactions:    usecase.NewListTransactionsUseCase(consents, source),
		ListOffers:          usecase.NewListOffersUseCase(offers, profiles, service.NewCompatibilityEngine()),
		SimulateInstallment: usecase.NewSimulateInstallmentUseCase(offers),
		PartnerOffers:       usecase.NewPartnerOffersUseCase(offers, publisher),
		Notifications:       usecase.NewNotificationsUseCase(notifications),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "marketplace-test"
	}
	return &testAPI{handler: NewRouter(cfg, uc, logger), offers: offers}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: email, Password: seed.Password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.AuthResponse
	decode(t, rec, &resp)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
