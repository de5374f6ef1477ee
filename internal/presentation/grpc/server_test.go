package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/service"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/cache"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/persistence/memory"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/security"
	"github.com/MiguelMaleico/credit360-smart-market/internal/infrastructure/seed"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/observability"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/tlsutil"
)

type fixture struct {
	client MarketplaceServiceClient
	health healthpb.HealthClient
	login  *usecase.LoginUseCase
	logout *usecase.LogoutUseCase
	offers *memory.OfferRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, ServerConfig{ServiceName: "marketplace-test"}, ClientConfig{Target: "passthrough:///bufnet"})
}

func newFixtureWith(t *testing.T, serverCfg ServerConfig, clientCfg ClientConfig) *fixture {
	t.Helper()
	logger := observability.NopLogger()

	offers := memory.NewOfferRepository()
	users := memory.NewUserRepository()
	sessions := cache.NewMemorySessionStore()
	hasher := security.NewBcryptHasher(4)
	require.NoError(t, seed.NewDemo(users, offers, hasher, logger).Load(context.Background()))

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret-key", Issuer: "test", Expiration: time.Hour})
	require.NoError(t, err)

	handler := NewMarketplaceHandler(
		usecase.NewListOffersUseCase(offers, memory.NewProfileRepository(), service.NewCompatibilityEngine()),
		usecase.NewSimulateInstallmentUseCase(offers),
	)
	srv, err := NewServer(serverCfg, handler,
		usecase.NewAuthenticateUseCase(jwtSvc, sessions), logger)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, client, err := Dial(clientCfg,
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fixture{
		client: client,
		health: healthpb.NewHealthClient(conn),
		login:  usecase.NewLoginUseCase(users, hasher, jwtSvc, sessions),
		logout: usecase.NewLogoutUseCase(sessions),
		offers: offers,
	}
}

func (f *fixture) token(t *testing.T) string {
	t.Helper()
	resp, err := f.login.Execute(context.Background(), dto.LoginRequest{Email: seed.BorrowerEmail, Password: seed.Password})
	require.NoError(t, err)
	return resp.Token
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestHealthCheck_NoAuth(t *testing.T) {
	f := newFixture(t)

	resp, err := f.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "marketplace-test"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestListOffers(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.ListOffers(context.Background(), &ListOffersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token := f.token(t)
	resp, err := f.client.ListOffers(withToken(token), &ListOffersRequest{
		Filters: &OfferFilters{MaxInterestRate: "0.03"},
	})
	require.NoError(t, err)
	assert.False(t, resp.ProfileAvailable)
	require.Len(t, resp.Offers, 2)
	assert.Equal(t, "Banco Alpha", resp.Offers[0].InstitutionName)
	assert.Equal(t, "0.028", resp.Offers[0].InterestRate)
	assert.Nil(t, resp.Offers[0].Compatibility)

	_, err = f.client.ListOffers(withToken(token), &ListOffersRequest{Filters: &OfferFilters{MinAmount: "lots"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	require.NoError(t, f.logout.Execute(context.Background(), token))
	_, err = f.client.ListOffers(withToken(token), &ListOffersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err), "logged-out session must be rejected")
}

func TestSimulateInstallment(t *testing.T) {
	f := newFixture(t)
	ctx := withToken(f.token(t))

	all, err := f.offers.List(context.Background())
	require.NoError(t, err)
	alpha := all[0].ID()

	resp, err := f.client.SimulateInstallment(ctx, &SimulateInstallmentRequest{OfferID: alpha, Amount: "10000", Installments: 12})
	require.NoError(t, err)
	assert.Equal(t, "BRL", resp.Currency)
	assert.Equal(t, "10000.00", resp.Amount)
	assert.Len(t, resp.Schedule, 12)
	assert.Equal(t, int32(1), resp.Schedule[0].Period)

	tests := []struct {
		name string
		req  *SimulateInstallmentRequest
		want codes.Code
	}{
		{"malformed amount", &SimulateInstallmentRequest{OfferID: alpha, Amount: "ten", Installments: 12}, codes.InvalidArgument},
		{"out of range", &SimulateInstallmentRequest{OfferID: alpha, Amount: "10000", Installments: 100}, codes.InvalidArgument},
		{"unknown offer", &SimulateInstallmentRequest{OfferID: "missing", Amount: "10000", Installments: 12}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.client.SimulateInstallment(ctx, tt.req)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestServer_TLS(t *testing.T) {
	bundle, err := tlsutil.GenerateDevBundle(t.TempDir(), "marketplace.local")
	require.NoError(t, err)
	serverCfg := ServerConfig{ServiceName: "marketplace-test", TLSCertFile: bundle.CertFile, TLSKeyFile: bundle.KeyFile}

	f := newFixtureWith(t, serverCfg, ClientConfig{
		Target:     "passthrough:///bufnet",
		CAFile:     bundle.CAFile,
		ServerName: "marketplace.local",
	})
	resp, err := f.client.ListOffers(withToken(f.token(t)), &ListOffersRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Offers, 3)

	t.Run("client with a foreign CA is refused", func(t *testing.T) {
		other, err := tlsutil.GenerateDevBundle(t.TempDir(), "marketplace.local")
		require.NoError(t, err)
		f := newFixtureWith(t, serverCfg, ClientConfig{
			Target:     "passthrough:///bufnet",
			CAFile:     other.CAFile,
			ServerName: "marketplace.local",
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = f.health.Check(ctx, &healthpb.HealthCheckRequest{})
		require.Error(t, err)
		assert.Contains(t, []codes.Code{codes.Unavailable, codes.DeadlineExceeded}, status.Code(err))
	})
}

func TestDial_BadCAFile(t *testing.T) {
	_, _, err := Dial(ClientConfig{Target: "passthrough:///bufnet", CAFile: filepath.Join(t.TempDir(), "missing.pem")})
	assert.ErrorContains(t, err, "load grpc client tls")
}

func TestToFiltersRequest(t *testing.T) {
	got, err := toFiltersRequest(&OfferFilters{MinInstallments: 12, OnlyMatchingScore: true})
	require.NoError(t, err)
	require.NotNil(t, got.MinInstallments)
	assert.Equal(t, 12, *got.MinInstallments)
	assert.Nil(t, got.MaxInstallments)
	assert.NotNil(t, got.MinScore)

	got, err = toFiltersRequest(nil)
	require.NoError(t, err)
	assert.Nil(t, got.MinScore)
}
