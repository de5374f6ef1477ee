package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsExposedOnHandler(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{
		ServiceName: "marketplace-test",
		Registerer:  prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewHTTPMetrics(provider)
	require.NoError(t, err)
	m.Record(context.Background(), "GET", "/api/v1/offers", 200, 0.012)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "http_server_requests_total"), string(body))
}

func TestInitTracerWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracerConfig{ServiceName: "marketplace-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
