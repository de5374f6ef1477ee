//go:build e2e

// Package e2e drives a running marketplaced over HTTP. Start the binary with
// SEED_DEMO_DATA=true and point MARKETPLACE_URL at it.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL string

func TestMain(m *testing.M) {
	baseURL = os.Getenv("MARKETPLACE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for the service to be ready
	for i := 0; i < 30; i++ {
		resp, err := http.Get(baseURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(baseURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestBorrowerFlow(t *testing.T) {
	// Step 1: Register a fresh borrower
	email := fmt.Sprintf("e2e-%s@example.com", uuid.NewString())
	var auth struct {
		Token string `json:"token"`
	}
	resp := call(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "E2E Borrower", "email": email, "password": "senha123",
	}, &auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Step 2: Authorize Open Finance access
	var consent map[string]any
	resp = call(t, http.MethodPost, "/api/v1/consent/authorize", auth.Token, nil, &consent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "authorized", consent["status"])

	// Step 3: Run the credit analysis
	var profile struct {
		Score int `json:"score"`
	}
	resp = call(t, http.MethodPost, "/api/v1/profile/analyze", auth.Token, nil, &profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, profile.Score, 300)

	// Step 4: Browse the ranked catalog
	var catalog struct {
		Offers []struct {
			ID            string   `json:"id"`
			MinScore      int      `json:"min_score"`
			Compatibility *float64 `json:"compatibility"`
		} `json:"offers"`
		ProfileAvailable bool `json:"profile_available"`
	}
	resp = call(t, http.MethodGet, "/api/v1/offers", auth.Token, nil, &catalog)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, catalog.ProfileAvailable)
	for _, o := range catalog.Offers {
		assert.LessOrEqual(t, o.MinScore, profile.Score)
		assert.NotNil(t, o.Compatibility)
	}

	// Step 5: Log out; the token must stop working
	resp = call(t, http.MethodPost, "/api/v1/auth/logout", auth.Token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, http.MethodGet, "/api/v1/auth/me", auth.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSimulationFlow(t *testing.T) {
	var catalog struct {
		Offers []struct {
			ID              string `json:"id"`
			MinInstallments int    `json:"min_installments"`
			MinAmount       string `json:"min_amount"`
		} `json:"offers"`
	}
	resp := call(t, http.MethodGet, "/api/v1/offers", "", nil, &catalog)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	if len(catalog.Offers) == 0 {
		t.Skip("catalog is empty; start the service with SEED_DEMO_DATA=true")
	}

	offer := catalog.Offers[0]
	var quote struct {
		Schedule []json.RawMessage `json:"schedule"`
	}
	resp = call(t, http.MethodPost, "/api/v1/offers/"+offer.ID+"/simulate", "", map[string]any{
		"amount": offer.MinAmount, "installments": offer.MinInstallments,
	}, &quote)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, quote.Schedule, offer.MinInstallments)
}

func call(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
