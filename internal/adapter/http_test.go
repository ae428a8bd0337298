// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAdapter creates an httpBankAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL, token, refreshToken string) *httpBankAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}
	appCfg := config.ClientApp{Token: token, RefreshToken: refreshToken}

	a, err := NewHTTPBankAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpBankAdapter)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	_, err := utils.WriteJSON(w, v, status)
	require.NoError(t, err)
}

// ── NormalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"localhost:8080", "http://localhost:8080", false},
		{"https://bank.example/", "https://bank.example", false},
		{"  http://x:1  ", "http://x:1", false},
		{"", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── LookupBank ───────────────────────────────────────────────────────────────

func TestLookupBank_Success(t *testing.T) {
	want := models.BankInfo{BLZ: "12030000", Name: "Deutsche Kreditbank", BIC: "BYLADEM1001", Supported: true}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/banking/banks/12030000", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(utils.RequestIDHeader))
		writeJSON(t, w, http.StatusOK, want)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	got, err := a.LookupBank(context.Background(), "12030000")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLookupBank_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, models.APIErrorBody{Detail: "unknown BLZ", Code: "bank_not_found"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	_, err := a.LookupBank(context.Background(), "00000000")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, HasCode(err, "bank_not_found"))
	assert.Equal(t, "HTTP 404: unknown BLZ", err.Error())
}

// ── GetTANMethods ────────────────────────────────────────────────────────────

func TestGetTANMethods_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/banking/tan-methods", r.URL.Path)

		var body models.CredentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.CredentialsRequest{BLZ: "1", Username: "u", PIN: "p"}, body)

		writeJSON(t, w, http.StatusOK, models.TANMethodsResponse{
			Methods:       []models.TANMethod{{Code: "900"}, {Code: "910", Name: "pushTAN", IsDecoupled: true}},
			DefaultMethod: "910",
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	got, err := a.GetTANMethods(context.Background(), models.CredentialsRequest{BLZ: "1", Username: "u", PIN: "p"})

	require.NoError(t, err)
	assert.Len(t, got.Methods, 2)
	assert.Equal(t, "910", got.DefaultMethod)
}

func TestGetTANMethods_GatewayNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadGateway, models.APIErrorBody{
			Detail: "FinTS product id missing",
			Code:   "banking_gateway_not_configured",
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	_, err := a.GetTANMethods(context.Background(), models.CredentialsRequest{})

	assert.ErrorIs(t, err, ErrBadGateway)
	assert.True(t, HasCode(err, "banking_gateway_not_configured"))
}

// ── DiscoverAccounts / ImportAccounts ────────────────────────────────────────

func TestDiscoverAccounts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/banking/accounts/discover", r.URL.Path)
		_, _ = w.Write([]byte(`{"accounts":[{"iban":"DE1","blz":"1","balance":"1234.56","default_name":"Giro"}]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	got, err := a.DiscoverAccounts(context.Background(), "1")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "DE1", got[0].IBAN)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(got[0].Balance))
}

func TestImportAccounts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body models.ImportAccountsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1", body.BLZ)
		assert.Equal(t, []models.AccountImport{{IBAN: "DE1", Name: "My Custom Name"}}, body.Accounts)

		writeJSON(t, w, http.StatusOK, models.ConnectionResult{
			Message:          "1 account imported",
			ImportedAccounts: []models.ImportedAccount{{ID: 7, IBAN: "DE1", Name: "My Custom Name"}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	got, err := a.ImportAccounts(context.Background(), models.ImportAccountsRequest{
		BLZ:      "1",
		Accounts: []models.AccountImport{{IBAN: "DE1", Name: "My Custom Name"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "1 account imported", got.Message)
	assert.Len(t, got.ImportedAccounts, 1)
}

func TestGetSyncRecommendation_PassesBLZ(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("blz"))
		writeJSON(t, w, http.StatusOK, models.SyncRecommendation{NeedsDaysPrompt: true, SuggestedDays: 90})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "tok", "")
	got, err := a.GetSyncRecommendation(context.Background(), "1")

	require.NoError(t, err)
	assert.True(t, got.NeedsDaysPrompt)
	assert.Equal(t, 90, got.SuggestedDays)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

func TestUnauthorized_RefreshesOnceAndRetries(t *testing.T) {
	var calls, refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		var body models.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref", body.RefreshToken)
		w.Header().Set("Authorization", "Bearer fresh")
	})
	mux.HandleFunc("/api/banking/banks/{blz}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, http.StatusOK, models.BankInfo{BLZ: r.PathValue("blz")})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "ref")
	got, err := a.LookupBank(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, "1", got.BLZ)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, "fresh", a.Tokens().Token())
}

func TestUnauthorized_NoRefreshToken(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "")
	_, err := a.LookupBank(context.Background(), "1")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnauthorized_RefreshFails(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, models.APIErrorBody{Detail: "expired", Code: "token_expired"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, "stale", "ref")
	_, err := a.LookupBank(context.Background(), "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, HasCode(err, "token_expired"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestProactiveRefresh_ExpiringJWT(t *testing.T) {
	expiring, err := utils.GenerateJWTToken("fakebank", "1", 5*time.Second, "k")
	require.NoError(t, err)

	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		w.Header().Set("Authorization", "Bearer fresh")
	})
	mux.HandleFunc("/api/banking/banks/{blz}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, models.BankInfo{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, expiring, "ref")
	_, err = a.LookupBank(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, int32(1), refreshes.Load())
}
