package fakebank

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/utils"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ──────────────────────────────────────────────────────────────────

type testBackend struct {
	router http.Handler
	auth   *Auth
	bank   *Bank
	access string
}

func newTestBackend(t *testing.T, opts Options) *testBackend {
	t.Helper()
	bank := NewBank(opts)
	auth := NewAuth("test-secret", "fakebank", time.Minute)
	access, _, err := auth.IssuePair("erika")
	require.NoError(t, err)

	return &testBackend{
		router: NewHandler(bank, auth, 0, logger.Nop()).Init(),
		auth:   auth,
		bank:   bank,
		access: access,
	}
}

func (b *testBackend) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if b.access != "" {
		req.Header.Set("Authorization", "Bearer "+b.access)
	}
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIErrorBody {
	t.Helper()
	var body models.APIErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ── auth ─────────────────────────────────────────────────────────────────────

func TestHandler_RejectsMissingToken(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	b.access = ""

	rec := b.do(t, http.MethodGet, "/api/banking/banks/"+DemoBLZ, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_RejectsExpiredToken(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	expired, err := b.auth.IssueExpired("erika")
	require.NoError(t, err)
	b.access = expired

	rec := b.do(t, http.MethodGet, "/api/banking/banks/"+DemoBLZ, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Refresh(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	_, refresh, err := b.auth.IssuePair("erika")
	require.NoError(t, err)
	b.access = ""

	rec := b.do(t, http.MethodPost, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refresh})

	require.Equal(t, http.StatusOK, rec.Code)
	token, err := utils.ParseBearerToken(rec.Header().Get("Authorization"))
	require.NoError(t, err)
	subject, err := b.auth.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "erika", subject)
}

func TestHandler_RefreshRejectsRevokedToken(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	_, refresh, err := b.auth.IssuePair("erika")
	require.NoError(t, err)
	b.auth.Revoke(refresh)

	rec := b.do(t, http.MethodPost, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refresh})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, app.CodeTokenExpired, decodeError(t, rec).Code)
}

// ── banking ──────────────────────────────────────────────────────────────────

func TestHandler_LookupBank(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodGet, "/api/banking/banks/"+DemoBLZ, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(utils.RequestIDHeader))

	var bank models.BankInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bank))
	assert.Equal(t, DemoBLZ, bank.BLZ)

	rec = b.do(t, http.MethodGet, "/api/banking/banks/99999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, app.CodeBankNotFound, decodeError(t, rec).Code)
}

func TestHandler_GatewayNotConfigured(t *testing.T) {
	opts := DefaultOptions()
	opts.GatewayDisabled = true
	b := newTestBackend(t, opts)

	rec := b.do(t, http.MethodPost, "/api/banking/tan-methods", models.CredentialsRequest{BLZ: DemoBLZ, Username: "u", PIN: "p"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, app.CodeBankingGatewayNotConfigured, decodeError(t, rec).Code)
}

func TestHandler_InvalidJSON(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	req := httptest.NewRequest(http.MethodPost, "/api/banking/credentials", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+b.access)
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DiscoverWithoutCredentials(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodPost, "/api/banking/accounts/discover", models.DiscoverAccountsRequest{BLZ: DemoBLZ})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_ConnectAndImport(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodPost, "/api/banking/credentials", models.BankForm{BLZ: DemoBLZ, Username: "erika", PIN: "1234", TANMethod: "910"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(t, http.MethodPost, "/api/banking/accounts/discover", models.DiscoverAccountsRequest{BLZ: DemoBLZ})
	require.Equal(t, http.StatusOK, rec.Code)
	var discovered models.DiscoverAccountsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &discovered))
	require.Len(t, discovered.Accounts, 2)
	assert.Equal(t, "1523.42", discovered.Accounts[0].Balance.StringFixed(2))

	rec = b.do(t, http.MethodPost, "/api/banking/accounts/import", models.ImportAccountsRequest{
		BLZ:      DemoBLZ,
		Accounts: []models.AccountImport{{IBAN: discovered.Accounts[0].IBAN, Name: "Household"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(t, http.MethodGet, "/api/banking/sync/recommendation?blz="+DemoBLZ, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rec0 models.SyncRecommendation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rec0))
	assert.True(t, rec0.NeedsDaysPrompt)
	require.Len(t, rec0.Accounts, 1)
	assert.Equal(t, "Household", rec0.Accounts[0].Name)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodDelete, "/api/auth/refresh", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// ── streams ──────────────────────────────────────────────────────────────────

func TestHandler_SyncStream(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	rec := b.do(t, http.MethodPost, "/api/banking/credentials", models.BankForm{BLZ: DemoBLZ, Username: "erika", PIN: "1234", TANMethod: "910"})
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := b.bank.ImportAccounts(models.ImportAccountsRequest{
		BLZ:      DemoBLZ,
		Accounts: []models.AccountImport{{IBAN: "DE02120300000000202051", Name: "Giro"}},
	})
	require.NoError(t, err)

	rec = b.do(t, http.MethodPost, "/api/banking/sync/stream", models.SyncStreamRequest{BLZ: DemoBLZ})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: sync_started\ndata: {"))
	assert.Contains(t, body, `"event_type":"account_started"`)
	assert.True(t, strings.HasSuffix(body, "\n\n"))
	assert.Less(t, strings.Index(body, "event: sync_completed"), strings.Index(body, "event: result"))
}

func TestHandler_SyncStreamRequiresCredentials(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodPost, "/api/banking/sync/stream", models.SyncStreamRequest{BLZ: DemoBLZ})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_PullModel(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	rec := b.do(t, http.MethodPost, "/api/models/pull/stream", models.ModelPullRequest{Model: "qwen3:4b"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "event:")
	assert.Contains(t, body, `data: {"status":"success"}`)

	rec = b.do(t, http.MethodPost, "/api/models/pull/stream", models.ModelPullRequest{Model: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CompressesJSON(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	req := httptest.NewRequest(http.MethodGet, "/api/banking/banks/"+DemoBLZ, nil)
	req.Header.Set("Authorization", "Bearer "+b.access)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	var bank models.BankInfo
	require.NoError(t, json.NewDecoder(zr).Decode(&bank))
	assert.Equal(t, DemoBLZ, bank.BLZ)
}

func TestHandler_StreamNotCompressed(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(models.ModelPullRequest{Model: "qwen3:4b"}))
	req := httptest.NewRequest(http.MethodPost, "/api/models/pull/stream", &buf)
	req.Header.Set("Authorization", "Bearer "+b.access)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Body.String(), `data: {"status":"success"}`)
}

// ── validation ───────────────────────────────────────────────────────────────

func TestHandler_RejectsInvalidRequests(t *testing.T) {
	b := newTestBackend(t, DefaultOptions())
	zero := 0

	tests := []struct {
		name string
		path string
		body any
	}{
		{name: "short blz", path: "/api/banking/tan-methods", body: models.CredentialsRequest{BLZ: "1203", Username: "erika", PIN: "1234"}},
		{name: "missing tan method", path: "/api/banking/credentials", body: models.BankForm{BLZ: DemoBLZ, Username: "erika", PIN: "1234"}},
		{name: "bad iban", path: "/api/banking/accounts/import", body: models.ImportAccountsRequest{
			BLZ:      DemoBLZ,
			Accounts: []models.AccountImport{{IBAN: "DE03120300000000202051", Name: "Giro"}},
		}},
		{name: "zero days", path: "/api/banking/sync/stream", body: models.SyncStreamRequest{Days: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec).Detail, ErrInvalidRequest.Error())
		})
	}
}
