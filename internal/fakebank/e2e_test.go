package fakebank_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/adapter"
	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/config"
	"github.com/MKhiriev/go-bank-connect/internal/fakebank"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/service"
	"github.com/MKhiriev/go-bank-connect/internal/stream"
	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	bank    adapter.BankAdapter
	syncer  *service.SyncConsumer
	models  *service.ModelService
	machine *wizard.Machine
}

// startClient serves a fake bank and wires the client stack against it.
// The client starts with an expired access token, so its first call
// refreshes.
func startClient(t *testing.T, opts fakebank.Options) (*client, *fakebank.Auth) {
	t.Helper()

	auth := fakebank.NewAuth("e2e-secret", "fakebank", time.Minute)
	handler := fakebank.NewHandler(fakebank.NewBank(opts), auth, 0, logger.Nop())
	srv := httptest.NewServer(handler.Init())
	t.Cleanup(srv.Close)

	expired, err := auth.IssueExpired("erika")
	require.NoError(t, err)
	_, refresh, err := auth.IssuePair("erika")
	require.NoError(t, err)

	adapterCfg := config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 5 * time.Second,
		StreamTimeout:  10 * time.Second,
	}
	bank, err := adapter.NewHTTPBankAdapter(adapterCfg, config.ClientApp{Token: expired, RefreshToken: refresh}, nil)
	require.NoError(t, err)

	transport, err := stream.NewTransport(adapterCfg, bank.Tokens(), nil)
	require.NoError(t, err)

	syncer := service.NewSyncConsumer(transport, nil, config.ClientSync{QueueSize: 16}, nil)
	return &client{
		bank:    bank,
		syncer:  syncer,
		models:  service.NewModelService(transport, nil),
		machine: wizard.NewMachine(bank, syncer, wizard.Options{}, nil),
	}, auth
}

func strPtr(s string) *string { return &s }

// ── wizard ───────────────────────────────────────────────────────────────────

func TestEndToEnd_ConnectAndSync(t *testing.T) {
	c, _ := startClient(t, fakebank.DefaultOptions())
	m := c.machine
	ctx := context.Background()

	m.Open()
	m.UpdateForm(models.BankFormPatch{
		BLZ:      strPtr(fakebank.DemoBLZ),
		Username: strPtr("erika"),
		PIN:      strPtr("1234"),
	})

	require.NoError(t, m.LookupBank(ctx))
	assert.Equal(t, models.StepCredentials, m.State().Step)

	require.NoError(t, m.DiscoverTANMethods(ctx))
	assert.Equal(t, "910", m.State().Form.TANMethod)

	require.NoError(t, m.ConnectBank(ctx))
	state := m.State()
	require.Equal(t, models.StepReviewAccounts, state.Step)
	require.Len(t, state.Accounts.Discovered, 2)

	iban := state.Accounts.Discovered[0].IBAN
	m.UpdateAccountName(iban, "Household")

	require.NoError(t, m.ConfirmImport(ctx))
	state = m.State()
	require.Equal(t, models.StepInitialSync, state.Step)
	require.NotNil(t, state.Recommendation)
	assert.True(t, state.Recommendation.NeedsDaysPrompt)

	days := state.Recommendation.SuggestedDays
	require.NoError(t, m.StartInitialSync(ctx, &days))

	state = m.State()
	require.Equal(t, models.StepSuccess, state.Step)
	require.NotNil(t, state.Sync.Result)
	assert.Equal(t, 2, state.Sync.Result.AccountsSynced)
	assert.Equal(t, 6, state.Sync.Result.TotalImported)
	require.NotNil(t, state.Sync.Progress)
	assert.Equal(t, models.PhaseComplete, state.Sync.Progress.Phase)

	rec, err := c.bank.GetSyncRecommendation(ctx, fakebank.DemoBLZ)
	require.NoError(t, err)
	assert.False(t, rec.NeedsDaysPrompt)
	for _, acc := range rec.Accounts {
		if acc.IBAN == iban {
			assert.Equal(t, "Household", acc.Name)
		}
	}
}

func TestEndToEnd_GatewayNotConfigured(t *testing.T) {
	opts := fakebank.DefaultOptions()
	opts.GatewayDisabled = true
	c, _ := startClient(t, opts)
	m := c.machine

	m.UpdateForm(models.BankFormPatch{BLZ: strPtr(fakebank.DemoBLZ)})
	err := m.LookupBank(context.Background())

	require.Error(t, err)
	state := m.State()
	assert.Equal(t, models.StepFindBank, state.Step)
	assert.Equal(t, app.MsgGatewayNotConfigured, state.Error(models.StepFindBank))
}

func TestEndToEnd_SyncFailed(t *testing.T) {
	opts := fakebank.DefaultOptions()
	opts.FailSync = "Bank connection refused"
	c, _ := startClient(t, opts)

	_, err := c.syncer.Run(context.Background(), models.SyncStreamRequest{}, nil)

	var syncErr *service.SyncFailedError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "Bank connection refused", wizard.TranslateError(err))
}

// ── token refresh ────────────────────────────────────────────────────────────

func TestEndToEnd_StreamRefreshesExpiredToken(t *testing.T) {
	c, _ := startClient(t, fakebank.DefaultOptions())
	before := c.bank.Tokens().Token()

	result, err := c.syncer.Run(context.Background(), models.SyncStreamRequest{}, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEqual(t, before, c.bank.Tokens().Token())
}

func TestEndToEnd_RevokedRefreshTokenExpiresSession(t *testing.T) {
	auth := fakebank.NewAuth("e2e-secret", "fakebank", time.Minute)
	srv := httptest.NewServer(fakebank.NewHandler(fakebank.NewBank(fakebank.DefaultOptions()), auth, 0, logger.Nop()).Init())
	t.Cleanup(srv.Close)

	expired, err := auth.IssueExpired("erika")
	require.NoError(t, err)

	cfg := config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 5 * time.Second, StreamTimeout: 5 * time.Second}
	bank, err := adapter.NewHTTPBankAdapter(cfg, config.ClientApp{Token: expired, RefreshToken: "revoked"}, nil)
	require.NoError(t, err)
	transport, err := stream.NewTransport(cfg, bank.Tokens(), nil)
	require.NoError(t, err)

	_, err = service.NewSyncConsumer(transport, nil, config.ClientSync{}, nil).Run(context.Background(), models.SyncStreamRequest{}, nil)

	require.ErrorIs(t, err, stream.ErrSessionExpired)
	assert.Equal(t, app.MsgSessionExpired, wizard.TranslateError(err))
}

// ── model pull ───────────────────────────────────────────────────────────────

func TestEndToEnd_ModelPull(t *testing.T) {
	c, _ := startClient(t, fakebank.DefaultOptions())

	var frames []models.ModelPullProgress
	err := c.models.Pull(context.Background(), "qwen3:4b", func(p models.ModelPullProgress) {
		frames = append(frames, p)
	})

	require.NoError(t, err)
	require.NotEmpty(t, frames)
	assert.True(t, frames[len(frames)-1].Done())

	err = c.models.Pull(context.Background(), "missing:1b", nil)
	var pullErr *service.PullFailedError
	require.ErrorAs(t, err, &pullErr)
	assert.Equal(t, "missing:1b", pullErr.Model)
}
