package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-bank-connect/internal/adapter"
	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/mock"
	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newTestModel(t *testing.T) (*wizardModel, *mock.MockBankingAPI, *mock.MockSyncer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mock.NewMockBankingAPI(ctrl)
	syncer := mock.NewMockSyncer(ctrl)
	machine := wizard.NewMachine(api, syncer, wizard.Options{}, nil)
	return newWizardModel(context.Background(), machine), api, syncer
}

func typeText(m *wizardModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *wizardModel, k tea.KeyType) tea.Cmd {
	return m.Update(tea.KeyMsg{Type: k})
}

func pressRune(m *wizardModel, r rune) tea.Cmd {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// finish runs an action command and feeds its result back.
func finish(t *testing.T, m *wizardModel, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	m.Update(msg)
}

func modelAtReview(t *testing.T) (*wizardModel, *mock.MockBankingAPI, *mock.MockSyncer) {
	t.Helper()
	m, api, syncer := newTestModel(t)

	api.EXPECT().LookupBank(gomock.Any(), "12030000").Return(models.BankInfo{BLZ: "12030000", Name: "DKB"}, nil)
	typeText(m, "12030000")
	finish(t, m, press(m, tea.KeyEnter))
	require.Equal(t, models.StepCredentials, m.state.Step)

	api.EXPECT().GetTANMethods(gomock.Any(), models.CredentialsRequest{BLZ: "12030000", Username: "erika", PIN: "1234"}).
		Return(models.TANMethodsResponse{
			Methods:       []models.TANMethod{{Code: "900", Name: "iTAN"}, {Code: "910", Name: "pushTAN", IsDecoupled: true}},
			DefaultMethod: "910",
		}, nil)
	typeText(m, "erika")
	press(m, tea.KeyTab)
	typeText(m, "1234")
	finish(t, m, press(m, tea.KeyEnter))
	require.Equal(t, models.StepTANDiscovery, m.state.Step)

	api.EXPECT().StoreCredentials(gomock.Any(), gomock.Any()).Return(models.StoreCredentialsResponse{}, nil)
	api.EXPECT().DiscoverAccounts(gomock.Any(), "12030000").Return([]models.DiscoveredAccount{
		{IBAN: "DE1", DefaultName: "Giro", Balance: decimal.NewFromInt(10), Currency: "EUR"},
		{IBAN: "DE2", DefaultName: "Savings", Balance: decimal.NewFromInt(20), Currency: "EUR"},
	}, nil)
	finish(t, m, press(m, tea.KeyEnter))
	require.Equal(t, models.StepReviewAccounts, m.state.Step)

	return m, api, syncer
}

// ── steps ────────────────────────────────────────────────────────────────────

func TestWizardModel_FindBankError(t *testing.T) {
	m, api, _ := newTestModel(t)
	api.EXPECT().LookupBank(gomock.Any(), "99999999").
		Return(models.BankInfo{}, &adapter.APIError{Status: 404, Message: "bank not found"})

	typeText(m, "99999999")
	finish(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, models.StepFindBank, m.state.Step)
	assert.Contains(t, m.View(), "bank not found")
}

func TestWizardModel_FindBankRequiresBLZ(t *testing.T) {
	m, _, _ := newTestModel(t)

	finish(t, m, press(m, tea.KeyEnter))

	assert.Contains(t, m.View(), app.MsgBLZRequired)
}

func TestWizardModel_TANSelection(t *testing.T) {
	m, api, _ := newTestModel(t)
	api.EXPECT().LookupBank(gomock.Any(), gomock.Any()).Return(models.BankInfo{BLZ: "12030000"}, nil)
	api.EXPECT().GetTANMethods(gomock.Any(), gomock.Any()).Return(models.TANMethodsResponse{
		Methods:       []models.TANMethod{{Code: "900", Name: "iTAN"}, {Code: "910", Name: "pushTAN", IsDecoupled: true}},
		DefaultMethod: "910",
	}, nil)

	typeText(m, "12030000")
	finish(t, m, press(m, tea.KeyEnter))
	typeText(m, "erika")
	press(m, tea.KeyTab)
	typeText(m, "1234")
	finish(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, 1, m.tanIdx)
	assert.Equal(t, "pushTAN", m.state.Form.TANMedium)

	press(m, tea.KeyUp)

	assert.Equal(t, 0, m.tanIdx)
	assert.Equal(t, "900", m.state.Form.TANMethod)
	assert.Empty(t, m.state.Form.TANMedium)
}

func TestWizardModel_ReviewRenameToggleAndImport(t *testing.T) {
	m, api, _ := modelAtReview(t)

	// rename DE1
	pressRune(m, 'e')
	require.True(t, m.renaming)
	for range len("Giro") {
		press(m, tea.KeyBackspace)
	}
	typeText(m, "Household")
	press(m, tea.KeyEnter)
	assert.False(t, m.renaming)
	assert.Equal(t, "Household", m.state.Accounts.Names["DE1"])

	// deselect DE2
	press(m, tea.KeyDown)
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, m.state.Accounts.Selected["DE2"])

	api.EXPECT().ImportAccounts(gomock.Any(), models.ImportAccountsRequest{
		BLZ:      "12030000",
		Accounts: []models.AccountImport{{IBAN: "DE1", Name: "Household"}},
	}).Return(models.ConnectionResult{ImportedAccounts: []models.ImportedAccount{{ID: 1, IBAN: "DE1", Name: "Household"}}}, nil)
	api.EXPECT().GetSyncRecommendation(gomock.Any(), "12030000").
		Return(models.SyncRecommendation{NeedsDaysPrompt: true, SuggestedDays: 90}, nil)

	finish(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, models.StepInitialSync, m.state.Step)
	assert.Equal(t, "90", m.daysInput.Value())
}

func TestWizardModel_CopyIBAN(t *testing.T) {
	m, _, _ := modelAtReview(t)
	var copied string
	m.writeClipboard = func(s string) error {
		copied = s
		return nil
	}

	press(m, tea.KeyDown)
	cmd := pressRune(m, 'c')
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, "DE2", copied)
	assert.Equal(t, "Copied DE2", m.status)

	m.Update(clearStatusMsg{})
	assert.Empty(t, m.status)
}

func TestWizardModel_CopyIBANFailure(t *testing.T) {
	m, _, _ := modelAtReview(t)
	m.writeClipboard = func(string) error { return errors.New("no clipboard") }

	m.Update(pressRune(m, 'c')())

	assert.Equal(t, "Copy failed: no clipboard", m.status)
}

// ── sync ─────────────────────────────────────────────────────────────────────

func modelAtInitialSync(t *testing.T) (*wizardModel, *mock.MockSyncer) {
	t.Helper()
	m, api, syncer := modelAtReview(t)
	api.EXPECT().ImportAccounts(gomock.Any(), gomock.Any()).Return(models.ConnectionResult{}, nil)
	api.EXPECT().GetSyncRecommendation(gomock.Any(), gomock.Any()).Return(models.SyncRecommendation{}, nil)
	finish(t, m, press(m, tea.KeyEnter))
	require.Equal(t, models.StepInitialSync, m.state.Step)
	return m, syncer
}

func TestWizardModel_AdaptiveSync(t *testing.T) {
	m, syncer := modelAtInitialSync(t)
	assert.Empty(t, m.daysInput.Value())

	syncer.EXPECT().Run(gomock.Any(), models.SyncStreamRequest{BLZ: "12030000"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.SyncStreamRequest, onProgress func(models.SyncProgress)) (models.SyncResult, error) {
			onProgress(models.SyncProgress{Phase: models.PhaseComplete, TransactionsCurrent: 2, TransactionsTotal: 2})
			return models.SyncResult{Success: true, TotalImported: 2, AccountsSynced: 1}, nil
		})

	finish(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, models.StepSuccess, m.state.Step)
	assert.Contains(t, m.View(), "2 transaction(s) imported from 1 account(s).")

	press(m, tea.KeyEnter)
	assert.True(t, m.quit)
}

func TestWizardModel_InvalidDays(t *testing.T) {
	m, _ := modelAtInitialSync(t)
	m.daysInput.SetValue("0")

	cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "positive")
	assert.Equal(t, models.StepInitialSync, m.state.Step)
}

func TestWizardModel_SkipSync(t *testing.T) {
	m, syncer := modelAtInitialSync(t)
	syncer.EXPECT().Abort()

	pressRune(m, 's')

	assert.Equal(t, models.StepSuccess, m.state.Step)
	assert.Contains(t, m.View(), "Initial sync skipped")
}

func TestWizardModel_SyncFailureAndRestart(t *testing.T) {
	m, syncer := modelAtInitialSync(t)
	syncer.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.SyncResult{}, errors.New("bank exploded"))

	finish(t, m, press(m, tea.KeyEnter))
	require.Equal(t, models.StepError, m.state.Step)
	assert.Contains(t, m.View(), "bank exploded")

	syncer.EXPECT().Abort()
	pressRune(m, 'r')

	assert.Equal(t, models.StepFindBank, m.state.Step)
	assert.Empty(t, m.blz.Value())
}

func TestWizardModel_SyncingView(t *testing.T) {
	m, _ := modelAtInitialSync(t)
	state := m.state
	state.Step = models.StepSyncing
	state.Sync.Progress = &models.SyncProgress{
		Phase:                      models.PhaseClassifying,
		CurrentAccount:             "DE1",
		CurrentAccountName:         "Giro",
		AccountIndex:               1,
		TotalAccounts:              2,
		TransactionsCurrent:        1,
		TransactionsTotal:          4,
		LastTransactionDescription: "Card payment",
		AccountErrors:              []string{"DE2: locked"},
	}

	m.Update(stateMsg{state: state})
	view := m.View()

	assert.Contains(t, view, "Account 1 of 2: Giro")
	assert.Contains(t, view, "1/4 transactions")
	assert.Contains(t, view, "Card payment")
	assert.Contains(t, view, "DE2: locked")
}

// ── root ─────────────────────────────────────────────────────────────────────

func TestRootModel_BuildInfoAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	root := NewRootModel(m, models.NewBuildInfo("1.2.3", "", "abc"))

	updated, _ := root.Update(tea.KeyMsg{Type: tea.KeyF1})
	root = updated.(RootModel)
	assert.Contains(t, root.View(), "1.2.3")

	updated, _ = root.Update(tea.KeyMsg{Type: tea.KeyEsc})
	root = updated.(RootModel)
	assert.NotContains(t, root.View(), "1.2.3")

	updated, cmd := root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	root = updated.(RootModel)
	assert.True(t, root.quitByUser)
	require.NotNil(t, cmd)
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: " 30 ", want: intPtr(30)},
		{in: "0", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDays(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeMessage(t *testing.T) {
	assert.Equal(t, msgBackendUnavailable, humanizeMessage(`Post "http://x": dial tcp 127.0.0.1:1: connect: connection refused`))
	assert.Equal(t, "bank not found", humanizeMessage("bank not found"))
}

func intPtr(v int) *int { return &v }
