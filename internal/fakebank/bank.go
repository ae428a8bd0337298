package fakebank

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/crypto"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DemoBLZ = "12030000"

	defaultTransactionsPerAccount = 3
	defaultSuggestedDays          = 90
)

// Options seeds a [Bank].
type Options struct {
	// Banks are the institutions LookupBank knows.
	Banks []models.BankInfo
	// Accounts are the accounts DiscoverAccounts returns, by BLZ.
	Accounts map[string][]models.DiscoveredAccount
	// TANMethods are offered for every login.
	TANMethods       []models.TANMethod
	DefaultTANMethod string
	// PIN is the only PIN accepted; empty accepts any.
	PIN string
	// GatewayDisabled makes every bank call fail with the
	// banking_gateway_not_configured code.
	GatewayDisabled bool
	// FailingIBANs get an account_failed event during a sync.
	FailingIBANs []string
	// FailSync makes a sync end with sync_failed after sync_started.
	FailSync string
	// TransactionsPerAccount is the number of new transactions every sync
	// finds per account.
	TransactionsPerAccount int
	// Models can be pulled through the model stream.
	Models []string
	// CredentialKey seals stored logins; empty uses a random key.
	CredentialKey string
}

// DefaultOptions seeds one demo bank with a checking and a savings account.
func DefaultOptions() Options {
	balanceDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return Options{
		Banks: []models.BankInfo{
			{BLZ: DemoBLZ, Name: "Deutsche Kreditbank Berlin", BIC: "BYLADEM1001", City: "Berlin", Supported: true},
			{BLZ: "50010517", Name: "ING-DiBa", BIC: "INGDDEFFXXX", City: "Frankfurt am Main", Supported: true},
		},
		Accounts: map[string][]models.DiscoveredAccount{
			DemoBLZ: {
				{
					IBAN:        "DE02120300000000202051",
					BLZ:         DemoBLZ,
					BIC:         "BYLADEM1001",
					BankName:    "Deutsche Kreditbank Berlin",
					OwnerName:   "Erika Mustermann",
					AccountType: "checking",
					Currency:    "EUR",
					Balance:     decimal.RequireFromString("1523.42"),
					BalanceDate: &balanceDate,
					DefaultName: "DKB Girokonto",
				},
				{
					IBAN:        "DE90120300001008877665",
					BLZ:         DemoBLZ,
					BIC:         "BYLADEM1001",
					BankName:    "Deutsche Kreditbank Berlin",
					OwnerName:   "Erika Mustermann",
					AccountType: "savings",
					Currency:    "EUR",
					Balance:     decimal.RequireFromString("10250.00"),
					BalanceDate: &balanceDate,
					DefaultName: "DKB Tagesgeld",
				},
			},
		},
		TANMethods: []models.TANMethod{
			{Code: "900", Name: "iTAN"},
			{Code: "910", Name: "pushTAN", IsDecoupled: true, DecoupledMaxPolls: 60, DecoupledFirstPollDelay: 5, DecoupledPollInterval: 2},
		},
		DefaultTANMethod:       "910",
		TransactionsPerAccount: defaultTransactionsPerAccount,
		Models:                 []string{"qwen3:4b", "llama3.2:3b"},
	}
}

type importedAccount struct {
	models.ImportedAccount
	blz          string
	lastImported *time.Time
}

// Bank holds the fake backend's state. It is safe for concurrent use.
type Bank struct {
	opts Options

	sealer crypto.Sealer

	mu sync.Mutex
	// credentials holds the sealed login per BLZ.
	credentials map[string]string
	imported    map[string]*importedAccount
	nextID      int64
	now         func() time.Time
}

// NewBank returns a bank seeded from opts.
func NewBank(opts Options) *Bank {
	if opts.TransactionsPerAccount <= 0 {
		opts.TransactionsPerAccount = defaultTransactionsPerAccount
	}
	if opts.CredentialKey == "" {
		opts.CredentialKey = uuid.NewString()
	}
	salt := uuid.New()
	sealer, err := crypto.NewSealer(opts.CredentialKey, salt[:])
	if err != nil {
		// AES-256 with a derived 32-byte key cannot fail
		panic(err)
	}
	return &Bank{
		opts:        opts,
		sealer:      sealer,
		credentials: make(map[string]string),
		imported:    make(map[string]*importedAccount),
		nextID:      1,
		now:         time.Now,
	}
}

func (b *Bank) LookupBank(blz string) (models.BankInfo, error) {
	if b.opts.GatewayDisabled {
		return models.BankInfo{}, ErrGatewayNotConfigured
	}
	for _, bank := range b.opts.Banks {
		if bank.BLZ == strings.TrimSpace(blz) {
			return bank, nil
		}
	}
	return models.BankInfo{}, fmt.Errorf("%w: %s", ErrBankNotFound, blz)
}

func (b *Bank) TANMethods(req models.CredentialsRequest) (models.TANMethodsResponse, error) {
	if err := b.checkLogin(req); err != nil {
		return models.TANMethodsResponse{}, err
	}
	return models.TANMethodsResponse{
		Methods:       slices.Clone(b.opts.TANMethods),
		DefaultMethod: b.opts.DefaultTANMethod,
	}, nil
}

func (b *Bank) StoreCredentials(form models.BankForm) (models.StoreCredentialsResponse, error) {
	if err := b.checkLogin(form.Credentials()); err != nil {
		return models.StoreCredentialsResponse{}, err
	}
	if !slices.ContainsFunc(b.opts.TANMethods, func(m models.TANMethod) bool { return m.Code == form.TANMethod }) {
		return models.StoreCredentialsResponse{}, fmt.Errorf("%w: %q", ErrUnknownTANMethod, form.TANMethod)
	}

	sealed, err := b.sealer.Seal(form)
	if err != nil {
		return models.StoreCredentialsResponse{}, fmt.Errorf("seal credentials: %w", err)
	}

	b.mu.Lock()
	b.credentials[form.BLZ] = sealed
	b.mu.Unlock()

	return models.StoreCredentialsResponse{Message: "Credentials stored."}, nil
}

func (b *Bank) DiscoverAccounts(blz string) ([]models.DiscoveredAccount, error) {
	if err := b.requireCredentials(blz); err != nil {
		return nil, err
	}
	return slices.Clone(b.opts.Accounts[blz]), nil
}

func (b *Bank) ImportAccounts(req models.ImportAccountsRequest) (models.ConnectionResult, error) {
	if err := b.requireCredentials(req.BLZ); err != nil {
		return models.ConnectionResult{}, err
	}
	if len(req.Accounts) == 0 {
		return models.ConnectionResult{}, ErrNoAccountsToImport
	}

	known := b.opts.Accounts[req.BLZ]
	for _, acc := range req.Accounts {
		if !slices.ContainsFunc(known, func(d models.DiscoveredAccount) bool { return d.IBAN == acc.IBAN }) {
			return models.ConnectionResult{}, fmt.Errorf("%w: %s", ErrUnknownAccount, acc.IBAN)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	result := models.ConnectionResult{ImportedAccounts: make([]models.ImportedAccount, 0, len(req.Accounts))}
	for _, acc := range req.Accounts {
		existing, ok := b.imported[acc.IBAN]
		if !ok {
			existing = &importedAccount{ImportedAccount: models.ImportedAccount{ID: b.nextID, IBAN: acc.IBAN}, blz: req.BLZ}
			b.nextID++
			b.imported[acc.IBAN] = existing
		}
		existing.Name = acc.Name
		result.ImportedAccounts = append(result.ImportedAccounts, existing.ImportedAccount)
	}
	result.Message = fmt.Sprintf("%d account(s) imported.", len(result.ImportedAccounts))

	return result, nil
}

// Recommendation asks for a day count while any matching account has never
// been synced.
func (b *Bank) Recommendation(blz string) models.SyncRecommendation {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec := models.SyncRecommendation{}
	for _, acc := range b.importedLocked(blz, "") {
		rec.Accounts = append(rec.Accounts, models.AccountSyncState{IBAN: acc.IBAN, Name: acc.Name, LastImportedAt: acc.lastImported})
		if acc.lastImported == nil {
			rec.NeedsDaysPrompt = true
		}
	}
	if rec.NeedsDaysPrompt {
		rec.SuggestedDays = defaultSuggestedDays
		rec.Reason = "Some accounts have never been synced."
	} else {
		rec.Reason = "All accounts were synced before; the range is derived from the last import."
	}
	return rec
}

// SyncEvents scripts the event sequence of one sync and marks the synced
// accounts as imported.
func (b *Bank) SyncEvents(req models.SyncStreamRequest) []models.SyncEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	accounts := b.importedLocked(req.BLZ, req.IBAN)
	events := []models.SyncEvent{
		models.SyncStarted{TotalAccounts: len(accounts), Message: fmt.Sprintf("Syncing %d account(s)", len(accounts))},
	}
	if b.opts.FailSync != "" {
		return append(events, models.SyncFailed{Error: b.opts.FailSync})
	}

	var (
		totalImported int
		synced        int
		errs          []string
	)
	n := b.opts.TransactionsPerAccount
	now := b.now().UTC()

	for i, acc := range accounts {
		events = append(events, models.AccountStarted{IBAN: acc.IBAN, AccountName: acc.Name, Index: i + 1, Total: len(accounts)})

		if slices.Contains(b.opts.FailingIBANs, acc.IBAN) {
			msg := "TAN approval was rejected"
			events = append(events, models.AccountFailed{IBAN: acc.IBAN, Error: msg})
			errs = append(errs, acc.IBAN+": "+msg)
			continue
		}

		events = append(events, models.AccountFetched{IBAN: acc.IBAN, NewTransactions: n, Message: fmt.Sprintf("%d new transaction(s)", n)})
		for j := 1; j <= n; j++ {
			events = append(events, models.TransactionClassified{
				IBAN:               acc.IBAN,
				Current:            j,
				Total:              n,
				Description:        fmt.Sprintf("Card payment %d", j),
				CounterAccountName: "REWE Markt GmbH",
			})
		}
		events = append(events, models.AccountCompleted{IBAN: acc.IBAN, Imported: n})

		acc.lastImported = &now
		totalImported += n
		synced++
	}

	events = append(events,
		models.SyncCompleted{TotalImported: totalImported, AccountsSynced: synced, Message: "Sync finished."},
		models.Result{
			Success:        synced > 0 || len(accounts) == 0,
			TotalImported:  totalImported,
			AccountsSynced: synced,
			Errors:         errs,
			Message:        fmt.Sprintf("Imported %d transaction(s).", totalImported),
		},
	)
	return events
}

// PullFrames scripts the progress frames of a model download.
func (b *Bank) PullFrames(model string) ([]models.ModelPullProgress, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, ErrEmptyModelName
	}
	if !slices.Contains(b.opts.Models, model) {
		return []models.ModelPullProgress{
			{Status: "pulling manifest"},
			{Error: fmt.Sprintf("pull model manifest: file does not exist: %s", model)},
		}, nil
	}

	const total = int64(4 << 20)
	frames := []models.ModelPullProgress{{Status: "pulling manifest"}}
	for completed := int64(0); completed <= total; completed += total / 4 {
		frames = append(frames, models.ModelPullProgress{
			Status:    "downloading",
			Digest:    "sha256:6a0746a1ec1a",
			Completed: completed,
			Total:     total,
		})
	}
	return append(frames,
		models.ModelPullProgress{Status: "verifying sha256 digest"},
		models.ModelPullProgress{Status: "success"},
	), nil
}

func (b *Bank) checkLogin(req models.CredentialsRequest) error {
	if _, err := b.LookupBank(req.BLZ); err != nil {
		return err
	}
	if strings.TrimSpace(req.Username) == "" || req.PIN == "" {
		return ErrInvalidCredentials
	}
	if b.opts.PIN != "" && req.PIN != b.opts.PIN {
		return ErrInvalidCredentials
	}
	return nil
}

func (b *Bank) requireCredentials(blz string) error {
	if b.opts.GatewayDisabled {
		return ErrGatewayNotConfigured
	}
	b.mu.Lock()
	sealed, ok := b.credentials[blz]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoStoredCredentials, blz)
	}

	// the stored login must still be accepted
	var form models.BankForm
	if err := b.sealer.Open(sealed, &form); err != nil {
		return fmt.Errorf("open stored credentials: %w", err)
	}
	return b.checkLogin(form.Credentials())
}

// importedLocked returns the imported accounts matching blz and iban, empty
// filters match everything, ordered by ID. b.mu must be held.
func (b *Bank) importedLocked(blz, iban string) []*importedAccount {
	var out []*importedAccount
	for _, acc := range b.imported {
		if blz != "" && acc.blz != blz {
			continue
		}
		if iban != "" && acc.IBAN != iban {
			continue
		}
		out = append(out, acc)
	}
	slices.SortFunc(out, func(a, b *importedAccount) int { return int(a.ID - b.ID) })
	return out
}
