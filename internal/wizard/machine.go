package wizard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-bank-connect/internal/app"
	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/models"
)

// Options tunes a [Machine].
type Options struct {
	// AutoPost is forwarded with the initial sync request.
	AutoPost bool
}

type inflight struct {
	cancel context.CancelFunc
}

// Machine runs the bank connection workflow. Async actions block until
// their network call finished; run them off the UI goroutine. Results that
// arrive after Open, Reset, Close or SkipInitialSync started a new session
// are dropped.
type Machine struct {
	api    BankingAPI
	syncer Syncer
	opts   Options

	mu         sync.Mutex
	state      State
	generation uint64
	running    map[models.ConnectionStep]*inflight

	// notifyMu keeps subscriber calls in dispatch order.
	notifyMu    sync.Mutex
	subscribers map[int]func(State)
	nextSubID   int

	logger *logger.Logger
}

// NewMachine returns a machine in the initial state.
func NewMachine(api BankingAPI, syncer Syncer, opts Options, log *logger.Logger) *Machine {
	if log == nil {
		log = logger.Nop()
	}
	return &Machine{
		api:         api,
		syncer:      syncer,
		opts:        opts,
		state:       Initial(),
		running:     make(map[models.ConnectionStep]*inflight),
		subscribers: make(map[int]func(State)),
		logger:      log,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for every new state. fn runs synchronously on the
// goroutine that caused the transition and must not call Machine actions.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn

	return func() {
		m.notifyMu.Lock()
		defer m.notifyMu.Unlock()
		delete(m.subscribers, id)
	}
}

// ── session control ──────────────────────────────────────────────────────────

// Open starts a new session. Anything still running is canceled first.
func (m *Machine) Open() { m.restart("open") }

// Reset discards the current session and starts over.
func (m *Machine) Reset() { m.restart("reset") }

// Close ends the session. Anything still running is canceled first.
func (m *Machine) Close() { m.restart("close") }

func (m *Machine) restart(reason string) {
	m.abortAll()

	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.state = Reduce(m.state, Reset{})
	next := m.state
	m.mu.Unlock()

	m.logger.Debug().Str("reason", reason).Msg("wizard session restarted")
	m.notify(next)
}

// abortAll starts a new generation, so nothing still running can apply its
// results, then cancels every operation and the sync stream.
func (m *Machine) abortAll() uint64 {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	running := m.running
	m.running = make(map[models.ConnectionStep]*inflight)
	m.mu.Unlock()

	for _, op := range running {
		op.cancel()
	}
	if m.syncer != nil {
		m.syncer.Abort()
	}
	return gen
}

// ── form mutators ────────────────────────────────────────────────────────────

// UpdateForm applies a partial form update.
func (m *Machine) UpdateForm(patch models.BankFormPatch) {
	m.dispatch(m.currentGeneration(), FormUpdated{Patch: patch})
}

// UpdateAccountName edits the name iban will be imported under.
func (m *Machine) UpdateAccountName(iban, name string) {
	m.dispatch(m.currentGeneration(), AccountNameUpdated{IBAN: iban, Name: name})
}

// ToggleAccount flips whether iban is imported.
func (m *Machine) ToggleAccount(iban string) {
	m.dispatch(m.currentGeneration(), AccountToggled{IBAN: iban})
}

// Back returns to the previous step and cancels what the current one runs.
func (m *Machine) Back() {
	m.mu.Lock()
	step := m.state.Step
	op := m.running[step]
	delete(m.running, step)
	m.mu.Unlock()

	if op != nil {
		op.cancel()
	}
	m.dispatch(m.currentGeneration(), WentBack{})
}

// ── async actions ────────────────────────────────────────────────────────────

// LookupBank resolves the BLZ in the form and advances to credentials.
func (m *Machine) LookupBank(ctx context.Context) error {
	if err := m.requireStep("lookup bank", models.StepFindBank); err != nil {
		return err
	}
	form := m.State().Form
	blz := strings.TrimSpace(form.BLZ)
	if blz == "" {
		return m.reject(models.StepFindBank, app.MsgBLZRequired)
	}

	ctx, op := m.begin(ctx, models.StepFindBank)
	defer op.done()

	bank, err := m.api.LookupBank(ctx, blz)
	if err != nil {
		return op.fail(err)
	}

	op.dispatch(BankFound{Bank: bank})
	return nil
}

// DiscoverTANMethods asks which TAN methods the entered login may use and
// preselects the default one.
func (m *Machine) DiscoverTANMethods(ctx context.Context) error {
	if err := m.requireStep("discover tan methods", models.StepCredentials); err != nil {
		return err
	}
	form := m.State().Form
	if strings.TrimSpace(form.Username) == "" || form.PIN == "" {
		return m.reject(models.StepCredentials, app.MsgCredentialsRequired)
	}

	ctx, op := m.begin(ctx, models.StepCredentials)
	defer op.done()

	resp, err := m.api.GetTANMethods(ctx, form.Credentials())
	if err != nil {
		return op.fail(err)
	}
	if len(resp.Methods) == 0 {
		op.dispatch(OperationFailed{Step: models.StepCredentials, Message: app.MsgNoTANMethods})
		return fmt.Errorf("%w: no tan methods", ErrValidation)
	}

	op.dispatch(TANMethodsDiscovered{Response: resp})
	return nil
}

// ConnectBank stores the credentials with the chosen TAN method and
// discovers the reachable accounts.
func (m *Machine) ConnectBank(ctx context.Context) error {
	if err := m.requireStep("connect bank", models.StepTANDiscovery); err != nil {
		return err
	}
	form := m.State().Form
	if form.TANMethod == "" {
		return m.reject(models.StepTANDiscovery, app.MsgTANMethodRequired)
	}

	ctx, op := m.begin(ctx, models.StepTANDiscovery)
	defer op.done()

	if _, err := m.api.StoreCredentials(ctx, form); err != nil {
		return op.fail(err)
	}

	accounts, err := m.api.DiscoverAccounts(ctx, form.BLZ)
	if err != nil {
		return op.fail(err)
	}

	op.dispatch(AccountsDiscovered{Accounts: accounts})
	return nil
}

// ConfirmImport imports the selected accounts under their edited names,
// then fetches the sync recommendation. A failing recommendation is logged
// and otherwise ignored.
func (m *Machine) ConfirmImport(ctx context.Context) error {
	if err := m.requireStep("confirm import", models.StepReviewAccounts); err != nil {
		return err
	}
	state := m.State()
	imports := state.Imports()
	if len(imports) == 0 {
		return m.reject(models.StepReviewAccounts, app.MsgNoAccountsSelected)
	}

	ctx, op := m.begin(ctx, models.StepReviewAccounts)
	defer op.done()

	op.dispatch(ImportStarted{})

	result, err := m.api.ImportAccounts(ctx, models.ImportAccountsRequest{BLZ: state.Form.BLZ, Accounts: imports})
	if err != nil {
		op.dispatch(ImportFailed{Message: TranslateError(err)})
		return err
	}
	if !op.dispatch(AccountsImported{Result: result}) {
		return nil
	}

	rec, err := m.api.GetSyncRecommendation(ctx, state.Form.BLZ)
	if err != nil {
		m.logger.Warn().Err(err).Str("blz", state.Form.BLZ).Msg("sync recommendation unavailable")
		return nil
	}
	op.dispatch(RecommendationLoaded{Recommendation: rec})
	return nil
}

// StartInitialSync hands off to the sync consumer, scoped to the connected
// bank. A nil days requests an adaptive sync. Starting it again while a
// sync runs supersedes the running one.
func (m *Machine) StartInitialSync(ctx context.Context, days *int) error {
	if err := m.requireStep("initial sync", models.StepInitialSync, models.StepSyncing); err != nil {
		return err
	}
	state := m.State()

	ctx, op := m.begin(ctx, models.StepInitialSync)
	defer op.done()

	op.dispatch(SyncStarted{Days: days})

	req := models.SyncStreamRequest{Days: days, BLZ: state.Form.BLZ}
	if m.opts.AutoPost {
		autoPost := true
		req.AutoPost = &autoPost
	}

	result, err := m.syncer.Run(ctx, req, func(p models.SyncProgress) {
		op.dispatch(SyncProgressed{Progress: p})
	})
	switch {
	case err != nil && TranslateError(err) == "":
		op.dispatch(SyncCanceled{})
		return err
	case err != nil:
		op.dispatch(SyncFailed{Message: TranslateError(err)})
		return err
	case !result.Success:
		msg := result.Message
		if msg == "" {
			msg = strings.Join(result.Errors, "; ")
		}
		if msg == "" {
			msg = "Sync failed."
		}
		op.dispatch(SyncFailed{Message: msg})
		return fmt.Errorf("sync unsuccessful: %s", msg)
	}

	op.dispatch(SyncFinished{Result: result})
	return nil
}

// SkipInitialSync cancels a running sync and finishes the wizard.
func (m *Machine) SkipInitialSync() error {
	if err := m.requireStep("skip initial sync", models.StepInitialSync, models.StepSyncing); err != nil {
		return err
	}
	gen := m.abortAll()
	m.dispatch(gen, SyncSkipped{})
	return nil
}

// ── plumbing ─────────────────────────────────────────────────────────────────

// operation is one running async action. Its results are applied only while
// it is still the current operation of its step in the current session.
type operation struct {
	m      *Machine
	step   models.ConnectionStep
	gen    uint64
	handle *inflight
}

// begin registers a cancelable operation for step, superseding one that is
// still running there, and marks the step as loading.
func (m *Machine) begin(parent context.Context, step models.ConnectionStep) (context.Context, *operation) {
	ctx, cancel := context.WithCancel(parent)
	handle := &inflight{cancel: cancel}

	m.mu.Lock()
	prev := m.running[step]
	m.running[step] = handle
	gen := m.generation
	m.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}

	op := &operation{m: m, step: step, gen: gen, handle: handle}
	op.dispatch(OperationStarted{Step: step})
	return ctx, op
}

func (op *operation) current() bool {
	return op.m.generation == op.gen && op.m.running[op.step] == op.handle
}

func (op *operation) dispatch(a Action) bool {
	return op.m.apply(op.current, a)
}

func (op *operation) fail(err error) error {
	msg := TranslateError(err)
	if msg != "" {
		op.m.logger.Debug().Err(err).Str("step", op.step.String()).Msg("wizard step failed")
	}
	op.dispatch(OperationFailed{Step: op.step, Message: msg})
	return err
}

func (op *operation) done() {
	op.m.mu.Lock()
	if op.m.running[op.step] == op.handle {
		delete(op.m.running, op.step)
	}
	op.m.mu.Unlock()
	op.handle.cancel()
}

// requireStep fails with [ErrWrongStep] unless the wizard is on one of
// allowed. Nothing is dispatched, so the current screen keeps its state.
func (m *Machine) requireStep(action string, allowed ...models.ConnectionStep) error {
	step := m.State().Step
	if slices.Contains(allowed, step) {
		return nil
	}
	m.logger.Debug().Str("action", action).Str("step", step.String()).Msg("wizard action rejected")
	return fmt.Errorf("%w: %s on step %s", ErrWrongStep, action, step)
}

func (m *Machine) reject(step models.ConnectionStep, msg string) error {
	m.dispatch(m.currentGeneration(), OperationFailed{Step: step, Message: msg})
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func (m *Machine) currentGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// dispatch applies a if gen is still the current session.
func (m *Machine) dispatch(gen uint64, a Action) bool {
	return m.apply(func() bool { return m.generation == gen }, a)
}

// apply reduces a if valid, evaluated under mu, holds, and reports whether
// it did.
func (m *Machine) apply(valid func() bool, a Action) bool {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if !valid() {
		m.mu.Unlock()
		m.logger.Debug().Str("action", fmt.Sprintf("%T", a)).Msg("dropping stale wizard result")
		return false
	}
	prevStep := m.state.Step
	m.state = Reduce(m.state, a)
	next := m.state
	m.mu.Unlock()

	if next.Step != prevStep {
		m.logger.Debug().
			Str("from", prevStep.String()).
			Str("to", next.Step.String()).
			Msg("wizard step changed")
	}
	m.notify(next)
	return true
}

// notify must be called with notifyMu held.
func (m *Machine) notify(s State) {
	for _, fn := range m.subscribers {
		fn(s)
	}
}
