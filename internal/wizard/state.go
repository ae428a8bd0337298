package wizard

import (
	"maps"

	"github.com/MKhiriev/go-bank-connect/models"
)

// State is the complete wizard state. It is replaced as a whole on every
// transition; maps and slices inside are never modified after publication.
type State struct {
	Step models.ConnectionStep
	Form models.BankForm

	Bank *models.BankInfo
	TAN  TANState

	Accounts AccountsState

	// Result is set once the import succeeded.
	Result *models.ConnectionResult
	// Recommendation is the optional sync advice fetched after the import.
	Recommendation *models.SyncRecommendation

	Sync SyncState

	// Loading and Errors are keyed by the step that started the operation,
	// so a failure on one step never hides the error of another.
	Loading map[models.ConnectionStep]bool
	Errors  map[models.ConnectionStep]string
}

// TANState holds the methods offered for the current credentials.
type TANState struct {
	Methods       []models.TANMethod
	DefaultMethod string
}

// AccountsState holds discovery results and the user's edits to them.
type AccountsState struct {
	Discovered []models.DiscoveredAccount
	// Names is the editable display name per IBAN; it is what the import
	// submits.
	Names map[string]string
	// Selected marks the IBANs to import.
	Selected map[string]bool
}

// SyncState tracks the initial sync.
type SyncState struct {
	Days     *int
	Progress *models.SyncProgress
	Result   *models.SyncResult
}

// Initial returns the state of a freshly opened wizard.
func Initial() State {
	return State{Step: models.StepFindBank}
}

// IsLoading reports whether an operation started from step is running.
func (s State) IsLoading(step models.ConnectionStep) bool {
	return s.Loading[step]
}

// Error returns the message of the last failed operation of step.
func (s State) Error(step models.ConnectionStep) string {
	return s.Errors[step]
}

// SelectedMethod returns the TAN method named in the form.
func (s State) SelectedMethod() (models.TANMethod, bool) {
	for _, m := range s.TAN.Methods {
		if m.Code == s.Form.TANMethod {
			return m, true
		}
	}
	return models.TANMethod{}, false
}

// Imports returns the selected accounts in discovery order, each with its
// edited name. Blank names fall back to the account's default name.
func (s State) Imports() []models.AccountImport {
	imports := make([]models.AccountImport, 0, len(s.Accounts.Discovered))
	for _, acc := range s.Accounts.Discovered {
		if !s.Accounts.Selected[acc.IBAN] {
			continue
		}
		name := s.Accounts.Names[acc.IBAN]
		if name == "" {
			name = acc.DefaultName
		}
		imports = append(imports, models.AccountImport{IBAN: acc.IBAN, Name: name})
	}
	return imports
}

func (s State) withLoading(step models.ConnectionStep, loading bool) State {
	s.Loading = cloneSet(s.Loading, step, loading)
	return s
}

func (s State) withError(step models.ConnectionStep, msg string) State {
	s.Errors = cloneSet(s.Errors, step, msg)
	return s
}

// cloneSet returns a copy of m with key set to v; zero values delete the key.
func cloneSet[K comparable, V comparable](m map[K]V, key K, v V) map[K]V {
	out := maps.Clone(m)
	if out == nil {
		out = make(map[K]V, 1)
	}
	var zero V
	if v == zero {
		delete(out, key)
	} else {
		out[key] = v
	}
	return out
}
