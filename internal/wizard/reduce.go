package wizard

import (
	"maps"

	"github.com/MKhiriev/go-bank-connect/models"
)

// Reduce returns the state that follows s after a. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Reset:
		return Initial()

	case FormUpdated:
		s.Form = a.Patch.Apply(s.Form)

	case AccountNameUpdated:
		s.Accounts.Names = maps.Clone(s.Accounts.Names)
		if s.Accounts.Names == nil {
			s.Accounts.Names = make(map[string]string, 1)
		}
		s.Accounts.Names[a.IBAN] = a.Name

	case AccountToggled:
		s.Accounts.Selected = cloneSet(s.Accounts.Selected, a.IBAN, !s.Accounts.Selected[a.IBAN])

	case OperationStarted:
		s = s.withLoading(a.Step, true).withError(a.Step, "")

	case OperationFailed:
		s = s.withLoading(a.Step, false).withError(a.Step, a.Message)

	case BankFound:
		bank := a.Bank
		s.Bank = &bank
		s.Form.BLZ = bank.BLZ
		s = s.withLoading(models.StepFindBank, false)
		s.Step = models.StepCredentials

	case TANMethodsDiscovered:
		s.TAN = TANState{Methods: a.Response.Methods, DefaultMethod: a.Response.DefaultMethod}
		s.Form.TANMethod = ""
		s.Form.TANMedium = ""
		if m, ok := a.Response.DefaultSelection(); ok {
			s.Form.TANMethod = m.Code
			if m.IsDecoupled {
				s.Form.TANMedium = m.Name
			}
		}
		s = s.withLoading(models.StepCredentials, false)
		s.Step = models.StepTANDiscovery

	case AccountsDiscovered:
		s.Accounts = seedAccounts(s.Accounts, a.Accounts)
		s = s.withLoading(models.StepTANDiscovery, false)
		s.Step = models.StepReviewAccounts

	case ImportStarted:
		s = s.withLoading(models.StepReviewAccounts, true).withError(models.StepReviewAccounts, "")
		s.Step = models.StepConnecting

	case AccountsImported:
		result := a.Result
		s.Result = &result
		s.Recommendation = nil
		s = s.withLoading(models.StepReviewAccounts, false)
		s.Step = models.StepInitialSync

	case ImportFailed:
		s = s.withLoading(models.StepReviewAccounts, false).withError(models.StepReviewAccounts, a.Message)
		s.Step = models.StepReviewAccounts

	case RecommendationLoaded:
		rec := a.Recommendation
		s.Recommendation = &rec

	case SyncStarted:
		s.Sync = SyncState{Days: a.Days}
		s = s.withLoading(models.StepInitialSync, true).
			withError(models.StepInitialSync, "").
			withError(models.StepError, "")
		s.Step = models.StepSyncing

	case SyncProgressed:
		progress := a.Progress
		s.Sync.Progress = &progress

	case SyncFinished:
		result := a.Result
		s.Sync.Result = &result
		s = s.withLoading(models.StepInitialSync, false)
		s.Step = models.StepSuccess

	case SyncFailed:
		s = s.withLoading(models.StepInitialSync, false).withError(models.StepError, a.Message)
		s.Step = models.StepError

	case SyncCanceled:
		s = s.withLoading(models.StepInitialSync, false)
		s.Sync.Progress = nil
		s.Step = models.StepInitialSync

	case SyncSkipped:
		s = s.withLoading(models.StepInitialSync, false)
		s.Step = models.StepSuccess

	case WentBack:
		if prev, ok := previousStep(s); ok {
			s = s.withLoading(s.Step, false)
			s.Step = prev
		}
	}

	return s
}

// seedAccounts replaces the discovery result. Every account starts selected
// with its default name; names and selections of IBANs that were already
// known survive a re-discovery.
func seedAccounts(prev AccountsState, discovered []models.DiscoveredAccount) AccountsState {
	next := AccountsState{
		Discovered: discovered,
		Names:      make(map[string]string, len(discovered)),
		Selected:   make(map[string]bool, len(discovered)),
	}
	for _, acc := range discovered {
		next.Names[acc.IBAN] = acc.DefaultName
		next.Selected[acc.IBAN] = true

		if name, ok := prev.Names[acc.IBAN]; ok {
			next.Names[acc.IBAN] = name
		}
		if _, known := prev.Names[acc.IBAN]; known {
			next.Selected[acc.IBAN] = prev.Selected[acc.IBAN]
		}
	}
	return next
}

func previousStep(s State) (models.ConnectionStep, bool) {
	switch s.Step {
	case models.StepCredentials:
		return models.StepFindBank, true
	case models.StepTANDiscovery:
		return models.StepCredentials, true
	case models.StepReviewAccounts:
		return models.StepTANDiscovery, true
	case models.StepError:
		if s.Result != nil {
			return models.StepInitialSync, true
		}
		return models.StepFindBank, true
	default:
		return "", false
	}
}
