package wizard

import "github.com/MKhiriev/go-bank-connect/models"

// Action is a state transition request handled by [Reduce].
type Action interface {
	action()
}

type (
	// Reset discards everything and returns to find_bank.
	Reset struct{}

	FormUpdated struct{ Patch models.BankFormPatch }

	AccountNameUpdated struct {
		IBAN string
		Name string
	}

	AccountToggled struct{ IBAN string }

	// OperationStarted marks an operation of Step as loading and clears its
	// previous error.
	OperationStarted struct{ Step models.ConnectionStep }

	// OperationFailed stores Message for Step without changing the active
	// step. An empty Message (cancellation) only clears the loading flag.
	OperationFailed struct {
		Step    models.ConnectionStep
		Message string
	}

	BankFound struct{ Bank models.BankInfo }

	TANMethodsDiscovered struct{ Response models.TANMethodsResponse }

	AccountsDiscovered struct{ Accounts []models.DiscoveredAccount }

	ImportStarted struct{}

	AccountsImported struct{ Result models.ConnectionResult }

	// ImportFailed returns to review_accounts with Message.
	ImportFailed struct{ Message string }

	RecommendationLoaded struct{ Recommendation models.SyncRecommendation }

	SyncStarted struct{ Days *int }

	SyncProgressed struct{ Progress models.SyncProgress }

	SyncFinished struct{ Result models.SyncResult }

	// SyncFailed is fatal and moves the wizard to the error step.
	SyncFailed struct{ Message string }

	// SyncCanceled returns to initial_sync so the user can try again.
	SyncCanceled struct{}

	SyncSkipped struct{}

	WentBack struct{}
)

func (Reset) action()                {}
func (FormUpdated) action()          {}
func (AccountNameUpdated) action()   {}
func (AccountToggled) action()       {}
func (OperationStarted) action()     {}
func (OperationFailed) action()      {}
func (BankFound) action()            {}
func (TANMethodsDiscovered) action() {}
func (AccountsDiscovered) action()   {}
func (ImportStarted) action()        {}
func (AccountsImported) action()     {}
func (ImportFailed) action()         {}
func (RecommendationLoaded) action() {}
func (SyncStarted) action()          {}
func (SyncProgressed) action()       {}
func (SyncFinished) action()         {}
func (SyncFailed) action()           {}
func (SyncCanceled) action()         {}
func (SyncSkipped) action()          {}
func (WentBack) action()             {}
